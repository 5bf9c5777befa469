package ux

import (
	"fmt"

	"github.com/jorge-barreto/quill/internal/outline"
	"github.com/jorge-barreto/quill/internal/state"
	"github.com/jorge-barreto/quill/internal/workflow"
)

var stages = []workflow.Stage{workflow.StageOutline, workflow.StageRetrieval, workflow.StageComposition}

// RenderStatus prints the full status display for the active process.
func RenderStatus(ps state.ProcessState, timing *state.Timing) {
	current := workflow.CurrentStage(ps)
	if current == workflow.StageNone {
		fmt.Fprintf(Out, "%s  %s\n", bold("Process:"), dim("(none)"))
		return
	}

	fmt.Fprintf(Out, "%s %s\n", bold("Process:"), ps.ProcessID)
	if ps.Topic != "" {
		fmt.Fprintf(Out, "%s   %s\n", bold("Topic:"), ps.Topic)
	}
	if current == workflow.StageDone {
		fmt.Fprintf(Out, "%s   %s\n", bold("Stage:"), bold(green("done")))
	} else {
		fmt.Fprintf(Out, "%s   %s\n", bold("Stage:"), current)
	}

	fmt.Fprintf(Out, "\n%s\n", bold("Stages:"))
	for i, st := range stages {
		marker := "  "
		mark := dim("pending")
		switch {
		case current > st:
			mark = green("done")
		case current == st:
			marker = yellow("→") + " "
			mark = yellow("active")
		}
		fmt.Fprintf(Out, "  %s%s  %-12s %s  %s\n", marker, dim(fmt.Sprint(i+1)), st, mark, duration(timing, st.String()))
	}

	fmt.Fprintf(Out, "\n%s\n", bold("Outline:"))
	if ps.Outline == nil {
		fmt.Fprintf(Out, "  %s\n", dim("(unknown)"))
	} else {
		fmt.Fprintf(Out, "  %s, %d sections to research\n", ps.Outline.Title, len(outline.Leaves(ps.Outline)))
	}

	if ps.RetrievalStatus != nil {
		fmt.Fprintf(Out, "\n%s\n", bold("Retrieval:"))
		RenderRetrieval(ps.RetrievalStatus)
	}
	if ps.CompositionStatus != "" {
		fmt.Fprintf(Out, "\n%s\n", bold("Composition:"))
		RenderComposition(ps.CompositionStatus)
		if ps.ArticleContent != "" {
			fmt.Fprintf(Out, "  %s\n", dim(fmt.Sprintf("article: %d bytes", len(ps.ArticleContent))))
		}
	}
	fmt.Fprintln(Out)
}

func duration(timing *state.Timing, stage string) string {
	if timing == nil {
		return ""
	}
	e, ok := timing.Last(stage)
	if !ok || e.Duration == "" {
		return ""
	}
	return dim("(" + e.Duration + ")")
}
