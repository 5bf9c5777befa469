package ux

import (
	"fmt"
	"strings"

	"github.com/jorge-barreto/quill/internal/backend"
	"github.com/jorge-barreto/quill/internal/outline"
	"github.com/jorge-barreto/quill/internal/progress"
)

const barWidth = 30

// RenderOutline prints the tree with the path of each section, which the
// outline commands accept.
func RenderOutline(tree *outline.Node) {
	if tree == nil {
		fmt.Fprintf(Out, "  %s\n", dim("(no outline)"))
		return
	}
	outline.Walk(tree, func(n *outline.Node, p outline.Path) bool {
		indent := strings.Repeat("  ", len(p))
		fmt.Fprintf(Out, "  %-8s %s%s %s\n", dim(p.String()), indent, bold(n.Title), dim("["+n.ID+"]"))
		if n.Summary != "" {
			fmt.Fprintf(Out, "  %-8s %s  %s\n", "", indent, n.Summary)
		}
		return true
	})
}

func bar(pct float64) string {
	filled := int(pct / 100 * barWidth)
	if filled > barWidth {
		filled = barWidth
	}
	return green(strings.Repeat("█", filled)) + dim(strings.Repeat("░", barWidth-filled))
}

// RetrievalProgress prints the one-line overall progress of st.
func RetrievalProgress(st *backend.RetrievalOverallStatus) {
	pct := progress.CompletionPercentage(st)
	fmt.Fprintf(Out, "  %s %3.0f%%  %d/%d sections  %s\n",
		bar(pct), pct, st.CompletedLeafNodes, st.TotalLeafNodes, st.OverallStatusMessage)
}

// RenderRetrieval prints overall progress followed by one line per leaf.
func RenderRetrieval(st *backend.RetrievalOverallStatus) {
	if st == nil {
		fmt.Fprintf(Out, "  %s\n", dim("(retrieval not started)"))
		return
	}
	RetrievalProgress(st)
	if st.ErrorMessage != "" {
		fmt.Fprintf(Out, "  %s\n", red(st.ErrorMessage))
	}
	for _, l := range progress.SortedLeaves(st) {
		switch {
		case l.ErrorMessage != "":
			fmt.Fprintf(Out, "    %s %s  %s\n", red("✗"), l.Title, red(l.ErrorMessage))
		case l.IsCompleted:
			fmt.Fprintf(Out, "    %s %s  %s\n", green("✓"), l.Title, dim(fmt.Sprintf("%d docs", len(l.RetrievedDocs))))
		default:
			detail := l.StatusMessage
			if l.CurrentQuery != "" {
				detail += ": " + l.CurrentQuery
			}
			fmt.Fprintf(Out, "    %s %s  %s\n", yellow("…"), l.Title, dim(detail))
		}
	}
}

// RenderComposition prints the composition activity line.
func RenderComposition(status string) {
	switch status {
	case backend.CompositionCompleted:
		fmt.Fprintf(Out, "  %s %3d%%  %s\n", bar(100), 100, green("Completed"))
		return
	case backend.CompositionError:
		fmt.Fprintf(Out, "  %s\n", red("✗ Composition failed"))
		return
	case "", backend.CompositionNotStarted:
		fmt.Fprintf(Out, "  %s\n", dim("(composition not started)"))
		return
	}
	a := progress.CurrentActivity(status)
	fmt.Fprintf(Out, "  %s %3d%%  %s  %s\n", bar(float64(a.Progress)), a.Progress, bold(a.Label), dim(a.Description))
}
