package main

import (
	"testing"

	"github.com/jorge-barreto/quill/internal/workflow"
)

func TestIsPath(t *testing.T) {
	for arg, want := range map[string]bool{
		"root":                        true,
		"/":                           true,
		"0":                           true,
		"1.2.0":                       true,
		"":                            false,
		"node-1718000000000-1a2b3c4d": false,
		"root-node-1":                 false,
	} {
		if got := isPath(arg); got != want {
			t.Errorf("isPath(%q) = %v, want %v", arg, got, want)
		}
	}
}

func TestFallbackCommand(t *testing.T) {
	tests := map[workflow.Stage]string{
		workflow.StageNone:        `quill new "<topic>"`,
		workflow.StageOutline:     "quill retrieve",
		workflow.StageRetrieval:   "quill watch retrieval",
		workflow.StageComposition: "quill compose",
	}
	for stage, want := range tests {
		if got := fallbackCommand(stage); got != want {
			t.Errorf("fallbackCommand(%s) = %q, want %q", stage, got, want)
		}
	}
}

func TestAdoptHint(t *testing.T) {
	tests := map[workflow.Stage]string{
		workflow.StageNone:        "",
		workflow.StageOutline:     "",
		workflow.StageRetrieval:   "quill watch retrieval",
		workflow.StageComposition: "quill run",
		workflow.StageDone:        "quill status --article",
	}
	for stage, want := range tests {
		if got := adoptHint(stage); got != want {
			t.Errorf("adoptHint(%s) = %q, want %q", stage, got, want)
		}
	}
}
