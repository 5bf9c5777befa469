package ux

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"github.com/jorge-barreto/quill/internal/backend"
	"github.com/jorge-barreto/quill/internal/outline"
	"github.com/jorge-barreto/quill/internal/state"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prevOut, prevNoColor, prevNow := Out, color.NoColor, now
	Out, color.NoColor = &buf, true
	now = func() time.Time { return time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC) }
	t.Cleanup(func() { Out, color.NoColor, now = prevOut, prevNoColor, prevNow })
	return &buf
}

func TestStageHeader(t *testing.T) {
	buf := capture(t)
	StageHeader(2, 3, "retrieval", "researching 5 sections")
	got := buf.String()
	if !strings.Contains(got, "[09:30:00]  Stage 2/3: retrieval (researching 5 sections)") {
		t.Fatalf("header = %q", got)
	}
}

func TestStageCompleteAndFail(t *testing.T) {
	buf := capture(t)
	StageComplete("retrieval", "1m 05s")
	StageFail("composition", "backend returned 500")
	got := buf.String()
	for _, want := range []string{"✓ retrieval complete (1m 05s)", "✗ composition failed: backend returned 500"} {
		if !strings.Contains(got, want) {
			t.Fatalf("missing %q in %q", want, got)
		}
	}
}

func TestError(t *testing.T) {
	capture(t)
	var buf bytes.Buffer
	Error(&buf, errors.New("boom"))
	if buf.String() != "error: boom\n" {
		t.Fatalf("got %q", buf.String())
	}
}

func TestCheck(t *testing.T) {
	buf := capture(t)
	Check(true, "config", "using defaults")
	Check(false, "backend", "connection refused")
	want := "  ✓ config     using defaults\n  ✗ backend    connection refused\n"
	if got := buf.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRenderOutline(t *testing.T) {
	buf := capture(t)
	RenderOutline(&outline.Node{ID: "R", Title: "Topic", Children: []*outline.Node{
		{ID: "a", Title: "Intro", Summary: "Why it matters", Level: 1, Children: []*outline.Node{
			{ID: "a1", Title: "Scope", Level: 2},
		}},
	}})
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("lines = %q", lines)
	}
	if !strings.HasPrefix(strings.TrimSpace(lines[0]), "root") || !strings.Contains(lines[0], "Topic [R]") {
		t.Fatalf("root line = %q", lines[0])
	}
	if !strings.Contains(lines[1], "0 ") || !strings.Contains(lines[1], "Intro [a]") {
		t.Fatalf("section line = %q", lines[1])
	}
	if !strings.Contains(lines[2], "Why it matters") {
		t.Fatalf("summary line = %q", lines[2])
	}
	if !strings.Contains(lines[3], "0.0") || !strings.Contains(lines[3], "Scope [a1]") {
		t.Fatalf("nested line = %q", lines[3])
	}
}

func TestRenderRetrieval(t *testing.T) {
	buf := capture(t)
	RenderRetrieval(&backend.RetrievalOverallStatus{
		OverallStatusMessage: "Retrieval In Progress",
		TotalLeafNodes:       3,
		CompletedLeafNodes:   1,
		LeafNodes: map[string]backend.LeafNodeStatus{
			"b": {NodeID: "b", Title: "Beta", StatusMessage: "Searching", CurrentQuery: "beta papers"},
			"a": {NodeID: "a", Title: "Alpha", IsCompleted: true, RetrievedDocs: make([]backend.DocumentPreview, 3)},
			"c": {NodeID: "c", Title: "Gamma", ErrorMessage: "quota exceeded"},
		},
	})
	got := buf.String()
	for _, want := range []string{" 33%  1/3 sections", "✓ Alpha  3 docs", "… Beta  Searching: beta papers", "✗ Gamma  quota exceeded"} {
		if !strings.Contains(got, want) {
			t.Fatalf("missing %q in %q", want, got)
		}
	}
	if strings.Index(got, "Alpha") > strings.Index(got, "Beta") {
		t.Fatal("leaves should be sorted by title")
	}
}

func TestRenderComposition(t *testing.T) {
	tests := []struct {
		status string
		want   string
	}{
		{"正在生成引言和结论...", " 90%  正在生成引言和结论..."},
		{"Composition In Progress", " 70%  Thinking"},
		{backend.CompositionCompleted, "100%  Completed"},
		{backend.CompositionError, "Composition failed"},
		{backend.CompositionNotStarted, "not started"},
	}
	for _, tt := range tests {
		buf := capture(t)
		RenderComposition(tt.status)
		if !strings.Contains(buf.String(), tt.want) {
			t.Errorf("%q: got %q, want %q", tt.status, buf.String(), tt.want)
		}
	}
}

func TestRenderStatus(t *testing.T) {
	buf := capture(t)
	RenderStatus(state.ProcessState{}, nil)
	if !strings.Contains(buf.String(), "(none)") {
		t.Fatalf("got %q", buf.String())
	}

	buf = capture(t)
	timing := &state.Timing{Entries: []state.TimingEntry{{Stage: "outline", Duration: "0m 42s"}}}
	RenderStatus(state.ProcessState{
		ProcessID: "p1",
		Topic:     "AI in education",
		Outline:   &outline.Node{ID: "R", Title: "AI in education", Children: []*outline.Node{{ID: "a", Title: "A"}}},
		RetrievalStatus: &backend.RetrievalOverallStatus{
			TotalLeafNodes: 1, CompletedLeafNodes: 0,
		},
	}, timing)
	got := buf.String()
	for _, want := range []string{"Process: p1", "Stage:   retrieval", "outline      done  (0m 42s)", "→ 2  retrieval    active", "1 sections to research"} {
		if !strings.Contains(got, want) {
			t.Fatalf("missing %q in %q", want, got)
		}
	}
}
