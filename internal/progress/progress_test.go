package progress

import (
	"testing"

	"github.com/jorge-barreto/quill/internal/backend"
)

func status(total, completed int) *backend.RetrievalOverallStatus {
	return &backend.RetrievalOverallStatus{TotalLeafNodes: total, CompletedLeafNodes: completed}
}

func TestIsComplete(t *testing.T) {
	tests := []struct {
		name string
		s    *backend.RetrievalOverallStatus
		want bool
	}{
		{"nil", nil, false},
		{"no leaves", status(0, 0), false},
		{"partial", status(3, 2), false},
		{"done", status(3, 3), true},
	}
	for _, tt := range tests {
		if got := IsComplete(tt.s); got != tt.want {
			t.Fatalf("%s: IsComplete = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestCompletionPercentage(t *testing.T) {
	tests := []struct {
		s    *backend.RetrievalOverallStatus
		want float64
	}{
		{nil, 0},
		{status(0, 0), 0},
		{status(4, 2), 50},
		{status(3, 1), 100.0 / 3},
		{status(3, 3), 100},
	}
	for _, tt := range tests {
		if got := CompletionPercentage(tt.s); got != tt.want {
			t.Fatalf("CompletionPercentage(%+v) = %v, want %v", tt.s, got, tt.want)
		}
	}
}

func TestSortedAndFailedLeaves(t *testing.T) {
	s := &backend.RetrievalOverallStatus{LeafNodes: map[string]backend.LeafNodeStatus{
		"n2": {NodeID: "n2", Title: "Beta", ErrorMessage: "search failed"},
		"n1": {NodeID: "n1", Title: "Alpha"},
		"n3": {NodeID: "n3", Title: "Gamma", ErrorMessage: "timeout"},
	}}
	sorted := SortedLeaves(s)
	if len(sorted) != 3 || sorted[0].NodeID != "n1" || sorted[2].NodeID != "n3" {
		t.Fatalf("sorted = %+v", sorted)
	}
	failed := FailedLeaves(s)
	if len(failed) != 2 || failed[0].NodeID != "n2" || failed[1].NodeID != "n3" {
		t.Fatalf("failed = %+v", failed)
	}
}

func TestCompositionStatusPredicates(t *testing.T) {
	tests := []struct {
		status            string
		terminal, running bool
	}{
		{"", false, false},
		{"Not Started", false, false},
		{"In Progress", false, true},
		{"Composition In Progress", false, true},
		{"正在生成主体内容...", false, true},
		{"Completed", true, false},
		{"Error", true, false},
	}
	for _, tt := range tests {
		if got := IsCompositionTerminal(tt.status); got != tt.terminal {
			t.Fatalf("IsCompositionTerminal(%q) = %v", tt.status, got)
		}
		if got := IsCompositionRunning(tt.status); got != tt.running {
			t.Fatalf("IsCompositionRunning(%q) = %v", tt.status, got)
		}
	}
}
