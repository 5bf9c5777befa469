// Package progress derives completion and activity signals from backend
// status payloads.
package progress

import (
	"sort"

	"github.com/jorge-barreto/quill/internal/backend"
)

// IsComplete reports whether every leaf section has finished retrieval.
// A status with no known leaves is never complete.
func IsComplete(s *backend.RetrievalOverallStatus) bool {
	if s == nil {
		return false
	}
	return s.TotalLeafNodes > 0 && s.CompletedLeafNodes == s.TotalLeafNodes
}

// CompletionPercentage returns the unrounded share of completed leaves, 0..100.
func CompletionPercentage(s *backend.RetrievalOverallStatus) float64 {
	if s == nil || s.TotalLeafNodes == 0 {
		return 0
	}
	return 100 * float64(s.CompletedLeafNodes) / float64(s.TotalLeafNodes)
}

// FailedLeaves returns the leaves that carry an error message, in display order.
func FailedLeaves(s *backend.RetrievalOverallStatus) []backend.LeafNodeStatus {
	var out []backend.LeafNodeStatus
	for _, l := range SortedLeaves(s) {
		if l.ErrorMessage != "" {
			out = append(out, l)
		}
	}
	return out
}

// SortedLeaves returns the leaf statuses ordered by title, then node id.
func SortedLeaves(s *backend.RetrievalOverallStatus) []backend.LeafNodeStatus {
	if s == nil {
		return nil
	}
	out := make([]backend.LeafNodeStatus, 0, len(s.LeafNodes))
	for _, l := range s.LeafNodes {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Title != out[j].Title {
			return out[i].Title < out[j].Title
		}
		return out[i].NodeID < out[j].NodeID
	})
	return out
}

// IsCompositionTerminal reports whether polling the article should stop.
func IsCompositionTerminal(status string) bool {
	return status == backend.CompositionCompleted || status == backend.CompositionError
}

// IsCompositionRunning reports whether the backend is still composing. Any
// status other than the empty, not-started and terminal values counts,
// including free-text progress messages.
func IsCompositionRunning(status string) bool {
	switch status {
	case "", backend.CompositionNotStarted, backend.CompositionCompleted, backend.CompositionError:
		return false
	}
	return true
}
