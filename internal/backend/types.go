package backend

import (
	"time"

	"github.com/jorge-barreto/quill/internal/outline"
)

// Composition status values reported by GetArticle. Anything else is a
// free-text progress message.
const (
	CompositionNotStarted = "Not Started"
	CompositionInProgress = "In Progress"
	CompositionCompleted  = "Completed"
	CompositionError      = "Error"
)

// CreateProcessInput starts a new authoring process.
type CreateProcessInput struct {
	Topic       string `json:"topic" validate:"required"`
	Description string `json:"description,omitempty"`
	Problem     string `json:"problem,omitempty"`
}

type ProcessCreationResponse struct {
	ProcessID      string        `json:"process_id"`
	Topic          string        `json:"topic"`
	InitialOutline *outline.Node `json:"initial_outline"`
	Message        string        `json:"message"`
}

type OutlineUpdateRequest struct {
	Outline *outline.Node `json:"outline_dict"`
}

type OutlineUpdateResponse struct {
	ProcessID string `json:"process_id"`
	Message   string `json:"message"`
}

// RetrievalOptions selects the retrieval sources.
type RetrievalOptions struct {
	UseWeb bool `json:"use_web"`
	UseKB  bool `json:"use_kb"`
}

// DocumentPreview is a document retrieved for a leaf section.
type DocumentPreview struct {
	ID          string `json:"id"`
	CitationKey string `json:"citation_key"`
	Title       string `json:"title,omitempty"`
	Source      string `json:"source"` // "web" or "kb"
}

// LeafNodeStatus is the backend's progress report for one leaf section.
// The client only displays and aggregates it.
type LeafNodeStatus struct {
	NodeID            string            `json:"node_id"`
	Title             string            `json:"title"`
	StatusMessage     string            `json:"status_message"`
	CurrentQuery      string            `json:"current_query,omitempty"`
	IterationProgress string            `json:"iteration_progress,omitempty"`
	RetrievedDocs     []DocumentPreview `json:"retrieved_docs_preview"`
	ContentPreview    string            `json:"content_preview,omitempty"`
	IsCompleted       bool              `json:"is_completed"`
	ErrorMessage      string            `json:"error_message,omitempty"`
	LastUpdated       time.Time         `json:"last_updated"`
}

// RetrievalOverallStatus aggregates retrieval progress across all leaves.
type RetrievalOverallStatus struct {
	OverallStatusMessage string                    `json:"overall_status_message"`
	TotalLeafNodes       int                       `json:"total_leaf_nodes"`
	CompletedLeafNodes   int                       `json:"completed_leaf_nodes"`
	LeafNodes            map[string]LeafNodeStatus `json:"leaf_nodes_status"`
	StartTime            *time.Time                `json:"start_time,omitempty"`
	EndTime              *time.Time                `json:"end_time,omitempty"`
	ErrorMessage         string                    `json:"error_message,omitempty"`
}

// Clone returns a copy that shares nothing mutable with s.
func (s *RetrievalOverallStatus) Clone() *RetrievalOverallStatus {
	if s == nil {
		return nil
	}
	cp := *s
	if s.LeafNodes != nil {
		cp.LeafNodes = make(map[string]LeafNodeStatus, len(s.LeafNodes))
		for k, v := range s.LeafNodes {
			v.RetrievedDocs = append([]DocumentPreview(nil), v.RetrievedDocs...)
			cp.LeafNodes[k] = v
		}
	}
	if s.StartTime != nil {
		t := *s.StartTime
		cp.StartTime = &t
	}
	if s.EndTime != nil {
		t := *s.EndTime
		cp.EndTime = &t
	}
	return &cp
}

type RetrievalStartResponse struct {
	ProcessID     string                 `json:"process_id"`
	Message       string                 `json:"message"`
	InitialStatus RetrievalOverallStatus `json:"initial_status"`
}

type RetrievalStatusResponse struct {
	ProcessID       string                 `json:"process_id"`
	RetrievalStatus RetrievalOverallStatus `json:"retrieval_status"`
}

type CompositionStartResponse struct {
	ProcessID string `json:"process_id"`
	Message   string `json:"message"`
}

type ArticleResponse struct {
	ProcessID         string           `json:"process_id"`
	CompositionStatus string           `json:"composition_status"`
	ArticleContent    string           `json:"article_content,omitempty"`
	ReferencesRaw     []map[string]any `json:"references_raw,omitempty"`
}

// HealthResponse is returned by the backend's health endpoint.
type HealthResponse struct {
	Status string `json:"status"`
}
