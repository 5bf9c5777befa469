// Package backend talks to the remote processing service that generates
// outlines, retrieves documents and composes articles.
package backend

import (
	"context"
	"errors"
	"fmt"

	"github.com/jorge-barreto/quill/internal/outline"
)

// ErrMalformedResponse is returned when a response lacks a field the client
// cannot work without.
var ErrMalformedResponse = errors.New("backend: malformed response")

// Backend is the set of remote operations the workflow needs. Tests can
// substitute a fake.
type Backend interface {
	Health(ctx context.Context) (*HealthResponse, error)
	CreateProcess(ctx context.Context, in CreateProcessInput) (*ProcessCreationResponse, error)
	UpdateOutline(ctx context.Context, processID string, tree *outline.Node) (*OutlineUpdateResponse, error)
	StartRetrieval(ctx context.Context, processID string, opts RetrievalOptions) (*RetrievalStartResponse, error)
	GetRetrievalStatus(ctx context.Context, processID string) (*RetrievalStatusResponse, error)
	StartComposition(ctx context.Context, processID string) (*CompositionStartResponse, error)
	GetArticle(ctx context.Context, processID string) (*ArticleResponse, error)
}

// APIError is a non-2xx response from the backend.
type APIError struct {
	Op         string
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: backend returned %d: %s", e.Op, e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("%s: backend returned %d", e.Op, e.StatusCode)
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == 404
}
