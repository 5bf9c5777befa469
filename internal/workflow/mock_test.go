package workflow

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jorge-barreto/quill/internal/backend"
	"github.com/jorge-barreto/quill/internal/config"
	"github.com/jorge-barreto/quill/internal/outline"
	"github.com/jorge-barreto/quill/internal/state"
)

var errTransient = errors.New("connection reset")

// mockBackend records calls and replays scripted status responses. Once a
// script is exhausted its last entry repeats. An empty script answers with
// nothing started.
type mockBackend struct {
	mu        sync.Mutex
	calls     []string
	tree      *outline.Node
	saved     *outline.Node
	retrieval []*backend.RetrievalOverallStatus
	articles  []*backend.ArticleResponse
	errors    map[string]error

	// failures makes the next n calls of an op fail transiently.
	failures map[string]int
	health   string
}

func newMock() *mockBackend {
	return &mockBackend{
		tree: &outline.Node{ID: "R", Title: "AI in education", Children: []*outline.Node{
			{ID: "a", Title: "A", Level: 1},
			{ID: "b", Title: "B", Level: 1},
		}},
		errors:   make(map[string]error),
		failures: make(map[string]int),
		health:   "healthy",
	}
}

func (m *mockBackend) record(op string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, op)
	if m.failures[op] > 0 {
		m.failures[op]--
		return errTransient
	}
	return m.errors[op]
}

func (m *mockBackend) count(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c == op {
			n++
		}
	}
	return n
}

func (m *mockBackend) Health(ctx context.Context) (*backend.HealthResponse, error) {
	if err := m.record("health"); err != nil {
		return nil, err
	}
	return &backend.HealthResponse{Status: m.health}, nil
}

func (m *mockBackend) CreateProcess(ctx context.Context, in backend.CreateProcessInput) (*backend.ProcessCreationResponse, error) {
	if err := m.record("create"); err != nil {
		return nil, err
	}
	return &backend.ProcessCreationResponse{ProcessID: "p1", Topic: in.Topic, InitialOutline: m.tree.Clone()}, nil
}

func (m *mockBackend) UpdateOutline(ctx context.Context, processID string, tree *outline.Node) (*backend.OutlineUpdateResponse, error) {
	if err := m.record("outline"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.saved = tree.Clone()
	m.mu.Unlock()
	return &backend.OutlineUpdateResponse{ProcessID: processID}, nil
}

func (m *mockBackend) StartRetrieval(ctx context.Context, processID string, opts backend.RetrievalOptions) (*backend.RetrievalStartResponse, error) {
	if err := m.record("retrieval/start"); err != nil {
		return nil, err
	}
	return &backend.RetrievalStartResponse{ProcessID: processID, InitialStatus: backend.RetrievalOverallStatus{
		OverallStatusMessage: "Retrieval In Progress",
		TotalLeafNodes:       2,
	}}, nil
}

func (m *mockBackend) GetRetrievalStatus(ctx context.Context, processID string) (*backend.RetrievalStatusResponse, error) {
	if err := m.record("retrieval/status"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	st := next(&m.retrieval)
	if st == nil {
		st = &backend.RetrievalOverallStatus{}
	}
	return &backend.RetrievalStatusResponse{ProcessID: processID, RetrievalStatus: *st.Clone()}, nil
}

func (m *mockBackend) StartComposition(ctx context.Context, processID string) (*backend.CompositionStartResponse, error) {
	if err := m.record("compose/start"); err != nil {
		return nil, err
	}
	return &backend.CompositionStartResponse{ProcessID: processID}, nil
}

func (m *mockBackend) GetArticle(ctx context.Context, processID string) (*backend.ArticleResponse, error) {
	if err := m.record("article"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	a := next(&m.articles)
	if a == nil {
		return &backend.ArticleResponse{ProcessID: processID, CompositionStatus: backend.CompositionNotStarted}, nil
	}
	out := *a
	return &out, nil
}

func next[T any](script *[]T) T {
	var zero T
	if len(*script) == 0 {
		return zero
	}
	v := (*script)[0]
	if len(*script) > 1 {
		*script = (*script)[1:]
	}
	return v
}

func retrievalAt(completed, total int) *backend.RetrievalOverallStatus {
	return &backend.RetrievalOverallStatus{TotalLeafNodes: total, CompletedLeafNodes: completed}
}

func article(status, content string) *backend.ArticleResponse {
	return &backend.ArticleResponse{ProcessID: "p1", CompositionStatus: status, ArticleContent: content}
}

func newTestSession(t *testing.T, b backend.Backend) *Session {
	t.Helper()
	cfg := config.Default(t.TempDir())
	cfg.Polling.Interval = time.Millisecond
	cfg.Polling.FetchTimeout = time.Second
	s := New(b, state.NewStore(), cfg, nil)
	if err := state.EnsureDir(s.Dir); err != nil {
		t.Fatal(err)
	}
	return s
}
