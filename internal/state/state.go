// Package state holds the single active authoring process on the client and
// persists it between CLI invocations.
package state

import (
	"sync"

	"github.com/jorge-barreto/quill/internal/backend"
	"github.com/jorge-barreto/quill/internal/outline"
)

// ProcessState is the client's view of the active process. Zero values mean
// "absent".
type ProcessState struct {
	ProcessID         string                          `json:"process_id,omitempty"`
	Topic             string                          `json:"topic,omitempty"`
	Outline           *outline.Node                   `json:"outline,omitempty"`
	OutlineRevision   uint64                          `json:"outline_revision"`
	RetrievalStatus   *backend.RetrievalOverallStatus `json:"retrieval_status,omitempty"`
	CompositionStatus string                          `json:"composition_status,omitempty"`
	ArticleContent    string                          `json:"article_content,omitempty"`
}

func (ps ProcessState) clone() ProcessState {
	ps.Outline = ps.Outline.Clone()
	ps.RetrievalStatus = ps.RetrievalStatus.Clone()
	return ps
}

// Store is the process-wide state holder. Each setter replaces exactly one
// field under the lock, so readers never see a partial update. The store does
// not validate what it is given.
type Store struct {
	mu     sync.RWMutex
	st     ProcessState
	closed bool
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() ProcessState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.clone()
}

func (s *Store) update(fn func(*ProcessState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	fn(&s.st)
}

func (s *Store) SetProcessID(id string) {
	s.update(func(st *ProcessState) { st.ProcessID = id })
}

func (s *Store) SetTopic(topic string) {
	s.update(func(st *ProcessState) { st.Topic = topic })
}

// SetOutline replaces the outline and advances OutlineRevision. Paths taken
// from an earlier revision are stale afterwards.
func (s *Store) SetOutline(tree *outline.Node) {
	tree = tree.Clone()
	s.update(func(st *ProcessState) {
		st.Outline = tree
		st.OutlineRevision++
	})
}

func (s *Store) SetRetrievalStatus(rs *backend.RetrievalOverallStatus) {
	rs = rs.Clone()
	s.update(func(st *ProcessState) { st.RetrievalStatus = rs })
}

func (s *Store) SetCompositionStatus(status string) {
	s.update(func(st *ProcessState) { st.CompositionStatus = status })
}

func (s *Store) SetArticleContent(content string) {
	s.update(func(st *ProcessState) { st.ArticleContent = content })
}

// Reset clears every field. The outline revision keeps counting so that a
// path captured before the reset can never match a later outline.
func (s *Store) Reset() {
	s.update(func(st *ProcessState) {
		*st = ProcessState{OutlineRevision: st.OutlineRevision + 1}
	})
}

// Restore replaces the whole state, typically with one read by Load.
func (s *Store) Restore(ps ProcessState) {
	ps = ps.clone()
	s.update(func(st *ProcessState) { *st = ps })
}

// Close ends the store's lifecycle. Writes after Close are dropped, so a
// poller that outlives its consumer cannot change the state.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}
