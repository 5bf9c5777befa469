package state

import (
	"sync"
	"testing"

	"github.com/jorge-barreto/quill/internal/backend"
	"github.com/jorge-barreto/quill/internal/outline"
)

func TestStore_EmptyOnConstruction(t *testing.T) {
	st := NewStore().Snapshot()
	if st.ProcessID != "" || st.Outline != nil || st.RetrievalStatus != nil || st.ArticleContent != "" {
		t.Fatalf("new store not empty: %+v", st)
	}
}

func TestStore_SettersTouchOneField(t *testing.T) {
	s := NewStore()
	s.SetProcessID("p1")
	s.SetTopic("AI in education")
	s.SetCompositionStatus("In Progress")

	st := s.Snapshot()
	if st.ProcessID != "p1" || st.Topic != "AI in education" || st.CompositionStatus != "In Progress" {
		t.Fatalf("state = %+v", st)
	}

	s.SetArticleContent("Hello")
	st = s.Snapshot()
	if st.ArticleContent != "Hello" || st.ProcessID != "p1" || st.CompositionStatus != "In Progress" {
		t.Fatalf("state = %+v", st)
	}
}

func TestStore_NoValidation(t *testing.T) {
	s := NewStore()
	s.SetOutline(&outline.Node{ID: "R", Title: "T"})
	if st := s.Snapshot(); st.Outline == nil || st.ProcessID != "" {
		t.Fatalf("state = %+v", st)
	}
}

func TestStore_SnapshotIsDeepCopy(t *testing.T) {
	s := NewStore()
	tree := &outline.Node{ID: "R", Title: "T", Children: []*outline.Node{{ID: "a", Title: "A", Level: 1}}}
	s.SetOutline(tree)
	tree.Children[0].Title = "mutated by caller"

	snap := s.Snapshot()
	if snap.Outline.Children[0].Title != "A" {
		t.Fatal("store shares the caller's tree")
	}
	snap.Outline.Children[0].Title = "mutated by reader"
	if s.Snapshot().Outline.Children[0].Title != "A" {
		t.Fatal("snapshot shares the store's tree")
	}

	s.SetRetrievalStatus(&backend.RetrievalOverallStatus{
		TotalLeafNodes: 1,
		LeafNodes:      map[string]backend.LeafNodeStatus{"a": {NodeID: "a"}},
	})
	snap = s.Snapshot()
	snap.RetrievalStatus.LeafNodes["b"] = backend.LeafNodeStatus{}
	if len(s.Snapshot().RetrievalStatus.LeafNodes) != 1 {
		t.Fatal("snapshot shares the leaf map")
	}
}

func TestStore_OutlineRevisionAdvances(t *testing.T) {
	s := NewStore()
	s.SetOutline(&outline.Node{ID: "R"})
	r1 := s.Snapshot().OutlineRevision
	s.SetOutline(&outline.Node{ID: "R"})
	r2 := s.Snapshot().OutlineRevision
	s.Reset()
	r3 := s.Snapshot().OutlineRevision
	if !(r1 < r2 && r2 < r3) {
		t.Fatalf("revisions = %d, %d, %d", r1, r2, r3)
	}
}

func TestStore_Reset(t *testing.T) {
	s := NewStore()
	s.SetProcessID("p1")
	s.SetTopic("t")
	s.SetOutline(&outline.Node{ID: "R"})
	s.SetRetrievalStatus(&backend.RetrievalOverallStatus{TotalLeafNodes: 2})
	s.SetCompositionStatus("Completed")
	s.SetArticleContent("body")
	s.Reset()

	st := s.Snapshot()
	if st.ProcessID != "" || st.Topic != "" || st.Outline != nil || st.RetrievalStatus != nil ||
		st.CompositionStatus != "" || st.ArticleContent != "" {
		t.Fatalf("reset left state behind: %+v", st)
	}
}

func TestStore_CloseDropsWrites(t *testing.T) {
	s := NewStore()
	s.SetProcessID("p1")
	s.Close()
	s.SetProcessID("p2")
	s.SetArticleContent("late")
	s.Reset()
	st := s.Snapshot()
	if st.ProcessID != "p1" || st.ArticleContent != "" {
		t.Fatalf("writes after Close applied: %+v", st)
	}
}

func TestStore_ConcurrentSetters(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.SetCompositionStatus("In Progress")
		}()
		go func() {
			defer wg.Done()
			_ = s.Snapshot()
		}()
	}
	wg.Wait()
	if s.Snapshot().CompositionStatus != "In Progress" {
		t.Fatal("lost write")
	}
}
