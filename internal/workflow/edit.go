package workflow

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jorge-barreto/quill/internal/outline"
)

// PathRef is a section position together with the outline revision it was
// taken from. Edits through a PathRef fail once the outline has changed.
type PathRef struct {
	Path     outline.Path
	Revision uint64
}

func (s *Session) currentOutline() (*outline.Node, uint64, error) {
	ps := s.Store.Snapshot()
	if ps.ProcessID == "" {
		return nil, 0, needProcess()
	}
	if ps.Outline == nil {
		return nil, 0, needOutline()
	}
	return ps.Outline, ps.OutlineRevision, nil
}

// Locate finds the section with nodeID in the current outline.
func (s *Session) Locate(nodeID string) (PathRef, error) {
	tree, rev, err := s.currentOutline()
	if err != nil {
		return PathRef{}, err
	}
	p, ok := outline.PathOf(tree, nodeID)
	if !ok {
		return PathRef{}, fmt.Errorf("%w: %s", ErrNodeNotFound, nodeID)
	}
	return PathRef{Path: p, Revision: rev}, nil
}

// LocatePath validates a path against the current outline.
func (s *Session) LocatePath(p outline.Path) (PathRef, error) {
	tree, rev, err := s.currentOutline()
	if err != nil {
		return PathRef{}, err
	}
	if outline.NodeAt(tree, p) == nil {
		return PathRef{}, fmt.Errorf("%w: %s", ErrNodeNotFound, p)
	}
	return PathRef{Path: p, Revision: rev}, nil
}

func (s *Session) checkRef(ref PathRef) (*outline.Node, error) {
	tree, rev, err := s.currentOutline()
	if err != nil {
		return nil, err
	}
	if ref.Revision != rev {
		return nil, ErrStalePath
	}
	return tree, nil
}

// AddSection appends a new section under parentID.
func (s *Session) AddSection(parentID, title, summary string) (*outline.Node, error) {
	tree, _, err := s.currentOutline()
	if err != nil {
		return nil, err
	}
	n, err := outline.NewNode(title, summary)
	if err != nil {
		return nil, err
	}
	next, ok := outline.InsertChild(tree, parentID, n)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrParentNotFound, parentID)
	}
	s.Store.SetOutline(next)
	s.persist()
	s.Logger.Debug("section added", zap.String("parent", parentID), zap.String("node", n.ID))

	// InsertChild set the level on its own copy.
	p, _ := outline.PathOf(next, n.ID)
	return outline.NodeAt(next, p), nil
}

// UpdateSection replaces the title and summary at ref, keeping the section's
// id, level and children.
func (s *Session) UpdateSection(ref PathRef, title, summary string) error {
	tree, err := s.checkRef(ref)
	if err != nil {
		return err
	}
	cur := outline.NodeAt(tree, ref.Path)
	if cur == nil {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, ref.Path)
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return outline.ErrEmptyTitle
	}
	repl := *cur
	repl.Title = title
	repl.Summary = strings.TrimSpace(summary)

	s.Store.SetOutline(outline.UpdateNodeAtPath(tree, ref.Path, &repl))
	s.persist()
	s.Logger.Debug("section updated", zap.String("path", ref.Path.String()), zap.String("node", cur.ID))
	return nil
}

// DeleteSection removes the section at ref and everything under it.
func (s *Session) DeleteSection(ref PathRef) error {
	tree, err := s.checkRef(ref)
	if err != nil {
		return err
	}
	next, err := outline.DeleteNodeAtPath(tree, ref.Path)
	if err != nil {
		return err
	}
	s.Store.SetOutline(next)
	s.persist()
	s.Logger.Debug("section deleted", zap.String("path", ref.Path.String()))
	return nil
}

// SaveOutline sends the current outline to the backend.
func (s *Session) SaveOutline(ctx context.Context) error {
	tree, _, err := s.currentOutline()
	if err != nil {
		return err
	}
	id := s.Store.Snapshot().ProcessID
	if _, err := s.Backend.UpdateOutline(ctx, id, tree); err != nil {
		return err
	}
	s.Logger.Info("outline saved", zap.String("process_id", id), zap.Int("sections", len(outline.Leaves(tree))))
	return nil
}
