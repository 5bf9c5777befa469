// Package outline holds the hierarchical section tree of an authoring process
// and the structural edits applied to it.
//
// Update and delete address a node by Path (child indices from the root);
// insertion addresses the parent by id. Every edit returns a new tree and
// leaves its input untouched.
package outline

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrDeleteRoot is returned when a delete addresses the root node.
	ErrDeleteRoot = errors.New("outline: the root node cannot be deleted")
	// ErrEmptyTitle is returned when a new section has a blank title.
	ErrEmptyTitle = errors.New("outline: section title must not be empty")
)

// Node is one section of the outline. The root has Level 0.
type Node struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Summary  string  `json:"summary,omitempty"`
	Level    int     `json:"level"`
	Children []*Node `json:"children,omitempty"`
}

// NewNode builds a detached section with a fresh id. Level is assigned on insertion.
func NewNode(title, summary string) (*Node, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	return &Node{
		ID:      GenerateNodeID(),
		Title:   title,
		Summary: strings.TrimSpace(summary),
	}, nil
}

// GenerateNodeID returns an id that is unique with overwhelming probability
// within a session: a millisecond timestamp plus a random suffix.
func GenerateNodeID() string {
	return fmt.Sprintf("node-%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}

// IsLeaf reports whether n has no children.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// Clone returns a deep copy of the subtree rooted at n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	cp := *n
	if n.Children != nil {
		cp.Children = make([]*Node, len(n.Children))
		for i, c := range n.Children {
			cp.Children[i] = c.Clone()
		}
	}
	return &cp
}

// child returns the child at idx, or nil when idx is out of range.
func (n *Node) child(idx int) *Node {
	if idx < 0 || idx >= len(n.Children) {
		return nil
	}
	return n.Children[idx]
}

// withChild returns a shallow copy of n whose child at idx is replaced.
// Siblings are shared with n.
func (n *Node) withChild(idx int, c *Node) *Node {
	cp := *n
	cp.Children = make([]*Node, len(n.Children))
	copy(cp.Children, n.Children)
	cp.Children[idx] = c
	return &cp
}

// UpdateNodeAtPath returns a tree in which the node at path is replaced by
// replacement. An empty path replaces the root. When an index along the path
// does not exist, the subtree at that level is returned unchanged.
func UpdateNodeAtPath(tree *Node, path Path, replacement *Node) *Node {
	if len(path) == 0 {
		return replacement.Clone()
	}
	if tree == nil {
		return nil
	}
	c := tree.child(path[0])
	if c == nil {
		return tree
	}
	return tree.withChild(path[0], UpdateNodeAtPath(c, path[1:], replacement))
}

// InsertChild appends newNode to the children of the first node (depth-first)
// whose id is parentID, setting its level to the parent's level plus one.
// It reports false and returns tree unchanged when no such node exists.
func InsertChild(tree *Node, parentID string, newNode *Node) (*Node, bool) {
	if tree == nil || newNode == nil {
		return tree, false
	}
	out := tree.Clone()
	n := newNode.Clone()

	if out.ID == parentID {
		appendChild(out, n)
		return out, true
	}
	if insertInto(out, parentID, n) {
		return out, true
	}
	return tree, false
}

func insertInto(node *Node, parentID string, n *Node) bool {
	if node.ID == parentID {
		appendChild(node, n)
		return true
	}
	for _, c := range node.Children {
		if insertInto(c, parentID, n) {
			return true
		}
	}
	return false
}

func appendChild(parent, n *Node) {
	n.Level = parent.Level + 1
	parent.Children = append(parent.Children, n)
}

// DeleteNodeAtPath returns a tree without the node at path. The remaining
// siblings keep their order. An empty path is rejected with ErrDeleteRoot;
// an out-of-range path leaves the tree unchanged.
func DeleteNodeAtPath(tree *Node, path Path) (*Node, error) {
	if len(path) == 0 {
		return tree, ErrDeleteRoot
	}
	if tree == nil {
		return nil, nil
	}
	return deleteAt(tree, path), nil
}

func deleteAt(node *Node, path Path) *Node {
	idx := path[0]
	if node.child(idx) == nil {
		return node
	}
	if len(path) == 1 {
		cp := *node
		cp.Children = make([]*Node, 0, len(node.Children)-1)
		cp.Children = append(cp.Children, node.Children[:idx]...)
		cp.Children = append(cp.Children, node.Children[idx+1:]...)
		return &cp
	}
	return node.withChild(idx, deleteAt(node.Children[idx], path[1:]))
}
