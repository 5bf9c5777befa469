package outline

import (
	"fmt"
	"strconv"
	"strings"
)

// Path addresses a node by child index at each depth, starting at the root.
// The empty path is the root itself. A path is only meaningful against the
// tree revision it was computed from.
type Path []int

// ParsePath parses a dotted path such as "0.2.1". "", "/" and "root" all
// denote the root.
func ParsePath(s string) (Path, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "/" || s == "root" {
		return Path{}, nil
	}
	parts := strings.Split(s, ".")
	p := make(Path, 0, len(parts))
	for _, part := range parts {
		idx, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("outline: invalid path segment %q in %q", part, s)
		}
		if idx < 0 {
			return nil, fmt.Errorf("outline: negative path segment %d in %q", idx, s)
		}
		p = append(p, idx)
	}
	return p, nil
}

// String renders the path in the dotted form accepted by ParsePath.
func (p Path) String() string {
	if len(p) == 0 {
		return "root"
	}
	parts := make([]string, len(p))
	for i, idx := range p {
		parts[i] = strconv.Itoa(idx)
	}
	return strings.Join(parts, ".")
}

// Child returns a new path one level below p.
func (p Path) Child(idx int) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, idx)
}

// NodeAt returns the node addressed by path, or nil if it does not exist.
func NodeAt(tree *Node, path Path) *Node {
	n := tree
	for _, idx := range path {
		if n == nil {
			return nil
		}
		n = n.child(idx)
	}
	return n
}

// PathOf returns the path of the first node (depth-first) with the given id.
func PathOf(tree *Node, id string) (Path, bool) {
	var found Path
	ok := false
	Walk(tree, func(n *Node, p Path) bool {
		if n.ID == id {
			found, ok = p, true
			return false
		}
		return true
	})
	return found, ok
}

// Walk visits every node depth-first in document order. Returning false from
// fn stops the walk.
func Walk(tree *Node, fn func(n *Node, p Path) bool) {
	if tree == nil {
		return
	}
	walk(tree, Path{}, fn)
}

func walk(n *Node, p Path, fn func(*Node, Path) bool) bool {
	if !fn(n, p) {
		return false
	}
	for i, c := range n.Children {
		if !walk(c, p.Child(i), fn) {
			return false
		}
	}
	return true
}

// Leaves returns the leaf sections of tree in document order. A root without
// children is not counted as a section.
func Leaves(tree *Node) []*Node {
	var out []*Node
	Walk(tree, func(n *Node, p Path) bool {
		if len(p) > 0 && n.IsLeaf() {
			out = append(out, n)
		}
		return true
	})
	return out
}
