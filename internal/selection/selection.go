// Package selection computes tri-state check status over scanned file
// trees and propagates toggles across subtrees.
//
// Trees are arena-backed: nodes live in a flat slice and refer to each
// other by index, and every node carries its descendant file-path set,
// computed once when the tree is built. Status queries therefore never
// re-walk a subtree; the cache lives until the scanner produces a new
// tree and a new arena is built from it.
package selection

import "github.com/mohilcode/proprompter/model"

// State is the tri-state check status of a node.
type State int

const (
	Unchecked State = iota
	Indeterminate
	Checked
)

// Selection is the set of selected file paths. Directories never
// appear in it.
type Selection map[string]struct{}

func NewSelection(paths ...string) Selection {
	s := make(Selection, len(paths))
	for _, p := range paths {
		s[p] = struct{}{}
	}
	return s
}

func (s Selection) Contains(path string) bool {
	_, ok := s[path]
	return ok
}

// Paths returns the selected file paths in unspecified order.
func (s Selection) Paths() []string {
	out := make([]string, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	return out
}

func (s Selection) clone() Selection {
	out := make(Selection, len(s))
	for p := range s {
		out[p] = struct{}{}
	}
	return out
}

// NodeID indexes a node within a Tree's arena.
type NodeID int

type node struct {
	path     string
	name     string
	kind     model.NodeKind
	children []NodeID
	// files is the cached descendant file-path set; for a file node it
	// is the node's own path.
	files []string
}

// Tree is an immutable arena built from one or more scanned roots.
type Tree struct {
	nodes  []node
	roots  []NodeID
	byPath map[string]NodeID
}

// NewTree builds the arena and the per-node descendant caches from
// scanner output. The scanner trees themselves are not retained or
// mutated.
func NewTree(roots ...*model.FileTreeNode) *Tree {
	t := &Tree{byPath: make(map[string]NodeID)}
	for _, r := range roots {
		if r == nil {
			continue
		}
		t.roots = append(t.roots, t.add(r))
	}
	return t
}

func (t *Tree) add(n *model.FileTreeNode) NodeID {
	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, node{path: n.Path, name: n.Name, kind: n.Kind})
	t.byPath[n.Path] = id

	if n.Kind == model.KindFile {
		t.nodes[id].files = []string{n.Path}
		return id
	}

	var children []NodeID
	var files []string
	for _, c := range n.Children {
		cid := t.add(c)
		children = append(children, cid)
		files = append(files, t.nodes[cid].files...)
	}
	t.nodes[id].children = children
	t.nodes[id].files = files
	return id
}

// Roots returns the arena ids of the loaded root nodes.
func (t *Tree) Roots() []NodeID {
	return t.roots
}

// Lookup resolves a path to its arena id.
func (t *Tree) Lookup(path string) (NodeID, bool) {
	id, ok := t.byPath[path]
	return id, ok
}

// Children returns the ordered child ids of a directory node.
func (t *Tree) Children(id NodeID) []NodeID {
	return t.nodes[id].children
}

// Path returns the node's path.
func (t *Tree) Path(id NodeID) string {
	return t.nodes[id].path
}

// Name returns the node's display name.
func (t *Tree) Name(id NodeID) string {
	return t.nodes[id].name
}

// IsDir reports whether the node is a directory.
func (t *Tree) IsDir(id NodeID) bool {
	return t.nodes[id].kind == model.KindDirectory
}

// Files returns the cached descendant file paths of a node.
func (t *Tree) Files(id NodeID) []string {
	return t.nodes[id].files
}

// Status computes the tri-state status of a node. A file is Checked
// iff selected. A directory is Checked iff its descendant file set is
// non-empty and fully selected, Unchecked iff none are selected, and
// Indeterminate otherwise.
func (t *Tree) Status(id NodeID, sel Selection) State {
	n := &t.nodes[id]
	if n.kind == model.KindFile {
		if sel.Contains(n.path) {
			return Checked
		}
		return Unchecked
	}

	selected := 0
	for _, f := range n.files {
		if sel.Contains(f) {
			selected++
		}
	}
	switch {
	case len(n.files) == 0 || selected == 0:
		return Unchecked
	case selected == len(n.files):
		return Checked
	default:
		return Indeterminate
	}
}

// Toggle returns a new selection with the node turned on or off. For a
// directory the entire descendant file set is added or removed,
// regardless of its prior partial state; files outside the subtree are
// untouched. The input selection is never mutated.
func (t *Tree) Toggle(id NodeID, sel Selection, on bool) Selection {
	out := sel.clone()
	for _, f := range t.nodes[id].files {
		if on {
			out[f] = struct{}{}
		} else {
			delete(out, f)
		}
	}
	return out
}
