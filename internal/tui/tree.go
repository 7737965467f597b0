package tui

import (
	"fmt"

	"github.com/mohilcode/proprompter/internal/selection"
)

// row is one visible line of the tree view.
type row struct {
	id    selection.NodeID
	depth int
}

// flatten lists the visible rows of the tree: every root, and the
// children of every expanded directory, in tree order.
func flatten(t *selection.Tree, expanded map[selection.NodeID]bool) []row {
	var rows []row
	var walk func(id selection.NodeID, depth int)
	walk = func(id selection.NodeID, depth int) {
		rows = append(rows, row{id: id, depth: depth})
		if t.IsDir(id) && expanded[id] {
			for _, c := range t.Children(id) {
				walk(c, depth+1)
			}
		}
	}
	for _, r := range t.Roots() {
		walk(r, 0)
	}
	return rows
}

// checkbox renders the tri-state marker for a node.
func checkbox(state selection.State) string {
	switch state {
	case selection.Checked:
		return "[x]"
	case selection.Indeterminate:
		return "[~]"
	default:
		return "[ ]"
	}
}

// label renders a row's name, with a trailing slash and expansion
// marker for directories.
func label(t *selection.Tree, r row, expanded bool) string {
	name := t.Name(r.id)
	if !t.IsDir(r.id) {
		return name
	}
	marker := "+"
	if expanded {
		marker = "-"
	}
	return fmt.Sprintf("%s %s/", marker, name)
}
