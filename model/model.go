package model

import "strings"

// ChangeAction identifies what a FileChange does to its path.
type ChangeAction string

const (
	ActionCreate  ChangeAction = "create"
	ActionRewrite ChangeAction = "rewrite"
	ActionModify  ChangeAction = "modify"
	ActionDelete  ChangeAction = "delete"
)

// ParseAction maps an action attribute value to a ChangeAction.
// The action set is closed; anything else is rejected.
func ParseAction(s string) (ChangeAction, bool) {
	switch ChangeAction(strings.ToLower(strings.TrimSpace(s))) {
	case ActionCreate:
		return ActionCreate, true
	case ActionRewrite:
		return ActionRewrite, true
	case ActionModify:
		return ActionModify, true
	case ActionDelete:
		return ActionDelete, true
	}
	return "", false
}

// ChangeOperation is one edit inside a FileChange. Search is empty for
// create/rewrite operations and required to be non-empty for modify.
type ChangeOperation struct {
	Description string
	Search      string
	Content     string
}

// FileChange is one parsed file-level change with its ordered
// operations. It is immutable after parsing; the diff engine and the
// applier only read it.
type FileChange struct {
	Path       string
	Action     ChangeAction
	Operations []ChangeOperation
}

// ChangeResult records the outcome of applying one FileChange.
type ChangeResult struct {
	Path    string
	Action  ChangeAction
	Success bool
	Message string
}

// DiffPreview holds the before/after text for one path. It is derived
// state, recomputed whenever the reply or the selection changes.
type DiffPreview struct {
	Path       string
	Original   string
	Modified   string
	HasChanges bool
}

// NodeKind distinguishes files from directories in a scanned tree.
type NodeKind int

const (
	KindFile NodeKind = iota
	KindDirectory
)

// FileTreeNode is one node of a scanned directory tree. Trees are
// produced by the scanner and treated as read-only everywhere else.
type FileTreeNode struct {
	Path     string
	Name     string
	Kind     NodeKind
	Children []*FileTreeNode
	Size     int64
}

// Summary holds the results of an apply or undo for display.
type Summary struct {
	Created  []string
	Modified []string
	Deleted  []string
	Failed   []string
	Message  string
}
