// Package proprompter is the embeddable core: select files, build a
// request payload, parse the assistant's change document, preview the
// diff, apply it, undo it.
package proprompter

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/mohilcode/proprompter/internal/apply"
	"github.com/mohilcode/proprompter/internal/config"
	"github.com/mohilcode/proprompter/internal/diff"
	"github.com/mohilcode/proprompter/internal/fs"
	"github.com/mohilcode/proprompter/internal/parser"
	"github.com/mohilcode/proprompter/internal/payload"
	"github.com/mohilcode/proprompter/internal/promptlib"
	"github.com/mohilcode/proprompter/internal/scanner"
	"github.com/mohilcode/proprompter/internal/source"
	"github.com/mohilcode/proprompter/internal/undo"
	"github.com/mohilcode/proprompter/internal/workspace"
	"github.com/mohilcode/proprompter/model"
)

// Options configures a Session.
type Options struct {
	// Roots are the project directories changes may touch. When a
	// WorkspaceID is given its folders are appended.
	Roots []string
	// WorkspaceID selects a stored workspace whose folders become
	// roots.
	WorkspaceID string
	// StateDir overrides the per-user state directory (config, stores,
	// undo history). Empty means the platform default.
	StateDir string
}

// Session owns the one piece of long-lived pipeline state, the undo
// history, plus the stores and configuration. Create one per user
// session and tear it down with Close. ApplyChanges, UndoLast and
// UndoPath must not be called concurrently with each other; the
// parsing and preview methods are pure and safe to call freely.
type Session struct {
	cfg        config.Config
	roots      []string
	disk       *fs.Disk
	history    *undo.Manager
	applier    *apply.Applier
	workspaces *workspace.Store
	prompts    *promptlib.Library
	provider   *source.Provider
}

func NewSession(opts Options) (*Session, error) {
	stateDir := opts.StateDir
	if stateDir == "" {
		var err error
		stateDir, err = config.StateDir()
		if err != nil {
			return nil, err
		}
	}

	cfg, err := config.Load(filepath.Join(stateDir, "config.toml"))
	if err != nil {
		return nil, err
	}

	workspaces := workspace.NewStore(filepath.Join(stateDir, "workspaces.json"))
	prompts := promptlib.NewLibrary(filepath.Join(stateDir, "prompts.json"))

	roots := append([]string(nil), opts.Roots...)
	workspaceID := opts.WorkspaceID
	if workspaceID == "" {
		workspaceID = cfg.DefaultWorkspace
	}
	if workspaceID != "" {
		w, err := workspaces.Get(workspaceID)
		if err != nil {
			return nil, err
		}
		for _, f := range w.Folders {
			roots = append(roots, f.Path)
		}
	}

	disk, err := fs.NewDisk(roots...)
	if err != nil {
		return nil, err
	}

	history := undo.NewManager(disk,
		undo.WithMaxBatches(cfg.UndoDepth),
		undo.WithStateFile(filepath.Join(stateDir, "undo_history.json")),
	)

	return &Session{
		cfg:        cfg,
		roots:      roots,
		disk:       disk,
		history:    history,
		applier:    apply.New(disk, disk, history),
		workspaces: workspaces,
		prompts:    prompts,
		provider:   source.New(),
	}, nil
}

// Close tears the session down. The undo history is persisted eagerly
// on every mutation, so Close has nothing left to flush.
func (s *Session) Close() error {
	return nil
}

func (s *Session) Config() config.Config        { return s.cfg }
func (s *Session) Roots() []string              { return s.roots }
func (s *Session) Workspaces() *workspace.Store { return s.workspaces }
func (s *Session) Prompts() *promptlib.Library  { return s.prompts }
func (s *Session) UndoDepth() int               { return s.history.Depth() }

// ScanTrees scans every root into a read-only tree.
func (s *Session) ScanTrees() ([]*model.FileTreeNode, error) {
	if len(s.roots) == 0 {
		return nil, errors.New("no project roots configured")
	}
	trees := make([]*model.FileTreeNode, 0, len(s.roots))
	for _, root := range s.roots {
		tree, err := scanner.Scan(root, scanner.Options{UseGitIgnore: s.cfg.UseGitIgnore})
		if err != nil {
			return nil, err
		}
		trees = append(trees, tree)
	}
	return trees, nil
}

// BuildPayload renders the request payload for the selected files.
func (s *Session) BuildPayload(files []string, prompt string) (string, error) {
	return payload.BuildRequest(files, prompt, s.disk, s.cfg.Languages)
}

// CopyPayload renders the request payload and publishes it to the
// clipboard.
func (s *Session) CopyPayload(files []string, prompt string) error {
	text, err := s.BuildPayload(files, prompt)
	if err != nil {
		return err
	}
	return source.CopyToClipboard(text)
}

// BuildCopyText renders the plain copy format: the selected file
// contents followed by the ad-hoc prompt and every saved prompt.
func (s *Session) BuildCopyText(files []string, prompt string) (string, error) {
	saved, err := s.prompts.List()
	if err != nil {
		return "", err
	}
	var prompts []string
	if prompt != "" {
		prompts = append(prompts, prompt)
	}
	for _, p := range saved {
		prompts = append(prompts, p.Content)
	}
	return payload.BuildCopyContent(files, prompts, s.disk)
}

// CopyPlain publishes the plain copy format to the clipboard.
func (s *Session) CopyPlain(files []string, prompt string) error {
	text, err := s.BuildCopyText(files, prompt)
	if err != nil {
		return err
	}
	return source.CopyToClipboard(text)
}

// ReplyContent reads the assistant reply from stdin or the clipboard.
func (s *Session) ReplyContent() (string, error) {
	return s.provider.GetContent()
}

// ParseReply parses a change document. A parse error means nothing may
// be previewed or applied from this reply.
func (s *Session) ParseReply(text string) (*parser.Document, error) {
	return parser.Parse(text)
}

// PreviewDiff computes per-file previews for a parsed document,
// reading current contents from disk. Paths that cannot be read render
// with the not-found placeholder.
func (s *Session) PreviewDiff(doc *parser.Document) []model.DiffPreview {
	current := make(map[string]string)
	for _, fc := range doc.Changes {
		if _, ok := current[fc.Path]; ok {
			continue
		}
		content, err := s.disk.ReadFile(fc.Path)
		if err != nil {
			continue
		}
		current[fc.Path] = content
	}
	return diff.Preview(doc.Changes, current)
}

// RenderDiff renders one preview as a unified diff.
func (s *Session) RenderDiff(p model.DiffPreview) (string, error) {
	return diff.Unified(p)
}

// ApplyChanges applies a parsed document and returns one result per
// change, in order. The batch is recorded for undo even when some
// entries fail.
func (s *Session) ApplyChanges(doc *parser.Document) []model.ChangeResult {
	return s.applier.Apply(doc.Changes)
}

// UndoLast reverts the most recent applied batch. The summary carries
// the batch description and the restored paths, even when some
// restores failed. undo.ErrNothingToUndo reports an empty history.
func (s *Session) UndoLast() (model.Summary, error) {
	description, restored, err := s.history.UndoLastBatch()
	return model.Summary{Message: description, Modified: restored}, err
}

// UndoPath reverts the most recent recorded change to one path,
// regardless of batch boundaries, and reports whether a snapshot
// existed.
func (s *Session) UndoPath(path string) (bool, error) {
	return s.history.UndoPath(path)
}

// Summarize folds apply results for display.
func Summarize(results []model.ChangeResult) model.Summary {
	return apply.Summarize(results)
}

// ErrNothingToUndo is re-exported so CLI callers need not import the
// undo package.
var ErrNothingToUndo = undo.ErrNothingToUndo

// DescribeResults renders a one-line outcome count.
func DescribeResults(results []model.ChangeResult) string {
	ok := 0
	for _, r := range results {
		if r.Success {
			ok++
		}
	}
	return fmt.Sprintf("%d/%d changes applied", ok, len(results))
}
