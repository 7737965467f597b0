// Package apply drives parsed changes onto storage. Failures are
// isolated per file: every entry in a batch is attempted and reported
// individually, and the whole batch is snapshotted for undo.
package apply

import (
	"errors"
	"fmt"
	"time"

	"github.com/mohilcode/proprompter/internal/diff"
	"github.com/mohilcode/proprompter/internal/fs"
	"github.com/mohilcode/proprompter/internal/undo"
	"github.com/mohilcode/proprompter/model"
)

// Applier applies change batches through an injected reader and
// writer. Apply is not re-entrant-safe; the caller serializes apply
// and undo operations.
type Applier struct {
	reader  fs.Reader
	writer  fs.Writer
	history *undo.Manager
}

func New(r fs.Reader, w fs.Writer, history *undo.Manager) *Applier {
	return &Applier{reader: r, writer: w, history: history}
}

// Apply processes every change in input order and returns one
// ChangeResult per input, in the same order. A failing entry never
// aborts the batch. Snapshots are taken before each mutation and
// pushed as one undo batch after the loop, including snapshots for
// entries whose write failed, since a failed write may still have
// mutated state.
func (a *Applier) Apply(changes []model.FileChange) []model.ChangeResult {
	results := make([]model.ChangeResult, 0, len(changes))
	snaps := make([]undo.Snapshot, 0, len(changes))

	for _, fc := range changes {
		current, exists, err := a.readCurrent(fc.Path)
		if err != nil {
			// Unreadable, not merely absent. Nothing was mutated, so
			// no snapshot is recorded for this entry.
			results = append(results, failure(fc, err))
			continue
		}
		if fc.Action == model.ActionModify && !exists {
			// A modify has nothing to patch; the preview renders this
			// as no change, and applying must agree rather than
			// manufacture an empty file.
			results = append(results, failure(fc, fmt.Errorf("%w: %s", fs.ErrNotFound, fc.Path)))
			continue
		}

		snap := undo.Snapshot{Path: fc.Path, Timestamp: time.Now().UTC()}
		if exists {
			prior := current
			snap.PriorContent = &prior
		}
		snaps = append(snaps, snap)

		if err := a.mutate(fc, current); err != nil {
			results = append(results, failure(fc, err))
			continue
		}
		results = append(results, model.ChangeResult{
			Path: fc.Path, Action: fc.Action, Success: true,
		})
	}

	a.history.Push(describe(changes), snaps)
	return results
}

func (a *Applier) readCurrent(path string) (content string, exists bool, err error) {
	content, err = a.reader.ReadFile(path)
	if err == nil {
		return content, true, nil
	}
	if errors.Is(err, fs.ErrNotFound) {
		// The expected case for creates.
		return "", false, nil
	}
	return "", false, err
}

func (a *Applier) mutate(fc model.FileChange, current string) error {
	if fc.Action == model.ActionDelete {
		return a.writer.DeleteFile(fc.Path)
	}
	return a.writer.WriteFile(fc.Path, diff.Transform(fc, current))
}

func failure(fc model.FileChange, err error) model.ChangeResult {
	return model.ChangeResult{
		Path: fc.Path, Action: fc.Action, Success: false, Message: err.Error(),
	}
}

func describe(changes []model.FileChange) string {
	if len(changes) == 1 {
		return fmt.Sprintf("%s %s", changes[0].Action, changes[0].Path)
	}
	return fmt.Sprintf("applied changes to %d files", len(changes))
}

// Summarize folds per-file results into a display summary.
func Summarize(results []model.ChangeResult) model.Summary {
	var s model.Summary
	for _, r := range results {
		if !r.Success {
			s.Failed = append(s.Failed, r.Path)
			continue
		}
		switch r.Action {
		case model.ActionCreate:
			s.Created = append(s.Created, r.Path)
		case model.ActionDelete:
			s.Deleted = append(s.Deleted, r.Path)
		default:
			s.Modified = append(s.Modified, r.Path)
		}
	}
	return s
}
