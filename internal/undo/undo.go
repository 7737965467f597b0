// Package undo keeps pre-change snapshots and restores them. The
// manager owns two synchronized structures: a stack of batches for
// whole-apply rollback, and a per-path last-write-wins map for
// single-file rollback that ignores batch boundaries.
package undo

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mohilcode/proprompter/internal/fs"
)

// ErrNothingToUndo reports an empty undo stack. It is a reportable
// condition, not a failure.
var ErrNothingToUndo = errors.New("nothing to undo")

// DefaultMaxBatches bounds the stack so a long session cannot grow it
// without limit. The oldest batch is dropped when the cap is exceeded.
const DefaultMaxBatches = 50

// Snapshot records the pre-change state of one path. A nil
// PriorContent means the path did not exist before the batch, so
// restoring it deletes the file.
type Snapshot struct {
	Path         string    `json:"path"`
	PriorContent *string   `json:"prior_content,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// Batch groups the snapshots taken during one apply call.
type Batch struct {
	ID          string     `json:"id"`
	Description string     `json:"description"`
	Timestamp   time.Time  `json:"timestamp"`
	Snapshots   []Snapshot `json:"snapshots"`
}

// Manager is session-scoped: one instance per Session, created and
// torn down explicitly. Push, UndoLastBatch and UndoPath are not
// re-entrant-safe against each other; the caller serializes them.
type Manager struct {
	writer     fs.Writer
	stack      []Batch
	latest     map[string]Snapshot
	maxBatches int
	statePath  string
}

type Option func(*Manager)

// WithMaxBatches overrides the stack depth cap. n <= 0 keeps the
// default.
func WithMaxBatches(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.maxBatches = n
		}
	}
}

// WithStateFile persists the history to path as JSON so undo survives
// a restart. Existing history is loaded at construction; a corrupt or
// missing file starts an empty history.
func WithStateFile(path string) Option {
	return func(m *Manager) { m.statePath = path }
}

func NewManager(w fs.Writer, opts ...Option) *Manager {
	m := &Manager{
		writer:     w,
		latest:     make(map[string]Snapshot),
		maxBatches: DefaultMaxBatches,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.statePath != "" {
		m.load()
	}
	return m
}

// Push records one applied batch. Snapshots arrive one per attempted
// FileChange; only the first snapshot per path is kept, since it holds
// the true pre-batch state when a batch touches a path twice. The
// per-path map is pointed at each kept snapshot.
func (m *Manager) Push(description string, snaps []Snapshot) {
	if len(snaps) == 0 {
		return
	}

	batch := Batch{
		ID:          uuid.NewString(),
		Description: description,
		Timestamp:   time.Now().UTC(),
	}
	seen := make(map[string]bool, len(snaps))
	for _, s := range snaps {
		if seen[s.Path] {
			continue
		}
		seen[s.Path] = true
		batch.Snapshots = append(batch.Snapshots, s)
		m.latest[s.Path] = s
	}

	m.stack = append(m.stack, batch)
	if len(m.stack) > m.maxBatches {
		m.stack = m.stack[len(m.stack)-m.maxBatches:]
	}
	m.save()
}

// UndoLastBatch pops the most recent batch and restores every snapshot
// in it, most recently taken first. It returns the batch description
// and the paths that were restored. The per-path map is left
// untouched; reverting batch N never resurrects batch N-1's snapshot
// for the same path.
func (m *Manager) UndoLastBatch() (string, []string, error) {
	if len(m.stack) == 0 {
		return "", nil, ErrNothingToUndo
	}

	batch := m.stack[len(m.stack)-1]
	m.stack = m.stack[:len(m.stack)-1]

	var restored []string
	var errs []error
	for i := len(batch.Snapshots) - 1; i >= 0; i-- {
		if err := m.restore(batch.Snapshots[i]); err != nil {
			errs = append(errs, err)
			continue
		}
		restored = append(restored, batch.Snapshots[i].Path)
	}
	m.save()

	if len(errs) > 0 {
		return batch.Description, restored, fmt.Errorf("undo incomplete: %w", errors.Join(errs...))
	}
	return batch.Description, restored, nil
}

// UndoPath restores the most recent snapshot for path, regardless of
// which batch recorded it, and reports whether one existed. A restored
// path is removed from the map, so a second call reports nothing to
// undo until a new change is applied.
func (m *Manager) UndoPath(path string) (bool, error) {
	snap, ok := m.latest[path]
	if !ok {
		return false, nil
	}
	if err := m.restore(snap); err != nil {
		return true, err
	}
	delete(m.latest, path)
	m.save()
	return true, nil
}

// Depth returns the number of batches on the stack.
func (m *Manager) Depth() int {
	return len(m.stack)
}

func (m *Manager) restore(s Snapshot) error {
	if s.PriorContent == nil {
		err := m.writer.DeleteFile(s.Path)
		if err != nil && !errors.Is(err, fs.ErrNotFound) {
			return fmt.Errorf("failed to remove %s: %w", s.Path, err)
		}
		return nil
	}
	if err := m.writer.WriteFile(s.Path, *s.PriorContent); err != nil {
		return fmt.Errorf("failed to restore %s: %w", s.Path, err)
	}
	return nil
}
