package apply

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohilcode/proprompter/internal/diff"
	"github.com/mohilcode/proprompter/internal/fs"
	"github.com/mohilcode/proprompter/internal/undo"
	"github.com/mohilcode/proprompter/model"
)

func newApplier(mem *fs.Mem) (*Applier, *undo.Manager) {
	history := undo.NewManager(mem)
	return New(mem, mem, history), history
}

func create(path, content string) model.FileChange {
	return model.FileChange{
		Path:   path,
		Action: model.ActionCreate,
		Operations: []model.ChangeOperation{
			{Content: content},
		},
	}
}

func modify(path, search, content string) model.FileChange {
	return model.FileChange{
		Path:   path,
		Action: model.ActionModify,
		Operations: []model.ChangeOperation{
			{Search: search, Content: content},
		},
	}
}

func TestApplyCreate(t *testing.T) {
	mem := fs.NewMem()
	applier, history := newApplier(mem)

	results := applier.Apply([]model.FileChange{create("a.txt", "x")})

	require.Len(t, results, 1)
	assert.True(t, results[0].Success)
	content, err := mem.ReadFile("a.txt")
	require.NoError(t, err)
	assert.Equal(t, "x", content)
	assert.Equal(t, 1, history.Depth())
}

func TestApplyMatchesPreviewByteForByte(t *testing.T) {
	mem := fs.NewMem()
	require.NoError(t, mem.WriteFile("x.py", "foo baz foo"))
	applier, _ := newApplier(mem)

	fc := modify("x.py", "foo", "bar")
	previews := diff.Preview([]model.FileChange{fc}, map[string]string{"x.py": "foo baz foo"})

	results := applier.Apply([]model.FileChange{fc})
	require.True(t, results[0].Success)

	written, err := mem.ReadFile("x.py")
	require.NoError(t, err)
	assert.Equal(t, previews[0].Modified, written)
	assert.Equal(t, "bar baz foo", written)
}

func TestApplyFailureDoesNotAbortBatch(t *testing.T) {
	mem := fs.NewMem()
	require.NoError(t, mem.WriteFile("ok.txt", "old"))
	mem.FailWrites = map[string]bool{"bad.txt": true}
	applier, history := newApplier(mem)

	results := applier.Apply([]model.FileChange{
		create("bad.txt", "x"),
		modify("ok.txt", "old", "new"),
	})

	require.Len(t, results, 2)
	assert.False(t, results[0].Success)
	assert.NotEmpty(t, results[0].Message)
	assert.True(t, results[1].Success)

	// The batch still lands on the undo stack and reverts the
	// successful entry.
	assert.Equal(t, 1, history.Depth())
	_, _, err := history.UndoLastBatch()
	require.NoError(t, err)
	content, err := mem.ReadFile("ok.txt")
	require.NoError(t, err)
	assert.Equal(t, "old", content)
}

func TestApplyDelete(t *testing.T) {
	mem := fs.NewMem()
	require.NoError(t, mem.WriteFile("gone.txt", "bye"))
	applier, _ := newApplier(mem)

	results := applier.Apply([]model.FileChange{
		{Path: "gone.txt", Action: model.ActionDelete},
	})
	require.True(t, results[0].Success)
	assert.False(t, mem.Exists("gone.txt"))
}

func TestApplyDeleteMissingFileFails(t *testing.T) {
	mem := fs.NewMem()
	applier, _ := newApplier(mem)

	results := applier.Apply([]model.FileChange{
		{Path: "absent.txt", Action: model.ActionDelete},
	})
	assert.False(t, results[0].Success)
}

func TestApplyModifyMissingFileFails(t *testing.T) {
	mem := fs.NewMem()
	applier, history := newApplier(mem)

	fc := modify("ghost.txt", "foo", "bar")

	// The preview shows no change for a path with no content, so the
	// apply must not invent one.
	previews := diff.Preview([]model.FileChange{fc}, map[string]string{})
	require.False(t, previews[0].HasChanges)

	results := applier.Apply([]model.FileChange{fc})
	require.Len(t, results, 1)
	assert.False(t, results[0].Success)
	assert.NotEmpty(t, results[0].Message)
	assert.False(t, mem.Exists("ghost.txt"))
	assert.Equal(t, 0, history.Depth(), "a failed read leaves nothing to undo")
}

func TestApplyDuplicatePathsAreSequential(t *testing.T) {
	mem := fs.NewMem()
	require.NoError(t, mem.WriteFile("a.txt", "one two"))
	applier, _ := newApplier(mem)

	// The second entry patches the first entry's output.
	results := applier.Apply([]model.FileChange{
		modify("a.txt", "one", "1"),
		modify("a.txt", "two", "2"),
	})
	require.Len(t, results, 2)
	assert.True(t, results[0].Success)
	assert.True(t, results[1].Success)

	content, err := mem.ReadFile("a.txt")
	require.NoError(t, err)
	assert.Equal(t, "1 2", content)
}

func TestApplyUndoRoundTrip(t *testing.T) {
	mem := fs.NewMem()
	applier, history := newApplier(mem)

	applier.Apply([]model.FileChange{create("a.txt", "x")})
	require.True(t, mem.Exists("a.txt"))

	_, _, err := history.UndoLastBatch()
	require.NoError(t, err)
	assert.False(t, mem.Exists("a.txt"), "undoing a create must remove the file")
}

func TestSummarize(t *testing.T) {
	s := Summarize([]model.ChangeResult{
		{Path: "a", Action: model.ActionCreate, Success: true},
		{Path: "b", Action: model.ActionModify, Success: true},
		{Path: "c", Action: model.ActionDelete, Success: true},
		{Path: "d", Action: model.ActionRewrite, Success: false, Message: "boom"},
	})
	assert.Equal(t, []string{"a"}, s.Created)
	assert.Equal(t, []string{"b"}, s.Modified)
	assert.Equal(t, []string{"c"}, s.Deleted)
	assert.Equal(t, []string{"d"}, s.Failed)
}
