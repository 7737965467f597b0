package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohilcode/proprompter/model"
)

func modify(path string, pairs ...string) model.FileChange {
	fc := model.FileChange{Path: path, Action: model.ActionModify}
	for i := 0; i+1 < len(pairs); i += 2 {
		fc.Operations = append(fc.Operations, model.ChangeOperation{
			Search: pairs[i], Content: pairs[i+1],
		})
	}
	return fc
}

func TestTransformReplacesFirstOccurrenceOnly(t *testing.T) {
	fc := modify("x.py", "foo", "bar")
	assert.Equal(t, "bar baz foo", Transform(fc, "foo baz foo"))
}

func TestTransformMissingSearchIsNoOp(t *testing.T) {
	fc := modify("x.py", "not there", "bar")
	assert.Equal(t, "foo baz", Transform(fc, "foo baz"))
}

func TestTransformAppliesOperationsInOrder(t *testing.T) {
	fc := modify("x.py", "a", "b", "b c", "done")
	// First op rewrites a->b, second matches against the result.
	assert.Equal(t, "done", Transform(fc, "a c"))
}

func TestPreviewCreate(t *testing.T) {
	fc := model.FileChange{
		Path:   "new.txt",
		Action: model.ActionCreate,
		Operations: []model.ChangeOperation{
			{Content: "hello"},
		},
	}
	previews := Preview([]model.FileChange{fc}, map[string]string{})
	require.Len(t, previews, 1)
	assert.Equal(t, "", previews[0].Original)
	assert.Equal(t, "hello", previews[0].Modified)
	assert.True(t, previews[0].HasChanges)
}

func TestPreviewDelete(t *testing.T) {
	fc := model.FileChange{Path: "old.txt", Action: model.ActionDelete}

	previews := Preview([]model.FileChange{fc}, map[string]string{"old.txt": "bye"})
	assert.Equal(t, "bye", previews[0].Original)
	assert.Equal(t, "", previews[0].Modified)
	assert.True(t, previews[0].HasChanges)

	previews = Preview([]model.FileChange{fc}, map[string]string{})
	assert.Equal(t, PlaceholderMissing, previews[0].Original)
}

func TestPreviewRewriteUnchangedContent(t *testing.T) {
	fc := model.FileChange{
		Path:   "same.txt",
		Action: model.ActionRewrite,
		Operations: []model.ChangeOperation{
			{Content: "identical"},
		},
	}
	previews := Preview([]model.FileChange{fc}, map[string]string{"same.txt": "identical"})
	assert.False(t, previews[0].HasChanges)
}

func TestPreviewModifyMissingFile(t *testing.T) {
	previews := Preview([]model.FileChange{modify("gone.txt", "a", "b")}, map[string]string{})
	assert.Equal(t, PlaceholderMissing, previews[0].Original)
	assert.Equal(t, PlaceholderMissing, previews[0].Modified)
	assert.False(t, previews[0].HasChanges)
}

func TestPreviewIsIdempotentAndDoesNotMutateInputs(t *testing.T) {
	changes := []model.FileChange{modify("x.py", "foo", "bar")}
	current := map[string]string{"x.py": "foo baz foo"}

	first := Preview(changes, current)
	second := Preview(changes, current)

	assert.Equal(t, first, second)
	assert.Equal(t, "foo baz foo", current["x.py"])
	assert.Equal(t, "foo", changes[0].Operations[0].Search)
}

func TestUnified(t *testing.T) {
	text, err := Unified(model.DiffPreview{
		Path:       "x.py",
		Original:   "foo baz foo\n",
		Modified:   "bar baz foo\n",
		HasChanges: true,
	})
	require.NoError(t, err)
	assert.Contains(t, text, "-foo baz foo")
	assert.Contains(t, text, "+bar baz foo")
	assert.Contains(t, text, "x.py (current)")
}
