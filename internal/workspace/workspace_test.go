package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohilcode/proprompter/internal/scanner"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "workspaces.json"))
}

func TestCreateAndGet(t *testing.T) {
	store := newStore(t)

	w, err := store.Create("backend")
	require.NoError(t, err)
	assert.NotEmpty(t, w.ID)
	assert.Equal(t, "backend", w.Name)

	got, err := store.Get(w.ID)
	require.NoError(t, err)
	assert.Equal(t, w.ID, got.ID)
}

func TestGetMissing(t *testing.T) {
	store := newStore(t)
	_, err := store.Get("nope")
	assert.Error(t, err)
}

func TestRename(t *testing.T) {
	store := newStore(t)
	w, err := store.Create("old")
	require.NoError(t, err)

	renamed, err := store.Rename(w.ID, "new")
	require.NoError(t, err)
	assert.Equal(t, "new", renamed.Name)
	assert.GreaterOrEqual(t, renamed.UpdatedAt, w.UpdatedAt)
}

func TestDelete(t *testing.T) {
	store := newStore(t)
	w, err := store.Create("doomed")
	require.NoError(t, err)

	require.NoError(t, store.Delete(w.ID))
	_, err = store.Get(w.ID)
	assert.Error(t, err)
}

func TestAddAndRemoveFolder(t *testing.T) {
	store := newStore(t)
	w, err := store.Create("ws")
	require.NoError(t, err)

	dir := t.TempDir()
	folder, err := store.AddFolder(w.ID, dir, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Base(dir), folder.Name)

	got, err := store.Get(w.ID)
	require.NoError(t, err)
	require.Len(t, got.Folders, 1)

	require.NoError(t, store.RemoveFolder(w.ID, folder.ID))
	got, err = store.Get(w.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Folders)
}

func TestAddFolderRejectsMissingDir(t *testing.T) {
	store := newStore(t)
	w, err := store.Create("ws")
	require.NoError(t, err)

	_, err = store.AddFolder(w.ID, filepath.Join(t.TempDir(), "missing"), "")
	assert.Error(t, err)
}

func TestFilesCollectsAllFolders(t *testing.T) {
	store := newStore(t)
	w, err := store.Create("ws")
	require.NoError(t, err)

	dirA := t.TempDir()
	dirB := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dirA, "a.go"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dirB, "b.go"), []byte("b"), 0o644))

	_, err = store.AddFolder(w.ID, dirA, "")
	require.NoError(t, err)
	_, err = store.AddFolder(w.ID, dirB, "")
	require.NoError(t, err)

	files, err := store.Files(w.ID, scanner.Options{})
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "workspaces.json")

	first := NewStore(path)
	w, err := first.Create("persisted")
	require.NoError(t, err)

	second := NewStore(path)
	got, err := second.Get(w.ID)
	require.NoError(t, err)
	assert.Equal(t, "persisted", got.Name)
}
