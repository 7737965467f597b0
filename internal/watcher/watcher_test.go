package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportsDebouncedChange(t *testing.T) {
	dir := t.TempDir()

	w, err := New()
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, w.Add(dir))

	path := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("one"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("two"), 0o644))

	select {
	case ev := <-w.Events():
		assert.Equal(t, path, ev.Path)
	case <-time.After(3 * time.Second):
		t.Fatal("no event received")
	}
}

func TestCloseEndsEventStream(t *testing.T) {
	w, err := New()
	require.NoError(t, err)
	require.NoError(t, w.Close())

	select {
	case _, ok := <-w.Events():
		assert.False(t, ok, "events channel should be closed")
	case <-time.After(3 * time.Second):
		t.Fatal("events channel did not close")
	}
}
