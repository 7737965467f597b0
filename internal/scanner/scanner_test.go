package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohilcode/proprompter/model"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for path, content := range files {
		full := filepath.Join(root, path)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
}

func names(nodes []*model.FileTreeNode) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.Name)
	}
	return out
}

func TestScanSortsDirectoriesFirst(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"zeta.txt":      "z",
		"Alpha.txt":     "a",
		"sub/inner.txt": "i",
		"Beta/b.txt":    "b",
	})

	tree, err := Scan(root, Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"Beta", "sub", "Alpha.txt", "zeta.txt"}, names(tree.Children))
	assert.Equal(t, model.KindDirectory, tree.Kind)
}

func TestScanRecordsFileSizes(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.txt": "12345"})

	tree, err := Scan(root, Options{})
	require.NoError(t, err)
	require.Len(t, tree.Children, 1)
	assert.Equal(t, int64(5), tree.Children[0].Size)
}

func TestScanHonorsGitIgnore(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		".gitignore":       "ignored.txt\nbuild/\n",
		"ignored.txt":      "x",
		"kept.txt":         "x",
		"build/out.bin":    "x",
		"src/main.go":      "x",
		".git/config":      "x",
	})

	tree, err := Scan(root, Options{UseGitIgnore: true})
	require.NoError(t, err)

	files := CollectFiles(tree)
	rel := make([]string, 0, len(files))
	for _, f := range files {
		r, err := filepath.Rel(root, f)
		require.NoError(t, err)
		rel = append(rel, filepath.ToSlash(r))
	}
	assert.Contains(t, rel, "kept.txt")
	assert.Contains(t, rel, "src/main.go")
	assert.NotContains(t, rel, "ignored.txt")
	assert.NotContains(t, rel, "build/out.bin")
	assert.NotContains(t, rel, ".git/config")
}

func TestScanWithoutGitIgnoreKeepsIgnoredFiles(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		".gitignore":  "ignored.txt\n",
		"ignored.txt": "x",
		".git/config": "x",
	})

	tree, err := Scan(root, Options{UseGitIgnore: false})
	require.NoError(t, err)

	files := CollectFiles(tree)
	found := false
	for _, f := range files {
		if filepath.Base(f) == "ignored.txt" {
			found = true
		}
		// .git is excluded regardless of options.
		assert.NotContains(t, f, ".git"+string(filepath.Separator))
	}
	assert.True(t, found)
}

func TestScanRejectsFiles(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.txt": "x"})

	_, err := Scan(filepath.Join(root, "a.txt"), Options{})
	assert.Error(t, err)
}

func TestScanMissingRoot(t *testing.T) {
	_, err := Scan(filepath.Join(t.TempDir(), "missing"), Options{})
	assert.Error(t, err)
}
