package payload

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohilcode/proprompter/internal/fs"
)

func TestLang(t *testing.T) {
	assert.Equal(t, "go", Lang("cmd/main.go", nil))
	assert.Equal(t, "tsx", Lang("app/App.TSX", nil))
	assert.Equal(t, "md", Lang("README.md", nil), "unknown extensions fall back to the bare extension")
	assert.Equal(t, "ruby", Lang("tool.rb", map[string]string{".rb": "ruby"}))
	assert.Equal(t, "golang", Lang("main.go", map[string]string{".go": "golang"}), "overrides win over the built-in table")
}

func TestBuildRequest(t *testing.T) {
	mem := fs.NewMem()
	require.NoError(t, mem.WriteFile("src/main.go", "package main"))
	require.NoError(t, mem.WriteFile("src/util.py", "pass"))

	out, err := BuildRequest([]string{"src/util.py", "src/main.go"}, "add logging", mem, nil)
	require.NoError(t, err)

	assert.Contains(t, out, "<file_map>\nsrc/main.go\nsrc/util.py\n</file_map>", "file map is sorted")
	assert.Contains(t, out, "File: src/main.go\n```go\npackage main\n```")
	assert.Contains(t, out, "File: src/util.py\n```python\npass\n```")
	assert.Contains(t, out, "<xml_formatting_instructions>")
	assert.Contains(t, out, "<user_instructions>\nadd logging\n</user_instructions>")
}

func TestBuildRequestPreservesFileOrder(t *testing.T) {
	mem := fs.NewMem()
	require.NoError(t, mem.WriteFile("b.go", "b"))
	require.NoError(t, mem.WriteFile("a.go", "a"))

	out, err := BuildRequest([]string{"b.go", "a.go"}, "p", mem, nil)
	require.NoError(t, err)

	assert.Less(t, strings.Index(out, "File: b.go"), strings.Index(out, "File: a.go"))
}

func TestBuildRequestFailsOnUnreadableFile(t *testing.T) {
	mem := fs.NewMem()

	_, err := BuildRequest([]string{"missing.go"}, "p", mem, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.go")
}

func TestBuildCopyContent(t *testing.T) {
	mem := fs.NewMem()
	require.NoError(t, mem.WriteFile("a.txt", "alpha"))

	out, err := BuildCopyContent([]string{"a.txt"}, []string{"first prompt", "second prompt"}, mem)
	require.NoError(t, err)

	assert.Contains(t, out, "File: a.txt\n```\nalpha\n```")
	assert.Contains(t, out, "===== Prompts =====")
	assert.Contains(t, out, "first prompt")
	assert.Contains(t, out, "second prompt")
}

func TestBuildCopyContentWithoutPrompts(t *testing.T) {
	mem := fs.NewMem()
	require.NoError(t, mem.WriteFile("a.txt", "alpha"))

	out, err := BuildCopyContent([]string{"a.txt"}, nil, mem)
	require.NoError(t, err)
	assert.NotContains(t, out, "===== Prompts =====")
}
