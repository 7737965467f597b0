// Package payload renders the request text sent to the assistant: the
// selected files, their tree, the change-document format contract, and
// the user's instructions.
package payload

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mohilcode/proprompter/internal/fs"
)

// formatInstructions tells the assistant how to encode its reply so
// the parser can round-trip it.
const formatInstructions = `Reply with a sequence of <file path="..." action="..."> blocks.
Actions: create, rewrite, modify, delete.
Each block contains <change> blocks with a <description>, an optional
<search> and a <content> section. Fence search and content payloads
between lines containing only ===. For modify, search must quote the
current file text verbatim; the first occurrence is replaced.`

var langByExt = map[string]string{
	".js":   "javascript",
	".ts":   "typescript",
	".jsx":  "tsx",
	".tsx":  "tsx",
	".py":   "python",
	".rs":   "rust",
	".go":   "go",
	".java": "java",
	".c":    "cpp",
	".h":    "cpp",
	".cpp":  "cpp",
}

// Lang maps a file path to the fence language tag used for its
// content. Overrides extend or replace the built-in mapping.
func Lang(path string, overrides map[string]string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if overrides != nil {
		if lang, ok := overrides[ext]; ok {
			return lang
		}
	}
	if lang, ok := langByExt[ext]; ok {
		return lang
	}
	return strings.TrimPrefix(ext, ".")
}

// BuildRequest renders the full request payload for the given files
// and prompt. Files are read through the supplied reader; a file that
// cannot be read fails the build, since a payload silently missing a
// selected file misleads the assistant.
func BuildRequest(files []string, prompt string, r fs.Reader, langOverrides map[string]string) (string, error) {
	var b strings.Builder

	b.WriteString("<file_map>\n")
	b.WriteString(fileMap(files))
	b.WriteString("</file_map>\n\n")

	b.WriteString("<file_contents>\n")
	for _, path := range files {
		content, err := r.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("cannot include %s: %w", path, err)
		}
		fmt.Fprintf(&b, "File: %s\n```%s\n%s\n```\n\n", path, Lang(path, langOverrides), content)
	}
	b.WriteString("</file_contents>\n\n")

	b.WriteString("<xml_formatting_instructions>\n")
	b.WriteString(formatInstructions)
	b.WriteString("\n</xml_formatting_instructions>\n\n")

	b.WriteString("<user_instructions>\n")
	b.WriteString(prompt)
	b.WriteString("\n</user_instructions>\n")

	return b.String(), nil
}

// BuildCopyContent renders the plain copy format: file contents with
// headers, followed by the prompt list.
func BuildCopyContent(files []string, prompts []string, r fs.Reader) (string, error) {
	var b strings.Builder

	for _, path := range files {
		content, err := r.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("cannot include %s: %w", path, err)
		}
		fmt.Fprintf(&b, "File: %s\n```\n%s\n```\n\n", path, content)
	}

	if len(prompts) > 0 {
		b.WriteString("===== Prompts =====\n\n")
		for _, p := range prompts {
			b.WriteString(p)
			b.WriteString("\n\n")
		}
	}

	return b.String(), nil
}

// fileMap lists the files sorted by path, one per line.
func fileMap(files []string) string {
	sorted := make([]string, len(files))
	copy(sorted, files)
	sort.Strings(sorted)

	var b strings.Builder
	for _, f := range sorted {
		b.WriteString(f)
		b.WriteString("\n")
	}
	return b.String()
}
