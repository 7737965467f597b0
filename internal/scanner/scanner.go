// Package scanner walks project roots into read-only file trees.
package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"

	"github.com/mohilcode/proprompter/model"
)

// defaultPatterns are ignored regardless of any .gitignore.
var defaultPatterns = []string{
	".git/",
}

// Options controls a scan.
type Options struct {
	// UseGitIgnore honors the root's .gitignore (plus the defaults).
	UseGitIgnore bool
}

// Scan walks root and returns its tree. Directory children are sorted
// directories-first, then case-insensitively by name. File sizes are
// recorded; directory sizes stay zero.
func Scan(root string, opts Options) (*model.FileTreeNode, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("invalid root %q: %w", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("cannot scan %s: %w", abs, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", abs)
	}

	var matcher *gitignore.GitIgnore
	if opts.UseGitIgnore {
		matcher = loadIgnore(abs)
	}

	node := &model.FileTreeNode{
		Path: abs,
		Name: filepath.Base(abs),
		Kind: model.KindDirectory,
	}
	if err := scanInto(node, abs, matcher); err != nil {
		return nil, err
	}
	return node, nil
}

func scanInto(parent *model.FileTreeNode, root string, matcher *gitignore.GitIgnore) error {
	entries, err := os.ReadDir(parent.Path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", parent.Path, err)
	}

	for _, entry := range entries {
		childPath := filepath.Join(parent.Path, entry.Name())
		if ignored(childPath, root, entry.IsDir(), matcher) {
			continue
		}

		if entry.IsDir() {
			dir := &model.FileTreeNode{
				Path: childPath,
				Name: entry.Name(),
				Kind: model.KindDirectory,
			}
			if err := scanInto(dir, root, matcher); err != nil {
				return err
			}
			parent.Children = append(parent.Children, dir)
			continue
		}

		var size int64
		if info, err := entry.Info(); err == nil {
			size = info.Size()
		}
		parent.Children = append(parent.Children, &model.FileTreeNode{
			Path: childPath,
			Name: entry.Name(),
			Kind: model.KindFile,
			Size: size,
		})
	}

	sort.SliceStable(parent.Children, func(i, j int) bool {
		a, b := parent.Children[i], parent.Children[j]
		if a.Kind != b.Kind {
			return a.Kind == model.KindDirectory
		}
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	})
	return nil
}

func ignored(path, root string, isDir bool, matcher *gitignore.GitIgnore) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	if isDir {
		rel += "/"
	}

	for _, p := range defaultPatterns {
		if rel == p || strings.HasPrefix(rel, p) {
			return true
		}
	}
	return matcher != nil && matcher.MatchesPath(rel)
}

// loadIgnore compiles the root's .gitignore. A missing or unreadable
// file means nothing extra is ignored.
func loadIgnore(root string) *gitignore.GitIgnore {
	data, err := os.ReadFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	return gitignore.CompileIgnoreLines(strings.Split(string(data), "\n")...)
}

// CollectFiles flattens a tree into its file paths, depth-first in
// tree order.
func CollectFiles(node *model.FileTreeNode) []string {
	var out []string
	var walk func(n *model.FileTreeNode)
	walk = func(n *model.FileTreeNode) {
		if n.Kind == model.KindFile {
			out = append(out, n.Path)
			return
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(node)
	return out
}
