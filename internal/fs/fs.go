// Package fs defines the reader/writer collaborators the change
// pipeline depends on, plus the disk-backed implementation.
package fs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound reports that a path does not exist. Callers use
// errors.Is to distinguish it from other I/O failures.
var ErrNotFound = errors.New("file not found")

// Reader provides current file content for diffing and snapshotting.
type Reader interface {
	ReadFile(path string) (string, error)
}

// Writer performs the actual mutations. Both methods fail without
// partial retry; retries are the caller's responsibility.
type Writer interface {
	WriteFile(path, content string) error
	DeleteFile(path string) error
}

// Disk reads and writes real files. When roots are configured, any
// path resolving outside all of them is rejected.
type Disk struct {
	roots []string
}

// NewDisk creates a Disk confined to the given root directories. With
// no roots, all paths are allowed.
func NewDisk(roots ...string) (*Disk, error) {
	abs := make([]string, 0, len(roots))
	for _, r := range roots {
		a, err := filepath.Abs(r)
		if err != nil {
			return nil, fmt.Errorf("invalid root %q: %w", r, err)
		}
		abs = append(abs, a)
	}
	return &Disk{roots: abs}, nil
}

func (d *Disk) ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

// WriteFile writes content, creating parent directories as needed.
func (d *Disk) WriteFile(path, content string) error {
	if err := d.allowed(path); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." && dir != string(filepath.Separator) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func (d *Disk) DeleteFile(path string) error {
	if err := d.allowed(path); err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return fmt.Errorf("failed to delete %s: %w", path, err)
	}
	return nil
}

// allowed rejects paths that escape every configured root.
func (d *Disk) allowed(path string) error {
	if len(d.roots) == 0 {
		return nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("invalid path %q: %w", path, err)
	}
	for _, root := range d.roots {
		rel, err := filepath.Rel(root, abs)
		if err != nil {
			continue
		}
		if rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return nil
		}
	}
	return fmt.Errorf("path %s is outside all workspace roots", path)
}
