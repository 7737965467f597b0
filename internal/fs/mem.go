package fs

import "fmt"

// Mem is an in-memory Reader/Writer used by tests and dry runs.
type Mem struct {
	files map[string]string

	// FailWrites lists paths whose writes and deletes report an error,
	// for exercising partial-failure paths.
	FailWrites map[string]bool
}

func NewMem() *Mem {
	return &Mem{files: make(map[string]string)}
}

func (m *Mem) ReadFile(path string) (string, error) {
	content, ok := m.files[path]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	return content, nil
}

func (m *Mem) WriteFile(path, content string) error {
	if m.FailWrites[path] {
		return fmt.Errorf("write %s: permission denied", path)
	}
	m.files[path] = content
	return nil
}

func (m *Mem) DeleteFile(path string) error {
	if m.FailWrites[path] {
		return fmt.Errorf("delete %s: permission denied", path)
	}
	if _, ok := m.files[path]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	delete(m.files, path)
	return nil
}

// Exists reports whether a path currently holds content.
func (m *Mem) Exists(path string) bool {
	_, ok := m.files[path]
	return ok
}
