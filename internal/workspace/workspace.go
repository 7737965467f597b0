// Package workspace persists named groups of root folders.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/mohilcode/proprompter/internal/scanner"
)

// Folder is one root directory inside a workspace.
type Folder struct {
	ID   string `json:"id"`
	Path string `json:"path"`
	Name string `json:"name"`
}

// Workspace is a named group of folders. Operations take workspace ids
// explicitly; there is no ambient current workspace.
type Workspace struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Folders   []Folder `json:"folders"`
	CreatedAt int64    `json:"created_at"`
	UpdatedAt int64    `json:"updated_at"`
}

// Store is a JSON-file-backed workspace collection.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) List() ([]Workspace, error) {
	return s.load()
}

func (s *Store) Get(id string) (Workspace, error) {
	workspaces, err := s.load()
	if err != nil {
		return Workspace{}, err
	}
	for _, w := range workspaces {
		if w.ID == id {
			return w, nil
		}
	}
	return Workspace{}, fmt.Errorf("workspace %s not found", id)
}

func (s *Store) Create(name string) (Workspace, error) {
	workspaces, err := s.load()
	if err != nil {
		return Workspace{}, err
	}

	now := time.Now().Unix()
	w := Workspace{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	workspaces = append(workspaces, w)
	if err := s.save(workspaces); err != nil {
		return Workspace{}, err
	}
	return w, nil
}

func (s *Store) Rename(id, name string) (Workspace, error) {
	workspaces, err := s.load()
	if err != nil {
		return Workspace{}, err
	}
	i, err := index(workspaces, id)
	if err != nil {
		return Workspace{}, err
	}
	workspaces[i].Name = name
	workspaces[i].UpdatedAt = time.Now().Unix()
	if err := s.save(workspaces); err != nil {
		return Workspace{}, err
	}
	return workspaces[i], nil
}

func (s *Store) Delete(id string) error {
	workspaces, err := s.load()
	if err != nil {
		return err
	}
	kept := workspaces[:0]
	for _, w := range workspaces {
		if w.ID != id {
			kept = append(kept, w)
		}
	}
	return s.save(kept)
}

// AddFolder registers a directory under a workspace. The directory
// must exist.
func (s *Store) AddFolder(workspaceID, path, name string) (Folder, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Folder{}, fmt.Errorf("cannot add folder: %w", err)
	}
	if !info.IsDir() {
		return Folder{}, fmt.Errorf("not a directory: %s", path)
	}
	if name == "" {
		name = filepath.Base(path)
	}

	workspaces, err := s.load()
	if err != nil {
		return Folder{}, err
	}
	i, err := index(workspaces, workspaceID)
	if err != nil {
		return Folder{}, err
	}

	folder := Folder{ID: uuid.NewString(), Path: path, Name: name}
	workspaces[i].Folders = append(workspaces[i].Folders, folder)
	workspaces[i].UpdatedAt = time.Now().Unix()
	if err := s.save(workspaces); err != nil {
		return Folder{}, err
	}
	return folder, nil
}

func (s *Store) RemoveFolder(workspaceID, folderID string) error {
	workspaces, err := s.load()
	if err != nil {
		return err
	}
	i, err := index(workspaces, workspaceID)
	if err != nil {
		return err
	}
	kept := workspaces[i].Folders[:0]
	for _, f := range workspaces[i].Folders {
		if f.ID != folderID {
			kept = append(kept, f)
		}
	}
	workspaces[i].Folders = kept
	workspaces[i].UpdatedAt = time.Now().Unix()
	return s.save(workspaces)
}

// Files scans every folder of a workspace and returns all file paths.
func (s *Store) Files(workspaceID string, opts scanner.Options) ([]string, error) {
	w, err := s.Get(workspaceID)
	if err != nil {
		return nil, err
	}

	var all []string
	for _, folder := range w.Folders {
		tree, err := scanner.Scan(folder.Path, opts)
		if err != nil {
			return nil, err
		}
		all = append(all, scanner.CollectFiles(tree)...)
	}
	return all, nil
}

func index(workspaces []Workspace, id string) (int, error) {
	for i, w := range workspaces {
		if w.ID == id {
			return i, nil
		}
	}
	return 0, fmt.Errorf("workspace %s not found", id)
}
