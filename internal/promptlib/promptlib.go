// Package promptlib persists the saved-prompt library.
package promptlib

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Tag labels a saved prompt.
type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Prompt is one saved prompt.
type Prompt struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Tags      []Tag  `json:"tags"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}

// Library is a JSON-file-backed prompt collection.
type Library struct {
	path string
}

func NewLibrary(path string) *Library {
	return &Library{path: path}
}

func (l *Library) List() ([]Prompt, error) {
	return l.load()
}

func (l *Library) Add(title, content string, tags []Tag) (Prompt, error) {
	prompts, err := l.load()
	if err != nil {
		return Prompt{}, err
	}

	now := time.Now().Unix()
	p := Prompt{
		ID:        uuid.NewString(),
		Title:     title,
		Content:   content,
		Tags:      tags,
		CreatedAt: now,
		UpdatedAt: now,
	}
	prompts = append(prompts, p)
	if err := l.save(prompts); err != nil {
		return Prompt{}, err
	}
	return p, nil
}

// Update changes the given fields of a prompt; nil fields are left
// alone.
func (l *Library) Update(id string, title, content *string, tags []Tag) (Prompt, error) {
	prompts, err := l.load()
	if err != nil {
		return Prompt{}, err
	}

	for i := range prompts {
		if prompts[i].ID != id {
			continue
		}
		if title != nil {
			prompts[i].Title = *title
		}
		if content != nil {
			prompts[i].Content = *content
		}
		if tags != nil {
			prompts[i].Tags = tags
		}
		prompts[i].UpdatedAt = time.Now().Unix()
		if err := l.save(prompts); err != nil {
			return Prompt{}, err
		}
		return prompts[i], nil
	}
	return Prompt{}, fmt.Errorf("prompt %s not found", id)
}

func (l *Library) Delete(id string) error {
	prompts, err := l.load()
	if err != nil {
		return err
	}
	kept := prompts[:0]
	for _, p := range prompts {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	return l.save(kept)
}

func (l *Library) load() ([]Prompt, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read prompts: %w", err)
	}
	var prompts []Prompt
	if err := json.Unmarshal(data, &prompts); err != nil {
		return nil, fmt.Errorf("failed to parse prompts: %w", err)
	}
	return prompts, nil
}

func (l *Library) save(prompts []Prompt) error {
	data, err := json.MarshalIndent(prompts, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize prompts: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	if err := os.WriteFile(l.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write prompts: %w", err)
	}
	return nil
}
