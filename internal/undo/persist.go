package undo

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// history is the on-disk shape of the manager state.
type history struct {
	Batches []Batch             `json:"batches"`
	Latest  map[string]Snapshot `json:"latest"`
}

func (m *Manager) load() {
	data, err := os.ReadFile(m.statePath)
	if err != nil {
		return
	}
	var h history
	if err := json.Unmarshal(data, &h); err != nil {
		// A corrupt history file starts a fresh session rather than
		// blocking every operation behind it.
		return
	}
	m.stack = h.Batches
	if h.Latest != nil {
		m.latest = h.Latest
	}
}

func (m *Manager) save() {
	if m.statePath == "" {
		return
	}
	h := history{Batches: m.stack, Latest: m.latest}
	data, err := json.MarshalIndent(h, "", "  ")
	if err != nil {
		return
	}
	if err := os.MkdirAll(filepath.Dir(m.statePath), 0o755); err != nil {
		return
	}
	_ = os.WriteFile(m.statePath, data, 0o644)
}
