// Package config loads the TOML configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds user-tunable settings. Zero values fall back to
// Default.
type Config struct {
	// UseGitIgnore makes scans honor .gitignore files.
	UseGitIgnore bool `toml:"use_git_ignore"`
	// UndoDepth caps the undo stack; oldest batches drop past it.
	UndoDepth int `toml:"undo_depth"`
	// DefaultWorkspace is the workspace id used when none is given.
	DefaultWorkspace string `toml:"default_workspace"`
	// Languages maps file extensions (with dot) to fence language tags
	// in generated payloads, extending the built-in table.
	Languages map[string]string `toml:"languages"`
}

func Default() Config {
	return Config{
		UseGitIgnore: true,
		UndoDepth:    50,
	}
}

// Load reads path; a missing file returns Default.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if cfg.UndoDepth <= 0 {
		cfg.UndoDepth = Default().UndoDepth
	}
	return cfg, nil
}

// StateDir returns the per-user state directory, creating it if
// needed.
func StateDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine config directory: %w", err)
	}
	dir := filepath.Join(base, "proprompter")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("cannot create state directory: %w", err)
	}
	return dir, nil
}
