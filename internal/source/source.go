// Package source acquires the assistant's reply text.
package source

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
)

// Provider reads the reply from stdin when piped, or the clipboard
// otherwise.
type Provider struct{}

func New() *Provider {
	return &Provider{}
}

// GetContent returns the reply text. An empty clipboard yields an
// empty string, not an error.
func (p *Provider) GetContent() (string, error) {
	stat, _ := os.Stdin.Stat()
	if (stat.Mode() & os.ModeCharDevice) == 0 {
		content, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read from stdin: %w", err)
		}
		return string(content), nil
	}

	content, err := clipboard.ReadAll()
	if err != nil {
		return "", fmt.Errorf("failed to read from clipboard: %w", err)
	}
	if strings.TrimSpace(content) == "" {
		return "", nil
	}
	return content, nil
}

// CopyToClipboard publishes generated payload text.
func CopyToClipboard(content string) error {
	if err := clipboard.WriteAll(content); err != nil {
		return fmt.Errorf("failed to write to clipboard: %w", err)
	}
	return nil
}
