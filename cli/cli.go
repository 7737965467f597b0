package cli

import (
	"fmt"

	"github.com/spf13/pflag"
)

// Config holds all the command-line flag values.
type Config struct {
	Roots       []string
	WorkspaceID string
	Prompt      string
	Copy        bool
	Plain       bool
	Preview     bool
	Apply       bool
	Undo        bool
	UndoPath    string

	SavePrompt   string
	ListPrompts  bool
	DeletePrompt string

	NewWorkspace   string
	ListWorkspaces bool
	AddFolder      string
}

// ParseFlags defines and parses command-line flags using pflag.
func ParseFlags() (*Config, error) {
	cfg := &Config{}

	pflag.StringSliceVarP(&cfg.Roots, "dir", "d", []string{}, "Project root directory (repeatable; default: current directory).")
	pflag.StringVarP(&cfg.WorkspaceID, "workspace", "w", "", "Workspace id whose folders become project roots.")
	pflag.StringVarP(&cfg.Prompt, "prompt", "p", "", "Prompt text to include in the generated payload.")
	pflag.BoolVarP(&cfg.Copy, "copy", "c", false, "Copy the generated payload to the clipboard and exit.")
	pflag.BoolVar(&cfg.Plain, "plain", false, "With --copy: use the plain format and append saved prompts.")

	// Reply-processing group, mutually exclusive.
	pflag.BoolVar(&cfg.Preview, "preview", false, "Preview the diff for a reply from stdin or the clipboard.")
	pflag.BoolVarP(&cfg.Apply, "apply", "a", false, "Apply a reply from stdin or the clipboard.")
	pflag.BoolVarP(&cfg.Undo, "undo", "u", false, "Undo the last applied batch.")
	pflag.StringVar(&cfg.UndoPath, "undo-path", "", "Undo the most recent change to one file.")

	// Prompt library management.
	pflag.StringVar(&cfg.SavePrompt, "save-prompt", "", "Save the --prompt text under the given title and exit.")
	pflag.BoolVar(&cfg.ListPrompts, "list-prompts", false, "List saved prompts and exit.")
	pflag.StringVar(&cfg.DeletePrompt, "delete-prompt", "", "Delete the saved prompt with the given id and exit.")

	// Workspace management.
	pflag.StringVar(&cfg.NewWorkspace, "new-workspace", "", "Create a workspace with the given name and exit.")
	pflag.BoolVar(&cfg.ListWorkspaces, "list-workspaces", false, "List workspaces and exit.")
	pflag.StringVar(&cfg.AddFolder, "add-folder", "", "Add a folder to the --workspace and exit.")

	pflag.Usage = func() {
		fmt.Println("Usage: proprompter [flags]")
		fmt.Println("\nPick files, build an assistant payload, and apply the structured reply.")
		fmt.Println("\nExample: pbpaste | proprompter --apply")
		fmt.Println("\nFlags:")
		pflag.PrintDefaults()
	}

	pflag.Parse()

	exclusive := 0
	for _, on := range []bool{
		cfg.Preview, cfg.Apply, cfg.Undo, cfg.UndoPath != "",
		cfg.SavePrompt != "", cfg.ListPrompts, cfg.DeletePrompt != "",
		cfg.NewWorkspace != "", cfg.ListWorkspaces, cfg.AddFolder != "",
	} {
		if on {
			exclusive++
		}
	}
	if exclusive > 1 {
		return nil, fmt.Errorf("error: reply and management flags are mutually exclusive")
	}
	if cfg.AddFolder != "" && cfg.WorkspaceID == "" {
		return nil, fmt.Errorf("error: --add-folder requires --workspace")
	}
	if cfg.SavePrompt != "" && cfg.Prompt == "" {
		return nil, fmt.Errorf("error: --save-prompt requires --prompt for the content")
	}

	if len(cfg.Roots) == 0 {
		cfg.Roots = []string{"."}
	}

	return cfg, nil
}
