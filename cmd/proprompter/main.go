package main

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mohilcode/proprompter/cli"
	"github.com/mohilcode/proprompter/internal/parser"
	"github.com/mohilcode/proprompter/internal/scanner"
	"github.com/mohilcode/proprompter/internal/tui"
	"github.com/mohilcode/proprompter/internal/ui"
	"github.com/mohilcode/proprompter/internal/watcher"
	"github.com/mohilcode/proprompter/proprompter"
)

func main() {
	cfg, err := cli.ParseFlags()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	session, err := proprompter.NewSession(proprompter.Options{
		Roots:       cfg.Roots,
		WorkspaceID: cfg.WorkspaceID,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize session: %v\n", err)
		os.Exit(1)
	}
	defer session.Close()

	if err := run(session, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(session *proprompter.Session, cfg *cli.Config) error {
	switch {
	case cfg.SavePrompt != "":
		return savePrompt(session, cfg.SavePrompt, cfg.Prompt)
	case cfg.ListPrompts:
		return listPrompts(session)
	case cfg.DeletePrompt != "":
		return deletePrompt(session, cfg.DeletePrompt)
	case cfg.NewWorkspace != "":
		return newWorkspace(session, cfg.NewWorkspace)
	case cfg.ListWorkspaces:
		return listWorkspaces(session)
	case cfg.AddFolder != "":
		return addFolder(session, cfg.WorkspaceID, cfg.AddFolder)
	case cfg.Undo:
		return undoLast(session)
	case cfg.UndoPath != "":
		return undoPath(session, cfg.UndoPath)
	case cfg.Apply:
		return applyReply(session)
	case cfg.Preview:
		return previewReply(session)
	case cfg.Copy:
		return copyAll(session, cfg.Prompt, cfg.Plain)
	default:
		return pickFiles(session, cfg.Prompt)
	}
}

func savePrompt(session *proprompter.Session, title, content string) error {
	p, err := session.Prompts().Add(title, content, nil)
	if err != nil {
		return err
	}
	ui.Success("Saved prompt %q (%s).", p.Title, p.ID)
	return nil
}

func listPrompts(session *proprompter.Session) error {
	prompts, err := session.Prompts().List()
	if err != nil {
		return err
	}
	if len(prompts) == 0 {
		ui.Info("No saved prompts.")
		return nil
	}
	for _, p := range prompts {
		fmt.Printf("%s  %s\n", p.ID, p.Title)
	}
	return nil
}

func deletePrompt(session *proprompter.Session, id string) error {
	if err := session.Prompts().Delete(id); err != nil {
		return err
	}
	ui.Success("Deleted prompt %s.", id)
	return nil
}

func newWorkspace(session *proprompter.Session, name string) error {
	w, err := session.Workspaces().Create(name)
	if err != nil {
		return err
	}
	ui.Success("Created workspace %q (%s).", w.Name, w.ID)
	return nil
}

func listWorkspaces(session *proprompter.Session) error {
	workspaces, err := session.Workspaces().List()
	if err != nil {
		return err
	}
	if len(workspaces) == 0 {
		ui.Info("No workspaces.")
		return nil
	}
	for _, w := range workspaces {
		fmt.Printf("%s  %s  (%d folder(s))\n", w.ID, w.Name, len(w.Folders))
	}
	return nil
}

func addFolder(session *proprompter.Session, workspaceID, path string) error {
	folder, err := session.Workspaces().AddFolder(workspaceID, path, "")
	if err != nil {
		return err
	}
	ui.Success("Added folder %s (%s).", folder.Path, folder.ID)
	return nil
}

func undoLast(session *proprompter.Session) error {
	summary, err := session.UndoLast()
	if errors.Is(err, proprompter.ErrNothingToUndo) {
		ui.Info("Nothing to undo.")
		return nil
	}
	if err != nil {
		return err
	}
	ui.PrintUndoSummary(summary)
	return nil
}

func undoPath(session *proprompter.Session, path string) error {
	found, err := session.UndoPath(path)
	if err != nil {
		return err
	}
	if !found {
		ui.Info("Nothing to undo for %s.", path)
		return nil
	}
	ui.Success("Reverted %s.", path)
	return nil
}

func applyReply(session *proprompter.Session) error {
	doc, err := parseReply(session)
	if err != nil || doc == nil {
		return err
	}
	results := session.ApplyChanges(doc)
	ui.PrintApplySummary(results)
	s := proprompter.Summarize(results)
	ui.Info("%d created, %d modified, %d deleted, %d failed",
		len(s.Created), len(s.Modified), len(s.Deleted), len(s.Failed))
	return nil
}

func previewReply(session *proprompter.Session) error {
	doc, err := parseReply(session)
	if err != nil || doc == nil {
		return err
	}
	p := tea.NewProgram(tui.NewPreview(session, doc), tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func parseReply(session *proprompter.Session) (*parser.Document, error) {
	content, err := session.ReplyContent()
	if err != nil {
		return nil, err
	}
	if content == "" {
		ui.Info("Reply source is empty. Nothing to process.")
		return nil, nil
	}
	parsed, err := session.ParseReply(content)
	if err != nil {
		return nil, err
	}
	ui.PrintWarnings(parsed.Warnings)
	if len(parsed.Changes) == 0 {
		ui.Info("Reply contains no file changes.")
		return nil, nil
	}
	return parsed, nil
}

func copyAll(session *proprompter.Session, prompt string, plain bool) error {
	trees, err := session.ScanTrees()
	if err != nil {
		return err
	}
	var files []string
	for _, t := range trees {
		files = append(files, scanner.CollectFiles(t)...)
	}
	if plain {
		err = session.CopyPlain(files, prompt)
	} else {
		err = session.CopyPayload(files, prompt)
	}
	if err != nil {
		return err
	}
	ui.Success("Copied payload for %d file(s) to the clipboard.", len(files))
	return nil
}

func pickFiles(session *proprompter.Session, prompt string) error {
	trees, err := session.ScanTrees()
	if err != nil {
		return err
	}

	// The picker keeps itself current while open; a failed watcher just
	// means no live rescans.
	w, err := watcher.New()
	if err == nil {
		for _, root := range session.Roots() {
			_ = w.Add(root)
		}
		defer w.Close()
	} else {
		w = nil
	}

	p := tea.NewProgram(tui.NewPicker(session, prompt, trees, w))
	_, err = p.Run()
	return err
}
