// Package tui is the interactive front end: a tri-state file picker,
// a diff preview screen and an apply summary.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mohilcode/proprompter/internal/diff"
	"github.com/mohilcode/proprompter/internal/parser"
	"github.com/mohilcode/proprompter/internal/selection"
	"github.com/mohilcode/proprompter/internal/watcher"
	"github.com/mohilcode/proprompter/model"
	"github.com/mohilcode/proprompter/proprompter"
)

// --- Styles ---
var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("197"))
	cursorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	faintStyle   = lipgloss.NewStyle().Faint(true)
	addStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))
	delStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("197"))
)

type mode int

const (
	modePick mode = iota
	modePreview
	modeApplying
	modeSummary
	modeError
)

// --- Messages ---
type appliedMsg struct{ results []model.ChangeResult }

type copiedMsg struct{ err error }

type errorMsg struct{ err error }

type fsChangedMsg struct{}

// Model drives the picker/preview/apply flow. Apply is guarded so a
// second keypress cannot start a batch while one is in flight.
type Model struct {
	session *proprompter.Session
	prompt  string

	mode     mode
	spinner  spinner.Model
	viewport viewport.Model
	ready    bool
	width    int
	height   int

	// picker state
	watch    *watcher.Watcher
	tree     *selection.Tree
	sel      selection.Selection
	expanded map[selection.NodeID]bool
	rows     []row
	cursor   int
	status   string

	// reply state
	doc      *parser.Document
	previews []model.DiffPreview
	results  []model.ChangeResult
	applying bool
	err      error
}

// NewPicker starts the file-picker flow over the session's roots. A
// non-nil watcher triggers a rescan whenever a root changes on disk;
// the selection survives the rescan since it is keyed by path.
func NewPicker(session *proprompter.Session, prompt string, trees []*model.FileTreeNode, w *watcher.Watcher) Model {
	m := newModel(session, prompt)
	m.mode = modePick
	m.watch = w
	m.sel = selection.NewSelection()
	m.loadTrees(trees)
	return m
}

func (m *Model) loadTrees(trees []*model.FileTreeNode) {
	m.tree = selection.NewTree(trees...)
	m.expanded = make(map[selection.NodeID]bool)
	for _, r := range m.tree.Roots() {
		m.expanded[r] = true
	}
	m.rows = flatten(m.tree, m.expanded)
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
}

// NewPreview starts the preview/apply flow for a parsed reply.
func NewPreview(session *proprompter.Session, doc *parser.Document) Model {
	m := newModel(session, "")
	m.mode = modePreview
	m.doc = doc
	m.previews = session.PreviewDiff(doc)
	return m
}

func newModel(session *proprompter.Session, prompt string) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return Model{session: session, prompt: prompt, spinner: s}
}

func (m Model) Init() tea.Cmd {
	if m.watch != nil {
		return tea.Batch(m.spinner.Tick, m.waitForChange)
	}
	return m.spinner.Tick
}

// waitForChange blocks on the next debounced filesystem event. A
// closed watcher ends the listen loop silently.
func (m Model) waitForChange() tea.Msg {
	if _, ok := <-m.watch.Events(); ok {
		return fsChangedMsg{}
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-2)
			m.viewport.SetContent(m.previewContent())
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 2
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case copiedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.mode = modeError
			return m, tea.Quit
		}
		m.status = "payload copied to clipboard"
		return m, tea.Quit

	case appliedMsg:
		m.applying = false
		m.results = msg.results
		m.mode = modeSummary
		return m, nil

	case fsChangedMsg:
		trees, err := m.session.ScanTrees()
		if err != nil {
			m.err = err
			m.mode = modeError
			return m, tea.Quit
		}
		m.loadTrees(trees)
		return m, m.waitForChange

	case errorMsg:
		m.err = msg.err
		m.mode = modeError
		return m, tea.Quit

	default:
		if m.mode == modeApplying {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.mode {
	case modePick:
		return m.handlePickKey(key)
	case modePreview:
		switch key {
		case "q":
			return m, tea.Quit
		case "a":
			if m.applying {
				return m, nil
			}
			m.applying = true
			m.mode = modeApplying
			return m, tea.Batch(m.spinner.Tick, m.runApply)
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	case modeSummary, modeError:
		if key == "q" || key == "enter" {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Model) handlePickKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case "right", "l", "enter":
		if id := m.rows[m.cursor].id; m.tree.IsDir(id) {
			m.expanded[id] = !m.expanded[id]
			m.rows = flatten(m.tree, m.expanded)
			if m.cursor >= len(m.rows) {
				m.cursor = len(m.rows) - 1
			}
		}
	case " ", "space":
		id := m.rows[m.cursor].id
		on := m.tree.Status(id, m.sel) != selection.Checked
		m.sel = m.tree.Toggle(id, m.sel, on)
	case "c":
		files := m.sel.Paths()
		if len(files) == 0 {
			m.status = "nothing selected"
			return m, nil
		}
		return m, m.runCopy
	}
	return m, nil
}

func (m Model) View() string {
	switch m.mode {
	case modePick:
		return m.viewPicker()
	case modePreview:
		if !m.ready {
			return "loading preview..."
		}
		help := faintStyle.Render("a apply  q quit  arrows scroll")
		return m.viewport.View() + "\n" + help
	case modeApplying:
		return fmt.Sprintf("%s Applying changes...", m.spinner.View())
	case modeSummary:
		return m.viewSummary()
	case modeError:
		return errorStyle.Render("Error: " + m.err.Error())
	}
	return ""
}

func (m Model) viewPicker() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Select files"))
	b.WriteString("\n")

	for i, r := range m.rows {
		line := fmt.Sprintf("%s%s %s",
			strings.Repeat("  ", r.depth),
			checkbox(m.tree.Status(r.id, m.sel)),
			label(m.tree, r, m.expanded[r.id]),
		)
		if i == m.cursor {
			line = cursorStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%d file(s) selected", len(m.sel)))
	if m.status != "" {
		b.WriteString("  " + faintStyle.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(faintStyle.Render("space toggle  enter expand  c copy payload  q quit"))
	return b.String()
}

func (m Model) viewSummary() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Apply summary"))
	b.WriteString("\n\n")
	for _, r := range m.results {
		if r.Success {
			b.WriteString(successStyle.Render(fmt.Sprintf("ok      %-8s %s", r.Action, r.Path)))
		} else {
			b.WriteString(errorStyle.Render(fmt.Sprintf("failed  %-8s %s: %s", r.Action, r.Path, r.Message)))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(faintStyle.Render(proprompter.DescribeResults(m.results) + "  (q to quit)"))
	return b.String()
}

// previewContent concatenates unified diffs for the viewport, with
// no-op files listed but not expanded.
func (m Model) previewContent() string {
	var b strings.Builder
	for _, p := range m.previews {
		b.WriteString(headerStyle.Render(p.Path))
		b.WriteString("\n")
		if !p.HasChanges {
			b.WriteString(faintStyle.Render("  no changes"))
			b.WriteString("\n\n")
			continue
		}
		text, err := diff.Unified(p)
		if err != nil {
			b.WriteString(errorStyle.Render("  diff failed: " + err.Error()))
			b.WriteString("\n\n")
			continue
		}
		for _, line := range strings.Split(text, "\n") {
			switch {
			case strings.HasPrefix(line, "+"):
				b.WriteString(addStyle.Render(line))
			case strings.HasPrefix(line, "-"):
				b.WriteString(delStyle.Render(line))
			default:
				b.WriteString(line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) runApply() tea.Msg {
	return appliedMsg{results: m.session.ApplyChanges(m.doc)}
}

func (m Model) runCopy() tea.Msg {
	return copiedMsg{err: m.session.CopyPayload(m.sel.Paths(), m.prompt)}
}
