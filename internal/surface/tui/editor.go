// Package tui is the terminal editor surface.
package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/mithrel/quill/internal/editor"
	"github.com/mithrel/quill/internal/ipc"
	"github.com/mithrel/quill/internal/render"
)

// Options tune the editor.
type Options struct {
	// ConfirmDiscard asks before unsaved changes are thrown away.
	ConfirmDiscard bool
}

var (
	barStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("236")).Padding(0, 1)
	titleStyle  = lipgloss.NewStyle().Bold(true)
	editedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

const helpLine = "^O open  ^S save  ^A save as  ^E export  ^N new  ^R reveal  ^G launch  ^X $EDITOR  ^Q quit"

type model struct {
	ctx  context.Context
	c    Caller
	opts Options

	ta     textarea.Model
	title  string
	path   string
	edited bool
	status string
	failed bool

	width  int
	height int
	gen    int

	confirm *huh.Form
	discard *bool
	pending action
	reload  string
}

func newModel(ctx context.Context, c Caller, opts Options) model {
	ta := textarea.New()
	ta.Placeholder = "Start writing…"
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.Focus()
	return model{ctx: ctx, c: c, opts: opts, ta: ta, title: "Untitled"}
}

// Run starts the editor on c and blocks until the user quits.
func Run(ctx context.Context, c Caller, opts Options) error {
	_, err := tea.NewProgram(newModel(ctx, c, opts), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, waitEvent(m.c.Events()))
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.confirm != nil {
		return m.updateConfirm(msg)
	}
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ta.SetWidth(msg.Width)
		m.ta.SetHeight(max(msg.Height-2, 3))
		return m, nil
	case eventMsg:
		return m.onEvent(ipc.Event(msg))
	case disconnectedMsg:
		return m, tea.Quit
	case respMsg:
		return m.onResponse(msg), nil
	case checkMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		return m, m.call(ipc.Message{Name: ipc.MsgFileHasChanges, Content: m.ta.Value()})
	case guardMsg:
		return m.onGuard(msg)
	case externalMsg:
		return m.onExternal(msg)
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+o":
			return m, m.guard(actOpen)
		case "ctrl+s":
			return m, m.call(ipc.Message{Name: ipc.MsgFileSave, Content: m.ta.Value()})
		case "ctrl+a":
			return m, m.call(ipc.Message{Name: ipc.MsgFileSaveAs, Content: m.ta.Value()})
		case "ctrl+e":
			html, err := render.HTML(m.ta.Value(), m.exportTitle())
			if err != nil {
				m.setError(err.Error())
				return m, nil
			}
			return m, m.call(ipc.Message{Name: ipc.MsgFileExportHTML, HTML: html})
		case "ctrl+n":
			return m, m.guard(actNew)
		case "ctrl+r":
			return m, m.call(ipc.Message{Name: ipc.MsgFileShowInFolder})
		case "ctrl+g":
			return m, m.call(ipc.Message{Name: ipc.MsgFileOpenDefault})
		case "ctrl+x":
			return m.external()
		case "ctrl+q", "ctrl+c":
			return m, m.guard(actQuit)
		}
	}

	before := m.ta.Value()
	var cmd tea.Cmd
	m.ta, cmd = m.ta.Update(msg)
	if m.ta.Value() != before {
		m.gen++
		return m, tea.Batch(cmd, checkLater(m.gen))
	}
	return m, cmd
}

func (m model) call(msg ipc.Message) tea.Cmd { return callCmd(m.ctx, m.c, msg) }

func (m model) guard(act action) tea.Cmd {
	if !m.opts.ConfirmDiscard {
		return func() tea.Msg { return guardMsg{act: act} }
	}
	return guardCmd(m.ctx, m.c, act, m.ta.Value())
}

func (m model) onGuard(g guardMsg) (tea.Model, tea.Cmd) {
	if g.err != nil {
		m.setError(g.err.Error())
		return m, nil
	}
	if g.changed {
		return m.askDiscard(g.act)
	}
	return m.run(g.act)
}

// run performs act; unsaved changes have been dealt with.
func (m model) run(act action) (tea.Model, tea.Cmd) {
	switch act {
	case actOpen:
		return m, m.call(ipc.Message{Name: ipc.MsgFileOpen})
	case actNew:
		return m, m.call(ipc.Message{Name: ipc.MsgFileNew})
	case actReload:
		return m, m.call(ipc.Message{Name: ipc.MsgFileOpenPath, Path: m.reload})
	default:
		return m, tea.Quit
	}
}

func (m model) askDiscard(act action) (tea.Model, tea.Cmd) {
	title := "Discard unsaved changes?"
	if act == actReload {
		title = fmt.Sprintf("%s changed on disk. Reload and discard your changes?", filepath.Base(m.reload))
	}
	m.discard = new(bool)
	m.pending = act
	m.confirm = huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(title).
			Affirmative("Discard").
			Negative("Keep editing").
			Value(m.discard),
	)).WithShowHelp(false)
	return m, m.confirm.Init()
}

func (m model) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case guardMsg:
		return m, nil
	case eventMsg, respMsg, checkMsg, disconnectedMsg:
		// Host traffic keeps flowing while the question is open.
		form := m.confirm
		m.confirm = nil
		next, cmd := m.Update(msg)
		nm := next.(model)
		nm.confirm = form
		return nm, cmd
	}
	f, cmd := m.confirm.Update(msg)
	if form, ok := f.(*huh.Form); ok {
		m.confirm = form
	}
	switch m.confirm.State {
	case huh.StateCompleted:
		return m.resolve(*m.discard)
	case huh.StateAborted:
		return m.resolve(false)
	}
	return m, cmd
}

// resolve closes the confirmation and runs the pending action when the
// user chose to discard.
func (m model) resolve(discard bool) (tea.Model, tea.Cmd) {
	m.confirm, m.discard = nil, nil
	if !discard {
		m.status, m.failed = "kept changes", false
		return m, nil
	}
	return m.run(m.pending)
}

// external suspends the editor and hands the buffer to $VISUAL/$EDITOR.
func (m model) external() (tea.Model, tea.Cmd) {
	ed, err := editor.Preferred()
	if err != nil {
		m.setError(err.Error())
		return m, nil
	}
	path, err := editor.Stage(m.path, m.ta.Value())
	if err != nil {
		m.setError(err.Error())
		return m, nil
	}
	return m, tea.ExecProcess(editor.Command(ed, path), func(err error) tea.Msg {
		return externalMsg{path: path, err: err}
	})
}

func (m model) onExternal(msg externalMsg) (tea.Model, tea.Cmd) {
	content, err := editor.Collect(msg.path)
	if msg.err != nil {
		m.setError("editor: " + msg.err.Error())
		return m, nil
	}
	if err != nil {
		m.setError(err.Error())
		return m, nil
	}
	if content == m.ta.Value() {
		return m, nil
	}
	m.ta.SetValue(content)
	m.gen++
	return m, checkLater(m.gen)
}

func (m model) onEvent(ev ipc.Event) (tea.Model, tea.Cmd) {
	next := waitEvent(m.c.Events())
	switch ev.Kind {
	case ipc.EventFileOpened:
		m.ta.SetValue(ev.Content)
		m.path = ev.Path
		m.gen++
		m.status, m.failed = "opened "+ev.Path, false
	case ipc.EventFileSaved:
		m.path = ev.Path
		m.status, m.failed = "saved "+ev.Path, false
	case ipc.EventFileNew:
		m.ta.Reset()
		m.path = ""
		m.gen++
		m.status, m.failed = "new document", false
	case ipc.EventFileChanged:
		m.reload = ev.Path
		return m, tea.Batch(next, m.guard(actReload))
	case ipc.EventFileRemoved:
		m.setError(ev.Path + " was removed on disk")
	case ipc.EventWindowTitle:
		m.title = ev.Title
	case ipc.EventWindowEdited:
		m.edited = ev.Edited
	}
	return m, next
}

func (m model) onResponse(r respMsg) model {
	switch {
	case r.err != nil:
		m.setError(r.err.Error())
	case r.resp.Ignored:
		m.setError("window is closed")
	case !r.resp.OK && r.resp.Retryable:
		m.setError(r.resp.Msg + " (try again or pick another file)")
	case !r.resp.OK:
		m.setError(r.resp.Msg)
	case r.resp.Cancelled:
		m.status, m.failed = "cancelled", false
	case r.name == ipc.MsgFileExportHTML:
		m.status, m.failed = "exported "+r.resp.Path, false
	case r.name == ipc.MsgFileHasChanges:
		m.edited = r.resp.Changed
	}
	return m
}

func (m *model) setError(s string) {
	m.status, m.failed = s, true
}

func (m model) exportTitle() string {
	if t := render.Title(m.ta.Value()); t != "" {
		return t
	}
	return strings.TrimSuffix(m.title, filepath.Ext(m.title))
}

func (m model) renderBar() string {
	left := titleStyle.Render(m.title)
	if m.edited {
		left += editedStyle.Render(" ●")
	}
	status := m.status
	if m.failed {
		status = errStyle.Render(status)
	}
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(status) - 2
	if gap < 1 {
		gap = 1
	}
	return barStyle.Width(max(m.width, 0)).Render(left + strings.Repeat(" ", gap) + status)
}

func (m model) View() string {
	if m.confirm != nil {
		return lipgloss.JoinVertical(lipgloss.Left, m.confirm.View(), "", m.renderBar())
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.ta.View(), m.renderBar(), helpStyle.Render(helpLine))
}
