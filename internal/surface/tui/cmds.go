package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mithrel/quill/internal/ipc"
)

// debounce is how long typing must pause before the host is asked whether
// the buffer differs from the saved document.
const debounce = 300 * time.Millisecond

// Caller is the connection to the host window the editor is attached to.
type Caller interface {
	Call(ctx context.Context, m ipc.Message) (ipc.Response, error)
	Events() <-chan ipc.Event
}

// eventMsg carries a host notification into Update.
type eventMsg ipc.Event

// disconnectedMsg signals that the host closed the window.
type disconnectedMsg struct{}

// respMsg conveys the host's answer to a request back to Update.
type respMsg struct {
	name string
	resp ipc.Response
	err  error
	dur  time.Duration
}

// checkMsg fires after the debounce delay; stale generations are dropped.
type checkMsg struct{ gen int }

// guardMsg carries the unsaved-changes answer for a pending action.
type guardMsg struct {
	act     action
	changed bool
	err     error
}

// externalMsg reports that the external editor exited.
type externalMsg struct {
	path string
	err  error
}

type action int

const (
	actOpen action = iota
	actNew
	actQuit
	actReload
)

func waitEvent(ch <-chan ipc.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return disconnectedMsg{}
		}
		return eventMsg(ev)
	}
}

func callCmd(ctx context.Context, c Caller, m ipc.Message) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		resp, err := c.Call(ctx, m)
		return respMsg{name: m.Name, resp: resp, err: err, dur: time.Since(start)}
	}
}

func checkLater(gen int) tea.Cmd {
	return tea.Tick(debounce, func(time.Time) tea.Msg { return checkMsg{gen: gen} })
}

// guardCmd asks the host whether content is unsaved before running act.
func guardCmd(ctx context.Context, c Caller, act action, content string) tea.Cmd {
	return func() tea.Msg {
		resp, err := c.Call(ctx, ipc.Message{Name: ipc.MsgFileHasChanges, Content: content})
		if err == nil && !resp.OK {
			return guardMsg{act: act}
		}
		return guardMsg{act: act, changed: resp.Changed, err: err}
	}
}
