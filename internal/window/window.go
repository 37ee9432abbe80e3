// Package window keeps the host's windows. Each window carries its own
// document state, coordinator and event outbox; nothing is process-wide.
package window

import (
	"sync"

	"go.uber.org/zap"

	"github.com/mithrel/quill/internal/coordinator"
	"github.com/mithrel/quill/internal/document"
	"github.com/mithrel/quill/internal/ipc"
	"github.com/mithrel/quill/internal/watch"
)

// outboxSize bounds the events queued for a surface that is not reading.
const outboxSize = 64

// Window is one editor window of the host.
type Window struct {
	ID string

	holder *document.Holder
	coord  *coordinator.Coordinator
	watch  *watch.Watcher
	log    *zap.Logger

	// busy serialises requests so two saves never interleave.
	busy sync.Mutex

	mu          sync.Mutex
	title       string
	represented string
	edited      bool
	closed      bool
	events      chan ipc.Event
}

// Do runs fn with exclusive access to the window's coordinator.
func (w *Window) Do(fn func(c *coordinator.Coordinator)) {
	w.busy.Lock()
	defer w.busy.Unlock()
	fn(w.coord)
}

// Events delivers notifications for the surface attached to the window.
// The channel is closed when the window closes.
func (w *Window) Events() <-chan ipc.Event { return w.events }

// Document returns a copy of the window's saved document state.
func (w *Window) Document() document.File { return w.holder.Snapshot() }

// Status reports the window's chrome and document path.
func (w *Window) Status() ipc.WindowStatus {
	w.mu.Lock()
	defer w.mu.Unlock()
	return ipc.WindowStatus{ID: w.ID, Path: w.represented, Title: w.title, Edited: w.edited}
}

func (w *Window) SetTitle(title string) {
	w.mu.Lock()
	changed := w.title != title
	w.title = title
	w.mu.Unlock()
	if changed {
		w.push(ipc.Event{Kind: ipc.EventWindowTitle, Title: title})
	}
}

func (w *Window) SetRepresentedFilename(path string) {
	w.mu.Lock()
	w.represented = path
	w.mu.Unlock()
}

func (w *Window) SetDocumentEdited(edited bool) {
	w.mu.Lock()
	changed := w.edited != edited
	w.edited = edited
	w.mu.Unlock()
	if changed {
		w.push(ipc.Event{Kind: ipc.EventWindowEdited, Edited: edited})
	}
}

// Notify forwards a coordinator event to the surface.
func (w *Window) Notify(ev coordinator.Event) {
	w.push(ipc.Event{Kind: ev.Kind, Path: ev.Path, Content: ev.Content})
}

// Watch follows path for external changes; without a watcher it does
// nothing.
func (w *Window) Watch(path string) error {
	if w.watch == nil {
		return nil
	}
	return w.watch.Watch(path)
}

func (w *Window) external(c watch.Change) {
	w.push(ipc.Event{Kind: c.Kind, Path: c.Path, Content: c.Content})
}

// push queues ev without blocking. When the surface falls behind the event
// is dropped.
func (w *Window) push(ev ipc.Event) {
	ev.Window = w.ID
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	select {
	case w.events <- ev:
	default:
		w.log.Warn("event dropped", zap.String("kind", ev.Kind))
	}
}

func (w *Window) close() {
	if w.watch != nil {
		if err := w.watch.Close(); err != nil {
			w.log.Debug("closing watcher", zap.Error(err))
		}
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.closed = true
	close(w.events)
}
