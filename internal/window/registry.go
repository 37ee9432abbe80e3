package window

import (
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/mithrel/quill/internal/coordinator"
	"github.com/mithrel/quill/internal/dialog"
	"github.com/mithrel/quill/internal/document"
	"github.com/mithrel/quill/internal/ipc"
	"github.com/mithrel/quill/internal/shell"
	"github.com/mithrel/quill/internal/watch"
)

// Config holds the collaborators shared by every window.
type Config struct {
	Dialogs dialog.Dialogs
	Fs      afero.Fs
	Shell   shell.Shell
	Recents document.Recents
	Options coordinator.Options
	// Watch enables external change detection.
	Watch bool
	Log   *zap.Logger
}

// Registry tracks the open windows and which one was focused last.
type Registry struct {
	cfg Config

	mu      sync.Mutex
	windows map[string]*Window
	order   []string
	active  string
}

func NewRegistry(cfg Config) *Registry {
	if cfg.Log == nil {
		cfg.Log = zap.NewNop()
	}
	return &Registry{cfg: cfg, windows: map[string]*Window{}}
}

// New opens a window with an untitled document and makes it active.
func (r *Registry) New() (*Window, error) {
	id := uuid.NewString()
	log := r.cfg.Log.With(zap.String("window", id))
	w := &Window{
		ID:     id,
		log:    log,
		title:  document.UntitledTitle,
		events: make(chan ipc.Event, outboxSize),
	}
	locator := coordinator.SaveLocator{Dialogs: r.cfg.Dialogs, Filter: r.cfg.Options.DocumentFilter}
	w.holder = document.NewHolder(w, r.cfg.Recents, locator, log)
	deps := coordinator.Deps{
		Holder:   w.holder,
		Dialogs:  r.cfg.Dialogs,
		Fs:       r.cfg.Fs,
		Shell:    r.cfg.Shell,
		Notifier: w,
		Chrome:   w,
		Log:      log,
	}
	if r.cfg.Watch {
		wt, err := watch.New(r.cfg.Fs, func() string { return w.holder.Snapshot().Digest }, w.external, log)
		if err != nil {
			return nil, err
		}
		w.watch = wt
		deps.Watcher = w
	}
	w.coord = coordinator.New(deps, r.cfg.Options)

	r.mu.Lock()
	r.windows[id] = w
	r.order = append(r.order, id)
	r.active = id
	r.mu.Unlock()

	log.Info("window opened")
	w.push(ipc.Event{Kind: ipc.EventWindowReady, Title: document.UntitledTitle})
	return w, nil
}

// Get returns the window with id.
func (r *Registry) Get(id string) (*Window, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.windows[id]
	return w, ok
}

// Resolve returns the window with id, or the active window when id is
// empty.
func (r *Registry) Resolve(id string) (*Window, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id == "" {
		id = r.active
	}
	w, ok := r.windows[id]
	return w, ok
}

// Active returns the most recently focused window.
func (r *Registry) Active() (*Window, bool) { return r.Resolve("") }

// Focus makes the window with id active.
func (r *Registry) Focus(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.windows[id]; !ok {
		return false
	}
	r.active = id
	return true
}

// List reports every window in the order they were opened.
func (r *Registry) List() []ipc.WindowStatus {
	r.mu.Lock()
	ws := make([]*Window, 0, len(r.order))
	for _, id := range r.order {
		ws = append(ws, r.windows[id])
	}
	active := r.active
	r.mu.Unlock()

	out := make([]ipc.WindowStatus, 0, len(ws))
	for _, w := range ws {
		st := w.Status()
		st.Active = w.ID == active
		out = append(out, st)
	}
	return out
}

// Close removes the window with id. When it was active, the most recently
// opened remaining window takes over.
func (r *Registry) Close(id string) bool {
	r.mu.Lock()
	w, ok := r.windows[id]
	if ok {
		delete(r.windows, id)
		for i, o := range r.order {
			if o == id {
				r.order = append(r.order[:i], r.order[i+1:]...)
				break
			}
		}
		if r.active == id {
			r.active = ""
			if n := len(r.order); n > 0 {
				r.active = r.order[n-1]
			}
		}
	}
	r.mu.Unlock()
	if !ok {
		return false
	}
	// Wait for a running request before tearing the window down.
	w.busy.Lock()
	w.close()
	w.busy.Unlock()
	w.log.Info("window closed")
	return true
}

// CloseAll closes every window.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	ids := append([]string(nil), r.order...)
	r.mu.Unlock()
	for _, id := range ids {
		r.Close(id)
	}
}
