package host

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/mithrel/quill/internal/ipc"
	"github.com/mithrel/quill/internal/window"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
}

// Router returns the HTTP routes of the host. Surface connections are
// closed when ctx is done.
func (h *Host) Router(ctx context.Context) http.Handler {
	r := mux.NewRouter()
	r.Methods(http.MethodGet).Path("/healthz").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	r.Methods(http.MethodGet).Path("/v1/windows").HandlerFunc(h.listWindows)
	r.Methods(http.MethodGet).Path("/v1/ws").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.surface(ctx, w, r)
	})
	return r
}

func (h *Host) listWindows(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(h.windows.List())
}

// surface attaches a websocket to a window: requests flow in, responses and
// the window's events flow out. Without a window id a new window is opened.
// The window closes with the connection.
func (h *Host) surface(ctx context.Context, rw http.ResponseWriter, r *http.Request) {
	var (
		win *window.Window
		ok  bool
	)
	if id := r.URL.Query().Get("window"); id != "" {
		if win, ok = h.windows.Get(id); !ok {
			http.Error(rw, "window not found", http.StatusNotFound)
			return
		}
	} else {
		nw, err := h.windows.New()
		if err != nil {
			http.Error(rw, err.Error(), http.StatusInternalServerError)
			return
		}
		win = nw
	}
	if !h.attach(win.ID) {
		http.Error(rw, "window already has a surface", http.StatusConflict)
		return
	}
	defer h.detach(win.ID)

	conn, err := upgrader.Upgrade(rw, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		h.windows.Close(win.ID)
		return
	}
	log := h.log.With(zap.String("window", win.ID))
	log.Info("surface attached")

	var wmu sync.Mutex
	send := func(f ipc.Frame) error {
		wmu.Lock()
		defer wmu.Unlock()
		return conn.WriteJSON(f)
	}

	pumpDone := make(chan struct{})
	go func() {
		defer close(pumpDone)
		for ev := range win.Events() {
			ev := ev
			if err := send(ipc.Frame{Kind: ipc.FrameEvent, Event: &ev}); err != nil {
				return
			}
		}
		// The window was closed from elsewhere.
		_ = conn.Close()
	}()
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	for {
		var f ipc.Frame
		if err := conn.ReadJSON(&f); err != nil {
			break
		}
		if f.Kind != ipc.FrameRequest || f.Message == nil {
			continue
		}
		m := *f.Message
		m.Window = win.ID
		resp := h.Dispatch(ctx, m)
		if err := send(ipc.Frame{Kind: ipc.FrameResponse, Seq: f.Seq, Response: &resp}); err != nil {
			break
		}
	}
	_ = conn.Close()
	h.windows.Close(win.ID)
	<-pumpDone
	log.Info("surface detached")
}

func (h *Host) attach(id string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.attached[id] {
		return false
	}
	h.attached[id] = true
	return true
}

func (h *Host) detach(id string) {
	h.mu.Lock()
	delete(h.attached, id)
	h.mu.Unlock()
}
