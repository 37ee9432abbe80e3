// Package host runs the privileged side of the editor: it owns the windows
// and answers requests from rendering surfaces.
package host

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/mithrel/quill/internal/ipc"
	"github.com/mithrel/quill/internal/recent"
	"github.com/mithrel/quill/internal/wire"
	"github.com/mithrel/quill/internal/window"
)

// Host routes messages from both transports to the windows of an App.
type Host struct {
	windows *window.Registry
	recents recent.Store
	log     *zap.Logger

	mu       sync.Mutex
	attached map[string]bool
}

func New(app *wire.App) *Host {
	return &Host{
		windows:  app.Windows,
		recents:  app.Recents,
		log:      app.Log,
		attached: map[string]bool{},
	}
}

// Run starts the control socket and the HTTP server using the provided,
// already-wired App. The caller controls the lifecycle via ctx.
func Run(ctx context.Context, app *wire.App) error {
	h := New(app)
	addr := app.Cfg.GetString("http_addr")
	if strings.TrimSpace(addr) == "" {
		addr = "127.0.0.1:7466"
	}
	sock, err := ipc.SocketPath()
	if err != nil {
		return err
	}
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ipcDone := make(chan struct{})
	var ipcErr error
	go func() {
		defer close(ipcDone)
		if ipcErr = ipc.Serve(ctx, sock, h.Dispatch); ipcErr != nil {
			h.log.Error("control socket stopped", zap.Error(ipcErr))
			cancel()
		}
	}()

	srv := &http.Server{Handler: h.Router(ctx)}
	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()
	h.log.Info("host listening", zap.String("socket", sock), zap.String("http", l.Addr().String()))
	err = srv.Serve(l)
	cancel()
	<-ipcDone
	app.Windows.CloseAll()
	if errors.Is(err, http.ErrServerClosed) {
		err = nil
	}
	if ipcErr != nil {
		return fmt.Errorf("control socket %s: %w", sock, ipcErr)
	}
	return err
}
