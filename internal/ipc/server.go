package ipc

import (
	"context"

	"github.com/mithrel/quill/internal/ipc/transport"
)

// Serve listens on the Unix socket at path and answers one Message per
// connection until ctx is cancelled.
func Serve(ctx context.Context, path string, handle func(context.Context, Message) Response) error {
	srv := transport.NewUnixServer(transport.UnixListener{Path: path})
	return srv.Serve(ctx, PBHandler(handle))
}
