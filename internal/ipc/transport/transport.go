package transport

import (
	"context"
	"net"
)

// Handler processes a single request message and returns the response.
// Implementations that also satisfy ProtoTypes can be served over the
// length-prefixed protobuf framing.
type Handler interface {
	Handle(ctx context.Context, req any) (resp any, err error)
}

// Server accepts connections and dispatches one request per connection to
// a Handler.
type Server interface {
	// Serve blocks, handling requests until ctx is done or an error occurs.
	Serve(ctx context.Context, h Handler) error
}

// Client performs one request/response round trip per call.
type Client interface {
	Do(ctx context.Context, req any) (resp any, err error)
}

// Listener abstracts how a server obtains a net.Listener.
type Listener interface {
	Listen(ctx context.Context) (net.Listener, error)
}
