package transport

import (
	"context"
	"errors"
	"net"
	"os"
	"time"

	"google.golang.org/protobuf/proto"
)

// ErrInUse is returned by Listen when another process answers on the socket.
var ErrInUse = errors.New("transport: socket in use")

// DefaultTimeout bounds a round trip. Requests that open a file dialog wait
// for the user, so it is long.
const DefaultTimeout = 10 * time.Minute

// UnixListener listens on a Unix domain socket path.
type UnixListener struct{ Path string }

// Listen takes over a stale socket file but refuses a live one.
func (u UnixListener) Listen(ctx context.Context) (net.Listener, error) {
	if c, err := net.DialTimeout("unix", u.Path, 200*time.Millisecond); err == nil {
		_ = c.Close()
		return nil, ErrInUse
	}
	_ = os.Remove(u.Path)
	l, err := net.Listen("unix", u.Path)
	if err != nil {
		return nil, err
	}
	_ = os.Chmod(u.Path, 0o600)
	context.AfterFunc(ctx, func() { _ = l.Close() })
	return l, nil
}

// UnixServer serves one length-prefixed protobuf request per connection.
type UnixServer struct{ L Listener }

func NewUnixServer(l Listener) *UnixServer { return &UnixServer{L: l} }

// Serve requires h to implement ProtoTypes.
func (s *UnixServer) Serve(ctx context.Context, h Handler) error {
	pt, ok := h.(ProtoTypes)
	if !ok {
		return os.ErrInvalid
	}
	l, err := s.L.Listen(ctx)
	if err != nil {
		return err
	}
	defer l.Close()
	for {
		c, err := l.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) || ctx.Err() != nil {
				return nil
			}
			return err
		}
		go serveConn(ctx, c, h, pt)
	}
}

func serveConn(ctx context.Context, conn net.Conn, h Handler, pt ProtoTypes) {
	defer conn.Close()
	req, _ := pt.ProtoTypes()
	if err := readProto(conn, req); err != nil {
		return
	}
	r, err := h.Handle(ctx, req)
	if err != nil {
		return
	}
	if pm, ok := r.(proto.Message); ok && pm != nil {
		_ = writeProto(conn, pm)
	}
}

// ProtoTypes supplies empty request and response messages to decode into.
type ProtoTypes interface {
	ProtoTypes() (req proto.Message, resp proto.Message)
}

// UnixClient performs round trips over a Unix socket.
type UnixClient struct {
	Path string
	// Timeout applies when ctx has no deadline.
	Timeout time.Duration
}

func NewUnixClient(path string) *UnixClient {
	return &UnixClient{Path: path, Timeout: DefaultTimeout}
}

// Do sends req and decodes the reply into the message registered with
// WithResp on ctx.
func (c *UnixClient) Do(ctx context.Context, req any) (any, error) {
	pmReq, ok := req.(proto.Message)
	if !ok {
		return nil, os.ErrInvalid
	}
	pmResp, ok := ctx.Value(respTypeKey{}).(proto.Message)
	if !ok || pmResp == nil {
		return nil, os.ErrInvalid
	}
	if _, ok := ctx.Deadline(); !ok && c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}
	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", c.Path)
	if err != nil {
		return nil, err
	}
	defer conn.Close()
	dl, _ := ctx.Deadline()
	_ = conn.SetDeadline(dl)
	stop := context.AfterFunc(ctx, func() { _ = conn.SetDeadline(time.Now()) })
	defer stop()

	if err := writeProto(conn, pmReq); err != nil {
		return nil, err
	}
	if err := readProto(conn, pmResp); err != nil {
		return nil, err
	}
	return pmResp, nil
}

type respTypeKey struct{}

// WithResp registers the response container Do unmarshals into.
func WithResp(ctx context.Context, resp proto.Message) context.Context {
	return context.WithValue(ctx, respTypeKey{}, resp)
}
