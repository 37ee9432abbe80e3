// Package surface is the rendering side of the editor: it talks to the host
// over the websocket channel.
package surface

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/mithrel/quill/internal/ipc"
)

// ErrClosed is returned by Call once the connection is gone.
var ErrClosed = errors.New("surface: connection closed")

const eventBuffer = 64

// Client is one surface attached to one host window.
type Client struct {
	conn   *websocket.Conn
	window string

	wmu sync.Mutex

	mu      sync.Mutex
	seq     uint64
	pending map[uint64]chan ipc.Response

	events chan ipc.Event
	done   chan struct{}
	err    error
}

// Dial attaches to the host at addr (host:port). An empty window asks the
// host for a new one.
func Dial(ctx context.Context, addr, window string) (*Client, error) {
	u := url.URL{Scheme: "ws", Host: addr, Path: "/v1/ws"}
	if window != "" {
		u.RawQuery = url.Values{"window": {window}}.Encode()
	}
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial %s: %s", u.String(), resp.Status)
		}
		return nil, fmt.Errorf("dial %s: %w", u.String(), err)
	}
	c := &Client{
		conn:    conn,
		pending: map[uint64]chan ipc.Response{},
		events:  make(chan ipc.Event, eventBuffer),
		done:    make(chan struct{}),
	}
	// The window announces itself before anything else.
	var f ipc.Frame
	if err := conn.ReadJSON(&f); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("waiting for window: %w", err)
	}
	if f.Kind != ipc.FrameEvent || f.Event == nil || f.Event.Kind != ipc.EventWindowReady {
		_ = conn.Close()
		return nil, fmt.Errorf("unexpected first frame %q", f.Kind)
	}
	c.window = f.Event.Window
	c.events <- *f.Event
	go c.read()
	return c, nil
}

// Window is the id of the attached window.
func (c *Client) Window() string { return c.window }

// Events delivers host notifications. It is closed with the connection.
// Events are dropped when the buffer is full.
func (c *Client) Events() <-chan ipc.Event { return c.events }

// Done is closed when the connection ends.
func (c *Client) Done() <-chan struct{} { return c.done }

// Call sends m to the host and waits for the response.
func (c *Client) Call(ctx context.Context, m ipc.Message) (ipc.Response, error) {
	ch := make(chan ipc.Response, 1)
	c.mu.Lock()
	c.seq++
	seq := c.seq
	c.pending[seq] = ch
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		delete(c.pending, seq)
		c.mu.Unlock()
	}()

	c.wmu.Lock()
	err := c.conn.WriteJSON(ipc.Frame{Kind: ipc.FrameRequest, Seq: seq, Message: &m})
	c.wmu.Unlock()
	if err != nil {
		return ipc.Response{}, err
	}

	select {
	case r := <-ch:
		return r, nil
	case <-c.done:
		return ipc.Response{}, ErrClosed
	case <-ctx.Done():
		return ipc.Response{}, ctx.Err()
	}
}

// Close detaches from the host, which closes the window.
func (c *Client) Close() error {
	c.wmu.Lock()
	_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	c.wmu.Unlock()
	err := c.conn.Close()
	<-c.done
	return err
}

// Err reports why the connection ended.
func (c *Client) Err() error {
	<-c.done
	return c.err
}

func (c *Client) read() {
	defer close(c.done)
	defer close(c.events)
	for {
		var f ipc.Frame
		if err := c.conn.ReadJSON(&f); err != nil {
			c.err = err
			return
		}
		switch f.Kind {
		case ipc.FrameResponse:
			if f.Response == nil {
				continue
			}
			c.mu.Lock()
			ch := c.pending[f.Seq]
			c.mu.Unlock()
			if ch != nil {
				ch <- *f.Response
			}
		case ipc.FrameEvent:
			if f.Event == nil {
				continue
			}
			select {
			case c.events <- *f.Event:
			default:
			}
		}
	}
}
