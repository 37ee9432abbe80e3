package ipc

import (
	"github.com/mithrel/quill/internal/recent"
)

// Message is a request sent from a rendering surface to the host. Window
// selects the target window; empty means the active one.
type Message struct {
	Name    string `json:"name"`
	Window  string `json:"window,omitempty"`
	Path    string `json:"path,omitempty"`
	Content string `json:"content,omitempty"`
	HTML    string `json:"html,omitempty"`
	Edited  bool   `json:"edited,omitempty"`
	Query   string `json:"query,omitempty"`
	Limit   int    `json:"limit,omitempty"`
}

// Response is the host's reply to a Message.
//
// Ignored is set when the target window no longer exists; the request had
// no effect. Retryable marks a failed filesystem operation the user may try
// again. Cancelled means a dialog was dismissed.
type Response struct {
	OK        bool           `json:"ok"`
	Msg       string         `json:"msg,omitempty"`
	Retryable bool           `json:"retryable,omitempty"`
	Ignored   bool           `json:"ignored,omitempty"`
	Cancelled bool           `json:"cancelled,omitempty"`
	Changed   bool           `json:"changed,omitempty"`
	Window    string         `json:"window,omitempty"`
	Path      string         `json:"path,omitempty"`
	Content   string         `json:"content,omitempty"`
	Status    *WindowStatus  `json:"status,omitempty"`
	Windows   []WindowStatus `json:"windows,omitempty"`
	Recent    []recent.Doc   `json:"recent,omitempty"`
}

// Event is pushed by the host to the surface attached to a window.
type Event struct {
	Kind    string `json:"kind"`
	Window  string `json:"window,omitempty"`
	Path    string `json:"path,omitempty"`
	Content string `json:"content,omitempty"`
	Title   string `json:"title,omitempty"`
	Edited  bool   `json:"edited,omitempty"`
}

// WindowStatus describes a window and the document it shows.
type WindowStatus struct {
	ID     string `json:"id"`
	Path   string `json:"path,omitempty"`
	Title  string `json:"title"`
	Edited bool   `json:"edited"`
	Active bool   `json:"active,omitempty"`
}

// Frame kinds on the surface channel.
const (
	FrameRequest  = "request"
	FrameResponse = "response"
	FrameEvent    = "event"
)

// Frame is one websocket message on the surface channel. Seq pairs a
// response with its request; events carry no seq.
type Frame struct {
	Kind     string    `json:"kind"`
	Seq      uint64    `json:"seq,omitempty"`
	Message  *Message  `json:"message,omitempty"`
	Response *Response `json:"response,omitempty"`
	Event    *Event    `json:"event,omitempty"`
}
