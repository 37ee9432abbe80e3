package host

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/mithrel/quill/internal/coordinator"
	"github.com/mithrel/quill/internal/ipc"
	"github.com/mithrel/quill/internal/recent"
)

// Dispatch answers one message. Messages aimed at a window that no longer
// exists are ignored. With no window named and none open, a window is
// opened for the request.
func (h *Host) Dispatch(ctx context.Context, m ipc.Message) ipc.Response {
	switch m.Name {
	case ipc.MsgWindowNew:
		w, err := h.windows.New()
		if err != nil {
			return h.fail(m, err)
		}
		st := w.Status()
		return ipc.Response{OK: true, Window: w.ID, Status: &st}
	case ipc.MsgWindowList:
		return ipc.Response{OK: true, Windows: h.windows.List()}
	case ipc.MsgRecentList:
		docs, err := h.recents.List(ctx, 0)
		if err != nil {
			return h.fail(m, err)
		}
		docs = recent.Filter(m.Query, docs)
		if m.Limit > 0 && len(docs) > m.Limit {
			docs = docs[:m.Limit]
		}
		return ipc.Response{OK: true, Recent: docs}
	case ipc.MsgRecentClear:
		if err := h.recents.Clear(ctx); err != nil {
			return h.fail(m, err)
		}
		return ipc.Response{OK: true}
	}

	w, ok := h.windows.Resolve(m.Window)
	if !ok && m.Window == "" && len(h.windows.List()) == 0 {
		nw, err := h.windows.New()
		if err != nil {
			return h.fail(m, err)
		}
		w, ok = nw, true
	}
	if !ok {
		h.log.Debug("message for missing window ignored", zap.String("cmd", m.Name), zap.String("window", m.Window))
		return ipc.Response{OK: true, Ignored: true}
	}

	var r ipc.Response
	switch m.Name {
	case ipc.MsgWindowClose:
		h.windows.Close(w.ID)
		r = ipc.Response{OK: true}
	case ipc.MsgWindowFocus:
		h.windows.Focus(w.ID)
		st := w.Status()
		r = ipc.Response{OK: true, Status: &st}
	case ipc.MsgWindowStatus:
		st := w.Status()
		r = ipc.Response{OK: true, Status: &st}
	default:
		w.Do(func(c *coordinator.Coordinator) {
			r = h.document(ctx, c, m)
		})
	}
	r.Window = w.ID
	return r
}

// document handles the messages that act on a window's document.
func (h *Host) document(ctx context.Context, c *coordinator.Coordinator, m ipc.Message) ipc.Response {
	switch m.Name {
	case ipc.MsgFileOpen:
		return h.result(m)(c.Open(ctx))
	case ipc.MsgFileOpenPath:
		if m.Path == "" {
			return ipc.Response{OK: false, Msg: "path is required"}
		}
		return h.result(m)(c.OpenPath(ctx, m.Path))
	case ipc.MsgFileExportHTML:
		return h.result(m)(c.ExportHTML(ctx, m.HTML))
	case ipc.MsgFileSave:
		return h.result(m)(c.Save(ctx, m.Content))
	case ipc.MsgFileSaveAs:
		return h.result(m)(c.SaveAs(ctx, m.Content))
	case ipc.MsgFileHasChanges:
		return ipc.Response{OK: true, Changed: c.CheckUnsavedChanges(ctx, m.Content)}
	case ipc.MsgFileRevert:
		_, err := c.Revert(ctx)
		return h.done(m, err)
	case ipc.MsgFileShowInFolder:
		return h.done(m, c.ShowInFolder(ctx))
	case ipc.MsgFileOpenDefault:
		return h.done(m, c.OpenInDefaultApp(ctx))
	case ipc.MsgFileNew:
		c.New(ctx)
		return ipc.Response{OK: true}
	case ipc.MsgUnsavedCheckResponse:
		return h.done(m, c.UnsavedCheckResponse(ctx, m.Edited))
	default:
		h.log.Warn("unknown IPC cmd", zap.String("cmd", m.Name))
		return ipc.Response{OK: false, Msg: "unknown command"}
	}
}

func (h *Host) result(m ipc.Message) func(coordinator.Result, error) ipc.Response {
	return func(res coordinator.Result, err error) ipc.Response {
		if err != nil {
			return h.fail(m, err)
		}
		return ipc.Response{OK: true, Cancelled: res.Cancelled, Path: res.Path, Content: res.Content}
	}
}

func (h *Host) done(m ipc.Message, err error) ipc.Response {
	if err != nil {
		return h.fail(m, err)
	}
	return ipc.Response{OK: true}
}

func (h *Host) fail(m ipc.Message, err error) ipc.Response {
	if errors.Is(err, coordinator.ErrNotImplemented) {
		h.log.Debug("request not implemented", zap.String("cmd", m.Name))
	} else {
		h.log.Warn("request failed", zap.String("cmd", m.Name), zap.Error(err))
	}
	return ipc.Response{OK: false, Msg: err.Error(), Retryable: coordinator.Retryable(err)}
}
