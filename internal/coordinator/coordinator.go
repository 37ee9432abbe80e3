// Package coordinator turns rendering surface requests into file dialogs,
// filesystem operations and document state updates for one window.
package coordinator

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/mithrel/quill/internal/dialog"
	"github.com/mithrel/quill/internal/document"
	"github.com/mithrel/quill/internal/shell"
)

// Event kinds sent to the rendering surface.
const (
	EventFileOpened = "file.opened"
	EventFileSaved  = "file.saved"
	EventFileNew    = "file.new"
)

// Event is a notification for the rendering surface.
type Event struct {
	Kind    string
	Path    string
	Content string
}

// Notifier delivers events to the rendering surface of a window.
type Notifier interface {
	Notify(ev Event)
}

// Chrome is the window state the coordinator drives directly.
type Chrome interface {
	SetDocumentEdited(edited bool)
}

// Watcher follows the document on disk. Watch("") stops watching.
type Watcher interface {
	Watch(path string) error
}

// Options names the file types offered by the pickers.
type Options struct {
	DocumentFilter dialog.Filter
	ExportFilter   dialog.Filter
}

// DefaultOptions offers Markdown documents and HTML exports.
func DefaultOptions() Options {
	return Options{
		DocumentFilter: dialog.Filter{Name: "Markdown", Extensions: []string{"md"}},
		ExportFilter:   dialog.Filter{Name: "HTML", Extensions: []string{"html"}},
	}
}

// Result describes the outcome of a request. Cancelled is set when the user
// dismissed a dialog; nothing was changed in that case.
type Result struct {
	Cancelled bool
	Path      string
	Content   string
}

// Deps are the collaborators of a Coordinator. Watcher and Log may be nil.
type Deps struct {
	Holder   *document.Holder
	Dialogs  dialog.Dialogs
	Fs       afero.Fs
	Shell    shell.Shell
	Notifier Notifier
	Chrome   Chrome
	Watcher  Watcher
	Log      *zap.Logger
}

// Coordinator handles the document requests of a single window.
type Coordinator struct {
	Deps
	opts Options
}

// New returns a Coordinator. Deps.Holder is normally built with a
// SaveLocator over the same Dialogs.
func New(d Deps, opts Options) *Coordinator {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	return &Coordinator{Deps: d, opts: opts}
}

// SaveLocator adapts a Dialogs into the holder's save-location prompt,
// restricted to the document type.
type SaveLocator struct {
	Dialogs dialog.Dialogs
	Filter  dialog.Filter
}

func (s SaveLocator) SaveLocation(ctx context.Context) (string, bool, error) {
	return s.Dialogs.SaveFile(ctx, dialog.Options{
		Title:     "Save",
		Suggested: document.UntitledTitle + "." + firstExt(s.Filter),
		Filters:   []dialog.Filter{s.Filter},
	})
}

// Open asks for a document and loads it.
func (c *Coordinator) Open(ctx context.Context) (Result, error) {
	path, ok, err := c.Dialogs.OpenFile(ctx, dialog.Options{
		Title:     "Open",
		Suggested: c.dir(),
		Filters:   []dialog.Filter{c.opts.DocumentFilter},
	})
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return Result{Cancelled: true}, nil
	}
	return c.OpenPath(ctx, path)
}

// OpenPath loads the document at path without asking.
func (c *Coordinator) OpenPath(ctx context.Context, path string) (Result, error) {
	b, err := afero.ReadFile(c.Fs, path)
	if err != nil {
		return Result{}, &FileError{Op: "read", Path: path, Err: err}
	}
	content := string(b)
	c.Holder.SetCurrent(ctx, path, content)
	c.Chrome.SetDocumentEdited(false)
	c.watch(path)
	c.Log.Info("opened document", zap.String("path", path), zap.Int("bytes", len(b)))
	c.Notifier.Notify(Event{Kind: EventFileOpened, Path: path, Content: content})
	return Result{Path: path, Content: content}, nil
}

// Save writes content to the current path, asking for one when the
// document is new.
func (c *Coordinator) Save(ctx context.Context, content string) (Result, error) {
	path, ok, err := c.Holder.CurrentPath(ctx)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return Result{Cancelled: true}, nil
	}
	return c.write(ctx, path, content)
}

// SaveAs always asks for the target, suggesting the current path.
func (c *Coordinator) SaveAs(ctx context.Context, content string) (Result, error) {
	suggested := c.Holder.Path()
	if suggested == "" {
		suggested = document.UntitledTitle + "." + firstExt(c.opts.DocumentFilter)
	}
	path, ok, err := c.Dialogs.SaveFile(ctx, dialog.Options{
		Title:     "Save As",
		Suggested: suggested,
		Filters:   []dialog.Filter{c.opts.DocumentFilter},
	})
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return Result{Cancelled: true}, nil
	}
	return c.write(ctx, path, content)
}

func (c *Coordinator) write(ctx context.Context, path, content string) (Result, error) {
	if err := afero.WriteFile(c.Fs, path, []byte(content), 0o644); err != nil {
		return Result{}, &FileError{Op: "write", Path: path, Err: err}
	}
	c.Holder.SetCurrent(ctx, path, content)
	c.Chrome.SetDocumentEdited(false)
	c.watch(path)
	c.Log.Info("saved document", zap.String("path", path), zap.Int("bytes", len(content)))
	c.Notifier.Notify(Event{Kind: EventFileSaved, Path: path})
	return Result{Path: path, Content: content}, nil
}

// ExportHTML writes html verbatim to a location picked by the user. The
// document state is not touched.
func (c *Coordinator) ExportHTML(ctx context.Context, html string) (Result, error) {
	suggested := document.UntitledTitle
	if p := c.Holder.Path(); p != "" {
		suggested = strings.TrimSuffix(p, filepath.Ext(p))
	}
	path, ok, err := c.Dialogs.SaveFile(ctx, dialog.Options{
		Title:     "Export HTML",
		Suggested: suggested + "." + firstExt(c.opts.ExportFilter),
		Filters:   []dialog.Filter{c.opts.ExportFilter},
	})
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return Result{Cancelled: true}, nil
	}
	if err := afero.WriteFile(c.Fs, path, []byte(html), 0o644); err != nil {
		return Result{}, &FileError{Op: "write", Path: path, Err: err}
	}
	c.Log.Info("exported html", zap.String("path", path))
	return Result{Path: path}, nil
}

// CheckUnsavedChanges compares content with the saved document and mirrors
// the answer in the window's edited indicator.
func (c *Coordinator) CheckUnsavedChanges(ctx context.Context, content string) bool {
	changed := c.Holder.HasUnsavedChanges(content)
	c.Chrome.SetDocumentEdited(changed)
	return changed
}

// Revert has no defined behaviour.
func (c *Coordinator) Revert(ctx context.Context) (string, error) {
	return "", ErrNotImplemented
}

// UnsavedCheckResponse is the surface's answer to an unsaved-changes
// request. The host never sends that request.
func (c *Coordinator) UnsavedCheckResponse(ctx context.Context, edited bool) error {
	return ErrNotImplemented
}

// ShowInFolder reveals the current document; no-op for a new document.
func (c *Coordinator) ShowInFolder(ctx context.Context) error {
	path := c.Holder.Path()
	if path == "" {
		return nil
	}
	return c.Shell.ShowItemInFolder(ctx, path)
}

// OpenInDefaultApp opens the current document with the desktop's default
// application; no-op for a new document.
func (c *Coordinator) OpenInDefaultApp(ctx context.Context) error {
	path := c.Holder.Path()
	if path == "" {
		return nil
	}
	return c.Shell.OpenPath(ctx, path)
}

// New discards the document state and starts an untitled document.
func (c *Coordinator) New(ctx context.Context) {
	c.Holder.Reset()
	c.Chrome.SetDocumentEdited(false)
	c.watch("")
	c.Notifier.Notify(Event{Kind: EventFileNew})
}

func (c *Coordinator) watch(path string) {
	if c.Watcher == nil {
		return
	}
	if err := c.Watcher.Watch(path); err != nil {
		c.Log.Warn("watch failed", zap.String("path", path), zap.Error(err))
	}
}

// dir is the directory of the current document, where pickers start.
func (c *Coordinator) dir() string {
	if p := c.Holder.Path(); p != "" {
		return filepath.Dir(p) + string(filepath.Separator)
	}
	return ""
}

func firstExt(f dialog.Filter) string {
	if len(f.Extensions) == 0 {
		return ""
	}
	return strings.TrimPrefix(f.Extensions[0], ".")
}
