// Package watch reports changes made to the open document by other
// programs.
package watch

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/mithrel/quill/internal/document"
)

// Change kinds.
const (
	Changed = "file.changed"
	Removed = "file.removed"
)

// settle is how long a file must stay quiet before it is read, so a save
// seen as truncate plus write is reported once.
const settle = 50 * time.Millisecond

// Change describes the document on disk after an external modification.
type Change struct {
	Kind    string
	Path    string
	Content string
}

// Watcher follows at most one path. The parent directory is watched so
// that editors replacing the file by rename are still seen.
type Watcher struct {
	fs     afero.Fs
	digest func() string
	notify func(Change)
	log    *zap.Logger

	fw   *fsnotify.Watcher
	done chan struct{}

	mu    sync.Mutex
	path  string
	dir   string
	seen  string
	timer *time.Timer
}

// New starts a Watcher. digest returns the digest of the content the host
// last read or wrote; files on disk with that digest are not reported.
func New(fs afero.Fs, digest func() string, notify func(Change), log *zap.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	w := &Watcher{fs: fs, digest: digest, notify: notify, log: log, fw: fw, done: make(chan struct{})}
	go w.loop()
	return w, nil
}

// Watch switches to path. An empty path stops watching.
func (w *Watcher) Watch(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if path == w.path {
		w.seen = ""
		return nil
	}
	dir := ""
	if path != "" {
		dir = filepath.Dir(path)
	}
	if w.dir != "" && w.dir != dir {
		_ = w.fw.Remove(w.dir)
	}
	w.path, w.seen = path, ""
	if dir == "" || dir == w.dir {
		w.dir = dir
		return nil
	}
	w.dir = dir
	if err := w.fw.Add(dir); err != nil {
		w.path, w.dir = "", ""
		return err
	}
	return nil
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	err := w.fw.Close()
	<-w.done
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	return err
}

func (w *Watcher) loop() {
	defer close(w.done)
	for {
		select {
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", zap.Error(err))
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	w.mu.Lock()
	path := w.path
	w.mu.Unlock()
	if path == "" || filepath.Clean(ev.Name) != filepath.Clean(path) {
		return
	}

	switch {
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		if _, err := w.fs.Stat(path); err == nil {
			return
		}
		w.emit(path, Change{Kind: Removed, Path: path}, "removed")
	case ev.Has(fsnotify.Write), ev.Has(fsnotify.Create):
		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.timer = time.AfterFunc(settle, func() { w.check(path) })
		w.mu.Unlock()
	}
}

func (w *Watcher) check(path string) {
	b, err := afero.ReadFile(w.fs, path)
	if err != nil {
		w.log.Debug("reading changed file", zap.String("path", path), zap.Error(err))
		return
	}
	sum := document.Digest(b)
	if sum == w.digest() {
		return
	}
	w.emit(path, Change{Kind: Changed, Path: path, Content: string(b)}, sum)
}

// emit reports c unless the same state was already reported for path.
func (w *Watcher) emit(path string, c Change, state string) {
	w.mu.Lock()
	if w.path != path || w.seen == state {
		w.mu.Unlock()
		return
	}
	w.seen = state
	w.mu.Unlock()
	w.log.Info("document changed on disk", zap.String("path", path), zap.String("kind", c.Kind))
	w.notify(c)
}
