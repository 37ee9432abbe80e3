// Package document holds the state of the single document shown in a window:
// where it lives on disk and what was last read from or written to that path.
package document

import (
	"context"
	"encoding/hex"
	"path/filepath"
	"sync"

	"github.com/zeebo/blake3"
	"go.uber.org/zap"
)

// UntitledTitle is shown for a document that has never been saved.
const UntitledTitle = "Untitled"

// File is the last known saved state of a document.
type File struct {
	Path    string
	Content string
	Digest  string
}

// HasPath reports whether the document has been opened from or saved to disk.
func (f File) HasPath() bool { return f.Path != "" }

// Chrome is the part of a host window that reflects the current document.
type Chrome interface {
	SetTitle(title string)
	SetRepresentedFilename(path string)
}

// Recents registers documents in the host's recent-documents list.
type Recents interface {
	Add(ctx context.Context, path string) error
}

// SaveLocator asks the user where to save a document that has no path yet.
// ok is false when the user cancelled.
type SaveLocator interface {
	SaveLocation(ctx context.Context) (path string, ok bool, err error)
}

// Holder owns the File of one window.
type Holder struct {
	mu      sync.RWMutex
	file    File
	chrome  Chrome
	recents Recents
	locator SaveLocator
	log     *zap.Logger
}

// NewHolder returns an empty Holder. recents and log may be nil.
func NewHolder(chrome Chrome, recents Recents, locator SaveLocator, log *zap.Logger) *Holder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Holder{chrome: chrome, recents: recents, locator: locator, log: log}
}

// Snapshot returns a copy of the current File.
func (h *Holder) Snapshot() File {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.file
}

// Path returns the stored path, empty for a new document.
func (h *Holder) Path() string {
	return h.Snapshot().Path
}

// CurrentPath returns the stored path or, when there is none, the location
// picked in the save dialog. The picked location is not stored.
func (h *Holder) CurrentPath(ctx context.Context) (string, bool, error) {
	if p := h.Path(); p != "" {
		return p, true, nil
	}
	if h.locator == nil {
		return "", false, nil
	}
	return h.locator.SaveLocation(ctx)
}

// SetCurrent records path and content as the saved state and reflects the
// path in the window title, the represented file and the recents list.
func (h *Holder) SetCurrent(ctx context.Context, path, content string) {
	h.mu.Lock()
	h.file = File{Path: path, Content: content, Digest: Digest([]byte(content))}
	h.mu.Unlock()

	if h.chrome != nil {
		h.chrome.SetTitle(filepath.Base(path))
		h.chrome.SetRepresentedFilename(path)
	}
	if h.recents != nil {
		if err := h.recents.Add(ctx, path); err != nil {
			h.log.Warn("recent documents update failed", zap.String("path", path), zap.Error(err))
		}
	}
}

// Reset turns the holder back into an untitled, empty document.
func (h *Holder) Reset() {
	h.mu.Lock()
	h.file = File{Digest: Digest(nil)}
	h.mu.Unlock()

	if h.chrome != nil {
		h.chrome.SetTitle(UntitledTitle)
		h.chrome.SetRepresentedFilename("")
	}
}

// HasUnsavedChanges reports whether candidate differs from the saved content.
func (h *Holder) HasUnsavedChanges(candidate string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return candidate != h.file.Content
}

// Digest returns the hex BLAKE3 digest of b.
func Digest(b []byte) string {
	sum := blake3.Sum256(b)
	return hex.EncodeToString(sum[:])
}
