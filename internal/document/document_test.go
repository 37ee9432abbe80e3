package document

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChrome struct {
	title       string
	represented string
}

func (c *fakeChrome) SetTitle(title string)              { c.title = title }
func (c *fakeChrome) SetRepresentedFilename(path string) { c.represented = path }

type fakeRecents struct {
	paths []string
	err   error
}

func (r *fakeRecents) Add(ctx context.Context, path string) error {
	r.paths = append(r.paths, path)
	return r.err
}

type fakeLocator struct {
	path  string
	ok    bool
	calls int
}

func (l *fakeLocator) SaveLocation(ctx context.Context) (string, bool, error) {
	l.calls++
	return l.path, l.ok, nil
}

func TestHasUnsavedChanges(t *testing.T) {
	h := NewHolder(nil, nil, nil, nil)
	h.SetCurrent(context.Background(), "/tmp/a.md", "c1")

	assert.False(t, h.HasUnsavedChanges("c1"))
	assert.True(t, h.HasUnsavedChanges("c2"))
	assert.True(t, h.HasUnsavedChanges("c1 "))
	assert.True(t, h.HasUnsavedChanges(""))
}

func TestNewHolderIsEmpty(t *testing.T) {
	h := NewHolder(nil, nil, nil, nil)

	f := h.Snapshot()
	assert.False(t, f.HasPath())
	assert.False(t, h.HasUnsavedChanges(""))
	assert.True(t, h.HasUnsavedChanges("x"))
}

func TestSetCurrentUpdatesChromeAndRecents(t *testing.T) {
	chrome := &fakeChrome{}
	recents := &fakeRecents{}
	h := NewHolder(chrome, recents, nil, nil)

	h.SetCurrent(context.Background(), "/home/u/notes/todo.md", "- [ ] x")

	assert.Equal(t, "todo.md", chrome.title)
	assert.Equal(t, "/home/u/notes/todo.md", chrome.represented)
	assert.Equal(t, []string{"/home/u/notes/todo.md"}, recents.paths)
	f := h.Snapshot()
	assert.Equal(t, "- [ ] x", f.Content)
	assert.Equal(t, Digest([]byte("- [ ] x")), f.Digest)
}

func TestSetCurrentToleratesRecentsFailure(t *testing.T) {
	h := NewHolder(nil, &fakeRecents{err: errors.New("disk full")}, nil, nil)

	h.SetCurrent(context.Background(), "/tmp/a.md", "a")

	assert.Equal(t, "/tmp/a.md", h.Path())
}

func TestCurrentPath(t *testing.T) {
	ctx := context.Background()

	t.Run("stored path skips the prompt", func(t *testing.T) {
		loc := &fakeLocator{path: "/elsewhere.md", ok: true}
		h := NewHolder(nil, nil, loc, nil)
		h.SetCurrent(ctx, "/tmp/a.md", "")

		p, ok, err := h.CurrentPath(ctx)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "/tmp/a.md", p)
		assert.Zero(t, loc.calls)
	})

	t.Run("new document prompts without storing", func(t *testing.T) {
		loc := &fakeLocator{path: "/tmp/new.md", ok: true}
		h := NewHolder(nil, nil, loc, nil)

		p, ok, err := h.CurrentPath(ctx)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "/tmp/new.md", p)
		assert.Equal(t, 1, loc.calls)
		assert.Empty(t, h.Path())
	})

	t.Run("cancelled prompt", func(t *testing.T) {
		h := NewHolder(nil, nil, &fakeLocator{}, nil)

		p, ok, err := h.CurrentPath(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, p)
	})
}

func TestReset(t *testing.T) {
	chrome := &fakeChrome{}
	h := NewHolder(chrome, nil, nil, nil)
	h.SetCurrent(context.Background(), "/tmp/a.md", "text")

	h.Reset()

	assert.Empty(t, h.Path())
	assert.Equal(t, UntitledTitle, chrome.title)
	assert.Empty(t, chrome.represented)
	assert.False(t, h.HasUnsavedChanges(""))
}
