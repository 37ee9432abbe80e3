package window

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/quill/internal/coordinator"
	"github.com/mithrel/quill/internal/dialog"
	"github.com/mithrel/quill/internal/ipc"
)

type picker struct{ path string }

func (p picker) OpenFile(context.Context, dialog.Options) (string, bool, error) {
	return p.path, p.path != "", nil
}

func (p picker) SaveFile(context.Context, dialog.Options) (string, bool, error) {
	return p.path, p.path != "", nil
}

type noShell struct{}

func (noShell) ShowItemInFolder(context.Context, string) error { return nil }
func (noShell) OpenPath(context.Context, string) error         { return nil }

// gatedFs parks every write open until the test releases it.
type gatedFs struct {
	afero.Fs
	started chan string
	release chan struct{}
}

func (g *gatedFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	if flag&(os.O_WRONLY|os.O_RDWR) != 0 {
		g.started <- name
		<-g.release
	}
	return g.Fs.OpenFile(name, flag, perm)
}

func newRegistry(fs afero.Fs, pick string, watch bool) *Registry {
	return NewRegistry(Config{
		Dialogs: picker{path: pick},
		Fs:      fs,
		Shell:   noShell{},
		Options: coordinator.DefaultOptions(),
		Watch:   watch,
	})
}

func drain(w *Window) []ipc.Event {
	var out []ipc.Event
	for {
		select {
		case ev, ok := <-w.Events():
			if !ok {
				return out
			}
			out = append(out, ev)
		default:
			return out
		}
	}
}

func kinds(evs []ipc.Event) []string {
	out := make([]string, len(evs))
	for i, ev := range evs {
		out[i] = ev.Kind
	}
	return out
}

func TestNewWindowIsReady(t *testing.T) {
	r := newRegistry(afero.NewMemMapFs(), "", false)
	w, err := r.New()
	require.NoError(t, err)

	evs := drain(w)
	require.Len(t, evs, 1)
	assert.Equal(t, ipc.Event{Kind: ipc.EventWindowReady, Window: w.ID, Title: "Untitled"}, evs[0])
	assert.Equal(t, ipc.WindowStatus{ID: w.ID, Title: "Untitled"}, w.Status())
}

func TestOpenAndEditEmitEvents(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/docs/a.md", []byte("# Hi"), 0o644))
	r := newRegistry(fs, "/docs/a.md", false)
	w, err := r.New()
	require.NoError(t, err)
	drain(w)

	var res coordinator.Result
	w.Do(func(c *coordinator.Coordinator) {
		res, err = c.Open(ctx)
	})
	require.NoError(t, err)
	assert.Equal(t, "# Hi", res.Content)

	w.Do(func(c *coordinator.Coordinator) {
		assert.True(t, c.CheckUnsavedChanges(ctx, "# Hi!"))
		assert.True(t, c.CheckUnsavedChanges(ctx, "# Hi!!"))
	})

	evs := drain(w)
	assert.Equal(t, []string{ipc.EventWindowTitle, ipc.EventFileOpened, ipc.EventWindowEdited}, kinds(evs))
	assert.Equal(t, "a.md", evs[0].Title)
	assert.Equal(t, "# Hi", evs[1].Content)
	assert.True(t, evs[2].Edited)
	assert.Equal(t, ipc.WindowStatus{ID: w.ID, Path: "/docs/a.md", Title: "a.md", Edited: true}, w.Status())
	assert.Equal(t, "/docs/a.md", w.Document().Path)
}

func TestWindowsAreIndependent(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/docs/a.md", []byte("a"), 0o644))
	r := newRegistry(fs, "/docs/a.md", false)
	a, err := r.New()
	require.NoError(t, err)
	b, err := r.New()
	require.NoError(t, err)

	a.Do(func(c *coordinator.Coordinator) {
		_, err = c.Open(ctx)
	})
	require.NoError(t, err)

	assert.Equal(t, "/docs/a.md", a.Document().Path)
	assert.Empty(t, b.Document().Path)
	assert.Equal(t, "Untitled", b.Status().Title)
}

func TestConcurrentSavesDoNotInterleave(t *testing.T) {
	ctx := context.Background()
	mem := afero.NewMemMapFs()
	fs := &gatedFs{Fs: mem, started: make(chan string), release: make(chan struct{})}
	r := newRegistry(fs, "/docs/a.md", false)
	w, err := r.New()
	require.NoError(t, err)

	save := func(content string, done chan<- error) {
		w.Do(func(c *coordinator.Coordinator) {
			_, err := c.Save(ctx, content)
			done <- err
		})
	}
	waitStart := func() string {
		select {
		case p := <-fs.started:
			return p
		case <-time.After(3 * time.Second):
			t.Fatal("write did not start")
			return ""
		}
	}

	first, second := make(chan error, 1), make(chan error, 1)
	go save("one", first)
	assert.Equal(t, "/docs/a.md", waitStart())
	go save("two", second)

	select {
	case <-fs.started:
		t.Fatal("second write started while the first was in flight")
	case <-time.After(50 * time.Millisecond):
	}

	fs.release <- struct{}{}
	require.NoError(t, <-first)

	assert.Equal(t, "/docs/a.md", waitStart())
	assert.Equal(t, "one", w.Document().Content)
	fs.release <- struct{}{}
	require.NoError(t, <-second)

	b, err := afero.ReadFile(mem, "/docs/a.md")
	require.NoError(t, err)
	assert.Equal(t, "two", string(b))
	assert.Equal(t, string(b), w.Document().Content)
	assert.Equal(t, "/docs/a.md", w.Document().Path)
}

func TestRegistryFocusListClose(t *testing.T) {
	r := newRegistry(afero.NewMemMapFs(), "", false)
	a, err := r.New()
	require.NoError(t, err)
	b, err := r.New()
	require.NoError(t, err)

	act, ok := r.Active()
	require.True(t, ok)
	assert.Equal(t, b.ID, act.ID)

	require.True(t, r.Focus(a.ID))
	assert.False(t, r.Focus("missing"))
	list := r.List()
	require.Len(t, list, 2)
	assert.Equal(t, a.ID, list[0].ID)
	assert.True(t, list[0].Active)
	assert.False(t, list[1].Active)

	require.True(t, r.Close(a.ID))
	assert.False(t, r.Close(a.ID))
	_, ok = r.Get(a.ID)
	assert.False(t, ok)
	act, ok = r.Resolve("")
	require.True(t, ok)
	assert.Equal(t, b.ID, act.ID)

	drain(a)
	_, open := <-a.Events()
	assert.False(t, open)

	r.CloseAll()
	_, ok = r.Active()
	assert.False(t, ok)
	assert.Empty(t, r.List())
}

func TestExternalChangeReachesSurface(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "a.md")
	require.NoError(t, os.WriteFile(path, []byte("one"), 0o644))
	r := newRegistry(afero.NewOsFs(), path, true)
	t.Cleanup(r.CloseAll)
	w, err := r.New()
	require.NoError(t, err)

	w.Do(func(c *coordinator.Coordinator) {
		_, err = c.Open(ctx)
	})
	require.NoError(t, err)
	drain(w)

	require.NoError(t, os.WriteFile(path, []byte("two"), 0o644))

	deadline := time.After(3 * time.Second)
	for {
		select {
		case ev := <-w.Events():
			if ev.Kind == ipc.EventFileChanged && ev.Content == "two" {
				assert.Equal(t, path, ev.Path)
				assert.Equal(t, w.ID, ev.Window)
				return
			}
		case <-deadline:
			t.Fatal("file.changed not delivered")
		}
	}
}
