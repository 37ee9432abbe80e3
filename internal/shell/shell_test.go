package shell

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	cmds [][]string
	err  error
}

func (r *recorder) start(name string, args ...string) error {
	r.cmds = append(r.cmds, append([]string{name}, args...))
	return r.err
}

func TestOpenPathPerPlatform(t *testing.T) {
	cases := map[string][]string{
		"linux":   {"xdg-open", "/tmp/a.md"},
		"freebsd": {"xdg-open", "/tmp/a.md"},
		"darwin":  {"open", "/tmp/a.md"},
		"windows": {"cmd", "/c", "start", "", "/tmp/a.md"},
	}
	for goos, want := range cases {
		t.Run(goos, func(t *testing.T) {
			r := &recorder{}
			s := &System{GOOS: goos, Start: r.start}
			require.NoError(t, s.OpenPath(context.Background(), "/tmp/a.md"))
			assert.Equal(t, [][]string{want}, r.cmds)
		})
	}
}

func TestShowItemInFolderUsesRevealer(t *testing.T) {
	r := &recorder{}
	var revealed string
	s := &System{GOOS: "linux", Start: r.start, Reveal: func(ctx context.Context, path string) error {
		revealed = path
		return nil
	}}

	require.NoError(t, s.ShowItemInFolder(context.Background(), "/tmp/notes/a.md"))
	assert.Equal(t, "/tmp/notes/a.md", revealed)
	assert.Empty(t, r.cmds)
}

func TestShowItemInFolderFallsBackToDirectory(t *testing.T) {
	r := &recorder{}
	s := &System{GOOS: "linux", Start: r.start, Reveal: func(context.Context, string) error {
		return errors.New("no file manager on the bus")
	}}

	require.NoError(t, s.ShowItemInFolder(context.Background(), "/tmp/notes/a.md"))
	assert.Equal(t, [][]string{{"xdg-open", "/tmp/notes"}}, r.cmds)
}

func TestShowItemInFolderDarwin(t *testing.T) {
	r := &recorder{}
	s := &System{GOOS: "darwin", Start: r.start}
	require.NoError(t, s.ShowItemInFolder(context.Background(), "/tmp/a.md"))
	assert.Equal(t, [][]string{{"open", "-R", "/tmp/a.md"}}, r.cmds)
}

func TestOpenPathError(t *testing.T) {
	s := &System{GOOS: "linux", Start: (&recorder{err: errors.New("exec: not found")}).start}
	err := s.OpenPath(context.Background(), "/tmp/a.md")
	assert.EqualError(t, err, "open /tmp/a.md: exec: not found")
}
