package editor

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreferredHonorsVisualThenEditor(t *testing.T) {
	t.Setenv("VISUAL", "code --wait")
	t.Setenv("EDITOR", "nano")
	ed, err := Preferred()
	require.NoError(t, err)
	assert.Equal(t, "code --wait", ed)

	t.Setenv("VISUAL", "")
	ed, err = Preferred()
	require.NoError(t, err)
	assert.Equal(t, "nano", ed)
}

func TestCommand(t *testing.T) {
	cmd := Command("vim", "/tmp/a.md")
	assert.Equal(t, []string{"vim", "/tmp/a.md"}, cmd.Args)

	cmd = Command("code --wait", "/tmp/a b.md")
	assert.Equal(t, []string{"sh", "-c", "$EDITORCMD \"$FILEPATH\""}, cmd.Args)
	assert.Contains(t, cmd.Env, "EDITORCMD=code --wait")
	assert.Contains(t, cmd.Env, "FILEPATH=/tmp/a b.md")
}

func TestStageAndCollect(t *testing.T) {
	run := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", run)

	path, err := Stage("/home/me/notes.md", "# Notes")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(run, "quill", "edit"), filepath.Dir(path))
	assert.True(t, strings.HasSuffix(path, "-notes.md"), path)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	require.NoError(t, os.WriteFile(path, []byte("# Notes, edited"), 0o600))
	content, err := Collect(path)
	require.NoError(t, err)
	assert.Equal(t, "# Notes, edited", content)
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestStageUntitled(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())
	path, err := Stage("", "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Remove(path) })
	assert.True(t, strings.HasSuffix(path, "-Untitled.md"), path)
}
