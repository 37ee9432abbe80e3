package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/quill/internal/config"
	"github.com/mithrel/quill/internal/host"
	"github.com/mithrel/quill/internal/ipc"
	"github.com/mithrel/quill/internal/wire"
)

func writeConfigTOML(t *testing.T, dir string) string {
	t.Helper()
	cfg := filepath.Join(dir, "config.toml")
	content := `data_dir = "` + strings.ReplaceAll(dir, "\\", "\\\\") + `"
http_addr = "127.0.0.1:0"

[dialogs]
driver = "none"

[watch]
enabled = false

[log]
level = "error"
`
	require.NoError(t, os.WriteFile(cfg, []byte(content), 0o600))
	return cfg
}

// startTestHost runs a host with isolated dirs and returns its config path.
func startTestHost(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	runtimeDir := filepath.Join(tmp, "run")
	dataDir := filepath.Join(tmp, "data")
	require.NoError(t, os.MkdirAll(runtimeDir, 0o700))
	require.NoError(t, os.MkdirAll(dataDir, 0o700))
	t.Setenv("XDG_RUNTIME_DIR", runtimeDir)
	t.Setenv("QUILL_SOCKET", "")
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmp, "config"))

	cfgPath := writeConfigTOML(t, dataDir)
	v := viper.New()
	v.SetConfigFile(cfgPath)
	require.NoError(t, config.Load(context.Background(), v))
	app, err := wire.BuildApp(context.Background(), v)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = host.Run(ctx, app)
		_ = app.Close()
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	sock, err := ipc.SocketPath()
	require.NoError(t, err)
	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, err := os.Stat(sock); err == nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("socket not ready: %s", sock)
		}
		time.Sleep(10 * time.Millisecond)
	}
	return cfgPath
}

func run(t *testing.T, cfgPath, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCLIDocumentRoundTrip(t *testing.T) {
	cfgPath := startTestHost(t)
	doc := filepath.Join(t.TempDir(), "notes.md")
	require.NoError(t, os.WriteFile(doc, []byte("# Notes"), 0o644))

	out, err := run(t, cfgPath, "", "open", doc)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Opened "+doc)

	out, err = run(t, cfgPath, "# Notes", "changed")
	require.NoError(t, err, out)
	assert.Equal(t, "unchanged\n", out)

	out, err = run(t, cfgPath, "# Notes!", "changed")
	require.NoError(t, err, out)
	assert.Equal(t, "changed\n", out)

	out, err = run(t, cfgPath, "# Notes, saved", "save")
	require.NoError(t, err, out)
	assert.Equal(t, "Saved "+doc+"\n", out)
	b, err := os.ReadFile(doc)
	require.NoError(t, err)
	assert.Equal(t, "# Notes, saved", string(b))

	out, err = run(t, cfgPath, "", "status", "--json")
	require.NoError(t, err, out)
	var list []ipc.WindowStatus
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "notes.md", list[0].Title)
	assert.Equal(t, doc, list[0].Path)
	assert.False(t, list[0].Edited)

	out, err = run(t, cfgPath, "", "recent", "notes")
	require.NoError(t, err, out)
	assert.Equal(t, doc+"\n", out)

	// The none dialog driver cancels every picker.
	out, err = run(t, cfgPath, "", "open")
	require.NoError(t, err, out)
	assert.Equal(t, "Cancelled\n", out)
	out, err = run(t, cfgPath, "<p>x</p>", "export", "--raw")
	require.NoError(t, err, out)
	assert.Equal(t, "Cancelled\n", out)
}

func TestCLIWindows(t *testing.T) {
	cfgPath := startTestHost(t)

	out, err := run(t, cfgPath, "", "window", "new")
	require.NoError(t, err, out)
	id := strings.TrimSpace(out)
	require.NotEmpty(t, id)

	out, err = run(t, cfgPath, "", "status", "--all")
	require.NoError(t, err, out)
	assert.Contains(t, out, id+" *")
	assert.Contains(t, out, "Untitled")

	out, err = run(t, cfgPath, "", "window", "close", id)
	require.NoError(t, err, out)

	_, err = run(t, cfgPath, "x", "save", "--window", id)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is closed")

	_, err = run(t, cfgPath, "", "open", filepath.Join(t.TempDir(), "missing.md"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "can be retried")
}

func TestCLIPreview(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	cfgPath := writeConfigTOML(t, dir)
	doc := filepath.Join(dir, "a.md")
	require.NoError(t, os.WriteFile(doc, []byte("# Hello\n\nworld"), 0o644))

	out, err := run(t, cfgPath, "", "preview", doc, "--style", "notty", "--width", "40")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Hello")
	assert.Contains(t, out, "world")
}

func TestConfigGenerateAndCheck(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "quill", "config.toml")

	got, err := run(t, "", "", "config", "generate", "-o", out)
	require.NoError(t, err, got)
	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(b), "http_addr")

	_, err = run(t, "", "", "config", "generate", "-o", out)
	require.Error(t, err)

	got, err = run(t, "", "", "config", "generate", "-o", out, "--update")
	require.NoError(t, err, got)
	assert.Contains(t, got, "Config already up to date")

	got, err = run(t, "", "", "config", "check", out)
	require.NoError(t, err, got)
	assert.Contains(t, got, "Config OK")
}

func TestInvalidConfigIsReported(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	cfg := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(cfg, []byte("http_addr = \"nope\"\n[recent]\nmax = 0\n"), 0o600))

	_, err := run(t, cfg, "", "status")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http_addr")
	assert.Contains(t, err.Error(), "recent.max")
}

func TestPagerCommand(t *testing.T) {
	t.Setenv("QUILL_PAGER", "")
	t.Setenv("PAGER", "more")
	assert.Equal(t, "", pagerCommand())

	os.Unsetenv("QUILL_PAGER")
	assert.Equal(t, "more", pagerCommand())

	t.Setenv("PAGER", "cat")
	assert.Equal(t, "", pagerCommand())
}

func TestWriteConfigFileModes(t *testing.T) {
	fs := afero.NewMemMapFs()
	var out bytes.Buffer
	path := "/cfg/quill/config.toml"

	require.NoError(t, writeConfigFile(fs, &out, path, writeNew))
	assert.Contains(t, out.String(), "Wrote "+path)
	require.Error(t, writeConfigFile(fs, &out, path, writeNew))

	require.NoError(t, afero.WriteFile(fs, path, []byte("http_addr = \"127.0.0.1:9000\"\n"), 0o600))
	out.Reset()
	require.NoError(t, writeConfigFile(fs, &out, path, writeUpdate))
	assert.Contains(t, out.String(), "Backup: "+path+".bak")
	b, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `http_addr = "127.0.0.1:9000"`)
	assert.Contains(t, string(b), "recent")

	out.Reset()
	require.NoError(t, writeConfigFile(fs, &out, path, writeOverwrite))
	b, err = afero.ReadFile(fs, path)
	require.NoError(t, err)
	assert.Equal(t, config.RenderDefaultTOML(), string(b))
	assert.Contains(t, out.String(), "Backup: "+path+".bak-")
}
