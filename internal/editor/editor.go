// Package editor hands the buffer of a surface to the user's own editor.
package editor

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/mithrel/quill/internal/document"
)

// Preferred finds a suitable editor from env or common defaults.
func Preferred() (string, error) {
	if v := strings.TrimSpace(os.Getenv("VISUAL")); v != "" {
		return v, nil
	}
	if e := strings.TrimSpace(os.Getenv("EDITOR")); e != "" {
		return e, nil
	}
	for _, cand := range []string{"nvim", "vim", "vi", "nano"} {
		if p, err := exec.LookPath(cand); err == nil {
			return p, nil
		}
	}
	return "", errors.New("no editor found; set $EDITOR or $VISUAL")
}

// Dir is where buffers are staged while an external editor holds them.
func Dir() (string, error) {
	if xdg := os.Getenv("XDG_RUNTIME_DIR"); xdg != "" {
		return filepath.Join(xdg, "quill", "edit"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", "quill", "edit"), nil
}

// Stage writes content to a private temp file named after doc so the
// editor picks the right syntax. An empty doc stages an untitled buffer.
func Stage(doc, content string) (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	base := document.UntitledTitle + ".md"
	if doc != "" {
		base = filepath.Base(doc)
	}
	f, err := os.CreateTemp(dir, "*-"+base)
	if err != nil {
		return "", err
	}
	if _, err := f.WriteString(content); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", err
	}
	return f.Name(), f.Close()
}

// Command edits path with editor. Editor strings carrying flags
// ("code --wait") run through a shell wrapper.
func Command(editor, path string) *exec.Cmd {
	if strings.ContainsAny(editor, " \t") {
		cmd := exec.Command("sh", "-c", "$EDITORCMD \"$FILEPATH\"")
		cmd.Env = append(os.Environ(), "EDITORCMD="+editor, "FILEPATH="+path)
		return cmd
	}
	return exec.Command(editor, path)
}

// Collect reads the staged buffer back and removes it.
func Collect(path string) (string, error) {
	b, err := os.ReadFile(path)
	_ = os.Remove(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
