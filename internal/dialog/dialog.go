// Package dialog presents native open/save file pickers on behalf of the host.
package dialog

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// Filter restricts a picker to files with the given extensions (without dot).
type Filter struct {
	Name       string
	Extensions []string
}

// Pattern returns the glob patterns of f, e.g. "*.md *.markdown".
func (f Filter) Pattern() string {
	pats := make([]string, 0, len(f.Extensions))
	for _, e := range f.Extensions {
		pats = append(pats, "*."+strings.TrimPrefix(e, "."))
	}
	return strings.Join(pats, " ")
}

// Options configures a single picker.
type Options struct {
	Title     string
	Suggested string
	Filters   []Filter
}

// Dialogs presents file pickers. ok is false when the user dismissed the
// picker; that is a normal outcome, not an error.
type Dialogs interface {
	OpenFile(ctx context.Context, opts Options) (path string, ok bool, err error)
	SaveFile(ctx context.Context, opts Options) (path string, ok bool, err error)
}

// Runner executes a picker program and returns its trimmed stdout.
// exitCode is 0 on success; a non-zero code with a nil error means the
// program ran and reported cancellation or failure.
type Runner func(ctx context.Context, name string, args ...string) (stdout string, exitCode int, err error)

// ExecRunner runs the program with os/exec.
func ExecRunner(ctx context.Context, name string, args ...string) (string, int, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		if ee, ok := err.(*exec.ExitError); ok {
			return "", ee.ExitCode(), nil
		}
		return "", -1, err
	}
	return strings.TrimRight(string(out), "\r\n"), 0, nil
}

// New returns the Dialogs for driver: "zenity", "kdialog", "none" or "auto".
// auto picks the first of zenity and kdialog found on PATH, else none.
func New(driver string, run Runner) (Dialogs, error) {
	if run == nil {
		run = ExecRunner
	}
	switch driver {
	case "zenity":
		return &Zenity{run: run, exists: fileExists}, nil
	case "kdialog":
		return &KDialog{run: run, exists: fileExists}, nil
	case "none":
		return None{}, nil
	case "", "auto":
		if _, err := exec.LookPath("zenity"); err == nil {
			return &Zenity{run: run, exists: fileExists}, nil
		}
		if _, err := exec.LookPath("kdialog"); err == nil {
			return &KDialog{run: run, exists: fileExists}, nil
		}
		return None{}, nil
	default:
		return nil, fmt.Errorf("unknown dialog driver %q", driver)
	}
}

// None cancels every picker. It serves hosts without a desktop session.
type None struct{}

func (None) OpenFile(context.Context, Options) (string, bool, error) { return "", false, nil }
func (None) SaveFile(context.Context, Options) (string, bool, error) { return "", false, nil }

// EnsureExtension appends the first extension of the first filter when path
// has no extension.
func EnsureExtension(path string, filters []Filter) string {
	if path == "" || filepath.Ext(path) != "" {
		return path
	}
	for _, f := range filters {
		if len(f.Extensions) > 0 {
			return path + "." + strings.TrimPrefix(f.Extensions[0], ".")
		}
	}
	return path
}

// pickResult maps a picker exit to the (path, ok, err) contract.
// Both zenity and kdialog exit with 1 on cancel.
func pickResult(prog, out string, code int, err error) (string, bool, error) {
	if err != nil {
		return "", false, fmt.Errorf("%s: %w", prog, err)
	}
	switch code {
	case 0:
		if out == "" {
			return "", false, nil
		}
		return out, true, nil
	case 1:
		return "", false, nil
	default:
		return "", false, fmt.Errorf("%s exited with status %d", prog, code)
	}
}
