// Package shell asks the desktop to reveal or open files.
package shell

import (
	"context"
	"fmt"
	"net/url"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/godbus/dbus/v5"
)

// Shell is the host's desktop integration.
type Shell interface {
	ShowItemInFolder(ctx context.Context, path string) error
	OpenPath(ctx context.Context, path string) error
}

// Starter launches a program without waiting for it to exit.
type Starter func(name string, args ...string) error

// StartCommand starts name detached and reaps it in the background.
func StartCommand(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

// Revealer selects a file in the user's file manager.
type Revealer func(ctx context.Context, path string) error

// System implements Shell with the platform's launcher commands.
type System struct {
	GOOS   string
	Start  Starter
	Reveal Revealer
}

// New returns a System for the running platform. On Linux, reveal uses the
// freedesktop FileManager1 D-Bus interface.
func New() *System {
	s := &System{GOOS: runtime.GOOS, Start: StartCommand}
	if s.GOOS == "linux" {
		s.Reveal = RevealDBus
	}
	return s
}

// OpenPath opens path with the default application for its type.
func (s *System) OpenPath(ctx context.Context, path string) error {
	name, args := openCommand(s.GOOS, path)
	if err := s.Start(name, args...); err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	return nil
}

// ShowItemInFolder reveals path in the file manager, falling back to
// opening the containing directory.
func (s *System) ShowItemInFolder(ctx context.Context, path string) error {
	switch s.GOOS {
	case "darwin":
		return s.Start("open", "-R", path)
	case "windows":
		return s.Start("explorer", "/select,"+path)
	}
	if s.Reveal != nil {
		if err := s.Reveal(ctx, path); err == nil {
			return nil
		}
	}
	return s.OpenPath(ctx, filepath.Dir(path))
}

// openCommand returns the generic 'open' command: open on macOS, start on
// Windows, xdg-open elsewhere.
func openCommand(goos, path string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{path}
	case "windows":
		return "cmd", []string{"/c", "start", "", path}
	default:
		return "xdg-open", []string{path}
	}
}

// RevealDBus calls org.freedesktop.FileManager1.ShowItems on the session bus.
func RevealDBus(ctx context.Context, path string) error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return err
	}
	defer conn.Close()
	uri := (&url.URL{Scheme: "file", Path: path}).String()
	obj := conn.Object("org.freedesktop.FileManager1", "/org/freedesktop/FileManager1")
	return obj.CallWithContext(ctx, "org.freedesktop.FileManager1.ShowItems", 0, []string{uri}, "").Err
}
