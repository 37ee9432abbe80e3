package ipc

import (
	"os"
	"path/filepath"
)

// SocketPath returns the control socket path: $QUILL_SOCKET,
// $XDG_RUNTIME_DIR/quill.sock, or a file under ~/.local/share/quill. The
// parent directory is created with private permissions.
func SocketPath() (string, error) {
	var p string
	switch {
	case os.Getenv("QUILL_SOCKET") != "":
		p = os.Getenv("QUILL_SOCKET")
	case os.Getenv("XDG_RUNTIME_DIR") != "":
		p = filepath.Join(os.Getenv("XDG_RUNTIME_DIR"), "quill.sock")
	default:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		p = filepath.Join(home, ".local", "share", "quill", "ipc.sock")
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o700); err != nil {
		return "", err
	}
	return p, nil
}
