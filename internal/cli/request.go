package cli

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/mithrel/quill/internal/ipc"
)

// request sends m to the host over the control socket and turns failed
// responses into errors.
func request(cmd *cobra.Command, m ipc.Message) (ipc.Response, error) {
	sock, err := ipc.SocketPath()
	if err != nil {
		return ipc.Response{}, err
	}
	resp, err := ipc.Request(cmd.Context(), sock, m)
	if err != nil {
		return resp, fmt.Errorf("host not reachable (is `quill host` running?): %w", err)
	}
	if resp.Ignored {
		return resp, fmt.Errorf("window %s is closed", m.Window)
	}
	if !resp.OK {
		if resp.Retryable {
			return resp, fmt.Errorf("%s (the operation can be retried)", resp.Msg)
		}
		return resp, errors.New(resp.Msg)
	}
	return resp, nil
}

// readInput returns the contents of args[0], or stdin when no file or "-"
// is given.
func readInput(cmd *cobra.Command, fs afero.Fs, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		b, err := io.ReadAll(cmd.InOrStdin())
		return string(b), err
	}
	b, err := afero.ReadFile(fs, args[0])
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func absPath(p string) (string, error) {
	if p == "" {
		return "", nil
	}
	return filepath.Abs(p)
}

func addWindowFlag(cmd *cobra.Command, window *string) {
	cmd.Flags().StringVarP(window, "window", "w", "", "target window id (default: the active window)")
}

func printf(cmd *cobra.Command, format string, a ...any) {
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), format, a...)
}
