package cli

import (
	"context"
	"io"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/term"
)

const defaultPager = "less -FRSX"

// pagerCommand returns the pager from $QUILL_PAGER or $PAGER. An empty
// value or "cat" disables paging.
func pagerCommand() string {
	for _, env := range []string{"QUILL_PAGER", "PAGER"} {
		if p, ok := os.LookupEnv(env); ok {
			p = strings.TrimSpace(p)
			if p == "cat" {
				return ""
			}
			return p
		}
	}
	return defaultPager
}

// withPager hands write a pager's stdin when out is a terminal and writes
// to out directly otherwise or when the pager cannot start.
func withPager(ctx context.Context, out, errOut io.Writer, write func(io.Writer) error) error {
	f, ok := out.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return write(out)
	}
	pager := pagerCommand()
	if pager == "" {
		return write(out)
	}
	cmd := exec.CommandContext(ctx, "sh", "-c", pager)
	cmd.Stdout = f
	cmd.Stderr = errOut
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return write(out)
	}
	if err := cmd.Start(); err != nil {
		return write(out)
	}
	werr := write(stdin)
	_ = stdin.Close()
	if err := cmd.Wait(); err != nil && werr == nil {
		return err
	}
	return werr
}
