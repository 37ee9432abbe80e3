package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mithrel/quill/internal/ipc"
	"github.com/mithrel/quill/internal/surface"
	"github.com/mithrel/quill/internal/surface/tui"
)

func newEditCmd() *cobra.Command {
	var window string
	cmd := &cobra.Command{
		Use:   "edit [file]",
		Short: "Open the terminal editor in a new host window",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			ctx := cmd.Context()
			c, err := surface.Dial(ctx, app.Cfg.GetString("http_addr"), window)
			if err != nil {
				return fmt.Errorf("%w (is `quill host` running?)", err)
			}
			defer c.Close()
			if len(args) == 1 {
				path, err := filepath.Abs(args[0])
				if err != nil {
					return err
				}
				resp, err := c.Call(ctx, ipc.Message{Name: ipc.MsgFileOpenPath, Path: path})
				if err != nil {
					return err
				}
				if !resp.OK {
					return fmt.Errorf("open %s: %s", path, resp.Msg)
				}
			}
			return tui.Run(ctx, c, tui.Options{ConfirmDiscard: app.Cfg.GetBool("editor.confirm_discard")})
		},
	}
	cmd.Flags().StringVar(&window, "window", "", "attach to an existing window instead of opening one")
	return cmd
}
