package cli

import (
	"github.com/spf13/cobra"

	"github.com/mithrel/quill/internal/ipc"
	"github.com/mithrel/quill/internal/render"
)

func newOpenCmd() *cobra.Command {
	var window string
	cmd := &cobra.Command{
		Use:   "open [file]",
		Short: "Open a document in a host window (asks with a dialog when no file is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m := ipc.Message{Name: ipc.MsgFileOpen, Window: window}
			if len(args) == 1 {
				path, err := absPath(args[0])
				if err != nil {
					return err
				}
				m.Name, m.Path = ipc.MsgFileOpenPath, path
			}
			resp, err := request(cmd, m)
			if err != nil {
				return err
			}
			if resp.Cancelled {
				printf(cmd, "Cancelled\n")
				return nil
			}
			printf(cmd, "Opened %s in window %s\n", resp.Path, resp.Window)
			return nil
		},
	}
	addWindowFlag(cmd, &window)
	return cmd
}

func newSaveCmd() *cobra.Command {
	var window string
	var as bool
	cmd := &cobra.Command{
		Use:   "save [file|-]",
		Short: "Save content from a file or stdin as the window's document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := readInput(cmd, getApp(cmd).Fs, args)
			if err != nil {
				return err
			}
			name := ipc.MsgFileSave
			if as {
				name = ipc.MsgFileSaveAs
			}
			resp, err := request(cmd, ipc.Message{Name: name, Window: window, Content: content})
			if err != nil {
				return err
			}
			if resp.Cancelled {
				printf(cmd, "Cancelled\n")
				return nil
			}
			printf(cmd, "Saved %s\n", resp.Path)
			return nil
		},
	}
	addWindowFlag(cmd, &window)
	cmd.Flags().BoolVar(&as, "as", false, "always ask for the target file")
	return cmd
}

func newExportCmd() *cobra.Command {
	var window, title string
	var raw bool
	cmd := &cobra.Command{
		Use:   "export [file|-]",
		Short: "Export markdown from a file or stdin as HTML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readInput(cmd, getApp(cmd).Fs, args)
			if err != nil {
				return err
			}
			html := src
			if !raw {
				if html, err = render.HTML(src, title); err != nil {
					return err
				}
			}
			resp, err := request(cmd, ipc.Message{Name: ipc.MsgFileExportHTML, Window: window, HTML: html})
			if err != nil {
				return err
			}
			if resp.Cancelled {
				printf(cmd, "Cancelled\n")
				return nil
			}
			printf(cmd, "Exported %s\n", resp.Path)
			return nil
		},
	}
	addWindowFlag(cmd, &window)
	cmd.Flags().BoolVar(&raw, "raw", false, "input is already HTML")
	cmd.Flags().StringVar(&title, "title", "", "HTML page title (default: first heading)")
	return cmd
}

func newChangedCmd() *cobra.Command {
	var window string
	cmd := &cobra.Command{
		Use:   "changed [file|-]",
		Short: "Report whether content differs from the window's saved document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := readInput(cmd, getApp(cmd).Fs, args)
			if err != nil {
				return err
			}
			resp, err := request(cmd, ipc.Message{Name: ipc.MsgFileHasChanges, Window: window, Content: content})
			if err != nil {
				return err
			}
			if resp.Changed {
				printf(cmd, "changed\n")
			} else {
				printf(cmd, "unchanged\n")
			}
			return nil
		},
	}
	addWindowFlag(cmd, &window)
	return cmd
}

func newRevealCmd() *cobra.Command {
	var window string
	cmd := &cobra.Command{
		Use:   "reveal",
		Short: "Show the window's document in the file manager",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := request(cmd, ipc.Message{Name: ipc.MsgFileShowInFolder, Window: window})
			return err
		},
	}
	addWindowFlag(cmd, &window)
	return cmd
}

func newLaunchCmd() *cobra.Command {
	var window string
	cmd := &cobra.Command{
		Use:   "launch",
		Short: "Open the window's document in the default application",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := request(cmd, ipc.Message{Name: ipc.MsgFileOpenDefault, Window: window})
			return err
		},
	}
	addWindowFlag(cmd, &window)
	return cmd
}
