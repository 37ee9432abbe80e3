package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/mithrel/quill/internal/render"
)

func newPreviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview [file|-]",
		Short: "Render markdown in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			src, err := readInput(cmd, app.Fs, args)
			if err != nil {
				return err
			}
			out, err := render.Terminal(src, app.Cfg.GetString("preview.style"), app.Cfg.GetInt("preview.width"))
			if err != nil {
				return err
			}
			return withPager(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), func(w io.Writer) error {
				_, err := io.WriteString(w, out)
				return err
			})
		},
	}
	cmd.Flags().String("style", "", "glamour style (dark, light, notty, dracula, ...)")
	cmd.Flags().Int("width", 0, "word wrap width")
	return cmd
}
