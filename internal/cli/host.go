package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mithrel/quill/internal/host"
)

func newHostCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "host",
		Short: "Run the editor host (file dialogs, document state, shell integration)",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd) // initialized via PersistentPreRunE
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Starting quill host on %s...\n", app.Cfg.GetString("http_addr"))
			return host.Run(cmd.Context(), app)
		},
	}
	cmd.Flags().String("http-addr", "", "listen address for the surface channel")
	cmd.Flags().String("dialogs", "", "file dialog driver: auto, zenity, kdialog or none")
	cmd.Flags().String("log-level", "", "log level: debug, info, warn, error")
	return cmd
}
