package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mithrel/quill/internal/config"
	"github.com/mithrel/quill/internal/wire"
)

type ctxKey string

const appKey ctxKey = "app"

// flagKeys maps command flags to the config keys they override.
var flagKeys = map[string]string{
	"http-addr": "http_addr",
	"dialogs":   "dialogs.driver",
	"log-level": "log.level",
	"style":     "preview.style",
	"width":     "preview.width",
}

// Execute builds the root command and runs it until completion or until
// the process is interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}

// NewRootCmd constructs the Cobra root command and wires dependencies.
func NewRootCmd() *cobra.Command {
	var cfgPath string

	cmd := &cobra.Command{
		Use:           "quill",
		Short:         "quill: a minimal markdown editor",
		SilenceUsage:  true, // don't show usage on runtime errors
		SilenceErrors: true, // let main print errors once
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v := viper.New()
			if cfgPath != "" {
				v.SetConfigFile(cfgPath)
			}
			if err := config.Load(cmd.Context(), v); err != nil {
				return err
			}
			applyConfigFlagOverrides(cmd, v, flagKeys)
			if err := config.CheckConfigValidity(v); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}
			// Wire up the app and stash it in context for subcommands.
			app, err := wire.BuildApp(cmd.Context(), v)
			if err != nil {
				return err
			}
			ctx := context.WithValue(cmd.Context(), appKey, app)
			cmd.SetContext(ctx)
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if app, ok := cmd.Context().Value(appKey).(*wire.App); ok {
				return app.Close()
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file (yaml|toml)")

	cmd.AddCommand(newHostCmd())
	cmd.AddCommand(newEditCmd())
	cmd.AddCommand(newOpenCmd())
	cmd.AddCommand(newSaveCmd())
	cmd.AddCommand(newExportCmd())
	cmd.AddCommand(newChangedCmd())
	cmd.AddCommand(newRevealCmd())
	cmd.AddCommand(newLaunchCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newWindowCmd())
	cmd.AddCommand(newRecentCmd())
	cmd.AddCommand(newPreviewCmd())
	cmd.AddCommand(newCompletionCmd())
	cmd.AddCommand(newConfigCmd())

	cmd.Run = func(cmd *cobra.Command, args []string) { _ = cmd.Help() }

	return cmd
}

func getApp(cmd *cobra.Command) *wire.App {
	v := cmd.Context().Value(appKey)
	if v == nil {
		fmt.Fprintln(os.Stderr, "internal error: app not initialized")
		os.Exit(1)
	}
	return v.(*wire.App)
}
