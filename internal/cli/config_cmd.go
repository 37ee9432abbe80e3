package cli

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mithrel/quill/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "config",
		Short:             "Manage configuration",
		PersistentPreRunE: skipApp,
	}
	cmd.AddCommand(newConfigGenerateCmd())
	cmd.AddCommand(newConfigCheckCmd())
	return cmd
}

func newConfigGenerateCmd() *cobra.Command {
	var out string
	var overwrite, update bool
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a default config.toml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if overwrite && update {
				return errors.New("choose either --overwrite or --update")
			}
			if out == "" {
				out = config.DefaultConfigPath()
			}
			mode := writeNew
			switch {
			case overwrite:
				mode = writeOverwrite
			case update:
				mode = writeUpdate
			}
			return writeConfigFile(afero.NewOsFs(), cmd.OutOrStdout(), out, mode)
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "output path for config.toml")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "replace an existing config (keeps a backup)")
	cmd.Flags().BoolVar(&update, "update", false, "add missing options to an existing config (keeps a backup)")
	return cmd
}

func newConfigCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [file]",
		Short: "Validate a config file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.DefaultConfigPath()
			if len(args) == 1 {
				path = args[0]
			}
			if ok, _ := afero.Exists(afero.NewOsFs(), path); !ok {
				return fmt.Errorf("no config at %s", path)
			}
			v := viper.New()
			v.SetConfigFile(path)
			if err := config.Load(cmd.Context(), v); err != nil {
				return err
			}
			if err := config.CheckConfigValidity(v); err != nil {
				return err
			}
			printf(cmd, "Config OK: %s\n", path)
			return nil
		},
	}
}

type writeMode int

const (
	writeNew writeMode = iota
	writeOverwrite
	writeUpdate
)

// writeConfigFile renders the default config to path. An existing file is
// only touched in overwrite or update mode, and is backed up first.
func writeConfigFile(fs afero.Fs, w io.Writer, path string, mode writeMode) error {
	if err := fs.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	exists, err := afero.Exists(fs, path)
	if err != nil {
		return err
	}
	content := config.RenderDefaultTOML()
	switch {
	case exists && mode == writeNew:
		return fmt.Errorf("config already exists at %s; use --overwrite to replace it or --update to add missing options", path)
	case exists && mode == writeUpdate:
		data, err := afero.ReadFile(fs, path)
		if err != nil {
			return err
		}
		updated, changed := config.UpdateTOML(string(data))
		if !changed {
			_, _ = fmt.Fprintf(w, "Config already up to date: %s\n", path)
			return nil
		}
		content = updated
	}

	backup := ""
	if exists {
		if backup, err = backupConfig(fs, path); err != nil {
			return err
		}
	}
	if err := afero.WriteFile(fs, path, []byte(content), 0o600); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "Wrote %s\n", path)
	if backup != "" {
		_, _ = fmt.Fprintf(w, "Backup: %s\n", backup)
	}
	return nil
}

// backupConfig copies path to path.bak, or to a timestamped name when a
// backup already exists.
func backupConfig(fs afero.Fs, path string) (string, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return "", err
	}
	backup := path + ".bak"
	if ok, _ := afero.Exists(fs, backup); ok {
		backup = fmt.Sprintf("%s.bak-%s", path, time.Now().Format("20060102-150405"))
	}
	return backup, afero.WriteFile(fs, backup, data, 0o600)
}
