package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// applyDefaults seeds Viper with defaults defined in GetConfigOptions.
// This centralizes default values and descriptions in one place.
func applyDefaults(v *viper.Viper) {
	for _, o := range GetConfigOptions() {
		v.SetDefault(o.Key, o.Default)
	}
}

// Load resolves configuration with precedence: defaults < file < env.
// The provided Viper instance is mutated with defaults, file contents, and env.
func Load(ctx context.Context, v *viper.Viper) error {
	// If SetConfigFile was provided upstream it takes precedence;
	// these paths are harmless fallbacks.
	if v.ConfigFileUsed() == "" {
		v.SetConfigName("config")
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			v.AddConfigPath(filepath.Join(xdg, "quill"))
		}
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "quill"))
		}
	}

	applyDefaults(v)

	// Missing config file is fine; defaults and env still apply.
	_ = v.ReadInConfig()

	// Environment variables: QUILL_*
	v.SetEnvPrefix("quill")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if strings.TrimSpace(v.GetString("data_dir")) == "" {
		v.Set("data_dir", defaultDataDir())
	}
	v.Set("data_dir", expandHome(v.GetString("data_dir")))
	ext := strings.TrimPrefix(strings.TrimSpace(v.GetString("document.extension")), ".")
	if ext == "" {
		ext = "md"
	}
	v.Set("document.extension", ext)
	v.Set("export.extension", strings.TrimPrefix(strings.TrimSpace(v.GetString("export.extension")), "."))
	return nil
}

// defaultDataDir resolves $XDG_DATA_HOME/quill or ~/.local/share/quill.
func defaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "quill")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "quill")
}

func expandHome(p string) string {
	if out, err := homedir.Expand(p); err == nil {
		return out
	}
	return p
}

// DefaultConfigPath resolves the standard config.toml location.
func DefaultConfigPath() string {
	xdg := os.Getenv("XDG_CONFIG_HOME")
	if xdg == "" {
		home, _ := os.UserHomeDir()
		xdg = filepath.Join(home, ".config")
	}
	return filepath.Join(xdg, "quill", "config.toml")
}

type ConfigOption struct {
	Key     string
	Default any
	Comment string
}

// GetConfigOptions returns the default configuration options and their meanings.
func GetConfigOptions() []ConfigOption {
	return []ConfigOption{
		{Key: "data_dir", Default: defaultDataDir(), Comment: "Directory for local state; recent documents live in data_dir/quill.db"},
		{Key: "http_addr", Default: "127.0.0.1:7466", Comment: "Listen address for the rendering surface channel (websocket) and health endpoint"},

		{Key: "document.extension", Default: "md", Comment: "Extension offered by the open/save dialogs"},
		{Key: "document.filter_name", Default: "Markdown", Comment: "Filter label shown by the open/save dialogs"},
		{Key: "export.extension", Default: "html", Comment: "Extension offered by the HTML export dialog"},
		{Key: "dialogs.driver", Default: "auto", Comment: "File dialog driver: auto, zenity, kdialog or none"},
		{Key: "recent.max", Default: 20, Comment: "Number of recent documents to remember"},
		{Key: "watch.enabled", Default: true, Comment: "Notify the editor when the open file changes on disk"},

		{Key: "log.level", Default: "info", Comment: "Log level: debug, info, warn, error"},
		{Key: "log.format", Default: "console", Comment: "Log encoding: console or json"},

		{Key: "preview.style", Default: "dark", Comment: "Glamour style used by `quill preview`"},
		{Key: "preview.width", Default: 80, Comment: "Word wrap width for `quill preview`"},
		{Key: "editor.confirm_discard", Default: true, Comment: "Ask before discarding unsaved changes in the terminal editor"},
	}
}

// ResolveDBPath returns the sqlite file holding the recent documents list.
func ResolveDBPath(v *viper.Viper) string {
	dir := v.GetString("data_dir")
	if dir == "" {
		dir = defaultDataDir()
	}
	return filepath.Join(expandHome(dir), "quill.db")
}
