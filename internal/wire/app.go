package wire

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mithrel/quill/internal/config"
	"github.com/mithrel/quill/internal/coordinator"
	"github.com/mithrel/quill/internal/dialog"
	"github.com/mithrel/quill/internal/recent"
	"github.com/mithrel/quill/internal/shell"
	"github.com/mithrel/quill/internal/window"
)

// App aggregates the major services for easy injection.
type App struct {
	Cfg     *viper.Viper
	Log     *zap.Logger
	Fs      afero.Fs
	Dialogs dialog.Dialogs
	Shell   shell.Shell
	Recents recent.Store
	Windows *window.Registry
}

// BuildApp wires dependencies with the provided config.
func BuildApp(ctx context.Context, v *viper.Viper) (*App, error) {
	logger, err := NewLogger(v.GetString("log.level"), v.GetString("log.format"))
	if err != nil {
		return nil, err
	}
	dialogs, err := dialog.New(v.GetString("dialogs.driver"), dialog.ExecRunner)
	if err != nil {
		return nil, err
	}
	recents, err := recent.Open(ctx, "sqlite://"+config.ResolveDBPath(v), v.GetInt("recent.max"))
	if err != nil {
		return nil, fmt.Errorf("open recent documents: %w", err)
	}
	fs := afero.NewOsFs()
	sh := shell.New()
	windows := window.NewRegistry(window.Config{
		Dialogs: dialogs,
		Fs:      fs,
		Shell:   sh,
		Recents: recents,
		Options: Options(v),
		Watch:   v.GetBool("watch.enabled"),
		Log:     logger,
	})
	return &App{
		Cfg:     v,
		Log:     logger,
		Fs:      fs,
		Dialogs: dialogs,
		Shell:   sh,
		Recents: recents,
		Windows: windows,
	}, nil
}

// Options builds the dialog filters from the document and export settings.
func Options(v *viper.Viper) coordinator.Options {
	opts := coordinator.DefaultOptions()
	if ext := v.GetString("document.extension"); ext != "" {
		opts.DocumentFilter.Extensions = []string{ext}
	}
	if name := v.GetString("document.filter_name"); name != "" {
		opts.DocumentFilter.Name = name
	}
	if ext := v.GetString("export.extension"); ext != "" {
		opts.ExportFilter.Extensions = []string{ext}
	}
	return opts
}

// NewLogger builds a zap logger writing to stderr.
func NewLogger(level, format string) (*zap.Logger, error) {
	lvl := zapcore.InfoLevel
	if level != "" {
		l, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, err
		}
		lvl = l
	}
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	var enc zapcore.Encoder
	switch format {
	case "json":
		enc = zapcore.NewJSONEncoder(encCfg)
	case "", "console":
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
	core := zapcore.NewCore(enc, zapcore.Lock(os.Stderr), lvl)
	return zap.New(core).Named("quill"), nil
}

// Close releases the app's resources.
func (a *App) Close() error {
	a.Windows.CloseAll()
	err := a.Recents.Close()
	return multierr.Append(err, ignoreSyncErr(a.Log.Sync()))
}

// ignoreSyncErr drops the error zap reports when stderr is a terminal.
func ignoreSyncErr(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(*os.PathError); ok {
		return nil
	}
	return err
}
