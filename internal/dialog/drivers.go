package dialog

import (
	"context"
	"os"
	"strings"
)

// Zenity drives GTK pickers through the zenity program.
type Zenity struct {
	run    Runner
	exists func(string) bool
}

func (z *Zenity) OpenFile(ctx context.Context, opts Options) (string, bool, error) {
	out, code, err := z.run(ctx, "zenity", zenityArgs(opts, false)...)
	return pickResult("zenity", out, code, err)
}

func (z *Zenity) SaveFile(ctx context.Context, opts Options) (string, bool, error) {
	return savePath(ctx, "zenity", z.run, z.exists, opts, func(o Options) []string { return zenityArgs(o, true) })
}

func zenityArgs(opts Options, save bool) []string {
	args := []string{"--file-selection"}
	if save {
		args = append(args, "--save", "--confirm-overwrite")
	}
	if opts.Title != "" {
		args = append(args, "--title="+opts.Title)
	}
	if opts.Suggested != "" {
		args = append(args, "--filename="+opts.Suggested)
	}
	for _, f := range opts.Filters {
		args = append(args, "--file-filter="+f.Name+" | "+f.Pattern())
	}
	return args
}

// KDialog drives Qt pickers through the kdialog program.
type KDialog struct {
	run    Runner
	exists func(string) bool
}

func (k *KDialog) OpenFile(ctx context.Context, opts Options) (string, bool, error) {
	out, code, err := k.run(ctx, "kdialog", kdialogArgs("--getopenfilename", opts)...)
	return pickResult("kdialog", out, code, err)
}

func (k *KDialog) SaveFile(ctx context.Context, opts Options) (string, bool, error) {
	return savePath(ctx, "kdialog", k.run, k.exists, opts, func(o Options) []string {
		return kdialogArgs("--getsavefilename", o)
	})
}

func kdialogArgs(mode string, opts Options) []string {
	start := opts.Suggested
	if start == "" {
		start = "."
	}
	args := []string{mode, start}
	if len(opts.Filters) > 0 {
		var parts []string
		for _, f := range opts.Filters {
			parts = append(parts, f.Name+" ("+f.Pattern()+")")
		}
		args = append(args, strings.Join(parts, "\n"))
	}
	if opts.Title != "" {
		args = append(args, "--title", opts.Title)
	}
	return args
}

// savePath runs a save picker and adds the filter extension to the answer.
// The picker only confirmed overwriting the name the user typed, so when
// the extended name is an existing file the picker is shown again on it.
func savePath(ctx context.Context, prog string, run Runner, exists func(string) bool, opts Options, args func(Options) []string) (string, bool, error) {
	if exists == nil {
		exists = fileExists
	}
	for {
		out, code, err := run(ctx, prog, args(opts)...)
		path, ok, err := pickResult(prog, out, code, err)
		if err != nil || !ok {
			return "", false, err
		}
		full := EnsureExtension(path, opts.Filters)
		if full == path || !exists(full) {
			return full, true, nil
		}
		opts.Suggested = full
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
