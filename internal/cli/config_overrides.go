package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// applyConfigFlagOverrides binds every flag the user set explicitly to the
// config key it overrides. Unset flags leave file and env values alone.
func applyConfigFlagOverrides(cmd *cobra.Command, v *viper.Viper, keys map[string]string) {
	for name, key := range keys {
		f := cmd.Flags().Lookup(name)
		if f == nil || !f.Changed {
			continue
		}
		_ = v.BindPFlag(key, f)
	}
}
