package config

import (
	"fmt"
	"net"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"
)

var dialogDrivers = map[string]bool{"auto": true, "zenity": true, "kdialog": true, "none": true}

// CheckConfigValidity reports every problem found in v as one combined error.
func CheckConfigValidity(v *viper.Viper) error {
	var err error
	if strings.TrimSpace(v.GetString("data_dir")) == "" {
		err = multierr.Append(err, fmt.Errorf("data_dir is required"))
	}
	if addr := strings.TrimSpace(v.GetString("http_addr")); addr == "" {
		err = multierr.Append(err, fmt.Errorf("http_addr is required"))
	} else if _, _, splitErr := net.SplitHostPort(addr); splitErr != nil {
		err = multierr.Append(err, fmt.Errorf("http_addr %q is not host:port", addr))
	}
	if strings.TrimSpace(v.GetString("document.extension")) == "" {
		err = multierr.Append(err, fmt.Errorf("document.extension is required"))
	}
	if strings.TrimSpace(v.GetString("export.extension")) == "" {
		err = multierr.Append(err, fmt.Errorf("export.extension is required"))
	}
	if d := v.GetString("dialogs.driver"); !dialogDrivers[d] {
		err = multierr.Append(err, fmt.Errorf("dialogs.driver %q is not one of auto, zenity, kdialog, none", d))
	}
	if v.GetInt("recent.max") <= 0 {
		err = multierr.Append(err, fmt.Errorf("recent.max must be greater than 0"))
	}
	if _, lvlErr := zapcore.ParseLevel(v.GetString("log.level")); lvlErr != nil {
		err = multierr.Append(err, fmt.Errorf("log.level %q is invalid", v.GetString("log.level")))
	}
	switch v.GetString("log.format") {
	case "console", "json":
	default:
		err = multierr.Append(err, fmt.Errorf("log.format must be console or json"))
	}
	if v.GetInt("preview.width") <= 0 {
		err = multierr.Append(err, fmt.Errorf("preview.width must be greater than 0"))
	}
	return err
}
