package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/1broseidon/floatdesk/internal/config"
)

var version = "0.1.0"

// settings overlays flags and FLOATDESK_* variables on the config file.
var settings = viper.New()

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "floatdesk",
		Version: version,
		Short:   "Floating window manager for the browser",
		Long: `floatdesk runs a floating desktop of media viewers in a browser page:
- draggable, resizable windows with edge and zone snapping
- named tiling layouts with fallbacks and linked split panes
- auto-snap suggestions for related files
- saved arrangements

Run 'floatdesk serve' and open the listen address in a browser.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("config", "", "config file (default $XDG_CONFIG_HOME/floatdesk/config.yaml)")
	root.PersistentFlags().String("log-level", "", "log level: debug, info, warning, error")
	_ = settings.BindPFlag("config", root.PersistentFlags().Lookup("config"))
	_ = settings.BindPFlag("log_level", root.PersistentFlags().Lookup("log-level"))

	settings.SetEnvPrefix("FLOATDESK")
	settings.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	settings.AutomaticEnv()

	root.AddCommand(
		newServeCmd(),
		newStatusCmd(),
		newWindowCmd(),
		newLayoutCmd(),
		newArrangementCmd(),
		newConfigCmd(),
		newMCPCmd(),
	)
	return root
}

// configPath is the file named by --config or FLOATDESK_CONFIG, or the
// default location.
func configPath() (string, error) {
	if p := settings.GetString("config"); p != "" {
		return p, nil
	}
	return config.DefaultConfigPath()
}

// loadConfig loads the config file and applies flag and environment
// overrides.
func loadConfig() (*config.LoadResult, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}
	res, err := config.LoadFromPath(path)
	if err != nil {
		return nil, err
	}
	if err := applyOverrides(res.Config, settings); err != nil {
		return nil, err
	}
	return res, nil
}

func applyOverrides(cfg *config.Config, v *viper.Viper) error {
	changed := false
	if v.IsSet("listen") && v.GetString("listen") != "" {
		cfg.Listen = v.GetString("listen")
		changed = true
	}
	if v.IsSet("log_level") && v.GetString("log_level") != "" {
		cfg.LogLevel = v.GetString("log_level")
		changed = true
	}
	if !changed {
		return nil
	}
	return cfg.Validate()
}

func newLogger(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: parseLogLevel(level)}))
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warning", "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
