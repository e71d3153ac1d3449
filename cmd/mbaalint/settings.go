package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"mbaalint/internal/config"
)

const configFileName = config.FileName

// loadConfig reads --config or discovers mbaalint.toml from the working
// directory, falling back to defaults.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return config.Config{}, err
	}
	if path != "" {
		return config.Load(path)
	}
	return config.Discover(".")
}

// newLogger builds a stderr logger honoring --log-level and --verbose.
func newLogger(cmd *cobra.Command, prefix string) (*log.Logger, error) {
	flags := cmd.Root().PersistentFlags()
	levelStr, err := flags.GetString("log-level")
	if err != nil {
		return nil, err
	}
	verbose, err := flags.GetBool("verbose")
	if err != nil {
		return nil, err
	}
	if verbose {
		levelStr = "debug"
	}
	level, err := log.ParseLevel(levelStr)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", levelStr, err)
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		Prefix: prefix,
		Level:  level,
	}), nil
}

// useColor resolves --color against the terminal state of stdout.
func useColor(cmd *cobra.Command) (bool, error) {
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, err
	}
	switch colorFlag {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "auto":
		return isTerminal(os.Stdout), nil
	default:
		return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", colorFlag)
	}
}

// maxDiagnostics prefers --max-diagnostics over the config value.
func maxDiagnostics(cmd *cobra.Command, cfg config.Config) (int, error) {
	n, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return n, nil
	}
	return cfg.Check.MaxDiagnostics, nil
}
