package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/JamesPatrickGill/nova/internal/config"
)

// loadSettings reads nova.toml from --config or by upward discovery and
// applies persistent trace flags on top.
func loadSettings(cmd *cobra.Command) (config.Config, error) {
	root := cmd.Root().PersistentFlags()
	path, err := root.GetString("config")
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to get config flag: %w", err)
	}

	var cfg config.Config
	if path != "" {
		cfg, err = config.Load(path)
	} else {
		wd, wdErr := os.Getwd()
		if wdErr != nil {
			return config.Config{}, wdErr
		}
		cfg, err = config.Discover(wd)
	}
	if err != nil {
		return config.Config{}, err
	}

	overrides := []struct {
		flag string
		dst  *string
	}{
		{"trace", &cfg.Trace.Output},
		{"trace-level", &cfg.Trace.Level},
		{"trace-mode", &cfg.Trace.Mode},
		{"trace-format", &cfg.Trace.Format},
	}
	for _, o := range overrides {
		if !root.Changed(o.flag) {
			continue
		}
		v, err := root.GetString(o.flag)
		if err != nil {
			return config.Config{}, fmt.Errorf("failed to get %s flag: %w", o.flag, err)
		}
		*o.dst = v
	}
	// A trace file without a level would record nothing.
	if root.Changed("trace") && !root.Changed("trace-level") && cfg.Trace.Level == "off" {
		cfg.Trace.Level = "phase"
		if cfg.Trace.Mode == "ring" {
			cfg.Trace.Mode = "stream"
		}
	}
	if root.Changed("trace-ring-size") {
		n, err := root.GetInt("trace-ring-size")
		if err != nil {
			return config.Config{}, fmt.Errorf("failed to get trace-ring-size flag: %w", err)
		}
		cfg.Trace.RingSize = n
	}
	return cfg, cfg.Validate()
}

func applyColorMode(cmd *cobra.Command, _ []string) error {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "auto":
		color.NoColor = !isTerminal(os.Stdout)
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	default:
		return fmt.Errorf("invalid --color value %q (expected auto|on|off)", mode)
	}
	return nil
}

func quiet(cmd *cobra.Command) bool {
	q, err := cmd.Root().PersistentFlags().GetBool("quiet")
	return err == nil && q
}

func timings(cmd *cobra.Command) bool {
	t, err := cmd.Root().PersistentFlags().GetBool("timings")
	return err == nil && t
}
