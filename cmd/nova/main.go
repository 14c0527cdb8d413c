package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/JamesPatrickGill/nova/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "nova",
	Short: "nova heap core tooling",
	Long: `nova drives the heap core of the engine: it stress-tests the collector
with random object graphs and inspects heap snapshots.`,
	SilenceUsage:      true,
	PersistentPreRunE: applyColorMode,
}

func init() {
	rootCmd.Version = version.Current().Version

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(stressCmd)
	rootCmd.AddCommand(inspectCmd)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "path to nova.toml (default: discovered upward from the working directory)")
	flags.String("color", "auto", "colorize output (auto|on|off)")
	flags.Bool("quiet", false, "suppress non-essential output")
	flags.Bool("timings", false, "show timing information")
	flags.String("trace", "", "trace output file (\"-\" for stderr)")
	flags.String("trace-level", "", "trace level (off|error|phase|detail|debug)")
	flags.String("trace-mode", "", "trace storage (stream|ring|both)")
	flags.String("trace-format", "", "trace format (auto|text|ndjson)")
	flags.Int("trace-ring-size", 0, "ring buffer capacity in events")
	flags.Duration("trace-heartbeat", 0, "emit a heartbeat event at this interval (0 disables)")
}

// main executes the root command. Any command error exits with status 1.
func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
