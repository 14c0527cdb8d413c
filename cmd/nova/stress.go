package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JamesPatrickGill/nova/internal/config"
	"github.com/JamesPatrickGill/nova/internal/observ"
	"github.com/JamesPatrickGill/nova/internal/prof"
	"github.com/JamesPatrickGill/nova/internal/snapshot"
	"github.com/JamesPatrickGill/nova/internal/stress"
)

var stressCmd = &cobra.Command{
	Use:   "stress",
	Short: "Run random object graphs through the collector and verify the heap",
	Long: `stress runs independent agents in parallel. Each agent builds and mutates a
random object graph through the object protocol, collects at safepoints and,
with --verify, checks reachability and handle identity after every cycle.`,
	Args: cobra.NoArgs,
	RunE: runStress,
}

func init() {
	f := stressCmd.Flags()
	f.Int("agents", 0, "number of agents (default from nova.toml)")
	f.Int("iterations", 0, "mutations per agent")
	f.Int("jobs", 0, "agents running at once (0 = GOMAXPROCS)")
	f.Int64("seed", 0, "random seed")
	f.Bool("verify", true, "check heap invariants after every collection")
	f.Int("gc-threshold", 0, "allocations between safepoint collections")
	f.Int("initial-capacity", 0, "initial arena capacity per kind")
	f.String("snapshot", "", "write one heap snapshot per agent into this directory")
	f.String("ui", "auto", "show live progress (auto|on|off)")
	f.String("format", "pretty", "report format (pretty|json)")
	f.String("cpuprofile", "", "write a CPU profile")
	f.String("memprofile", "", "write a heap profile at exit")
	f.String("exectrace", "", "write a Go execution trace")
}

func runStress(cmd *cobra.Command, _ []string) (err error) {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if err := applyStressFlags(cmd, &cfg); err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	format = strings.ToLower(format)
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
	uiValue, _ := cmd.Flags().GetString("ui")
	mode, err := readUIMode(uiValue)
	if err != nil {
		return err
	}
	snapDir, _ := cmd.Flags().GetString("snapshot")

	counters := &stress.Counters{}
	tracer, cleanupTrace, err := setupTracing(cmd, cfg, counters.Probe)
	if err != nil {
		return err
	}
	defer cleanupTrace()
	defer func() { dumpRingOnFatal(cmd, tracer, err) }()

	var profOpts prof.Options
	profOpts.CPU, _ = cmd.Flags().GetString("cpuprofile")
	profOpts.Mem, _ = cmd.Flags().GetString("memprofile")
	profOpts.ExecTrace, _ = cmd.Flags().GetString("exectrace")
	session, err := prof.Start(profOpts)
	if err != nil {
		return fmt.Errorf("failed to start profiling: %w", err)
	}
	defer func() {
		if stopErr := session.Stop(); stopErr != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "profile: %v\n", stopErr)
		}
	}()

	opts := stress.Options{
		Agents:     cfg.Stress.Agents,
		Iterations: cfg.Stress.Iterations,
		Jobs:       cfg.Stress.Jobs,
		Seed:       cfg.Stress.Seed,
		Verify:     cfg.Stress.Verify,
		Snapshot:   snapDir != "",
		Heap:       cfg.AgentOptions(tracer),
		Counters:   counters,
	}

	timer := observ.NewTimer()
	idx := timer.Begin("stress")
	var results []stress.Result
	var runErr error
	if useProgressUI(mode, quiet(cmd), format) {
		title := fmt.Sprintf("stress: %d agents x %d iterations (seed %d)", opts.Agents, opts.Iterations, opts.Seed)
		results, runErr = runStressWithUI(cmd.Context(), title, opts)
	} else {
		results, runErr = stress.Run(cmd.Context(), opts)
	}
	timer.End(idx, fmt.Sprintf("%d agents", len(results)))

	if snapDir != "" {
		idx = timer.Begin("snapshot")
		n, snapErr := writeSnapshots(snapDir, results)
		timer.End(idx, fmt.Sprintf("%d files", n))
		if snapErr != nil && runErr == nil {
			runErr = snapErr
		}
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		if err := renderStressJSON(out, opts, results); err != nil {
			return err
		}
	} else if !quiet(cmd) || runErr != nil {
		renderStressPretty(out, opts, results)
	}
	if timings(cmd) {
		fmt.Fprint(cmd.ErrOrStderr(), timer.Summary())
		fmt.Fprint(cmd.ErrOrStderr(), "collector "+collectionPhases(results).Summary())
	}
	return runErr
}

func applyStressFlags(cmd *cobra.Command, cfg *config.Config) error {
	f := cmd.Flags()
	ints := []struct {
		flag string
		dst  *int
	}{
		{"agents", &cfg.Stress.Agents},
		{"iterations", &cfg.Stress.Iterations},
		{"jobs", &cfg.Stress.Jobs},
		{"gc-threshold", &cfg.Heap.GCThreshold},
		{"initial-capacity", &cfg.Heap.InitialCapacity},
	}
	for _, o := range ints {
		if !f.Changed(o.flag) {
			continue
		}
		v, err := f.GetInt(o.flag)
		if err != nil {
			return fmt.Errorf("failed to get %s flag: %w", o.flag, err)
		}
		*o.dst = v
	}
	if f.Changed("seed") {
		v, err := f.GetInt64("seed")
		if err != nil {
			return fmt.Errorf("failed to get seed flag: %w", err)
		}
		cfg.Stress.Seed = v
	}
	if f.Changed("verify") {
		v, err := f.GetBool("verify")
		if err != nil {
			return fmt.Errorf("failed to get verify flag: %w", err)
		}
		cfg.Stress.Verify = v
	}
	return cfg.Validate()
}

func writeSnapshots(dir string, results []stress.Result) (int, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, err
	}
	written := 0
	for _, r := range results {
		if r.Snapshot == nil {
			continue
		}
		path := filepath.Join(dir, fmt.Sprintf("agent-%d.snap", r.Agent))
		if err := snapshot.Write(path, r.Snapshot); err != nil {
			return written, fmt.Errorf("snapshot %s: %w", path, err)
		}
		written++
	}
	return written, nil
}
