package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JamesPatrickGill/nova/internal/config"
	"github.com/JamesPatrickGill/nova/internal/trace"
	"github.com/JamesPatrickGill/nova/internal/vm"
)

// setupTracing creates the tracer described by cfg and the heartbeat flag.
// probe, if set, is attached to every heartbeat. It returns the tracer and a
// cleanup function that flushes and closes it.
func setupTracing(cmd *cobra.Command, cfg config.Config, probe trace.Probe) (trace.Tracer, func(), error) {
	heartbeatInterval, err := cmd.Root().PersistentFlags().GetDuration("trace-heartbeat")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get trace-heartbeat flag: %w", err)
	}

	tcfg, err := cfg.Tracing()
	if err != nil {
		return nil, nil, fmt.Errorf("invalid trace settings: %w", err)
	}
	tcfg.Heartbeat = heartbeatInterval

	if tcfg.Level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return trace.Nop, func() {}, nil
	}

	tracer, err := trace.New(tcfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	cmd.SetContext(trace.WithTracer(cmd.Context(), tracer))

	var heartbeat *trace.Heartbeat
	if heartbeatInterval > 0 {
		heartbeat = trace.StartHeartbeat(tracer, heartbeatInterval, probe)
	}

	cleanup := func() {
		if heartbeat != nil {
			heartbeat.Stop()
		}
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}
	return tracer, cleanup, nil
}

// dumpRingOnFatal writes the recent trace events to stderr when err is an
// engine defect and the tracer keeps a ring buffer.
func dumpRingOnFatal(cmd *cobra.Command, tracer trace.Tracer, err error) {
	if err == nil || !vm.IsFatal(err) {
		return
	}
	ring, ok := trace.RingOf(tracer)
	if !ok {
		return
	}
	out := cmd.ErrOrStderr()
	fmt.Fprintln(out, "trace: last events before the failure:")
	if n := ring.Dropped(); n > 0 {
		fmt.Fprintf(out, "trace: %d earlier events dropped\n", n)
	}
	if dumpErr := ring.Dump(out, trace.FormatText); dumpErr != nil {
		fmt.Fprintf(out, "trace: dump error: %v\n", dumpErr)
	}
}
