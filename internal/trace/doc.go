// Package trace provides the tracing subsystem for nova agents.
//
// Agents report allocation, collection cycles and collector phases through a
// Tracer so that long stress runs and unexpected faults can be diagnosed after
// the fact.
//
// # Usage
//
// Enable tracing via command-line flags:
//
//	nova stress --trace=- --trace-level=phase
//
// or in nova.toml:
//
//	[trace]
//	level = "detail"
//	mode = "ring"
//
// # Architecture
//
//   - Nop: zero-overhead tracer when disabled
//   - StreamTracer: immediate write to output (file/stderr)
//   - RingTracer: circular buffer dumped when an agent faults
//   - MultiTracer: combines multiple tracers
//   - ForAgent: labels events with the agent that emitted them, so parallel
//     stress agents can share one tracer
//
// # Levels
//
//   - LevelOff: no tracing
//   - LevelError: only the crash dump
//   - LevelPhase: agent, collection and phase boundaries
//   - LevelDetail: per-kind sweep results
//   - LevelDebug: everything including single allocations
//
// # Context Propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopeCollect, "collect", parentID)
//	defer span.End("")
package trace
