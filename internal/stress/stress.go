// Package stress drives independent agents through random object graphs,
// collecting at safepoints and checking the heap after every cycle.
package stress

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/JamesPatrickGill/nova/internal/observ"
	"github.com/JamesPatrickGill/nova/internal/snapshot"
	"github.com/JamesPatrickGill/nova/internal/trace"
	"github.com/JamesPatrickGill/nova/internal/vm"
)

// Options configure a run.
type Options struct {
	Agents     int
	Iterations int
	// Jobs limits concurrently running agents; <= 0 means GOMAXPROCS.
	Jobs int
	// Seed makes every run reproducible. Agent i uses the stream (Seed, i).
	Seed   int64
	Verify bool
	// Snapshot captures each agent's heap before teardown.
	Snapshot bool
	// Heap configures every agent. A nil Heap.Tracer falls back to the
	// tracer attached to the run's context.
	Heap     vm.Options
	Progress ProgressSink
	// Counters, when set, is updated as agents progress.
	Counters *Counters
}

// Result is the outcome of one agent.
type Result struct {
	Agent       int
	Iterations  int
	Collections int
	Freed       int
	Thrown      int
	Allocations uint64
	PeakLive    int
	Phases      observ.Report
	Final       vm.HeapStats
	Snapshot    *snapshot.Snapshot
	Elapsed     time.Duration
	Err         error
}

// ErrFailed is returned when at least one agent failed.
var ErrFailed = errors.New("stress run failed")

// Run executes every agent and returns their results in agent order. An
// agent failure does not stop the others; the returned error wraps ErrFailed
// and the first failure.
func Run(ctx context.Context, opts Options) ([]Result, error) {
	if opts.Agents <= 0 {
		return nil, fmt.Errorf("agents must be positive, got %d", opts.Agents)
	}
	if opts.Iterations < 0 {
		return nil, fmt.Errorf("iterations must not be negative, got %d", opts.Iterations)
	}
	sink := opts.Progress
	if sink == nil {
		sink = nopSink{}
	}
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	if opts.Heap.Tracer == nil {
		opts.Heap.Tracer = trace.FromContext(ctx)
	}

	for i := range opts.Agents {
		sink.OnEvent(Event{Agent: i, Stage: StageSetup, Status: StatusQueued})
	}

	// Each goroutine writes only its own slot.
	results := make([]Result, opts.Agents)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, opts.Agents))

	for i := range opts.Agents {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				results[i] = Result{Agent: i, Err: gctx.Err()}
				return gctx.Err()
			default:
			}
			results[i] = runAgent(gctx, i, opts, sink)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}

	for _, r := range results {
		if r.Err != nil {
			return results, fmt.Errorf("%w: agent %d: %w", ErrFailed, r.Agent, r.Err)
		}
	}
	return results, nil
}

func runAgent(ctx context.Context, id int, opts Options, sink ProgressSink) Result {
	start := time.Now()
	res := Result{Agent: id}
	sink.OnEvent(Event{Agent: id, Stage: StageSetup, Status: StatusWorking})

	var w *worker
	err := vm.Guard(func() {
		w = newWorker(id, opts, sink)
		res.Err = w.run(ctx)
	})
	if err != nil {
		res.Err = err
	}
	if w != nil {
		res.Iterations = w.iterations
		res.Collections = w.collections
		res.Freed = w.freed
		res.Thrown = w.thrown
		res.PeakLive = w.peakLive
		res.Phases = w.phases
		res.Snapshot = w.snapshot
		res.Final = w.a.HeapStats()
		res.Allocations = res.Final.Allocations
	}
	res.Elapsed = time.Since(start)
	opts.Counters.finish()

	status := StatusDone
	if res.Err != nil {
		status = StatusError
	}
	sink.OnEvent(Event{
		Agent:     id,
		Stage:     StageTeardown,
		Status:    status,
		Iteration: res.Iterations,
		Err:       res.Err,
		Elapsed:   res.Elapsed,
	})
	return res
}
