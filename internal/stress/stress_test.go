package stress

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/JamesPatrickGill/nova/internal/trace"
	"github.com/JamesPatrickGill/nova/internal/vm"
)

func testOptions() Options {
	return Options{
		Agents:     3,
		Iterations: 1500,
		Jobs:       2,
		Seed:       7,
		Verify:     true,
		Heap:       vm.Options{InitialCapacity: 16, GCThreshold: 128},
	}
}

func TestRunVerifiesEveryCycle(t *testing.T) {
	results, err := Run(context.Background(), testOptions())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for _, r := range results {
		if r.Err != nil {
			t.Fatalf("agent %d: %v", r.Agent, r.Err)
		}
		if r.Iterations != 1500 {
			t.Fatalf("agent %d: expected 1500 iterations, got %d", r.Agent, r.Iterations)
		}
		// threshold collections, the final one and the teardown one
		if r.Collections < 3 {
			t.Fatalf("agent %d: expected several collections, got %d", r.Agent, r.Collections)
		}
		if r.Freed == 0 {
			t.Fatalf("agent %d: expected garbage to be freed", r.Agent)
		}
		if r.Final.Pins != 0 {
			t.Fatalf("agent %d: expected no pins after teardown, got %d", r.Agent, r.Final.Pins)
		}
	}
}

func TestRunIsDeterministic(t *testing.T) {
	opts := testOptions()
	opts.Agents = 2
	first, err := Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	for i := range first {
		a, b := first[i], second[i]
		if a.Allocations != b.Allocations || a.Freed != b.Freed || a.Thrown != b.Thrown || a.PeakLive != b.PeakLive {
			t.Fatalf("agent %d differs: %+v vs %+v", i, a, b)
		}
	}
	if first[0].Allocations == first[1].Allocations && first[0].Freed == first[1].Freed {
		t.Fatalf("expected agents to draw from different streams")
	}
}

func TestRunEmitsProgress(t *testing.T) {
	opts := testOptions()
	opts.Agents = 1
	opts.Iterations = 400
	events := make(chan Event, 1024)
	opts.Progress = ChannelSink{Ch: events}

	if _, err := Run(context.Background(), opts); err != nil {
		t.Fatalf("run: %v", err)
	}
	close(events)

	var queued, collects, done int
	for ev := range events {
		switch {
		case ev.Status == StatusQueued:
			queued++
		case ev.Stage == StageCollect:
			collects++
			if ev.Cycle == 0 {
				t.Fatalf("collect event without a cycle number: %+v", ev)
			}
		case ev.Stage == StageTeardown && ev.Status == StatusDone:
			done++
		}
	}
	if queued != 1 || done != 1 || collects == 0 {
		t.Fatalf("unexpected events: queued=%d collects=%d done=%d", queued, collects, done)
	}
}

func TestRunSnapshot(t *testing.T) {
	opts := testOptions()
	opts.Agents = 1
	opts.Snapshot = true
	results, err := Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	snap := results[0].Snapshot
	if snap == nil {
		t.Fatalf("expected a snapshot")
	}
	if sum := snap.Summarize(); sum.Unreachable != 0 {
		t.Fatalf("expected a freshly collected heap, got %d unreachable nodes", sum.Unreachable)
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, testOptions())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRunRejectsBadOptions(t *testing.T) {
	if _, err := Run(context.Background(), Options{}); err == nil {
		t.Fatalf("expected error for zero agents")
	}
	if _, err := Run(context.Background(), Options{Agents: 1, Iterations: -1}); err == nil {
		t.Fatalf("expected error for negative iterations")
	}
}

func TestWorkerSurvivesWithoutThreshold(t *testing.T) {
	opts := testOptions()
	opts.Heap.GCThreshold = 0
	w := newWorker(0, opts, nopSink{})
	if err := w.run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	// only the final and teardown collections
	if w.collections != 2 {
		t.Fatalf("expected 2 collections, got %d", w.collections)
	}
}

func TestRunUpdatesCounters(t *testing.T) {
	opts := testOptions()
	counters := &Counters{}
	opts.Counters = counters
	results, err := Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	collections := 0
	for _, r := range results {
		collections += r.Collections
	}
	probe := counters.Probe()
	if probe["iterations"] != "4500" || probe["finished"] != "3" {
		t.Fatalf("unexpected counters: %v", probe)
	}
	if probe["collections"] != strconv.Itoa(collections) {
		t.Fatalf("expected %d collections, got %s", collections, probe["collections"])
	}
}

func TestRunLabelsTraceByAgent(t *testing.T) {
	ring := trace.NewRingTracer(1<<14, trace.LevelPhase)
	opts := testOptions()
	opts.Agents = 2
	opts.Iterations = 300
	opts.Heap.Tracer = ring
	if _, err := Run(context.Background(), opts); err != nil {
		t.Fatalf("run: %v", err)
	}

	seen := map[string]bool{}
	for _, ev := range ring.Snapshot() {
		if ev.Name == "collect" && ev.Kind == trace.KindSpanEnd {
			seen[ev.Source] = true
		}
	}
	if !seen["agent 0"] || !seen["agent 1"] || len(seen) != 2 {
		t.Fatalf("expected collections labeled by agent, got %v", seen)
	}
}
