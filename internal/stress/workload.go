package stress

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/JamesPatrickGill/nova/internal/observ"
	"github.com/JamesPatrickGill/nova/internal/snapshot"
	"github.com/JamesPatrickGill/nova/internal/testkit"
	"github.com/JamesPatrickGill/nova/internal/trace"
	"github.com/JamesPatrickGill/nova/internal/vm"
)

const (
	maxStack = 64
	maxPins  = 8
	propKeys = 6
)

var (
	tagKey    = vm.StringKey("tag")
	argKey    = vm.StringKey("arg")
	lengthKey = vm.StringKey("length")
)

// worker owns one agent. Every value it keeps across a safepoint lives in
// stack or in a pin; Go locals never outlive a step.
type worker struct {
	id     int
	a      *vm.Agent
	gc     vm.GcScope
	rng    *rand.Rand
	sink   ProgressSink
	counts *Counters
	verify bool
	want   int
	snap   bool

	stack    vm.ValueStack
	pins     []vm.PinID
	serial   int
	baseline int
	reported int

	iterations  int
	collections int
	freed       int
	thrown      int
	peakLive    int
	phases      observ.Report
	snapshot    *snapshot.Snapshot
}

func newWorker(id int, opts Options, sink ProgressSink) *worker {
	heapOpts := opts.Heap
	heapOpts.Tracer = trace.ForAgent(opts.Heap.Tracer, fmt.Sprintf("agent %d", id))
	a := vm.NewAgent(heapOpts)
	return &worker{
		id:       id,
		a:        a,
		gc:       a.GcScope(),
		rng:      rand.New(rand.NewPCG(uint64(opts.Seed), uint64(id))),
		sink:     sink,
		counts:   opts.Counters,
		verify:   opts.Verify,
		want:     opts.Iterations,
		snap:     opts.Snapshot,
		baseline: a.HeapStats().Live(),
	}
}

func (w *worker) run(ctx context.Context) error {
	end := w.a.BeginSpan(fmt.Sprintf("agent %d", w.id))
	defer func() {
		end(fmt.Sprintf("iterations=%d collections=%d", w.iterations, w.collections))
	}()
	w.sink.OnEvent(Event{Agent: w.id, Stage: StageMutate, Status: StatusWorking})

	for w.iterations < w.want {
		if w.iterations%256 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if exc := w.step(); exc != nil {
			w.thrown++
		}
		w.iterations++
		if err := w.safepoint(); err != nil {
			return err
		}
	}

	if err := w.collect(); err != nil {
		return err
	}
	w.counts.addIterations(w.iterations - w.reported)
	w.reported = w.iterations
	if w.snap {
		w.snapshot = snapshot.Capture(w.a, fmt.Sprintf("agent-%d", w.id), &w.stack)
	}
	return w.teardown()
}

func (w *worker) safepoint() error {
	if !w.gc.Due() {
		return nil
	}
	before := w.fingerprints()
	stats, ran := w.gc.Safepoint(&w.stack)
	if !ran {
		return nil
	}
	return w.afterCollect(stats, before)
}

func (w *worker) collect() error {
	before := w.fingerprints()
	return w.afterCollect(w.gc.Collect(&w.stack), before)
}

func (w *worker) afterCollect(stats vm.CollectStats, before []fingerprint) error {
	w.collections++
	w.freed += stats.Freed
	w.counts.addCycle(w.iterations-w.reported, stats.Freed)
	w.reported = w.iterations
	w.phases.Accumulate(stats.Phases)
	w.peakLive = max(w.peakLive, stats.Live()+stats.Freed)
	w.sink.OnEvent(Event{
		Agent:     w.id,
		Stage:     StageCollect,
		Status:    StatusWorking,
		Iteration: w.iterations,
		Cycle:     stats.Cycle,
		Live:      stats.Live(),
		Freed:     stats.Freed,
		Elapsed:   stats.Duration,
	})
	if !w.verify {
		return nil
	}
	if err := testkit.CheckReachability(w.a, &w.stack); err != nil {
		return fmt.Errorf("cycle %d: %w", stats.Cycle, err)
	}
	after := w.fingerprints()
	if len(after) != len(before) {
		return fmt.Errorf("cycle %d: %d roots before collection, %d after", stats.Cycle, len(before), len(after))
	}
	for i := range before {
		if before[i] != after[i] {
			return fmt.Errorf("cycle %d: root %d changed identity: %s became %s", stats.Cycle, i, before[i], after[i])
		}
	}
	return nil
}

// teardown drops every root and checks that collection returns the heap to
// the intrinsics and the global object.
func (w *worker) teardown() error {
	for _, id := range w.pins {
		w.a.Unpin(id)
	}
	w.pins = nil
	w.stack.Values = nil

	global := w.a.Global().Object()
	keys, exc := global.OwnPropertyKeys(w.a, w.gc)
	if exc != nil {
		return exc
	}
	for _, k := range keys {
		if exc := vm.DeletePropertyOrThrow(w.a, w.gc, global, k); exc != nil {
			return exc
		}
	}

	if err := w.collect(); err != nil {
		return err
	}
	if !w.verify {
		return nil
	}
	if live := w.a.HeapStats().Live(); live != w.baseline {
		return fmt.Errorf("teardown left %d payloads, expected %d", live, w.baseline)
	}
	return nil
}

// fingerprint identifies a value by its creation tag, which survives
// renumbering.
type fingerprint struct {
	kind vm.ValueKind
	tag  string
}

func (f fingerprint) String() string { return f.kind.String() + ":" + f.tag }

func (w *worker) fingerprints() []fingerprint {
	if !w.verify {
		return nil
	}
	out := make([]fingerprint, 0, len(w.stack.Values)+len(w.pins))
	for _, v := range w.stack.Values {
		out = append(out, w.fingerprint(v))
	}
	for _, id := range w.pins {
		out = append(out, w.fingerprint(w.a.Pinned(id)))
	}
	return out
}

func (w *worker) fingerprint(v vm.Value) fingerprint {
	fp := fingerprint{kind: v.Kind}
	if s, ok := v.AsSymbol(); ok {
		fp.tag = w.a.SymbolData(s).Description
		return fp
	}
	o, ok := v.AsObject()
	if !ok {
		fp.tag = v.String()
		return fp
	}
	desc, found, exc := o.GetOwnProperty(w.a, w.gc, tagKey)
	switch {
	case exc != nil:
		fp.tag = "!" + exc.Error()
	case !found:
		fp.tag = "?"
	default:
		fp.tag = desc.Value.String()
	}
	return fp
}
