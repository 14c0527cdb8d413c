package vm

import (
	"fmt"
	"time"

	"github.com/JamesPatrickGill/nova/internal/observ"
	"github.com/JamesPatrickGill/nova/internal/trace"
)

// Trigger records why a collection ran.
type Trigger uint8

const (
	// TriggerExplicit is a direct GcScope.Collect call.
	TriggerExplicit Trigger = iota + 1
	// TriggerThreshold is a safepoint after GCThreshold allocations.
	TriggerThreshold
)

func (t Trigger) String() string {
	switch t {
	case TriggerExplicit:
		return "explicit"
	case TriggerThreshold:
		return "threshold"
	default:
		return "unknown"
	}
}

// KindStats is the per-kind outcome of one collection.
type KindStats struct {
	Kind   string `json:"kind" msgpack:"kind"`
	Before int    `json:"before" msgpack:"before"`
	After  int    `json:"after" msgpack:"after"`
	Freed  int    `json:"freed" msgpack:"freed"`
}

// CollectStats summarizes one collection.
type CollectStats struct {
	Cycle    uint64        `json:"cycle" msgpack:"cycle"`
	Trigger  string        `json:"trigger" msgpack:"trigger"`
	Kinds    []KindStats   `json:"kinds" msgpack:"kinds"`
	Freed    int           `json:"freed" msgpack:"freed"`
	Duration time.Duration `json:"duration" msgpack:"duration"`
	Phases   observ.Report `json:"phases" msgpack:"phases"`
}

// Live reports the payloads that survived across all kinds.
func (s CollectStats) Live() int {
	n := 0
	for _, k := range s.Kinds {
		n += k.After
	}
	return n
}

// LastCollection returns the stats of the most recent collection.
func (a *Agent) LastCollection() CollectStats { return a.lastStats }

// Collecting reports whether a collection is in progress.
func (a *Agent) Collecting() bool { return a.state != stateIdle }

func (a *Agent) thresholdReached() bool {
	return a.opts.GCThreshold > 0 && a.sinceGC >= a.opts.GCThreshold
}

// collect is mark, sweep, compact and root renumbering. Lists for every kind
// are built before anything is mutated, so a handle is never rewritten twice.
func (a *Agent) collect(trigger Trigger, extra []HeapMarkAndSweep) CollectStats {
	if a.state != stateIdle {
		fatal(PanicReentrantCollect, "collection requested while "+a.state.String())
	}
	a.state = stateMarking
	defer func() { a.state = stateIdle }()

	started := time.Now()
	cycle := a.counters.collections + 1
	span := trace.Begin(a.tracer, trace.ScopeCollect, "collect", a.span)
	span.WithExtra("cycle", fmt.Sprint(cycle)).WithExtra("trigger", trigger.String())
	timer := observ.NewTimer()
	before := a.heap.slots()

	idx := timer.Begin("mark")
	phase := trace.Begin(a.tracer, trace.ScopePhase, "mark", span.ID())
	marks := newMarkSet(a.heap)
	q := &WorkQueues{}
	roots := a.rootSources(extra)
	a.markRoots(q, roots)
	marks.drain(a.heap, q)
	live := marks.counts()
	phase.End(fmt.Sprintf("%d live", live.total()))
	timer.End(idx, fmt.Sprintf("%d live", live.total()))

	a.state = stateSweeping
	idx = timer.Begin("sweep")
	phase = trace.Begin(a.tracer, trace.ScopePhase, "sweep", span.ID())
	lists := marks.compactionLists()
	sweepPayloads(a.heap, marks, lists)
	phase.End("")
	timer.End(idx, "")

	idx = timer.Begin("compact")
	phase = trace.Begin(a.tracer, trace.ScopePhase, "compact", span.ID())
	freed := compact(a.heap, lists)
	for i, kind := range Kinds {
		trace.Point(a.tracer, trace.ScopeKind, "sweep:"+kind,
			fmt.Sprintf("before=%d after=%d freed=%d", before[i], live[i], freed[i]), phase.ID())
	}
	phase.End(fmt.Sprintf("%d freed", freed.total()))
	timer.End(idx, fmt.Sprintf("%d freed", freed.total()))

	idx = timer.Begin("roots")
	phase = trace.Begin(a.tracer, trace.ScopePhase, "roots", span.ID())
	a.sweepRoots(lists, roots)
	phase.End("")
	timer.End(idx, fmt.Sprintf("%d pins, %d sources", len(a.pins), len(roots)))

	stats := CollectStats{
		Cycle:    cycle,
		Trigger:  trigger.String(),
		Kinds:    make([]KindStats, len(Kinds)),
		Freed:    freed.total(),
		Duration: time.Since(started),
		Phases:   timer.Report(),
	}
	for i, kind := range Kinds {
		stats.Kinds[i] = KindStats{Kind: kind, Before: before[i], After: a.heap.slots()[i], Freed: freed[i]}
	}

	a.counters.collections = cycle
	a.counters.freeCount += safeUint64FromInt(stats.Freed)
	a.sinceGC = 0
	a.lastStats = stats
	span.End(fmt.Sprintf("freed %d, live %d", stats.Freed, stats.Live()))
	return stats
}
