package trace

import (
	"io"
	"slices"
	"sync"
)

// RingTracer keeps the most recent events in a fixed buffer so they can be
// dumped after an agent faults.
type RingTracer struct {
	leveled
	mu     sync.Mutex
	events []Event
	total  int // events stored since creation
}

// NewRingTracer returns a ring holding up to capacity events.
func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = defaultRingSize
	}
	return &RingTracer{leveled: leveled{level}, events: make([]Event, capacity)}
}

// Emit stores a copy of ev, overwriting the oldest event when full.
func (t *RingTracer) Emit(ev *Event) {
	if !t.accepts(ev) {
		return
	}
	stored := *ev
	t.mu.Lock()
	defer t.mu.Unlock()
	stored.Seq = NextSeq()
	t.events[t.total%len(t.events)] = stored
	t.total++
}

// Snapshot returns the stored events oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := len(t.events)
	if t.total <= n {
		return slices.Clone(t.events[:t.total])
	}
	head := t.total % n
	return slices.Concat(t.events[head:], t.events[:head])
}

// Dropped reports how many events were overwritten.
func (t *RingTracer) Dropped() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return max(0, t.total-len(t.events))
}

// Dump writes the stored events to w, oldest first.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	for _, ev := range t.Snapshot() {
		if _, err := w.Write(FormatEvent(&ev, format)); err != nil {
			return err
		}
	}
	return nil
}

func (t *RingTracer) Flush() error { return nil }
func (t *RingTracer) Close() error { return nil }

// RingOf returns the ring behind t, looking through agent labels and
// MultiTracer fan-out.
func RingOf(t Tracer) (*RingTracer, bool) {
	switch tt := t.(type) {
	case *RingTracer:
		return tt, true
	case agentTracer:
		return RingOf(tt.Tracer)
	case *MultiTracer:
		for _, inner := range tt.tracers {
			if r, ok := RingOf(inner); ok {
				return r, true
			}
		}
	}
	return nil, false
}
