package vm

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
)

// PinID names a value held in the agent's pin table.
type PinID uint32

// Pin keeps v alive across collections. The pinned value is renumbered by
// compaction; read it back with Pinned after any collection point.
func (a *Agent) Pin(v Value) PinID {
	a.nextPin++
	id := a.nextPin
	a.pins[id] = v
	return id
}

// Pinned returns the current value of a pin.
func (a *Agent) Pinned(id PinID) Value {
	v, ok := a.pins[id]
	if !ok {
		fatal(PanicPinReleased, fmt.Sprintf("pin %d is not held", id))
	}
	return v
}

// Repin replaces the value held by a pin.
func (a *Agent) Repin(id PinID, v Value) {
	if _, ok := a.pins[id]; !ok {
		fatal(PanicPinReleased, fmt.Sprintf("pin %d is not held", id))
	}
	a.pins[id] = v
}

// Unpin releases a pin. Releasing twice is fatal.
func (a *Agent) Unpin(id PinID) {
	if _, ok := a.pins[id]; !ok {
		fatal(PanicPinReleased, fmt.Sprintf("pin %d released twice", id))
	}
	delete(a.pins, id)
}

// PinCount reports how many pins are held.
func (a *Agent) PinCount() int { return len(a.pins) }

// AddRoots registers a root source that is marked and swept by every
// collection until the returned function is called.
func (a *Agent) AddRoots(src HeapMarkAndSweep) (remove func()) {
	a.nextSource++
	id := a.nextSource
	a.sources[id] = src
	return func() { delete(a.sources, id) }
}

func (a *Agent) sortedPins() []PinID {
	return slices.Sorted(maps.Keys(a.pins))
}

func (a *Agent) sortedSources() []uint64 {
	return slices.Sorted(maps.Keys(a.sources))
}

// rootSources lists the registered sources followed by the call-site roots.
// A source that appears more than once is kept once: sweeping it twice would
// shift its handles twice.
func (a *Agent) rootSources(extra []HeapMarkAndSweep) []HeapMarkAndSweep {
	out := make([]HeapMarkAndSweep, 0, len(a.sources)+len(extra))
	seen := make(map[HeapMarkAndSweep]struct{}, len(a.sources)+len(extra))
	add := func(src HeapMarkAndSweep) {
		if src == nil {
			return
		}
		if reflect.TypeOf(src).Comparable() {
			if _, dup := seen[src]; dup {
				return
			}
			seen[src] = struct{}{}
		}
		out = append(out, src)
	}
	for _, id := range a.sortedSources() {
		add(a.sources[id])
	}
	for _, r := range extra {
		add(r)
	}
	return out
}

// markRoots pushes every root into the queues.
func (a *Agent) markRoots(q *WorkQueues, sources []HeapMarkAndSweep) {
	a.intrinsics.ObjectPrototype.MarkValues(q)
	a.intrinsics.FunctionPrototype.MarkValues(q)
	a.intrinsics.ArrayPrototype.MarkValues(q)
	a.global.MarkValues(q)
	for _, v := range a.pins {
		v.MarkValues(q)
	}
	for _, src := range sources {
		src.MarkValues(q)
	}
}

// sweepRoots renumbers every root after compaction.
func (a *Agent) sweepRoots(c *CompactionLists, sources []HeapMarkAndSweep) {
	a.intrinsics.ObjectPrototype.SweepValues(c)
	a.intrinsics.FunctionPrototype.SweepValues(c)
	a.intrinsics.ArrayPrototype.SweepValues(c)
	a.global.SweepValues(c)
	for id, v := range a.pins {
		v.SweepValues(c)
		a.pins[id] = v
	}
	for _, src := range sources {
		src.SweepValues(c)
	}
}

// ValueStack is a growable list of values usable as a root source, the way an
// interpreter's register file or operand stack would be registered.
type ValueStack struct {
	Values []Value
}

// Push appends v.
func (s *ValueStack) Push(v Value) { s.Values = append(s.Values, v) }

// Pop removes and returns the top value.
func (s *ValueStack) Pop() (Value, bool) {
	n := len(s.Values)
	if n == 0 {
		return Undefined, false
	}
	v := s.Values[n-1]
	s.Values = s.Values[:n-1]
	return v, true
}

// Len reports the number of values.
func (s *ValueStack) Len() int { return len(s.Values) }

// MarkValues implements HeapMarkAndSweep.
func (s *ValueStack) MarkValues(q *WorkQueues) {
	for _, v := range s.Values {
		v.MarkValues(q)
	}
}

// SweepValues implements HeapMarkAndSweep.
func (s *ValueStack) SweepValues(c *CompactionLists) {
	for i := range s.Values {
		s.Values[i].SweepValues(c)
	}
}
