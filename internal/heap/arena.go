package heap

import "fmt"

// Arena stores payloads of one kind in a compact slice of optional slots.
// Handles are 1-based; slot 0 holds the payload of Index 1.
type Arena[T any] struct {
	kind  string
	slots []*T
}

// NewArena creates an arena for the named kind. capHint sizes the initial
// backing slice; zero is allowed.
func NewArena[T any](kind string, capHint int) *Arena[T] {
	if capHint < 0 {
		capHint = 0
	}
	return &Arena[T]{
		kind:  kind,
		slots: make([]*T, 0, capHint),
	}
}

// Kind returns the kind name used in diagnostics.
func (a *Arena[T]) Kind() string { return a.kind }

// Alloc appends payload and returns its handle. It never collects.
func (a *Arena[T]) Alloc(payload T) Index[T] {
	idx := IndexFromSlot[T](len(a.slots))
	p := new(T)
	*p = payload
	a.slots = append(a.slots, p)
	return idx
}

// Get resolves a handle. A sentinel, out-of-range or empty slot is a fault.
func (a *Arena[T]) Get(i Index[T]) *T {
	if !i.IsValid() {
		fault(FaultSentinel, a.kind, 0, "sentinel handle dereferenced")
	}
	slot := i.Slot()
	if slot >= len(a.slots) {
		fault(FaultOutOfRange, a.kind, uint32(i), fmt.Sprintf("out of bounds (len=%d)", len(a.slots)))
	}
	p := a.slots[slot]
	if p == nil {
		fault(FaultEmptySlot, a.kind, uint32(i), "slot empty")
	}
	return p
}

// Lookup resolves a handle without faulting.
func (a *Arena[T]) Lookup(i Index[T]) (*T, bool) {
	if !i.IsValid() || i.Slot() >= len(a.slots) {
		return nil, false
	}
	p := a.slots[i.Slot()]
	return p, p != nil
}

// Len reports the number of slots, occupied or not.
func (a *Arena[T]) Len() int { return len(a.slots) }

// Live reports the number of occupied slots.
func (a *Arena[T]) Live() int {
	n := 0
	for _, p := range a.slots {
		if p != nil {
			n++
		}
	}
	return n
}

// Each calls fn for every occupied slot in handle order.
func (a *Arena[T]) Each(fn func(Index[T], *T)) {
	for slot, p := range a.slots {
		if p == nil {
			continue
		}
		fn(IndexFromSlot[T](slot), p)
	}
}

// Compact drops every slot the list reports as removed and shifts survivors
// toward the front, keeping their relative order. It returns the number of
// payloads freed.
func (a *Arena[T]) Compact(list *CompactionList) int {
	if list.Len() != len(a.slots) {
		fault(FaultCompactionLength, a.kind, 0,
			fmt.Sprintf("compaction list covers %d slots, arena has %d", list.Len(), len(a.slots)))
	}
	write := 0
	for read, p := range a.slots {
		if !list.live[read] {
			continue
		}
		if p == nil {
			fault(FaultEmptySlot, a.kind, uint32(read+1), "marked slot is empty")
		}
		a.slots[write] = p
		write++
	}
	freed := len(a.slots) - write
	clear(a.slots[write:])
	a.slots = a.slots[:write]
	return freed
}
