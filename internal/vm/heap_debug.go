package vm

// KindSlots is the occupancy of one arena.
type KindSlots struct {
	Kind   string `json:"kind" msgpack:"kind"`
	Slots  int    `json:"slots" msgpack:"slots"`
	Live   int    `json:"live" msgpack:"live"`
	Allocs uint64 `json:"allocs" msgpack:"allocs"`
}

// HeapStats is a snapshot of the agent's allocation counters.
type HeapStats struct {
	Allocations uint64      `json:"allocations" msgpack:"allocations"`
	Frees       uint64      `json:"frees" msgpack:"frees"`
	Collections uint64      `json:"collections" msgpack:"collections"`
	SinceGC     uint64      `json:"since_gc" msgpack:"since_gc"`
	Pins        int         `json:"pins" msgpack:"pins"`
	Sources     int         `json:"sources" msgpack:"sources"`
	Kinds       []KindSlots `json:"kinds" msgpack:"kinds"`
}

// Live reports occupied slots across all kinds.
func (s HeapStats) Live() int {
	n := 0
	for _, k := range s.Kinds {
		n += k.Live
	}
	return n
}

// HeapStats returns the current counters.
func (a *Agent) HeapStats() HeapStats {
	slots := a.heap.slots()
	live := a.heap.live()
	stats := HeapStats{
		Allocations: a.counters.allocCount,
		Frees:       a.counters.freeCount,
		Collections: a.counters.collections,
		SinceGC:     safeUint64FromInt(a.sinceGC),
		Pins:        len(a.pins),
		Sources:     len(a.sources),
		Kinds:       make([]KindSlots, len(Kinds)),
	}
	for i, kind := range Kinds {
		stats.Kinds[i] = KindSlots{Kind: kind, Slots: slots[i], Live: live[i], Allocs: a.counters.perKind[i]}
	}
	return stats
}
