package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"github.com/JamesPatrickGill/nova/internal/vm"
)

// CheckHeap runs the structural heap invariants on an agent:
// 1) every arena is dense: handles of each kind are exactly 1..Slots
// 2) every edge and root points at an existing payload
// 3) the per-kind live counts in HeapStats agree with the graph
func CheckHeap(a *vm.Agent, extra ...vm.HeapMarkAndSweep) error {
	if a == nil {
		return fmt.Errorf("nil agent")
	}
	if a.Collecting() {
		return fmt.Errorf("heap checked while a collection is running")
	}
	g := a.HeapGraph(extra...)
	stats := a.HeapStats()

	// 1) dense arenas
	slots := make(map[string]uint32, len(stats.Kinds))
	for _, k := range stats.Kinds {
		n, err := safecast.Conv[uint32](k.Slots)
		if err != nil {
			return fmt.Errorf("%s slot count overflow: %w", k.Kind, err)
		}
		if k.Live != k.Slots {
			return fmt.Errorf("%s arena has holes: live=%d slots=%d", k.Kind, k.Live, k.Slots)
		}
		slots[k.Kind] = n
	}
	seen := make(map[vm.NodeRef]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		if n.Ref.Index == 0 || n.Ref.Index > slots[n.Ref.Kind] {
			return fmt.Errorf("node %s outside arena (slots=%d)", n.Ref, slots[n.Ref.Kind])
		}
		if seen[n.Ref] {
			return fmt.Errorf("node %s listed twice", n.Ref)
		}
		seen[n.Ref] = true
	}

	// 2) edges and roots resolve
	for _, e := range g.Edges {
		if !seen[e.To] {
			return fmt.Errorf("edge %s -> %s dangles", e.From, e.To)
		}
	}
	for _, r := range g.Roots {
		if !seen[r.To] {
			return fmt.Errorf("root %s -> %s dangles", r.Name, r.To)
		}
	}

	// 3) stats agree with the graph
	if stats.Live() != len(g.Nodes) {
		return fmt.Errorf("stats report %d live payloads, graph has %d", stats.Live(), len(g.Nodes))
	}
	return nil
}

// CheckReachability verifies that the heap holds only reachable payloads,
// which is what a collection with the same roots must leave behind. extra
// must be the call-site roots the collection was given.
func CheckReachability(a *vm.Agent, extra ...vm.HeapMarkAndSweep) error {
	if err := CheckHeap(a, extra...); err != nil {
		return err
	}
	g := a.HeapGraph(extra...)
	reached := g.Reachable()
	for _, n := range g.Nodes {
		if !reached[n.Ref] {
			return fmt.Errorf("%s survived collection but is unreachable", n.Ref)
		}
	}
	return nil
}

// Garbage counts payloads that the next collection would free.
func Garbage(a *vm.Agent, extra ...vm.HeapMarkAndSweep) int {
	g := a.HeapGraph(extra...)
	reached := g.Reachable()
	n := 0
	for _, node := range g.Nodes {
		if !reached[node.Ref] {
			n++
		}
	}
	return n
}
