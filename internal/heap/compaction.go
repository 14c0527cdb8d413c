package heap

import (
	"fmt"
	"sort"
)

// shiftRun starts at the first surviving slot after a gap; every survivor from
// start onward (until the next run) moves down by shift slots.
type shiftRun struct {
	start uint32
	shift uint32
}

// CompactionList maps pre-compaction slot positions to post-compaction ones.
// It is computed once per collection from the marks and applied to every
// handle in the system before being discarded.
type CompactionList struct {
	kind string
	live []bool
	runs []shiftRun
}

// NewCompactionList computes the renumbering for one arena.
func NewCompactionList(m *Marks) *CompactionList {
	list := &CompactionList{
		kind: m.kind,
		live: append([]bool(nil), m.bits...),
	}
	var removed uint32
	inGap := false
	for slot, live := range m.bits {
		if !live {
			removed++
			inGap = true
			continue
		}
		if inGap {
			list.runs = append(list.runs, shiftRun{start: toUint32(slot), shift: removed})
			inGap = false
		}
	}
	return list
}

// Len reports how many slots the list covers.
func (c *CompactionList) Len() int { return len(c.live) }

// Removed reports how many slots are dropped.
func (c *CompactionList) Removed() int {
	n := 0
	for _, live := range c.live {
		if !live {
			n++
		}
	}
	return n
}

// Lookup returns the post-compaction handle value for a pre-compaction one.
// ok is false when the slot is removed or out of range.
func (c *CompactionList) Lookup(index uint32) (uint32, bool) {
	if index == 0 {
		return 0, false
	}
	slot := index - 1
	if int(slot) >= len(c.live) || !c.live[slot] {
		return 0, false
	}
	// last run whose start <= slot
	k := sort.Search(len(c.runs), func(i int) bool { return c.runs[i].start > slot })
	if k == 0 {
		return index, true
	}
	return index - c.runs[k-1].shift, true
}

// ShiftIndex rewrites *index in place. The sentinel is left alone; a handle to
// a removed or out-of-range slot is a fault because it would dangle.
func (c *CompactionList) ShiftIndex(index *uint32) {
	if *index == 0 {
		return
	}
	next, ok := c.Lookup(*index)
	if !ok {
		if int(*index) > len(c.live) {
			fault(FaultOutOfRange, c.kind, *index, fmt.Sprintf("handle beyond compaction list (len=%d)", len(c.live)))
		}
		fault(FaultDanglingHandle, c.kind, *index, "handle to swept slot")
	}
	*index = next
}

// Shift rewrites a typed handle in place.
func Shift[T any](c *CompactionList, i *Index[T]) {
	raw := uint32(*i)
	c.ShiftIndex(&raw)
	*i = Index[T](raw)
}
