package heap

import "fmt"

// WorkQueue collects handles discovered during marking.
type WorkQueue[T any] struct {
	items []Index[T]
}

// Push appends a handle. Sentinels are ignored.
func (q *WorkQueue[T]) Push(i Index[T]) {
	if !i.IsValid() {
		return
	}
	q.items = append(q.items, i)
}

// Pop removes the most recently pushed handle.
func (q *WorkQueue[T]) Pop() (Index[T], bool) {
	n := len(q.items)
	if n == 0 {
		return 0, false
	}
	i := q.items[n-1]
	q.items = q.items[:n-1]
	return i, true
}

// Len reports pending handles.
func (q *WorkQueue[T]) Len() int { return len(q.items) }

// Marks records which slots of one arena were reached.
type Marks struct {
	kind string
	bits []bool
	n    int
}

// NewMarks allocates mark bits for an arena with the given slot count.
func NewMarks(kind string, slots int) *Marks {
	return &Marks{kind: kind, bits: make([]bool, slots)}
}

// Mark sets the bit for a handle and reports whether it was unset before.
func (m *Marks) Mark(index uint32) bool {
	if index == 0 {
		fault(FaultSentinel, m.kind, 0, "sentinel handle reached during marking")
	}
	slot := int(index) - 1
	if slot >= len(m.bits) {
		fault(FaultOutOfRange, m.kind, index, fmt.Sprintf("marked handle beyond arena (len=%d)", len(m.bits)))
	}
	if m.bits[slot] {
		return false
	}
	m.bits[slot] = true
	m.n++
	return true
}

// IsMarked reports whether the handle was reached.
func (m *Marks) IsMarked(index uint32) bool {
	slot := int(index) - 1
	return slot >= 0 && slot < len(m.bits) && m.bits[slot]
}

// Count reports how many handles were marked.
func (m *Marks) Count() int { return m.n }

// Len reports the slot count the marks were sized for.
func (m *Marks) Len() int { return len(m.bits) }
