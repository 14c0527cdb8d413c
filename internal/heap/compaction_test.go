package heap

import "testing"

func marksFor(slots int, live ...uint32) *Marks {
	m := NewMarks("test", slots)
	for _, i := range live {
		m.Mark(i)
	}
	return m
}

func TestCompactionListLookup(t *testing.T) {
	tests := []struct {
		name  string
		slots int
		live  []uint32
		want  map[uint32]uint32 // old -> new, missing = removed
	}{
		{
			name:  "no gaps",
			slots: 3,
			live:  []uint32{1, 2, 3},
			want:  map[uint32]uint32{1: 1, 2: 2, 3: 3},
		},
		{
			name:  "middle gap",
			slots: 3,
			live:  []uint32{1, 3},
			want:  map[uint32]uint32{1: 1, 3: 2},
		},
		{
			name:  "leading gap",
			slots: 4,
			live:  []uint32{3, 4},
			want:  map[uint32]uint32{3: 1, 4: 2},
		},
		{
			name:  "several gaps",
			slots: 8,
			live:  []uint32{2, 3, 6, 8},
			want:  map[uint32]uint32{2: 1, 3: 2, 6: 3, 8: 4},
		},
		{
			name:  "everything dead",
			slots: 3,
			want:  map[uint32]uint32{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list := NewCompactionList(marksFor(tt.slots, tt.live...))
			for old := uint32(1); old <= uint32(tt.slots); old++ {
				got, ok := list.Lookup(old)
				want, live := tt.want[old]
				if ok != live {
					t.Fatalf("slot %d: expected live=%v, got %v", old, live, ok)
				}
				if ok && got != want {
					t.Fatalf("slot %d: expected %d, got %d", old, want, got)
				}
			}
			if removed := list.Removed(); removed != tt.slots-len(tt.want) {
				t.Fatalf("expected %d removed, got %d", tt.slots-len(tt.want), removed)
			}
		})
	}
}

func TestCompactionListPreservesRelativeOrder(t *testing.T) {
	live := []uint32{2, 5, 6, 9, 13, 14, 20}
	list := NewCompactionList(marksFor(20, live...))
	prev := uint32(0)
	for _, old := range live {
		next, ok := list.Lookup(old)
		if !ok {
			t.Fatalf("expected %d to survive", old)
		}
		if next <= prev {
			t.Fatalf("expected increasing positions, got %d after %d", next, prev)
		}
		prev = next
	}
	if prev != uint32(len(live)) {
		t.Fatalf("expected dense numbering ending at %d, got %d", len(live), prev)
	}
}

func TestShiftIndex(t *testing.T) {
	list := NewCompactionList(marksFor(3, 1, 3))

	h := Index[payload](3)
	Shift(list, &h)
	if h != 2 {
		t.Fatalf("expected 2, got %d", h)
	}

	none := Index[payload](0)
	Shift(list, &none)
	if none != 0 {
		t.Fatalf("expected sentinel to stay 0, got %d", none)
	}

	dangling := Index[payload](2)
	expectFault(t, FaultDanglingHandle, func() { Shift(list, &dangling) })

	beyond := Index[payload](9)
	expectFault(t, FaultOutOfRange, func() { Shift(list, &beyond) })
}

func TestMarksFaultOnCorruptHandles(t *testing.T) {
	m := NewMarks("test", 2)
	expectFault(t, FaultSentinel, func() { m.Mark(0) })
	expectFault(t, FaultOutOfRange, func() { m.Mark(3) })
	if !m.Mark(2) {
		t.Fatal("expected first mark to report true")
	}
	if m.Mark(2) {
		t.Fatal("expected second mark to report false")
	}
	if m.Count() != 1 {
		t.Fatalf("expected count 1, got %d", m.Count())
	}
}

func TestWorkQueueIgnoresSentinel(t *testing.T) {
	var q WorkQueue[payload]
	q.Push(0)
	q.Push(4)
	if q.Len() != 1 {
		t.Fatalf("expected 1 item, got %d", q.Len())
	}
	i, ok := q.Pop()
	if !ok || i != 4 {
		t.Fatalf("expected 4, got %d (%v)", i, ok)
	}
	if _, ok := q.Pop(); ok {
		t.Fatal("expected empty queue")
	}
}
