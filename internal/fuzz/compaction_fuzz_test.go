package fuzztests

import (
	"testing"

	"github.com/JamesPatrickGill/nova/internal/heap"
)

type cell struct{ id int }

// FuzzCompactionPreservesOrder marks an arbitrary subset of an arena and
// checks that compaction keeps survivors in order and maps every old handle
// to the payload it used to name.
func FuzzCompactionPreservesOrder(f *testing.F) {
	f.Add([]byte{1, 0, 1})
	f.Add([]byte{0, 0, 0, 0})
	f.Add([]byte{1, 1, 1, 1, 1, 0, 0, 1})
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		arena := heap.NewArena[cell]("cell", len(input))
		handles := make([]heap.Index[cell], len(input))
		for i := range input {
			handles[i] = arena.Alloc(cell{id: i})
		}

		marks := heap.NewMarks("cell", arena.Len())
		kept := 0
		for i, b := range input {
			if b&1 == 1 {
				marks.Mark(uint32(handles[i]))
				kept++
			}
		}
		list := heap.NewCompactionList(marks)
		freed := arena.Compact(list)
		if freed != len(input)-kept || arena.Len() != kept {
			t.Fatalf("expected %d freed and %d kept, got %d freed and %d slots", len(input)-kept, kept, freed, arena.Len())
		}

		prev := -1
		for i, h := range handles {
			to, ok := list.Lookup(uint32(h))
			if input[i]&1 == 0 {
				if ok {
					t.Fatalf("handle %d was removed but still maps to %d", h, to)
				}
				continue
			}
			if !ok {
				t.Fatalf("handle %d survived but has no mapping", h)
			}
			moved := h
			heap.Shift(list, &moved)
			if uint32(moved) != to {
				t.Fatalf("Shift(%d) = %d, Lookup = %d", h, moved, to)
			}
			got := arena.Get(moved)
			if got.id != i {
				t.Fatalf("handle %d now names payload %d, expected %d", moved, got.id, i)
			}
			if got.id <= prev {
				t.Fatalf("relative order broken at handle %d", moved)
			}
			prev = got.id
		}
	})
}
