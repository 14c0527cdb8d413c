package vm

import "github.com/JamesPatrickGill/nova/internal/heap"

// WorkQueues holds the handles discovered but not yet visited during marking,
// one queue per kind.
type WorkQueues struct {
	Objects   heap.WorkQueue[ObjectHeapData]
	Arrays    heap.WorkQueue[ArrayHeapData]
	Functions heap.WorkQueue[BuiltinFunctionHeapData]
	Embedders heap.WorkQueue[EmbedderObjectHeapData]
	Symbols   heap.WorkQueue[SymbolHeapData]
}

// Len reports pending handles across all kinds.
func (q *WorkQueues) Len() int {
	return q.Objects.Len() + q.Arrays.Len() + q.Functions.Len() + q.Embedders.Len() + q.Symbols.Len()
}

// CompactionLists holds the renumbering of every kind for one collection.
type CompactionLists struct {
	Objects   *heap.CompactionList
	Arrays    *heap.CompactionList
	Functions *heap.CompactionList
	Embedders *heap.CompactionList
	Symbols   *heap.CompactionList
}

type markSet struct {
	objects   *heap.Marks
	arrays    *heap.Marks
	functions *heap.Marks
	embedders *heap.Marks
	symbols   *heap.Marks
}

func newMarkSet(h *Heap) *markSet {
	return &markSet{
		objects:   heap.NewMarks(kindObject, h.Objects.Len()),
		arrays:    heap.NewMarks(kindArray, h.Arrays.Len()),
		functions: heap.NewMarks(kindFunction, h.Functions.Len()),
		embedders: heap.NewMarks(kindEmbedder, h.Embedders.Len()),
		symbols:   heap.NewMarks(kindSymbol, h.Symbols.Len()),
	}
}

func (m *markSet) counts() kindCount {
	return kindCount{m.objects.Count(), m.arrays.Count(), m.functions.Count(), m.embedders.Count(), m.symbols.Count()}
}

// drain visits every queued handle once, pushing the handles its payload
// holds, until no kind has pending work.
func (m *markSet) drain(h *Heap, q *WorkQueues) {
	for q.Len() > 0 {
		for {
			i, ok := q.Objects.Pop()
			if !ok {
				break
			}
			if m.objects.Mark(uint32(i)) {
				h.Objects.Get(i).MarkValues(q)
			}
		}
		for {
			i, ok := q.Arrays.Pop()
			if !ok {
				break
			}
			if m.arrays.Mark(uint32(i)) {
				h.Arrays.Get(i).MarkValues(q)
			}
		}
		for {
			i, ok := q.Functions.Pop()
			if !ok {
				break
			}
			if m.functions.Mark(uint32(i)) {
				h.Functions.Get(i).MarkValues(q)
			}
		}
		for {
			i, ok := q.Embedders.Pop()
			if !ok {
				break
			}
			if m.embedders.Mark(uint32(i)) {
				h.Embedders.Get(i).MarkValues(q)
			}
		}
		for {
			i, ok := q.Symbols.Pop()
			if !ok {
				break
			}
			if m.symbols.Mark(uint32(i)) {
				h.Symbols.Get(i).MarkValues(q)
			}
		}
	}
}

func (m *markSet) compactionLists() *CompactionLists {
	return &CompactionLists{
		Objects:   heap.NewCompactionList(m.objects),
		Arrays:    heap.NewCompactionList(m.arrays),
		Functions: heap.NewCompactionList(m.functions),
		Embedders: heap.NewCompactionList(m.embedders),
		Symbols:   heap.NewCompactionList(m.symbols),
	}
}

// sweepPayloads rewrites the handles held by every surviving payload. Dead
// payloads are skipped: they may point at slots that are about to vanish.
func sweepPayloads(h *Heap, m *markSet, c *CompactionLists) {
	h.Objects.Each(func(i heap.Index[ObjectHeapData], d *ObjectHeapData) {
		if m.objects.IsMarked(uint32(i)) {
			d.SweepValues(c)
		}
	})
	h.Arrays.Each(func(i heap.Index[ArrayHeapData], d *ArrayHeapData) {
		if m.arrays.IsMarked(uint32(i)) {
			d.SweepValues(c)
		}
	})
	h.Functions.Each(func(i heap.Index[BuiltinFunctionHeapData], d *BuiltinFunctionHeapData) {
		if m.functions.IsMarked(uint32(i)) {
			d.SweepValues(c)
		}
	})
	h.Embedders.Each(func(i heap.Index[EmbedderObjectHeapData], d *EmbedderObjectHeapData) {
		if m.embedders.IsMarked(uint32(i)) {
			d.SweepValues(c)
		}
	})
	h.Symbols.Each(func(i heap.Index[SymbolHeapData], d *SymbolHeapData) {
		if m.symbols.IsMarked(uint32(i)) {
			d.SweepValues(c)
		}
	})
}

// compact drops dead payloads from every arena and reports the number freed
// per kind.
func compact(h *Heap, c *CompactionLists) kindCount {
	return kindCount{
		h.Objects.Compact(c.Objects),
		h.Arrays.Compact(c.Arrays),
		h.Functions.Compact(c.Functions),
		h.Embedders.Compact(c.Embedders),
		h.Symbols.Compact(c.Symbols),
	}
}
