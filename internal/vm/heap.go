package vm

import (
	"fortio.org/safecast"

	"github.com/JamesPatrickGill/nova/internal/heap"
)

// Kind names used in diagnostics, faults and traces.
const (
	kindObject   = "object"
	kindArray    = "array"
	kindFunction = "function"
	kindEmbedder = "embedder"
	kindSymbol   = "symbol"
)

// Kinds lists every heap kind in collection order.
var Kinds = []string{kindObject, kindArray, kindFunction, kindEmbedder, kindSymbol}

// Heap owns every payload of one agent, one arena per kind.
// Everything outside the heap refers to payloads through handles only.
type Heap struct {
	Objects   *heap.Arena[ObjectHeapData]
	Arrays    *heap.Arena[ArrayHeapData]
	Functions *heap.Arena[BuiltinFunctionHeapData]
	Embedders *heap.Arena[EmbedderObjectHeapData]
	Symbols   *heap.Arena[SymbolHeapData]
}

func newHeap(capHint int) *Heap {
	return &Heap{
		Objects:   heap.NewArena[ObjectHeapData](kindObject, capHint),
		Arrays:    heap.NewArena[ArrayHeapData](kindArray, capHint),
		Functions: heap.NewArena[BuiltinFunctionHeapData](kindFunction, capHint),
		Embedders: heap.NewArena[EmbedderObjectHeapData](kindEmbedder, capHint),
		Symbols:   heap.NewArena[SymbolHeapData](kindSymbol, capHint),
	}
}

// kindCount holds one number per heap kind, in Kinds order.
type kindCount [5]int

func (h *Heap) slots() kindCount {
	return kindCount{h.Objects.Len(), h.Arrays.Len(), h.Functions.Len(), h.Embedders.Len(), h.Symbols.Len()}
}

func (h *Heap) live() kindCount {
	return kindCount{h.Objects.Live(), h.Arrays.Live(), h.Functions.Live(), h.Embedders.Live(), h.Symbols.Live()}
}

func (c kindCount) total() int {
	n := 0
	for _, v := range c {
		n += v
	}
	return n
}

type heapCounters struct {
	allocCount  uint64
	freeCount   uint64
	collections uint64
	perKind     [5]uint64
}

func safeUint64FromInt(n int) uint64 {
	v, err := safecast.Conv[uint64](n)
	if err != nil {
		return 0
	}
	return v
}
