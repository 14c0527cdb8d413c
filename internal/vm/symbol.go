package vm

import (
	"fmt"

	"github.com/JamesPatrickGill/nova/internal/heap"
)

// SymbolHeapData is the payload of a symbol.
type SymbolHeapData struct {
	Description    string
	HasDescription bool
}

// MarkValues implements HeapMarkAndSweep. Symbols hold no handles.
func (d *SymbolHeapData) MarkValues(*WorkQueues) {}

// SweepValues implements HeapMarkAndSweep.
func (d *SymbolHeapData) SweepValues(*CompactionLists) {}

// Symbol is a handle to a symbol.
type Symbol heap.Index[SymbolHeapData]

func (s Symbol) index() heap.Index[SymbolHeapData] { return heap.Index[SymbolHeapData](s) }

// Value widens s to the Value union.
func (s Symbol) Value() Value { return Value{Kind: VKSymbol, h: uint32(s)} }

// Key returns s as a property key.
func (s Symbol) Key() PropertyKey { return SymbolKey(s) }

// Descriptive renders "Symbol(description)".
func (s Symbol) Descriptive(a *Agent) string {
	return fmt.Sprintf("Symbol(%s)", a.SymbolData(s).Description)
}

// MarkValues implements HeapMarkAndSweep.
func (s Symbol) MarkValues(q *WorkQueues) { q.Symbols.Push(s.index()) }

// SweepValues implements HeapMarkAndSweep.
func (s *Symbol) SweepValues(c *CompactionLists) {
	c.Symbols.ShiftIndex((*uint32)(s))
}
