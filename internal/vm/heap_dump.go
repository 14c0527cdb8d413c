package vm

import (
	"fmt"
	"sort"
	"strings"

	"github.com/JamesPatrickGill/nova/internal/heap"
)

type heapDumpRecord struct {
	kind       string
	props      int
	proto      string
	extensible bool
	backing    bool
	length     uint32
	name       string
	line       string
}

// HeapDump renders every live payload as one line, sorted and deduplicated
// with a count, so that two heaps with the same shape dump identically
// regardless of handle numbering.
func (a *Agent) HeapDump() string {
	records := make([]heapDumpRecord, 0, a.heap.live().total())
	a.heap.Objects.Each(func(_ heap.Index[ObjectHeapData], d *ObjectHeapData) {
		records = append(records, heapDumpRecord{
			kind:       kindObject,
			props:      d.Properties.Len(),
			proto:      d.Prototype.Kind.String(),
			extensible: d.Extensible,
		})
	})
	a.heap.Arrays.Each(func(_ heap.Index[ArrayHeapData], d *ArrayHeapData) {
		records = append(records, heapDumpRecord{kind: kindArray, backing: d.Backing != 0, length: d.Length})
	})
	a.heap.Functions.Each(func(_ heap.Index[BuiltinFunctionHeapData], d *BuiltinFunctionHeapData) {
		records = append(records, heapDumpRecord{kind: kindFunction, backing: d.Backing != 0, length: d.Length, name: d.Name})
	})
	a.heap.Embedders.Each(func(_ heap.Index[EmbedderObjectHeapData], d *EmbedderObjectHeapData) {
		records = append(records, heapDumpRecord{kind: kindEmbedder, backing: d.Backing != 0, name: fmt.Sprintf("%T", d.Host)})
	})
	a.heap.Symbols.Each(func(_ heap.Index[SymbolHeapData], d *SymbolHeapData) {
		records = append(records, heapDumpRecord{kind: kindSymbol, name: d.Description})
	})
	if len(records) == 0 {
		return ""
	}
	for i := range records {
		records[i].line = records[i].formatLine()
	}

	sort.Slice(records, func(i, j int) bool {
		a := records[i]
		b := records[j]
		if a.kind != b.kind {
			return a.kind < b.kind
		}
		return a.line < b.line
	})

	var sb strings.Builder
	for i := 0; i < len(records); {
		line := records[i].line
		count := 1
		for j := i + 1; j < len(records); j++ {
			if records[j].line != line {
				break
			}
			count++
		}
		sb.WriteString(line)
		if count > 1 {
			fmt.Fprintf(&sb, " count=%d", count)
		}
		sb.WriteString("\n")
		i += count
	}
	return sb.String()
}

func (rec heapDumpRecord) formatLine() string {
	var b strings.Builder
	fmt.Fprintf(&b, "OBJ kind=%s", rec.kind)
	switch rec.kind {
	case kindObject:
		fmt.Fprintf(&b, " props=%d proto=%s extensible=%t", rec.props, rec.proto, rec.extensible)
	case kindArray:
		fmt.Fprintf(&b, " len=%d backing=%t", rec.length, rec.backing)
	case kindFunction:
		fmt.Fprintf(&b, " name=%q length=%d backing=%t", rec.name, rec.length, rec.backing)
	case kindEmbedder:
		fmt.Fprintf(&b, " host=%s backing=%t", rec.name, rec.backing)
	case kindSymbol:
		fmt.Fprintf(&b, " description=%q", rec.name)
	}
	return b.String()
}
