package vm

import (
	"fmt"

	"fortio.org/safecast"

	"github.com/JamesPatrickGill/nova/internal/trace"
)

// Intrinsics are the well-known objects every agent creates up front. They
// are always roots.
type Intrinsics struct {
	ObjectPrototype   OrdinaryObject
	FunctionPrototype OrdinaryObject
	ArrayPrototype    OrdinaryObject
}

// Options configures a new Agent.
type Options struct {
	// InitialCapacity sizes each arena's initial backing slice.
	InitialCapacity int
	// GCThreshold arms the safepoint trigger once this many allocations
	// happened since the last collection. Zero disables the trigger.
	GCThreshold int
	// Tracer receives allocation and collection events. Nil means no tracing.
	Tracer trace.Tracer
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		InitialCapacity: 64,
		GCThreshold:     4096,
	}
}

type collectorState uint8

const (
	stateIdle collectorState = iota
	stateMarking
	stateSweeping
)

func (s collectorState) String() string {
	switch s {
	case stateMarking:
		return "marking"
	case stateSweeping:
		return "sweeping"
	default:
		return "idle"
	}
}

// Agent is one ECMAScript execution context: a heap, its intrinsics and the
// roots the host registered. An Agent is not safe for concurrent use.
type Agent struct {
	heap       *Heap
	intrinsics Intrinsics
	global     OrdinaryObject

	pins    map[PinID]Value
	nextPin PinID

	sources    map[uint64]HeapMarkAndSweep
	nextSource uint64

	opts    Options
	tracer  trace.Tracer
	span    uint64
	state   collectorState
	sinceGC int

	counters  heapCounters
	lastStats CollectStats
}

// NewAgent creates an agent with its intrinsics and global object.
func NewAgent(opts Options) *Agent {
	if opts.InitialCapacity < 0 {
		opts.InitialCapacity = 0
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = trace.Nop
	}
	a := &Agent{
		heap:    newHeap(opts.InitialCapacity),
		pins:    make(map[PinID]Value),
		sources: make(map[uint64]HeapMarkAndSweep),
		opts:    opts,
		tracer:  tracer,
	}
	objProto := a.allocObject(ObjectHeapData{Extensible: true})
	a.intrinsics = Intrinsics{
		ObjectPrototype:   objProto,
		FunctionPrototype: a.allocObject(ObjectHeapData{Prototype: objProto.Object(), Extensible: true}),
		ArrayPrototype:    a.allocObject(ObjectHeapData{Prototype: objProto.Object(), Extensible: true}),
	}
	a.global = a.allocObject(ObjectHeapData{Prototype: objProto.Object(), Extensible: true})
	a.sinceGC = 0
	return a
}

// Intrinsics returns the agent's well-known objects.
func (a *Agent) Intrinsics() *Intrinsics { return &a.intrinsics }

// Global returns the global object.
func (a *Agent) Global() OrdinaryObject { return a.global }

// Tracer returns the agent's tracer.
func (a *Agent) Tracer() trace.Tracer { return a.tracer }

// Options returns the options the agent was created with.
func (a *Agent) Options() Options { return a.opts }

// ObjectData resolves an ordinary object handle.
func (a *Agent) ObjectData(o OrdinaryObject) *ObjectHeapData { return a.heap.Objects.Get(o.index()) }

// ArrayData resolves an array handle.
func (a *Agent) ArrayData(arr Array) *ArrayHeapData { return a.heap.Arrays.Get(arr.index()) }

// FunctionData resolves a builtin function handle.
func (a *Agent) FunctionData(f BuiltinFunction) *BuiltinFunctionHeapData {
	return a.heap.Functions.Get(f.index())
}

// EmbedderData resolves an embedder object handle.
func (a *Agent) EmbedderData(e EmbedderObject) *EmbedderObjectHeapData {
	return a.heap.Embedders.Get(e.index())
}

// SymbolData resolves a symbol handle.
func (a *Agent) SymbolData(s Symbol) *SymbolHeapData { return a.heap.Symbols.Get(s.index()) }

// NewObject allocates an ordinary object with the given prototype.
func (a *Agent) NewObject(proto Object) OrdinaryObject {
	return a.allocObject(ObjectHeapData{Prototype: proto, Extensible: true})
}

// NewPlainObject allocates an ordinary object inheriting from
// %Object.prototype%.
func (a *Agent) NewPlainObject() OrdinaryObject {
	return a.NewObject(a.intrinsics.ObjectPrototype.Object())
}

// NewArray allocates an array holding elems at indices 0..len-1.
func (a *Agent) NewArray(elems ...Value) Array {
	a.checkAlloc(kindArray)
	arr := Array(a.heap.Arrays.Alloc(ArrayHeapData{
		Length:         toUint32Len(len(elems)),
		LengthWritable: true,
	}))
	a.noteAlloc(1, kindArray, uint32(arr))
	if len(elems) > 0 {
		props := &a.ObjectData(arr.CreateBackingObject(a)).Properties
		for i, v := range elems {
			props.Put(IndexKey(toUint32Len(i)), Property{Value: v, Writable: true, Enumerable: true, Configurable: true})
		}
	}
	return arr
}

// NewBuiltinFunction allocates a builtin function.
func (a *Agent) NewBuiltinFunction(name string, length uint32, behaviour Behaviour) BuiltinFunction {
	a.checkAlloc(kindFunction)
	f := BuiltinFunction(a.heap.Functions.Alloc(BuiltinFunctionHeapData{
		Name:      name,
		Length:    length,
		Behaviour: behaviour,
	}))
	a.noteAlloc(2, kindFunction, uint32(f))
	return f
}

// NewEmbedderObject allocates an embedder object carrying host data.
func (a *Agent) NewEmbedderObject(host any) EmbedderObject {
	a.checkAlloc(kindEmbedder)
	e := EmbedderObject(a.heap.Embedders.Alloc(EmbedderObjectHeapData{Host: host}))
	a.noteAlloc(3, kindEmbedder, uint32(e))
	return e
}

// NewSymbol allocates a symbol with a description.
func (a *Agent) NewSymbol(description string) Symbol {
	return a.allocSymbol(SymbolHeapData{Description: description, HasDescription: true})
}

// NewAnonymousSymbol allocates a symbol without a description.
func (a *Agent) NewAnonymousSymbol() Symbol {
	return a.allocSymbol(SymbolHeapData{})
}

func (a *Agent) allocSymbol(d SymbolHeapData) Symbol {
	a.checkAlloc(kindSymbol)
	s := Symbol(a.heap.Symbols.Alloc(d))
	a.noteAlloc(4, kindSymbol, uint32(s))
	return s
}

func (a *Agent) allocObject(d ObjectHeapData) OrdinaryObject {
	a.checkAlloc(kindObject)
	o := OrdinaryObject(a.heap.Objects.Alloc(d))
	a.noteAlloc(0, kindObject, uint32(o))
	return o
}

func (a *Agent) checkAlloc(kind string) {
	if a.state != stateIdle {
		fatal(PanicAllocDuringCollect, "allocation of "+kind+" while "+a.state.String())
	}
}

func (a *Agent) noteAlloc(kindIdx int, kind string, index uint32) {
	a.counters.allocCount++
	a.counters.perKind[kindIdx]++
	a.sinceGC++
	a.traceAlloc(kind, index)
}

func toUint32Len(n int) uint32 {
	v, err := safecast.Conv[uint32](n)
	if err != nil || v > MaxArrayIndex {
		fatal(PanicLengthOverflow, fmt.Sprintf("array length %d out of range", n))
	}
	return v
}
