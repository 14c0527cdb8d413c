package vm

import (
	"fmt"

	"github.com/JamesPatrickGill/nova/internal/heap"
)

// NodeRef names one payload by kind and handle.
type NodeRef struct {
	Kind  string `json:"kind" msgpack:"kind"`
	Index uint32 `json:"index" msgpack:"index"`
}

func (r NodeRef) String() string { return fmt.Sprintf("%s#%d", r.Kind, r.Index) }

// GraphNode is one live payload.
type GraphNode struct {
	Ref   NodeRef `json:"ref" msgpack:"ref"`
	Label string  `json:"label,omitempty" msgpack:"label,omitempty"`
}

// GraphEdge is a handle held by From that points at To.
type GraphEdge struct {
	From NodeRef `json:"from" msgpack:"from"`
	To   NodeRef `json:"to" msgpack:"to"`
}

// GraphRoot is a handle held outside the heap.
type GraphRoot struct {
	Name string  `json:"name" msgpack:"name"`
	To   NodeRef `json:"to" msgpack:"to"`
}

// HeapGraph is a node/edge view of the heap, including dead payloads that
// have not been collected yet.
type HeapGraph struct {
	Nodes []GraphNode `json:"nodes" msgpack:"nodes"`
	Edges []GraphEdge `json:"edges" msgpack:"edges"`
	Roots []GraphRoot `json:"roots" msgpack:"roots"`
}

// HeapGraph builds the graph. Payload edges are read from payload fields
// directly rather than through MarkValues, so a field that marking forgets
// shows up as a difference between the graph and the collector. Root sources
// are opaque and are read through MarkValues. Call-site roots are not known
// here; pass them as extra roots to include them.
func (a *Agent) HeapGraph(extra ...HeapMarkAndSweep) *HeapGraph {
	g := &HeapGraph{}
	edge := func(from NodeRef, v Value) {
		if to, ok := valueRef(v); ok {
			g.Edges = append(g.Edges, GraphEdge{From: from, To: to})
		}
	}
	backing := func(from NodeRef, b OrdinaryObject) {
		if b != 0 {
			g.Edges = append(g.Edges, GraphEdge{From: from, To: NodeRef{Kind: kindObject, Index: uint32(b)}})
		}
	}

	a.heap.Objects.Each(func(i heap.Index[ObjectHeapData], d *ObjectHeapData) {
		ref := NodeRef{Kind: kindObject, Index: uint32(i)}
		g.Nodes = append(g.Nodes, GraphNode{Ref: ref, Label: fmt.Sprintf("props=%d", d.Properties.Len())})
		edge(ref, d.Prototype.Value())
		for _, k := range d.Properties.keys {
			edge(ref, k.Value())
			p := d.Properties.props[k]
			edge(ref, p.Value)
			edge(ref, p.Get)
			edge(ref, p.Set)
		}
	})
	a.heap.Arrays.Each(func(i heap.Index[ArrayHeapData], d *ArrayHeapData) {
		ref := NodeRef{Kind: kindArray, Index: uint32(i)}
		g.Nodes = append(g.Nodes, GraphNode{Ref: ref, Label: fmt.Sprintf("len=%d", d.Length)})
		backing(ref, d.Backing)
	})
	a.heap.Functions.Each(func(i heap.Index[BuiltinFunctionHeapData], d *BuiltinFunctionHeapData) {
		ref := NodeRef{Kind: kindFunction, Index: uint32(i)}
		g.Nodes = append(g.Nodes, GraphNode{Ref: ref, Label: d.Name})
		backing(ref, d.Backing)
	})
	a.heap.Embedders.Each(func(i heap.Index[EmbedderObjectHeapData], d *EmbedderObjectHeapData) {
		ref := NodeRef{Kind: kindEmbedder, Index: uint32(i)}
		g.Nodes = append(g.Nodes, GraphNode{Ref: ref, Label: fmt.Sprintf("%T", d.Host)})
		backing(ref, d.Backing)
	})
	a.heap.Symbols.Each(func(i heap.Index[SymbolHeapData], d *SymbolHeapData) {
		ref := NodeRef{Kind: kindSymbol, Index: uint32(i)}
		g.Nodes = append(g.Nodes, GraphNode{Ref: ref, Label: d.Description})
	})

	addRoots := func(name string, m HeapMarkAndSweep) {
		for _, to := range queuedRefs(m) {
			g.Roots = append(g.Roots, GraphRoot{Name: name, To: to})
		}
	}
	addRoots("%Object.prototype%", &a.intrinsics.ObjectPrototype)
	addRoots("%Function.prototype%", &a.intrinsics.FunctionPrototype)
	addRoots("%Array.prototype%", &a.intrinsics.ArrayPrototype)
	addRoots("global", &a.global)
	for _, id := range a.sortedPins() {
		v := a.pins[id]
		addRoots(fmt.Sprintf("pin:%d", id), &v)
	}
	for _, id := range a.sortedSources() {
		addRoots(fmt.Sprintf("source:%d", id), a.sources[id])
	}
	for i, r := range extra {
		addRoots(fmt.Sprintf("extra:%d", i), r)
	}
	return g
}

// Reachable returns every node reachable from the graph's roots.
func (g *HeapGraph) Reachable() map[NodeRef]bool {
	out := make(map[NodeRef][]NodeRef, len(g.Nodes))
	for _, e := range g.Edges {
		out[e.From] = append(out[e.From], e.To)
	}
	reached := make(map[NodeRef]bool, len(g.Nodes))
	stack := make([]NodeRef, 0, len(g.Roots))
	for _, r := range g.Roots {
		stack = append(stack, r.To)
	}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if reached[n] {
			continue
		}
		reached[n] = true
		stack = append(stack, out[n]...)
	}
	return reached
}

// valueRef names the payload a heap value points at.
func valueRef(v Value) (NodeRef, bool) {
	if !v.IsHeap() {
		return NodeRef{}, false
	}
	return NodeRef{Kind: v.Kind.String(), Index: v.h}, true
}

// queuedRefs collects the handles m would push during marking.
func queuedRefs(m HeapMarkAndSweep) []NodeRef {
	q := &WorkQueues{}
	m.MarkValues(q)
	if q.Len() == 0 {
		return nil
	}
	refs := make([]NodeRef, 0, q.Len())
	for {
		i, ok := q.Objects.Pop()
		if !ok {
			break
		}
		refs = append(refs, NodeRef{Kind: kindObject, Index: uint32(i)})
	}
	for {
		i, ok := q.Arrays.Pop()
		if !ok {
			break
		}
		refs = append(refs, NodeRef{Kind: kindArray, Index: uint32(i)})
	}
	for {
		i, ok := q.Functions.Pop()
		if !ok {
			break
		}
		refs = append(refs, NodeRef{Kind: kindFunction, Index: uint32(i)})
	}
	for {
		i, ok := q.Embedders.Pop()
		if !ok {
			break
		}
		refs = append(refs, NodeRef{Kind: kindEmbedder, Index: uint32(i)})
	}
	for {
		i, ok := q.Symbols.Pop()
		if !ok {
			break
		}
		refs = append(refs, NodeRef{Kind: kindSymbol, Index: uint32(i)})
	}
	return refs
}
