package vm

import "github.com/JamesPatrickGill/nova/internal/heap"

// EmbedderObjectHeapData is the payload of a host-defined object. Host is
// opaque to the engine and is never traced; hosts that need to keep heap
// values alive through it must pin them.
type EmbedderObjectHeapData struct {
	Backing OrdinaryObject
	Host    any
}

// MarkValues implements HeapMarkAndSweep.
func (d *EmbedderObjectHeapData) MarkValues(q *WorkQueues) { d.Backing.MarkValues(q) }

// SweepValues implements HeapMarkAndSweep.
func (d *EmbedderObjectHeapData) SweepValues(c *CompactionLists) { d.Backing.SweepValues(c) }

// EmbedderObject is a handle to an embedder object. Every protocol operation
// uses the ordinary algorithms over a lazily created backing object.
type EmbedderObject heap.Index[EmbedderObjectHeapData]

func (e EmbedderObject) index() heap.Index[EmbedderObjectHeapData] {
	return heap.Index[EmbedderObjectHeapData](e)
}

// Object widens e to the Object union.
func (e EmbedderObject) Object() Object { return Object{Kind: OKEmbedder, h: uint32(e)} }

// Value widens e to the Value union.
func (e EmbedderObject) Value() Value { return Value{Kind: VKEmbedder, h: uint32(e)} }

// Host returns the host data.
func (e EmbedderObject) Host(a *Agent) any { return a.EmbedderData(e).Host }

// BackingObject implements InternalSlots.
func (e EmbedderObject) BackingObject(a *Agent) (OrdinaryObject, bool) {
	b := a.EmbedderData(e).Backing
	return b, b != 0
}

// SetBackingObject implements InternalSlots.
func (e EmbedderObject) SetBackingObject(a *Agent, backing OrdinaryObject) {
	d := a.EmbedderData(e)
	checkBackingUnset(kindEmbedder, uint32(e), d.Backing)
	d.Backing = backing
}

// CreateBackingObject implements InternalSlots.
func (e EmbedderObject) CreateBackingObject(a *Agent) OrdinaryObject {
	if b, ok := e.BackingObject(a); ok {
		return b
	}
	b := newBacking(a, a.Intrinsics().ObjectPrototype.Object())
	e.SetBackingObject(a, b)
	return b
}

// Extensible implements InternalSlots.
func (e EmbedderObject) Extensible(a *Agent) bool {
	return backingExtensible(a, a.EmbedderData(e).Backing)
}

// SetExtensible implements InternalSlots.
func (e EmbedderObject) SetExtensible(a *Agent, v bool) { setBackingExtensible(a, e, v) }

// Prototype implements InternalSlots.
func (e EmbedderObject) Prototype(a *Agent) Object {
	return backingPrototype(a, a.EmbedderData(e).Backing, a.Intrinsics().ObjectPrototype.Object())
}

// SetPrototype implements InternalSlots.
func (e EmbedderObject) SetPrototype(a *Agent, proto Object) {
	setBackingPrototype(a, e, a.Intrinsics().ObjectPrototype.Object(), proto)
}

// GetPrototypeOf implements InternalMethods.
func (e EmbedderObject) GetPrototypeOf(a *Agent, _ GcScope) (Object, *Exception) {
	return OrdinaryGetPrototypeOf(a, e), nil
}

// SetPrototypeOf implements InternalMethods.
func (e EmbedderObject) SetPrototypeOf(a *Agent, _ GcScope, proto Object) (bool, *Exception) {
	return OrdinarySetPrototypeOf(a, e, proto), nil
}

// IsExtensible implements InternalMethods.
func (e EmbedderObject) IsExtensible(a *Agent, _ GcScope) (bool, *Exception) {
	return OrdinaryIsExtensible(a, e), nil
}

// PreventExtensions implements InternalMethods.
func (e EmbedderObject) PreventExtensions(a *Agent, _ GcScope) (bool, *Exception) {
	return OrdinaryPreventExtensions(a, e), nil
}

// GetOwnProperty implements InternalMethods.
func (e EmbedderObject) GetOwnProperty(a *Agent, _ GcScope, key PropertyKey) (PropertyDescriptor, bool, *Exception) {
	desc, ok := OrdinaryGetOwnProperty(a, e, key)
	return desc, ok, nil
}

// DefineOwnProperty implements InternalMethods.
func (e EmbedderObject) DefineOwnProperty(a *Agent, gc GcScope, key PropertyKey, desc PropertyDescriptor) (bool, *Exception) {
	return OrdinaryDefineOwnProperty(a, gc, e, key, desc)
}

// HasProperty implements InternalMethods.
func (e EmbedderObject) HasProperty(a *Agent, gc GcScope, key PropertyKey) (bool, *Exception) {
	return OrdinaryHasProperty(a, gc, e, key)
}

// Get implements InternalMethods.
func (e EmbedderObject) Get(a *Agent, gc GcScope, key PropertyKey, receiver Value) (Value, *Exception) {
	return OrdinaryGet(a, gc, e, key, receiver)
}

// Set implements InternalMethods.
func (e EmbedderObject) Set(a *Agent, gc GcScope, key PropertyKey, v, receiver Value) (bool, *Exception) {
	return OrdinarySet(a, gc, e, key, v, receiver)
}

// Delete implements InternalMethods.
func (e EmbedderObject) Delete(a *Agent, gc GcScope, key PropertyKey) (bool, *Exception) {
	return OrdinaryDelete(a, gc, e, key)
}

// OwnPropertyKeys implements InternalMethods.
func (e EmbedderObject) OwnPropertyKeys(a *Agent, _ GcScope) ([]PropertyKey, *Exception) {
	return OrdinaryOwnPropertyKeys(a, e), nil
}

// MarkValues implements HeapMarkAndSweep.
func (e EmbedderObject) MarkValues(q *WorkQueues) { q.Embedders.Push(e.index()) }

// SweepValues implements HeapMarkAndSweep.
func (e *EmbedderObject) SweepValues(c *CompactionLists) {
	c.Embedders.ShiftIndex((*uint32)(e))
}
