package vm

import "github.com/JamesPatrickGill/nova/internal/heap"

// ObjectHeapData is the payload of an ordinary object. It doubles as the
// backing store of every exotic kind.
type ObjectHeapData struct {
	Prototype  Object
	Extensible bool
	Properties PropertyStorage
}

// MarkValues implements HeapMarkAndSweep.
func (d *ObjectHeapData) MarkValues(q *WorkQueues) {
	d.Prototype.MarkValues(q)
	d.Properties.MarkValues(q)
}

// SweepValues implements HeapMarkAndSweep.
func (d *ObjectHeapData) SweepValues(c *CompactionLists) {
	d.Prototype.SweepValues(c)
	d.Properties.SweepValues(c)
}

// OrdinaryObject is a handle to an ordinary object.
type OrdinaryObject heap.Index[ObjectHeapData]

func (o OrdinaryObject) index() heap.Index[ObjectHeapData] { return heap.Index[ObjectHeapData](o) }

// Object widens o to the Object union.
func (o OrdinaryObject) Object() Object { return Object{Kind: OKOrdinary, h: uint32(o)} }

// Value widens o to the Value union.
func (o OrdinaryObject) Value() Value { return Value{Kind: VKObject, h: uint32(o)} }

// BackingObject returns o itself: ordinary objects are their own storage.
func (o OrdinaryObject) BackingObject(*Agent) (OrdinaryObject, bool) { return o, true }

// SetBackingObject is never valid on an ordinary object.
func (o OrdinaryObject) SetBackingObject(*Agent, OrdinaryObject) {
	fatalHandle(PanicBackingObject, kindObject, uint32(o), "ordinary object has no separate backing store")
}

// CreateBackingObject returns o itself.
func (o OrdinaryObject) CreateBackingObject(*Agent) OrdinaryObject { return o }

// Extensible implements InternalSlots.
func (o OrdinaryObject) Extensible(a *Agent) bool { return a.ObjectData(o).Extensible }

// SetExtensible implements InternalSlots.
func (o OrdinaryObject) SetExtensible(a *Agent, v bool) { a.ObjectData(o).Extensible = v }

// Prototype implements InternalSlots.
func (o OrdinaryObject) Prototype(a *Agent) Object { return a.ObjectData(o).Prototype }

// SetPrototype implements InternalSlots.
func (o OrdinaryObject) SetPrototype(a *Agent, proto Object) { a.ObjectData(o).Prototype = proto }

// GetPrototypeOf implements InternalMethods.
func (o OrdinaryObject) GetPrototypeOf(a *Agent, _ GcScope) (Object, *Exception) {
	return OrdinaryGetPrototypeOf(a, o), nil
}

// SetPrototypeOf implements InternalMethods.
func (o OrdinaryObject) SetPrototypeOf(a *Agent, _ GcScope, proto Object) (bool, *Exception) {
	return OrdinarySetPrototypeOf(a, o, proto), nil
}

// IsExtensible implements InternalMethods.
func (o OrdinaryObject) IsExtensible(a *Agent, _ GcScope) (bool, *Exception) {
	return OrdinaryIsExtensible(a, o), nil
}

// PreventExtensions implements InternalMethods.
func (o OrdinaryObject) PreventExtensions(a *Agent, _ GcScope) (bool, *Exception) {
	return OrdinaryPreventExtensions(a, o), nil
}

// GetOwnProperty implements InternalMethods.
func (o OrdinaryObject) GetOwnProperty(a *Agent, _ GcScope, key PropertyKey) (PropertyDescriptor, bool, *Exception) {
	desc, ok := OrdinaryGetOwnProperty(a, o, key)
	return desc, ok, nil
}

// DefineOwnProperty implements InternalMethods.
func (o OrdinaryObject) DefineOwnProperty(a *Agent, gc GcScope, key PropertyKey, desc PropertyDescriptor) (bool, *Exception) {
	return OrdinaryDefineOwnProperty(a, gc, o, key, desc)
}

// HasProperty implements InternalMethods.
func (o OrdinaryObject) HasProperty(a *Agent, gc GcScope, key PropertyKey) (bool, *Exception) {
	return OrdinaryHasProperty(a, gc, o, key)
}

// Get implements InternalMethods.
func (o OrdinaryObject) Get(a *Agent, gc GcScope, key PropertyKey, receiver Value) (Value, *Exception) {
	return OrdinaryGet(a, gc, o, key, receiver)
}

// Set implements InternalMethods.
func (o OrdinaryObject) Set(a *Agent, gc GcScope, key PropertyKey, v, receiver Value) (bool, *Exception) {
	return OrdinarySet(a, gc, o, key, v, receiver)
}

// Delete implements InternalMethods.
func (o OrdinaryObject) Delete(a *Agent, gc GcScope, key PropertyKey) (bool, *Exception) {
	return OrdinaryDelete(a, gc, o, key)
}

// OwnPropertyKeys implements InternalMethods.
func (o OrdinaryObject) OwnPropertyKeys(a *Agent, _ GcScope) ([]PropertyKey, *Exception) {
	return OrdinaryOwnPropertyKeys(a, o), nil
}

// MarkValues implements HeapMarkAndSweep.
func (o OrdinaryObject) MarkValues(q *WorkQueues) { q.Objects.Push(o.index()) }

// SweepValues implements HeapMarkAndSweep.
func (o *OrdinaryObject) SweepValues(c *CompactionLists) {
	c.Objects.ShiftIndex((*uint32)(o))
}
