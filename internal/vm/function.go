package vm

import "github.com/JamesPatrickGill/nova/internal/heap"

var nameKey = StringKey("name")

// Behaviour is the Go body of a builtin function.
type Behaviour func(a *Agent, gc GcScope, this Value, args []Value) (Value, *Exception)

// BuiltinFunctionHeapData is the payload of a builtin function object.
// "length" and "name" are served from Length and Name until a backing object
// exists; creating it turns them into ordinary properties.
type BuiltinFunctionHeapData struct {
	Backing   OrdinaryObject
	Name      string
	Length    uint32
	Behaviour Behaviour
}

// MarkValues implements HeapMarkAndSweep.
func (d *BuiltinFunctionHeapData) MarkValues(q *WorkQueues) { d.Backing.MarkValues(q) }

// SweepValues implements HeapMarkAndSweep.
func (d *BuiltinFunctionHeapData) SweepValues(c *CompactionLists) { d.Backing.SweepValues(c) }

// BuiltinFunction is a handle to a builtin function object.
type BuiltinFunction heap.Index[BuiltinFunctionHeapData]

func (f BuiltinFunction) index() heap.Index[BuiltinFunctionHeapData] {
	return heap.Index[BuiltinFunctionHeapData](f)
}

// Object widens f to the Object union.
func (f BuiltinFunction) Object() Object { return Object{Kind: OKFunction, h: uint32(f)} }

// Value widens f to the Value union.
func (f BuiltinFunction) Value() Value { return Value{Kind: VKFunction, h: uint32(f)} }

// Call runs the behaviour. A function without one returns undefined.
func (f BuiltinFunction) Call(a *Agent, gc GcScope, this Value, args []Value) (Value, *Exception) {
	b := a.FunctionData(f).Behaviour
	if b == nil {
		return Undefined, nil
	}
	return b(a, gc, this, args)
}

// BackingObject implements InternalSlots.
func (f BuiltinFunction) BackingObject(a *Agent) (OrdinaryObject, bool) {
	b := a.FunctionData(f).Backing
	return b, b != 0
}

// SetBackingObject implements InternalSlots.
func (f BuiltinFunction) SetBackingObject(a *Agent, backing OrdinaryObject) {
	d := a.FunctionData(f)
	checkBackingUnset(kindFunction, uint32(f), d.Backing)
	d.Backing = backing
}

// CreateBackingObject materializes "length" and "name" as ordinary
// properties of a new backing object.
func (f BuiltinFunction) CreateBackingObject(a *Agent) OrdinaryObject {
	if b, ok := f.BackingObject(a); ok {
		return b
	}
	b := newBacking(a, a.Intrinsics().FunctionPrototype.Object())
	d := a.FunctionData(f)
	props := &a.ObjectData(b).Properties
	props.Put(lengthKey, Property{Value: MakeNumber(float64(d.Length)), Configurable: true})
	props.Put(nameKey, Property{Value: MakeString(d.Name), Configurable: true})
	d.Backing = b
	return b
}

// Extensible implements InternalSlots.
func (f BuiltinFunction) Extensible(a *Agent) bool {
	return backingExtensible(a, a.FunctionData(f).Backing)
}

// SetExtensible implements InternalSlots.
func (f BuiltinFunction) SetExtensible(a *Agent, v bool) { setBackingExtensible(a, f, v) }

// Prototype implements InternalSlots.
func (f BuiltinFunction) Prototype(a *Agent) Object {
	return backingPrototype(a, a.FunctionData(f).Backing, a.Intrinsics().FunctionPrototype.Object())
}

// SetPrototype implements InternalSlots.
func (f BuiltinFunction) SetPrototype(a *Agent, proto Object) {
	setBackingPrototype(a, f, a.Intrinsics().FunctionPrototype.Object(), proto)
}

// GetPrototypeOf implements InternalMethods.
func (f BuiltinFunction) GetPrototypeOf(a *Agent, _ GcScope) (Object, *Exception) {
	return OrdinaryGetPrototypeOf(a, f), nil
}

// SetPrototypeOf implements InternalMethods.
func (f BuiltinFunction) SetPrototypeOf(a *Agent, _ GcScope, proto Object) (bool, *Exception) {
	return OrdinarySetPrototypeOf(a, f, proto), nil
}

// IsExtensible implements InternalMethods.
func (f BuiltinFunction) IsExtensible(a *Agent, _ GcScope) (bool, *Exception) {
	return OrdinaryIsExtensible(a, f), nil
}

// PreventExtensions implements InternalMethods.
func (f BuiltinFunction) PreventExtensions(a *Agent, _ GcScope) (bool, *Exception) {
	return OrdinaryPreventExtensions(a, f), nil
}

func (f BuiltinFunction) intrinsicProperty(a *Agent, key PropertyKey) (PropertyDescriptor, bool) {
	d := a.FunctionData(f)
	switch key {
	case lengthKey:
		return DataDescriptor(MakeNumber(float64(d.Length)), false, false, true), true
	case nameKey:
		return DataDescriptor(MakeString(d.Name), false, false, true), true
	}
	return PropertyDescriptor{}, false
}

// GetOwnProperty implements InternalMethods.
func (f BuiltinFunction) GetOwnProperty(a *Agent, _ GcScope, key PropertyKey) (PropertyDescriptor, bool, *Exception) {
	if _, ok := f.BackingObject(a); !ok {
		desc, has := f.intrinsicProperty(a, key)
		return desc, has, nil
	}
	desc, ok := OrdinaryGetOwnProperty(a, f, key)
	return desc, ok, nil
}

// DefineOwnProperty implements InternalMethods.
func (f BuiltinFunction) DefineOwnProperty(a *Agent, gc GcScope, key PropertyKey, desc PropertyDescriptor) (bool, *Exception) {
	f.CreateBackingObject(a)
	return OrdinaryDefineOwnProperty(a, gc, f, key, desc)
}

// HasProperty implements InternalMethods.
func (f BuiltinFunction) HasProperty(a *Agent, gc GcScope, key PropertyKey) (bool, *Exception) {
	return OrdinaryHasProperty(a, gc, f, key)
}

// Get implements InternalMethods.
func (f BuiltinFunction) Get(a *Agent, gc GcScope, key PropertyKey, receiver Value) (Value, *Exception) {
	return OrdinaryGet(a, gc, f, key, receiver)
}

// Set implements InternalMethods.
func (f BuiltinFunction) Set(a *Agent, gc GcScope, key PropertyKey, v, receiver Value) (bool, *Exception) {
	return OrdinarySet(a, gc, f, key, v, receiver)
}

// Delete implements InternalMethods.
func (f BuiltinFunction) Delete(a *Agent, gc GcScope, key PropertyKey) (bool, *Exception) {
	if _, ok := f.intrinsicProperty(a, key); ok {
		f.CreateBackingObject(a)
	}
	return OrdinaryDelete(a, gc, f, key)
}

// OwnPropertyKeys implements InternalMethods.
func (f BuiltinFunction) OwnPropertyKeys(a *Agent, _ GcScope) ([]PropertyKey, *Exception) {
	if _, ok := f.BackingObject(a); !ok {
		return []PropertyKey{lengthKey, nameKey}, nil
	}
	return OrdinaryOwnPropertyKeys(a, f), nil
}

// MarkValues implements HeapMarkAndSweep.
func (f BuiltinFunction) MarkValues(q *WorkQueues) { q.Functions.Push(f.index()) }

// SweepValues implements HeapMarkAndSweep.
func (f *BuiltinFunction) SweepValues(c *CompactionLists) {
	c.Functions.ShiftIndex((*uint32)(f))
}
