package vm

import "fmt"

// ObjectKind identifies the variant of an Object.
type ObjectKind uint8

const (
	// OKNull marks the zero Object, used for a null prototype.
	OKNull ObjectKind = iota
	// OKOrdinary is an ordinary object.
	OKOrdinary
	// OKArray is an array exotic object.
	OKArray
	// OKFunction is a builtin function object.
	OKFunction
	// OKEmbedder is an embedder-defined object.
	OKEmbedder
)

// String returns a human-readable name for the object kind.
func (k ObjectKind) String() string {
	switch k {
	case OKNull:
		return "null"
	case OKOrdinary:
		return "object"
	case OKArray:
		return "array"
	case OKFunction:
		return "function"
	case OKEmbedder:
		return "embedder"
	default:
		return fmt.Sprintf("ObjectKind(%d)", k)
	}
}

// Object is the closed union over every object kind. The zero Object is the
// null prototype and must not be passed to a protocol operation.
type Object struct {
	Kind ObjectKind
	h    uint32
}

// IsNull reports whether o is the null prototype.
func (o Object) IsNull() bool { return o.Kind == OKNull }

// Handle returns the raw handle.
func (o Object) Handle() uint32 { return o.h }

// Value widens o to the Value union. The null Object becomes null.
func (o Object) Value() Value {
	switch o.Kind {
	case OKNull:
		return Null
	case OKOrdinary:
		return Value{Kind: VKObject, h: o.h}
	case OKArray:
		return Value{Kind: VKArray, h: o.h}
	case OKFunction:
		return Value{Kind: VKFunction, h: o.h}
	case OKEmbedder:
		return Value{Kind: VKEmbedder, h: o.h}
	default:
		fatal(PanicUnknownKind, fmt.Sprintf("object kind %d", o.Kind))
		return Undefined
	}
}

func (o Object) String() string {
	if o.IsNull() {
		return "null"
	}
	return fmt.Sprintf("%s#%d", o.Kind, o.h)
}

// Methods returns the per-kind implementation of the protocol.
func (o Object) Methods() InternalMethods {
	switch o.Kind {
	case OKOrdinary:
		return OrdinaryObject(o.h)
	case OKArray:
		return Array(o.h)
	case OKFunction:
		return BuiltinFunction(o.h)
	case OKEmbedder:
		return EmbedderObject(o.h)
	case OKNull:
		fatal(PanicUnknownKind, "protocol operation on null object")
	default:
		fatal(PanicUnknownKind, fmt.Sprintf("object kind %d", o.Kind))
	}
	return nil
}

// AsOrdinary narrows o to an OrdinaryObject handle.
func (o Object) AsOrdinary() (OrdinaryObject, bool) {
	if o.Kind != OKOrdinary {
		return 0, false
	}
	return OrdinaryObject(o.h), true
}

// AsArray narrows o to an Array handle.
func (o Object) AsArray() (Array, bool) {
	if o.Kind != OKArray {
		return 0, false
	}
	return Array(o.h), true
}

// AsFunction narrows o to a BuiltinFunction handle.
func (o Object) AsFunction() (BuiltinFunction, bool) {
	if o.Kind != OKFunction {
		return 0, false
	}
	return BuiltinFunction(o.h), true
}

// AsEmbedder narrows o to an EmbedderObject handle.
func (o Object) AsEmbedder() (EmbedderObject, bool) {
	if o.Kind != OKEmbedder {
		return 0, false
	}
	return EmbedderObject(o.h), true
}

// IsCallable reports whether o has a [[Call]] internal method.
func (o Object) IsCallable() bool { return o.Kind == OKFunction }

// GetPrototypeOf dispatches [[GetPrototypeOf]].
func (o Object) GetPrototypeOf(a *Agent, gc GcScope) (Object, *Exception) {
	return o.Methods().GetPrototypeOf(a, gc)
}

// SetPrototypeOf dispatches [[SetPrototypeOf]].
func (o Object) SetPrototypeOf(a *Agent, gc GcScope, proto Object) (bool, *Exception) {
	return o.Methods().SetPrototypeOf(a, gc, proto)
}

// IsExtensible dispatches [[IsExtensible]].
func (o Object) IsExtensible(a *Agent, gc GcScope) (bool, *Exception) {
	return o.Methods().IsExtensible(a, gc)
}

// PreventExtensions dispatches [[PreventExtensions]].
func (o Object) PreventExtensions(a *Agent, gc GcScope) (bool, *Exception) {
	return o.Methods().PreventExtensions(a, gc)
}

// GetOwnProperty dispatches [[GetOwnProperty]].
func (o Object) GetOwnProperty(a *Agent, gc GcScope, key PropertyKey) (PropertyDescriptor, bool, *Exception) {
	return o.Methods().GetOwnProperty(a, gc, key)
}

// DefineOwnProperty dispatches [[DefineOwnProperty]].
func (o Object) DefineOwnProperty(a *Agent, gc GcScope, key PropertyKey, desc PropertyDescriptor) (bool, *Exception) {
	return o.Methods().DefineOwnProperty(a, gc, key, desc)
}

// HasProperty dispatches [[HasProperty]].
func (o Object) HasProperty(a *Agent, gc GcScope, key PropertyKey) (bool, *Exception) {
	return o.Methods().HasProperty(a, gc, key)
}

// Get dispatches [[Get]].
func (o Object) Get(a *Agent, gc GcScope, key PropertyKey, receiver Value) (Value, *Exception) {
	return o.Methods().Get(a, gc, key, receiver)
}

// Set dispatches [[Set]].
func (o Object) Set(a *Agent, gc GcScope, key PropertyKey, v, receiver Value) (bool, *Exception) {
	return o.Methods().Set(a, gc, key, v, receiver)
}

// Delete dispatches [[Delete]].
func (o Object) Delete(a *Agent, gc GcScope, key PropertyKey) (bool, *Exception) {
	return o.Methods().Delete(a, gc, key)
}

// OwnPropertyKeys dispatches [[OwnPropertyKeys]].
func (o Object) OwnPropertyKeys(a *Agent, gc GcScope) ([]PropertyKey, *Exception) {
	return o.Methods().OwnPropertyKeys(a, gc)
}

// MarkValues implements HeapMarkAndSweep.
func (o Object) MarkValues(q *WorkQueues) {
	switch o.Kind {
	case OKNull:
	case OKOrdinary:
		OrdinaryObject(o.h).MarkValues(q)
	case OKArray:
		Array(o.h).MarkValues(q)
	case OKFunction:
		BuiltinFunction(o.h).MarkValues(q)
	case OKEmbedder:
		EmbedderObject(o.h).MarkValues(q)
	default:
		fatal(PanicUnknownKind, fmt.Sprintf("object kind %d", o.Kind))
	}
}

// SweepValues implements HeapMarkAndSweep.
func (o *Object) SweepValues(c *CompactionLists) {
	switch o.Kind {
	case OKNull:
	case OKOrdinary:
		c.Objects.ShiftIndex(&o.h)
	case OKArray:
		c.Arrays.ShiftIndex(&o.h)
	case OKFunction:
		c.Functions.ShiftIndex(&o.h)
	case OKEmbedder:
		c.Embedders.ShiftIndex(&o.h)
	default:
		fatal(PanicUnknownKind, fmt.Sprintf("object kind %d", o.Kind))
	}
}
