package vm

import (
	"fmt"
	"math"
	"slices"

	"github.com/JamesPatrickGill/nova/internal/heap"
)

var lengthKey = StringKey("length")

// ArrayHeapData is the payload of an array exotic object. Elements and any
// other ordinary properties live in the backing object.
type ArrayHeapData struct {
	Backing        OrdinaryObject
	Length         uint32
	LengthWritable bool
}

// MarkValues implements HeapMarkAndSweep.
func (d *ArrayHeapData) MarkValues(q *WorkQueues) { d.Backing.MarkValues(q) }

// SweepValues implements HeapMarkAndSweep.
func (d *ArrayHeapData) SweepValues(c *CompactionLists) { d.Backing.SweepValues(c) }

// Array is a handle to an array exotic object.
type Array heap.Index[ArrayHeapData]

func (arr Array) index() heap.Index[ArrayHeapData] { return heap.Index[ArrayHeapData](arr) }

// Object widens arr to the Object union.
func (arr Array) Object() Object { return Object{Kind: OKArray, h: uint32(arr)} }

// Value widens arr to the Value union.
func (arr Array) Value() Value { return Value{Kind: VKArray, h: uint32(arr)} }

// Len returns the length slot.
func (arr Array) Len(a *Agent) uint32 { return a.ArrayData(arr).Length }

// BackingObject implements InternalSlots.
func (arr Array) BackingObject(a *Agent) (OrdinaryObject, bool) {
	b := a.ArrayData(arr).Backing
	return b, b != 0
}

// SetBackingObject implements InternalSlots.
func (arr Array) SetBackingObject(a *Agent, backing OrdinaryObject) {
	d := a.ArrayData(arr)
	checkBackingUnset(kindArray, uint32(arr), d.Backing)
	d.Backing = backing
}

// CreateBackingObject implements InternalSlots.
func (arr Array) CreateBackingObject(a *Agent) OrdinaryObject {
	if b, ok := arr.BackingObject(a); ok {
		return b
	}
	b := newBacking(a, a.Intrinsics().ArrayPrototype.Object())
	arr.SetBackingObject(a, b)
	return b
}

// Extensible implements InternalSlots.
func (arr Array) Extensible(a *Agent) bool {
	return backingExtensible(a, a.ArrayData(arr).Backing)
}

// SetExtensible implements InternalSlots.
func (arr Array) SetExtensible(a *Agent, v bool) { setBackingExtensible(a, arr, v) }

// Prototype implements InternalSlots.
func (arr Array) Prototype(a *Agent) Object {
	return backingPrototype(a, a.ArrayData(arr).Backing, a.Intrinsics().ArrayPrototype.Object())
}

// SetPrototype implements InternalSlots.
func (arr Array) SetPrototype(a *Agent, proto Object) {
	setBackingPrototype(a, arr, a.Intrinsics().ArrayPrototype.Object(), proto)
}

// GetPrototypeOf implements InternalMethods.
func (arr Array) GetPrototypeOf(a *Agent, _ GcScope) (Object, *Exception) {
	return OrdinaryGetPrototypeOf(a, arr), nil
}

// SetPrototypeOf implements InternalMethods.
func (arr Array) SetPrototypeOf(a *Agent, _ GcScope, proto Object) (bool, *Exception) {
	return OrdinarySetPrototypeOf(a, arr, proto), nil
}

// IsExtensible implements InternalMethods.
func (arr Array) IsExtensible(a *Agent, _ GcScope) (bool, *Exception) {
	return OrdinaryIsExtensible(a, arr), nil
}

// PreventExtensions implements InternalMethods.
func (arr Array) PreventExtensions(a *Agent, _ GcScope) (bool, *Exception) {
	return OrdinaryPreventExtensions(a, arr), nil
}

func (arr Array) lengthDescriptor(a *Agent) PropertyDescriptor {
	d := a.ArrayData(arr)
	return DataDescriptor(MakeNumber(float64(d.Length)), d.LengthWritable, false, false)
}

// GetOwnProperty reports "length" from the length slot and everything else
// from the backing object.
func (arr Array) GetOwnProperty(a *Agent, _ GcScope, key PropertyKey) (PropertyDescriptor, bool, *Exception) {
	if key == lengthKey {
		return arr.lengthDescriptor(a), true, nil
	}
	desc, ok := OrdinaryGetOwnProperty(a, arr, key)
	return desc, ok, nil
}

// DefineOwnProperty routes "length" through ArraySetLength and keeps the
// length slot ahead of every defined index.
func (arr Array) DefineOwnProperty(a *Agent, gc GcScope, key PropertyKey, desc PropertyDescriptor) (bool, *Exception) {
	if key == lengthKey {
		return ArraySetLength(a, gc, arr, desc)
	}
	if !key.IsArrayIndex() {
		return OrdinaryDefineOwnProperty(a, gc, arr, key, desc)
	}
	d := a.ArrayData(arr)
	if key.Index >= d.Length && !d.LengthWritable {
		return false, nil
	}
	ok, exc := OrdinaryDefineOwnProperty(a, gc, arr, key, desc)
	if exc != nil || !ok {
		return false, exc
	}
	// Re-read: the define may have allocated the backing object.
	if d = a.ArrayData(arr); key.Index >= d.Length {
		d.Length = key.Index + 1
	}
	return true, nil
}

// HasProperty implements InternalMethods.
func (arr Array) HasProperty(a *Agent, gc GcScope, key PropertyKey) (bool, *Exception) {
	return OrdinaryHasProperty(a, gc, arr, key)
}

// Get implements InternalMethods.
func (arr Array) Get(a *Agent, gc GcScope, key PropertyKey, receiver Value) (Value, *Exception) {
	if key == lengthKey {
		return MakeNumber(float64(a.ArrayData(arr).Length)), nil
	}
	return OrdinaryGet(a, gc, arr, key, receiver)
}

// Set implements InternalMethods.
func (arr Array) Set(a *Agent, gc GcScope, key PropertyKey, v, receiver Value) (bool, *Exception) {
	return OrdinarySet(a, gc, arr, key, v, receiver)
}

// Delete refuses to delete "length".
func (arr Array) Delete(a *Agent, gc GcScope, key PropertyKey) (bool, *Exception) {
	if key == lengthKey {
		return false, nil
	}
	return OrdinaryDelete(a, gc, arr, key)
}

// OwnPropertyKeys lists indices ascending, then "length", then the remaining
// string keys and symbols in creation order.
func (arr Array) OwnPropertyKeys(a *Agent, _ GcScope) ([]PropertyKey, *Exception) {
	keys := OrdinaryOwnPropertyKeys(a, arr)
	split := 0
	for split < len(keys) && keys[split].IsArrayIndex() {
		split++
	}
	return slices.Insert(keys, split, lengthKey), nil
}

// ArraySetLength applies a descriptor for "length", deleting trailing
// elements when the array shrinks. A value that is not a valid length is a
// RangeError.
func ArraySetLength(a *Agent, gc GcScope, arr Array, desc PropertyDescriptor) (bool, *Exception) {
	current := arr.lengthDescriptor(a)
	if !desc.HasValue {
		if !ValidateAndApplyPropertyDescriptor(a, nil, lengthKey, false, desc, current, true) {
			return false, nil
		}
		if desc.Writable == FlagFalse {
			a.ArrayData(arr).LengthWritable = false
		}
		return true, nil
	}

	newLen, exc := toArrayLength(a, desc.Value)
	if exc != nil {
		return false, exc
	}
	newLenDesc := desc
	newLenDesc.Value = MakeNumber(float64(newLen))

	d := a.ArrayData(arr)
	oldLen := d.Length
	if newLen >= oldLen {
		if !ValidateAndApplyPropertyDescriptor(a, nil, lengthKey, false, newLenDesc, current, true) {
			return false, nil
		}
		d.Length = newLen
		if desc.Writable == FlagFalse {
			d.LengthWritable = false
		}
		return true, nil
	}
	if !d.LengthWritable {
		return false, nil
	}

	newWritable := desc.Writable != FlagFalse
	newLenDesc.Writable = FlagTrue
	if !ValidateAndApplyPropertyDescriptor(a, nil, lengthKey, false, newLenDesc, current, true) {
		return false, nil
	}

	var doomed []uint32
	for _, k := range OrdinaryOwnPropertyKeys(a, arr) {
		if k.IsArrayIndex() && k.Index >= newLen {
			doomed = append(doomed, k.Index)
		}
	}
	for i := len(doomed) - 1; i >= 0; i-- {
		ok, exc := OrdinaryDelete(a, gc, arr, IndexKey(doomed[i]))
		if exc != nil {
			return false, exc
		}
		if !ok {
			d = a.ArrayData(arr)
			d.Length = doomed[i] + 1
			if !newWritable {
				d.LengthWritable = false
			}
			return false, nil
		}
	}

	d = a.ArrayData(arr)
	d.Length = newLen
	if !newWritable {
		d.LengthWritable = false
	}
	return true, nil
}

// toArrayLength is ToUint32 checked against ToNumber. Only primitives are
// accepted; objects would need ToPrimitive.
func toArrayLength(a *Agent, v Value) (uint32, *Exception) {
	n, exc := toNumber(a, v)
	if exc != nil {
		return 0, exc
	}
	if n < 0 || n > math.MaxUint32 || n != math.Trunc(n) {
		return 0, a.NewRangeError(fmt.Sprintf("invalid array length %s", formatNumber(n)))
	}
	return uint32(n), nil
}

func toNumber(a *Agent, v Value) (float64, *Exception) {
	switch v.Kind {
	case VKUndefined:
		return math.NaN(), nil
	case VKNull:
		return 0, nil
	case VKBool:
		if v.Bool {
			return 1, nil
		}
		return 0, nil
	case VKNumber:
		return v.Num, nil
	case VKString:
		return stringToNumber(v.Str), nil
	case VKSymbol:
		return 0, a.NewTypeError("cannot convert a symbol to a number")
	default:
		return 0, a.NewTypeError("cannot convert an object to a number without ToPrimitive")
	}
}

// MarkValues implements HeapMarkAndSweep.
func (arr Array) MarkValues(q *WorkQueues) { q.Arrays.Push(arr.index()) }

// SweepValues implements HeapMarkAndSweep.
func (arr *Array) SweepValues(c *CompactionLists) {
	c.Arrays.ShiftIndex((*uint32)(arr))
}
