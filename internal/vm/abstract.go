package vm

import "fmt"

// Call invokes f with the given this value and arguments.
func Call(a *Agent, gc GcScope, f, this Value, args ...Value) (Value, *Exception) {
	obj, ok := f.AsObject()
	if !ok || !obj.IsCallable() {
		return Undefined, a.NewTypeError(fmt.Sprintf("%s is not a function", f))
	}
	fn, _ := obj.AsFunction()
	return fn.Call(a, gc, this, args)
}

// CreateDataProperty defines a writable, enumerable, configurable data
// property.
func CreateDataProperty(a *Agent, gc GcScope, o Object, key PropertyKey, v Value) (bool, *Exception) {
	return o.DefineOwnProperty(a, gc, key, DataDescriptor(v, true, true, true))
}

// CreateDataPropertyOrThrow is CreateDataProperty with a TypeError on failure.
func CreateDataPropertyOrThrow(a *Agent, gc GcScope, o Object, key PropertyKey, v Value) *Exception {
	ok, exc := CreateDataProperty(a, gc, o, key, v)
	if exc != nil {
		return exc
	}
	if !ok {
		return a.NewTypeError(fmt.Sprintf("cannot define property %s", key))
	}
	return nil
}

// DefinePropertyOrThrow is [[DefineOwnProperty]] with a TypeError on failure.
func DefinePropertyOrThrow(a *Agent, gc GcScope, o Object, key PropertyKey, desc PropertyDescriptor) *Exception {
	ok, exc := o.DefineOwnProperty(a, gc, key, desc)
	if exc != nil {
		return exc
	}
	if !ok {
		return a.NewTypeError(fmt.Sprintf("cannot redefine property %s", key))
	}
	return nil
}

// DeletePropertyOrThrow is [[Delete]] with a TypeError on failure.
func DeletePropertyOrThrow(a *Agent, gc GcScope, o Object, key PropertyKey) *Exception {
	ok, exc := o.Delete(a, gc, key)
	if exc != nil {
		return exc
	}
	if !ok {
		return a.NewTypeError(fmt.Sprintf("cannot delete property %s", key))
	}
	return nil
}

// GetProperty reads key with o as the receiver.
func GetProperty(a *Agent, gc GcScope, o Object, key PropertyKey) (Value, *Exception) {
	return o.Get(a, gc, key, o.Value())
}

// SetProperty writes key with o as the receiver. With throw set, a rejected
// write becomes a TypeError, as in strict mode code.
func SetProperty(a *Agent, gc GcScope, o Object, key PropertyKey, v Value, throw bool) *Exception {
	ok, exc := o.Set(a, gc, key, v, o.Value())
	if exc != nil {
		return exc
	}
	if !ok && throw {
		return a.NewTypeError(fmt.Sprintf("cannot assign to property %s", key))
	}
	return nil
}

// SetOrThrow is SetProperty in strict mode.
func SetOrThrow(a *Agent, gc GcScope, o Object, key PropertyKey, v Value) *Exception {
	return SetProperty(a, gc, o, key, v, true)
}

// GetV reads key from v. Primitives other than undefined and null have no
// wrapper prototypes in this heap and read as undefined.
func GetV(a *Agent, gc GcScope, v Value, key PropertyKey) (Value, *Exception) {
	if o, ok := v.AsObject(); ok {
		return o.Get(a, gc, key, v)
	}
	if v.IsUndefined() || v.IsNull() {
		return Undefined, a.NewTypeError(fmt.Sprintf("cannot read property %s of %s", key, v))
	}
	return Undefined, nil
}

// HasOwnProperty reports whether o has an own property key.
func HasOwnProperty(a *Agent, gc GcScope, o Object, key PropertyKey) (bool, *Exception) {
	_, has, exc := o.GetOwnProperty(a, gc, key)
	return has, exc
}

// IntegrityLevel selects SetIntegrityLevel's strength.
type IntegrityLevel uint8

const (
	// Sealed makes every own property non-configurable.
	Sealed IntegrityLevel = iota + 1
	// Frozen additionally makes data properties read-only.
	Frozen
)

// SetIntegrityLevel prevents extensions and locks down every own property.
func SetIntegrityLevel(a *Agent, gc GcScope, o Object, level IntegrityLevel) (bool, *Exception) {
	ok, exc := o.PreventExtensions(a, gc)
	if exc != nil || !ok {
		return false, exc
	}
	keys, exc := o.OwnPropertyKeys(a, gc)
	if exc != nil {
		return false, exc
	}
	for _, k := range keys {
		desc := PropertyDescriptor{Configurable: FlagFalse}
		if level == Frozen {
			current, has, exc := o.GetOwnProperty(a, gc, k)
			if exc != nil {
				return false, exc
			}
			if !has {
				continue
			}
			if !current.IsAccessor() {
				desc.Writable = FlagFalse
			}
		}
		if exc := DefinePropertyOrThrow(a, gc, o, k, desc); exc != nil {
			return false, exc
		}
	}
	return true, nil
}

// TestIntegrityLevel reports whether o is sealed or frozen.
func TestIntegrityLevel(a *Agent, gc GcScope, o Object, level IntegrityLevel) (bool, *Exception) {
	extensible, exc := o.IsExtensible(a, gc)
	if exc != nil || extensible {
		return false, exc
	}
	keys, exc := o.OwnPropertyKeys(a, gc)
	if exc != nil {
		return false, exc
	}
	for _, k := range keys {
		current, has, exc := o.GetOwnProperty(a, gc, k)
		if exc != nil {
			return false, exc
		}
		if !has {
			continue
		}
		if current.Configurable.Bool() {
			return false, nil
		}
		if level == Frozen && current.IsData() && current.Writable.Bool() {
			return false, nil
		}
	}
	return true, nil
}
