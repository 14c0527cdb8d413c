package vm

// The Ordinary* functions are the default internal-method algorithms. Kinds
// that do not override an operation forward to these, passing themselves so
// that nested steps dispatch back through their own overrides.

func ordinaryStorage(a *Agent, o InternalSlots) *PropertyStorage {
	backing, ok := o.BackingObject(a)
	if !ok {
		return nil
	}
	return &a.ObjectData(backing).Properties
}

func ordinaryStorageOrCreate(a *Agent, o InternalSlots) *PropertyStorage {
	return &a.ObjectData(o.CreateBackingObject(a)).Properties
}

// OrdinaryGetPrototypeOf returns the prototype slot.
func OrdinaryGetPrototypeOf(a *Agent, o InternalSlots) Object {
	return o.Prototype(a)
}

// OrdinarySetPrototypeOf updates the prototype slot unless the object is not
// extensible or the new chain would contain o.
func OrdinarySetPrototypeOf(a *Agent, o InternalSlots, proto Object) bool {
	current := o.Prototype(a)
	if proto == current {
		return true
	}
	if !o.Extensible(a) {
		return false
	}
	self := o.Object()
	for p := proto; !p.IsNull(); {
		if p == self {
			return false
		}
		// Every kind in this heap uses the ordinary [[GetPrototypeOf]], so
		// the chain can be followed through the slots directly.
		p = p.Methods().Prototype(a)
	}
	o.SetPrototype(a, proto)
	return true
}

// OrdinaryIsExtensible returns the extensible slot.
func OrdinaryIsExtensible(a *Agent, o InternalSlots) bool {
	return o.Extensible(a)
}

// OrdinaryPreventExtensions clears the extensible slot and reports success.
func OrdinaryPreventExtensions(a *Agent, o InternalSlots) bool {
	o.SetExtensible(a, false)
	return true
}

// OrdinaryGetOwnProperty reads the ordinary backing store.
func OrdinaryGetOwnProperty(a *Agent, o InternalSlots, key PropertyKey) (PropertyDescriptor, bool) {
	storage := ordinaryStorage(a, o)
	if storage == nil {
		return PropertyDescriptor{}, false
	}
	p, ok := storage.Lookup(key)
	if !ok {
		return PropertyDescriptor{}, false
	}
	return p.Descriptor(), true
}

// OrdinaryDefineOwnProperty validates desc against the current property and
// applies it.
func OrdinaryDefineOwnProperty(a *Agent, gc GcScope, o InternalMethods, key PropertyKey, desc PropertyDescriptor) (bool, *Exception) {
	current, has, exc := o.GetOwnProperty(a, gc, key)
	if exc != nil {
		return false, exc
	}
	extensible, exc := o.IsExtensible(a, gc)
	if exc != nil {
		return false, exc
	}
	return ValidateAndApplyPropertyDescriptor(a, o, key, extensible, desc, current, has), nil
}

// ValidateAndApplyPropertyDescriptor checks whether desc may replace current
// and, when o is non-nil, writes the result into o's ordinary storage.
func ValidateAndApplyPropertyDescriptor(a *Agent, o InternalSlots, key PropertyKey, extensible bool, desc, current PropertyDescriptor, hasCurrent bool) bool {
	if !hasCurrent {
		if !extensible {
			return false
		}
		if o == nil {
			return true
		}
		storage := ordinaryStorageOrCreate(a, o)
		if desc.IsAccessor() {
			storage.Put(key, Property{
				Accessor:     true,
				Get:          desc.Get,
				Set:          desc.Set,
				Enumerable:   desc.Enumerable.Bool(),
				Configurable: desc.Configurable.Bool(),
			})
		} else {
			storage.Put(key, Property{
				Value:        desc.Value,
				Writable:     desc.Writable.Bool(),
				Enumerable:   desc.Enumerable.Bool(),
				Configurable: desc.Configurable.Bool(),
			})
		}
		return true
	}

	if desc.IsEmpty() {
		return true
	}

	if !current.Configurable.Bool() {
		if desc.Configurable.Bool() {
			return false
		}
		if desc.Enumerable.IsSet() && desc.Enumerable != current.Enumerable {
			return false
		}
		if !desc.IsGeneric() && desc.IsAccessor() != current.IsAccessor() {
			return false
		}
		if current.IsAccessor() {
			if desc.HasGet && !SameValue(desc.Get, current.Get) {
				return false
			}
			if desc.HasSet && !SameValue(desc.Set, current.Set) {
				return false
			}
		} else if !current.Writable.Bool() {
			if desc.Writable.Bool() {
				return false
			}
			if desc.HasValue && !SameValue(desc.Value, current.Value) {
				return false
			}
		}
	}

	if o == nil {
		return true
	}

	enumerable := current.Enumerable.Bool()
	if desc.Enumerable.IsSet() {
		enumerable = desc.Enumerable.Bool()
	}
	configurable := current.Configurable.Bool()
	if desc.Configurable.IsSet() {
		configurable = desc.Configurable.Bool()
	}

	var next Property
	switch {
	case current.IsData() && desc.IsAccessor():
		next = Property{Accessor: true, Get: desc.Get, Set: desc.Set}
	case current.IsAccessor() && desc.IsData():
		next = Property{Value: desc.Value, Writable: desc.Writable.Bool()}
	case current.IsAccessor():
		next = Property{Accessor: true, Get: current.Get, Set: current.Set}
		if desc.HasGet {
			next.Get = desc.Get
		}
		if desc.HasSet {
			next.Set = desc.Set
		}
	default:
		next = Property{Value: current.Value, Writable: current.Writable.Bool()}
		if desc.HasValue {
			next.Value = desc.Value
		}
		if desc.Writable.IsSet() {
			next.Writable = desc.Writable.Bool()
		}
	}
	next.Enumerable = enumerable
	next.Configurable = configurable
	ordinaryStorageOrCreate(a, o).Put(key, next)
	return true
}

// OrdinaryHasProperty looks for key on o and then along the prototype chain.
func OrdinaryHasProperty(a *Agent, gc GcScope, o InternalMethods, key PropertyKey) (bool, *Exception) {
	_, has, exc := o.GetOwnProperty(a, gc, key)
	if exc != nil || has {
		return has, exc
	}
	parent, exc := o.GetPrototypeOf(a, gc)
	if exc != nil || parent.IsNull() {
		return false, exc
	}
	return parent.HasProperty(a, gc, key)
}

// OrdinaryGet reads key, walking the prototype chain and calling getters with
// receiver as this.
func OrdinaryGet(a *Agent, gc GcScope, o InternalMethods, key PropertyKey, receiver Value) (Value, *Exception) {
	desc, has, exc := o.GetOwnProperty(a, gc, key)
	if exc != nil {
		return Undefined, exc
	}
	if !has {
		parent, exc := o.GetPrototypeOf(a, gc)
		if exc != nil || parent.IsNull() {
			return Undefined, exc
		}
		return parent.Get(a, gc, key, receiver)
	}
	if desc.IsData() {
		return desc.Value, nil
	}
	if desc.Get.IsUndefined() {
		return Undefined, nil
	}
	return Call(a, gc, desc.Get, receiver)
}

// OrdinarySet writes key, honouring inherited setters and read-only
// properties.
func OrdinarySet(a *Agent, gc GcScope, o InternalMethods, key PropertyKey, v, receiver Value) (bool, *Exception) {
	ownDesc, has, exc := o.GetOwnProperty(a, gc, key)
	if exc != nil {
		return false, exc
	}
	return OrdinarySetWithOwnDescriptor(a, gc, o, key, v, receiver, ownDesc, has)
}

// OrdinarySetWithOwnDescriptor is the shared tail of [[Set]].
func OrdinarySetWithOwnDescriptor(a *Agent, gc GcScope, o InternalMethods, key PropertyKey, v, receiver Value, ownDesc PropertyDescriptor, has bool) (bool, *Exception) {
	if !has {
		parent, exc := o.GetPrototypeOf(a, gc)
		if exc != nil {
			return false, exc
		}
		if !parent.IsNull() {
			return parent.Set(a, gc, key, v, receiver)
		}
		ownDesc = DataDescriptor(Undefined, true, true, true)
	}

	if ownDesc.IsData() {
		if !ownDesc.Writable.Bool() {
			return false, nil
		}
		target, ok := receiver.AsObject()
		if !ok {
			return false, nil
		}
		existing, hasExisting, exc := target.GetOwnProperty(a, gc, key)
		if exc != nil {
			return false, exc
		}
		if hasExisting {
			if existing.IsAccessor() || !existing.Writable.Bool() {
				return false, nil
			}
			return target.DefineOwnProperty(a, gc, key, PropertyDescriptor{Value: v, HasValue: true})
		}
		return CreateDataProperty(a, gc, target, key, v)
	}

	if ownDesc.Set.IsUndefined() {
		return false, nil
	}
	if _, exc := Call(a, gc, ownDesc.Set, receiver, v); exc != nil {
		return false, exc
	}
	return true, nil
}

// OrdinaryDelete removes a configurable own property.
func OrdinaryDelete(a *Agent, gc GcScope, o InternalMethods, key PropertyKey) (bool, *Exception) {
	desc, has, exc := o.GetOwnProperty(a, gc, key)
	if exc != nil {
		return false, exc
	}
	if !has {
		return true, nil
	}
	if !desc.Configurable.Bool() {
		return false, nil
	}
	if storage := ordinaryStorage(a, o); storage != nil {
		storage.Remove(key)
	}
	return true, nil
}

// OrdinaryOwnPropertyKeys lists the ordinary backing store's keys.
func OrdinaryOwnPropertyKeys(a *Agent, o InternalSlots) []PropertyKey {
	storage := ordinaryStorage(a, o)
	if storage == nil {
		return nil
	}
	return storage.Keys()
}
