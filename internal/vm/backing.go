package vm

// Exotic kinds keep their ordinary slots in a lazily created backing object.
// Until it exists the kind reports the defaults below.

func backingExtensible(a *Agent, backing OrdinaryObject) bool {
	if backing == 0 {
		return true
	}
	return a.ObjectData(backing).Extensible
}

func backingPrototype(a *Agent, backing OrdinaryObject, def Object) Object {
	if backing == 0 {
		return def
	}
	return a.ObjectData(backing).Prototype
}

// newBacking allocates an empty extensible backing object.
func newBacking(a *Agent, proto Object) OrdinaryObject {
	return a.allocObject(ObjectHeapData{Prototype: proto, Extensible: true})
}

func setBackingExtensible(a *Agent, o InternalSlots, v bool) {
	if v {
		if _, ok := o.BackingObject(a); !ok {
			return
		}
	}
	a.ObjectData(o.CreateBackingObject(a)).Extensible = v
}

func setBackingPrototype(a *Agent, o InternalSlots, def, proto Object) {
	if _, ok := o.BackingObject(a); !ok && proto == def {
		return
	}
	a.ObjectData(o.CreateBackingObject(a)).Prototype = proto
}

func checkBackingUnset(kind string, index uint32, current OrdinaryObject) {
	if current != 0 {
		fatalHandle(PanicBackingObject, kind, index, "backing object already set")
	}
}
