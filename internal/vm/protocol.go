package vm

// InternalSlots is the slot capability shared by every object kind: access to
// the generic backing store, the extensibility flag and the prototype link.
// Kinds without intrinsic ordinary storage create the backing store lazily.
type InternalSlots interface {
	Object() Object

	BackingObject(a *Agent) (OrdinaryObject, bool)
	SetBackingObject(a *Agent, backing OrdinaryObject)
	CreateBackingObject(a *Agent) OrdinaryObject

	Extensible(a *Agent) bool
	SetExtensible(a *Agent, v bool)

	Prototype(a *Agent) Object
	SetPrototype(a *Agent, proto Object)
}

// InternalMethods is the ECMAScript object-model surface. Every operation
// receives the GcScope because accessors and host behaviour may run script
// code; results are either a value or a script-visible *Exception.
type InternalMethods interface {
	InternalSlots

	GetPrototypeOf(a *Agent, gc GcScope) (Object, *Exception)
	SetPrototypeOf(a *Agent, gc GcScope, proto Object) (bool, *Exception)
	IsExtensible(a *Agent, gc GcScope) (bool, *Exception)
	PreventExtensions(a *Agent, gc GcScope) (bool, *Exception)
	GetOwnProperty(a *Agent, gc GcScope, key PropertyKey) (PropertyDescriptor, bool, *Exception)
	DefineOwnProperty(a *Agent, gc GcScope, key PropertyKey, desc PropertyDescriptor) (bool, *Exception)
	HasProperty(a *Agent, gc GcScope, key PropertyKey) (bool, *Exception)
	Get(a *Agent, gc GcScope, key PropertyKey, receiver Value) (Value, *Exception)
	Set(a *Agent, gc GcScope, key PropertyKey, v, receiver Value) (bool, *Exception)
	Delete(a *Agent, gc GcScope, key PropertyKey) (bool, *Exception)
	OwnPropertyKeys(a *Agent, gc GcScope) ([]PropertyKey, *Exception)
}

// HeapMarkAndSweep is implemented by everything that can hold a handle:
// handles, unions, payloads and root sources. MarkValues pushes reachable
// handles into the work queues; SweepValues rewrites held handles through the
// compaction lists.
type HeapMarkAndSweep interface {
	MarkValues(q *WorkQueues)
	SweepValues(c *CompactionLists)
}

var (
	_ InternalMethods = OrdinaryObject(0)
	_ InternalMethods = Array(0)
	_ InternalMethods = BuiltinFunction(0)
	_ InternalMethods = EmbedderObject(0)
)
