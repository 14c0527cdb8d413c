package stress

import (
	"fmt"
	"strconv"

	"github.com/JamesPatrickGill/nova/internal/vm"
)

// step applies one random mutation. A returned exception is script-visible
// and only counted.
func (w *worker) step() *vm.Exception {
	switch op := w.rng.IntN(100); {
	case op < 28:
		return w.allocate()
	case op < 48:
		return w.setProperty()
	case op < 54:
		return w.defineAccessor()
	case op < 60:
		return w.getProperty()
	case op < 66:
		return w.deleteProperty()
	case op < 71:
		return w.setPrototype()
	case op < 78:
		return w.arrayPush()
	case op < 80:
		return w.arrayTruncate()
	case op < 84:
		return w.call()
	case op < 86:
		return w.setGlobal()
	case op < 87:
		return w.restrict()
	case op < 91:
		w.pinOrUnpin()
		return nil
	default:
		w.drop()
		return nil
	}
}

func (w *worker) push(v vm.Value) {
	if len(w.stack.Values) < maxStack {
		w.stack.Push(v)
		return
	}
	w.stack.Values[w.rng.IntN(len(w.stack.Values))] = v
}

func (w *worker) pick() (vm.Value, bool) {
	if len(w.stack.Values) == 0 {
		return vm.Undefined, false
	}
	return w.stack.Values[w.rng.IntN(len(w.stack.Values))], true
}

func (w *worker) pickObject() (vm.Object, bool) {
	for range 4 {
		v, ok := w.pick()
		if !ok {
			break
		}
		if o, ok := v.AsObject(); ok {
			return o, true
		}
	}
	return vm.Object{}, false
}

func (w *worker) pickKind(kind vm.ObjectKind) (vm.Object, bool) {
	for range 8 {
		o, ok := w.pickObject()
		if ok && o.Kind == kind {
			return o, true
		}
	}
	return vm.Object{}, false
}

// pickValue returns a stack value or, one time in four, a number.
func (w *worker) pickValue() vm.Value {
	if w.rng.IntN(4) == 0 {
		return vm.MakeNumber(float64(w.rng.IntN(1000)))
	}
	if v, ok := w.pick(); ok {
		return v
	}
	return vm.Undefined
}

func (w *worker) pickKey() vm.PropertyKey {
	switch r := w.rng.IntN(10); {
	case r < 2:
		if v, ok := w.pick(); ok {
			if s, ok := v.AsSymbol(); ok {
				return s.Key()
			}
		}
	case r < 4:
		return vm.IndexKey(uint32(w.rng.IntN(8)))
	}
	return vm.StringKey("k" + strconv.Itoa(w.rng.IntN(propKeys)))
}

func (w *worker) nextTag() int {
	w.serial++
	return w.serial
}

func (w *worker) allocate() *vm.Exception {
	tag := w.nextTag()
	var o vm.Object
	switch w.rng.IntN(6) {
	case 0, 1:
		o = w.a.NewPlainObject().Object()
	case 2:
		elems := make([]vm.Value, w.rng.IntN(4))
		for i := range elems {
			elems[i] = w.pickValue()
		}
		o = w.a.NewArray(elems...).Object()
	case 3:
		behaviour := w.makeBehaviour
		if w.rng.IntN(4) == 0 {
			behaviour = throwBehaviour
		}
		o = w.a.NewBuiltinFunction(fmt.Sprintf("f%d", tag), uint32(w.rng.IntN(3)), behaviour).Object()
	case 4:
		o = w.a.NewEmbedderObject(tag).Object()
	default:
		w.push(w.a.NewSymbol(strconv.Itoa(tag)).Value())
		return nil
	}
	if exc := vm.CreateDataPropertyOrThrow(w.a, w.gc, o, tagKey, vm.MakeNumber(float64(tag))); exc != nil {
		return exc
	}
	w.push(o.Value())
	return nil
}

// makeBehaviour allocates a tagged object holding its first argument.
func (w *worker) makeBehaviour(a *vm.Agent, gc vm.GcScope, _ vm.Value, args []vm.Value) (vm.Value, *vm.Exception) {
	o := a.NewPlainObject().Object()
	if exc := vm.CreateDataPropertyOrThrow(a, gc, o, tagKey, vm.MakeNumber(float64(w.nextTag()))); exc != nil {
		return vm.Undefined, exc
	}
	if len(args) > 0 {
		if exc := vm.CreateDataPropertyOrThrow(a, gc, o, argKey, args[0]); exc != nil {
			return vm.Undefined, exc
		}
	}
	return o.Value(), nil
}

func throwBehaviour(a *vm.Agent, _ vm.GcScope, this vm.Value, _ []vm.Value) (vm.Value, *vm.Exception) {
	return vm.Undefined, a.Throw(this)
}

func (w *worker) setProperty() *vm.Exception {
	o, ok := w.pickObject()
	if !ok {
		return nil
	}
	return vm.SetProperty(w.a, w.gc, o, w.pickKey(), w.pickValue(), false)
}

func (w *worker) defineAccessor() *vm.Exception {
	o, ok := w.pickObject()
	if !ok {
		return nil
	}
	get, set := vm.Undefined, vm.Undefined
	if f, ok := w.pickKind(vm.OKFunction); ok {
		get = f.Value()
	}
	if f, ok := w.pickKind(vm.OKFunction); ok && w.rng.IntN(2) == 0 {
		set = f.Value()
	}
	_, exc := o.DefineOwnProperty(w.a, w.gc, w.pickKey(), vm.AccessorDescriptor(get, set, true, true))
	return exc
}

func (w *worker) getProperty() *vm.Exception {
	o, ok := w.pickObject()
	if !ok {
		return nil
	}
	v, exc := vm.GetProperty(w.a, w.gc, o, w.pickKey())
	if exc != nil {
		return exc
	}
	if v.IsHeap() && w.rng.IntN(3) == 0 {
		w.push(v)
	}
	return nil
}

func (w *worker) deleteProperty() *vm.Exception {
	o, ok := w.pickObject()
	if !ok {
		return nil
	}
	_, exc := o.Delete(w.a, w.gc, w.pickKey())
	return exc
}

func (w *worker) setPrototype() *vm.Exception {
	o, ok := w.pickObject()
	if !ok {
		return nil
	}
	proto := vm.Object{}
	if w.rng.IntN(5) != 0 {
		if p, ok := w.pickObject(); ok {
			proto = p
		}
	}
	_, exc := o.SetPrototypeOf(w.a, w.gc, proto)
	return exc
}

func (w *worker) arrayPush() *vm.Exception {
	o, ok := w.pickKind(vm.OKArray)
	if !ok {
		return nil
	}
	arr, _ := o.AsArray()
	_, exc := vm.CreateDataProperty(w.a, w.gc, o, vm.IndexKey(arr.Len(w.a)), w.pickValue())
	return exc
}

func (w *worker) arrayTruncate() *vm.Exception {
	o, ok := w.pickKind(vm.OKArray)
	if !ok {
		return nil
	}
	arr, _ := o.AsArray()
	n := w.rng.IntN(int(arr.Len(w.a)) + 1)
	return vm.SetProperty(w.a, w.gc, o, lengthKey, vm.MakeNumber(float64(n)), false)
}

func (w *worker) call() *vm.Exception {
	f, ok := w.pickKind(vm.OKFunction)
	if !ok {
		return nil
	}
	args := make([]vm.Value, w.rng.IntN(3))
	for i := range args {
		args[i] = w.pickValue()
	}
	v, exc := vm.Call(w.a, w.gc, f.Value(), w.pickValue(), args...)
	if exc != nil {
		return exc
	}
	if v.IsHeap() {
		w.push(v)
	}
	return nil
}

func (w *worker) setGlobal() *vm.Exception {
	global := w.a.Global().Object()
	key := vm.StringKey("g" + strconv.Itoa(w.rng.IntN(propKeys)))
	if w.rng.IntN(3) == 0 {
		_, exc := global.Delete(w.a, w.gc, key)
		return exc
	}
	return vm.SetProperty(w.a, w.gc, global, key, w.pickValue(), false)
}

// restrict makes an object non-extensible, sealed or frozen.
func (w *worker) restrict() *vm.Exception {
	o, ok := w.pickObject()
	if !ok {
		return nil
	}
	var exc *vm.Exception
	switch w.rng.IntN(3) {
	case 0:
		_, exc = o.PreventExtensions(w.a, w.gc)
	case 1:
		_, exc = vm.SetIntegrityLevel(w.a, w.gc, o, vm.Sealed)
	default:
		_, exc = vm.SetIntegrityLevel(w.a, w.gc, o, vm.Frozen)
	}
	return exc
}

func (w *worker) pinOrUnpin() {
	if len(w.pins) < maxPins && w.rng.IntN(2) == 0 {
		if v, ok := w.pick(); ok {
			w.pins = append(w.pins, w.a.Pin(v))
		}
		return
	}
	if len(w.pins) == 0 {
		return
	}
	i := w.rng.IntN(len(w.pins))
	w.a.Unpin(w.pins[i])
	w.pins = append(w.pins[:i], w.pins[i+1:]...)
}

func (w *worker) drop() {
	n := len(w.stack.Values)
	if n == 0 {
		return
	}
	i := w.rng.IntN(n)
	w.stack.Values = append(w.stack.Values[:i], w.stack.Values[i+1:]...)
}
