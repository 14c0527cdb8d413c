package vm_test

import (
	"slices"
	"testing"

	"github.com/JamesPatrickGill/nova/internal/vm"
)

func TestBuiltinFunctionIntrinsicProperties(t *testing.T) {
	a, gc := newAgent(t)
	f := a.NewBuiltinFunction("push", 1, nil)
	o := f.Object()

	if got := mustGet(t, a, gc, o, vm.StringKey("name")); !vm.SameValue(got, vm.MakeString("push")) {
		t.Fatalf("expected name \"push\", got %s", got)
	}
	desc, has, _ := o.GetOwnProperty(a, gc, vm.StringKey("length"))
	if !has || desc.Writable.Bool() || desc.Enumerable.Bool() || !desc.Configurable.Bool() {
		t.Fatalf("expected {writable:false, enumerable:false, configurable:true}, got %+v", desc)
	}
	keys, _ := o.OwnPropertyKeys(a, gc)
	if got := keyNames(keys); !slices.Equal(got, []string{"length", "name"}) {
		t.Fatalf("expected [length name], got %v", got)
	}
	if _, ok := f.BackingObject(a); ok {
		t.Fatalf("expected no backing object after reads")
	}
}

func TestBuiltinFunctionDefineMaterializesBacking(t *testing.T) {
	a, gc := newAgent(t)
	f := a.NewBuiltinFunction("f", 2, nil)
	o := f.Object()

	if exc := vm.CreateDataPropertyOrThrow(a, gc, o, vm.StringKey("extra"), vm.MakeNumber(1)); exc != nil {
		t.Fatalf("unexpected exception: %v", exc)
	}
	if _, ok := f.BackingObject(a); !ok {
		t.Fatalf("expected backing object after define")
	}
	keys, _ := o.OwnPropertyKeys(a, gc)
	if got := keyNames(keys); !slices.Equal(got, []string{"length", "name", "extra"}) {
		t.Fatalf("expected [length name extra], got %v", got)
	}
	if got := mustGet(t, a, gc, o, vm.StringKey("length")); !vm.SameValue(got, vm.MakeNumber(2)) {
		t.Fatalf("expected length 2, got %s", got)
	}
}

func TestBuiltinFunctionDeleteName(t *testing.T) {
	a, gc := newAgent(t)
	f := a.NewBuiltinFunction("f", 0, nil)
	o := f.Object()

	if exc := vm.DeletePropertyOrThrow(a, gc, o, vm.StringKey("name")); exc != nil {
		t.Fatalf("unexpected exception: %v", exc)
	}
	has, _ := vm.HasOwnProperty(a, gc, o, vm.StringKey("name"))
	if has {
		t.Fatalf("expected name to be gone")
	}
	has, _ = vm.HasOwnProperty(a, gc, o, vm.StringKey("length"))
	if !has {
		t.Fatalf("expected length to remain")
	}
}

func TestCall(t *testing.T) {
	a, gc := newAgent(t)
	sum := a.NewBuiltinFunction("sum", 2, func(_ *vm.Agent, _ vm.GcScope, _ vm.Value, args []vm.Value) (vm.Value, *vm.Exception) {
		total := 0.0
		for _, v := range args {
			total += v.Num
		}
		return vm.MakeNumber(total), nil
	})
	got, exc := vm.Call(a, gc, sum.Value(), vm.Undefined, vm.MakeNumber(2), vm.MakeNumber(3))
	if exc != nil {
		t.Fatalf("unexpected exception: %v", exc)
	}
	if !vm.SameValue(got, vm.MakeNumber(5)) {
		t.Fatalf("expected 5, got %s", got)
	}

	_, exc = vm.Call(a, gc, a.NewPlainObject().Value(), vm.Undefined)
	if exc == nil || exc.Kind != vm.ExceptionTypeError {
		t.Fatalf("expected TypeError calling an ordinary object, got %v", exc)
	}
}

func TestThrownExceptionPropagates(t *testing.T) {
	a, gc := newAgent(t)
	thrower := a.NewBuiltinFunction("thrower", 0, func(a *vm.Agent, _ vm.GcScope, _ vm.Value, _ []vm.Value) (vm.Value, *vm.Exception) {
		return vm.Undefined, a.Throw(vm.MakeString("boom"))
	})
	o := a.NewPlainObject().Object()
	mustDefine(t, a, gc, o, vm.StringKey("bad"), vm.AccessorDescriptor(thrower.Value(), vm.Undefined, true, true))

	_, exc := vm.GetProperty(a, gc, o, vm.StringKey("bad"))
	if exc == nil || exc.Kind != vm.ExceptionThrown || !vm.SameValue(exc.Value, vm.MakeString("boom")) {
		t.Fatalf("expected thrown \"boom\", got %v", exc)
	}
}
