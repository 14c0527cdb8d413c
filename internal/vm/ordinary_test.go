package vm_test

import (
	"math"
	"slices"
	"testing"

	"github.com/JamesPatrickGill/nova/internal/vm"
)

func TestOrdinaryDefineAndGet(t *testing.T) {
	a, gc := newAgent(t)
	o := a.NewPlainObject().Object()

	mustDefine(t, a, gc, o, vm.StringKey("x"), vm.DataDescriptor(vm.MakeNumber(1), true, true, true))
	if got := mustGet(t, a, gc, o, vm.StringKey("x")); !vm.SameValue(got, vm.MakeNumber(1)) {
		t.Fatalf("expected 1, got %s", got)
	}
	if got := mustGet(t, a, gc, o, vm.StringKey("missing")); !got.IsUndefined() {
		t.Fatalf("expected undefined, got %s", got)
	}
}

func TestOrdinaryGetWalksPrototypeChain(t *testing.T) {
	a, gc := newAgent(t)
	parent := a.NewPlainObject().Object()
	child := a.NewObject(parent).Object()

	mustDefine(t, a, gc, parent, vm.StringKey("inherited"), vm.DataDescriptor(vm.MakeString("p"), true, true, true))
	if got := mustGet(t, a, gc, child, vm.StringKey("inherited")); !vm.SameValue(got, vm.MakeString("p")) {
		t.Fatalf("expected \"p\", got %s", got)
	}
	has, exc := child.HasProperty(a, gc, vm.StringKey("inherited"))
	if exc != nil || !has {
		t.Fatalf("expected inherited property to be visible, got %v %v", has, exc)
	}
	own, exc := vm.HasOwnProperty(a, gc, child, vm.StringKey("inherited"))
	if exc != nil || own {
		t.Fatalf("expected no own property, got %v %v", own, exc)
	}
}

func TestOrdinarySetCreatesOnReceiver(t *testing.T) {
	a, gc := newAgent(t)
	parent := a.NewPlainObject().Object()
	child := a.NewObject(parent).Object()
	mustDefine(t, a, gc, parent, vm.StringKey("x"), vm.DataDescriptor(vm.MakeNumber(1), true, true, true))

	if exc := vm.SetOrThrow(a, gc, child, vm.StringKey("x"), vm.MakeNumber(2)); exc != nil {
		t.Fatalf("unexpected exception: %v", exc)
	}
	if got := mustGet(t, a, gc, parent, vm.StringKey("x")); !vm.SameValue(got, vm.MakeNumber(1)) {
		t.Fatalf("expected parent unchanged, got %s", got)
	}
	if got := mustGet(t, a, gc, child, vm.StringKey("x")); !vm.SameValue(got, vm.MakeNumber(2)) {
		t.Fatalf("expected shadowing property 2, got %s", got)
	}
}

func TestOrdinarySetReadOnlyInherited(t *testing.T) {
	a, gc := newAgent(t)
	parent := a.NewPlainObject().Object()
	child := a.NewObject(parent).Object()
	mustDefine(t, a, gc, parent, vm.StringKey("ro"), vm.DataDescriptor(vm.MakeNumber(1), false, true, true))

	ok, exc := child.Set(a, gc, vm.StringKey("ro"), vm.MakeNumber(2), child.Value())
	if exc != nil || ok {
		t.Fatalf("expected rejected write, got %v %v", ok, exc)
	}
	exc = vm.SetOrThrow(a, gc, child, vm.StringKey("ro"), vm.MakeNumber(2))
	if exc == nil || exc.Kind != vm.ExceptionTypeError {
		t.Fatalf("expected TypeError, got %v", exc)
	}
}

func TestNonConfigurablePropertyRules(t *testing.T) {
	a, gc := newAgent(t)
	o := a.NewPlainObject().Object()
	key := vm.StringKey("fixed")
	mustDefine(t, a, gc, o, key, vm.DataDescriptor(vm.MakeNumber(1), false, false, false))

	tests := []struct {
		name string
		desc vm.PropertyDescriptor
		want bool
	}{
		{"same value", vm.PropertyDescriptor{Value: vm.MakeNumber(1), HasValue: true}, true},
		{"different value", vm.PropertyDescriptor{Value: vm.MakeNumber(2), HasValue: true}, false},
		{"make configurable", vm.PropertyDescriptor{Configurable: vm.FlagTrue}, false},
		{"make enumerable", vm.PropertyDescriptor{Enumerable: vm.FlagTrue}, false},
		{"make writable", vm.PropertyDescriptor{Writable: vm.FlagTrue}, false},
		{"to accessor", vm.AccessorDescriptor(vm.Undefined, vm.Undefined, false, false), false},
		{"empty", vm.PropertyDescriptor{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, exc := o.DefineOwnProperty(a, gc, key, tt.desc)
			if exc != nil {
				t.Fatalf("unexpected exception: %v", exc)
			}
			if got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}

	ok, exc := o.Delete(a, gc, key)
	if exc != nil || ok {
		t.Fatalf("expected delete to fail, got %v %v", ok, exc)
	}
	if exc := vm.DeletePropertyOrThrow(a, gc, o, key); exc == nil || exc.Kind != vm.ExceptionTypeError {
		t.Fatalf("expected TypeError, got %v", exc)
	}
}

func TestDataToAccessorConversion(t *testing.T) {
	a, gc := newAgent(t)
	o := a.NewPlainObject().Object()
	key := vm.StringKey("p")
	mustDefine(t, a, gc, o, key, vm.DataDescriptor(vm.MakeNumber(1), true, true, true))

	getter := a.NewBuiltinFunction("get p", 0, func(*vm.Agent, vm.GcScope, vm.Value, []vm.Value) (vm.Value, *vm.Exception) {
		return vm.MakeString("from getter"), nil
	})
	mustDefine(t, a, gc, o, key, vm.PropertyDescriptor{Get: getter.Value(), HasGet: true})

	desc, has, exc := o.GetOwnProperty(a, gc, key)
	if exc != nil || !has {
		t.Fatalf("expected own property, got %v %v", has, exc)
	}
	if !desc.IsAccessor() || !desc.Set.IsUndefined() {
		t.Fatalf("expected accessor with undefined setter, got %+v", desc)
	}
	if !desc.Enumerable.Bool() || !desc.Configurable.Bool() {
		t.Fatalf("expected attributes to carry over, got %+v", desc)
	}
	if got := mustGet(t, a, gc, o, key); !vm.SameValue(got, vm.MakeString("from getter")) {
		t.Fatalf("expected getter result, got %s", got)
	}
}

func TestSetterReceivesReceiver(t *testing.T) {
	a, gc := newAgent(t)
	proto := a.NewPlainObject().Object()
	obj := a.NewObject(proto).Object()

	var seenThis vm.Value
	var seenArg vm.Value
	setter := a.NewBuiltinFunction("set p", 1, func(_ *vm.Agent, _ vm.GcScope, this vm.Value, args []vm.Value) (vm.Value, *vm.Exception) {
		seenThis = this
		seenArg = args[0]
		return vm.Undefined, nil
	})
	mustDefine(t, a, gc, proto, vm.StringKey("p"), vm.AccessorDescriptor(vm.Undefined, setter.Value(), true, true))

	if exc := vm.SetOrThrow(a, gc, obj, vm.StringKey("p"), vm.MakeNumber(7)); exc != nil {
		t.Fatalf("unexpected exception: %v", exc)
	}
	if !vm.SameValue(seenThis, obj.Value()) || !vm.SameValue(seenArg, vm.MakeNumber(7)) {
		t.Fatalf("expected setter called with obj and 7, got %s and %s", seenThis, seenArg)
	}
}

func TestSetPrototypeOfRejectsCycles(t *testing.T) {
	a, gc := newAgent(t)
	x := a.NewPlainObject().Object()
	y := a.NewObject(x).Object()

	ok, exc := x.SetPrototypeOf(a, gc, y)
	if exc != nil || ok {
		t.Fatalf("expected cycle rejection, got %v %v", ok, exc)
	}
	ok, exc = x.SetPrototypeOf(a, gc, vm.Object{})
	if exc != nil || !ok {
		t.Fatalf("expected null prototype to be accepted, got %v %v", ok, exc)
	}
	proto, _ := x.GetPrototypeOf(a, gc)
	if !proto.IsNull() {
		t.Fatalf("expected null prototype, got %s", proto)
	}
}

func TestPreventExtensions(t *testing.T) {
	a, gc := newAgent(t)
	o := a.NewPlainObject().Object()
	mustDefine(t, a, gc, o, vm.StringKey("a"), vm.DataDescriptor(vm.MakeNumber(1), true, true, true))

	if ok, exc := o.PreventExtensions(a, gc); exc != nil || !ok {
		t.Fatalf("expected success, got %v %v", ok, exc)
	}
	ok, exc := vm.CreateDataProperty(a, gc, o, vm.StringKey("b"), vm.MakeNumber(2))
	if exc != nil || ok {
		t.Fatalf("expected define on non-extensible object to fail, got %v %v", ok, exc)
	}
	if exc := vm.SetOrThrow(a, gc, o, vm.StringKey("a"), vm.MakeNumber(3)); exc != nil {
		t.Fatalf("expected existing property to stay writable, got %v", exc)
	}
	ok, exc = o.SetPrototypeOf(a, gc, vm.Object{})
	if exc != nil || ok {
		t.Fatalf("expected prototype change to fail, got %v %v", ok, exc)
	}
}

func TestOwnPropertyKeysOrder(t *testing.T) {
	a, gc := newAgent(t)
	o := a.NewPlainObject().Object()
	sym := a.NewSymbol("tag")
	for _, k := range []vm.PropertyKey{
		vm.StringKey("b"),
		vm.StringKey("10"),
		sym.Key(),
		vm.StringKey("a"),
		vm.StringKey("2"),
		vm.StringKey("01"),
	} {
		if exc := vm.CreateDataPropertyOrThrow(a, gc, o, k, vm.Null); exc != nil {
			t.Fatalf("unexpected exception: %v", exc)
		}
	}
	keys, exc := o.OwnPropertyKeys(a, gc)
	if exc != nil {
		t.Fatalf("unexpected exception: %v", exc)
	}
	want := []string{"2", "10", "b", "a", "01", sym.Key().String()}
	if got := keyNames(keys); !slices.Equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestIntegrityLevels(t *testing.T) {
	a, gc := newAgent(t)
	o := a.NewPlainObject().Object()
	mustDefine(t, a, gc, o, vm.StringKey("x"), vm.DataDescriptor(vm.MakeNumber(1), true, true, true))

	frozen, _ := vm.TestIntegrityLevel(a, gc, o, vm.Frozen)
	if frozen {
		t.Fatalf("expected fresh object not to be frozen")
	}
	if ok, exc := vm.SetIntegrityLevel(a, gc, o, vm.Sealed); exc != nil || !ok {
		t.Fatalf("expected seal to succeed, got %v %v", ok, exc)
	}
	sealed, _ := vm.TestIntegrityLevel(a, gc, o, vm.Sealed)
	frozen, _ = vm.TestIntegrityLevel(a, gc, o, vm.Frozen)
	if !sealed || frozen {
		t.Fatalf("expected sealed but not frozen, got sealed=%v frozen=%v", sealed, frozen)
	}
	if ok, exc := vm.SetIntegrityLevel(a, gc, o, vm.Frozen); exc != nil || !ok {
		t.Fatalf("expected freeze to succeed, got %v %v", ok, exc)
	}
	frozen, _ = vm.TestIntegrityLevel(a, gc, o, vm.Frozen)
	if !frozen {
		t.Fatalf("expected frozen object")
	}
	if exc := vm.SetOrThrow(a, gc, o, vm.StringKey("x"), vm.MakeNumber(2)); exc == nil {
		t.Fatalf("expected TypeError writing a frozen property")
	}
}

func TestToPropertyKey(t *testing.T) {
	a, _ := newAgent(t)
	tests := []struct {
		in   vm.Value
		want vm.PropertyKey
	}{
		{vm.MakeNumber(3), vm.IndexKey(3)},
		{vm.MakeNumber(-1), vm.StringKey("-1")},
		{vm.MakeNumber(1.5), vm.StringKey("1.5")},
		{vm.MakeNumber(4294967295), vm.StringKey("4294967295")},
		{vm.MakeNumber(1234567.5), vm.StringKey("1234567.5")},
		{vm.MakeNumber(5e9), vm.StringKey("5000000000")},
		{vm.MakeNumber(1e21), vm.StringKey("1e+21")},
		{vm.MakeNumber(1.5e300), vm.StringKey("1.5e+300")},
		{vm.MakeNumber(1e-6), vm.StringKey("0.000001")},
		{vm.MakeNumber(1e-7), vm.StringKey("1e-7")},
		{vm.MakeNumber(-2.5e-8), vm.StringKey("-2.5e-8")},
		{vm.MakeNumber(0.1), vm.StringKey("0.1")},
		{vm.MakeNumber(math.Inf(-1)), vm.StringKey("-Infinity")},
		{vm.MakeNumber(math.NaN()), vm.StringKey("NaN")},
		{vm.MakeString("7"), vm.IndexKey(7)},
		{vm.MakeString("007"), vm.StringKey("007")},
		{vm.MakeString("4294967295"), vm.StringKey("4294967295")},
		{vm.Undefined, vm.StringKey("undefined")},
		{vm.MakeBool(true), vm.StringKey("true")},
	}
	for _, tt := range tests {
		got, exc := vm.ToPropertyKey(a, tt.in)
		if exc != nil {
			t.Fatalf("%s: unexpected exception: %v", tt.in, exc)
		}
		if got != tt.want {
			t.Fatalf("%s: expected key %v, got %v", tt.in, tt.want, got)
		}
	}
	if _, exc := vm.ToPropertyKey(a, a.NewPlainObject().Value()); exc == nil || exc.Kind != vm.ExceptionTypeError {
		t.Fatalf("expected TypeError for object key, got %v", exc)
	}
}

func TestNumberAndStringKeysShareProperty(t *testing.T) {
	a, gc := newAgent(t)
	o := a.NewPlainObject().Object()
	for _, n := range []float64{4294967295, 1e6 + 0.5, 1e21, 1e-7} {
		numKey, exc := vm.ToPropertyKey(a, vm.MakeNumber(n))
		if exc != nil {
			t.Fatalf("%v: unexpected exception: %v", n, exc)
		}
		mustDefine(t, a, gc, o, numKey, vm.DataDescriptor(vm.MakeNumber(n), true, true, true))
		strKey, _ := vm.ToPropertyKey(a, vm.MakeString(numKey.String()))
		if got := mustGet(t, a, gc, o, strKey); !vm.SameValue(got, vm.MakeNumber(n)) {
			t.Fatalf("%v: expected the string key %q to find the property, got %s", n, numKey.String(), got)
		}
	}
	if got := vm.MakeNumber(1e21).String(); got != "1e+21" {
		t.Fatalf("expected 1e+21, got %s", got)
	}
	if got := vm.MakeNumber(math.Copysign(0, -1)).String(); got != "-0" {
		t.Fatalf("expected -0 in diagnostics, got %s", got)
	}
}
