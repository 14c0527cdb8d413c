package vm_test

import (
	"math"
	"testing"

	"github.com/JamesPatrickGill/nova/internal/testkit"
	"github.com/JamesPatrickGill/nova/internal/vm"
)

type hostFile struct {
	path string
}

func TestEmbedderObjectDefaults(t *testing.T) {
	a, gc := newAgent(t)
	e := a.NewEmbedderObject(&hostFile{path: "/tmp/x"})
	o := e.Object()

	proto, _ := o.GetPrototypeOf(a, gc)
	if proto != a.Intrinsics().ObjectPrototype.Object() {
		t.Fatalf("expected %%Object.prototype%%, got %s", proto)
	}
	ext, _ := o.IsExtensible(a, gc)
	if !ext {
		t.Fatalf("expected embedder object to start extensible")
	}
	if _, ok := e.BackingObject(a); ok {
		t.Fatalf("expected no backing object before the first define")
	}
	if hf, ok := e.Host(a).(*hostFile); !ok || hf.path != "/tmp/x" {
		t.Fatalf("expected host data to round trip, got %#v", e.Host(a))
	}

	mustDefine(t, a, gc, o, vm.StringKey("fd"), vm.DataDescriptor(vm.MakeNumber(3), false, true, false))
	if got := mustGet(t, a, gc, o, vm.StringKey("fd")); !vm.SameValue(got, vm.MakeNumber(3)) {
		t.Fatalf("expected 3, got %s", got)
	}
}

func TestEmbedderObjectPrototypeChangeSurvivesCollection(t *testing.T) {
	a, gc := newAgent(t)
	e := a.NewEmbedderObject(nil)
	proto := a.NewPlainObject()
	mustDefine(t, a, gc, proto.Object(), vm.StringKey("shared"), vm.DataDescriptor(vm.MakeBool(true), true, true, true))
	if ok, exc := e.Object().SetPrototypeOf(a, gc, proto.Object()); exc != nil || !ok {
		t.Fatalf("expected prototype change, got %v %v", ok, exc)
	}
	if _, ok := e.BackingObject(a); !ok {
		t.Fatalf("expected prototype change to create the backing object")
	}
	a.NewPlainObject()
	ev := e.Value()
	gc.Collect(&ev)
	if err := testkit.CheckReachability(a, &ev); err != nil {
		t.Fatalf("heap invariant: %v", err)
	}
	o, _ := ev.AsObject()
	if got := mustGet(t, a, gc, o, vm.StringKey("shared")); !vm.SameValue(got, vm.MakeBool(true)) {
		t.Fatalf("expected inherited property after collection, got %s", got)
	}
}

func TestSameValue(t *testing.T) {
	a, _ := newAgent(t)
	o := a.NewPlainObject().Value()
	tests := []struct {
		x, y vm.Value
		want bool
	}{
		{vm.MakeNumber(math.NaN()), vm.MakeNumber(math.NaN()), true},
		{vm.MakeNumber(0), vm.MakeNumber(math.Copysign(0, -1)), false},
		{vm.MakeString("a"), vm.MakeString("a"), true},
		{vm.Undefined, vm.Null, false},
		{o, o, true},
		{o, a.NewPlainObject().Value(), false},
	}
	for _, tt := range tests {
		if got := vm.SameValue(tt.x, tt.y); got != tt.want {
			t.Fatalf("SameValue(%s, %s): expected %v, got %v", tt.x, tt.y, tt.want, got)
		}
	}
}
