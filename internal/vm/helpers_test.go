package vm_test

import (
	"errors"
	"testing"

	"github.com/JamesPatrickGill/nova/internal/heap"
	"github.com/JamesPatrickGill/nova/internal/vm"
)

func newAgent(t *testing.T) (*vm.Agent, vm.GcScope) {
	t.Helper()
	opts := vm.DefaultOptions()
	opts.GCThreshold = 0
	a := vm.NewAgent(opts)
	return a, a.GcScope()
}

func expectPanicCode(t *testing.T, code vm.PanicCode, fn func()) {
	t.Helper()
	err := vm.Guard(fn)
	if err == nil {
		t.Fatalf("expected panic %v, got none", code)
	}
	var vmErr *vm.VMError
	if !errors.As(err, &vmErr) {
		t.Fatalf("expected *VMError, got %T (%v)", err, err)
	}
	if vmErr.Code != code {
		t.Fatalf("expected %v, got %v (%s)", code, vmErr.Code, vmErr.Message)
	}
}

func expectFault(t *testing.T, code heap.FaultCode, fn func()) {
	t.Helper()
	err := vm.Guard(fn)
	if err == nil {
		t.Fatalf("expected fault %v, got none", code)
	}
	var f *heap.Fault
	if !errors.As(err, &f) {
		t.Fatalf("expected *heap.Fault, got %T (%v)", err, err)
	}
	if f.Code != code {
		t.Fatalf("expected %v, got %v (%s)", code, f.Code, f.Message)
	}
}

func mustDefine(t *testing.T, a *vm.Agent, gc vm.GcScope, o vm.Object, key vm.PropertyKey, desc vm.PropertyDescriptor) {
	t.Helper()
	ok, exc := o.DefineOwnProperty(a, gc, key, desc)
	if exc != nil {
		t.Fatalf("define %s: unexpected exception: %v", key, exc)
	}
	if !ok {
		t.Fatalf("define %s: expected success", key)
	}
}

func mustGet(t *testing.T, a *vm.Agent, gc vm.GcScope, o vm.Object, key vm.PropertyKey) vm.Value {
	t.Helper()
	v, exc := vm.GetProperty(a, gc, o, key)
	if exc != nil {
		t.Fatalf("get %s: unexpected exception: %v", key, exc)
	}
	return v
}

func keyNames(keys []vm.PropertyKey) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k.String()
	}
	return out
}
