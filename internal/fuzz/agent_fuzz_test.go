package fuzztests

import (
	"fmt"
	"testing"

	"github.com/JamesPatrickGill/nova/internal/testkit"
	"github.com/JamesPatrickGill/nova/internal/vm"
)

// script interprets fuzz bytes as protocol operations on one agent. The
// stack is the only root besides the agent's own.
type script struct {
	a     *vm.Agent
	gc    vm.GcScope
	stack vm.ValueStack
	input []byte
	pos   int
}

func (s *script) next() byte {
	if s.pos >= len(s.input) {
		return 0
	}
	b := s.input[s.pos]
	s.pos++
	return b
}

func (s *script) value() vm.Value {
	n := len(s.stack.Values)
	if n == 0 {
		return vm.MakeNumber(float64(s.next()))
	}
	return s.stack.Values[int(s.next())%n]
}

func (s *script) object() (vm.Object, bool) {
	return s.value().AsObject()
}

func (s *script) key() vm.PropertyKey {
	b := s.next()
	switch b % 4 {
	case 0:
		return vm.IndexKey(uint32(b / 4 % 6))
	case 1:
		if sym, ok := s.value().AsSymbol(); ok {
			return sym.Key()
		}
	}
	return vm.StringKey(fmt.Sprintf("p%d", b/4%4))
}

func (s *script) step(op byte) error {
	a, gc := s.a, s.gc
	switch op % 16 {
	case 0:
		s.stack.Push(a.NewPlainObject().Value())
	case 1:
		s.stack.Push(a.NewArray(s.value(), s.value()).Value())
	case 2:
		s.stack.Push(a.NewBuiltinFunction("f", 1, func(a *vm.Agent, _ vm.GcScope, this vm.Value, args []vm.Value) (vm.Value, *vm.Exception) {
			if len(args) == 0 {
				return vm.Undefined, a.Throw(this)
			}
			return a.NewArray(args...).Value(), nil
		}).Value())
	case 3:
		s.stack.Push(a.NewEmbedderObject(s.pos).Value())
	case 4:
		s.stack.Push(a.NewSymbol(fmt.Sprint(s.pos)).Value())
	case 5, 6:
		if o, ok := s.object(); ok {
			_ = vm.SetProperty(a, gc, o, s.key(), s.value(), false)
		}
	case 7:
		if o, ok := s.object(); ok {
			_, _ = vm.GetProperty(a, gc, o, s.key())
		}
	case 8:
		if o, ok := s.object(); ok {
			_, _ = o.Delete(a, gc, s.key())
		}
	case 9:
		if o, ok := s.object(); ok {
			proto, _ := s.object()
			_, _ = o.SetPrototypeOf(a, gc, proto)
		}
	case 10:
		if o, ok := s.object(); ok {
			get := s.value()
			if f, ok := get.AsObject(); !ok || !f.IsCallable() {
				get = vm.Undefined
			}
			_, _ = o.DefineOwnProperty(a, gc, s.key(), vm.AccessorDescriptor(get, vm.Undefined, true, true))
		}
	case 11:
		if o, ok := s.object(); ok {
			_ = vm.SetProperty(a, gc, o, vm.StringKey("length"), vm.MakeNumber(float64(s.next()%4)), false)
		}
	case 12:
		if o, ok := s.object(); ok {
			_, _ = vm.SetIntegrityLevel(a, gc, o, vm.IntegrityLevel(1+s.next()%2))
		}
	case 13:
		v, exc := vm.Call(a, gc, s.value(), vm.Undefined, s.value())
		if exc == nil && v.IsHeap() {
			s.stack.Push(v)
		}
	case 14:
		if n := len(s.stack.Values); n > 0 {
			i := int(s.next()) % n
			s.stack.Values = append(s.stack.Values[:i], s.stack.Values[i+1:]...)
		}
	case 15:
		gc.Collect(&s.stack)
		return testkit.CheckReachability(a, &s.stack)
	}
	return nil
}

// FuzzProtocolAndCollect never expects an engine defect, whatever the
// sequence of operations.
func FuzzProtocolAndCollect(f *testing.F) {
	addScriptSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		s := &script{input: clampInput(input)}
		s.a = vm.NewAgent(vm.Options{InitialCapacity: 8})
		s.gc = s.a.GcScope()

		var stepErr error
		err := vm.Guard(func() {
			for s.pos < len(s.input) && stepErr == nil {
				stepErr = s.step(s.next())
			}
			if stepErr == nil {
				s.gc.Collect(&s.stack)
				stepErr = testkit.CheckReachability(s.a, &s.stack)
			}
		})
		if err != nil {
			t.Fatalf("engine defect: %v", err)
		}
		if stepErr != nil {
			t.Fatalf("heap invariant: %v", stepErr)
		}
	})
}
