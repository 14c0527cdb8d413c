package heap

import (
	"errors"
	"testing"
)

type payload struct {
	name string
}

func expectFault(t *testing.T, code FaultCode, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		if r == nil {
			t.Fatalf("expected fault %v, got none", code)
		}
		err, ok := r.(error)
		if !ok {
			t.Fatalf("expected *Fault, got %T", r)
		}
		var f *Fault
		if !errors.As(err, &f) {
			t.Fatalf("expected *Fault, got %T", r)
		}
		if f.Code != code {
			t.Fatalf("expected %v, got %v (%s)", code, f.Code, f.Message)
		}
	}()
	fn()
}

func TestArenaAllocIsOneBased(t *testing.T) {
	a := NewArena[payload]("test", 0)
	first := a.Alloc(payload{name: "a"})
	second := a.Alloc(payload{name: "b"})
	if first != 1 || second != 2 {
		t.Fatalf("expected handles 1 and 2, got %d and %d", first, second)
	}
	if got := a.Get(second).name; got != "b" {
		t.Fatalf("expected b, got %q", got)
	}
}

func TestArenaGetIsStableWithoutCompaction(t *testing.T) {
	a := NewArena[payload]("test", 1)
	h := a.Alloc(payload{name: "keep"})
	before := a.Get(h)
	for i := 0; i < 1000; i++ {
		a.Alloc(payload{})
	}
	if a.Get(h) != before {
		t.Fatal("expected the same payload identity after growth")
	}
}

func TestArenaGetFaults(t *testing.T) {
	a := NewArena[payload]("test", 0)
	a.Alloc(payload{})

	expectFault(t, FaultSentinel, func() { a.Get(0) })
	expectFault(t, FaultOutOfRange, func() { a.Get(5) })

	m := NewMarks("test", a.Len())
	a.Compact(NewCompactionList(m))
	expectFault(t, FaultOutOfRange, func() { a.Get(1) })
}

func TestArenaLookupDoesNotFault(t *testing.T) {
	a := NewArena[payload]("test", 0)
	if _, ok := a.Lookup(0); ok {
		t.Fatal("expected sentinel lookup to miss")
	}
	if _, ok := a.Lookup(3); ok {
		t.Fatal("expected out-of-range lookup to miss")
	}
}

func TestArenaCompactPreservesOrder(t *testing.T) {
	a := NewArena[payload]("test", 0)
	names := []string{"a", "b", "c", "d", "e", "f"}
	for _, n := range names {
		a.Alloc(payload{name: n})
	}
	m := NewMarks("test", a.Len())
	for _, keep := range []uint32{1, 3, 4, 6} {
		m.Mark(keep)
	}
	list := NewCompactionList(m)
	freed := a.Compact(list)
	if freed != 2 {
		t.Fatalf("expected 2 freed, got %d", freed)
	}
	want := []string{"a", "c", "d", "f"}
	if a.Len() != len(want) {
		t.Fatalf("expected %d slots, got %d", len(want), a.Len())
	}
	for i, n := range want {
		if got := a.Get(Index[payload](i + 1)).name; got != n {
			t.Fatalf("slot %d: expected %q, got %q", i+1, n, got)
		}
	}
}

func TestArenaCompactRejectsShortList(t *testing.T) {
	a := NewArena[payload]("test", 0)
	a.Alloc(payload{})
	a.Alloc(payload{})
	m := NewMarks("test", 1)
	m.Mark(1)
	expectFault(t, FaultCompactionLength, func() { a.Compact(NewCompactionList(m)) })
}

func TestArenaEachSkipsNothingBetweenCollections(t *testing.T) {
	a := NewArena[payload]("test", 0)
	for i := 0; i < 4; i++ {
		a.Alloc(payload{})
	}
	var seen []Index[payload]
	a.Each(func(i Index[payload], _ *payload) { seen = append(seen, i) })
	if len(seen) != 4 || seen[0] != 1 || seen[3] != 4 {
		t.Fatalf("expected handles 1..4, got %v", seen)
	}
	if a.Live() != 4 {
		t.Fatalf("expected 4 live, got %d", a.Live())
	}
}
