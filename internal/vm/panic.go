package vm

import (
	"errors"
	"fmt"

	"github.com/JamesPatrickGill/nova/internal/heap"
)

// PanicCode identifies an engine defect detected by the vm package.
type PanicCode int

// Stable panic codes - do not change values.
const (
	PanicReentrantCollect   PanicCode = 1001 // VM1001: collection started while one is running
	PanicAllocDuringCollect PanicCode = 1002 // VM1002: allocation while the collector runs
	PanicBackingObject      PanicCode = 1003 // VM1003: backing object misuse
	PanicUnknownKind        PanicCode = 1004 // VM1004: union value with an unknown discriminant
	PanicPinReleased        PanicCode = 1005 // VM1005: pin used after Unpin
	PanicLengthOverflow     PanicCode = 1006 // VM1006: element count exceeds the array index space
	PanicZeroScope          PanicCode = 1007 // VM1007: GcScope not obtained from an agent
)

// String returns the code as "VM1001" format.
func (c PanicCode) String() string {
	return fmt.Sprintf("VM%d", c)
}

// VMError is an engine invariant violation. It is raised with panic and is
// never returned through the protocol result channel.
type VMError struct {
	Code    PanicCode
	Message string
	Kind    string // heap kind involved, if any
	Index   uint32 // handle involved, if any
}

// Error implements the error interface.
func (p *VMError) Error() string {
	if p.Kind == "" {
		return fmt.Sprintf("panic %s: %s", p.Code, p.Message)
	}
	return fmt.Sprintf("panic %s: %s #%d: %s", p.Code, p.Kind, p.Index, p.Message)
}

func fatal(code PanicCode, msg string) {
	panic(&VMError{Code: code, Message: msg})
}

func fatalHandle(code PanicCode, kind string, index uint32, msg string) {
	panic(&VMError{Code: code, Kind: kind, Index: index, Message: msg})
}

// Guard runs fn and converts an engine defect (*VMError or *heap.Fault) into an
// error. It is meant for the outermost host boundary, where the current
// execution unit is abandoned and the defect reported. Any other panic is
// re-raised.
func Guard(fn func()) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if e, ok := r.(error); ok && IsFatal(e) {
			err = e
			return
		}
		panic(r)
	}()
	fn()
	return nil
}

// IsFatal reports whether err is an engine defect.
func IsFatal(err error) bool {
	var vmErr *VMError
	var f *heap.Fault
	return errors.As(err, &vmErr) || errors.As(err, &f)
}
