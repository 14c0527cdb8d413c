package heap

import (
	"fmt"

	"fortio.org/safecast"
)

// FaultCode identifies an engine invariant violation.
type FaultCode int

// Stable fault codes - do not change values.
const (
	FaultSentinel         FaultCode = 2001 // HEAP2001: sentinel handle dereferenced
	FaultOutOfRange       FaultCode = 2002 // HEAP2002: handle beyond arena
	FaultEmptySlot        FaultCode = 2003 // HEAP2003: slot freed or never filled
	FaultCompactionLength FaultCode = 2004 // HEAP2004: compaction list does not cover arena
	FaultDanglingHandle   FaultCode = 2005 // HEAP2005: handle to a removed slot survived marking
	FaultIndexSpace       FaultCode = 2006 // HEAP2006: arena exceeded uint32 index space
)

// String returns the code as "HEAP2001" format.
func (c FaultCode) String() string {
	return fmt.Sprintf("HEAP%d", c)
}

// Fault is an engine defect detected by the heap. It is raised with panic.
type Fault struct {
	Code    FaultCode
	Kind    string
	Index   uint32
	Message string
}

// Error implements the error interface.
func (f *Fault) Error() string {
	if f.Kind == "" {
		return fmt.Sprintf("fault %s: %s", f.Code, f.Message)
	}
	return fmt.Sprintf("fault %s: %s #%d: %s", f.Code, f.Kind, f.Index, f.Message)
}

func fault(code FaultCode, kind string, index uint32, msg string) {
	panic(&Fault{Code: code, Kind: kind, Index: index, Message: msg})
}

func toUint32(n int) uint32 {
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		fault(FaultIndexSpace, "", 0, fmt.Sprintf("index overflow: %v", err))
	}
	return v
}
