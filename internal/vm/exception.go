package vm

import "fmt"

// ExceptionKind identifies the constructor a script would observe for an
// engine-raised exception.
type ExceptionKind uint8

const (
	// ExceptionThrown wraps an arbitrary value thrown by script or host code.
	ExceptionThrown ExceptionKind = iota
	// ExceptionTypeError is a TypeError.
	ExceptionTypeError
	// ExceptionRangeError is a RangeError.
	ExceptionRangeError
)

// String returns the constructor name.
func (k ExceptionKind) String() string {
	switch k {
	case ExceptionTypeError:
		return "TypeError"
	case ExceptionRangeError:
		return "RangeError"
	default:
		return "Thrown"
	}
}

// Exception is a script-visible abrupt completion. It is the only error the
// object protocol returns; engine defects panic instead.
//
// A thrown Value may hold a handle, so an Exception must be handled before the
// next collection point.
type Exception struct {
	Kind    ExceptionKind
	Message string
	Value   Value
}

// Error implements the error interface.
func (e *Exception) Error() string {
	if e.Kind == ExceptionThrown {
		return fmt.Sprintf("uncaught %s", e.Value)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// NewTypeError returns a TypeError exception.
func (a *Agent) NewTypeError(msg string) *Exception {
	return a.raise(&Exception{Kind: ExceptionTypeError, Message: msg})
}

// NewRangeError returns a RangeError exception.
func (a *Agent) NewRangeError(msg string) *Exception {
	return a.raise(&Exception{Kind: ExceptionRangeError, Message: msg})
}

// Throw wraps a thrown value.
func (a *Agent) Throw(v Value) *Exception {
	return a.raise(&Exception{Kind: ExceptionThrown, Value: v})
}

func (a *Agent) raise(e *Exception) *Exception {
	a.traceException(e)
	return e
}
