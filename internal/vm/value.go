package vm

import (
	"fmt"
	"math"
	"strconv"
)

// ValueKind identifies the variant of a Value.
type ValueKind uint8

const (
	// VKUndefined represents undefined. It is the zero Value.
	VKUndefined ValueKind = iota
	// VKNull represents null.
	VKNull
	// VKBool represents a boolean.
	VKBool
	// VKNumber represents an IEEE-754 number.
	VKNumber
	// VKString represents an immediate string.
	VKString
	// VKSymbol represents a symbol handle.
	VKSymbol
	// VKObject represents an ordinary object handle.
	VKObject
	// VKArray represents an array handle.
	VKArray
	// VKFunction represents a builtin function handle.
	VKFunction
	// VKEmbedder represents an embedder object handle.
	VKEmbedder
)

// String returns a human-readable name for the value kind.
func (k ValueKind) String() string {
	switch k {
	case VKUndefined:
		return "undefined"
	case VKNull:
		return "null"
	case VKBool:
		return "boolean"
	case VKNumber:
		return "number"
	case VKString:
		return "string"
	case VKSymbol:
		return "symbol"
	case VKObject:
		return "object"
	case VKArray:
		return "array"
	case VKFunction:
		return "function"
	case VKEmbedder:
		return "embedder"
	default:
		return fmt.Sprintf("ValueKind(%d)", k)
	}
}

// Value is the by-value representation of every script-visible datum.
// Heap variants carry only the discriminant and the handle.
type Value struct {
	Kind ValueKind
	Bool bool    // For VKBool
	Num  float64 // For VKNumber
	Str  string  // For VKString
	h    uint32  // For heap variants
}

// Undefined is the undefined value.
var Undefined = Value{}

// Null is the null value.
var Null = Value{Kind: VKNull}

// MakeBool returns a boolean value.
func MakeBool(b bool) Value { return Value{Kind: VKBool, Bool: b} }

// MakeNumber returns a number value.
func MakeNumber(n float64) Value { return Value{Kind: VKNumber, Num: n} }

// MakeString returns an immediate string value.
func MakeString(s string) Value { return Value{Kind: VKString, Str: s} }

// IsUndefined reports whether v is undefined.
func (v Value) IsUndefined() bool { return v.Kind == VKUndefined }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.Kind == VKNull }

// IsHeap reports whether v refers to a heap payload.
func (v Value) IsHeap() bool {
	switch v.Kind {
	case VKSymbol, VKObject, VKArray, VKFunction, VKEmbedder:
		return true
	default:
		return false
	}
}

// IsObject reports whether v is one of the object variants.
func (v Value) IsObject() bool {
	_, ok := v.AsObject()
	return ok
}

// AsObject narrows v to the Object union.
func (v Value) AsObject() (Object, bool) {
	switch v.Kind {
	case VKObject:
		return Object{Kind: OKOrdinary, h: v.h}, true
	case VKArray:
		return Object{Kind: OKArray, h: v.h}, true
	case VKFunction:
		return Object{Kind: OKFunction, h: v.h}, true
	case VKEmbedder:
		return Object{Kind: OKEmbedder, h: v.h}, true
	default:
		return Object{}, false
	}
}

// AsSymbol narrows v to a Symbol handle.
func (v Value) AsSymbol() (Symbol, bool) {
	if v.Kind != VKSymbol {
		return 0, false
	}
	return Symbol(v.h), true
}

// Handle returns the raw handle for heap variants and 0 otherwise.
func (v Value) Handle() uint32 {
	if !v.IsHeap() {
		return 0
	}
	return v.h
}

// String renders v for diagnostics. It is not ToString.
func (v Value) String() string {
	switch v.Kind {
	case VKUndefined:
		return "undefined"
	case VKNull:
		return "null"
	case VKBool:
		return strconv.FormatBool(v.Bool)
	case VKNumber:
		return formatNumber(v.Num)
	case VKString:
		return strconv.Quote(v.Str)
	default:
		return fmt.Sprintf("%s#%d", v.Kind, v.h)
	}
}

// formatNumber is Number::toString except that negative zero keeps its sign.
func formatNumber(n float64) string {
	if n == 0 && math.Signbit(n) {
		return "-0"
	}
	return numberToString(n)
}

// SameValue implements the SameValue comparison.
func SameValue(x, y Value) bool {
	if x.Kind != y.Kind {
		return false
	}
	switch x.Kind {
	case VKUndefined, VKNull:
		return true
	case VKBool:
		return x.Bool == y.Bool
	case VKNumber:
		if math.IsNaN(x.Num) && math.IsNaN(y.Num) {
			return true
		}
		return x.Num == y.Num && math.Signbit(x.Num) == math.Signbit(y.Num)
	case VKString:
		return x.Str == y.Str
	default:
		return x.h == y.h
	}
}

// MarkValues implements HeapMarkAndSweep.
func (v Value) MarkValues(q *WorkQueues) {
	switch v.Kind {
	case VKSymbol:
		Symbol(v.h).MarkValues(q)
	case VKObject, VKArray, VKFunction, VKEmbedder:
		o, _ := v.AsObject()
		o.MarkValues(q)
	}
}

// SweepValues implements HeapMarkAndSweep.
func (v *Value) SweepValues(c *CompactionLists) {
	switch v.Kind {
	case VKSymbol:
		c.Symbols.ShiftIndex(&v.h)
	case VKObject:
		c.Objects.ShiftIndex(&v.h)
	case VKArray:
		c.Arrays.ShiftIndex(&v.h)
	case VKFunction:
		c.Functions.ShiftIndex(&v.h)
	case VKEmbedder:
		c.Embedders.ShiftIndex(&v.h)
	}
}
