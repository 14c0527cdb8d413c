package vm

import (
	"fmt"
	"strconv"
)

// MaxArrayIndex is the largest integer index, 2^32 - 2.
const MaxArrayIndex = 1<<32 - 2

// PropertyKeyKind identifies the variant of a PropertyKey.
type PropertyKeyKind uint8

const (
	// PKIndex is a canonical array index.
	PKIndex PropertyKeyKind = iota + 1
	// PKString is any other string key.
	PKString
	// PKSymbol is a symbol key.
	PKSymbol
)

// PropertyKey names an own property. It is comparable and usable as a map key.
type PropertyKey struct {
	Kind  PropertyKeyKind
	Index uint32 // For PKIndex
	Str   string // For PKString
	sym   uint32 // For PKSymbol
}

// IndexKey returns the key for an array index.
func IndexKey(i uint32) PropertyKey {
	if i > MaxArrayIndex {
		return PropertyKey{Kind: PKString, Str: strconv.FormatUint(uint64(i), 10)}
	}
	return PropertyKey{Kind: PKIndex, Index: i}
}

// StringKey returns the key for s, canonicalizing array index strings.
func StringKey(s string) PropertyKey {
	if i, ok := parseArrayIndex(s); ok {
		return PropertyKey{Kind: PKIndex, Index: i}
	}
	return PropertyKey{Kind: PKString, Str: s}
}

// SymbolKey returns the key for a symbol.
func SymbolKey(s Symbol) PropertyKey {
	return PropertyKey{Kind: PKSymbol, sym: uint32(s)}
}

// parseArrayIndex accepts only the canonical decimal form: no sign, no
// leading zeros, at most MaxArrayIndex.
func parseArrayIndex(s string) (uint32, bool) {
	if s == "" || len(s) > 10 {
		return 0, false
	}
	if len(s) > 1 && s[0] == '0' {
		return 0, false
	}
	var n uint64
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + uint64(c-'0')
	}
	if n > MaxArrayIndex {
		return 0, false
	}
	return uint32(n), true
}

// IsArrayIndex reports whether k is an array index.
func (k PropertyKey) IsArrayIndex() bool { return k.Kind == PKIndex }

// IsSymbol reports whether k is a symbol key.
func (k PropertyKey) IsSymbol() bool { return k.Kind == PKSymbol }

// Symbol returns the symbol of a PKSymbol key.
func (k PropertyKey) Symbol() (Symbol, bool) {
	if k.Kind != PKSymbol {
		return 0, false
	}
	return Symbol(k.sym), true
}

// Value converts k to the value a script would observe.
func (k PropertyKey) Value() Value {
	switch k.Kind {
	case PKIndex:
		return MakeString(strconv.FormatUint(uint64(k.Index), 10))
	case PKSymbol:
		return Value{Kind: VKSymbol, h: k.sym}
	default:
		return MakeString(k.Str)
	}
}

func (k PropertyKey) String() string {
	switch k.Kind {
	case PKIndex:
		return strconv.FormatUint(uint64(k.Index), 10)
	case PKString:
		return k.Str
	case PKSymbol:
		return fmt.Sprintf("symbol#%d", k.sym)
	default:
		return "<invalid key>"
	}
}

// ToPropertyKey converts a primitive value to a key. Objects need ToPrimitive,
// which calls script code, and are rejected with a TypeError.
func ToPropertyKey(a *Agent, v Value) (PropertyKey, *Exception) {
	switch v.Kind {
	case VKSymbol:
		return PropertyKey{Kind: PKSymbol, sym: v.h}, nil
	case VKString:
		return StringKey(v.Str), nil
	case VKNumber:
		if v.Num >= 0 && v.Num <= MaxArrayIndex && v.Num == float64(uint32(v.Num)) {
			return IndexKey(uint32(v.Num)), nil
		}
		return StringKey(numberToString(v.Num)), nil
	case VKUndefined, VKNull, VKBool:
		return StringKey(v.String()), nil
	default:
		return PropertyKey{}, a.NewTypeError("cannot convert object to property key")
	}
}

// MarkValues implements HeapMarkAndSweep.
func (k PropertyKey) MarkValues(q *WorkQueues) {
	if k.Kind == PKSymbol {
		Symbol(k.sym).MarkValues(q)
	}
}

// SweepValues implements HeapMarkAndSweep.
func (k *PropertyKey) SweepValues(c *CompactionLists) {
	if k.Kind == PKSymbol {
		c.Symbols.ShiftIndex(&k.sym)
	}
}
