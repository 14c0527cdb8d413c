package heap

import "fmt"

// Index is a handle into an Arena[T]. The type parameter only tags the kind;
// indices of different payload types never convert implicitly.
type Index[T any] uint32

// IsValid reports whether i names a slot. The zero Index is the sentinel.
func (i Index[T]) IsValid() bool { return i != 0 }

// Slot returns the zero-based slot position.
func (i Index[T]) Slot() int { return int(i) - 1 }

// Less orders indices by raw value.
func (i Index[T]) Less(other Index[T]) bool { return i < other }

func (i Index[T]) String() string {
	if i == 0 {
		return "#none"
	}
	return fmt.Sprintf("#%d", uint32(i))
}

// IndexFromSlot converts a slot position back to an Index.
func IndexFromSlot[T any](slot int) Index[T] {
	return Index[T](toUint32(slot) + 1)
}
