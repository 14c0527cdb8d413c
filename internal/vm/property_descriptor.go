package vm

// Flag is a tri-state boolean field of a PropertyDescriptor.
type Flag uint8

const (
	// FlagUnset means the field is absent.
	FlagUnset Flag = iota
	// FlagFalse means the field is present and false.
	FlagFalse
	// FlagTrue means the field is present and true.
	FlagTrue
)

// ToFlag converts a bool to a present Flag.
func ToFlag(b bool) Flag {
	if b {
		return FlagTrue
	}
	return FlagFalse
}

// IsSet reports whether the field is present.
func (f Flag) IsSet() bool { return f != FlagUnset }

// Bool returns the field value; absent reads as false.
func (f Flag) Bool() bool { return f == FlagTrue }

// PropertyDescriptor is a possibly partial property descriptor.
type PropertyDescriptor struct {
	Value        Value
	HasValue     bool
	Writable     Flag
	Get          Value // undefined or a function object
	HasGet       bool
	Set          Value // undefined or a function object
	HasSet       bool
	Enumerable   Flag
	Configurable Flag
}

// DataDescriptor builds a complete data descriptor.
func DataDescriptor(v Value, writable, enumerable, configurable bool) PropertyDescriptor {
	return PropertyDescriptor{
		Value:        v,
		HasValue:     true,
		Writable:     ToFlag(writable),
		Enumerable:   ToFlag(enumerable),
		Configurable: ToFlag(configurable),
	}
}

// AccessorDescriptor builds a complete accessor descriptor.
func AccessorDescriptor(get, set Value, enumerable, configurable bool) PropertyDescriptor {
	return PropertyDescriptor{
		Get:          get,
		HasGet:       true,
		Set:          set,
		HasSet:       true,
		Enumerable:   ToFlag(enumerable),
		Configurable: ToFlag(configurable),
	}
}

// IsAccessor reports whether d has [[Get]] or [[Set]].
func (d PropertyDescriptor) IsAccessor() bool { return d.HasGet || d.HasSet }

// IsData reports whether d has [[Value]] or [[Writable]].
func (d PropertyDescriptor) IsData() bool { return d.HasValue || d.Writable.IsSet() }

// IsGeneric reports whether d is neither a data nor an accessor descriptor.
func (d PropertyDescriptor) IsGeneric() bool { return !d.IsAccessor() && !d.IsData() }

// IsEmpty reports whether d has no fields at all.
func (d PropertyDescriptor) IsEmpty() bool {
	return d.IsGeneric() && !d.Enumerable.IsSet() && !d.Configurable.IsSet()
}

// MarkValues implements HeapMarkAndSweep.
func (d PropertyDescriptor) MarkValues(q *WorkQueues) {
	d.Value.MarkValues(q)
	d.Get.MarkValues(q)
	d.Set.MarkValues(q)
}

// SweepValues implements HeapMarkAndSweep.
func (d *PropertyDescriptor) SweepValues(c *CompactionLists) {
	d.Value.SweepValues(c)
	d.Get.SweepValues(c)
	d.Set.SweepValues(c)
}
