// Package heap provides the storage primitives behind the engine heap.
//
// An Arena is a growable slice of optional payload slots. Slots are addressed
// by a typed Index whose value is the slot position plus one, so the zero
// Index never names a payload and can be used as an "absent" marker.
//
// Collection support lives here as well:
//
//   - WorkQueue: handles discovered during marking, one queue per kind
//   - Marks: per-kind mark bits
//   - CompactionList: old-to-new renumbering computed from Marks
//
// Faults raised by this package are engine defects. They are delivered with
// panic and must not be handled as script errors.
package heap
