// Package fuzztests houses Go fuzz harnesses for the heap core. Inputs are
// read as small op scripts: arenas are compacted under arbitrary mark sets,
// and agents are mutated through the object protocol and collected, with the
// heap invariants checked after every cycle.
//
// An engine defect (*vm.VMError, *heap.Fault) on any input is a failure;
// script-visible exceptions are expected and ignored.
package fuzztests
