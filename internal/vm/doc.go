// Package vm holds the engine heap and the ECMAScript object model on top of it.
//
// This package contains:
//   - Agent: the execution context that owns the Heap and resolves handles
//   - Value and Object: closed unions over every heap kind
//   - the internal-method protocol and its ordinary-object defaults
//   - the array, builtin function, embedder object and symbol kinds
//   - the mark/sweep/compact collector
//
// Handles are plain integers. A handle obtained before a call that takes a
// GcScope may be renumbered by a collection inside that call; pin it or hold it
// in a registered root source to keep it valid.
package vm
