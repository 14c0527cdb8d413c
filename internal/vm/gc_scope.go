package vm

// GcScope is the capability to run a collection. Every operation that may
// reach a collection point takes one, so a caller can tell from a signature
// whether handles held in Go locals survive the call. Handles that must
// outlive a collection have to be pinned, registered through AddRoots, or
// passed as call-site roots.
type GcScope struct {
	a *Agent
}

// GcScope returns the agent's collection capability.
func (a *Agent) GcScope() GcScope { return GcScope{a: a} }

// Agent returns the agent the scope belongs to.
func (gc GcScope) Agent() *Agent { return gc.a }

// Collect runs a full collection. roots are extra call-site roots; they are
// marked and rewritten in place, so they must be pointers (*Value,
// *OrdinaryObject, *ValueStack, ...).
func (gc GcScope) Collect(roots ...HeapMarkAndSweep) CollectStats {
	if gc.a == nil {
		fatal(PanicZeroScope, "collection through a zero GcScope")
	}
	return gc.a.collect(TriggerExplicit, roots)
}

// Safepoint collects only when the allocation threshold has been reached
// since the last collection. It reports whether a collection ran.
func (gc GcScope) Safepoint(roots ...HeapMarkAndSweep) (CollectStats, bool) {
	if gc.a == nil {
		fatal(PanicZeroScope, "safepoint through a zero GcScope")
	}
	if !gc.a.thresholdReached() {
		return CollectStats{}, false
	}
	return gc.a.collect(TriggerThreshold, roots), true
}

// Due reports whether the next Safepoint would collect.
func (gc GcScope) Due() bool {
	return gc.a != nil && gc.a.thresholdReached()
}
