package vm

import (
	"fmt"

	"github.com/JamesPatrickGill/nova/internal/trace"
)

// BeginSpan opens an agent-scope span; collections started before the
// returned function is called nest under it.
func (a *Agent) BeginSpan(name string) (end func(detail string)) {
	span := trace.Begin(a.tracer, trace.ScopeAgent, name, 0)
	prev := a.span
	a.span = span.ID()
	return func(detail string) {
		a.span = prev
		span.End(detail)
	}
}

func (a *Agent) traceAlloc(kind string, index uint32) {
	if !a.tracer.Enabled() {
		return
	}
	trace.Point(a.tracer, trace.ScopeObject, "alloc:"+kind, fmt.Sprintf("#%d", index), a.span)
}

func (a *Agent) traceException(e *Exception) {
	if !a.tracer.Enabled() {
		return
	}
	trace.Point(a.tracer, trace.ScopeObject, "exception", e.Error(), a.span)
}
