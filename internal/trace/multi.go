package trace

import "errors"

// MultiTracer sends every event to each of its tracers.
type MultiTracer struct {
	leveled
	tracers []Tracer
}

// NewMultiTracer fans out to tracers. Each filters by its own level.
func NewMultiTracer(level Level, tracers ...Tracer) *MultiTracer {
	return &MultiTracer{leveled: leveled{level}, tracers: tracers}
}

// Emit gives every tracer its own copy of ev.
func (t *MultiTracer) Emit(ev *Event) {
	for _, tr := range t.tracers {
		copied := *ev
		tr.Emit(&copied)
	}
}

func (t *MultiTracer) Flush() error { return t.each(Tracer.Flush) }
func (t *MultiTracer) Close() error { return t.each(Tracer.Close) }

func (t *MultiTracer) each(fn func(Tracer) error) error {
	errs := make([]error, 0, len(t.tracers))
	for _, tr := range t.tracers {
		errs = append(errs, fn(tr))
	}
	return errors.Join(errs...)
}
