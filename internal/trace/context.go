package trace

import "context"

type ctxKey struct{}

// FromContext returns the tracer attached by WithTracer, or Nop. Commands
// attach the tracer once; packages that start agents read it from here when
// no tracer was configured explicitly.
func FromContext(ctx context.Context) Tracer {
	if ctx == nil {
		return Nop
	}
	if t, ok := ctx.Value(ctxKey{}).(Tracer); ok {
		return t
	}
	return Nop
}

// WithTracer attaches t to ctx. A nil tracer is stored as Nop.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, ctxKey{}, t)
}
