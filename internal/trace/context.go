package trace

import "context"

type ctxKey struct{}

// FromContext returns the context's Tracer, or Nop.
func FromContext(ctx context.Context) Tracer {
	if ctx == nil {
		return Nop
	}
	if t, ok := ctx.Value(ctxKey{}).(Tracer); ok {
		return t
	}
	return Nop
}

// WithTracer attaches t to ctx. A nil t attaches Nop.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, ctxKey{}, t)
}

type parentKey struct{}

// WithParent records spanID as the parent of spans begun further down.
func WithParent(ctx context.Context, spanID uint64) context.Context {
	return context.WithValue(ctx, parentKey{}, spanID)
}

// ParentID returns the span recorded by WithParent, or 0.
func ParentID(ctx context.Context) uint64 {
	if ctx == nil {
		return 0
	}
	id, _ := ctx.Value(parentKey{}).(uint64) //nolint:errcheck
	return id
}
