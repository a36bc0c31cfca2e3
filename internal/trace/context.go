package trace

import "context"

// SpanContext identifies the span that new child spans attach to.
type SpanContext struct {
	SpanID uint64
}

// carrier — всё, что трассировка хранит в context: трейсер и текущий спан.
type carrier struct {
	tracer Tracer
	span   SpanContext
}

type ctxKey struct{}

func load(ctx context.Context) carrier {
	if ctx != nil {
		if c, ok := ctx.Value(ctxKey{}).(carrier); ok {
			return c
		}
	}
	return carrier{tracer: Nop}
}

func store(ctx context.Context, c carrier) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxKey{}, c)
}

// FromContext returns the Tracer attached to ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	return load(ctx).tracer
}

// WithTracer attaches t to ctx; the current span is kept.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	c := load(ctx)
	c.tracer = t
	return store(ctx, c)
}

// CurrentSpan returns the span new work in ctx belongs to (zero at the root).
func CurrentSpan(ctx context.Context) SpanContext {
	return load(ctx).span
}

// WithSpanContext makes sc the current span of the returned context.
func WithSpanContext(ctx context.Context, sc SpanContext) context.Context {
	c := load(ctx)
	c.span = sc
	return store(ctx, c)
}

// StartSpan begins a child of the current span and returns a context in which
// the new span is current. With tracing off the span is inert and ctx is
// returned as is.
func StartSpan(ctx context.Context, scope Scope, name string) (context.Context, *Span) {
	c := load(ctx)
	span := Begin(c.tracer, scope, name, c.span.SpanID)
	if span.ID() == 0 {
		return ctx, span
	}
	c.span = SpanContext{SpanID: span.ID()}
	return store(ctx, c), span
}
