package trace

import "context"

type (
	tracerKey struct{}
	spanKey   struct{}
	fileKey   struct{}
)

func value[T any](ctx context.Context, key any) (T, bool) {
	var zero T
	if ctx == nil {
		return zero, false
	}
	v, ok := ctx.Value(key).(T)
	return v, ok
}

// FromContext returns the tracer carried by ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	if t, ok := value[Tracer](ctx, tracerKey{}); ok {
		return t
	}
	return Nop
}

func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, tracerKey{}, t)
}

// SpanContext: родитель для вложенных спанов.
type SpanContext struct {
	SpanID uint64
	GID    uint64
}

// CurrentSpan returns the innermost span stored by Span.Context; zero if none.
func CurrentSpan(ctx context.Context) SpanContext {
	sc, _ := value[SpanContext](ctx, spanKey{})
	return sc
}

func WithSpanContext(ctx context.Context, sc SpanContext) context.Context {
	if ctx == nil {
		return nil
	}
	return context.WithValue(ctx, spanKey{}, sc)
}

// WithFile marks ctx as belonging to the file at path. События, выпущенные
// через PointCtx, получают этот путь в Event.File.
func WithFile(ctx context.Context, path string) context.Context {
	if ctx == nil {
		return nil
	}
	return context.WithValue(ctx, fileKey{}, path)
}

// FileFromContext returns the path set by WithFile, or "".
func FileFromContext(ctx context.Context) string {
	path, _ := value[string](ctx, fileKey{})
	return path
}
