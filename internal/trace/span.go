package trace

import (
	"bytes"
	"context"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"
)

var (
	globalSeq   uint64
	globalSpans uint64
)

// NextSeq returns a monotonically increasing sequence number.
func NextSeq() uint64 {
	return atomic.AddUint64(&globalSeq, 1)
}

// NextSpanID returns a unique span ID.
func NextSpanID() uint64 {
	return atomic.AddUint64(&globalSpans, 1)
}

// getGoroutineID extracts the current goroutine ID using runtime.Stack.
// Нужен, чтобы различать параллельные разборы ParseDir в выводе.
func getGoroutineID() uint64 {
	buf := make([]byte, 64)
	n := runtime.Stack(buf, false)
	buf = buf[:n]

	// Stack format: "goroutine 123 [running]:\n..."
	// Extract the number between "goroutine " and " ["
	const prefix = "goroutine "
	if !bytes.HasPrefix(buf, []byte(prefix)) {
		return 0
	}

	buf = buf[len(prefix):]
	end := bytes.IndexByte(buf, ' ')
	if end < 0 {
		return 0
	}

	gid, err := strconv.ParseUint(string(buf[:end]), 10, 64)
	if err != nil {
		return 0
	}
	return gid
}

// Span: начатая операция; End закрывает её событием KindSpanEnd.
type Span struct {
	tracer   Tracer
	id       uint64
	parentID uint64
	gid      uint64
	op       Op
	file     string
	started  time.Time
	extra    map[string]string
}

var nopSpan = &Span{tracer: Nop}

// Begin starts a span for op under parent (0 for a root span).
func Begin(t Tracer, op Op, parent uint64) *Span {
	return BeginFile(t, op, "", parent)
}

// BeginFile starts a span for op on file. Пока такой спан уровня pass
// открыт, файл числится в Inflight и попадает в heartbeat.
func BeginFile(t Tracer, op Op, file string, parent uint64) *Span {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(op.Scope()) {
		return nopSpan
	}

	s := &Span{
		tracer:   t,
		id:       NextSpanID(),
		parentID: parent,
		gid:      getGoroutineID(),
		op:       op,
		file:     file,
		started:  time.Now(),
	}
	t.Emit(&Event{
		Time:     s.started,
		Seq:      NextSeq(),
		Kind:     KindSpanBegin,
		Scope:    op.Scope(),
		Op:       op,
		SpanID:   s.id,
		ParentID: parent,
		GID:      s.gid,
		File:     file,
	})
	if file != "" && op.Scope() == ScopePass {
		inflight.enter(s)
	}
	return s
}

// End emits the span end event and returns the span duration.
func (s *Span) End(detail string) time.Duration {
	if s == nil || s.id == 0 {
		return 0
	}
	dur := time.Since(s.started)
	if s.file != "" && s.op.Scope() == ScopePass {
		inflight.leave(s.id)
	}
	s.tracer.Emit(&Event{
		Time:     time.Now(),
		Seq:      NextSeq(),
		Kind:     KindSpanEnd,
		Scope:    s.op.Scope(),
		Op:       s.op,
		SpanID:   s.id,
		ParentID: s.parentID,
		GID:      s.gid,
		File:     s.file,
		Detail:   detail,
		Extra:    s.extra,
	})
	return dur
}

// WithExtra adds a key-value pair to the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if s == nil || s.id == 0 {
		return s
	}
	if s.extra == nil {
		s.extra = make(map[string]string)
	}
	s.extra[key] = value
	return s
}

func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

// Context returns ctx carrying this span as the parent of nested spans.
func (s *Span) Context(ctx context.Context) context.Context {
	if s == nil || s.id == 0 {
		return ctx
	}
	return WithSpanContext(ctx, SpanContext{SpanID: s.id, GID: s.gid})
}

// Point emits an instant op nested in s; the event inherits the span's file.
func (s *Span) Point(op Op, detail string) {
	if s == nil || s.id == 0 {
		return
	}
	emitPoint(s.tracer, op, s.file, detail, s.id)
}

// Point emits an instant event under parent.
func Point(t Tracer, op Op, detail string, parent uint64) {
	emitPoint(t, op, "", detail, parent)
}

// PointCtx emits an instant event using the tracer, span and file of ctx.
func PointCtx(ctx context.Context, op Op, detail string) {
	emitPoint(FromContext(ctx), op, FileFromContext(ctx), detail, CurrentSpan(ctx).SpanID)
}

func emitPoint(t Tracer, op Op, file, detail string, parent uint64) {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(op.Scope()) {
		return
	}
	t.Emit(&Event{
		Time:     time.Now(),
		Kind:     KindPoint,
		Scope:    op.Scope(),
		Op:       op,
		ParentID: parent,
		GID:      getGoroutineID(),
		File:     file,
		Detail:   detail,
	})
}
