package trace

import (
	"sync/atomic"
	"time"
)

// счётчики общие для всех трейсеров процесса
var seqCounter, spanCounter atomic.Uint64

// NextSeq numbers emitted events; StreamTracer stamps each one.
func NextSeq() uint64 { return seqCounter.Add(1) }

// NextSpanID hands out span identifiers; 0 is never used and means "root".
func NextSpanID() uint64 { return spanCounter.Add(1) }

// Span is one timed region. A span created while tracing is disabled is
// inert: every method is a no-op and ID returns 0.
type Span struct {
	tracer  Tracer
	id      uint64
	parent  uint64
	scope   Scope
	name    string
	started time.Time
	failed  bool
	extra   map[string]string
}

func (s *Span) live() bool {
	return s != nil && s.tracer != nil && s.id != 0
}

func (s *Span) event(kind Kind, at time.Time) *Event {
	return &Event{
		Time:     at,
		Kind:     kind,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parent,
		Name:     s.name,
	}
}

// Begin opens a span under parent (0 for a root span).
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	if t == nil || !t.Enabled() {
		return &Span{}
	}
	s := &Span{
		tracer:  t,
		id:      NextSpanID(),
		parent:  parent,
		scope:   scope,
		name:    name,
		started: time.Now(),
	}
	t.Emit(s.event(KindSpanBegin, s.started))
	return s
}

// End closes the span with an optional detail and returns its duration.
func (s *Span) End(detail string) time.Duration {
	if !s.live() {
		return 0
	}
	now := time.Now()
	ev := s.event(KindSpanEnd, now)
	ev.Detail = detail
	ev.Elapsed = now.Sub(s.started)
	ev.Failed = s.failed
	ev.Extra = s.extra
	s.tracer.Emit(ev)
	return ev.Elapsed
}

// Fail marks the span failed when err is non-nil; failed spans pass even
// the error level.
func (s *Span) Fail(err error) *Span {
	if err != nil && s.live() {
		s.failed = true
		s.WithExtra("error", err.Error())
	}
	return s
}

// WithExtra attaches key=value to the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if !s.live() {
		return s
	}
	if s.extra == nil {
		s.extra = make(map[string]string, 1)
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

// Point emits an instant event under parent.
func Point(t Tracer, scope Scope, name, detail string, parent uint64) {
	if t == nil || !t.Enabled() {
		return
	}
	t.Emit(&Event{
		Time:     time.Now(),
		Kind:     KindPoint,
		Scope:    scope,
		SpanID:   NextSpanID(),
		ParentID: parent,
		Name:     name,
		Detail:   detail,
	})
}
