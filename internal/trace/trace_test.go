package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	for _, s := range []string{"off", "error", "phase", "detail", "debug"} {
		lvl, err := ParseLevel(s)
		if err != nil {
			t.Fatalf("ParseLevel(%q): %v", s, err)
		}
		if lvl.String() != s {
			t.Errorf("round trip %q -> %q", s, lvl.String())
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestLevelFilter(t *testing.T) {
	tests := []struct {
		level Level
		ev    Event
		want  bool
	}{
		{LevelOff, Event{Scope: ScopeDriver, Failed: true}, false},
		{LevelError, Event{Scope: ScopeDriver}, false},
		{LevelError, Event{Scope: ScopeNode, Failed: true}, true},
		{LevelPhase, Event{Scope: ScopePass}, true},
		{LevelPhase, Event{Scope: ScopeFile}, false},
		{LevelDetail, Event{Scope: ScopeFile}, true},
		{LevelDetail, Event{Scope: ScopeNode}, false},
		{LevelDebug, Event{Scope: ScopeNode}, true},
	}
	for _, tt := range tests {
		if got := tt.level.ShouldEmit(&tt.ev); got != tt.want {
			t.Errorf("%s.ShouldEmit(%s, failed=%v) = %v, want %v", tt.level, tt.ev.Scope, tt.ev.Failed, got, tt.want)
		}
	}
}

func TestStreamTracerText(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatText)

	root := Begin(tr, ScopeDriver, "compile", 0)
	pass := Begin(tr, ScopePass, "parse", root.ID())
	pass.WithExtra("tokens", "12").End("")
	Begin(tr, ScopeNode, "fn:main", pass.ID()).End("") // отфильтровано
	root.End("ok")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "\u2192 compile") {
		t.Errorf("line 0 = %q", lines[0])
	}
	if !strings.Contains(lines[2], "\u2190 parse") || !strings.Contains(lines[2], "{tokens=12}") {
		t.Errorf("line 2 = %q", lines[2])
	}
	if !strings.Contains(lines[3], "compile (ok)") {
		t.Errorf("line 3 = %q", lines[3])
	}
}

func TestStreamTracerNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelError, FormatNDJSON)

	Begin(tr, ScopePass, "lower", 0).End("")
	Begin(tr, ScopePass, "codegen", 0).Fail(errors.New("register clobbered")).End("")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected only the failed span, got:\n%s", buf.String())
	}
	var got map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if got["name"] != "codegen" || got["kind"] != "end" || got["failed"] != true {
		t.Fatalf("unexpected event: %v", got)
	}
	extra, ok := got["extra"].(map[string]any)
	if !ok || extra["error"] != "register clobbered" {
		t.Fatalf("missing error extra: %v", got)
	}
}

func TestNewOff(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil {
		t.Fatal(err)
	}
	if tr.Enabled() {
		t.Fatal("off tracer must be disabled")
	}
	if span := Begin(tr, ScopeDriver, "x", 0); span.End("") != 0 {
		t.Fatal("nop span must report zero duration")
	}
}

func TestContext(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatText)
	ctx := WithTracer(context.Background(), tr)
	if FromContext(ctx) != tr {
		t.Fatal("tracer not propagated")
	}
	if FromContext(context.Background()) != Nop {
		t.Fatal("missing tracer must fall back to Nop")
	}
	ctx = WithSpanContext(ctx, SpanContext{SpanID: 7})
	if CurrentSpan(ctx).SpanID != 7 {
		t.Fatal("span context not propagated")
	}
	if FromContext(ctx) != tr {
		t.Fatal("WithSpanContext dropped the tracer")
	}

	child, span := StartSpan(ctx, ScopePass, "lower")
	if CurrentSpan(child).SpanID != span.ID() || span.ID() == 0 {
		t.Fatalf("child context carries span %d, want %d", CurrentSpan(child).SpanID, span.ID())
	}
	span.End("")
	if !strings.Contains(buf.String(), "lower") {
		t.Fatalf("span events missing:\n%s", buf.String())
	}

	bare := context.Background()
	got, inert := StartSpan(bare, ScopePass, "x")
	if got != bare || inert.ID() != 0 {
		t.Fatal("StartSpan without a tracer must not derive a context")
	}
}
