package ui

import (
	"errors"
	"strings"
	"testing"

	"sysyc/internal/driver"
)

func TestApplyEvents(t *testing.T) {
	events := make(chan driver.Event)
	m := NewProgressModel("build", []string{"a.c", "b.c"}, events).(*progressModel)

	if got := m.Percent(); got != 0 {
		t.Fatalf("initial percent = %v", got)
	}
	m.apply(driver.Event{File: "a.c", Stage: driver.StageEmit, Status: driver.StatusWorking})
	m.apply(driver.Event{File: "b.c", Stage: driver.StageParse, Status: driver.StatusError, Err: errors.New("compilation failed")})
	m.apply(driver.Event{File: "unknown.c", Stage: driver.StageParse, Status: driver.StatusDone})
	// события после завершения файла игнорируются
	m.apply(driver.Event{File: "b.c", Stage: driver.StageLower, Status: driver.StatusWorking})

	if got := m.files[0].label(); got != "emit" {
		t.Fatalf("a.c label = %q", got)
	}
	if got := m.files[1].label(); got != "error" {
		t.Fatalf("b.c label = %q", got)
	}
	if got, want := m.Percent(), (0.5+1.0)/2; got != want {
		t.Fatalf("percent = %v, want %v", got, want)
	}

	view := m.View()
	for _, want := range []string{"a.c", "emit", "compilation failed", "1/2 files", "1 failed"} {
		if !strings.Contains(view, want) {
			t.Errorf("view lacks %q:\n%s", want, view)
		}
	}
}

func TestQuitsWhenEventsClose(t *testing.T) {
	events := make(chan driver.Event)
	close(events)
	m := NewProgressModel("build", []string{"a.c"}, events).(*progressModel)
	msg := m.next()()
	if _, ok := msg.(closedMsg); !ok {
		t.Fatalf("expected closedMsg, got %T", msg)
	}
	if _, cmd := m.Update(msg); cmd == nil {
		t.Fatal("expected quit command")
	}
	if !m.closed {
		t.Fatal("model not closed")
	}
	if strings.Contains(m.View(), m.spinner.View()) {
		t.Fatal("closed model still shows the spinner")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short.c", 20, "short.c"},
		{"very/long/path/main.c", 10, "very/lo..."},
		{"abcdef", 3, "abc"},
		{"abc", 0, "abc"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
