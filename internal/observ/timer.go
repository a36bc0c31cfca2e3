// Package observ collects per-phase wall-clock timings for --timings.
package observ

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

type sample struct {
	name   string
	start  time.Time
	dur    time.Duration
	failed bool
}

// Timer records phase samples. One build runs the same phases once per
// file, so the report folds samples with the same name together.
// Safe for use from the workers of a parallel build.
type Timer struct {
	mu      sync.Mutex
	samples []sample
}

func NewTimer() *Timer { return &Timer{} }

// Begin starts a sample and returns its handle for End.
func (t *Timer) Begin(name string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.samples = append(t.samples, sample{name: name, start: time.Now()})
	return len(t.samples) - 1
}

// End closes the sample; unknown handles are ignored.
func (t *Timer) End(idx int, failed bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if idx < 0 || idx >= len(t.samples) {
		return
	}
	s := &t.samples[idx]
	s.dur = time.Since(s.start)
	s.failed = failed
}

// Track runs fn as one sample of phase name.
func (t *Timer) Track(name string, fn func() error) error {
	idx := t.Begin(name)
	err := fn()
	t.End(idx, err != nil)
	return err
}

// PhaseReport агрегирует все замеры одной фазы.
type PhaseReport struct {
	Name       string  `json:"name"`
	Count      int     `json:"count"`
	DurationMS float64 `json:"duration_ms"` // сумма по всем замерам
	MaxMS      float64 `json:"max_ms"`
	Failed     int     `json:"failed,omitempty"`
}

type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"` // в порядке первого появления
}

// Report folds the samples by phase name.
func (t *Timer) Report() Report {
	t.mu.Lock()
	defer t.mu.Unlock()

	var rep Report
	pos := make(map[string]int)
	for _, s := range t.samples {
		i, ok := pos[s.name]
		if !ok {
			i = len(rep.Phases)
			pos[s.name] = i
			rep.Phases = append(rep.Phases, PhaseReport{Name: s.name})
		}
		p := &rep.Phases[i]
		ms := millis(s.dur)
		p.Count++
		p.DurationMS += ms
		p.MaxMS = max(p.MaxMS, ms)
		if s.failed {
			p.Failed++
		}
		rep.TotalMS += ms
	}
	return rep
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	totalStyle  = lipgloss.NewStyle().Bold(true)
	noteStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Summary renders the report as a table; styled turns on lipgloss styling.
func (t *Timer) Summary(styled bool) string {
	render := func(s lipgloss.Style, text string) string {
		if !styled {
			return text
		}
		return s.Render(text)
	}

	rep := t.Report()
	var sb strings.Builder
	sb.WriteString(render(headerStyle, "timings:") + "\n")
	for _, p := range rep.Phases {
		fmt.Fprintf(&sb, "  %-12s %9.3f ms", p.Name, p.DurationMS)
		if p.Count > 1 {
			sb.WriteString(render(noteStyle, fmt.Sprintf("  x%d, max %.3f ms", p.Count, p.MaxMS)))
		}
		if p.Failed > 0 {
			sb.WriteString(render(noteStyle, fmt.Sprintf("  %d failed", p.Failed)))
		}
		sb.WriteString("\n")
	}
	sb.WriteString(render(totalStyle, fmt.Sprintf("  %-12s %9.3f ms", "total", rep.TotalMS)) + "\n")
	return sb.String()
}
