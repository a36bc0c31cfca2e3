// Package ui renders live build progress in the terminal.
package ui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"sysyc/internal/driver"
)

// stageOrder — порядок стадий одного файла; прогресс файла считается по нему.
var stageOrder = []driver.Stage{driver.StageParse, driver.StageLower, driver.StageEmit, driver.StageWrite}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	workingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	idleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

type fileState struct {
	path   string
	stage  driver.Stage
	status driver.Status
	err    error
}

// finished: файл дошёл до done или error.
func (f fileState) finished() bool {
	return f.status == driver.StatusDone || f.status == driver.StatusError
}

// fraction is the share of this file's pipeline already behind it.
func (f fileState) fraction() float64 {
	if f.finished() {
		return 1
	}
	if f.status != driver.StatusWorking {
		return 0
	}
	idx := slices.Index(stageOrder, f.stage)
	if idx < 0 {
		return 0
	}
	return float64(idx) / float64(len(stageOrder))
}

func (f fileState) label() string {
	switch f.status {
	case driver.StatusWorking:
		return string(f.stage)
	case "":
		return string(driver.StatusQueued)
	default:
		return string(f.status)
	}
}

func (f fileState) style() lipgloss.Style {
	switch f.status {
	case driver.StatusDone:
		return doneStyle
	case driver.StatusError:
		return errorStyle
	case driver.StatusWorking:
		return workingStyle
	default:
		return idleStyle
	}
}

type progressModel struct {
	title   string
	events  <-chan driver.Event
	spinner spinner.Model
	bar     progress.Model
	files   []fileState
	index   map[string]int
	width   int
	closed  bool
}

type eventMsg driver.Event
type closedMsg struct{}

// NewProgressModel returns a Bubble Tea model fed by events; it quits once
// the channel is closed.
func NewProgressModel(title string, files []string, events <-chan driver.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = workingStyle

	bar := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	bar.Width = 60

	m := &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		bar:     bar,
		index:   make(map[string]int, len(files)),
		width:   80,
	}
	for i, path := range files {
		m.files = append(m.files, fileState{path: path, status: driver.StatusQueued})
		m.index[path] = i
	}
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.next())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.apply(driver.Event(msg)), m.next())
	case closedMsg:
		m.closed = true
		return m, tea.Quit
	case tea.KeyMsg:
		// сборка продолжается, UI лишь перестаёт рисовать
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = max(msg.Width-4, 10)
		}
	case spinner.TickMsg:
		if !m.closed {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	if len(m.files) == 0 {
		return ""
	}
	var b strings.Builder
	if m.closed {
		b.WriteString(titleStyle.Render(m.title))
	} else {
		b.WriteString(m.spinner.View() + " " + titleStyle.Render(m.title))
	}
	b.WriteString("\n\n")

	nameWidth := max(m.width-14, 20)
	for _, f := range m.files {
		fmt.Fprintf(&b, "  %s %s", f.style().Render(fmt.Sprintf("%-7s", f.label())), truncate(f.path, nameWidth))
		if f.err != nil {
			b.WriteString("\n          " + errorStyle.Render(truncate(f.err.Error(), nameWidth)))
		}
		b.WriteByte('\n')
	}

	b.WriteByte('\n')
	if m.closed {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteString("\n" + m.summary() + "\n")
	return b.String()
}

// summary: "2/3 files, 1 failed".
func (m *progressModel) summary() string {
	finished, failed := 0, 0
	for _, f := range m.files {
		if f.finished() {
			finished++
		}
		if f.status == driver.StatusError {
			failed++
		}
	}
	s := fmt.Sprintf("%d/%d files", finished, len(m.files))
	if failed > 0 {
		s += ", " + errorStyle.Render(fmt.Sprintf("%d failed", failed))
	}
	return s
}

func (m *progressModel) next() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return closedMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) apply(ev driver.Event) tea.Cmd {
	i, ok := m.index[ev.File]
	if !ok {
		return nil
	}
	f := &m.files[i]
	if f.finished() {
		return nil
	}
	f.stage, f.status = ev.Stage, ev.Status
	if ev.Err != nil {
		f.err = ev.Err
	}
	return m.bar.SetPercent(m.Percent())
}

// Percent is the overall completion in [0, 1].
func (m *progressModel) Percent() float64 {
	if len(m.files) == 0 {
		return 0
	}
	total := 0.0
	for _, f := range m.files {
		total += f.fraction()
	}
	return total / float64(len(m.files))
}

func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
