package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"sysyc/internal/diag"
	"sysyc/internal/source"
)

const tabWidth = 4

type palette struct {
	err, warn, info, note, gutter, caret, bold *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		note:   color.New(color.FgCyan),
		gutter: color.New(color.FgBlue, color.Bold),
		caret:  color.New(color.FgRed, color.Bold),
		bold:   color.New(color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.gutter, p.caret, p.bold} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <sev> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes с аналогичным форматом.
// Колонка подчёркивания считается в экранных ячейках (runewidth).
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil || fs == nil {
		return
	}
	pal := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		f := fs.Get(d.Primary.File)
		start, _ := fs.Resolve(d.Primary)
		sev := pal.severity(d.Severity)
		fmt.Fprintf(w, "%s:%d:%d: %s %s\n",
			formatPath(f, opts.PathMode, opts.BaseDir), start.Line, start.Col,
			sev.Sprintf("%s %s:", strings.ToLower(d.Severity.String()), d.Code.ID()),
			pal.bold.Sprint(d.Message))
		writeSnippet(w, fs, d.Primary, opts.Context, pal, pal.caret)

		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			nf := fs.Get(n.Span.File)
			nstart, _ := fs.Resolve(n.Span)
			fmt.Fprintf(w, "%s:%d:%d: %s %s\n",
				formatPath(nf, opts.PathMode, opts.BaseDir), nstart.Line, nstart.Col,
				pal.note.Sprint("note:"), n.Msg)
			writeSnippet(w, fs, n.Span, 0, pal, pal.note)
		}
	}
}

func writeSnippet(w io.Writer, fs *source.FileSet, span source.Span, context int8, pal palette, caret *color.Color) {
	f := fs.Get(span.File)
	start, end := fs.Resolve(span)

	first := start.Line
	if context > 0 {
		if uint32(context) >= first {
			first = 1
		} else {
			first -= uint32(context)
		}
	}
	gutterWidth := len(strconv.FormatUint(uint64(start.Line), 10))
	pad := strings.Repeat(" ", gutterWidth)

	fmt.Fprintf(w, "%s %s\n", pad, pal.gutter.Sprint("|"))
	for ln := first; ln <= start.Line; ln++ {
		fmt.Fprintf(w, "%*d %s %s\n", gutterWidth, ln, pal.gutter.Sprint("|"), expandTabs(f.GetLine(ln)))
	}

	line := f.GetLine(start.Line)
	startCol := int(start.Col) - 1
	endCol := len(line)
	if end.Line == start.Line {
		endCol = int(end.Col) - 1
	}
	startCol = clamp(startCol, 0, len(line))
	endCol = clamp(endCol, startCol, len(line))

	lead := runewidth.StringWidth(expandTabs(line[:startCol]))
	width := max(runewidth.StringWidth(expandTabs(line[startCol:endCol])), 1)
	underline := "^" + strings.Repeat("~", width-1)
	fmt.Fprintf(w, "%s %s %s%s\n", pad, pal.gutter.Sprint("|"), strings.Repeat(" ", lead), caret.Sprint(underline))
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
