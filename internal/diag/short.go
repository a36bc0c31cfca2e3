package diag

import (
	"fmt"
	"path/filepath"
	"strings"

	"sysyc/internal/source"
)

// FormatShort renders diagnostics one per line as
// "severity CODE path:line:col message", in Bag order. Notes follow their
// diagnostic when includeNotes is set. Used by --quiet output and tests.
func FormatShort(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	if fs == nil || len(diags) == 0 {
		return ""
	}
	lines := make([]string, 0, len(diags))
	for i := range diags {
		d := &diags[i]
		lines = append(lines, shortLine(severityLabel(d.Severity), d.Code, d.Primary, d.Message, fs))
		if !includeNotes {
			continue
		}
		for _, note := range d.Notes {
			lines = append(lines, shortLine("note", d.Code, note.Span, note.Msg, fs))
		}
	}
	return strings.Join(lines, "\n")
}

func shortLine(label string, code Code, span source.Span, msg string, fs *source.FileSet) string {
	path, line, col := resolveSpan(fs, span)
	return fmt.Sprintf("%s %s %s:%d:%d %s", label, code.ID(), path, line, col, sanitizeMessage(msg))
}

func resolveSpan(fs *source.FileSet, span source.Span) (path string, line, col uint32) {
	defer func() {
		if recover() != nil {
			path, line, col = "?", 0, 0
		}
	}()
	file := fs.Get(span.File)
	start, _ := fs.Resolve(span)
	return filepath.ToSlash(file.Path), start.Line, start.Col
}

func severityLabel(sev Severity) string {
	switch sev {
	case SevError:
		return "error"
	case SevWarning:
		return "warning"
	default:
		return "info"
	}
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}
