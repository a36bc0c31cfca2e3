package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"sysyc/internal/source"
	"sysyc/internal/token"
)

// TokenOutput is one row of `sysyc tokenize --format json`.
type TokenOutput struct {
	Kind    string         `json:"kind"`
	Text    string         `json:"text,omitempty"`
	Span    source.Span    `json:"span"`
	Start   source.LineCol `json:"start"`
	End     source.LineCol `json:"end"`
	Leading []string       `json:"leading,omitempty"`
}

// tokenRows обрезает поток на EOF (включительно) и резолвит позиции.
func tokenRows(tokens []token.Token, fs *source.FileSet) []TokenOutput {
	rows := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		row := TokenOutput{Kind: tok.Kind.String(), Text: tok.Text, Span: tok.Span}
		if fs != nil {
			row.Start, row.End = fs.Resolve(tok.Span)
		}
		for _, tr := range tok.Leading {
			row.Leading = append(row.Leading, tr.Kind.String())
		}
		rows = append(rows, row)
		if tok.Kind == token.EOF {
			break
		}
	}
	return rows
}

// FormatTokensPretty выводит токены в человекочитаемом формате
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	for i, row := range tokenRows(tokens, fs) {
		var b strings.Builder
		fmt.Fprintf(&b, "%3d: %-15s", i+1, row.Kind)
		if row.Text != "" {
			fmt.Fprintf(&b, " %q", row.Text)
		}
		fmt.Fprintf(&b, " at %d:%d-%d:%d", row.Start.Line, row.Start.Col, row.End.Line, row.End.Col)
		if len(row.Leading) > 0 {
			fmt.Fprintf(&b, " (leading: %s)", strings.Join(row.Leading, ", "))
		}
		b.WriteByte('\n')
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
	}
	return nil
}

// FormatTokensJSON выводит токены в JSON формате
func FormatTokensJSON(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(tokenRows(tokens, fs))
}
