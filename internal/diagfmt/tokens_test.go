package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"sysyc/internal/source"
	"sysyc/internal/token"
)

func sampleTokens(fs *source.FileSet) []token.Token {
	id := fs.AddVirtual("t.c", []byte("return\n 1;"))
	sp := func(a, b uint32) source.Span { return source.Span{File: id, Start: a, End: b} }
	return []token.Token{
		{Kind: token.KwReturn, Span: sp(0, 6), Text: "return"},
		{Kind: token.IntLit, Span: sp(8, 9), Text: "1"},
		{Kind: token.Semicolon, Span: sp(9, 10), Text: ";"},
		{Kind: token.EOF, Span: sp(10, 10)},
		{Kind: token.Invalid, Span: sp(10, 10), Text: "past eof"},
	}
}

func TestFormatTokensPretty(t *testing.T) {
	fs := source.NewFileSet()
	var buf bytes.Buffer
	if err := FormatTokensPretty(&buf, sampleTokens(fs), fs); err != nil {
		t.Fatal(err)
	}
	want := "  1: 'return'        \"return\" at 1:1-1:7\n" +
		"  2: integer literal \"1\" at 2:2-2:3\n" +
		"  3: ';'             \";\" at 2:3-2:4\n" +
		"  4: EOF             at 2:4-2:4\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Fatalf("pretty tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatTokensJSONStopsAtEOF(t *testing.T) {
	fs := source.NewFileSet()
	var buf bytes.Buffer
	if err := FormatTokensJSON(&buf, sampleTokens(fs), fs); err != nil {
		t.Fatal(err)
	}
	var rows []TokenOutput
	if err := json.Unmarshal(buf.Bytes(), &rows); err != nil {
		t.Fatalf("invalid json: %v\n%s", err, buf.String())
	}
	if len(rows) != 4 {
		t.Fatalf("got %d rows, want 4", len(rows))
	}
	if rows[1].Kind != "integer literal" || rows[1].Start != (source.LineCol{Line: 2, Col: 2}) {
		t.Fatalf("unexpected literal row: %+v", rows[1])
	}
}
