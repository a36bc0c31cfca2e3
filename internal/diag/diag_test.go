package diag

import (
	"testing"

	"sysyc/internal/source"
)

func TestBagLimit(t *testing.T) {
	bag := NewBag(2)
	for i := range 3 {
		added := bag.Add(NewError(SynUnexpectedToken, source.Span{Start: uint32(i)}, "x"))
		if want := i < 2; added != want {
			t.Fatalf("Add #%d = %v, want %v", i, added, want)
		}
	}
	if bag.Len() != 2 || !bag.HasErrors() {
		t.Fatalf("unexpected bag state: len=%d errors=%v", bag.Len(), bag.HasErrors())
	}
}

func TestNewBagClamps(t *testing.T) {
	if got := NewBag(-1).Cap(); got != 0 {
		t.Fatalf("NewBag(-1).Cap() = %d", got)
	}
	if got := NewBag(1 << 20).Cap(); got != 65535 {
		t.Fatalf("NewBag(1<<20).Cap() = %d", got)
	}
}

func TestBagSortAndDedup(t *testing.T) {
	bag := NewBag(10)
	bag.Add(NewError(SynExpectSemicolon, source.Span{Start: 5, End: 6}, "b"))
	bag.Add(New(SevWarning, LexInfo, source.Span{Start: 1, End: 2}, "w"))
	bag.Add(NewError(LexUnknownChar, source.Span{Start: 1, End: 2}, "a"))
	bag.Add(NewError(SynExpectSemicolon, source.Span{Start: 5, End: 6}, "b again"))
	bag.Sort()
	bag.Dedup()

	items := bag.Items()
	want := []Code{LexUnknownChar, LexInfo, SynExpectSemicolon}
	if len(items) != len(want) {
		t.Fatalf("got %d items, want %d", len(items), len(want))
	}
	for i, code := range want {
		if items[i].Code != code {
			t.Errorf("items[%d].Code = %s, want %s", i, items[i].Code.ID(), code.ID())
		}
	}
}

func TestReportBuilderEmitsOnce(t *testing.T) {
	bag := NewBag(10)
	b := ReportError(BagReporter{Bag: bag}, SynUnclosedParen, source.Span{Start: 3, End: 4}, "expected ')'").
		WithNote(source.Span{Start: 0, End: 1}, "'(' opened here")
	b.Emit()
	b.Emit()
	if bag.Len() != 1 {
		t.Fatalf("expected exactly one diagnostic, got %d", bag.Len())
	}
	if notes := bag.Items()[0].Notes; len(notes) != 1 || notes[0].Msg != "'(' opened here" {
		t.Fatalf("unexpected notes: %+v", notes)
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(10)
	r := NewDedupReporter(BagReporter{Bag: bag})
	sp := source.Span{Start: 1, End: 2}
	r.Report(SynUnexpectedToken, SevError, sp, "same", nil)
	r.Report(SynUnexpectedToken, SevError, sp, "same", nil)
	r.Report(SynUnexpectedToken, SevError, sp, "other", nil)
	if bag.Len() != 2 {
		t.Fatalf("expected 2 diagnostics, got %d", bag.Len())
	}
}

func TestCodeID(t *testing.T) {
	tests := []struct {
		code Code
		want string
	}{
		{LexUnknownChar, "LEX1001"},
		{SynExpectSemicolon, "SYN2002"},
		{LowDuplicateFunction, "LOW3002"},
		{GenUnsupportedKind, "GEN4001"},
		{IOLoadFileError, "IO5001"},
		{UnknownCode, "E0000"},
	}
	for _, tt := range tests {
		if got := tt.code.ID(); got != tt.want {
			t.Errorf("%d.ID() = %q, want %q", tt.code, got, tt.want)
		}
	}
	if got := Code(1999).Title(); got != "Unknown error" {
		t.Errorf("unknown title = %q", got)
	}
}

func TestFormatShort(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.AddVirtual("testdata/sample.c", []byte("a\nb\n"))

	diags := []Diagnostic{
		NewError(SynUnexpectedToken, source.Span{File: file, Start: 0, End: 1}, "first line\nsecond").
			WithNote(source.Span{File: file, Start: 2, End: 3}, "note line"),
		New(SevWarning, LexInfo, source.Span{File: file, Start: 2, End: 3}, "another"),
	}

	expected := "error SYN2001 testdata/sample.c:1:1 first line second\n" +
		"note SYN2001 testdata/sample.c:2:1 note line\n" +
		"warning LEX1000 testdata/sample.c:2:1 another"

	if got := FormatShort(diags, fs, true); got != expected {
		t.Fatalf("unexpected short diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
}
