package parser

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"rsc.io/diff"

	"sysyc/internal/ast"
	"sysyc/internal/diag"
	"sysyc/internal/source"
)

func parseSource(t *testing.T, src string) (*ast.Builder, Result, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.c", []byte(src))
	bag := diag.NewBag(16)
	b := ast.NewBuilder(ast.Hints{})
	res := ParseFile(fs.Get(id), b, Options{Reporter: diag.BagReporter{Bag: bag}})
	return b, res, bag
}

func diagnosticsSummary(bag *diag.Bag) string {
	if bag == nil || bag.Len() == 0 {
		return "<none>"
	}
	lines := make([]string, bag.Len())
	for i, d := range bag.Items() {
		lines[i] = fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message)
	}
	return strings.Join(lines, "; ")
}

func TestParseValidPrograms(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		value int32
		depth int
	}{
		{"zero", "int main() { return 0; }", 0, 1},
		{"negate", "int main() { return -5; }", 5, 2},
		{"not", "int main() { return !0; }", 0, 2},
		{"nested", "int main() { return +(- -(!1)); }", 1, 7},
		{"hex", "int main(){return 0x7fffffff;}", 2147483647, 1},
		{"octal", "int main(){return 017;}", 15, 1},
		{"comments", "// c\nint /* x */ main() {\n  return 3; // tail\n}\n", 3, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, res, bag := parseSource(t, tt.src)
			if !res.OK() {
				t.Fatalf("parse failed: %s", diagnosticsSummary(bag))
			}
			fn := b.Funcs.Get(b.Units.Get(res.Unit).Func)
			if fn.Name != "main" || fn.ReturnType != ast.FuncTypeInt {
				t.Fatalf("unexpected func %+v", fn)
			}
			expr := b.Stmts.Get(fn.Body.Stmt).Expr
			if got := b.Exprs.Depth(expr); got != tt.depth {
				t.Errorf("depth = %d, want %d", got, tt.depth)
			}
			leaf := expr
			for {
				if un, ok := b.Exprs.Unary(leaf); ok {
					leaf = un.Operand
					continue
				}
				if grp, ok := b.Exprs.Group(leaf); ok {
					leaf = grp.Inner
					continue
				}
				break
			}
			lit, ok := b.Exprs.Literal(leaf)
			if !ok || lit.Value != tt.value {
				t.Errorf("leaf literal = %+v, want %d", lit, tt.value)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code diag.Code
	}{
		{"missing return", "int main() { 0; }", diag.SynExpectReturn},
		{"missing semicolon", "int main() { return 0 }", diag.SynExpectSemicolon},
		{"unclosed paren", "int main() { return (1; }", diag.SynUnclosedParen},
		{"unclosed brace", "int main() { return 1;", diag.SynUnclosedBrace},
		{"no expression", "int main() { return ; }", diag.SynExpectExpression},
		{"no name", "int () { return 1; }", diag.SynExpectIdentifier},
		{"top level", "return 1;", diag.SynUnexpectedTopLevel},
		{"trailing", "int main() { return 1; } int", diag.SynTrailingTokens},
		{"overflow", "int main() { return 2147483648; }", diag.SynIntegerOverflow},
		{"huge", "int main() { return 99999999999999999999; }", diag.SynIntegerOverflow},
		{"void", "void main() { return 1; }", diag.SynVoidFunction},
		{"empty", "", diag.SynUnexpectedTopLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, res, bag := parseSource(t, tt.src)
			if res.OK() {
				t.Fatalf("expected failure for %q", tt.src)
			}
			if bag.Len() == 0 || bag.Items()[0].Code != tt.code {
				t.Fatalf("expected %s first, got %s", tt.code.ID(), diagnosticsSummary(bag))
			}
		})
	}
}

func TestLexErrorFailsParse(t *testing.T) {
	_, res, bag := parseSource(t, "int main() { return 1; } /* open")
	if res.OK() {
		t.Fatal("lexical error must fail the parse")
	}
	if bag.Len() != 1 || bag.Items()[0].Code != diag.LexUnterminatedBlockComment {
		t.Fatalf("unexpected diagnostics: %s", diagnosticsSummary(bag))
	}
}

func TestUnclosedParenNote(t *testing.T) {
	_, _, bag := parseSource(t, "int main() { return (1; }")
	d := bag.Items()[0]
	if len(d.Notes) != 1 || d.Notes[0].Span.Start != 20 {
		t.Fatalf("expected note at '(' offset 20, got %+v", d.Notes)
	}
}

func TestMissingSemicolonAtEOFPointsAfterLastToken(t *testing.T) {
	_, _, bag := parseSource(t, "int main() { return 1\n\n// trailing")
	d := bag.Items()[0]
	if d.Primary.Start != 21 || !d.Primary.Empty() {
		t.Fatalf("expected empty span at 21, got %s", d.Primary)
	}
}

func TestMaxErrors(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("max.c", []byte("void main() { return; }"))
	bag := diag.NewBag(16)
	res := ParseFile(fs.Get(id), ast.NewBuilder(ast.Hints{}), Options{Reporter: diag.BagReporter{Bag: bag}, MaxErrors: 1})
	if res.Errors != 2 {
		t.Fatalf("expected 2 counted errors, got %d", res.Errors)
	}
	if bag.Len() != 1 {
		t.Fatalf("expected 1 reported diagnostic, got %s", diagnosticsSummary(bag))
	}
}

func TestDump(t *testing.T) {
	b, res, bag := parseSource(t, "int main() { return -(5); }")
	if !res.OK() {
		t.Fatalf("parse failed: %s", diagnosticsSummary(bag))
	}
	var buf bytes.Buffer
	if err := Dump(&buf, b, res.Unit, nil); err != nil {
		t.Fatal(err)
	}
	want := `CompUnit (span: 0-27)
└─ FuncDef int main (span: 0-27)
   └─ Block
      └─ Return (span: 13-25)
         └─ Unary - (span: 20-24)
            └─ Paren (span: 21-24)
               └─ Literal 5 (span: 22-23)
`
	if got := buf.String(); got != want {
		t.Fatalf("Dump():\n%s", diff.Format(got, want))
	}
}
