package lower

import (
	"bytes"
	"errors"
	"testing"

	"rsc.io/diff"

	"sysyc/internal/ast"
	"sysyc/internal/diag"
	"sysyc/internal/ir"
	"sysyc/internal/parser"
	"sysyc/internal/source"
)

func parse(t *testing.T, src string) (*ast.Builder, ast.UnitID) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.c", []byte(src))
	bag := diag.NewBag(8)
	b := ast.NewBuilder(ast.Hints{})
	res := parser.ParseFile(fs.Get(id), b, parser.Options{Reporter: diag.BagReporter{Bag: bag}})
	if !res.OK() {
		t.Fatalf("parse %q failed: %+v", src, bag.Items())
	}
	return b, res.Unit
}

func lowerSource(t *testing.T, src string, opts Options) *ir.Program {
	t.Helper()
	b, unit := parse(t, src)
	p, err := Lower(b, unit, opts)
	if err != nil {
		t.Fatalf("Lower(%q): %v", src, err)
	}
	return p
}

func koopa(t *testing.T, p *ir.Program) string {
	t.Helper()
	var buf bytes.Buffer
	if err := ir.Print(&buf, p); err != nil {
		t.Fatal(err)
	}
	return buf.String()
}

func TestLowerScenarios(t *testing.T) {
	tests := []struct {
		name, src, want string
	}{
		{"zero", "int main() { return 0; }", "fun @main(): i32 {\n%entry:\n  ret 0\n}\n"},
		{"negate", "int main() { return -5; }", "fun @main(): i32 {\n%entry:\n  %0 = sub 0, 5\n  ret %0\n}\n"},
		{"not", "int main() { return !0; }", "fun @main(): i32 {\n%entry:\n  %0 = eq 0, 0\n  ret %0\n}\n"},
		{"bitnot", "int main() { return ~1; }", "fun @main(): i32 {\n%entry:\n  %0 = xor 1, -1\n  ret %0\n}\n"},
		{"chain", "int main() { return -!(~6); }",
			"fun @main(): i32 {\n%entry:\n  %0 = xor 6, -1\n  %1 = eq %0, 0\n  %2 = sub 0, %1\n  ret %2\n}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := koopa(t, lowerSource(t, tt.src, Options{})); got != tt.want {
				t.Fatalf("koopa:\n%s", diff.Format(got, tt.want))
			}
		})
	}
}

func TestIdentityIsNoOp(t *testing.T) {
	plain := lowerSource(t, "int main() { return 5; }", Options{})
	wrapped := lowerSource(t, "int main() { return +(+(5)); }", Options{})
	if a, b := koopa(t, plain), koopa(t, wrapped); a != b {
		t.Fatalf("identity changed the program:\n%s", diff.Format(b, a))
	}
	if n := len(wrapped.Func("@main").Entry().Insts()); n != 1 {
		t.Fatalf("expected only ret, got %d instructions", n)
	}
}

func TestExactlyOneReturnLast(t *testing.T) {
	for _, src := range []string{
		"int main() { return 0; }",
		"int main() { return - -5; }",
		"int main() { return !!!7; }",
	} {
		p := lowerSource(t, src, Options{})
		if len(p.Funcs()) != 1 || len(p.Funcs()[0].Blocks()) != 1 {
			t.Fatalf("%q: expected one function with one block", src)
		}
		f := p.Funcs()[0]
		insts := f.Entry().Insts()
		rets := 0
		for _, id := range insts {
			if f.Value(id).IsTerminator() {
				rets++
			}
		}
		if rets != 1 || !f.Value(insts[len(insts)-1]).IsTerminator() {
			t.Fatalf("%q: want exactly one trailing ret, layout %v", src, insts)
		}
		for _, id := range insts {
			if f.Value(id).Kind == ir.ValueInteger {
				t.Fatalf("%q: constant placed in layout", src)
			}
		}
	}
}

func TestLoweredSemantics(t *testing.T) {
	tests := []struct {
		src  string
		want int32
	}{
		{"int main() { return 0; }", 0},
		{"int main() { return -5; }", -5},
		{"int main() { return !0; }", 1},
		{"int main() { return - -5; }", 5},
		{"int main() { return !!7; }", 1},
		{"int main() { return !!0; }", 0},
		{"int main() { return ~0; }", -1},
		{"int main() { return -2147483647; }", -2147483647},
		{"int main() { return -!~+(3); }", 0},
	}
	for _, tt := range tests {
		for _, fold := range []bool{false, true} {
			p := lowerSource(t, tt.src, Options{Fold: fold})
			got, err := ir.Eval(p.Func("@main"))
			if err != nil || got != tt.want {
				t.Errorf("%q (fold=%v) = %d, %v; want %d", tt.src, fold, got, err, tt.want)
			}
		}
	}
}

func TestFoldProducesConstant(t *testing.T) {
	p := lowerSource(t, "int main() { return -!~5; }", Options{Fold: true})
	want := "fun @main(): i32 {\n%entry:\n  ret 0\n}\n"
	if got := koopa(t, p); got != want {
		t.Fatalf("folded koopa:\n%s", diff.Format(got, want))
	}
}

func TestDuplicateFunction(t *testing.T) {
	b, unit := parse(t, "int main() { return 1; }")
	l := NewLowerer(b, Options{})
	if err := l.LowerUnit(unit); err != nil {
		t.Fatal(err)
	}
	err := l.LowerUnit(unit)
	var lerr *Error
	if !errors.As(err, &lerr) || lerr.Code != diag.LowDuplicateFunction {
		t.Fatalf("expected duplicate function error, got %v", err)
	}
	if _, err := l.Program(); err != nil {
		t.Fatalf("first function must survive: %v", err)
	}
}

func TestBadFuncType(t *testing.T) {
	b := ast.NewBuilder(ast.Hints{})
	lit := b.Exprs.NewLiteral(source.Span{}, 1, "1")
	stmt := b.Stmts.NewReturn(source.Span{}, lit)
	fn := b.Funcs.New(ast.FuncDef{ReturnType: ast.FuncTypeUnknown, Name: "main", Body: ast.Block{Stmt: stmt}})
	unit := b.Units.New(source.Span{}, fn)

	_, err := Lower(b, unit, Options{})
	var lerr *Error
	if !errors.As(err, &lerr) || lerr.Code != diag.LowBadFuncType {
		t.Fatalf("expected bad func type error, got %v", err)
	}
}

func TestPublicName(t *testing.T) {
	if got := publicName("main"); got != "@main" {
		t.Errorf("publicName(main) = %q", got)
	}
	if got := publicName("@main"); got != "@main" {
		t.Errorf("publicName(@main) = %q", got)
	}
}

func TestEmitWithoutCursorPanics(t *testing.T) {
	l := NewLowerer(ast.NewBuilder(ast.Hints{}), Options{})
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic when emitting without a cursor")
		}
	}()
	_ = l.emit(0)
}

func TestCursorClearedAfterFunction(t *testing.T) {
	b, unit := parse(t, "int main() { return 1; }")
	l := NewLowerer(b, Options{})
	if err := l.LowerUnit(unit); err != nil {
		t.Fatal(err)
	}
	if l.curFunc != nil || l.curBlock != nil {
		t.Fatal("cursor must be cleared after lowering a function")
	}
}
