package riscv_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"rsc.io/diff"

	"sysyc/internal/codegen/riscv"
	"sysyc/internal/diag"
	"sysyc/internal/ir"
)

func mustParse(t *testing.T, text string) *ir.Program {
	t.Helper()
	p, err := ir.ParseText("test.koopa", strings.NewReader(text))
	if err != nil {
		t.Fatalf("ParseText: %v", err)
	}
	return p
}

func TestGenerateGolden(t *testing.T) {
	tests := []struct {
		name  string
		koopa string
		want  string
	}{
		{
			name:  "return zero",
			koopa: "fun @main(): i32 {\n%entry:\n  ret 0\n}\n",
			want:  "\t.text\n\t.globl main\nmain:\n\tli a0, 0\n\tret\n",
		},
		{
			name:  "negate",
			koopa: "fun @main(): i32 {\n%entry:\n  %0 = sub 0, 5\n  ret %0\n}\n",
			want:  "\t.text\n\t.globl main\nmain:\n\tli a0, 5\n\tsub a0, x0, a0\n\tret\n",
		},
		{
			name:  "logical not of zero",
			koopa: "fun @main(): i32 {\n%entry:\n  %0 = eq 0, 0\n  ret %0\n}\n",
			want:  "\t.text\n\t.globl main\nmain:\n\txor a0, x0, x0\n\tseqz a0, a0\n\tret\n",
		},
		{
			name:  "double negation",
			koopa: "fun @main(): i32 {\n%entry:\n  %0 = sub 0, 5\n  %1 = sub 0, %0\n  ret %1\n}\n",
			want:  "\t.text\n\t.globl main\nmain:\n\tli a0, 5\n\tsub a0, x0, a0\n\tsub a0, x0, a0\n\tret\n",
		},
		{
			name:  "two constants use t0",
			koopa: "fun @main(): i32 {\n%entry:\n  %0 = xor 6, -1\n  ret %0\n}\n",
			want:  "\t.text\n\t.globl main\nmain:\n\tli a0, 6\n\tli t0, -1\n\txor a0, a0, t0\n\tret\n",
		},
		{
			name:  "accumulator and constant",
			koopa: "fun @main(): i32 {\n%entry:\n  %0 = sub 0, 3\n  %1 = le %0, 7\n  ret %1\n}\n",
			want: "\t.text\n\t.globl main\nmain:\n\tli a0, 3\n\tsub a0, x0, a0\n" +
				"\tli t0, 7\n\tsgt a0, a0, t0\n\tseqz a0, a0\n\tret\n",
		},
		{
			name:  "shifts and remainder",
			koopa: "fun @main(): i32 {\n%entry:\n  %0 = mod 7, 3\n  %1 = shl %0, 4\n  %2 = sar %1, 1\n  ret %2\n}\n",
			want: "\t.text\n\t.globl main\nmain:\n\tli a0, 7\n\tli t0, 3\n\trem a0, a0, t0\n" +
				"\tli t0, 4\n\tsll a0, a0, t0\n\tli t0, 1\n\tsra a0, a0, t0\n\tret\n",
		},
		{
			name:  "void return",
			koopa: "fun @f() {\n%entry:\n  ret\n}\n",
			want:  "\t.text\n\t.globl f\nf:\n\tret\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := riscv.Generate(&buf, mustParse(t, tt.koopa)); err != nil {
				t.Fatalf("Generate: %v", err)
			}
			if got := buf.String(); got != tt.want {
				t.Fatalf("Generate mismatch:\n%s", diff.Format(got, tt.want))
			}
		})
	}
}

func TestGenerateMultipleFunctions(t *testing.T) {
	p := mustParse(t, "fun @main(): i32 {\n%entry:\n  ret 1\n}\n\nfun @aux(): i32 {\n%entry:\n  ret 2\n%tail:\n  ret 3\n}\n")
	var buf bytes.Buffer
	if err := riscv.Generate(&buf, p); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	want := "\t.text\n\t.globl main\n\t.globl aux\n" +
		"main:\n\tli a0, 1\n\tret\n" +
		"aux:\n\tli a0, 2\n\tret\n.Laux_tail:\n\tli a0, 3\n\tret\n"
	if got := buf.String(); got != want {
		t.Fatalf("Generate mismatch:\n%s", diff.Format(got, want))
	}
}

func TestGenerateClobbered(t *testing.T) {
	p := mustParse(t, "fun @main(): i32 {\n%entry:\n  %0 = sub 0, 5\n  %1 = sub 0, 7\n  %2 = add %0, %1\n  ret %2\n}\n")
	var buf bytes.Buffer
	err := riscv.Generate(&buf, p)
	var ge *riscv.Error
	if !errors.As(err, &ge) {
		t.Fatalf("expected *riscv.Error, got %v", err)
	}
	if ge.Code != diag.GenClobbered {
		t.Fatalf("code = %s, want %s", ge.Code.ID(), diag.GenClobbered.ID())
	}
	if ge.Func != "@main" {
		t.Fatalf("func = %q", ge.Func)
	}
	if buf.Len() != 0 {
		t.Fatalf("partial output written: %q", buf.String())
	}
}

func TestGenerateRejectsInvalidProgram(t *testing.T) {
	p := ir.NewProgram()
	if err := p.AddFunction(ir.NewFunction("@main", ir.TypeI32)); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := riscv.Generate(&buf, p); err == nil {
		t.Fatal("expected validation error for a function without blocks")
	}
	if buf.Len() != 0 {
		t.Fatalf("partial output written: %q", buf.String())
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestGenerateWriteFailure(t *testing.T) {
	p := mustParse(t, "fun @main(): i32 {\n%entry:\n  ret 0\n}\n")
	err := riscv.Generate(failingWriter{}, p)
	var ge *riscv.Error
	if !errors.As(err, &ge) || ge.Code != diag.GenWriteFailed {
		t.Fatalf("expected GenWriteFailed, got %v", err)
	}
}

func TestSymbolName(t *testing.T) {
	for in, want := range map[string]string{"@main": "main", "%entry": "entry", "plain": "plain"} {
		if got := riscv.SymbolName(in); got != want {
			t.Errorf("SymbolName(%q) = %q, want %q", in, got, want)
		}
	}
}
