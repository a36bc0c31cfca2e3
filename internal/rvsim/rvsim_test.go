package rvsim_test

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"sysyc/internal/ast"
	"sysyc/internal/codegen/riscv"
	"sysyc/internal/diag"
	"sysyc/internal/lower"
	"sysyc/internal/parser"
	"sysyc/internal/rvsim"
	"sysyc/internal/source"
)

func run(t *testing.T, listing string) int32 {
	t.Helper()
	got, err := rvsim.Exec(strings.NewReader(listing))
	if err != nil {
		t.Fatalf("Exec: %v\n%s", err, listing)
	}
	return got
}

func TestInstructions(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int32
	}{
		{"li", "li a0, 42", 42},
		{"li hex", "li a0, 0x10", 16},
		{"mv", "li t0, 7\nmv a0, t0", 7},
		{"neg", "li t0, 7\nneg a0, t0", -7},
		{"not", "li t0, 0\nnot a0, t0", -1},
		{"add", "li t0, 2\nli t1, 3\nadd a0, t0, t1", 5},
		{"addi", "li t0, 2\naddi a0, t0, -3", -1},
		{"sub", "li t0, 2\nli t1, 3\nsub a0, t0, t1", -1},
		{"mul", "li t0, -4\nli t1, 3\nmul a0, t0, t1", -12},
		{"div", "li t0, -7\nli t1, 2\ndiv a0, t0, t1", -3},
		{"div by zero", "li t0, 9\ndiv a0, t0, x0", -1},
		{"div overflow", "li t0, -2147483648\nli t1, -1\ndiv a0, t0, t1", math.MinInt32},
		{"rem", "li t0, -7\nli t1, 2\nrem a0, t0, t1", -1},
		{"rem by zero", "li t0, 9\nrem a0, t0, x0", 9},
		{"and", "li t0, 6\nli t1, 3\nand a0, t0, t1", 2},
		{"andi", "li t0, 6\nandi a0, t0, 3", 2},
		{"or", "li t0, 6\nli t1, 3\nor a0, t0, t1", 7},
		{"ori", "li t0, 4\nori a0, t0, 1", 5},
		{"xor", "li t0, 6\nli t1, 3\nxor a0, t0, t1", 5},
		{"xori", "li t0, 6\nxori a0, t0, -1", -7},
		{"sll", "li t0, 1\nli t1, 33\nsll a0, t0, t1", 2},
		{"srl", "li t0, -1\nli t1, 28\nsrl a0, t0, t1", 15},
		{"sra", "li t0, -16\nli t1, 2\nsra a0, t0, t1", -4},
		{"slt", "li t0, -1\nslt a0, t0, x0", 1},
		{"sgt", "li t0, -1\nsgt a0, t0, x0", 0},
		{"seqz", "seqz a0, x0", 1},
		{"snez", "li t0, 3\nsnez a0, t0", 1},
		{"x0 is hardwired", "li x0, 5\nmv a0, zero", 0},
		{"jump", "j .Lskip\nli a0, 1\nret\n.Lskip:\nli a0, 2", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			listing := "\t.text\n\t.globl main\nmain:\n" + tt.body + "\n\tret\n"
			if got := run(t, listing); got != tt.want {
				t.Fatalf("a0 = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name, listing, want string
	}{
		{"unknown op", "main:\n\tfoo a0, a0\n", "unsupported instruction"},
		{"bad register", "main:\n\tli q9, 1\n", "unknown register"},
		{"operand count", "main:\n\tadd a0, a0\n", "expects 3 operands"},
		{"bad imm", "main:\n\tli a0, ten\n", "bad immediate"},
		{"duplicate label", "main:\nmain:\n\tret\n", "duplicate label"},
		{"undefined label", "main:\n\tj nowhere\n", "undefined label"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := rvsim.Load(strings.NewReader(tt.listing))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Load error = %v, want substring %q", err, tt.want)
			}
		})
	}
}

func TestRunErrors(t *testing.T) {
	p, err := rvsim.Load(strings.NewReader("main:\n.Lloop:\n\tj .Lloop\n"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := rvsim.NewMachine(p).Run("main", 100); !errors.Is(err, rvsim.ErrStepLimit) {
		t.Fatalf("expected ErrStepLimit, got %v", err)
	}
	if _, err := rvsim.NewMachine(p).Run("start", 0); !errors.Is(err, rvsim.ErrNoEntry) {
		t.Fatalf("expected ErrNoEntry, got %v", err)
	}

	fallOff, err := rvsim.Load(strings.NewReader("main:\n\tli a0, 1\n"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := rvsim.NewMachine(fallOff).Run("main", 0); !errors.Is(err, rvsim.ErrPCOutRange) {
		t.Fatalf("expected ErrPCOutRange, got %v", err)
	}
}

// compile проходит весь конвейер: исходник -> AST -> IR -> asm.
func compile(t *testing.T, src string, fold bool) string {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("e2e.c", []byte(src))
	bag := diag.NewBag(8)
	b := ast.NewBuilder(ast.Hints{})
	res := parser.ParseFile(fs.Get(id), b, parser.Options{Reporter: diag.BagReporter{Bag: bag}})
	if !res.OK() {
		t.Fatalf("parse %q: %+v", src, bag.Items())
	}
	p, err := lower.Lower(b, res.Unit, lower.Options{Fold: fold})
	if err != nil {
		t.Fatalf("lower %q: %v", src, err)
	}
	var buf bytes.Buffer
	if err := riscv.Generate(&buf, p); err != nil {
		t.Fatalf("codegen %q: %v", src, err)
	}
	return buf.String()
}

func TestEndToEnd(t *testing.T) {
	tests := []struct {
		src  string
		want int32
	}{
		{"int main() { return 0; }", 0},
		{"int main() { return -5; }", -5},
		{"int main() { return !0; }", 1},
		{"int main() { return !5; }", 0},
		{"int main() { return - -7; }", 7},
		{"int main() { return !!9; }", 1},
		{"int main() { return ~0; }", -1},
		{"int main() { return +(-(+3)); }", -3},
		{"int main() { return -!~-1; }", -1},
		{"int main() { return 0x7fffffff; }", math.MaxInt32},
		{"int main() { /* c */ return 010; // octal\n}", 8},
	}
	for _, tt := range tests {
		for _, fold := range []bool{false, true} {
			listing := compile(t, tt.src, fold)
			if got := run(t, listing); got != tt.want {
				t.Errorf("%q (fold=%v) = %d, want %d\n%s", tt.src, fold, got, tt.want, listing)
			}
		}
	}
}
