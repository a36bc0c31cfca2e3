package asm_test

import (
	"strings"
	"testing"

	"rsc.io/diff"

	"sysyc/internal/asm"
)

func TestFormat(t *testing.T) {
	p := asm.Program{
		Globals: []string{"main", "helper"},
		Functions: []asm.Function{
			{Name: "main", Lines: []asm.Line{
				asm.Op2("li", asm.A0, asm.Imm(-5)),
				asm.Comment("negate"),
				asm.Op3("sub", asm.A0, asm.Zero, asm.A0).WithComment("%0"),
				asm.Op0("ret"),
			}},
			{Name: "helper", Lines: []asm.Line{
				asm.Label(".Lhelper_entry"),
				asm.Op2("mv", asm.A0, asm.T0),
				asm.Op1("j", asm.Ref(".Lhelper_entry")),
			}},
		},
	}

	var sb strings.Builder
	if err := asm.Format(&sb, p); err != nil {
		t.Fatalf("Format: %v", err)
	}
	want := "\t.text\n" +
		"\t.globl main\n" +
		"\t.globl helper\n" +
		"main:\n" +
		"\tli a0, -5\n" +
		"\t# negate\n" +
		"\tsub a0, x0, a0  # %0\n" +
		"\tret\n" +
		"helper:\n" +
		".Lhelper_entry:\n" +
		"\tmv a0, t0\n" +
		"\tj .Lhelper_entry\n"
	if got := sb.String(); got != want {
		t.Fatalf("Format mismatch:\n%s", diff.Format(got, want))
	}
}

func TestArgString(t *testing.T) {
	tests := []struct {
		arg  asm.Arg
		want string
	}{
		{asm.A0, "a0"},
		{asm.Imm(0), "0"},
		{asm.Imm(-2147483648), "-2147483648"},
		{asm.Ref("main"), "main"},
	}
	for _, tt := range tests {
		if got := asm.ArgString(tt.arg); got != tt.want {
			t.Errorf("ArgString(%+v) = %q, want %q", tt.arg, got, tt.want)
		}
	}
}
