package asm

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// Format writes p as GNU-style RISC-V assembly: a `.text` section header,
// one `.globl` per exported symbol, then every function body.
func Format(w io.Writer, p Program) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("\t.text\n")
	for _, g := range p.Globals {
		fmt.Fprintf(bw, "\t.globl %s\n", g)
	}
	for _, fn := range p.Functions {
		formatFunction(bw, fn)
	}
	return bw.Flush()
}

func formatFunction(w *bufio.Writer, fn Function) {
	fmt.Fprintf(w, "%s:\n", fn.Name)
	for _, line := range fn.Lines {
		formatLine(w, line)
	}
}

func formatLine(w *bufio.Writer, line Line) {
	switch {
	case line.Label != "":
		fmt.Fprintf(w, "%s:", line.Label)
	case line.Op != "":
		fmt.Fprintf(w, "\t%s", line.Op)
		if line.Arity >= 1 {
			fmt.Fprintf(w, " %s", ArgString(line.Arg1))
		}
		if line.Arity >= 2 {
			fmt.Fprintf(w, ", %s", ArgString(line.Arg2))
		}
		if line.Arity >= 3 {
			fmt.Fprintf(w, ", %s", ArgString(line.Arg3))
		}
	case line.Comment != "":
		fmt.Fprintf(w, "\t# %s\n", line.Comment)
		return
	}

	if line.Comment != "" {
		fmt.Fprintf(w, "  # %s", line.Comment)
	}
	w.WriteByte('\n')
}

// ArgString renders a single operand.
func ArgString(arg Arg) string {
	switch {
	case arg.IsReg():
		return arg.Reg
	case arg.Label != "":
		return arg.Label
	default:
		return strconv.FormatInt(arg.Imm, 10)
	}
}
