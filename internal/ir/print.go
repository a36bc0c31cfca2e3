package ir

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// Print writes p in Koopa text form:
//
//	fun @main(): i32 {
//	%entry:
//	  %0 = sub 0, 5
//	  ret %0
//	}
//
// Instruction results are numbered %0, %1, ... in layout order; constants are
// printed inline. Functions are separated by a blank line.
func Print(w io.Writer, p *Program) error {
	bw := bufio.NewWriter(w)
	for i, f := range p.Funcs() {
		if i > 0 {
			bw.WriteByte('\n')
		}
		printFunc(bw, f)
	}
	return bw.Flush()
}

func printFunc(w *bufio.Writer, f *Function) {
	fmt.Fprintf(w, "fun %s()", f.Name)
	if f.Ret != TypeUnit {
		fmt.Fprintf(w, ": %s", f.Ret)
	}
	w.WriteString(" {\n")

	names := make(map[ValueID]string)
	operand := func(id ValueID) string {
		v := f.Value(id)
		if v.Kind == ValueInteger {
			return strconv.FormatInt(int64(v.Integer.Value), 10)
		}
		if name, ok := names[id]; ok {
			return name
		}
		return fmt.Sprintf("%%<undef %d>", id)
	}

	for _, bb := range f.blocks {
		fmt.Fprintf(w, "%s:\n", bb.Name)
		for _, id := range bb.insts {
			v := f.Value(id)
			switch v.Kind {
			case ValueBinary:
				name := "%" + strconv.Itoa(len(names))
				fmt.Fprintf(w, "  %s = %s %s, %s\n", name, v.Binary.Op, operand(v.Binary.LHS), operand(v.Binary.RHS))
				names[id] = name
			case ValueReturn:
				if v.Return.Value.IsValid() {
					fmt.Fprintf(w, "  ret %s\n", operand(v.Return.Value))
				} else {
					w.WriteString("  ret\n")
				}
			default:
				fmt.Fprintf(w, "  // unexpected %s value %d\n", v.Kind, id)
			}
		}
	}
	w.WriteString("}\n")
}
