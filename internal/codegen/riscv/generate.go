// Package riscv turns an ir.Program into RV32 assembly text.
//
// There is no register allocator: every computed value lands in a0 and the
// only scratch register is t0, used for a second non-zero constant operand.
// An instruction result that is needed after a0 has been overwritten is
// reported as an error instead of silently producing wrong code.
package riscv

import (
	"fmt"
	"io"
	"strings"

	"sysyc/internal/asm"
	"sysyc/internal/diag"
	"sysyc/internal/ir"
)

// Error is a code generation failure that maps onto a diagnostic.
type Error struct {
	Code diag.Code
	Func string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString("codegen")
	if e.Func != "" {
		sb.WriteString(" ")
		sb.WriteString(e.Func)
	}
	sb.WriteString(": ")
	sb.WriteString(e.Msg)
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Generate writes the assembly for p to w. Nothing is written when
// generation fails; a failed write is returned as GEN4003.
func Generate(w io.Writer, p *ir.Program) error {
	prog, err := Build(p)
	if err != nil {
		return err
	}
	if err := asm.Format(w, prog); err != nil {
		return &Error{Code: diag.GenWriteFailed, Msg: "cannot write assembly", Err: err}
	}
	return nil
}

// Build produces the line model for p without formatting it.
func Build(p *ir.Program) (asm.Program, error) {
	if err := ir.Validate(p); err != nil {
		return asm.Program{}, fmt.Errorf("codegen: %w", err)
	}
	var out asm.Program
	for _, f := range p.Funcs() {
		out.Globals = append(out.Globals, SymbolName(f.Name))
	}
	for _, f := range p.Funcs() {
		fn, err := newFuncGen(f).run()
		if err != nil {
			return asm.Program{}, err
		}
		out.Functions = append(out.Functions, fn)
	}
	return out, nil
}

// SymbolName strips the IR sigil from a function or block name.
func SymbolName(name string) string {
	if strings.HasPrefix(name, "@") || strings.HasPrefix(name, "%") {
		return name[1:]
	}
	return name
}

type funcGen struct {
	fn    *ir.Function
	lines []asm.Line
	// done отмечает уже сгенерированные инструкции (каждая ровно один раз)
	done map[ir.ValueID]bool
	// inA0 is the instruction whose result currently sits in a0.
	inA0 ir.ValueID
}

func newFuncGen(f *ir.Function) *funcGen {
	return &funcGen{
		fn:   f,
		done: make(map[ir.ValueID]bool, f.NumValues()),
		inA0: ir.NoValueID,
	}
}

func (g *funcGen) run() (asm.Function, error) {
	name := SymbolName(g.fn.Name)
	for i, bb := range g.fn.Blocks() {
		if i > 0 {
			g.emit(asm.Label(blockLabel(name, bb.Name)))
		}
		// значения не переживают границу блока
		g.inA0 = ir.NoValueID
		for _, id := range bb.Insts() {
			if err := g.inst(id); err != nil {
				return asm.Function{}, err
			}
		}
	}
	return asm.Function{Name: name, Lines: g.lines}, nil
}

func blockLabel(fn, bb string) string {
	return ".L" + fn + "_" + SymbolName(bb)
}

func (g *funcGen) emit(l asm.Line) {
	g.lines = append(g.lines, l)
}

func (g *funcGen) errorf(code diag.Code, format string, args ...any) error {
	return &Error{Code: code, Func: g.fn.Name, Msg: fmt.Sprintf(format, args...)}
}

func (g *funcGen) inst(id ir.ValueID) error {
	if g.done[id] {
		return nil
	}
	v := g.fn.Value(id)
	var err error
	switch v.Kind {
	case ir.ValueBinary:
		err = g.binary(id, v)
	case ir.ValueReturn:
		err = g.ret(v)
	default:
		err = g.errorf(diag.GenUnsupportedKind, "unsupported value kind %s in layout", v.Kind)
	}
	if err != nil {
		return err
	}
	g.done[id] = true
	return nil
}

// operandInA0 checks that instruction operand id is still held in a0.
func (g *funcGen) operandInA0(id ir.ValueID) error {
	if !g.done[id] {
		return g.errorf(diag.GenClobbered, "value %d used before it was generated", id)
	}
	if g.inA0 != id {
		return g.errorf(diag.GenClobbered, "register clobbered: value %d is no longer in a0", id)
	}
	return nil
}

func (g *funcGen) binary(id ir.ValueID, v *ir.Value) error {
	operands := [2]ir.ValueID{v.Binary.LHS, v.Binary.RHS}

	scratch := []asm.Arg{asm.A0, asm.T0}
	for _, op := range operands {
		if g.fn.Value(op).Kind == ir.ValueInteger {
			continue
		}
		if err := g.operandInA0(op); err != nil {
			return err
		}
		// a0 занят операндом, константы идут в t0
		scratch = []asm.Arg{asm.T0}
	}

	var regs [2]asm.Arg
	for i, op := range operands {
		ov := g.fn.Value(op)
		switch {
		case ov.Kind != ir.ValueInteger:
			regs[i] = asm.A0
		case ov.Integer.Value == 0:
			regs[i] = asm.Zero
		case len(scratch) == 0:
			return g.errorf(diag.GenClobbered, "no scratch register left for constant %d", ov.Integer.Value)
		default:
			regs[i] = scratch[0]
			scratch = scratch[1:]
			g.emit(asm.Op2("li", regs[i], asm.Imm(int64(ov.Integer.Value))))
		}
	}

	lhs, rhs := regs[0], regs[1]
	switch v.Binary.Op {
	case ir.OpEq:
		g.emit(asm.Op3("xor", asm.A0, lhs, rhs))
		g.emit(asm.Op2("seqz", asm.A0, asm.A0))
	case ir.OpNe:
		g.emit(asm.Op3("xor", asm.A0, lhs, rhs))
		g.emit(asm.Op2("snez", asm.A0, asm.A0))
	case ir.OpLe:
		g.emit(asm.Op3("sgt", asm.A0, lhs, rhs))
		g.emit(asm.Op2("seqz", asm.A0, asm.A0))
	case ir.OpGe:
		g.emit(asm.Op3("slt", asm.A0, lhs, rhs))
		g.emit(asm.Op2("seqz", asm.A0, asm.A0))
	default:
		mnemonic, ok := binaryMnemonics[v.Binary.Op]
		if !ok {
			return g.errorf(diag.GenUnsupportedKind, "unsupported binary operator %s", v.Binary.Op)
		}
		g.emit(asm.Op3(mnemonic, asm.A0, lhs, rhs))
	}
	g.inA0 = id
	return nil
}

var binaryMnemonics = map[ir.BinaryOp]string{
	ir.OpAdd: "add",
	ir.OpSub: "sub",
	ir.OpMul: "mul",
	ir.OpDiv: "div",
	ir.OpMod: "rem",
	ir.OpAnd: "and",
	ir.OpOr:  "or",
	ir.OpXor: "xor",
	ir.OpShl: "sll",
	ir.OpShr: "srl",
	ir.OpSar: "sra",
	ir.OpLt:  "slt",
	ir.OpGt:  "sgt",
}

func (g *funcGen) ret(v *ir.Value) error {
	if rv := v.Return.Value; rv.IsValid() {
		ov := g.fn.Value(rv)
		if ov.Kind == ir.ValueInteger {
			g.emit(asm.Op2("li", asm.A0, asm.Imm(int64(ov.Integer.Value))))
		} else if err := g.operandInA0(rv); err != nil {
			return err
		}
	}
	g.emit(asm.Op0("ret"))
	g.inA0 = ir.NoValueID
	return nil
}
