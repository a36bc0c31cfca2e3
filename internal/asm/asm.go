// Package asm is a small line model for assembly listings. Code generators
// build a Program out of Lines and hand it to Format.
package asm

var (
	Zero = Arg{Reg: "x0"}
	RA   = Arg{Reg: "ra"}
	SP   = Arg{Reg: "sp"}
	A0   = Arg{Reg: "a0"}
	T0   = Arg{Reg: "t0"}
	T1   = Arg{Reg: "t1"}
)

type Program struct {
	Globals   []string
	Functions []Function
}

type Function struct {
	Name  string
	Lines []Line
}

// Line is either a label, an instruction or a bare comment. Arity is the
// number of meaningful Arg fields.
type Line struct {
	Comment string
	Label   string
	Op      string
	Arity   int
	Arg1    Arg
	Arg2    Arg
	Arg3    Arg
}

type Arg struct {
	Reg   string
	Imm   int64
	Label string
}

func (a Arg) IsReg() bool {
	return a.Reg != ""
}

func Imm(value int64) Arg {
	return Arg{Imm: value}
}

func Reg(reg string) Arg {
	return Arg{Reg: reg}
}

func Ref(label string) Arg {
	return Arg{Label: label}
}

func Op0(op string) Line {
	return Line{Op: op}
}

func Op1(op string, arg Arg) Line {
	return Line{Op: op, Arity: 1, Arg1: arg}
}

func Op2(op string, arg1, arg2 Arg) Line {
	return Line{Op: op, Arity: 2, Arg1: arg1, Arg2: arg2}
}

func Op3(op string, arg1, arg2, arg3 Arg) Line {
	return Line{Op: op, Arity: 3, Arg1: arg1, Arg2: arg2, Arg3: arg3}
}

func Comment(text string) Line {
	return Line{Comment: text}
}

func Label(text string) Line {
	return Line{Label: text}
}

// WithComment attaches a trailing comment to an instruction line.
func (l Line) WithComment(text string) Line {
	l.Comment = text
	return l
}
