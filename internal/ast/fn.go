package ast

import "sysyc/internal/source"

// FuncType is the declared return type of a function.
type FuncType uint8

const (
	// FuncTypeUnknown marks a declaration whose type could not be parsed.
	FuncTypeUnknown FuncType = iota
	// FuncTypeInt is the 32-bit signed integer type.
	FuncTypeInt
)

func (t FuncType) String() string {
	switch t {
	case FuncTypeInt:
		return "int"
	default:
		return "<unknown>"
	}
}

// Block is a braced function body holding a single statement.
type Block struct {
	Span source.Span
	Stmt StmtID
}

type FuncDef struct {
	Span       source.Span
	ReturnType FuncType
	Name       string
	NameSpan   source.Span
	Body       Block
}

type Funcs struct {
	Arena *Arena[FuncDef]
}

func NewFuncs(capHint uint) *Funcs {
	return &Funcs{Arena: NewArena[FuncDef](capHint)}
}

func (f *Funcs) New(def FuncDef) FuncID {
	return FuncID(f.Arena.Allocate(def))
}

func (f *Funcs) Get(id FuncID) *FuncDef {
	return f.Arena.Get(uint32(id))
}
