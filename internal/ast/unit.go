package ast

import "sysyc/internal/source"

// CompUnit is the root of a translation unit: exactly one function definition.
type CompUnit struct {
	Span source.Span
	Func FuncID
}

type Units struct {
	Arena *Arena[CompUnit]
}

func NewUnits(capHint uint) *Units {
	return &Units{Arena: NewArena[CompUnit](capHint)}
}

func (u *Units) New(span source.Span, fn FuncID) UnitID {
	return UnitID(u.Arena.Allocate(CompUnit{Span: span, Func: fn}))
}

func (u *Units) Get(id UnitID) *CompUnit {
	return u.Arena.Get(uint32(id))
}
