package ast

// Builder owns every arena of one parsed translation unit.
type Builder struct {
	Units *Units
	Funcs *Funcs
	Stmts *Stmts
	Exprs *Exprs
}

type Hints struct{ Funcs, Stmts, Exprs uint }

func NewBuilder(hints Hints) *Builder {
	if hints.Funcs == 0 {
		hints.Funcs = 1 << 2
	}
	if hints.Stmts == 0 {
		hints.Stmts = 1 << 4
	}
	if hints.Exprs == 0 {
		hints.Exprs = 1 << 6
	}
	return &Builder{
		Units: NewUnits(1),
		Funcs: NewFuncs(hints.Funcs),
		Stmts: NewStmts(hints.Stmts),
		Exprs: NewExprs(hints.Exprs),
	}
}
