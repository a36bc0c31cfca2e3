package ast

import (
	"sysyc/internal/source"
)

type StmtKind uint8

const (
	StmtReturn StmtKind = iota
)

type Stmt struct {
	Kind StmtKind
	Span source.Span
	Expr ExprID
}

type Stmts struct {
	Arena *Arena[Stmt]
}

func NewStmts(capHint uint) *Stmts {
	return &Stmts{
		Arena: NewArena[Stmt](capHint),
	}
}

func (s *Stmts) NewReturn(span source.Span, expr ExprID) StmtID {
	return StmtID(s.Arena.Allocate(Stmt{
		Kind: StmtReturn,
		Span: span,
		Expr: expr,
	}))
}

func (s *Stmts) Get(id StmtID) *Stmt {
	return s.Arena.Get(uint32(id))
}
