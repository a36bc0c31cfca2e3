package ast

import (
	"sysyc/internal/source"
)

// Exprs manages allocation of expressions and their per-kind payloads.
type Exprs struct {
	Arena    *Arena[Expr]
	Literals *Arena[ExprLiteralData]
	Groups   *Arena[ExprGroupData]
	Unaries  *Arena[ExprUnaryData]
}

func NewExprs(capHint uint) *Exprs {
	if capHint == 0 {
		capHint = 1 << 6
	}
	return &Exprs{
		Arena:    NewArena[Expr](capHint),
		Literals: NewArena[ExprLiteralData](capHint),
		Groups:   NewArena[ExprGroupData](capHint),
		Unaries:  NewArena[ExprUnaryData](capHint),
	}
}

func (e *Exprs) new(kind ExprKind, span source.Span, payload PayloadID) ExprID {
	return ExprID(e.Arena.Allocate(Expr{
		Kind:    kind,
		Span:    span,
		Payload: payload,
	}))
}

func (e *Exprs) Get(id ExprID) *Expr {
	return e.Arena.Get(uint32(id))
}

func (e *Exprs) NewLiteral(span source.Span, value int32, raw string) ExprID {
	payload := PayloadID(e.Literals.Allocate(ExprLiteralData{Value: value, Raw: raw}))
	return e.new(ExprLit, span, payload)
}

func (e *Exprs) NewGroup(span source.Span, inner ExprID) ExprID {
	payload := PayloadID(e.Groups.Allocate(ExprGroupData{Inner: inner}))
	return e.new(ExprGroup, span, payload)
}

func (e *Exprs) NewUnary(span source.Span, op UnaryOp, operand ExprID) ExprID {
	payload := PayloadID(e.Unaries.Allocate(ExprUnaryData{Op: op, Operand: operand}))
	return e.new(ExprUnary, span, payload)
}

func (e *Exprs) Literal(id ExprID) (*ExprLiteralData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprLit {
		return nil, false
	}
	return e.Literals.Get(uint32(expr.Payload)), true
}

func (e *Exprs) Group(id ExprID) (*ExprGroupData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprGroup {
		return nil, false
	}
	return e.Groups.Get(uint32(expr.Payload)), true
}

func (e *Exprs) Unary(id ExprID) (*ExprUnaryData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprUnary {
		return nil, false
	}
	return e.Unaries.Get(uint32(expr.Payload)), true
}

// Depth returns the nesting depth of an expression tree; a literal has depth 1.
func (e *Exprs) Depth(id ExprID) int {
	depth := 0
	for id.IsValid() {
		depth++
		expr := e.Get(id)
		if expr == nil {
			break
		}
		switch expr.Kind {
		case ExprGroup:
			id = e.Groups.Get(uint32(expr.Payload)).Inner
		case ExprUnary:
			id = e.Unaries.Get(uint32(expr.Payload)).Operand
		default:
			id = NoExprID
		}
	}
	return depth
}
