package ast

import (
	"sysyc/internal/source"
)

type ExprKind uint8

const (
	// ExprLit is an integer literal (PrimaryExp ::= Number).
	ExprLit ExprKind = iota
	// ExprGroup is a parenthesized expression (PrimaryExp ::= '(' Exp ')').
	ExprGroup
	// ExprUnary is UnaryOp applied to a UnaryExp.
	ExprUnary
)

type UnaryOp uint8

const (
	UnaryPlus   UnaryOp = iota // +x, identity
	UnaryMinus                 // -x, negate
	UnaryNot                   // !x, logical not
	UnaryBitNot                // ~x, bitwise not
)

func (op UnaryOp) String() string {
	switch op {
	case UnaryPlus:
		return "+"
	case UnaryMinus:
		return "-"
	case UnaryNot:
		return "!"
	case UnaryBitNot:
		return "~"
	}
	return "?"
}

type Expr struct {
	Kind    ExprKind
	Span    source.Span
	Payload PayloadID
}

type ExprLiteralData struct {
	Value int32
	Raw   string
}

type ExprGroupData struct {
	Inner ExprID
}

type ExprUnaryData struct {
	Op      UnaryOp
	Operand ExprID
}
