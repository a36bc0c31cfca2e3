package parser

import (
	"errors"
	"strconv"

	"fortio.org/safecast"

	"sysyc/internal/ast"
	"sysyc/internal/diag"
	"sysyc/internal/source"
	"sysyc/internal/token"
)

var unaryOps = map[token.Kind]ast.UnaryOp{
	token.Plus:  ast.UnaryPlus,
	token.Minus: ast.UnaryMinus,
	token.Bang:  ast.UnaryNot,
	token.Tilde: ast.UnaryBitNot,
}

// parseExpr разбирает Exp ::= UnaryExp.
func (p *Parser) parseExpr() (ast.ExprID, bool) {
	return p.parseUnary()
}

// parseUnary разбирает UnaryExp ::= PrimaryExp | UnaryOp UnaryExp.
// Цепочка префиксных операторов собирается итеративно, без рекурсии на каждый оператор.
func (p *Parser) parseUnary() (ast.ExprID, bool) {
	type pending struct {
		op   ast.UnaryOp
		span source.Span
	}
	var ops []pending
	for {
		op, ok := unaryOps[p.lx.Peek().Kind]
		if !ok {
			break
		}
		ops = append(ops, pending{op: op, span: p.advance().Span})
	}

	expr, ok := p.parsePrimary()
	if !ok {
		return ast.NoExprID, false
	}
	for i := len(ops) - 1; i >= 0; i-- {
		span := ops[i].span.Cover(p.arenas.Exprs.Get(expr).Span)
		expr = p.arenas.Exprs.NewUnary(span, ops[i].op, expr)
	}
	return expr, true
}

// parsePrimary разбирает PrimaryExp ::= '(' Exp ')' | Number.
func (p *Parser) parsePrimary() (ast.ExprID, bool) {
	tok := p.lx.Peek()
	switch tok.Kind {
	case token.LParen:
		lparen := p.advance()
		inner, ok := p.parseExpr()
		if !ok {
			return ast.NoExprID, false
		}
		rparen, ok := p.expectClosing(token.RParen, diag.SynUnclosedParen, "expected ')'", lparen.Span)
		if !ok {
			return ast.NoExprID, false
		}
		return p.arenas.Exprs.NewGroup(lparen.Span.Cover(rparen.Span), inner), true

	case token.IntLit:
		p.advance()
		value, ok := p.intLitValue(tok)
		if !ok {
			return ast.NoExprID, false
		}
		return p.arenas.Exprs.NewLiteral(tok.Span, value, tok.Text), true

	case token.Invalid:
		// лексер уже отрепортил
		p.advance()
		return ast.NoExprID, false

	default:
		p.err(diag.SynExpectExpression, "expected expression, got "+describe(tok))
		return ast.NoExprID, false
	}
}

// intLitValue переводит текст литерала (десятичный, 0… восьмеричный, 0x… шестнадцатеричный) в int32.
func (p *Parser) intLitValue(tok token.Token) (int32, bool) {
	wide, err := strconv.ParseInt(tok.Text, 0, 64)
	if err == nil {
		var narrow int32
		if narrow, err = safecast.Conv[int32](wide); err == nil {
			return narrow, true
		}
	}
	msg := "integer literal " + tok.Text + " does not fit in 32-bit int"
	var numErr *strconv.NumError
	if errors.As(err, &numErr) && !errors.Is(numErr.Err, strconv.ErrRange) {
		msg = "malformed integer literal " + tok.Text
	}
	p.report(diag.SynIntegerOverflow, diag.SevError, tok.Span, msg)
	return 0, false
}
