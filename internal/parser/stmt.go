package parser

import (
	"sysyc/internal/ast"
	"sysyc/internal/diag"
	"sysyc/internal/token"
)

// parseStmt разбирает Stmt ::= 'return' Exp ';'.
func (p *Parser) parseStmt() (ast.StmtID, bool) {
	kw, ok := p.expect(token.KwReturn, diag.SynExpectReturn, "expected 'return'")
	if !ok {
		return ast.NoStmtID, false
	}
	expr, ok := p.parseExpr()
	if !ok {
		return ast.NoStmtID, false
	}
	semi, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after return value")
	if !ok {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewReturn(kw.Span.Cover(semi.Span), expr), true
}
