package parser

import (
	"sysyc/internal/ast"
	"sysyc/internal/diag"
	"sysyc/internal/token"
)

// parseFuncDef разбирает
//
//	FuncDef ::= FuncType IDENT '(' ')' Block
//
// 'void' распознаётся только затем, чтобы дать понятную ошибку.
func (p *Parser) parseFuncDef() (ast.FuncID, bool) {
	typeTok := p.advance()
	retType := ast.FuncTypeInt
	if typeTok.Kind == token.KwVoid {
		p.report(diag.SynVoidFunction, diag.SevError, typeTok.Span, "function must return 'int', 'void' is not supported")
		retType = ast.FuncTypeUnknown
	}

	nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected function name")
	if !ok {
		return ast.NoFuncID, false
	}
	lparen, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after function name")
	if !ok {
		return ast.NoFuncID, false
	}
	if _, ok := p.expectClosing(token.RParen, diag.SynUnclosedParen, "expected ')'", lparen.Span); !ok {
		return ast.NoFuncID, false
	}
	body, ok := p.parseBlock()
	if !ok {
		return ast.NoFuncID, false
	}
	if retType != ast.FuncTypeInt {
		return ast.NoFuncID, false
	}

	return p.arenas.Funcs.New(ast.FuncDef{
		Span:       typeTok.Span.Cover(body.Span),
		ReturnType: retType,
		Name:       nameTok.Text,
		NameSpan:   nameTok.Span,
		Body:       body,
	}), true
}

// parseBlock разбирает Block ::= '{' Stmt '}'.
func (p *Parser) parseBlock() (ast.Block, bool) {
	lbrace, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{' to open function body")
	if !ok {
		return ast.Block{}, false
	}
	stmt, ok := p.parseStmt()
	if !ok {
		return ast.Block{}, false
	}
	rbrace, ok := p.expectClosing(token.RBrace, diag.SynUnclosedBrace, "expected '}' after return statement", lbrace.Span)
	if !ok {
		return ast.Block{}, false
	}
	return ast.Block{Span: lbrace.Span.Cover(rbrace.Span), Stmt: stmt}, true
}
