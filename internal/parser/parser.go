package parser

import (
	"slices"

	"sysyc/internal/ast"
	"sysyc/internal/diag"
	"sysyc/internal/lexer"
	"sysyc/internal/source"
	"sysyc/internal/token"
)

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
}

type Result struct {
	Unit   ast.UnitID
	Errors uint
}

// OK reports whether the unit parsed without syntax errors and may be lowered.
func (r Result) OK() bool {
	return r.Unit.IsValid() && r.Errors == 0
}

// Parser — состояние парсера на один файл
type Parser struct {
	lx       *lexer.Lexer
	arenas   *ast.Builder
	opts     Options
	lastSpan source.Span // span последнего съеденного токена для лучшей диагностики
}

// errorCounter sits between the lexer and the real reporter so that lexical
// errors also make the parse result not OK.
type errorCounter struct {
	next   diag.Reporter
	errors uint
}

func (c *errorCounter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note) {
	if sev == diag.SevError {
		c.errors++
	}
	if c.next != nil {
		c.next.Report(code, sev, primary, msg, notes)
	}
}

// ParseFile — входная точка для разбора одного файла:
//
//	CompUnit ::= FuncDef EOF
//
// Лексер создаётся здесь, его ошибки идут в тот же Reporter.
func ParseFile(file *source.File, arenas *ast.Builder, opts Options) Result {
	counter := &errorCounter{next: opts.Reporter}
	lx := lexer.New(file, lexer.Options{Reporter: counter})
	p := Parser{
		lx:       lx,
		arenas:   arenas,
		opts:     opts,
		lastSpan: source.Span{File: file.ID},
	}

	unit, ok := p.parseCompUnit()
	errs := p.opts.CurrentErrors + counter.errors
	if !ok && errs == 0 {
		errs = 1
	}
	return Result{Unit: unit, Errors: errs}
}

func (p *Parser) at(k token.Kind) bool {
	return p.lx.Peek().Kind == k
}

func (p *Parser) atOr(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.lx.Peek().Kind)
}

func (p *Parser) parseCompUnit() (ast.UnitID, bool) {
	start := p.lx.Peek().Span
	if !p.atOr(token.KwInt, token.KwVoid) {
		p.err(diag.SynUnexpectedTopLevel, "expected function definition, got "+describe(p.lx.Peek()))
		return ast.NoUnitID, false
	}
	fn, ok := p.parseFuncDef()
	if !ok {
		return ast.NoUnitID, false
	}
	if !p.at(token.EOF) {
		p.err(diag.SynTrailingTokens, "unexpected "+describe(p.lx.Peek())+" after function definition")
		return ast.NoUnitID, false
	}
	return p.arenas.Units.New(start.Cover(p.lastSpan), fn), true
}

// describe formats a token for "expected X, got Y" messages.
func describe(tok token.Token) string {
	if tok.Kind == token.EOF || tok.Text == "" {
		return tok.Kind.String()
	}
	return "\"" + tok.Text + "\""
}
