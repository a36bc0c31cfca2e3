// Package lower translates a parsed compilation unit into the ir Program.
package lower

import (
	"errors"
	"fmt"
	"strings"

	"sysyc/internal/ast"
	"sysyc/internal/diag"
	"sysyc/internal/ir"
	"sysyc/internal/source"
)

type Options struct {
	// Fold evaluates operations whose operands are both constants at lowering time.
	Fold bool
}

// Error is a user-facing lowering failure that maps onto a diagnostic.
type Error struct {
	Code diag.Code
	Span source.Span
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Lowerer holds the state of one lowering pass: the program being built and
// the insertion cursor (current function and block).
type Lowerer struct {
	prog     *ir.Program
	builder  *ast.Builder
	curFunc  *ir.Function
	curBlock *ir.BasicBlock
	opts     Options
}

func NewLowerer(b *ast.Builder, opts Options) *Lowerer {
	return &Lowerer{prog: ir.NewProgram(), builder: b, opts: opts}
}

// Lower converts unit into a validated Program.
func Lower(b *ast.Builder, unit ast.UnitID, opts Options) (*ir.Program, error) {
	l := NewLowerer(b, opts)
	if err := l.LowerUnit(unit); err != nil {
		return nil, err
	}
	return l.Program()
}

// LowerUnit lowers every function of unit into the program.
func (l *Lowerer) LowerUnit(unit ast.UnitID) error {
	cu := l.builder.Units.Get(unit)
	if cu == nil {
		return fmt.Errorf("lower: unknown compilation unit %d", unit)
	}
	return l.LowerFunc(cu.Func)
}

// Program validates and returns the lowered program.
func (l *Lowerer) Program() (*ir.Program, error) {
	if err := ir.Validate(l.prog); err != nil {
		return nil, &Error{Code: diag.LowInvalidProgram, Msg: "lowered program is invalid", Err: err}
	}
	return l.prog, nil
}

// LowerFunc lowers one function definition: a single %entry block ending in ret.
func (l *Lowerer) LowerFunc(id ast.FuncID) error {
	fn := l.builder.Funcs.Get(id)
	if fn == nil {
		return fmt.Errorf("lower: unknown function %d", id)
	}
	if fn.ReturnType != ast.FuncTypeInt {
		return &Error{Code: diag.LowBadFuncType, Span: fn.Span, Msg: fmt.Sprintf("function %s has unsupported return type %s", fn.Name, fn.ReturnType)}
	}

	f := ir.NewFunction(publicName(fn.Name), ir.TypeI32)
	if err := l.prog.AddFunction(f); err != nil {
		return &Error{Code: diag.LowDuplicateFunction, Span: fn.NameSpan, Msg: "function " + fn.Name + " is already defined", Err: err}
	}
	entry, err := f.NewBlock("%entry")
	if err != nil {
		return err
	}
	l.curFunc, l.curBlock = f, entry
	defer func() { l.curFunc, l.curBlock = nil, nil }()

	stmt := l.builder.Stmts.Get(fn.Body.Stmt)
	if stmt == nil || stmt.Kind != ast.StmtReturn {
		return &Error{Code: diag.LowInvalidProgram, Span: fn.Body.Span, Msg: "function body has no return statement"}
	}
	v, err := l.lowerExpr(stmt.Expr)
	if err != nil {
		return err
	}
	return l.emit(l.curFunc.NewReturn(v))
}

func publicName(name string) string {
	if strings.HasPrefix(name, "@") {
		return name
	}
	return "@" + name
}

// lowerExpr walks down to the literal leaf, then applies the collected unary
// operators innermost-first. Parentheses are transparent.
func (l *Lowerer) lowerExpr(id ast.ExprID) (ir.ValueID, error) {
	l.mustCursor()
	var ops []ast.UnaryOp
	for {
		expr := l.builder.Exprs.Get(id)
		if expr == nil {
			return ir.NoValueID, fmt.Errorf("lower: invalid expression handle %d", id)
		}
		switch expr.Kind {
		case ast.ExprGroup:
			grp, _ := l.builder.Exprs.Group(id)
			id = grp.Inner
		case ast.ExprUnary:
			un, _ := l.builder.Exprs.Unary(id)
			ops = append(ops, un.Op)
			id = un.Operand
		case ast.ExprLit:
			lit, _ := l.builder.Exprs.Literal(id)
			v := l.curFunc.Integer(lit.Value)
			for i := len(ops) - 1; i >= 0; i-- {
				var err error
				if v, err = l.lowerUnary(ops[i], v); err != nil {
					return ir.NoValueID, err
				}
			}
			return v, nil
		default:
			return ir.NoValueID, fmt.Errorf("lower: unsupported expression kind %d", expr.Kind)
		}
	}
}

func (l *Lowerer) lowerUnary(op ast.UnaryOp, v ir.ValueID) (ir.ValueID, error) {
	f := l.curFunc
	switch op {
	case ast.UnaryPlus:
		return v, nil
	case ast.UnaryMinus:
		return l.emitBinary(ir.OpSub, f.Integer(0), v)
	case ast.UnaryNot:
		return l.emitBinary(ir.OpEq, v, f.Integer(0))
	case ast.UnaryBitNot:
		return l.emitBinary(ir.OpXor, v, f.Integer(-1))
	}
	return ir.NoValueID, fmt.Errorf("lower: unknown unary operator %d", op)
}

func (l *Lowerer) emitBinary(op ir.BinaryOp, lhs, rhs ir.ValueID) (ir.ValueID, error) {
	l.mustCursor()
	f := l.curFunc
	if l.opts.Fold {
		a, b := f.Value(lhs), f.Value(rhs)
		if a.Kind == ir.ValueInteger && b.Kind == ir.ValueInteger {
			r, err := ir.EvalBinary(op, a.Integer.Value, b.Integer.Value)
			if err == nil {
				return f.Integer(r), nil
			}
			if !errors.Is(err, ir.ErrDivisionByZero) {
				return ir.NoValueID, err
			}
			// деление на ноль оставляем до исполнения
		}
	}
	id := f.NewBinary(op, lhs, rhs)
	return id, l.emit(id)
}

func (l *Lowerer) emit(id ir.ValueID) error {
	l.mustCursor()
	return l.curFunc.Append(l.curBlock, id)
}

// mustCursor panics when no function/block is selected: emitting outside a
// function is a bug in the lowerer, not a user error.
func (l *Lowerer) mustCursor() {
	if l.curFunc == nil || l.curBlock == nil {
		panic("lower: emission without a current function and block")
	}
}
