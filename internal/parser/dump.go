package parser

import (
	"fmt"
	"io"
	"strings"

	"sysyc/internal/ast"
	"sysyc/internal/source"
)

type treeNode struct {
	label    string
	children []*treeNode
}

// Dump печатает дерево разбора unit с рамками ├─ / └─.
// fs может быть nil — тогда спаны печатаются в байтах.
func Dump(w io.Writer, b *ast.Builder, unit ast.UnitID, fs *source.FileSet) error {
	var sb strings.Builder
	renderTree(&sb, buildUnitNode(b, unit, fs), "", "")
	_, err := io.WriteString(w, sb.String())
	return err
}

func buildUnitNode(b *ast.Builder, unitID ast.UnitID, fs *source.FileSet) *treeNode {
	unit := b.Units.Get(unitID)
	if unit == nil {
		return &treeNode{label: fmt.Sprintf("CompUnit[%d]: <nil>", unitID)}
	}
	root := &treeNode{label: "CompUnit (span: " + formatSpan(unit.Span, fs) + ")"}
	fn := b.Funcs.Get(unit.Func)
	if fn == nil {
		root.children = append(root.children, &treeNode{label: "FuncDef: <nil>"})
		return root
	}
	stmt := b.Stmts.Get(fn.Body.Stmt)
	stmtNode := &treeNode{label: "Stmt: <nil>"}
	if stmt != nil {
		stmtNode = &treeNode{
			label:    "Return (span: " + formatSpan(stmt.Span, fs) + ")",
			children: []*treeNode{buildExprNode(b, stmt.Expr, fs)},
		}
	}
	root.children = append(root.children, &treeNode{
		label: fmt.Sprintf("FuncDef %s %s (span: %s)", fn.ReturnType, fn.Name, formatSpan(fn.Span, fs)),
		children: []*treeNode{{
			label:    "Block",
			children: []*treeNode{stmtNode},
		}},
	})
	return root
}

func buildExprNode(b *ast.Builder, id ast.ExprID, fs *source.FileSet) *treeNode {
	expr := b.Exprs.Get(id)
	if expr == nil {
		return &treeNode{label: "Expr: <nil>"}
	}
	span := formatSpan(expr.Span, fs)
	switch expr.Kind {
	case ast.ExprLit:
		lit, _ := b.Exprs.Literal(id)
		return &treeNode{label: fmt.Sprintf("Literal %d (span: %s)", lit.Value, span)}
	case ast.ExprGroup:
		grp, _ := b.Exprs.Group(id)
		return &treeNode{
			label:    "Paren (span: " + span + ")",
			children: []*treeNode{buildExprNode(b, grp.Inner, fs)},
		}
	case ast.ExprUnary:
		un, _ := b.Exprs.Unary(id)
		return &treeNode{
			label:    fmt.Sprintf("Unary %s (span: %s)", un.Op, span),
			children: []*treeNode{buildExprNode(b, un.Operand, fs)},
		}
	}
	return &treeNode{label: fmt.Sprintf("Expr kind %d", expr.Kind)}
}

func renderTree(sb *strings.Builder, node *treeNode, prefix, childPrefix string) {
	sb.WriteString(prefix)
	sb.WriteString(node.label)
	sb.WriteByte('\n')
	for i, child := range node.children {
		if i == len(node.children)-1 {
			renderTree(sb, child, childPrefix+"└─ ", childPrefix+"   ")
		} else {
			renderTree(sb, child, childPrefix+"├─ ", childPrefix+"│  ")
		}
	}
}

func formatSpan(span source.Span, fs *source.FileSet) string {
	if fs == nil {
		return fmt.Sprintf("%d-%d", span.Start, span.End)
	}
	start, end := fs.Resolve(span)
	return fmt.Sprintf("%d:%d-%d:%d", start.Line, start.Col, end.Line, end.Col)
}
