package ast

import (
	"fmt"
	"io"
	"strings"
)

// DisplayKind selects the verbosity of display() dumps (spec.md §6):
// Raw is the parser's untouched output, WithIDs additionally prints each
// declaration's resolved NodeID once name resolution has run.
type DisplayKind uint8

const (
	Raw DisplayKind = iota
	WithIDs
)

// Printer renders a File as a tree-indented textual dump, the AST-level
// instance of the display(DisplayKind) utility required by spec.md §6.
type Printer struct {
	Kind DisplayKind
}

// Fprint writes f's dump to w.
func (p Printer) Fprint(w io.Writer, f *File) error {
	pw := &printWriter{w: w, kind: p.Kind}
	for _, s := range f.Statements {
		pw.stmt(0, s)
	}
	return pw.err
}

// Sprint is a convenience wrapper returning the dump as a string.
func (p Printer) Sprint(f *File) string {
	var b strings.Builder
	_ = p.Fprint(&b, f)
	return b.String()
}

type printWriter struct {
	w    io.Writer
	kind DisplayKind
	err  error
}

func (pw *printWriter) line(depth int, format string, args ...any) {
	if pw.err != nil {
		return
	}
	_, err := fmt.Fprintf(pw.w, "%s%s\n", strings.Repeat("  ", depth), fmt.Sprintf(format, args...))
	if err != nil {
		pw.err = err
	}
}

func (pw *printWriter) idSuffix(id *NodeID) string {
	if pw.kind != WithIDs || id == nil {
		return ""
	}
	return fmt.Sprintf(" #%d", int32(*id))
}

func (pw *printWriter) stmt(depth int, s Stmt) {
	switch n := s.(type) {
	case *VariableDecl:
		pw.line(depth, "var %s%s", n.Name, pw.idSuffix(n.Resolved))
		if n.Init != nil {
			pw.expr(depth+1, n.Init)
		}
	case *FunctionDecl:
		pw.line(depth, "fn %s%s", n.Name, pw.idSuffix(n.Resolved))
		pw.block(depth+1, n.Body)
	case *NominalDecl:
		pw.line(depth, "nominal %s%s", n.Name, pw.idSuffix(n.Resolved))
	case *AssignStmt:
		pw.line(depth, "assign")
		pw.expr(depth+1, n.Target)
		pw.expr(depth+1, n.Value)
	case *CompoundAssignStmt:
		pw.line(depth, "compound-assign")
		pw.expr(depth+1, n.Target)
		pw.expr(depth+1, n.Value)
	case *ExprStmt:
		tail := ""
		if !n.EndsSemicolon {
			tail = " (tail)"
		}
		pw.line(depth, "expr-stmt%s", tail)
		pw.expr(depth+1, n.Value)
	case *ReturnStmt:
		pw.line(depth, "return")
		if n.Value != nil {
			pw.expr(depth+1, n.Value)
		}
	case *BreakStmt:
		pw.line(depth, "break")
		if n.Value != nil {
			pw.expr(depth+1, n.Value)
		}
	case *ContinueStmt:
		pw.line(depth, "continue")
	case *FallStmt:
		pw.line(depth, "fall")
	case *BlockStmt:
		pw.block(depth, n.Body)
	case *IfStmt:
		pw.expr(depth, n.If)
	case *WhileStmt:
		pw.expr(depth, n.While)
	case *ForStmt:
		pw.line(depth, "for %s%s", n.Pattern, pw.idSuffix(n.Resolved))
		pw.expr(depth+1, n.Collection)
		pw.block(depth+1, n.Body)
	case *UseStmt:
		pw.line(depth, "use %q%s", n.Path, pw.idSuffix(n.Resolved))
	case *ImportStmt:
		pw.line(depth, "import %q%s", n.Path, pw.idSuffix(n.Resolved))
	case *ErrorStmt:
		pw.line(depth, "<error-stmt>")
	default:
		pw.line(depth, "<unknown-stmt %T>", n)
	}
}

func (pw *printWriter) block(depth int, b *Block) {
	pw.line(depth, "block")
	for _, s := range b.Stmts {
		pw.stmt(depth+1, s)
	}
}

func (pw *printWriter) expr(depth int, e Expr) {
	switch n := e.(type) {
	case *LiteralExpr:
		pw.line(depth, "lit %s", n.Raw)
	case *NullExpr:
		pw.line(depth, "null")
	case *IdentExpr:
		pw.line(depth, "ident %s%s", n.Name, pw.idSuffix(n.Resolved))
	case *UnaryExpr:
		pw.line(depth, "unary %d", n.Op)
		pw.expr(depth+1, n.Operand)
	case *PostfixExpr:
		pw.line(depth, "postfix %d", n.Op)
		pw.expr(depth+1, n.Operand)
	case *BinaryExpr:
		pw.line(depth, "binary %d", n.Op)
		pw.expr(depth+1, n.Left)
		pw.expr(depth+1, n.Right)
	case *IndexExpr:
		pw.line(depth, "index")
		pw.expr(depth+1, n.Base)
		pw.expr(depth+1, n.Index)
	case *FieldExpr:
		pw.line(depth, "field %s", n.Name)
		pw.expr(depth+1, n.Base)
	case *CallExpr:
		pw.line(depth, "call %s", n.Name)
		if n.Callee != nil {
			pw.expr(depth+1, n.Callee)
		}
		for _, a := range n.Args {
			pw.expr(depth+1, a)
		}
	case *AsExpr:
		pw.line(depth, "as")
		pw.expr(depth+1, n.Value)
	case *IfExpr:
		pw.line(depth, "if")
		pw.expr(depth+1, n.Cond)
		pw.block(depth+1, n.Then)
		if n.Arm != nil {
			if n.Arm.ElseIf != nil {
				pw.expr(depth, n.Arm.ElseIf)
			} else if n.Arm.Else != nil {
				pw.block(depth+1, n.Arm.Else)
			}
		}
	case *WhileExpr:
		pw.line(depth, "while")
		if n.Cond != nil {
			pw.expr(depth+1, n.Cond)
		}
		pw.block(depth+1, n.Body)
	case *BlockExpr:
		pw.block(depth, n.Body)
	case *ArrayExpr:
		pw.line(depth, "array")
		for _, el := range n.Elems {
			pw.expr(depth+1, el)
		}
	case *TupleExpr:
		pw.line(depth, "tuple")
		for _, el := range n.Elems {
			pw.expr(depth+1, el)
		}
	case *MatchExpr:
		pw.line(depth, "match")
		pw.expr(depth+1, n.Subject)
	case *ErrorExpr:
		pw.line(depth, "<error-expr>")
	default:
		pw.line(depth, "<unknown-expr %T>", n)
	}
}
