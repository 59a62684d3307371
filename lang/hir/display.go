package hir

import (
	"fmt"
	"io"
	"strings"
)

// Printer renders a Program as a tree-indented textual dump, the HIR-level
// instance of the display(DisplayKind) utility required by spec.md §6.
// Unlike ast.Printer it has no Raw/WithIDs distinction: every HIR node
// already carries a dense id, so ids are always shown.
type Printer struct{}

// Fprint writes prog's dump to w, one function at a time.
func (p Printer) Fprint(w io.Writer, prog *Program) error {
	pw := &printWriter{w: w, prog: prog}
	prog.Functions.All(func(id FunctionID, fn Function) bool {
		pw.function(id, fn)
		return true
	})
	return pw.err
}

// Sprint is a convenience wrapper returning the dump as a string.
func (p Printer) Sprint(prog *Program) string {
	var b strings.Builder
	_ = p.Fprint(&b, prog)
	return b.String()
}

type printWriter struct {
	w    io.Writer
	prog *Program
	err  error
}

func (pw *printWriter) printf(depth int, format string, args ...any) {
	if pw.err != nil {
		return
	}
	_, err := fmt.Fprintf(pw.w, "%s"+format+"\n", append([]any{strings.Repeat("  ", depth)}, args...)...)
	if err != nil {
		pw.err = err
	}
}

func (pw *printWriter) function(id FunctionID, fn Function) {
	pw.printf(0, "fn#%d %s -> %s", id, fn.Name, pw.prog.Types.TypeName(fn.ReturnType))
	for _, p := range fn.Params {
		pw.printf(1, "param local#%d: %s", p.Local, pw.prog.Types.TypeName(p.Type))
	}
	pw.block(1, fn.Body)
}

func (pw *printWriter) block(depth int, id BlockID) {
	blk, ok := pw.prog.Blocks.Get(id)
	if !ok {
		pw.printf(depth, "block#%d <missing>", id)
		return
	}
	pw.printf(depth, "block#%d", id)
	for _, sid := range blk.Statements {
		pw.statement(depth+1, sid)
	}
	if blk.Terminator != nil {
		pw.printf(depth+1, "terminator:")
		pw.expression(depth+2, *blk.Terminator)
	}
}

func (pw *printWriter) statement(depth int, id StatementID) {
	stmt, ok := pw.prog.Statements.Get(id)
	if !ok {
		pw.printf(depth, "stmt#%d <missing>", id)
		return
	}
	switch stmt.Kind {
	case StmtVariable:
		v := stmt.Variable
		pw.printf(depth, "let local#%d: %s", v.Local, pw.prog.Types.TypeName(v.Type))
		if v.Value != ErrorExpressionID {
			pw.expression(depth+1, v.Value)
		}
	case StmtAssign:
		a := stmt.Assign
		pw.printf(depth, "assign %s", pw.place(a.Place))
		pw.expression(depth+1, a.Value)
	case StmtExpression:
		pw.printf(depth, "expr-stmt")
		pw.expression(depth+1, stmt.Expression.Value)
	case StmtReturn:
		pw.printf(depth, "return")
		if stmt.Value != nil {
			pw.expression(depth+1, *stmt.Value)
		}
	case StmtBreak:
		pw.printf(depth, "break")
	case StmtContinue:
		pw.printf(depth, "continue")
	case StmtFall:
		pw.printf(depth, "fall")
	default:
		pw.printf(depth, "<error-stmt#%d>", id)
	}
}

func (pw *printWriter) place(pl Place) string {
	switch pl.Kind {
	case PlaceLocal:
		return fmt.Sprintf("local#%d", pl.Local)
	case PlaceDeref:
		return fmt.Sprintf("*(%s)", pw.place(*pl.Base))
	case PlaceIndex:
		return fmt.Sprintf("%s[expr#%d]", pw.place(*pl.Base), pl.Index)
	case PlaceField:
		return fmt.Sprintf("%s.%s", pw.place(*pl.Base), pl.Field)
	default:
		return "<error-place>"
	}
}

func (pw *printWriter) expression(depth int, id ExpressionID) {
	if id == ErrorExpressionID {
		pw.printf(depth, "<error-expr>")
		return
	}
	expr, ok := pw.prog.Expressions.Get(id)
	if !ok {
		pw.printf(depth, "expr#%d <missing>", id)
		return
	}
	switch expr.Kind {
	case ExprLiteral:
		pw.printf(depth, "literal %s", expr.Literal.Raw)
	case ExprNull:
		pw.printf(depth, "null")
	case ExprLoad:
		pw.printf(depth, "load %s", pw.place(*expr.Place))
	case ExprRef:
		kind := "&"
		if !expr.Ref.Mutable {
			kind = "@"
		}
		pw.printf(depth, "ref %s%s", kind, pw.place(expr.Ref.Place))
	case ExprCall:
		pw.printf(depth, "call fn#%d", expr.Call.Function)
		if expr.Call.Callee != nil {
			pw.printf(depth+1, "callee:")
			pw.expression(depth+2, *expr.Call.Callee)
		}
		for _, a := range expr.Call.Args {
			pw.expression(depth+1, a)
		}
	case ExprCast:
		pw.printf(depth, "cast -> %s", pw.prog.Types.TypeName(expr.Cast.To))
		pw.expression(depth+1, expr.Cast.Value)
	case ExprUnary:
		if expr.Unary.Prefix {
			pw.printf(depth, "unary-prefix")
		} else {
			pw.printf(depth, "unary-postfix")
		}
		pw.expression(depth+1, expr.Unary.Operand)
	case ExprBinary:
		pw.printf(depth, "binary")
		pw.expression(depth+1, expr.Binary.Left)
		pw.expression(depth+1, expr.Binary.Right)
	case ExprIf:
		pw.ifExpr(depth, expr.If)
	case ExprWhile:
		pw.printf(depth, "while")
		if expr.While.Cond != nil {
			pw.expression(depth+1, *expr.While.Cond)
		}
		pw.block(depth+1, expr.While.Body)
	case ExprBlock:
		pw.block(depth, expr.Block)
	case ExprArray:
		pw.printf(depth, "array")
		for _, e := range expr.Elems {
			pw.expression(depth+1, e)
		}
	case ExprTuple:
		pw.printf(depth, "tuple")
		for _, e := range expr.Elems {
			pw.expression(depth+1, e)
		}
	default:
		pw.printf(depth, "<error-expr#%d>", id)
	}
}

func (pw *printWriter) ifExpr(depth int, n *If) {
	pw.printf(depth, "if")
	pw.expression(depth+1, n.Cond)
	pw.block(depth+1, n.Then)
	if n.Arm != nil {
		if n.Arm.ElseIf != nil {
			pw.printf(depth, "elif")
			pw.ifExpr(depth+1, n.Arm.ElseIf)
		}
		if n.Arm.Else != nil {
			pw.printf(depth, "else")
			pw.block(depth+1, *n.Arm.Else)
		}
	}
}
