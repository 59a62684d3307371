package infer

import (
	"fmt"
	"io"
	"strings"

	"github.com/soul-lang/soulc/lang/hir"
)

// Printer renders a Program alongside its inferred Result as the
// typed-context instance of the display(DisplayKind) utility required by
// spec.md §6: every expression is annotated with its finalized type, and
// any expression the inferencer marked for autocopy gets an explicit
// "[autocopy]" tag (spec.md §4.4 "Outputs").
type Printer struct{}

// Fprint writes the dump to w.
func (p Printer) Fprint(w io.Writer, prog *hir.Program, res *Result) error {
	pw := &annotator{w: w, prog: prog, res: res}
	prog.Functions.All(func(id hir.FunctionID, fn hir.Function) bool {
		pw.function(id, fn)
		return true
	})
	return pw.err
}

// Sprint is a convenience wrapper returning the dump as a string.
func (p Printer) Sprint(prog *hir.Program, res *Result) string {
	var b strings.Builder
	_ = p.Fprint(&b, prog, res)
	return b.String()
}

type annotator struct {
	w    io.Writer
	prog *hir.Program
	res  *Result
	err  error
}

func (a *annotator) printf(depth int, format string, args ...any) {
	if a.err != nil {
		return
	}
	_, err := fmt.Fprintf(a.w, "%s"+format+"\n", append([]any{strings.Repeat("  ", depth)}, args...)...)
	if err != nil {
		a.err = err
	}
}

func (a *annotator) function(id hir.FunctionID, fn hir.Function) {
	a.printf(0, "fn#%d %s -> %s", id, fn.Name, a.prog.Types.TypeName(fn.ReturnType))
	a.block(1, fn.Body)
}

func (a *annotator) block(depth int, id hir.BlockID) {
	blk, ok := a.prog.Blocks.Get(id)
	if !ok {
		return
	}
	bty := a.res.Blocks[id]
	a.printf(depth, "block#%d: %s", id, a.prog.Types.TypeName(bty))
	for _, sid := range blk.Statements {
		a.statement(depth+1, sid)
	}
	if blk.Terminator != nil {
		a.expression(depth+1, *blk.Terminator)
	}
}

func (a *annotator) statement(depth int, id hir.StatementID) {
	stmt, ok := a.prog.Statements.Get(id)
	if !ok {
		return
	}
	switch stmt.Kind {
	case hir.StmtVariable:
		v := stmt.Variable
		a.printf(depth, "let local#%d: %s", v.Local, a.prog.Types.TypeName(a.res.Locals[v.Local]))
		if v.Value != hir.ErrorExpressionID {
			a.expression(depth+1, v.Value)
		}
	case hir.StmtAssign:
		a.printf(depth, "assign")
		a.expression(depth+1, stmt.Assign.Value)
	case hir.StmtExpression:
		a.expression(depth, stmt.Expression.Value)
	case hir.StmtReturn:
		a.printf(depth, "return")
		if stmt.Value != nil {
			a.expression(depth+1, *stmt.Value)
		}
	default:
		a.printf(depth, "stmt#%d", id)
	}
}

func (a *annotator) expression(depth int, id hir.ExpressionID) {
	if id == hir.ErrorExpressionID {
		a.printf(depth, "<error-expr>")
		return
	}
	ty := a.res.Expressions[id]
	tag := ""
	if _, ok := a.res.Autocopy[id]; ok {
		tag = " [autocopy]"
	}
	a.printf(depth, "expr#%d: %s%s", id, a.prog.Types.TypeName(ty), tag)
}
