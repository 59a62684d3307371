package mir

import (
	"fmt"
	"io"
	"strings"

	"github.com/soul-lang/soulc/lang/hir"
)

// Printer renders a Tree as a tree-indented textual dump, the MIR-level
// instance of the display(DisplayKind) utility required by spec.md §6: one
// function per top-level entry, one block per CFG node, each statement and
// terminator on its own line.
type Printer struct {
	Types *hir.TypesMap // optional; when set, operand/place types are named instead of printed as raw ids
}

// Fprint writes tree's dump to w.
func (p Printer) Fprint(w io.Writer, tree *Tree) error {
	pw := &printWriter{w: w, tree: tree, types: p.Types}
	for id, fn := range tree.Functions {
		pw.function(id, fn)
	}
	return pw.err
}

// Sprint is a convenience wrapper returning the dump as a string.
func (p Printer) Sprint(tree *Tree) string {
	var b strings.Builder
	_ = p.Fprint(&b, tree)
	return b.String()
}

type printWriter struct {
	w     io.Writer
	tree  *Tree
	types *hir.TypesMap
	err   error
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

func (pw *printWriter) typeName(id hir.TypeID) string {
	if pw.types == nil {
		return fmt.Sprintf("ty#%d", id)
	}
	return pw.types.TypeName(id)
}

func (pw *printWriter) function(id hir.FunctionID, fn *Function) {
	main := ""
	if pw.tree.HasMain && pw.tree.Main == id {
		main = " (main)"
	}
	pw.printf(0, "fn#%d %s -> %s%s", id, fn.Name, pw.typeName(fn.ReturnType), main)
	for _, l := range fn.Locals {
		pw.printf(1, "local#%d: %s", l, pw.typeName(pw.localType(l)))
	}
	for _, bid := range fn.Blocks {
		pw.block(1, bid)
	}
}

func (pw *printWriter) localType(id LocalID) hir.TypeID {
	ty, _ := pw.tree.Locals.Get(id)
	return ty
}

func (pw *printWriter) block(depth int, id BlockID) {
	blk, ok := pw.tree.Blocks.Get(id)
	if !ok {
		pw.printf(depth, "block#%d <missing>", id)
		return
	}
	pw.printf(depth, "block#%d", id)
	for _, sid := range blk.Statements {
		pw.statement(depth+1, sid)
	}
	pw.terminator(depth+1, blk.Terminator)
}

func (pw *printWriter) statement(depth int, id StatementID) {
	stmt, ok := pw.tree.Statements.Get(id)
	if !ok {
		pw.printf(depth, "stmt#%d <missing>", id)
		return
	}
	switch stmt.Kind {
	case StmtEval:
		pw.printf(depth, "eval %s", pw.operand(stmt.Eval))
	case StmtAssign:
		pw.printf(depth, "%s = %s", pw.place(stmt.AssignPlace), pw.rvalue(stmt.AssignValue))
	case StmtStorageStart:
		pw.printf(depth, "storage-start %v", stmt.StorageLocals)
	case StmtStorageDead:
		pw.printf(depth, "storage-dead local#%d", stmt.StorageLocal)
	default:
		pw.printf(depth, "<error-stmt#%d>", id)
	}
}

func (pw *printWriter) terminator(depth int, t Terminator) {
	switch t.Kind {
	case TermReturn:
		if t.ReturnValue == nil {
			pw.printf(depth, "return")
		} else {
			pw.printf(depth, "return %s", pw.operand(*t.ReturnValue))
		}
	case TermGoto:
		pw.printf(depth, "goto block#%d", t.Goto)
	case TermIf:
		pw.printf(depth, "if %s then block#%d else block#%d", pw.operand(t.CondOperand), t.Then, t.Else)
	case TermCall:
		ret := "none"
		if t.CallReturnPlace != nil {
			ret = pw.place(*t.CallReturnPlace)
		}
		pw.printf(depth, "call fn#%d %s -> %s, next block#%d", t.CallFunction, pw.operands(t.CallArgs), ret, t.CallNext)
	case TermUnreachable:
		pw.printf(depth, "unreachable")
	default:
		pw.printf(depth, "<error-terminator>")
	}
}

func (pw *printWriter) operands(ops []Operand) string {
	parts := make([]string, len(ops))
	for i, o := range ops {
		parts[i] = pw.operand(o)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (pw *printWriter) operand(o Operand) string {
	switch o.Kind {
	case OperandTemp:
		return fmt.Sprintf("temp#%d", o.Temp)
	case OperandLocal:
		return fmt.Sprintf("local#%d", o.Local)
	case OperandPlace:
		return pw.place(o.Place)
	case OperandComptime:
		if o.Literal != nil {
			return o.Literal.Raw
		}
		return fmt.Sprintf("%d", o.Int)
	case OperandNone:
		return "none"
	default:
		return "<error-operand>"
	}
}

func (pw *printWriter) place(id PlaceID) string {
	pl, ok := pw.tree.Places.Get(id)
	if !ok {
		return fmt.Sprintf("place#%d<missing>", id)
	}
	switch pl.Kind {
	case PlaceTemp:
		return fmt.Sprintf("temp#%d", pl.Temp)
	case PlaceDeref:
		return fmt.Sprintf("*(%s)", pw.operand(pl.Deref))
	case PlaceLocal:
		return fmt.Sprintf("local#%d", pl.Local)
	case PlaceIndex:
		return fmt.Sprintf("%s[%s]", pw.place(pl.IndexBase), pw.operand(pl.IndexOp))
	case PlaceField:
		return fmt.Sprintf("%s.%s", pw.place(pl.FieldBase), pl.FieldName)
	default:
		return "<error-place>"
	}
}

func (pw *printWriter) rvalue(r Rvalue) string {
	switch r.Kind {
	case RvalUse:
		return pw.operand(r.Use)
	case RvalBinary:
		return fmt.Sprintf("%s %v %s", pw.operand(r.Left), r.BinOp, pw.operand(r.Right))
	case RvalUnary:
		if r.UnaryIsPrefix {
			return fmt.Sprintf("prefix%v %s", r.UnaryOp, pw.operand(r.Value))
		}
		return fmt.Sprintf("%s postfix%v", pw.operand(r.Value), r.PostfixOp)
	case RvalCast:
		return fmt.Sprintf("cast -> %s", pw.typeName(r.CastTo))
	case RvalAddr:
		if r.AddrMut {
			return fmt.Sprintf("&%s", pw.place(r.AddrOf))
		}
		return fmt.Sprintf("@%s", pw.place(r.AddrOf))
	case RvalStackAlloc:
		return fmt.Sprintf("alloc %s[%s]", pw.typeName(r.AllocType), pw.operand(r.AllocLen))
	default:
		return "<error-rvalue>"
	}
}
