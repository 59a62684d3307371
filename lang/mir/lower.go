package mir

import (
	"github.com/soul-lang/soulc/lang/diag"
	"github.com/soul-lang/soulc/lang/hir"
	"github.com/soul-lang/soulc/lang/ids"
	"github.com/soul-lang/soulc/lang/infer"
)

// loopCtx is the break/continue target pair of the innermost enclosing
// loop, mirroring lang/compiler's fcomp.loops stack.
type loopCtx struct {
	breakBlock, continueBlock BlockID
}

type lowerer struct {
	hir   *hir.Program
	types *infer.Result
	diags *diag.Bag
	tree  *Tree

	blockGen *ids.Generator[BlockID]
	localGen *ids.Generator[LocalID]
	stmtGen  *ids.Generator[StatementID]
	placeGen *ids.Generator[PlaceID]
	tempGen  *ids.Generator[TempID]

	localMap map[hir.LocalID]LocalID

	curFn    *Function
	curBlock BlockID
	curStmts []StatementID

	loops []loopCtx
}

// Lower builds a MIR Tree from prog, using the finalized types computed by
// lang/infer (spec.md §4.5 "Per function: allocate an entry block; walk the
// HIR body producing statements and terminators").
func Lower(prog *hir.Program, types *infer.Result, diags *diag.Bag) *Tree {
	l := &lowerer{
		hir:      prog,
		types:    types,
		diags:    diags,
		tree:     newTree(),
		blockGen: ids.NewGenerator[BlockID](),
		localGen: ids.NewGenerator[LocalID](),
		stmtGen:  ids.NewGenerator[StatementID](),
		placeGen: ids.NewGenerator[PlaceID](),
		tempGen:  ids.NewGenerator[TempID](),
		localMap: make(map[hir.LocalID]LocalID),
	}
	prog.Functions.All(func(id hir.FunctionID, fn hir.Function) bool {
		l.lowerFunction(id, fn)
		return true
	})
	if main, ok := l.tree.findByName("main"); ok {
		l.tree.Main = main
		l.tree.HasMain = true
	}
	return l.tree
}

func (t *Tree) findByName(name string) (hir.FunctionID, bool) {
	for id, fn := range t.Functions {
		if fn.Name == name {
			return id, true
		}
	}
	return 0, false
}

func (l *lowerer) noneType() hir.TypeID { return l.hir.Types.None() }

func (l *lowerer) noneOperand() Operand {
	return Operand{Kind: OperandNone, Type: l.noneType()}
}

// --- block/statement plumbing --------------------------------------------

func (l *lowerer) newBlock() BlockID {
	id := l.blockGen.Alloc()
	l.curFn.Blocks = append(l.curFn.Blocks, id)
	return id
}

func (l *lowerer) startBlock(id BlockID) {
	l.curBlock = id
	l.curStmts = nil
}

func (l *lowerer) finishBlock(term Terminator) {
	l.tree.Blocks.Set(l.curBlock, Block{ID: l.curBlock, Terminator: term, Statements: l.curStmts})
	l.curStmts = nil
}

func (l *lowerer) emitStmt(stmt Statement) StatementID {
	id := l.stmtGen.Alloc()
	l.tree.Statements.Set(id, stmt)
	l.curStmts = append(l.curStmts, id)
	return id
}

func (l *lowerer) newTemp(ty hir.TypeID) TempID {
	id := l.tempGen.Alloc()
	l.tree.Temps.Set(id, ty)
	return id
}

func (l *lowerer) placeOf(p Place) PlaceID {
	id := l.placeGen.Alloc()
	l.tree.Places.Set(id, p)
	return id
}

func (l *lowerer) mapLocal(hid hir.LocalID) LocalID {
	if lid, ok := l.localMap[hid]; ok {
		return lid
	}
	lid := l.localGen.Alloc()
	ty, ok := l.types.Locals[hid]
	if !ok {
		ty = l.hir.Types.Error()
	}
	l.tree.Locals.Set(lid, ty)
	l.localMap[hid] = lid
	l.curFn.Locals = append(l.curFn.Locals, lid)
	return lid
}

// assignTemp emits `place(temp) = rvalue` and returns an Operand reading it.
func (l *lowerer) assignTemp(ty hir.TypeID, rv Rvalue) Operand {
	temp := l.newTemp(ty)
	place := l.placeOf(Place{Kind: PlaceTemp, Temp: temp})
	l.emitStmt(Statement{Kind: StmtAssign, AssignPlace: place, AssignValue: rv})
	return Operand{Kind: OperandTemp, Temp: temp, Type: ty}
}

// --- function lowering -----------------------------------------------------

func (l *lowerer) lowerFunction(id hir.FunctionID, fn hir.Function) {
	retTy, ok := l.types.Functions[id]
	if !ok {
		retTy = l.hir.Types.Error()
	}
	mirFn := &Function{ID: id, Name: fn.Name, ReturnType: retTy}
	l.curFn = mirFn
	l.localMap = make(map[hir.LocalID]LocalID)

	for _, p := range fn.Params {
		lid := l.mapLocal(p.Local)
		mirFn.Parameters = append(mirFn.Parameters, lid)
	}

	entry := l.newBlock()
	l.startBlock(entry)
	result := l.lowerBlockBody(fn.Body)

	nty, _ := l.hir.Types.Get(retTy)
	if nty.Kind == hir.KindNone {
		l.finishBlock(Terminator{Kind: TermReturn})
	} else {
		l.finishBlock(Terminator{Kind: TermReturn, ReturnValue: &result})
	}

	l.tree.Functions[id] = mirFn
}

// lowerBlockBody lowers a HIR block's statements into the current MIR
// block (no new BlockID: a bare `{ }` does not itself branch) and returns
// an Operand for its hoisted tail expression, or the none operand.
func (l *lowerer) lowerBlockBody(bid hir.BlockID) Operand {
	block, ok := l.hir.Blocks.Get(bid)
	if !ok {
		return l.noneOperand()
	}
	for _, sid := range block.Statements {
		l.lowerStatement(sid)
	}
	if block.Terminator != nil {
		return l.lowerExpr(*block.Terminator)
	}
	return l.noneOperand()
}

func (l *lowerer) lowerStatement(sid hir.StatementID) {
	stmt, ok := l.hir.Statements.Get(sid)
	if !ok {
		return
	}
	switch stmt.Kind {
	case hir.StmtVariable:
		lid := l.mapLocal(stmt.Variable.Local)
		if stmt.Variable.Value != hir.ErrorExpressionID {
			val := l.lowerExpr(stmt.Variable.Value)
			place := l.placeOf(Place{Kind: PlaceLocal, Local: lid})
			l.emitStmt(Statement{Kind: StmtAssign, AssignPlace: place, AssignValue: Rvalue{Kind: RvalUse, Use: val}})
		}

	case hir.StmtAssign:
		place := l.lowerPlace(&stmt.Assign.Place)
		val := l.lowerExpr(stmt.Assign.Value)
		l.emitStmt(Statement{Kind: StmtAssign, AssignPlace: place, AssignValue: Rvalue{Kind: RvalUse, Use: val}})

	case hir.StmtExpression:
		val := l.lowerExpr(stmt.Expression.Value)
		l.emitStmt(Statement{Kind: StmtEval, Eval: val})

	case hir.StmtReturn:
		var opnd *Operand
		if stmt.Value != nil {
			v := l.lowerExpr(*stmt.Value)
			opnd = &v
		}
		l.finishBlock(Terminator{Kind: TermReturn, ReturnValue: opnd})
		l.startBlock(l.newBlock())

	case hir.StmtBreak:
		if len(l.loops) > 0 {
			top := l.loops[len(l.loops)-1]
			l.finishBlock(Terminator{Kind: TermGoto, Goto: top.breakBlock})
		} else {
			l.finishBlock(Terminator{Kind: TermUnreachable})
		}
		l.startBlock(l.newBlock())

	case hir.StmtContinue, hir.StmtFall:
		if len(l.loops) > 0 {
			top := l.loops[len(l.loops)-1]
			l.finishBlock(Terminator{Kind: TermGoto, Goto: top.continueBlock})
		} else {
			l.finishBlock(Terminator{Kind: TermUnreachable})
		}
		l.startBlock(l.newBlock())
	}
}

// --- place lowering ----------------------------------------------------------

func (l *lowerer) lowerPlace(p *hir.Place) PlaceID {
	switch p.Kind {
	case hir.PlaceLocal:
		return l.placeOf(Place{Kind: PlaceLocal, Local: l.mapLocal(p.Local)})
	case hir.PlaceDeref:
		base := l.lowerPlace(p.Base)
		baseTy := l.placeType(p.Base)
		return l.placeOf(Place{Kind: PlaceDeref, Deref: Operand{Kind: OperandPlace, Place: base, Type: baseTy}})
	case hir.PlaceIndex:
		base := l.lowerPlace(p.Base)
		idx := l.lowerExpr(p.Index)
		return l.placeOf(Place{Kind: PlaceIndex, IndexBase: base, IndexOp: idx})
	case hir.PlaceField:
		base := l.lowerPlace(p.Base)
		return l.placeOf(Place{Kind: PlaceField, FieldBase: base, FieldName: p.Field})
	}
	return ErrorPlaceID
}

// placeType is a best-effort type lookup used only to annotate an
// intermediate Deref operand; a missing local type degrades to the error
// type rather than aborting lowering (spec.md §7).
func (l *lowerer) placeType(p *hir.Place) hir.TypeID {
	if p.Kind == hir.PlaceLocal {
		if ty, ok := l.types.Locals[p.Local]; ok {
			return ty
		}
	}
	return l.hir.Types.Error()
}

func (l *lowerer) readPlace(pid PlaceID, ty hir.TypeID) Operand {
	return Operand{Kind: OperandPlace, Place: pid, Type: ty}
}
