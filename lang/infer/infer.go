package infer

import (
	"github.com/soul-lang/soulc/lang/ast"
	"github.com/soul-lang/soulc/lang/diag"
	"github.com/soul-lang/soulc/lang/hir"
	"github.com/soul-lang/soulc/lang/token"
)

// Result is the output of a full inference run: a finalized type per HIR
// arena entry, plus the autocopy side table (spec.md §4.4 "Outputs").
type Result struct {
	Locals      map[hir.LocalID]hir.TypeID
	Blocks      map[hir.BlockID]hir.TypeID
	Statements  map[hir.StatementID]hir.TypeID
	Expressions map[hir.ExpressionID]hir.TypeID
	Functions   map[hir.FunctionID]hir.TypeID // return type
	Autocopy    map[hir.ExpressionID]struct{}
}

type inferencer struct {
	prog   *hir.Program
	table  *Table
	diags  *diag.Bag
	exprTy map[hir.ExpressionID]hir.TypeID
	locTy  map[hir.LocalID]hir.TypeID
	blkTy  map[hir.BlockID]hir.TypeID
	stmtTy map[hir.StatementID]hir.TypeID
}

// Infer runs both walks of spec.md §4.4 over prog and returns the finalized
// result. prog's own Locals arena is read for declared types but not
// mutated; declared-but-untyped (`:=`) locals are expected to already carry
// a KindInferVar placeholder, installed by the HIR lowerer.
func Infer(prog *hir.Program, diags *diag.Bag) *Result {
	inf := &inferencer{
		prog:   prog,
		table:  New(prog.Types, diags),
		diags:  diags,
		exprTy: make(map[hir.ExpressionID]hir.TypeID),
		locTy:  make(map[hir.LocalID]hir.TypeID),
		blkTy:  make(map[hir.BlockID]hir.TypeID),
		stmtTy: make(map[hir.StatementID]hir.TypeID),
	}
	prog.Functions.All(func(id hir.FunctionID, fn hir.Function) bool {
		inf.inferFunction(id, fn)
		return true
	})
	return inf.finalize()
}

func (inf *inferencer) declaredLocalType(id hir.LocalID) hir.TypeID {
	if ty, ok := inf.locTy[id]; ok {
		return ty
	}
	ty, ok := inf.prog.Locals.Get(id)
	if !ok {
		ty = inf.prog.Types.Error()
	}
	inf.locTy[id] = ty
	return ty
}

func (inf *inferencer) inferFunction(id hir.FunctionID, fn hir.Function) {
	for _, p := range fn.Params {
		inf.declaredLocalType(p.Local)
	}
	bodyTy := inf.inferBlock(fn.Body)
	// Only a tail expression is checked against the declared return type;
	// a body without one yields its value through `return` statements,
	// whose values are not checked against it.
	if block, ok := inf.prog.Blocks.Get(fn.Body); ok && block.Terminator != nil {
		sp := token.Span{}
		inf.table.UnifyTypeType(fn.ReturnType, bodyTy, sp)
	}
}

func (inf *inferencer) inferBlock(id hir.BlockID) hir.TypeID {
	block, ok := inf.prog.Blocks.Get(id)
	if !ok {
		return inf.prog.Types.Error()
	}
	for _, sid := range block.Statements {
		inf.inferStatement(sid)
	}
	var ty hir.TypeID
	if block.Terminator != nil {
		ty = inf.inferExpr(*block.Terminator)
	} else {
		ty = inf.prog.Types.None()
	}
	inf.blkTy[id] = ty
	return ty
}

func (inf *inferencer) inferStatement(id hir.StatementID) {
	stmt, ok := inf.prog.Statements.Get(id)
	if !ok {
		return
	}
	sp := stmt.Sp
	switch stmt.Kind {
	case hir.StmtVariable:
		v := stmt.Variable
		declared := v.Type
		if v.Value != hir.ErrorExpressionID {
			valTy := inf.inferExpr(v.Value)
			if inf.table.UnifyTypeType(declared, valTy, sp) == UnifyNeedsAutoCopy {
				inf.table.MarkAutocopy(v.Value)
			}
		}
		inf.locTy[v.Local] = declared
		inf.stmtTy[id] = declared

	case hir.StmtAssign:
		a := stmt.Assign
		placeTy := inf.placeType(&a.Place)
		valTy := inf.inferExpr(a.Value)
		if inf.table.UnifyTypeType(placeTy, valTy, sp) == UnifyNeedsAutoCopy {
			inf.table.MarkAutocopy(a.Value)
		}
		inf.stmtTy[id] = inf.prog.Types.None()

	case hir.StmtExpression:
		e := stmt.Expression
		inf.stmtTy[id] = inf.inferExpr(e.Value)

	case hir.StmtReturn, hir.StmtBreak, hir.StmtFall:
		if stmt.Value != nil {
			inf.inferExpr(*stmt.Value)
		}
		inf.stmtTy[id] = inf.prog.Types.None()

	default:
		inf.stmtTy[id] = inf.prog.Types.None()
	}
}

func (inf *inferencer) placeType(p *hir.Place) hir.TypeID {
	switch p.Kind {
	case hir.PlaceLocal:
		return inf.declaredLocalType(p.Local)
	case hir.PlaceDeref:
		baseTy := inf.placeType(p.Base)
		bty, ok := inf.prog.Types.Get(baseTy)
		if !ok || (bty.Kind != hir.KindRef && bty.Kind != hir.KindPointer) {
			return inf.prog.Types.Error()
		}
		return bty.Inner
	case hir.PlaceIndex:
		baseTy := inf.placeType(p.Base)
		inf.inferExpr(p.Index)
		bty, ok := inf.prog.Types.Get(baseTy)
		if !ok || bty.Kind != hir.KindArray {
			return inf.prog.Types.Error()
		}
		return bty.Array.Element
	case hir.PlaceField:
		baseTy := inf.placeType(p.Base)
		bty, ok := inf.prog.Types.Get(baseTy)
		if !ok || bty.Kind != hir.KindStruct {
			return inf.prog.Types.Error()
		}
		for _, f := range bty.Fields {
			if f.Name == p.Field {
				return f.Type
			}
		}
		return inf.prog.Types.Error()
	}
	return inf.prog.Types.Error()
}

// inferExpr computes and caches the type of expr (spec.md §4.4 "Walk 1").
func (inf *inferencer) inferExpr(id hir.ExpressionID) hir.TypeID {
	if ty, ok := inf.exprTy[id]; ok {
		return ty
	}
	expr, ok := inf.prog.Expressions.Get(id)
	if !ok {
		return inf.prog.Types.Error()
	}
	sp := expr.Sp
	var ty hir.TypeID

	switch expr.Kind {
	case hir.ExprLiteral:
		ty = inf.literalType(expr.Literal)

	case hir.ExprNull:
		ty = inf.prog.Types.Optional(inf.table.Fresh(), token.ModNone)

	case hir.ExprLoad:
		ty = inf.placeType(expr.Place)

	case hir.ExprRef:
		placeTy := inf.placeType(&expr.Ref.Place)
		if expr.Ref.Place.Kind == hir.PlaceLocal {
			lty, ok := inf.prog.Types.Get(placeTy)
			if ok && lty.Kind == hir.KindArray && (lty.Array.Kind == hir.ArrayStack || lty.Array.Kind == hir.ArrayHeap) {
				kind := hir.ArrayConstSlice
				if expr.Ref.Mutable {
					kind = hir.ArrayMutSlice
				}
				ty = inf.prog.Types.Array(lty.Array.Element, kind, -1, token.ModNone)
				break
			}
		}
		ty = inf.prog.Types.Ref(placeTy, expr.Ref.Mutable, token.ModNone)

	case hir.ExprCall:
		ty = inf.inferCall(expr.Call, sp)

	case hir.ExprCast:
		inf.inferExpr(expr.Cast.Value)
		ty = expr.Cast.To

	case hir.ExprUnary:
		ty = inf.inferUnary(expr.Unary, sp)

	case hir.ExprBinary:
		ty = inf.inferBinary(expr.Binary, sp)

	case hir.ExprIf:
		ty = inf.inferIf(expr.If, sp)

	case hir.ExprWhile:
		if expr.While.Cond != nil {
			condTy := inf.inferExpr(*expr.While.Cond)
			inf.table.UnifyTypeType(inf.prog.Types.Primitive("bool", token.ModNone), condTy, sp)
		}
		bodyTy := inf.inferBlock(expr.While.Body)
		inf.table.UnifyTypeType(inf.prog.Types.None(), bodyTy, sp)
		ty = inf.prog.Types.None()

	case hir.ExprBlock:
		ty = inf.inferBlock(expr.Block)

	case hir.ExprArray, hir.ExprTuple:
		var elemTy hir.TypeID = inf.table.Fresh()
		for _, e := range expr.Elems {
			et := inf.inferExpr(e)
			inf.table.UnifyTypeType(elemTy, et, sp)
		}
		ty = inf.prog.Types.Array(elemTy, hir.ArrayStack, int64(len(expr.Elems)), token.ModNone)

	default:
		ty = inf.prog.Types.Error()
	}

	inf.exprTy[id] = ty
	return ty
}

func (inf *inferencer) literalType(lit *ast.LiteralExpr) hir.TypeID {
	if lit == nil {
		return inf.prog.Types.Error()
	}
	switch lit.Kind {
	case ast.LitInt:
		return inf.prog.Types.Primitive("untyped_int", token.ModLiteral)
	case ast.LitUint:
		return inf.prog.Types.Primitive("untyped_uint", token.ModLiteral)
	case ast.LitFloat:
		return inf.prog.Types.Primitive("untyped_float", token.ModLiteral)
	case ast.LitBool:
		return inf.prog.Types.Primitive("bool", token.ModNone)
	case ast.LitChar:
		return inf.prog.Types.Primitive("char", token.ModNone)
	case ast.LitStr:
		return inf.prog.Types.Primitive("str", token.ModNone)
	}
	return inf.prog.Types.Error()
}

func (inf *inferencer) inferCall(call *hir.CallExpr, sp token.Span) hir.TypeID {
	if call.Callee != nil {
		inf.inferExpr(*call.Callee)
	}
	argTys := make([]hir.TypeID, len(call.Args))
	for i, a := range call.Args {
		argTys[i] = inf.inferExpr(a)
	}

	fnID, ok := inf.resolveCallOverload(call, argTys, sp)
	if !ok {
		return inf.prog.Types.Error()
	}
	fn, ok := inf.prog.Functions.Get(fnID)
	if !ok {
		return inf.prog.Types.Error()
	}
	for i, p := range fn.Params {
		if i < len(argTys) {
			inf.table.UnifyTypeType(p.Type, argTys[i], sp)
		}
	}
	return fn.ReturnType
}

// resolveCallOverload narrows call's candidate vector to the single
// function whose parameters structurally match argTys (spec.md §4.4
// scenario 6: "given f(int) and f(float), a call f(1.0) picks the float
// overload by matching the argument type against each candidate"). The
// choice is written back into call.Function so later stages (MIR lowering)
// see the resolved callee instead of the HIR lowerer's first-candidate
// placeholder. Zero or more than one match is reported as a fault and the
// call resolves to the error type.
func (inf *inferencer) resolveCallOverload(call *hir.CallExpr, argTys []hir.TypeID, sp token.Span) (hir.FunctionID, bool) {
	if len(call.Candidates) <= 1 {
		if call.Function == hir.ErrorFunctionID {
			return hir.ErrorFunctionID, false
		}
		return call.Function, true
	}

	var matches []hir.FunctionID
	for _, cand := range call.Candidates {
		fn, ok := inf.prog.Functions.Get(cand)
		if !ok || len(fn.Params) != len(argTys) {
			continue
		}
		matched := true
		for i, p := range fn.Params {
			if !inf.table.typesMatch(p.Type, argTys[i]) {
				matched = false
				break
			}
		}
		if matched {
			matches = append(matches, cand)
		}
	}

	switch len(matches) {
	case 1:
		call.Function = matches[0]
		return matches[0], true
	case 0:
		inf.diags.Errorf(diag.UnifyTypeError, &sp, "no overload matches the given argument types")
		return hir.ErrorFunctionID, false
	default:
		inf.diags.Errorf(diag.UnifyTypeError, &sp, "ambiguous overload")
		return hir.ErrorFunctionID, false
	}
}

func (inf *inferencer) inferUnary(u *hir.UnaryExpr, sp token.Span) hir.TypeID {
	operandTy := inf.inferExpr(u.Operand)
	boolTy := inf.prog.Types.Primitive("bool", token.ModNone)
	if u.Prefix && u.UnaryOp == ast.UnaryNot {
		inf.table.UnifyTypeType(boolTy, operandTy, sp)
		return boolTy
	}
	return operandTy
}

func (inf *inferencer) inferBinary(b *hir.BinaryExpr, sp token.Span) hir.TypeID {
	leftTy := inf.inferExpr(b.Left)
	rightTy := inf.inferExpr(b.Right)
	boolTy := inf.prog.Types.Primitive("bool", token.ModNone)

	switch b.Op {
	case ast.BinOrOr, ast.BinAndAnd:
		inf.table.UnifyTypeType(boolTy, leftTy, sp)
		inf.table.UnifyTypeType(boolTy, rightTy, sp)
		return boolTy
	case ast.BinEq, ast.BinNotEq, ast.BinLt, ast.BinLtEq, ast.BinGt, ast.BinGtEq:
		inf.table.UnifyTypeType(leftTy, rightTy, sp)
		return boolTy
	default:
		inf.table.UnifyTypeType(leftTy, rightTy, sp)
		return inf.table.GetPriorityType(leftTy, rightTy)
	}
}

func (inf *inferencer) inferIf(n *hir.If, sp token.Span) hir.TypeID {
	condTy := inf.inferExpr(n.Cond)
	inf.table.UnifyTypeType(inf.prog.Types.Primitive("bool", token.ModNone), condTy, sp)

	thenTy := inf.inferBlock(n.Then)
	elseTy := inf.prog.Types.None()
	if n.Arm != nil {
		switch {
		case n.Arm.ElseIf != nil:
			elseTy = inf.inferIf(n.Arm.ElseIf, sp)
		case n.Arm.Else != nil:
			elseTy = inf.inferBlock(*n.Arm.Else)
		}
	}
	inf.table.UnifyTypeType(thenTy, elseTy, sp)
	return thenTy
}
