package mir

import "github.com/soul-lang/soulc/lang/hir"

// lowerExpr lowers one HIR expression (spec.md §4.5 "Expression shape
// rule"): control-flow-free forms compute a single Rvalue into a fresh
// temp; control-flow-bearing forms (If/While/Call, and Block only via the
// statements they hold) end the current block with a terminator and open a
// fresh block in which the result temp is in scope.
func (l *lowerer) lowerExpr(id hir.ExpressionID) Operand {
	expr, ok := l.hir.Expressions.Get(id)
	if !ok {
		return l.noneOperand()
	}
	ty, ok := l.types.Expressions[id]
	if !ok {
		ty = l.hir.Types.Error()
	}

	switch expr.Kind {
	case hir.ExprLiteral:
		return Operand{Kind: OperandComptime, Type: ty, Literal: expr.Literal}

	case hir.ExprNull:
		return l.lowerNullOptional(ty)

	case hir.ExprLoad:
		place := l.lowerPlace(expr.Place)
		return l.readPlace(place, ty)

	case hir.ExprRef:
		place := l.lowerPlace(&expr.Ref.Place)
		return l.assignTemp(ty, Rvalue{Kind: RvalAddr, AddrOf: place, AddrMut: expr.Ref.Mutable})

	case hir.ExprCall:
		return l.lowerCall(expr.Call, ty)

	case hir.ExprCast:
		val := l.lowerExpr(expr.Cast.Value)
		return l.assignTemp(ty, Rvalue{Kind: RvalCast, Use: val, CastTo: expr.Cast.To})

	case hir.ExprUnary:
		val := l.lowerExpr(expr.Unary.Operand)
		return l.assignTemp(ty, Rvalue{
			Kind:          RvalUnary,
			UnaryIsPrefix: expr.Unary.Prefix,
			UnaryOp:       expr.Unary.UnaryOp,
			PostfixOp:     expr.Unary.PostfixOp,
			Value:         val,
		})

	case hir.ExprBinary:
		left := l.lowerExpr(expr.Binary.Left)
		right := l.lowerExpr(expr.Binary.Right)
		return l.assignTemp(ty, Rvalue{Kind: RvalBinary, BinOp: expr.Binary.Op, Left: left, Right: right})

	case hir.ExprIf:
		return l.lowerIf(expr.If, ty)

	case hir.ExprWhile:
		return l.lowerWhile(expr.While)

	case hir.ExprBlock:
		return l.lowerBlockBody(expr.Block)

	case hir.ExprArray, hir.ExprTuple:
		return l.lowerAggregate(expr.Elems, ty)

	default:
		return l.noneOperand()
	}
}

func (l *lowerer) lowerCall(call *hir.CallExpr, ty hir.TypeID) Operand {
	if call.Callee != nil {
		l.lowerExpr(*call.Callee)
	}
	args := make([]Operand, len(call.Args))
	for i, a := range call.Args {
		args[i] = l.lowerExpr(a)
	}

	ntype, _ := l.hir.Types.Get(ty)
	var retPlace *PlaceID
	var resultTemp TempID
	if ntype.Kind != hir.KindNone {
		resultTemp = l.newTemp(ty)
		p := l.placeOf(Place{Kind: PlaceTemp, Temp: resultTemp})
		retPlace = &p
	}

	next := l.newBlock()
	l.finishBlock(Terminator{
		Kind:            TermCall,
		CallFunction:    call.Function,
		CallArgs:        args,
		CallReturnPlace: retPlace,
		CallNext:        next,
	})
	l.startBlock(next)

	if retPlace == nil {
		return l.noneOperand()
	}
	return Operand{Kind: OperandTemp, Temp: resultTemp, Type: ty}
}

// lowerIf lowers an if/elif/else chain into a diamond of blocks joining on
// a shared result temp (spec.md §4.5's "join-scope temps").
func (l *lowerer) lowerIf(n *hir.If, ty hir.TypeID) Operand {
	resultTemp := l.newTemp(ty)
	resultPlace := l.placeOf(Place{Kind: PlaceTemp, Temp: resultTemp})
	join := l.newBlock()
	l.lowerIfChain(n, resultPlace, join)
	l.startBlock(join)
	return Operand{Kind: OperandTemp, Temp: resultTemp, Type: ty}
}

// lowerIfChain lowers one if/elif/else link, writing its taken arm's value
// into resultPlace and ending every arm with a Goto to join.
func (l *lowerer) lowerIfChain(n *hir.If, resultPlace PlaceID, join BlockID) {
	cond := l.lowerExpr(n.Cond)
	thenBlk := l.newBlock()
	elseBlk := l.newBlock()
	l.finishBlock(Terminator{Kind: TermIf, CondOperand: cond, Then: thenBlk, Else: elseBlk})

	l.startBlock(thenBlk)
	thenVal := l.lowerBlockBody(n.Then)
	l.emitStmt(Statement{Kind: StmtAssign, AssignPlace: resultPlace, AssignValue: Rvalue{Kind: RvalUse, Use: thenVal}})
	l.finishBlock(Terminator{Kind: TermGoto, Goto: join})

	l.startBlock(elseBlk)
	switch {
	case n.Arm != nil && n.Arm.ElseIf != nil:
		l.lowerIfChain(n.Arm.ElseIf, resultPlace, join)
		return
	case n.Arm != nil && n.Arm.Else != nil:
		elseVal := l.lowerBlockBody(*n.Arm.Else)
		l.emitStmt(Statement{Kind: StmtAssign, AssignPlace: resultPlace, AssignValue: Rvalue{Kind: RvalUse, Use: elseVal}})
	default:
		l.emitStmt(Statement{Kind: StmtAssign, AssignPlace: resultPlace, AssignValue: Rvalue{Kind: RvalUse, Use: l.noneOperand()}})
	}
	l.finishBlock(Terminator{Kind: TermGoto, Goto: join})
}

func (l *lowerer) lowerWhile(n *hir.While) Operand {
	head := l.newBlock()
	body := l.newBlock()
	exit := l.newBlock()

	l.finishBlock(Terminator{Kind: TermGoto, Goto: head})
	l.startBlock(head)
	if n.Cond != nil {
		cond := l.lowerExpr(*n.Cond)
		l.finishBlock(Terminator{Kind: TermIf, CondOperand: cond, Then: body, Else: exit})
	} else {
		l.finishBlock(Terminator{Kind: TermGoto, Goto: body})
	}

	l.startBlock(body)
	l.loops = append(l.loops, loopCtx{breakBlock: exit, continueBlock: head})
	l.lowerBlockBody(n.Body)
	l.loops = l.loops[:len(l.loops)-1]
	l.finishBlock(Terminator{Kind: TermGoto, Goto: head})

	l.startBlock(exit)
	return l.noneOperand()
}

// lowerNullOptional builds the `{inner,is_null}` struct value a `null`
// expression desugars into (spec.md §8 scenario 2: "a: ?int = null"'s
// initializer is "a struct expression with inner = 0; is_null = true"). HIR
// keeps `null` as the bare hir.ExprNull placeholder of spec.md §4.3 ("Null
// produces Expression::Null with type Optional(<fresh infer var>)")
// because its type isn't known until inference resolves that fresh
// variable; by the time MIR lowering runs, ty is already the concrete
// TypesMap.Optional struct, so the field values are built here instead.
func (l *lowerer) lowerNullOptional(ty hir.TypeID) Operand {
	st, ok := l.hir.Types.Get(ty)
	if !ok || st.Kind != hir.KindStruct {
		return Operand{Kind: OperandComptime, Type: ty}
	}
	aggTemp := l.newTemp(ty)
	aggPlace := l.placeOf(Place{Kind: PlaceTemp, Temp: aggTemp})
	for _, f := range st.Fields {
		fieldPlace := l.placeOf(Place{Kind: PlaceField, FieldBase: aggPlace, FieldName: f.Name})
		val := l.zeroValueOperand(f.Type)
		if f.Name == "is_null" {
			val = Operand{Kind: OperandComptime, Type: f.Type, Int: 1}
		}
		l.emitStmt(Statement{Kind: StmtAssign, AssignPlace: fieldPlace, AssignValue: Rvalue{Kind: RvalUse, Use: val}})
	}
	return Operand{Kind: OperandTemp, Temp: aggTemp, Type: ty}
}

// zeroValueOperand builds the zero value of ty as a synthesized comptime
// constant. Only the shapes that can appear as an optional's inner type in
// this front end are covered; anything else degrades to an unset comptime
// operand of that type rather than aborting (spec.md §7).
func (l *lowerer) zeroValueOperand(ty hir.TypeID) Operand {
	t, ok := l.hir.Types.Get(ty)
	if !ok {
		return Operand{Kind: OperandComptime, Type: ty}
	}
	switch t.Kind {
	case hir.KindPrimitive, hir.KindPointer:
		return Operand{Kind: OperandComptime, Type: ty, Int: 0}
	default:
		return Operand{Kind: OperandComptime, Type: ty}
	}
}

// lowerAggregate lowers an array/tuple literal to a stack allocation plus
// one index-assignment per element.
func (l *lowerer) lowerAggregate(elems []hir.ExpressionID, ty hir.TypeID) Operand {
	vals := make([]Operand, len(elems))
	for i, e := range elems {
		vals[i] = l.lowerExpr(e)
	}
	uintTy := l.hir.Types.Primitive("uint", 0)
	aggTemp := l.newTemp(ty)
	aggPlace := l.placeOf(Place{Kind: PlaceTemp, Temp: aggTemp})
	l.emitStmt(Statement{
		Kind:        StmtAssign,
		AssignPlace: aggPlace,
		AssignValue: Rvalue{Kind: RvalStackAlloc, AllocType: ty, AllocLen: Operand{Kind: OperandComptime, Type: uintTy, Int: int64(len(elems))}},
	})
	for i, v := range vals {
		idxOperand := Operand{Kind: OperandComptime, Type: uintTy, Int: int64(i)}
		elemPlace := l.placeOf(Place{Kind: PlaceIndex, IndexBase: aggPlace, IndexOp: idxOperand})
		l.emitStmt(Statement{Kind: StmtAssign, AssignPlace: elemPlace, AssignValue: Rvalue{Kind: RvalUse, Use: v}})
	}
	return Operand{Kind: OperandTemp, Temp: aggTemp, Type: ty}
}
