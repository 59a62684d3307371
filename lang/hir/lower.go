package hir

import (
	"github.com/soul-lang/soulc/lang/ast"
	"github.com/soul-lang/soulc/lang/diag"
	"github.com/soul-lang/soulc/lang/ids"
	"github.com/soul-lang/soulc/lang/token"
)

// lowerer holds the mutable state of a single lowering pass: the arenas
// being built, one id generator per arena (spec.md §4.3 "allocates HIR ids
// from the same generator" — here, one generator per kind, matching the
// per-kind arenas), and the name tables that let expression lowering turn
// a resolved ast.NodeID back into the HIR local/function that declared it.
type lowerer struct {
	diags *diag.Bag
	prog  *Program

	exprGen  *ids.Generator[ExpressionID]
	stmtGen  *ids.Generator[StatementID]
	blockGen *ids.Generator[BlockID]
	localGen *ids.Generator[LocalID]
	fnGen    *ids.Generator[FunctionID]

	locals     map[ast.NodeID]LocalID
	functions  map[ast.NodeID]FunctionID
	paramNames map[string]LocalID

	// blockStack holds, for each block currently being lowered, a pointer to
	// its accumulating statement slice, so Ref lowering can splice in the
	// synthesized temp-variable statement it is allowed to insert
	// (spec.md §4.3 "the only place the HIR lowerer may insert additional
	// statements").
	blockStack []*[]StatementID
}

// Lower runs the HIR lowering stage over a name-resolved file, producing a
// Program. Like every other stage, it never aborts: a construct it cannot
// lower is replaced with an error sentinel and a diagnostic is logged.
func Lower(f *ast.File, diags *diag.Bag) *Program {
	l := &lowerer{
		diags:     diags,
		prog:      newProgram(),
		exprGen:   ids.NewGenerator[ExpressionID](),
		stmtGen:   ids.NewGenerator[StatementID](),
		blockGen:  ids.NewGenerator[BlockID](),
		localGen:  ids.NewGenerator[LocalID](),
		fnGen:     ids.NewGenerator[FunctionID](),
		locals:    make(map[ast.NodeID]LocalID),
		functions: make(map[ast.NodeID]FunctionID),
	}
	for _, s := range f.Statements {
		l.lowerTopLevel(s)
	}
	return l.prog
}

func (l *lowerer) errorf(sp ast.Node, kind diag.Kind, format string, args ...any) {
	span := sp.Span()
	l.diags.Errorf(kind, &span, format, args...)
}

func (l *lowerer) lowerTopLevel(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.FunctionDecl:
		l.lowerFunction(n)
	case *ast.VariableDecl:
		l.lowerGlobalVariable(n)
	case *ast.NominalDecl:
		// Nominal bodies are not lowered into HIR struct layouts (the AST's
		// own documented decision); the collect pass already gave it a
		// NodeID so type references to it still resolve via KindNamed.
	case *ast.UseStmt, *ast.ImportStmt:
		// Module loading is out of scope; nothing to lower.
	default:
		l.errorf(s, diag.InvalidContext, "statement is not valid at file scope")
	}
}

func (l *lowerer) lowerGlobalVariable(n *ast.VariableDecl) {
	// Top-level variables share the same local-id space as function-local
	// ones; a global's LocalID is recorded the same way so expressions that
	// reference it by resolved NodeId still find it. The initializer's
	// value is lowered for its side effect on the arenas (and any faults it
	// raises) but, with no enclosing block, there is nowhere to file the
	// resulting VariableStatement — a follow-on global-init table is left
	// for the stage that actually drives program startup.
	local := l.localGen.Alloc()
	ty := l.typeOrInferVar(n.Type)
	l.prog.Locals.Set(local, ty)
	if n.Resolved != nil {
		l.locals[*n.Resolved] = local
	}
	if n.Init != nil {
		l.lowerExpr(n.Init)
	}
}

func (l *lowerer) typeOrInferVar(ty *ast.Type) TypeID {
	if ty == nil {
		return l.prog.Types.NewInferVar()
	}
	return l.lowerType(ty)
}

// --- functions -------------------------------------------------------------

func (l *lowerer) lowerFunction(n *ast.FunctionDecl) FunctionID {
	id := l.fnGen.Alloc()
	if n.Resolved != nil {
		l.functions[*n.Resolved] = id
	}

	params := make([]Param, 0, len(n.Params))
	for _, p := range n.Params {
		local := l.localGen.Alloc()
		ty := l.lowerType(p.Type)
		l.prog.Locals.Set(local, ty)
		params = append(params, Param{Local: local, Type: ty})
		// Parameters are addressed by name within the body: the resolver
		// gives each parameter a fresh id that ast.Param does not store, so
		// that id cannot be mapped in l.locals; bind by name in a
		// function-local shadow table instead.
		l.bindParamName(p.Name, local)
	}

	retTy := l.prog.Types.None()
	if n.ReturnType != nil {
		retTy = l.lowerType(n.ReturnType)
	}

	body := l.lowerBlock(n.Body)
	l.clearParamNames()

	fn := Function{Name: n.Name, NodeID: idOrError(n.Resolved), Params: params, ReturnType: retTy, Body: body}
	l.prog.Functions.Set(id, fn)
	return id
}

func idOrError(id *ast.NodeID) ast.NodeID {
	if id == nil {
		return ast.ErrorNodeID
	}
	return *id
}

// paramNames is a tiny per-function overlay so a parameter's IdentExpr uses
// resolve even though ast.Param carries no NodeID of its own: the resolver
// binds a fresh id for each parameter into the function's child scope (see
// lang/resolver), but that id is never recorded in l.locals, so lookupLocal
// falls back to this name-keyed map when an IdentExpr's Resolved id is not
// a known local.
func (l *lowerer) bindParamName(name string, local LocalID) {
	if l.paramNames == nil {
		l.paramNames = make(map[string]LocalID)
	}
	l.paramNames[name] = local
}

func (l *lowerer) clearParamNames() { l.paramNames = nil }

// --- blocks and statements ---------------------------------------------------

// lowerBlock lowers a brace-delimited sequence, applying the block
// terminator rule: the last ExprStmt with EndsSemicolon==false (if any) is
// hoisted out of Statements and into Terminator (spec.md §4.3).
func (l *lowerer) lowerBlock(b *ast.Block) BlockID {
	id := l.blockGen.Alloc()
	var stmts []StatementID
	l.blockStack = append(l.blockStack, &stmts)

	var terminator *ExpressionID
	for i, s := range b.Stmts {
		exprStmt, isExpr := s.(*ast.ExprStmt)
		isLast := i == len(b.Stmts)-1
		if isExpr && !exprStmt.EndsSemicolon {
			if !isLast {
				l.errorf(s, diag.InvalidExpression, "only the last statement in a block may omit the trailing ';'")
			} else {
				exprID := l.lowerExpr(exprStmt.Value)
				terminator = &exprID
				continue
			}
		}
		sid := l.lowerStatement(s)
		if sid != ErrorStatementID {
			stmts = append(stmts, sid)
		}
	}

	l.blockStack = l.blockStack[:len(l.blockStack)-1]
	l.prog.Blocks.Set(id, Block{Statements: stmts, Terminator: terminator})
	return id
}

// pushStmt appends to the statement list of the block currently being
// lowered; used only by Ref lowering's temp-variable insertion.
func (l *lowerer) pushStmt(sid StatementID) {
	if len(l.blockStack) == 0 {
		return
	}
	top := l.blockStack[len(l.blockStack)-1]
	*top = append(*top, sid)
}

func (l *lowerer) newStatement(st Statement) StatementID {
	id := l.stmtGen.Alloc()
	l.prog.Statements.Set(id, st)
	return id
}

func (l *lowerer) lowerStatement(s ast.Stmt) StatementID {
	switch n := s.(type) {
	case *ast.VariableDecl:
		local := l.localGen.Alloc()
		ty := l.typeOrInferVar(n.Type)
		l.prog.Locals.Set(local, ty)
		if n.Resolved != nil {
			l.locals[*n.Resolved] = local
		}
		value := ErrorExpressionID
		if n.Init != nil {
			value = l.lowerExpr(n.Init)
		}
		return l.newStatement(Statement{Kind: StmtVariable, Variable: &VariableStatement{Local: local, Type: ty, Value: value}, Sp: n.Sp})

	case *ast.AssignStmt:
		place := l.lowerPlace(n.Target)
		value := l.lowerExpr(n.Value)
		return l.newStatement(Statement{Kind: StmtAssign, Assign: &AssignStatement{Place: place, Value: value}, Sp: n.Sp})

	case *ast.CompoundAssignStmt:
		place := l.lowerPlace(n.Target)
		lhs := l.exprFromPlace(place, n.Sp)
		rhs := l.lowerExpr(n.Value)
		binOp := compoundToBinary[n.Op]
		binID := l.newExpr(Expression{Kind: ExprBinary, Binary: &BinaryExpr{Op: binOp, Left: lhs, Right: rhs}, Sp: n.Sp})
		return l.newStatement(Statement{Kind: StmtAssign, Assign: &AssignStatement{Place: place, Value: binID}, Sp: n.Sp})

	case *ast.ExprStmt:
		value := l.lowerExpr(n.Value)
		return l.newStatement(Statement{Kind: StmtExpression, Expression: &ExpressionStatement{Value: value, EndsSemicolon: n.EndsSemicolon}, Sp: n.Sp})

	case *ast.ReturnStmt:
		return l.lowerControlTransfer(StmtReturn, n.Value, n.Sp)
	case *ast.BreakStmt:
		return l.lowerControlTransfer(StmtBreak, n.Value, n.Sp)
	case *ast.FallStmt:
		return l.lowerControlTransfer(StmtFall, n.Value, n.Sp)
	case *ast.ContinueStmt:
		return l.newStatement(Statement{Kind: StmtContinue, Sp: n.Sp})

	case *ast.IfStmt:
		ifExpr := l.lowerIf(n.If)
		id := l.newExpr(Expression{Kind: ExprIf, If: ifExpr, Sp: n.Sp})
		return l.newStatement(Statement{Kind: StmtExpression, Expression: &ExpressionStatement{Value: id, EndsSemicolon: true}, Sp: n.Sp})

	case *ast.WhileStmt:
		whileExpr := l.lowerWhile(n.While)
		id := l.newExpr(Expression{Kind: ExprWhile, While: whileExpr, Sp: n.Sp})
		return l.newStatement(Statement{Kind: StmtExpression, Expression: &ExpressionStatement{Value: id, EndsSemicolon: true}, Sp: n.Sp})

	case *ast.BlockStmt:
		bid := l.lowerBlock(n.Body)
		id := l.newExpr(Expression{Kind: ExprBlock, Block: bid, Sp: n.Sp})
		return l.newStatement(Statement{Kind: StmtExpression, Expression: &ExpressionStatement{Value: id, EndsSemicolon: true}, Sp: n.Sp})

	case *ast.ForStmt:
		return l.lowerForStmt(n)

	case *ast.FunctionDecl:
		l.lowerFunction(n)
		return ErrorStatementID // a nested function is an item, not a value-producing statement

	case *ast.NominalDecl, *ast.UseStmt, *ast.ImportStmt:
		return ErrorStatementID

	default:
		l.errorf(s, diag.InvalidContext, "statement cannot be lowered")
		return ErrorStatementID
	}
}

func (l *lowerer) lowerControlTransfer(kind StatementKind, value ast.Expr, sp token.Span) StatementID {
	var v *ExpressionID
	if value != nil {
		id := l.lowerExpr(value)
		v = &id
	}
	return l.newStatement(Statement{Kind: kind, Value: v, Sp: sp})
}

var compoundToBinary = map[ast.CompoundAssignOp]ast.BinaryOp{
	ast.CompoundAdd: ast.BinAdd, ast.CompoundSub: ast.BinSub,
	ast.CompoundMul: ast.BinMul, ast.CompoundDiv: ast.BinDiv, ast.CompoundMod: ast.BinMod,
}

// exprFromPlace synthesizes a Load expression over an already-lowered
// Place, used by compound-assignment desugaring (`target += v` becomes
// `target = target + v`, spec.md §2).
func (l *lowerer) exprFromPlace(p Place, sp token.Span) ExpressionID {
	return l.newExpr(Expression{Kind: ExprLoad, Place: &p, Sp: sp})
}

func (l *lowerer) newExpr(e Expression) ExpressionID {
	id := l.exprGen.Alloc()
	l.prog.Expressions.Set(id, e)
	return id
}

// --- the Soul `for` desugaring ----------------------------------------------

// lowerForStmt desugars `for pat in collection { body }` into an iterator
// local plus a while loop, per spec.md §4.3: "produce a while with
// next-element extraction... HIR emits a while with a Call to the iterator
// method". The loop condition is a call on the iterator local, and the
// pattern local is initialized from a second call on it; both calls carry
// Function ErrorFunctionID and no method name, since no iterator method is
// looked up.
func (l *lowerer) lowerForStmt(n *ast.ForStmt) StatementID {
	iterLocal := l.localGen.Alloc()
	iterTy := l.prog.Types.NewInferVar()
	l.prog.Locals.Set(iterLocal, iterTy)
	iterInit := l.lowerExpr(n.Collection)
	iterStmt := l.newStatement(Statement{Kind: StmtVariable, Variable: &VariableStatement{Local: iterLocal, Type: iterTy, Value: iterInit}, Sp: n.Sp})

	patternLocal := l.localGen.Alloc()
	patternTy := l.prog.Types.NewInferVar()
	l.prog.Locals.Set(patternLocal, patternTy)
	if n.Resolved != nil {
		l.locals[*n.Resolved] = patternLocal
	}

	iterLoad := l.newExpr(Expression{Kind: ExprLoad, Place: &Place{Kind: PlaceLocal, Local: iterLocal}, Sp: n.Sp})
	condID := l.newExpr(Expression{Kind: ExprCall, Call: &CallExpr{Function: ErrorFunctionID, Callee: &iterLoad}, Sp: n.Sp})

	nextLoad := l.newExpr(Expression{Kind: ExprLoad, Place: &Place{Kind: PlaceLocal, Local: iterLocal}, Sp: n.Sp})
	nextCall := l.newExpr(Expression{Kind: ExprCall, Call: &CallExpr{Function: ErrorFunctionID, Callee: &nextLoad}, Sp: n.Sp})
	bindStmt := l.newStatement(Statement{Kind: StmtVariable, Variable: &VariableStatement{Local: patternLocal, Type: patternTy, Value: nextCall}, Sp: n.Sp})

	var bodyStmts []StatementID
	bodyStmts = append(bodyStmts, bindStmt)
	l.blockStack = append(l.blockStack, &bodyStmts)
	for _, s := range n.Body.Stmts {
		sid := l.lowerStatement(s)
		if sid != ErrorStatementID {
			bodyStmts = append(bodyStmts, sid)
		}
	}
	l.blockStack = l.blockStack[:len(l.blockStack)-1]
	bodyBlockID := l.blockGen.Alloc()
	l.prog.Blocks.Set(bodyBlockID, Block{Statements: bodyStmts})

	whileExprID := l.newExpr(Expression{Kind: ExprWhile, While: &While{Cond: &condID, Body: bodyBlockID}, Sp: n.Sp})
	whileStmt := l.newStatement(Statement{Kind: StmtExpression, Expression: &ExpressionStatement{Value: whileExprID, EndsSemicolon: true}, Sp: n.Sp})

	l.pushStmt(iterStmt)
	return whileStmt
}

// --- expressions -------------------------------------------------------------

func (l *lowerer) lookupLocal(n *ast.IdentExpr) LocalID {
	if n.Resolved == nil {
		return ErrorLocalID
	}
	if local, ok := l.locals[*n.Resolved]; ok {
		return local
	}
	if l.paramNames != nil {
		if local, ok := l.paramNames[n.Name]; ok {
			return local
		}
	}
	l.diags.Internal(spanPtr(n.Sp), "identifier %q resolved but has no HIR local", n.Name)
	return ErrorLocalID
}

func spanPtr(sp token.Span) *token.Span { return &sp }

func (l *lowerer) lowerExpr(e ast.Expr) ExpressionID {
	switch n := e.(type) {
	case nil:
		return ErrorExpressionID
	case *ast.ErrorExpr:
		return ErrorExpressionID
	case *ast.LiteralExpr:
		return l.newExpr(Expression{Kind: ExprLiteral, Literal: n, Sp: n.Sp})
	case *ast.NullExpr:
		return l.newExpr(Expression{Kind: ExprNull, Sp: n.Sp})
	case *ast.IdentExpr:
		p := Place{Kind: PlaceLocal, Local: l.lookupLocal(n)}
		return l.newExpr(Expression{Kind: ExprLoad, Place: &p, Sp: n.Sp})
	case *ast.UnaryExpr:
		return l.lowerUnary(n)
	case *ast.PostfixExpr:
		operand := l.lowerExpr(n.Operand)
		return l.newExpr(Expression{Kind: ExprUnary, Unary: &UnaryExpr{Prefix: false, PostfixOp: n.Op, Operand: operand}, Sp: n.Sp})
	case *ast.BinaryExpr:
		left := l.lowerExpr(n.Left)
		right := l.lowerExpr(n.Right)
		return l.newExpr(Expression{Kind: ExprBinary, Binary: &BinaryExpr{Op: n.Op, Left: left, Right: right}, Sp: n.Sp})
	case *ast.IndexExpr, *ast.FieldExpr:
		p := l.lowerPlace(n)
		return l.newExpr(Expression{Kind: ExprLoad, Place: &p, Sp: e.Span()})
	case *ast.CallExpr:
		return l.lowerCall(n)
	case *ast.AsExpr:
		value := l.lowerExpr(n.Value)
		to := l.lowerType(n.CastTo)
		return l.newExpr(Expression{Kind: ExprCast, Cast: &CastExpr{Value: value, To: to}, Sp: n.Sp})
	case *ast.IfExpr:
		return l.newExpr(Expression{Kind: ExprIf, If: l.lowerIf(n), Sp: n.Sp})
	case *ast.WhileExpr:
		return l.newExpr(Expression{Kind: ExprWhile, While: l.lowerWhile(n), Sp: n.Sp})
	case *ast.BlockExpr:
		return l.newExpr(Expression{Kind: ExprBlock, Block: l.lowerBlock(n.Body), Sp: n.Sp})
	case *ast.ArrayExpr:
		elems := make([]ExpressionID, len(n.Elems))
		for i, el := range n.Elems {
			elems[i] = l.lowerExpr(el)
		}
		return l.newExpr(Expression{Kind: ExprArray, Elems: elems, Sp: n.Sp})
	case *ast.TupleExpr:
		elems := make([]ExpressionID, len(n.Elems))
		for i, el := range n.Elems {
			elems[i] = l.lowerExpr(el)
		}
		return l.newExpr(Expression{Kind: ExprTuple, Elems: elems, Sp: n.Sp})
	case *ast.MatchExpr:
		l.errorf(n, diag.InvalidContext, "match expressions are not yet lowered")
		return ErrorExpressionID
	default:
		l.errorf(e, diag.InvalidContext, "expression cannot be lowered")
		return ErrorExpressionID
	}
}

func (l *lowerer) lowerUnary(n *ast.UnaryExpr) ExpressionID {
	switch n.Op {
	case ast.UnaryMutRef:
		return l.lowerRef(true, n.Operand, n.Sp)
	case ast.UnaryConstRef:
		return l.lowerRef(false, n.Operand, n.Sp)
	case ast.UnaryDeref:
		inner := l.lowerPlace(n.Operand)
		p := Place{Kind: PlaceDeref, Base: &inner}
		return l.newExpr(Expression{Kind: ExprLoad, Place: &p, Sp: n.Sp})
	default:
		operand := l.lowerExpr(n.Operand)
		return l.newExpr(Expression{Kind: ExprUnary, Unary: &UnaryExpr{Prefix: true, UnaryOp: n.Op, Operand: operand}, Sp: n.Sp})
	}
}

// lowerRef implements spec.md §4.3's Ref rule: a bare variable is
// referenced directly; anything else is hoisted into a fresh temp local
// first, the only case where HIR lowering inserts a statement that was not
// already present in the source.
func (l *lowerer) lowerRef(mutable bool, operand ast.Expr, sp token.Span) ExpressionID {
	if ident, ok := operand.(*ast.IdentExpr); ok {
		p := Place{Kind: PlaceLocal, Local: l.lookupLocal(ident)}
		return l.newExpr(Expression{Kind: ExprRef, Ref: &RefExpr{Mutable: mutable, Place: p}, Sp: sp})
	}

	temp := l.localGen.Alloc()
	ty := l.prog.Types.NewInferVar()
	l.prog.Locals.Set(temp, ty)
	value := l.lowerExpr(operand)
	stmt := l.newStatement(Statement{Kind: StmtVariable, Variable: &VariableStatement{Local: temp, Type: ty, Value: value}, Sp: sp})
	l.pushStmt(stmt)

	p := Place{Kind: PlaceLocal, Local: temp}
	return l.newExpr(Expression{Kind: ExprRef, Ref: &RefExpr{Mutable: mutable, Place: p}, Sp: sp})
}

func (l *lowerer) lowerCall(n *ast.CallExpr) ExpressionID {
	var callee *ExpressionID
	if n.Callee != nil {
		id := l.lowerExpr(n.Callee)
		callee = &id
	}
	args := make([]ExpressionID, len(n.Args))
	for i, a := range n.Args {
		args[i] = l.lowerExpr(a)
	}

	var candidates []FunctionID
	for _, c := range n.Candidates {
		if resolved, ok := l.functions[c]; ok {
			candidates = append(candidates, resolved)
		}
	}

	fn := ErrorFunctionID
	if len(candidates) > 0 {
		// The single-candidate case, by far the common one, is resolved
		// here directly. A genuine overload set is only narrowed by
		// argument type during type inference (spec.md §4.4 scenario 6),
		// which rewrites Function once it has argument types to unify
		// against; Candidates carries the full set through to there.
		fn = candidates[0]
	}
	return l.newExpr(Expression{Kind: ExprCall, Call: &CallExpr{Function: fn, Candidates: candidates, Callee: callee, Args: args}, Sp: n.Sp})
}

func (l *lowerer) lowerIf(n *ast.IfExpr) *If {
	cond := l.lowerExpr(n.Cond)
	then := l.lowerBlock(n.Then)
	var arm *IfArm
	if n.Arm != nil {
		switch {
		case n.Arm.ElseIf != nil:
			arm = &IfArm{ElseIf: l.lowerIf(n.Arm.ElseIf)}
		case n.Arm.Else != nil:
			b := l.lowerBlock(n.Arm.Else)
			arm = &IfArm{Else: &b}
		}
	}
	return &If{Cond: cond, Then: then, Arm: arm}
}

func (l *lowerer) lowerWhile(n *ast.WhileExpr) *While {
	var cond *ExpressionID
	if n.Cond != nil {
		id := l.lowerExpr(n.Cond)
		cond = &id
	}
	body := l.lowerBlock(n.Body)
	return &While{Cond: cond, Body: body}
}

// lowerPlace re-parses an expression into an lvalue, matching spec.md
// §4.3's restriction to Local/Deref/Index/Field shapes.
func (l *lowerer) lowerPlace(e ast.Expr) Place {
	switch n := e.(type) {
	case *ast.IdentExpr:
		return Place{Kind: PlaceLocal, Local: l.lookupLocal(n)}
	case *ast.UnaryExpr:
		if n.Op == ast.UnaryDeref {
			inner := l.lowerPlace(n.Operand)
			return Place{Kind: PlaceDeref, Base: &inner}
		}
	case *ast.IndexExpr:
		base := l.lowerPlace(n.Base)
		idx := l.lowerExpr(n.Index)
		return Place{Kind: PlaceIndex, Base: &base, Index: idx}
	case *ast.FieldExpr:
		base := l.lowerPlace(n.Base)
		return Place{Kind: PlaceField, Base: &base, Field: n.Name}
	}
	l.errorf(e, diag.PlaceTypeError, "expression is not a valid assignment target")
	return Place{Kind: PlaceLocal, Local: ErrorLocalID}
}

// --- types -------------------------------------------------------------------

// lowerType interns ty's full wrapper sequence outside-in (ast.Type docs:
// "the outermost wrapper is... wrapping... the base"), which means walking
// Wrappers back-to-front so the base is wrapped first.
func (l *lowerer) lowerType(ty *ast.Type) TypeID {
	if ty == nil {
		return l.prog.Types.None()
	}
	cur := l.lowerTypeBase(ty.Base, ty.Modifier)
	for i := len(ty.Wrappers) - 1; i >= 0; i-- {
		w := ty.Wrappers[i]
		switch w.Kind {
		case ast.WrapPointer:
			cur = l.prog.Types.Pointer(cur, ty.Modifier)
		case ast.WrapMutRef:
			cur = l.prog.Types.Ref(cur, true, ty.Modifier)
		case ast.WrapConstRef:
			cur = l.prog.Types.Ref(cur, false, ty.Modifier)
		case ast.WrapOptional:
			cur = l.prog.Types.Optional(cur, ty.Modifier)
		case ast.WrapHeapArray:
			cur = l.prog.Types.Dynamic(cur, ty.Modifier)
		case ast.WrapStackArray:
			length := l.constArrayLen(w.Len)
			cur = l.prog.Types.Array(cur, ArrayStack, length, ty.Modifier)
		}
	}
	return cur
}

// constArrayLen best-effort evaluates a stack array's length expression. A
// non-literal length (a generic expression parameter) is left as -1,
// unresolved until type inference can substitute it.
func (l *lowerer) constArrayLen(e ast.Expr) int64 {
	if lit, ok := e.(*ast.LiteralExpr); ok && lit.Kind == ast.LitInt {
		return lit.Int
	}
	return -1
}

func (l *lowerer) lowerTypeBase(base ast.TypeBase, mod token.TypeModifier) TypeID {
	switch b := base.(type) {
	case ast.NoneType:
		return l.prog.Types.None()
	case ast.PrimitiveType:
		return l.prog.Types.Primitive(b.Name, mod)
	case ast.TupleType:
		fields := make([]StructField, len(b.Elems))
		for i, elem := range b.Elems {
			fields[i] = StructField{Name: tuplePositionalName(i), Type: l.lowerType(elem)}
		}
		return l.prog.Types.Struct("", fields, mod)
	case ast.NamedTupleType:
		fields := make([]StructField, len(b.Fields))
		for i, f := range b.Fields {
			fields[i] = StructField{Name: f.Name, Type: l.lowerType(f.Type)}
		}
		return l.prog.Types.Struct("", fields, mod)
	case *ast.StubType:
		if b.ResolvedAs != nil {
			return l.prog.Types.Named(b.Name, b.ResolvedAs.ID, mod)
		}
		return l.prog.Types.Error()
	default:
		return l.prog.Types.Error()
	}
}

func tuplePositionalName(i int) string {
	const digits = "0123456789"
	if i < 10 {
		return "_" + string(digits[i])
	}
	// Tuples this wide are not realistic in practice; fall back to a decimal
	// encoding rather than truncate.
	var buf []byte
	for i > 0 {
		buf = append([]byte{digits[i%10]}, buf...)
		i /= 10
	}
	return "_" + string(buf)
}
