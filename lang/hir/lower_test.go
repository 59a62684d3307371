package hir_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/soul-lang/soulc/lang/ast"
	"github.com/soul-lang/soulc/lang/diag"
	"github.com/soul-lang/soulc/lang/hir"
	"github.com/soul-lang/soulc/lang/ids"
	"github.com/soul-lang/soulc/lang/parser"
	"github.com/soul-lang/soulc/lang/resolver"
)

func lower(t *testing.T, src string) (*hir.Program, *diag.Bag) {
	t.Helper()
	var bag diag.Bag
	f := parser.Parse("test.soul", src, &bag)
	resolver.New(ids.NewGenerator[ast.NodeID](), &bag).Resolve(f)
	prog := hir.Lower(f, &bag)
	return prog, &bag
}

func TestLowerVariableDeclAllocatesLocalAndStatement(t *testing.T) {
	prog, bag := lower(t, `
main() -> none {
	x : int = 1;
}
`)
	require.False(t, bag.HasErrors())
	require.Equal(t, 1, prog.Functions.Len())
	fn, ok := prog.Functions.Get(0)
	require.True(t, ok)
	block, ok := prog.Blocks.Get(fn.Body)
	require.True(t, ok)
	require.Len(t, block.Statements, 1)

	stmt, ok := prog.Statements.Get(block.Statements[0])
	require.True(t, ok)
	require.Equal(t, hir.StmtVariable, stmt.Kind)
	require.NotNil(t, stmt.Variable)

	ty, ok := prog.Types.Get(stmt.Variable.Type)
	require.True(t, ok)
	require.Equal(t, hir.KindPrimitive, ty.Kind)
	require.Equal(t, "int", ty.Primitive)
}

func TestLowerBlockTerminatorHoistsTailExpression(t *testing.T) {
	prog, bag := lower(t, `
f() -> int {
	1 + 1
}
`)
	require.False(t, bag.HasErrors())
	fn, _ := prog.Functions.Get(0)
	block, _ := prog.Blocks.Get(fn.Body)
	require.Empty(t, block.Statements)
	require.NotNil(t, block.Terminator)

	expr, ok := prog.Expressions.Get(*block.Terminator)
	require.True(t, ok)
	require.Equal(t, hir.ExprBinary, expr.Kind)
}

func TestLowerOptionalTypeDesugarsToInnerIsNullStruct(t *testing.T) {
	prog, bag := lower(t, `
f() -> none {
	a : ?int = null;
}
`)
	require.False(t, bag.HasErrors())
	fn, _ := prog.Functions.Get(0)
	block, _ := prog.Blocks.Get(fn.Body)
	stmt, _ := prog.Statements.Get(block.Statements[0])

	ty, ok := prog.Types.Get(stmt.Variable.Type)
	require.True(t, ok)
	require.Equal(t, hir.KindStruct, ty.Kind)
	require.Len(t, ty.Fields, 2)
	require.Equal(t, "inner", ty.Fields[0].Name)
	require.Equal(t, "is_null", ty.Fields[1].Name)
}

func TestLowerHeapArrayTypeDesugarsToPtrLenCapStruct(t *testing.T) {
	prog, bag := lower(t, `
f() -> none {
	a : []int = null;
}
`)
	require.False(t, bag.HasErrors())
	fn, _ := prog.Functions.Get(0)
	block, _ := prog.Blocks.Get(fn.Body)
	stmt, _ := prog.Statements.Get(block.Statements[0])

	ty, ok := prog.Types.Get(stmt.Variable.Type)
	require.True(t, ok)
	require.Equal(t, hir.KindStruct, ty.Kind)
	require.Len(t, ty.Fields, 3)
	require.Equal(t, "ptr", ty.Fields[0].Name)
	require.Equal(t, "len", ty.Fields[1].Name)
	require.Equal(t, "cap", ty.Fields[2].Name)
}

func TestLowerIfElseChainProducesNestedArms(t *testing.T) {
	prog, bag := lower(t, `
f() -> none {
	if true {
	} elif false {
	} else {
	}
}
`)
	require.False(t, bag.HasErrors())
	fn, _ := prog.Functions.Get(0)
	block, _ := prog.Blocks.Get(fn.Body)
	stmt, _ := prog.Statements.Get(block.Statements[0])
	ifExprID := stmt.Expression.Value
	expr, _ := prog.Expressions.Get(ifExprID)
	require.Equal(t, hir.ExprIf, expr.Kind)
	require.NotNil(t, expr.If.Arm)
	require.NotNil(t, expr.If.Arm.ElseIf)
	require.NotNil(t, expr.If.Arm.ElseIf.Arm.Else)
}

func TestLowerRefOfNonVariableInsertsTempStatement(t *testing.T) {
	prog, bag := lower(t, `
f() -> none {
	x := &(1 + 1);
}
`)
	require.False(t, bag.HasErrors())
	fn, _ := prog.Functions.Get(0)
	block, _ := prog.Blocks.Get(fn.Body)
	// a synthesized temp-variable statement plus the user's own `x` decl
	require.Len(t, block.Statements, 2)

	temp, _ := prog.Statements.Get(block.Statements[0])
	require.Equal(t, hir.StmtVariable, temp.Kind)

	xDecl, _ := prog.Statements.Get(block.Statements[1])
	require.Equal(t, hir.StmtVariable, xDecl.Kind)
	refExpr, _ := prog.Expressions.Get(xDecl.Variable.Value)
	require.Equal(t, hir.ExprRef, refExpr.Kind)
	require.Equal(t, temp.Variable.Local, refExpr.Ref.Place.Local)
}

func TestLowerCompoundAssignDesugarsToBinaryPlusAssign(t *testing.T) {
	prog, bag := lower(t, `
f() -> none {
	x := 1;
	x += 2;
}
`)
	require.False(t, bag.HasErrors())
	fn, _ := prog.Functions.Get(0)
	block, _ := prog.Blocks.Get(fn.Body)
	require.Len(t, block.Statements, 2)

	assign, _ := prog.Statements.Get(block.Statements[1])
	require.Equal(t, hir.StmtAssign, assign.Kind)
	value, _ := prog.Expressions.Get(assign.Assign.Value)
	require.Equal(t, hir.ExprBinary, value.Kind)
	require.Equal(t, ast.BinAdd, value.Binary.Op)
}

func TestLowerCallBindsFunctionByResolvedCandidate(t *testing.T) {
	prog, bag := lower(t, `
add(a: int, b: int) -> int {
	return a + b;
}
main() -> none {
	z := add(1, 2);
}
`)
	require.False(t, bag.HasErrors())
	addFn, _ := prog.Functions.Get(0)
	require.Equal(t, "add", addFn.Name)

	mainFn, _ := prog.Functions.Get(1)
	block, _ := prog.Blocks.Get(mainFn.Body)
	stmt, _ := prog.Statements.Get(block.Statements[0])
	call, _ := prog.Expressions.Get(stmt.Variable.Value)
	require.Equal(t, hir.ExprCall, call.Kind)
	require.Equal(t, hir.FunctionID(0), call.Call.Function)
}
