package parser_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/soul-lang/soulc/lang/ast"
	"github.com/soul-lang/soulc/lang/diag"
	"github.com/soul-lang/soulc/lang/parser"
)

func parse(t *testing.T, src string) (*ast.File, *diag.Bag) {
	t.Helper()
	var bag diag.Bag
	f := parser.Parse("test.soul", src, &bag)
	require.NotNil(t, f)
	return f, &bag
}

func TestParseVariableDeclWithType(t *testing.T) {
	f, bag := parse(t, `x : int = 1;`)
	require.False(t, bag.HasErrors())
	require.Len(t, f.Statements, 1)
	decl, ok := f.Statements[0].(*ast.VariableDecl)
	require.True(t, ok)
	require.Equal(t, "x", decl.Name)
	require.NotNil(t, decl.Type)
	lit, ok := decl.Init.(*ast.LiteralExpr)
	require.True(t, ok)
	require.Equal(t, int64(1), lit.Int)
}

func TestParseVariableDeclInferred(t *testing.T) {
	f, bag := parse(t, `y := 2 + 3;`)
	require.False(t, bag.HasErrors())
	decl, ok := f.Statements[0].(*ast.VariableDecl)
	require.True(t, ok)
	require.Nil(t, decl.Type)
	bin, ok := decl.Init.(*ast.BinaryExpr)
	require.True(t, ok)
	require.Equal(t, ast.BinAdd, bin.Op)
}

func TestParsePrecedenceClimbing(t *testing.T) {
	f, bag := parse(t, `z := 1 + 2 * 3;`)
	require.False(t, bag.HasErrors())
	decl := f.Statements[0].(*ast.VariableDecl)
	top := decl.Init.(*ast.BinaryExpr)
	require.Equal(t, ast.BinAdd, top.Op)
	right := top.Right.(*ast.BinaryExpr)
	require.Equal(t, ast.BinMul, right.Op)
}

func TestParseFunctionDecl(t *testing.T) {
	f, bag := parse(t, `
add(a: int, b: int) -> int {
	return a + b;
}
`)
	require.False(t, bag.HasErrors())
	require.Len(t, f.Statements, 1)
	fn, ok := f.Statements[0].(*ast.FunctionDecl)
	require.True(t, ok)
	require.Equal(t, "add", fn.Name)
	require.Len(t, fn.Params, 2)
	require.NotNil(t, fn.ReturnType)
	require.Len(t, fn.Body.Stmts, 1)
	ret, ok := fn.Body.Stmts[0].(*ast.ReturnStmt)
	require.True(t, ok)
	require.NotNil(t, ret.Value)
}

func TestParseGenericFunctionDecl(t *testing.T) {
	f, bag := parse(t, `
identity<T>(x: T) -> T {
	return x;
}
`)
	require.False(t, bag.HasErrors())
	fn, ok := f.Statements[0].(*ast.FunctionDecl)
	require.True(t, ok)
	require.Equal(t, "identity", fn.Name)
	require.Equal(t, []string{"T"}, fn.Generics)
}

func TestParseGenericCallExpression(t *testing.T) {
	f, bag := parse(t, `identity<int>(1);`)
	require.False(t, bag.HasErrors())
	stmt, ok := f.Statements[0].(*ast.ExprStmt)
	require.True(t, ok)
	call, ok := stmt.Value.(*ast.CallExpr)
	require.True(t, ok)
	require.Equal(t, "identity", call.Name)
	require.Len(t, call.Args, 1)
}

func TestParseLessThanComparisonStillParses(t *testing.T) {
	f, bag := parse(t, `z := a < b;`)
	require.False(t, bag.HasErrors())
	decl := f.Statements[0].(*ast.VariableDecl)
	bin, ok := decl.Init.(*ast.BinaryExpr)
	require.True(t, ok)
	require.Equal(t, ast.BinLt, bin.Op)
}

func TestParseIfElifElse(t *testing.T) {
	f, bag := parse(t, `
if a {
	b();
} elif c {
	d();
} else {
	e();
}
`)
	require.False(t, bag.HasErrors())
	stmt, ok := f.Statements[0].(*ast.IfStmt)
	require.True(t, ok)
	require.NotNil(t, stmt.If.Arm)
	require.NotNil(t, stmt.If.Arm.ElseIf)
	require.NotNil(t, stmt.If.Arm.ElseIf.Arm.Else)
}

func TestParseForLoop(t *testing.T) {
	f, bag := parse(t, `
for item in items {
	use_item(item);
}
`)
	require.False(t, bag.HasErrors())
	stmt, ok := f.Statements[0].(*ast.ForStmt)
	require.True(t, ok)
	require.Equal(t, "item", stmt.Pattern)
}

func TestParseAssignAndCompoundAssign(t *testing.T) {
	f, bag := parse(t, `
x = 1;
x += 2;
`)
	require.False(t, bag.HasErrors())
	require.Len(t, f.Statements, 2)
	_, ok := f.Statements[0].(*ast.AssignStmt)
	require.True(t, ok)
	compound, ok := f.Statements[1].(*ast.CompoundAssignStmt)
	require.True(t, ok)
	require.Equal(t, ast.CompoundAdd, compound.Op)
}

func TestParseTrailingExpressionNoSemicolon(t *testing.T) {
	f, bag := parse(t, `
f() -> int {
	1 + 1
}
`)
	require.False(t, bag.HasErrors())
	fn := f.Statements[0].(*ast.FunctionDecl)
	exprStmt, ok := fn.Body.Stmts[0].(*ast.ExprStmt)
	require.True(t, ok)
	require.False(t, exprStmt.EndsSemicolon)
}

func TestParsePointerAndArrayType(t *testing.T) {
	f, bag := parse(t, `p : *[]int = null;`)
	require.False(t, bag.HasErrors())
	decl := f.Statements[0].(*ast.VariableDecl)
	require.Len(t, decl.Type.Wrappers, 2)
	require.Equal(t, ast.WrapPointer, decl.Type.Wrappers[0].Kind)
	require.Equal(t, ast.WrapHeapArray, decl.Type.Wrappers[1].Kind)
}

func TestParseStructDecl(t *testing.T) {
	f, bag := parse(t, `
struct Point {
	x: int;
	y: int;
}
`)
	require.False(t, bag.HasErrors())
	decl, ok := f.Statements[0].(*ast.NominalDecl)
	require.True(t, ok)
	require.Equal(t, ast.NominalStruct, decl.Kind)
	require.Len(t, decl.Fields, 2)
}

func TestParseCallExpression(t *testing.T) {
	f, bag := parse(t, `foo(1, 2, x);`)
	require.False(t, bag.HasErrors())
	stmt, ok := f.Statements[0].(*ast.ExprStmt)
	require.True(t, ok)
	call, ok := stmt.Value.(*ast.CallExpr)
	require.True(t, ok)
	require.Equal(t, "foo", call.Name)
	require.Len(t, call.Args, 3)
}

func TestParseMalformedStatementRecovers(t *testing.T) {
	f, bag := parse(t, `
x := ;
y := 1;
`)
	require.True(t, bag.HasErrors())
	require.Len(t, f.Statements, 2)
	_, ok := f.Statements[1].(*ast.VariableDecl)
	require.True(t, ok)
}
