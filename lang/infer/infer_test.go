package infer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/soul-lang/soulc/lang/ast"
	"github.com/soul-lang/soulc/lang/diag"
	"github.com/soul-lang/soulc/lang/hir"
	"github.com/soul-lang/soulc/lang/ids"
	"github.com/soul-lang/soulc/lang/infer"
	"github.com/soul-lang/soulc/lang/parser"
	"github.com/soul-lang/soulc/lang/resolver"
)

func run(t *testing.T, src string) (*hir.Program, *infer.Result, *diag.Bag) {
	t.Helper()
	var bag diag.Bag
	f := parser.Parse("test.soul", src, &bag)
	resolver.New(ids.NewGenerator[ast.NodeID](), &bag).Resolve(f)
	prog := hir.Lower(f, &bag)
	res := infer.Infer(prog, &bag)
	return prog, res, &bag
}

func primitiveName(prog *hir.Program, id hir.TypeID) string {
	ty, ok := prog.Types.Get(id)
	if !ok {
		return "<missing>"
	}
	return ty.Primitive
}

func TestInferVariableDeclInfersUntypedIntDefaultsToInt(t *testing.T) {
	prog, res, bag := run(t, `
main() -> none {
	x := 1;
}
`)
	require.False(t, bag.HasErrors())
	fn, _ := prog.Functions.Get(0)
	block, _ := prog.Blocks.Get(fn.Body)
	stmt, _ := prog.Statements.Get(block.Statements[0])

	ty := res.Locals[stmt.Variable.Local]
	require.Equal(t, "int", primitiveName(prog, ty))
}

func TestInferBinaryComparisonProducesBool(t *testing.T) {
	prog, res, bag := run(t, `
f() -> bool {
	1 < 2
}
`)
	require.False(t, bag.HasErrors())
	fn, _ := prog.Functions.Get(0)
	block, _ := prog.Blocks.Get(fn.Body)
	ty := res.Expressions[*block.Terminator]
	require.Equal(t, "bool", primitiveName(prog, ty))
}

func TestInferIfElseUnifiesBranchTypes(t *testing.T) {
	prog, res, bag := run(t, `
f() -> int {
	if true {
		1
	} else {
		2
	}
}
`)
	require.False(t, bag.HasErrors())
	fn, _ := prog.Functions.Get(0)
	block, _ := prog.Blocks.Get(fn.Body)
	ifStmt, _ := prog.Statements.Get(block.Statements[0])
	ifExprID := ifStmt.Expression.Value
	ty := res.Expressions[ifExprID]
	require.Equal(t, "int", primitiveName(prog, ty))
}

func TestInferMismatchedIfBranchesReportsUnifyError(t *testing.T) {
	_, _, bag := run(t, `
f() -> none {
	x : int = if true { 1 } else { false };
}
`)
	require.True(t, bag.HasErrors())
}

func TestInferCallUnifiesArgumentsWithParameters(t *testing.T) {
	prog, res, bag := run(t, `
add(a: int, b: int) -> int {
	return a + b;
}
main() -> none {
	z := add(1, 2);
}
`)
	require.False(t, bag.HasErrors())
	mainFn, _ := prog.Functions.Get(1)
	block, _ := prog.Blocks.Get(mainFn.Body)
	stmt, _ := prog.Statements.Get(block.Statements[0])
	ty := res.Locals[stmt.Variable.Local]
	require.Equal(t, "int", primitiveName(prog, ty))
}

func TestInferNullProducesOptionalOfFreshVar(t *testing.T) {
	prog, res, bag := run(t, `
f() -> none {
	a : ?int = null;
}
`)
	require.False(t, bag.HasErrors())
	fn, _ := prog.Functions.Get(0)
	block, _ := prog.Blocks.Get(fn.Body)
	stmt, _ := prog.Statements.Get(block.Statements[0])

	ty, ok := prog.Types.Get(res.Locals[stmt.Variable.Local])
	require.True(t, ok)
	require.Equal(t, hir.KindStruct, ty.Kind)
	require.Len(t, ty.Fields, 2)
}

func TestInferWhileBodyMustUnifyWithNone(t *testing.T) {
	_, _, bag := run(t, `
f() -> none {
	while true {
		1
	}
}
`)
	require.True(t, bag.HasErrors())
}
