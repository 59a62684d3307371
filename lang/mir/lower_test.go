package mir_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/soul-lang/soulc/lang/ast"
	"github.com/soul-lang/soulc/lang/diag"
	"github.com/soul-lang/soulc/lang/hir"
	"github.com/soul-lang/soulc/lang/ids"
	"github.com/soul-lang/soulc/lang/infer"
	"github.com/soul-lang/soulc/lang/mir"
	"github.com/soul-lang/soulc/lang/parser"
	"github.com/soul-lang/soulc/lang/resolver"
)

func lowerToMir(t *testing.T, src string) (*mir.Tree, *diag.Bag) {
	t.Helper()
	var bag diag.Bag
	f := parser.Parse("test.soul", src, &bag)
	resolver.New(ids.NewGenerator[ast.NodeID](), &bag).Resolve(f)
	prog := hir.Lower(f, &bag)
	types := infer.Infer(prog, &bag)
	tree := mir.Lower(prog, types, &bag)
	return tree, &bag
}

func TestLowerSimpleFunctionHasEntryBlockAndReturnTerminator(t *testing.T) {
	tree, bag := lowerToMir(t, `
f() -> int {
	1 + 1
}
`)
	require.False(t, bag.HasErrors())
	require.Len(t, tree.Functions, 1)
	var fn *mir.Function
	for _, f := range tree.Functions {
		fn = f
	}
	require.NotEmpty(t, fn.Blocks)

	entry, ok := tree.Blocks.Get(fn.Blocks[0])
	require.True(t, ok)
	require.Equal(t, mir.TermReturn, entry.Terminator.Kind)
	require.NotNil(t, entry.Terminator.ReturnValue)
	require.Len(t, entry.Statements, 1)

	stmt, ok := tree.Statements.Get(entry.Statements[0])
	require.True(t, ok)
	require.Equal(t, mir.StmtAssign, stmt.Kind)
	require.Equal(t, mir.RvalBinary, stmt.AssignValue.Kind)
	require.Equal(t, ast.BinAdd, stmt.AssignValue.BinOp)
}

func TestLowerIfProducesDiamondWithJoinBlock(t *testing.T) {
	tree, bag := lowerToMir(t, `
f() -> int {
	if true {
		1
	} else {
		2
	}
}
`)
	require.False(t, bag.HasErrors())
	var fn *mir.Function
	for _, f := range tree.Functions {
		fn = f
	}
	// allocation order: entry(0, TermIf), join(1), then-block(2), else-block(3)
	require.Len(t, fn.Blocks, 4)

	entry, _ := tree.Blocks.Get(fn.Blocks[0])
	require.Equal(t, mir.TermIf, entry.Terminator.Kind)

	thenBlk, _ := tree.Blocks.Get(fn.Blocks[2])
	require.Equal(t, mir.TermGoto, thenBlk.Terminator.Kind)
	require.Equal(t, fn.Blocks[1], thenBlk.Terminator.Goto)

	join, _ := tree.Blocks.Get(fn.Blocks[1])
	require.Equal(t, mir.TermReturn, join.Terminator.Kind)
}

func TestLowerWhileProducesHeadBodyExitBlocks(t *testing.T) {
	tree, bag := lowerToMir(t, `
f() -> none {
	while true {
	}
}
`)
	require.False(t, bag.HasErrors())
	var fn *mir.Function
	for _, f := range tree.Functions {
		fn = f
	}
	// entry (goto head), head (TermIf), body (goto head), exit (return)
	require.Len(t, fn.Blocks, 4)

	head, _ := tree.Blocks.Get(fn.Blocks[1])
	require.Equal(t, mir.TermIf, head.Terminator.Kind)

	body, _ := tree.Blocks.Get(fn.Blocks[2])
	require.Equal(t, mir.TermGoto, body.Terminator.Kind)
	require.Equal(t, fn.Blocks[1], body.Terminator.Goto)
}

func TestLowerCallEndsBlockWithTermCall(t *testing.T) {
	tree, bag := lowerToMir(t, `
add(a: int, b: int) -> int {
	return a + b;
}
main() -> none {
	z := add(1, 2);
}
`)
	require.False(t, bag.HasErrors())
	var mainFn *mir.Function
	for _, f := range tree.Functions {
		if f.Name == "main" {
			mainFn = f
		}
	}
	require.NotNil(t, mainFn)
	entry, _ := tree.Blocks.Get(mainFn.Blocks[0])
	require.Equal(t, mir.TermCall, entry.Terminator.Kind)
	require.NotNil(t, entry.Terminator.CallReturnPlace)
	require.Len(t, entry.Terminator.CallArgs, 2)
}

func TestLowerNullBuildsOptionalStructWithIsNullTrue(t *testing.T) {
	tree, bag := lowerToMir(t, `
f() -> none {
	a : ?int = null;
}
`)
	require.False(t, bag.HasErrors())
	var fn *mir.Function
	for _, f := range tree.Functions {
		fn = f
	}
	require.NotNil(t, fn)

	entry, ok := tree.Blocks.Get(fn.Blocks[0])
	require.True(t, ok)

	var fieldAssigns []mir.Statement
	for _, sid := range entry.Statements {
		stmt, _ := tree.Statements.Get(sid)
		if stmt.Kind == mir.StmtAssign {
			place, _ := tree.Places.Get(stmt.AssignPlace)
			if place.Kind == mir.PlaceField {
				fieldAssigns = append(fieldAssigns, stmt)
			}
		}
	}
	require.Len(t, fieldAssigns, 2)

	var sawIsNull, sawInner bool
	for _, stmt := range fieldAssigns {
		place, _ := tree.Places.Get(stmt.AssignPlace)
		use := stmt.AssignValue.Use
		require.Equal(t, mir.OperandComptime, use.Kind)
		switch place.FieldName {
		case "is_null":
			sawIsNull = true
			require.Equal(t, int64(1), use.Int)
		case "inner":
			sawInner = true
			require.Equal(t, int64(0), use.Int)
		}
	}
	require.True(t, sawIsNull)
	require.True(t, sawInner)
}

func TestLowerMainFunctionIsIdentifiedAsEntryPoint(t *testing.T) {
	tree, bag := lowerToMir(t, `
main() -> none {
}
`)
	require.False(t, bag.HasErrors())
	require.True(t, tree.HasMain)
	fn := tree.Functions[tree.Main]
	require.Equal(t, "main", fn.Name)
}
