package ast_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/soul-lang/soulc/lang/ast"
	"github.com/soul-lang/soulc/lang/token"
)

func TestErrorNodeIDIsError(t *testing.T) {
	require.True(t, ast.ErrorNodeID.IsError())
	id := ast.NodeID(3)
	require.False(t, id.IsError())
}

func TestPrinterRawDump(t *testing.T) {
	f := &ast.File{
		Name: "main.soul",
		Statements: []ast.Stmt{
			&ast.VariableDecl{
				Name: "x",
				Init: &ast.LiteralExpr{Kind: ast.LitInt, Raw: "1", Int: 1},
			},
			&ast.ExprStmt{
				Value: &ast.BinaryExpr{
					Op:   ast.BinAdd,
					Left: &ast.IdentExpr{Name: "x"},
					Right: &ast.LiteralExpr{Kind: ast.LitInt, Raw: "2", Int: 2},
				},
				EndsSemicolon: false,
			},
		},
	}

	out := ast.Printer{Kind: ast.Raw}.Sprint(f)
	require.Contains(t, out, "var x")
	require.Contains(t, out, "lit 1")
	require.Contains(t, out, "expr-stmt (tail)")
	require.NotContains(t, out, "#")
}

func TestPrinterWithIDsShowsResolvedSlots(t *testing.T) {
	id := ast.NodeID(7)
	f := &ast.File{
		Statements: []ast.Stmt{
			&ast.VariableDecl{Name: "y", Resolved: &id},
		},
	}

	out := ast.Printer{Kind: ast.WithIDs}.Sprint(f)
	require.Contains(t, out, "var y #7")
}

func TestTypeWrapperSequenceOutsideIn(t *testing.T) {
	// *[]int: outermost Pointer wraps HeapArray wraps base "int".
	ty := &ast.Type{
		Wrappers: []ast.Wrapper{{Kind: ast.WrapPointer}, {Kind: ast.WrapHeapArray}},
		Base:     ast.PrimitiveType{Name: "int"},
	}
	require.Equal(t, ast.WrapPointer, ty.Wrappers[0].Kind)
	require.Equal(t, ast.WrapHeapArray, ty.Wrappers[1].Kind)
}

func TestStubTypeResolvesToResolvedKind(t *testing.T) {
	st := &ast.StubType{Name: "Point"}
	require.Nil(t, st.ResolvedAs)
	st.ResolvedAs = &ast.Resolved{Kind: ast.ResolvedStruct, ID: ast.NodeID(4)}
	require.Equal(t, ast.ResolvedStruct, st.ResolvedAs.Kind)
}

func TestFileSpanUsesFileSpan(t *testing.T) {
	sp := token.Span{StartLine: 1, EndLine: 9}
	f := &ast.File{Sp: sp}
	require.Equal(t, sp, f.Span())
}
