package hir_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/soul-lang/soulc/lang/ast"
	"github.com/soul-lang/soulc/lang/diag"
	"github.com/soul-lang/soulc/lang/hir"
	"github.com/soul-lang/soulc/lang/ids"
	"github.com/soul-lang/soulc/lang/parser"
	"github.com/soul-lang/soulc/lang/resolver"
)

func TestPrinterSprintIncludesFunctionAndStatementShape(t *testing.T) {
	var bag diag.Bag
	f := parser.Parse("test.soul", `
add(a: int, b: int) -> int {
	return a + b;
}
`, &bag)
	resolver.New(ids.NewGenerator[ast.NodeID](), &bag).Resolve(f)
	prog := hir.Lower(f, &bag)
	require.False(t, bag.HasErrors())

	out := hir.Printer{}.Sprint(prog)
	require.True(t, strings.Contains(out, "fn#0 add -> int"))
	require.True(t, strings.Contains(out, "return"))
	require.True(t, strings.Contains(out, "binary"))
}
