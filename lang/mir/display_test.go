package mir_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/soul-lang/soulc/lang/mir"
)

func TestPrinterSprintShowsBlocksAndTerminators(t *testing.T) {
	tree, bag := lowerToMir(t, `
add(a: int, b: int) -> int {
	return a + b;
}
`)
	require.False(t, bag.HasErrors())

	out := mir.Printer{}.Sprint(tree)
	require.True(t, strings.Contains(out, "fn#0 add"))
	require.True(t, strings.Contains(out, "block#"))
	require.True(t, strings.Contains(out, "return"))
}
