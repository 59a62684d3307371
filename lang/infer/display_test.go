package infer_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/soul-lang/soulc/lang/infer"
)

func TestPrinterSprintAnnotatesAutocopy(t *testing.T) {
	prog, res, bag := run(t, `
f() -> none {
	x: mut int = 1;
	y: const int = x;
}
`)
	require.False(t, bag.HasErrors())
	out := infer.Printer{}.Sprint(prog, res)
	require.True(t, strings.Contains(out, "[autocopy]"))
}
