package pipeline_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/soul-lang/soulc/lang/mir"
	"github.com/soul-lang/soulc/lang/pipeline"
)

func TestRunProducesMirTreeForValidProgram(t *testing.T) {
	res := pipeline.Run("test.soul", `
add(a: int, b: int) -> int {
	return a + b;
}
main() -> none {
	z := add(1, 2);
}
`)
	require.True(t, res.Succeeded())
	require.Len(t, res.MIR.Functions, 2)
}

func TestRunAccumulatesFaultsWithoutAborting(t *testing.T) {
	res := pipeline.Run("test.soul", `
main() -> none {
	x := missing + 1;
	y := x;
}
`)
	require.False(t, res.Succeeded())
	// the pipeline still reaches MIR despite the unresolved name
	require.NotNil(t, res.MIR)
	var mainFn *mir.Function
	for _, fn := range res.MIR.Functions {
		if fn.Name == "main" {
			mainFn = fn
		}
	}
	require.NotNil(t, mainFn)
}

func TestRunIsIndependentAcrossCalls(t *testing.T) {
	first := pipeline.Run("a.soul", `main() -> none { x := 1; }`)
	second := pipeline.Run("b.soul", `main() -> none { y := 2; }`)
	require.NotSame(t, first.Diags, second.Diags)
	require.True(t, first.Succeeded())
	require.True(t, second.Succeeded())
}
