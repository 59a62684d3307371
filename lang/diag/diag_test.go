package diag_test

import (
	"testing"

	"github.com/soul-lang/soulc/lang/diag"
	"github.com/soul-lang/soulc/lang/token"
	"github.com/stretchr/testify/require"
)

func TestBagAccumulatesAndSorts(t *testing.T) {
	var b diag.Bag
	b.Errorf(diag.ScopeError, &token.Span{StartLine: 3, StartOffset: 0}, "late")
	b.Errorf(diag.ScopeError, &token.Span{StartLine: 1, StartOffset: 0}, "early")
	b.Notef(diag.InternalError, nil, "no span")

	items := b.Items()
	require.Len(t, items, 3)
	require.Equal(t, "early", items[0].Message)
	require.Equal(t, "late", items[1].Message)
	require.Equal(t, "no span", items[2].Message)
}

func TestHasErrorsIgnoresWarnings(t *testing.T) {
	var b diag.Bag
	b.Addf(diag.InvalidNumber, diag.Warning, nil, "w")
	require.False(t, b.HasErrors())

	b.Errorf(diag.InvalidNumber, nil, "e")
	require.True(t, b.HasErrors())
}

func TestRenderWithCaret(t *testing.T) {
	src := "x := 1\nreturn y\n"
	d := diag.Diagnostic{
		Kind:    diag.ScopeError,
		Level:   diag.Error,
		Message: "variable 'y' is undefined in scope",
		Span:    &token.Span{StartLine: 2, StartOffset: 7, EndLine: 2, EndOffset: 8},
	}
	out := diag.Render(d, src)
	require.Contains(t, out, "variable 'y' is undefined in scope")
	require.Contains(t, out, "return y")
	require.Contains(t, out, "       ^")
}
