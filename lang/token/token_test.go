package token_test

import (
	"testing"

	"github.com/soul-lang/soulc/lang/token"
	"github.com/stretchr/testify/require"
)

func TestSpanCompose(t *testing.T) {
	a := token.Span{StartLine: 2, StartOffset: 5, EndLine: 2, EndOffset: 10}
	b := token.Span{StartLine: 1, StartOffset: 0, EndLine: 3, EndOffset: 2}
	got := token.Compose(a, b)
	require.Equal(t, token.Span{StartLine: 1, StartOffset: 0, EndLine: 3, EndOffset: 2}, got)
}

func TestSpanComposeSameLine(t *testing.T) {
	a := token.Span{StartLine: 1, StartOffset: 0, EndLine: 1, EndOffset: 5}
	b := token.Span{StartLine: 1, StartOffset: 3, EndLine: 1, EndOffset: 8}
	got := token.Compose(a, b)
	require.Equal(t, 0, got.StartOffset)
	require.Equal(t, 8, got.EndOffset)
}

func TestPrecedenceTable(t *testing.T) {
	cases := []struct {
		sym  token.SymbolKind
		prec int
	}{
		{token.OrOr, 0}, {token.AndAnd, 0},
		{token.Pipe, 1}, {token.Caret, 2},
		{token.EqEq, 3}, {token.NotEq, 3},
		{token.Lt, 4}, {token.GtEq, 4},
		{token.Plus, 5}, {token.Minus, 5},
		{token.Star, 6}, {token.At, 6},
		{token.StarStar, 7}, {token.SlashLt, 7},
	}
	for _, c := range cases {
		p, ok := token.Precedence(c.sym)
		require.True(t, ok, c.sym.String())
		require.Equal(t, c.prec, p, c.sym.String())
	}
}

func TestUnaryAndPostfix(t *testing.T) {
	require.True(t, token.IsUnaryPrefix(token.Bang))
	require.True(t, token.IsUnaryPrefix(token.Minus))
	require.True(t, token.IsUnaryPrefix(token.Star))
	require.True(t, token.IsUnaryPrefix(token.Amp))
	require.True(t, token.IsUnaryPrefix(token.At))
	require.False(t, token.IsUnaryPrefix(token.Plus))

	require.True(t, token.IsPostfix(token.PlusPlus))
	require.True(t, token.IsPostfix(token.MinusMinus))
	require.False(t, token.IsPostfix(token.Plus))
}

func TestLookupKeyword(t *testing.T) {
	kw, ok := token.LookupKeyword("while")
	require.True(t, ok)
	require.Equal(t, token.KwWhile, kw)

	_, ok = token.LookupKeyword("notakeyword")
	require.False(t, ok)
}

func TestLookupModifier(t *testing.T) {
	m, ok := token.LookupModifier("mut")
	require.True(t, ok)
	require.Equal(t, token.ModMut, m)

	_, ok = token.LookupModifier("x")
	require.False(t, ok)
}

func TestTokenDisplayRoundTrip(t *testing.T) {
	tok := token.Token{Kind: token.Ident, Text: "foo"}
	require.Equal(t, "foo", tok.Display())

	tok = token.Token{Kind: token.Symbol, Sym: token.Plus}
	require.Equal(t, "+", tok.Display())

	tok = token.Token{Kind: token.EndLine}
	require.Equal(t, "\n", tok.Display())
}
