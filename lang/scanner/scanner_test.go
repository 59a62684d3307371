package scanner_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/soul-lang/soulc/lang/diag"
	"github.com/soul-lang/soulc/lang/scanner"
	"github.com/soul-lang/soulc/lang/token"
)

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestTokenizeIdentAndNumber(t *testing.T) {
	var bag diag.Bag
	toks := scanner.Tokenize("x := 42", &bag)
	require.False(t, bag.HasErrors())
	require.Equal(t, []token.Kind{token.Ident, token.Symbol, token.Number, token.EndFile}, kinds(toks))
	require.Equal(t, "x", toks[0].Text)
	require.Equal(t, token.ColonEq, toks[1].Sym)
	require.Equal(t, int64(42), toks[2].Int)
}

func TestTokenizeFloatLiteral(t *testing.T) {
	var bag diag.Bag
	toks := scanner.Tokenize("3.14", &bag)
	require.False(t, bag.HasErrors())
	require.Equal(t, token.NumFloat, toks[0].NumKind)
	require.InDelta(t, 3.14, toks[0].Float, 1e-9)
}

func TestTokenizeStringAndEscapes(t *testing.T) {
	var bag diag.Bag
	toks := scanner.Tokenize(`"a\nb"`, &bag)
	require.False(t, bag.HasErrors())
	require.Equal(t, "a\nb", toks[0].Text)
}

func TestTokenizeMultiCharOperators(t *testing.T) {
	var bag diag.Bag
	toks := scanner.Tokenize("a ** b </ c", &bag)
	require.False(t, bag.HasErrors())
	syms := []token.SymbolKind{toks[1].Sym, toks[3].Sym}
	require.Equal(t, []token.SymbolKind{token.StarStar, token.SlashLt}, syms)
}

func TestTokenizeLineComment(t *testing.T) {
	var bag diag.Bag
	toks := scanner.Tokenize("x // comment\ny", &bag)
	require.False(t, bag.HasErrors())
	require.Equal(t, []token.Kind{token.Ident, token.EndLine, token.Ident, token.EndFile}, kinds(toks))
}

func TestTokenizeUnterminatedStringReportsError(t *testing.T) {
	var bag diag.Bag
	scanner.Tokenize(`"abc`, &bag)
	require.True(t, bag.HasErrors())
}

func TestTokenizeEndsWithEndFile(t *testing.T) {
	var bag diag.Bag
	toks := scanner.Tokenize("", &bag)
	require.Len(t, toks, 1)
	require.Equal(t, token.EndFile, toks[0].Kind)
}
