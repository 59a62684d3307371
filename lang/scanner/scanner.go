// Package scanner tokenizes Soul source text. Per spec.md §1, the lexer's
// character-level FSM internals are not part of this system's scope — only
// the token contract it produces (lang/token.Token) matters to the parser
// that consumes it. This implementation is adapted from the teacher's
// byte-at-a-time scanning style (advance/peek over a cursor, an error
// callback rather than a returned error) rather than its file-set machinery,
// since Soul's pipeline (lang/pipeline) works over one in-memory source at a
// time (spec.md §1 Non-goals: no multi-file module resolution).
package scanner

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/soul-lang/soulc/lang/diag"
	"github.com/soul-lang/soulc/lang/token"
)

// Scanner produces a token.Token stream from a source string.
type Scanner struct {
	src   string
	diags *diag.Bag

	cur  rune // current rune; -1 at end of file
	off  int  // byte offset of cur
	roff int  // byte offset just past cur

	line    int // 1-based line of cur
	lineOff int // byte offset of the start of the current line
}

// New creates a Scanner over src, reporting lexical errors into diags.
func New(src string, diags *diag.Bag) *Scanner {
	s := &Scanner{src: src, diags: diags, line: 1}
	s.cur = ' '
	s.advance()
	return s
}

func (s *Scanner) advance() {
	if s.roff >= len(s.src) {
		s.off = len(s.src)
		s.cur = -1
		return
	}
	if s.cur == '\n' {
		s.line++
		s.lineOff = s.roff
	}
	s.off = s.roff
	r, w := rune(s.src[s.roff]), 1
	if r >= utf8.RuneSelf {
		r, w = utf8.DecodeRuneInString(s.src[s.roff:])
		if r == utf8.RuneError && w == 1 {
			s.errorf("illegal UTF-8 encoding")
		}
	}
	s.roff += w
	s.cur = r
}

func (s *Scanner) peek() byte {
	if s.roff < len(s.src) {
		return s.src[s.roff]
	}
	return 0
}

func (s *Scanner) pos() (line, offset int) {
	return s.line, s.off - s.lineOff
}

func (s *Scanner) spanFrom(startLine, startOff int) token.Span {
	line, off := s.pos()
	return token.Span{StartLine: startLine, StartOffset: startOff, EndLine: line, EndOffset: off}
}

func (s *Scanner) errorf(format string, args ...any) {
	if s.diags == nil {
		return
	}
	line, off := s.pos()
	sp := token.Span{StartLine: line, StartOffset: off, EndLine: line, EndOffset: off + 1}
	s.diags.Errorf(diag.InvalidChar, &sp, format, args...)
}

func isIdentStart(r rune) bool { return r == '_' || unicode.IsLetter(r) }
func isIdentPart(r rune) bool  { return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) }
func isDigit(r rune) bool      { return r >= '0' && r <= '9' }

// Scan returns the next token in the stream. The stream always ends with a
// token.EndFile token, which Scan returns on every call thereafter.
func (s *Scanner) Scan() token.Token {
	for s.cur == ' ' || s.cur == '\t' || s.cur == '\r' {
		s.advance()
	}

	startLine, startOff := s.pos()

	switch {
	case s.cur == -1:
		return token.Token{Kind: token.EndFile, Span: s.spanFrom(startLine, startOff)}
	case s.cur == '\n':
		s.advance()
		return token.Token{Kind: token.EndLine, Span: s.spanFrom(startLine, startOff)}
	case s.cur == '/' && s.peek() == '/':
		s.skipLineComment()
		return s.Scan()
	case s.cur == '/' && s.peek() == '*':
		s.skipBlockComment()
		return s.Scan()
	case isIdentStart(s.cur):
		return s.scanIdent(startLine, startOff)
	case isDigit(s.cur):
		return s.scanNumber(startLine, startOff)
	case s.cur == '"':
		return s.scanString(startLine, startOff)
	case s.cur == '\'':
		return s.scanChar(startLine, startOff)
	default:
		return s.scanSymbol(startLine, startOff)
	}
}

func (s *Scanner) skipLineComment() {
	for s.cur != '\n' && s.cur != -1 {
		s.advance()
	}
}

func (s *Scanner) skipBlockComment() {
	s.advance() // '/'
	s.advance() // '*'
	for {
		if s.cur == -1 {
			s.errorf("unterminated block comment")
			return
		}
		if s.cur == '*' && s.peek() == '/' {
			s.advance()
			s.advance()
			return
		}
		s.advance()
	}
}

func (s *Scanner) scanIdent(startLine, startOff int) token.Token {
	var b strings.Builder
	for isIdentPart(s.cur) {
		b.WriteRune(s.cur)
		s.advance()
	}
	return token.Token{Kind: token.Ident, Text: b.String(), Span: s.spanFrom(startLine, startOff)}
}

func (s *Scanner) scanNumber(startLine, startOff int) token.Token {
	var b strings.Builder
	isFloat := false
	for isDigit(s.cur) || s.cur == '_' {
		if s.cur != '_' {
			b.WriteRune(s.cur)
		}
		s.advance()
	}
	if s.cur == '.' && isDigit(rune(s.peek())) {
		isFloat = true
		b.WriteRune(s.cur)
		s.advance()
		for isDigit(s.cur) || s.cur == '_' {
			if s.cur != '_' {
				b.WriteRune(s.cur)
			}
			s.advance()
		}
	}
	if s.cur == 'e' || s.cur == 'E' {
		isFloat = true
		b.WriteRune(s.cur)
		s.advance()
		if s.cur == '+' || s.cur == '-' {
			b.WriteRune(s.cur)
			s.advance()
		}
		for isDigit(s.cur) {
			b.WriteRune(s.cur)
			s.advance()
		}
	}
	unsigned := false
	if s.cur == 'u' {
		unsigned = true
		s.advance()
	}

	raw := b.String()
	sp := s.spanFrom(startLine, startOff)
	if isFloat {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			s.diags.Errorf(diag.InvalidNumber, &sp, "invalid float literal %q: %v", raw, err)
		}
		return token.Token{Kind: token.Number, NumKind: token.NumFloat, Text: raw, Float: f, Span: sp}
	}
	if unsigned {
		u, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			s.diags.Errorf(diag.InvalidNumber, &sp, "invalid unsigned literal %q: %v", raw, err)
		}
		return token.Token{Kind: token.Number, NumKind: token.NumUint, Text: raw, Uint: u, Span: sp}
	}
	i, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		s.diags.Errorf(diag.InvalidNumber, &sp, "invalid integer literal %q: %v", raw, err)
	}
	return token.Token{Kind: token.Number, NumKind: token.NumInt, Text: raw, Int: i, Span: sp}
}

func (s *Scanner) scanEscape(quote rune) (rune, bool) {
	s.advance() // consume backslash
	r := s.cur
	switch r {
	case 'n':
		s.advance()
		return '\n', true
	case 't':
		s.advance()
		return '\t', true
	case 'r':
		s.advance()
		return '\r', true
	case '\\', '\'', '"':
		s.advance()
		return r, true
	case '0':
		s.advance()
		return 0, true
	default:
		s.errorf("invalid escape sequence '\\%c'", r)
		if r != quote && r != -1 {
			s.advance()
		}
		return 0, false
	}
}

func (s *Scanner) scanString(startLine, startOff int) token.Token {
	s.advance() // opening quote
	var b strings.Builder
	for s.cur != '"' && s.cur != -1 && s.cur != '\n' {
		if s.cur == '\\' {
			if r, ok := s.scanEscape('"'); ok {
				b.WriteRune(r)
			}
			continue
		}
		b.WriteRune(s.cur)
		s.advance()
	}
	if s.cur != '"' {
		s.errorf("unterminated string literal")
	} else {
		s.advance()
	}
	return token.Token{Kind: token.StringLiteral, Text: b.String(), Span: s.spanFrom(startLine, startOff)}
}

func (s *Scanner) scanChar(startLine, startOff int) token.Token {
	s.advance() // opening quote
	var r rune
	if s.cur == '\\' {
		r, _ = s.scanEscape('\'')
	} else {
		r = s.cur
		s.advance()
	}
	if s.cur != '\'' {
		s.errorf("unterminated char literal")
	} else {
		s.advance()
	}
	return token.Token{Kind: token.CharLiteral, Char: r, Span: s.spanFrom(startLine, startOff)}
}

// multiCharSymbols is checked longest-match-first so that e.g. "**" is not
// tokenized as two "*" tokens.
var multiCharSymbols = []struct {
	text string
	kind token.SymbolKind
}{
	{"**", token.StarStar},
	{"</", token.SlashLt},
	{"||", token.OrOr},
	{"&&", token.AndAnd},
	{"==", token.EqEq},
	{"!=", token.NotEq},
	{"<=", token.LtEq},
	{">=", token.GtEq},
	{"++", token.PlusPlus},
	{"--", token.MinusMinus},
	{"+=", token.PlusEq},
	{"-=", token.MinusEq},
	{"*=", token.StarEq},
	{"/=", token.SlashEq},
	{"%=", token.PercentEq},
	{":=", token.ColonEq},
	{"=>", token.FatArrow},
	{"->", token.Arrow},
}

var singleCharSymbols = map[rune]token.SymbolKind{
	'(': token.LParen,
	')': token.RParen,
	'[': token.LBrack,
	']': token.RBrack,
	'{': token.LBrace,
	'}': token.RBrace,
	',': token.Comma,
	':': token.Colon,
	';': token.Semi,
	'.': token.Dot,
	'?': token.Question,
	'=': token.Assign,
	'|': token.Pipe,
	'^': token.Caret,
	'<': token.Lt,
	'>': token.Gt,
	'+': token.Plus,
	'-': token.Minus,
	'*': token.Star,
	'/': token.Slash,
	'%': token.Percent,
	'@': token.At,
	'!': token.Bang,
	'&': token.Amp,
}

func (s *Scanner) scanSymbol(startLine, startOff int) token.Token {
	for _, m := range multiCharSymbols {
		if s.matchesAt(m.text) {
			for range m.text {
				s.advance()
			}
			return token.Token{Kind: token.Symbol, Sym: m.kind, Span: s.spanFrom(startLine, startOff)}
		}
	}
	if k, ok := singleCharSymbols[s.cur]; ok {
		s.advance()
		return token.Token{Kind: token.Symbol, Sym: k, Span: s.spanFrom(startLine, startOff)}
	}
	s.errorf("invalid character %q", s.cur)
	bad := s.cur
	s.advance()
	return token.Token{Kind: token.Unknown, Char: bad, Span: s.spanFrom(startLine, startOff)}
}

func (s *Scanner) matchesAt(text string) bool {
	if len(text) == 0 {
		return false
	}
	if rune(text[0]) != s.cur {
		return false
	}
	rest := text[1:]
	return s.off+len(text) <= len(s.src) && s.src[s.off+1:s.off+len(text)] == rest
}

// Tokenize scans src to completion, returning every token up to and
// including the terminal token.EndFile.
func Tokenize(src string, diags *diag.Bag) []token.Token {
	s := New(src, diags)
	var toks []token.Token
	for {
		tok := s.Scan()
		toks = append(toks, tok)
		if tok.Kind == token.EndFile {
			return toks
		}
	}
}
