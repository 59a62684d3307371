// Package parser implements the Pratt-style parser of spec.md §4.1: it
// consumes the token.Token stream produced by lang/scanner and builds the
// tree-shaped lang/ast. Every node that the name resolver will later bind
// carries its Resolved/DeclNodeID slot pre-initialized to nil, left for the
// resolver's collect pass to fill in (spec.md §3, §4.2).
package parser

import (
	"github.com/soul-lang/soulc/lang/ast"
	"github.com/soul-lang/soulc/lang/diag"
	"github.com/soul-lang/soulc/lang/scanner"
	"github.com/soul-lang/soulc/lang/token"
)

// parser holds the mutable state of a single parse. Like the teacher's
// parser, it never returns an error from its internal methods: on a
// malformed construct it records a diagnostic and substitutes an error
// sentinel (ast.ErrorExpr / ast.ErrorStmt), then resynchronizes at the
// nearest statement boundary (spec.md §4.1 "Failure recovery").
type parser struct {
	sc    *scanner.Scanner
	diags *diag.Bag

	tok  token.Token // current token
	prev token.Span  // span of the token just consumed, for closing a node's span
}

// Parse tokenizes and parses src in one pass, returning the resulting File.
// Diagnostics are appended to diags; Parse never returns a nil File, even
// when the source is empty or malformed.
func Parse(name, src string, diags *diag.Bag) *ast.File {
	p := &parser{sc: scanner.New(src, diags), diags: diags}
	p.advance()
	return p.parseFile(name)
}

func (p *parser) advance() {
	p.prev = p.tok.Span
	p.tok = p.sc.Scan()
}

// skipEndLines consumes a run of EndLine tokens where a line break carries
// no meaning (between statements, before `elif`/`else`). Elsewhere an
// EndLine ends an expression statement written without `;`, and ends the
// value of return/break/fall.
func (p *parser) skipEndLines() {
	for p.tok.Kind == token.EndLine {
		p.advance()
	}
}

func (p *parser) at(k token.Kind) bool { return p.tok.Kind == k }

func (p *parser) atSym(s token.SymbolKind) bool {
	return p.tok.Kind == token.Symbol && p.tok.Sym == s
}

func (p *parser) atKeyword(kw token.Keyword) bool {
	if p.tok.Kind != token.Ident {
		return false
	}
	got, ok := token.LookupKeyword(p.tok.Text)
	return ok && got == kw
}

// atAnyKeyword reports whether the current Ident's text is any recognized
// keyword. Statement dispatch uses this to tell a reserved word apart from
// a plain identifier that might start a function declaration or call
// (spec.md §4.1 "Any other Ident with lookahead token ( or <").
func (p *parser) atAnyKeyword() bool {
	if p.tok.Kind != token.Ident {
		return false
	}
	_, ok := token.LookupKeyword(p.tok.Text)
	return ok
}

// checkpoint is a snapshot of the parser's cursor, scanner state, and
// diagnostic count. Soul's grammar has no keyword marking a function
// declaration (spec.md §4.1); disambiguating "name(...)  -> T { }" from a
// call or other expression starting the same way needs a full
// checkpoint-snapshot-and-rewind, the same idiom nextIsColonForm already
// uses for its one-token lookahead.
type checkpoint struct {
	sc       scanner.Scanner
	tok      token.Token
	prev     token.Span
	diagsLen int
}

// checkpoint snapshots the parser's current position. Scanner holds no
// pointers of its own besides the shared diags bag, so copying it by value
// is cheap.
func (p *parser) checkpoint() checkpoint {
	return checkpoint{sc: *p.sc, tok: p.tok, prev: p.prev, diagsLen: p.diags.Len()}
}

// rewind restores the parser to a prior checkpoint, discarding any tokens
// consumed and diagnostics logged since (spec.md §4.1 try/commit
// discipline).
func (p *parser) rewind(cp checkpoint) {
	*p.sc = cp.sc
	p.tok = cp.tok
	p.prev = cp.prev
	p.diags.Truncate(cp.diagsLen)
}

func (p *parser) errorf(kind diag.Kind, format string, args ...any) {
	sp := p.tok.Span
	p.diags.Errorf(kind, &sp, format, args...)
}

// expectSym consumes the current token if it is the symbol s, otherwise
// records UnexpectedToken and leaves the cursor in place for recovery.
func (p *parser) expectSym(s token.SymbolKind) bool {
	if p.atSym(s) {
		p.advance()
		return true
	}
	p.errorf(diag.UnexpectedToken, "expected %q, found %s", s.String(), p.describe())
	return false
}

func (p *parser) describe() string {
	switch p.tok.Kind {
	case token.Symbol:
		return p.tok.Sym.String()
	case token.Ident:
		return p.tok.Text
	default:
		return p.tok.Kind.String()
	}
}

func (p *parser) expectIdent() (string, bool) {
	if p.at(token.Ident) {
		name := p.tok.Text
		p.advance()
		return name, true
	}
	p.errorf(diag.UnexpectedToken, "expected identifier, found %s", p.describe())
	return "", false
}

// parseBlock parses a brace-delimited statement sequence. EndLine tokens
// between statements are insignificant and skipped (spec.md §3: blocks stay
// tree-shaped at the AST level); a statement without `;` ends at its line
// break.
func (p *parser) parseBlock() *ast.Block {
	start := p.tok.Span
	p.expectSym(token.LBrace)
	p.skipEndLines()
	b := &ast.Block{}
	for !p.atSym(token.RBrace) && !p.at(token.EndFile) {
		before := p.tok.Span
		b.Stmts = append(b.Stmts, p.parseStmt())
		if p.tok.Span == before {
			// no progress was made (a token neither expect nor parseExpr could
			// consume); resynchronize to avoid looping forever.
			p.recoverToStmtBoundary()
		}
		p.skipEndLines()
	}
	p.expectSym(token.RBrace)
	b.Sp = token.Compose(start, p.prev)
	return b
}

func (p *parser) parseFile(name string) *ast.File {
	f := &ast.File{Name: name}
	p.skipEndLines()
	for !p.at(token.EndFile) {
		before := p.tok.Span
		f.Statements = append(f.Statements, p.parseStmt())
		if p.tok.Span == before {
			p.recoverToStmtBoundary()
		}
		p.skipEndLines()
	}
	f.Sp = p.prev
	return f
}
