package parser

import (
	"github.com/soul-lang/soulc/lang/ast"
	"github.com/soul-lang/soulc/lang/diag"
	"github.com/soul-lang/soulc/lang/token"
)

// parseStmt dispatches to the statement grammar of spec.md §4.1. On a
// malformed statement it records a diagnostic, substitutes an ast.ErrorStmt,
// and resynchronizes at the next statement boundary rather than aborting
// the parse (spec.md §2 "stages never abort on first error").
func (p *parser) parseStmt() ast.Stmt {
	start := p.tok.Span

	switch {
	case p.atKeyword(token.KwUse):
		return p.parseUseOrImport(true)
	case p.atKeyword(token.KwImport):
		return p.parseUseOrImport(false)
	case p.atNominalKeyword():
		return p.parseNominalDecl()
	case p.atKeyword(token.KwIf):
		return &ast.IfStmt{If: p.parseIfExpr(), Sp: token.Compose(start, p.prev)}
	case p.atKeyword(token.KwWhile):
		return &ast.WhileStmt{While: p.parseWhileExpr(), Sp: token.Compose(start, p.prev)}
	case p.atKeyword(token.KwFor):
		return p.parseForStmt()
	case p.atKeyword(token.KwReturn):
		return p.parseReturnStmt()
	case p.atKeyword(token.KwBreak):
		return p.parseBreakStmt()
	case p.atKeyword(token.KwContinue):
		p.advance()
		s := &ast.ContinueStmt{Sp: start}
		p.consumeOptionalSemi()
		return s
	case p.atKeyword(token.KwFall):
		return p.parseFallStmt()
	case p.atSym(token.LBrace):
		b := p.parseBlock()
		return &ast.BlockStmt{Body: b, Sp: b.Sp}
	case p.at(token.Ident) && !p.atAnyKeyword():
		if fd, ok := p.tryParseFunctionDecl(); ok {
			return fd
		}
		return p.parseSimpleStmt()
	default:
		return p.parseSimpleStmt()
	}
}

func (p *parser) atNominalKeyword() bool {
	_, ok := p.nominalKeyword()
	return ok
}

func (p *parser) nominalKeyword() (ast.NominalKind, bool) {
	switch {
	case p.atKeyword(token.KwStruct):
		return ast.NominalStruct, true
	case p.atKeyword(token.KwClass):
		return ast.NominalClass, true
	case p.atKeyword(token.KwTrait):
		return ast.NominalTrait, true
	case p.atKeyword(token.KwEnum):
		return ast.NominalEnum, true
	case p.atKeyword(token.KwUnion):
		return ast.NominalUnion, true
	default:
		return 0, false
	}
}

func (p *parser) parseUseOrImport(isUse bool) ast.Stmt {
	start := p.tok.Span
	p.advance()
	path := ""
	if p.at(token.StringLiteral) {
		path = p.tok.Text
		p.advance()
	} else {
		p.errorf(diag.UnexpectedToken, "expected a path string, found %s", p.describe())
	}
	p.consumeOptionalSemi()
	sp := token.Compose(start, p.prev)
	if isUse {
		return &ast.UseStmt{Path: path, Sp: sp}
	}
	return &ast.ImportStmt{Path: path, Sp: sp}
}

// tryParseFunctionDecl attempts to parse a function declaration starting at
// the identifier currently in p.tok. Soul's grammar has no `fn` keyword:
// "Any other Ident with lookahead token ( or <" is a function declaration
// or a call (spec.md §4.1), so this checkpoints before the name and
// rewinds if it is not immediately followed by `(` or `<` — the caller
// then retries the same tokens as a plain expression statement. The same
// rewind happens when the signature logs a fault or is not followed by the
// `{` of a body, so `name(args);` and `name<T>(args);` reach the
// expression parser as calls.
func (p *parser) tryParseFunctionDecl() (ast.Stmt, bool) {
	cp := p.checkpoint()
	start := p.tok.Span
	name, _ := p.expectIdent()

	if !p.atSym(token.LParen) && !p.atSym(token.Lt) {
		p.rewind(cp)
		return nil, false
	}

	var generics []string
	if p.atSym(token.Lt) {
		p.advance()
		for !p.atSym(token.Gt) && !p.at(token.EndFile) {
			g, ok := p.expectIdent()
			if ok {
				generics = append(generics, g)
			}
			if !p.atSym(token.Comma) {
				break
			}
			p.advance()
		}
		p.expectSym(token.Gt)
	}

	p.expectSym(token.LParen)
	var params []ast.Param
	for !p.atSym(token.RParen) && !p.at(token.EndFile) {
		pstart := p.tok.Span
		pname, _ := p.expectIdent()
		p.expectSym(token.Colon)
		pty := p.parseType()
		params = append(params, ast.Param{Name: pname, Type: pty, Sp: token.Compose(pstart, pty.Span())})
		if !p.atSym(token.Comma) {
			break
		}
		p.advance()
	}
	p.expectSym(token.RParen)

	var ret *ast.Type
	if p.atSym(token.Arrow) {
		p.advance()
		ret = p.parseType()
	}

	if p.diags.Len() > cp.diagsLen || !p.atSym(token.LBrace) {
		p.rewind(cp)
		return nil, false
	}

	body := p.parseBlock()
	return &ast.FunctionDecl{
		Name: name, Generics: generics, Params: params, ReturnType: ret, Body: body,
		Sp: token.Compose(start, body.Sp),
	}, true
}

func (p *parser) parseNominalDecl() ast.Stmt {
	start := p.tok.Span
	kind, _ := p.nominalKeyword()
	p.advance()
	name, _ := p.expectIdent()

	var generics []string
	if p.atSym(token.Lt) {
		p.advance()
		for !p.atSym(token.Gt) && !p.at(token.EndFile) {
			g, ok := p.expectIdent()
			if ok {
				generics = append(generics, g)
			}
			if !p.atSym(token.Comma) {
				break
			}
			p.advance()
		}
		p.expectSym(token.Gt)
	}

	p.expectSym(token.LBrace)
	p.skipEndLines()
	var fields []ast.Field
	var methods []*ast.FunctionDecl
	for !p.atSym(token.RBrace) && !p.at(token.EndFile) {
		if p.at(token.Ident) && !p.atAnyKeyword() {
			if fd, ok := p.tryParseFunctionDecl(); ok {
				methods = append(methods, fd.(*ast.FunctionDecl))
				p.skipEndLines()
				continue
			}
		}
		fname, _ := p.expectIdent()
		p.expectSym(token.Colon)
		fty := p.parseType()
		fields = append(fields, ast.Field{Name: fname, Type: fty})
		p.consumeOptionalSemi()
		p.skipEndLines()
	}
	p.expectSym(token.RBrace)

	return &ast.NominalDecl{
		Kind: kind, Name: name, Generics: generics, Fields: fields, Methods: methods,
		Sp: token.Compose(start, p.prev),
	}
}

func (p *parser) parseForStmt() ast.Stmt {
	start := p.tok.Span
	p.advance() // 'for'
	pattern, _ := p.expectIdent()
	if !p.atKeyword(token.KwIn) {
		p.errorf(diag.UnexpectedToken, "expected 'in', found %s", p.describe())
	} else {
		p.advance()
	}
	collection := p.parseExpr()
	body := p.parseBlock()
	return &ast.ForStmt{Pattern: pattern, Collection: collection, Body: body, Sp: token.Compose(start, body.Sp)}
}

func (p *parser) parseReturnStmt() ast.Stmt {
	start := p.tok.Span
	p.advance()
	var val ast.Expr
	if !p.atSym(token.Semi) && !p.at(token.EndLine) && !p.at(token.EndFile) && !p.atSym(token.RBrace) {
		val = p.parseExpr()
	}
	sp := token.Compose(start, p.prev)
	p.consumeOptionalSemi()
	return &ast.ReturnStmt{Value: val, Sp: sp}
}

func (p *parser) parseBreakStmt() ast.Stmt {
	start := p.tok.Span
	p.advance()
	var val ast.Expr
	if !p.atSym(token.Semi) && !p.at(token.EndLine) && !p.at(token.EndFile) && !p.atSym(token.RBrace) {
		val = p.parseExpr()
	}
	sp := token.Compose(start, p.prev)
	p.consumeOptionalSemi()
	return &ast.BreakStmt{Value: val, Sp: sp}
}

func (p *parser) parseFallStmt() ast.Stmt {
	start := p.tok.Span
	p.advance()
	var val ast.Expr
	if !p.atSym(token.Semi) && !p.at(token.EndLine) && !p.at(token.EndFile) && !p.atSym(token.RBrace) {
		val = p.parseExpr()
	}
	sp := token.Compose(start, p.prev)
	p.consumeOptionalSemi()
	return &ast.FallStmt{Value: val, Sp: sp}
}

var compoundAssignBySymbol = map[token.SymbolKind]ast.CompoundAssignOp{
	token.PlusEq: ast.CompoundAdd, token.MinusEq: ast.CompoundSub,
	token.StarEq: ast.CompoundMul, token.SlashEq: ast.CompoundDiv, token.PercentEq: ast.CompoundMod,
}

// parseSimpleStmt parses whatever begins with an expression: a plain
// expression statement, a variable declaration recognized by a following
// `:`/`:=`, an assignment, or a compound assignment.
func (p *parser) parseSimpleStmt() ast.Stmt {
	start := p.tok.Span

	if p.at(token.Ident) {
		if name, ty, init, ok := p.tryParseVarDeclAfterIdent(start); ok {
			sp := token.Compose(start, p.prev)
			p.consumeOptionalSemi()
			return &ast.VariableDecl{Name: name, Type: ty, Init: init, Sp: sp}
		}
	}

	expr := p.parseExpr()

	switch {
	case p.atSym(token.Assign):
		p.advance()
		val := p.parseExpr()
		sp := token.Compose(start, p.prev)
		p.consumeOptionalSemi()
		return &ast.AssignStmt{Target: expr, Value: val, Sp: sp}
	case p.tok.Kind == token.Symbol:
		if op, ok := compoundAssignBySymbol[p.tok.Sym]; ok {
			p.advance()
			val := p.parseExpr()
			sp := token.Compose(start, p.prev)
			p.consumeOptionalSemi()
			return &ast.CompoundAssignStmt{Op: op, Target: expr, Value: val, Sp: sp}
		}
	}

	ends := false
	if p.atSym(token.Semi) {
		ends = true
		p.advance()
	}
	return &ast.ExprStmt{Value: expr, EndsSemicolon: ends, Sp: token.Compose(start, expr.Span())}
}

// tryParseVarDeclAfterIdent recognizes `name : Type (= expr)?` and
// `name := expr`. It only commits (consuming tokens) once it has seen the
// ident followed by `:` or `:=`; any other shape leaves the cursor
// untouched so the caller falls through to expression parsing.
func (p *parser) tryParseVarDeclAfterIdent(start token.Span) (name string, ty *ast.Type, init ast.Expr, ok bool) {
	name = p.tok.Text
	if !p.nextIsColonForm() {
		return "", nil, nil, false
	}
	p.advance() // ident

	if p.atSym(token.ColonEq) {
		p.advance()
		init = p.parseExpr()
		return name, nil, init, true
	}
	p.advance() // ':'
	ty = p.parseType()
	if p.atSym(token.Assign) {
		p.advance()
		init = p.parseExpr()
	}
	return name, ty, init, true
}

// nextIsColonForm reports whether the ident currently in p.tok is
// immediately followed by ':' or ':=', the only shapes that start a
// variable declaration. The scanner has no undo, so this scans one token of
// lookahead into a throwaway copy of the scanner (a plain value copy, cheap
// since Scanner holds no pointers of its own) without disturbing p's real
// cursor.
func (p *parser) nextIsColonForm() bool {
	snapshot := *p.sc
	next := snapshot.Scan()
	return next.Kind == token.Symbol && (next.Sym == token.Colon || next.Sym == token.ColonEq)
}

func (p *parser) consumeOptionalSemi() {
	if p.atSym(token.Semi) {
		p.advance()
	}
}
