package parser

import (
	"strconv"

	"github.com/soul-lang/soulc/lang/ast"
	"github.com/soul-lang/soulc/lang/diag"
	"github.com/soul-lang/soulc/lang/token"
)

// parseExpr parses a full expression via precedence climbing, starting at
// the lowest precedence band (spec.md §4.1).
func (p *parser) parseExpr() ast.Expr {
	return p.parseBinary(0)
}

var binaryOpBySymbol = map[token.SymbolKind]ast.BinaryOp{
	token.OrOr: ast.BinOrOr, token.AndAnd: ast.BinAndAnd,
	token.Pipe: ast.BinPipe, token.Caret: ast.BinCaret,
	token.EqEq: ast.BinEq, token.NotEq: ast.BinNotEq,
	token.Lt: ast.BinLt, token.LtEq: ast.BinLtEq, token.Gt: ast.BinGt, token.GtEq: ast.BinGtEq,
	token.Plus: ast.BinAdd, token.Minus: ast.BinSub,
	token.Star: ast.BinMul, token.Slash: ast.BinDiv, token.Percent: ast.BinMod, token.At: ast.BinAt,
	token.StarStar: ast.BinPow, token.SlashLt: ast.BinSlashLt,
}

// parseBinary implements the shared precedence-climbing loop: it parses a
// unary expression, then repeatedly folds in binary operators whose
// precedence is >= minPrec, matching the token/scanner's shared precedence
// table (spec.md §4.1).
func (p *parser) parseBinary(minPrec int) ast.Expr {
	left := p.parseUnary()
	for {
		if p.tok.Kind != token.Symbol {
			return left
		}
		prec, ok := token.Precedence(p.tok.Sym)
		if !ok || prec < minPrec {
			return left
		}
		op := binaryOpBySymbol[p.tok.Sym]
		opSpan := p.tok.Span
		p.advance()
		right := p.parseBinary(prec + 1)
		left = &ast.BinaryExpr{Op: op, Left: left, Right: right, Sp: token.Compose(opSpan, right.Span())}
	}
}

var unaryOpBySymbol = map[token.SymbolKind]ast.UnaryOp{
	token.Bang: ast.UnaryNot, token.Minus: ast.UnaryNeg,
	token.PlusPlus: ast.UnaryPreInc, token.MinusMinus: ast.UnaryPreDec,
	token.Star: ast.UnaryDeref, token.Amp: ast.UnaryMutRef, token.At: ast.UnaryConstRef,
}

func (p *parser) parseUnary() ast.Expr {
	if p.tok.Kind == token.Symbol && token.IsUnaryPrefix(p.tok.Sym) {
		op := unaryOpBySymbol[p.tok.Sym]
		start := p.tok.Span
		p.advance()
		operand := p.parseUnary()
		return &ast.UnaryExpr{Op: op, Operand: operand, Sp: token.Compose(start, operand.Span())}
	}
	return p.parsePostfixAndAccess()
}

// parsePostfixAndAccess parses a primary expression then folds in the
// highest-precedence suffixes: call, index, field access, postfix ++/--,
// and `as` casts, left to right (spec.md §4.1 access precedence band).
func (p *parser) parsePostfixAndAccess() ast.Expr {
	e := p.parsePrimary()
	for {
		switch {
		case p.atSym(token.LParen):
			e = p.parseCallArgs(e)
		case p.atSym(token.Lt):
			if call, ok := p.tryParseGenericCallArgs(e); ok {
				e = call
			} else {
				return e
			}
		case p.atSym(token.LBrack):
			start := e.Span()
			p.advance()
			idx := p.parseExpr()
			p.expectSym(token.RBrack)
			e = &ast.IndexExpr{Base: e, Index: idx, Sp: token.Compose(start, p.prev)}
		case p.atSym(token.Dot):
			start := e.Span()
			p.advance()
			name, _ := p.expectIdent()
			e = &ast.FieldExpr{Base: e, Name: name, Sp: token.Compose(start, p.prev)}
		case p.tok.Kind == token.Symbol && token.IsPostfix(p.tok.Sym):
			op := ast.PostfixInc
			if p.tok.Sym == token.MinusMinus {
				op = ast.PostfixDec
			}
			start := e.Span()
			p.advance()
			e = &ast.PostfixExpr{Op: op, Operand: e, Sp: token.Compose(start, p.prev)}
		case p.at(token.Ident) && p.tok.Text == "as":
			start := e.Span()
			p.advance()
			ty := p.parseType()
			e = &ast.AsExpr{Value: e, CastTo: ty, Sp: token.Compose(start, ty.Span())}
		default:
			return e
		}
	}
}

// tryParseGenericCallArgs attempts `<T, U>(args)` generic call syntax
// following callee. `<` is also the less-than operator, so this checkpoints
// before it and rewinds unless a balanced type-argument list is
// immediately followed by `(` — generic instantiation itself stays
// unrepresented on the call (spec.md §1 Non-goals: generic monomorphization
// is left to a later pass), only the syntax is recognized here.
func (p *parser) tryParseGenericCallArgs(callee ast.Expr) (ast.Expr, bool) {
	cp := p.checkpoint()
	p.advance() // '<'
	for !p.atSym(token.Gt) && !p.at(token.EndFile) {
		before := p.tok.Span
		p.parseType()
		if p.diags.Len() > cp.diagsLen || p.tok.Span == before {
			p.rewind(cp)
			return nil, false
		}
		if !p.atSym(token.Comma) {
			break
		}
		p.advance()
	}
	if !p.atSym(token.Gt) {
		p.rewind(cp)
		return nil, false
	}
	p.advance() // '>'
	if !p.atSym(token.LParen) {
		p.rewind(cp)
		return nil, false
	}
	return p.parseCallArgs(callee), true
}

func (p *parser) parseCallArgs(callee ast.Expr) ast.Expr {
	start := callee.Span()
	p.advance() // '('
	var args []ast.Expr
	for !p.atSym(token.RParen) && !p.at(token.EndFile) {
		args = append(args, p.parseExpr())
		if !p.atSym(token.Comma) {
			break
		}
		p.advance()
	}
	p.expectSym(token.RParen)
	name := ""
	if ident, ok := callee.(*ast.IdentExpr); ok {
		name = ident.Name
	} else if field, ok := callee.(*ast.FieldExpr); ok {
		name = field.Name
	}
	return &ast.CallExpr{Name: name, Callee: callee, Args: args, Sp: token.Compose(start, p.prev)}
}

func (p *parser) parsePrimary() ast.Expr {
	sp := p.tok.Span
	switch {
	case p.at(token.Number):
		tok := p.tok
		p.advance()
		switch tok.NumKind {
		case token.NumFloat:
			return &ast.LiteralExpr{Kind: ast.LitFloat, Raw: tok.Text, Float: tok.Float, Sp: sp}
		case token.NumUint:
			return &ast.LiteralExpr{Kind: ast.LitUint, Raw: tok.Text, Uint: tok.Uint, Sp: sp}
		default:
			return &ast.LiteralExpr{Kind: ast.LitInt, Raw: tok.Text, Int: tok.Int, Sp: sp}
		}
	case p.at(token.StringLiteral):
		tok := p.tok
		p.advance()
		return &ast.LiteralExpr{Kind: ast.LitStr, Raw: strconv.Quote(tok.Text), Str: tok.Text, Sp: sp}
	case p.at(token.CharLiteral):
		tok := p.tok
		p.advance()
		return &ast.LiteralExpr{Kind: ast.LitChar, Raw: string(tok.Char), Char: tok.Char, Sp: sp}
	case p.atKeyword(token.KwTrue):
		p.advance()
		return &ast.LiteralExpr{Kind: ast.LitBool, Raw: "true", Bool: true, Sp: sp}
	case p.atKeyword(token.KwFalse):
		p.advance()
		return &ast.LiteralExpr{Kind: ast.LitBool, Raw: "false", Bool: false, Sp: sp}
	case p.atKeyword(token.KwNull):
		p.advance()
		return &ast.NullExpr{Sp: sp}
	case p.atKeyword(token.KwIf):
		return p.parseIfExpr()
	case p.atKeyword(token.KwWhile):
		return p.parseWhileExpr()
	case p.atKeyword(token.KwMatch):
		return p.parseMatchExpr()
	case p.at(token.Ident):
		name := p.tok.Text
		p.advance()
		return &ast.IdentExpr{Name: name, Sp: sp}
	case p.atSym(token.LBrace):
		return p.parseBlockExpr()
	case p.atSym(token.LBrack):
		return p.parseArrayExpr()
	case p.atSym(token.LParen):
		return p.parseParenOrTuple()
	default:
		p.errorf(diag.InvalidExpression, "expected an expression, found %s", p.describe())
		p.advance()
		return &ast.ErrorExpr{Sp: sp}
	}
}

func (p *parser) parseParenOrTuple() ast.Expr {
	start := p.tok.Span
	p.advance() // '('
	if p.atSym(token.RParen) {
		p.advance()
		return &ast.TupleExpr{Sp: token.Compose(start, p.prev)}
	}
	first := p.parseExpr()
	if !p.atSym(token.Comma) {
		p.expectSym(token.RParen)
		return first
	}
	elems := []ast.Expr{first}
	for p.atSym(token.Comma) {
		p.advance()
		if p.atSym(token.RParen) {
			break
		}
		elems = append(elems, p.parseExpr())
	}
	p.expectSym(token.RParen)
	return &ast.TupleExpr{Elems: elems, Sp: token.Compose(start, p.prev)}
}

func (p *parser) parseArrayExpr() ast.Expr {
	start := p.tok.Span
	p.advance() // '['
	var elems []ast.Expr
	for !p.atSym(token.RBrack) && !p.at(token.EndFile) {
		elems = append(elems, p.parseExpr())
		if !p.atSym(token.Comma) {
			break
		}
		p.advance()
	}
	p.expectSym(token.RBrack)
	return &ast.ArrayExpr{Elems: elems, Sp: token.Compose(start, p.prev)}
}

func (p *parser) parseBlockExpr() ast.Expr {
	start := p.tok.Span
	b := p.parseBlock()
	return &ast.BlockExpr{Body: b, Sp: token.Compose(start, b.Sp)}
}

func (p *parser) parseIfExpr() *ast.IfExpr {
	start := p.tok.Span
	p.advance() // 'if'
	cond := p.parseExpr()
	then := p.parseBlock()
	ie := &ast.IfExpr{Cond: cond, Then: then, Sp: token.Compose(start, then.Sp)}
	p.skipEndLinesBeforeElse()
	if p.atKeyword(token.KwElif) {
		p.advance()
		elifCond := p.parseExpr()
		elifThen := p.parseBlock()
		elifArm := &ast.ElseArm{}
		elif := &ast.IfExpr{Cond: elifCond, Then: elifThen, Arm: elifArm, Sp: token.Compose(start, elifThen.Sp)}
		p.fillElseArm(elif.Arm, &elif.Sp)
		ie.Arm = &ast.ElseArm{ElseIf: elif}
		ie.Sp = token.Compose(ie.Sp, elif.Sp)
	} else if p.atKeyword(token.KwElse) {
		p.advance()
		elseBlock := p.parseBlock()
		ie.Arm = &ast.ElseArm{Else: elseBlock}
		ie.Sp = token.Compose(ie.Sp, elseBlock.Sp)
	}
	return ie
}

// fillElseArm recursively attaches further elif/else arms onto a nested
// elif node built inline by parseIfExpr.
func (p *parser) fillElseArm(arm *ast.ElseArm, outerSp *token.Span) {
	p.skipEndLinesBeforeElse()
	if p.atKeyword(token.KwElif) {
		p.advance()
		cond := p.parseExpr()
		then := p.parseBlock()
		nested := &ast.ElseArm{}
		inner := &ast.IfExpr{Cond: cond, Then: then, Arm: nested, Sp: token.Compose(then.Sp, then.Sp)}
		p.fillElseArm(nested, &inner.Sp)
		arm.ElseIf = inner
		*outerSp = token.Compose(*outerSp, inner.Sp)
	} else if p.atKeyword(token.KwElse) {
		p.advance()
		blk := p.parseBlock()
		arm.Else = blk
		*outerSp = token.Compose(*outerSp, blk.Sp)
	}
}

// skipEndLinesBeforeElse allows `elif`/`else` to start on the line after a
// closing brace without being treated as a separate statement. It consumes
// the EndLine tokens even when no elif/else follows; the enclosing block
// skips EndLine tokens between statements anyway.
func (p *parser) skipEndLinesBeforeElse() {
	p.skipEndLines()
}

func (p *parser) parseWhileExpr() *ast.WhileExpr {
	start := p.tok.Span
	p.advance() // 'while'
	var cond ast.Expr
	if !p.atSym(token.LBrace) {
		cond = p.parseExpr()
	}
	body := p.parseBlock()
	return &ast.WhileExpr{Cond: cond, Body: body, Sp: token.Compose(start, body.Sp)}
}

func (p *parser) parseMatchExpr() ast.Expr {
	start := p.tok.Span
	p.advance() // 'match'
	subject := p.parseExpr()
	p.expectSym(token.LBrace)
	var arms []ast.MatchArm
	p.skipEndLines()
	for !p.atSym(token.RBrace) && !p.at(token.EndFile) {
		pattern := p.parseExpr()
		p.expectSym(token.FatArrow)
		body := p.parseExpr()
		arms = append(arms, ast.MatchArm{Pattern: pattern, Body: body})
		if p.atSym(token.Comma) {
			p.advance()
		}
		p.skipEndLines()
	}
	p.expectSym(token.RBrace)
	return &ast.MatchExpr{Subject: subject, Arms: arms, Sp: token.Compose(start, p.prev)}
}
