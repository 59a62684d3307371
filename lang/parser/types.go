package parser

import (
	"github.com/soul-lang/soulc/lang/ast"
	"github.com/soul-lang/soulc/lang/diag"
	"github.com/soul-lang/soulc/lang/token"
)

// primitiveNames is the set of built-in scalar type keywords (spec.md §4.1
// Type grammar); anything else in base position is a StubType, rewritten by
// the resolver once its declaration is known.
var primitiveNames = map[string]bool{
	"none": true, "bool": true, "char": true, "str": true,
	"int": true, "uint": true, "float": true,
	"i8": true, "i16": true, "i32": true, "i64": true,
	"u8": true, "u16": true, "u32": true, "u64": true,
	"f32": true, "f64": true,
	"untyped_int": true, "untyped_uint": true, "untyped_float": true,
}

// parseType parses the Type grammar: an optional modifier keyword
// (mut/const/literal), a left-to-right wrapper sequence, and a base.
func (p *parser) parseType() *ast.Type {
	start := p.tok.Span
	ty := &ast.Type{}

	if p.at(token.Ident) {
		if m, ok := token.LookupModifier(p.tok.Text); ok {
			ty.Modifier = m
			p.advance()
		}
	}

	for {
		switch {
		case p.atSym(token.Star):
			ty.Wrappers = append(ty.Wrappers, ast.Wrapper{Kind: ast.WrapPointer})
			p.advance()
		case p.atSym(token.Amp):
			ty.Wrappers = append(ty.Wrappers, ast.Wrapper{Kind: ast.WrapMutRef})
			p.advance()
		case p.atSym(token.At):
			ty.Wrappers = append(ty.Wrappers, ast.Wrapper{Kind: ast.WrapConstRef})
			p.advance()
		case p.atSym(token.Question):
			ty.Wrappers = append(ty.Wrappers, ast.Wrapper{Kind: ast.WrapOptional})
			p.advance()
		case p.atSym(token.LBrack):
			p.advance()
			if p.atSym(token.RBrack) {
				p.advance()
				ty.Wrappers = append(ty.Wrappers, ast.Wrapper{Kind: ast.WrapHeapArray})
			} else {
				length := p.parseExpr()
				p.expectSym(token.RBrack)
				ty.Wrappers = append(ty.Wrappers, ast.Wrapper{Kind: ast.WrapStackArray, Len: length})
			}
		default:
			ty.Base = p.parseTypeBase()
			ty.Sp = token.Compose(start, p.prev)
			return ty
		}
	}
}

func (p *parser) parseTypeBase() ast.TypeBase {
	switch {
	case p.atSym(token.LParen):
		p.advance()
		var elems []*ast.Type
		for !p.atSym(token.RParen) && !p.at(token.EndFile) {
			elems = append(elems, p.parseType())
			if !p.atSym(token.Comma) {
				break
			}
			p.advance()
		}
		p.expectSym(token.RParen)
		return ast.TupleType{Elems: elems}
	case p.atSym(token.LBrace):
		p.advance()
		var fields []ast.NamedTupleField
		for !p.atSym(token.RBrace) && !p.at(token.EndFile) {
			name, _ := p.expectIdent()
			p.expectSym(token.Colon)
			fields = append(fields, ast.NamedTupleField{Name: name, Type: p.parseType()})
			if !p.atSym(token.Comma) {
				break
			}
			p.advance()
		}
		p.expectSym(token.RBrace)
		return ast.NamedTupleType{Fields: fields}
	case p.at(token.Ident):
		name := p.tok.Text
		p.advance()
		if name == "none" {
			return ast.NoneType{}
		}
		if primitiveNames[name] {
			return ast.PrimitiveType{Name: name}
		}
		return &ast.StubType{Name: name}
	default:
		p.errorf(diag.UnexpectedToken, "expected a type, found %s", p.describe())
		return ast.PrimitiveType{Name: "untyped_int"}
	}
}
