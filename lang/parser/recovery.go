package parser

import "github.com/soul-lang/soulc/lang/token"

// recoverToStmtBoundary skips tokens until the parser is positioned just
// past a statement-ending `;`, at a `}`, at an EndLine, or at end of file.
// This is the parser's fault-tolerance mechanism (spec.md §4.1 "Failure
// recovery"): a malformed statement does not abort the parse, it is
// replaced by an ast.ErrorStmt and the parser resynchronizes here.
func (p *parser) recoverToStmtBoundary() {
	for {
		switch {
		case p.at(token.EndFile):
			return
		case p.atSym(token.Semi):
			p.advance()
			return
		case p.atSym(token.RBrace):
			return
		case p.at(token.EndLine):
			return
		}
		p.advance()
	}
}
