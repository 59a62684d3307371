package ast

import "github.com/soul-lang/soulc/lang/token"

// The expression kinds below are the closed sum type of spec.md §9: an
// exhaustive, non-extensible set of concrete Go types, dispatched by type
// switch in every consuming stage (resolver, HIR lowerer, inferencer, MIR
// lowerer). New variants are added at the language level only.

// LiteralKind tags a LiteralExpr's payload.
type LiteralKind uint8

const (
	LitInt LiteralKind = iota
	LitUint
	LitFloat
	LitBool
	LitChar
	LitStr
)

// LiteralExpr is a literal value (spec.md §4.3: its HIR type depends on
// LiteralKind — Int/Uint/Float become the untyped_* primitives awaiting
// inference, Bool/Char/Str are already concretely typed).
type LiteralExpr struct {
	Kind  LiteralKind
	Raw   string
	Int   int64
	Uint  uint64
	Float float64
	Bool  bool
	Char  rune
	Str   string
	Sp    token.Span
}

func (e *LiteralExpr) Span() token.Span { return e.Sp }
func (*LiteralExpr) exprNode()          {}

// NullExpr is the `null` literal.
type NullExpr struct{ Sp token.Span }

func (e *NullExpr) Span() token.Span { return e.Sp }
func (*NullExpr) exprNode()          {}

// IdentExpr is a reference to a variable or function by name. Resolved is
// the NodeID slot filled by the resolver's resolve pass (spec.md §4.2); it
// is nil until then, per the AST's slot-based design.
type IdentExpr struct {
	Name     string
	Resolved *NodeID
	Sp       token.Span
}

func (e *IdentExpr) Span() token.Span { return e.Sp }
func (*IdentExpr) exprNode()          {}

// UnaryOp is one of the unary-position operators of spec.md §4.1.
type UnaryOp uint8

const (
	UnaryNot     UnaryOp = iota // !
	UnaryNeg                    // unary -
	UnaryPreInc                 // prefix ++
	UnaryPreDec                 // prefix --
	UnaryDeref                  // * (deref)
	UnaryMutRef                 // & (mut-ref)
	UnaryConstRef                // @ (const-ref)
)

// UnaryExpr is a prefix unary operator application.
type UnaryExpr struct {
	Op      UnaryOp
	Operand Expr
	Sp      token.Span
}

func (e *UnaryExpr) Span() token.Span { return e.Sp }
func (*UnaryExpr) exprNode()          {}

// PostfixOp is one of the two postfix operators (spec.md §4.1: "Postfix
// ++/-- attaches after the primary").
type PostfixOp uint8

const (
	PostfixInc PostfixOp = iota
	PostfixDec
)

// PostfixExpr is a postfix ++ / --.
type PostfixExpr struct {
	Op      PostfixOp
	Operand Expr
	Sp      token.Span
}

func (e *PostfixExpr) Span() token.Span { return e.Sp }
func (*PostfixExpr) exprNode()          {}

// BinaryOp is a binary operator recognised by the precedence-climbing
// parser (spec.md §4.1).
type BinaryOp uint8

const (
	BinOrOr BinaryOp = iota
	BinAndAnd
	BinPipe
	BinCaret
	BinEq
	BinNotEq
	BinLt
	BinLtEq
	BinGt
	BinGtEq
	BinAdd
	BinSub
	BinMul
	BinDiv
	BinMod
	BinAt // @ used infix
	BinPow
	BinSlashLt
)

// BinaryExpr is a binary operator application, the product of the Pratt
// parser's precedence-climbing fold (spec.md §4.1).
type BinaryExpr struct {
	Op    BinaryOp
	Left  Expr
	Right Expr
	Sp    token.Span
}

func (e *BinaryExpr) Span() token.Span { return e.Sp }
func (*BinaryExpr) exprNode()          {}

// IndexExpr is `base[index]`.
type IndexExpr struct {
	Base  Expr
	Index Expr
	Sp    token.Span
}

func (e *IndexExpr) Span() token.Span { return e.Sp }
func (*IndexExpr) exprNode()          {}

// FieldExpr is `base.name` field/method access.
type FieldExpr struct {
	Base Expr
	Name string
	Sp   token.Span
}

func (e *FieldExpr) Span() token.Span { return e.Sp }
func (*FieldExpr) exprNode()          {}

// CallExpr is a function or method call. Candidates is the resolver's
// overload-candidate vector (spec.md §4.2: "collects the entire candidate
// vector... into candidates"); the final single candidate is chosen during
// type inference (spec.md §4.4 scenario 6), not here.
type CallExpr struct {
	Name       string
	Callee     Expr // non-nil for a method-style call (base.Name(...))
	Args       []Expr
	Candidates []NodeID
	Sp         token.Span
}

func (e *CallExpr) Span() token.Span { return e.Sp }
func (*CallExpr) exprNode()          {}

// AsExpr is a cast expression `value as Type`.
type AsExpr struct {
	Value  Expr
	CastTo *Type
	Sp     token.Span
}

func (e *AsExpr) Span() token.Span { return e.Sp }
func (*AsExpr) exprNode()          {}

// ElseArm is the tail of an if/elif/else chain: nil (no else), *IfExpr (an
// `elif`), or *Block (a final `else`).
type ElseArm struct {
	ElseIf *IfExpr
	Else   *Block
}

// IfExpr is an if/elif/else chain, parsed as a tree (spec.md §3: "if/while/
// block remain tree-shaped") and only later flattened into MIR blocks.
type IfExpr struct {
	Cond Expr
	Then *Block
	Arm  *ElseArm
	Sp   token.Span
}

func (e *IfExpr) Span() token.Span { return e.Sp }
func (*IfExpr) exprNode()          {}

// WhileExpr is a while loop; Cond is nil for the unconditional
// `while { ... }` form, with no expression before the body (spec.md §4.5
// treats the no-condition case explicitly).
type WhileExpr struct {
	Cond Expr
	Body *Block
	Sp   token.Span
}

func (e *WhileExpr) Span() token.Span { return e.Sp }
func (*WhileExpr) exprNode()          {}

// BlockExpr wraps a Block used in expression position.
type BlockExpr struct {
	Body *Block
	Sp   token.Span
}

func (e *BlockExpr) Span() token.Span { return e.Sp }
func (*BlockExpr) exprNode()          {}

// ArrayExpr is an array literal `[e1, e2, ...]`.
type ArrayExpr struct {
	Elems []Expr
	Sp    token.Span
}

func (e *ArrayExpr) Span() token.Span { return e.Sp }
func (*ArrayExpr) exprNode()          {}

// TupleExpr is a parenthesised tuple literal `(e1, e2, ...)`.
type TupleExpr struct {
	Elems []Expr
	Sp    token.Span
}

func (e *TupleExpr) Span() token.Span { return e.Sp }
func (*TupleExpr) exprNode()          {}

// MatchArm is one `pattern => body` arm of a MatchExpr.
type MatchArm struct {
	Pattern Expr
	Body    Expr
}

// MatchExpr is a match/switch expression. Per spec.md §9 ("Match/switch
// expressions appear in AST but their lowering is marked todo"), the AST
// carries it so parsing never fails on the keyword, but lang/hir refuses
// to lower it (InvalidContext).
type MatchExpr struct {
	Subject Expr
	Arms    []MatchArm
	Sp      token.Span
}

func (e *MatchExpr) Span() token.Span { return e.Sp }
func (*MatchExpr) exprNode()          {}

// ErrorExpr substitutes for an expression that failed to parse, allowing
// the surrounding tree to stay well-formed so later stages can keep
// walking it (consistent with the "stages degrade by substituting error
// sentinels" rule of spec.md §2).
type ErrorExpr struct{ Sp token.Span }

func (e *ErrorExpr) Span() token.Span { return e.Sp }
func (*ErrorExpr) exprNode()          {}
