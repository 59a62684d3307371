// Package hir implements the HIR lowering stage of spec.md §4.3: it reads
// the resolved AST and produces a desugared, type-interned intermediate
// representation keyed by dense ids (spec.md §3's universal handle idiom,
// applied to a new set of arenas — expressions, statements, blocks, locals
// and functions each get their own id space and their own dense map).
package hir

import (
	"github.com/soul-lang/soulc/lang/ast"
	"github.com/soul-lang/soulc/lang/ids"
	"github.com/soul-lang/soulc/lang/token"
)

// ExpressionID, StatementID, BlockID, LocalID and FunctionID are the dense
// handles of their respective HIR arenas.
type (
	ExpressionID int32
	StatementID  int32
	BlockID      int32
	LocalID      int32
	FunctionID   int32
)

// Error sentinels, substituted whenever a fault prevents a real id from
// being produced (spec.md §7 "stage substitutes an error sentinel").
const (
	ErrorExpressionID ExpressionID = -1
	ErrorStatementID   StatementID = -1
	ErrorBlockID       BlockID     = -1
	ErrorLocalID       LocalID     = -1
	ErrorFunctionID    FunctionID  = -1
)

// PlaceKind tags the shape of an assignment/load target (spec.md §4.3
// "lower lhs to a Place (Local/Deref/Index/Field only)").
type PlaceKind uint8

const (
	PlaceLocal PlaceKind = iota
	PlaceDeref
	PlaceIndex
	PlaceField
)

// Place is an lvalue: a local, or a dereference/index/field projection of
// a nested Place.
type Place struct {
	Kind  PlaceKind
	Local LocalID      // PlaceLocal
	Base  *Place       // PlaceDeref/PlaceIndex/PlaceField
	Index ExpressionID // PlaceIndex
	Field string       // PlaceField
}

// ExpressionKind tags the shape of an Expression. Every HIR expression
// carries exactly one of the kind-specific payload fields below.
type ExpressionKind uint8

const (
	ExprError ExpressionKind = iota
	ExprLiteral
	ExprNull
	ExprLoad
	ExprRef
	ExprCall
	ExprCast
	ExprUnary
	ExprBinary
	ExprIf
	ExprWhile
	ExprBlock
	ExprArray
	ExprTuple
)

// RefExpr is `&expr` / `@expr` (spec.md §4.3's "only place the HIR lowerer
// may insert additional statements" rule lives in the lowering of this
// node, not in its shape).
type RefExpr struct {
	Mutable bool
	Place   Place
}

// CallExpr is a function or method call. Function is the HIR-table id of
// the resolved callee (ErrorFunctionID if it could not be determined);
// Callee is the receiver expression for a method-style call. Candidates
// carries every overload the resolver found for this call's name (spec.md
// §4.4 scenario 6); when it holds more than one entry, Function is only the
// lowerer's first-candidate placeholder and type inference narrows it to
// the single argument-compatible overload, rewriting Function in place.
type CallExpr struct {
	Function   FunctionID
	Candidates []FunctionID
	Callee     *ExpressionID
	Args       []ExpressionID
}

// CastExpr is `value as Type`.
type CastExpr struct {
	Value ExpressionID
	To    TypeID
}

// UnaryExpr covers both prefix (`!`, unary `-`, prefix `++`/`--`) and
// postfix (`++`/`--`) operator application, reusing the AST's own operator
// enums rather than duplicating them.
type UnaryExpr struct {
	Prefix    bool
	UnaryOp   ast.UnaryOp   // meaningful when Prefix
	PostfixOp ast.PostfixOp // meaningful when !Prefix
	Operand   ExpressionID
}

// BinaryExpr is a binary operator application.
type BinaryExpr struct {
	Op    ast.BinaryOp
	Left  ExpressionID
	Right ExpressionID
}

// IfArm is the tail of an if/elif/else chain.
type IfArm struct {
	ElseIf *If
	Else   *BlockID
}

// If is an if/elif/else chain (spec.md §4.3 "lowered into the HIR
// If{condition, body, else_arm}").
type If struct {
	Cond ExpressionID
	Then BlockID
	Arm  *IfArm
}

// While is a while loop; Cond is nil for an unconditional `loop { }`.
type While struct {
	Cond *ExpressionID
	Body BlockID
}

// Expression is one HIR expression node.
type Expression struct {
	Kind    ExpressionKind
	Literal *ast.LiteralExpr
	Place   *Place
	Ref     *RefExpr
	Call    *CallExpr
	Cast    *CastExpr
	Unary   *UnaryExpr
	Binary  *BinaryExpr
	If      *If
	While   *While
	Block   BlockID
	Elems   []ExpressionID // ExprArray/ExprTuple
	Sp      token.Span
}

// StatementKind tags the shape of a Statement.
type StatementKind uint8

const (
	StmtError StatementKind = iota
	StmtVariable
	StmtAssign
	StmtExpression
	StmtReturn
	StmtBreak
	StmtContinue
	StmtFall
)

// VariableStatement allocates and initializes a new local.
type VariableStatement struct {
	Local LocalID
	Type  TypeID
	Value ExpressionID // ErrorExpressionID when there is no initializer
}

// AssignStatement assigns Value into Place.
type AssignStatement struct {
	Place Place
	Value ExpressionID
}

// ExpressionStatement is an expression used as a statement.
type ExpressionStatement struct {
	Value         ExpressionID
	EndsSemicolon bool
}

// Statement is one HIR statement.
type Statement struct {
	Kind       StatementKind
	Variable   *VariableStatement
	Assign     *AssignStatement
	Expression *ExpressionStatement
	Value      *ExpressionID // StmtReturn/StmtBreak/StmtFall, nil when bare
	Sp         token.Span
}

// Block is a lowered statement sequence plus the hoisted tail expression
// that becomes its value (spec.md §4.3 "block terminator rule").
type Block struct {
	Statements []StatementID
	Terminator *ExpressionID // nil means the block's type is `none`
}

// Param is one lowered function parameter.
type Param struct {
	Local LocalID
	Type  TypeID
}

// Function is a lowered function declaration.
type Function struct {
	Name       string
	NodeID     ast.NodeID
	Params     []Param
	ReturnType TypeID
	Body       BlockID
}

// Program is the full output of a lowering: every arena plus the type
// table, handed whole to the inferencer and then to lang/mir.
type Program struct {
	Expressions *ids.Arena[ExpressionID, Expression]
	Statements  *ids.Arena[StatementID, Statement]
	Blocks      *ids.Arena[BlockID, Block]
	Locals      *ids.Arena[LocalID, TypeID]
	Functions   *ids.Arena[FunctionID, Function]
	Types       *TypesMap
}

func newProgram() *Program {
	return &Program{
		Expressions: ids.NewArena[ExpressionID, Expression](),
		Statements:  ids.NewArena[StatementID, Statement](),
		Blocks:      ids.NewArena[BlockID, Block](),
		Locals:      ids.NewArena[LocalID, TypeID](),
		Functions:   ids.NewArena[FunctionID, Function](),
		Types:       NewTypesMap(),
	}
}
