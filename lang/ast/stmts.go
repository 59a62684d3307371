package ast

import "github.com/soul-lang/soulc/lang/token"

// Block is a brace-delimited sequence of statements. It stays tree-shaped
// at the AST level (spec.md §3); HIR lowering is what hoists a trailing
// semicolon-less expression statement into a terminator (spec.md §4.3).
type Block struct {
	Stmts []Stmt
	Sp    token.Span
}

func (b *Block) Span() token.Span { return b.Sp }

// VariableDecl is `name : Type = expr` or `name := expr`. Resolved is the
// NodeID the collect pass assigns to this declaration (spec.md §3 slot
// rule, §4.2 invariant 1).
type VariableDecl struct {
	Name     string
	Type     *Type // nil when inferred (`:=` form)
	Init     Expr  // nil when the declaration has no initializer
	Resolved *NodeID
	Sp       token.Span
}

func (s *VariableDecl) Span() token.Span      { return s.Sp }
func (*VariableDecl) stmtNode()               {}
func (s *VariableDecl) DeclNodeID() *NodeID   { return s.Resolved }

// Param is one function parameter.
type Param struct {
	Name string
	Type *Type
	Sp   token.Span
}

// FunctionDecl is a top-level or nested function declaration. Per spec.md
// §3 ("Function... variant that may be referenced later carries an
// Option<NodeId>"), Resolved identifies the declaration so calls can bind
// to it as an overload candidate.
type FunctionDecl struct {
	Name       string
	Generics   []string
	Params     []Param
	ReturnType *Type // nil means `none`
	Body       *Block
	Resolved   *NodeID
	Sp         token.Span
}

func (s *FunctionDecl) Span() token.Span    { return s.Sp }
func (*FunctionDecl) stmtNode()             {}
func (s *FunctionDecl) DeclNodeID() *NodeID { return s.Resolved }

// NominalKind tags what kind of nominal-type declaration a NominalDecl is.
type NominalKind uint8

const (
	NominalStruct NominalKind = iota
	NominalClass
	NominalTrait
	NominalEnum
	NominalUnion
)

// Field is one member of a struct/class body.
type Field struct {
	Name string
	Type *Type
}

// NominalDecl is a struct/class/trait/enum/union declaration. Per spec.md
// §9, these are present in the AST and given NodeIDs by the collect pass
// so that references to their names resolve, but lang/hir does not lower
// their bodies (a follow-on spec, per the Open Questions).
type NominalDecl struct {
	Kind     NominalKind
	Name     string
	Generics []string
	Fields   []Field
	Methods  []*FunctionDecl
	Resolved *NodeID
	Sp       token.Span
}

func (s *NominalDecl) Span() token.Span    { return s.Sp }
func (*NominalDecl) stmtNode()             {}
func (s *NominalDecl) DeclNodeID() *NodeID { return s.Resolved }

// AssignStmt is `target = value`. The parser keeps Target as a plain Expr;
// HIR lowering turns it into a place (only Local/Deref/Index/Field shapes
// are legal, checked by HIR lowering per spec.md §4.3).
type AssignStmt struct {
	Target Expr
	Value  Expr
	Sp     token.Span
}

func (s *AssignStmt) Span() token.Span { return s.Sp }
func (*AssignStmt) stmtNode()          {}

// CompoundAssignOp is a compound-assignment operator, desugared by HIR
// into binary+assign (spec.md §2 "HIR lowerer... Desugars:... compound
// assignments→binary+assign").
type CompoundAssignOp uint8

const (
	CompoundAdd CompoundAssignOp = iota
	CompoundSub
	CompoundMul
	CompoundDiv
	CompoundMod
)

// CompoundAssignStmt is `target += value` and friends.
type CompoundAssignStmt struct {
	Op     CompoundAssignOp
	Target Expr
	Value  Expr
	Sp     token.Span
}

func (s *CompoundAssignStmt) Span() token.Span { return s.Sp }
func (*CompoundAssignStmt) stmtNode()          {}

// ExprStmt is an expression used as a statement. EndsSemicolon records
// whether the statement was written with a trailing `;`; the block
// terminator rule of spec.md §4.3 depends on this flag.
type ExprStmt struct {
	Value         Expr
	EndsSemicolon bool
	Sp            token.Span
}

func (s *ExprStmt) Span() token.Span { return s.Sp }
func (*ExprStmt) stmtNode()          {}

// ReturnStmt/BreakStmt/ContinueStmt/FallStmt are the four control-transfer
// statements of spec.md §3. Value is nil for a bare `return`/`break`/
// `fall`; `continue` never carries a value.
type ReturnStmt struct {
	Value Expr
	Sp    token.Span
}

func (s *ReturnStmt) Span() token.Span { return s.Sp }
func (*ReturnStmt) stmtNode()          {}

type BreakStmt struct {
	Value Expr
	Sp    token.Span
}

func (s *BreakStmt) Span() token.Span { return s.Sp }
func (*BreakStmt) stmtNode()          {}

type ContinueStmt struct{ Sp token.Span }

func (s *ContinueStmt) Span() token.Span { return s.Sp }
func (*ContinueStmt) stmtNode()          {}

// FallStmt is `fall`, a fallthrough-style statement (surfaced in the AST,
// see spec.md §3's statement list; match/switch lowering is out of scope
// per §9 so FallStmt never survives past HIR in practice).
type FallStmt struct {
	Value Expr
	Sp    token.Span
}

func (s *FallStmt) Span() token.Span { return s.Sp }
func (*FallStmt) stmtNode()          {}

// BlockStmt is a bare `{ ... }` used as a statement.
type BlockStmt struct {
	Body *Block
	Sp   token.Span
}

func (s *BlockStmt) Span() token.Span { return s.Sp }
func (*BlockStmt) stmtNode()          {}

// IfStmt wraps an IfExpr used in statement position (an if with no value
// consumed).
type IfStmt struct {
	If *IfExpr
	Sp token.Span
}

func (s *IfStmt) Span() token.Span { return s.Sp }
func (*IfStmt) stmtNode()          {}

// WhileStmt wraps a WhileExpr used in statement position.
type WhileStmt struct {
	While *WhileExpr
	Sp    token.Span
}

func (s *WhileStmt) Span() token.Span { return s.Sp }
func (*WhileStmt) stmtNode()          {}

// ForStmt is `for pat in collection { body }`, desugared by HIR into a
// while loop over an iterator (spec.md §4.3); the iterator calls HIR emits
// carry no method name and resolve to no function.
type ForStmt struct {
	Pattern    string
	Collection Expr
	Body       *Block
	Resolved   *NodeID // NodeID of the synthesized loop-pattern binding
	Sp         token.Span
}

func (s *ForStmt) Span() token.Span    { return s.Sp }
func (*ForStmt) stmtNode()             {}
func (s *ForStmt) DeclNodeID() *NodeID { return s.Resolved }

// UseStmt / ImportStmt name external or internal dependencies. Module
// resolution across files is out of scope (spec.md §1 Non-goals); these
// are parsed and given NodeIDs like any other declaration, but the
// resolver does not attempt to load the referenced module.
type UseStmt struct {
	Path     string
	Resolved *NodeID
	Sp       token.Span
}

func (s *UseStmt) Span() token.Span    { return s.Sp }
func (*UseStmt) stmtNode()             {}
func (s *UseStmt) DeclNodeID() *NodeID { return s.Resolved }

type ImportStmt struct {
	Path     string
	Resolved *NodeID
	Sp       token.Span
}

func (s *ImportStmt) Span() token.Span    { return s.Sp }
func (*ImportStmt) stmtNode()             {}
func (s *ImportStmt) DeclNodeID() *NodeID { return s.Resolved }

// ErrorStmt substitutes for a statement that failed to parse; the parser
// emits one and resumes at the next statement boundary (spec.md §4.1
// "Failure recovery").
type ErrorStmt struct{ Sp token.Span }

func (s *ErrorStmt) Span() token.Span { return s.Sp }
func (*ErrorStmt) stmtNode()          {}
