// Package mir implements the MIR lowering stage of spec.md §4.5: a
// control-flow-explicit, expression-flattened tree built per function as a
// graph of basic blocks ending in terminators, grounded on the same
// block{insns,jmp,cjmp}-then-linearize shape as lang/compiler's bytecode
// compiler, adapted here to an unlinearized block graph rather than a
// flat instruction stream.
package mir

import (
	"github.com/soul-lang/soulc/lang/ast"
	"github.com/soul-lang/soulc/lang/hir"
	"github.com/soul-lang/soulc/lang/ids"
)

// BlockID, LocalID, StatementID, PlaceID and TempID are the dense handles
// of their respective MIR arenas.
type (
	BlockID     int32
	LocalID     int32
	StatementID int32
	PlaceID     int32
	TempID      int32
)

// Error sentinels, substituted when a fault prevents a real id (spec.md §7).
const (
	ErrorBlockID     BlockID     = -1
	ErrorLocalID     LocalID     = -1
	ErrorStatementID StatementID = -1
	ErrorPlaceID     PlaceID     = -1
	ErrorTempID      TempID      = -1
)

// PlaceKind tags the shape of a Place.
type PlaceKind uint8

const (
	PlaceTemp PlaceKind = iota
	PlaceDeref
	PlaceLocal
	PlaceIndex
	PlaceField
)

// Place is an assignable memory location. Index/Field bases name an
// already-interned PlaceID rather than nesting structs, matching the
// arena-of-ids idiom used by every other stage's tables.
type Place struct {
	Kind      PlaceKind
	Temp      TempID    // PlaceTemp
	Deref     Operand   // PlaceDeref
	Local     LocalID   // PlaceLocal
	IndexBase PlaceID   // PlaceIndex
	IndexOp   Operand   // PlaceIndex
	FieldBase PlaceID   // PlaceField
	FieldName string    // PlaceField
}

// OperandKind tags the shape of an Operand. OperandPlace is a supplement
// over the distilled source's Temp/Local/Comptime/None trio (see
// DESIGN.md): HIR's Load can target any Place — Deref, Index or Field, not
// only a bare local — and MIR needs a way to carry that read as a value.
type OperandKind uint8

const (
	OperandTemp OperandKind = iota
	OperandLocal
	OperandPlace
	OperandComptime
	OperandNone
)

// Operand is a value used by MIR: a temp, a local, a read of a compound
// place, a compile-time constant, or the unit value.
type Operand struct {
	Kind    OperandKind
	Type    hir.TypeID
	Temp    TempID
	Local   LocalID
	Place   PlaceID
	Literal *ast.LiteralExpr // OperandComptime, source literal; nil for `null` or a synthesized constant
	Int     int64            // OperandComptime, a constant synthesized during lowering (e.g. an aggregate index)
}

// RvalueKind tags the shape of an Rvalue.
type RvalueKind uint8

const (
	RvalUse RvalueKind = iota
	RvalBinary
	RvalUnary
	RvalCast      // supplement: HIR's Cast has no source-side Rvalue variant
	RvalAddr      // supplement: HIR's Ref has no source-side Rvalue variant
	RvalStackAlloc
)

// Rvalue is a right-hand-side computation assigned into a Place.
type Rvalue struct {
	Kind RvalueKind
	Use  Operand // RvalUse

	BinOp       ast.BinaryOp
	Left, Right Operand // RvalBinary

	UnaryIsPrefix bool
	UnaryOp       ast.UnaryOp   // meaningful when UnaryIsPrefix
	PostfixOp     ast.PostfixOp // meaningful when !UnaryIsPrefix
	Value         Operand       // RvalUnary

	CastTo hir.TypeID // RvalCast

	AddrOf  PlaceID // RvalAddr
	AddrMut bool    // RvalAddr

	AllocType hir.TypeID // RvalStackAlloc
	AllocLen  Operand    // RvalStackAlloc
}

// StatementKind tags the shape of a Statement.
type StatementKind uint8

const (
	StmtEval StatementKind = iota
	StmtAssign
	StmtStorageStart
	StmtStorageDead
)

// Statement performs a side effect or computes a value into a Place.
type Statement struct {
	Kind          StatementKind
	Eval          Operand       // StmtEval
	AssignPlace   PlaceID       // StmtAssign
	AssignValue   Rvalue        // StmtAssign
	StorageLocals []LocalID     // StmtStorageStart
	StorageLocal  LocalID       // StmtStorageDead
}

// TerminatorKind tags the shape of a Terminator.
type TerminatorKind uint8

const (
	TermReturn TerminatorKind = iota
	TermGoto
	TermIf
	TermCall
	TermUnreachable
)

// Terminator describes the control-flow edges leaving a Block.
type Terminator struct {
	Kind TerminatorKind

	ReturnValue *Operand // TermReturn, nil for a `none`-returning function

	Goto BlockID // TermGoto

	CondOperand Operand // TermIf
	Then        BlockID // TermIf
	Else        BlockID // TermIf

	CallFunction    hir.FunctionID // TermCall
	CallArgs        []Operand      // TermCall
	CallReturnPlace *PlaceID       // TermCall, nil when the callee returns `none`
	CallNext        BlockID        // TermCall
}

// Block is a linear statement list ending in a Terminator (spec.md §4.5
// "Per function: allocate an entry block; walk the HIR body producing
// statements and terminators").
type Block struct {
	ID         BlockID
	Terminator Terminator
	Statements []StatementID
}

// Function is a lowered function: its parameter/local list, block graph,
// and return type.
type Function struct {
	ID         hir.FunctionID
	Name       string
	Parameters []LocalID
	Locals     []LocalID
	Blocks     []BlockID
	ReturnType hir.TypeID
}

// Tree is the complete MIR output of a lowering, handed to a code generator.
type Tree struct {
	Main       hir.FunctionID
	HasMain    bool
	Temps      *ids.Arena[TempID, hir.TypeID]
	Places     *ids.Arena[PlaceID, Place]
	Locals     *ids.Arena[LocalID, hir.TypeID]
	Blocks     *ids.Arena[BlockID, Block]
	Statements *ids.Arena[StatementID, Statement]
	Functions  map[hir.FunctionID]*Function
}

func newTree() *Tree {
	return &Tree{
		Temps:      ids.NewArena[TempID, hir.TypeID](),
		Places:     ids.NewArena[PlaceID, Place](),
		Locals:     ids.NewArena[LocalID, hir.TypeID](),
		Blocks:     ids.NewArena[BlockID, Block](),
		Statements: ids.NewArena[StatementID, Statement](),
		Functions:  make(map[hir.FunctionID]*Function),
	}
}
