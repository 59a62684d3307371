// Package ast defines the parser's output tree (spec.md §3 "AST"). It is
// slot-based: every node that may be referenced later (variables,
// functions, types) carries a *NodeID field, left nil by the parser and
// filled in by the name resolver. if/while/block remain tree-shaped — the AST does not
// commit to any control-flow representation, that is HIR's job.
package ast

import (
	"github.com/soul-lang/soulc/lang/ids"
	"github.com/soul-lang/soulc/lang/token"
)

// NodeID is the opaque dense integer handle of spec.md §3, the universal
// cross-IR reference used by scopes, name resolution, HIR, inference and
// MIR. A single ids.Generator[NodeID] is allocated per compilation (see
// lang/pipeline) and threaded explicitly through every stage.
type NodeID ids.Int

// ErrorNodeID is the sentinel substituted when a fault prevents a real id
// from being assigned (spec.md §3 "NodeId::error()").
const ErrorNodeID NodeID = NodeID(ids.Error)

// IsError reports whether id is the error sentinel.
func (id NodeID) IsError() bool { return ids.IsError(ids.Int(id)) }

// Node is the common interface of every AST node.
type Node interface {
	Span() token.Span
}

// Expr is an expression node: the closed sum type of spec.md §9 ("~20
// variants... preserve as a closed enum/sum type"). Dispatch is exhaustive
// switch on the concrete Go type via a type switch in each consuming
// stage, never an open interface hierarchy.
type Expr interface {
	Node
	exprNode()
}

// Stmt is a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Decl is any declaration-shaped node that the collect pass assigns a
// NodeID to: variables, functions, struct/class/trait/enum/union, generic
// parameters, fields, blocks (spec.md §4.2).
type Decl interface {
	Node
	DeclNodeID() *NodeID
}

// File is the root of a parsed compilation unit.
type File struct {
	Name       string
	Statements []Stmt
	Sp         token.Span
}

func (f *File) Span() token.Span { return f.Sp }
