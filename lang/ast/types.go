package ast

import "github.com/soul-lang/soulc/lang/token"

// Type is the parsed form of spec.md §4.1's "Type grammar": an optional
// modifier, a left-to-right sequence of wrappers, and a base.
type Type struct {
	Modifier token.TypeModifier
	Wrappers []Wrapper
	Base     TypeBase
	Sp       token.Span
}

func (t *Type) Span() token.Span { return t.Sp }

// Wrapper is one layer of a type's wrapper sequence, outside-in: in
// `*[]int`, the outermost wrapper is Pointer, wrapping HeapArray, wrapping
// the base Primitive "int" (spec.md §4.1).
type Wrapper struct {
	Kind WrapperKind
	// Len is only set for StackArray: either a constant-length expression or
	// a generic identifier length.
	Len Expr
}

type WrapperKind uint8

const (
	WrapStackArray WrapperKind = iota // [n]
	WrapHeapArray                     // []
	WrapPointer                       // *
	WrapConstRef                      // @
	WrapMutRef                        // &
	WrapOptional                      // ?
)

// TypeBase is the innermost component of a Type.
type TypeBase interface {
	typeBaseNode()
}

// NoneType is the `none` base type.
type NoneType struct{}

func (NoneType) typeBaseNode() {}

// PrimitiveType names one of the built-in scalar types (int, i32, u8,
// bool, char, ... including the untyped_int/uint/float literal types).
type PrimitiveType struct {
	Name string
}

func (PrimitiveType) typeBaseNode() {}

// TupleType is a parenthesised tuple base `(T, T, ...)`.
type TupleType struct {
	Elems []*Type
}

func (TupleType) typeBaseNode() {}

// NamedTupleField is one `name: Type` entry of a NamedTupleType.
type NamedTupleField struct {
	Name string
	Type *Type
}

// NamedTupleType is a braced named-tuple base `{name: T, ...}`.
type NamedTupleType struct {
	Fields []NamedTupleField
}

func (NamedTupleType) typeBaseNode() {}

// StubType is an identifier base whose meaning (struct/class/trait/union/
// enum/generic) is not yet known to the parser; the resolver rewrites it
// in place to a resolved TypeKind (spec.md §4.2).
type StubType struct {
	Name       string
	ResolvedAs *Resolved
}

func (*StubType) typeBaseNode() {}

// ResolvedKind is what a StubType resolves to.
type ResolvedKind uint8

const (
	ResolvedStruct ResolvedKind = iota
	ResolvedClass
	ResolvedTrait
	ResolvedUnion
	ResolvedEnum
	ResolvedGenericLifetime
	ResolvedGenericType
	ResolvedGenericExpression
)

// Resolved is what a StubType is rewritten to by the resolver: the kind of
// declaration it names, plus the NodeID of that declaration.
type Resolved struct {
	Kind ResolvedKind
	ID   NodeID
}
