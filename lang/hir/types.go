package hir

import (
	"fmt"
	"strings"

	"github.com/soul-lang/soulc/lang/ast"
	"github.com/soul-lang/soulc/lang/ids"
	"github.com/soul-lang/soulc/lang/token"
)

// TypeID indexes TypesMap, the flat, dedup-interned type table every HIR
// type resolves through (spec.md §4.3 "Type interning").
type TypeID int32

// ErrorTypeID is substituted when lowering a type fails (spec.md §7).
const ErrorTypeID TypeID = -1

// HirTypeKind tags the shape a HirType carries. Optional and dynamic-array
// surface types never appear here as their own kind: both desugar to
// KindStruct layouts at intern time (spec.md §4.3 "desugaring decision:
// dynamic arrays are layouts, not magic").
type HirTypeKind uint8

const (
	KindError HirTypeKind = iota
	KindNone
	KindPrimitive
	KindPointer
	KindRef
	KindArray
	KindStruct
	KindNamed    // a resolved nominal type whose body is not itself lowered
	KindInferVar // a placeholder awaiting the inferencer; never survives finalize_types
)

// ArrayKind distinguishes the array shapes of spec.md §4.4's unification
// rule (`HeapArray`/`StackArray(n)`/`MutSlice`/`ConstSlice`).
type ArrayKind uint8

const (
	ArrayStack ArrayKind = iota // [n]T, n may be -1 if the length is a generic expression
	ArrayHeap                   // []T, desugared into a {ptr,len,cap} struct at intern time
	ArrayMutSlice
	ArrayConstSlice
)

// ArrayType is the payload of a KindArray HirType.
type ArrayType struct {
	Element TypeID
	Kind    ArrayKind
	Len     int64 // only meaningful for ArrayStack; -1 when unknown
}

// StructField is one member of a KindStruct HirType. Positional tuple
// fields are named `_0`, `_1`, ... by the HIR lowerer.
type StructField struct {
	Name string
	Type TypeID
}

// HirType is one interned type. Only the fields relevant to Kind are
// populated; the rest are zero.
type HirType struct {
	Kind      HirTypeKind
	Modifier  token.TypeModifier
	Primitive string      // KindPrimitive
	Inner     TypeID      // KindPointer/KindRef
	RefMut    bool        // KindRef
	Array     *ArrayType  // KindArray
	Fields    []StructField // KindStruct
	Name      string      // KindNamed
	Decl      ast.NodeID  // KindNamed
	InferVar  int32       // KindInferVar, a unique identity, not cache-keyed
}

// TypesMap is the dedup-interned type store of spec.md §4.3: structurally
// identical types (same kind, modifier, and payload) collapse onto the
// same TypeID, matching lang/ids's Arena-of-ids idiom used by every other
// stage's tables.
type TypesMap struct {
	arena      *ids.Arena[TypeID, HirType]
	gen        *ids.Generator[TypeID]
	cache      map[string]TypeID
	noneID     TypeID
	errorID    TypeID
	haveNone   bool
	haveError  bool
	inferCount int32
}

// NewTypesMap returns an empty, ready-to-use type table.
func NewTypesMap() *TypesMap {
	return &TypesMap{
		arena: ids.NewArena[TypeID, HirType](),
		gen:   ids.NewGenerator[TypeID](),
		cache: make(map[string]TypeID),
	}
}

// Get returns the HirType stored at id.
func (m *TypesMap) Get(id TypeID) (HirType, bool) { return m.arena.Get(id) }

func (m *TypesMap) intern(key string, ty HirType) TypeID {
	if id, ok := m.cache[key]; ok {
		return id
	}
	id := m.gen.Alloc()
	m.arena.Set(id, ty)
	m.cache[key] = id
	return id
}

// Error returns the single interned error-sentinel type.
func (m *TypesMap) Error() TypeID {
	if !m.haveError {
		m.errorID = m.intern("error", HirType{Kind: KindError})
		m.haveError = true
	}
	return m.errorID
}

// None returns the single interned `none` type.
func (m *TypesMap) None() TypeID {
	if !m.haveNone {
		m.noneID = m.intern("none", HirType{Kind: KindNone})
		m.haveNone = true
	}
	return m.noneID
}

// Primitive interns a named scalar type (e.g. "int", "untyped_int", "bool").
func (m *TypesMap) Primitive(name string, mod token.TypeModifier) TypeID {
	key := fmt.Sprintf("prim:%s:%d", name, mod)
	return m.intern(key, HirType{Kind: KindPrimitive, Primitive: name, Modifier: mod})
}

// Pointer interns `*inner`.
func (m *TypesMap) Pointer(inner TypeID, mod token.TypeModifier) TypeID {
	key := fmt.Sprintf("ptr:%d:%d", inner, mod)
	return m.intern(key, HirType{Kind: KindPointer, Inner: inner, Modifier: mod})
}

// Ref interns `&inner` (mutable) or `@inner` (const).
func (m *TypesMap) Ref(inner TypeID, mutable bool, mod token.TypeModifier) TypeID {
	key := fmt.Sprintf("ref:%d:%v:%d", inner, mutable, mod)
	return m.intern(key, HirType{Kind: KindRef, Inner: inner, RefMut: mutable, Modifier: mod})
}

// Array interns a stack array or slice. Use ArrayHeap via Dynamic, not this
// method, for a bare `[]T` (spec.md §4.3 desugars it to a struct layout).
func (m *TypesMap) Array(element TypeID, kind ArrayKind, length int64, mod token.TypeModifier) TypeID {
	key := fmt.Sprintf("arr:%d:%d:%d:%d", element, kind, length, mod)
	return m.intern(key, HirType{Kind: KindArray, Array: &ArrayType{Element: element, Kind: kind, Len: length}, Modifier: mod})
}

// Struct interns an (anonymous or named-tuple) struct layout.
func (m *TypesMap) Struct(name string, fields []StructField, mod token.TypeModifier) TypeID {
	key := fmt.Sprintf("struct:%s:%d", name, mod)
	for _, f := range fields {
		key += fmt.Sprintf(":%s=%d", f.Name, f.Type)
	}
	return m.intern(key, HirType{Kind: KindStruct, Name: name, Fields: fields, Modifier: mod})
}

// Dynamic interns `[]element` as the {ptr,len,cap} struct layout of
// spec.md §4.3 ("dynamic arrays are layouts, not magic").
func (m *TypesMap) Dynamic(element TypeID, mod token.TypeModifier) TypeID {
	ptr := m.Pointer(element, mod)
	uintTy := m.Primitive("uint", token.ModNone)
	return m.Struct("", []StructField{
		{Name: "ptr", Type: ptr},
		{Name: "len", Type: uintTy},
		{Name: "cap", Type: uintTy},
	}, mod)
}

// Optional interns `?inner` as the {inner,is_null} struct layout of
// spec.md §4.3 ("same rationale" as the dynamic-array desugaring).
func (m *TypesMap) Optional(inner TypeID, mod token.TypeModifier) TypeID {
	boolTy := m.Primitive("bool", token.ModNone)
	return m.Struct("", []StructField{
		{Name: "inner", Type: inner},
		{Name: "is_null", Type: boolTy},
	}, mod)
}

// Named interns a reference to a resolved nominal declaration whose body is
// not itself lowered into a struct layout (ast.NominalDecl bodies are out
// of scope for this HIR stage, per the AST's own documented decision).
func (m *TypesMap) Named(name string, decl ast.NodeID, mod token.TypeModifier) TypeID {
	key := fmt.Sprintf("named:%s:%d:%d", name, decl, mod)
	return m.intern(key, HirType{Kind: KindNamed, Name: name, Decl: decl, Modifier: mod})
}

// TypeName renders id as a short, human-readable type name for display()
// dumps (spec.md §6). It is best-effort: struct layouts print their field
// names but not recursively, since a full render of the optional/dynamic-
// array desugarings would bury the part a reader actually wants to see.
func (m *TypesMap) TypeName(id TypeID) string {
	if id == ErrorTypeID {
		return "<error>"
	}
	ty, ok := m.Get(id)
	if !ok {
		return "<unknown>"
	}
	switch ty.Kind {
	case KindError:
		return "<error>"
	case KindNone:
		return "none"
	case KindPrimitive:
		return ty.Primitive
	case KindPointer:
		return "*" + m.TypeName(ty.Inner)
	case KindRef:
		if ty.RefMut {
			return "&" + m.TypeName(ty.Inner)
		}
		return "@" + m.TypeName(ty.Inner)
	case KindArray:
		elem := m.TypeName(ty.Array.Element)
		switch ty.Array.Kind {
		case ArrayHeap:
			return "[]" + elem
		case ArrayMutSlice:
			return "mut[]" + elem
		case ArrayConstSlice:
			return "const[]" + elem
		default:
			return fmt.Sprintf("[%d]%s", ty.Array.Len, elem)
		}
	case KindStruct:
		if ty.Name != "" {
			return ty.Name
		}
		names := make([]string, len(ty.Fields))
		for i, f := range ty.Fields {
			names[i] = f.Name
		}
		return "{" + strings.Join(names, ",") + "}"
	case KindNamed:
		return ty.Name
	case KindInferVar:
		return fmt.Sprintf("?%d", ty.InferVar)
	default:
		return "<error>"
	}
}

// NewInferVar allocates a fresh, uniquely-identified inference placeholder.
// It is never cached: two calls never alias even with identical arguments,
// matching the union-find inferencer's need for distinct variables.
func (m *TypesMap) NewInferVar() TypeID {
	id := m.gen.Alloc()
	v := m.inferCount
	m.inferCount++
	m.arena.Set(id, HirType{Kind: KindInferVar, InferVar: v})
	return id
}
