// Package infer implements the bidirectional type inferencer of spec.md
// §4.4: a union-find-backed table over hir.TypeID inference variables, two
// structural walks (infer, then resolve & finalize), and a side table
// recording where an implicit copy is required to make an assignment
// type-check (the autocopy set).
package infer

import (
	"github.com/soul-lang/soulc/lang/diag"
	"github.com/soul-lang/soulc/lang/hir"
	"github.com/soul-lang/soulc/lang/token"
)

// BindingState tags the three states an inference variable can be in
// (spec.md §4.4 "inference table supporting the three-state binding
// {Unbound, Bound, Alias}").
type BindingState uint8

const (
	Unbound BindingState = iota
	Bound
	Alias
)

// InferBinding is one entry of the union-find table: either unbound, bound
// to a concrete (possibly still-inference-containing) TypeID, or an alias
// pointing at another inference variable's root.
type InferBinding struct {
	State BindingState
	Type  hir.TypeID // meaningful when State == Bound
	Alias hir.TypeID // meaningful when State == Alias; the parent var's TypeID
}

// Table is the union-find-with-path-compression inference table. It is
// keyed directly by the hir.TypeID of each KindInferVar placeholder, since
// TypesMap.NewInferVar already hands out a unique id per variable.
type Table struct {
	types    *hir.TypesMap
	bindings map[hir.TypeID]InferBinding
	diags    *diag.Bag
	autocopy map[hir.ExpressionID]struct{}
}

// New returns an empty inference table over types, reporting faults to diags.
func New(types *hir.TypesMap, diags *diag.Bag) *Table {
	return &Table{
		types:    types,
		bindings: make(map[hir.TypeID]InferBinding),
		diags:    diags,
		autocopy: make(map[hir.ExpressionID]struct{}),
	}
}

// Fresh allocates a new unbound inference variable and returns its TypeID.
func (t *Table) Fresh() hir.TypeID {
	id := t.types.NewInferVar()
	t.bindings[id] = InferBinding{State: Unbound}
	return id
}

// MarkAutocopy records that expr required an implicit copy to unify
// (spec.md §4.4 "Autocopy set... consumed by later display/lowering").
func (t *Table) MarkAutocopy(expr hir.ExpressionID) { t.autocopy[expr] = struct{}{} }

// NeedsAutocopy reports whether expr was recorded via MarkAutocopy.
func (t *Table) NeedsAutocopy(expr hir.ExpressionID) bool {
	_, ok := t.autocopy[expr]
	return ok
}

// isInferVar reports whether id names a still-unresolved inference
// placeholder, along with the HirType payload read from the type table.
func (t *Table) isInferVar(id hir.TypeID) (hir.HirType, bool) {
	ty, ok := t.types.Get(id)
	if !ok {
		return hir.HirType{}, false
	}
	return ty, ty.Kind == hir.KindInferVar
}

// findRoot follows the Alias chain to its root, compressing the path as it
// goes (spec.md §4.4 "union-find path compression").
func (t *Table) findRoot(id hir.TypeID) hir.TypeID {
	b, ok := t.bindings[id]
	if !ok || b.State != Alias {
		return id
	}
	root := t.findRoot(b.Alias)
	if root != b.Alias {
		t.bindings[id] = InferBinding{State: Alias, Alias: root}
	}
	return root
}

// binding returns the current binding of the inference variable rooted at
// id's findRoot.
func (t *Table) binding(id hir.TypeID) InferBinding {
	root := t.findRoot(id)
	return t.bindings[root]
}

// GetPriorityType implements spec.md §4.4's priority rule: float outranks
// int outranks uint for type-selection purposes (not value conversion);
// an untyped primitive loses to a typed one; otherwise left wins.
func (t *Table) GetPriorityType(left, right hir.TypeID) hir.TypeID {
	lTy, lOk := t.types.Get(t.resolveLazy(left))
	rTy, rOk := t.types.Get(t.resolveLazy(right))
	if !lOk || !rOk {
		return left
	}
	if lTy.Kind != hir.KindPrimitive || rTy.Kind != hir.KindPrimitive {
		return left
	}
	lUntyped := lTy.Modifier == token.ModLiteral
	rUntyped := rTy.Modifier == token.ModLiteral
	if lUntyped && !rUntyped {
		return right
	}
	if rUntyped && !lUntyped {
		return left
	}
	if lUntyped && rUntyped {
		if primitivePriority(lTy.Primitive) >= primitivePriority(rTy.Primitive) {
			return left
		}
		return right
	}
	return left
}

func primitivePriority(name string) int {
	switch name {
	case "untyped_float", "float32", "float64":
		return 3
	case "untyped_int", "int":
		return 2
	case "untyped_uint", "uint":
		return 1
	}
	return 0
}
