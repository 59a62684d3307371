package infer

import (
	"strings"

	"github.com/soul-lang/soulc/lang/diag"
	"github.com/soul-lang/soulc/lang/hir"
	"github.com/soul-lang/soulc/lang/token"
)

// UnifyResult distinguishes a clean unification from one that only
// succeeded by inserting an implicit copy (spec.md §4.4 "UnifyResult::Ok
// or UnifyResult::NeedsAutoCopy").
type UnifyResult uint8

const (
	UnifyOk UnifyResult = iota
	UnifyNeedsAutoCopy
	UnifyError
)

// resolveLazy follows an InferType's Bound links until it reaches a type
// that is not an inference variable or the root of an unbound variable,
// without finalizing the bindings it passes through.
func (t *Table) resolveLazy(id hir.TypeID) hir.TypeID {
	ty, isVar := t.isInferVar(id)
	if !isVar {
		return id
	}
	_ = ty
	root := t.findRoot(id)
	b := t.bindings[root]
	if b.State == Bound {
		return t.resolveLazy(b.Type)
	}
	return root
}

// occursIn reports whether the inference variable rooted at varRoot appears
// anywhere inside ty's structure (spec.md §4.4 "occurs-check").
func (t *Table) occursIn(varRoot hir.TypeID, ty hir.TypeID) bool {
	resolved := t.resolveLazy(ty)
	if resolved == varRoot {
		return true
	}
	hty, ok := t.types.Get(resolved)
	if !ok {
		return false
	}
	switch hty.Kind {
	case hir.KindPointer, hir.KindRef:
		return t.occursIn(varRoot, hty.Inner)
	case hir.KindArray:
		return hty.Array != nil && t.occursIn(varRoot, hty.Array.Element)
	case hir.KindStruct:
		for _, f := range hty.Fields {
			if t.occursIn(varRoot, f.Type) {
				return true
			}
		}
	}
	return false
}

// UnifyTypeType unifies expected against got, reporting a diagnostic at sp
// on mismatch (spec.md §4.4 "unify_type_type").
func (t *Table) UnifyTypeType(expected, got hir.TypeID, sp token.Span) UnifyResult {
	a := t.resolveLazy(expected)
	b := t.resolveLazy(got)
	aTy, aOk := t.types.Get(a)
	bTy, bOk := t.types.Get(b)
	if !aOk || !bOk {
		return UnifyError
	}

	if aTy.Kind == hir.KindInferVar {
		return t.unifyVarType(a, got, sp)
	}
	if bTy.Kind == hir.KindInferVar {
		return t.unifyVarType(b, expected, sp)
	}

	switch {
	case aTy.Kind == hir.KindArray && bTy.Kind == hir.KindArray:
		if !arrayKindsCompatible(aTy.Array.Kind, bTy.Array.Kind) {
			t.diags.Errorf(diag.UnifyTypeError, &sp, "array kind mismatch")
			return UnifyError
		}
		return t.UnifyTypeType(aTy.Array.Element, bTy.Array.Element, sp)

	case aTy.Kind == hir.KindRef && bTy.Kind == hir.KindRef:
		if aTy.RefMut != bTy.RefMut {
			t.diags.Errorf(diag.UnifyTypeError, &sp, "reference mutability mismatch")
			return UnifyError
		}
		return t.UnifyTypeType(aTy.Inner, bTy.Inner, sp)

	case aTy.Kind == hir.KindPointer && bTy.Kind == hir.KindPointer:
		return t.UnifyTypeType(aTy.Inner, bTy.Inner, sp)

	case aTy.Kind == hir.KindStruct && bTy.Kind == hir.KindStruct:
		if !compatibleTypeKind(aTy, bTy) {
			t.diags.Errorf(diag.UnifyTypeError, &sp, "type mismatch: expected %s got %s", describe(aTy), describe(bTy))
			return UnifyError
		}
		for i := range aTy.Fields {
			t.UnifyTypeType(aTy.Fields[i].Type, bTy.Fields[i].Type, sp)
		}
		return modifierCompatible(aTy.Modifier, bTy.Modifier)

	case aTy.Kind == hir.KindError || bTy.Kind == hir.KindError:
		return UnifyOk

	default:
		if !compatibleTypeKind(aTy, bTy) {
			t.diags.Errorf(diag.UnifyTypeError, &sp, "type mismatch: expected %s got %s", describe(aTy), describe(bTy))
			return UnifyError
		}
		return modifierCompatible(aTy.Modifier, bTy.Modifier)
	}
}

// unifyVarType unifies the inference variable rooted at var with ty
// (spec.md §4.4 "unify_var_type").
func (t *Table) unifyVarType(varID, ty hir.TypeID, sp token.Span) UnifyResult {
	root := t.findRoot(varID)
	resolvedTy := t.resolveLazy(ty)

	if t.occursIn(root, resolvedTy) {
		t.diags.Errorf(diag.UnifyTypeError, &sp, "infinite type: inference variable occurs in its own definition")
		return UnifyError
	}

	b := t.bindings[root]
	switch b.State {
	case Unbound:
		t.bindings[root] = InferBinding{State: Bound, Type: resolvedTy}
		return UnifyOk
	case Bound:
		existing := t.resolveLazy(b.Type)
		existingTy, _ := t.types.Get(existing)
		gotTy, _ := t.types.Get(resolvedTy)
		if !compatibleTypeKind(existingTy, gotTy) {
			t.diags.Errorf(diag.UnifyTypeError, &sp, "type mismatch: expected %s got %s", describe(existingTy), describe(gotTy))
			return UnifyError
		}
		return modifierCompatible(existingTy.Modifier, gotTy.Modifier)
	default:
		// findRoot guarantees root is never an Alias.
		return UnifyError
	}
}

// typesMatch reports whether got could satisfy a parameter typed expected,
// without mutating any inference-variable binding (spec.md §4.4 scenario 6:
// overload candidates are compared against argument types before one is
// committed to, not unified destructively). An inference variable or error
// type on either side carries no constraint yet to narrow on, so it is
// treated as a match.
func (t *Table) typesMatch(expected, got hir.TypeID) bool {
	a := t.resolveLazy(expected)
	b := t.resolveLazy(got)
	aTy, aOk := t.types.Get(a)
	bTy, bOk := t.types.Get(b)
	if !aOk || !bOk {
		return true
	}
	if aTy.Kind == hir.KindInferVar || bTy.Kind == hir.KindInferVar || aTy.Kind == hir.KindError || bTy.Kind == hir.KindError {
		return true
	}
	switch {
	case aTy.Kind == hir.KindArray && bTy.Kind == hir.KindArray:
		return arrayKindsCompatible(aTy.Array.Kind, bTy.Array.Kind) && t.typesMatch(aTy.Array.Element, bTy.Array.Element)
	case aTy.Kind == hir.KindRef && bTy.Kind == hir.KindRef:
		return aTy.RefMut == bTy.RefMut && t.typesMatch(aTy.Inner, bTy.Inner)
	case aTy.Kind == hir.KindPointer && bTy.Kind == hir.KindPointer:
		return t.typesMatch(aTy.Inner, bTy.Inner)
	default:
		return compatibleTypeKind(aTy, bTy)
	}
}

func arrayKindsCompatible(a, b hir.ArrayKind) bool { return a == b }

// compatibleTypeKind checks primitive/struct/named shape compatibility,
// ignoring modifiers (those are checked separately by modifierCompatible).
func compatibleTypeKind(a, b hir.HirType) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case hir.KindNone, hir.KindError:
		return true
	case hir.KindPrimitive:
		if a.Primitive == b.Primitive {
			return true
		}
		// An untyped numeric literal fits another untyped numeric literal
		// (GetPriorityType then picks the result) or a typed numeric
		// primitive of its own family: integer literals fit int/uint, float
		// literals fit float32/float64.
		if !isNumericPrimitive(a.Primitive) || !isNumericPrimitive(b.Primitive) {
			return false
		}
		aUntyped, bUntyped := strings.HasPrefix(a.Primitive, "untyped_"), strings.HasPrefix(b.Primitive, "untyped_")
		if aUntyped && bUntyped {
			return true
		}
		return (aUntyped || bUntyped) && strings.Contains(a.Primitive, "float") == strings.Contains(b.Primitive, "float")
	case hir.KindNamed:
		return a.Decl == b.Decl
	case hir.KindStruct:
		if len(a.Fields) != len(b.Fields) {
			return false
		}
		for i := range a.Fields {
			if a.Fields[i].Name != b.Fields[i].Name {
				return false
			}
		}
		return true
	}
	return true
}

// modifierCompatible implements the modifier rule table of spec.md §4.4:
// mut↔const and mut↔literal and const↔literal are incompatible; mut↔const
// specifically downgrades to NeedsAutoCopy rather than a hard error.
func modifierCompatible(a, b token.TypeModifier) UnifyResult {
	if a == b {
		return UnifyOk
	}
	switch {
	case a == token.ModMut && b == token.ModConst, a == token.ModConst && b == token.ModMut:
		return UnifyNeedsAutoCopy
	case a == token.ModMut && b == token.ModLiteral, a == token.ModLiteral && b == token.ModMut:
		return UnifyError
	case a == token.ModConst && b == token.ModLiteral, a == token.ModLiteral && b == token.ModConst:
		return UnifyError
	}
	return UnifyOk
}

func isNumericPrimitive(name string) bool {
	switch name {
	case "int", "uint", "float32", "float64", "untyped_int", "untyped_uint", "untyped_float":
		return true
	}
	return false
}

func describe(ty hir.HirType) string {
	switch ty.Kind {
	case hir.KindPrimitive:
		return ty.Primitive
	case hir.KindNone:
		return "none"
	case hir.KindNamed:
		return ty.Name
	case hir.KindStruct:
		return "struct"
	case hir.KindPointer:
		return "pointer"
	case hir.KindRef:
		return "reference"
	case hir.KindArray:
		return "array"
	}
	return "<error>"
}
