package infer

import (
	"github.com/soul-lang/soulc/lang/diag"
	"github.com/soul-lang/soulc/lang/hir"
	"github.com/soul-lang/soulc/lang/token"
)

// resolveTypeStrict chases an inference variable to its bound target,
// reporting a fault if it is still unbound (spec.md §4.4 "Walk 2...
// resolve_type_strict"). Non-inference types recurse through their
// component types so the result is free of inference variables at every
// level, not just the top one.
func (inf *inferencer) resolveTypeStrict(id hir.TypeID, sp token.Span) hir.TypeID {
	ty, ok := inf.table.types.Get(id)
	if !ok {
		return inf.prog.Types.Error()
	}

	switch ty.Kind {
	case hir.KindInferVar:
		root := inf.table.findRoot(id)
		b := inf.table.bindings[root]
		switch b.State {
		case Bound:
			return inf.resolveTypeStrict(b.Type, sp)
		default:
			inf.diags.Errorf(diag.TypeInferenceError, &sp, "type could not be inferred")
			return inf.prog.Types.Error()
		}

	case hir.KindPointer:
		inner := inf.resolveTypeStrict(ty.Inner, sp)
		return inf.prog.Types.Pointer(inner, ty.Modifier)

	case hir.KindRef:
		inner := inf.resolveTypeStrict(ty.Inner, sp)
		return inf.prog.Types.Ref(inner, ty.RefMut, ty.Modifier)

	case hir.KindArray:
		elem := inf.resolveTypeStrict(ty.Array.Element, sp)
		return inf.prog.Types.Array(elem, ty.Array.Kind, ty.Array.Len, ty.Modifier)

	case hir.KindStruct:
		fields := make([]hir.StructField, len(ty.Fields))
		for i, f := range ty.Fields {
			fields[i] = hir.StructField{Name: f.Name, Type: inf.resolveTypeStrict(f.Type, sp)}
		}
		return inf.prog.Types.Struct(ty.Name, fields, ty.Modifier)

	case hir.KindPrimitive:
		return inf.resolveUntypedPrimitive(id, ty)

	default:
		return id
	}
}

// resolveUntypedPrimitive lowers a still-literal primitive to its default
// concrete type (spec.md §4.4 "resolve_untyped_primitive"). UntypedUint
// maps to signed Int by default: this mirrors an ambiguity in the source
// this was distilled from (see spec.md §9), not a deliberate design choice.
func (inf *inferencer) resolveUntypedPrimitive(id hir.TypeID, ty hir.HirType) hir.TypeID {
	if ty.Modifier != token.ModLiteral {
		return id
	}
	switch ty.Primitive {
	case "untyped_int", "untyped_uint":
		return inf.prog.Types.Primitive("int", token.ModNone)
	case "untyped_float":
		return inf.prog.Types.Primitive("float32", token.ModNone)
	default:
		return inf.prog.Types.Primitive(ty.Primitive, token.ModNone)
	}
}

// finalize runs Walk 2 over every recorded type id, rebuilding the type map
// as an inference-variable-free DAG (spec.md §4.4 "finalize_types").
func (inf *inferencer) finalize() *Result {
	res := &Result{
		Locals:      make(map[hir.LocalID]hir.TypeID, len(inf.locTy)),
		Blocks:      make(map[hir.BlockID]hir.TypeID, len(inf.blkTy)),
		Statements:  make(map[hir.StatementID]hir.TypeID, len(inf.stmtTy)),
		Expressions: make(map[hir.ExpressionID]hir.TypeID, len(inf.exprTy)),
		Functions:   make(map[hir.FunctionID]hir.TypeID),
		Autocopy:    inf.table.autocopy,
	}

	zero := token.Span{}
	for id, ty := range inf.locTy {
		res.Locals[id] = inf.resolveTypeStrict(ty, zero)
	}
	for id, ty := range inf.blkTy {
		res.Blocks[id] = inf.resolveTypeStrict(ty, zero)
	}
	for id, ty := range inf.stmtTy {
		res.Statements[id] = inf.resolveTypeStrict(ty, zero)
	}
	for id, ty := range inf.exprTy {
		res.Expressions[id] = inf.resolveTypeStrict(ty, zero)
	}
	inf.prog.Functions.All(func(id hir.FunctionID, fn hir.Function) bool {
		res.Functions[id] = inf.resolveTypeStrict(fn.ReturnType, zero)
		return true
	})
	return res
}
