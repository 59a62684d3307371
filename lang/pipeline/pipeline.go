// Package pipeline wires the compiler front end's stages together in the
// order of spec.md §6's external interfaces: tokenize (implicitly, inside
// the parser) → parse → resolve_names → lower_hir → infer_types →
// lower_mir. The whole run is a pure function from source text to a MIR
// tree plus a diagnostics vector (spec.md §5's concurrency model): no
// stage shares mutable state with another except the append-only
// diagnostics bag, and a Run call owns nothing another Run call could
// observe.
package pipeline

import (
	"github.com/soul-lang/soulc/lang/ast"
	"github.com/soul-lang/soulc/lang/diag"
	"github.com/soul-lang/soulc/lang/hir"
	"github.com/soul-lang/soulc/lang/ids"
	"github.com/soul-lang/soulc/lang/infer"
	"github.com/soul-lang/soulc/lang/mir"
	"github.com/soul-lang/soulc/lang/parser"
	"github.com/soul-lang/soulc/lang/resolver"
)

// Result holds every intermediate representation produced along the way,
// not just the final MIR tree: tooling (the grammar checker, a future
// language server, golden-file tests) commonly wants the AST or HIR
// without re-running the earlier stages.
type Result struct {
	AST   *ast.File
	HIR   *hir.Program
	Types *infer.Result
	MIR   *mir.Tree
	Diags *diag.Bag
}

// Run drives the full pipeline over one compilation unit's source text.
// name is used only for diagnostic spans (it need not be a real path).
func Run(name, src string) *Result {
	var diags diag.Bag

	file := parser.Parse(name, src, &diags)

	gen := ids.NewGenerator[ast.NodeID]()
	resolver.New(gen, &diags).Resolve(file)

	hirProg := hir.Lower(file, &diags)
	types := infer.Infer(hirProg, &diags)
	mirTree := mir.Lower(hirProg, types, &diags)

	return &Result{
		AST:   file,
		HIR:   hirProg,
		Types: types,
		MIR:   mirTree,
		Diags: &diags,
	}
}

// Succeeded reports whether the run produced no Error-level diagnostic
// (spec.md §7 "Exit code is non-zero if any fault has level Error").
func (r *Result) Succeeded() bool { return !r.Diags.HasErrors() }
