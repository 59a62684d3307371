package maincmd

import (
	"context"
	"time"

	"github.com/mna/mainer"

	"github.com/soul-lang/soulc/lang/ast"
	"github.com/soul-lang/soulc/lang/diag"
	"github.com/soul-lang/soulc/lang/hir"
	"github.com/soul-lang/soulc/lang/ids"
	"github.com/soul-lang/soulc/lang/infer"
	"github.com/soul-lang/soulc/lang/mir"
	"github.com/soul-lang/soulc/lang/parser"
	"github.com/soul-lang/soulc/lang/resolver"
)

// Mir runs the full front end and prints the lowered MIR control-flow
// graph, one function per top-level entry.
func (c *Cmd) Mir(ctx context.Context, stdio mainer.Stdio, args []string) error {
	srcs, err := readFiles(args)
	if err != nil {
		return err
	}

	gen := ids.NewGenerator[ast.NodeID]()
	var hasErrors bool
	for _, name := range args {
		var bag diag.Bag
		start := time.Now()
		f := parser.Parse(name, srcs[name], &bag)
		resolver.New(gen, &bag).Resolve(f)
		prog := hir.Lower(f, &bag)
		types := infer.Infer(prog, &bag)
		tree := mir.Lower(prog, types, &bag)
		c.logger().Debug("stage complete", "stage", "mir", "file", name, "elapsed", time.Since(start), "diagnostics", bag.Len())
		printer := mir.Printer{Types: prog.Types}
		if err := printer.Fprint(stdio.Stdout, tree); err != nil {
			return err
		}
		printDiagnostics(stdio, &bag, srcs[name], c.colorEnabled(stdio))
		hasErrors = hasErrors || bag.HasErrors()
	}
	if hasErrors {
		return errFaults
	}
	return nil
}
