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
	"github.com/soul-lang/soulc/lang/parser"
	"github.com/soul-lang/soulc/lang/resolver"
)

// Infer runs the full front end through type inference and prints the
// typed HIR, with autocopy conversions annotated (spec.md §4.4 "Outputs").
func (c *Cmd) Infer(ctx context.Context, stdio mainer.Stdio, args []string) error {
	srcs, err := readFiles(args)
	if err != nil {
		return err
	}

	gen := ids.NewGenerator[ast.NodeID]()
	printer := infer.Printer{}
	var hasErrors bool
	for _, name := range args {
		var bag diag.Bag
		start := time.Now()
		f := parser.Parse(name, srcs[name], &bag)
		resolver.New(gen, &bag).Resolve(f)
		prog := hir.Lower(f, &bag)
		res := infer.Infer(prog, &bag)
		c.logger().Debug("stage complete", "stage", "infer", "file", name, "elapsed", time.Since(start), "diagnostics", bag.Len())
		if err := printer.Fprint(stdio.Stdout, prog, res); err != nil {
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
