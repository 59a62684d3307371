package maincmd

import (
	"context"
	"time"

	"github.com/mna/mainer"

	"github.com/soul-lang/soulc/lang/ast"
	"github.com/soul-lang/soulc/lang/diag"
	"github.com/soul-lang/soulc/lang/hir"
	"github.com/soul-lang/soulc/lang/ids"
	"github.com/soul-lang/soulc/lang/parser"
	"github.com/soul-lang/soulc/lang/resolver"
)

// Hir runs lowering through the HIR stage and prints the desugared tree.
func (c *Cmd) Hir(ctx context.Context, stdio mainer.Stdio, args []string) error {
	srcs, err := readFiles(args)
	if err != nil {
		return err
	}

	gen := ids.NewGenerator[ast.NodeID]()
	printer := hir.Printer{}
	var hasErrors bool
	for _, name := range args {
		var bag diag.Bag
		start := time.Now()
		f := parser.Parse(name, srcs[name], &bag)
		resolver.New(gen, &bag).Resolve(f)
		prog := hir.Lower(f, &bag)
		c.logger().Debug("stage complete", "stage", "hir", "file", name, "elapsed", time.Since(start), "diagnostics", bag.Len())
		if err := printer.Fprint(stdio.Stdout, prog); err != nil {
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
