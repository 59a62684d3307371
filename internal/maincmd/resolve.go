package maincmd

import (
	"context"
	"time"

	"github.com/mna/mainer"

	"github.com/soul-lang/soulc/lang/ast"
	"github.com/soul-lang/soulc/lang/diag"
	"github.com/soul-lang/soulc/lang/ids"
	"github.com/soul-lang/soulc/lang/parser"
	"github.com/soul-lang/soulc/lang/resolver"
)

// Resolve runs the parser and name resolver and prints the AST annotated
// with resolved symbol ids.
func (c *Cmd) Resolve(ctx context.Context, stdio mainer.Stdio, args []string) error {
	srcs, err := readFiles(args)
	if err != nil {
		return err
	}

	gen := ids.NewGenerator[ast.NodeID]()
	printer := ast.Printer{Kind: ast.WithIDs}
	var hasErrors bool
	for _, name := range args {
		var bag diag.Bag
		start := time.Now()
		f := parser.Parse(name, srcs[name], &bag)
		resolver.New(gen, &bag).Resolve(f)
		c.logger().Debug("stage complete", "stage", "resolve", "file", name, "elapsed", time.Since(start), "diagnostics", bag.Len())
		if err := printer.Fprint(stdio.Stdout, f); err != nil {
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
