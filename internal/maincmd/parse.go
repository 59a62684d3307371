package maincmd

import (
	"context"
	"time"

	"github.com/mna/mainer"

	"github.com/soul-lang/soulc/lang/ast"
	"github.com/soul-lang/soulc/lang/diag"
	"github.com/soul-lang/soulc/lang/parser"
)

// Parse runs the parser over each file and prints the raw AST.
func (c *Cmd) Parse(ctx context.Context, stdio mainer.Stdio, args []string) error {
	srcs, err := readFiles(args)
	if err != nil {
		return err
	}

	printer := ast.Printer{Kind: ast.Raw}
	var hasErrors bool
	for _, name := range args {
		var bag diag.Bag
		start := time.Now()
		f := parser.Parse(name, srcs[name], &bag)
		c.logger().Debug("stage complete", "stage", "parse", "file", name, "elapsed", time.Since(start), "diagnostics", bag.Len())
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
