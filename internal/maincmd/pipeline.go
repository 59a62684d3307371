package maincmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/mna/mainer"

	"github.com/soul-lang/soulc/lang/diag"
)

const ansiRed = "\x1b[31m"
const ansiReset = "\x1b[0m"

// errFaults is returned by a subcommand when the pipeline ran to
// completion but accumulated at least one Error-level diagnostic; the
// diagnostics themselves were already printed to stderr by this point,
// so this error only carries the non-zero exit code back to mainer.Cmd.Main.
var errFaults = errors.New("compilation reported faults")

// readFiles slurps every path in files, returning an error on the first
// one that can't be read (matching the teacher's all-or-nothing ScanFiles
// behavior for a batch of command-line paths).
func readFiles(files []string) (map[string]string, error) {
	out := make(map[string]string, len(files))
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", f, err)
		}
		out[f] = string(data)
	}
	return out, nil
}

// printDiagnostics renders every accumulated fault against source with
// diag.Render (the span-to-source caret rendering of spec.md §6) and writes
// it to stderr, matching the teacher's scanner.PrintError convention.
// Error-level faults are highlighted in red when color is enabled.
func printDiagnostics(stdio mainer.Stdio, bag *diag.Bag, source string, color bool) {
	for _, d := range bag.Items() {
		rendered := diag.Render(d, source)
		if color && d.Level == diag.Error {
			fmt.Fprintln(stdio.Stderr, ansiRed+rendered+ansiReset)
			continue
		}
		fmt.Fprintln(stdio.Stderr, rendered)
	}
}
