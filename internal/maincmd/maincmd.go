// Package maincmd implements the cmd/soulc subcommand dispatch: a thin
// driver over the lang/* stage packages, not part of the compiler front end itself
// (spec.md §1 excludes "any driver/CLI/codegen shell around it").
package maincmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/mna/mainer"

	"github.com/soul-lang/soulc/internal/config"
)

const binName = "soulc"

var (
	shortUsage = fmt.Sprintf(`
usage: %s [<option>...] <command> [<path>...]
Run '%[1]s --help' for details.
`, binName)

	longUsage = fmt.Sprintf(`usage: %s [<option>...] <command> [<path>...]
       %[1]s -h|--help
       %[1]s -v|--version

Front end for the Soul programming language compiler.

The <command> can be one of:
       parse                     Run the parser and print the AST.
       resolve                   Run the parser and name resolver and
                                 print the AST with resolved symbol ids.
       hir                       Run lowering through the HIR stage and
                                 print the desugared tree.
       infer                     Run the full front end including type
                                 inference and print the typed HIR with
                                 autocopy annotations.
       mir                       Run the full front end and print the
                                 lowered MIR control-flow graph.

Valid flag options are:
       -h --help                 Show this help and exit.
       -v --version              Print version and exit.
       --config <path>           Load ambient options from a YAML file.
       --debug                   Emit stage-timing and diagnostic-count
                                 trace lines to stderr.

More information:
       https://github.com/soul-lang/soulc
`, binName)
)

// Cmd is the top-level CLI command, dispatched to one of its exported
// methods by name via buildCmds' reflection, mirroring the teacher's own
// maincmd.Cmd shape.
type Cmd struct {
	BuildVersion string
	BuildDate    string

	Help       bool   `flag:"h,help"`
	Version    bool   `flag:"v,version"`
	ConfigPath string `flag:"config"`
	Debug      bool   `flag:"debug"`

	args  []string
	flags map[string]bool
	cmdFn func(context.Context, mainer.Stdio, []string) error
	opts  config.Options
	log   *slog.Logger
}

func (c *Cmd) SetArgs(args []string) { c.args = args }
func (c *Cmd) SetFlags(flags map[string]bool) { c.flags = flags }

func (c *Cmd) Validate() error {
	if c.Help || c.Version {
		return nil
	}

	opts, err := config.Load(c.ConfigPath)
	if err != nil {
		return err
	}
	c.opts = opts

	if len(c.args) == 0 {
		return errors.New("no command specified")
	}

	cmdName := c.args[0]
	commands := buildCmds(c)
	c.cmdFn = commands[cmdName]
	if c.cmdFn == nil {
		return fmt.Errorf("unknown command: %s", cmdName)
	}
	if len(c.args[1:]) == 0 {
		return fmt.Errorf("%s: at least one file must be provided", cmdName)
	}
	return nil
}

// Main parses args, dispatches to the matching subcommand, and returns a
// process exit code (spec.md §7 "exit code is non-zero if any fault has
// level Error").
func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{EnvVars: false, EnvPrefix: binName + "_"}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, shortUsage)
		return mainer.InvalidArgs
	}

	switch {
	case c.Help:
		fmt.Fprint(stdio.Stdout, longUsage)
		return mainer.Success
	case c.Version:
		fmt.Fprintf(stdio.Stdout, "%s %s %s\n", binName, c.BuildVersion, c.BuildDate)
		return mainer.Success
	}

	level := slog.LevelWarn
	if c.Debug || c.opts.DebugInternal {
		level = slog.LevelDebug
	}
	c.log = slog.New(slog.NewTextHandler(stdio.Stderr, &slog.HandlerOptions{Level: level}))

	ctx := mainer.CancelOnSignal(context.Background(), os.Interrupt)
	if err := c.cmdFn(ctx, stdio, c.args[1:]); err != nil {
		return mainer.Failure
	}
	return mainer.Success
}

// logger returns c.log, falling back to a warn-level logger over os.Stderr
// for callers (such as subcommand unit tests) that invoke a subcommand
// method directly without going through Main.
func (c *Cmd) logger() *slog.Logger {
	if c.log != nil {
		return c.log
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

// colorEnabled reports whether diagnostics should be rendered with ANSI
// color: forced on by config, otherwise gated on stdout actually being a
// terminal (Windows' Cygwin ptys included).
func (c *Cmd) colorEnabled(stdio mainer.Stdio) bool {
	if c.opts.Color {
		return true
	}
	f, ok := stdio.Stdout.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// buildCmds reflects over v's methods to find subcommand handlers: those
// taking (context.Context, mainer.Stdio, []string) and returning error.
func buildCmds(v interface{}) map[string]func(context.Context, mainer.Stdio, []string) error {
	cmds := make(map[string]func(context.Context, mainer.Stdio, []string) error)

	vv := reflect.ValueOf(v)
	vt := vv.Type()
	for i := 0; i < vt.NumMethod(); i++ {
		m := vt.Method(i)
		mt := m.Type

		if mt.NumIn() != 4 || mt.NumOut() != 1 {
			continue
		}
		if rt := mt.Out(0); rt.Kind() != reflect.Interface || rt.Name() != "error" {
			continue
		}
		if p0 := mt.In(0); p0.Kind() != reflect.Ptr || p0.Elem().Name() != "Cmd" {
			continue
		}
		if p1 := mt.In(1); p1.Kind() != reflect.Interface || p1.Name() != "Context" {
			continue
		}
		if p2 := mt.In(2); p2.Kind() != reflect.Struct || p2.Name() != "Stdio" {
			continue
		}
		if p3 := mt.In(3); p3.Kind() != reflect.Slice || p3.Elem().Name() != "string" {
			continue
		}
		cmds[strings.ToLower(m.Name)] = vv.Method(i).Interface().(func(context.Context, mainer.Stdio, []string) error)
	}
	return cmds
}
