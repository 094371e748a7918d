package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/subcommands"

	"github.com/informatter/kaleidoscope/codegen"
	"github.com/informatter/kaleidoscope/ffi"
	"github.com/informatter/kaleidoscope/jit"
	"github.com/informatter/kaleidoscope/parser"
)

// replCmd runs an interactive session: one Parser (so a user-defined
// operator from an earlier line stays registered) and one Generator
// (so earlier function definitions stay callable) live for the whole
// session, grounded in the teacher's cmd_repl_compiled.go keeping one
// vm.VM alive across lines. Line editing and history are provided by
// chzyer/readline, wired the way akashmaji946-go-mix's repl package
// uses it — the teacher's go.mod lists readline only as an indirect
// dependency it never actually imports.
type replCmd struct{}

func (*replCmd) Name() string     { return "repl" }
func (*replCmd) Synopsis() string { return "Start an interactive Kaleidoscope session" }
func (*replCmd) Usage() string {
	return `repl:
  Evaluate Kaleidoscope expressions and definitions one line at a time.
`
}
func (*replCmd) SetFlags(f *flag.FlagSet) {}

func (*replCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	rl, err := readline.New("ready> ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 failed to start readline: %v\n", err)
		return subcommands.ExitFailure
	}
	defer rl.Close()

	p := parser.New(nil)
	gen := codegen.New("kaleidoscope-repl")
	defer gen.Dispose()

	for {
		line, err := rl.Readline()
		if err != nil { // io.EOF on Ctrl-D, readline.ErrInterrupt on Ctrl-C
			return subcommands.ExitSuccess
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		items, err := parse(p, line)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		if err := gen.GenerateItems(items); err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		gen.EmitMain()

		// NOTE: recompiling the whole accumulated module into a fresh
		// JIT engine on every line is wasteful but correct — the
		// teacher's cRepl command carries the same tradeoff verbatim
		// ("previous compiled code is going to be recompiled again in
		// the REPL, but for now its fine").
		j, err := jit.New(gen.Module(), ffi.Registry())
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		result, err := j.RunMain()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		fmt.Fprintf(os.Stdout, "Result: %v\n", result)
	}
}
