package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

// emitIRCmd dumps the generated module's textual IR without running it
// — the JIT analogue of the teacher's `emit` bytecode-dump subcommand
// (cmd_emit_bytecode.go), useful for inspecting phi placement (spec.md
// §9's Design Notes on if-merge phi predecessors).
type emitIRCmd struct{}

func (*emitIRCmd) Name() string     { return "emit-ir" }
func (*emitIRCmd) Synopsis() string { return "Emit the generated LLVM IR without executing it" }
func (*emitIRCmd) Usage() string {
	return `emit-ir <path-to-source>:
  Compile a Kaleidoscope program and print its LLVM IR to stdout.
`
}
func (*emitIRCmd) SetFlags(f *flag.FlagSet) {}

func (*emitIRCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "💥 file not provided\n")
		return subcommands.ExitUsageError
	}

	gen, err := compileFile(args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer gen.Dispose()

	fmt.Fprintln(os.Stdout, gen.Module().String())
	return subcommands.ExitSuccess
}
