// Command kaleidoscope is the CLI entry point: `run` compiles and
// JIT-executes a source file, `repl` runs an interactive session, and
// `emit-ir` dumps the generated LLVM IR without executing it (spec.md
// §6.1, SPEC_FULL.md §5). Subcommand dispatch follows the teacher's
// cmd_run.go / cmd_emit_bytecode.go shape via google/subcommands.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"
)

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")
	subcommands.Register(&runCmd{}, "")
	subcommands.Register(&replCmd{}, "")
	subcommands.Register(&emitIRCmd{}, "")

	flag.Parse()
	os.Exit(int(subcommands.Execute(context.Background())))
}
