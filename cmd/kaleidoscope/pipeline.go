package main

import (
	"fmt"
	"io"
	"os"

	"github.com/informatter/kaleidoscope/ast"
	"github.com/informatter/kaleidoscope/codegen"
	"github.com/informatter/kaleidoscope/ffi"
	"github.com/informatter/kaleidoscope/jit"
	"github.com/informatter/kaleidoscope/lexer"
	"github.com/informatter/kaleidoscope/parser"
)

func readSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("💥 failed to read file: %w", err)
	}
	return string(data), nil
}

// parse lexes and parses source into top-level items, the shared first
// half of every subcommand's pipeline (spec.md §4.5's driver).
func parse(p *parser.Parser, source string) ([]ast.TopLevelItem, error) {
	p.Reset(lexer.Tokenize(source))
	return p.Parse()
}

// compileFile runs the whole one-shot pipeline spec.md §4.5 describes:
// read, tokenize, parse, generate IR, synthesize main. Used by both
// `run` and `emit-ir`, which differ only in what they do with the
// resulting Generator.
func compileFile(path string) (*codegen.Generator, error) {
	data, err := readSource(path)
	if err != nil {
		return nil, err
	}
	items, err := parse(parser.New(nil), data)
	if err != nil {
		return nil, err
	}
	gen := codegen.New("kaleidoscope")
	if _, err := gen.Generate(items); err != nil {
		gen.Dispose()
		return nil, err
	}
	return gen, nil
}

// runAndReport finalizes gen's module against the JIT, invokes `main`,
// and writes the "Result: <f64>" line spec.md §6.1 requires.
func runAndReport(gen *codegen.Generator, out io.Writer) error {
	j, err := jit.New(gen.Module(), ffi.Registry())
	if err != nil {
		return err
	}
	defer j.Dispose()

	result, err := j.RunMain()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Result: %v\n", result)
	return nil
}
