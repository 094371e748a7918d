// Package codegen lowers a parsed Kaleidoscope program to SSA IR against
// the github.com/ajsnow/llvm backend (spec.md §4.3, §6.2): one module per
// compilation, a prototype table for forward declarations, a symbol
// environment of stack slots for locals and parameters, and a synthetic
// `main` tying the last bare top-level expression to a return value.
//
// This generalizes the teacher's ASTCompiler (compiler/ast_compiler.go),
// which walks a statement/expression visitor tree to emit bytecode, into
// one that walks Kaleidoscope's single Expr sum and emits LLVM IR
// instead — same shadow-and-restore environment discipline, different
// target.
package codegen

import (
	"fmt"

	"github.com/ajsnow/llvm"

	"github.com/informatter/kaleidoscope/ast"
)

// ForLoopStrategy selects how `for` lowers its induction variable
// (spec.md §4.3, Design Notes). MutableSlot is the default — the
// teacher's Design Notes call it "the cleanest design" since it permits
// assignment to the induction variable with no analysis.
type ForLoopStrategy int

const (
	MutableSlot ForLoopStrategy = iota
	PhiSSA
)

var doubleType = llvm.DoubleType()

// Generator owns the backend context, module, and builder for one
// compilation, plus the prototype table and symbol environment spec.md
// §4.3 requires. It is not safe for concurrent use — the pipeline is
// strictly sequential (spec.md §5).
type Generator struct {
	ctx     llvm.Context
	module  llvm.Module
	builder llvm.Builder

	protos map[string]*ast.Prototype
	env    *environment

	strategy ForLoopStrategy

	currentFn     llvm.Value
	lastTopExprFn llvm.Value
	topExprCount  int
}

// New creates a Generator with a fresh backend context and module named
// moduleName, defaulting to the mutable-slot `for` lowering strategy.
func New(moduleName string) *Generator {
	ctx := llvm.NewContext()
	return &Generator{
		ctx:     ctx,
		module:  ctx.NewModule(moduleName),
		builder: ctx.NewBuilder(),
		protos:  map[string]*ast.Prototype{},
		env:     newEnvironment(),
	}
}

// WithForLoopStrategy overrides the default `for` lowering strategy.
// Both strategies must produce equivalent results for loops that never
// reassign their induction variable (spec.md §8's round-trip property);
// this hook exists so tests can compile the same program both ways and
// compare.
func (g *Generator) WithForLoopStrategy(s ForLoopStrategy) *Generator {
	g.strategy = s
	return g
}

// Module returns the backend module IR has been emitted into, ready for
// the jit package to finalize.
func (g *Generator) Module() llvm.Module {
	return g.module
}

// Dispose releases the backend context and builder. Call once codegen
// and JIT execution are both finished with the module.
func (g *Generator) Dispose() {
	g.builder.Dispose()
	g.ctx.Dispose()
}

// Generate lowers every top-level item in source order, then emits the
// synthetic `main` (spec.md §4.3's "Top-level execution"). It stops at
// the first error, per spec.md §7 — there is no per-item recovery.
func (g *Generator) Generate(items []ast.TopLevelItem) (llvm.Value, error) {
	if err := g.GenerateItems(items); err != nil {
		return llvm.Value{}, err
	}
	return g.EmitMain(), nil
}

// GenerateItems lowers items into the module without touching `main` —
// split out from Generate so a REPL session can keep appending to the
// same module across lines (spec.md §9's REPL supplement) and decide
// separately when to (re-)synthesize the entry point.
func (g *Generator) GenerateItems(items []ast.TopLevelItem) error {
	for _, item := range items {
		var err error
		switch n := item.(type) {
		case ast.ExternDecl:
			err = g.genExtern(n)
		case ast.FunctionDef:
			err = g.genFunctionDef(n)
		case ast.TopExpr:
			err = g.genTopExpr(n)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// EmitMain (re-)synthesizes `main`, dropping any previous one first.
// Safe to call repeatedly as a REPL accumulates more top-level items —
// each call rebuilds `main` to call whatever is now the last top-level
// expression.
func (g *Generator) EmitMain() llvm.Value {
	if existing := g.module.NamedFunction("main"); !existing.IsNil() {
		existing.EraseFromParentAsFunction()
	}
	return g.genMain()
}

func (g *Generator) genExtern(n ast.ExternDecl) error {
	g.protos[n.Proto.Name] = n.Proto
	_, err := g.declareFunction(n.Proto)
	return err
}

func (g *Generator) genFunctionDef(n ast.FunctionDef) error {
	g.protos[n.Fn.Proto.Name] = n.Fn.Proto
	_, err := g.defineFunction(n.Fn.Proto, n.Fn.Body)
	return err
}

// genTopExpr wraps a bare expression in a uniquely-named synthetic
// function — the parser leaves this to codegen (parser/parser.go's
// parseTopExpr comment) precisely because a program may contain more
// than one bare expression, and `_top_level_expr` alone would collide.
func (g *Generator) genTopExpr(n ast.TopExpr) error {
	name := ast.TopLevelExprFuncName
	if g.topExprCount > 0 {
		name = fmt.Sprintf("%s.%d", ast.TopLevelExprFuncName, g.topExprCount)
	}
	g.topExprCount++

	proto := &ast.Prototype{Name: name, Params: nil, Kind: ast.PlainFunction}
	fn, err := g.defineFunction(proto, n.Expr)
	if err != nil {
		return err
	}
	g.lastTopExprFn = fn
	return nil
}

// genMain emits the synthetic entry point the JIT driver invokes:
// it calls the last top-level expression's function and returns its
// value, or 0.0 if the program had no bare top-level expression
// (spec.md §4.3, §8's "empty program" boundary case).
func (g *Generator) genMain() llvm.Value {
	fnType := llvm.FunctionType(doubleType, nil, false)
	mainFn := llvm.AddFunction(g.module, "main", fnType)
	entry := g.ctx.AddBasicBlock(mainFn, "entry")
	g.builder.SetInsertPointAtEnd(entry)

	var result llvm.Value
	if g.lastTopExprFn.IsNil() {
		result = llvm.ConstFloat(doubleType, 0)
	} else {
		result = g.builder.CreateCall(g.lastTopExprFn, nil, "topexprresult")
	}
	g.builder.CreateRet(result)
	return mainFn
}
