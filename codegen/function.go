package codegen

import (
	"github.com/ajsnow/llvm"

	"github.com/informatter/kaleidoscope/ast"
)

// declareFunction looks up or creates the backend function for proto
// with no body (an extern, or the forward half of a definition). An
// existing declaration with a mismatched arity is a redefinition error;
// one with a matching arity is reused as-is (spec.md §4.3 step 1).
func (g *Generator) declareFunction(proto *ast.Prototype) (llvm.Value, error) {
	fn := g.module.NamedFunction(proto.Name)
	if !fn.IsNil() {
		if fn.ParamsCount() != proto.Arity() {
			return llvm.Value{}, newSemanticError("function '%s' redeclared with a different arity", proto.Name)
		}
		return fn, nil
	}

	paramTypes := make([]llvm.Type, proto.Arity())
	for i := range paramTypes {
		paramTypes[i] = doubleType
	}
	fnType := llvm.FunctionType(doubleType, paramTypes, false)
	fn = llvm.AddFunction(g.module, proto.Name, fnType)
	for i, param := range fn.Params() {
		param.SetName(proto.Params[i])
	}
	return fn, nil
}

// defineFunction lowers a function body against a fresh entry block and
// parameter scope (spec.md §4.3's five-step function lowering). On any
// error, including failed verification, the function is removed from
// the module before the error is returned, leaving the module valid.
func (g *Generator) defineFunction(proto *ast.Prototype, body ast.Expr) (llvm.Value, error) {
	fn, err := g.declareFunction(proto)
	if err != nil {
		return llvm.Value{}, err
	}
	if fn.BasicBlocksCount() > 0 {
		return llvm.Value{}, newSemanticError("function '%s' cannot be redefined", proto.Name)
	}

	prevFn := g.currentFn
	g.currentFn = fn
	defer func() { g.currentFn = prevFn }()

	entry := g.ctx.AddBasicBlock(fn, "entry")
	g.builder.SetInsertPointAtEnd(entry)

	saves := make([]saved, 0, len(proto.Params))
	for i, name := range proto.Params {
		slot := g.createEntryBlockAlloca(fn, name)
		g.builder.CreateStore(fn.Param(i), slot)
		saves = append(saves, g.env.bindSlot(name, slot))
	}

	result, err := g.lowerExpr(body)
	restoreAll(g.env, saves)
	if err != nil {
		fn.EraseFromParentAsFunction()
		return llvm.Value{}, err
	}
	g.builder.CreateRet(result)

	if verr := llvm.VerifyFunction(fn, llvm.PrintMessageAction); verr != nil {
		fn.EraseFromParentAsFunction()
		return llvm.Value{}, newSemanticError("function '%s' failed verification: %v", proto.Name, verr)
	}
	return fn, nil
}

// createEntryBlockAlloca allocates a stack slot at the start of fn's
// entry block regardless of where the builder is currently inserting,
// preserving the alloca-in-entry invariant spec.md §4.3 and §8 invariant
// 4 require even when the alloca is requested from deep inside a `for`
// or `var` body. This is the classic Kaleidoscope-tutorial technique:
// a throwaway builder positioned before the entry block's first
// instruction (or at its end, for the very first alloca).
func (g *Generator) createEntryBlockAlloca(fn llvm.Value, name string) llvm.Value {
	entry := fn.EntryBasicBlock()
	tmp := g.ctx.NewBuilder()
	defer tmp.Dispose()

	if first := entry.FirstInstruction(); !first.IsNil() {
		tmp.SetInsertPointBefore(first)
	} else {
		tmp.SetInsertPointAtEnd(entry)
	}
	return tmp.CreateAlloca(doubleType, name)
}
