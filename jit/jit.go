// Package jit finalizes a codegen'd module against the backend's MCJIT
// execution engine, resolves extern symbols from the ffi registry, and
// invokes the synthesized `main` (spec.md §4.5, §6.2). Grounded in
// vm/vm.go's Run(bytecode) error entry-point shape and vm/errors.go's
// RuntimeError — same "one call, one typed error" driver contract, a
// different execution substrate underneath.
package jit

import "github.com/ajsnow/llvm"

// JIT owns the backend execution engine for one compiled module.
type JIT struct {
	engine llvm.ExecutionEngine
	module llvm.Module
}

// New finalizes module into an MCJIT engine and binds every externally
// declared (bodyless) function against registry. A reference with no
// matching registry entry is a RuntimeError (spec.md §4.4) — resolution
// happens eagerly here rather than lazily at call time, so a bad extern
// reference fails before `main` ever runs.
func New(module llvm.Module, registry map[string]uintptr) (*JIT, error) {
	if err := llvm.InitializeNativeTarget(); err != nil {
		return nil, newRuntimeError("failed to initialize native target: %v", err)
	}
	if err := llvm.InitializeNativeAsmPrinter(); err != nil {
		return nil, newRuntimeError("failed to initialize native asm printer: %v", err)
	}

	options := llvm.NewMCJITCompilerOptions()
	engine, err := llvm.NewMCJITCompiler(module, options)
	if err != nil {
		return nil, newRuntimeError("failed to create JIT engine: %v", err)
	}

	j := &JIT{engine: engine, module: module}
	if err := j.bindExterns(registry); err != nil {
		j.engine.Dispose()
		return nil, err
	}
	return j, nil
}

// bindExterns walks every function declared but not defined in the
// module (no basic blocks — an extern with no local definition) and
// maps it to its native address from registry.
func (j *JIT) bindExterns(registry map[string]uintptr) error {
	for fn := j.module.FirstFunction(); !fn.IsNil(); fn = llvm.NextFunction(fn) {
		if fn.BasicBlocksCount() > 0 {
			continue
		}
		name := fn.Name()
		addr, ok := registry[name]
		if !ok {
			return newRuntimeError("unresolved extern symbol '%s'", name)
		}
		j.engine.AddGlobalMapping(fn, addr)
	}
	return nil
}

// RunMain looks up and invokes the synthesized `main` (signature
// () -> double) and returns its result (spec.md §4.3's "Top-level
// execution", §6.1's "Result: <f64>" output line).
func (j *JIT) RunMain() (float64, error) {
	mainFn := j.module.NamedFunction("main")
	if mainFn.IsNil() {
		return 0, newRuntimeError("no 'main' function was emitted")
	}
	result := j.engine.RunFunction(mainFn, nil)
	return result.Float(llvm.DoubleType()), nil
}

// Dispose releases the execution engine, which also owns module once
// AddModule-equivalent finalization has taken place.
func (j *JIT) Dispose() {
	j.engine.Dispose()
}
