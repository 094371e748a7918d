package codegen

import "github.com/ajsnow/llvm"

// binding is one entry of the symbol environment: either a stack slot
// (needs a load to read, spec.md §4.3's default) or a bare SSA value
// bound directly (the phi-form `for` loop's induction variable).
type binding struct {
	value  llvm.Value
	isSlot bool
}

// saved is what a scoped bind returns: enough to undo it on scope exit,
// including the error paths that abort codegen mid-expression (spec.md's
// Design Notes on environment management).
type saved struct {
	name     string
	prior    binding
	hadPrior bool
}

// environment is the flat name→binding map described in spec.md §4.3 —
// a single map mutated via scoped bind/restore rather than a stack of
// per-scope maps, mirroring the teacher's ASTCompiler.locals shadowing
// discipline (save the prior entry, don't nest a new map).
type environment struct {
	vars map[string]binding
}

func newEnvironment() *environment {
	return &environment{vars: map[string]binding{}}
}

func (e *environment) bindSlot(name string, slot llvm.Value) saved {
	return e.bind(name, binding{value: slot, isSlot: true})
}

func (e *environment) bindValue(name string, value llvm.Value) saved {
	return e.bind(name, binding{value: value, isSlot: false})
}

func (e *environment) bind(name string, b binding) saved {
	prior, had := e.vars[name]
	e.vars[name] = b
	return saved{name: name, prior: prior, hadPrior: had}
}

// restore undoes a bind, returning the name to whatever it was bound to
// before (or unbinding it entirely) — spec.md §8 invariant 7.
func (e *environment) restore(s saved) {
	if s.hadPrior {
		e.vars[s.name] = s.prior
	} else {
		delete(e.vars, s.name)
	}
}

func (e *environment) lookup(name string) (binding, bool) {
	b, ok := e.vars[name]
	return b, ok
}

// restoreAll unwinds a batch of bindings in reverse order — the shape
// every multi-binding scope (function params, a `var` block) needs on
// every exit path, success or error.
func restoreAll(env *environment, saves []saved) {
	for i := len(saves) - 1; i >= 0; i-- {
		env.restore(saves[i])
	}
}
