package codegen

import (
	"fmt"

	"github.com/ajsnow/llvm"

	"github.com/informatter/kaleidoscope/ast"
)

// lowerExpr dispatches on the AST's sum type the way ajsnow-kaleidoscope's
// ExprAST.codegen() does, one method per concrete Expr (spec.md §4.3's
// per-variant rules).
func (g *Generator) lowerExpr(e ast.Expr) (llvm.Value, error) {
	switch n := e.(type) {
	case ast.Number:
		return llvm.ConstFloat(doubleType, n.Value), nil
	case ast.Variable:
		return g.lowerVariable(n)
	case ast.Unary:
		return g.lowerUnary(n)
	case ast.Binary:
		return g.lowerBinary(n)
	case ast.Call:
		return g.lowerCall(n)
	case ast.Assign:
		return g.lowerAssign(n)
	case ast.If:
		return g.lowerIf(n)
	case ast.For:
		return g.lowerFor(n)
	case ast.VarExpr:
		return g.lowerVar(n)
	default:
		return llvm.Value{}, newSemanticError("unhandled expression type %T", e)
	}
}

func (g *Generator) lowerVariable(n ast.Variable) (llvm.Value, error) {
	b, ok := g.env.lookup(n.Name)
	if !ok {
		return llvm.Value{}, newSemanticError("unknown variable '%s'", n.Name)
	}
	if !b.isSlot {
		return b.value, nil
	}
	return g.builder.CreateLoad(b.value, n.Name), nil
}

func (g *Generator) lowerUnary(n ast.Unary) (llvm.Value, error) {
	operand, err := g.lowerExpr(n.Operand)
	if err != nil {
		return llvm.Value{}, err
	}
	name := fmt.Sprintf("unary%c", n.Op)
	fn := g.module.NamedFunction(name)
	if fn.IsNil() {
		return llvm.Value{}, newSemanticError("unknown unary operator '%c'", n.Op)
	}
	return g.builder.CreateCall(fn, []llvm.Value{operand}, "unop"), nil
}

func (g *Generator) lowerBinary(n ast.Binary) (llvm.Value, error) {
	lhs, err := g.lowerExpr(n.LHS)
	if err != nil {
		return llvm.Value{}, err
	}
	rhs, err := g.lowerExpr(n.RHS)
	if err != nil {
		return llvm.Value{}, err
	}

	switch n.Op {
	case '+':
		return g.builder.CreateFAdd(lhs, rhs, "addtmp"), nil
	case '-':
		return g.builder.CreateFSub(lhs, rhs, "subtmp"), nil
	case '*':
		return g.builder.CreateFMul(lhs, rhs, "multmp"), nil
	case '<':
		cmp := g.builder.CreateFCmp(llvm.FloatULT, lhs, rhs, "cmptmp")
		return g.builder.CreateUIToFP(cmp, doubleType, "booltmp"), nil
	default:
		name := fmt.Sprintf("binary%c", n.Op)
		fn := g.module.NamedFunction(name)
		if fn.IsNil() {
			return llvm.Value{}, newSemanticError("unknown binary operator '%c'", n.Op)
		}
		return g.builder.CreateCall(fn, []llvm.Value{lhs, rhs}, "binop"), nil
	}
}

func (g *Generator) lowerCall(n ast.Call) (llvm.Value, error) {
	proto, ok := g.protos[n.Callee]
	if !ok {
		return llvm.Value{}, newSemanticError("unknown function '%s'", n.Callee)
	}
	if len(n.Args) != proto.Arity() {
		return llvm.Value{}, newSemanticError("'%s' expects %d argument(s), got %d", n.Callee, proto.Arity(), len(n.Args))
	}
	fn := g.module.NamedFunction(n.Callee)
	if fn.IsNil() {
		return llvm.Value{}, newSemanticError("unknown function '%s'", n.Callee)
	}

	args := make([]llvm.Value, len(n.Args))
	for i, arg := range n.Args {
		v, err := g.lowerExpr(arg)
		if err != nil {
			return llvm.Value{}, err
		}
		args[i] = v
	}
	return g.builder.CreateCall(fn, args, "calltmp"), nil
}

// lowerAssign stores into the slot bound to n.Name and yields the
// stored value, so `(x = 4) + 1` works (spec.md §4.3's Assign rule).
// The parser guarantees the LHS was a bare Variable before this node
// ever exists; lookup failure here means the name is simply unbound.
func (g *Generator) lowerAssign(n ast.Assign) (llvm.Value, error) {
	b, ok := g.env.lookup(n.Name)
	if !ok {
		return llvm.Value{}, newSemanticError("unknown variable '%s'", n.Name)
	}
	if !b.isSlot {
		return llvm.Value{}, newSemanticError("cannot assign to '%s'", n.Name)
	}
	val, err := g.lowerExpr(n.Value)
	if err != nil {
		return llvm.Value{}, err
	}
	g.builder.CreateStore(val, b.value)
	return val, nil
}

// lowerIf stitches three basic blocks and a 2-input phi (spec.md §4.3).
// The phi's predecessors are recorded as whatever block is current
// immediately after lowering each branch — not the branch's own header
// block — since a nested if/for/var inside a branch can move the
// insertion point before control reaches the branch to merge (spec.md's
// Design Notes call this the most common source of miscompilation).
func (g *Generator) lowerIf(n ast.If) (llvm.Value, error) {
	cond, err := g.lowerExpr(n.Cond)
	if err != nil {
		return llvm.Value{}, err
	}
	zero := llvm.ConstFloat(doubleType, 0)
	condBool := g.builder.CreateFCmp(llvm.FloatONE, cond, zero, "ifcond")

	thenBB := g.ctx.AddBasicBlock(g.currentFn, "then")
	elseBB := g.ctx.AddBasicBlock(g.currentFn, "else")
	mergeBB := g.ctx.AddBasicBlock(g.currentFn, "ifcont")

	g.builder.CreateCondBr(condBool, thenBB, elseBB)

	g.builder.SetInsertPointAtEnd(thenBB)
	thenVal, err := g.lowerExpr(n.Then)
	if err != nil {
		return llvm.Value{}, err
	}
	g.builder.CreateBr(mergeBB)
	thenEndBB := g.builder.GetInsertBlock()

	g.builder.SetInsertPointAtEnd(elseBB)
	elseVal, err := g.lowerExpr(n.Else)
	if err != nil {
		return llvm.Value{}, err
	}
	g.builder.CreateBr(mergeBB)
	elseEndBB := g.builder.GetInsertBlock()

	g.builder.SetInsertPointAtEnd(mergeBB)
	phi := g.builder.CreatePHI(doubleType, "iftmp")
	phi.AddIncoming(
		[]llvm.Value{thenVal, elseVal},
		[]llvm.BasicBlock{thenEndBB, elseEndBB},
	)
	return phi, nil
}

// lowerFor dispatches to whichever loop-lowering strategy the Generator
// was configured with (spec.md §4.3, Design Notes); both must be
// semantically equivalent for loops that never reassign var.
func (g *Generator) lowerFor(n ast.For) (llvm.Value, error) {
	if g.strategy == PhiSSA {
		return g.lowerForPhi(n)
	}
	return g.lowerForMutableSlot(n)
}

// lowerForMutableSlot is the default strategy: allocate a slot for var,
// store start, loop by load/compute/store, re-evaluating end each
// iteration. step defaults to 1.0 when absent.
func (g *Generator) lowerForMutableSlot(n ast.For) (llvm.Value, error) {
	start, err := g.lowerExpr(n.Start)
	if err != nil {
		return llvm.Value{}, err
	}

	slot := g.createEntryBlockAlloca(g.currentFn, n.Var)
	g.builder.CreateStore(start, slot)
	save := g.env.bindSlot(n.Var, slot)
	defer g.env.restore(save)

	loopBB := g.ctx.AddBasicBlock(g.currentFn, "loop")
	g.builder.CreateBr(loopBB)
	g.builder.SetInsertPointAtEnd(loopBB)

	if _, err := g.lowerExpr(n.Body); err != nil {
		return llvm.Value{}, err
	}

	var stepVal llvm.Value
	if n.Step != nil {
		stepVal, err = g.lowerExpr(n.Step)
		if err != nil {
			return llvm.Value{}, err
		}
	} else {
		stepVal = llvm.ConstFloat(doubleType, 1.0)
	}

	endVal, err := g.lowerExpr(n.End)
	if err != nil {
		return llvm.Value{}, err
	}

	cur := g.builder.CreateLoad(slot, n.Var)
	next := g.builder.CreateFAdd(cur, stepVal, "nextvar")
	g.builder.CreateStore(next, slot)

	zero := llvm.ConstFloat(doubleType, 0)
	cond := g.builder.CreateFCmp(llvm.FloatONE, endVal, zero, "loopcond")

	afterBB := g.ctx.AddBasicBlock(g.currentFn, "afterloop")
	g.builder.CreateCondBr(cond, loopBB, afterBB)
	g.builder.SetInsertPointAtEnd(afterBB)

	return llvm.ConstFloat(doubleType, 0), nil
}

// lowerForPhi is the phi-SSA alternative (spec.md §4.3): the induction
// variable is a phi value, never a slot, so it cannot be reassigned
// from the loop body — a body that tries yields "cannot assign" from
// lowerAssign, which is correct since this strategy is only valid for
// loops that never reassign var.
func (g *Generator) lowerForPhi(n ast.For) (llvm.Value, error) {
	start, err := g.lowerExpr(n.Start)
	if err != nil {
		return llvm.Value{}, err
	}
	preheader := g.builder.GetInsertBlock()

	loopBB := g.ctx.AddBasicBlock(g.currentFn, "loop")
	g.builder.CreateBr(loopBB)
	g.builder.SetInsertPointAtEnd(loopBB)

	phi := g.builder.CreatePHI(doubleType, n.Var)
	phi.AddIncoming([]llvm.Value{start}, []llvm.BasicBlock{preheader})

	save := g.env.bindValue(n.Var, phi)
	if _, err := g.lowerExpr(n.Body); err != nil {
		g.env.restore(save)
		return llvm.Value{}, err
	}

	var stepVal llvm.Value
	if n.Step != nil {
		stepVal, err = g.lowerExpr(n.Step)
	} else {
		stepVal = llvm.ConstFloat(doubleType, 1.0)
	}
	if err != nil {
		g.env.restore(save)
		return llvm.Value{}, err
	}
	next := g.builder.CreateFAdd(phi, stepVal, "nextvar")
	latch := g.builder.GetInsertBlock()
	phi.AddIncoming([]llvm.Value{next}, []llvm.BasicBlock{latch})

	endVal, err := g.lowerExpr(n.End)
	g.env.restore(save)
	if err != nil {
		return llvm.Value{}, err
	}
	zero := llvm.ConstFloat(doubleType, 0)
	cond := g.builder.CreateFCmp(llvm.FloatONE, endVal, zero, "loopcond")

	afterBB := g.ctx.AddBasicBlock(g.currentFn, "afterloop")
	g.builder.CreateCondBr(cond, loopBB, afterBB)
	g.builder.SetInsertPointAtEnd(afterBB)

	return llvm.ConstFloat(doubleType, 0), nil
}

// lowerVar sequentially binds each name in a `var` block — later
// initializers see earlier bindings of the same block (spec.md §8
// invariant 6) — then lowers Body under the extended environment,
// restoring every shadowed name on exit (invariant 7).
func (g *Generator) lowerVar(n ast.VarExpr) (llvm.Value, error) {
	saves := make([]saved, 0, len(n.Bindings))
	defer func() { restoreAll(g.env, saves) }()

	for _, b := range n.Bindings {
		var initVal llvm.Value
		var err error
		if b.Init != nil {
			initVal, err = g.lowerExpr(b.Init)
			if err != nil {
				return llvm.Value{}, err
			}
		} else {
			initVal = llvm.ConstFloat(doubleType, 0)
		}
		slot := g.createEntryBlockAlloca(g.currentFn, b.Name)
		g.builder.CreateStore(initVal, slot)
		saves = append(saves, g.env.bindSlot(b.Name, slot))
	}
	return g.lowerExpr(n.Body)
}
