// Package ast defines the Kaleidoscope abstract syntax tree: a sum type
// over expression kinds (spec.md §3) plus function prototypes,
// definitions, and top-level items.
package ast

// Expr is the sum type over all expression kinds. Every concrete
// expression type below implements it via the unexported exprNode
// marker method, closing the sum the way a Rust/ML enum would.
type Expr interface {
	exprNode()
}

// Number is a literal double.
type Number struct {
	Value float64
}

// Variable is a reference to a previously-bound name — a parameter, a
// `var` binding, or a `for` induction variable.
type Variable struct {
	Name string
}

// Binary is a binary operator application. Op is one of the builtin
// '+', '-', '*', '<' or a user-defined operator character registered
// via `def binary<op> ...`. The parser never produces Op == '=': a
// binary '=' is rewritten into an Assign node (spec.md §4.2) rather
// than being its own primary production.
type Binary struct {
	Op  rune
	LHS Expr
	RHS Expr
}

// Unary is application of a user-defined unary operator; Kaleidoscope
// has no builtin unary operators (spec.md §4.2's primary grammar only
// recognizes a unary prefix when the operator has been user-declared).
type Unary struct {
	Op      rune
	Operand Expr
}

// Call invokes a previously declared or defined function by name.
type Call struct {
	Callee string
	Args   []Expr
}

// If is a ternary conditional expression; both branches produce a
// value and are required.
type If struct {
	Cond Expr
	Then Expr
	Else Expr
}

// For is a counted loop. Step is nil when the source omits it, meaning
// "default to 1.0" (spec.md §3/§4.3). The loop's own value is always
// 0.0.
type For struct {
	Var   string
	Start Expr
	End   Expr
	Step  Expr
	Body  Expr
}

// Binding is one `name (= expr)?` clause inside a `var` expression.
// Init is nil when the source omits the initializer, in which case
// codegen substitutes 0.0 (spec.md §4.3).
type Binding struct {
	Name string
	Init Expr
}

// VarExpr introduces one or more scoped stack slots, sequentially
// initialized, visible to the later bindings of the same block and to
// Body (spec.md §3, §4.3, §8 invariant 6).
type VarExpr struct {
	Bindings []Binding
	Body     Expr
}

// Assign stores Value into the stack slot bound to Name and yields the
// stored value. The parser only ever produces this node when the LHS
// of a binary '=' is a bare Variable (spec.md §3's invariant); any
// other LHS is a parse error before an Assign node can exist.
type Assign struct {
	Name  string
	Value Expr
}

func (Number) exprNode()   {}
func (Variable) exprNode() {}
func (Binary) exprNode()   {}
func (Unary) exprNode()    {}
func (Call) exprNode()     {}
func (If) exprNode()       {}
func (For) exprNode()      {}
func (VarExpr) exprNode()  {}
func (Assign) exprNode()   {}
