package ast

import "fmt"

// Kind distinguishes a plain function prototype from the two flavors
// of user-defined operator prototype (spec.md §3).
type Kind int

const (
	// PlainFunction is an ordinary named function or extern.
	PlainFunction Kind = iota
	// UnaryOperator prototypes declare exactly one parameter and
	// register a `unary<op>` callable.
	UnaryOperator
	// BinaryOperator prototypes declare exactly two parameters, carry
	// a precedence, and register a `binary<op>` callable.
	BinaryOperator
)

// Prototype is a function signature without a body: a name, its
// parameter names in order, and — for operator prototypes — the
// operator character and, for binary operators, its precedence.
type Prototype struct {
	Name       string
	Params     []string
	Kind       Kind
	Op         rune
	Precedence int
}

// MangledName is the symbol the backend registers this prototype
// under. Operator prototypes mangle to "unary<c>"/"binary<c>" so a
// user-defined operator is just sugar over an ordinary call (spec.md
// §3).
func (p *Prototype) MangledName() string {
	switch p.Kind {
	case UnaryOperator:
		return fmt.Sprintf("unary%c", p.Op)
	case BinaryOperator:
		return fmt.Sprintf("binary%c", p.Op)
	default:
		return p.Name
	}
}

// Arity is len(Params), validated by the parser against the operator
// kind (unary == 1, binary == 2) at the point the prototype is parsed.
func (p *Prototype) Arity() int {
	return len(p.Params)
}

// Function pairs a prototype with its body expression.
type Function struct {
	Proto *Prototype
	Body  Expr
}

// TopLevelItem is one parsed top-level construct: an extern
// declaration, a function definition, or a bare expression.
type TopLevelItem interface {
	topLevelNode()
}

// ExternDecl declares a prototype with no body, resolved at codegen
// time against the backend's prototype table and at JIT time against
// the FFI registry.
type ExternDecl struct {
	Proto *Prototype
}

// FunctionDef defines a function (or user-defined operator) body.
type FunctionDef struct {
	Fn *Function
}

// TopExpr is a bare top-level expression. The parser leaves it as is;
// codegen wraps it into a synthetic nullary function.
type TopExpr struct {
	Expr Expr
}

func (ExternDecl) topLevelNode()  {}
func (FunctionDef) topLevelNode() {}
func (TopExpr) topLevelNode()     {}

// TopLevelExprFuncName is the name codegen gives to the synthetic
// function wrapping the first bare top-level expression; later ones get
// a ".1", ".2", ... suffix.
const TopLevelExprFuncName = "_top_level_expr"
