package parser

import (
	"fmt"

	"github.com/informatter/kaleidoscope/ast"
)

// Sprint renders parsed top-level items back to concrete syntax, one
// per line — used by the parse→print→re-parse round-trip tests
// (spec.md §8).
func Sprint(items []ast.TopLevelItem) string {
	out := ""
	for _, item := range items {
		switch n := item.(type) {
		case ast.ExternDecl:
			out += fmt.Sprintf("extern %s(%s);\n", protoHead(n.Proto), protoParams(n.Proto))
		case ast.FunctionDef:
			out += fmt.Sprintf("def %s(%s) %s;\n", protoHead(n.Fn.Proto), protoParams(n.Fn.Proto), ast.Sprint(n.Fn.Body))
		case ast.TopExpr:
			out += ast.Sprint(n.Expr) + ";\n"
		}
	}
	return out
}

// protoHead renders the part of a prototype between "def"/"extern" and
// the parameter list: a plain name, or "unary<op>"/"binary<op> <prec>"
// for an operator prototype — the form parsePrototype (parser.go)
// expects to read back in, not the mangled backend symbol name.
func protoHead(p *ast.Prototype) string {
	switch p.Kind {
	case ast.UnaryOperator:
		return fmt.Sprintf("unary%c", p.Op)
	case ast.BinaryOperator:
		return fmt.Sprintf("binary%c %d", p.Op, p.Precedence)
	default:
		return p.Name
	}
}

func protoParams(p *ast.Prototype) string {
	out := ""
	for i, param := range p.Params {
		if i > 0 {
			out += " "
		}
		out += param
	}
	return out
}
