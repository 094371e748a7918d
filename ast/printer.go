package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Sprint renders an expression back to Kaleidoscope concrete syntax,
// fully parenthesized so that parsing Sprint(e) reproduces the same
// tree regardless of the precedence table in effect at print time
// (spec.md §8's parse→print→re-parse property).
func Sprint(e Expr) string {
	var b strings.Builder
	sprint(&b, e)
	return b.String()
}

func sprint(b *strings.Builder, e Expr) {
	switch n := e.(type) {
	case Number:
		b.WriteString(strconv.FormatFloat(n.Value, 'f', -1, 64))
	case Variable:
		b.WriteString(n.Name)
	case Binary:
		b.WriteByte('(')
		sprint(b, n.LHS)
		fmt.Fprintf(b, " %c ", n.Op)
		sprint(b, n.RHS)
		b.WriteByte(')')
	case Unary:
		fmt.Fprintf(b, "(%c", n.Op)
		sprint(b, n.Operand)
		b.WriteByte(')')
	case Call:
		b.WriteString(n.Callee)
		b.WriteByte('(')
		for i, arg := range n.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			sprint(b, arg)
		}
		b.WriteByte(')')
	case If:
		b.WriteString("(if ")
		sprint(b, n.Cond)
		b.WriteString(" then ")
		sprint(b, n.Then)
		b.WriteString(" else ")
		sprint(b, n.Else)
		b.WriteByte(')')
	case For:
		fmt.Fprintf(b, "(for %s = ", n.Var)
		sprint(b, n.Start)
		b.WriteString(", ")
		sprint(b, n.End)
		if n.Step != nil {
			b.WriteString(", ")
			sprint(b, n.Step)
		}
		b.WriteString(" in ")
		sprint(b, n.Body)
		b.WriteByte(')')
	case VarExpr:
		b.WriteString("(var ")
		for i, bind := range n.Bindings {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(bind.Name)
			if bind.Init != nil {
				b.WriteString(" = ")
				sprint(b, bind.Init)
			}
		}
		b.WriteString(" in ")
		sprint(b, n.Body)
		b.WriteByte(')')
	case Assign:
		fmt.Fprintf(b, "(%s = ", n.Name)
		sprint(b, n.Value)
		b.WriteByte(')')
	default:
		fmt.Fprintf(b, "<unknown expr %T>", e)
	}
}
