package parser

import (
	"testing"

	"github.com/informatter/kaleidoscope/ast"
	"github.com/informatter/kaleidoscope/lexer"
)

func parse(t *testing.T, src string) []ast.TopLevelItem {
	t.Helper()
	items, err := New(lexer.Tokenize(src)).Parse()
	if err != nil {
		t.Fatalf("Parse(%q) returned error: %v", src, err)
	}
	return items
}

func TestParsePrecedenceClimbing(t *testing.T) {
	items := parse(t, "1 + 2 * 3;")
	top, ok := items[0].(ast.TopExpr)
	if !ok {
		t.Fatalf("items[0] = %T, want ast.TopExpr", items[0])
	}
	want := "(1 + (2 * 3))"
	if got := ast.Sprint(top.Expr); got != want {
		t.Errorf("Sprint() = %q, want %q", got, want)
	}
}

func TestParseLeftAssociativeSamePrecedence(t *testing.T) {
	items := parse(t, "1 - 2 - 3;")
	top := items[0].(ast.TopExpr)
	want := "((1 - 2) - 3)"
	if got := ast.Sprint(top.Expr); got != want {
		t.Errorf("Sprint() = %q, want %q", got, want)
	}
}

func TestParsePreservesTopLevelOrder(t *testing.T) {
	items := parse(t, "extern foo(x); def bar(x) x; 42;")
	if len(items) != 3 {
		t.Fatalf("len(items) = %d, want 3", len(items))
	}
	if _, ok := items[0].(ast.ExternDecl); !ok {
		t.Errorf("items[0] = %T, want ExternDecl", items[0])
	}
	if _, ok := items[1].(ast.FunctionDef); !ok {
		t.Errorf("items[1] = %T, want FunctionDef", items[1])
	}
	if _, ok := items[2].(ast.TopExpr); !ok {
		t.Errorf("items[2] = %T, want TopExpr", items[2])
	}
}

func TestParseUserDefinedBinaryOperatorScopesForward(t *testing.T) {
	// The new operator ':' must be usable inside its own defining body,
	// since its precedence is registered before the body is parsed.
	items := parse(t, "def binary: 1 (x y) x : y : x;")
	fn := items[0].(ast.FunctionDef)
	bin, ok := fn.Fn.Body.(ast.Binary)
	if !ok {
		t.Fatalf("body = %T, want ast.Binary", fn.Fn.Body)
	}
	if bin.Op != ':' {
		t.Errorf("outer op = %q, want ':'", bin.Op)
	}
}

func TestParseUserDefinedUnaryOperator(t *testing.T) {
	items := parse(t, "def unary!(x) 0; !3;")
	top := items[1].(ast.TopExpr)
	un, ok := top.Expr.(ast.Unary)
	if !ok {
		t.Fatalf("expr = %T, want ast.Unary", top.Expr)
	}
	if un.Op != '!' {
		t.Errorf("op = %q, want '!'", un.Op)
	}
}

func TestParseAssignRequiresVariableLHS(t *testing.T) {
	_, err := New(lexer.Tokenize("1 = 2;")).Parse()
	if err == nil {
		t.Fatal("expected a syntax error assigning to a non-variable")
	}
}

func TestParseForWithoutStep(t *testing.T) {
	items := parse(t, "for i = 1, 10 in i;")
	top := items[0].(ast.TopExpr)
	f, ok := top.Expr.(ast.For)
	if !ok {
		t.Fatalf("expr = %T, want ast.For", top.Expr)
	}
	if f.Step != nil {
		t.Errorf("Step = %v, want nil", f.Step)
	}
}

func TestParseVarSequentialBindings(t *testing.T) {
	items := parse(t, "var x = 1, y = x in y;")
	top := items[0].(ast.TopExpr)
	v, ok := top.Expr.(ast.VarExpr)
	if !ok {
		t.Fatalf("expr = %T, want ast.VarExpr", top.Expr)
	}
	if len(v.Bindings) != 2 {
		t.Fatalf("len(Bindings) = %d, want 2", len(v.Bindings))
	}
	if v.Bindings[0].Name != "x" || v.Bindings[1].Name != "y" {
		t.Errorf("bindings = %+v, want x then y", v.Bindings)
	}
}

func TestParseAbortsOnFirstError(t *testing.T) {
	items, err := New(lexer.Tokenize("def foo(x) x; )))")).Parse()
	if err == nil {
		t.Fatal("expected a syntax error")
	}
	if len(items) != 1 {
		t.Errorf("len(items) = %d, want 1 (parsing stops at first error)", len(items))
	}
}

func TestParsePrintReparseRoundTrip(t *testing.T) {
	src := "def foo(x y) if x < y then x + y else x - y;"
	items := parse(t, src)
	printed := Sprint(items)
	reparsed, err := New(lexer.Tokenize(printed)).Parse()
	if err != nil {
		t.Fatalf("re-parsing printed output failed: %v\nprinted:\n%s", err, printed)
	}
	if len(reparsed) != len(items) {
		t.Fatalf("len(reparsed) = %d, want %d", len(reparsed), len(items))
	}
	again := Sprint(reparsed)
	if again != printed {
		t.Errorf("print(parse(print(items))) != print(items):\n%s\nvs\n%s", again, printed)
	}
}

func TestParsePrintReparseRoundTripUserDefinedOperator(t *testing.T) {
	src := "def binary> 10 (a b) b < a; 5 > 3;"
	items := parse(t, src)
	printed := Sprint(items)
	reparsed, err := New(lexer.Tokenize(printed)).Parse()
	if err != nil {
		t.Fatalf("re-parsing printed output failed: %v\nprinted:\n%s", err, printed)
	}
	if len(reparsed) != len(items) {
		t.Fatalf("len(reparsed) = %d, want %d", len(reparsed), len(items))
	}
	again := Sprint(reparsed)
	if again != printed {
		t.Errorf("print(parse(print(items))) != print(items):\n%s\nvs\n%s", again, printed)
	}
}
