package codegen

import (
	"testing"

	"github.com/informatter/kaleidoscope/lexer"
	"github.com/informatter/kaleidoscope/parser"
)

// compileSource runs the lex/parse/codegen pipeline end to end, the way
// the teacher's compiler tests drive the full AST-to-bytecode path
// rather than poking at codegen internals directly.
func compileSource(t *testing.T, src string) (*Generator, error) {
	t.Helper()
	items, err := parser.New(lexer.Tokenize(src)).Parse()
	if err != nil {
		t.Fatalf("parse(%q) failed: %v", src, err)
	}
	gen := New("test")
	_, genErr := gen.Generate(items)
	return gen, genErr
}

func TestGenerateRejectsUnknownFunction(t *testing.T) {
	_, err := compileSource(t, "foo(1);")
	if err == nil {
		t.Fatal("expected a semantic error calling an undeclared function")
	}
}

func TestGenerateRejectsUnknownVariable(t *testing.T) {
	_, err := compileSource(t, "def f(x) y;")
	if err == nil {
		t.Fatal("expected a semantic error referencing an unbound variable")
	}
}

func TestGenerateRejectsArityMismatch(t *testing.T) {
	_, err := compileSource(t, "def f(x y) x + y; f(1);")
	if err == nil {
		t.Fatal("expected a semantic error for a call with the wrong argument count")
	}
}

func TestGenerateRejectsRedefinition(t *testing.T) {
	_, err := compileSource(t, "def f(x) x; def f(x) x + 1;")
	if err == nil {
		t.Fatal("expected a semantic error redefining an already-defined function")
	}
}

func TestGenerateAllowsExternThenDefine(t *testing.T) {
	// An extern with no body, later given one by a matching def, is not
	// a redefinition — only a function that already has a body is.
	_, err := compileSource(t, "extern f(x); def f(x) x + 1;")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGenerateAcceptsArithmetic(t *testing.T) {
	_, err := compileSource(t, "4 + 5 * 2;")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGenerateAcceptsUserDefinedOperator(t *testing.T) {
	_, err := compileSource(t, "def binary> 10 (a b) b < a; 5 > 3;")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGenerateEmptyProgramStillEmitsMain(t *testing.T) {
	gen, err := compileSource(t, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gen.Module().NamedFunction("main").IsNil() {
		t.Fatal("expected a synthesized main even for an empty program")
	}
}
