package ast

import "testing"

func TestPrototypeMangledName(t *testing.T) {
	tests := []struct {
		name  string
		proto Prototype
		want  string
	}{
		{"plain", Prototype{Name: "foo", Kind: PlainFunction}, "foo"},
		{"unary", Prototype{Name: "unary!", Kind: UnaryOperator, Op: '!'}, "unary!"},
		{"binary", Prototype{Name: "binary>", Kind: BinaryOperator, Op: '>'}, "binary>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.proto.MangledName(); got != tt.want {
				t.Errorf("MangledName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPrototypeArity(t *testing.T) {
	p := Prototype{Params: []string{"x", "y"}}
	if got := p.Arity(); got != 2 {
		t.Errorf("Arity() = %d, want 2", got)
	}
}
