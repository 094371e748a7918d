package token

import "testing"

func TestTypeString(t *testing.T) {
	tests := []struct {
		typ  Type
		want string
	}{
		{DEF, "def"},
		{EXTERN, "extern"},
		{EOF, "EOF"},
		{IDENTIFIER, "IDENTIFIER"},
	}
	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Errorf("Type(%d).String() = %q, want %q", tt.typ, got, tt.want)
		}
	}
}

func TestTokenString(t *testing.T) {
	tests := []struct {
		name string
		tok  Token
		want string
	}{
		{"identifier", NewIdentifier("foo", 1), "Identifier(foo)"},
		{"number", NewNumber(3.5, 1), "Number(3.5)"},
		{"operator", NewOperator('+', 1), "Operator(+)"},
		{"keyword", New(IF, 1), "if"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tok.String(); got != tt.want {
				t.Errorf("Token.String() = %q, want %q", got, tt.want)
			}
		})
	}
}
