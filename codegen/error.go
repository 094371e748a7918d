package codegen

import "fmt"

// SemanticError covers every codegen-time failure: an unknown function or
// variable, an argument-count mismatch, redefining an already-defined
// function, or a backend verification failure (spec.md §7).
type SemanticError struct {
	Message string
}

func newSemanticError(format string, args ...any) SemanticError {
	return SemanticError{Message: fmt.Sprintf(format, args...)}
}

func (e SemanticError) Error() string {
	return fmt.Sprintf("💥 Semantic error: %s", e.Message)
}
