package jit

import "fmt"

// RuntimeError is the only error category surfaced after codegen
// succeeds: an extern symbol the module references has no entry in the
// ffi registry by the time the JIT tries to resolve it (spec.md §7).
type RuntimeError struct {
	Message string
}

func newRuntimeError(format string, args ...any) RuntimeError {
	return RuntimeError{Message: fmt.Sprintf(format, args...)}
}

func (e RuntimeError) Error() string {
	return fmt.Sprintf("💥 Runtime error: %s", e.Message)
}
