// Package ffi is the process-wide native-function registry the JIT
// resolves `extern` symbols against (spec.md §4.4). Kaleidoscope has no
// notion of a Go closure it can call directly into JITted code — the
// backend's MCJIT engine needs a real machine-code address — so the two
// built-in externs are implemented as cgo-exported functions and handed
// out by address via AddGlobalMapping at JIT finalize time (jit.New).
package ffi

/*
#include <stdint.h>

extern double putchard(double);
extern double printd(double);

static uintptr_t kaleidoscope_putchard_addr() { return (uintptr_t)putchard; }
static uintptr_t kaleidoscope_printd_addr()   { return (uintptr_t)printd; }
*/
import "C"

import (
	"fmt"
	"os"
)

//export putchard
func putchard(x C.double) C.double {
	os.Stdout.Write([]byte{byte(x)})
	return 0
}

//export printd
func printd(x C.double) C.double {
	fmt.Fprintln(os.Stdout, float64(x))
	return 0
}

// Registry returns the extern name → native address mapping spec.md
// §4.4 requires at minimum. jit.New wires every entry into the backend
// via AddGlobalMapping before looking up and invoking `main`.
func Registry() map[string]uintptr {
	return map[string]uintptr{
		"putchard": uintptr(C.kaleidoscope_putchard_addr()),
		"printd":   uintptr(C.kaleidoscope_printd_addr()),
	}
}
