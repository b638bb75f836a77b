//go:build amd64

package runtime

// sysvCall is the System V AMD64 calling-convention trampoline implemented
// in trampoline_amd64.s. It loads up to six machine words from args into
// DI, SI, DX, CX, R8, R9 (the System V integer/pointer argument registers),
// preserves BX, BP, R12-R15 across the call since deposited code is free to
// use them as scratch the way examples/bf and examples/tinyvm do, calls
// code, and reports the AX:DX result pair back as (r0, r1).
//
//go:noescape
func sysvCall(code uintptr, args *[6]uintptr) (r0, r1 uint64)
