// Package runtime manages one page of anonymous executable memory that
// client code deposits JIT-compiled bytes into and then calls directly,
// following the W^X (write xor execute) discipline: the page is writable
// only during the narrow transient window inside AddCode, and is then
// write-only, so it is never simultaneously writable and executable. A page
// from NewRuntimeRWX is the exception and stays writable and executable.
package runtime

import (
	"fmt"
	"os"
	"reflect"
	"unsafe"

	"golang.org/x/sys/unix"
)

const pageSize = 4096

// Runtime owns one anonymous memory mapping used as an append-only cursor
// of deposited machine code. Grounded on original_source/src/rt.rs's
// Runtime struct; golang.org/x/sys/unix stands in for the libc mmap/
// mprotect/munmap calls the Rust original makes directly, since the
// frozen standard library syscall package does not portably expose
// mprotect.
type Runtime struct {
	buf []byte // mmap'd region, len == cap == pageSize
	idx int    // append cursor
	rwx bool   // true if constructed via NewRuntimeRWX
}

// New requests a one-page anonymous private mapping with initial
// protection PROT_NONE. Panics if the mapping call fails.
func New() *Runtime {
	buf, err := unix.Mmap(-1, 0, pageSize, unix.PROT_NONE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		panic(fmt.Errorf("runtime: failed to mmap code page: %w", err))
	}
	return &Runtime{buf: buf}
}

// NewRuntimeRWX requests a page that stays PROT_READ|PROT_WRITE|PROT_EXEC
// for its entire lifetime. This is the documented, opt-in relaxation of the
// W^X contract; New (W^X) is the default and should be preferred.
func NewRuntimeRWX() *Runtime {
	buf, err := unix.Mmap(-1, 0, pageSize, unix.PROT_READ|unix.PROT_WRITE|unix.PROT_EXEC, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		panic(fmt.Errorf("runtime: failed to mmap RWX code page: %w", err))
	}
	return &Runtime{buf: buf, rwx: true}
}

// remaining returns the number of unused bytes on the page.
func (r *Runtime) remaining() int { return len(r.buf) - r.idx }

// AddCode deposits code at the current cursor and returns a host-callable
// function that calls that address through the System V AMD64 trampoline
// (trampoline_amd64.s), following the same W->RX cycle as
// original_source/src/rt.rs::add_code. Panics if code is empty or does not
// fit in the remaining capacity.
//
// F must be a concrete function type compatible with the System V AMD64
// calling convention the deposited bytes were written for (at most six
// integer/pointer arguments, and a return shape of zero, one, or two
// machine words -- a scalar, a two-word struct such as tinyvm.JitRet, or
// two scalars). AddCode cannot itself verify the shape of F against the
// bytes; mismatches lead to arbitrary behavior when the returned function
// is called, same as the Rust original's transmute_copy.
func AddCode[F any](r *Runtime, code []byte) F {
	if len(code) == 0 {
		panic(fmt.Errorf("runtime: adding empty code is not supported"))
	}
	if len(code) > r.remaining() {
		panic(fmt.Errorf("runtime: code (%d bytes) does not fit in remaining capacity (%d bytes)", len(code), r.remaining()))
	}
	start := r.idx
	if !r.rwx {
		r.unprotect()
	}
	copy(r.buf[start:], code)
	if !r.rwx {
		r.protect()
	}
	writePerfMapEntry(unsafe.Pointer(&r.buf[start]), len(code), r.idx)
	r.idx += len(code)
	return asFn[F](&r.buf[start])
}

// asFn builds a Go function value of type F that, when called, marshals its
// arguments into System V AMD64 registers and jumps to the code at p.
//
// Go's own calling convention does not put the first argument in RDI: the
// amd64 internal ABI assigns integer/pointer arguments to AX, BX, CX, DI,
// SI, R8-R11 in that order, so a bare unsafe.Pointer reinterpretation of p
// as an F would leave the deposited code reading whatever those registers
// last held, not the caller's actual arguments. asFn instead builds F via
// reflect.MakeFunc -- which already knows how to take apart any Go function
// call regardless of the host ABI -- and for each call converts the
// resulting argument values into machine words, hands them to sysvCall
// (trampoline_amd64.s, the hand-written System V trampoline), and converts
// the rax:rdx result pair back into F's declared return shape. This is the
// Go analog of original_source/src/rt.rs's transmute_copy, minus the part
// transmute_copy gets away with only because Rust's extern "C" fn already
// speaks System V directly.
func asFn[F any](p *byte) F {
	codeAddr := uintptr(unsafe.Pointer(p))
	fnType := reflect.TypeFor[F]()
	if fnType.Kind() != reflect.Func {
		panic(fmt.Errorf("runtime: AddCode type parameter must be a function type, got %s", fnType))
	}
	if fnType.NumIn() > 6 {
		panic(fmt.Errorf("runtime: JIT calling trampoline supports at most 6 arguments, got %d", fnType.NumIn()))
	}
	if fnType.NumOut() > 2 {
		panic(fmt.Errorf("runtime: JIT calling trampoline supports at most 2 return values, got %d", fnType.NumOut()))
	}

	wrapper := reflect.MakeFunc(fnType, func(in []reflect.Value) []reflect.Value {
		var args [6]uintptr
		for i, v := range in {
			args[i] = wordOf(v)
		}
		r0, r1 := sysvCall(codeAddr, &args)
		return resultsOf(fnType, r0, r1)
	})
	return wrapper.Interface().(F)
}

// wordOf packs a single Go argument into the one machine word the System V
// convention passes it as.
func wordOf(v reflect.Value) uintptr {
	switch v.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return uintptr(v.Uint())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return uintptr(v.Int())
	case reflect.Pointer, reflect.UnsafePointer:
		return v.Pointer()
	default:
		panic(fmt.Errorf("runtime: JIT call argument of kind %s has no machine-word representation", v.Kind()))
	}
}

// resultsOf unpacks the trampoline's rax:rdx result pair into fnType's
// declared return shape: nothing, a single scalar, a two-word struct (the
// System V two-eightbyte small-struct return convention, e.g.
// tinyvm.JitRet), or two scalars.
func resultsOf(fnType reflect.Type, r0, r1 uint64) []reflect.Value {
	switch fnType.NumOut() {
	case 0:
		return nil
	case 1:
		out := fnType.Out(0)
		if out.Kind() == reflect.Struct {
			v := reflect.New(out).Elem()
			words := [2]uint64{r0, r1}
			for i := 0; i < v.NumField() && i < len(words); i++ {
				v.Field(i).SetUint(words[i])
			}
			return []reflect.Value{v}
		}
		v := reflect.New(out).Elem()
		v.SetUint(r0)
		return []reflect.Value{v}
	default: // 2, bounds-checked in asFn
		v0 := reflect.New(fnType.Out(0)).Elem()
		v0.SetUint(r0)
		v1 := reflect.New(fnType.Out(1)).Elem()
		v1.SetUint(r1)
		return []reflect.Value{v0, v1}
	}
}

// Dump writes the first idx bytes of the page to ./jit.asm.
func (r *Runtime) Dump() {
	if err := os.WriteFile("jit.asm", r.buf[:r.idx], 0o644); err != nil {
		panic(fmt.Errorf("runtime: failed to write jit.asm: %w", err))
	}
}

// protect restores PROT_READ|PROT_EXEC after a code deposit.
func (r *Runtime) protect() {
	if err := unix.Mprotect(r.buf, unix.PROT_READ|unix.PROT_EXEC); err != nil {
		panic(fmt.Errorf("runtime: failed to mprotect RX: %w", err))
	}
}

// unprotect transiently grants PROT_WRITE before a code deposit.
func (r *Runtime) unprotect() {
	if err := unix.Mprotect(r.buf, unix.PROT_WRITE); err != nil {
		panic(fmt.Errorf("runtime: failed to mprotect W: %w", err))
	}
}

// Close unmaps the page. Any function value obtained from AddCode is
// invalidated; callers must not hold or call such a value after Close.
func (r *Runtime) Close() {
	if err := unix.Munmap(r.buf); err != nil {
		panic(fmt.Errorf("runtime: failed to munmap: %w", err))
	}
	r.buf = nil
}
