package x64

import "fmt"

// addrMode tags which of the three addressing shapes a memory operand was
// built with, mirroring original_source/src/mem.rs's AddrMode enum.
type addrMode int

const (
	addrIndirect addrMode = iota
	addrIndirectDisp
	addrIndirectBaseIndex
)

// memOperand is the shared representation behind Mem8/16/32/64; the access
// width lives only in the wrapping type so the encoder's method set can
// pick MI/MR/M opcode tables at compile time.
type memOperand struct {
	mode  addrMode
	base  Reg64
	index Reg64 // meaningful only when mode == addrIndirectBaseIndex
	disp  int32 // meaningful only when mode == addrIndirectDisp
}

func (m memOperand) Mode() addrMode { return m.mode }
func (m memOperand) Base() Reg64    { return m.base }
func (m memOperand) Index() Reg64   { return m.index }
func (m memOperand) Disp() int32    { return m.disp }

func newIndirect(base Reg64) memOperand {
	if isPCRelBase(base) {
		panic(fmt.Errorf("x64: [%s] needs an explicit displacement (RBP/R13 collide with RIP-relative mod=00)", base))
	}
	return memOperand{mode: addrIndirect, base: base}
}

func newIndirectDisp(base Reg64, disp int32) memOperand {
	return memOperand{mode: addrIndirectDisp, base: base, disp: disp}
}

func newIndirectBaseIndex(base, index Reg64) memOperand {
	if isPCRelBase(base) {
		panic(fmt.Errorf("x64: [%s+%s] needs an explicit displacement (RBP/R13 base collides with RIP-relative mod=00)", base, index))
	}
	if index.Idx() == RSP.Idx() {
		panic(fmt.Errorf("x64: rsp cannot be used as a SIB index"))
	}
	return memOperand{mode: addrIndirectBaseIndex, base: base, index: index}
}

// Mem8 is an 8-bit-wide memory operand.
type Mem8 struct{ memOperand }

// Mem16 is a 16-bit-wide memory operand (encoded with the 0x66 legacy prefix).
type Mem16 struct{ memOperand }

// Mem32 is a 32-bit-wide memory operand.
type Mem32 struct{ memOperand }

// Mem64 is a 64-bit-wide memory operand (encoded with REX.W).
type Mem64 struct{ memOperand }

func (Mem8) Is64() bool  { return false }
func (Mem16) Is64() bool { return false }
func (Mem32) Is64() bool { return false }
func (Mem64) Is64() bool { return true }

func (Mem16) LegacyPrefix() (byte, bool) { return 0x66, true }
func (Mem8) LegacyPrefix() (byte, bool)  { return 0, false }
func (Mem32) LegacyPrefix() (byte, bool) { return 0, false }
func (Mem64) LegacyPrefix() (byte, bool) { return 0, false }

// Mem8Indirect addresses [base].
func Mem8Indirect(base Reg64) Mem8 { return Mem8{newIndirect(base)} }

// Mem8IndirectDisp addresses [base+disp].
func Mem8IndirectDisp(base Reg64, disp int32) Mem8 { return Mem8{newIndirectDisp(base, disp)} }

// Mem8IndirectBaseIndex addresses [base+index].
func Mem8IndirectBaseIndex(base, index Reg64) Mem8 { return Mem8{newIndirectBaseIndex(base, index)} }

// Mem16Indirect addresses [base].
func Mem16Indirect(base Reg64) Mem16 { return Mem16{newIndirect(base)} }

// Mem16IndirectDisp addresses [base+disp].
func Mem16IndirectDisp(base Reg64, disp int32) Mem16 { return Mem16{newIndirectDisp(base, disp)} }

// Mem16IndirectBaseIndex addresses [base+index].
func Mem16IndirectBaseIndex(base, index Reg64) Mem16 {
	return Mem16{newIndirectBaseIndex(base, index)}
}

// Mem32Indirect addresses [base].
func Mem32Indirect(base Reg64) Mem32 { return Mem32{newIndirect(base)} }

// Mem32IndirectDisp addresses [base+disp].
func Mem32IndirectDisp(base Reg64, disp int32) Mem32 { return Mem32{newIndirectDisp(base, disp)} }

// Mem32IndirectBaseIndex addresses [base+index].
func Mem32IndirectBaseIndex(base, index Reg64) Mem32 {
	return Mem32{newIndirectBaseIndex(base, index)}
}

// Mem64Indirect addresses [base].
func Mem64Indirect(base Reg64) Mem64 { return Mem64{newIndirect(base)} }

// Mem64IndirectDisp addresses [base+disp].
func Mem64IndirectDisp(base Reg64, disp int32) Mem64 { return Mem64{newIndirectDisp(base, disp)} }

// Mem64IndirectBaseIndex addresses [base+index].
func Mem64IndirectBaseIndex(base, index Reg64) Mem64 {
	return Mem64{newIndirectBaseIndex(base, index)}
}
