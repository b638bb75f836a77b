// Package x64 is a typed x86-64 assembler: it builds machine code by calling
// Go functions that take the Encoder explicitly (x64.Mov, x64.Add, ...)
// rather than by parsing assembly text.
package x64

// regInfo carries the encoding index and lineage shared by every register
// width, following the teacher's table-of-named-package-vars convention
// (architecture/x86_64/registers.go) generalized to one typed struct per
// operand width so each width's methods (NeedREX, REXW, LegacyPrefix) --
// not a switch on a type field -- supply its prefix and REX rules.
type regInfo struct {
	name string
	enc  uint8 // 0..15 encoding index
}

// Idx returns the 4-bit encoding index used in ModR/M.reg, ModR/M.rm, SIB
// fields, and opcode+reg forms.
func (r regInfo) Idx() uint8 { return r.enc & 0xf }

// IsExt reports whether this register requires REX.R/X/B to address
// (encoding index 8..=15).
func (r regInfo) IsExt() bool { return r.enc >= 8 }

func (r regInfo) String() string { return r.name }

// Reg64 is a 64-bit general purpose register (RAX..R15).
type Reg64 struct{ regInfo }

// Reg32 is a 32-bit general purpose register (EAX..R15D).
type Reg32 struct{ regInfo }

// Reg16 is a 16-bit general purpose register (AX..R15W).
type Reg16 struct{ regInfo }

// Reg8 is an 8-bit general purpose register. Two disjoint lineages share
// this type: the legacy high-byte registers (AH/CH/DH/BH, encoding 4..7,
// never addressable with a REX prefix present) and the low-byte registers
// (AL..DIL, R8B..R15B, encoding 0..15).
type Reg8 struct {
	regInfo
	legacyHigh bool
}

// NeedREX reports whether this register alone mandates a REX prefix: any
// 64-bit register (REX.W must be set to select 64-bit operand size), any
// extended-index register, or one of the "new" 8-bit low-byte registers
// not addressable without REX present (SPL/BPL/SIL/DIL, R8B-R15B).
func (r Reg8) NeedREX() bool  { return !r.legacyHigh && (r.IsExt() || r.enc >= 4) }
func (r Reg64) NeedREX() bool { return true }
func (r Reg32) NeedREX() bool { return r.IsExt() }
func (r Reg16) NeedREX() bool { return r.IsExt() }

func (Reg64) REXW() bool { return true }
func (Reg32) REXW() bool { return false }
func (Reg16) REXW() bool { return false }
func (Reg8) REXW() bool  { return false }

// LegacyPrefix reports the 0x66 operand-size override Reg16 needs; every
// other width needs none.
func (Reg64) LegacyPrefix() (byte, bool) { return 0, false }
func (Reg32) LegacyPrefix() (byte, bool) { return 0, false }
func (Reg16) LegacyPrefix() (byte, bool) { return 0x66, true }
func (Reg8) LegacyPrefix() (byte, bool)  { return 0, false }

// LegacyHigh reports whether this is one of AH/CH/DH/BH: such a register
// cannot appear in an instruction that also needs a REX prefix.
func (r Reg8) LegacyHigh() bool { return r.legacyHigh }

// RejectsREX reports whether this operand can never share an instruction
// with a REX prefix. Only the legacy high-byte registers (AH/CH/DH/BH) do:
// a REX prefix present on the same instruction re-targets encoding 4..7 to
// SPL/BPL/SIL/DIL instead, silently producing the wrong register.
func (r Reg8) RejectsREX() bool { return r.legacyHigh }
func (Reg64) RejectsREX() bool  { return false }
func (Reg32) RejectsREX() bool  { return false }
func (Reg16) RejectsREX() bool  { return false }

func reg64(name string, enc uint8) Reg64 { return Reg64{regInfo{name, enc}} }
func reg32(name string, enc uint8) Reg32 { return Reg32{regInfo{name, enc}} }
func reg16(name string, enc uint8) Reg16 { return Reg16{regInfo{name, enc}} }
func reg8(name string, enc uint8) Reg8   { return Reg8{regInfo{name, enc}, false} }
func reg8h(name string, enc uint8) Reg8  { return Reg8{regInfo{name, enc}, true} }

// 64-bit general purpose registers.
var (
	RAX = reg64("rax", 0)
	RCX = reg64("rcx", 1)
	RDX = reg64("rdx", 2)
	RBX = reg64("rbx", 3)
	RSP = reg64("rsp", 4)
	RBP = reg64("rbp", 5)
	RSI = reg64("rsi", 6)
	RDI = reg64("rdi", 7)
	R8  = reg64("r8", 8)
	R9  = reg64("r9", 9)
	R10 = reg64("r10", 10)
	R11 = reg64("r11", 11)
	R12 = reg64("r12", 12)
	R13 = reg64("r13", 13)
	R14 = reg64("r14", 14)
	R15 = reg64("r15", 15)
)

// 32-bit general purpose registers.
var (
	EAX  = reg32("eax", 0)
	ECX  = reg32("ecx", 1)
	EDX  = reg32("edx", 2)
	EBX  = reg32("ebx", 3)
	ESP  = reg32("esp", 4)
	EBP  = reg32("ebp", 5)
	ESI  = reg32("esi", 6)
	EDI  = reg32("edi", 7)
	R8D  = reg32("r8d", 8)
	R9D  = reg32("r9d", 9)
	R10D = reg32("r10d", 10)
	R11D = reg32("r11d", 11)
	R12D = reg32("r12d", 12)
	R13D = reg32("r13d", 13)
	R14D = reg32("r14d", 14)
	R15D = reg32("r15d", 15)
)

// 16-bit general purpose registers.
var (
	AX   = reg16("ax", 0)
	CX   = reg16("cx", 1)
	DX   = reg16("dx", 2)
	BX   = reg16("bx", 3)
	SP   = reg16("sp", 4)
	BP   = reg16("bp", 5)
	SI   = reg16("si", 6)
	DI   = reg16("di", 7)
	R8W  = reg16("r8w", 8)
	R9W  = reg16("r9w", 9)
	R10W = reg16("r10w", 10)
	R11W = reg16("r11w", 11)
	R12W = reg16("r12w", 12)
	R13W = reg16("r13w", 13)
	R14W = reg16("r14w", 14)
	R15W = reg16("r15w", 15)
)

// 8-bit low-byte registers.
var (
	AL   = reg8("al", 0)
	CL   = reg8("cl", 1)
	DL   = reg8("dl", 2)
	BL   = reg8("bl", 3)
	SPL  = reg8("spl", 4)
	BPL  = reg8("bpl", 5)
	SIL  = reg8("sil", 6)
	DIL  = reg8("dil", 7)
	R8B  = reg8("r8b", 8)
	R9B  = reg8("r9b", 9)
	R10B = reg8("r10b", 10)
	R11B = reg8("r11b", 11)
	R12B = reg8("r12b", 12)
	R13B = reg8("r13b", 13)
	R14B = reg8("r14b", 14)
	R15B = reg8("r15b", 15)
)

// 8-bit legacy high-byte registers. Mutually exclusive with any REX-needing
// operand in the same instruction.
var (
	AH = reg8h("ah", 4)
	CH = reg8h("ch", 5)
	DH = reg8h("dh", 6)
	BH = reg8h("bh", 7)
)

// isSIBEscape reports RSP/R12 (the SIB-escape base encodings) and
// isPCRelBase reports RBP/R13 (the PC-relative-collision base encodings);
// memory.go and encoder.go use them to enforce addressing-mode
// preconditions.
func isSIBEscape(r Reg64) bool  { return r.enc&0b111 == 0b100 }
func isPCRelBase(r Reg64) bool  { return r.enc&0b111 == 0b101 }
