package x64

// This file is the instruction table: one function per (mnemonic,
// operand-kind tuple), grounded on original_source/src/insn/*.rs. Go has no
// method overloading, so each operand-kind tuple is a free function taking
// the Encoder explicitly; register width is picked up by type inference
// from the arguments, the same way the Rust original monomorphizes one
// encode_* call per concrete Reg8/Reg16/Reg32/Reg64 instantiation.

// Mov emits a register-to-register move: r/m,r form (opcode 0x89 for
// 16/32/64-bit, 0x88 for 8-bit).
func Mov[T regOperand](e *Encoder, dst, src T) {
	var opc byte = 0x89
	if _, is8 := any(dst).(Reg8); is8 {
		opc = 0x88
	}
	encodeRR(e, []byte{opc}, dst, src)
	e.tracef("mov %v, %v", dst, src)
}

// MovImm emits a register-immediate move: opcode 0xB8+reg (0xB0+reg for
// 8-bit).
func MovImm[T regOperand, I Imm](e *Encoder, dst T, imm I) {
	var opc byte = 0xB8
	if _, is8 := any(dst).(Reg8); is8 {
		opc = 0xB0
	}
	encodeOI(e, opc, dst, imm)
	e.tracef("mov %v, imm", dst)
}

// MovFromMem emits a load: reg,r/m form (0x8B for 16/32/64-bit, 0x8A for
// 8-bit).
func MovFromMem[T regOperand, M memInfo](e *Encoder, dst T, src M) {
	var opc byte = 0x8B
	if _, is8 := any(dst).(Reg8); is8 {
		opc = 0x8A
	}
	encodeRM(e, opc, dst, src)
	e.tracef("mov %v, [mem]", dst)
}

// MovToMem emits a store: r/m,reg form (0x89 for 16/32/64-bit, 0x88 for
// 8-bit).
func MovToMem[M memInfo, T regOperand](e *Encoder, dst M, src T) {
	var opc byte = 0x89
	if _, is8 := any(src).(Reg8); is8 {
		opc = 0x88
	}
	encodeMR(e, opc, dst, src)
	e.tracef("mov [mem], %v", src)
}

// MovMemImm16 emits MOV m16, imm16 (0xC7 /0).
func MovMemImm16(e *Encoder, dst Mem16, imm Imm16) {
	encodeMI(e, 0xC7, 0, dst, imm)
}

// Add emits ADD r/m,r for two equal-width 32/64-bit registers (0x01).
func Add[T reg32or64](e *Encoder, dst, src T) {
	encodeRR(e, []byte{0x01}, dst, src)
	e.tracef("add %v, %v", dst, src)
}

// AddToMem emits ADD m,r (0x01) for 16 or 64-bit memory destinations.
func AddToMem[M memInfo, T regOperand](e *Encoder, dst M, src T) {
	encodeMR(e, 0x01, dst, src)
}

// AddFromMem emits ADD r64,m64 (0x03).
func AddFromMem(e *Encoder, dst Reg64, src Mem64) {
	encodeRM(e, 0x03, dst, src)
}

// AddMemImm8 emits ADD m8,imm8 (0x80 /0).
func AddMemImm8(e *Encoder, dst Mem8, imm Imm8) {
	encodeMI(e, 0x80, 0, dst, imm)
}

// AddMemImm8Sext emits ADD m16/m32/m64,imm8 with the immediate sign-extended
// to the operand's width (0x83 /0).
func AddMemImm8Sext[M memInfo](e *Encoder, dst M, imm Imm8) {
	encodeMI(e, 0x83, 0, dst, imm)
}

// AddMemImm16 emits ADD m16,imm16 (0x81 /0).
func AddMemImm16(e *Encoder, dst Mem16, imm Imm16) {
	encodeMI(e, 0x81, 0, dst, imm)
}

// Sub emits SUB r64,r64 (0x29).
func Sub(e *Encoder, dst, src Reg64) {
	encodeRR(e, []byte{0x29}, dst, src)
	e.tracef("sub %v, %v", dst, src)
}

// SubMemImm8 emits SUB m8,imm8 (0x80 /5).
func SubMemImm8(e *Encoder, dst Mem8, imm Imm8) {
	encodeMI(e, 0x80, 5, dst, imm)
}

// Cmp emits CMP r64,r64 (0x3B).
func Cmp(e *Encoder, dst, src Reg64) {
	encodeRR(e, []byte{0x3B}, dst, src)
	e.tracef("cmp %v, %v", dst, src)
}

// CmpMemImm8 emits CMP m8,imm8 (0x80 /7).
func CmpMemImm8(e *Encoder, dst Mem8, imm Imm8) {
	encodeMI(e, 0x80, 7, dst, imm)
}

// CmpMemImm16 emits CMP m16,imm16 (0x81 /7).
func CmpMemImm16(e *Encoder, dst Mem16, imm Imm16) {
	encodeMI(e, 0x81, 7, dst, imm)
}

// Test emits TEST r,r for equal-width 32 or 64-bit registers (0x85).
func Test[T reg32or64](e *Encoder, a, b T) {
	encodeRR(e, []byte{0x85}, a, b)
	e.tracef("test %v, %v", a, b)
}

// TestMemImm16 emits TEST m16,imm16 (0xF7 /0).
func TestMemImm16(e *Encoder, dst Mem16, imm Imm16) {
	encodeMI(e, 0xF7, 0, dst, imm)
}

// Xor emits XOR r64,r64 (0x31).
func Xor(e *Encoder, dst, src Reg64) {
	encodeRR(e, []byte{0x31}, dst, src)
	e.tracef("xor %v, %v", dst, src)
}

// Inc emits INC r32/r64 (0xFF /0).
func Inc[T reg32or64](e *Encoder, dst T) {
	encodeR(e, 0xFF, 0, dst)
	e.tracef("inc %v", dst)
}

// IncMem8 emits INC m8 (0xFE /0).
func IncMem8(e *Encoder, dst Mem8) {
	encodeM(e, 0xFE, 0, dst)
}

// IncMem emits INC m16/m32/m64 (0xFF /0).
func IncMem[M memInfo](e *Encoder, dst M) {
	encodeM(e, 0xFF, 0, dst)
}

// Dec emits DEC r32/r64 (0xFF /1).
func Dec[T reg32or64](e *Encoder, dst T) {
	encodeR(e, 0xFF, 1, dst)
	e.tracef("dec %v", dst)
}

// DecMem8 emits DEC m8 (0xFE /1).
func DecMem8(e *Encoder, dst Mem8) {
	encodeM(e, 0xFE, 1, dst)
}

// DecMem emits DEC m16/m32/m64 (0xFF /1).
func DecMem[M memInfo](e *Encoder, dst M) {
	encodeM(e, 0xFF, 1, dst)
}

// Push emits PUSH r16/r64 (0xFF /6).
func Push[T reg16or64](e *Encoder, src T) {
	encodeR(e, 0xFF, 6, src)
	e.tracef("push %v", src)
}

// Pop emits POP r16/r64 (0x8F /0).
func Pop[T reg16or64](e *Encoder, dst T) {
	encodeR(e, 0x8F, 0, dst)
	e.tracef("pop %v", dst)
}

// Call emits CALL r64 (0xFF /2), an indirect call through a register.
func Call(e *Encoder, target Reg64) {
	encodeR(e, 0xFF, 2, target)
	e.tracef("call %v", target)
}

// Ret emits RET (0xC3).
func Ret(e *Encoder) {
	e.emit(0xC3)
	e.tracef("ret")
}

// Nop emits NOP (0x90).
func Nop(e *Encoder) {
	e.emit(0x90)
	e.tracef("nop")
}

// Jmp emits an unconditional near jump to label (rel32, opcode 0xE9).
func Jmp(e *Encoder, label *Label) {
	encodeJmpLabel(e, []byte{0xE9}, label)
	e.tracef("jmp L")
}

// Jz emits a near jump to label if ZF=1 (rel32, opcodes 0x0F 0x84).
func Jz(e *Encoder, label *Label) {
	encodeJmpLabel(e, []byte{0x0F, 0x84}, label)
	e.tracef("jz L")
}

// Jnz emits a near jump to label if ZF=0 (rel32, opcodes 0x0F 0x85).
func Jnz(e *Encoder, label *Label) {
	encodeJmpLabel(e, []byte{0x0F, 0x85}, label)
	e.tracef("jnz L")
}

// Cmovz emits CMOVZ r64,r64 (0x0F 0x44). The destination is ModR/M.reg, the
// reverse of Mov's operand-to-field mapping, so dst/src are passed to
// encodeRR in swapped positions.
func Cmovz(e *Encoder, dst, src Reg64) {
	encodeRR(e, []byte{0x0F, 0x44}, src, dst)
	e.tracef("cmovz %v, %v", dst, src)
}

// Cmovnz emits CMOVNZ r64,r64 (0x0F 0x45), likewise reg-field-is-destination.
func Cmovnz(e *Encoder, dst, src Reg64) {
	encodeRR(e, []byte{0x0F, 0x45}, src, dst)
	e.tracef("cmovnz %v, %v", dst, src)
}
