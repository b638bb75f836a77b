package x64

import "fmt"

// regOperand is satisfied by Reg8/Reg16/Reg32/Reg64.
type regOperand interface {
	Idx() uint8
	NeedREX() bool
	REXW() bool
	LegacyPrefix() (byte, bool)
	RejectsREX() bool
}

// rejectLegacyHighWithREX panics per spec.md §9's open question: the source
// leaves the AH/CH/DH/BH-plus-REX combination unrejected, so this implementation
// detects and rejects it explicitly rather than silently emitting a REX
// prefix that retargets the encoding to SPL/BPL/SIL/DIL.
func rejectLegacyHighWithREX(needREX bool, ops ...regOperand) {
	if !needREX {
		return
	}
	for _, op := range ops {
		if op.RejectsREX() {
			panic(fmt.Errorf("x64: legacy high-byte register cannot be combined with a REX-requiring operand"))
		}
	}
}

// reg32or64 restricts a type parameter to the 32-bit and 64-bit register
// widths: spec.md §4.2 defines ADD/TEST/INC/DEC's register forms only for
// r32 and r64, never r8/r16, so instantiating with any other width must
// fail to compile rather than silently emit bytes for an unsupported tuple.
type reg32or64 interface {
	regOperand
	Reg32 | Reg64
}

// reg16or64 restricts a type parameter to the 16-bit and 64-bit register
// widths: spec.md §4.2 defines PUSH/POP's register forms only for r16 and
// r64.
type reg16or64 interface {
	regOperand
	Reg16 | Reg64
}

// memInfo is satisfied by Mem8/Mem16/Mem32/Mem64.
type memInfo interface {
	Mode() addrMode
	Base() Reg64
	Index() Reg64
	Disp() int32
	Is64() bool
	LegacyPrefix() (byte, bool)
}

// Encoder is an append-only x86-64 code buffer. It has no internal
// synchronization: distinct Encoders may run on distinct goroutines without
// coordination, but a single Encoder must not be shared across goroutines
// without external locking.
type Encoder struct {
	buf    []byte
	labels []*Label
	trace  func(string)
}

// NewEncoder returns an empty encoder with a 1024-byte initial capacity,
// matching original_source/src/asm.rs's Asm::new.
func NewEncoder() *Encoder {
	return &Encoder{buf: make([]byte, 0, 1024)}
}

// SetTrace installs an optional sink fed one line per emitted register-form,
// jump, ret or nop instruction; the memory-operand forms (MovMemImm16,
// AddToMem, IncMem8, ...) emit no trace line. A nil sink (the default)
// disables tracing entirely.
func (e *Encoder) SetTrace(fn func(string)) { e.trace = fn }

func (e *Encoder) tracef(format string, args ...any) {
	if e.trace != nil {
		e.trace(fmt.Sprintf(format, args...))
	}
}

// Len returns the number of bytes emitted so far.
func (e *Encoder) Len() int { return len(e.buf) }

// IntoBytes returns the assembled code and verifies every label this
// encoder ever bound or referenced ended its life bound with no pending
// fix-ups -- the Go stand-in for original_source/src/label.rs's Drop
// invariant, since Go values have no destructor.
func (e *Encoder) IntoBytes() []byte {
	for _, l := range e.labels {
		l.checkClosed()
	}
	return e.buf
}

func (e *Encoder) emit(bytes ...byte) {
	e.buf = append(e.buf, bytes...)
}

func (e *Encoder) emitOptional(b byte, ok bool) {
	if ok {
		e.buf = append(e.buf, b)
	}
}

// emitAt overwrites len(bytes) bytes starting at pos; pos+len(bytes) must
// already be within the buffer.
func (e *Encoder) emitAt(pos int, bytes []byte) {
	if pos < 0 || pos+len(bytes) > len(e.buf) {
		panic(fmt.Errorf("x64: emitAt(%d, %d bytes) out of bounds (buffer is %d bytes)", pos, len(bytes), len(e.buf)))
	}
	copy(e.buf[pos:], bytes)
}

// Bind fixes label at the encoder's current position and patches every
// fix-up recorded against it so far.
func (e *Encoder) Bind(label *Label) {
	e.trackLabel(label)
	label.bind(len(e.buf))
	e.resolve(label)
}

func (e *Encoder) trackLabel(label *Label) {
	for _, l := range e.labels {
		if l == label {
			return
		}
	}
	e.labels = append(e.labels, label)
}

// resolve drains and patches every pending fix-up, if the label is bound.
// disp32 = target - patch_offset - 4, the rel32 displacement relative to
// the byte right after the 4-byte placeholder.
func (e *Encoder) resolve(label *Label) {
	if !label.IsBound() {
		return
	}
	loc := *label.location
	for off := range label.offsets {
		disp32 := int32(loc - off - 4)
		e.emitAt(off, []byte{byte(disp32), byte(disp32 >> 8), byte(disp32 >> 16), byte(disp32 >> 24)})
		delete(label.offsets, off)
	}
}

func rex(w bool, r, x, b uint8) byte {
	var wb, rb, xb, bb byte
	if w {
		wb = 1
	}
	rb = (r >> 3) & 1
	xb = (x >> 3) & 1
	bb = (b >> 3) & 1
	return 0x40 | wb<<3 | rb<<2 | xb<<1 | bb
}

func modrm(mod, reg, rm uint8) byte {
	return mod<<6 | (reg&7)<<3 | (rm & 7)
}

func sib(scale, index, base uint8) byte {
	return scale<<6 | (index&7)<<3 | (base & 7)
}

// encodeRR emits opc + ModR/M for a register-register operand pair, per
// original_source/src/asm.rs::Asm::encode_rr (ModR/M.reg = op2, ModR/M.rm =
// op1 -- this is the MR-shaped internal layout every RR-form instruction in
// the table actually uses).
func encodeRR[T regOperand](e *Encoder, opc []byte, op1, op2 T) {
	if pfx, ok := op1.LegacyPrefix(); ok {
		e.emit(pfx)
	}
	needREX := op1.NeedREX() || op2.NeedREX()
	rejectLegacyHighWithREX(needREX, op1, op2)
	if needREX {
		e.emit(rex(op1.REXW(), op2.Idx(), 0, op1.Idx()))
	}
	e.emit(opc...)
	e.emit(modrm(0b11, op2.Idx(), op1.Idx()))
}

// encodeOI emits an opcode+register form (opcode's low 3 bits carry the
// register) followed by an immediate, per Asm::encode_oi.
func encodeOI[T regOperand, I Imm](e *Encoder, opc byte, op1 T, op2 I) {
	if pfx, ok := op1.LegacyPrefix(); ok {
		e.emit(pfx)
	}
	if op1.NeedREX() {
		e.emit(rex(op1.REXW(), 0, 0, op1.Idx()))
	}
	e.emit(opc + (op1.Idx() & 0b111))
	e.emit(op2.Bytes()...)
}

// encodeR emits a single-register form with an opcode-extension field in
// ModR/M.reg, per Asm::encode_r.
func encodeR[T regOperand](e *Encoder, opc, opcExt byte, op1 T) {
	if pfx, ok := op1.LegacyPrefix(); ok {
		e.emit(pfx)
	}
	if op1.NeedREX() {
		e.emit(rex(op1.REXW(), 0, 0, op1.Idx()))
	}
	e.emit(opc)
	e.emit(modrm(0b11, opcExt, op1.Idx()))
}

// memModeRM computes (mod, rm) and any trailing disp32/SIB bytes for a
// memory operand, per Asm::encode_m's mode dispatch.
func memModeRM(op memInfo) (mod uint8, rm uint8, tail []byte) {
	base := op.Base()
	switch op.Mode() {
	case addrIndirect:
		if isSIBEscape(base) {
			panic(fmt.Errorf("x64: [%s] needs a SIB byte (rsp/r12 cannot be a base without SIB)", base))
		}
		if isPCRelBase(base) {
			panic(fmt.Errorf("x64: [%s] collides with RIP-relative addressing, use an explicit displacement", base))
		}
		return 0b00, base.Idx(), nil
	case addrIndirectDisp:
		if isSIBEscape(base) {
			panic(fmt.Errorf("x64: [%s+disp] needs a SIB byte for rsp/r12 as base", base))
		}
		disp := op.Disp()
		return 0b10, base.Idx(), []byte{byte(disp), byte(disp >> 8), byte(disp >> 16), byte(disp >> 24)}
	case addrIndirectBaseIndex:
		if isPCRelBase(base) {
			panic(fmt.Errorf("x64: [%s+%s] needs an explicit displacement for rbp/r13 as base", base, op.Index()))
		}
		if op.Index().Idx() == RSP.Idx() {
			panic(fmt.Errorf("x64: rsp cannot be used as a SIB index"))
		}
		return 0b00, 0b100, []byte{sib(0, op.Index().Idx(), base.Idx())}
	default:
		panic(fmt.Errorf("x64: unknown addressing mode"))
	}
}

// encodeM emits a memory operand with an opcode-extension field in
// ModR/M.reg, per Asm::encode_m.
func encodeM[M memInfo](e *Encoder, opc, opcExt byte, op1 M) {
	mod, rm, tail := memModeRM(op1)
	if pfx, ok := op1.LegacyPrefix(); ok {
		e.emit(pfx)
	}
	if op1.Is64() || op1.Base().IsExt() || op1.Index().IsExt() {
		e.emit(rex(op1.Is64(), 0, op1.Index().Idx(), op1.Base().Idx()))
	}
	e.emit(opc)
	e.emit(modrm(mod, opcExt, rm))
	e.emit(tail...)
}

// encodeMI emits a memory operand followed by an immediate, per
// Asm::encode_mi.
func encodeMI[M memInfo, I Imm](e *Encoder, opc, opcExt byte, op1 M, op2 I) {
	encodeM(e, opc, opcExt, op1)
	e.emit(op2.Bytes()...)
}

// encodeMR emits a memory operand with ModR/M.reg carrying a register
// operand (not an opcode extension), per Asm::encode_mr.
func encodeMR[M memInfo, T regOperand](e *Encoder, opc byte, op1 M, op2 T) {
	mod, rm, tail := memModeRM(op1)
	if pfx, ok := op1.LegacyPrefix(); ok {
		e.emit(pfx)
	}
	needREX := op1.Is64() || op2.NeedREX() || op1.Base().IsExt() || op1.Index().IsExt()
	rejectLegacyHighWithREX(needREX, op2)
	if needREX {
		e.emit(rex(op1.Is64(), op2.Idx(), op1.Index().Idx(), op1.Base().Idx()))
	}
	e.emit(opc)
	e.emit(modrm(mod, op2.Idx(), rm))
	e.emit(tail...)
}

// encodeRM emits a register destination with a memory source by delegating
// to encodeMR with swapped operand positions, per Asm::encode_rm.
func encodeRM[T regOperand, M memInfo](e *Encoder, opc byte, op1 T, op2 M) {
	encodeMR(e, opc, op2, op1)
}

// encodeJmpLabel emits opc followed by a 4-byte rel32 placeholder, resolved
// immediately if label is already bound or deferred otherwise, per
// Asm::encode_jmp_label.
func encodeJmpLabel(e *Encoder, opc []byte, label *Label) {
	e.trackLabel(label)
	e.emit(opc...)
	off := len(e.buf)
	e.emit(0, 0, 0, 0)
	label.recordOffset(off)
	e.resolve(label)
}
