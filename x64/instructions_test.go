package x64_test

import (
	"bytes"
	"testing"

	"github.com/keurnel/x64jit/x64"
)

func TestInstructionTable(t *testing.T) {
	cases := []struct {
		name  string
		build func(e *x64.Encoder)
		want  []byte
	}{
		{"mov r32,r32", func(e *x64.Encoder) { x64.Mov(e, x64.EAX, x64.EBX) }, []byte{0x89, 0xD8}},
		{"mov r8,r8", func(e *x64.Encoder) { x64.Mov(e, x64.AL, x64.CL) }, []byte{0x88, 0xC8}},
		{"add r64,r64", func(e *x64.Encoder) { x64.Add(e, x64.RAX, x64.RBX) }, []byte{0x48, 0x01, 0xD8}},
		{"add r32,r32", func(e *x64.Encoder) { x64.Add(e, x64.EAX, x64.EBX) }, []byte{0x01, 0xD8}},
		{"add m8,imm8", func(e *x64.Encoder) {
			x64.AddMemImm8(e, x64.Mem8Indirect(x64.RAX), x64.NewImm8(uint8(1)))
		}, []byte{0x80, 0x00, 0x01}},
		{"sub r64,r64", func(e *x64.Encoder) { x64.Sub(e, x64.RAX, x64.RBX) }, []byte{0x48, 0x29, 0xD8}},
		{"cmp r64,r64", func(e *x64.Encoder) { x64.Cmp(e, x64.RDI, x64.RDI) }, []byte{0x48, 0x3B, 0xFF}},
		{"test r64,r64", func(e *x64.Encoder) { x64.Test(e, x64.RDI, x64.RDI) }, []byte{0x48, 0x85, 0xFF}},
		{"xor r64,r64", func(e *x64.Encoder) { x64.Xor(e, x64.RAX, x64.RAX) }, []byte{0x48, 0x31, 0xC0}},
		{"inc r64", func(e *x64.Encoder) { x64.Inc(e, x64.RCX) }, []byte{0x48, 0xFF, 0xC1}},
		{"dec r64", func(e *x64.Encoder) { x64.Dec(e, x64.RDI) }, []byte{0x48, 0xFF, 0xCF}},
		{"push r64", func(e *x64.Encoder) { x64.Push(e, x64.RBX) }, []byte{0x48, 0xFF, 0xF3}},
		{"pop r64", func(e *x64.Encoder) { x64.Pop(e, x64.RBX) }, []byte{0x48, 0x8F, 0xC3}},
		{"call r64", func(e *x64.Encoder) { x64.Call(e, x64.RAX) }, []byte{0x48, 0xFF, 0xD0}},
		{"ret", func(e *x64.Encoder) { x64.Ret(e) }, []byte{0xC3}},
		{"nop", func(e *x64.Encoder) { x64.Nop(e) }, []byte{0x90}},
		{"cmovz r64,r64", func(e *x64.Encoder) { x64.Cmovz(e, x64.RAX, x64.RBX) }, []byte{0x48, 0x0F, 0x44, 0xC3}},
		{"cmovnz r64,r64", func(e *x64.Encoder) { x64.Cmovnz(e, x64.RAX, x64.RBX) }, []byte{0x48, 0x0F, 0x45, 0xC3}},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			got := assembled(t, tt.build)
			if !bytes.Equal(got, tt.want) {
				t.Fatalf("%s = % X, want % X", tt.name, got, tt.want)
			}
		})
	}
}

func TestJzJnz(t *testing.T) {
	got := assembled(t, func(e *x64.Encoder) {
		l := x64.NewLabel()
		x64.Jz(e, l)
		e.Bind(l)
	})
	want := []byte{0x0F, 0x84, 0x00, 0x00, 0x00, 0x00}
	if !bytes.Equal(got, want) {
		t.Fatalf("jz; bind = % X, want % X", got, want)
	}

	got = assembled(t, func(e *x64.Encoder) {
		l := x64.NewLabel()
		x64.Jnz(e, l)
		e.Bind(l)
	})
	want = []byte{0x0F, 0x85, 0x00, 0x00, 0x00, 0x00}
	if !bytes.Equal(got, want) {
		t.Fatalf("jnz; bind = % X, want % X", got, want)
	}
}
