package x64_test

import (
	"bytes"
	"testing"

	"github.com/keurnel/x64jit/x64"
)

func assembled(t *testing.T, build func(e *x64.Encoder)) []byte {
	t.Helper()
	e := x64.NewEncoder()
	build(e)
	return e.IntoBytes()
}

func TestMovRegReg(t *testing.T) {
	got := assembled(t, func(e *x64.Encoder) {
		x64.Mov(e, x64.RCX, x64.RDX)
	})
	want := []byte{0x48, 0x89, 0xD1}
	if !bytes.Equal(got, want) {
		t.Fatalf("mov rcx, rdx = % X, want % X", got, want)
	}
}

func TestMovRegImm64(t *testing.T) {
	got := assembled(t, func(e *x64.Encoder) {
		x64.MovImm(e, x64.RDI, x64.NewImm64Unsigned(uint64(0xaabb)))
	})
	want := []byte{0x48, 0xBF, 0xBB, 0xAA, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
	if !bytes.Equal(got, want) {
		t.Fatalf("mov rdi, imm64(0xaabb) = % X, want % X", got, want)
	}
}

func TestMovMemoryForms(t *testing.T) {
	cases := []struct {
		name  string
		build func(e *x64.Encoder)
		want  []byte
	}{
		{
			name: "mov rcx, [rdx]",
			build: func(e *x64.Encoder) {
				x64.MovFromMem(e, x64.RCX, x64.Mem64Indirect(x64.RDX))
			},
			want: []byte{0x48, 0x8B, 0x0A},
		},
		{
			name: "mov [r14], r15",
			build: func(e *x64.Encoder) {
				x64.MovToMem(e, x64.Mem64Indirect(x64.R14), x64.R15)
			},
			want: []byte{0x4D, 0x89, 0x3E},
		},
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

func TestLabelSelfJump(t *testing.T) {
	got := assembled(t, func(e *x64.Encoder) {
		l := x64.NewLabel()
		e.Bind(l)
		x64.Jmp(e, l)
	})
	want := []byte{0xE9, 0xFB, 0xFF, 0xFF, 0xFF}
	if !bytes.Equal(got, want) {
		t.Fatalf("jmp self = % X, want % X", got, want)
	}
}

func TestLabelBoundImmediatelyAfterJmp(t *testing.T) {
	got := assembled(t, func(e *x64.Encoder) {
		l := x64.NewLabel()
		x64.Jmp(e, l)
		e.Bind(l)
	})
	want := []byte{0xE9, 0x00, 0x00, 0x00, 0x00}
	if !bytes.Equal(got, want) {
		t.Fatalf("jmp; bind = % X, want % X", got, want)
	}
}

func TestLabelBoundAfterTwoNops(t *testing.T) {
	got := assembled(t, func(e *x64.Encoder) {
		l := x64.NewLabel()
		x64.Jmp(e, l)
		x64.Nop(e)
		x64.Nop(e)
		e.Bind(l)
	})
	want := []byte{0xE9, 0x02, 0x00, 0x00, 0x00, 0x90, 0x90}
	if !bytes.Equal(got, want) {
		t.Fatalf("jmp; nop; nop; bind = % X, want % X", got, want)
	}
}

func TestLabelBoundAfter0x1FFNops(t *testing.T) {
	got := assembled(t, func(e *x64.Encoder) {
		l := x64.NewLabel()
		x64.Jmp(e, l)
		for i := 0; i < 0x1FF; i++ {
			x64.Nop(e)
		}
		e.Bind(l)
	})
	want := []byte{0xE9, 0xFF, 0x01, 0x00, 0x00}
	if !bytes.Equal(got[:5], want) {
		t.Fatalf("first 5 bytes = % X, want % X", got[:5], want)
	}
}

func TestLabelDoubleBindPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on double bind")
		}
	}()
	e := x64.NewEncoder()
	l := x64.NewLabel()
	e.Bind(l)
	e.Bind(l)
}

func TestUnboundLabelPanicsOnIntoBytes(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for unbound label still holding a fix-up")
		}
	}()
	e := x64.NewEncoder()
	l := x64.NewLabel()
	x64.Jmp(e, l)
	e.IntoBytes()
}

func TestMemoryPreconditionPanics(t *testing.T) {
	t.Run("indirect rbp needs disp", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Fatal("expected panic")
			}
		}()
		x64.Mem64Indirect(x64.RBP)
	})
	t.Run("rsp as SIB index", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Fatal("expected panic")
			}
		}()
		x64.Mem64IndirectBaseIndex(x64.RAX, x64.RSP)
	})
}

// TestLegacyHighWithREXPanics covers spec.md §9's open question: AH/CH/DH/BH
// must never share an instruction with a REX prefix, since REX present
// re-targets encoding 4..7 to SPL/BPL/SIL/DIL instead.
func TestLegacyHighWithREXPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for mov ah, r8b")
		}
	}()
	e := x64.NewEncoder()
	x64.Mov(e, x64.AH, x64.R8B)
}

func TestLegacyHighWithoutREXSucceeds(t *testing.T) {
	got := assembled(t, func(e *x64.Encoder) {
		x64.Mov(e, x64.AH, x64.CL)
	})
	want := []byte{0x88, 0xCC}
	if !bytes.Equal(got, want) {
		t.Fatalf("mov ah, cl = % X, want % X", got, want)
	}
}
