package x64_test

import (
	"bytes"
	"testing"

	"github.com/keurnel/x64jit/x64"
)

func TestImmWideningRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		got  []byte
		want []byte
	}{
		{"imm8 from uint8", x64.NewImm8(uint8(0xAB)).Bytes(), []byte{0xAB}},
		{"imm16 unsigned widen", x64.NewImm16Unsigned(uint8(0xAB)).Bytes(), []byte{0xAB, 0x00}},
		{"imm16 signed widen negative", x64.NewImm16Signed(int8(-1)).Bytes(), []byte{0xFF, 0xFF}},
		{"imm32 signed widen negative", x64.NewImm32Signed(int16(-1)).Bytes(), []byte{0xFF, 0xFF, 0xFF, 0xFF}},
		{
			"imm64 unsigned widen",
			x64.NewImm64Unsigned(uint32(0xaabb)).Bytes(),
			[]byte{0xBB, 0xAA, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
		},
		{
			"imm64 signed widen negative",
			x64.NewImm64Signed(int32(-2)).Bytes(),
			[]byte{0xFE, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF},
		},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			if !bytes.Equal(tt.got, tt.want) {
				t.Fatalf("%s = % X, want % X", tt.name, tt.got, tt.want)
			}
		})
	}
}
