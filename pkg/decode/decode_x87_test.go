package decode

import (
	"testing"

	"github.com/gima/x86codec/pkg/instr"
	"github.com/gima/x86codec/pkg/operand"
	"github.com/gima/x86codec/pkg/regs"
)

func TestDecodeFaddMemReal4(t *testing.T) {
	// D8 /0, disp32 only: FADD ST(0), DWORD PTR [0x11223344]
	got, n := decodeAt(t, []byte{0xD8, 0x05, 0x44, 0x33, 0x22, 0x11}, 0)
	want := instr.Instruction{
		Mnemonic: regs.FADD,
		Operands: []operand.Operand{
			operand.St(regs.ST0),
			operand.Mem32Simple(regs.Md, false, 0, false, 0, 0, true, 0x11223344),
		},
	}
	if n != 6 {
		t.Fatalf("consumed = %d, want 6", n)
	}
	if !instr.Equal(got, want) {
		t.Errorf("Decode = %#v, want %#v", got, want)
	}
}

func TestDecodeFmulRegisterForm(t *testing.T) {
	// D8 CA: FMUL ST(0), ST(2) -- Mod=3, GGG=1 (FMUL), RM=2
	got, n := decodeAt(t, []byte{0xD8, 0xCA}, 0)
	want := instr.Instruction{
		Mnemonic: regs.FMUL,
		Operands: []operand.Operand{operand.St(regs.ST0), operand.St(regs.ST2)},
	}
	if n != 2 {
		t.Fatalf("consumed = %d, want 2", n)
	}
	if !instr.Equal(got, want) {
		t.Errorf("Decode = %#v, want %#v", got, want)
	}
}

func TestDecodeFchsNoOperand(t *testing.T) {
	// D9 E0: FCHS, reached via the D9 register-form RMGroup at GGG=4, RM=0.
	got, n := decodeAt(t, []byte{0xD9, 0xE0}, 0)
	want := instr.Instruction{Mnemonic: regs.FCHS}
	if n != 2 {
		t.Fatalf("consumed = %d, want 2", n)
	}
	if !instr.Equal(got, want) {
		t.Errorf("Decode = %#v, want %#v", got, want)
	}
}

func TestDecodeFldConstantRMGroup(t *testing.T) {
	// D9 E8: FLD1, reached via the constant-load RMGroup at GGG=5, RM=0.
	got, _ := decodeAt(t, []byte{0xD9, 0xE8}, 0)
	want := instr.Instruction{Mnemonic: regs.FLD1}
	if !instr.Equal(got, want) {
		t.Errorf("Decode = %#v, want %#v", got, want)
	}
}

func TestDecodeFstenvMemory(t *testing.T) {
	// D9 /6, bare disp32: FSTENV [0x1000]
	got, _ := decodeAt(t, []byte{0xD9, 0x35, 0x00, 0x10, 0x00, 0x00}, 0)
	want := instr.Instruction{
		Mnemonic: regs.FSTENV,
		Operands: []operand.Operand{operand.Mem32Simple(regs.FPEnvLow, false, 0, false, 0, 0, true, 0x1000)},
	}
	if !instr.Equal(got, want) {
		t.Errorf("Decode = %#v, want %#v", got, want)
	}
}

func TestDecodeFildMemInt32(t *testing.T) {
	// DB /0, bare disp32: FILD DWORD PTR [0x1000]
	got, _ := decodeAt(t, []byte{0xDB, 0x05, 0x00, 0x10, 0x00, 0x00}, 0)
	want := instr.Instruction{
		Mnemonic: regs.FILD,
		Operands: []operand.Operand{operand.Mem32Simple(regs.Md, false, 0, false, 0, 0, true, 0x1000)},
	}
	if !instr.Equal(got, want) {
		t.Errorf("Decode = %#v, want %#v", got, want)
	}
}

func TestDecodeFcomppNoOperand(t *testing.T) {
	// DE D9: FCOMPP, reached via the DE register-form RMGroup at GGG=3, RM=1.
	got, _ := decodeAt(t, []byte{0xDE, 0xD9}, 0)
	want := instr.Instruction{Mnemonic: regs.FCOMPP}
	if !instr.Equal(got, want) {
		t.Errorf("Decode = %#v, want %#v", got, want)
	}
}

func TestDecodeFstswAX(t *testing.T) {
	// DF E0: FSTSW AX, reached via the DF register-form RMGroup at GGG=4, RM=0.
	got, _ := decodeAt(t, []byte{0xDF, 0xE0}, 0)
	want := instr.Instruction{
		Mnemonic: regs.FSTSW,
		Operands: []operand.Operand{operand.R16(regs.AX)},
	}
	if !instr.Equal(got, want) {
		t.Errorf("Decode = %#v, want %#v", got, want)
	}
}

func TestDecodeFfreeRegisterForm(t *testing.T) {
	// DD C3: FFREE ST(3) -- Mod=3, GGG=0, RM=3
	got, _ := decodeAt(t, []byte{0xDD, 0xC3}, 0)
	want := instr.Instruction{
		Mnemonic: regs.FFREE,
		Operands: []operand.Operand{operand.St(regs.ST3)},
	}
	if !instr.Equal(got, want) {
		t.Errorf("Decode = %#v, want %#v", got, want)
	}
}
