package decode

import (
	"errors"
	"testing"

	"github.com/gima/x86codec/pkg/instr"
	"github.com/gima/x86codec/pkg/operand"
	"github.com/gima/x86codec/pkg/regs"
	"github.com/gima/x86codec/pkg/stream"
)

func decodeAt(t *testing.T, buf []byte, addr uint32) (instr.Instruction, int) {
	t.Helper()
	r := stream.New(buf)
	got, n, err := Decode(r, addr)
	if err != nil {
		t.Fatalf("Decode(% X) at %#x: unexpected error: %v", buf, addr, err)
	}
	return got, n
}

func TestDecodeXorEaxEax(t *testing.T) {
	got, n := decodeAt(t, []byte{0x33, 0xC0}, 0)
	want := instr.Instruction{
		Mnemonic: regs.XOR,
		Operands: []operand.Operand{operand.R32(regs.EAX), operand.R32(regs.EAX)},
	}
	if n != 2 {
		t.Errorf("consumed = %d, want 2", n)
	}
	if !instr.Equal(got, want) {
		t.Errorf("Decode = %#v, want %#v", got, want)
	}
}

func TestDecodeMovEaxImm32(t *testing.T) {
	got, n := decodeAt(t, []byte{0xB8, 0x78, 0x56, 0x34, 0x12}, 0)
	want := instr.Instruction{
		Mnemonic: regs.MOV,
		Operands: []operand.Operand{operand.R32(regs.EAX), operand.I32(0x12345678)},
	}
	if n != 5 {
		t.Errorf("consumed = %d, want 5", n)
	}
	if !instr.Equal(got, want) {
		t.Errorf("Decode = %#v, want %#v", got, want)
	}
}

func TestDecodeMovAxImm16WithSizePrefix(t *testing.T) {
	got, n := decodeAt(t, []byte{0x66, 0xB8, 0x34, 0x12}, 0)
	want := instr.Instruction{
		Mnemonic: regs.MOV,
		Operands: []operand.Operand{operand.R16(regs.AX), operand.I16(0x1234)},
	}
	if n != 4 {
		t.Errorf("consumed = %d, want 4", n)
	}
	if !instr.Equal(got, want) {
		t.Errorf("Decode = %#v, want %#v", got, want)
	}
}

func TestDecodeJmpRel32ResolvesAbsoluteTarget(t *testing.T) {
	// disp32 = 0x100 - 5: instruction is 5 bytes long, so PC-after + disp
	// lands on 0x100.
	got, n := decodeAt(t, []byte{0xE9, 0xFB, 0x00, 0x00, 0x00}, 0)
	want := instr.Instruction{
		Mnemonic: regs.JMP,
		Operands: []operand.Operand{operand.JccTarget{Taken: 0x100, NotTaken: 5}},
	}
	if n != 5 {
		t.Errorf("consumed = %d, want 5", n)
	}
	if !instr.Equal(got, want) {
		t.Errorf("Decode = %#v, want %#v", got, want)
	}
}

func TestDecodeLockAddMemReg(t *testing.T) {
	// F0 01 08: LOCK ADD [EAX], ECX (ModRM 0x08 = mod00 reg001(ECX) rm000(EAX))
	got, n := decodeAt(t, []byte{0xF0, 0x01, 0x08}, 0)
	if got.Group1Prefix != instr.Lock {
		t.Errorf("Group1Prefix = %v, want Lock", got.Group1Prefix)
	}
	if got.Mnemonic != regs.ADD {
		t.Errorf("Mnemonic = %v, want ADD", got.Mnemonic)
	}
	wantMem := operand.Mem32Simple(regs.Md, true, regs.EAX, false, 0, 0, false, 0)
	if len(got.Operands) != 2 || !operand.Equal(got.Operands[0], wantMem) {
		t.Errorf("Operands[0] = %#v, want %#v", got.Operands[0], wantMem)
	}
	if len(got.Operands) != 2 || !operand.Equal(got.Operands[1], operand.R32(regs.ECX)) {
		t.Errorf("Operands[1] = %#v, want ECX", got.Operands[1])
	}
	if n != 3 {
		t.Errorf("consumed = %d, want 3", n)
	}
}

func TestDecodeAddrPrefixUses16BitAddressing(t *testing.T) {
	// 67 8B 04: MOV EAX, [SI] (ModRM 0x04 = mod00 reg000(EAX) rm100 -> [SI])
	got, n := decodeAt(t, []byte{0x67, 0x8B, 0x04}, 0)
	if got.Mnemonic != regs.MOV {
		t.Errorf("Mnemonic = %v, want MOV", got.Mnemonic)
	}
	wantMem := operand.Mem16Simple(regs.Md, false, 0, true, regs.SI, false, 0)
	if len(got.Operands) != 2 || !operand.Equal(got.Operands[0], operand.R32(regs.EAX)) {
		t.Errorf("Operands[0] = %#v, want EAX", got.Operands[0])
	}
	if len(got.Operands) != 2 || !operand.Equal(got.Operands[1], wantMem) {
		t.Errorf("Operands[1] = %#v, want %#v", got.Operands[1], wantMem)
	}
	if n != 3 {
		t.Errorf("consumed = %d, want 3", n)
	}
}

func TestDecodeGroup1SignExtendedImm8(t *testing.T) {
	// 83 C0 FF: ADD EAX, -1 (imm8 0xFF sign-extended to 0xFFFFFFFF)
	got, _ := decodeAt(t, []byte{0x83, 0xC0, 0xFF}, 0)
	want := instr.Instruction{
		Mnemonic: regs.ADD,
		Operands: []operand.Operand{operand.R32(regs.EAX), operand.I32(0xFFFFFFFF)},
	}
	if !instr.Equal(got, want) {
		t.Errorf("Decode = %#v, want %#v", got, want)
	}
}

func TestDecodeGroup15Sfence(t *testing.T) {
	// 0F AE F8: ModRM 0xF8 = mod11 reg111(7) rm000 -> SFENCE
	got, n := decodeAt(t, []byte{0x0F, 0xAE, 0xF8}, 0)
	if got.Mnemonic != regs.SFENCE {
		t.Errorf("Mnemonic = %v, want SFENCE", got.Mnemonic)
	}
	if len(got.Operands) != 0 {
		t.Errorf("Operands = %#v, want none", got.Operands)
	}
	if n != 3 {
		t.Errorf("consumed = %d, want 3", n)
	}
}

func TestDecodeGroup15Clflush(t *testing.T) {
	// 0F AE 38: ModRM 0x38 = mod00 reg111(7) rm000(EAX) -> CLFLUSH [EAX]
	got, _ := decodeAt(t, []byte{0x0F, 0xAE, 0x38}, 0)
	if got.Mnemonic != regs.CLFLUSH {
		t.Errorf("Mnemonic = %v, want CLFLUSH", got.Mnemonic)
	}
}

func TestDecodeAamStem(t *testing.T) {
	got, n := decodeAt(t, []byte{0xD4, 0x0A}, 0)
	if got.Mnemonic != regs.AAM {
		t.Errorf("Mnemonic = %v, want AAM", got.Mnemonic)
	}
	if n != 2 {
		t.Errorf("consumed = %d, want 2", n)
	}
}

func TestDecodeAamRejectsWrongStem(t *testing.T) {
	r := stream.New([]byte{0xD4, 0x0B})
	_, _, err := Decode(r, 0)
	if !errors.Is(err, ErrInvalidInstruction) {
		t.Errorf("err = %v, want ErrInvalidInstruction", err)
	}
}

func TestDecodeJcxzVsJecxz(t *testing.T) {
	// Default 32-bit address size: 0xE3 tests ECX (JECXZ).
	plain, _ := decodeAt(t, []byte{0xE3, 0x02}, 0)
	if plain.Mnemonic != regs.JECXZ {
		t.Errorf("Mnemonic = %v, want JECXZ", plain.Mnemonic)
	}
	// 0x67 narrows the address size to 16 bits: 0xE3 tests CX (JCXZ).
	withAddrPfx, _ := decodeAt(t, []byte{0x67, 0xE3, 0x02}, 0)
	if withAddrPfx.Mnemonic != regs.JCXZ {
		t.Errorf("Mnemonic = %v, want JCXZ", withAddrPfx.Mnemonic)
	}
}

func TestDecodeInvalidOpcodeFails(t *testing.T) {
	r := stream.New([]byte{0x0F, 0x04})
	_, _, err := Decode(r, 0)
	if !errors.Is(err, ErrInvalidInstruction) {
		t.Errorf("err = %v, want ErrInvalidInstruction", err)
	}
}

func TestDecodeGroup3RegisterFormMul(t *testing.T) {
	// F7 E1: ModRM 0xE1 = mod11 reg100(MUL) rm001(ECX) -> MUL ECX
	got, _ := decodeAt(t, []byte{0xF7, 0xE1}, 0)
	want := instr.Instruction{Mnemonic: regs.MUL, Operands: []operand.Operand{operand.R32(regs.ECX)}}
	if !instr.Equal(got, want) {
		t.Errorf("Decode = %#v, want %#v", got, want)
	}
}

func TestDecodeImulThreeOperand(t *testing.T) {
	// 6B C1 05: ModRM 0xC1 = mod11 reg000(EAX) rm001(ECX) -> IMUL EAX, ECX, 5
	got, _ := decodeAt(t, []byte{0x6B, 0xC1, 0x05}, 0)
	want := instr.Instruction{
		Mnemonic: regs.IMUL,
		Operands: []operand.Operand{operand.R32(regs.EAX), operand.R32(regs.ECX), operand.I32(5)},
	}
	if !instr.Equal(got, want) {
		t.Errorf("Decode = %#v, want %#v", got, want)
	}
}
