package encode

import (
	"bytes"
	"testing"

	"github.com/gima/x86codec/pkg/decode"
	"github.com/gima/x86codec/pkg/instr"
	"github.com/gima/x86codec/pkg/operand"
	"github.com/gima/x86codec/pkg/regs"
	"github.com/gima/x86codec/pkg/stream"
)

func encodeAt(t *testing.T, i instr.Instruction, addr uint32) []byte {
	t.Helper()
	got, err := Encode(i, addr)
	if err != nil {
		t.Fatalf("Encode(%s) at %#x: unexpected error: %v", i.String(), addr, err)
	}
	return got
}

func TestEncodeXorEaxEax(t *testing.T) {
	got := encodeAt(t, instr.Instruction{
		Mnemonic: regs.XOR,
		Operands: []operand.Operand{operand.R32(regs.EAX), operand.R32(regs.EAX)},
	}, 0)
	want := []byte{0x31, 0xC0}
	if !bytes.Equal(got, want) {
		t.Errorf("Encode = % X, want % X", got, want)
	}
}

func TestEncodeMovEaxImm32(t *testing.T) {
	got := encodeAt(t, instr.Instruction{
		Mnemonic: regs.MOV,
		Operands: []operand.Operand{operand.R32(regs.EAX), operand.I32(0x12345678)},
	}, 0)
	want := []byte{0xB8, 0x78, 0x56, 0x34, 0x12}
	if !bytes.Equal(got, want) {
		t.Errorf("Encode = % X, want % X", got, want)
	}
}

// ADD EAX, 1 must prefer the 3-byte sign-extended-imm8 Group 1 form
// (0x83 /0 ib) over the 6-byte general imm32 form (0x81 /0 id) — the
// candidate table lists the narrower encoding first for every ALU
// mnemonic.
func TestEncodeAddPrefersNarrowerImmForm(t *testing.T) {
	got := encodeAt(t, instr.Instruction{
		Mnemonic: regs.ADD,
		Operands: []operand.Operand{operand.R32(regs.EAX), operand.I32(1)},
	}, 0)
	want := []byte{0x83, 0xC0, 0x01}
	if !bytes.Equal(got, want) {
		t.Errorf("Encode = % X, want % X", got, want)
	}
}

// A target within signed-8-bit range of the next instruction picks the
// 2-byte short jump.
func TestEncodeJmpShortInRange(t *testing.T) {
	got := encodeAt(t, instr.Instruction{
		Mnemonic: regs.JMP,
		Operands: []operand.Operand{operand.JccTarget{Taken: 0x102}},
	}, 0x100)
	want := []byte{0xEB, 0x00}
	if !bytes.Equal(got, want) {
		t.Errorf("Encode = % X, want % X", got, want)
	}
}

// A target outside signed-8-bit range falls through from the short
// candidate to the 5-byte near form instead of failing.
func TestEncodeJmpFallsBackToNearWhenShortDoesNotFit(t *testing.T) {
	got := encodeAt(t, instr.Instruction{
		Mnemonic: regs.JMP,
		Operands: []operand.Operand{operand.JccTarget{Taken: 0x100000}},
	}, 0)
	if len(got) != 5 || got[0] != 0xE9 {
		t.Fatalf("Encode = % X, want a 5-byte 0xE9 near jump", got)
	}
	rt, _, _ := decode.Decode(stream.New(got), 0)
	if rt.Operands[0].(operand.JccTarget).Taken != 0x100000 {
		t.Errorf("round-tripped target = %#x, want 0x100000", rt.Operands[0].(operand.JccTarget).Taken)
	}
}

// LOOP has no near form in the real ISA, so an out-of-range target must
// surface as "no candidate matched" rather than silently picking some
// other encoding.
func TestEncodeLoopOutOfRangeFails(t *testing.T) {
	_, err := Encode(instr.Instruction{
		Mnemonic: regs.LOOP,
		Operands: []operand.Operand{operand.JccTarget{Taken: 0x100000}},
	}, 0)
	if err == nil {
		t.Fatal("Encode(LOOP, out-of-range target) = nil error, want ErrInvalidInstruction")
	}
}

// JCXZ forces the 0x67 address-size prefix onto the same opcode JECXZ
// uses bare, since neither mnemonic carries an operand that names the
// address size.
func TestEncodeJcxzForces67(t *testing.T) {
	// JCXZ's instruction is 3 bytes (0x67 prefix + opcode + disp8), so a
	// zero displacement targets address 3.
	got := encodeAt(t, instr.Instruction{
		Mnemonic: regs.JCXZ,
		Operands: []operand.Operand{operand.JccTarget{Taken: 3}},
	}, 0)
	want := []byte{0x67, 0xE3, 0x00}
	if !bytes.Equal(got, want) {
		t.Errorf("Encode = % X, want % X", got, want)
	}

	// JECXZ's instruction is 2 bytes with no prefix, so a zero
	// displacement targets address 2.
	got = encodeAt(t, instr.Instruction{
		Mnemonic: regs.JECXZ,
		Operands: []operand.Operand{operand.JccTarget{Taken: 2}},
	}, 0)
	want = []byte{0xE3, 0x00}
	if !bytes.Equal(got, want) {
		t.Errorf("Encode = % X, want % X", got, want)
	}
}

// PUSHA and PUSHAD share an opcode; only the 0x66 prefix tells them
// apart, forced by the candidate rather than derived from any operand.
func TestEncodePushaVsPushad(t *testing.T) {
	got := encodeAt(t, instr.Instruction{Mnemonic: regs.PUSHA}, 0)
	if !bytes.Equal(got, []byte{0x66, 0x60}) {
		t.Errorf("PUSHA: Encode = % X, want 66 60", got)
	}
	got = encodeAt(t, instr.Instruction{Mnemonic: regs.PUSHAD}, 0)
	if !bytes.Equal(got, []byte{0x60}) {
		t.Errorf("PUSHAD: Encode = % X, want 60", got)
	}
}

func TestEncodeMovsbZeroOperand(t *testing.T) {
	got := encodeAt(t, instr.Instruction{Mnemonic: regs.MOVSB}, 0)
	if !bytes.Equal(got, []byte{0xA4}) {
		t.Errorf("Encode = % X, want A4", got)
	}
}

// The operand-bearing ES:[EDI] <- DS:[ESI] form folds to the identical
// single byte: decode never produces operands for MOVSB, so round-trip
// normalization collapses this shape back to the zero-operand rendering.
func TestEncodeMovsbOperandBearingNormalizesToSameBytes(t *testing.T) {
	dst := operand.Mem32{Seg: regs.ES, Size: regs.Mb, HasBase: true, Base: regs.EDI}
	src := operand.Mem32{Seg: regs.DS, Size: regs.Mb, HasBase: true, Base: regs.ESI}
	got := encodeAt(t, instr.Instruction{
		Mnemonic: regs.MOVSB,
		Operands: []operand.Operand{dst, src},
	}, 0)
	if !bytes.Equal(got, []byte{0xA4}) {
		t.Errorf("Encode = % X, want A4", got)
	}
}

// The DS segment on the source may be overridden; the ES segment on the
// destination is hardware-fixed and must not type-check against anything
// else.
func TestEncodeMovsbSourceSegmentOverridable(t *testing.T) {
	dst := operand.Mem32{Seg: regs.ES, Size: regs.Mb, HasBase: true, Base: regs.EDI}
	src := operand.Mem32{Seg: regs.FS, Size: regs.Mb, HasBase: true, Base: regs.ESI}
	got := encodeAt(t, instr.Instruction{
		Mnemonic: regs.MOVSB,
		Operands: []operand.Operand{dst, src},
	}, 0)
	want := []byte{0x64, 0xA4}
	if !bytes.Equal(got, want) {
		t.Errorf("Encode = % X, want % X", got, want)
	}

	bad := operand.Mem32{Seg: regs.FS, Size: regs.Mb, HasBase: true, Base: regs.EDI}
	if _, err := Encode(instr.Instruction{
		Mnemonic: regs.MOVSB,
		Operands: []operand.Operand{bad, src},
	}, 0); err == nil {
		t.Fatal("Encode(MOVSB with non-ES destination segment) = nil error, want failure")
	}
}

func TestEncodeGroup15ZeroOperandForms(t *testing.T) {
	cases := []struct {
		m    regs.Mnemonic
		want []byte
	}{
		{regs.LFENCE, []byte{0x0F, 0xAE, 0xE8}},
		{regs.MFENCE, []byte{0x0F, 0xAE, 0xF0}},
		{regs.SFENCE, []byte{0x0F, 0xAE, 0xF8}},
	}
	for _, c := range cases {
		got := encodeAt(t, instr.Instruction{Mnemonic: c.m}, 0)
		if !bytes.Equal(got, c.want) {
			t.Errorf("%s: Encode = % X, want % X", c.m, got, c.want)
		}
	}
}

func TestEncodeClflush(t *testing.T) {
	mem := operand.Mem32Simple(regs.Mb, true, regs.EAX, false, 0, 0, false, 0)
	got := encodeAt(t, instr.Instruction{
		Mnemonic: regs.CLFLUSH,
		Operands: []operand.Operand{mem},
	}, 0)
	want := []byte{0x0F, 0xAE, 0x38}
	if !bytes.Equal(got, want) {
		t.Errorf("Encode = % X, want % X", got, want)
	}
}

// Encode∘Decode fixpoint: a handful of representative instructions should
// decode back to an equal Instruction value after being encoded.
func TestEncodeDecodeFixpoint(t *testing.T) {
	cases := []instr.Instruction{
		{Mnemonic: regs.XOR, Operands: []operand.Operand{operand.R32(regs.EAX), operand.R32(regs.EBX)}},
		{Mnemonic: regs.MOV, Operands: []operand.Operand{operand.R16(regs.AX), operand.I16(0x1234)}},
		{Mnemonic: regs.ADD, Operands: []operand.Operand{operand.R32(regs.ECX), operand.I32(1)}},
		{Mnemonic: regs.PUSH, Operands: []operand.Operand{operand.R32(regs.EBP)}},
		{Mnemonic: regs.NOP},
		{Mnemonic: regs.RET},
		{Group1Prefix: instr.Rep, Mnemonic: regs.MOVSB},
	}
	for _, want := range cases {
		enc, err := Encode(want, 0)
		if err != nil {
			t.Fatalf("Encode(%s): unexpected error: %v", want.String(), err)
		}
		got, _, err := decode.Decode(stream.New(enc), 0)
		if err != nil {
			t.Fatalf("Decode(% X) after encoding %s: unexpected error: %v", enc, want.String(), err)
		}
		if !instr.Equal(got, want) {
			t.Errorf("round trip of %s: got %s (% X)", want.String(), got.String(), enc)
		}
	}
}

func TestManyAdvancesAddressBetweenInstructions(t *testing.T) {
	is := []instr.Instruction{
		{Mnemonic: regs.NOP},
		{Mnemonic: regs.JMP, Operands: []operand.Operand{operand.JccTarget{Taken: 1}}},
	}
	got, err := Many(is, 0)
	if err != nil {
		t.Fatalf("Many: unexpected error: %v", err)
	}
	// NOP (1 byte) then a short JMP back to address 1: displacement from
	// the instruction starting at address 1, 2 bytes long, is 1-1-2=-2.
	want := []byte{0x90, 0xEB, 0xFE}
	if !bytes.Equal(got, want) {
		t.Errorf("Many = % X, want % X", got, want)
	}
}
