package oracle

import (
	"fmt"

	"github.com/gima/x86codec/pkg/decode"
	"github.com/gima/x86codec/pkg/encode"
	"github.com/gima/x86codec/pkg/instr"
	"github.com/gima/x86codec/pkg/modrm"
	"github.com/gima/x86codec/pkg/operand"
	"github.com/gima/x86codec/pkg/regs"
	"github.com/gima/x86codec/pkg/stream"
)

// Result records the outcome of one Check call.
type Result struct {
	Case    Case
	Encoded []byte
	Decoded instr.Instruction
	OK      bool
	Err     error
}

// Check encodes c.Instruction at c.Addr, decodes the result back, and
// compares against the original. regs.MnemonicExceptionClass mnemonics
// (the string-op family: MOVSB/MOVSW/MOVSD, CMPSB/..., STOSB/...,
// LODSB/..., SCASB/...) decode with no operands even when the
// instruction was built with the operand-bearing form, so the expected
// value's operands are dropped before comparing — mirroring the
// normalization pkg/encode's own MOVSB test documents.
func Check(c Case) Result {
	enc, err := encode.Encode(c.Instruction, c.Addr)
	if err != nil {
		return Result{Case: c, Err: fmt.Errorf("encode: %w", err)}
	}

	got, _, err := decode.Decode(stream.New(enc), c.Addr)
	if err != nil {
		return Result{Case: c, Encoded: enc, Err: fmt.Errorf("decode: %w", err)}
	}

	want := c.Instruction
	if regs.MnemonicExceptionClass(want.Mnemonic) && len(want.Operands) > 0 {
		want.Operands = nil
	}
	patchJccNotTaken(want.Operands, c.Addr+uint32(len(enc)))

	return Result{
		Case:    c,
		Encoded: enc,
		Decoded: got,
		OK:      instr.Equal(got, want),
	}
}

// patchJccNotTaken fills in NotTaken on a generated instruction's jump-target
// operands before comparing against a decoded one: the generator only knows
// Taken (it fixes the branch target before the instruction's own encoded
// length exists), while decode resolves NotTaken to the address right after
// the instruction, per the fall-through semantics decode actually implements.
func patchJccNotTaken(ops []operand.Operand, pcAfter uint32) {
	for i, op := range ops {
		if jcc, ok := op.(operand.JccTarget); ok {
			jcc.NotTaken = pcAfter
			ops[i] = jcc
		}
	}
}

// ModRMRoundTrip independently exercises pkg/modrm's Encode/DecodeMem32
// pair against a generated Mem32 shape, bypassing the opcode table
// entirely — a narrower property than Check, useful for isolating a
// ModR/M/SIB bug from an AOTDL/candidate-table bug. reg is an arbitrary
// GGG-field digit; DecodeMem32 never inspects it.
func ModRMRoundTrip(m operand.Mem32, reg uint8) (ok bool, err error) {
	enc, err := modrm.EncodeMem32(reg, modrm.Mem32{
		HasBase: m.HasBase, Base: m.Base,
		HasIndex: m.HasIndex, Index: m.Index, Scale: m.Scale,
		HasDisp: m.HasDisp, Disp: m.Disp,
	})
	if err != nil {
		return false, fmt.Errorf("encode: %w", err)
	}

	r := stream.New(enc)
	mrm, err := modrm.DecodeByte(r)
	if err != nil {
		return false, fmt.Errorf("decode ModR/M byte: %w", err)
	}
	if mrm.Reg != reg {
		return false, fmt.Errorf("reg field round-tripped as %d, want %d", mrm.Reg, reg)
	}
	got, err := modrm.DecodeMem32(mrm, r)
	if err != nil {
		return false, fmt.Errorf("decode mem: %w", err)
	}

	want := m
	if want.Base == regs.EBP && want.HasBase && !want.HasDisp {
		want.HasDisp = true // bareEBP always forces a (possibly zero) disp8
	}
	same := got.HasBase == want.HasBase && got.Base == want.Base &&
		got.HasIndex == want.HasIndex && got.Index == want.Index &&
		got.HasDisp == want.HasDisp && got.Disp == want.Disp
	if got.HasIndex {
		same = same && got.Scale == want.Scale
	}
	return same, nil
}
