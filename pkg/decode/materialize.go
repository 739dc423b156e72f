package decode

import (
	"fmt"

	"github.com/gima/x86codec/pkg/aot"
	"github.com/gima/x86codec/pkg/modrm"
	"github.com/gima/x86codec/pkg/operand"
	"github.com/gima/x86codec/pkg/regs"
)

type pendingJcc struct {
	index int
	disp  int64
}

// materializeAll reads, in order, the concrete operand values named by
// aots, resolving every memory/immediate/jump-target byte the instruction
// still owes the stream.
func (d *Decoder) materializeAll(aots []aot.Node) ([]operand.Operand, error) {
	ops := make([]operand.Operand, len(aots))
	var pending []pendingJcc

	for i, node := range aots {
		op, disp, isJcc, err := d.materializeOne(node)
		if err != nil {
			return nil, err
		}
		if isJcc {
			pending = append(pending, pendingJcc{index: i, disp: disp})
			continue
		}
		ops[i] = op
	}

	if len(pending) > 0 {
		pcAfter := int64(d.addr) + int64(d.r.Consumed())
		for _, p := range pending {
			taken := uint32(pcAfter + p.disp)
			ops[p.index] = operand.JccTarget{Taken: taken, NotTaken: uint32(pcAfter)}
		}
	}
	return ops, nil
}

// materializeOne produces one operand. For a jump-target archetype it
// instead returns the raw signed displacement (isJcc=true); the caller
// patches in the resolved JccTarget once the instruction's total length
// is known.
func (d *Decoder) materializeOne(node aot.Node) (op operand.Operand, disp int64, isJcc bool, err error) {
	switch n := node.(type) {
	case aot.ExactNode:
		return n.Value, 0, false, nil

	case aot.ExactSegNode:
		return d.materializeExactSeg(n), 0, false, nil

	case aot.GPartNode:
		m, merr := d.decodeModRM()
		if merr != nil {
			return nil, 0, false, fmt.Errorf("%w: %v", ErrInvalidInstruction, merr)
		}
		return regOperand(n.Archetype, m.GGG()), 0, false, nil

	case aot.RegOrMemNode:
		return d.materializeRegOrMem(n)

	case aot.ImmEncNode:
		return d.materializeImmEnc(n)

	case aot.SignedImmNode:
		return d.materializeSignedImm(n)

	case aot.SizePrefixNode:
		if d.sizePfx {
			return d.materializeOne(n.Yes)
		}
		return d.materializeOne(n.No)

	case aot.AddrPrefixNode:
		if d.addrPfx {
			return d.materializeOne(n.Yes)
		}
		return d.materializeOne(n.No)

	default:
		return nil, 0, false, ErrInternalInvariantFailure
	}
}

func (d *Decoder) materializeExactSeg(n aot.ExactSegNode) operand.Operand {
	seg := d.effectiveSeg(defaultSegOf(n.Value))
	switch v := n.Value.(type) {
	case operand.Mem16:
		v.Seg = seg
		return v
	case operand.Mem32:
		v.Seg = seg
		return v
	default:
		return n.Value
	}
}

func defaultSegOf(op operand.Operand) regs.Seg {
	switch v := op.(type) {
	case operand.Mem16:
		return v.DefaultSeg()
	case operand.Mem32:
		return v.DefaultSeg()
	default:
		return regs.DS
	}
}

func (d *Decoder) effectiveSeg(def regs.Seg) regs.Seg {
	if d.hasSeg {
		return d.seg
	}
	return def
}

func regOperand(class aot.RegClass, ordinal uint8) operand.Operand {
	switch class {
	case aot.ClassR8:
		return operand.R8(regs.Reg8(ordinal))
	case aot.ClassR16:
		return operand.R16(regs.Reg16(ordinal))
	case aot.ClassR32:
		return operand.R32(regs.Reg32(ordinal))
	case aot.ClassSeg:
		return operand.Sreg(regs.Seg(ordinal & 7))
	case aot.ClassCtrl:
		return operand.Creg(regs.Ctrl(ordinal))
	case aot.ClassDbg:
		return operand.Dreg(regs.Dbg(ordinal))
	case aot.ClassFPU:
		return operand.St(regs.FPU(ordinal))
	case aot.ClassMMX:
		return operand.Mm(regs.MMX(ordinal))
	case aot.ClassXMM:
		return operand.Xmm(regs.XMM(ordinal))
	default:
		return nil
	}
}

func (d *Decoder) materializeRegOrMem(n aot.RegOrMemNode) (operand.Operand, int64, bool, error) {
	m, err := d.decodeModRM()
	if err != nil {
		return nil, 0, false, fmt.Errorf("%w: %v", ErrInvalidInstruction, err)
	}
	if m.IsRegisterForm() {
		return regOperand(n.RegClass, m.RM), 0, false, nil
	}
	if d.addrPfx {
		parts, err := modrm.DecodeMem16(m, d.r)
		if err != nil {
			return nil, 0, false, fmt.Errorf("%w: %v", ErrInvalidInstruction, err)
		}
		mem := operand.Mem16{
			Size: n.MemSize, HasBase: parts.HasBase, Base: parts.Base,
			HasIndex: parts.HasIndex, Index: parts.Index,
			HasDisp: parts.HasDisp, Disp: parts.Disp,
		}
		mem.Seg = d.effectiveSeg(mem.DefaultSeg())
		return mem, 0, false, nil
	}
	parts, err := modrm.DecodeMem32(m, d.r)
	if err != nil {
		return nil, 0, false, fmt.Errorf("%w: %v", ErrInvalidInstruction, err)
	}
	mem := operand.Mem32{
		Size: n.MemSize, HasBase: parts.HasBase, Base: parts.Base,
		HasIndex: parts.HasIndex, Index: parts.Index, Scale: parts.Scale,
		HasDisp: parts.HasDisp, Disp: parts.Disp,
	}
	mem.Seg = d.effectiveSeg(mem.DefaultSeg())
	return mem, 0, false, nil
}

func (d *Decoder) materializeImmEnc(n aot.ImmEncNode) (operand.Operand, int64, bool, error) {
	switch n.Archetype {
	case aot.ArchIb:
		v, err := d.r.Byte()
		return operand.Imm8{Value: v}, 0, false, wrapErr(err)
	case aot.ArchIw:
		v, err := d.r.Word()
		return operand.Imm16{Value: v}, 0, false, wrapErr(err)
	case aot.ArchId:
		v, err := d.r.Dword()
		return operand.Imm32{Value: v}, 0, false, wrapErr(err)
	case aot.ArchMoffs16:
		v, err := d.r.Word()
		if err != nil {
			return nil, 0, false, wrapErr(err)
		}
		mem := operand.Mem16{Size: n.MemSize, HasDisp: true, Disp: v}
		mem.Seg = d.effectiveSeg(regs.DS)
		return mem, 0, false, nil
	case aot.ArchMoffs32:
		v, err := d.r.Dword()
		if err != nil {
			return nil, 0, false, wrapErr(err)
		}
		mem := operand.Mem32{Size: n.MemSize, HasDisp: true, Disp: v}
		mem.Seg = d.effectiveSeg(regs.DS)
		return mem, 0, false, nil
	case aot.ArchFarPtr16:
		off, err := d.r.Word()
		if err != nil {
			return nil, 0, false, wrapErr(err)
		}
		seg, err := d.r.Word()
		return operand.FarPtr16{Seg: seg, Off: off}, 0, false, wrapErr(err)
	case aot.ArchFarPtr32:
		off, err := d.r.Dword()
		if err != nil {
			return nil, 0, false, wrapErr(err)
		}
		seg, err := d.r.Word()
		return operand.FarPtr32{Seg: seg, Off: off}, 0, false, wrapErr(err)
	case aot.ArchJb:
		b, err := d.r.Byte()
		return nil, int64(int8(b)), true, wrapErr(err)
	case aot.ArchJz32:
		v, err := d.r.Dword()
		return nil, int64(int32(v)), true, wrapErr(err)
	default:
		return nil, 0, false, ErrInternalInvariantFailure
	}
}

func (d *Decoder) materializeSignedImm(n aot.SignedImmNode) (operand.Operand, int64, bool, error) {
	b, err := d.r.Byte()
	if err != nil {
		return nil, 0, false, wrapErr(err)
	}
	switch n.Archetype {
	case aot.ArchIw:
		return operand.Imm16{Value: uint16(int16(int8(b)))}, 0, false, nil
	case aot.ArchId:
		return operand.Imm32{Value: uint32(int32(int8(b)))}, 0, false, nil
	default:
		return nil, 0, false, ErrInternalInvariantFailure
	}
}

func wrapErr(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrInvalidInstruction, err)
}
