package aot

import (
	"github.com/gima/x86codec/pkg/operand"
	"github.com/gima/x86codec/pkg/regs"
)

// TypeCheckInfo is the side-effect contract a single operand's check
// against its AOTDL node produces. A nil field means neither the node nor
// the operand constrained it; Reduce fails a candidate when two operands
// report conflicting concrete values for the same field.
type TypeCheckInfo struct {
	SizeOverride *bool
	AddrOverride *bool
	SegOverride  *regs.Seg
}

func boolPtr(b bool) *bool    { return &b }
func segPtr(s regs.Seg) *regs.Seg { return &s }

// Check type-checks a single operand against a single AOTDL node. It
// returns (info, true) on a match, or (TypeCheckInfo{}, false) on a mismatch —
// TypeCheckMismatch in spec terms, represented here as an ordinary
// negative result rather than an error, since failing one candidate
// AOTDL node is routine and never escapes the encoder.
func Check(n Node, op Operand) (TypeCheckInfo, bool) {
	switch node := n.(type) {
	case ExactNode:
		if operand.Equal(node.Value, op) {
			return TypeCheckInfo{}, true
		}
		return TypeCheckInfo{}, false

	case ExactSegNode:
		return checkExactSeg(node, op)

	case GPartNode:
		if classOf(op) == node.Archetype {
			return TypeCheckInfo{}, true
		}
		return TypeCheckInfo{}, false

	case RegOrMemNode:
		return checkRegOrMem(node, op)

	case ImmEncNode:
		return checkImmEnc(node, op)

	case SignedImmNode:
		return checkSignedImm(node, op)

	case SizePrefixNode:
		if info, ok := Check(node.Yes, op); ok {
			info.SizeOverride = boolPtr(true)
			return info, true
		}
		if info, ok := Check(node.No, op); ok {
			info.SizeOverride = boolPtr(false)
			return info, true
		}
		return TypeCheckInfo{}, false

	case AddrPrefixNode:
		if info, ok := Check(node.Yes, op); ok {
			info.AddrOverride = boolPtr(true)
			return info, true
		}
		if info, ok := Check(node.No, op); ok {
			info.AddrOverride = boolPtr(false)
			return info, true
		}
		return TypeCheckInfo{}, false

	default:
		return TypeCheckInfo{}, false
	}
}

func classOf(op Operand) RegClass {
	switch op.(type) {
	case operand.Reg8:
		return ClassR8
	case operand.Reg16:
		return ClassR16
	case operand.Reg32:
		return ClassR32
	case operand.SegReg:
		return ClassSeg
	case operand.CtrlReg:
		return ClassCtrl
	case operand.DbgReg:
		return ClassDbg
	case operand.FPUReg:
		return ClassFPU
	case operand.MMXReg:
		return ClassMMX
	case operand.XMMReg:
		return ClassXMM
	default:
		return RegClass(0xFF)
	}
}

// RegOrdinal returns the hardware field ordinal (0..7) of a register
// operand, for use by the encoder's GPart/RegOrMem emit-visitors.
func RegOrdinal(op Operand) (uint8, bool) {
	switch v := op.(type) {
	case operand.Reg8:
		return uint8(v.Reg), true
	case operand.Reg16:
		return uint8(v.Reg), true
	case operand.Reg32:
		return uint8(v.Reg), true
	case operand.SegReg:
		return uint8(v.Seg), true
	case operand.CtrlReg:
		return uint8(v.Reg), true
	case operand.DbgReg:
		return uint8(v.Reg), true
	case operand.FPUReg:
		return uint8(v.Reg), true
	case operand.MMXReg:
		return uint8(v.Reg), true
	case operand.XMMReg:
		return uint8(v.Reg), true
	default:
		return 0, false
	}
}

func checkExactSeg(node ExactSegNode, op Operand) (TypeCheckInfo, bool) {
	switch want := node.Value.(type) {
	case operand.Mem16:
		got, ok := op.(operand.Mem16)
		if !ok {
			return TypeCheckInfo{}, false
		}
		if sameMem16Shape(want, got) {
			if got.Seg == want.Seg {
				return TypeCheckInfo{}, true
			}
			return TypeCheckInfo{SegOverride: segPtr(got.Seg)}, true
		}
		return TypeCheckInfo{}, false
	case operand.Mem32:
		got, ok := op.(operand.Mem32)
		if !ok {
			return TypeCheckInfo{}, false
		}
		if sameMem32Shape(want, got) {
			if got.Seg == want.Seg {
				return TypeCheckInfo{}, true
			}
			return TypeCheckInfo{SegOverride: segPtr(got.Seg)}, true
		}
		return TypeCheckInfo{}, false
	default:
		if operand.Equal(node.Value, op) {
			return TypeCheckInfo{}, true
		}
		return TypeCheckInfo{}, false
	}
}

func sameMem16Shape(a, b operand.Mem16) bool {
	return a.Size == b.Size && a.HasBase == b.HasBase && a.Base == b.Base &&
		a.HasIndex == b.HasIndex && a.Index == b.Index &&
		a.HasDisp == b.HasDisp && a.Disp == b.Disp
}

func sameMem32Shape(a, b operand.Mem32) bool {
	return a.Size == b.Size && a.HasBase == b.HasBase && a.Base == b.Base &&
		a.HasIndex == b.HasIndex && a.Index == b.Index && a.Scale == b.Scale &&
		a.HasDisp == b.HasDisp && a.Disp == b.Disp
}

func checkRegOrMem(node RegOrMemNode, op Operand) (TypeCheckInfo, bool) {
	if node.HasReg {
		if classOf(op) == node.RegClass {
			return TypeCheckInfo{}, true
		}
	}
	if !node.HasMem {
		return TypeCheckInfo{}, false
	}
	switch m := op.(type) {
	case operand.Mem16:
		if !node.MemSize.Lenient() && m.Size != node.MemSize {
			return TypeCheckInfo{}, false
		}
		info := TypeCheckInfo{AddrOverride: boolPtr(true)}
		if m.Seg != m.DefaultSeg() {
			info.SegOverride = segPtr(m.Seg)
		}
		return info, true
	case operand.Mem32:
		if !node.MemSize.Lenient() && m.Size != node.MemSize {
			return TypeCheckInfo{}, false
		}
		info := TypeCheckInfo{AddrOverride: boolPtr(false)}
		if m.Seg != m.DefaultSeg() {
			info.SegOverride = segPtr(m.Seg)
		}
		return info, true
	default:
		return TypeCheckInfo{}, false
	}
}

func checkImmEnc(node ImmEncNode, op Operand) (TypeCheckInfo, bool) {
	switch node.Archetype {
	case ArchIb:
		_, ok := op.(operand.Imm8)
		return TypeCheckInfo{}, ok
	case ArchIw:
		_, ok := op.(operand.Imm16)
		return TypeCheckInfo{}, ok
	case ArchId:
		_, ok := op.(operand.Imm32)
		return TypeCheckInfo{}, ok
	case ArchMoffs16:
		m, ok := op.(operand.Mem16)
		return TypeCheckInfo{}, ok && !m.HasBase && !m.HasIndex
	case ArchMoffs32:
		m, ok := op.(operand.Mem32)
		return TypeCheckInfo{}, ok && !m.HasBase && !m.HasIndex
	case ArchFarPtr16:
		_, ok := op.(operand.FarPtr16)
		return TypeCheckInfo{}, ok
	case ArchFarPtr32:
		_, ok := op.(operand.FarPtr32)
		return TypeCheckInfo{}, ok
	case ArchJb, ArchJz32:
		_, ok := op.(operand.JccTarget)
		return TypeCheckInfo{}, ok
	default:
		return TypeCheckInfo{}, false
	}
}

func checkSignedImm(node SignedImmNode, op Operand) (TypeCheckInfo, bool) {
	switch node.Archetype {
	case ArchIw:
		v, ok := op.(operand.Imm16)
		if !ok {
			return TypeCheckInfo{}, false
		}
		return TypeCheckInfo{}, v.Value <= 0x7F || v.Value >= 0xFF80
	case ArchId:
		v, ok := op.(operand.Imm32)
		if !ok {
			return TypeCheckInfo{}, false
		}
		return TypeCheckInfo{}, v.Value <= 0x7F || v.Value >= 0xFFFFFF80
	default:
		return TypeCheckInfo{}, false
	}
}

// Reduce combines the per-operand infos of a whole candidate into one,
// failing (ok=false) if two operands report conflicting concrete values
// for the same field.
func Reduce(infos []TypeCheckInfo) (TypeCheckInfo, bool) {
	var out TypeCheckInfo
	for _, in := range infos {
		if in.SizeOverride != nil {
			if out.SizeOverride != nil && *out.SizeOverride != *in.SizeOverride {
				return TypeCheckInfo{}, false
			}
			out.SizeOverride = in.SizeOverride
		}
		if in.AddrOverride != nil {
			if out.AddrOverride != nil && *out.AddrOverride != *in.AddrOverride {
				return TypeCheckInfo{}, false
			}
			out.AddrOverride = in.AddrOverride
		}
		if in.SegOverride != nil {
			if out.SegOverride != nil && *out.SegOverride != *in.SegOverride {
				return TypeCheckInfo{}, false
			}
			out.SegOverride = in.SegOverride
		}
	}
	return out, true
}
