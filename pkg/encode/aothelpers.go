package encode

import (
	"github.com/gima/x86codec/pkg/aot"
	"github.com/gima/x86codec/pkg/operand"
	"github.com/gima/x86codec/pkg/regs"
)

// Small AOTDL-node constructors, one per shape this package's candidate
// table reuses across mnemonics. Mirrors pkg/decode's own helpers of the
// same name — each package builds its own over the shared aot.Node
// vocabulary rather than exporting opcode-shape constructors out of
// pkg/aot, which stays scoped to the grammar and the type checker.

func eb() aot.Node { return aot.RegOrMemNode{HasReg: true, RegClass: aot.ClassR8, HasMem: true, MemSize: regs.Mb} }
func gb() aot.Node { return aot.GPartNode{Archetype: aot.ClassR8} }

func ev() aot.Node {
	return aot.SizePrefixNode{
		Yes: aot.RegOrMemNode{HasReg: true, RegClass: aot.ClassR16, HasMem: true, MemSize: regs.Mw},
		No:  aot.RegOrMemNode{HasReg: true, RegClass: aot.ClassR32, HasMem: true, MemSize: regs.Md},
	}
}

func gv() aot.Node {
	return aot.SizePrefixNode{
		Yes: aot.GPartNode{Archetype: aot.ClassR16},
		No:  aot.GPartNode{Archetype: aot.ClassR32},
	}
}

// ev32 is the 32-bit-only r/m form used by CALL/JMP indirect.
func ev32() aot.Node {
	return aot.RegOrMemNode{HasReg: true, RegClass: aot.ClassR32, HasMem: true, MemSize: regs.Md}
}

func ew() aot.Node {
	return aot.RegOrMemNode{HasReg: true, RegClass: aot.ClassR16, HasMem: true, MemSize: regs.Mw}
}
func gw() aot.Node { return aot.GPartNode{Archetype: aot.ClassR16} }

func memOnly(size regs.MemSize) aot.Node { return aot.RegOrMemNode{HasMem: true, MemSize: size} }

func ib() aot.Node { return aot.ImmEncNode{Archetype: aot.ArchIb} }
func iw() aot.Node { return aot.ImmEncNode{Archetype: aot.ArchIw} }
func iz() aot.Node {
	return aot.SizePrefixNode{Yes: aot.ImmEncNode{Archetype: aot.ArchIw}, No: aot.ImmEncNode{Archetype: aot.ArchId}}
}

// ibSignToV is the imm8-sign-extended-to-operand-width node.
func ibSignToV() aot.Node {
	return aot.SizePrefixNode{
		Yes: aot.SignedImmNode{Archetype: aot.ArchIw},
		No:  aot.SignedImmNode{Archetype: aot.ArchId},
	}
}

func jb() aot.Node   { return aot.ImmEncNode{Archetype: aot.ArchJb} }
func jz32() aot.Node { return aot.ImmEncNode{Archetype: aot.ArchJz32} }

func aotFarPtr32() aot.Node { return aot.ImmEncNode{Archetype: aot.ArchFarPtr32} }

func moffs(size regs.MemSize) aot.Node {
	return aot.AddrPrefixNode{
		Yes: aot.ImmEncNode{Archetype: aot.ArchMoffs16, MemSize: size},
		No:  aot.ImmEncNode{Archetype: aot.ArchMoffs32, MemSize: size},
	}
}

func exact(op operand.Operand) aot.Node { return aot.ExactNode{Value: op} }

// aotExactSeg is exact's segment-overridable counterpart: the base/index/
// disp shape must match exactly, but the segment may be overridden by a
// prefix (ES:[EDI] form in MOVSB's operand-bearing candidate wants the
// opposite — a hardware-fixed segment — which is why that one still uses
// exact instead of this).
func aotExactSeg(op operand.Operand) aot.Node { return aot.ExactSegNode{Value: op} }

func exactAL() aot.Node             { return exact(operand.R8(regs.AL)) }
func exactCL() aot.Node             { return exact(operand.R8(regs.CL)) }
func exactDX() aot.Node             { return exact(operand.R16(regs.DX)) }
func exactOne() aot.Node            { return exact(operand.One{}) }
func exactSreg(s regs.Seg) aot.Node { return exact(operand.Sreg(s)) }

func eAX() aot.Node {
	return aot.SizePrefixNode{
		Yes: exact(operand.R16(regs.AX)),
		No:  exact(operand.R32(regs.EAX)),
	}
}

func fixedGPR(i uint8) aot.Node {
	return aot.SizePrefixNode{
		Yes: exact(operand.R16(regs.Reg16(i))),
		No:  exact(operand.R32(regs.Reg32(i))),
	}
}

func fixedReg8(i uint8) aot.Node { return exact(operand.R8(regs.Reg8(i))) }

func xmmGPart() aot.Node { return aot.GPartNode{Archetype: aot.ClassXMM} }
func xmmRegOrMem() aot.Node {
	return aot.RegOrMemNode{HasReg: true, RegClass: aot.ClassXMM, HasMem: true, MemSize: regs.Mdq}
}

func st0() aot.Node { return exact(operand.St(regs.ST0)) }
func stN() aot.Node { return aot.RegOrMemNode{HasReg: true, RegClass: aot.ClassFPU, HasMem: false} }
func exactAX() aot.Node { return exact(operand.R16(regs.AX)) }
