package decode

import (
	"github.com/gima/x86codec/pkg/aot"
	"github.com/gima/x86codec/pkg/operand"
	"github.com/gima/x86codec/pkg/regs"
)

// Small constructor helpers for the AOTDL shapes this table reuses across
// many opcodes, mirroring the spec's named AOTs (Eb, Gv, Iz, ...).

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

// ev32 is the 32-bit-only r/m form used by CALL/JMP indirect, where mixing in the 16-bit operand-size variant adds no
// value for this codec's scope.
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
func id() aot.Node { return aot.ImmEncNode{Archetype: aot.ArchId} }

func iz() aot.Node {
	return aot.SizePrefixNode{Yes: iw(), No: id()}
}

// ibSignToV is the imm8-sign-extended-to-operand-width node used by the
// `Ev, Ib` group-1 ALU forms and the 3-operand IMUL encoding.
func ibSignToV() aot.Node {
	return aot.SizePrefixNode{
		Yes: aot.SignedImmNode{Archetype: aot.ArchIw},
		No:  aot.SignedImmNode{Archetype: aot.ArchId},
	}
}

func jb() aot.Node  { return aot.ImmEncNode{Archetype: aot.ArchJb} }
func jz32() aot.Node { return aot.ImmEncNode{Archetype: aot.ArchJz32} }

func aotFarPtr32() aot.Node { return aot.ImmEncNode{Archetype: aot.ArchFarPtr32} }

func moffs(size regs.MemSize) aot.Node {
	return aot.AddrPrefixNode{
		Yes: aot.ImmEncNode{Archetype: aot.ArchMoffs16, MemSize: size},
		No:  aot.ImmEncNode{Archetype: aot.ArchMoffs32, MemSize: size},
	}
}

func exact(op operand.Operand) aot.Node { return aot.ExactNode{Value: op} }

func exactAL() aot.Node { return exact(operand.R8(regs.AL)) }
func exactCL() aot.Node { return exact(operand.R8(regs.CL)) }
func exactDX() aot.Node { return exact(operand.R16(regs.DX)) }
func exactOne() aot.Node { return exact(operand.One{}) }
func exactSreg(s regs.Seg) aot.Node { return exact(operand.Sreg(s)) }

// eAX switches between AX and EAX by the operand-size prefix.
func eAX() aot.Node {
	return aot.SizePrefixNode{
		Yes: exact(operand.R16(regs.AX)),
		No:  exact(operand.R32(regs.EAX)),
	}
}

// fixedGPR names the general-purpose register at hardware ordinal i,
// switching between the 16- and 32-bit class by the operand-size prefix
// — used for the register-in-opcode forms (PUSH/POP/INC/DEC/XCHG r32,
// MOV r32,imm32).
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

// st0 names the hard-coded ST(0) operand most x87 two-operand forms carry
// alongside an ST(i)/memory operand.
func st0() aot.Node { return exact(operand.St(regs.ST0)) }

// stN is x87's register-only r/m shape: the instruction identity already
// came from the enclosing Group's GGG field, so this reads only RM for the
// ST(i) ordinal, register form only.
func stN() aot.Node { return aot.RegOrMemNode{HasReg: true, RegClass: aot.ClassFPU, HasMem: false} }

// exactAX is the fixed 16-bit AX destination FSTSW's register-only encoding
// (0xDF/4, RM==0) stores to; unlike eAX, it never switches with the
// operand-size prefix, since the status word is always 16 bits wide.
func exactAX() aot.Node { return exact(operand.R16(regs.AX)) }
