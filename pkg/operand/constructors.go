package operand

import "github.com/gima/x86codec/pkg/regs"

// These constructors stand in for the out-of-scope text parser: callers
// (tests, the CLI's "encode" command, pkg/oracle's corpus generator) build
// Instruction operand tuples directly from Go values instead of from
// assembly text.

func R8(r regs.Reg8) Operand   { return Reg8{Reg: r} }
func R16(r regs.Reg16) Operand { return Reg16{Reg: r} }
func R32(r regs.Reg32) Operand { return Reg32{Reg: r} }
func Sreg(s regs.Seg) Operand  { return SegReg{Seg: s} }
func Creg(c regs.Ctrl) Operand { return CtrlReg{Reg: c} }
func Dreg(d regs.Dbg) Operand  { return DbgReg{Reg: d} }
func St(f regs.FPU) Operand    { return FPUReg{Reg: f} }
func Mm(m regs.MMX) Operand    { return MMXReg{Reg: m} }
func Xmm(x regs.XMM) Operand   { return XMMReg{Reg: x} }

func I8(v uint8) Operand   { return Imm8{Value: v} }
func I16(v uint16) Operand { return Imm16{Value: v} }
func I32(v uint32) Operand { return Imm32{Value: v} }

// Mem16Simple builds a 16-bit memory expression with the default segment
// for the given base (SS for BP/SP, DS otherwise).
func Mem16Simple(size regs.MemSize, hasBase bool, base regs.Reg16, hasIndex bool, index regs.Reg16, hasDisp bool, disp uint16) Mem16 {
	m := Mem16{Size: size, HasBase: hasBase, Base: base, HasIndex: hasIndex, Index: index, HasDisp: hasDisp, Disp: disp}
	m.Seg = m.DefaultSeg()
	return m
}

// Mem32Simple builds a 32-bit memory expression with the default segment
// for the given base (SS for EBP/ESP, DS otherwise).
func Mem32Simple(size regs.MemSize, hasBase bool, base regs.Reg32, hasIndex bool, index regs.Reg32, scale uint8, hasDisp bool, disp uint32) Mem32 {
	m := Mem32{Size: size, HasBase: hasBase, Base: base, HasIndex: hasIndex, Index: index, Scale: scale, HasDisp: hasDisp, Disp: disp}
	m.Seg = m.DefaultSeg()
	return m
}
