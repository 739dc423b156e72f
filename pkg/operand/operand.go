// Package operand defines the typed operand values the codec decodes into
// and encodes from: registers of each class, immediates, far pointers,
// jump targets, and 16-/32-bit memory expressions.
//
// Operand is a closed sum type, exactly as spec'd: a small interface
// implemented by a fixed set of concrete, comparable value structs. Callers
// (the type checker, the instruction renderer) discriminate with a type
// switch rather than virtual methods — there is no behavior on Operand
// itself beyond identity and textual rendering.
package operand

import (
	"fmt"

	"github.com/gima/x86codec/pkg/regs"
)

// Operand is implemented by every concrete operand value type below.
// The interface exists purely to let Instruction carry a mixed-type tuple;
// all real dispatch is a type switch on the concrete type.
type Operand interface {
	operand()
	String() string
}

// Reg8 names an 8-bit general-purpose register operand.
type Reg8 struct{ Reg regs.Reg8 }

func (Reg8) operand()          {}
func (o Reg8) String() string  { return o.Reg.String() }

// Reg16 names a 16-bit general-purpose register operand.
type Reg16 struct{ Reg regs.Reg16 }

func (Reg16) operand()         {}
func (o Reg16) String() string { return o.Reg.String() }

// Reg32 names a 32-bit general-purpose register operand.
type Reg32 struct{ Reg regs.Reg32 }

func (Reg32) operand()         {}
func (o Reg32) String() string { return o.Reg.String() }

// SegReg names a segment register operand.
type SegReg struct{ Seg regs.Seg }

func (SegReg) operand()         {}
func (o SegReg) String() string { return o.Seg.String() }

// CtrlReg names a control register operand.
type CtrlReg struct{ Reg regs.Ctrl }

func (CtrlReg) operand()         {}
func (o CtrlReg) String() string { return o.Reg.String() }

// DbgReg names a debug register operand.
type DbgReg struct{ Reg regs.Dbg }

func (DbgReg) operand()         {}
func (o DbgReg) String() string { return o.Reg.String() }

// FPUReg names an x87 stack register operand.
type FPUReg struct{ Reg regs.FPU }

func (FPUReg) operand()         {}
func (o FPUReg) String() string { return o.Reg.String() }

// MMXReg names an MMX register operand.
type MMXReg struct{ Reg regs.MMX }

func (MMXReg) operand()         {}
func (o MMXReg) String() string { return o.Reg.String() }

// XMMReg names an XMM register operand.
type XMMReg struct{ Reg regs.XMM }

func (XMMReg) operand()         {}
func (o XMMReg) String() string { return o.Reg.String() }

// Imm8 is an 8-bit immediate, equal by value.
type Imm8 struct{ Value uint8 }

func (Imm8) operand()         {}
func (o Imm8) String() string { return fmt.Sprintf("0x%02X", o.Value) }

// Imm16 is a 16-bit immediate, equal by value.
type Imm16 struct{ Value uint16 }

func (Imm16) operand()         {}
func (o Imm16) String() string { return fmt.Sprintf("0x%04X", o.Value) }

// Imm32 is a 32-bit immediate, equal by value.
type Imm32 struct{ Value uint32 }

func (Imm32) operand()         {}
func (o Imm32) String() string { return fmt.Sprintf("0x%08X", o.Value) }

// One is the literal constant 1 used by shift-by-1 encodings.
type One struct{}

func (One) operand()         {}
func (One) String() string   { return "1" }

// FarPtr16 is a 16:16 far pointer, seg:off16.
type FarPtr16 struct {
	Seg uint16
	Off uint16
}

func (FarPtr16) operand()         {}
func (o FarPtr16) String() string { return fmt.Sprintf("0x%04X:0x%04X", o.Seg, o.Off) }

// FarPtr32 is a 16:32 far pointer, seg:off32.
type FarPtr32 struct {
	Seg uint16
	Off uint32
}

func (FarPtr32) operand()         {}
func (o FarPtr32) String() string { return fmt.Sprintf("0x%04X:0x%08X", o.Seg, o.Off) }

// JccTarget is a resolved branch target: an absolute address computed from
// a PC-relative displacement during decode, or supplied directly for
// encode.
type JccTarget struct {
	Taken    uint32
	NotTaken uint32
}

func (JccTarget) operand()         {}
func (o JccTarget) String() string { return fmt.Sprintf("0x%08X", o.Taken) }

// Mem16 is a 16-bit-addressed memory expression. Base/Index name one of
// the eight classical 16-bit address forms; HasBase/HasIndex/HasDisp make
// the struct a plain comparable value (no pointers) while still modeling
// "absent".
type Mem16 struct {
	Seg      regs.Seg
	Size     regs.MemSize
	HasBase  bool
	Base     regs.Reg16
	HasIndex bool
	Index    regs.Reg16
	HasDisp  bool
	Disp     uint16
}

func (Mem16) operand() {}

func (o Mem16) String() string {
	return fmt.Sprintf("%s PTR %s:[%s]", o.Size, o.Seg, mem16Inner(o))
}

func mem16Inner(o Mem16) string {
	s := ""
	if o.HasBase {
		s += o.Base.String()
	}
	if o.HasIndex {
		if s != "" {
			s += "+"
		}
		s += o.Index.String()
	}
	if o.HasDisp || s == "" {
		if s != "" {
			s += "+"
		}
		s += fmt.Sprintf("0x%04X", o.Disp)
	}
	return s
}

// DefaultSeg returns the implicit segment for this memory expression:
// SS when the base is SP or BP, DS otherwise.
func (o Mem16) DefaultSeg() regs.Seg {
	if o.HasBase && regs.DefaultSegStack(uint8(o.Base)) {
		return regs.SS
	}
	return regs.DS
}

// Mem32 is a 32-bit-addressed memory expression with an optional scaled
// index (ESP may never be an index register).
type Mem32 struct {
	Seg      regs.Seg
	Size     regs.MemSize
	HasBase  bool
	Base     regs.Reg32
	HasIndex bool
	Index    regs.Reg32
	Scale    uint8 // 0..3, meaning 1/2/4/8; ignored when !HasIndex
	HasDisp  bool
	Disp     uint32
}

func (Mem32) operand() {}

func (o Mem32) String() string {
	return fmt.Sprintf("%s PTR %s:[%s]", o.Size, o.Seg, mem32Inner(o))
}

func mem32Inner(o Mem32) string {
	s := ""
	if o.HasBase {
		s += o.Base.String()
	}
	if o.HasIndex {
		if s != "" {
			s += "+"
		}
		s += fmt.Sprintf("%s*%d", o.Index, 1<<o.Scale)
	}
	if o.HasDisp || s == "" {
		if s != "" {
			s += "+"
		}
		s += fmt.Sprintf("0x%08X", o.Disp)
	}
	return s
}

// DefaultSeg returns the implicit segment for this memory expression:
// SS when the base is ESP or EBP, DS otherwise.
func (o Mem32) DefaultSeg() regs.Seg {
	if o.HasBase && regs.DefaultSegStack(uint8(o.Base)) {
		return regs.SS
	}
	return regs.DS
}

// Equal reports structural equality between two operands, comparing
// concrete type and value. All concrete operand types here are plain
// comparable structs, so this is a type-switched ==.
func Equal(a, b Operand) bool {
	switch av := a.(type) {
	case Reg8:
		bv, ok := b.(Reg8)
		return ok && av == bv
	case Reg16:
		bv, ok := b.(Reg16)
		return ok && av == bv
	case Reg32:
		bv, ok := b.(Reg32)
		return ok && av == bv
	case SegReg:
		bv, ok := b.(SegReg)
		return ok && av == bv
	case CtrlReg:
		bv, ok := b.(CtrlReg)
		return ok && av == bv
	case DbgReg:
		bv, ok := b.(DbgReg)
		return ok && av == bv
	case FPUReg:
		bv, ok := b.(FPUReg)
		return ok && av == bv
	case MMXReg:
		bv, ok := b.(MMXReg)
		return ok && av == bv
	case XMMReg:
		bv, ok := b.(XMMReg)
		return ok && av == bv
	case Imm8:
		bv, ok := b.(Imm8)
		return ok && av == bv
	case Imm16:
		bv, ok := b.(Imm16)
		return ok && av == bv
	case Imm32:
		bv, ok := b.(Imm32)
		return ok && av == bv
	case One:
		_, ok := b.(One)
		return ok
	case FarPtr16:
		bv, ok := b.(FarPtr16)
		return ok && av == bv
	case FarPtr32:
		bv, ok := b.(FarPtr32)
		return ok && av == bv
	case JccTarget:
		bv, ok := b.(JccTarget)
		return ok && av == bv
	case Mem16:
		bv, ok := b.(Mem16)
		return ok && av == bv
	case Mem32:
		bv, ok := b.(Mem32)
		return ok && av == bv
	default:
		return false
	}
}
