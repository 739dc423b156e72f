// Package aot implements the closed vocabulary of Abstract Operand Types
// (AOT) and the small grammar (AOTDL) each one compiles to, plus the type
// checker the encoder consults. The decode table uses the same node
// vocabulary for operand materialization but does not call the checker.
//
// AOTDL nodes are a closed Go sum type: one interface implemented by a
// fixed set of concrete struct types, discriminated by a type switch in
// Check. There is no virtual dispatch — Check is the single place that
// interprets every node kind, and Check's inner switch on the operand's
// concrete type is the second level of the two-level match described by
// the design notes.
package aot

import (
	"github.com/gima/x86codec/pkg/operand"
	"github.com/gima/x86codec/pkg/regs"
)

// Operand is an alias so this package's doc comments and signatures read
// in terms of aot.Operand without a qualified import at every use site.
type Operand = operand.Operand

// RegClass identifies which eight-value register enumeration a GPart or
// RegOrMem node's register alternative draws from.
type RegClass uint8

const (
	ClassR8 RegClass = iota
	ClassR16
	ClassR32
	ClassSeg
	ClassCtrl
	ClassDbg
	ClassFPU
	ClassMMX
	ClassXMM
)

// ImmArch identifies the concrete shape an ImmEnc/SignedImm node produces:
// a fixed-width immediate, a moffs (memory expression with only a
// displacement), a far pointer, or a jump target.
type ImmArch uint8

const (
	ArchIb ImmArch = iota
	ArchIw
	ArchId
	ArchMoffs16 // moffs with a 16-bit encoded address
	ArchMoffs32 // moffs with a 32-bit encoded address
	ArchFarPtr16
	ArchFarPtr32
	ArchJb   // short jump target: 8-bit relative displacement
	ArchJz32 // near jump target: 32-bit relative displacement
)

// Node is implemented by every concrete AOTDL node type below.
type Node interface {
	node()
}

// ExactNode matches iff the operand equals Value exactly (no prefix
// effect). Used for operands hard-wired into the stem: AL/eAX in the
// short ALU forms, CL in shift-by-CL, the literal 1 in shift-by-1, DX as
// the IN/OUT port register.
type ExactNode struct{ Value Operand }

func (ExactNode) node() {}

// ExactSegNode is like ExactNode but when Value is a memory operand and
// the candidate differs only in segment, it still matches and reports a
// segment override — used by the segment-overridable half of string
// instructions (e.g. the source of MOVSB, conventionally DS:[ESI] but
// overridable; the destination ES:[EDI] is not and uses ExactNode).
type ExactSegNode struct{ Value Operand }

func (ExactSegNode) node() {}

// GPartNode matches any register of Archetype's class; it occupies the
// ModR/M reg field.
type GPartNode struct{ Archetype RegClass }

func (GPartNode) node() {}

// RegOrMemNode matches a register of RegArchetype's class (if HasReg) or a
// memory operand of MemSize (if HasMem); drives ModR/M mod/rm (+SIB) and
// contributes address-size / segment-override side effects. At least one
// of HasReg/HasMem must be true.
type RegOrMemNode struct {
	HasReg   bool
	RegClass RegClass
	HasMem   bool
	MemSize  regs.MemSize
}

func (RegOrMemNode) node() {}

// ImmEncNode consumes/produces an immediate, a moffs, a far pointer, or a
// jump target, per Archetype. MemSize is only meaningful for the moffs
// archetypes (it is the size tag attached to the produced Mem operand).
type ImmEncNode struct {
	Archetype ImmArch
	MemSize   regs.MemSize
}

func (ImmEncNode) node() {}

// SignedImmNode matches an immediate that fits in a signed 8-bit value but
// is widened to Archetype's width during encoding (the imm8→imm16/imm32
// sign-extension encodings, e.g. `ADD r/m32, imm8`).
type SignedImmNode struct{ Archetype ImmArch }

func (SignedImmNode) node() {}

// SizePrefixNode switches between two sub-nodes: Yes imposes the 0x66
// operand-size prefix, No forbids it.
type SizePrefixNode struct{ Yes, No Node }

func (SizePrefixNode) node() {}

// AddrPrefixNode switches between two sub-nodes: Yes imposes the 0x67
// address-size prefix, No forbids it.
type AddrPrefixNode struct{ Yes, No Node }

func (AddrPrefixNode) node() {}
