// Package decode implements the 1,024-entry decode table and the
// interpreter that walks it: the prefix loop, Group/RMGroup/SSE/Pred*
// reduction, and operand materialization that together turn a byte stream
// into an instr.Instruction.
package decode

import (
	"github.com/gima/x86codec/pkg/aot"
	"github.com/gima/x86codec/pkg/regs"
)

// Entry is implemented by every concrete decode-table entry kind. Like
// aot.Node, this is a closed Go sum type discriminated by a type switch
// (in reduce, see decoder.go) rather than by virtual dispatch.
type Entry interface {
	entry()
}

// FatalEntry marks a table position that should never be reached during
// decode (opcode positions consumed by the prefix loop itself). Reaching
// one is an InternalInvariantFailure.
type FatalEntry struct{}

func (FatalEntry) entry() {}

// InvalidEntry marks an undefined opcode; decode fails with
// InvalidInstruction.
type InvalidEntry struct{}

func (InvalidEntry) entry() {}

// DirectEntry is a terminal: a fixed mnemonic plus its operand-type list.
// ExtraStem holds literal bytes that must follow the opcode before operand
// materialization begins (AAM/AAD's fixed `0x0A` continuation byte); it is
// empty for every ordinary entry.
type DirectEntry struct {
	Mnemonic  regs.Mnemonic
	AOTs      []aot.Node
	ExtraStem []byte
}

func (DirectEntry) entry() {}

// GroupEntry dispatches on ModR/M GGG (the reg field), after reading
// ModR/M (without consuming any immediates that might follow).
type GroupEntry struct{ Entries [8]Entry }

func (GroupEntry) entry() {}

// RMGroupEntry dispatches on ModR/M R/M after confirming Mod==3 (register
// form); used when a single opcode's register-only forms name unrelated
// instructions (e.g. the Group 15 GGG 7 register form, where R/M 0 is SFENCE).
type RMGroupEntry struct{ Entries [8]Entry }

func (RMGroupEntry) entry() {}

// SSEEntry dispatches on the SSE prefix situation: the first applicable
// group-1 prefix (latest pushed first), falling back to the size-prefix
// branch, then the prefixless branch.
type SSEEntry struct {
	No, Rep, Size, RepNE Entry
}

func (SSEEntry) entry() {}

// PredOpSizeEntry dispatches on whether the operand-size (0x66) prefix is
// active.
type PredOpSizeEntry struct{ Yes, No Entry }

func (PredOpSizeEntry) entry() {}

// PredAddrSizeEntry dispatches on whether the address-size (0x67) prefix
// is active.
type PredAddrSizeEntry struct{ Yes, No Entry }

func (PredAddrSizeEntry) entry() {}

// PredMODEntry dispatches on whether ModR/M selects a register form
// (Mod==3, "Overridden") or a memory form ("Regular").
type PredMODEntry struct{ Overridden, Regular Entry }

func (PredMODEntry) entry() {}

// Table construction helpers, mirroring the small-constructor-per-entry-
// kind style used to populate a static ordinal-indexed table.

func direct(m regs.Mnemonic, aots ...aot.Node) Entry {
	return DirectEntry{Mnemonic: m, AOTs: aots}
}

// directStem builds a Direct entry whose opcode is immediately followed by
// one or more fixed continuation bytes (AAM/AAD's `0x0A`).
func directStem(m regs.Mnemonic, stem []byte, aots ...aot.Node) Entry {
	return DirectEntry{Mnemonic: m, AOTs: aots, ExtraStem: stem}
}

func group(e ...Entry) Entry {
	var g GroupEntry
	copy(g.Entries[:], e)
	for i := len(e); i < 8; i++ {
		g.Entries[i] = InvalidEntry{}
	}
	return g
}

func rmgroup(e ...Entry) Entry {
	var g RMGroupEntry
	copy(g.Entries[:], e)
	for i := len(e); i < 8; i++ {
		g.Entries[i] = InvalidEntry{}
	}
	return g
}

func sse(no, rep, size, repne Entry) Entry {
	return SSEEntry{No: no, Rep: rep, Size: size, RepNE: repne}
}

func predMOD(overridden, regular Entry) Entry {
	return PredMODEntry{Overridden: overridden, Regular: regular}
}

func predOpSize(yes, no Entry) Entry {
	return PredOpSizeEntry{Yes: yes, No: no}
}

func predAddrSize(yes, no Entry) Entry {
	return PredAddrSizeEntry{Yes: yes, No: no}
}

// Table is the 1,024-entry decode table: 0x000-0x0FF one-byte opcodes,
// 0x100-0x1FF after 0F, 0x200-0x2FF after 0F 38, 0x300-0x3FF after 0F 3A.
var Table [1024]Entry

func init() {
	for i := range Table {
		Table[i] = InvalidEntry{}
	}
	// Opcode positions consumed by the prefix loop itself are Fatal: the
	// interpreter should never reach the table for these bytes.
	for _, b := range []int{0xF0, 0xF2, 0xF3, 0x2E, 0x36, 0x3E, 0x26, 0x64, 0x65, 0x66, 0x67, 0x0F} {
		Table[b] = FatalEntry{}
	}
	populateOneByteTable()
	populateSecondaryTable()
}
