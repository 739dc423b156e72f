// Package encode implements the per-mnemonic encode table and the
// encoder that walks it: for a given Instruction, try each registered
// candidate in declared order, first whole-candidate type-check match
// wins (see Encode in encoder.go). The candidate table is the encode-side
// mirror of pkg/decode's opcode table, built from the same AOTDL node
// vocabulary and consulting the same pkg/aot type checker.
package encode

import (
	"github.com/gima/x86codec/pkg/aot"
	"github.com/gima/x86codec/pkg/regs"
)

// Candidate is one way to encode a mnemonic: the literal bytes after any
// prefixes (opcode, any escape bytes, and any baked-in mandatory legacy
// prefix such as the SSE 0x66/0xF3 dispatch bytes), an optional fixed
// ModR/M reg-field digit for opcode-extension groups, and the AOTDL
// shapes each instruction operand must type-check against, in order.
//
// Force66/Force67 exist for the handful of mnemonic pairs
// whose size/address distinction isn't carried by any operand at all
// (PUSHA vs PUSHAD, JCXZ vs JECXZ): when set, they override whatever the
// type checker derived for that prefix instead of supplementing it.
type Candidate struct {
	Stem       []byte
	GroupDigit *uint8
	AOTs       []aot.Node
	Force66    *bool
	Force67    *bool
}

// Table is indexed by mnemonic ordinal; Table[m] lists m's candidates in
// the order Encode tries them.
var Table [][]Candidate

func add(m regs.Mnemonic, c Candidate) {
	Table[m] = append(Table[m], c)
}

func cand(stem []byte, aots ...aot.Node) Candidate {
	return Candidate{Stem: stem, AOTs: aots}
}

func candG(stem []byte, digit uint8, aots ...aot.Node) Candidate {
	d := digit
	return Candidate{Stem: stem, GroupDigit: &d, AOTs: aots}
}

func candForce66(stem []byte, force bool) Candidate {
	f := force
	return Candidate{Stem: stem, Force66: &f}
}

func candForce67(stem []byte, force bool, aots ...aot.Node) Candidate {
	f := force
	return Candidate{Stem: stem, Force67: &f, AOTs: aots}
}

// aluGroup mirrors pkg/decode's table: the eight arithmetic/logic
// mnemonics in GGG-field order, shared by the 0x80/0x81/0x83 groups and
// the eight 8-byte ALU opcode blocks.
var aluGroup = [8]regs.Mnemonic{regs.ADD, regs.OR, regs.ADC, regs.SBB, regs.AND, regs.SUB, regs.XOR, regs.CMP}

func init() {
	Table = make([][]Candidate, regs.Count())
	populateAluBlocks()
	populateMov()
	populateTestXchgLea()
	populateStackOps()
	populateIncDec()
	populateShiftGroup2()
	populateGroup3()
	populateImulForms()
	populateJumpsAndCalls()
	populateLoopsAndFlags()
	populateStringOps()
	populateLegacyEdgeCases()
	populateSecondaryGroup()
	populateSSEAndGroup15()
	populateX87()
}
