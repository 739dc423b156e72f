// Package instr defines the canonical Instruction value both the decoder
// produces and the encoder consumes: a mnemonic, an optional group-1
// prefix, and an ordered operand tuple, plus structural equality and the
// fixed canonical textual rendering.
package instr

import (
	"strings"

	"github.com/gima/x86codec/pkg/operand"
	"github.com/gima/x86codec/pkg/regs"
)

// Group1Prefix is the closed set of mutually exclusive group-1 legacy
// prefixes a decoded or hand-built instruction may carry.
type Group1Prefix uint8

const (
	NoGroup1Prefix Group1Prefix = iota
	Lock
	Rep
	Repne
)

func (p Group1Prefix) String() string {
	switch p {
	case Lock:
		return "LOCK "
	case Rep:
		return "REP "
	case Repne:
		return "REPNE "
	default:
		return ""
	}
}

// Instruction is a value object: built by the decoder or by a caller
// (standing in for the out-of-scope parser), consumed by the encoder,
// never mutated in place.
type Instruction struct {
	Group1Prefix Group1Prefix
	Mnemonic     regs.Mnemonic
	Operands     []operand.Operand
}

// Equal reports structural equality across every field, including operand
// order and the group-1 prefix — the property the encode∘decode fixpoint
// test relies on.
func Equal(a, b Instruction) bool {
	if a.Group1Prefix != b.Group1Prefix || a.Mnemonic != b.Mnemonic {
		return false
	}
	if len(a.Operands) != len(b.Operands) {
		return false
	}
	for i := range a.Operands {
		if !operand.Equal(a.Operands[i], b.Operands[i]) {
			return false
		}
	}
	return true
}

// String renders the fixed canonical textual form: destination-first
// Intel syntax, lower-case registers, 0x-prefixed hex immediates, and a
// PTR size tag on memory operands.
func (i Instruction) String() string {
	var b strings.Builder
	b.WriteString(i.Group1Prefix.String())
	b.WriteString(i.Mnemonic.String())
	for idx, op := range i.Operands {
		if idx == 0 {
			b.WriteByte(' ')
		} else {
			b.WriteString(", ")
		}
		b.WriteString(op.String())
	}
	return b.String()
}
