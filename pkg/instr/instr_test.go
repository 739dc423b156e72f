package instr

import (
	"testing"

	"github.com/gima/x86codec/pkg/operand"
	"github.com/gima/x86codec/pkg/regs"
)

func TestStringNoOperands(t *testing.T) {
	i := Instruction{Mnemonic: regs.NOP}
	if got, want := i.String(), "NOP"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestStringWithPrefixAndOperands(t *testing.T) {
	i := Instruction{
		Group1Prefix: Lock,
		Mnemonic:     regs.ADD,
		Operands:     []operand.Operand{operand.R32(regs.EAX), operand.R32(regs.ECX)},
	}
	if got, want := i.String(), "LOCK ADD eax, ecx"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestGroup1PrefixString(t *testing.T) {
	cases := map[Group1Prefix]string{
		NoGroup1Prefix: "",
		Lock:           "LOCK ",
		Rep:            "REP ",
		Repne:          "REPNE ",
	}
	for p, want := range cases {
		if got := p.String(); got != want {
			t.Errorf("Group1Prefix(%d).String() = %q, want %q", p, got, want)
		}
	}
}

func TestEqualSameValue(t *testing.T) {
	a := Instruction{Mnemonic: regs.MOV, Operands: []operand.Operand{operand.R32(regs.EAX), operand.I32(1)}}
	b := Instruction{Mnemonic: regs.MOV, Operands: []operand.Operand{operand.R32(regs.EAX), operand.I32(1)}}
	if !Equal(a, b) {
		t.Errorf("Equal(%v, %v) = false, want true", a, b)
	}
}

func TestEqualDifferentPrefix(t *testing.T) {
	a := Instruction{Group1Prefix: Lock, Mnemonic: regs.ADD}
	b := Instruction{Group1Prefix: NoGroup1Prefix, Mnemonic: regs.ADD}
	if Equal(a, b) {
		t.Errorf("Equal(%v, %v) = true, want false", a, b)
	}
}

func TestEqualDifferentOperandCount(t *testing.T) {
	a := Instruction{Mnemonic: regs.PUSH, Operands: []operand.Operand{operand.R32(regs.EAX)}}
	b := Instruction{Mnemonic: regs.PUSH}
	if Equal(a, b) {
		t.Errorf("Equal(%v, %v) = true, want false", a, b)
	}
}

func TestEqualDifferentOperandValue(t *testing.T) {
	a := Instruction{Mnemonic: regs.PUSH, Operands: []operand.Operand{operand.R32(regs.EAX)}}
	b := Instruction{Mnemonic: regs.PUSH, Operands: []operand.Operand{operand.R32(regs.ECX)}}
	if Equal(a, b) {
		t.Errorf("Equal(%v, %v) = true, want false", a, b)
	}
}
