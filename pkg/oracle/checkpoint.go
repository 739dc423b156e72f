package oracle

import (
	"encoding/gob"
	"os"

	"github.com/gima/x86codec/pkg/operand"
)

// init registers every concrete operand.Operand implementation so gob can
// (de)serialize the interface-typed Operands slice inside Instruction —
// the same gob.Register(concreteType) requirement the result package's
// checkpoint format has for its own interface fields.
func init() {
	gob.Register(operand.Reg8{})
	gob.Register(operand.Reg16{})
	gob.Register(operand.Reg32{})
	gob.Register(operand.SegReg{})
	gob.Register(operand.CtrlReg{})
	gob.Register(operand.DbgReg{})
	gob.Register(operand.FPUReg{})
	gob.Register(operand.MMXReg{})
	gob.Register(operand.XMMReg{})
	gob.Register(operand.Imm8{})
	gob.Register(operand.Imm16{})
	gob.Register(operand.Imm32{})
	gob.Register(operand.One{})
	gob.Register(operand.FarPtr16{})
	gob.Register(operand.FarPtr32{})
	gob.Register(operand.JccTarget{})
	gob.Register(operand.Mem16{})
	gob.Register(operand.Mem32{})
}

// SaveCorpus persists a generated corpus to path so a later run can reuse
// the exact same instruction set instead of regenerating it, useful for
// comparing two builds of the codec against identical inputs.
func SaveCorpus(path string, corpus []Case) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gob.NewEncoder(f).Encode(corpus)
}

// LoadCorpus reads back a corpus written by SaveCorpus.
func LoadCorpus(path string) ([]Case, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var corpus []Case
	if err := gob.NewDecoder(f).Decode(&corpus); err != nil {
		return nil, err
	}
	return corpus, nil
}
