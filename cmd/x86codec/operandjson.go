package main

import (
	"fmt"
	"strings"

	"github.com/gima/x86codec/pkg/instr"
	"github.com/gima/x86codec/pkg/operand"
	"github.com/gima/x86codec/pkg/regs"
)

// mnemonicByName is built once at startup by asking every mnemonic
// ordinal for its canonical String() form — the same direction
// pkg/regs.Mnemonic.String() already goes, just inverted.
var mnemonicByName = func() map[string]regs.Mnemonic {
	out := make(map[string]regs.Mnemonic, regs.Count())
	for i := 0; i < regs.Count(); i++ {
		m := regs.Mnemonic(i)
		out[m.String()] = m
	}
	return out
}()

func parseGroup1Prefix(s string) (instr.Group1Prefix, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "":
		return instr.NoGroup1Prefix, nil
	case "LOCK":
		return instr.Lock, nil
	case "REP":
		return instr.Rep, nil
	case "REPNE", "REPNZ":
		return instr.Repne, nil
	default:
		return 0, fmt.Errorf("unknown group-1 prefix %q", s)
	}
}

// operandJSON is the wire shape of one Instruction operand: kind selects
// which fields are meaningful, mirroring the constructor a caller would
// otherwise reach for in pkg/operand directly.
type operandJSON struct {
	Kind string `json:"kind"`

	Reg string `json:"reg,omitempty"` // reg8/reg16/reg32/sreg; other register classes have no JSON kind

	Value uint32 `json:"value,omitempty"` // imm8/imm16/imm32

	Seg     uint16 `json:"seg,omitempty"` // farptr16/farptr32
	Off     uint32 `json:"off,omitempty"` // farptr16/farptr32

	Taken uint32 `json:"taken,omitempty"` // jcctarget

	// mem16/mem32
	Size     string `json:"size,omitempty"`
	MemSeg   string `json:"mem_seg,omitempty"`
	HasBase  bool   `json:"has_base,omitempty"`
	Base     string `json:"base,omitempty"`
	HasIndex bool   `json:"has_index,omitempty"`
	Index    string `json:"index,omitempty"`
	Scale    uint8  `json:"scale,omitempty"`
	HasDisp  bool   `json:"has_disp,omitempty"`
	Disp     uint32 `json:"disp,omitempty"`
}

func (o operandJSON) toOperand() (operand.Operand, error) {
	switch strings.ToLower(o.Kind) {
	case "reg8":
		r, err := reg8ByName(o.Reg)
		if err != nil {
			return nil, err
		}
		return operand.R8(r), nil
	case "reg16":
		r, err := reg16ByName(o.Reg)
		if err != nil {
			return nil, err
		}
		return operand.R16(r), nil
	case "reg32":
		r, err := reg32ByName(o.Reg)
		if err != nil {
			return nil, err
		}
		return operand.R32(r), nil
	case "sreg":
		s, err := segByName(o.Reg)
		if err != nil {
			return nil, err
		}
		return operand.Sreg(s), nil
	case "imm8":
		return operand.I8(uint8(o.Value)), nil
	case "imm16":
		return operand.I16(uint16(o.Value)), nil
	case "imm32":
		return operand.I32(o.Value), nil
	case "one":
		return operand.One{}, nil
	case "farptr16":
		return operand.FarPtr16{Seg: o.Seg, Off: uint16(o.Off)}, nil
	case "farptr32":
		return operand.FarPtr32{Seg: o.Seg, Off: o.Off}, nil
	case "jcctarget":
		return operand.JccTarget{Taken: o.Taken}, nil
	case "mem16":
		return o.toMem16()
	case "mem32":
		return o.toMem32()
	default:
		return nil, fmt.Errorf("unknown operand kind %q", o.Kind)
	}
}

func (o operandJSON) toMem16() (operand.Operand, error) {
	size, err := memSizeByName(o.Size)
	if err != nil {
		return nil, err
	}
	m := operand.Mem16{Size: size, HasDisp: o.HasDisp, Disp: uint16(o.Disp)}
	if o.HasBase {
		base, err := reg16ByName(o.Base)
		if err != nil {
			return nil, err
		}
		m.HasBase, m.Base = true, base
	}
	if o.HasIndex {
		idx, err := reg16ByName(o.Index)
		if err != nil {
			return nil, err
		}
		m.HasIndex, m.Index = true, idx
	}
	m.Seg = m.DefaultSeg()
	if o.MemSeg != "" {
		s, err := segByName(o.MemSeg)
		if err != nil {
			return nil, err
		}
		m.Seg = s
	}
	return m, nil
}

func (o operandJSON) toMem32() (operand.Operand, error) {
	size, err := memSizeByName(o.Size)
	if err != nil {
		return nil, err
	}
	m := operand.Mem32{Size: size, HasDisp: o.HasDisp, Disp: o.Disp}
	if o.HasBase {
		base, err := reg32ByName(o.Base)
		if err != nil {
			return nil, err
		}
		m.HasBase, m.Base = true, base
	}
	if o.HasIndex {
		idx, err := reg32ByName(o.Index)
		if err != nil {
			return nil, err
		}
		m.HasIndex, m.Index, m.Scale = true, idx, o.Scale
	}
	m.Seg = m.DefaultSeg()
	if o.MemSeg != "" {
		s, err := segByName(o.MemSeg)
		if err != nil {
			return nil, err
		}
		m.Seg = s
	}
	return m, nil
}

func reg8ByName(name string) (regs.Reg8, error) {
	for i := 0; i < 8; i++ {
		r := regs.Reg8(i)
		if strings.EqualFold(r.String(), name) {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown 8-bit register %q", name)
}

func reg16ByName(name string) (regs.Reg16, error) {
	for i := 0; i < 8; i++ {
		r := regs.Reg16(i)
		if strings.EqualFold(r.String(), name) {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown 16-bit register %q", name)
}

func reg32ByName(name string) (regs.Reg32, error) {
	for i := 0; i < 8; i++ {
		r := regs.Reg32(i)
		if strings.EqualFold(r.String(), name) {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown 32-bit register %q", name)
}

func segByName(name string) (regs.Seg, error) {
	for i := 0; i < 6; i++ {
		s := regs.Seg(i)
		if strings.EqualFold(s.String(), name) {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown segment register %q", name)
}

func memSizeByName(name string) (regs.MemSize, error) {
	switch strings.ToUpper(name) {
	case "MB", "BYTE":
		return regs.Mb, nil
	case "MW", "WORD":
		return regs.Mw, nil
	case "MD", "DWORD":
		return regs.Md, nil
	case "MF", "FWORD":
		return regs.Mf, nil
	case "MQ", "QWORD":
		return regs.Mq, nil
	case "MT", "TBYTE":
		return regs.Mt, nil
	case "MDQ", "XMMWORD":
		return regs.Mdq, nil
	default:
		return 0, fmt.Errorf("unknown memory operand size %q", name)
	}
}
