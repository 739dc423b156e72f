// Package modrm implements the ModR/M+SIB codec: encoding and decoding of
// the bit-packed addressing byte(s) shared by nearly every multi-operand
// x86 instruction, for both the 16-bit and 32-bit addressing-mode
// variants.
package modrm

import (
	"encoding/binary"
	"fmt"

	"github.com/gima/x86codec/pkg/regs"
	"github.com/gima/x86codec/pkg/stream"
)

// ModRM is the raw (mod,reg,rm) triple decoded from the ModR/M byte. reg
// (GGG) is orthogonal to the address: it carries either an instruction
// sub-opcode or a second register operand, never interpreted by this
// package.
type ModRM struct {
	Mod uint8 // 0..3
	Reg uint8 // 0..7, the GGG field
	RM  uint8 // 0..7
}

// GGG returns the reg/opcode-extension field.
func (m ModRM) GGG() uint8 { return m.Reg }

// IsRegisterForm reports whether Mod selects a register operand (11)
// rather than a memory operand.
func (m ModRM) IsRegisterForm() bool { return m.Mod == 3 }

// Byte packs (mod,reg,rm) into the wire ModR/M byte.
func (m ModRM) Byte() uint8 { return m.Mod<<6 | (m.Reg&7)<<3 | (m.RM & 7) }

// DecodeByte reads and splits the next ModR/M byte from r.
func DecodeByte(r *stream.Reader) (ModRM, error) {
	b, err := r.Byte()
	if err != nil {
		return ModRM{}, err
	}
	return ModRM{Mod: b >> 6, Reg: (b >> 3) & 7, RM: b & 7}, nil
}

// Mem16 is the interpreted address for a 16-bit-addressed memory operand.
type Mem16 struct {
	HasBase  bool
	Base     regs.Reg16
	HasIndex bool
	Index    regs.Reg16
	HasDisp  bool
	Disp     uint16
}

// the 8 classical (base,index) forms selected by R/M when Mod != 3.
var mem16Forms = [8]struct {
	hasBase  bool
	base     regs.Reg16
	hasIndex bool
	index    regs.Reg16
}{
	0: {true, regs.BX, true, regs.SI},
	1: {true, regs.BX, true, regs.DI},
	2: {true, regs.BP, true, regs.SI},
	3: {true, regs.BP, true, regs.DI},
	4: {false, 0, true, regs.SI},
	5: {false, 0, true, regs.DI},
	6: {true, regs.BP, false, 0},
	7: {true, regs.BX, false, 0},
}

// DecodeMem16 interprets the memory operand implied by an already-read
// ModR/M (Mod != 3), reading any displacement bytes it requires from r.
func DecodeMem16(m ModRM, r *stream.Reader) (Mem16, error) {
	if m.Mod == 0 && m.RM == 6 {
		disp, err := r.Word()
		if err != nil {
			return Mem16{}, err
		}
		return Mem16{HasDisp: true, Disp: disp}, nil
	}
	f := mem16Forms[m.RM]
	out := Mem16{HasBase: f.hasBase, Base: f.base, HasIndex: f.hasIndex, Index: f.index}
	switch m.Mod {
	case 0:
		// no displacement
	case 1:
		b, err := r.Byte()
		if err != nil {
			return Mem16{}, err
		}
		out.HasDisp = true
		out.Disp = uint16(int16(int8(b)))
	case 2:
		d, err := r.Word()
		if err != nil {
			return Mem16{}, err
		}
		out.HasDisp = true
		out.Disp = d
	default:
		return Mem16{}, fmt.Errorf("modrm: Mod=3 is a register form, not memory")
	}
	return out, nil
}

// form16For finds the R/M value matching a (base,index) combination,
// excluding the all-absent case (which always routes through the disp16
// escape at R/M=6,Mod=0).
func form16For(hasBase bool, base regs.Reg16, hasIndex bool, index regs.Reg16) (rm uint8, ok bool) {
	for i, f := range mem16Forms {
		if f.hasBase == hasBase && f.hasIndex == hasIndex &&
			(!hasBase || f.base == base) && (!hasIndex || f.index == index) {
			return uint8(i), true
		}
	}
	return 0, false
}

// EncodeMem16 computes the ModR/M byte plus any displacement bytes for a
// 16-bit memory operand with the given reg (GGG) field.
func EncodeMem16(reg uint8, m Mem16) ([]byte, error) {
	if !m.HasBase && !m.HasIndex {
		// Pure displacement: the only representation is the disp16 escape.
		out := make([]byte, 3)
		out[0] = ModRM{Mod: 0, Reg: reg, RM: 6}.Byte()
		binary.LittleEndian.PutUint16(out[1:], m.Disp)
		return out, nil
	}
	rm, ok := form16For(m.HasBase, m.Base, m.HasIndex, m.Index)
	if !ok {
		return nil, fmt.Errorf("modrm: no 16-bit addressing form for base=%v(%v) index=%v(%v)", m.HasBase, m.Base, m.HasIndex, m.Index)
	}
	bareBP := rm == 6 // R/M=6 collides with the disp16-only escape at Mod=0
	switch {
	case (!m.HasDisp || m.Disp == 0) && !bareBP:
		return []byte{ModRM{Mod: 0, Reg: reg, RM: rm}.Byte()}, nil
	case fitsSigned8(m.Disp) && !bareBP:
		return []byte{ModRM{Mod: 1, Reg: reg, RM: rm}.Byte(), byte(m.Disp)}, nil
	case bareBP && (!m.HasDisp || fitsSigned8(m.Disp)):
		// [BP] alone is forbidden; force a zero (or small) disp8.
		return []byte{ModRM{Mod: 1, Reg: reg, RM: rm}.Byte(), byte(m.Disp)}, nil
	default:
		out := make([]byte, 3)
		out[0] = ModRM{Mod: 2, Reg: reg, RM: rm}.Byte()
		binary.LittleEndian.PutUint16(out[1:], m.Disp)
		return out, nil
	}
}

func fitsSigned8(d uint16) bool {
	v := int16(d)
	return v >= -128 && v <= 127
}

func fitsSigned8_32(d uint32) bool {
	v := int32(d)
	return v >= -128 && v <= 127
}

// Mem32 is the interpreted address for a 32-bit-addressed memory operand.
type Mem32 struct {
	HasBase  bool
	Base     regs.Reg32
	HasIndex bool
	Index    regs.Reg32
	Scale    uint8 // 0..3 meaning 1/2/4/8, meaningful only when HasIndex
	HasDisp  bool
	Disp     uint32
}

// DecodeMem32 interprets the memory operand implied by an already-read
// ModR/M (Mod != 3), reading any SIB and displacement bytes it requires.
func DecodeMem32(m ModRM, r *stream.Reader) (Mem32, error) {
	if m.RM == 4 {
		return decodeSIB(m, r)
	}
	if m.Mod == 0 && m.RM == 5 {
		d, err := r.Dword()
		if err != nil {
			return Mem32{}, err
		}
		return Mem32{HasDisp: true, Disp: d}, nil
	}
	out := Mem32{HasBase: true, Base: regs.Reg32(m.RM)}
	switch m.Mod {
	case 0:
	case 1:
		b, err := r.Byte()
		if err != nil {
			return Mem32{}, err
		}
		out.HasDisp = true
		out.Disp = uint32(int32(int8(b)))
	case 2:
		d, err := r.Dword()
		if err != nil {
			return Mem32{}, err
		}
		out.HasDisp = true
		out.Disp = d
	default:
		return Mem32{}, fmt.Errorf("modrm: Mod=3 is a register form, not memory")
	}
	return out, nil
}

func decodeSIB(m ModRM, r *stream.Reader) (Mem32, error) {
	sib, err := r.Byte()
	if err != nil {
		return Mem32{}, err
	}
	scale := sib >> 6
	index := (sib >> 3) & 7
	base := sib & 7

	var out Mem32
	out.Scale = scale
	if index != 4 {
		out.HasIndex = true
		out.Index = regs.Reg32(index)
	}
	if base == 5 && m.Mod == 0 {
		d, err := r.Dword()
		if err != nil {
			return Mem32{}, err
		}
		out.HasDisp = true
		out.Disp = d
		return out, nil
	}
	out.HasBase = true
	out.Base = regs.Reg32(base)
	switch m.Mod {
	case 0:
	case 1:
		b, err := r.Byte()
		if err != nil {
			return Mem32{}, err
		}
		out.HasDisp = true
		out.Disp = uint32(int32(int8(b)))
	case 2:
		d, err := r.Dword()
		if err != nil {
			return Mem32{}, err
		}
		out.HasDisp = true
		out.Disp = d
	}
	return out, nil
}

// EncodeMem32 computes the ModR/M byte plus any SIB and displacement bytes
// for a 32-bit memory operand with the given reg (GGG) field.
func EncodeMem32(reg uint8, m Mem32) ([]byte, error) {
	needSIB := m.HasIndex || (m.HasBase && m.Base == regs.ESP)
	if needSIB {
		return encodeSIBForm(reg, m)
	}
	if !m.HasBase {
		// Pure displacement: the only representation is the disp32 escape.
		out := make([]byte, 5)
		out[0] = ModRM{Mod: 0, Reg: reg, RM: 5}.Byte()
		binary.LittleEndian.PutUint32(out[1:], m.Disp)
		return out, nil
	}
	rm := uint8(m.Base)
	bareEBP := rm == 5 // R/M=5,Mod=0 collides with the disp32-only escape
	switch {
	case (!m.HasDisp || m.Disp == 0) && !bareEBP:
		return []byte{ModRM{Mod: 0, Reg: reg, RM: rm}.Byte()}, nil
	case fitsSigned8_32(m.Disp) && !bareEBP:
		return []byte{ModRM{Mod: 1, Reg: reg, RM: rm}.Byte(), byte(m.Disp)}, nil
	case bareEBP && (!m.HasDisp || fitsSigned8_32(m.Disp)):
		return []byte{ModRM{Mod: 1, Reg: reg, RM: rm}.Byte(), byte(m.Disp)}, nil
	default:
		out := make([]byte, 5)
		out[0] = ModRM{Mod: 2, Reg: reg, RM: rm}.Byte()
		binary.LittleEndian.PutUint32(out[1:], m.Disp)
		return out, nil
	}
}

func encodeSIBForm(reg uint8, m Mem32) ([]byte, error) {
	var sibIndex uint8 = 4 // "no index"
	if m.HasIndex {
		if m.Index == regs.ESP {
			return nil, fmt.Errorf("modrm: ESP cannot be used as an index register")
		}
		sibIndex = uint8(m.Index)
	}
	if !m.HasBase {
		sib := m.Scale<<6 | sibIndex<<3 | 5
		out := make([]byte, 6)
		out[0] = ModRM{Mod: 0, Reg: reg, RM: 4}.Byte()
		out[1] = sib
		binary.LittleEndian.PutUint32(out[2:], m.Disp)
		return out, nil
	}
	baseOrd := uint8(m.Base)
	bareEBP := baseOrd == 5
	sib := m.Scale<<6 | sibIndex<<3 | baseOrd
	switch {
	case (!m.HasDisp || m.Disp == 0) && !bareEBP:
		return []byte{ModRM{Mod: 0, Reg: reg, RM: 4}.Byte(), sib}, nil
	case fitsSigned8_32(m.Disp) && !bareEBP:
		return []byte{ModRM{Mod: 1, Reg: reg, RM: 4}.Byte(), sib, byte(m.Disp)}, nil
	case bareEBP && (!m.HasDisp || fitsSigned8_32(m.Disp)):
		return []byte{ModRM{Mod: 1, Reg: reg, RM: 4}.Byte(), sib, byte(m.Disp)}, nil
	default:
		out := make([]byte, 6)
		out[0] = ModRM{Mod: 2, Reg: reg, RM: 4}.Byte()
		out[1] = sib
		binary.LittleEndian.PutUint32(out[2:], m.Disp)
		return out, nil
	}
}
