package decode

import (
	"fmt"

	"github.com/gima/x86codec/pkg/instr"
	"github.com/gima/x86codec/pkg/modrm"
	"github.com/gima/x86codec/pkg/regs"
	"github.com/gima/x86codec/pkg/stream"
)

// group1Prefix is one element of the decoder's small group-1 prefix
// stack. Implemented as a bounded array with a count (not a slice that
// grows), per the design notes.
type group1Prefix uint8

const (
	group1None group1Prefix = iota
	group1Lock
	group1Rep
	group1Repne
)

const maxGroup1 = 4

// Decoder owns the transient state of a single decode call: the group-1
// prefix stack, segment/size/address-prefix flags, and the lazily decoded
// ModR/M byte. It is reset at the start of every Decode call and never
// shared across streams.
type Decoder struct {
	r    *stream.Reader
	addr uint32

	group1    [maxGroup1]group1Prefix
	group1Len int

	seg    regs.Seg
	hasSeg bool

	sizePfx bool
	addrPfx bool

	modrm    modrm.ModRM
	hasModrm bool
}

func (d *Decoder) pushGroup1(p group1Prefix) {
	if d.group1Len < maxGroup1 {
		d.group1[d.group1Len] = p
		d.group1Len++
	}
}

// topGroup1 returns the most recently pushed group-1 prefix, if any.
func (d *Decoder) topGroup1() (group1Prefix, bool) {
	if d.group1Len == 0 {
		return group1None, false
	}
	return d.group1[d.group1Len-1], true
}

func (d *Decoder) decodeModRM() (modrm.ModRM, error) {
	if d.hasModrm {
		return d.modrm, nil
	}
	m, err := modrm.DecodeByte(d.r)
	if err != nil {
		return modrm.ModRM{}, err
	}
	d.modrm = m
	d.hasModrm = true
	return m, nil
}

// segByte maps a segment-override prefix byte to its Seg value.
func segByte(b uint8) (regs.Seg, bool) {
	switch b {
	case 0x2E:
		return regs.CS, true
	case 0x36:
		return regs.SS, true
	case 0x3E:
		return regs.DS, true
	case 0x26:
		return regs.ES, true
	case 0x64:
		return regs.FS, true
	case 0x65:
		return regs.GS, true
	default:
		return 0, false
	}
}

// Decode consumes one instruction from r starting at r's current position,
// returning the decoded value and the number of bytes consumed. addr is the
// instruction's own address; it is used only to resolve jump targets.
func Decode(r *stream.Reader, addr uint32) (instr.Instruction, int, error) {
	d := &Decoder{r: r, addr: addr}
	r.SetPos(r.Pos())

	tableIndex, err := d.prefixLoop()
	if err != nil {
		return instr.Instruction{}, 0, err
	}

	direct, err := d.reduce(Table[tableIndex])
	if err != nil {
		return instr.Instruction{}, 0, err
	}

	for _, want := range direct.ExtraStem {
		got, err := d.r.Byte()
		if err != nil {
			return instr.Instruction{}, 0, fmt.Errorf("%w: %v", ErrInvalidInstruction, err)
		}
		if got != want {
			return instr.Instruction{}, 0, ErrInvalidInstruction
		}
	}

	ops, err := d.materializeAll(direct.AOTs)
	if err != nil {
		return instr.Instruction{}, 0, err
	}

	out := instr.Instruction{Mnemonic: direct.Mnemonic, Operands: ops}
	if top, ok := d.topGroup1(); ok {
		out.Group1Prefix = toInstrPrefix(top)
	}
	return out, r.Consumed(), nil
}

func toInstrPrefix(p group1Prefix) instr.Group1Prefix {
	switch p {
	case group1Lock:
		return instr.Lock
	case group1Rep:
		return instr.Rep
	case group1Repne:
		return instr.Repne
	default:
		return instr.NoGroup1Prefix
	}
}

// prefixLoop reads legacy prefixes until it finds the opcode byte(s),
// returning the normalized table index for the final opcode.
func (d *Decoder) prefixLoop() (int, error) {
	for {
		b, err := d.r.Byte()
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrInvalidInstruction, err)
		}
		switch {
		case b == 0xF0:
			d.pushGroup1(group1Lock)
		case b == 0xF2:
			d.pushGroup1(group1Repne)
		case b == 0xF3:
			d.pushGroup1(group1Rep)
		case b == 0x66:
			d.sizePfx = true
		case b == 0x67:
			d.addrPfx = true
		case isSegPrefix(b):
			seg, _ := segByte(b)
			d.seg = seg
			d.hasSeg = true
		case b == 0x0F:
			b2, err := d.r.Byte()
			if err != nil {
				return 0, fmt.Errorf("%w: %v", ErrInvalidInstruction, err)
			}
			switch b2 {
			case 0x38:
				b3, err := d.r.Byte()
				if err != nil {
					return 0, fmt.Errorf("%w: %v", ErrInvalidInstruction, err)
				}
				return 0x200 + int(b3), nil
			case 0x3A:
				b3, err := d.r.Byte()
				if err != nil {
					return 0, fmt.Errorf("%w: %v", ErrInvalidInstruction, err)
				}
				return 0x300 + int(b3), nil
			default:
				return 0x100 + int(b2), nil
			}
		default:
			return int(b), nil
		}
	}
}

func isSegPrefix(b uint8) bool {
	_, ok := segByte(b)
	return ok
}

// reduce walks Group/RMGroup/SSE/Pred* entries down to a terminal Direct.
func (d *Decoder) reduce(e Entry) (DirectEntry, error) {
	switch v := e.(type) {
	case DirectEntry:
		return v, nil

	case FatalEntry:
		return DirectEntry{}, ErrInternalInvariantFailure

	case InvalidEntry:
		return DirectEntry{}, ErrInvalidInstruction

	case GroupEntry:
		m, err := d.decodeModRM()
		if err != nil {
			return DirectEntry{}, fmt.Errorf("%w: %v", ErrInvalidInstruction, err)
		}
		return d.reduce(v.Entries[m.GGG()])

	case RMGroupEntry:
		m, err := d.decodeModRM()
		if err != nil {
			return DirectEntry{}, fmt.Errorf("%w: %v", ErrInvalidInstruction, err)
		}
		if !m.IsRegisterForm() {
			return DirectEntry{}, ErrInvalidInstruction
		}
		return d.reduce(v.Entries[m.RM])

	case SSEEntry:
		for i := d.group1Len - 1; i >= 0; i-- {
			next := v.Rep
			switch d.group1[i] {
			case group1Rep:
			case group1Repne:
				next = v.RepNE
			default:
				continue
			}
			// The selecting prefix is consumed by the dispatch.
			copy(d.group1[i:d.group1Len], d.group1[i+1:d.group1Len])
			d.group1Len--
			return d.reduce(next)
		}
		if d.sizePfx {
			return d.reduce(v.Size)
		}
		return d.reduce(v.No)

	case PredOpSizeEntry:
		if d.sizePfx {
			return d.reduce(v.Yes)
		}
		return d.reduce(v.No)

	case PredAddrSizeEntry:
		if d.addrPfx {
			return d.reduce(v.Yes)
		}
		return d.reduce(v.No)

	case PredMODEntry:
		m, err := d.decodeModRM()
		if err != nil {
			return DirectEntry{}, fmt.Errorf("%w: %v", ErrInvalidInstruction, err)
		}
		if m.IsRegisterForm() {
			return d.reduce(v.Overridden)
		}
		return d.reduce(v.Regular)

	default:
		return DirectEntry{}, ErrInternalInvariantFailure
	}
}
