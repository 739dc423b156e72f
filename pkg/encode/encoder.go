package encode

import (
	"encoding/binary"
	"fmt"

	"github.com/gima/x86codec/pkg/aot"
	"github.com/gima/x86codec/pkg/instr"
	"github.com/gima/x86codec/pkg/modrm"
	"github.com/gima/x86codec/pkg/operand"
	"github.com/gima/x86codec/pkg/regs"
)

// Encode picks the first candidate encoding (in declared order) whose
// AOTDL shapes type-check against i.Operands and emits its bytes. addr is
// the instruction's own address, needed to turn a JccTarget's absolute
// address back into a PC-relative displacement.
func Encode(i instr.Instruction, addr uint32) ([]byte, error) {
	for _, c := range Table[i.Mnemonic] {
		out, ok, err := tryEncode(i, c, addr)
		if err != nil {
			return nil, err
		}
		if ok {
			return out, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrInvalidInstruction, i.String())
}

// Many encodes a sequence of instructions back to back, advancing addr by
// each instruction's own encoded length so later JccTarget operands
// resolve against the correct address.
func Many(is []instr.Instruction, addr uint32) ([]byte, error) {
	var out []byte
	for _, ins := range is {
		b, err := Encode(ins, addr)
		if err != nil {
			return nil, err
		}
		out = append(out, b...)
		addr += uint32(len(b))
	}
	return out, nil
}

// tryEncode attempts one candidate against one instruction. A false ok
// with a nil error means "not a match, caller should try the next
// candidate" — distinct from a non-nil error, which means the candidate
// type-checked but its ModR/M bytes could not be produced (an address
// expression with no valid ModR/M form, or a candidate table inconsistency).
func tryEncode(i instr.Instruction, c Candidate, addr uint32) ([]byte, bool, error) {
	if len(c.AOTs) != len(i.Operands) {
		return nil, false, nil
	}
	infos := make([]aot.TypeCheckInfo, len(c.AOTs))
	for idx, node := range c.AOTs {
		info, ok := aot.Check(node, i.Operands[idx])
		if !ok {
			return nil, false, nil
		}
		infos[idx] = info
	}
	reduced, ok := aot.Reduce(infos)
	if !ok {
		return nil, false, nil
	}

	var out []byte
	if reduced.SegOverride != nil {
		out = append(out, segPrefixByte(*reduced.SegOverride))
	}
	if flagTrue(c.Force67, reduced.AddrOverride) {
		out = append(out, 0x67)
	}
	if flagTrue(c.Force66, reduced.SizeOverride) {
		out = append(out, 0x66)
	}
	if b := group1PrefixByte(i.Group1Prefix); b != 0 {
		out = append(out, b)
	}
	out = append(out, c.Stem...)

	rm, err := emitModRM(c, i.Operands, reduced)
	if err != nil {
		return nil, false, err
	}
	out = append(out, rm...)

	tail, matched, err := emitTrailing(c, i.Operands, reduced, addr, len(out))
	if err != nil {
		return nil, false, err
	}
	if !matched {
		return nil, false, nil
	}
	out = append(out, tail...)
	return out, true, nil
}

// resolvePrefixed strips a SizePrefixNode/AddrPrefixNode wrapper down to
// the concrete leaf node that actually matched, using the SizeOverride/
// AddrOverride Check already recorded for it — the encode-time mirror of
// materializeOne's sizePfx/addrPfx branch in pkg/decode. Every wrapper in
// this package's candidate table wraps exactly one level deep, so a
// single step of unwrapping is enough.
func resolvePrefixed(node aot.Node, info aot.TypeCheckInfo) aot.Node {
	switch n := node.(type) {
	case aot.SizePrefixNode:
		if info.SizeOverride != nil && *info.SizeOverride {
			return n.Yes
		}
		return n.No
	case aot.AddrPrefixNode:
		if info.AddrOverride != nil && *info.AddrOverride {
			return n.Yes
		}
		return n.No
	default:
		return node
	}
}

func flagTrue(force, derived *bool) bool {
	if force != nil {
		return *force
	}
	return derived != nil && *derived
}

func segPrefixByte(s regs.Seg) byte {
	switch s {
	case regs.ES:
		return 0x26
	case regs.CS:
		return 0x2E
	case regs.SS:
		return 0x36
	case regs.DS:
		return 0x3E
	case regs.FS:
		return 0x64
	case regs.GS:
		return 0x65
	default:
		return 0
	}
}

func group1PrefixByte(p instr.Group1Prefix) byte {
	switch p {
	case instr.Lock:
		return 0xF0
	case instr.Rep:
		return 0xF3
	case instr.Repne:
		return 0xF2
	default:
		return 0
	}
}

// emitModRM finds the candidate's RegOrMemNode (if any, once any
// SizePrefixNode/AddrPrefixNode wrapper around it is resolved) and emits
// the ModR/M(+SIB+disp) bytes for whichever concrete operand occupies
// that slot, using the GPartNode operand (or the candidate's fixed group
// digit) as the reg field. Returns nil, nil when the candidate has no
// r/m operand at all.
func emitModRM(c Candidate, ops []operand.Operand, reduced aot.TypeCheckInfo) ([]byte, error) {
	var regField uint8
	haveRM := false
	for idx, node := range c.AOTs {
		switch resolvePrefixed(node, reduced).(type) {
		case aot.GPartNode:
			ord, _ := aot.RegOrdinal(ops[idx])
			regField = ord
		case aot.RegOrMemNode:
			haveRM = true
		}
	}
	if !haveRM {
		return nil, nil
	}
	if c.GroupDigit != nil {
		regField = *c.GroupDigit
	}

	for idx, node := range c.AOTs {
		n, ok := resolvePrefixed(node, reduced).(aot.RegOrMemNode)
		if !ok {
			continue
		}
		op := ops[idx]
		if ord, ok := aot.RegOrdinal(op); ok && n.HasReg {
			return []byte{modrm.ModRM{Mod: 3, Reg: regField, RM: ord}.Byte()}, nil
		}
		switch m := op.(type) {
		case operand.Mem16:
			return modrm.EncodeMem16(regField, toModrmMem16(m))
		case operand.Mem32:
			return modrm.EncodeMem32(regField, toModrmMem32(m))
		}
	}
	return nil, fmt.Errorf("%w: no matching r/m operand", ErrInternalInvariantFailure)
}

func toModrmMem16(m operand.Mem16) modrm.Mem16 {
	return modrm.Mem16{HasBase: m.HasBase, Base: m.Base, HasIndex: m.HasIndex, Index: m.Index, HasDisp: m.HasDisp, Disp: m.Disp}
}

func toModrmMem32(m operand.Mem32) modrm.Mem32 {
	return modrm.Mem32{HasBase: m.HasBase, Base: m.Base, HasIndex: m.HasIndex, Index: m.Index, Scale: m.Scale, HasDisp: m.HasDisp, Disp: m.Disp}
}

// immTrailingWidth gives the fixed byte width a trailing AOT node
// contributes once its candidate's prefix overrides (and so, for a
// wrapped node, which branch applies) are known.
func immTrailingWidth(node aot.Node, reduced aot.TypeCheckInfo) int {
	switch n := resolvePrefixed(node, reduced).(type) {
	case aot.ImmEncNode:
		switch n.Archetype {
		case aot.ArchIb:
			return 1
		case aot.ArchIw:
			return 2
		case aot.ArchId:
			return 4
		case aot.ArchMoffs16:
			return 2
		case aot.ArchMoffs32:
			return 4
		case aot.ArchFarPtr16:
			return 4
		case aot.ArchFarPtr32:
			return 6
		case aot.ArchJb:
			return 1
		case aot.ArchJz32:
			return 4
		}
	case aot.SignedImmNode:
		return 1
	}
	return 0
}

// emitTrailing emits every immediate/moffs/far-pointer/jump-target byte
// owed after the ModR/M(+SIB) bytes, in operand order. lenBeforeTrailing
// is the number of bytes already emitted (prefixes+stem+ModR/M+SIB); added
// to the fixed widths of every trailing node in this candidate, it gives
// the instruction's total length in one pass, without a second
// measure-after-the-fact step, which is what lets a JccTarget's absolute
// address resolve to a displacement here directly.
//
// A false ok with a nil error means the candidate doesn't fit this
// operand after all (an out-of-range short-jump displacement) and the
// caller should try the next candidate, not fail outright.
func emitTrailing(c Candidate, ops []operand.Operand, reduced aot.TypeCheckInfo, addr uint32, lenBeforeTrailing int) ([]byte, bool, error) {
	total := lenBeforeTrailing
	for _, node := range c.AOTs {
		total += immTrailingWidth(node, reduced)
	}

	var out []byte
	for idx, node := range c.AOTs {
		switch n := resolvePrefixed(node, reduced).(type) {
		case aot.ImmEncNode:
			switch n.Archetype {
			case aot.ArchIb:
				out = append(out, ops[idx].(operand.Imm8).Value)
			case aot.ArchIw:
				var b [2]byte
				binary.LittleEndian.PutUint16(b[:], ops[idx].(operand.Imm16).Value)
				out = append(out, b[:]...)
			case aot.ArchId:
				var b [4]byte
				binary.LittleEndian.PutUint32(b[:], ops[idx].(operand.Imm32).Value)
				out = append(out, b[:]...)
			case aot.ArchMoffs16:
				var b [2]byte
				binary.LittleEndian.PutUint16(b[:], ops[idx].(operand.Mem16).Disp)
				out = append(out, b[:]...)
			case aot.ArchMoffs32:
				var b [4]byte
				binary.LittleEndian.PutUint32(b[:], ops[idx].(operand.Mem32).Disp)
				out = append(out, b[:]...)
			case aot.ArchFarPtr16:
				fp := ops[idx].(operand.FarPtr16)
				var b [4]byte
				binary.LittleEndian.PutUint16(b[0:2], fp.Off)
				binary.LittleEndian.PutUint16(b[2:4], fp.Seg)
				out = append(out, b[:]...)
			case aot.ArchFarPtr32:
				fp := ops[idx].(operand.FarPtr32)
				var b [6]byte
				binary.LittleEndian.PutUint32(b[0:4], fp.Off)
				binary.LittleEndian.PutUint16(b[4:6], fp.Seg)
				out = append(out, b[:]...)
			case aot.ArchJb:
				target := ops[idx].(operand.JccTarget)
				disp := int64(target.Taken) - int64(addr) - int64(total)
				if disp < -128 || disp > 127 {
					return nil, false, nil
				}
				out = append(out, byte(int8(disp)))
			case aot.ArchJz32:
				target := ops[idx].(operand.JccTarget)
				disp := int64(target.Taken) - int64(addr) - int64(total)
				var b [4]byte
				binary.LittleEndian.PutUint32(b[:], uint32(int32(disp)))
				out = append(out, b[:]...)
			}
		case aot.SignedImmNode:
			switch v := ops[idx].(type) {
			case operand.Imm16:
				out = append(out, byte(v.Value))
			case operand.Imm32:
				out = append(out, byte(v.Value))
			}
		}
	}
	return out, true, nil
}
