package decode

import (
	"github.com/gima/x86codec/pkg/aot"
	"github.com/gima/x86codec/pkg/regs"
)

// aluGroup lists the eight arithmetic/logic mnemonics in the order their
// opcode blocks appear (0x00, 0x08, 0x10, ... each block 8 bytes wide) and
// in the order Group 1's GGG field selects them.
var aluGroup = [8]regs.Mnemonic{regs.ADD, regs.OR, regs.ADC, regs.SBB, regs.AND, regs.SUB, regs.XOR, regs.CMP}

func populateOneByteTable() {
	populateAluBlocks()
	populateGroup1()
	populateMov()
	populateStackOps()
	populateIncDec()
	populateShiftGroup2()
	populateGroup3()
	populateImulWideForms()
	populateJumpsAndLoops()
	populateMiscOneByte()
	populateStringOps()
	populateLegacyEdgeCases()
	populateX87()
}

func populateAluBlocks() {
	for i, m := range aluGroup {
		base := uint8(i * 8)
		Table[base+0x00] = direct(m, eb(), gb())
		Table[base+0x01] = direct(m, ev(), gv())
		Table[base+0x02] = direct(m, gb(), eb())
		Table[base+0x03] = direct(m, gv(), ev())
		Table[base+0x04] = direct(m, exactAL(), ib())
		Table[base+0x05] = direct(m, eAX(), iz())
	}
}

func populateGroup1() {
	Table[0x80] = group(
		direct(regs.ADD, eb(), ib()), direct(regs.OR, eb(), ib()), direct(regs.ADC, eb(), ib()),
		direct(regs.SBB, eb(), ib()), direct(regs.AND, eb(), ib()), direct(regs.SUB, eb(), ib()),
		direct(regs.XOR, eb(), ib()), direct(regs.CMP, eb(), ib()),
	)
	// 0x82 is the 8-bit Group 1 alias, a documented 32-bit-mode legacy
	// edge case that decodes identically to 0x80.
	Table[0x82] = Table[0x80]
	Table[0x81] = group(
		direct(regs.ADD, ev(), iz()), direct(regs.OR, ev(), iz()), direct(regs.ADC, ev(), iz()),
		direct(regs.SBB, ev(), iz()), direct(regs.AND, ev(), iz()), direct(regs.SUB, ev(), iz()),
		direct(regs.XOR, ev(), iz()), direct(regs.CMP, ev(), iz()),
	)
	Table[0x83] = group(
		direct(regs.ADD, ev(), ibSignToV()), direct(regs.OR, ev(), ibSignToV()), direct(regs.ADC, ev(), ibSignToV()),
		direct(regs.SBB, ev(), ibSignToV()), direct(regs.AND, ev(), ibSignToV()), direct(regs.SUB, ev(), ibSignToV()),
		direct(regs.XOR, ev(), ibSignToV()), direct(regs.CMP, ev(), ibSignToV()),
	)
}

func populateMov() {
	Table[0x88] = direct(regs.MOV, eb(), gb())
	Table[0x89] = direct(regs.MOV, ev(), gv())
	Table[0x8A] = direct(regs.MOV, gb(), eb())
	Table[0x8B] = direct(regs.MOV, gv(), ev())

	Table[0xA0] = direct(regs.MOV, exactAL(), moffs(regs.Mb))
	Table[0xA1] = direct(regs.MOV, eAX(), moffs(regs.Md))
	Table[0xA2] = direct(regs.MOV, moffs(regs.Mb), exactAL())
	Table[0xA3] = direct(regs.MOV, moffs(regs.Md), eAX())

	for i := uint8(0); i < 8; i++ {
		Table[0xB0+i] = direct(regs.MOV, fixedReg8(i), ib())
		Table[0xB8+i] = direct(regs.MOV, fixedGPR(i), iz())
	}

	Table[0xC6] = group(direct(regs.MOV, eb(), ib()), InvalidEntry{}, InvalidEntry{}, InvalidEntry{},
		InvalidEntry{}, InvalidEntry{}, InvalidEntry{}, InvalidEntry{})
	Table[0xC7] = group(direct(regs.MOV, ev(), iz()), InvalidEntry{}, InvalidEntry{}, InvalidEntry{},
		InvalidEntry{}, InvalidEntry{}, InvalidEntry{}, InvalidEntry{})

	Table[0x84] = direct(regs.TEST, eb(), gb())
	Table[0x85] = direct(regs.TEST, ev(), gv())
	Table[0xA8] = direct(regs.TEST, exactAL(), ib())
	Table[0xA9] = direct(regs.TEST, eAX(), iz())

	Table[0x86] = direct(regs.XCHG, eb(), gb())
	Table[0x87] = direct(regs.XCHG, ev(), gv())
	for i := uint8(1); i < 8; i++ {
		Table[0x90+i] = direct(regs.XCHG, eAX(), fixedGPR(i))
	}

	Table[0x8D] = direct(regs.LEA, gv(), memOnly(regs.Md))
}

func populateStackOps() {
	for i := uint8(0); i < 8; i++ {
		Table[0x50+i] = direct(regs.PUSH, fixedGPR(i))
		Table[0x58+i] = direct(regs.POP, fixedGPR(i))
	}
	Table[0x68] = direct(regs.PUSH, iz())
	Table[0x6A] = direct(regs.PUSH, ibSignToV())
	Table[0x8F] = group(direct(regs.POP, ev()), InvalidEntry{}, InvalidEntry{}, InvalidEntry{},
		InvalidEntry{}, InvalidEntry{}, InvalidEntry{}, InvalidEntry{})
}

func populateIncDec() {
	for i := uint8(0); i < 8; i++ {
		Table[0x40+i] = direct(regs.INC, fixedGPR(i))
		Table[0x48+i] = direct(regs.DEC, fixedGPR(i))
	}
	Table[0xFE] = group(direct(regs.INC, eb()), direct(regs.DEC, eb()), InvalidEntry{}, InvalidEntry{},
		InvalidEntry{}, InvalidEntry{}, InvalidEntry{}, InvalidEntry{})
	Table[0xFF] = group(
		direct(regs.INC, ev()),
		direct(regs.DEC, ev()),
		direct(regs.CALL, ev32()),
		direct(regs.CALL, memOnly(regs.Mf)),
		direct(regs.JMP, ev32()),
		direct(regs.JMP, memOnly(regs.Mf)),
		direct(regs.PUSH, ev()),
		InvalidEntry{},
	)
}

func populateShiftGroup2() {
	byAmount := func(amount aot.Node) Entry {
		return group(
			direct(regs.ROL, eb(), amount), direct(regs.ROR, eb(), amount), direct(regs.RCL, eb(), amount),
			direct(regs.RCR, eb(), amount), direct(regs.SHL, eb(), amount), direct(regs.SHR, eb(), amount),
			InvalidEntry{}, direct(regs.SAR, eb(), amount),
		)
	}
	byAmountV := func(amount aot.Node) Entry {
		return group(
			direct(regs.ROL, ev(), amount), direct(regs.ROR, ev(), amount), direct(regs.RCL, ev(), amount),
			direct(regs.RCR, ev(), amount), direct(regs.SHL, ev(), amount), direct(regs.SHR, ev(), amount),
			InvalidEntry{}, direct(regs.SAR, ev(), amount),
		)
	}
	Table[0xD0] = byAmount(exactOne())
	Table[0xD2] = byAmount(exactCL())
	Table[0xC0] = byAmount(ib())
	Table[0xD1] = byAmountV(exactOne())
	Table[0xD3] = byAmountV(exactCL())
	Table[0xC1] = byAmountV(ib())
}

func populateGroup3() {
	Table[0xF6] = group(
		direct(regs.TEST, eb(), ib()), direct(regs.TEST, eb(), ib()),
		direct(regs.NOT, eb()), direct(regs.NEG, eb()),
		direct(regs.MUL, eb()), direct(regs.IMUL, eb()),
		direct(regs.DIV, eb()), direct(regs.IDIV, eb()),
	)
	Table[0xF7] = group(
		direct(regs.TEST, ev(), iz()), direct(regs.TEST, ev(), iz()),
		direct(regs.NOT, ev()), direct(regs.NEG, ev()),
		direct(regs.MUL, ev()), direct(regs.IMUL, ev()),
		direct(regs.DIV, ev()), direct(regs.IDIV, ev()),
	)
}

// populateImulWideForms adds the two three-operand IMUL encodings; the
// one-operand and two-operand forms live in Group 3 (0xF6/0xF7) and the
// secondary table (0F AF).
func populateImulWideForms() {
	Table[0x69] = direct(regs.IMUL, gv(), ev(), iz())
	Table[0x6B] = direct(regs.IMUL, gv(), ev(), ibSignToV())
}

func populateJumpsAndLoops() {
	for cc := uint8(0); cc < 16; cc++ {
		Table[0x70+int(cc)] = direct(regs.JccMnemonic(cc), jb())
	}
	Table[0xE8] = direct(regs.CALL, jz32())
	Table[0xE9] = direct(regs.JMP, jz32())
	Table[0xEA] = direct(regs.JMP, aotFarPtr32())
	Table[0xEB] = direct(regs.JMP, jb())
	Table[0x9A] = direct(regs.CALL, aotFarPtr32())

	Table[0xE0] = direct(regs.LOOPNE, jb())
	Table[0xE1] = direct(regs.LOOPE, jb())
	Table[0xE2] = direct(regs.LOOP, jb())
	Table[0xE3] = predAddrSize(direct(regs.JCXZ, jb()), direct(regs.JECXZ, jb()))

	Table[0xC3] = direct(regs.RET)
	Table[0xC2] = direct(regs.RET, iw())
	Table[0xCB] = direct(regs.RETF)
	Table[0xCA] = direct(regs.RETF, iw())
}

func populateMiscOneByte() {
	Table[0x90] = direct(regs.NOP)
	Table[0xF4] = direct(regs.HLT)
	Table[0xF5] = direct(regs.CMC)
	Table[0xF8] = direct(regs.CLC)
	Table[0xF9] = direct(regs.STC)
	Table[0xFA] = direct(regs.CLI)
	Table[0xFB] = direct(regs.STI)
	Table[0xFC] = direct(regs.CLD)
	Table[0xFD] = direct(regs.STD)

	Table[0x60] = predOpSize(direct(regs.PUSHA), direct(regs.PUSHAD))
	Table[0x61] = predOpSize(direct(regs.POPA), direct(regs.POPAD))
	Table[0x9C] = predOpSize(direct(regs.PUSHF), direct(regs.PUSHFD))
	Table[0x9D] = predOpSize(direct(regs.POPF), direct(regs.POPFD))
	Table[0x98] = predOpSize(direct(regs.CBW), direct(regs.CWDE))
	Table[0x99] = predOpSize(direct(regs.CWD), direct(regs.CDQ))

	Table[0xCC] = direct(regs.INT3)
	Table[0xCD] = direct(regs.INT, ib())
	Table[0xCE] = direct(regs.INTO)
	Table[0xCF] = direct(regs.IRET)

	Table[0xE4] = direct(regs.IN, exactAL(), ib())
	Table[0xE5] = direct(regs.IN, eAX(), ib())
	Table[0xEC] = direct(regs.IN, exactAL(), exactDX())
	Table[0xED] = direct(regs.IN, eAX(), exactDX())
	Table[0xE6] = direct(regs.OUT, ib(), exactAL())
	Table[0xE7] = direct(regs.OUT, ib(), eAX())
	Table[0xEE] = direct(regs.OUT, exactDX(), exactAL())
	Table[0xEF] = direct(regs.OUT, exactDX(), eAX())
}

func populateStringOps() {
	Table[0xA4] = direct(regs.MOVSB)
	Table[0xA5] = predOpSize(direct(regs.MOVSW), direct(regs.MOVSD))
	Table[0xA6] = direct(regs.CMPSB)
	Table[0xA7] = predOpSize(direct(regs.CMPSW), direct(regs.CMPSD))
	Table[0xAA] = direct(regs.STOSB)
	Table[0xAB] = predOpSize(direct(regs.STOSW), direct(regs.STOSD))
	Table[0xAC] = direct(regs.LODSB)
	Table[0xAD] = predOpSize(direct(regs.LODSW), direct(regs.LODSD))
	Table[0xAE] = direct(regs.SCASB)
	Table[0xAF] = predOpSize(direct(regs.SCASW), direct(regs.SCASD))
}

// populateLegacyEdgeCases covers the explicit 32-bit-mode legacy opcode
// list: segment-register PUSH/POP shortcuts, the BCD adjust family,
// BOUND, ARPL, LES/LDS, the two-byte AAM/AAD stems, and SALC.
func populateLegacyEdgeCases() {
	Table[0x06] = direct(regs.PUSH, exactSreg(regs.ES))
	Table[0x07] = direct(regs.POP, exactSreg(regs.ES))
	Table[0x0E] = direct(regs.PUSH, exactSreg(regs.CS))
	Table[0x16] = direct(regs.PUSH, exactSreg(regs.SS))
	Table[0x17] = direct(regs.POP, exactSreg(regs.SS))
	Table[0x1E] = direct(regs.PUSH, exactSreg(regs.DS))
	Table[0x1F] = direct(regs.POP, exactSreg(regs.DS))

	Table[0x27] = direct(regs.DAA)
	Table[0x2F] = direct(regs.DAS)
	Table[0x37] = direct(regs.AAA)
	Table[0x3F] = direct(regs.AAS)

	Table[0x62] = direct(regs.BOUND, gv(), memOnly(regs.Mq))
	Table[0x63] = direct(regs.ARPL, ew(), gw())

	Table[0xC4] = direct(regs.LES, gv(), memOnly(regs.Mf))
	Table[0xC5] = direct(regs.LDS, gv(), memOnly(regs.Mf))

	Table[0xD4] = directStem(regs.AAM, []byte{0x0A})
	Table[0xD5] = directStem(regs.AAD, []byte{0x0A})
	Table[0xD6] = direct(regs.SALC)
}
