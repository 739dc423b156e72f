package encode

import (
	"github.com/gima/x86codec/pkg/operand"
	"github.com/gima/x86codec/pkg/regs"
)

// populateAluBlocks lists each ALU mnemonic's candidates narrowest-first:
// the sign-extended-imm8 group form, the register-specific imm form, the
// general imm form, the AL-specific imm8 form, the general byte-imm form,
// then the four register/memory directions.
func populateAluBlocks() {
	for i, m := range aluGroup {
		base := uint8(i * 8)
		add(m, candG([]byte{0x83}, uint8(i), ev(), ibSignToV()))
		add(m, cand([]byte{base + 0x05}, eAX(), iz()))
		add(m, candG([]byte{0x81}, uint8(i), ev(), iz()))
		add(m, cand([]byte{base + 0x04}, exactAL(), ib()))
		add(m, candG([]byte{0x80}, uint8(i), eb(), ib()))
		add(m, cand([]byte{base + 0x00}, eb(), gb()))
		add(m, cand([]byte{base + 0x01}, ev(), gv()))
		add(m, cand([]byte{base + 0x02}, gb(), eb()))
		add(m, cand([]byte{base + 0x03}, gv(), ev()))
	}
}

// populateMov lists MOV's candidates: the moffs absolute-address forms
// (narrower than a ModR/M encoding of the same address), the per-register
// immediate forms, the four register/memory directions, then the general
// r/m,imm group form.
func populateMov() {
	add(regs.MOV, cand([]byte{0xA0}, exactAL(), moffs(regs.Mb)))
	add(regs.MOV, cand([]byte{0xA1}, eAX(), moffs(regs.Md)))
	add(regs.MOV, cand([]byte{0xA2}, moffs(regs.Mb), exactAL()))
	add(regs.MOV, cand([]byte{0xA3}, moffs(regs.Md), eAX()))

	for i := uint8(0); i < 8; i++ {
		add(regs.MOV, cand([]byte{0xB0 + i}, fixedReg8(i), ib()))
		add(regs.MOV, cand([]byte{0xB8 + i}, fixedGPR(i), iz()))
	}

	add(regs.MOV, cand([]byte{0x88}, eb(), gb()))
	add(regs.MOV, cand([]byte{0x89}, ev(), gv()))
	add(regs.MOV, cand([]byte{0x8A}, gb(), eb()))
	add(regs.MOV, cand([]byte{0x8B}, gv(), ev()))

	add(regs.MOV, candG([]byte{0xC6}, 0, eb(), ib()))
	add(regs.MOV, candG([]byte{0xC7}, 0, ev(), iz()))
}

func populateTestXchgLea() {
	add(regs.TEST, cand([]byte{0xA8}, exactAL(), ib()))
	add(regs.TEST, cand([]byte{0xA9}, eAX(), iz()))
	add(regs.TEST, cand([]byte{0x84}, eb(), gb()))
	add(regs.TEST, cand([]byte{0x85}, ev(), gv()))

	for i := uint8(1); i < 8; i++ {
		add(regs.XCHG, cand([]byte{0x90 + i}, eAX(), fixedGPR(i)))
	}
	add(regs.XCHG, cand([]byte{0x86}, eb(), gb()))
	add(regs.XCHG, cand([]byte{0x87}, ev(), gv()))

	add(regs.LEA, cand([]byte{0x8D}, gv(), memOnly(regs.Md)))
}

// populateStackOps covers PUSH/POP's register-coded, immediate, general
// group, and segment-register shortcut forms.
func populateStackOps() {
	for i := uint8(0); i < 8; i++ {
		add(regs.PUSH, cand([]byte{0x50 + i}, fixedGPR(i)))
		add(regs.POP, cand([]byte{0x58 + i}, fixedGPR(i)))
	}
	add(regs.PUSH, cand([]byte{0x68}, iz()))
	add(regs.PUSH, cand([]byte{0x6A}, ibSignToV()))
	add(regs.PUSH, candG([]byte{0xFF}, 6, ev()))
	add(regs.POP, candG([]byte{0x8F}, 0, ev()))

	add(regs.PUSH, cand([]byte{0x06}, exactSreg(regs.ES)))
	add(regs.POP, cand([]byte{0x07}, exactSreg(regs.ES)))
	add(regs.PUSH, cand([]byte{0x0E}, exactSreg(regs.CS)))
	add(regs.PUSH, cand([]byte{0x16}, exactSreg(regs.SS)))
	add(regs.POP, cand([]byte{0x17}, exactSreg(regs.SS)))
	add(regs.PUSH, cand([]byte{0x1E}, exactSreg(regs.DS)))
	add(regs.POP, cand([]byte{0x1F}, exactSreg(regs.DS)))
}

func populateIncDec() {
	for i := uint8(0); i < 8; i++ {
		add(regs.INC, cand([]byte{0x40 + i}, fixedGPR(i)))
		add(regs.DEC, cand([]byte{0x48 + i}, fixedGPR(i)))
	}
	add(regs.INC, candG([]byte{0xFE}, 0, eb()))
	add(regs.DEC, candG([]byte{0xFE}, 1, eb()))
	add(regs.INC, candG([]byte{0xFF}, 0, ev()))
	add(regs.DEC, candG([]byte{0xFF}, 1, ev()))
}

// populateShiftGroup2 covers ROL/ROR/RCL/RCR/SHL/SHR/SAR's shift-by-1,
// shift-by-CL, and shift-by-imm8 forms, byte and wide.
func populateShiftGroup2() {
	shifts := []struct {
		m     regs.Mnemonic
		digit uint8
	}{
		{regs.ROL, 0}, {regs.ROR, 1}, {regs.RCL, 2}, {regs.RCR, 3},
		{regs.SHL, 4}, {regs.SHR, 5}, {regs.SAR, 7},
	}
	for _, s := range shifts {
		add(s.m, candG([]byte{0xD0}, s.digit, eb(), exactOne()))
		add(s.m, candG([]byte{0xD2}, s.digit, eb(), exactCL()))
		add(s.m, candG([]byte{0xC0}, s.digit, eb(), ib()))
		add(s.m, candG([]byte{0xD1}, s.digit, ev(), exactOne()))
		add(s.m, candG([]byte{0xD3}, s.digit, ev(), exactCL()))
		add(s.m, candG([]byte{0xC1}, s.digit, ev(), ib()))
	}
}

// populateGroup3 covers TEST (general r/m,imm forms; the AL/eAX-specific
// forms are registered earlier, and win first since they're narrower) and
// the six unary arithmetic/logic opcode-extension mnemonics.
func populateGroup3() {
	add(regs.TEST, candG([]byte{0xF6}, 0, eb(), ib()))
	add(regs.TEST, candG([]byte{0xF7}, 0, ev(), iz()))
	add(regs.NOT, candG([]byte{0xF6}, 2, eb()))
	add(regs.NOT, candG([]byte{0xF7}, 2, ev()))
	add(regs.NEG, candG([]byte{0xF6}, 3, eb()))
	add(regs.NEG, candG([]byte{0xF7}, 3, ev()))
	add(regs.MUL, candG([]byte{0xF6}, 4, eb()))
	add(regs.MUL, candG([]byte{0xF7}, 4, ev()))
	add(regs.IMUL, candG([]byte{0xF6}, 5, eb()))
	add(regs.IMUL, candG([]byte{0xF7}, 5, ev()))
	add(regs.DIV, candG([]byte{0xF6}, 6, eb()))
	add(regs.DIV, candG([]byte{0xF7}, 6, ev()))
	add(regs.IDIV, candG([]byte{0xF6}, 7, eb()))
	add(regs.IDIV, candG([]byte{0xF7}, 7, ev()))
}

// populateImulForms adds IMUL's three-operand forms (narrower
// signed-imm8 form tried first) and the 0F AF two-operand form; the
// one-operand form lives in Group 3 above.
func populateImulForms() {
	add(regs.IMUL, cand([]byte{0x6B}, gv(), ev(), ibSignToV()))
	add(regs.IMUL, cand([]byte{0x69}, gv(), ev(), iz()))
	add(regs.IMUL, cand([]byte{0x0F, 0xAF}, gv(), ev()))
}

// populateJumpsAndCalls covers Jcc/SETcc, JMP/CALL's near, indirect, and
// far forms, the LOOP family and JCXZ/JECXZ, and RET/RETF. Jcc and JMP
// each register a short (Jb) candidate before the near (Jz32) one — Jb's
// displacement range is checked at emission time (see emitTrailing), and
// a miss there falls through to the near candidate rather than failing
// outright.
func populateJumpsAndCalls() {
	for cc := uint8(0); cc < 16; cc++ {
		m := regs.JccMnemonic(cc)
		add(m, cand([]byte{0x70 + cc}, jb()))
		add(m, cand([]byte{0x0F, 0x80 + cc}, jz32()))
		add(regs.SetccMnemonic(cc), candG([]byte{0x0F, 0x90 + cc}, 0, eb()))
	}

	add(regs.JMP, cand([]byte{0xEB}, jb()))
	add(regs.JMP, cand([]byte{0xE9}, jz32()))
	add(regs.JMP, candG([]byte{0xFF}, 4, ev32()))
	add(regs.JMP, candG([]byte{0xFF}, 5, memOnly(regs.Mf)))
	add(regs.JMP, cand([]byte{0xEA}, aotFarPtr32()))

	add(regs.CALL, cand([]byte{0xE8}, jz32()))
	add(regs.CALL, candG([]byte{0xFF}, 2, ev32()))
	add(regs.CALL, candG([]byte{0xFF}, 3, memOnly(regs.Mf)))
	add(regs.CALL, cand([]byte{0x9A}, aotFarPtr32()))

	add(regs.LOOP, cand([]byte{0xE2}, jb()))
	add(regs.LOOPE, cand([]byte{0xE1}, jb()))
	add(regs.LOOPNE, cand([]byte{0xE0}, jb()))
	// Neither JCXZ nor JECXZ carries an operand that names the address
	// size; the single opcode is split by the 0x67 prefix alone, forced
	// here rather than derived from a type check.
	add(regs.JCXZ, candForce67([]byte{0xE3}, true, jb()))
	add(regs.JECXZ, cand([]byte{0xE3}, jb()))

	add(regs.RET, cand([]byte{0xC3}))
	add(regs.RET, cand([]byte{0xC2}, iw()))
	add(regs.RETF, cand([]byte{0xCB}))
	add(regs.RETF, cand([]byte{0xCA}, iw()))
}

// populateLoopsAndFlags covers the zero-operand flag/control instructions
// and the operand-size-only mnemonic pairs (PUSHA/PUSHAD and friends)
// whose distinction, like JCXZ/JECXZ, isn't carried by any operand.
func populateLoopsAndFlags() {
	add(regs.NOP, cand([]byte{0x90}))
	add(regs.HLT, cand([]byte{0xF4}))
	add(regs.CMC, cand([]byte{0xF5}))
	add(regs.CLC, cand([]byte{0xF8}))
	add(regs.STC, cand([]byte{0xF9}))
	add(regs.CLI, cand([]byte{0xFA}))
	add(regs.STI, cand([]byte{0xFB}))
	add(regs.CLD, cand([]byte{0xFC}))
	add(regs.STD, cand([]byte{0xFD}))

	add(regs.PUSHA, candForce66([]byte{0x60}, true))
	add(regs.PUSHAD, cand([]byte{0x60}))
	add(regs.POPA, candForce66([]byte{0x61}, true))
	add(regs.POPAD, cand([]byte{0x61}))
	add(regs.PUSHF, candForce66([]byte{0x9C}, true))
	add(regs.PUSHFD, cand([]byte{0x9C}))
	add(regs.POPF, candForce66([]byte{0x9D}, true))
	add(regs.POPFD, cand([]byte{0x9D}))
	add(regs.CBW, candForce66([]byte{0x98}, true))
	add(regs.CWDE, cand([]byte{0x98}))
	add(regs.CWD, candForce66([]byte{0x99}, true))
	add(regs.CDQ, cand([]byte{0x99}))

	add(regs.INT3, cand([]byte{0xCC}))
	add(regs.INT, cand([]byte{0xCD}, ib()))
	add(regs.INTO, cand([]byte{0xCE}))
	add(regs.IRET, cand([]byte{0xCF}))

	add(regs.IN, cand([]byte{0xE4}, exactAL(), ib()))
	add(regs.IN, cand([]byte{0xE5}, eAX(), ib()))
	add(regs.IN, cand([]byte{0xEC}, exactAL(), exactDX()))
	add(regs.IN, cand([]byte{0xED}, eAX(), exactDX()))
	add(regs.OUT, cand([]byte{0xE6}, ib(), exactAL()))
	add(regs.OUT, cand([]byte{0xE7}, ib(), eAX()))
	add(regs.OUT, cand([]byte{0xEE}, exactDX(), exactAL()))
	add(regs.OUT, cand([]byte{0xEF}, exactDX(), eAX()))
}

// populateStringOps covers the fifteen string-instruction mnemonics'
// zero-operand forms, plus one representative operand-bearing form
// (MOVSB) that folds down to the same bytes as the zero-operand form —
// the carve-out regs.MnemonicExceptionClass names.
func populateStringOps() {
	add(regs.MOVSB, cand([]byte{0xA4}))
	add(regs.MOVSW, candForce66([]byte{0xA5}, true))
	add(regs.MOVSD, cand([]byte{0xA5}))
	add(regs.CMPSB, cand([]byte{0xA6}))
	add(regs.CMPSW, candForce66([]byte{0xA7}, true))
	add(regs.CMPSD, cand([]byte{0xA7}))
	add(regs.STOSB, cand([]byte{0xAA}))
	add(regs.STOSW, candForce66([]byte{0xAB}, true))
	add(regs.STOSD, cand([]byte{0xAB}))
	add(regs.LODSB, cand([]byte{0xAC}))
	add(regs.LODSW, candForce66([]byte{0xAD}, true))
	add(regs.LODSD, cand([]byte{0xAD}))
	add(regs.SCASB, cand([]byte{0xAE}))
	add(regs.SCASW, candForce66([]byte{0xAF}, true))
	add(regs.SCASD, cand([]byte{0xAF}))

	movsbDst := operand.Mem32{Seg: regs.ES, Size: regs.Mb, HasBase: true, Base: regs.EDI}
	movsbSrc := operand.Mem32{Seg: regs.DS, Size: regs.Mb, HasBase: true, Base: regs.ESI}
	add(regs.MOVSB, cand([]byte{0xA4}, exact(movsbDst), aotExactSeg(movsbSrc)))
}

func populateLegacyEdgeCases() {
	add(regs.DAA, cand([]byte{0x27}))
	add(regs.DAS, cand([]byte{0x2F}))
	add(regs.AAA, cand([]byte{0x37}))
	add(regs.AAS, cand([]byte{0x3F}))
	add(regs.SALC, cand([]byte{0xD6}))

	add(regs.BOUND, cand([]byte{0x62}, gv(), memOnly(regs.Mq)))
	add(regs.ARPL, cand([]byte{0x63}, ew(), gw()))

	add(regs.LES, cand([]byte{0xC4}, gv(), memOnly(regs.Mf)))
	add(regs.LDS, cand([]byte{0xC5}, gv(), memOnly(regs.Mf)))

	// AAM/AAD's fixed continuation byte is just two more literal stem
	// bytes here — encode has no equivalent of decode's ExtraStem, since
	// a candidate's Stem is already whatever literal bytes the opcode
	// needs.
	add(regs.AAM, cand([]byte{0xD4, 0x0A}))
	add(regs.AAD, cand([]byte{0xD5, 0x0A}))
}

func populateSecondaryGroup() {
	add(regs.BT, cand([]byte{0x0F, 0xA3}, ev(), gv()))
	add(regs.BT, candG([]byte{0x0F, 0xBA}, 4, ev(), ib()))
	add(regs.BTS, cand([]byte{0x0F, 0xAB}, ev(), gv()))
	add(regs.BTS, candG([]byte{0x0F, 0xBA}, 5, ev(), ib()))
	add(regs.BTR, cand([]byte{0x0F, 0xB3}, ev(), gv()))
	add(regs.BTR, candG([]byte{0x0F, 0xBA}, 6, ev(), ib()))
	add(regs.BTC, cand([]byte{0x0F, 0xBB}, ev(), gv()))
	add(regs.BTC, candG([]byte{0x0F, 0xBA}, 7, ev(), ib()))
	add(regs.BSF, cand([]byte{0x0F, 0xBC}, gv(), ev()))
	add(regs.BSR, cand([]byte{0x0F, 0xBD}, gv(), ev()))

	add(regs.MOVZX, cand([]byte{0x0F, 0xB6}, gv(), eb()))
	add(regs.MOVZX, cand([]byte{0x0F, 0xB7}, gv(), ew()))
	add(regs.MOVSX, cand([]byte{0x0F, 0xBE}, gv(), eb()))
	add(regs.MOVSX, cand([]byte{0x0F, 0xBF}, gv(), ew()))
}

// populateSSEAndGroup15 bakes each SSE instruction's mandatory legacy
// prefix directly into its candidate's Stem (it selects an instruction
// identity, unlike the 0x66 operand-size override elsewhere in this
// table) and covers Group 15 (0F AE): FXSAVE/FXRSTOR/LDMXCSR/STMXCSR/
// CLFLUSH take a memory operand and a GGG digit; LFENCE/MFENCE/SFENCE
// have no operand at all, so their whole fixed ModR/M byte is baked into
// the stem too.
func populateSSEAndGroup15() {
	add(regs.MOVUPS, cand([]byte{0x0F, 0x10}, xmmGPart(), xmmRegOrMem()))
	add(regs.MOVUPS, cand([]byte{0x0F, 0x11}, xmmRegOrMem(), xmmGPart()))
	add(regs.MOVSS, cand([]byte{0xF3, 0x0F, 0x10}, xmmGPart(), xmmRegOrMem()))
	add(regs.MOVSS, cand([]byte{0xF3, 0x0F, 0x11}, xmmRegOrMem(), xmmGPart()))
	add(regs.MOVUPD, cand([]byte{0x66, 0x0F, 0x10}, xmmGPart(), xmmRegOrMem()))
	add(regs.MOVUPD, cand([]byte{0x66, 0x0F, 0x11}, xmmRegOrMem(), xmmGPart()))

	add(regs.FXSAVE, candG([]byte{0x0F, 0xAE}, 0, memOnly(regs.SimdState)))
	add(regs.FXRSTOR, candG([]byte{0x0F, 0xAE}, 1, memOnly(regs.SimdState)))
	add(regs.LDMXCSR, candG([]byte{0x0F, 0xAE}, 2, memOnly(regs.Md)))
	add(regs.STMXCSR, candG([]byte{0x0F, 0xAE}, 3, memOnly(regs.Md)))
	add(regs.LFENCE, cand([]byte{0x0F, 0xAE, 0xE8}))
	add(regs.MFENCE, cand([]byte{0x0F, 0xAE, 0xF0}))
	add(regs.SFENCE, cand([]byte{0x0F, 0xAE, 0xF8}))
	add(regs.CLFLUSH, candG([]byte{0x0F, 0xAE}, 7, memOnly(regs.Mb)))
}
