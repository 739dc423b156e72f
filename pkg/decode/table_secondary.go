package decode

import "github.com/gima/x86codec/pkg/regs"

// populateSecondaryTable fills the 0x100-0x1FF block (after a lone 0x0F
// escape): near Jcc/SETcc, the BT/BSF/BSR family, MOVZX/MOVSX, the
// MOVUPS/MOVUPD/MOVSS SSE dispatch example, and Group 15 (0F AE).
func populateSecondaryTable() {
	for cc := uint8(0); cc < 16; cc++ {
		Table[0x180+int(cc)] = direct(regs.JccMnemonic(cc), jz32())
		Table[0x190+int(cc)] = direct(regs.SetccMnemonic(cc), eb())
	}

	Table[0x1A3] = direct(regs.BT, ev(), gv())
	Table[0x1AB] = direct(regs.BTS, ev(), gv())
	Table[0x1B3] = direct(regs.BTR, ev(), gv())
	Table[0x1BB] = direct(regs.BTC, ev(), gv())
	Table[0x1BA] = group(
		InvalidEntry{}, InvalidEntry{}, InvalidEntry{}, InvalidEntry{},
		direct(regs.BT, ev(), ib()), direct(regs.BTS, ev(), ib()),
		direct(regs.BTR, ev(), ib()), direct(regs.BTC, ev(), ib()),
	)
	Table[0x1BC] = direct(regs.BSF, gv(), ev())
	Table[0x1BD] = direct(regs.BSR, gv(), ev())

	Table[0x1B6] = direct(regs.MOVZX, gv(), eb())
	Table[0x1B7] = direct(regs.MOVZX, gv(), ew())
	Table[0x1BE] = direct(regs.MOVSX, gv(), eb())
	Table[0x1BF] = direct(regs.MOVSX, gv(), ew())

	Table[0x1AF] = direct(regs.IMUL, gv(), ev())

	Table[0x110] = sse(
		direct(regs.MOVUPS, xmmGPart(), xmmRegOrMem()),
		direct(regs.MOVSS, xmmGPart(), xmmRegOrMem()),
		direct(regs.MOVUPD, xmmGPart(), xmmRegOrMem()),
		InvalidEntry{}, // REPNE (F2): MOVSD, not covered
	)
	Table[0x111] = sse(
		direct(regs.MOVUPS, xmmRegOrMem(), xmmGPart()),
		direct(regs.MOVSS, xmmRegOrMem(), xmmGPart()),
		direct(regs.MOVUPD, xmmRegOrMem(), xmmGPart()),
		InvalidEntry{},
	)

	populateGroup15()
}

// populateGroup15 implements 0F AE: GGG 0-3 are memory-only FXSAVE/FXRSTOR/
// LDMXCSR/STMXCSR (PredMOD rejects the register-only form), GGG 5/6 are the
// register-only LFENCE/MFENCE, and GGG 7 splits further by R/M between
// SFENCE (register form, R/M==0) and CLFLUSH (memory form).
func populateGroup15() {
	Table[0x1AE] = group(
		predMOD(InvalidEntry{}, direct(regs.FXSAVE, memOnly(regs.SimdState))),
		predMOD(InvalidEntry{}, direct(regs.FXRSTOR, memOnly(regs.SimdState))),
		predMOD(InvalidEntry{}, direct(regs.LDMXCSR, memOnly(regs.Md))),
		predMOD(InvalidEntry{}, direct(regs.STMXCSR, memOnly(regs.Md))),
		InvalidEntry{}, // GGG 4: XSAVE, not covered
		predMOD(direct(regs.LFENCE), InvalidEntry{}),
		predMOD(direct(regs.MFENCE), InvalidEntry{}),
		predMOD(
			rmgroup(direct(regs.SFENCE), InvalidEntry{}, InvalidEntry{}, InvalidEntry{},
				InvalidEntry{}, InvalidEntry{}, InvalidEntry{}, InvalidEntry{}),
			direct(regs.CLFLUSH, memOnly(regs.Mb)),
		),
	)
}
