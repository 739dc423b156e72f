package decode

import "github.com/gima/x86codec/pkg/regs"

// populateX87 fills the eight ESC opcodes (0xD8-0xDF): every one splits on
// ModR/M's Mod field into a memory form (GGG selects a sparsely-populated
// instruction array taking the one memory operand) and a register form
// (GGG selects one of eight monolithic blocks operating on ST(i), or a
// further RMGroup split for the opcode-extension style no-operand forms
// such as FCHS/FABS/FLD1). The table mirrors X86DecodeTable.py's own
// Group/RMGroup nesting under each opcode's PredMOD one for one.
func populateX87() {
	Table[0xD8] = predMOD(
		group(
			direct(regs.FADD, st0(), stN()), direct(regs.FMUL, st0(), stN()),
			direct(regs.FCOM, st0(), stN()), direct(regs.FCOMP, st0(), stN()),
			direct(regs.FSUB, st0(), stN()), direct(regs.FSUBR, st0(), stN()),
			direct(regs.FDIV, st0(), stN()), direct(regs.FDIVR, st0(), stN()),
		),
		group(
			direct(regs.FADD, st0(), memOnly(regs.Md)), direct(regs.FMUL, st0(), memOnly(regs.Md)),
			direct(regs.FCOM, st0(), memOnly(regs.Md)), direct(regs.FCOMP, st0(), memOnly(regs.Md)),
			direct(regs.FSUB, st0(), memOnly(regs.Md)), direct(regs.FSUBR, st0(), memOnly(regs.Md)),
			direct(regs.FDIV, st0(), memOnly(regs.Md)), direct(regs.FDIVR, st0(), memOnly(regs.Md)),
		),
	)

	Table[0xD9] = populateD9()
	Table[0xDA] = populateDA()
	Table[0xDB] = populateDB()

	Table[0xDC] = predMOD(
		group(
			direct(regs.FADD, stN(), st0()), direct(regs.FMUL, stN(), st0()),
			InvalidEntry{}, InvalidEntry{},
			direct(regs.FSUB, stN(), st0()), direct(regs.FSUBR, stN(), st0()),
			direct(regs.FDIV, stN(), st0()), direct(regs.FDIVR, stN(), st0()),
		),
		group(
			direct(regs.FADD, st0(), memOnly(regs.Mq)), direct(regs.FMUL, st0(), memOnly(regs.Mq)),
			direct(regs.FCOM, st0(), memOnly(regs.Mq)), direct(regs.FCOMP, st0(), memOnly(regs.Mq)),
			direct(regs.FSUB, st0(), memOnly(regs.Mq)), direct(regs.FSUBR, st0(), memOnly(regs.Mq)),
			direct(regs.FDIV, st0(), memOnly(regs.Mq)), direct(regs.FDIVR, st0(), memOnly(regs.Mq)),
		),
	)

	Table[0xDD] = populateDD()
	Table[0xDE] = populateDE()
	Table[0xDF] = populateDF()
}

// populateD9 covers FLD/FXCH's register forms, the no-operand RMGroup
// blocks (FNOP; FCHS/FABS/FTST/FXAM; the seven constant loads; the
// transcendental pair), and the memory forms (FLD/FST/FSTP plus the
// environment/control-word load-store quartet).
func populateD9() Entry {
	return predMOD(
		group(
			direct(regs.FLD, st0(), stN()),
			direct(regs.FXCH, st0(), stN()),
			rmgroup(direct(regs.FNOP), InvalidEntry{}, InvalidEntry{}, InvalidEntry{},
				InvalidEntry{}, InvalidEntry{}, InvalidEntry{}, InvalidEntry{}),
			InvalidEntry{},
			rmgroup(direct(regs.FCHS), direct(regs.FABS), InvalidEntry{}, InvalidEntry{},
				direct(regs.FTST), direct(regs.FXAM), InvalidEntry{}, InvalidEntry{}),
			rmgroup(
				direct(regs.FLD1), direct(regs.FLDL2T), direct(regs.FLDL2E), direct(regs.FLDPI),
				direct(regs.FLDLG2), direct(regs.FLDLN2), direct(regs.FLDZ), InvalidEntry{},
			),
			rmgroup(
				direct(regs.F2XM1), direct(regs.FYL2X), direct(regs.FPTAN), direct(regs.FPATAN),
				direct(regs.FXTRACT), direct(regs.FPREM1), direct(regs.FDECSTP), direct(regs.FINCSTP),
			),
			rmgroup(
				direct(regs.FPREM), direct(regs.FYL2XP1), direct(regs.FSQRT), direct(regs.FSINCOS),
				direct(regs.FRNDINT), direct(regs.FSCALE), direct(regs.FSIN), direct(regs.FCOS),
			),
		),
		group(
			direct(regs.FLD, memOnly(regs.Md)),
			InvalidEntry{},
			direct(regs.FST, memOnly(regs.Md)),
			direct(regs.FSTP, memOnly(regs.Md)),
			direct(regs.FLDENV, memOnly(regs.FPEnvLow)),
			direct(regs.FLDCW, memOnly(regs.Mw)),
			direct(regs.FSTENV, memOnly(regs.FPEnvLow)),
			direct(regs.FSTCW, memOnly(regs.Mw)),
		),
	)
}

// populateDA covers the 32-bit integer arithmetic memory forms and the
// CF/ZF-predicated conditional moves (plus FUCOMPP, the lone no-operand
// RMGroup member).
func populateDA() Entry {
	return predMOD(
		group(
			direct(regs.FCMOVB, st0(), stN()), direct(regs.FCMOVE, st0(), stN()),
			direct(regs.FCMOVBE, st0(), stN()), direct(regs.FCMOVU, st0(), stN()),
			InvalidEntry{},
			rmgroup(InvalidEntry{}, direct(regs.FUCOMPP), InvalidEntry{}, InvalidEntry{},
				InvalidEntry{}, InvalidEntry{}, InvalidEntry{}, InvalidEntry{}),
			InvalidEntry{}, InvalidEntry{},
		),
		group(
			direct(regs.FIADD, memOnly(regs.Md)), direct(regs.FIMUL, memOnly(regs.Md)),
			direct(regs.FICOM, memOnly(regs.Md)), direct(regs.FICOMP, memOnly(regs.Md)),
			direct(regs.FISUB, memOnly(regs.Md)), direct(regs.FISUBR, memOnly(regs.Md)),
			direct(regs.FIDIV, memOnly(regs.Md)), direct(regs.FIDIVR, memOnly(regs.Md)),
		),
	)
}

// populateDB covers the 32-bit integer load/store memory forms (plus the
// Real10 FLD/FSTP pair sharing this opcode), the PF/unordered conditional
// moves, and FCLEX/FINIT/FUCOMI/FCOMI in the remaining RMGroup/Direct
// slots.
func populateDB() Entry {
	return predMOD(
		group(
			direct(regs.FCMOVNB, st0(), stN()), direct(regs.FCMOVNE, st0(), stN()),
			direct(regs.FCMOVNBE, st0(), stN()), direct(regs.FCMOVNU, st0(), stN()),
			rmgroup(InvalidEntry{}, InvalidEntry{}, direct(regs.FCLEX), direct(regs.FINIT),
				InvalidEntry{}, InvalidEntry{}, InvalidEntry{}, InvalidEntry{}),
			direct(regs.FUCOMI, st0(), stN()),
			direct(regs.FCOMI, st0(), stN()),
			InvalidEntry{},
		),
		group(
			direct(regs.FILD, memOnly(regs.Md)), direct(regs.FISTTP, memOnly(regs.Md)),
			direct(regs.FIST, memOnly(regs.Md)), direct(regs.FISTP, memOnly(regs.Md)),
			InvalidEntry{},
			direct(regs.FLD, memOnly(regs.Mt)),
			InvalidEntry{},
			direct(regs.FSTP, memOnly(regs.Mt)),
		),
	)
}

// populateDD covers the 64-bit float load/store memory forms (plus
// FRSTOR/FSAVE/FSTSW) and the register-only FFREE/FST/FSTP/FUCOM(P) block.
func populateDD() Entry {
	return predMOD(
		group(
			direct(regs.FFREE, stN()),
			InvalidEntry{},
			direct(regs.FST, stN()),
			direct(regs.FSTP, stN()),
			direct(regs.FUCOM, stN()),
			direct(regs.FUCOMP, stN()),
			InvalidEntry{}, InvalidEntry{},
		),
		group(
			direct(regs.FLD, memOnly(regs.Mq)),
			direct(regs.FISTTP, memOnly(regs.Mq)),
			direct(regs.FST, memOnly(regs.Mq)),
			direct(regs.FSTP, memOnly(regs.Mq)),
			direct(regs.FRSTOR, memOnly(regs.FPEnv)),
			InvalidEntry{},
			direct(regs.FSAVE, memOnly(regs.FPEnv)),
			direct(regs.FSTSW, memOnly(regs.Mw)),
		),
	)
}

// populateDE covers the 16-bit integer arithmetic memory forms and the
// pop-the-stack arithmetic register forms (plus FCOMPP, the lone
// no-operand RMGroup member).
func populateDE() Entry {
	return predMOD(
		group(
			direct(regs.FADDP, stN(), st0()), direct(regs.FMULP, stN(), st0()),
			InvalidEntry{},
			rmgroup(InvalidEntry{}, direct(regs.FCOMPP), InvalidEntry{}, InvalidEntry{},
				InvalidEntry{}, InvalidEntry{}, InvalidEntry{}, InvalidEntry{}),
			direct(regs.FSUBRP, stN(), st0()), direct(regs.FSUBP, stN(), st0()),
			direct(regs.FDIVRP, stN(), st0()), direct(regs.FDIVP, stN(), st0()),
		),
		group(
			direct(regs.FIADD, memOnly(regs.Mw)), direct(regs.FIMUL, memOnly(regs.Mw)),
			direct(regs.FICOM, memOnly(regs.Mw)), direct(regs.FICOMP, memOnly(regs.Mw)),
			direct(regs.FISUB, memOnly(regs.Mw)), direct(regs.FISUBR, memOnly(regs.Mw)),
			direct(regs.FIDIV, memOnly(regs.Mw)), direct(regs.FIDIVR, memOnly(regs.Mw)),
		),
	)
}

// populateDF covers the 16-bit integer load/store memory forms (plus the
// packed-BCD FBLD/FBSTP and the Real8 FILD/FISTP aliases sharing this
// opcode) and FSTSW AX / FUCOMIP / FCOMIP in the register form.
func populateDF() Entry {
	return predMOD(
		group(
			InvalidEntry{}, InvalidEntry{}, InvalidEntry{}, InvalidEntry{},
			rmgroup(direct(regs.FSTSW, exactAX()), InvalidEntry{}, InvalidEntry{}, InvalidEntry{},
				InvalidEntry{}, InvalidEntry{}, InvalidEntry{}, InvalidEntry{}),
			direct(regs.FUCOMIP, st0(), stN()),
			direct(regs.FCOMIP, st0(), stN()),
			InvalidEntry{},
		),
		group(
			direct(regs.FILD, memOnly(regs.Mw)), direct(regs.FISTTP, memOnly(regs.Mw)),
			direct(regs.FIST, memOnly(regs.Mw)), direct(regs.FISTP, memOnly(regs.Mw)),
			direct(regs.FBLD, memOnly(regs.Mt)), direct(regs.FILD, memOnly(regs.Mq)),
			direct(regs.FBSTP, memOnly(regs.Mt)), direct(regs.FISTP, memOnly(regs.Mq)),
		),
	)
}
