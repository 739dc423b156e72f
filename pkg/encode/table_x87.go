package encode

import "github.com/gima/x86codec/pkg/regs"

// populateX87 mirrors pkg/decode's table_x87.go opcode for opcode: each
// mnemonic gets one candidate per form (register ST(0)/ST(i) vs memory),
// sharing the same GGG digit across both, since the register/memory
// distinction is carried by the operand's own shape (stN is register-only,
// memOnly is memory-only) rather than by Force66/Force67.
func populateX87() {
	populateD8()
	populateD9()
	populateDADB()
	populateDC()
	populateDD()
	populateDE()
	populateDF()
}

func populateD8() {
	arith := []struct {
		m     regs.Mnemonic
		digit uint8
	}{
		{regs.FADD, 0}, {regs.FMUL, 1}, {regs.FCOM, 2}, {regs.FCOMP, 3},
		{regs.FSUB, 4}, {regs.FSUBR, 5}, {regs.FDIV, 6}, {regs.FDIVR, 7},
	}
	for _, a := range arith {
		add(a.m, candG([]byte{0xD8}, a.digit, st0(), stN()))
		add(a.m, candG([]byte{0xD8}, a.digit, st0(), memOnly(regs.Md)))
	}
}

func populateD9() {
	add(regs.FLD, candG([]byte{0xD9}, 0, st0(), stN()))
	add(regs.FLD, candG([]byte{0xD9}, 0, memOnly(regs.Md)))
	add(regs.FXCH, candG([]byte{0xD9}, 1, st0(), stN()))
	add(regs.FST, candG([]byte{0xD9}, 2, memOnly(regs.Md)))
	add(regs.FSTP, candG([]byte{0xD9}, 3, memOnly(regs.Md)))
	add(regs.FLDENV, candG([]byte{0xD9}, 4, memOnly(regs.FPEnvLow)))
	add(regs.FLDCW, candG([]byte{0xD9}, 5, memOnly(regs.Mw)))
	add(regs.FSTENV, candG([]byte{0xD9}, 6, memOnly(regs.FPEnvLow)))
	add(regs.FSTCW, candG([]byte{0xD9}, 7, memOnly(regs.Mw)))

	add(regs.FNOP, cand([]byte{0xD9, 0xD0}))

	add(regs.FCHS, cand([]byte{0xD9, 0xE0}))
	add(regs.FABS, cand([]byte{0xD9, 0xE1}))
	add(regs.FTST, cand([]byte{0xD9, 0xE4}))
	add(regs.FXAM, cand([]byte{0xD9, 0xE5}))

	add(regs.FLD1, cand([]byte{0xD9, 0xE8}))
	add(regs.FLDL2T, cand([]byte{0xD9, 0xE9}))
	add(regs.FLDL2E, cand([]byte{0xD9, 0xEA}))
	add(regs.FLDPI, cand([]byte{0xD9, 0xEB}))
	add(regs.FLDLG2, cand([]byte{0xD9, 0xEC}))
	add(regs.FLDLN2, cand([]byte{0xD9, 0xED}))
	add(regs.FLDZ, cand([]byte{0xD9, 0xEE}))

	add(regs.F2XM1, cand([]byte{0xD9, 0xF0}))
	add(regs.FYL2X, cand([]byte{0xD9, 0xF1}))
	add(regs.FPTAN, cand([]byte{0xD9, 0xF2}))
	add(regs.FPATAN, cand([]byte{0xD9, 0xF3}))
	add(regs.FXTRACT, cand([]byte{0xD9, 0xF4}))
	add(regs.FPREM1, cand([]byte{0xD9, 0xF5}))
	add(regs.FDECSTP, cand([]byte{0xD9, 0xF6}))
	add(regs.FINCSTP, cand([]byte{0xD9, 0xF7}))

	add(regs.FPREM, cand([]byte{0xD9, 0xF8}))
	add(regs.FYL2XP1, cand([]byte{0xD9, 0xF9}))
	add(regs.FSQRT, cand([]byte{0xD9, 0xFA}))
	add(regs.FSINCOS, cand([]byte{0xD9, 0xFB}))
	add(regs.FRNDINT, cand([]byte{0xD9, 0xFC}))
	add(regs.FSCALE, cand([]byte{0xD9, 0xFD}))
	add(regs.FSIN, cand([]byte{0xD9, 0xFE}))
	add(regs.FCOS, cand([]byte{0xD9, 0xFF}))
}

// populateDADB covers 0xDA (32-bit integer arithmetic, CF/ZF-predicated
// conditional moves, FUCOMPP) and 0xDB (32-bit integer load/store, Real10
// FLD/FSTP, PF/unordered conditional moves, FCLEX/FINIT/FUCOMI/FCOMI).
func populateDADB() {
	intArith := []struct {
		m     regs.Mnemonic
		digit uint8
	}{
		{regs.FIADD, 0}, {regs.FIMUL, 1}, {regs.FICOM, 2}, {regs.FICOMP, 3},
		{regs.FISUB, 4}, {regs.FISUBR, 5}, {regs.FIDIV, 6}, {regs.FIDIVR, 7},
	}
	for _, a := range intArith {
		add(a.m, candG([]byte{0xDA}, a.digit, memOnly(regs.Md)))
	}
	cmov := []struct {
		m     regs.Mnemonic
		digit uint8
	}{
		{regs.FCMOVB, 0}, {regs.FCMOVE, 1}, {regs.FCMOVBE, 2}, {regs.FCMOVU, 3},
	}
	for _, c := range cmov {
		add(c.m, candG([]byte{0xDA}, c.digit, st0(), stN()))
	}
	add(regs.FUCOMPP, cand([]byte{0xDA, 0xE9}))

	add(regs.FILD, candG([]byte{0xDB}, 0, memOnly(regs.Md)))
	add(regs.FISTTP, candG([]byte{0xDB}, 1, memOnly(regs.Md)))
	add(regs.FIST, candG([]byte{0xDB}, 2, memOnly(regs.Md)))
	add(regs.FISTP, candG([]byte{0xDB}, 3, memOnly(regs.Md)))
	add(regs.FLD, candG([]byte{0xDB}, 5, memOnly(regs.Mt)))
	add(regs.FSTP, candG([]byte{0xDB}, 7, memOnly(regs.Mt)))

	ncmov := []struct {
		m     regs.Mnemonic
		digit uint8
	}{
		{regs.FCMOVNB, 0}, {regs.FCMOVNE, 1}, {regs.FCMOVNBE, 2}, {regs.FCMOVNU, 3},
	}
	for _, c := range ncmov {
		add(c.m, candG([]byte{0xDB}, c.digit, st0(), stN()))
	}
	add(regs.FCLEX, cand([]byte{0xDB, 0xE2}))
	add(regs.FINIT, cand([]byte{0xDB, 0xE3}))
	add(regs.FUCOMI, candG([]byte{0xDB}, 5, st0(), stN()))
	add(regs.FCOMI, candG([]byte{0xDB}, 6, st0(), stN()))
}

func populateDC() {
	arith := []struct {
		m     regs.Mnemonic
		digit uint8
	}{
		{regs.FADD, 0}, {regs.FMUL, 1}, {regs.FCOM, 2}, {regs.FCOMP, 3},
		{regs.FSUB, 4}, {regs.FSUBR, 5}, {regs.FDIV, 6}, {regs.FDIVR, 7},
	}
	for _, a := range arith {
		add(a.m, candG([]byte{0xDC}, a.digit, st0(), memOnly(regs.Mq)))
	}
	reversed := []struct {
		m     regs.Mnemonic
		digit uint8
	}{
		{regs.FADD, 0}, {regs.FMUL, 1}, {regs.FSUB, 4}, {regs.FSUBR, 5},
		{regs.FDIV, 6}, {regs.FDIVR, 7},
	}
	for _, r := range reversed {
		add(r.m, candG([]byte{0xDC}, r.digit, stN(), st0()))
	}
}

func populateDD() {
	add(regs.FLD, candG([]byte{0xDD}, 0, memOnly(regs.Mq)))
	add(regs.FISTTP, candG([]byte{0xDD}, 1, memOnly(regs.Mq)))
	add(regs.FST, candG([]byte{0xDD}, 2, memOnly(regs.Mq)))
	add(regs.FSTP, candG([]byte{0xDD}, 3, memOnly(regs.Mq)))
	add(regs.FRSTOR, candG([]byte{0xDD}, 4, memOnly(regs.FPEnv)))
	add(regs.FSAVE, candG([]byte{0xDD}, 6, memOnly(regs.FPEnv)))
	add(regs.FSTSW, candG([]byte{0xDD}, 7, memOnly(regs.Mw)))

	add(regs.FFREE, candG([]byte{0xDD}, 0, stN()))
	add(regs.FST, candG([]byte{0xDD}, 2, stN()))
	add(regs.FSTP, candG([]byte{0xDD}, 3, stN()))
	add(regs.FUCOM, candG([]byte{0xDD}, 4, stN()))
	add(regs.FUCOMP, candG([]byte{0xDD}, 5, stN()))
}

func populateDE() {
	intArith := []struct {
		m     regs.Mnemonic
		digit uint8
	}{
		{regs.FIADD, 0}, {regs.FIMUL, 1}, {regs.FICOM, 2}, {regs.FICOMP, 3},
		{regs.FISUB, 4}, {regs.FISUBR, 5}, {regs.FIDIV, 6}, {regs.FIDIVR, 7},
	}
	for _, a := range intArith {
		add(a.m, candG([]byte{0xDE}, a.digit, memOnly(regs.Mw)))
	}
	pop := []struct {
		m     regs.Mnemonic
		digit uint8
	}{
		{regs.FADDP, 0}, {regs.FMULP, 1}, {regs.FSUBRP, 4}, {regs.FSUBP, 5},
		{regs.FDIVRP, 6}, {regs.FDIVP, 7},
	}
	for _, p := range pop {
		add(p.m, candG([]byte{0xDE}, p.digit, stN(), st0()))
	}
	add(regs.FCOMPP, cand([]byte{0xDE, 0xD9}))
}

func populateDF() {
	add(regs.FILD, candG([]byte{0xDF}, 0, memOnly(regs.Mw)))
	add(regs.FISTTP, candG([]byte{0xDF}, 1, memOnly(regs.Mw)))
	add(regs.FIST, candG([]byte{0xDF}, 2, memOnly(regs.Mw)))
	add(regs.FISTP, candG([]byte{0xDF}, 3, memOnly(regs.Mw)))
	add(regs.FBLD, candG([]byte{0xDF}, 4, memOnly(regs.Mt)))
	add(regs.FILD, candG([]byte{0xDF}, 5, memOnly(regs.Mq)))
	add(regs.FBSTP, candG([]byte{0xDF}, 6, memOnly(regs.Mt)))
	add(regs.FISTP, candG([]byte{0xDF}, 7, memOnly(regs.Mq)))

	add(regs.FSTSW, cand([]byte{0xDF, 0xE0}, exactAX()))
	add(regs.FUCOMIP, candG([]byte{0xDF}, 5, st0(), stN()))
	add(regs.FCOMIP, candG([]byte{0xDF}, 6, st0(), stN()))
}
