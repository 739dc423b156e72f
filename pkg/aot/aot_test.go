package aot

import (
	"testing"

	"github.com/gima/x86codec/pkg/operand"
	"github.com/gima/x86codec/pkg/regs"
)

func TestExactNode(t *testing.T) {
	n := ExactNode{Value: operand.R8(regs.AL)}
	if _, ok := Check(n, operand.R8(regs.AL)); !ok {
		t.Error("AL should match Exact(AL)")
	}
	if _, ok := Check(n, operand.R8(regs.CL)); ok {
		t.Error("CL should not match Exact(AL)")
	}
}

func TestGPartNode(t *testing.T) {
	n := GPartNode{Archetype: ClassR32}
	if _, ok := Check(n, operand.R32(regs.ECX)); !ok {
		t.Error("any Reg32 should match GPart(ClassR32)")
	}
	if _, ok := Check(n, operand.R16(regs.CX)); ok {
		t.Error("Reg16 should not match GPart(ClassR32)")
	}
}

func TestRegOrMemRegisterBranch(t *testing.T) {
	n := RegOrMemNode{HasReg: true, RegClass: ClassR32, HasMem: true, MemSize: regs.Md}
	info, ok := Check(n, operand.R32(regs.EBX))
	if !ok {
		t.Fatal("EBX should match the register branch")
	}
	if info.AddrOverride != nil {
		t.Error("register branch should not report an address override")
	}
}

func TestRegOrMemMemoryBranchAddrOverride(t *testing.T) {
	n := RegOrMemNode{HasMem: true, MemSize: regs.Md}
	m32 := operand.Mem32Simple(regs.Md, true, regs.EAX, false, 0, 0, false, 0)
	info, ok := Check(n, m32)
	if !ok || info.AddrOverride == nil || *info.AddrOverride != false {
		t.Fatalf("Mem32 should report AddrOverride=false, got %+v ok=%v", info, ok)
	}

	m16 := operand.Mem16Simple(regs.Md, true, regs.SI, false, 0, false, 0)
	info2, ok2 := Check(n, m16)
	if !ok2 || info2.AddrOverride == nil || *info2.AddrOverride != true {
		t.Fatalf("Mem16 should report AddrOverride=true, got %+v ok=%v", info2, ok2)
	}
}

func TestRegOrMemSegOverride(t *testing.T) {
	n := RegOrMemNode{HasMem: true, MemSize: regs.Md}
	m := operand.Mem32Simple(regs.Md, true, regs.EAX, false, 0, 0, false, 0)
	m.Seg = regs.FS // non-default segment
	info, ok := Check(n, m)
	if !ok || info.SegOverride == nil || *info.SegOverride != regs.FS {
		t.Fatalf("expected SegOverride=FS, got %+v ok=%v", info, ok)
	}
}

func TestSizeLenientSkipsSizeCheck(t *testing.T) {
	n := RegOrMemNode{HasMem: true, MemSize: regs.SimdState}
	m := operand.Mem32Simple(regs.Mdq, true, regs.EAX, false, 0, 0, false, 0)
	if _, ok := Check(n, m); !ok {
		t.Error("a size-lenient node must match regardless of the memory's own size tag")
	}
}

func TestSizePrefixNode(t *testing.T) {
	n := SizePrefixNode{
		Yes: ImmEncNode{Archetype: ArchIw},
		No:  ImmEncNode{Archetype: ArchId},
	}
	info, ok := Check(n, operand.I16(0x1234))
	if !ok || info.SizeOverride == nil || *info.SizeOverride != true {
		t.Fatalf("Imm16 should match the Yes branch with SizeOverride=true, got %+v ok=%v", info, ok)
	}
	info2, ok2 := Check(n, operand.I32(0x12345678))
	if !ok2 || info2.SizeOverride == nil || *info2.SizeOverride != false {
		t.Fatalf("Imm32 should match the No branch with SizeOverride=false, got %+v ok=%v", info2, ok2)
	}
}

func TestSignedImmFitsRange(t *testing.T) {
	n := SignedImmNode{Archetype: ArchId}
	if _, ok := Check(n, operand.I32(0x7F)); !ok {
		t.Error("0x7F should fit a sign-extended imm8")
	}
	if _, ok := Check(n, operand.I32(0xFFFFFFFF)); !ok {
		t.Error("-1 (0xFFFFFFFF) should fit a sign-extended imm8")
	}
	if _, ok := Check(n, operand.I32(0x100)); ok {
		t.Error("0x100 should not fit a sign-extended imm8")
	}
}

func TestReduceConflict(t *testing.T) {
	a := TypeCheckInfo{SizeOverride: boolPtr(true)}
	b := TypeCheckInfo{SizeOverride: boolPtr(false)}
	if _, ok := Reduce([]TypeCheckInfo{a, b}); ok {
		t.Error("conflicting SizeOverride fields should fail Reduce")
	}
}

func TestReduceAgreement(t *testing.T) {
	a := TypeCheckInfo{SizeOverride: boolPtr(true)}
	b := TypeCheckInfo{SizeOverride: boolPtr(true), SegOverride: func() *regs.Seg { s := regs.FS; return &s }()}
	out, ok := Reduce([]TypeCheckInfo{a, b})
	if !ok || out.SizeOverride == nil || *out.SizeOverride != true || out.SegOverride == nil || *out.SegOverride != regs.FS {
		t.Fatalf("expected merged info, got %+v ok=%v", out, ok)
	}
}

func TestExactSegMatchesOverriddenSegment(t *testing.T) {
	canonical := operand.Mem32Simple(regs.Md, true, regs.ESI, false, 0, 0, false, 0) // defaults to DS
	n := ExactSegNode{Value: canonical}

	if _, ok := Check(n, canonical); !ok {
		t.Error("the canonical (default-segment) shape should match")
	}

	overridden := canonical
	overridden.Seg = regs.GS
	info, ok := Check(n, overridden)
	if !ok || info.SegOverride == nil || *info.SegOverride != regs.GS {
		t.Fatalf("a segment-overridden but otherwise identical memory shape should match with SegOverride=GS, got %+v ok=%v", info, ok)
	}
}
