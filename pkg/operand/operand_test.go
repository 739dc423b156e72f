package operand

import (
	"testing"

	"github.com/gima/x86codec/pkg/regs"
)

func TestEqualSameValue(t *testing.T) {
	a := R32(regs.EAX)
	b := R32(regs.EAX)
	if !Equal(a, b) {
		t.Error("identical Reg32 operands should be equal")
	}
}

func TestEqualDifferentValue(t *testing.T) {
	if Equal(R32(regs.EAX), R32(regs.ECX)) {
		t.Error("EAX and ECX should not be equal")
	}
}

func TestEqualDifferentKind(t *testing.T) {
	if Equal(R32(regs.EAX), I32(0)) {
		t.Error("a register and an immediate should never be equal")
	}
}

func TestMem32DefaultSeg(t *testing.T) {
	m := Mem32Simple(regs.Md, true, regs.ESP, false, 0, 0, false, 0)
	if m.DefaultSeg() != regs.SS {
		t.Errorf("ESP-based memory should default to SS, got %v", m.DefaultSeg())
	}
	m2 := Mem32Simple(regs.Md, true, regs.EAX, false, 0, 0, false, 0)
	if m2.DefaultSeg() != regs.DS {
		t.Errorf("EAX-based memory should default to DS, got %v", m2.DefaultSeg())
	}
}

func TestMem16DefaultSeg(t *testing.T) {
	m := Mem16Simple(regs.Mw, true, regs.BP, false, 0, false, 0)
	if m.DefaultSeg() != regs.SS {
		t.Errorf("BP-based memory should default to SS, got %v", m.DefaultSeg())
	}
}

func TestMemStringRendering(t *testing.T) {
	m := Mem32Simple(regs.Md, true, regs.EAX, true, regs.ECX, 2, true, 0x10)
	got := m.String()
	want := "DWORD PTR ds:[eax+ecx*4+0x00000010]"
	if got != want {
		t.Errorf("Mem32.String() = %q, want %q", got, want)
	}
}
