package oracle

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gima/x86codec/pkg/instr"
	"github.com/gima/x86codec/pkg/operand"
	"github.com/gima/x86codec/pkg/regs"
)

func TestGenInstructionProducesValidMnemonic(t *testing.T) {
	rng := NewRNG(1)
	for i := 0; i < 500; i++ {
		ins, ok := GenInstruction(rng, uint32(i)*16)
		if !ok {
			t.Fatalf("GenInstruction: every mnemonic table came back empty at iteration %d", i)
		}
		if ins.Mnemonic == regs.MnemInvalid {
			t.Errorf("GenInstruction produced MnemInvalid")
		}
	}
}

// A few hundred random instructions should all round-trip through
// Encode then Decode to an equal Instruction.
func TestFixpointOnRandomCorpus(t *testing.T) {
	rng := NewRNG(42)
	corpus := GenCorpus(rng, 400)
	if len(corpus) == 0 {
		t.Fatal("GenCorpus produced nothing")
	}
	for _, c := range corpus {
		res := Check(c)
		if res.Err != nil {
			t.Errorf("Check(%s): %v", c.Instruction.String(), res.Err)
			continue
		}
		if !res.OK {
			t.Errorf("Check(%s) at %#x: round trip mismatch, got %s (% X)",
				c.Instruction.String(), c.Addr, res.Decoded.String(), res.Encoded)
		}
	}
}

func TestWorkerPoolChecksWholeCorpus(t *testing.T) {
	rng := NewRNG(7)
	corpus := GenCorpus(rng, 200)

	wp := NewWorkerPool(4)
	wp.RunCorpus(corpus, false)

	checked, failed := wp.Stats()
	if int(checked) != len(corpus) {
		t.Errorf("checked = %d, want %d", checked, len(corpus))
	}
	if failed != 0 {
		for _, f := range wp.Failures() {
			t.Errorf("failure: %s at %#x: %v", f.Case.Instruction.String(), f.Case.Addr, f.Err)
		}
	}
}

func TestModRMRoundTripOnGeneratedShapes(t *testing.T) {
	rng := NewRNG(9)
	for i := 0; i < 300; i++ {
		m := randMem32(rng, regs.Md)
		ok, err := ModRMRoundTrip(m, uint8(i%8))
		if err != nil {
			t.Errorf("ModRMRoundTrip(%+v): %v", m, err)
			continue
		}
		if !ok {
			t.Errorf("ModRMRoundTrip(%+v): mismatch after round trip", m)
		}
	}
}

func TestCorpusSaveLoadRoundTrip(t *testing.T) {
	rng := NewRNG(123)
	corpus := GenCorpus(rng, 50)

	path := filepath.Join(t.TempDir(), "corpus.gob")
	if err := SaveCorpus(path, corpus); err != nil {
		t.Fatalf("SaveCorpus: %v", err)
	}
	got, err := LoadCorpus(path)
	if err != nil {
		t.Fatalf("LoadCorpus: %v", err)
	}
	if len(got) != len(corpus) {
		t.Fatalf("LoadCorpus returned %d cases, want %d", len(got), len(corpus))
	}
	for i := range corpus {
		if !instr.Equal(got[i].Instruction, corpus[i].Instruction) || got[i].Addr != corpus[i].Addr {
			t.Errorf("case %d: round trip through gob changed %s, got %s",
				i, corpus[i].Instruction.String(), got[i].Instruction.String())
		}
	}
}

func TestLoadCorpusMissingFile(t *testing.T) {
	if _, err := LoadCorpus(filepath.Join(os.TempDir(), "does-not-exist-x86codec-corpus.gob")); err == nil {
		t.Fatal("LoadCorpus(missing file) = nil error, want failure")
	}
}

// A JccTarget placeholder from randImmEnc must never leak into a
// generated instruction: nearbyJumpTarget always overwrites it.
func TestNearbyJumpTargetOverwritesPlaceholder(t *testing.T) {
	rng := NewRNG(5)
	ops := []operand.Operand{operand.JccTarget{Taken: 0}}
	nearbyJumpTarget(rng, ops, 1000)
	got := ops[0].(operand.JccTarget)
	if got.Taken <= 1000 || got.Taken > 1043 {
		t.Errorf("Taken = %#x, want something in (1000, 1043]", got.Taken)
	}
}
