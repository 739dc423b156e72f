package oracle

import (
	"math/rand/v2"

	"github.com/gima/x86codec/pkg/aot"
	"github.com/gima/x86codec/pkg/encode"
	"github.com/gima/x86codec/pkg/instr"
	"github.com/gima/x86codec/pkg/operand"
	"github.com/gima/x86codec/pkg/regs"
)

// GenInstruction synthesizes one random instruction whose operands
// type-check against a randomly chosen candidate of a randomly chosen
// mnemonic. A jump-family target is always placed a few bytes past addr,
// comfortably inside short-jump range, so the corpus's fixpoint check
// doesn't have to account for the near-form fallback — that boundary is
// already covered directly by pkg/encode's own unit tests.
//
// Each size- or address-prefixed operand picks its branch independently,
// so a drawn operand list can disagree on a prefix; such a draw, like a
// mnemonic with no candidates, is discarded and retried against a
// different mnemonic/candidate, a bounded number of times (64) before
// giving up.
func GenInstruction(rng *rand.Rand, addr uint32) (instr.Instruction, bool) {
	for attempt := 0; attempt < 64; attempt++ {
		m := regs.Mnemonic(rng.IntN(regs.Count()))
		cands := encode.Table[m]
		if len(cands) == 0 {
			continue
		}
		c := cands[rng.IntN(len(cands))]
		ops := make([]operand.Operand, len(c.AOTs))
		for i, node := range c.AOTs {
			ops[i] = randOperand(rng, node)
		}
		nearbyJumpTarget(rng, ops, addr)
		infos := make([]aot.TypeCheckInfo, len(ops))
		fits := true
		for i, node := range c.AOTs {
			info, ok := aot.Check(node, ops[i])
			fits = fits && ok
			infos[i] = info
		}
		if _, ok := aot.Reduce(infos); !fits || !ok {
			continue
		}
		return instr.Instruction{Mnemonic: m, Operands: ops}, true
	}
	return instr.Instruction{}, false
}

// nearbyJumpTarget replaces any JccTarget operand's placeholder value with
// one a handful of bytes past addr — always short-jump range regardless
// of which candidate ultimately matches.
func nearbyJumpTarget(rng *rand.Rand, ops []operand.Operand, addr uint32) {
	for i, op := range ops {
		if _, ok := op.(operand.JccTarget); ok {
			ops[i] = operand.JccTarget{Taken: addr + uint32(4+rng.IntN(40))}
		}
	}
}

// GenCorpus synthesizes n instructions at consecutive small addresses
// starting at 0 (addresses don't need to reflect real layout: the
// fixpoint check only cares that each instruction decodes back to an
// equal value relative to the address it was encoded at).
func GenCorpus(rng *rand.Rand, n int) []Case {
	cases := make([]Case, 0, n)
	for i := 0; i < n; i++ {
		addr := uint32(i) * 16
		ins, ok := GenInstruction(rng, addr)
		if !ok {
			continue
		}
		cases = append(cases, Case{Instruction: ins, Addr: addr})
	}
	return cases
}

// Case pairs an instruction with the address it should be encoded at.
type Case struct {
	Instruction instr.Instruction
	Addr        uint32
}
