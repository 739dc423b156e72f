package regs

// MemSize is the closed set of memory-operand size tags. FPEnv, FPEnvLow
// and SimdState participate in the size-lenient carve-out described by the
// type checker (see pkg/aot): an AOTDL node built over one of them skips
// the size comparison entirely.
type MemSize uint8

const (
	Mb  MemSize = iota // byte
	Mw                 // word
	Md                 // dword
	Mf                 // far pointer (48-bit, seg:off32)
	Mq                 // quadword
	Mt                 // ten-byte (x87 80-bit memory operand)
	Mdq                // double-quadword (128-bit, SSE)

	// Size-lenient tags: the opcode alone doesn't fix the operand width.
	FPEnv    // x87 environment save area
	FPEnvLow // x87 environment save area, real-mode layout
	SimdState
)

var memSizeNames = [...]string{
	Mb: "BYTE", Mw: "WORD", Md: "DWORD", Mf: "FWORD", Mq: "QWORD", Mt: "TBYTE", Mdq: "XMMWORD",
	FPEnv: "FPENV", FPEnvLow: "FPENV", SimdState: "SIMDSTATE",
}

func (s MemSize) String() string { return memSizeNames[s] }

// Lenient reports whether the type checker must skip the size comparison
// for memory operands carrying this tag.
func (s MemSize) Lenient() bool {
	switch s {
	case FPEnv, FPEnvLow, SimdState:
		return true
	default:
		return false
	}
}

// Bytes returns the fixed byte width of a non-lenient size tag, or 0 if the
// tag is size-lenient (width is not determined by the tag alone).
func (s MemSize) Bytes() int {
	switch s {
	case Mb:
		return 1
	case Mw:
		return 2
	case Md:
		return 4
	case Mf:
		return 6
	case Mq:
		return 8
	case Mt:
		return 10
	case Mdq:
		return 16
	default:
		return 0
	}
}
