package encode

import "errors"

// ErrInvalidInstruction is the API-boundary error: no registered candidate
// for the instruction's mnemonic type-checked against its operand tuple.
var ErrInvalidInstruction = errors.New("encode: no candidate encoding matches the given operands")

// ErrInternalInvariantFailure marks a state this package's own invariants
// say should be unreachable (a matched RegOrMemNode with no corresponding
// concrete r/m operand). Seeing it means the candidate table is wrong, not
// that the caller gave bad input.
var ErrInternalInvariantFailure = errors.New("encode: internal invariant failure")
