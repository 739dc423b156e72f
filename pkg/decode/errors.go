package decode

import "errors"

// ErrInvalidInstruction is returned for any byte sequence that does not
// decode to a well-formed instruction: length overflow, an Invalid table
// entry, or a malformed address expression.
var ErrInvalidInstruction = errors.New("invalid instruction")

// ErrInternalInvariantFailure indicates the interpreter reached a Fatal
// table entry. This should never occur in a correct implementation; it
// is not a user-facing decode failure.
var ErrInternalInvariantFailure = errors.New("internal invariant failure: reached a Fatal decode-table entry")
