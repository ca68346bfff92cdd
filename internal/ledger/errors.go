package ledger

import "errors"

// Validation failures are terminal for the single operation and leave the
// ledger untouched. ErrPersistence additionally means an already-applied
// in-memory change was rolled back.
var (
	ErrInvalidRateFormat   = errors.New("invalid rate format")
	ErrInvalidAmountFormat = errors.New("invalid amount format")
	ErrMissingArgument     = errors.New("missing argument")
	ErrPersistence         = errors.New("persistence failure")
	ErrNotFound            = errors.New("ledger log not found")
)
