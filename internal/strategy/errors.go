package strategy

import "errors"

// Validation failures. All are terminal for a single evaluation and are
// returned wrapped, so callers should test them with errors.Is.
var (
	ErrEmptySeries       = errors.New("price series has no observations")
	ErrInvalidCapital    = errors.New("capital must be positive")
	ErrInvalidEntryPrice = errors.New("entry price must be positive")
	ErrDivisionByZero    = errors.New("quote is zero")
)
