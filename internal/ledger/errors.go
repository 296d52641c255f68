package ledger

import "errors"

// Domain errors surfaced to callers. These are expected, recoverable
// conditions; anything else coming out of the store is infrastructure
// failure and must be propagated untouched.
var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidAmount       = errors.New("amount must be positive")
)
