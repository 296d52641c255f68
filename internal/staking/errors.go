package staking

import "errors"

// Domain errors for staking operations.
var (
	ErrInvalidPeriod    = errors.New("invalid staking period")
	ErrPositionLocked   = errors.New("staking position is still locked")
	ErrAlreadyCompleted = errors.New("staking position already completed")
	ErrPositionNotFound = errors.New("staking position not found")
)
