package governance

import "errors"

// Domain errors for governance operations.
var (
	ErrInsufficientVotingPower = errors.New("insufficient voting power to create proposals")
	ErrInvalidCloseDate        = errors.New("close date must be in the future")
	ErrProposalNotFound        = errors.New("proposal not found")
	ErrProposalClosed          = errors.New("proposal voting has closed")
	ErrAlreadyVoted            = errors.New("already voted on this proposal")
	ErrNoVotingPower           = errors.New("no staked tokens to vote with")
	ErrInvalidDirection        = errors.New("vote direction must be for or against")
)
