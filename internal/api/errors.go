package api

import (
	"errors"
	"fmt"

	"github.com/cre8tar/c8r/internal/governance"
	"github.com/cre8tar/c8r/internal/ledger"
	"github.com/cre8tar/c8r/internal/nft"
	"github.com/cre8tar/c8r/internal/rewards"
	"github.com/cre8tar/c8r/internal/staking"
)

// Standard JSON-RPC error codes
const (
	ErrParseError     = -32700
	ErrInvalidRequest = -32600
	ErrMethodNotFound = -32601
	ErrInvalidParams  = -32602
	ErrInternalError  = -32603
	ErrServerError    = -32000
)

// Application error codes in the -32050..-32099 range. Every domain
// error maps to a distinct code so the UI can show a specific message;
// anything unmapped is infrastructure failure and reports ErrServerError.
var domainCodes = []struct {
	err  error
	code int
}{
	{ledger.ErrInvalidAmount, -32051},
	{staking.ErrInvalidPeriod, -32052},
	{governance.ErrInvalidCloseDate, -32053},
	{governance.ErrInvalidDirection, -32054},
	{nft.ErrInvalidName, -32055},
	{nft.ErrInvalidPrice, -32056},
	{ledger.ErrAccountNotFound, -32060},
	{ledger.ErrInsufficientBalance, -32061},
	{staking.ErrPositionLocked, -32062},
	{staking.ErrAlreadyCompleted, -32063},
	{staking.ErrPositionNotFound, -32064},
	{governance.ErrInsufficientVotingPower, -32065},
	{governance.ErrNoVotingPower, -32066},
	{governance.ErrProposalClosed, -32067},
	{governance.ErrAlreadyVoted, -32068},
	{governance.ErrProposalNotFound, -32069},
	{rewards.ErrTaskNotFound, -32070},
	{rewards.ErrTaskInactive, -32071},
	{rewards.ErrTaskAlreadyCompleted, -32072},
}

// paramsError marks a request whose payload failed boundary validation.
type paramsError struct {
	msg string
}

func (e *paramsError) Error() string {
	return e.msg
}

// invalidParamsf builds a boundary validation error
func invalidParamsf(format string, args ...interface{}) error {
	return &paramsError{msg: fmt.Sprintf(format, args...)}
}

// classify maps a handler error to a JSON-RPC error code and message.
// The bool reports whether the error was a known domain error.
func classify(err error) (int, string, bool) {
	var pe *paramsError
	if errors.As(err, &pe) {
		return ErrInvalidParams, pe.msg, true
	}
	for _, dc := range domainCodes {
		if errors.Is(err, dc.err) {
			return dc.code, dc.err.Error(), true
		}
	}
	return ErrServerError, "Server error", false
}
