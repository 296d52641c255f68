package api

import (
	"encoding/json"

	"github.com/gin-gonic/gin"

	"github.com/cre8tar/c8r/internal/auth"
	"github.com/cre8tar/c8r/internal/ledger"
)

// LedgerAPI exposes balance and transaction history methods.
type LedgerAPI struct {
	balance *ledger.Service
}

// NewLedgerAPI creates a new ledger API
func NewLedgerAPI(balance *ledger.Service) *LedgerAPI {
	return &LedgerAPI{balance: balance}
}

// HistoryParams is the payload for ledger.get_history
type HistoryParams struct {
	Limit int `json:"limit"`
}

// CreateAccount handles ledger.create_account. Called once at signup;
// repeat calls return the existing account.
func (a *LedgerAPI) CreateAccount(c *gin.Context, params json.RawMessage) (interface{}, error) {
	accountID := auth.AccountID(c)

	account, err := a.balance.CreateAccount(c.Request.Context(), accountID)
	if err != nil {
		return nil, err
	}

	return account, nil
}

// GetBalance handles ledger.get_balance
func (a *LedgerAPI) GetBalance(c *gin.Context, params json.RawMessage) (interface{}, error) {
	accountID := auth.AccountID(c)

	balance, err := a.balance.Balance(c.Request.Context(), accountID)
	if err != nil {
		return nil, err
	}

	return gin.H{"balance": balance}, nil
}

// GetHistory handles ledger.get_history
func (a *LedgerAPI) GetHistory(c *gin.Context, params json.RawMessage) (interface{}, error) {
	accountID := auth.AccountID(c)

	var p HistoryParams
	if len(params) > 0 {
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, invalidParamsf("invalid parameters format")
		}
	}

	entries, err := a.balance.History(c.Request.Context(), accountID, p.Limit)
	if err != nil {
		return nil, err
	}

	return entries, nil
}
