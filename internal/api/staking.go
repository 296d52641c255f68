package api

import (
	"encoding/json"

	"github.com/gin-gonic/gin"

	"github.com/cre8tar/c8r/internal/auth"
	"github.com/cre8tar/c8r/internal/ledger"
	"github.com/cre8tar/c8r/internal/staking"
)

// StakingAPI exposes staking methods.
type StakingAPI struct {
	engine  *staking.Engine
	balance *ledger.Service
}

// NewStakingAPI creates a new staking API
func NewStakingAPI(engine *staking.Engine, balance *ledger.Service) *StakingAPI {
	return &StakingAPI{engine: engine, balance: balance}
}

// StakeParams is the payload for staking.stake
type StakeParams struct {
	Amount     int64 `json:"amount"`
	PeriodDays int   `json:"period_days"`
}

// UnstakeParams is the payload for staking.unstake
type UnstakeParams struct {
	PositionID string `json:"position_id"`
}

// Stake handles staking.stake
func (a *StakingAPI) Stake(c *gin.Context, params json.RawMessage) (interface{}, error) {
	accountID := auth.AccountID(c)

	var p StakeParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, invalidParamsf("invalid parameters format")
	}
	if p.Amount <= 0 {
		return nil, invalidParamsf("amount must be positive")
	}
	if p.PeriodDays <= 0 {
		return nil, invalidParamsf("period_days must be positive")
	}

	position, err := a.engine.Stake(c.Request.Context(), accountID, p.Amount, p.PeriodDays)
	if err != nil {
		return nil, err
	}

	return position, nil
}

// Unstake handles staking.unstake
func (a *StakingAPI) Unstake(c *gin.Context, params json.RawMessage) (interface{}, error) {
	accountID := auth.AccountID(c)

	var p UnstakeParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, invalidParamsf("invalid parameters format")
	}
	if p.PositionID == "" {
		return nil, invalidParamsf("missing required parameter: position_id")
	}

	position, err := a.engine.Unstake(c.Request.Context(), accountID, p.PositionID)
	if err != nil {
		return nil, err
	}

	return position, nil
}

// ListPositions handles staking.list_positions
func (a *StakingAPI) ListPositions(c *gin.Context, params json.RawMessage) (interface{}, error) {
	accountID := auth.AccountID(c)

	positions, err := a.engine.Positions(c.Request.Context(), accountID)
	if err != nil {
		return nil, err
	}

	return positions, nil
}

// GetOverview handles staking.get_overview
func (a *StakingAPI) GetOverview(c *gin.Context, params json.RawMessage) (interface{}, error) {
	accountID := auth.AccountID(c)
	ctx := c.Request.Context()

	balance, err := a.balance.Balance(ctx, accountID)
	if err != nil {
		return nil, err
	}
	totalStaked, err := a.engine.TotalStaked(ctx, accountID)
	if err != nil {
		return nil, err
	}

	return gin.H{
		"balance":      balance,
		"total_staked": totalStaked,
	}, nil
}
