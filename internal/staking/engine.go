package staking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cre8tar/c8r/internal/ledger"
	"github.com/cre8tar/c8r/internal/models"
	"github.com/cre8tar/c8r/pkg/logging"
	"github.com/cre8tar/c8r/pkg/telemetry"
)

// apySchedule maps allowed staking periods (days) to APY in basis
// points. Any other period is rejected.
var apySchedule = map[int]int{
	30:  800,
	90:  1200,
	180: 1800,
	365: 2500,
}

// Store is the persistence contract for staking positions. OpenPosition
// debits the principal and inserts the position in one transaction;
// ClosePosition flips status active to completed and credits principal
// plus rewards in one transaction. Both fail without partial effects.
type Store interface {
	OpenPosition(ctx context.Context, position *models.StakingPosition, description string) error
	ClosePosition(ctx context.Context, position *models.StakingPosition, rewards int64, principalDesc, rewardsDesc string) error
	GetPosition(ctx context.Context, id string) (*models.StakingPosition, error)
	PositionsByAccount(ctx context.Context, accountID string) ([]*models.StakingPosition, error)
	TotalStaked(ctx context.Context, accountID string) (int64, error)
}

// Engine creates, locks and unlocks staking positions and computes
// accrued rewards.
type Engine struct {
	store  Store
	now    func() time.Time
	logger *zap.Logger
}

// NewEngine creates a new staking engine
func NewEngine(store Store) *Engine {
	return &Engine{
		store:  store,
		now:    func() time.Time { return time.Now().UTC() },
		logger: logging.WithComponent("staking"),
	}
}

// APYForPeriod resolves the APY in basis points for a staking period.
func APYForPeriod(periodDays int) (int, error) {
	apy, ok := apySchedule[periodDays]
	if !ok {
		return 0, ErrInvalidPeriod
	}
	return apy, nil
}

// Stake locks amount for periodDays. The principal is debited from the
// account atomically with the position insert; a failed debit aborts
// the stake before any position exists.
func (e *Engine) Stake(ctx context.Context, accountID string, amount int64, periodDays int) (*models.StakingPosition, error) {
	ctx, span := telemetry.StartSpan(ctx, "staking.stake")
	defer span.End()

	if amount <= 0 {
		return nil, ledger.ErrInvalidAmount
	}
	apy, err := APYForPeriod(periodDays)
	if err != nil {
		return nil, err
	}

	now := e.now()
	position := &models.StakingPosition{
		ID:         uuid.NewString(),
		AccountID:  accountID,
		Principal:  amount,
		APYBps:     apy,
		StartTime:  now,
		UnlockTime: now.AddDate(0, 0, periodDays),
		Status:     models.PositionActive,
		CreatedAt:  now,
	}

	description := fmt.Sprintf("Staked %d $C8R for %d days", amount, periodDays)
	if err := e.store.OpenPosition(ctx, position, description); err != nil {
		return nil, err
	}

	e.logger.Info("Opened staking position",
		zap.String("position_id", position.ID),
		zap.String("account_id", accountID),
		zap.Int64("principal", amount),
		zap.Int("period_days", periodDays),
		zap.Int("apy_bps", apy))

	return position, nil
}

// Unstake completes a position past its unlock time, crediting the
// principal and the accrued rewards back to the account.
func (e *Engine) Unstake(ctx context.Context, accountID, positionID string) (*models.StakingPosition, error) {
	ctx, span := telemetry.StartSpan(ctx, "staking.unstake")
	defer span.End()

	position, err := e.store.GetPosition(ctx, positionID)
	if err != nil {
		return nil, err
	}
	if position == nil || position.AccountID != accountID {
		return nil, ErrPositionNotFound
	}
	if position.Status == models.PositionCompleted {
		return nil, ErrAlreadyCompleted
	}

	now := e.now()
	if now.Before(position.UnlockTime) {
		return nil, ErrPositionLocked
	}

	rewards := Rewards(position.Principal, position.APYBps, position.StartTime, now)

	principalDesc := fmt.Sprintf("Unstaked %d $C8R", position.Principal)
	rewardsDesc := fmt.Sprintf("Staking rewards for %d $C8R position", position.Principal)
	if err := e.store.ClosePosition(ctx, position, rewards, principalDesc, rewardsDesc); err != nil {
		return nil, err
	}

	position.Status = models.PositionCompleted
	position.RewardsEarned = rewards

	e.logger.Info("Closed staking position",
		zap.String("position_id", position.ID),
		zap.String("account_id", accountID),
		zap.Int64("principal", position.Principal),
		zap.Int64("rewards", rewards))

	return position, nil
}

// Rewards computes accrued staking rewards with integer floor:
// principal * apy_bps/10000 * elapsed_days/365, where elapsed_days is
// the number of whole days between start and now. Uses the position's
// own APY rather than re-deriving one from a fixed period.
func Rewards(principal int64, apyBps int, start, now time.Time) int64 {
	if now.Before(start) {
		return 0
	}
	elapsedDays := int64(now.Sub(start) / (24 * time.Hour))
	return principal * int64(apyBps) * elapsedDays / (10000 * 365)
}

// Positions lists an account's staking positions, newest first.
func (e *Engine) Positions(ctx context.Context, accountID string) ([]*models.StakingPosition, error) {
	return e.store.PositionsByAccount(ctx, accountID)
}

// TotalStaked returns the sum of principal over an account's active
// positions. This is the account's governance voting power.
func (e *Engine) TotalStaked(ctx context.Context, accountID string) (int64, error) {
	return e.store.TotalStaked(ctx, accountID)
}
