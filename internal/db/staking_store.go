package db

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/cre8tar/c8r/internal/models"
	"github.com/cre8tar/c8r/internal/staking"
)

// StakingStore implements staking.Store on PostgreSQL.
type StakingStore struct {
	db *gorm.DB
}

// NewStakingStore creates a new staking store
func NewStakingStore(database *DB) *StakingStore {
	return &StakingStore{db: database.DB}
}

// OpenPosition debits the principal and inserts the position in one
// transaction. A failed debit aborts before any position row exists.
func (s *StakingStore) OpenPosition(ctx context.Context, position *models.StakingPosition, description string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := debitTx(tx, position.AccountID, position.Principal, models.EntryKindStake, description); err != nil {
			return err
		}
		return tx.Create(position).Error
	})
}

// ClosePosition flips the position from active to completed and
// credits principal and rewards back in one transaction. The status
// flip is conditional, so a concurrent double unstake settles once.
func (s *StakingStore) ClosePosition(ctx context.Context, position *models.StakingPosition, rewards int64, principalDesc, rewardsDesc string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.StakingPosition{}).
			Where("id = ? AND status = ?", position.ID, models.PositionActive).
			Updates(map[string]interface{}{
				"status":         models.PositionCompleted,
				"rewards_earned": rewards,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return staking.ErrAlreadyCompleted
		}

		if _, err := creditTx(tx, position.AccountID, position.Principal, models.EntryKindUnstake, principalDesc); err != nil {
			return err
		}
		if rewards > 0 {
			if _, err := creditTx(tx, position.AccountID, rewards, models.EntryKindEarning, rewardsDesc); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetPosition retrieves a staking position by id
func (s *StakingStore) GetPosition(ctx context.Context, id string) (*models.StakingPosition, error) {
	var position models.StakingPosition
	if err := s.db.WithContext(ctx).First(&position, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &position, nil
}

// PositionsByAccount retrieves an account's positions, newest first
func (s *StakingStore) PositionsByAccount(ctx context.Context, accountID string) ([]*models.StakingPosition, error) {
	var positions []*models.StakingPosition
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", accountID).
		Order("created_at DESC").
		Find(&positions).Error; err != nil {
		return nil, err
	}
	return positions, nil
}

// TotalStaked sums principal over an account's active positions
func (s *StakingStore) TotalStaked(ctx context.Context, accountID string) (int64, error) {
	var total int64
	err := s.db.WithContext(ctx).
		Model(&models.StakingPosition{}).
		Where("user_id = ? AND status = ?", accountID, models.PositionActive).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}
