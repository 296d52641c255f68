package db

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/cre8tar/c8r/internal/models"
	"github.com/cre8tar/c8r/internal/rewards"
)

// RewardsStore implements rewards.Store on PostgreSQL.
type RewardsStore struct {
	db *gorm.DB
}

// NewRewardsStore creates a new rewards store
func NewRewardsStore(database *DB) *RewardsStore {
	return &RewardsStore{db: database.DB}
}

// GetTask retrieves a task by id
func (s *RewardsStore) GetTask(ctx context.Context, id string) (*models.Task, error) {
	var task models.Task
	if err := s.db.WithContext(ctx).First(&task, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &task, nil
}

// ListActiveTasks retrieves active tasks, highest reward first
func (s *RewardsStore) ListActiveTasks(ctx context.Context) ([]*models.Task, error) {
	var tasks []*models.Task
	if err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("reward_amount DESC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// CompleteTask records the completion and credits the reward in one
// transaction. The credit runs first: its UPDATE locks the account
// row, so concurrent completions for one account serialize there and
// the loser's NOT EXISTS check re-evaluates against the committed
// completion (statement snapshots under READ COMMITTED would otherwise
// let both conditional inserts pass). A failed insert rolls the credit
// back. A zero window means once ever; a positive window means once
// per window.
func (s *RewardsStore) CompleteTask(ctx context.Context, task *models.Task, accountID string, window time.Duration, description string) (*models.TaskCompletion, error) {
	completedAt := time.Now().UTC()
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := creditTx(tx, accountID, task.RewardAmount, models.EntryKindReward, description); err != nil {
			return err
		}

		var res *gorm.DB
		if window > 0 {
			cutoff := completedAt.Add(-window)
			res = tx.Exec(
				`INSERT INTO user_tasks (task_id, user_id, completed_at)
				 SELECT ?, ?, ?
				 WHERE NOT EXISTS (
				     SELECT 1 FROM user_tasks
				     WHERE task_id = ? AND user_id = ? AND completed_at > ?)`,
				task.ID, accountID, completedAt, task.ID, accountID, cutoff)
		} else {
			res = tx.Exec(
				`INSERT INTO user_tasks (task_id, user_id, completed_at)
				 SELECT ?, ?, ?
				 WHERE NOT EXISTS (
				     SELECT 1 FROM user_tasks
				     WHERE task_id = ? AND user_id = ?)`,
				task.ID, accountID, completedAt, task.ID, accountID)
		}
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Rolls back the credit above.
			return rewards.ErrTaskAlreadyCompleted
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &models.TaskCompletion{
		TaskID:      task.ID,
		AccountID:   accountID,
		CompletedAt: completedAt,
	}, nil
}

// CompletionsByAccount retrieves an account's task completions
func (s *RewardsStore) CompletionsByAccount(ctx context.Context, accountID string) ([]*models.TaskCompletion, error) {
	var completions []*models.TaskCompletion
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", accountID).
		Order("completed_at DESC").
		Find(&completions).Error; err != nil {
		return nil, err
	}
	return completions, nil
}
