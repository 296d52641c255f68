package db

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cre8tar/c8r/internal/ledger"
	"github.com/cre8tar/c8r/internal/models"
)

// LedgerStore implements ledger.Store on PostgreSQL.
type LedgerStore struct {
	db *gorm.DB
}

// NewLedgerStore creates a new ledger store
func NewLedgerStore(database *DB) *LedgerStore {
	return &LedgerStore{db: database.DB}
}

// GetAccount retrieves an account by its user id
func (s *LedgerStore) GetAccount(ctx context.Context, accountID string) (*models.Account, error) {
	var account models.Account
	if err := s.db.WithContext(ctx).Where("user_id = ?", accountID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

// CreateAccount creates a new account row. Re-creating an existing
// account is a no-op, so signup retries are safe.
func (s *LedgerStore) CreateAccount(ctx context.Context, account *models.Account) error {
	now := time.Now().UTC()
	account.CreatedAt = now
	account.UpdatedAt = now
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).
		Create(account).Error
}

// Credit increases the balance and appends the entry in one transaction.
func (s *LedgerStore) Credit(ctx context.Context, accountID string, amount int64, kind, description string) (*models.LedgerEntry, error) {
	var entry *models.LedgerEntry
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		entry, err = creditTx(tx, accountID, amount, kind, description)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Debit decreases the balance and appends the entry in one transaction.
// The balance check is part of the conditional update, so concurrent
// debits cannot both spend the same funds.
func (s *LedgerStore) Debit(ctx context.Context, accountID string, amount int64, kind, description string) (*models.LedgerEntry, error) {
	var entry *models.LedgerEntry
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		entry, err = debitTx(tx, accountID, amount, kind, description)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Entries retrieves an account's ledger entries, newest first
func (s *LedgerStore) Entries(ctx context.Context, accountID string, limit int) ([]*models.LedgerEntry, error) {
	var entries []*models.LedgerEntry
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", accountID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// SumDeltas returns the running sum of entry deltas for an account
func (s *LedgerStore) SumDeltas(ctx context.Context, accountID string) (int64, error) {
	var sum int64
	err := s.db.WithContext(ctx).
		Model(&models.LedgerEntry{}).
		Where("user_id = ?", accountID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error
	return sum, err
}

// creditTx applies a credit inside an open transaction. Shared by the
// ledger, staking and rewards stores.
func creditTx(tx *gorm.DB, accountID string, amount int64, kind, description string) (*models.LedgerEntry, error) {
	res := tx.Model(&models.Account{}).
		Where("user_id = ?", accountID).
		Updates(map[string]interface{}{
			"c8r_balance": gorm.Expr("c8r_balance + ?", amount),
			"updated_at":  time.Now().UTC(),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ledger.ErrAccountNotFound
	}

	entry := &models.LedgerEntry{
		ID:          uuid.NewString(),
		AccountID:   accountID,
		Delta:       amount,
		Kind:        kind,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}
	if err := tx.Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

// debitTx applies a debit inside an open transaction. The conditional
// update serializes the check-then-write per account.
func debitTx(tx *gorm.DB, accountID string, amount int64, kind, description string) (*models.LedgerEntry, error) {
	res := tx.Model(&models.Account{}).
		Where("user_id = ? AND c8r_balance >= ?", accountID, amount).
		Updates(map[string]interface{}{
			"c8r_balance": gorm.Expr("c8r_balance - ?", amount),
			"updated_at":  time.Now().UTC(),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// Distinguish a missing account from a short balance.
		var count int64
		if err := tx.Model(&models.Account{}).Where("user_id = ?", accountID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, ledger.ErrAccountNotFound
		}
		return nil, ledger.ErrInsufficientBalance
	}

	entry := &models.LedgerEntry{
		ID:          uuid.NewString(),
		AccountID:   accountID,
		Delta:       -amount,
		Kind:        kind,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}
	if err := tx.Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}
