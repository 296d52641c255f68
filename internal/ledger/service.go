package ledger

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cre8tar/c8r/internal/models"
	"github.com/cre8tar/c8r/pkg/logging"
	"github.com/cre8tar/c8r/pkg/telemetry"
)

// Store is the persistence contract the balance service runs on.
// Credit and Debit must be atomic: the balance change and the entry
// append happen together or not at all, and Debit's balance check and
// write must not be observable as separate steps.
type Store interface {
	GetAccount(ctx context.Context, accountID string) (*models.Account, error)
	CreateAccount(ctx context.Context, account *models.Account) error
	Credit(ctx context.Context, accountID string, amount int64, kind, description string) (*models.LedgerEntry, error)
	Debit(ctx context.Context, accountID string, amount int64, kind, description string) (*models.LedgerEntry, error)
	Entries(ctx context.Context, accountID string, limit int) ([]*models.LedgerEntry, error)
	SumDeltas(ctx context.Context, accountID string) (int64, error)
}

// Service exposes atomic debit/credit operations over the ledger store.
type Service struct {
	store  Store
	logger *zap.Logger
}

// NewService creates a new balance service
func NewService(store Store) *Service {
	return &Service{
		store:  store,
		logger: logging.WithComponent("ledger"),
	}
}

// CreateAccount registers a new account with a zero balance. Creating
// an account that already exists returns the existing one unchanged.
func (s *Service) CreateAccount(ctx context.Context, accountID string) (*models.Account, error) {
	account := &models.Account{UserID: accountID}
	if err := s.store.CreateAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	// Read back so a retried signup returns the stored row, balance
	// included, rather than the zeroed insert candidate.
	stored, err := s.store.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, ErrAccountNotFound
	}
	s.logger.Info("Account created", zap.String("account_id", accountID))
	return stored, nil
}

// Balance returns the current balance for an account.
func (s *Service) Balance(ctx context.Context, accountID string) (int64, error) {
	account, err := s.store.GetAccount(ctx, accountID)
	if err != nil {
		return 0, err
	}
	if account == nil {
		return 0, ErrAccountNotFound
	}
	return account.Balance, nil
}

// Credit increases an account's balance by amount and appends a
// matching ledger entry. Amount must be positive.
func (s *Service) Credit(ctx context.Context, accountID string, amount int64, kind, description string) (*models.LedgerEntry, error) {
	ctx, span := telemetry.StartSpan(ctx, "ledger.credit")
	defer span.End()

	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	entry, err := s.store.Credit(ctx, accountID, amount, kind, description)
	if err != nil {
		return nil, err
	}
	telemetry.RecordLedgerMutation(ctx, kind)

	s.logger.Debug("Credited account",
		zap.String("account_id", accountID),
		zap.Int64("amount", amount),
		zap.String("kind", kind))

	return entry, nil
}

// Debit decreases an account's balance by amount and appends a
// matching ledger entry. Fails with ErrInsufficientBalance when the
// balance is short; the check and the write are a single conditional
// update at the store.
func (s *Service) Debit(ctx context.Context, accountID string, amount int64, kind, description string) (*models.LedgerEntry, error) {
	ctx, span := telemetry.StartSpan(ctx, "ledger.debit")
	defer span.End()

	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	entry, err := s.store.Debit(ctx, accountID, amount, kind, description)
	if err != nil {
		return nil, err
	}
	telemetry.RecordLedgerMutation(ctx, kind)

	s.logger.Debug("Debited account",
		zap.String("account_id", accountID),
		zap.Int64("amount", amount),
		zap.String("kind", kind))

	return entry, nil
}

// History returns the most recent ledger entries for an account,
// newest first.
func (s *Service) History(ctx context.Context, accountID string, limit int) ([]*models.LedgerEntry, error) {
	if limit <= 0 {
		limit = 100
	} else if limit > 500 {
		limit = 500
	}
	return s.store.Entries(ctx, accountID, limit)
}

// Audit verifies the core ledger invariant for one account: the
// balance equals the running sum of its entry deltas.
func (s *Service) Audit(ctx context.Context, accountID string) (bool, error) {
	balance, err := s.Balance(ctx, accountID)
	if err != nil {
		return false, err
	}
	sum, err := s.store.SumDeltas(ctx, accountID)
	if err != nil {
		return false, err
	}
	return balance == sum, nil
}
