package staking

import (
	"context"
	"testing"
	"time"

	"github.com/cre8tar/c8r/internal/ledger"
	"github.com/cre8tar/c8r/internal/models"
)

// fakeStore keeps positions and a single account balance in memory,
// mirroring the debit-with-insert and flip-with-credit transactions of
// the database store.
type fakeStore struct {
	balance   int64
	positions map[string]*models.StakingPosition
}

func newFakeStore(balance int64) *fakeStore {
	return &fakeStore{balance: balance, positions: make(map[string]*models.StakingPosition)}
}

func (s *fakeStore) OpenPosition(ctx context.Context, position *models.StakingPosition, description string) error {
	if s.balance < position.Principal {
		return ledger.ErrInsufficientBalance
	}
	s.balance -= position.Principal
	copied := *position
	s.positions[position.ID] = &copied
	return nil
}

func (s *fakeStore) ClosePosition(ctx context.Context, position *models.StakingPosition, rewards int64, principalDesc, rewardsDesc string) error {
	stored, ok := s.positions[position.ID]
	if !ok || stored.Status != models.PositionActive {
		return ErrAlreadyCompleted
	}
	stored.Status = models.PositionCompleted
	stored.RewardsEarned = rewards
	s.balance += position.Principal + rewards
	return nil
}

func (s *fakeStore) GetPosition(ctx context.Context, id string) (*models.StakingPosition, error) {
	position, ok := s.positions[id]
	if !ok {
		return nil, nil
	}
	copied := *position
	return &copied, nil
}

func (s *fakeStore) PositionsByAccount(ctx context.Context, accountID string) ([]*models.StakingPosition, error) {
	var out []*models.StakingPosition
	for _, p := range s.positions {
		if p.AccountID == accountID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *fakeStore) TotalStaked(ctx context.Context, accountID string) (int64, error) {
	var total int64
	for _, p := range s.positions {
		if p.AccountID == accountID && p.Status == models.PositionActive {
			total += p.Principal
		}
	}
	return total, nil
}

func TestAPYForPeriod(t *testing.T) {
	tests := []struct {
		periodDays int
		wantAPY    int
		wantErr    error
	}{
		{30, 800, nil},
		{90, 1200, nil},
		{180, 1800, nil},
		{365, 2500, nil},
		{0, 0, ErrInvalidPeriod},
		{60, 0, ErrInvalidPeriod},
		{-30, 0, ErrInvalidPeriod},
	}

	for _, tt := range tests {
		apy, err := APYForPeriod(tt.periodDays)
		if apy != tt.wantAPY || err != tt.wantErr {
			t.Errorf("APYForPeriod(%d) = (%d, %v), want (%d, %v)",
				tt.periodDays, apy, err, tt.wantAPY, tt.wantErr)
		}
	}
}

func TestRewards(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		principal int64
		apyBps    int
		elapsed   time.Duration
		want      int64
	}{
		// 10000 * 8% * 30/365 = 65 (floor)
		{"30 days at 8%", 10000, 800, 30 * 24 * time.Hour, 65},
		// 10000 * 25% * 365/365 = 2500
		{"full year at 25%", 10000, 2500, 365 * 24 * time.Hour, 2500},
		// 100 * 8% * 30/365 floors to zero
		{"small principal floors to zero", 100, 800, 30 * 24 * time.Hour, 0},
		// partial days do not count
		{"under one day", 10000, 2500, 23 * time.Hour, 0},
		{"partial day truncated", 10000, 2500, 30*24*time.Hour + 12*time.Hour, 205},
		{"clock skew before start", 10000, 2500, -time.Hour, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Rewards(tt.principal, tt.apyBps, start, start.Add(tt.elapsed))
			if got != tt.want {
				t.Errorf("Rewards = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestStake(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("opens position and debits principal", func(t *testing.T) {
		store := newFakeStore(1000)
		engine := NewEngine(store)
		engine.now = func() time.Time { return now }

		position, err := engine.Stake(ctx, "alice", 600, 90)
		if err != nil {
			t.Fatalf("Stake: %v", err)
		}
		if position.APYBps != 1200 {
			t.Errorf("APYBps = %d, want 1200", position.APYBps)
		}
		if !position.UnlockTime.Equal(now.AddDate(0, 0, 90)) {
			t.Errorf("UnlockTime = %v, want %v", position.UnlockTime, now.AddDate(0, 0, 90))
		}
		if store.balance != 400 {
			t.Errorf("balance = %d, want 400", store.balance)
		}
		if total, _ := engine.TotalStaked(ctx, "alice"); total != 600 {
			t.Errorf("TotalStaked = %d, want 600", total)
		}
	})

	t.Run("rejections", func(t *testing.T) {
		store := newFakeStore(1000)
		engine := NewEngine(store)
		engine.now = func() time.Time { return now }

		tests := []struct {
			name    string
			amount  int64
			period  int
			wantErr error
		}{
			{"zero amount", 0, 30, ledger.ErrInvalidAmount},
			{"unsupported period", 500, 45, ErrInvalidPeriod},
			{"insufficient balance", 5000, 30, ledger.ErrInsufficientBalance},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := engine.Stake(ctx, "alice", tt.amount, tt.period)
				if err != tt.wantErr {
					t.Errorf("err = %v, want %v", err, tt.wantErr)
				}
			})
		}
		if store.balance != 1000 {
			t.Errorf("balance changed on rejected stakes: %d", store.balance)
		}
	})
}

func TestUnstake(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	setup := func(balance int64) (*Engine, *fakeStore, *models.StakingPosition) {
		store := newFakeStore(balance)
		engine := NewEngine(store)
		engine.now = func() time.Time { return start }
		position, err := engine.Stake(ctx, "alice", 10000, 30)
		if err != nil {
			t.Fatalf("Stake: %v", err)
		}
		return engine, store, position
	}

	t.Run("credits principal plus rewards after unlock", func(t *testing.T) {
		engine, store, position := setup(10000)
		engine.now = func() time.Time { return start.AddDate(0, 0, 30) }

		closed, err := engine.Unstake(ctx, "alice", position.ID)
		if err != nil {
			t.Fatalf("Unstake: %v", err)
		}
		if closed.Status != models.PositionCompleted {
			t.Errorf("Status = %q, want %q", closed.Status, models.PositionCompleted)
		}
		// 10000 * 8% * 30/365 = 65
		if closed.RewardsEarned != 65 {
			t.Errorf("RewardsEarned = %d, want 65", closed.RewardsEarned)
		}
		if store.balance != 10065 {
			t.Errorf("balance = %d, want 10065", store.balance)
		}
	})

	t.Run("locked before unlock time", func(t *testing.T) {
		engine, _, position := setup(10000)
		engine.now = func() time.Time { return start.AddDate(0, 0, 29) }

		if _, err := engine.Unstake(ctx, "alice", position.ID); err != ErrPositionLocked {
			t.Errorf("err = %v, want %v", err, ErrPositionLocked)
		}
	})

	t.Run("already completed", func(t *testing.T) {
		engine, _, position := setup(10000)
		engine.now = func() time.Time { return start.AddDate(0, 0, 31) }

		if _, err := engine.Unstake(ctx, "alice", position.ID); err != nil {
			t.Fatalf("first Unstake: %v", err)
		}
		if _, err := engine.Unstake(ctx, "alice", position.ID); err != ErrAlreadyCompleted {
			t.Errorf("err = %v, want %v", err, ErrAlreadyCompleted)
		}
	})

	t.Run("another account's position", func(t *testing.T) {
		engine, _, position := setup(10000)
		engine.now = func() time.Time { return start.AddDate(0, 0, 31) }

		if _, err := engine.Unstake(ctx, "mallory", position.ID); err != ErrPositionNotFound {
			t.Errorf("err = %v, want %v", err, ErrPositionNotFound)
		}
	})

	t.Run("unknown position", func(t *testing.T) {
		engine, _, _ := setup(10000)
		if _, err := engine.Unstake(ctx, "alice", "missing"); err != ErrPositionNotFound {
			t.Errorf("err = %v, want %v", err, ErrPositionNotFound)
		}
	})

	t.Run("small position rounds rewards to zero", func(t *testing.T) {
		store := newFakeStore(100)
		engine := NewEngine(store)
		engine.now = func() time.Time { return start }
		position, err := engine.Stake(ctx, "alice", 100, 30)
		if err != nil {
			t.Fatalf("Stake: %v", err)
		}

		engine.now = func() time.Time { return start.AddDate(0, 0, 30) }
		closed, err := engine.Unstake(ctx, "alice", position.ID)
		if err != nil {
			t.Fatalf("Unstake: %v", err)
		}
		if closed.RewardsEarned != 0 {
			t.Errorf("RewardsEarned = %d, want 0", closed.RewardsEarned)
		}
		if store.balance != 100 {
			t.Errorf("balance = %d, want 100", store.balance)
		}
	})
}
