package models

import (
	"time"
)

// Ledger entry kinds. Every balance mutation carries exactly one of these.
const (
	EntryKindMintCost = "mint_cost"
	EntryKindPurchase = "purchase"
	EntryKindReward   = "reward"
	EntryKindStake    = "stake"
	EntryKindUnstake  = "unstake"
	EntryKindEarning  = "earning"
	EntryKindTransfer = "transfer"
)

// LedgerEntry is an immutable, append-only record of a balance change.
// The running sum of deltas for an account must equal its balance.
type LedgerEntry struct {
	ID          string    `gorm:"type:varchar(36);primaryKey;column:id"`
	AccountID   string    `gorm:"type:varchar(36);not null;index:transactions_ix1;column:user_id"`
	Delta       int64     `gorm:"not null;column:amount"`
	Kind        string    `gorm:"type:varchar(16);not null;column:type"`
	Description string    `gorm:"type:varchar(256);not null;default:'';column:description"`
	CreatedAt   time.Time `gorm:"not null;column:created_at"`
}

// TableName specifies the table name for LedgerEntry
func (LedgerEntry) TableName() string {
	return "transactions"
}
