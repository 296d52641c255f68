package models

import (
	"database/sql"
	"time"
)

// Account represents a platform user profile and its token balance.
// The balance is mutated only through ledger operations; it is kept
// non-negative by conditional updates at the store level.
type Account struct {
	ID        int64  `gorm:"primaryKey;autoIncrement;column:id"`
	UserID    string `gorm:"type:varchar(36);not null;uniqueIndex:profiles_ux1;column:user_id"`
	Balance   int64  `gorm:"not null;default:0;column:c8r_balance"`
	CreatedAt time.Time `gorm:"not null;column:created_at"`
	UpdatedAt time.Time `gorm:"not null;column:updated_at"`

	// Profile fields
	DisplayName sql.NullString `gorm:"type:varchar(50);column:display_name"`
	AvatarURL   string         `gorm:"type:varchar(1024);not null;default:'';column:avatar_url"`
	WalletAddr  string         `gorm:"type:varchar(64);not null;default:'';column:wallet_address"`
}

// TableName specifies the table name for Account
func (Account) TableName() string {
	return "profiles"
}
