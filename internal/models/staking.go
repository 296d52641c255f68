package models

import (
	"time"
)

// Staking position states. Completed is terminal.
const (
	PositionActive    = "active"
	PositionCompleted = "completed"
)

// StakingPosition locks a principal amount until its unlock time.
// Principal and unlock time are immutable once created; status and
// rewards are set exactly once at unstake.
type StakingPosition struct {
	ID            string    `gorm:"type:varchar(36);primaryKey;column:id"`
	AccountID     string    `gorm:"type:varchar(36);not null;index:staking_ix1;column:user_id"`
	Principal     int64     `gorm:"not null;column:amount"`
	APYBps        int       `gorm:"not null;column:apy_bps"`
	StartTime     time.Time `gorm:"not null;column:start_date"`
	UnlockTime    time.Time `gorm:"not null;column:unlock_date"`
	Status        string    `gorm:"type:varchar(10);not null;default:'active';column:status"`
	RewardsEarned int64     `gorm:"not null;default:0;column:rewards_earned"`
	CreatedAt     time.Time `gorm:"not null;column:created_at"`
}

// TableName specifies the table name for StakingPosition
func (StakingPosition) TableName() string {
	return "staking"
}
