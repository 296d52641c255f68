package models

import (
	"time"
)

// Vote directions.
const (
	VoteFor     = "for"
	VoteAgainst = "against"
)

// Vote records one account's vote on a proposal. The weight snapshots
// the voter's staked balance at vote time and is immutable thereafter.
// The (proposal_id, user_id) pair is unique at the store level.
type Vote struct {
	ID         int64     `gorm:"primaryKey;autoIncrement;column:id"`
	ProposalID string    `gorm:"type:varchar(36);not null;uniqueIndex:votes_ux1;column:proposal_id"`
	AccountID  string    `gorm:"type:varchar(36);not null;uniqueIndex:votes_ux1;column:user_id"`
	Direction  string    `gorm:"type:varchar(8);not null;column:vote_type"`
	Weight     int64     `gorm:"not null;column:voting_power"`
	CreatedAt  time.Time `gorm:"not null;column:created_at"`
}

// TableName specifies the table name for Vote
func (Vote) TableName() string {
	return "votes"
}
