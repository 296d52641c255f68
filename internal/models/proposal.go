package models

import (
	"time"
)

// Proposal states. Status derives from time and vote totals; passed
// and rejected are persisted by the finalizer once voting closes.
const (
	ProposalActive   = "active"
	ProposalPassed   = "passed"
	ProposalRejected = "rejected"
)

// Proposal is a governance proposal open for weighted voting.
// Vote tallies only ever increase.
type Proposal struct {
	ID           string    `gorm:"type:varchar(36);primaryKey;column:id"`
	Title        string    `gorm:"type:varchar(120);not null;column:title"`
	Description  string    `gorm:"type:text;not null;column:description"`
	AuthorID     string    `gorm:"type:varchar(36);not null;index:proposals_ix1;column:created_by"`
	OpensAt      time.Time `gorm:"not null;column:opens_at"`
	ClosesAt     time.Time `gorm:"not null;column:end_date"`
	VotesFor     int64     `gorm:"not null;default:0;column:votes_for"`
	VotesAgainst int64     `gorm:"not null;default:0;column:votes_against"`
	Status       string    `gorm:"type:varchar(10);not null;default:'active';column:status"`
	CreatedAt    time.Time `gorm:"not null;column:created_at"`
}

// TableName specifies the table name for Proposal
func (Proposal) TableName() string {
	return "proposals"
}
