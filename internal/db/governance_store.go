package db

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/cre8tar/c8r/internal/governance"
	"github.com/cre8tar/c8r/internal/models"
)

// GovernanceStore implements governance.Store on PostgreSQL.
type GovernanceStore struct {
	db *gorm.DB
}

// NewGovernanceStore creates a new governance store
func NewGovernanceStore(database *DB) *GovernanceStore {
	return &GovernanceStore{db: database.DB}
}

// CreateProposal inserts a new proposal
func (s *GovernanceStore) CreateProposal(ctx context.Context, proposal *models.Proposal) error {
	return s.db.WithContext(ctx).Create(proposal).Error
}

// GetProposal retrieves a proposal by id
func (s *GovernanceStore) GetProposal(ctx context.Context, id string) (*models.Proposal, error) {
	var proposal models.Proposal
	if err := s.db.WithContext(ctx).First(&proposal, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &proposal, nil
}

// ListProposals retrieves proposals, newest first
func (s *GovernanceStore) ListProposals(ctx context.Context, limit int) ([]*models.Proposal, error) {
	var proposals []*models.Proposal
	if err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&proposals).Error; err != nil {
		return nil, err
	}
	return proposals, nil
}

// InsertVote inserts the vote and increments the matching tally in one
// transaction. The unique (proposal_id, user_id) index rejects
// duplicate submissions; the tally increment never runs for those.
func (s *GovernanceStore) InsertVote(ctx context.Context, vote *models.Vote) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(vote).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return governance.ErrAlreadyVoted
			}
			return err
		}

		column := "votes_for"
		if vote.Direction == models.VoteAgainst {
			column = "votes_against"
		}
		res := tx.Model(&models.Proposal{}).
			Where("id = ?", vote.ProposalID).
			UpdateColumn(column, gorm.Expr(column+" + ?", vote.Weight))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return governance.ErrProposalNotFound
		}
		return nil
	})
}

// VotesByAccount retrieves all votes cast by an account
func (s *GovernanceStore) VotesByAccount(ctx context.Context, accountID string) ([]*models.Vote, error) {
	var votes []*models.Vote
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", accountID).
		Order("created_at DESC").
		Find(&votes).Error; err != nil {
		return nil, err
	}
	return votes, nil
}

// ListExpiredActive retrieves proposals still marked active whose
// voting window has closed
func (s *GovernanceStore) ListExpiredActive(ctx context.Context, now time.Time) ([]*models.Proposal, error) {
	var proposals []*models.Proposal
	if err := s.db.WithContext(ctx).
		Where("status = ? AND end_date < ?", models.ProposalActive, now).
		Find(&proposals).Error; err != nil {
		return nil, err
	}
	return proposals, nil
}

// UpdateProposalStatus persists a derived proposal status
func (s *GovernanceStore) UpdateProposalStatus(ctx context.Context, id, status string) error {
	return s.db.WithContext(ctx).
		Model(&models.Proposal{}).
		Where("id = ?", id).
		UpdateColumn("status", status).Error
}
