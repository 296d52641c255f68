package governance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cre8tar/c8r/internal/models"
	"github.com/cre8tar/c8r/pkg/logging"
	"github.com/cre8tar/c8r/pkg/telemetry"
)

// ProposalThreshold is the staked balance required to create proposals.
const ProposalThreshold = 1000

// Store is the persistence contract for proposals and votes. InsertVote
// inserts the vote and increments the matching tally in one
// transaction; the (proposal, account) pair is unique-constrained at
// the store so concurrent duplicate submissions cannot both land.
type Store interface {
	CreateProposal(ctx context.Context, proposal *models.Proposal) error
	GetProposal(ctx context.Context, id string) (*models.Proposal, error)
	ListProposals(ctx context.Context, limit int) ([]*models.Proposal, error)
	InsertVote(ctx context.Context, vote *models.Vote) error
	VotesByAccount(ctx context.Context, accountID string) ([]*models.Vote, error)
	ListExpiredActive(ctx context.Context, now time.Time) ([]*models.Proposal, error)
	UpdateProposalStatus(ctx context.Context, id, status string) error
}

// VotingPowerSource reports an account's current voting power, the sum
// of principal over its active staking positions.
type VotingPowerSource interface {
	TotalStaked(ctx context.Context, accountID string) (int64, error)
}

// Engine runs the proposal lifecycle and weighted voting.
type Engine struct {
	store  Store
	power  VotingPowerSource
	now    func() time.Time
	logger *zap.Logger
}

// NewEngine creates a new governance engine
func NewEngine(store Store, power VotingPowerSource) *Engine {
	return &Engine{
		store:  store,
		power:  power,
		now:    func() time.Time { return time.Now().UTC() },
		logger: logging.WithComponent("governance"),
	}
}

// VotingPower returns the caller's current voting power.
func (e *Engine) VotingPower(ctx context.Context, accountID string) (int64, error) {
	return e.power.TotalStaked(ctx, accountID)
}

// CreateProposal opens a new proposal for voting. The author must hold
// at least ProposalThreshold staked units and the close date must be
// strictly in the future.
func (e *Engine) CreateProposal(ctx context.Context, accountID, title, description string, closesAt time.Time) (*models.Proposal, error) {
	ctx, span := telemetry.StartSpan(ctx, "governance.create_proposal")
	defer span.End()

	power, err := e.power.TotalStaked(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if power < ProposalThreshold {
		return nil, ErrInsufficientVotingPower
	}

	now := e.now()
	if !closesAt.After(now) {
		return nil, ErrInvalidCloseDate
	}

	proposal := &models.Proposal{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		AuthorID:    accountID,
		OpensAt:     now,
		ClosesAt:    closesAt,
		Status:      models.ProposalActive,
		CreatedAt:   now,
	}
	if err := e.store.CreateProposal(ctx, proposal); err != nil {
		return nil, err
	}

	e.logger.Info("Proposal created",
		zap.String("proposal_id", proposal.ID),
		zap.String("author_id", accountID),
		zap.Time("closes_at", closesAt))

	return proposal, nil
}

// Vote casts a weighted vote on a proposal. The weight snapshots the
// voter's staked balance at vote time; later stake changes do not
// retroactively alter cast votes.
func (e *Engine) Vote(ctx context.Context, accountID, proposalID, direction string) (*models.Vote, error) {
	ctx, span := telemetry.StartSpan(ctx, "governance.vote")
	defer span.End()

	if direction != models.VoteFor && direction != models.VoteAgainst {
		return nil, ErrInvalidDirection
	}

	proposal, err := e.store.GetProposal(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	if proposal == nil {
		return nil, ErrProposalNotFound
	}
	if e.now().After(proposal.ClosesAt) {
		return nil, ErrProposalClosed
	}

	power, err := e.power.TotalStaked(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if power == 0 {
		return nil, ErrNoVotingPower
	}

	vote := &models.Vote{
		ProposalID: proposalID,
		AccountID:  accountID,
		Direction:  direction,
		Weight:     power,
		CreatedAt:  e.now(),
	}
	// The unique (proposal, account) constraint is the authoritative
	// duplicate guard; a pre-read here would be race-prone.
	if err := e.store.InsertVote(ctx, vote); err != nil {
		return nil, err
	}

	e.logger.Info("Vote recorded",
		zap.String("proposal_id", proposalID),
		zap.String("account_id", accountID),
		zap.String("direction", direction),
		zap.Int64("weight", power))

	return vote, nil
}

// Resolve derives a proposal's status from time and tallies. Ties
// resolve to rejected.
func Resolve(proposal *models.Proposal, now time.Time) string {
	if !now.After(proposal.ClosesAt) {
		return models.ProposalActive
	}
	if proposal.VotesFor > proposal.VotesAgainst {
		return models.ProposalPassed
	}
	return models.ProposalRejected
}

// ListProposals returns proposals newest first, with status resolved
// against the current time.
func (e *Engine) ListProposals(ctx context.Context, limit int) ([]*models.Proposal, error) {
	if limit <= 0 {
		limit = 50
	} else if limit > 200 {
		limit = 200
	}
	proposals, err := e.store.ListProposals(ctx, limit)
	if err != nil {
		return nil, err
	}
	now := e.now()
	for _, p := range proposals {
		p.Status = Resolve(p, now)
	}
	return proposals, nil
}

// VotesByAccount lists all votes cast by an account.
func (e *Engine) VotesByAccount(ctx context.Context, accountID string) ([]*models.Vote, error) {
	return e.store.VotesByAccount(ctx, accountID)
}

// FinalizeExpired persists the derived status for proposals whose
// voting window has closed but are still marked active. Resolution on
// read stays authoritative; this keeps listings from recomputing.
func (e *Engine) FinalizeExpired(ctx context.Context) (int, error) {
	now := e.now()
	expired, err := e.store.ListExpiredActive(ctx, now)
	if err != nil {
		return 0, err
	}

	finalized := 0
	for _, p := range expired {
		status := Resolve(p, now)
		if status == models.ProposalActive {
			continue
		}
		if err := e.store.UpdateProposalStatus(ctx, p.ID, status); err != nil {
			return finalized, err
		}
		e.logger.Info("Proposal finalized",
			zap.String("proposal_id", p.ID),
			zap.String("status", status))
		finalized++
	}
	return finalized, nil
}
