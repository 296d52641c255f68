package api

import (
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cre8tar/c8r/internal/auth"
	"github.com/cre8tar/c8r/internal/cache"
	"github.com/cre8tar/c8r/internal/governance"
	"github.com/cre8tar/c8r/internal/models"
)

const proposalsCacheKey = "governance:proposals"
const proposalsCacheTTL = 30 * time.Second

// GovernanceAPI exposes proposal and voting methods.
type GovernanceAPI struct {
	engine *governance.Engine
	cache  *cache.Cache
}

// NewGovernanceAPI creates a new governance API
func NewGovernanceAPI(engine *governance.Engine, redisCache *cache.Cache) *GovernanceAPI {
	return &GovernanceAPI{engine: engine, cache: redisCache}
}

// CreateProposalParams is the payload for governance.create_proposal
type CreateProposalParams struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ClosesAt    time.Time `json:"closes_at"`
}

// VoteParams is the payload for governance.vote
type VoteParams struct {
	ProposalID string `json:"proposal_id"`
	Direction  string `json:"direction"`
}

// ListProposalsParams is the payload for governance.list_proposals
type ListProposalsParams struct {
	Limit int `json:"limit"`
}

// CreateProposal handles governance.create_proposal
func (a *GovernanceAPI) CreateProposal(c *gin.Context, params json.RawMessage) (interface{}, error) {
	accountID := auth.AccountID(c)

	var p CreateProposalParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, invalidParamsf("invalid parameters format")
	}
	if p.Title == "" || p.Description == "" {
		return nil, invalidParamsf("title and description are required")
	}
	if p.ClosesAt.IsZero() {
		return nil, invalidParamsf("missing required parameter: closes_at")
	}

	proposal, err := a.engine.CreateProposal(c.Request.Context(), accountID, p.Title, p.Description, p.ClosesAt)
	if err != nil {
		return nil, err
	}

	a.cache.Delete(proposalsCacheKey)

	return proposal, nil
}

// Vote handles governance.vote
func (a *GovernanceAPI) Vote(c *gin.Context, params json.RawMessage) (interface{}, error) {
	accountID := auth.AccountID(c)

	var p VoteParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, invalidParamsf("invalid parameters format")
	}
	if p.ProposalID == "" {
		return nil, invalidParamsf("missing required parameter: proposal_id")
	}

	vote, err := a.engine.Vote(c.Request.Context(), accountID, p.ProposalID, p.Direction)
	if err != nil {
		return nil, err
	}

	a.cache.Delete(proposalsCacheKey)

	return vote, nil
}

// ListProposals handles governance.list_proposals
func (a *GovernanceAPI) ListProposals(c *gin.Context, params json.RawMessage) (interface{}, error) {
	var p ListProposalsParams
	if len(params) > 0 {
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, invalidParamsf("invalid parameters format")
		}
	}

	// Default listing is cacheable; custom limits go to the store.
	if p.Limit == 0 {
		var cached []*models.Proposal
		if a.cache.GetJSON(proposalsCacheKey, &cached) {
			return cached, nil
		}
	}

	proposals, err := a.engine.ListProposals(c.Request.Context(), p.Limit)
	if err != nil {
		return nil, err
	}

	if p.Limit == 0 {
		a.cache.SetJSON(proposalsCacheKey, proposals, proposalsCacheTTL)
	}

	return proposals, nil
}

// GetVotingPower handles governance.get_voting_power
func (a *GovernanceAPI) GetVotingPower(c *gin.Context, params json.RawMessage) (interface{}, error) {
	accountID := auth.AccountID(c)

	power, err := a.engine.VotingPower(c.Request.Context(), accountID)
	if err != nil {
		return nil, err
	}

	return gin.H{"voting_power": power}, nil
}

// ListAccountVotes handles governance.list_account_votes
func (a *GovernanceAPI) ListAccountVotes(c *gin.Context, params json.RawMessage) (interface{}, error) {
	accountID := auth.AccountID(c)

	votes, err := a.engine.VotesByAccount(c.Request.Context(), accountID)
	if err != nil {
		return nil, err
	}

	return votes, nil
}
