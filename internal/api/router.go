package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cre8tar/c8r/internal/auth"
	"github.com/cre8tar/c8r/internal/cache"
	"github.com/cre8tar/c8r/internal/db"
	"github.com/cre8tar/c8r/internal/governance"
	"github.com/cre8tar/c8r/internal/ledger"
	"github.com/cre8tar/c8r/internal/nft"
	"github.com/cre8tar/c8r/internal/rewards"
	"github.com/cre8tar/c8r/internal/staking"
	"github.com/cre8tar/c8r/pkg/config"
	"github.com/cre8tar/c8r/pkg/logging"
)

// Router sets up API routes
type Router struct {
	handler    *JSONRPCHandler
	db         *db.DB
	cache      *cache.Cache
	cfg        *config.Config
	governance *governance.Engine
	logger     *zap.Logger
}

// NewRouter creates a new API router
func NewRouter(database *db.DB, redisCache *cache.Cache, cfg *config.Config) *Router {
	router := &Router{
		handler: NewJSONRPCHandler(),
		db:      database,
		cache:   redisCache,
		cfg:     cfg,
		logger:  logging.WithComponent("api-router"),
	}

	// Register all API methods
	router.registerMethods()

	return router
}

// Governance returns the wired governance engine for the finalizer job.
func (r *Router) Governance() *governance.Engine {
	return r.governance
}

// SetupRoutes sets up all API routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// Health check endpoints
	engine.GET("/health", r.healthHandler)
	engine.GET("/.well-known/healthcheck.json", r.healthHandler)

	// JSON-RPC endpoint; every method acts as the authenticated account
	engine.POST("/", auth.Middleware(&r.cfg.Auth), r.handler.Handle)
}

// registerMethods registers all API methods
func (r *Router) registerMethods() {
	balance := ledger.NewService(db.NewLedgerStore(r.db))
	stakingEngine := staking.NewEngine(db.NewStakingStore(r.db))
	governanceEngine := governance.NewEngine(db.NewGovernanceStore(r.db), stakingEngine)
	rewardsEngine := rewards.NewEngine(db.NewRewardsStore(r.db))
	nftService := nft.NewService(db.NewNFTStore(r.db), balance)

	r.governance = governanceEngine

	// Ledger API
	ledgerAPI := NewLedgerAPI(balance)
	r.handler.RegisterMethod("ledger.create_account", ledgerAPI.CreateAccount)
	r.handler.RegisterMethod("ledger.get_balance", ledgerAPI.GetBalance)
	r.handler.RegisterMethod("ledger.get_history", ledgerAPI.GetHistory)

	// Staking API
	stakingAPI := NewStakingAPI(stakingEngine, balance)
	r.handler.RegisterMethod("staking.stake", stakingAPI.Stake)
	r.handler.RegisterMethod("staking.unstake", stakingAPI.Unstake)
	r.handler.RegisterMethod("staking.list_positions", stakingAPI.ListPositions)
	r.handler.RegisterMethod("staking.get_overview", stakingAPI.GetOverview)

	// Governance API
	governanceAPI := NewGovernanceAPI(governanceEngine, r.cache)
	r.handler.RegisterMethod("governance.create_proposal", governanceAPI.CreateProposal)
	r.handler.RegisterMethod("governance.vote", governanceAPI.Vote)
	r.handler.RegisterMethod("governance.list_proposals", governanceAPI.ListProposals)
	r.handler.RegisterMethod("governance.get_voting_power", governanceAPI.GetVotingPower)
	r.handler.RegisterMethod("governance.list_account_votes", governanceAPI.ListAccountVotes)

	// Rewards API
	rewardsAPI := NewRewardsAPI(rewardsEngine, r.cache)
	r.handler.RegisterMethod("rewards.list_tasks", rewardsAPI.ListTasks)
	r.handler.RegisterMethod("rewards.complete_task", rewardsAPI.CompleteTask)
	r.handler.RegisterMethod("rewards.get_stats", rewardsAPI.GetStats)

	// NFT API
	nftAPI := NewNFTAPI(nftService)
	r.handler.RegisterMethod("nft.mint", nftAPI.Mint)
	r.handler.RegisterMethod("nft.purchase", nftAPI.Purchase)
	r.handler.RegisterMethod("nft.list_owned", nftAPI.ListOwned)
}

// healthHandler handles health check requests
func (r *Router) healthHandler(c *gin.Context) {
	c.JSON(200, gin.H{
		"status":  "OK",
		"service": "c8r-api",
	})
}
