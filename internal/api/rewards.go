package api

import (
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cre8tar/c8r/internal/auth"
	"github.com/cre8tar/c8r/internal/cache"
	"github.com/cre8tar/c8r/internal/models"
	"github.com/cre8tar/c8r/internal/rewards"
)

const tasksCacheKey = "rewards:tasks"
const tasksCacheTTL = time.Minute

// RewardsAPI exposes task catalog and completion methods.
type RewardsAPI struct {
	engine *rewards.Engine
	cache  *cache.Cache
}

// NewRewardsAPI creates a new rewards API
func NewRewardsAPI(engine *rewards.Engine, redisCache *cache.Cache) *RewardsAPI {
	return &RewardsAPI{engine: engine, cache: redisCache}
}

// CompleteTaskParams is the payload for rewards.complete_task
type CompleteTaskParams struct {
	TaskID string `json:"task_id"`
}

// ListTasks handles rewards.list_tasks
func (a *RewardsAPI) ListTasks(c *gin.Context, params json.RawMessage) (interface{}, error) {
	var cached []*models.Task
	if a.cache.GetJSON(tasksCacheKey, &cached) {
		return cached, nil
	}

	tasks, err := a.engine.ListTasks(c.Request.Context())
	if err != nil {
		return nil, err
	}

	a.cache.SetJSON(tasksCacheKey, tasks, tasksCacheTTL)

	return tasks, nil
}

// CompleteTask handles rewards.complete_task
func (a *RewardsAPI) CompleteTask(c *gin.Context, params json.RawMessage) (interface{}, error) {
	accountID := auth.AccountID(c)

	var p CompleteTaskParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, invalidParamsf("invalid parameters format")
	}
	if p.TaskID == "" {
		return nil, invalidParamsf("missing required parameter: task_id")
	}

	completion, err := a.engine.CompleteTask(c.Request.Context(), accountID, p.TaskID)
	if err != nil {
		return nil, err
	}

	return completion, nil
}

// GetStats handles rewards.get_stats
func (a *RewardsAPI) GetStats(c *gin.Context, params json.RawMessage) (interface{}, error) {
	accountID := auth.AccountID(c)

	stats, err := a.engine.StatsByAccount(c.Request.Context(), accountID)
	if err != nil {
		return nil, err
	}

	return stats, nil
}
