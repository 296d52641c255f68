package rewards

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cre8tar/c8r/internal/models"
	"github.com/cre8tar/c8r/pkg/logging"
	"github.com/cre8tar/c8r/pkg/telemetry"
)

// DailyWindow is the rolling window within which a repeatable task may
// be completed only once.
const DailyWindow = 24 * time.Hour

// Store is the persistence contract for tasks and completions.
// CompleteTask records the completion and credits the reward in one
// transaction. A zero window means the task may be completed once
// ever; a positive window allows one completion per rolling window.
// Concurrent submissions for one account must serialize inside the
// store so at most one completion lands and is credited.
type Store interface {
	GetTask(ctx context.Context, id string) (*models.Task, error)
	ListActiveTasks(ctx context.Context) ([]*models.Task, error)
	CompleteTask(ctx context.Context, task *models.Task, accountID string, window time.Duration, description string) (*models.TaskCompletion, error)
	CompletionsByAccount(ctx context.Context, accountID string) ([]*models.TaskCompletion, error)
}

// Engine credits task rewards to the ledger.
type Engine struct {
	store  Store
	now    func() time.Time
	logger *zap.Logger
}

// NewEngine creates a new reward engine
func NewEngine(store Store) *Engine {
	return &Engine{
		store:  store,
		now:    func() time.Time { return time.Now().UTC() },
		logger: logging.WithComponent("rewards"),
	}
}

// ListTasks returns the active task catalog, highest reward first.
func (e *Engine) ListTasks(ctx context.Context) ([]*models.Task, error) {
	return e.store.ListActiveTasks(ctx)
}

// CompleteTask records a task completion and credits its reward.
// Non-repeatable tasks complete at most once per account; daily login
// completes at most once per rolling 24h window.
func (e *Engine) CompleteTask(ctx context.Context, accountID, taskID string) (*models.TaskCompletion, error) {
	ctx, span := telemetry.StartSpan(ctx, "rewards.complete_task")
	defer span.End()

	task, err := e.store.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}
	if !task.Active {
		return nil, ErrTaskInactive
	}

	var window time.Duration
	if task.Kind == models.TaskDailyLogin {
		window = DailyWindow
	}

	description := fmt.Sprintf("Completed task: %s", task.Title)
	completion, err := e.store.CompleteTask(ctx, task, accountID, window, description)
	if err != nil {
		return nil, err
	}
	telemetry.RecordTaskCompletion(ctx, task.Kind)

	e.logger.Info("Task completed",
		zap.String("task_id", taskID),
		zap.String("account_id", accountID),
		zap.Int64("reward", task.RewardAmount))

	return completion, nil
}

// Stats summarizes an account's task activity.
type Stats struct {
	TasksCompleted int   `json:"tasks_completed"`
	TotalEarned    int64 `json:"total_earned"`
}

// StatsByAccount returns completion count and total rewards earned.
func (e *Engine) StatsByAccount(ctx context.Context, accountID string) (*Stats, error) {
	completions, err := e.store.CompletionsByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	stats := &Stats{TasksCompleted: len(completions)}
	rewardByTask := make(map[string]int64)
	for _, c := range completions {
		amount, ok := rewardByTask[c.TaskID]
		if !ok {
			task, err := e.store.GetTask(ctx, c.TaskID)
			if err != nil {
				return nil, err
			}
			if task != nil {
				amount = task.RewardAmount
			}
			rewardByTask[c.TaskID] = amount
		}
		stats.TotalEarned += amount
	}
	return stats, nil
}
