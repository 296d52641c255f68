package rewards

import "errors"

// Domain errors for task completion.
var (
	ErrTaskNotFound         = errors.New("task not found")
	ErrTaskInactive         = errors.New("task is not active")
	ErrTaskAlreadyCompleted = errors.New("task already completed")
)
