package models

import (
	"time"
)

// Task kinds. Daily login is the only repeatable kind; all others are
// completed at most once per account.
const (
	TaskSubscription = "subscription"
	TaskPluginAdd    = "plugin_add"
	TaskPluginCreate = "plugin_create"
	TaskAvatarMint   = "avatar_mint"
	TaskDailyLogin   = "daily_login"
	TaskSocialShare  = "social_share"
	TaskReferral     = "referral"
)

// Task is a reward-bearing action an account can complete.
type Task struct {
	ID           string    `gorm:"type:varchar(36);primaryKey;column:id"`
	Title        string    `gorm:"type:varchar(120);not null;uniqueIndex:tasks_ux1;column:title"`
	Description  string    `gorm:"type:varchar(256);not null;default:'';column:description"`
	RewardAmount int64     `gorm:"not null;column:reward_amount"`
	Kind         string    `gorm:"type:varchar(20);not null;column:task_type"`
	Active       bool      `gorm:"not null;default:true;column:is_active"`
	CreatedAt    time.Time `gorm:"not null;column:created_at"`
}

// TableName specifies the table name for Task
func (Task) TableName() string {
	return "tasks"
}

// TaskCompletion records that an account completed a task. For
// non-repeatable tasks at most one row exists per (task, account).
type TaskCompletion struct {
	ID          int64     `gorm:"primaryKey;autoIncrement;column:id"`
	TaskID      string    `gorm:"type:varchar(36);not null;index:user_tasks_ix1;column:task_id"`
	AccountID   string    `gorm:"type:varchar(36);not null;index:user_tasks_ix1;column:user_id"`
	CompletedAt time.Time `gorm:"not null;column:completed_at"`
}

// TableName specifies the table name for TaskCompletion
func (TaskCompletion) TableName() string {
	return "user_tasks"
}
