package entity

import (
	"database/sql"
	"time"

	"gorm.io/datatypes"
)

// TaskType identifies the kind of work a task row represents.
type TaskType string

const (
	TaskTypeDailyUpdateAll   TaskType = "DAILY_UPDATE_ALL"
	TaskTypeRefreshStock     TaskType = "REFRESH_STOCK"
	TaskTypeBackfillStock    TaskType = "BACKFILL_STOCK"
	TaskTypeBackfillDefaults TaskType = "BACKFILL_DEFAULTS"
)

// RequiresTicker reports whether this task type operates on a single ticker.
func (t TaskType) RequiresTicker() bool {
	return t == TaskTypeRefreshStock || t == TaskTypeBackfillStock
}

// Valid reports whether t is a known task type.
func (t TaskType) Valid() bool {
	switch t {
	case TaskTypeDailyUpdateAll, TaskTypeRefreshStock, TaskTypeBackfillStock, TaskTypeBackfillDefaults:
		return true
	}
	return false
}

// TaskStatus is the lifecycle state of a task row. Transitions are
// one-directional: PENDING -> RUNNING -> DONE or ERROR.
type TaskStatus string

const (
	TaskStatusPending TaskStatus = "PENDING"
	TaskStatusRunning TaskStatus = "RUNNING"
	TaskStatusDone    TaskStatus = "DONE"
	TaskStatusError   TaskStatus = "ERROR"
)

// Task is a persisted unit of work claimed and executed by a worker.
type Task struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	TaskType  TaskType       `gorm:"not null" json:"task_type"`
	Ticker    string         `json:"ticker,omitempty"`
	Priority  int            `gorm:"not null;default:0" json:"priority"`
	Status    TaskStatus     `gorm:"not null;default:PENDING" json:"status"`
	Payload   datatypes.JSON `json:"payload,omitempty" swaggertype:"object"`
	Attempts  int            `gorm:"not null;default:0" json:"attempts"`
	Error     sql.NullString `json:"error,omitempty" swaggertype:"string"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for the Task model.
func (Task) TableName() string {
	return "tasks"
}
