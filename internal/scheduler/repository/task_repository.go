package repository

import (
	"context"
	"fmt"
	"time"

	"stock-sentiment-tracker/internal/entity"

	"gorm.io/gorm"
)

// TaskRepository defines the queue operations used by the scheduler.
type TaskRepository interface {
	Enqueue(ctx context.Context, task *entity.Task) error
	RequeueStale(ctx context.Context, olderThan time.Duration) (int64, error)
}

// NewTaskRepository creates a new GORM-based task repository.
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

type taskRepository struct {
	db *gorm.DB
}

// Enqueue inserts a new PENDING task.
func (r *taskRepository) Enqueue(ctx context.Context, task *entity.Task) error {
	task.Status = entity.TaskStatusPending
	return r.db.WithContext(ctx).Create(task).Error
}

// RequeueStale transitions RUNNING rows untouched for longer than olderThan
// back to PENDING.
func (r *taskRepository) RequeueStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE tasks
		SET status = 'PENDING', updated_at = now()
		WHERE status = 'RUNNING' AND updated_at < now() - ?::interval`,
		fmt.Sprintf("%d seconds", int(olderThan.Seconds())))
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
