package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"stock-sentiment-tracker/internal/entity"
	"stock-sentiment-tracker/pkg/common"
	"stock-sentiment-tracker/pkg/utils"

	"gorm.io/gorm"
)

// TaskRepository defines the queue operations used by the worker.
type TaskRepository interface {
	Enqueue(ctx context.Context, task *entity.Task) error
	ClaimNext(ctx context.Context) (*entity.Task, error)
	Complete(ctx context.Context, id uint, result interface{}) error
	Fail(ctx context.Context, id uint, errMsg string) error
	RequeueStale(ctx context.Context, olderThan time.Duration) (int64, error)
}

// NewTaskRepository creates a new GORM-based task repository.
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

type taskRepository struct {
	db *gorm.DB
}

// claimNextQuery atomically selects the highest-priority pending row and
// transitions it to RUNNING. SKIP LOCKED makes concurrent claimers pass over
// rows locked by an in-flight claim instead of waiting, so no two workers
// ever observe the same row as available.
const claimNextQuery = `
WITH next AS (
	SELECT id
	FROM tasks
	WHERE status = 'PENDING'
	ORDER BY priority DESC, created_at ASC
	FOR UPDATE SKIP LOCKED
	LIMIT 1
)
UPDATE tasks t
SET status = 'RUNNING', attempts = attempts + 1, updated_at = now()
FROM next
WHERE t.id = next.id
RETURNING t.id, t.task_type, t.ticker, t.priority, t.status, t.payload, t.attempts, t.error, t.created_at, t.updated_at
`

// Enqueue inserts a new PENDING task. The queue does not deduplicate.
func (r *taskRepository) Enqueue(ctx context.Context, task *entity.Task) error {
	task.Status = entity.TaskStatusPending
	return r.db.WithContext(ctx).Create(task).Error
}

// ClaimNext claims the next pending task, or returns nil when the queue is
// empty.
func (r *taskRepository) ClaimNext(ctx context.Context) (*entity.Task, error) {
	var task entity.Task
	res := r.db.WithContext(ctx).Raw(claimNextQuery).Scan(&task)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to claim task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &task, nil
}

// Complete marks a RUNNING task as DONE and merges the handler result into
// the payload. Pre-existing payload keys are kept.
func (r *taskRepository) Complete(ctx context.Context, id uint, result interface{}) error {
	if result == nil {
		return r.db.WithContext(ctx).
			Exec(`UPDATE tasks SET status = 'DONE', updated_at = now() WHERE id = ?`, id).Error
	}

	merged, err := json.Marshal(map[string]interface{}{"result": result})
	if err != nil {
		return fmt.Errorf("failed to marshal task result: %w", err)
	}

	return r.db.WithContext(ctx).Exec(`
		UPDATE tasks
		SET status = 'DONE',
		    payload = ?::jsonb || COALESCE(payload, '{}'::jsonb),
		    updated_at = now()
		WHERE id = ?`, string(merged), id).Error
}

// Fail marks a RUNNING task as ERROR with a truncated message. ERROR is
// terminal: only PENDING rows are claimable.
func (r *taskRepository) Fail(ctx context.Context, id uint, errMsg string) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE tasks
		SET status = 'ERROR', error = ?, updated_at = now()
		WHERE id = ?`, utils.TruncateString(errMsg, common.MaxTaskErrorLength), id).Error
}

// RequeueStale transitions RUNNING rows untouched for longer than olderThan
// back to PENDING. Covers tasks orphaned by a killed worker process.
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
