package repository

import (
	"context"

	"stock-sentiment-tracker/internal/entity"

	"gorm.io/gorm"
)

// TaskRepository defines the task queue operations exposed over the API.
type TaskRepository interface {
	Create(ctx context.Context, task *entity.Task) error
	FindByID(ctx context.Context, id uint) (*entity.Task, error)
	FindRecent(ctx context.Context, status string, limit int) ([]entity.Task, error)
}

// NewTaskRepository creates a new GORM-based task repository.
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

type taskRepository struct {
	db *gorm.DB
}

// Create inserts a new PENDING task.
func (r *taskRepository) Create(ctx context.Context, task *entity.Task) error {
	task.Status = entity.TaskStatusPending
	return r.db.WithContext(ctx).Create(task).Error
}

// FindByID retrieves a single task.
func (r *taskRepository) FindByID(ctx context.Context, id uint) (*entity.Task, error) {
	var task entity.Task
	if err := r.db.WithContext(ctx).First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// FindRecent lists tasks newest first, optionally filtered by status.
func (r *taskRepository) FindRecent(ctx context.Context, status string, limit int) ([]entity.Task, error) {
	q := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var tasks []entity.Task
	if err := q.Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}
