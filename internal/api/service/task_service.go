package service

import (
	"context"
	"encoding/json"

	"stock-sentiment-tracker/internal/api/dto"
	"stock-sentiment-tracker/internal/api/repository"
	"stock-sentiment-tracker/internal/entity"
	"stock-sentiment-tracker/pkg/logger"

	"gorm.io/datatypes"
)

// TaskService defines the interface for enqueuing and inspecting tasks.
type TaskService interface {
	CreateTask(ctx context.Context, req *dto.CreateTaskRequest) (*dto.TaskResponse, error)
	GetTaskByID(ctx context.Context, id uint) (*dto.TaskResponse, error)
	GetRecentTasks(ctx context.Context, status string, limit int) ([]*dto.TaskResponse, error)
}

// NewTaskService creates a new task service.
func NewTaskService(taskRepo repository.TaskRepository, logger *logger.Logger) TaskService {
	return &taskService{
		taskRepo: taskRepo,
		logger:   logger,
	}
}

type taskService struct {
	taskRepo repository.TaskRepository
	logger   *logger.Logger
}

// CreateTask validates the request and inserts a PENDING task. Validation
// failures are returned before any row is written.
func (s *taskService) CreateTask(ctx context.Context, req *dto.CreateTaskRequest) (*dto.TaskResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	task := &entity.Task{
		TaskType: entity.TaskType(req.TaskType),
		Ticker:   req.Ticker,
		Priority: req.Priority,
	}
	if len(req.Payload) > 0 {
		task.Payload = datatypes.JSON(req.Payload)
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, err
	}

	s.logger.Info("Task enqueued",
		logger.Field("task_id", task.ID),
		logger.StringField("task_type", req.TaskType),
		logger.StringField("ticker", req.Ticker),
	)
	return mapToTaskResponse(task), nil
}

// GetTaskByID retrieves a task by its ID.
func (s *taskService) GetTaskByID(ctx context.Context, id uint) (*dto.TaskResponse, error) {
	task, err := s.taskRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return mapToTaskResponse(task), nil
}

// GetRecentTasks lists tasks newest first, optionally filtered by status.
func (s *taskService) GetRecentTasks(ctx context.Context, status string, limit int) ([]*dto.TaskResponse, error) {
	tasks, err := s.taskRepo.FindRecent(ctx, status, limit)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.TaskResponse, 0, len(tasks))
	for i := range tasks {
		out = append(out, mapToTaskResponse(&tasks[i]))
	}
	return out, nil
}

func mapToTaskResponse(task *entity.Task) *dto.TaskResponse {
	resp := &dto.TaskResponse{
		ID:        task.ID,
		TaskType:  string(task.TaskType),
		Ticker:    task.Ticker,
		Priority:  task.Priority,
		Status:    string(task.Status),
		Attempts:  task.Attempts,
		CreatedAt: task.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt: task.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if len(task.Payload) > 0 {
		resp.Payload = json.RawMessage(task.Payload)
	}
	if task.Error.Valid {
		resp.Error = task.Error.String
	}
	return resp
}
