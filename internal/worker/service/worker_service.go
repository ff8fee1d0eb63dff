package service

import (
	"context"
	"fmt"
	"time"

	"stock-sentiment-tracker/internal/entity"
	"stock-sentiment-tracker/internal/worker/repository"
	"stock-sentiment-tracker/internal/worker/strategy"
	"stock-sentiment-tracker/pkg/common"
	"stock-sentiment-tracker/pkg/logger"
	"stock-sentiment-tracker/pkg/telegram"

	"go.uber.org/zap"
)

// WorkerService claims tasks from the queue and dispatches them.
type WorkerService interface {
	Run(ctx context.Context)
	RunOnce(ctx context.Context) (bool, error)
}

// NewWorkerService creates a new worker service.
func NewWorkerService(
	taskRepo repository.TaskRepository,
	strategies []strategy.TaskExecutionStrategy,
	notifier telegram.Notifier,
	log *logger.Logger,
	pollInterval time.Duration,
) WorkerService {
	strategyMap := make(map[entity.TaskType]strategy.TaskExecutionStrategy, len(strategies))
	for _, s := range strategies {
		strategyMap[s.GetType()] = s
	}

	return &workerService{
		taskRepo:     taskRepo,
		strategies:   strategyMap,
		notifier:     notifier,
		logger:       log,
		pollInterval: pollInterval,
	}
}

type workerService struct {
	taskRepo     repository.TaskRepository
	strategies   map[entity.TaskType]strategy.TaskExecutionStrategy
	notifier     telegram.Notifier
	logger       *logger.Logger
	pollInterval time.Duration
}

// Run polls the queue until the context is cancelled. The loop sleeps the
// poll interval only after an empty claim or an error; consecutive tasks are
// processed back to back.
func (s *workerService) Run(ctx context.Context) {
	s.logger.Info("Worker loop started", logger.Field("poll_interval", s.pollInterval.String()))

	for {
		if ctx.Err() != nil {
			s.logger.Info("Worker loop stopping")
			return
		}

		ran, err := s.RunOnce(ctx)
		if err != nil {
			s.logger.Error("Worker iteration failed", logger.ErrorField(err))
		}
		if ran && err == nil {
			continue
		}

		select {
		case <-ctx.Done():
			s.logger.Info("Worker loop stopping")
			return
		case <-time.After(s.pollInterval):
		}
	}
}

// RunOnce claims and executes at most one task. It reports whether a task
// was claimed; handler failures are recorded on the task row, not returned.
func (s *workerService) RunOnce(ctx context.Context) (bool, error) {
	task, err := s.taskRepo.ClaimNext(ctx)
	if err != nil {
		return false, err
	}
	if task == nil {
		return false, nil
	}

	fields := []zap.Field{
		logger.Field("task_id", task.ID),
		logger.StringField("task_type", string(task.TaskType)),
		logger.StringField("ticker", task.Ticker),
		logger.IntField("attempt", task.Attempts),
	}
	s.logger.Info("Processing task", fields...)

	handler, ok := s.strategies[task.TaskType]
	if !ok {
		s.failTask(ctx, task, "unknown task type: "+string(task.TaskType))
		return true, nil
	}

	result, err := handler.Execute(ctx, task)
	if err != nil {
		s.failTask(ctx, task, err.Error())
		return true, nil
	}

	if err := s.taskRepo.Complete(ctx, task.ID, result); err != nil {
		s.logger.Error("Failed to mark task done", append(fields, logger.ErrorField(err))...)
		return true, err
	}

	s.logger.Info("Task completed", fields...)
	return true, nil
}

// failTask marks the task ERROR. ERROR is terminal in either branch: rows
// are only reclaimable from PENDING, so an operator must resubmit. The
// message records where the attempt budget stood.
func (s *workerService) failTask(ctx context.Context, task *entity.Task, errMsg string) {
	var msg string
	if task.Attempts >= common.MaxTaskAttempts {
		msg = "max attempts reached: " + errMsg
	} else {
		msg = fmt.Sprintf("attempt %d/%d: %s", task.Attempts, common.MaxTaskAttempts, errMsg)
	}

	s.logger.Error("Task failed",
		logger.Field("task_id", task.ID),
		logger.StringField("task_type", string(task.TaskType)),
		logger.IntField("attempt", task.Attempts),
		logger.StringField("error", errMsg),
	)

	if err := s.taskRepo.Fail(ctx, task.ID, msg); err != nil {
		s.logger.Error("Failed to mark task error", logger.Field("task_id", task.ID), logger.ErrorField(err))
		return
	}

	if s.notifier != nil {
		text := telegram.FormatTaskFailure(string(task.TaskType), task.Ticker, errMsg, task.Attempts, common.MaxTaskAttempts)
		if err := s.notifier.SendMessage(text); err != nil {
			s.logger.Error("Failed to send failure notification", logger.ErrorField(err))
		}
	}
}
