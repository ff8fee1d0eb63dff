package strategy

import (
	"context"

	"stock-sentiment-tracker/internal/entity"
	"stock-sentiment-tracker/internal/worker/dto"
)

// TaskExecutionStrategy defines the interface for per-task-type handlers.
// The returned result is merged into the task payload on completion.
type TaskExecutionStrategy interface {
	Execute(ctx context.Context, task *entity.Task) (interface{}, error)
	GetType() entity.TaskType
}

// Pipeline is the slice of the pipeline service the strategies consume.
type Pipeline interface {
	RunForTicker(ctx context.Context, ticker string, params dto.PipelineParams) dto.PipelineSummary
}
