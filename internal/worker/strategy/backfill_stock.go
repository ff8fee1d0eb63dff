package strategy

import (
	"context"
	"fmt"

	"stock-sentiment-tracker/internal/entity"
	"stock-sentiment-tracker/internal/worker/dto"
	"stock-sentiment-tracker/pkg/logger"
)

// BackfillStockStrategy handles BACKFILL_STOCK: a wide-horizon single-ticker
// backfill computing metrics for multiple window sizes.
type BackfillStockStrategy struct {
	log      *logger.Logger
	pipeline Pipeline
}

// NewBackfillStockStrategy creates a new BackfillStockStrategy.
func NewBackfillStockStrategy(log *logger.Logger, pipeline Pipeline) *BackfillStockStrategy {
	return &BackfillStockStrategy{log: log, pipeline: pipeline}
}

// GetType returns the task type this strategy handles.
func (s *BackfillStockStrategy) GetType() entity.TaskType {
	return entity.TaskTypeBackfillStock
}

// Execute runs the pipeline for the task's ticker with backfill defaults.
func (s *BackfillStockStrategy) Execute(ctx context.Context, task *entity.Task) (interface{}, error) {
	ticker, err := tickerFromTask(task)
	if err != nil {
		return nil, err
	}

	params, err := dto.DefaultBackfillParams().ApplyOverrides(task.Payload)
	if err != nil {
		return nil, fmt.Errorf("failed to apply payload overrides: %w", err)
	}

	summary := s.pipeline.RunForTicker(ctx, ticker, params)
	if !summary.Success {
		return summary, fmt.Errorf("pipeline failed: %s", summary.Error)
	}
	return summary, nil
}
