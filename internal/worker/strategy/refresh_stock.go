package strategy

import (
	"context"
	"encoding/json"
	"fmt"

	"stock-sentiment-tracker/internal/entity"
	"stock-sentiment-tracker/internal/worker/dto"
	"stock-sentiment-tracker/pkg/logger"
)

// RefreshStockStrategy handles REFRESH_STOCK: a user-triggered single-ticker
// refresh with the standard lookback.
type RefreshStockStrategy struct {
	log      *logger.Logger
	pipeline Pipeline
}

// NewRefreshStockStrategy creates a new RefreshStockStrategy.
func NewRefreshStockStrategy(log *logger.Logger, pipeline Pipeline) *RefreshStockStrategy {
	return &RefreshStockStrategy{log: log, pipeline: pipeline}
}

// GetType returns the task type this strategy handles.
func (s *RefreshStockStrategy) GetType() entity.TaskType {
	return entity.TaskTypeRefreshStock
}

// Execute runs the pipeline for the task's ticker with refresh defaults.
func (s *RefreshStockStrategy) Execute(ctx context.Context, task *entity.Task) (interface{}, error) {
	ticker, err := tickerFromTask(task)
	if err != nil {
		return nil, err
	}

	params, err := dto.DefaultRefreshParams().ApplyOverrides(task.Payload)
	if err != nil {
		return nil, fmt.Errorf("failed to apply payload overrides: %w", err)
	}

	summary := s.pipeline.RunForTicker(ctx, ticker, params)
	if !summary.Success {
		return summary, fmt.Errorf("pipeline failed: %s", summary.Error)
	}
	return summary, nil
}

// tickerFromTask resolves the target ticker from the task row, falling back
// to a "ticker" payload key.
func tickerFromTask(task *entity.Task) (string, error) {
	if task.Ticker != "" {
		return task.Ticker, nil
	}

	var payload struct {
		Ticker string `json:"ticker"`
	}
	if len(task.Payload) > 0 {
		if err := json.Unmarshal(task.Payload, &payload); err == nil && payload.Ticker != "" {
			return payload.Ticker, nil
		}
	}
	return "", fmt.Errorf("no ticker specified in task %d", task.ID)
}
