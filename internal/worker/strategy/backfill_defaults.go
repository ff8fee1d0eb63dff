package strategy

import (
	"context"
	"fmt"

	"stock-sentiment-tracker/internal/entity"
	"stock-sentiment-tracker/internal/worker/dto"
	"stock-sentiment-tracker/pkg/common"
	"stock-sentiment-tracker/pkg/logger"
)

// BackfillDefaultsStrategy handles BACKFILL_DEFAULTS: a backfill over the
// fixed default ticker set.
type BackfillDefaultsStrategy struct {
	log      *logger.Logger
	pipeline Pipeline
}

// NewBackfillDefaultsStrategy creates a new BackfillDefaultsStrategy.
func NewBackfillDefaultsStrategy(log *logger.Logger, pipeline Pipeline) *BackfillDefaultsStrategy {
	return &BackfillDefaultsStrategy{log: log, pipeline: pipeline}
}

// GetType returns the task type this strategy handles.
func (s *BackfillDefaultsStrategy) GetType() entity.TaskType {
	return entity.TaskTypeBackfillDefaults
}

// BackfillDefaultsResult is the task result for the default-set backfill.
type BackfillDefaultsResult struct {
	Tickers []string                       `json:"tickers"`
	Results map[string]dto.TickerRunResult `json:"results"`
}

// Execute backfills every default ticker. Per-ticker failures are recorded
// without aborting the remaining tickers.
func (s *BackfillDefaultsStrategy) Execute(ctx context.Context, task *entity.Task) (interface{}, error) {
	params, err := dto.DefaultBackfillParams().ApplyOverrides(task.Payload)
	if err != nil {
		return nil, fmt.Errorf("failed to apply payload overrides: %w", err)
	}

	result := BackfillDefaultsResult{
		Tickers: common.DefaultTickers,
		Results: make(map[string]dto.TickerRunResult, len(common.DefaultTickers)),
	}

	for _, ticker := range common.DefaultTickers {
		s.log.Info("Backfilling default ticker", logger.StringField("ticker", ticker))
		summary := s.pipeline.RunForTicker(ctx, ticker, params)
		run := dto.TickerRunResult{Success: summary.Success, Elapsed: summary.ElapsedSeconds}
		if !summary.Success {
			run.Error = summary.Error
		}
		result.Results[summary.Ticker] = run
	}

	return result, nil
}
