package strategy

import (
	"context"
	"fmt"

	"stock-sentiment-tracker/internal/entity"
	"stock-sentiment-tracker/internal/worker/dto"
	"stock-sentiment-tracker/internal/worker/repository"
	"stock-sentiment-tracker/pkg/logger"
)

// DailyUpdateAllStrategy handles DAILY_UPDATE_ALL: the pipeline runs inline
// for every active ticker rather than fanning out into separate tasks.
type DailyUpdateAllStrategy struct {
	log              *logger.Logger
	pipeline         Pipeline
	trackedStockRepo repository.TrackedStockRepository
}

// NewDailyUpdateAllStrategy creates a new DailyUpdateAllStrategy.
func NewDailyUpdateAllStrategy(log *logger.Logger, pipeline Pipeline, trackedStockRepo repository.TrackedStockRepository) *DailyUpdateAllStrategy {
	return &DailyUpdateAllStrategy{log: log, pipeline: pipeline, trackedStockRepo: trackedStockRepo}
}

// GetType returns the task type this strategy handles.
func (s *DailyUpdateAllStrategy) GetType() entity.TaskType {
	return entity.TaskTypeDailyUpdateAll
}

// MultiTickerResult is the task result for multi-ticker runs.
type MultiTickerResult struct {
	TickersProcessed int                            `json:"tickers_processed"`
	Results          map[string]dto.TickerRunResult `json:"results"`
}

// Execute runs the pipeline for each active ticker. Per-ticker failures are
// recorded in the result without aborting the remaining tickers.
func (s *DailyUpdateAllStrategy) Execute(ctx context.Context, task *entity.Task) (interface{}, error) {
	stocks, err := s.trackedStockRepo.GetActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load active tickers: %w", err)
	}

	params, err := dto.DefaultDailyUpdateParams().ApplyOverrides(task.Payload)
	if err != nil {
		return nil, fmt.Errorf("failed to apply payload overrides: %w", err)
	}

	if len(stocks) == 0 {
		s.log.Warn("No active tickers to update")
		return MultiTickerResult{Results: map[string]dto.TickerRunResult{}}, nil
	}

	result := MultiTickerResult{Results: make(map[string]dto.TickerRunResult, len(stocks))}
	for _, stock := range stocks {
		summary := s.pipeline.RunForTicker(ctx, stock.Ticker, params)
		run := dto.TickerRunResult{Success: summary.Success, Elapsed: summary.ElapsedSeconds}
		if !summary.Success {
			run.Error = summary.Error
		}
		result.Results[summary.Ticker] = run
		result.TickersProcessed++
	}

	s.log.Info("Daily update finished", logger.IntField("tickers_processed", result.TickersProcessed))
	return result, nil
}
