package repository

import (
	"context"

	"stock-sentiment-tracker/internal/entity"

	"gorm.io/gorm"
)

// MarketDataRepository serves the read-only per-ticker endpoints.
type MarketDataRepository interface {
	FindPriceBars(ctx context.Context, ticker string, limit int) ([]entity.PriceBar, error)
	FindDailyAggregates(ctx context.Context, ticker string, limit int) ([]entity.DailyAggregate, error)
	FindWindowedMetrics(ctx context.Context, ticker string, windowDays, limit int) ([]entity.WindowedMetric, error)
	FindHeadlines(ctx context.Context, ticker string, limit int) ([]entity.NewsItem, error)
}

// NewMarketDataRepository creates a new GORM-based market data repository.
func NewMarketDataRepository(db *gorm.DB) MarketDataRepository {
	return &marketDataRepository{db: db}
}

type marketDataRepository struct {
	db *gorm.DB
}

// FindPriceBars returns the most recent daily bars for a ticker.
func (r *marketDataRepository) FindPriceBars(ctx context.Context, ticker string, limit int) ([]entity.PriceBar, error) {
	var bars []entity.PriceBar
	if err := r.db.WithContext(ctx).
		Where("ticker = ?", ticker).
		Order("date DESC").
		Limit(limit).
		Find(&bars).Error; err != nil {
		return nil, err
	}
	return bars, nil
}

// FindDailyAggregates returns the most recent sentiment aggregates for a
// ticker.
func (r *marketDataRepository) FindDailyAggregates(ctx context.Context, ticker string, limit int) ([]entity.DailyAggregate, error) {
	var aggs []entity.DailyAggregate
	if err := r.db.WithContext(ctx).
		Where("ticker = ?", ticker).
		Order("date DESC").
		Limit(limit).
		Find(&aggs).Error; err != nil {
		return nil, err
	}
	return aggs, nil
}

// FindWindowedMetrics returns alignment metrics for a ticker, optionally
// restricted to one window size.
func (r *marketDataRepository) FindWindowedMetrics(ctx context.Context, ticker string, windowDays, limit int) ([]entity.WindowedMetric, error) {
	q := r.db.WithContext(ctx).
		Where("ticker = ?", ticker).
		Order("date_end DESC, window_days ASC").
		Limit(limit)
	if windowDays > 0 {
		q = q.Where("window_days = ?", windowDays)
	}
	var metrics []entity.WindowedMetric
	if err := q.Find(&metrics).Error; err != nil {
		return nil, err
	}
	return metrics, nil
}

// FindHeadlines returns the most recent ingested articles for a ticker,
// with any sentiment scores preloaded.
func (r *marketDataRepository) FindHeadlines(ctx context.Context, ticker string, limit int) ([]entity.NewsItem, error) {
	var items []entity.NewsItem
	if err := r.db.WithContext(ctx).
		Preload("Scores").
		Where("ticker = ?", ticker).
		Order("published_at DESC NULLS LAST").
		Limit(limit).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
