package repository

import (
	"context"
	"time"

	"stock-sentiment-tracker/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DailyAggregateRepository defines the interface for daily sentiment
// aggregates.
type DailyAggregateRepository interface {
	AggregateScores(ctx context.Context, ticker, model string, since time.Time) ([]entity.DailyAggregate, error)
	UpsertAll(ctx context.Context, aggs []entity.DailyAggregate) (int, error)
	FindSince(ctx context.Context, ticker string, since time.Time) ([]entity.DailyAggregate, error)
}

// NewDailyAggregateRepository creates a new GORM-based daily aggregate
// repository.
func NewDailyAggregateRepository(db *gorm.DB) DailyAggregateRepository {
	return &dailyAggregateRepository{db: db}
}

type dailyAggregateRepository struct {
	db *gorm.DB
}

// AggregateScores recomputes per-day sentiment aggregates from all scored
// items of the ticker published on or after the cutoff.
func (r *dailyAggregateRepository) AggregateScores(ctx context.Context, ticker, model string, since time.Time) ([]entity.DailyAggregate, error) {
	var aggs []entity.DailyAggregate
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			i.ticker AS ticker,
			DATE(i.published_at) AS date,
			COALESCE(AVG(s.sentiment_score), 0) AS sentiment_avg,
			COUNT(*) AS article_count,
			SUM(CASE WHEN s.sentiment_label = 'POSITIVE' THEN 1 ELSE 0 END) AS positive_count,
			SUM(CASE WHEN s.sentiment_label = 'NEUTRAL' THEN 1 ELSE 0 END) AS neutral_count,
			SUM(CASE WHEN s.sentiment_label = 'NEGATIVE' THEN 1 ELSE 0 END) AS negative_count
		FROM items i
		JOIN item_scores s ON i.id = s.item_id AND s.model = ?
		WHERE i.ticker = ? AND i.published_at IS NOT NULL AND DATE(i.published_at) >= ?
		GROUP BY i.ticker, DATE(i.published_at)
		ORDER BY date ASC`, model, ticker, since).Scan(&aggs).Error
	if err != nil {
		return nil, err
	}
	return aggs, nil
}

// UpsertAll upserts aggregates keyed by (ticker, date).
func (r *dailyAggregateRepository) UpsertAll(ctx context.Context, aggs []entity.DailyAggregate) (int, error) {
	if len(aggs) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "ticker"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"sentiment_avg", "article_count", "positive_count", "neutral_count", "negative_count"}),
	}).Create(&aggs)
	if res.Error != nil {
		return 0, res.Error
	}
	return len(aggs), nil
}

// FindSince returns aggregates on or after the cutoff ordered by date.
func (r *dailyAggregateRepository) FindSince(ctx context.Context, ticker string, since time.Time) ([]entity.DailyAggregate, error) {
	var aggs []entity.DailyAggregate
	if err := r.db.WithContext(ctx).
		Where("ticker = ? AND date >= ?", ticker, since).
		Order("date ASC").
		Find(&aggs).Error; err != nil {
		return nil, err
	}
	return aggs, nil
}
