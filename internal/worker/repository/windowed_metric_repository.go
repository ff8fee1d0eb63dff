package repository

import (
	"context"

	"stock-sentiment-tracker/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WindowedMetricRepository defines the interface for windowed alignment
// metric persistence.
type WindowedMetricRepository interface {
	Upsert(ctx context.Context, metric *entity.WindowedMetric) error
}

// NewWindowedMetricRepository creates a new GORM-based windowed metric
// repository.
func NewWindowedMetricRepository(db *gorm.DB) WindowedMetricRepository {
	return &windowedMetricRepository{db: db}
}

type windowedMetricRepository struct {
	db *gorm.DB
}

// Upsert stores a metric keyed by (ticker, date_end, window_days).
func (r *windowedMetricRepository) Upsert(ctx context.Context, metric *entity.WindowedMetric) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "ticker"}, {Name: "date_end"}, {Name: "window_days"}},
		DoUpdates: clause.AssignmentColumns([]string{"corr", "directional_match", "alignment_score", "misalignment_days", "interpretation"}),
	}).Create(metric).Error
}
