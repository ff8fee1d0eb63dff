package repository

import (
	"context"

	"stock-sentiment-tracker/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TrackedStockRepository defines watchlist operations used by the scheduler.
type TrackedStockRepository interface {
	GetActive(ctx context.Context) ([]entity.TrackedStock, error)
	UpsertActive(ctx context.Context, ticker string) error
}

// NewTrackedStockRepository creates a new GORM-based tracked stock repository.
func NewTrackedStockRepository(db *gorm.DB) TrackedStockRepository {
	return &trackedStockRepository{db: db}
}

type trackedStockRepository struct {
	db *gorm.DB
}

// GetActive returns all active tickers ordered alphabetically.
func (r *trackedStockRepository) GetActive(ctx context.Context) ([]entity.TrackedStock, error) {
	var stocks []entity.TrackedStock
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("ticker ASC").
		Find(&stocks).Error; err != nil {
		return nil, err
	}
	return stocks, nil
}

// UpsertActive adds a ticker to the watchlist or reactivates it.
func (r *trackedStockRepository) UpsertActive(ctx context.Context, ticker string) error {
	stock := entity.TrackedStock{Ticker: ticker, IsActive: true}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "ticker"}},
		DoUpdates: clause.AssignmentColumns([]string{"is_active", "updated_at"}),
	}).Create(&stock).Error
}
