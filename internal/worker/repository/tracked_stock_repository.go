package repository

import (
	"context"

	"stock-sentiment-tracker/internal/entity"

	"gorm.io/gorm"
)

// TrackedStockRepository reads the watchlist. The worker never mutates it.
type TrackedStockRepository interface {
	GetActive(ctx context.Context) ([]entity.TrackedStock, error)
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
