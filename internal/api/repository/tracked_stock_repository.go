package repository

import (
	"context"

	"stock-sentiment-tracker/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TrackedStockRepository defines watchlist operations exposed over the API.
type TrackedStockRepository interface {
	FindAll(ctx context.Context) ([]entity.TrackedStock, error)
	FindByTicker(ctx context.Context, ticker string) (*entity.TrackedStock, error)
	UpsertActive(ctx context.Context, ticker string) (*entity.TrackedStock, error)
}

// NewTrackedStockRepository creates a new GORM-based tracked stock repository.
func NewTrackedStockRepository(db *gorm.DB) TrackedStockRepository {
	return &trackedStockRepository{db: db}
}

type trackedStockRepository struct {
	db *gorm.DB
}

// FindAll returns the full watchlist ordered alphabetically.
func (r *trackedStockRepository) FindAll(ctx context.Context) ([]entity.TrackedStock, error) {
	var stocks []entity.TrackedStock
	if err := r.db.WithContext(ctx).Order("ticker ASC").Find(&stocks).Error; err != nil {
		return nil, err
	}
	return stocks, nil
}

// FindByTicker retrieves a single watchlist entry.
func (r *trackedStockRepository) FindByTicker(ctx context.Context, ticker string) (*entity.TrackedStock, error) {
	var stock entity.TrackedStock
	if err := r.db.WithContext(ctx).Where("ticker = ?", ticker).First(&stock).Error; err != nil {
		return nil, err
	}
	return &stock, nil
}

// UpsertActive adds a ticker to the watchlist or reactivates it, returning
// the stored row.
func (r *trackedStockRepository) UpsertActive(ctx context.Context, ticker string) (*entity.TrackedStock, error) {
	stock := entity.TrackedStock{Ticker: ticker, IsActive: true}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "ticker"}},
		DoUpdates: clause.AssignmentColumns([]string{"is_active", "updated_at"}),
	}).Create(&stock).Error; err != nil {
		return nil, err
	}
	return r.FindByTicker(ctx, ticker)
}
