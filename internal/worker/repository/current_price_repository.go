package repository

import (
	"context"

	"stock-sentiment-tracker/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CurrentPriceRepository defines the interface for the latest-quote table.
type CurrentPriceRepository interface {
	Upsert(ctx context.Context, price *entity.CurrentPrice) error
	FindByTicker(ctx context.Context, ticker string) (*entity.CurrentPrice, error)
}

// NewCurrentPriceRepository creates a new GORM-based current price
// repository.
func NewCurrentPriceRepository(db *gorm.DB) CurrentPriceRepository {
	return &currentPriceRepository{db: db}
}

type currentPriceRepository struct {
	db *gorm.DB
}

// Upsert stores the latest quote keyed by ticker.
func (r *currentPriceRepository) Upsert(ctx context.Context, price *entity.CurrentPrice) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "ticker"}},
		DoUpdates: clause.AssignmentColumns([]string{"price", "price_change", "price_direction", "updated_at"}),
	}).Create(price).Error
}

// FindByTicker returns the latest stored quote, or nil when none exists.
func (r *currentPriceRepository) FindByTicker(ctx context.Context, ticker string) (*entity.CurrentPrice, error) {
	var price entity.CurrentPrice
	err := r.db.WithContext(ctx).Where("ticker = ?", ticker).First(&price).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &price, nil
}
