package repository

import (
	"context"
	"time"

	"stock-sentiment-tracker/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PriceBarRepository defines the interface for daily price bar persistence.
type PriceBarRepository interface {
	UpsertBars(ctx context.Context, bars []entity.PriceBar) (int, error)
	FindByTickerOrdered(ctx context.Context, ticker string) ([]entity.PriceBar, error)
	UpdateReturn(ctx context.Context, id uint, return1d *float64) error
	FindReturnsSince(ctx context.Context, ticker string, since time.Time) ([]entity.PriceBar, error)
}

// NewPriceBarRepository creates a new GORM-based price bar repository.
func NewPriceBarRepository(db *gorm.DB) PriceBarRepository {
	return &priceBarRepository{db: db}
}

type priceBarRepository struct {
	db *gorm.DB
}

// UpsertBars upserts bars keyed by (ticker, date) and returns the number of
// rows written.
func (r *priceBarRepository) UpsertBars(ctx context.Context, bars []entity.PriceBar) (int, error) {
	if len(bars) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "ticker"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"open", "high", "low", "close", "adj_close", "volume"}),
	}).Create(&bars)
	if res.Error != nil {
		return 0, res.Error
	}
	return len(bars), nil
}

// FindByTickerOrdered returns every bar of a ticker ordered by date
// ascending, the input for the full return_1d recompute.
func (r *priceBarRepository) FindByTickerOrdered(ctx context.Context, ticker string) ([]entity.PriceBar, error) {
	var bars []entity.PriceBar
	if err := r.db.WithContext(ctx).
		Where("ticker = ?", ticker).
		Order("date ASC").
		Find(&bars).Error; err != nil {
		return nil, err
	}
	return bars, nil
}

// UpdateReturn sets (or clears) the stored return_1d of one bar.
func (r *priceBarRepository) UpdateReturn(ctx context.Context, id uint, return1d *float64) error {
	return r.db.WithContext(ctx).Model(&entity.PriceBar{}).
		Where("id = ?", id).
		Update("return_1d", return1d).Error
}

// FindReturnsSince returns bars with a computed return_1d on or after the
// cutoff, ordered by date.
func (r *priceBarRepository) FindReturnsSince(ctx context.Context, ticker string, since time.Time) ([]entity.PriceBar, error) {
	var bars []entity.PriceBar
	if err := r.db.WithContext(ctx).
		Where("ticker = ? AND return_1d IS NOT NULL AND date >= ?", ticker, since).
		Order("date ASC").
		Find(&bars).Error; err != nil {
		return nil, err
	}
	return bars, nil
}
