package repository

import (
	"context"

	"stock-sentiment-tracker/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NewsItemRepository defines the interface for news item persistence.
type NewsItemRepository interface {
	CreateIgnoreConflict(ctx context.Context, item *entity.NewsItem) (bool, error)
	FindUnscored(ctx context.Context, ticker, model string, limit int) ([]entity.NewsItem, error)
}

// NewNewsItemRepository creates a new GORM-based news item repository.
func NewNewsItemRepository(db *gorm.DB) NewsItemRepository {
	return &newsItemRepository{db: db}
}

type newsItemRepository struct {
	db *gorm.DB
}

// CreateIgnoreConflict inserts a news item unless a row with the same
// (source, url) already exists. Returns whether a row was inserted.
func (r *newsItemRepository) CreateIgnoreConflict(ctx context.Context, item *entity.NewsItem) (bool, error) {
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "source"}, {Name: "url"}},
		DoNothing: true,
	}).Create(item)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// FindUnscored returns up to limit items for the ticker that have no score
// from the given model, most recent first.
func (r *newsItemRepository) FindUnscored(ctx context.Context, ticker, model string, limit int) ([]entity.NewsItem, error) {
	var items []entity.NewsItem
	err := r.db.WithContext(ctx).Raw(`
		SELECT i.*
		FROM items i
		LEFT JOIN item_scores s ON i.id = s.item_id AND s.model = ?
		WHERE i.ticker = ? AND s.item_id IS NULL
		ORDER BY i.published_at DESC NULLS LAST
		LIMIT ?`, model, ticker, limit).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
