package repository

import (
	"context"

	"stock-sentiment-tracker/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ItemScoreRepository defines the interface for sentiment score persistence.
type ItemScoreRepository interface {
	Upsert(ctx context.Context, score *entity.ItemScore) error
}

// NewItemScoreRepository creates a new GORM-based item score repository.
func NewItemScoreRepository(db *gorm.DB) ItemScoreRepository {
	return &itemScoreRepository{db: db}
}

type itemScoreRepository struct {
	db *gorm.DB
}

// Upsert stores a score, replacing any previous score from the same model.
func (r *itemScoreRepository) Upsert(ctx context.Context, score *entity.ItemScore) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "item_id"}, {Name: "model"}},
		DoUpdates: clause.AssignmentColumns([]string{"sentiment_label", "sentiment_score", "confidence", "topics"}),
	}).Create(score).Error
}
