package entity

import (
	"time"

	"github.com/lib/pq"
)

// Sentiment labels produced by the scorer.
const (
	SentimentPositive = "POSITIVE"
	SentimentNeutral  = "NEUTRAL"
	SentimentNegative = "NEGATIVE"
)

// ItemScore is a model-assigned sentiment score for one news item.
type ItemScore struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ItemID         uint      `gorm:"not null;uniqueIndex:idx_item_scores_item_model" json:"item_id"`
	Model          string    `gorm:"not null;uniqueIndex:idx_item_scores_item_model" json:"model"`
	SentimentLabel string    `gorm:"not null" json:"sentiment_label"`
	SentimentScore float64   `gorm:"not null" json:"sentiment_score"`
	Confidence     float64        `gorm:"not null" json:"confidence"`
	Topics         pq.StringArray `gorm:"type:text[]" json:"topics,omitempty" swaggertype:"array,string"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for the ItemScore model.
func (ItemScore) TableName() string {
	return "item_scores"
}
