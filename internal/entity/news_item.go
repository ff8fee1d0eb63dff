package entity

import (
	"database/sql"
	"time"
)

// NewsItem is one ingested article. Rows are deduplicated on (source, url);
// the price context columns capture the quote at ingestion time.
type NewsItem struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	Ticker         string          `gorm:"not null;index" json:"ticker"`
	Source         string          `gorm:"not null;uniqueIndex:idx_items_source_url" json:"source"`
	URL            string          `gorm:"not null;uniqueIndex:idx_items_source_url" json:"url"`
	Title          string          `gorm:"not null" json:"title"`
	Snippet        string          `json:"snippet"`
	PublishedAt    *time.Time      `json:"published_at,omitempty"`
	CurrentPrice   sql.NullFloat64 `json:"current_price,omitempty" swaggertype:"number"`
	PriceChange    sql.NullFloat64 `json:"price_change,omitempty" swaggertype:"number"`
	PriceDirection string          `json:"price_direction,omitempty"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`

	Scores []ItemScore `gorm:"foreignKey:ItemID" json:"scores,omitempty"`
}

// TableName specifies the table name for the NewsItem model.
func (NewsItem) TableName() string {
	return "items"
}
