package entity

import "time"

// DailyAggregate summarizes the scored news sentiment of one ticker for one
// day. Rows are recomputed idempotently from item scores.
type DailyAggregate struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Ticker        string    `gorm:"not null;uniqueIndex:idx_daily_agg_ticker_date" json:"ticker"`
	Date          time.Time `gorm:"type:date;not null;uniqueIndex:idx_daily_agg_ticker_date" json:"date"`
	SentimentAvg  float64   `json:"sentiment_avg"`
	ArticleCount  int       `json:"article_count"`
	PositiveCount int       `json:"positive_count"`
	NeutralCount  int       `json:"neutral_count"`
	NegativeCount int       `json:"negative_count"`
}

// TableName specifies the table name for the DailyAggregate model.
func (DailyAggregate) TableName() string {
	return "daily_agg"
}
