package dto

import "time"

// Article is one news item returned by the news source.
type Article struct {
	URL         string
	Headline    string
	Source      string
	PublishedAt *time.Time
	Snippet     string
}

// DailyPrice is one daily OHLCV bar returned by the price source, ordered
// ascending by date.
type DailyPrice struct {
	Date     time.Time
	Open     float64
	High     float64
	Low      float64
	Close    float64
	AdjClose float64
	Volume   int64
}

// Quote is a point-in-time price snapshot for a ticker. The JSON form is
// what the scheduler writes into the Redis quote cache.
type Quote struct {
	Price          *float64 `json:"price"`
	PriceChange    *float64 `json:"price_change"`
	PriceDirection string   `json:"price_direction"`
}

// SentimentResult is the scorer output for one piece of text.
type SentimentResult struct {
	Label      string   `json:"label"`
	Score      float64  `json:"score"`
	Confidence float64  `json:"confidence"`
	Topics     []string `json:"topics,omitempty"`
}
