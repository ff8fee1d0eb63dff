package entity

import (
	"database/sql"
	"time"
)

// PriceBar is one daily OHLCV bar. Return1D is the percent change from the
// prior trading day's close and is null for the first bar of a ticker.
type PriceBar struct {
	ID       uint            `gorm:"primaryKey" json:"id"`
	Ticker   string          `gorm:"not null;uniqueIndex:idx_prices_daily_ticker_date" json:"ticker"`
	Date     time.Time       `gorm:"type:date;not null;uniqueIndex:idx_prices_daily_ticker_date" json:"date"`
	Open     float64         `json:"open"`
	High     float64         `json:"high"`
	Low      float64         `json:"low"`
	Close    float64         `json:"close"`
	AdjClose float64         `json:"adj_close"`
	Volume   int64           `json:"volume"`
	Return1D sql.NullFloat64 `gorm:"column:return_1d" json:"return_1d,omitempty" swaggertype:"number"`
}

// TableName specifies the table name for the PriceBar model.
func (PriceBar) TableName() string {
	return "prices_daily"
}
