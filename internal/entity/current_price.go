package entity

import (
	"database/sql"
	"time"
)

// CurrentPrice is the latest fetched quote for a tracked ticker.
type CurrentPrice struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	Ticker         string          `gorm:"unique;not null" json:"ticker"`
	Price          sql.NullFloat64 `json:"price,omitempty" swaggertype:"number"`
	PriceChange    sql.NullFloat64 `json:"price_change,omitempty" swaggertype:"number"`
	PriceDirection string          `json:"price_direction"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for the CurrentPrice model.
func (CurrentPrice) TableName() string {
	return "current_prices"
}
