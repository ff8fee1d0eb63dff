package entity

import "time"

// TrackedStock is a ticker on the watchlist. Active tickers are iterated by
// the DAILY_UPDATE_ALL task.
type TrackedStock struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Ticker    string    `gorm:"unique;not null" json:"ticker"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for the TrackedStock model.
func (TrackedStock) TableName() string {
	return "tracked_stocks"
}
