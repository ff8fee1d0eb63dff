package entity

import "time"

// WindowedMetric is the alignment statistic for one (ticker, window end date,
// window size). Recomputation overwrites via upsert.
type WindowedMetric struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Ticker           string    `gorm:"not null;uniqueIndex:idx_metrics_windowed_key" json:"ticker"`
	DateEnd          time.Time `gorm:"type:date;not null;uniqueIndex:idx_metrics_windowed_key" json:"date_end"`
	WindowDays       int       `gorm:"not null;uniqueIndex:idx_metrics_windowed_key" json:"window_days"`
	Corr             float64   `json:"corr"`
	DirectionalMatch float64   `json:"directional_match"`
	AlignmentScore   float64   `json:"alignment_score"`
	MisalignmentDays int       `json:"misalignment_days"`
	Interpretation   string    `json:"interpretation"`
}

// TableName specifies the table name for the WindowedMetric model.
func (WindowedMetric) TableName() string {
	return "metrics_windowed"
}
