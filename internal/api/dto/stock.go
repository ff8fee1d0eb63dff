package dto

import (
	"strings"
)

// CreateStockRequest is the DTO for adding a ticker to the watchlist.
type CreateStockRequest struct {
	Ticker string `json:"ticker"`
}

// Validate normalizes and checks the ticker symbol.
func (r *CreateStockRequest) Validate() error {
	r.Ticker = strings.ToUpper(strings.TrimSpace(r.Ticker))
	if r.Ticker == "" {
		return &ValidationError{Reason: "ticker is required"}
	}
	if len(r.Ticker) > 10 {
		return &ValidationError{Reason: "ticker is too long"}
	}
	return nil
}

// StockResponse is the DTO for watchlist entries.
type StockResponse struct {
	ID       uint   `json:"id"`
	Ticker   string `json:"ticker"`
	IsActive bool   `json:"is_active"`
}
