package dto

// Quote is the JSON shape written into the Redis quote cache. The worker
// reads the same shape when stamping price context onto news items.
type Quote struct {
	Price          *float64 `json:"price"`
	PriceChange    *float64 `json:"price_change"`
	PriceDirection string   `json:"price_direction"`
}
