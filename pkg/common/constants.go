package common

// Redis keys used by the current-price cache.
const (
	RedisKeyCurrentPricePrefix = "price:current:"
	CurrentPriceCacheTTLMin    = 65
)

// MaxTaskErrorLength is the maximum stored length of a task error message.
const MaxTaskErrorLength = 1000

// MaxTaskAttempts is the attempt budget for a task before it is reported as exhausted.
const MaxTaskAttempts = 3

// DefaultTickers is the fixed set processed by BACKFILL_DEFAULTS.
var DefaultTickers = []string{"TSLA", "NVDA", "JPM", "PFE", "GME"}
