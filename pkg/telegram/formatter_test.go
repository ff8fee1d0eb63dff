package telegram

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatTaskFailure(t *testing.T) {
	msg := FormatTaskFailure("REFRESH_STOCK", "TSLA", "pipeline failed: boom", 1, 3)
	assert.Contains(t, msg, "REFRESH_STOCK")
	assert.Contains(t, msg, "TSLA")
	assert.Contains(t, msg, "1/3")
	assert.Contains(t, msg, "pipeline failed: boom")
}

func TestFormatTaskFailureOmitsEmptyTicker(t *testing.T) {
	msg := FormatTaskFailure("DAILY_UPDATE_ALL", "", "boom", 2, 3)
	assert.NotContains(t, msg, "Ticker")
}

func TestFormatTaskFailureTruncatesError(t *testing.T) {
	msg := FormatTaskFailure("REFRESH_STOCK", "TSLA", strings.Repeat("x", 2000), 1, 3)
	assert.Contains(t, msg, "...")
	assert.Less(t, len(msg), 1000)
}
