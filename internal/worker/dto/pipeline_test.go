package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultParams(t *testing.T) {
	daily := DefaultDailyUpdateParams()
	assert.Equal(t, 48, daily.NewsHours)
	assert.Equal(t, 200, daily.ScoreLimit)
	assert.Equal(t, []int{7}, daily.Windows())

	refresh := DefaultRefreshParams()
	assert.Equal(t, 48, refresh.NewsHours)
	assert.Equal(t, 50, refresh.ScoreLimit)
	assert.Equal(t, []int{7}, refresh.Windows())

	backfill := DefaultBackfillParams()
	assert.Equal(t, 720, backfill.NewsHours)
	assert.Equal(t, 500, backfill.ScoreLimit)
	assert.Equal(t, []int{7, 14, 30}, backfill.Windows())
}

func TestApplyOverrides(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		check   func(t *testing.T, p PipelineParams)
	}{
		{
			name:    "empty payload keeps defaults",
			payload: "",
			check: func(t *testing.T, p PipelineParams) {
				assert.Equal(t, DefaultRefreshParams(), p)
			},
		},
		{
			name:    "partial override",
			payload: `{"news_hours": 24, "score_limit": 10}`,
			check: func(t *testing.T, p PipelineParams) {
				assert.Equal(t, 24, p.NewsHours)
				assert.Equal(t, 10, p.ScoreLimit)
				assert.Equal(t, 180, p.PricesDays)
			},
		},
		{
			name:    "non-positive values ignored",
			payload: `{"news_hours": 0, "score_limit": -5}`,
			check: func(t *testing.T, p PipelineParams) {
				assert.Equal(t, DefaultRefreshParams(), p)
			},
		},
		{
			name:    "unknown keys ignored",
			payload: `{"ticker": "TSLA", "nonsense": true}`,
			check: func(t *testing.T, p PipelineParams) {
				assert.Equal(t, DefaultRefreshParams(), p)
			},
		},
		{
			name:    "window list override",
			payload: `{"window_days_list": [5, 10]}`,
			check: func(t *testing.T, p PipelineParams) {
				assert.Equal(t, []int{5, 10}, p.Windows())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := DefaultRefreshParams().ApplyOverrides([]byte(tt.payload))
			require.NoError(t, err)
			tt.check(t, p)
		})
	}
}

func TestApplyOverridesInvalidJSON(t *testing.T) {
	_, err := DefaultRefreshParams().ApplyOverrides([]byte("{not json"))
	assert.Error(t, err)
}
