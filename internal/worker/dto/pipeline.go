package dto

import (
	"encoding/json"
	"time"
)

// PipelineParams carries the per-step limits for one pipeline run. Each task
// type has its own defaults; payload overrides are applied field by field.
type PipelineParams struct {
	NewsHours      int   `json:"news_hours"`
	ScoreLimit     int   `json:"score_limit"`
	PricesDays     int   `json:"prices_days"`
	AggDays        int   `json:"agg_days"`
	MetricsDays    int   `json:"metrics_days"`
	WindowDays     int   `json:"window_days"`
	WindowDaysList []int `json:"window_days_list,omitempty"`
}

// DefaultDailyUpdateParams returns the defaults for DAILY_UPDATE_ALL.
func DefaultDailyUpdateParams() PipelineParams {
	return PipelineParams{
		NewsHours:   48,
		ScoreLimit:  200,
		PricesDays:  180,
		AggDays:     90,
		MetricsDays: 90,
		WindowDays:  7,
	}
}

// DefaultRefreshParams returns the defaults for REFRESH_STOCK.
func DefaultRefreshParams() PipelineParams {
	return PipelineParams{
		NewsHours:   48,
		ScoreLimit:  50,
		PricesDays:  180,
		AggDays:     30,
		MetricsDays: 30,
		WindowDays:  7,
	}
}

// DefaultBackfillParams returns the defaults for BACKFILL_STOCK and
// BACKFILL_DEFAULTS. Backfills compute metrics for multiple window sizes.
func DefaultBackfillParams() PipelineParams {
	return PipelineParams{
		NewsHours:      720,
		ScoreLimit:     500,
		PricesDays:     180,
		AggDays:        30,
		MetricsDays:    30,
		WindowDays:     7,
		WindowDaysList: []int{7, 14, 30},
	}
}

// paramOverrides mirrors PipelineParams with optional fields for payload
// decoding.
type paramOverrides struct {
	NewsHours      *int  `json:"news_hours"`
	ScoreLimit     *int  `json:"score_limit"`
	PricesDays     *int  `json:"prices_days"`
	AggDays        *int  `json:"agg_days"`
	MetricsDays    *int  `json:"metrics_days"`
	WindowDays     *int  `json:"window_days"`
	WindowDaysList []int `json:"window_days_list"`
}

// ApplyOverrides returns a copy of p with any positive values from the raw
// task payload applied. Unknown payload keys are ignored.
func (p PipelineParams) ApplyOverrides(payload []byte) (PipelineParams, error) {
	if len(payload) == 0 {
		return p, nil
	}

	var o paramOverrides
	if err := json.Unmarshal(payload, &o); err != nil {
		return p, err
	}

	if o.NewsHours != nil && *o.NewsHours > 0 {
		p.NewsHours = *o.NewsHours
	}
	if o.ScoreLimit != nil && *o.ScoreLimit > 0 {
		p.ScoreLimit = *o.ScoreLimit
	}
	if o.PricesDays != nil && *o.PricesDays > 0 {
		p.PricesDays = *o.PricesDays
	}
	if o.AggDays != nil && *o.AggDays > 0 {
		p.AggDays = *o.AggDays
	}
	if o.MetricsDays != nil && *o.MetricsDays > 0 {
		p.MetricsDays = *o.MetricsDays
	}
	if o.WindowDays != nil && *o.WindowDays > 0 {
		p.WindowDays = *o.WindowDays
	}
	if len(o.WindowDaysList) > 0 {
		p.WindowDaysList = o.WindowDaysList
	}
	return p, nil
}

// Windows returns the window sizes to evaluate: the list when set, otherwise
// the single WindowDays.
func (p PipelineParams) Windows() []int {
	if len(p.WindowDaysList) > 0 {
		return p.WindowDaysList
	}
	return []int{p.WindowDays}
}

// Step names used as keys in the pipeline summary.
const (
	StepIngestNews  = "ingest_news"
	StepScoreItems  = "score_items"
	StepIngestPrice = "ingest_prices"
	StepDailyAgg    = "daily_agg"
	StepMetrics     = "metrics"
)

// StepResult holds the outcome counts of one pipeline step.
type StepResult struct {
	Total    int `json:"total,omitempty"`
	Inserted int `json:"inserted,omitempty"`
	Skipped  int `json:"skipped,omitempty"`
	Selected int `json:"selected,omitempty"`
	Scored   int `json:"scored,omitempty"`
	Count    int `json:"count,omitempty"`
	Errors   int `json:"errors,omitempty"`
}

// PipelineSummary is the always-returned result of one pipeline run. A failed
// step aborts the remaining steps but completed step results are kept.
type PipelineSummary struct {
	Ticker         string                `json:"ticker"`
	StartedAt      time.Time             `json:"started_at"`
	Steps          map[string]StepResult `json:"steps"`
	Success        bool                  `json:"success"`
	Error          string                `json:"error,omitempty"`
	ElapsedSeconds float64               `json:"elapsed_seconds"`
}

// TickerRunResult summarizes one ticker's pipeline run inside a multi-ticker
// task result.
type TickerRunResult struct {
	Success bool    `json:"success"`
	Elapsed float64 `json:"elapsed,omitempty"`
	Error   string  `json:"error,omitempty"`
}
