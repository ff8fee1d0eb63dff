package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"stock-sentiment-tracker/internal/worker/config"
	"stock-sentiment-tracker/internal/worker/dto"
	"stock-sentiment-tracker/pkg/logger"

	"golang.org/x/time/rate"
)

// PriceSourceRepository fetches market data for a ticker.
type PriceSourceRepository interface {
	FetchDailyBars(ctx context.Context, ticker string, days int) ([]dto.DailyPrice, error)
	FetchQuote(ctx context.Context, ticker string) (*dto.Quote, error)
}

type yahooFinanceRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	client         *http.Client
	requestLimiter *rate.Limiter
}

// NewYahooFinanceRepository creates a Yahoo Finance chart API backed price
// source.
func NewYahooFinanceRepository(cfg *config.Config, log *logger.Logger) (PriceSourceRepository, error) {
	if cfg.YahooFinance.MaxRequestPerMinute <= 0 {
		return nil, fmt.Errorf("yahoo finance max_request_per_minute must be positive")
	}
	secondsPerRequest := time.Minute / time.Duration(cfg.YahooFinance.MaxRequestPerMinute)
	return &yahooFinanceRepository{
		cfg: cfg,
		log: log,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
	}, nil
}

// chartResponse mirrors the subset of the Yahoo chart payload we consume.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				PreviousClose      float64 `json:"chartPreviousClose"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*int64   `json:"volume"`
				} `json:"quote"`
				AdjClose []struct {
					AdjClose []*float64 `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// FetchDailyBars returns up to `days` calendar days of daily bars ordered
// ascending by date. Days with no traded close are dropped.
func (r *yahooFinanceRepository) FetchDailyBars(ctx context.Context, ticker string, days int) ([]dto.DailyPrice, error) {
	now := time.Now().UTC()
	apiURL := fmt.Sprintf("%s/v8/finance/chart/%s?period1=%d&period2=%d&interval=1d&events=div%%2Csplit",
		r.cfg.YahooFinance.BaseURL, ticker, now.AddDate(0, 0, -days).Unix(), now.Unix())

	chart, err := r.fetchChart(ctx, apiURL)
	if err != nil {
		return nil, err
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, nil
	}
	quote := result.Indicators.Quote[0]

	var adjCloses []*float64
	if len(result.Indicators.AdjClose) > 0 {
		adjCloses = result.Indicators.AdjClose[0].AdjClose
	}

	bars := make([]dto.DailyPrice, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		closePrice := deref(quote.Close, i)
		if closePrice == nil {
			continue
		}

		bar := dto.DailyPrice{
			Date:     time.Unix(ts, 0).UTC().Truncate(24 * time.Hour),
			Close:    *closePrice,
			AdjClose: *closePrice,
		}
		if v := deref(quote.Open, i); v != nil {
			bar.Open = *v
		}
		if v := deref(quote.High, i); v != nil {
			bar.High = *v
		}
		if v := deref(quote.Low, i); v != nil {
			bar.Low = *v
		}
		if i < len(adjCloses) && adjCloses[i] != nil {
			bar.AdjClose = *adjCloses[i]
		}
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			bar.Volume = *quote.Volume[i]
		}
		bars = append(bars, bar)
	}

	r.log.DebugContext(ctx, "Fetched daily bars",
		logger.StringField("ticker", ticker),
		logger.IntField("count", len(bars)),
	)

	return bars, nil
}

// FetchQuote returns the current price and its change against the previous
// close.
func (r *yahooFinanceRepository) FetchQuote(ctx context.Context, ticker string) (*dto.Quote, error) {
	apiURL := fmt.Sprintf("%s/v8/finance/chart/%s?range=1d&interval=1d", r.cfg.YahooFinance.BaseURL, ticker)

	chart, err := r.fetchChart(ctx, apiURL)
	if err != nil {
		return nil, err
	}

	meta := chart.Chart.Result[0].Meta
	if meta.RegularMarketPrice == 0 {
		return &dto.Quote{PriceDirection: "unknown"}, nil
	}

	price := math.Round(meta.RegularMarketPrice*100) / 100
	q := &dto.Quote{Price: &price, PriceDirection: "neutral"}
	if meta.PreviousClose != 0 {
		change := math.Round((meta.RegularMarketPrice-meta.PreviousClose)*100) / 100
		q.PriceChange = &change
		if change > 0 {
			q.PriceDirection = "up"
		} else if change < 0 {
			q.PriceDirection = "down"
		}
	}
	return q, nil
}

func (r *yahooFinanceRepository) fetchChart(ctx context.Context, apiURL string) (*chartResponse, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for request limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create chart request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chart data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("chart API returned status %d: %s", resp.StatusCode, string(body))
	}

	var chart chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&chart); err != nil {
		return nil, fmt.Errorf("failed to decode chart response: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("chart API error: %s - %s", chart.Chart.Error.Code, chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 {
		return nil, fmt.Errorf("chart API returned no result")
	}
	return &chart, nil
}

func deref(values []*float64, i int) *float64 {
	if i >= len(values) {
		return nil
	}
	return values[i]
}
