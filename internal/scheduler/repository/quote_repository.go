package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"stock-sentiment-tracker/internal/scheduler/config"
	"stock-sentiment-tracker/internal/scheduler/dto"

	"golang.org/x/time/rate"
)

// QuoteRepository fetches the current quote for a ticker.
type QuoteRepository interface {
	FetchQuote(ctx context.Context, ticker string) (*dto.Quote, error)
}

type quoteRepository struct {
	cfg            *config.Config
	client         *http.Client
	requestLimiter *rate.Limiter
}

// NewQuoteRepository creates a Yahoo Finance backed quote fetcher.
func NewQuoteRepository(cfg *config.Config) (QuoteRepository, error) {
	if cfg.YahooFinance.MaxRequestPerMinute <= 0 {
		return nil, fmt.Errorf("yahoo finance max_request_per_minute must be positive")
	}
	secondsPerRequest := time.Minute / time.Duration(cfg.YahooFinance.MaxRequestPerMinute)
	return &quoteRepository{
		cfg: cfg,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
	}, nil
}

type chartMetaResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				PreviousClose      float64 `json:"chartPreviousClose"`
			} `json:"meta"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// FetchQuote returns the current price and its change against the previous
// close. An unpriced ticker yields direction "unknown", not an error.
func (r *quoteRepository) FetchQuote(ctx context.Context, ticker string) (*dto.Quote, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for request limit: %w", err)
	}

	apiURL := fmt.Sprintf("%s/v8/finance/chart/%s?range=1d&interval=1d", r.cfg.YahooFinance.BaseURL, ticker)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create quote request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch quote: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("quote API returned status %d: %s", resp.StatusCode, string(body))
	}

	var chart chartMetaResponse
	if err := json.NewDecoder(resp.Body).Decode(&chart); err != nil {
		return nil, fmt.Errorf("failed to decode quote response: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("quote API error: %s - %s", chart.Chart.Error.Code, chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 {
		return nil, fmt.Errorf("quote API returned no result")
	}

	meta := chart.Chart.Result[0].Meta
	if meta.RegularMarketPrice == 0 {
		return &dto.Quote{PriceDirection: "unknown"}, nil
	}

	price := math.Round(meta.RegularMarketPrice*100) / 100
	quote := &dto.Quote{Price: &price, PriceDirection: "neutral"}
	if meta.PreviousClose != 0 {
		change := math.Round((meta.RegularMarketPrice-meta.PreviousClose)*100) / 100
		quote.PriceChange = &change
		if change > 0 {
			quote.PriceDirection = "up"
		} else if change < 0 {
			quote.PriceDirection = "down"
		}
	}
	return quote, nil
}
