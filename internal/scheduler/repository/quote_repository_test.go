package repository

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"stock-sentiment-tracker/internal/scheduler/config"
	pkgconfig "stock-sentiment-tracker/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newQuoteServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
}

func newQuoteRepo(t *testing.T, baseURL string) QuoteRepository {
	t.Helper()
	repo, err := NewQuoteRepository(&config.Config{
		YahooFinance: pkgconfig.YahooFinance{BaseURL: baseURL, MaxRequestPerMinute: 600},
	})
	require.NoError(t, err)
	return repo
}

func TestFetchQuote(t *testing.T) {
	srv := newQuoteServer(t, `{"chart":{"result":[{"meta":{"regularMarketPrice":251.50,"chartPreviousClose":250.00}}]}}`)
	defer srv.Close()

	quote, err := newQuoteRepo(t, srv.URL).FetchQuote(context.Background(), "TSLA")
	require.NoError(t, err)
	require.NotNil(t, quote.Price)
	assert.Equal(t, 251.50, *quote.Price)
	require.NotNil(t, quote.PriceChange)
	assert.Equal(t, 1.50, *quote.PriceChange)
	assert.Equal(t, "up", quote.PriceDirection)
}

func TestFetchQuoteDown(t *testing.T) {
	srv := newQuoteServer(t, `{"chart":{"result":[{"meta":{"regularMarketPrice":248.00,"chartPreviousClose":250.00}}]}}`)
	defer srv.Close()

	quote, err := newQuoteRepo(t, srv.URL).FetchQuote(context.Background(), "TSLA")
	require.NoError(t, err)
	assert.Equal(t, "down", quote.PriceDirection)
}

func TestFetchQuoteUnpriced(t *testing.T) {
	srv := newQuoteServer(t, `{"chart":{"result":[{"meta":{"regularMarketPrice":0,"chartPreviousClose":0}}]}}`)
	defer srv.Close()

	quote, err := newQuoteRepo(t, srv.URL).FetchQuote(context.Background(), "ZZZ")
	require.NoError(t, err)
	assert.Nil(t, quote.Price)
	assert.Equal(t, "unknown", quote.PriceDirection)
}

func TestFetchQuoteAPIError(t *testing.T) {
	srv := newQuoteServer(t, `{"chart":{"result":[],"error":{"code":"Not Found","description":"No data found"}}}`)
	defer srv.Close()

	_, err := newQuoteRepo(t, srv.URL).FetchQuote(context.Background(), "ZZZ")
	assert.ErrorContains(t, err, "No data found")
}

func TestFetchQuoteHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := newQuoteRepo(t, srv.URL).FetchQuote(context.Background(), "TSLA")
	assert.ErrorContains(t, err, "status 429")
}
