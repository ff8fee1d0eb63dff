package repository

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"stock-sentiment-tracker/internal/worker/config"
	"stock-sentiment-tracker/internal/worker/dto"
	"stock-sentiment-tracker/pkg/logger"

	"github.com/PuerkitoBio/goquery"
	"github.com/mauidude/go-readability"
	"github.com/mmcdole/gofeed"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// NewsSourceRepository fetches recent articles for a ticker.
type NewsSourceRepository interface {
	Fetch(ctx context.Context, ticker string, hours int) ([]dto.Article, error)
}

type newsFeedRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	parser         *gofeed.Parser
	client         *http.Client
	requestLimiter *rate.Limiter
	snippetCache   *cache.Cache
}

// NewNewsFeedRepository creates a Google News RSS backed news source.
func NewNewsFeedRepository(cfg *config.Config, log *logger.Logger) (NewsSourceRepository, error) {
	if cfg.News.MaxRequestPerMinute <= 0 {
		return nil, fmt.Errorf("news max_request_per_minute must be positive")
	}
	secondsPerRequest := time.Minute / time.Duration(cfg.News.MaxRequestPerMinute)
	return &newsFeedRepository{
		cfg:    cfg,
		log:    log,
		parser: gofeed.NewParser(),
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
		snippetCache:   cache.New(30*time.Minute, 10*time.Minute),
	}, nil
}

// Fetch parses the ticker's RSS search feed and returns articles published
// within the lookback window, newest first.
func (r *newsFeedRepository) Fetch(ctx context.Context, ticker string, hours int) ([]dto.Article, error) {
	feedURL := fmt.Sprintf("%s/rss/search?q=%s+stock+when:%dh&hl=en-US&gl=US&ceid=US:en",
		r.cfg.News.BaseURL, url.QueryEscape(ticker), hours)

	r.log.Debug("Fetching news feed", logger.StringField("url", feedURL), logger.StringField("ticker", ticker))

	feed, err := r.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse news feed: %w", err)
	}

	cutoff := time.Now().Add(-time.Duration(hours) * time.Hour)
	articles := make([]dto.Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item.Link == "" {
			continue
		}
		if item.PublishedParsed != nil && item.PublishedParsed.Before(cutoff) {
			continue
		}

		snippet := snippetFromDescription(item.Description)
		if snippet == "" && r.cfg.News.FetchSnippets {
			snippet = r.fetchSnippet(ctx, item.Link)
		}

		articles = append(articles, dto.Article{
			URL:         item.Link,
			Headline:    item.Title,
			Source:      sourceFromLink(item.Link),
			PublishedAt: item.PublishedParsed,
			Snippet:     snippet,
		})
	}

	return articles, nil
}

// fetchSnippet downloads the article page and extracts readable text. Errors
// degrade to an empty snippet; ingestion proceeds on headline alone.
func (r *newsFeedRepository) fetchSnippet(ctx context.Context, link string) string {
	if cached, ok := r.snippetCache.Get(link); ok {
		return cached.(string)
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		return ""
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := r.client.Do(req)
	if err != nil {
		r.log.Debug("Failed to fetch article page", logger.ErrorField(err), logger.StringField("url", link))
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ""
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return ""
	}

	doc, err := readability.NewDocument(string(body))
	if err != nil {
		return ""
	}

	docHTML, err := goquery.NewDocumentFromReader(bytes.NewReader([]byte(doc.Content())))
	if err != nil {
		return ""
	}

	text := strings.Join(strings.Fields(docHTML.Text()), " ")
	if max := r.cfg.News.SnippetMaxLength; max > 0 && len(text) > max {
		text = text[:max]
	}

	r.snippetCache.Set(link, text, cache.DefaultExpiration)
	return text
}

// sourceFromLink derives the publisher name from the article URL host.
func sourceFromLink(link string) string {
	parsed, err := url.Parse(link)
	if err != nil || parsed.Host == "" {
		return "Unknown"
	}
	return strings.TrimPrefix(parsed.Host, "www.")
}

func snippetFromDescription(description string) string {
	if description == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(description))
	if err != nil {
		return ""
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
