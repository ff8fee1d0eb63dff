package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"stock-sentiment-tracker/internal/entity"
	"stock-sentiment-tracker/internal/worker/dto"
	"stock-sentiment-tracker/internal/worker/repository"
	"stock-sentiment-tracker/pkg/alignment"
	"stock-sentiment-tracker/pkg/common"
	"stock-sentiment-tracker/pkg/logger"
	"stock-sentiment-tracker/pkg/utils"

	"github.com/redis/go-redis/v9"
)

// PipelineService runs the five-step ETL pipeline for one ticker.
type PipelineService interface {
	RunForTicker(ctx context.Context, ticker string, params dto.PipelineParams) dto.PipelineSummary
}

// NewPipelineService creates a new pipeline service.
func NewPipelineService(
	log *logger.Logger,
	redisClient *redis.Client,
	newsSource repository.NewsSourceRepository,
	priceSource repository.PriceSourceRepository,
	scorer repository.SentimentScorerRepository,
	newsItemRepo repository.NewsItemRepository,
	itemScoreRepo repository.ItemScoreRepository,
	priceBarRepo repository.PriceBarRepository,
	dailyAggRepo repository.DailyAggregateRepository,
	metricRepo repository.WindowedMetricRepository,
	currentPriceRepo repository.CurrentPriceRepository,
) PipelineService {
	return &pipelineService{
		log:              log,
		redisClient:      redisClient,
		newsSource:       newsSource,
		priceSource:      priceSource,
		scorer:           scorer,
		newsItemRepo:     newsItemRepo,
		itemScoreRepo:    itemScoreRepo,
		priceBarRepo:     priceBarRepo,
		dailyAggRepo:     dailyAggRepo,
		metricRepo:       metricRepo,
		currentPriceRepo: currentPriceRepo,
	}
}

type pipelineService struct {
	log              *logger.Logger
	redisClient      *redis.Client
	newsSource       repository.NewsSourceRepository
	priceSource      repository.PriceSourceRepository
	scorer           repository.SentimentScorerRepository
	newsItemRepo     repository.NewsItemRepository
	itemScoreRepo    repository.ItemScoreRepository
	priceBarRepo     repository.PriceBarRepository
	dailyAggRepo     repository.DailyAggregateRepository
	metricRepo       repository.WindowedMetricRepository
	currentPriceRepo repository.CurrentPriceRepository
}

// RunForTicker executes the five steps in order. A failing step aborts the
// remaining steps; completed steps are not rolled back. The summary is always
// returned, never an error.
func (s *pipelineService) RunForTicker(ctx context.Context, ticker string, params dto.PipelineParams) dto.PipelineSummary {
	ticker = strings.ToUpper(ticker)
	started := time.Now()

	summary := dto.PipelineSummary{
		Ticker:    ticker,
		StartedAt: started,
		Steps:     make(map[string]dto.StepResult),
	}

	s.log.Info("Pipeline started",
		logger.StringField("ticker", ticker),
		logger.IntField("news_hours", params.NewsHours),
		logger.IntField("score_limit", params.ScoreLimit),
		logger.IntField("prices_days", params.PricesDays),
		logger.IntField("agg_days", params.AggDays),
		logger.IntField("metrics_days", params.MetricsDays),
		logger.Field("windows", params.Windows()),
	)

	steps := []struct {
		name string
		run  func(context.Context) (dto.StepResult, error)
	}{
		{dto.StepIngestNews, func(ctx context.Context) (dto.StepResult, error) {
			return s.ingestNews(ctx, ticker, params.NewsHours)
		}},
		{dto.StepScoreItems, func(ctx context.Context) (dto.StepResult, error) {
			return s.scoreItems(ctx, ticker, params.ScoreLimit)
		}},
		{dto.StepIngestPrice, func(ctx context.Context) (dto.StepResult, error) {
			return s.ingestPrices(ctx, ticker, params.PricesDays)
		}},
		{dto.StepDailyAgg, func(ctx context.Context) (dto.StepResult, error) {
			return s.aggregateDaily(ctx, ticker, params.AggDays)
		}},
		{dto.StepMetrics, func(ctx context.Context) (dto.StepResult, error) {
			return s.computeWindowedMetrics(ctx, ticker, params.MetricsDays, params.Windows())
		}},
	}

	summary.Success = true
	for _, step := range steps {
		result, err := step.run(ctx)
		summary.Steps[step.name] = result
		if err != nil {
			summary.Success = false
			summary.Error = fmt.Sprintf("step %s: %s", step.name, err.Error())
			s.log.Error("Pipeline step failed",
				logger.StringField("ticker", ticker),
				logger.StringField("step", step.name),
				logger.ErrorField(err),
			)
			break
		}
	}

	summary.ElapsedSeconds = math.Round(time.Since(started).Seconds()*100) / 100

	s.log.Info("Pipeline finished",
		logger.StringField("ticker", ticker),
		logger.Field("success", summary.Success),
		logger.Field("elapsed_seconds", summary.ElapsedSeconds),
	)

	return summary
}

// ingestNews fetches recent articles and inserts the new ones, stamping the
// current quote as point-in-time price context.
func (s *pipelineService) ingestNews(ctx context.Context, ticker string, hours int) (dto.StepResult, error) {
	articles, err := s.newsSource.Fetch(ctx, ticker, hours)
	if err != nil {
		return dto.StepResult{}, fmt.Errorf("failed to fetch news: %w", err)
	}

	result := dto.StepResult{Total: len(articles)}
	if len(articles) == 0 {
		return result, nil
	}

	quote := s.lookupQuote(ctx, ticker)

	for _, article := range articles {
		item := entity.NewsItem{
			Ticker:      ticker,
			Source:      article.Source,
			URL:         article.URL,
			Title:       article.Headline,
			Snippet:     article.Snippet,
			PublishedAt: article.PublishedAt,
		}
		if quote != nil {
			if quote.Price != nil {
				item.CurrentPrice = sql.NullFloat64{Float64: *quote.Price, Valid: true}
			}
			if quote.PriceChange != nil {
				item.PriceChange = sql.NullFloat64{Float64: *quote.PriceChange, Valid: true}
			}
			item.PriceDirection = quote.PriceDirection
		}

		inserted, err := s.newsItemRepo.CreateIgnoreConflict(ctx, &item)
		if err != nil {
			result.Errors++
			s.log.Error("Failed to insert news item", logger.ErrorField(err), logger.StringField("url", article.URL))
			continue
		}
		if inserted {
			result.Inserted++
		} else {
			result.Skipped++
		}
	}

	return result, nil
}

// scoreItems scores up to limit unscored items for the ticker. Individual
// scoring failures are counted, not fatal.
func (s *pipelineService) scoreItems(ctx context.Context, ticker string, limit int) (dto.StepResult, error) {
	items, err := s.newsItemRepo.FindUnscored(ctx, ticker, s.scorer.Model(), limit)
	if err != nil {
		return dto.StepResult{}, fmt.Errorf("failed to find unscored items: %w", err)
	}

	result := dto.StepResult{Selected: len(items)}
	for _, item := range items {
		if item.Title == "" && item.Snippet == "" {
			result.Skipped++
			continue
		}

		scored, err := s.scorer.Score(ctx, item.Title, item.Snippet)
		if err != nil {
			result.Errors++
			s.log.Error("Failed to score item", logger.ErrorField(err), logger.Field("item_id", item.ID))
			continue
		}

		score := entity.ItemScore{
			ItemID:         item.ID,
			Model:          s.scorer.Model(),
			SentimentLabel: scored.Label,
			SentimentScore: scored.Score,
			Confidence:     scored.Confidence,
			Topics:         scored.Topics,
		}
		if err := s.itemScoreRepo.Upsert(ctx, &score); err != nil {
			result.Errors++
			s.log.Error("Failed to store score", logger.ErrorField(err), logger.Field("item_id", item.ID))
			continue
		}
		result.Scored++
	}

	return result, nil
}

// ingestPrices upserts daily bars, then recomputes return_1d for the whole
// stored history of the ticker so gaps get backfilled returns too.
func (s *pipelineService) ingestPrices(ctx context.Context, ticker string, days int) (dto.StepResult, error) {
	prices, err := s.priceSource.FetchDailyBars(ctx, ticker, days)
	if err != nil {
		return dto.StepResult{}, fmt.Errorf("failed to fetch daily bars: %w", err)
	}
	if len(prices) == 0 {
		return dto.StepResult{}, nil
	}

	bars := make([]entity.PriceBar, 0, len(prices))
	for _, p := range prices {
		bars = append(bars, entity.PriceBar{
			Ticker:   ticker,
			Date:     p.Date,
			Open:     p.Open,
			High:     p.High,
			Low:      p.Low,
			Close:    p.Close,
			AdjClose: p.AdjClose,
			Volume:   p.Volume,
		})
	}

	count, err := s.priceBarRepo.UpsertBars(ctx, bars)
	if err != nil {
		return dto.StepResult{}, fmt.Errorf("failed to upsert price bars: %w", err)
	}

	stored, err := s.priceBarRepo.FindByTickerOrdered(ctx, ticker)
	if err != nil {
		return dto.StepResult{Count: count}, fmt.Errorf("failed to load price bars: %w", err)
	}

	returns := computeDailyReturns(stored)
	for i, bar := range stored {
		if !returnChanged(bar.Return1D, returns[i]) {
			continue
		}
		if err := s.priceBarRepo.UpdateReturn(ctx, bar.ID, returns[i]); err != nil {
			return dto.StepResult{Count: count}, fmt.Errorf("failed to update return_1d: %w", err)
		}
	}

	return dto.StepResult{Count: count}, nil
}

// aggregateDaily recomputes daily sentiment aggregates for every day in the
// lookback that has at least one scored item.
func (s *pipelineService) aggregateDaily(ctx context.Context, ticker string, days int) (dto.StepResult, error) {
	cutoff := utils.DaysAgo(days)

	aggs, err := s.dailyAggRepo.AggregateScores(ctx, ticker, s.scorer.Model(), cutoff)
	if err != nil {
		return dto.StepResult{}, fmt.Errorf("failed to aggregate scores: %w", err)
	}

	count, err := s.dailyAggRepo.UpsertAll(ctx, aggs)
	if err != nil {
		return dto.StepResult{}, fmt.Errorf("failed to upsert aggregates: %w", err)
	}

	return dto.StepResult{Count: count}, nil
}

// computeWindowedMetrics evaluates alignment metrics for every full window
// ending inside the lookback, once per requested window size.
func (s *pipelineService) computeWindowedMetrics(ctx context.Context, ticker string, days int, windows []int) (dto.StepResult, error) {
	cutoff := utils.DaysAgo(days)

	aggs, err := s.dailyAggRepo.FindSince(ctx, ticker, cutoff)
	if err != nil {
		return dto.StepResult{}, fmt.Errorf("failed to load aggregates: %w", err)
	}
	bars, err := s.priceBarRepo.FindReturnsSince(ctx, ticker, cutoff)
	if err != nil {
		return dto.StepResult{}, fmt.Errorf("failed to load returns: %w", err)
	}
	if len(aggs) == 0 || len(bars) == 0 {
		return dto.StepResult{}, nil
	}

	sentimentByDate := make(map[string]float64, len(aggs))
	for _, agg := range aggs {
		sentimentByDate[agg.Date.Format(utils.DateLayout)] = agg.SentimentAvg
	}
	returnByDate := make(map[string]float64, len(bars))
	for _, bar := range bars {
		returnByDate[bar.Date.Format(utils.DateLayout)] = bar.Return1D.Float64
	}

	// Only dates carrying both a sentiment aggregate and a computed return
	// participate in windows.
	commonDates := make([]string, 0, len(sentimentByDate))
	for date := range sentimentByDate {
		if _, ok := returnByDate[date]; ok {
			commonDates = append(commonDates, date)
		}
	}
	sort.Strings(commonDates)

	sentiments := make([]float64, len(commonDates))
	returns := make([]float64, len(commonDates))
	for i, date := range commonDates {
		sentiments[i] = sentimentByDate[date]
		returns[i] = returnByDate[date]
	}

	result := dto.StepResult{}
	for _, window := range windows {
		metrics, err := alignment.ComputeRolling(sentiments, returns, window)
		if err != nil {
			return result, fmt.Errorf("failed to compute rolling metrics: %w", err)
		}

		for i, m := range metrics {
			dateEnd, err := time.Parse(utils.DateLayout, commonDates[i+window-1])
			if err != nil {
				return result, fmt.Errorf("failed to parse window end date: %w", err)
			}
			metric := entity.WindowedMetric{
				Ticker:           ticker,
				DateEnd:          dateEnd,
				WindowDays:       window,
				Corr:             m.Corr,
				DirectionalMatch: m.DirectionalMatch,
				AlignmentScore:   m.AlignmentScore,
				MisalignmentDays: m.MisalignmentDays,
				Interpretation:   m.Interpretation,
			}
			if err := s.metricRepo.Upsert(ctx, &metric); err != nil {
				return result, fmt.Errorf("failed to upsert windowed metric: %w", err)
			}
			result.Count++
		}
	}

	return result, nil
}

// lookupQuote reads the most recent quote, preferring the Redis cache the
// scheduler keeps warm. A missing quote is fine; items get null price
// context.
func (s *pipelineService) lookupQuote(ctx context.Context, ticker string) *dto.Quote {
	if s.redisClient != nil {
		raw, err := s.redisClient.Get(ctx, common.RedisKeyCurrentPricePrefix+ticker).Result()
		if err == nil {
			var quote dto.Quote
			if err := json.Unmarshal([]byte(raw), &quote); err == nil {
				return &quote
			}
		} else if err != redis.Nil {
			s.log.Debug("Failed to read quote cache", logger.ErrorField(err), logger.StringField("ticker", ticker))
		}
	}

	stored, err := s.currentPriceRepo.FindByTicker(ctx, ticker)
	if err != nil || stored == nil {
		return nil
	}
	quote := &dto.Quote{PriceDirection: stored.PriceDirection}
	if stored.Price.Valid {
		quote.Price = &stored.Price.Float64
	}
	if stored.PriceChange.Valid {
		quote.PriceChange = &stored.PriceChange.Float64
	}
	return quote
}

// computeDailyReturns computes return_1d for bars ordered ascending by date:
// the percent change of close against the prior bar's close. The first bar
// and any bar following a zero close get nil.
func computeDailyReturns(bars []entity.PriceBar) []*float64 {
	returns := make([]*float64, len(bars))
	for i := 1; i < len(bars); i++ {
		prevClose := bars[i-1].Close
		if prevClose == 0 {
			continue
		}
		r := (bars[i].Close - prevClose) / prevClose * 100
		returns[i] = &r
	}
	return returns
}

func returnChanged(stored sql.NullFloat64, computed *float64) bool {
	if computed == nil {
		return stored.Valid
	}
	return !stored.Valid || stored.Float64 != *computed
}
