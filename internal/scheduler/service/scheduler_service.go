package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"stock-sentiment-tracker/internal/entity"
	"stock-sentiment-tracker/internal/scheduler/config"
	"stock-sentiment-tracker/internal/scheduler/repository"
	"stock-sentiment-tracker/pkg/common"
	"stock-sentiment-tracker/pkg/logger"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
)

// SchedulerService owns the cron triggers that feed the task queue and keep
// the current-price cache warm.
type SchedulerService interface {
	Start(ctx context.Context) error
	Stop()
	Bootstrap(ctx context.Context) error
}

// NewSchedulerService creates a new scheduler service.
func NewSchedulerService(
	cfg *config.Config,
	taskRepo repository.TaskRepository,
	trackedStockRepo repository.TrackedStockRepository,
	currentPriceRepo repository.CurrentPriceRepository,
	quoteRepo repository.QuoteRepository,
	redisClient *redis.Client,
	log *logger.Logger,
) SchedulerService {
	return &schedulerService{
		cfg:              cfg,
		taskRepo:         taskRepo,
		trackedStockRepo: trackedStockRepo,
		currentPriceRepo: currentPriceRepo,
		quoteRepo:        quoteRepo,
		redisClient:      redisClient,
		logger:           log,
		cron:             cron.New(),
	}
}

type schedulerService struct {
	cfg              *config.Config
	taskRepo         repository.TaskRepository
	trackedStockRepo repository.TrackedStockRepository
	currentPriceRepo repository.CurrentPriceRepository
	quoteRepo        repository.QuoteRepository
	redisClient      *redis.Client
	logger           *logger.Logger
	cron             *cron.Cron
	staleTimeout     time.Duration
}

// Start registers the cron entries and starts the scheduler.
func (s *schedulerService) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.cfg.Scheduler.DailyUpdateCron, func() {
		s.enqueueDailyUpdate(ctx)
	}); err != nil {
		return err
	}

	if _, err := s.cron.AddFunc(s.cfg.Scheduler.PriceRefreshCron, func() {
		s.refreshCurrentPrices(ctx)
	}); err != nil {
		return err
	}

	if s.cfg.Scheduler.StaleTimeout != "" {
		timeout, err := time.ParseDuration(s.cfg.Scheduler.StaleTimeout)
		if err != nil {
			return err
		}
		s.staleTimeout = timeout
	}
	if s.staleTimeout > 0 {
		if _, err := s.cron.AddFunc(s.cfg.Scheduler.StaleRequeueCron, func() {
			s.requeueStaleTasks(ctx)
		}); err != nil {
			return err
		}
	}

	s.cron.Start()
	s.logger.Info("Scheduler started",
		logger.StringField("daily_update_cron", s.cfg.Scheduler.DailyUpdateCron),
		logger.StringField("price_refresh_cron", s.cfg.Scheduler.PriceRefreshCron),
		logger.Field("stale_timeout", s.staleTimeout.String()),
	)
	return nil
}

// Stop halts the cron scheduler and waits for running entries.
func (s *schedulerService) Stop() {
	<-s.cron.Stop().Done()
}

// Bootstrap seeds the watchlist with the default tickers and enqueues a
// backfill over them.
func (s *schedulerService) Bootstrap(ctx context.Context) error {
	for _, ticker := range common.DefaultTickers {
		if err := s.trackedStockRepo.UpsertActive(ctx, ticker); err != nil {
			return err
		}
	}

	task := entity.Task{TaskType: entity.TaskTypeBackfillDefaults, Priority: 10}
	if err := s.taskRepo.Enqueue(ctx, &task); err != nil {
		return err
	}

	s.logger.Info("Watchlist bootstrapped",
		logger.Field("tickers", common.DefaultTickers),
		logger.Field("task_id", task.ID),
	)
	return nil
}

// enqueueDailyUpdate inserts one DAILY_UPDATE_ALL task.
func (s *schedulerService) enqueueDailyUpdate(ctx context.Context) {
	task := entity.Task{
		TaskType: entity.TaskTypeDailyUpdateAll,
		Priority: s.cfg.Scheduler.DailyPriority,
	}
	if err := s.taskRepo.Enqueue(ctx, &task); err != nil {
		s.logger.Error("Failed to enqueue daily update", logger.ErrorField(err))
		return
	}
	s.logger.Info("Daily update enqueued", logger.Field("task_id", task.ID))
}

// refreshCurrentPrices fetches a quote for every active ticker, upserts the
// current_prices row and caches the quote in Redis.
func (s *schedulerService) refreshCurrentPrices(ctx context.Context) {
	stocks, err := s.trackedStockRepo.GetActive(ctx)
	if err != nil {
		s.logger.Error("Failed to load active tickers", logger.ErrorField(err))
		return
	}

	updated, failed := 0, 0
	for _, stock := range stocks {
		quote, err := s.quoteRepo.FetchQuote(ctx, stock.Ticker)
		if err != nil {
			failed++
			s.logger.Error("Failed to fetch quote", logger.ErrorField(err), logger.StringField("ticker", stock.Ticker))
			continue
		}

		price := entity.CurrentPrice{Ticker: stock.Ticker, PriceDirection: quote.PriceDirection}
		if quote.Price != nil {
			price.Price = sql.NullFloat64{Float64: *quote.Price, Valid: true}
		}
		if quote.PriceChange != nil {
			price.PriceChange = sql.NullFloat64{Float64: *quote.PriceChange, Valid: true}
		}
		if err := s.currentPriceRepo.Upsert(ctx, &price); err != nil {
			failed++
			s.logger.Error("Failed to store quote", logger.ErrorField(err), logger.StringField("ticker", stock.Ticker))
			continue
		}

		if raw, err := json.Marshal(quote); err == nil {
			key := common.RedisKeyCurrentPricePrefix + stock.Ticker
			ttl := time.Duration(common.CurrentPriceCacheTTLMin) * time.Minute
			if err := s.redisClient.Set(ctx, key, raw, ttl).Err(); err != nil {
				s.logger.Error("Failed to cache quote", logger.ErrorField(err), logger.StringField("ticker", stock.Ticker))
			}
		}
		updated++
	}

	s.logger.Info("Current prices refreshed",
		logger.IntField("updated", updated),
		logger.IntField("failed", failed),
	)
}

// requeueStaleTasks returns long-RUNNING rows, usually orphaned by a killed
// worker, to PENDING.
func (s *schedulerService) requeueStaleTasks(ctx context.Context) {
	count, err := s.taskRepo.RequeueStale(ctx, s.staleTimeout)
	if err != nil {
		s.logger.Error("Failed to requeue stale tasks", logger.ErrorField(err))
		return
	}
	if count > 0 {
		s.logger.Warn("Requeued stale tasks", logger.Field("count", count))
	}
}
