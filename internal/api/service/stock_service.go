package service

import (
	"context"

	"stock-sentiment-tracker/internal/api/dto"
	"stock-sentiment-tracker/internal/api/repository"
	"stock-sentiment-tracker/internal/entity"
	"stock-sentiment-tracker/pkg/logger"
)

// StockService manages the watchlist and the per-ticker read endpoints.
type StockService interface {
	AddStock(ctx context.Context, req *dto.CreateStockRequest) (*dto.StockResponse, error)
	GetAllStocks(ctx context.Context) ([]*dto.StockResponse, error)
	EnqueueRefresh(ctx context.Context, ticker string) (*dto.TaskResponse, error)
	GetPriceBars(ctx context.Context, ticker string, limit int) ([]entity.PriceBar, error)
	GetDailyAggregates(ctx context.Context, ticker string, limit int) ([]entity.DailyAggregate, error)
	GetWindowedMetrics(ctx context.Context, ticker string, windowDays, limit int) ([]entity.WindowedMetric, error)
	GetHeadlines(ctx context.Context, ticker string, limit int) ([]entity.NewsItem, error)
}

// NewStockService creates a new stock service.
func NewStockService(
	stockRepo repository.TrackedStockRepository,
	marketRepo repository.MarketDataRepository,
	taskService TaskService,
	logger *logger.Logger,
) StockService {
	return &stockService{
		stockRepo:   stockRepo,
		marketRepo:  marketRepo,
		taskService: taskService,
		logger:      logger,
	}
}

type stockService struct {
	stockRepo   repository.TrackedStockRepository
	marketRepo  repository.MarketDataRepository
	taskService TaskService
	logger      *logger.Logger
}

// AddStock validates the ticker, upserts it into the watchlist and enqueues
// a backfill so history starts populating immediately.
func (s *stockService) AddStock(ctx context.Context, req *dto.CreateStockRequest) (*dto.StockResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	stock, err := s.stockRepo.UpsertActive(ctx, req.Ticker)
	if err != nil {
		return nil, err
	}

	task, err := s.taskService.CreateTask(ctx, &dto.CreateTaskRequest{
		TaskType: string(entity.TaskTypeBackfillStock),
		Ticker:   stock.Ticker,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Stock added to watchlist",
		logger.StringField("ticker", stock.Ticker),
		logger.Field("backfill_task_id", task.ID),
	)
	return mapToStockResponse(stock), nil
}

// GetAllStocks returns the full watchlist.
func (s *stockService) GetAllStocks(ctx context.Context) ([]*dto.StockResponse, error) {
	stocks, err := s.stockRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.StockResponse, 0, len(stocks))
	for i := range stocks {
		out = append(out, mapToStockResponse(&stocks[i]))
	}
	return out, nil
}

// EnqueueRefresh inserts a REFRESH_STOCK task for the ticker.
func (s *stockService) EnqueueRefresh(ctx context.Context, ticker string) (*dto.TaskResponse, error) {
	req := &dto.CreateTaskRequest{
		TaskType: string(entity.TaskTypeRefreshStock),
		Ticker:   ticker,
	}
	return s.taskService.CreateTask(ctx, req)
}

// GetPriceBars returns recent daily bars.
func (s *stockService) GetPriceBars(ctx context.Context, ticker string, limit int) ([]entity.PriceBar, error) {
	return s.marketRepo.FindPriceBars(ctx, ticker, limit)
}

// GetDailyAggregates returns recent sentiment aggregates.
func (s *stockService) GetDailyAggregates(ctx context.Context, ticker string, limit int) ([]entity.DailyAggregate, error) {
	return s.marketRepo.FindDailyAggregates(ctx, ticker, limit)
}

// GetWindowedMetrics returns recent alignment metrics.
func (s *stockService) GetWindowedMetrics(ctx context.Context, ticker string, windowDays, limit int) ([]entity.WindowedMetric, error) {
	return s.marketRepo.FindWindowedMetrics(ctx, ticker, windowDays, limit)
}

// GetHeadlines returns recent ingested articles with their scores.
func (s *stockService) GetHeadlines(ctx context.Context, ticker string, limit int) ([]entity.NewsItem, error) {
	return s.marketRepo.FindHeadlines(ctx, ticker, limit)
}

func mapToStockResponse(stock *entity.TrackedStock) *dto.StockResponse {
	return &dto.StockResponse{
		ID:       stock.ID,
		Ticker:   stock.Ticker,
		IsActive: stock.IsActive,
	}
}
