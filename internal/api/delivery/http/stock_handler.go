package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"stock-sentiment-tracker/internal/api/dto"
	"stock-sentiment-tracker/internal/api/service"
	"stock-sentiment-tracker/pkg/logger"

	"github.com/labstack/echo/v4"
)

// StockHandler handles HTTP requests for the watchlist and per-ticker data.
type StockHandler struct {
	stockService service.StockService
	logger       *logger.Logger
}

// NewStockHandler creates a new StockHandler.
func NewStockHandler(stockService service.StockService, logger *logger.Logger) *StockHandler {
	return &StockHandler{stockService: stockService, logger: logger}
}

// RegisterRoutes registers the stock routes to the Echo group.
func (h *StockHandler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.AddStock)
	g.GET("", h.GetAllStocks)
	g.POST("/:ticker/refresh", h.RefreshStock)
	g.GET("/:ticker/prices", h.GetPrices)
	g.GET("/:ticker/aggregates", h.GetAggregates)
	g.GET("/:ticker/metrics", h.GetMetrics)
	g.GET("/:ticker/headlines", h.GetHeadlines)
}

// AddStock godoc
// @Summary Add a stock to the watchlist
// @Description Insert or reactivate a tracked ticker
// @Tags stocks
// @Accept  json
// @Produce  json
// @Param   stock  body    dto.CreateStockRequest   true    "Ticker to track"
// @Success 201 {object} dto.StockResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /stocks [post]
func (h *StockHandler) AddStock(c echo.Context) error {
	var req dto.CreateStockRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}

	stockResponse, err := h.stockService.AddStock(c.Request().Context(), &req)
	if err != nil {
		var ve *dto.ValidationError
		if errors.As(err, &ve) {
			return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: ve.Reason})
		}
		h.logger.Error("Failed to add stock", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to add stock"})
	}

	return c.JSON(http.StatusCreated, stockResponse)
}

// GetAllStocks godoc
// @Summary List the watchlist
// @Tags stocks
// @Produce  json
// @Success 200 {array} dto.StockResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /stocks [get]
func (h *StockHandler) GetAllStocks(c echo.Context) error {
	stocks, err := h.stockService.GetAllStocks(c.Request().Context())
	if err != nil {
		h.logger.Error("Failed to list stocks", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list stocks"})
	}
	return c.JSON(http.StatusOK, stocks)
}

// RefreshStock godoc
// @Summary Enqueue a refresh for one ticker
// @Description Insert a REFRESH_STOCK task that re-runs the pipeline for the ticker
// @Tags stocks
// @Produce  json
// @Param   ticker  path    string  true    "Ticker symbol"
// @Success 201 {object} dto.TaskResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /stocks/{ticker}/refresh [post]
func (h *StockHandler) RefreshStock(c echo.Context) error {
	taskResponse, err := h.stockService.EnqueueRefresh(c.Request().Context(), pathTicker(c))
	if err != nil {
		var ve *dto.ValidationError
		if errors.As(err, &ve) {
			return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: ve.Reason})
		}
		h.logger.Error("Failed to enqueue refresh", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to enqueue refresh"})
	}
	return c.JSON(http.StatusCreated, taskResponse)
}

// GetPrices godoc
// @Summary Get daily price bars for a ticker
// @Tags stocks
// @Produce  json
// @Param   ticker  path    string  true    "Ticker symbol"
// @Param   limit   query   int     false   "Maximum rows to return"
// @Success 200 {array} entity.PriceBar
// @Failure 500 {object} dto.ErrorResponse
// @Router /stocks/{ticker}/prices [get]
func (h *StockHandler) GetPrices(c echo.Context) error {
	bars, err := h.stockService.GetPriceBars(c.Request().Context(), pathTicker(c), queryLimit(c))
	if err != nil {
		h.logger.Error("Failed to get prices", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to get prices"})
	}
	return c.JSON(http.StatusOK, bars)
}

// GetAggregates godoc
// @Summary Get daily sentiment aggregates for a ticker
// @Tags stocks
// @Produce  json
// @Param   ticker  path    string  true    "Ticker symbol"
// @Param   limit   query   int     false   "Maximum rows to return"
// @Success 200 {array} entity.DailyAggregate
// @Failure 500 {object} dto.ErrorResponse
// @Router /stocks/{ticker}/aggregates [get]
func (h *StockHandler) GetAggregates(c echo.Context) error {
	aggs, err := h.stockService.GetDailyAggregates(c.Request().Context(), pathTicker(c), queryLimit(c))
	if err != nil {
		h.logger.Error("Failed to get aggregates", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to get aggregates"})
	}
	return c.JSON(http.StatusOK, aggs)
}

// GetMetrics godoc
// @Summary Get windowed alignment metrics for a ticker
// @Tags stocks
// @Produce  json
// @Param   ticker  path    string  true    "Ticker symbol"
// @Param   window  query   int     false   "Restrict to one window size in days"
// @Param   limit   query   int     false   "Maximum rows to return"
// @Success 200 {array} entity.WindowedMetric
// @Failure 500 {object} dto.ErrorResponse
// @Router /stocks/{ticker}/metrics [get]
func (h *StockHandler) GetMetrics(c echo.Context) error {
	windowDays, _ := strconv.Atoi(c.QueryParam("window"))
	metrics, err := h.stockService.GetWindowedMetrics(c.Request().Context(), pathTicker(c), windowDays, queryLimit(c))
	if err != nil {
		h.logger.Error("Failed to get metrics", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to get metrics"})
	}
	return c.JSON(http.StatusOK, metrics)
}

// GetHeadlines godoc
// @Summary Get recent headlines for a ticker
// @Description List ingested articles newest first, with sentiment scores attached
// @Tags stocks
// @Produce  json
// @Param   ticker  path    string  true    "Ticker symbol"
// @Param   limit   query   int     false   "Maximum rows to return"
// @Success 200 {array} entity.NewsItem
// @Failure 500 {object} dto.ErrorResponse
// @Router /stocks/{ticker}/headlines [get]
func (h *StockHandler) GetHeadlines(c echo.Context) error {
	items, err := h.stockService.GetHeadlines(c.Request().Context(), pathTicker(c), queryLimit(c))
	if err != nil {
		h.logger.Error("Failed to get headlines", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to get headlines"})
	}
	return c.JSON(http.StatusOK, items)
}

func pathTicker(c echo.Context) string {
	return strings.ToUpper(strings.TrimSpace(c.Param("ticker")))
}
