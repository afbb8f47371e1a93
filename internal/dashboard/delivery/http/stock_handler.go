package http

import (
	"errors"
	"net/http"

	"golang-quant-dashboard/internal/dashboard/dto"
	"golang-quant-dashboard/internal/dashboard/repository"
	"golang-quant-dashboard/internal/dashboard/service"
	"golang-quant-dashboard/pkg/logger"

	"github.com/labstack/echo/v4"
)

// StockHandler handles HTTP requests for the stock catalog.
type StockHandler struct {
	stocksRepo repository.StocksRepository
	generator  service.SeriesGenerator
	logger     *logger.Logger
}

// NewStockHandler creates a new StockHandler.
func NewStockHandler(stocksRepo repository.StocksRepository, generator service.SeriesGenerator, logger *logger.Logger) *StockHandler {
	return &StockHandler{stocksRepo: stocksRepo, generator: generator, logger: logger}
}

// RegisterRoutes registers the stock routes to the Echo group.
func (h *StockHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.GetStocks)
	g.GET("/:ticker", h.GetStock)
	g.GET("/:ticker/history", h.GetHistory)
}

// GetStocks godoc
// @Summary List stocks
// @Description Get the static stock catalog
// @Tags stocks
// @Produce  json
// @Success 200 {array} entity.StockInfo
// @Failure 500 {object} dto.ErrorResponse
// @Router /stocks [get]
func (h *StockHandler) GetStocks(c echo.Context) error {
	stocks, err := h.stocksRepo.GetStocks(c.Request().Context())
	if err != nil {
		h.logger.ErrorContext(c.Request().Context(), "Failed to get stocks", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, stocks)
}

// GetStock godoc
// @Summary Get a stock
// @Description Get a catalog stock by ticker
// @Tags stocks
// @Produce  json
// @Param   ticker  path  string  true  "Ticker"
// @Success 200 {object} entity.StockInfo
// @Failure 404 {object} dto.ErrorResponse
// @Router /stocks/{ticker} [get]
func (h *StockHandler) GetStock(c echo.Context) error {
	stock, err := h.stocksRepo.FindByTicker(c.Request().Context(), c.Param("ticker"))
	if err != nil {
		return stockError(c, err)
	}
	return c.JSON(http.StatusOK, stock)
}

// GetHistory godoc
// @Summary Generate stock history
// @Description Generate a fresh 31-day synthetic price and sentiment series for a catalog stock
// @Tags stocks
// @Produce  json
// @Param   ticker  path  string  true  "Ticker"
// @Success 200 {object} dto.StockHistoryResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /stocks/{ticker}/history [get]
func (h *StockHandler) GetHistory(c echo.Context) error {
	stock, err := h.stocksRepo.FindByTicker(c.Request().Context(), c.Param("ticker"))
	if err != nil {
		return stockError(c, err)
	}

	series := h.generator.Generate(stock.Price, stock.SentimentScore)
	return c.JSON(http.StatusOK, dto.StockHistoryResponse{
		Stock:   *stock,
		Series:  series,
		Summary: service.Summarize(series),
	})
}

func stockError(c echo.Context, err error) error {
	if errors.Is(err, repository.ErrStockNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Stock not found"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
}
