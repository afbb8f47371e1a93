package http

import (
	"errors"
	"net/http"
	"strings"

	"golang-quant-dashboard/internal/dashboard/dto"
	"golang-quant-dashboard/internal/dashboard/repository"
	"golang-quant-dashboard/internal/dashboard/service"
	"golang-quant-dashboard/pkg/logger"

	"github.com/labstack/echo/v4"
)

// InsightHandler serves generated narrative text.
type InsightHandler struct {
	insightService   service.InsightService
	educationService service.EducationService
	stocksRepo       repository.StocksRepository
	logger           *logger.Logger
}

// NewInsightHandler creates a new InsightHandler.
func NewInsightHandler(insightService service.InsightService, educationService service.EducationService, stocksRepo repository.StocksRepository, logger *logger.Logger) *InsightHandler {
	return &InsightHandler{
		insightService:   insightService,
		educationService: educationService,
		stocksRepo:       stocksRepo,
		logger:           logger,
	}
}

// RegisterRoutes registers the insight routes to the Echo group.
func (h *InsightHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/education", h.GetEducationalContent)
	g.GET("/stocks/:ticker", h.GetStockAnalysis)
	g.GET("/stocks/:ticker/outlook", h.GetOutlook)
}

// GetEducationalContent godoc
// @Summary Explain a topic
// @Description Generate a beginner-friendly markdown explanation of a quant topic
// @Tags insights
// @Accept  json
// @Produce  json
// @Param   request  body  dto.LessonRequest  true  "Topic"
// @Success 200 {object} service.Lesson
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /insights/education [post]
func (h *InsightHandler) GetEducationalContent(c echo.Context) error {
	var req dto.LessonRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	lesson, err := h.educationService.Lesson(c.Request().Context(), req.Topic)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyTopic):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		case errors.Is(err, service.ErrLessonLocked):
			return c.JSON(http.StatusForbidden, echo.Map{"error": err.Error()})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
	}
	return c.JSON(http.StatusOK, lesson)
}

// GetStockAnalysis godoc
// @Summary Analyse any ticker
// @Description Generate a detailed markdown analysis for a ticker, listed or not
// @Tags insights
// @Produce  json
// @Param   ticker  path  string  true  "Ticker"
// @Success 200 {object} dto.InsightResponse
// @Router /insights/stocks/{ticker} [get]
func (h *InsightHandler) GetStockAnalysis(c echo.Context) error {
	ticker := strings.ToUpper(strings.TrimSpace(c.Param("ticker")))
	text := h.insightService.StockAnalysis(c.Request().Context(), ticker)
	return c.JSON(http.StatusOK, dto.InsightResponse{Ticker: ticker, Insight: text})
}

// GetOutlook godoc
// @Summary Get a stock outlook
// @Description Generate a short outlook for a catalog stock from its sentiment score and prediction
// @Tags insights
// @Produce  json
// @Param   ticker  path  string  true  "Ticker"
// @Success 200 {object} dto.InsightResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /insights/stocks/{ticker}/outlook [get]
func (h *InsightHandler) GetOutlook(c echo.Context) error {
	ctx := c.Request().Context()
	stock, err := h.stocksRepo.FindByTicker(ctx, c.Param("ticker"))
	if err != nil {
		return stockError(c, err)
	}
	text := h.insightService.FinancialInsight(ctx, stock.Ticker, stock.SentimentScore, stock.Prediction)
	return c.JSON(http.StatusOK, dto.InsightResponse{Ticker: stock.Ticker, Insight: text})
}
