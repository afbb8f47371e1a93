package http

import (
	"net/http"

	"golang-quant-dashboard/internal/dashboard/service"
	"golang-quant-dashboard/pkg/logger"

	"github.com/labstack/echo/v4"
)

// AnalyticsHandler serves the overview, model and sentiment figures.
type AnalyticsHandler struct {
	analyticsService service.AnalyticsService
	logger           *logger.Logger
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(analyticsService service.AnalyticsService, logger *logger.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService, logger: logger}
}

// RegisterRoutes registers the analytics routes to the Echo group.
func (h *AnalyticsHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/overview", h.GetOverview)
	g.GET("/models", h.GetModelComparison)
	g.GET("/sentiment", h.GetSentiment)
}

// GetOverview godoc
// @Summary Dashboard overview
// @Tags analytics
// @Produce  json
// @Success 200 {object} service.Overview
// @Failure 500 {object} dto.ErrorResponse
// @Router /analytics/overview [get]
func (h *AnalyticsHandler) GetOverview(c echo.Context) error {
	overview, err := h.analyticsService.Overview(c.Request().Context())
	if err != nil {
		h.logger.ErrorContext(c.Request().Context(), "Failed to build overview", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, overview)
}

// GetModelComparison godoc
// @Summary Model benchmark
// @Description Compare Transformer+LSTM against XGBoost
// @Tags analytics
// @Produce  json
// @Success 200 {object} service.ModelComparison
// @Router /analytics/models [get]
func (h *AnalyticsHandler) GetModelComparison(c echo.Context) error {
	return c.JSON(http.StatusOK, h.analyticsService.ModelComparison(c.Request().Context()))
}

// GetSentiment godoc
// @Summary Sentiment explorer
// @Tags analytics
// @Produce  json
// @Success 200 {object} service.SentimentOverview
// @Router /analytics/sentiment [get]
func (h *AnalyticsHandler) GetSentiment(c echo.Context) error {
	return c.JSON(http.StatusOK, h.analyticsService.Sentiment(c.Request().Context()))
}
