package http

import (
	"github.com/labstack/echo/v4"
)

// Handlers groups every HTTP handler of the dashboard API.
type Handlers struct {
	Stock     *StockHandler
	View      *ViewHandler
	Portfolio *PortfolioHandler
	Insight   *InsightHandler
	Education *EducationHandler
	Analytics *AnalyticsHandler
	Backtest  *BacktestHandler
	Pipeline  *PipelineHandler
	Health    *HealthHandler
}

// RegisterRoutes mounts the handlers under /api/v1 and the health check at the root.
func RegisterRoutes(e *echo.Echo, h Handlers) {
	apiV1 := e.Group("/api/v1")
	h.Stock.RegisterRoutes(apiV1.Group("/stocks"))
	h.View.RegisterRoutes(apiV1.Group("/view"))
	h.Portfolio.RegisterRoutes(apiV1.Group("/portfolio"))
	h.Insight.RegisterRoutes(apiV1.Group("/insights"))
	h.Education.RegisterRoutes(apiV1.Group("/education"))
	h.Analytics.RegisterRoutes(apiV1.Group("/analytics"))
	h.Backtest.RegisterRoutes(apiV1.Group("/backtests"))
	h.Pipeline.RegisterRoutes(apiV1.Group("/pipeline"))
	h.Health.RegisterRoutes(e)
}
