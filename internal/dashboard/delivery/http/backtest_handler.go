package http

import (
	"errors"
	"net/http"

	"golang-quant-dashboard/internal/dashboard/dto"
	"golang-quant-dashboard/internal/dashboard/service"
	"golang-quant-dashboard/pkg/logger"

	"github.com/labstack/echo/v4"
)

// BacktestHandler handles HTTP requests for simulated backtests.
type BacktestHandler struct {
	backtestService service.BacktestService
	logger          *logger.Logger
}

// NewBacktestHandler creates a new BacktestHandler.
func NewBacktestHandler(backtestService service.BacktestService, logger *logger.Logger) *BacktestHandler {
	return &BacktestHandler{backtestService: backtestService, logger: logger}
}

// RegisterRoutes registers the backtest routes to the Echo group.
func (h *BacktestHandler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.RunBacktest)
}

// RunBacktest godoc
// @Summary Run a backtest
// @Description Simulate a 30-day equity curve for the given strategy parameters
// @Tags backtests
// @Accept  json
// @Produce  json
// @Param   params  body  dto.BacktestRequest  true  "Strategy parameters"
// @Success 200 {object} service.BacktestRun
// @Failure 400 {object} dto.ErrorResponse
// @Router /backtests [post]
func (h *BacktestHandler) RunBacktest(c echo.Context) error {
	var req dto.BacktestRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	run, err := h.backtestService.Run(c.Request().Context(), service.BacktestParams{
		Model:     req.Model,
		TopN:      req.TopN,
		Rebalance: req.Rebalance,
		Cost:      req.Cost,
		Period:    req.Period,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidBacktest) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, run)
}
