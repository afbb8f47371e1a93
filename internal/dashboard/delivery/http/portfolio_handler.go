package http

import (
	"errors"
	"net/http"

	"golang-quant-dashboard/internal/dashboard/dto"
	"golang-quant-dashboard/internal/dashboard/service"
	"golang-quant-dashboard/pkg/logger"

	"github.com/labstack/echo/v4"
)

// PortfolioHandler handles HTTP requests for portfolio holdings.
type PortfolioHandler struct {
	portfolioService service.PortfolioService
	logger           *logger.Logger
}

// NewPortfolioHandler creates a new PortfolioHandler.
func NewPortfolioHandler(portfolioService service.PortfolioService, logger *logger.Logger) *PortfolioHandler {
	return &PortfolioHandler{portfolioService: portfolioService, logger: logger}
}

// RegisterRoutes registers the portfolio routes to the Echo group.
func (h *PortfolioHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.GetPortfolio)
	g.POST("", h.AddItem)
	g.GET("/stats", h.GetStats)
	g.DELETE("/:id", h.RemoveItem)
}

// GetPortfolio godoc
// @Summary Get portfolio
// @Description Get every holding valued at catalog prices, with totals
// @Tags portfolio
// @Produce  json
// @Success 200 {object} dto.PortfolioResponse
// @Router /portfolio [get]
func (h *PortfolioHandler) GetPortfolio(c echo.Context) error {
	ctx := c.Request().Context()
	resp := dto.PortfolioResponse{
		Holdings: h.portfolioService.Holdings(ctx),
		Stats:    h.portfolioService.Stats(ctx),
	}
	if err := h.portfolioService.LoadError(); err != nil {
		resp.LoadError = err.Error()
	}
	return c.JSON(http.StatusOK, resp)
}

// GetStats godoc
// @Summary Get portfolio totals
// @Tags portfolio
// @Produce  json
// @Success 200 {object} service.PortfolioStats
// @Router /portfolio/stats [get]
func (h *PortfolioHandler) GetStats(c echo.Context) error {
	return c.JSON(http.StatusOK, h.portfolioService.Stats(c.Request().Context()))
}

// AddItem godoc
// @Summary Add a holding
// @Description Add a holding and persist the portfolio. A zero avg_price uses the catalog price.
// @Tags portfolio
// @Accept  json
// @Produce  json
// @Param   item  body  dto.AddPortfolioItemRequest  true  "Holding to add"
// @Success 201 {object} dto.PortfolioMutationResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /portfolio [post]
func (h *PortfolioHandler) AddItem(c echo.Context) error {
	var req dto.AddPortfolioItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	ctx := c.Request().Context()
	res, err := h.portfolioService.Add(ctx, service.AddHoldingInput{
		Ticker:   req.Ticker,
		Quantity: req.Quantity,
		AvgPrice: req.AvgPrice,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidHolding) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, h.mutationResponse(c, res))
}

// RemoveItem godoc
// @Summary Remove a holding
// @Description Remove a holding by id and persist the portfolio
// @Tags portfolio
// @Produce  json
// @Param   id  path  string  true  "Holding ID"
// @Success 200 {object} dto.PortfolioMutationResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /portfolio/{id} [delete]
func (h *PortfolioHandler) RemoveItem(c echo.Context) error {
	res, err := h.portfolioService.Remove(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrHoldingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Holding not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, h.mutationResponse(c, res))
}

func (h *PortfolioHandler) mutationResponse(c echo.Context, res *service.MutationResult) dto.PortfolioMutationResponse {
	resp := dto.PortfolioMutationResponse{
		Item:      res.Item,
		Persisted: res.Persisted,
		Stats:     h.portfolioService.Stats(c.Request().Context()),
	}
	if res.PersistError != nil {
		resp.Warning = "Change kept in memory but could not be saved: " + res.PersistError.Error()
	}
	return resp
}
