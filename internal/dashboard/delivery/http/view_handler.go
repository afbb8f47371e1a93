package http

import (
	"context"
	"errors"
	"net/http"

	"golang-quant-dashboard/internal/dashboard/dto"
	"golang-quant-dashboard/internal/dashboard/service"
	"golang-quant-dashboard/internal/entity"
	"golang-quant-dashboard/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ViewHandler exposes the dashboard view state and its transitions.
type ViewHandler struct {
	controller service.ViewController
	logger     *logger.Logger
}

// NewViewHandler creates a new ViewHandler.
func NewViewHandler(controller service.ViewController, logger *logger.Logger) *ViewHandler {
	return &ViewHandler{controller: controller, logger: logger}
}

// RegisterRoutes registers the view routes to the Echo group.
func (h *ViewHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.GetState)
	g.GET("/pages", h.GetPages)
	g.PUT("/page", h.SelectPage)
	g.PUT("/ticker", h.SelectTicker)
	g.PUT("/search-query", h.SetSearchQuery)
	g.POST("/search", h.SubmitSearch)
	g.DELETE("/search", h.CloseSearch)
	g.POST("/login", h.Login)
	g.POST("/logout", h.Logout)
}

// GetState godoc
// @Summary Get view state
// @Description Get the current page, selected stock, insight, series, search modal and portfolio
// @Tags view
// @Produce  json
// @Success 200 {object} service.AppState
// @Router /view [get]
func (h *ViewHandler) GetState(c echo.Context) error {
	return c.JSON(http.StatusOK, h.controller.State(c.Request().Context()))
}

// GetPages godoc
// @Summary List pages
// @Description List the navigable views in sidebar order
// @Tags view
// @Produce  json
// @Success 200 {array} string
// @Router /view/pages [get]
func (h *ViewHandler) GetPages(c echo.Context) error {
	return c.JSON(http.StatusOK, entity.Pages)
}

// SelectPage godoc
// @Summary Select page
// @Description Switch the active view
// @Tags view
// @Accept  json
// @Produce  json
// @Param   request  body  dto.SelectPageRequest  true  "Page to show"
// @Success 200 {object} service.AppState
// @Failure 400 {object} dto.ErrorResponse
// @Router /view/page [put]
func (h *ViewHandler) SelectPage(c echo.Context) error {
	var req dto.SelectPageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}
	page, err := entity.ParsePage(req.Page)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Unknown page"})
	}
	return c.JSON(http.StatusOK, h.controller.SelectPage(c.Request().Context(), page))
}

// SelectTicker godoc
// @Summary Select stock
// @Description Regenerate the series and request a new insight for a stock. Unknown tickers select the default stock.
// @Tags view
// @Accept  json
// @Produce  json
// @Param   request  body  dto.SelectTickerRequest  true  "Ticker to analyse"
// @Success 200 {object} service.AppState
// @Failure 400 {object} dto.ErrorResponse
// @Router /view/ticker [put]
func (h *ViewHandler) SelectTicker(c echo.Context) error {
	var req dto.SelectTickerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}
	return c.JSON(http.StatusOK, h.controller.SelectTicker(c.Request().Context(), req.Ticker))
}

// SetSearchQuery godoc
// @Summary Update search query
// @Tags view
// @Accept  json
// @Produce  json
// @Param   request  body  dto.SearchQueryRequest  true  "Search text"
// @Success 200 {object} service.AppState
// @Failure 400 {object} dto.ErrorResponse
// @Router /view/search-query [put]
func (h *ViewHandler) SetSearchQuery(c echo.Context) error {
	var req dto.SearchQueryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}
	return c.JSON(http.StatusOK, h.controller.SetSearchQuery(c.Request().Context(), req.Query))
}

// SubmitSearch godoc
// @Summary Submit search
// @Description Open the stock detail modal for the current query and request its analysis
// @Tags view
// @Produce  json
// @Success 200 {object} service.AppState
// @Router /view/search [post]
func (h *ViewHandler) SubmitSearch(c echo.Context) error {
	return c.JSON(http.StatusOK, h.controller.SubmitSearch(c.Request().Context()))
}

// CloseSearch godoc
// @Summary Close search
// @Description Close the stock detail modal
// @Tags view
// @Produce  json
// @Success 200 {object} service.AppState
// @Router /view/search [delete]
func (h *ViewHandler) CloseSearch(c echo.Context) error {
	return c.JSON(http.StatusOK, h.controller.CloseSearch(c.Request().Context()))
}

// Login godoc
// @Summary Log in
// @Description Start a session after a short simulated delay. No credentials are checked.
// @Tags view
// @Produce  json
// @Success 200 {object} service.AppState
// @Failure 408 {object} dto.ErrorResponse
// @Router /view/login [post]
func (h *ViewHandler) Login(c echo.Context) error {
	state, err := h.controller.Login(c.Request().Context())
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return c.JSON(http.StatusRequestTimeout, echo.Map{"error": "Login cancelled"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, state)
}

// Logout godoc
// @Summary Log out
// @Tags view
// @Produce  json
// @Success 200 {object} service.AppState
// @Failure 409 {object} dto.ErrorResponse
// @Router /view/logout [post]
func (h *ViewHandler) Logout(c echo.Context) error {
	state, err := h.controller.Logout(c.Request().Context())
	if err != nil {
		if errors.Is(err, service.ErrNotLoggedIn) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "Not logged in"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, state)
}
