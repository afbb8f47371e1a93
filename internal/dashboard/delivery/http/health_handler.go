package http

import (
	"net/http"

	"golang-quant-dashboard/internal/dashboard/dto"

	"github.com/labstack/echo/v4"
)

// HealthHandler reports liveness.
type HealthHandler struct {
	storageDriver string
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(storageDriver string) *HealthHandler {
	return &HealthHandler{storageDriver: storageDriver}
}

// RegisterRoutes registers the health route to the Echo instance.
func (h *HealthHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)
}

// Health godoc
// @Summary Health check
// @Tags health
// @Produce  json
// @Success 200 {object} dto.HealthResponse
// @Router /healthz [get]
func (h *HealthHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, dto.HealthResponse{Status: "ok", Storage: h.storageDriver})
}
