package http

import (
	"errors"
	"net/http"

	"golang-quant-dashboard/internal/dashboard/service"
	"golang-quant-dashboard/pkg/logger"

	"github.com/labstack/echo/v4"
)

// PipelineHandler serves the research pipeline walkthrough and the training simulation.
type PipelineHandler struct {
	pipelineService service.PipelineService
	logger          *logger.Logger
}

// NewPipelineHandler creates a new PipelineHandler.
func NewPipelineHandler(pipelineService service.PipelineService, logger *logger.Logger) *PipelineHandler {
	return &PipelineHandler{pipelineService: pipelineService, logger: logger}
}

// RegisterRoutes registers the pipeline routes to the Echo group.
func (h *PipelineHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/steps", h.GetSteps)
	g.GET("/training", h.GetTraining)
	g.POST("/training", h.StartTraining)
}

// GetSteps godoc
// @Summary Pipeline steps
// @Description Data acquisition, NLP preprocessing and the two model stages
// @Tags pipeline
// @Produce  json
// @Success 200 {array} service.PipelineStep
// @Router /pipeline/steps [get]
func (h *PipelineHandler) GetSteps(c echo.Context) error {
	return c.JSON(http.StatusOK, h.pipelineService.Steps(c.Request().Context()))
}

// GetTraining godoc
// @Summary Training status
// @Description Rolling log and learning curve of the current training session
// @Tags pipeline
// @Produce  json
// @Success 200 {object} service.TrainingStatus
// @Router /pipeline/training [get]
func (h *PipelineHandler) GetTraining(c echo.Context) error {
	return c.JSON(http.StatusOK, h.pipelineService.Training(c.Request().Context()))
}

// StartTraining godoc
// @Summary Start training
// @Description Start a simulated 20 epoch training session
// @Tags pipeline
// @Produce  json
// @Success 202 {object} service.TrainingStatus
// @Failure 409 {object} dto.ErrorResponse
// @Router /pipeline/training [post]
func (h *PipelineHandler) StartTraining(c echo.Context) error {
	status, err := h.pipelineService.StartTraining(c.Request().Context())
	if err != nil {
		if errors.Is(err, service.ErrTrainingInProgress) {
			return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
		}
		h.logger.ErrorContext(c.Request().Context(), "Failed to start training", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusAccepted, status)
}
