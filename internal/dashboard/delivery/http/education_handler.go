package http

import (
	"errors"
	"net/http"
	"strconv"

	"golang-quant-dashboard/internal/dashboard/dto"
	"golang-quant-dashboard/internal/dashboard/service"
	"golang-quant-dashboard/pkg/logger"

	"github.com/labstack/echo/v4"
)

// EducationHandler handles HTTP requests for learning modules and the quiz.
type EducationHandler struct {
	educationService service.EducationService
	logger           *logger.Logger
}

// NewEducationHandler creates a new EducationHandler.
func NewEducationHandler(educationService service.EducationService, logger *logger.Logger) *EducationHandler {
	return &EducationHandler{educationService: educationService, logger: logger}
}

// RegisterRoutes registers the education routes to the Echo group.
func (h *EducationHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/modules", h.GetModules)
	g.GET("/quiz", h.GetQuiz)
	g.POST("/quiz/:index/answer", h.AnswerQuiz)
}

// GetModules godoc
// @Summary List learning modules
// @Tags education
// @Produce  json
// @Success 200 {array} service.LearningModule
// @Router /education/modules [get]
func (h *EducationHandler) GetModules(c echo.Context) error {
	return c.JSON(http.StatusOK, h.educationService.Modules(c.Request().Context()))
}

// GetQuiz godoc
// @Summary List quiz questions
// @Tags education
// @Produce  json
// @Success 200 {array} service.QuizQuestion
// @Router /education/quiz [get]
func (h *EducationHandler) GetQuiz(c echo.Context) error {
	return c.JSON(http.StatusOK, h.educationService.Quiz(c.Request().Context()))
}

// AnswerQuiz godoc
// @Summary Answer a quiz question
// @Tags education
// @Accept  json
// @Produce  json
// @Param   index   path  int                    true  "Question index"
// @Param   answer  body  dto.QuizAnswerRequest  true  "Chosen option"
// @Success 200 {object} service.QuizAnswer
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /education/quiz/{index}/answer [post]
func (h *EducationHandler) AnswerQuiz(c echo.Context) error {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid question index"})
	}
	var req dto.QuizAnswerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	answer, err := h.educationService.AnswerQuiz(c.Request().Context(), index, req.Option)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrQuestionNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		case errors.Is(err, service.ErrInvalidOption):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
	}
	return c.JSON(http.StatusOK, answer)
}
