package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang-quant-dashboard/internal/dashboard/config"
	"golang-quant-dashboard/internal/dashboard/dto"
	"golang-quant-dashboard/internal/dashboard/repository"
	"golang-quant-dashboard/internal/dashboard/service"
	"golang-quant-dashboard/internal/entity"
	"golang-quant-dashboard/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockAIRepository struct {
	mock.Mock
}

func (m *mockAIRepository) GenerateText(ctx context.Context, prompt string, opts repository.GenerationOptions) (string, error) {
	args := m.Called(prompt)
	return args.String(0), args.Error(1)
}

type testServer struct {
	e          *echo.Echo
	ai         *mockAIRepository
	controller service.ViewController
	portfolio  service.PortfolioService
	pipeline   service.PipelineService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	log := logger.NewNop()
	stocks := repository.NewStocksRepository()
	ai := new(mockAIRepository)

	generator := service.NewSeriesGenerator()
	insights := service.NewInsightService(ai, config.Gemini{Model: "gemini-test", Temperature: 0.7, TopP: 0.8, EducationTemperature: 0.5}, log)
	portfolio := service.NewPortfolioService(
		repository.NewPortfolioRepository(repository.NewMemoryKVStore(), "p"), stocks, nil, log)
	require.NoError(t, portfolio.Load(context.Background()))
	controller := service.NewViewController(stocks, generator, insights, portfolio, service.PolicyLatestRequest, time.Millisecond, log)
	education := service.NewEducationService(insights)
	pipeline := service.NewPipelineService(nil, time.Hour, log)
	t.Cleanup(pipeline.Close)

	e := echo.New()
	e.Use(RequestID(), RequestLogger(log))
	RegisterRoutes(e, Handlers{
		Stock:     NewStockHandler(stocks, generator, log),
		View:      NewViewHandler(controller, log),
		Portfolio: NewPortfolioHandler(portfolio, log),
		Insight:   NewInsightHandler(insights, education, stocks, log),
		Education: NewEducationHandler(education, log),
		Analytics: NewAnalyticsHandler(service.NewAnalyticsService(stocks, nil), log),
		Backtest:  NewBacktestHandler(service.NewBacktestService(nil, log), log),
		Pipeline:  NewPipelineHandler(pipeline, log),
		Health:    NewHealthHandler("memory"),
	})
	return &testServer{e: e, ai: ai, controller: controller, portfolio: portfolio, pipeline: pipeline}
}

func (s *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
	assert.Equal(t, dto.HealthResponse{Status: "ok", Storage: "memory"}, decode[dto.HealthResponse](t, rec))
}

func TestStockRoutes(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/v1/stocks", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]entity.StockInfo](t, rec), 6)

	rec = s.do(t, http.MethodGet, "/api/v1/stocks/msft", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 420.30, decode[entity.StockInfo](t, rec).Price)

	rec = s.do(t, http.MethodGet, "/api/v1/stocks/ZZZZ", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/stocks/AAPL/history", "")
	require.Equal(t, http.StatusOK, rec.Code)
	history := decode[dto.StockHistoryResponse](t, rec)
	assert.Len(t, history.Series, service.SeriesLength)
	assert.Equal(t, service.SeriesLength, history.Summary.Points)
}

func TestViewRoutes(t *testing.T) {
	s := newTestServer(t)
	s.ai.On("GenerateText", mock.Anything).Return("generated", nil)

	rec := s.do(t, http.MethodGet, "/api/v1/view", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, entity.PageDashboard, decode[service.AppState](t, rec).Page)

	rec = s.do(t, http.MethodPut, "/api/v1/view/page", `{"page":"backtesting"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, entity.PageBacktesting, decode[service.AppState](t, rec).Page)

	rec = s.do(t, http.MethodPut, "/api/v1/view/page", `{"page":"casino"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPut, "/api/v1/view/ticker", `{"ticker":"GOOGL"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	st := decode[service.AppState](t, rec)
	assert.Equal(t, "GOOGL", st.SelectedStock.Ticker)
	assert.Len(t, st.Series, service.SeriesLength)

	s.controller.Wait()
	rec = s.do(t, http.MethodGet, "/api/v1/view", "")
	assert.Equal(t, "generated", decode[service.AppState](t, rec).Insight)

	s.do(t, http.MethodPut, "/api/v1/view/search-query", `{"query":" pltr"}`)
	rec = s.do(t, http.MethodPost, "/api/v1/view/search", "")
	require.Equal(t, http.StatusOK, rec.Code)
	st = decode[service.AppState](t, rec)
	require.NotNil(t, st.Search)
	assert.Equal(t, "PLTR", st.Search.Ticker)
	s.controller.Wait()

	rec = s.do(t, http.MethodDelete, "/api/v1/view/search", "")
	assert.Nil(t, decode[service.AppState](t, rec).Search)

	rec = s.do(t, http.MethodPost, "/api/v1/view/logout", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	rec = s.do(t, http.MethodPost, "/api/v1/view/login", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[service.AppState](t, rec).LoggedIn)
	rec = s.do(t, http.MethodPost, "/api/v1/view/logout", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/view/pages", "")
	assert.Len(t, decode[[]entity.Page](t, rec), len(entity.Pages))
}

func TestPortfolioRoutes(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/portfolio", `{"ticker":"nvda","quantity":10,"avg_price":100}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	added := decode[dto.PortfolioMutationResponse](t, rec)
	assert.True(t, added.Persisted)
	assert.Equal(t, "NVDA", added.Item.Ticker)
	assert.Equal(t, service.PortfolioStats{TotalCost: 1000, CurrentValue: 1284.5, Gain: 284.5, GainPercent: 28.45}, added.Stats)

	rec = s.do(t, http.MethodPost, "/api/v1/portfolio", `{"ticker":"nvda","quantity":0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = s.do(t, http.MethodPost, "/api/v1/portfolio", `{"ticker":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/portfolio", "")
	require.Equal(t, http.StatusOK, rec.Code)
	pf := decode[dto.PortfolioResponse](t, rec)
	require.Len(t, pf.Holdings, 1)
	assert.Equal(t, 1284.5, pf.Holdings[0].MarketValue)
	assert.Empty(t, pf.LoadError)

	rec = s.do(t, http.MethodGet, "/api/v1/portfolio/stats", "")
	assert.Equal(t, 28.45, decode[service.PortfolioStats](t, rec).GainPercent)

	rec = s.do(t, http.MethodDelete, "/api/v1/portfolio/"+added.Item.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, service.PortfolioStats{}, decode[dto.PortfolioMutationResponse](t, rec).Stats)

	rec = s.do(t, http.MethodDelete, "/api/v1/portfolio/"+added.Item.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInsightRoutes(t *testing.T) {
	s := newTestServer(t)
	s.ai.On("GenerateText", repository.BuildStockAnalysisPrompt("PLTR")).Return("", errors.New("unavailable"))
	s.ai.On("GenerateText", repository.BuildFinancialInsightPrompt("AMZN", 0.35, entity.PredictionAvoid)).Return("AMZN outlook", nil)
	s.ai.On("GenerateText", repository.BuildEducationalPrompt("Market Efficiency")).Return("# EMH", nil)

	rec := s.do(t, http.MethodGet, "/api/v1/insights/stocks/pltr", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, dto.InsightResponse{Ticker: "PLTR", Insight: service.FallbackStockAnalysis}, decode[dto.InsightResponse](t, rec))

	rec = s.do(t, http.MethodGet, "/api/v1/insights/stocks/amzn/outlook", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "AMZN outlook", decode[dto.InsightResponse](t, rec).Insight)

	rec = s.do(t, http.MethodGet, "/api/v1/insights/stocks/pltr/outlook", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/insights/education", `{"topic":"Market Efficiency"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "# EMH", decode[service.Lesson](t, rec).Content)

	rec = s.do(t, http.MethodPost, "/api/v1/insights/education", `{"topic":"Overfitting Dangers"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = s.do(t, http.MethodPost, "/api/v1/insights/education", `{"topic":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEducationRoutes(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/v1/education/modules", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]service.LearningModule](t, rec), 4)

	rec = s.do(t, http.MethodGet, "/api/v1/education/quiz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "answer")

	rec = s.do(t, http.MethodPost, "/api/v1/education/quiz/0/answer", `{"option":1}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[service.QuizAnswer](t, rec).Correct)

	rec = s.do(t, http.MethodPost, "/api/v1/education/quiz/x/answer", `{"option":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = s.do(t, http.MethodPost, "/api/v1/education/quiz/5/answer", `{"option":1}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = s.do(t, http.MethodPost, "/api/v1/education/quiz/0/answer", `{"option":9}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyticsAndBacktestRoutes(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/v1/analytics/overview", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "TSLA", decode[service.Overview](t, rec).BestPerformer.Ticker)

	rec = s.do(t, http.MethodGet, "/api/v1/analytics/models", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[service.ModelComparison](t, rec).EquityCurve, 20)

	rec = s.do(t, http.MethodGet, "/api/v1/analytics/sentiment", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "AI", decode[service.SentimentOverview](t, rec).Keywords[0].Name)

	rec = s.do(t, http.MethodPost, "/api/v1/backtests", `{"model":"XGBoost","top_n":3}`)
	require.Equal(t, http.StatusOK, rec.Code)
	run := decode[service.BacktestRun](t, rec)
	assert.Len(t, run.Results, 30)
	assert.Equal(t, "XGBoost", run.Params.Model)

	rec = s.do(t, http.MethodPost, "/api/v1/backtests", `{"top_n":42}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPipelineRoutes(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/v1/pipeline/steps", "")
	require.Equal(t, http.StatusOK, rec.Code)
	steps := decode[[]service.PipelineStep](t, rec)
	require.Len(t, steps, 4)
	assert.Equal(t, "Data Acquisition", steps[0].Title)

	rec = s.do(t, http.MethodGet, "/api/v1/pipeline/training", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[service.TrainingStatus](t, rec).Running)

	rec = s.do(t, http.MethodPost, "/api/v1/pipeline/training", "")
	require.Equal(t, http.StatusAccepted, rec.Code)
	started := decode[service.TrainingStatus](t, rec)
	assert.True(t, started.Running)
	assert.Equal(t, 20, started.Epochs)
	assert.Len(t, started.Logs, 3)

	rec = s.do(t, http.MethodPost, "/api/v1/pipeline/training", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "training already in progress")

	s.pipeline.Close()
	rec = s.do(t, http.MethodGet, "/api/v1/pipeline/training", "")
	require.Equal(t, http.StatusOK, rec.Code)
	stopped := decode[service.TrainingStatus](t, rec)
	assert.False(t, stopped.Running)
	assert.Empty(t, stopped.Curve)
}
