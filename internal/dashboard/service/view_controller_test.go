package service

import (
	"context"
	"testing"
	"time"

	"golang-quant-dashboard/internal/dashboard/repository"
	"golang-quant-dashboard/internal/entity"
	"golang-quant-dashboard/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var controllerNow = time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)

func newTestController(t *testing.T, insights InsightService, policy StaleInsightPolicy) ViewController {
	t.Helper()
	stocks := repository.NewStocksRepository()
	portfolio := NewPortfolioService(
		repository.NewPortfolioRepository(repository.NewMemoryKVStore(), "p"),
		stocks, fixedClock(controllerNow), logger.NewNop(),
	)
	require.NoError(t, portfolio.Load(context.Background()))
	return NewViewController(stocks, seededGenerator(1, controllerNow), insights, portfolio, policy, 10*time.Millisecond, logger.NewNop())
}

func TestParseStaleInsightPolicy(t *testing.T) {
	p, err := ParseStaleInsightPolicy(" Last_Resolved ")
	require.NoError(t, err)
	assert.Equal(t, PolicyLastResolved, p)

	_, err = ParseStaleInsightPolicy("newest")
	assert.ErrorIs(t, err, ErrInvalidPolicy)
}

func TestViewController_InitialState(t *testing.T) {
	c := newTestController(t, new(mockInsightService), PolicyLatestRequest)

	st := c.State(context.Background())
	assert.Equal(t, entity.PageDashboard, st.Page)
	assert.Equal(t, "NVDA", st.SelectedStock.Ticker)
	assert.Equal(t, InsightPlaceholder, st.Insight)
	assert.Empty(t, st.Series)
	assert.NotNil(t, st.Series)
	assert.Nil(t, st.Search)
	assert.False(t, st.LoggedIn)
	assert.Empty(t, st.Portfolio)
}

func TestViewController_StartSelectsDefault(t *testing.T) {
	insights := new(mockInsightService)
	insights.On("FinancialInsight", "NVDA", 0.85, entity.PredictionBuy).Return("NVDA outlook").Once()
	c := newTestController(t, insights, PolicyLatestRequest)

	st := c.Start(context.Background())
	assert.Len(t, st.Series, SeriesLength)
	assert.Equal(t, "2026-10-15", st.Series[SeriesLength-1].Date)
	assert.Equal(t, SeriesLength, st.Summary.Points)

	c.Wait()
	st = c.State(context.Background())
	assert.Equal(t, "NVDA outlook", st.Insight)
	assert.Equal(t, "NVDA", st.InsightTicker)
	assert.False(t, st.InsightLoading)
	insights.AssertExpectations(t)
}

func TestViewController_SelectPageIsPureWrite(t *testing.T) {
	insights := new(mockInsightService)
	c := newTestController(t, insights, PolicyLatestRequest)

	st := c.SelectPage(context.Background(), entity.PageBacktesting)
	assert.Equal(t, entity.PageBacktesting, st.Page)
	assert.Empty(t, st.Series)
	insights.AssertNotCalled(t, "FinancialInsight", mock.Anything, mock.Anything, mock.Anything)
}

func TestViewController_SelectTicker(t *testing.T) {
	insights := new(mockInsightService)
	insights.On("FinancialInsight", "TSLA", 0.72, entity.PredictionBuy).Return("TSLA outlook").Once()
	c := newTestController(t, insights, PolicyLatestRequest)
	ctx := context.Background()

	st := c.SelectTicker(ctx, "tsla")
	assert.Equal(t, "TSLA", st.SelectedStock.Ticker)
	assert.Len(t, st.Series, SeriesLength)
	c.Wait()
	first := c.State(ctx)
	assert.Equal(t, "TSLA outlook", first.Insight)

	// reselecting the same stock keeps the series and issues no request
	again := c.SelectTicker(ctx, "TSLA")
	assert.Equal(t, first.Series, again.Series)
	c.Wait()
	insights.AssertNumberOfCalls(t, "FinancialInsight", 1)
}

func TestViewController_SelectUnknownTickerFallsBackToDefault(t *testing.T) {
	insights := new(mockInsightService)
	insights.On("FinancialInsight", "NVDA", 0.85, entity.PredictionBuy).Return("NVDA outlook")
	c := newTestController(t, insights, PolicyLatestRequest)

	st := c.SelectTicker(context.Background(), "NOPE")
	assert.Equal(t, "NVDA", st.SelectedStock.Ticker)
	assert.Len(t, st.Series, SeriesLength)
	c.Wait()
}

func TestViewController_PlaceholderWrittenImmediately(t *testing.T) {
	gated := newGatedInsights()
	c := newTestController(t, gated, PolicyLatestRequest)

	st := c.SelectTicker(context.Background(), "AAPL")
	assert.Equal(t, "Analyzing latest market patterns and sentiment for AAPL...", st.Insight)
	assert.True(t, st.InsightLoading)

	assert.Equal(t, "insight:AAPL", <-gated.started)
	gated.release("insight:AAPL", "AAPL outlook")
	c.Wait()
	assert.Equal(t, "AAPL outlook", c.State(context.Background()).Insight)
}

// selectAAPLThenTSLA issues both selections and resolves TSLA first, then AAPL.
func selectAAPLThenTSLA(t *testing.T, c ViewController, gated *gatedInsights) {
	t.Helper()
	ctx := context.Background()

	c.SelectTicker(ctx, "AAPL")
	require.Equal(t, "insight:AAPL", <-gated.started)
	c.SelectTicker(ctx, "TSLA")
	require.Equal(t, "insight:TSLA", <-gated.started)

	gated.release("insight:TSLA", "TSLA outlook")
	require.Eventually(t, func() bool {
		return !c.State(ctx).InsightLoading
	}, time.Second, time.Millisecond)

	gated.release("insight:AAPL", "AAPL outlook")
	c.Wait()
}

func TestViewController_LastResolvedPolicyLetsLateResponseWin(t *testing.T) {
	gated := newGatedInsights()
	c := newTestController(t, gated, PolicyLastResolved)

	selectAAPLThenTSLA(t, c, gated)

	st := c.State(context.Background())
	assert.Equal(t, "TSLA", st.SelectedStock.Ticker)
	assert.Equal(t, "AAPL outlook", st.Insight)
	assert.Equal(t, "AAPL", st.InsightTicker)
}

func TestViewController_LatestRequestPolicyDropsStaleResponse(t *testing.T) {
	gated := newGatedInsights()
	c := newTestController(t, gated, PolicyLatestRequest)

	selectAAPLThenTSLA(t, c, gated)

	st := c.State(context.Background())
	assert.Equal(t, "TSLA", st.SelectedStock.Ticker)
	assert.Equal(t, "TSLA outlook", st.Insight)
	assert.Equal(t, "TSLA", st.InsightTicker)
}

func TestViewController_LatestRequestIgnoresEarlierResolution(t *testing.T) {
	gated := newGatedInsights()
	c := newTestController(t, gated, PolicyLatestRequest)
	ctx := context.Background()

	c.SelectTicker(ctx, "AAPL")
	<-gated.started
	c.SelectTicker(ctx, "TSLA")
	<-gated.started

	gated.release("insight:AAPL", "AAPL outlook")
	gated.release("insight:TSLA", "TSLA outlook")
	c.Wait()

	assert.Equal(t, "TSLA outlook", c.State(ctx).Insight)
}

func TestViewController_Search(t *testing.T) {
	insights := new(mockInsightService)
	insights.On("StockAnalysis", "PLTR").Return("PLTR report").Once()
	insights.On("StockAnalysis", "MSFT").Return("MSFT report").Once()
	c := newTestController(t, insights, PolicyLatestRequest)
	ctx := context.Background()

	st := c.SubmitSearch(ctx)
	assert.Nil(t, st.Search)

	c.SetSearchQuery(ctx, "   ")
	st = c.SubmitSearch(ctx)
	assert.Nil(t, st.Search)

	c.SetSearchQuery(ctx, "  pltr ")
	st = c.SubmitSearch(ctx)
	require.NotNil(t, st.Search)
	assert.Equal(t, "PLTR", st.Search.Ticker)
	assert.Nil(t, st.Search.Stock)
	assert.Equal(t, "", st.SearchQuery)
	c.Wait()

	st = c.State(ctx)
	require.NotNil(t, st.Search)
	assert.Equal(t, "PLTR report", st.Search.Analysis)
	assert.False(t, st.Search.Loading)

	c.SetSearchQuery(ctx, "msft")
	st = c.SubmitSearch(ctx)
	require.NotNil(t, st.Search.Stock)
	assert.Equal(t, "Microsoft Corp", st.Search.Stock.Name)
	c.Wait()

	st = c.CloseSearch(ctx)
	assert.Nil(t, st.Search)
	insights.AssertExpectations(t)
}

func TestViewController_AnalysisAfterCloseIsDropped(t *testing.T) {
	gated := newGatedInsights()
	c := newTestController(t, gated, PolicyLastResolved)
	ctx := context.Background()

	c.SetSearchQuery(ctx, "amd")
	c.SubmitSearch(ctx)
	<-gated.started
	c.CloseSearch(ctx)

	gated.release("analysis:AMD", "AMD report")
	c.Wait()
	assert.Nil(t, c.State(ctx).Search)
}

func TestViewController_AnalysisFromClosedSearchSkipsReopenedModal(t *testing.T) {
	for _, policy := range []StaleInsightPolicy{PolicyLastResolved, PolicyLatestRequest} {
		t.Run(string(policy), func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			stocks := repository.NewStocksRepository()
			portfolio := NewPortfolioService(
				repository.NewPortfolioRepository(repository.NewMemoryKVStore(), "p"),
				stocks, fixedClock(controllerNow), logger.NewNop(),
			)
			gated := newGatedInsights()
			c := NewViewController(stocks, seededGenerator(1, controllerNow), gated, portfolio, policy,
				time.Millisecond, &logger.Logger{Logger: zap.New(core)})
			ctx := context.Background()

			c.SetSearchQuery(ctx, "amd")
			c.SubmitSearch(ctx)
			<-gated.started
			c.CloseSearch(ctx)

			c.SetSearchQuery(ctx, "pltr")
			c.SubmitSearch(ctx)
			<-gated.started

			gated.release("analysis:AMD", "AMD report")
			require.Eventually(t, func() bool {
				return logs.FilterMessage("Dropping analysis for a closed search").Len() == 1
			}, time.Second, time.Millisecond)

			st := c.State(ctx)
			require.NotNil(t, st.Search)
			assert.Equal(t, "PLTR", st.Search.Ticker)
			assert.Equal(t, InsightPlaceholder, st.Search.Analysis)
			assert.True(t, st.Search.Loading)

			gated.release("analysis:PLTR", "PLTR report")
			c.Wait()
			st = c.State(ctx)
			assert.Equal(t, "PLTR report", st.Search.Analysis)
			assert.False(t, st.Search.Loading)
		})
	}
}

func TestViewController_LoginLogout(t *testing.T) {
	c := newTestController(t, new(mockInsightService), PolicyLatestRequest)
	ctx := context.Background()

	_, err := c.Logout(ctx)
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	start := time.Now()
	st, err := c.Login(ctx)
	require.NoError(t, err)
	assert.True(t, st.LoggedIn)
	assert.False(t, st.LoggingIn)
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)

	st, err = c.Logout(ctx)
	require.NoError(t, err)
	assert.False(t, st.LoggedIn)
}

func TestViewController_LoginCancelled(t *testing.T) {
	stocks := repository.NewStocksRepository()
	portfolio := NewPortfolioService(repository.NewPortfolioRepository(repository.NewMemoryKVStore(), "p"), stocks, nil, logger.NewNop())
	c := NewViewController(stocks, NewSeriesGenerator(), new(mockInsightService), portfolio, PolicyLatestRequest, time.Hour, logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	st, err := c.Login(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, st.LoggedIn)
	assert.False(t, st.LoggingIn)
}

func TestViewController_StateIncludesPortfolio(t *testing.T) {
	stocks := repository.NewStocksRepository()
	portfolio := NewPortfolioService(repository.NewPortfolioRepository(repository.NewMemoryKVStore(), "p"), stocks, fixedClock(controllerNow), logger.NewNop())
	c := NewViewController(stocks, NewSeriesGenerator(), new(mockInsightService), portfolio, "", time.Millisecond, logger.NewNop())

	_, err := portfolio.Add(context.Background(), AddHoldingInput{Ticker: "NVDA", Quantity: 1})
	require.NoError(t, err)

	st := c.State(context.Background())
	require.Len(t, st.Portfolio, 1)
	assert.Equal(t, "NVDA", st.Portfolio[0].Ticker)
}
