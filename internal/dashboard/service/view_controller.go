package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang-quant-dashboard/internal/dashboard/repository"
	"golang-quant-dashboard/internal/entity"
	"golang-quant-dashboard/pkg/logger"
	"golang-quant-dashboard/pkg/utils"
)

// StaleInsightPolicy decides whether a late insight response may overwrite newer state.
type StaleInsightPolicy string

const (
	// PolicyLatestRequest only accepts the response of the most recently issued request.
	PolicyLatestRequest StaleInsightPolicy = "latest_request"
	// PolicyLastResolved lets every response write when it arrives, so the last one to resolve wins.
	PolicyLastResolved StaleInsightPolicy = "last_resolved"
)

var (
	// ErrInvalidPolicy is returned for an unknown stale insight policy.
	ErrInvalidPolicy = errors.New("invalid stale insight policy")
	// ErrNotLoggedIn is returned by Logout when there is no session.
	ErrNotLoggedIn = errors.New("not logged in")
)

// ParseStaleInsightPolicy validates a policy name.
func ParseStaleInsightPolicy(s string) (StaleInsightPolicy, error) {
	switch p := StaleInsightPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case PolicyLatestRequest, PolicyLastResolved:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPolicy, s)
	}
}

// SearchState is the stock detail modal opened from the search box.
type SearchState struct {
	Ticker   string            `json:"ticker"`
	Analysis string            `json:"analysis"`
	Loading  bool              `json:"loading"`
	Stock    *entity.StockInfo `json:"stock,omitempty"`
}

// AppState is a snapshot of everything the dashboard shows.
type AppState struct {
	LoggedIn       bool                    `json:"logged_in"`
	LoggingIn      bool                    `json:"logging_in"`
	Page           entity.Page             `json:"page"`
	SelectedStock  entity.StockInfo        `json:"selected_stock"`
	Insight        string                  `json:"insight"`
	InsightTicker  string                  `json:"insight_ticker,omitempty"`
	InsightLoading bool                    `json:"insight_loading"`
	Series         []entity.StockDataPoint `json:"series"`
	Summary        SeriesSummary           `json:"summary"`
	SearchQuery    string                  `json:"search_query"`
	Search         *SearchState            `json:"search,omitempty"`
	Portfolio      []entity.PortfolioItem  `json:"portfolio"`
}

// ViewController owns the dashboard state and runs the side effects of each transition.
type ViewController interface {
	Start(ctx context.Context) AppState
	State(ctx context.Context) AppState
	SelectPage(ctx context.Context, page entity.Page) AppState
	SelectTicker(ctx context.Context, ticker string) AppState
	SetSearchQuery(ctx context.Context, query string) AppState
	SubmitSearch(ctx context.Context) AppState
	CloseSearch(ctx context.Context) AppState
	Login(ctx context.Context) (AppState, error)
	Logout(ctx context.Context) (AppState, error)
	Wait()
}

type viewState struct {
	loggedIn       bool
	loggingIn      bool
	page           entity.Page
	stock          entity.StockInfo
	insight        string
	insightTicker  string
	insightLoading bool
	series         []entity.StockDataPoint
	searchQuery    string
	search         *SearchState
}

type viewController struct {
	mu         sync.Mutex
	state      viewState
	insightGen uint64
	searchGen  uint64
	// searchFloor is searchGen at the last CloseSearch; analyses issued at or below it are void.
	searchFloor uint64
	inflight   sync.WaitGroup

	policy     StaleInsightPolicy
	loginDelay time.Duration
	stocksRepo repository.StocksRepository
	generator  SeriesGenerator
	insights   InsightService
	portfolio  PortfolioService
	logger     *logger.Logger
}

// NewViewController creates a controller on the dashboard page with the default stock selected
// and no series yet.
func NewViewController(
	stocksRepo repository.StocksRepository,
	generator SeriesGenerator,
	insights InsightService,
	portfolio PortfolioService,
	policy StaleInsightPolicy,
	loginDelay time.Duration,
	logger *logger.Logger,
) ViewController {
	if policy == "" {
		policy = PolicyLatestRequest
	}
	return &viewController{
		state: viewState{
			page:    entity.PageDashboard,
			stock:   stocksRepo.Default(),
			insight: InsightPlaceholder,
			series:  []entity.StockDataPoint{},
		},
		policy:     policy,
		loginDelay: loginDelay,
		stocksRepo: stocksRepo,
		generator:  generator,
		insights:   insights,
		portfolio:  portfolio,
		logger:     logger,
	}
}

// Start runs the initial selection of the default stock.
func (c *viewController) Start(ctx context.Context) AppState {
	c.mu.Lock()
	c.applyStock(ctx, c.stocksRepo.Default())
	c.mu.Unlock()
	return c.State(ctx)
}

func (c *viewController) State(ctx context.Context) AppState {
	c.mu.Lock()
	st := c.snapshot()
	c.mu.Unlock()

	st.Portfolio = c.portfolio.List(ctx)
	return st
}

func (c *viewController) SelectPage(ctx context.Context, page entity.Page) AppState {
	c.mu.Lock()
	c.state.page = page
	c.mu.Unlock()
	return c.State(ctx)
}

// SelectTicker regenerates the series and requests a new insight. Unknown tickers fall
// back to the default stock; reselecting the current stock changes nothing.
func (c *viewController) SelectTicker(ctx context.Context, ticker string) AppState {
	stock, err := c.stocksRepo.FindByTicker(ctx, ticker)
	if err != nil {
		c.logger.DebugContext(ctx, "Unknown ticker selected, using default", logger.StringField("ticker", ticker))
		def := c.stocksRepo.Default()
		stock = &def
	}

	c.mu.Lock()
	if stock.Ticker != c.state.stock.Ticker || len(c.state.series) == 0 {
		c.applyStock(ctx, *stock)
	}
	c.mu.Unlock()
	return c.State(ctx)
}

func (c *viewController) SetSearchQuery(ctx context.Context, query string) AppState {
	c.mu.Lock()
	c.state.searchQuery = query
	c.mu.Unlock()
	return c.State(ctx)
}

// SubmitSearch opens the detail modal for the trimmed, upper-cased query, whether or not the
// ticker is in the catalog, and clears the query. A blank query does nothing.
func (c *viewController) SubmitSearch(ctx context.Context) AppState {
	c.mu.Lock()
	ticker := strings.ToUpper(strings.TrimSpace(c.state.searchQuery))
	if ticker == "" {
		c.mu.Unlock()
		return c.State(ctx)
	}

	search := &SearchState{Ticker: ticker, Analysis: InsightPlaceholder, Loading: true}
	if stock, err := c.stocksRepo.FindByTicker(ctx, ticker); err == nil {
		search.Stock = stock
	}
	c.state.searchQuery = ""
	c.state.search = search
	c.searchGen++
	gen := c.searchGen
	c.mu.Unlock()

	c.runAsync(ctx, func(ctx context.Context) {
		text := c.insights.StockAnalysis(ctx, ticker)

		c.mu.Lock()
		defer c.mu.Unlock()
		if c.state.search == nil || gen <= c.searchFloor || c.state.search.Ticker != ticker {
			c.logger.DebugContext(ctx, "Dropping analysis for a closed search", logger.StringField("ticker", ticker))
			return
		}
		if c.policy == PolicyLatestRequest && gen != c.searchGen {
			c.logger.DebugContext(ctx, "Dropping stale stock analysis", logger.StringField("ticker", ticker))
			return
		}
		c.state.search.Analysis = text
		c.state.search.Loading = false
	})
	return c.State(ctx)
}

func (c *viewController) CloseSearch(ctx context.Context) AppState {
	c.mu.Lock()
	c.state.search = nil
	c.searchGen++
	c.searchFloor = c.searchGen
	c.mu.Unlock()
	return c.State(ctx)
}

// Login waits for the configured delay and then marks the session as logged in.
func (c *viewController) Login(ctx context.Context) (AppState, error) {
	c.mu.Lock()
	c.state.loggingIn = true
	c.mu.Unlock()

	timer := time.NewTimer(c.loginDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		c.mu.Lock()
		c.state.loggingIn = false
		c.mu.Unlock()
		return c.State(ctx), ctx.Err()
	case <-timer.C:
	}

	c.mu.Lock()
	c.state.loggingIn = false
	c.state.loggedIn = true
	c.mu.Unlock()
	c.logger.InfoContext(ctx, "User logged in")
	return c.State(ctx), nil
}

func (c *viewController) Logout(ctx context.Context) (AppState, error) {
	c.mu.Lock()
	if !c.state.loggedIn {
		c.mu.Unlock()
		return c.State(ctx), ErrNotLoggedIn
	}
	c.state.loggedIn = false
	c.mu.Unlock()
	c.logger.InfoContext(ctx, "User logged out")
	return c.State(ctx), nil
}

// Wait blocks until every in-flight insight request has resolved.
func (c *viewController) Wait() {
	c.inflight.Wait()
}

// applyStock selects stock, regenerates its series and issues an insight request.
// Callers must hold c.mu.
func (c *viewController) applyStock(ctx context.Context, stock entity.StockInfo) {
	c.state.stock = stock
	c.state.series = c.generator.Generate(stock.Price, stock.SentimentScore)
	c.state.insight = fmt.Sprintf("Analyzing latest market patterns and sentiment for %s...", stock.Ticker)
	c.state.insightLoading = true
	c.insightGen++
	gen := c.insightGen

	c.runAsync(ctx, func(ctx context.Context) {
		text := c.insights.FinancialInsight(ctx, stock.Ticker, stock.SentimentScore, stock.Prediction)

		c.mu.Lock()
		defer c.mu.Unlock()
		if c.policy == PolicyLatestRequest && gen != c.insightGen {
			c.logger.DebugContext(ctx, "Dropping stale insight", logger.StringField("ticker", stock.Ticker))
			return
		}
		c.state.insight = text
		c.state.insightTicker = stock.Ticker
		c.state.insightLoading = false
	})
}

// runAsync runs fn in the background. fn sees ctx's values but outlives its cancellation.
func (c *viewController) runAsync(ctx context.Context, fn func(ctx context.Context)) {
	bg := context.WithoutCancel(ctx)
	c.inflight.Add(1)
	utils.GoSafe(func() {
		defer c.inflight.Done()
		fn(bg)
	})
}

func (c *viewController) snapshot() AppState {
	st := AppState{
		LoggedIn:       c.state.loggedIn,
		LoggingIn:      c.state.loggingIn,
		Page:           c.state.page,
		SelectedStock:  c.state.stock,
		Insight:        c.state.insight,
		InsightTicker:  c.state.insightTicker,
		InsightLoading: c.state.insightLoading,
		Series:         append([]entity.StockDataPoint{}, c.state.series...),
		Summary:        Summarize(c.state.series),
		SearchQuery:    c.state.searchQuery,
	}
	if c.state.search != nil {
		search := *c.state.search
		st.Search = &search
	}
	return st
}
