package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang-quant-dashboard/internal/dashboard/repository"
	"golang-quant-dashboard/internal/entity"
	"golang-quant-dashboard/pkg/logger"
	"golang-quant-dashboard/pkg/utils"
)

var (
	// ErrHoldingNotFound is returned when no holding has the given id.
	ErrHoldingNotFound = errors.New("holding not found")
	// ErrInvalidHolding is returned when a new holding has an unusable ticker, quantity or price.
	ErrInvalidHolding = errors.New("invalid holding")
)

// AddHoldingInput describes a holding to add. A zero AvgPrice means "use the catalog price".
type AddHoldingInput struct {
	Ticker   string
	Quantity int
	AvgPrice float64
}

// Holding is a portfolio item valued against the catalog.
type Holding struct {
	entity.PortfolioItem
	Name         string            `json:"name,omitempty"`
	CurrentPrice float64           `json:"current_price"`
	Cost         float64           `json:"cost"`
	MarketValue  float64           `json:"market_value"`
	Gain         float64           `json:"gain"`
	GainPercent  float64           `json:"gain_pct"`
	Prediction   entity.Prediction `json:"prediction,omitempty"`
	Listed       bool              `json:"listed"`
}

// PortfolioStats are the aggregate figures of the whole portfolio.
type PortfolioStats struct {
	TotalCost    float64 `json:"total_cost"`
	CurrentValue float64 `json:"current_value"`
	Gain         float64 `json:"gain"`
	GainPercent  float64 `json:"gain_pct"`
}

// MutationResult reports the outcome of a portfolio change. The change is kept in
// memory even when it could not be persisted.
type MutationResult struct {
	Item         entity.PortfolioItem
	Persisted    bool
	PersistError error
}

// PortfolioService owns the in-memory holdings and writes them through to storage.
type PortfolioService interface {
	Load(ctx context.Context) error
	LoadError() error
	List(ctx context.Context) []entity.PortfolioItem
	Holdings(ctx context.Context) []Holding
	Add(ctx context.Context, in AddHoldingInput) (*MutationResult, error)
	Remove(ctx context.Context, id string) (*MutationResult, error)
	Stats(ctx context.Context) PortfolioStats
}

type portfolioService struct {
	// writeMu serializes mutations together with their save so storage never
	// receives an older snapshot after a newer one.
	writeMu    sync.Mutex
	mu         sync.RWMutex
	items      []entity.PortfolioItem
	loadErr    error
	lastID     int64
	repo       repository.PortfolioRepository
	stocksRepo repository.StocksRepository
	now        func() time.Time
	logger     *logger.Logger
}

// NewPortfolioService creates a new portfolio service. A nil clock uses time.Now.
func NewPortfolioService(repo repository.PortfolioRepository, stocksRepo repository.StocksRepository, now func() time.Time, logger *logger.Logger) PortfolioService {
	if now == nil {
		now = time.Now
	}
	return &portfolioService{
		items:      []entity.PortfolioItem{},
		repo:       repo,
		stocksRepo: stocksRepo,
		now:        now,
		logger:     logger,
	}
}

// Load rehydrates the holdings from storage. On failure the portfolio starts empty and
// the error is kept for LoadError.
func (s *portfolioService) Load(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	items, err := s.repo.Load(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.loadErr = err
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to load portfolio, starting empty", logger.ErrorField(err))
		s.items = []entity.PortfolioItem{}
		return err
	}
	s.items = items
	s.logger.InfoContext(ctx, "Portfolio loaded", logger.IntField("holdings", len(items)))
	return nil
}

func (s *portfolioService) LoadError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadErr
}

func (s *portfolioService) List(ctx context.Context) []entity.PortfolioItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entity.PortfolioItem{}, s.items...)
}

func (s *portfolioService) Holdings(ctx context.Context) []Holding {
	items := s.List(ctx)
	holdings := make([]Holding, 0, len(items))
	for _, item := range items {
		h := Holding{PortfolioItem: item, Cost: float64(item.Quantity) * item.AvgPrice}
		if stock, err := s.stocksRepo.FindByTicker(ctx, item.Ticker); err == nil {
			h.Name = stock.Name
			h.CurrentPrice = stock.Price
			h.Prediction = stock.Prediction
			h.Listed = true
			h.MarketValue = float64(item.Quantity) * stock.Price
		}
		h.Gain = h.MarketValue - h.Cost
		if h.Cost > 0 {
			h.GainPercent = utils.Round(h.Gain/h.Cost*100, 2)
		}
		h.Cost = utils.Round(h.Cost, 2)
		h.MarketValue = utils.Round(h.MarketValue, 2)
		h.Gain = utils.Round(h.Gain, 2)
		holdings = append(holdings, h)
	}
	return holdings
}

// Add validates and appends a holding, then persists the whole collection.
func (s *portfolioService) Add(ctx context.Context, in AddHoldingInput) (*MutationResult, error) {
	ticker := strings.ToUpper(strings.TrimSpace(in.Ticker))
	if ticker == "" {
		return nil, fmt.Errorf("%w: ticker is required", ErrInvalidHolding)
	}
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrInvalidHolding)
	}
	if in.AvgPrice < 0 {
		return nil, fmt.Errorf("%w: average price must not be negative", ErrInvalidHolding)
	}

	avgPrice := in.AvgPrice
	if avgPrice == 0 {
		if stock, err := s.stocksRepo.FindByTicker(ctx, ticker); err == nil {
			avgPrice = stock.Price
		}
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	item := entity.PortfolioItem{
		ID:       s.nextID(),
		Ticker:   ticker,
		Quantity: in.Quantity,
		AvgPrice: avgPrice,
	}
	s.items = append(s.items, item)
	snapshot := append([]entity.PortfolioItem{}, s.items...)
	s.mu.Unlock()

	result := &MutationResult{Item: item}
	s.persist(ctx, snapshot, result)
	return result, nil
}

// Remove drops the holding with the given id, keeping the order of the rest.
func (s *portfolioService) Remove(ctx context.Context, id string) (*MutationResult, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	idx := -1
	for i, item := range s.items {
		if item.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return nil, ErrHoldingNotFound
	}
	removed := s.items[idx]
	kept := make([]entity.PortfolioItem, 0, len(s.items)-1)
	kept = append(kept, s.items[:idx]...)
	kept = append(kept, s.items[idx+1:]...)
	s.items = kept
	snapshot := append([]entity.PortfolioItem{}, kept...)
	s.mu.Unlock()

	result := &MutationResult{Item: removed}
	s.persist(ctx, snapshot, result)
	return result, nil
}

// Stats folds the holdings against catalog prices. Unlisted tickers add cost but no value.
func (s *portfolioService) Stats(ctx context.Context) PortfolioStats {
	var totalCost, currentValue float64
	for _, item := range s.List(ctx) {
		totalCost += float64(item.Quantity) * item.AvgPrice
		if stock, err := s.stocksRepo.FindByTicker(ctx, item.Ticker); err == nil {
			currentValue += float64(item.Quantity) * stock.Price
		}
	}

	gain := currentValue - totalCost
	var gainPct float64
	if totalCost > 0 {
		gainPct = gain / totalCost * 100
	}
	return PortfolioStats{
		TotalCost:    utils.Round(totalCost, 2),
		CurrentValue: utils.Round(currentValue, 2),
		Gain:         utils.Round(gain, 2),
		GainPercent:  utils.Round(gainPct, 2),
	}
}

func (s *portfolioService) persist(ctx context.Context, items []entity.PortfolioItem, result *MutationResult) {
	if err := s.repo.Save(ctx, items); err != nil {
		s.logger.ErrorContext(ctx, "Failed to persist portfolio", logger.ErrorField(err), logger.IntField("holdings", len(items)))
		result.PersistError = err
		return
	}
	result.Persisted = true
}

// nextID returns a millisecond timestamp id that is unique within the portfolio.
// Callers must hold s.mu.
func (s *portfolioService) nextID() string {
	ms := s.now().UnixMilli()
	if ms <= s.lastID {
		ms = s.lastID + 1
	}
	for s.hasID(strconv.FormatInt(ms, 10)) {
		ms++
	}
	s.lastID = ms
	return strconv.FormatInt(ms, 10)
}

func (s *portfolioService) hasID(id string) bool {
	for _, item := range s.items {
		if item.ID == id {
			return true
		}
	}
	return false
}
