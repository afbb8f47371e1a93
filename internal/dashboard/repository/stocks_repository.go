package repository

import (
	"context"
	"errors"
	"strings"

	"golang-quant-dashboard/internal/entity"
)

// ErrStockNotFound is returned when a ticker is not part of the catalog.
var ErrStockNotFound = errors.New("stock not found")

// StocksRepository provides read access to the stock catalog.
type StocksRepository interface {
	GetStocks(ctx context.Context) ([]entity.StockInfo, error)
	FindByTicker(ctx context.Context, ticker string) (*entity.StockInfo, error)
	Default() entity.StockInfo
}

var defaultCatalog = []entity.StockInfo{
	{Ticker: "NVDA", Name: "NVIDIA Corp", Price: 128.45, Change: 2.45, SentimentScore: 0.85, Prediction: entity.PredictionBuy, Confidence: 0.92},
	{Ticker: "AAPL", Name: "Apple Inc", Price: 215.12, Change: -0.52, SentimentScore: 0.45, Prediction: entity.PredictionNeutral, Confidence: 0.65},
	{Ticker: "TSLA", Name: "Tesla Inc", Price: 178.50, Change: 5.12, SentimentScore: 0.72, Prediction: entity.PredictionBuy, Confidence: 0.81},
	{Ticker: "MSFT", Name: "Microsoft Corp", Price: 420.30, Change: 0.15, SentimentScore: 0.60, Prediction: entity.PredictionBuy, Confidence: 0.74},
	{Ticker: "AMZN", Name: "Amazon.com Inc", Price: 185.20, Change: -1.20, SentimentScore: 0.35, Prediction: entity.PredictionAvoid, Confidence: 0.58},
	{Ticker: "GOOGL", Name: "Alphabet Inc", Price: 175.40, Change: 0.85, SentimentScore: 0.55, Prediction: entity.PredictionNeutral, Confidence: 0.62},
}

type stocksRepository struct {
	stocks []entity.StockInfo
	index  map[string]int
}

// NewStocksRepository returns the built-in catalog.
func NewStocksRepository() StocksRepository {
	return NewStaticStocksRepository(defaultCatalog)
}

// NewStaticStocksRepository serves the given stocks. The first entry is the default selection.
func NewStaticStocksRepository(stocks []entity.StockInfo) StocksRepository {
	r := &stocksRepository{
		stocks: append([]entity.StockInfo(nil), stocks...),
		index:  make(map[string]int, len(stocks)),
	}
	for i, s := range r.stocks {
		r.index[s.Ticker] = i
	}
	return r
}

func (r *stocksRepository) GetStocks(ctx context.Context) ([]entity.StockInfo, error) {
	return append([]entity.StockInfo(nil), r.stocks...), nil
}

func (r *stocksRepository) FindByTicker(ctx context.Context, ticker string) (*entity.StockInfo, error) {
	i, ok := r.index[strings.ToUpper(strings.TrimSpace(ticker))]
	if !ok {
		return nil, ErrStockNotFound
	}
	stock := r.stocks[i]
	return &stock, nil
}

func (r *stocksRepository) Default() entity.StockInfo {
	if len(r.stocks) == 0 {
		return entity.StockInfo{}
	}
	return r.stocks[0]
}
