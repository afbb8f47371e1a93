package dto

import (
	"golang-quant-dashboard/internal/dashboard/service"
	"golang-quant-dashboard/internal/entity"
)

// StockHistoryResponse is a freshly generated series for a catalog stock.
type StockHistoryResponse struct {
	Stock   entity.StockInfo        `json:"stock"`
	Series  []entity.StockDataPoint `json:"series"`
	Summary service.SeriesSummary   `json:"summary"`
}

// InsightResponse carries generated narrative text.
type InsightResponse struct {
	Ticker  string `json:"ticker"`
	Insight string `json:"insight"`
}
