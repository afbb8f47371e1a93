package dto

import (
	"golang-quant-dashboard/internal/dashboard/service"
	"golang-quant-dashboard/internal/entity"
)

// AddPortfolioItemRequest is the DTO for adding a holding. A zero avg_price uses the catalog price.
type AddPortfolioItemRequest struct {
	Ticker   string  `json:"ticker" example:"NVDA"`
	Quantity int     `json:"quantity" example:"10"`
	AvgPrice float64 `json:"avg_price" example:"100"`
}

// PortfolioResponse lists the valued holdings with their totals.
type PortfolioResponse struct {
	Holdings  []service.Holding      `json:"holdings"`
	Stats     service.PortfolioStats `json:"stats"`
	LoadError string                 `json:"load_error,omitempty"`
}

// PortfolioMutationResponse reports an add or remove.
type PortfolioMutationResponse struct {
	Item      entity.PortfolioItem   `json:"item"`
	Persisted bool                   `json:"persisted"`
	Warning   string                 `json:"warning,omitempty"`
	Stats     service.PortfolioStats `json:"stats"`
}
