package dto

// SelectPageRequest switches the active view.
type SelectPageRequest struct {
	Page string `json:"page" example:"stock-analysis"`
}

// SelectTickerRequest switches the analysed stock.
type SelectTickerRequest struct {
	Ticker string `json:"ticker" example:"TSLA"`
}

// SearchQueryRequest updates the search box text.
type SearchQueryRequest struct {
	Query string `json:"query" example:"pltr"`
}
