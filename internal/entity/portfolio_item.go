package entity

// PortfolioItem is a holding entered by the user.
type PortfolioItem struct {
	ID       string  `json:"id"`
	Ticker   string  `json:"ticker"`
	Quantity int     `json:"quantity"`
	AvgPrice float64 `json:"avg_price"`
}
