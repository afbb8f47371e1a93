package entity

// Prediction is the categorical model call attached to a stock.
type Prediction string

const (
	PredictionBuy     Prediction = "Buy"
	PredictionNeutral Prediction = "Neutral"
	PredictionAvoid   Prediction = "Avoid"
)

// StockInfo is an entry of the static stock catalog.
type StockInfo struct {
	Ticker         string     `json:"ticker"`
	Name           string     `json:"name"`
	Price          float64    `json:"price"`
	Change         float64    `json:"change"`
	SentimentScore float64    `json:"sentiment_score"`
	Prediction     Prediction `json:"prediction"`
	Confidence     float64    `json:"confidence"`
}
