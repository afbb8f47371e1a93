package entity

// StockDataPoint is one day of a generated price and sentiment series.
type StockDataPoint struct {
	Date            string  `json:"date"`
	Close           float64 `json:"close"`
	Volume          int64   `json:"volume"`
	Sentiment       float64 `json:"sentiment"`
	NewsSentiment   float64 `json:"news_sentiment"`
	SocialSentiment float64 `json:"social_sentiment"`
	RSI             float64 `json:"rsi"`
	MACD            float64 `json:"macd"`
}
