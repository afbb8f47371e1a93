package entity

// ModelPerformance holds the headline backtest figures of a prediction model.
type ModelPerformance struct {
	Model            string  `json:"model"`
	Accuracy         float64 `json:"accuracy"`
	SharpeRatio      float64 `json:"sharpe_ratio"`
	MaxDrawdown      float64 `json:"max_drawdown"`
	CumulativeReturn float64 `json:"cumulative_return"`
	WinRate          float64 `json:"win_rate"`
}

// BacktestResult is one point of a simulated equity curve.
type BacktestResult struct {
	Date           string  `json:"date"`
	PortfolioValue float64 `json:"portfolio_value"`
	BenchmarkValue float64 `json:"benchmark_value,omitempty"`
}
