package dto

// BacktestRequest is the DTO for running a simulated backtest. Empty fields take the form defaults.
type BacktestRequest struct {
	Model     string  `json:"model" example:"Transformer+LSTM"`
	TopN      int     `json:"top_n" example:"5"`
	Rebalance string  `json:"rebalance" example:"Weekly"`
	Cost      float64 `json:"cost" example:"0.1"`
	Period    string  `json:"period" example:"3 Years"`
}
