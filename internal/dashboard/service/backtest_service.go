package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"sync"

	"golang-quant-dashboard/internal/entity"
	"golang-quant-dashboard/pkg/logger"
	"golang-quant-dashboard/pkg/utils"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	backtestDays          = 30
	backtestStartingValue = 10000
	backtestBias          = 0.4
	backtestScale         = 500
	transformerBoost      = 1.2
)

// ErrInvalidBacktest is returned when backtest parameters are out of range.
var ErrInvalidBacktest = errors.New("invalid backtest parameters")

// RebalanceFrequencies lists the accepted rebalance settings.
var RebalanceFrequencies = []string{"Daily", "Weekly", "Monthly", "Quarterly"}

// BacktestParams are the knobs of a simulated strategy run.
type BacktestParams struct {
	Model     string  `json:"model"`
	TopN      int     `json:"top_n"`
	Rebalance string  `json:"rebalance"`
	Cost      float64 `json:"cost"`
	Period    string  `json:"period"`
}

// DefaultBacktestParams mirrors the form's initial values.
func DefaultBacktestParams() BacktestParams {
	return BacktestParams{Model: ModelTransformer, TopN: 5, Rebalance: "Weekly", Cost: 0.1, Period: "3 Years"}
}

// BacktestMetrics summarize a simulated equity curve.
type BacktestMetrics struct {
	TotalReturn float64 `json:"total_return_pct"`
	MaxDrawdown float64 `json:"max_drawdown_pct"`
	SharpeRatio float64 `json:"sharpe_ratio"`
	FinalValue  float64 `json:"final_value"`
}

// BacktestRun is the outcome of one simulation.
type BacktestRun struct {
	Params  BacktestParams          `json:"params"`
	Results []entity.BacktestResult `json:"results"`
	Metrics BacktestMetrics         `json:"metrics"`
}

// BacktestService simulates strategy equity curves.
type BacktestService interface {
	Run(ctx context.Context, params BacktestParams) (*BacktestRun, error)
}

type backtestService struct {
	mu     sync.Mutex
	unit   distuv.Uniform
	logger *logger.Logger
}

// NewBacktestService creates a new backtest service. A nil src draws from the global source.
func NewBacktestService(src rand.Source, logger *logger.Logger) BacktestService {
	return &backtestService{
		unit:   distuv.Uniform{Min: 0, Max: 1, Src: src},
		logger: logger,
	}
}

// Run validates params and draws a 30-day equity curve. Transformer models get a 1.2x swing.
func (s *backtestService) Run(ctx context.Context, params BacktestParams) (*BacktestRun, error) {
	params, err := normalizeBacktestParams(params)
	if err != nil {
		return nil, err
	}

	multiplier := 1.0
	if strings.HasPrefix(params.Model, "Transformer") {
		multiplier = transformerBoost
	}

	s.mu.Lock()
	results := make([]entity.BacktestResult, backtestDays)
	for i := range results {
		equity := backtestStartingValue + (s.unit.Rand()-backtestBias)*backtestScale*multiplier*float64(i)
		results[i] = entity.BacktestResult{
			Date:           fmt.Sprintf("Day %d", i),
			PortfolioValue: utils.Round(equity, 2),
		}
	}
	s.mu.Unlock()

	run := &BacktestRun{Params: params, Results: results, Metrics: computeBacktestMetrics(results)}
	s.logger.InfoContext(ctx, "Backtest simulated",
		logger.StringField("model", params.Model),
		logger.IntField("top_n", params.TopN),
		logger.FloatField("total_return_pct", run.Metrics.TotalReturn),
	)
	return run, nil
}

func normalizeBacktestParams(p BacktestParams) (BacktestParams, error) {
	def := DefaultBacktestParams()
	if p.Model == "" {
		p.Model = def.Model
	}
	if p.TopN == 0 {
		p.TopN = def.TopN
	}
	if p.Rebalance == "" {
		p.Rebalance = def.Rebalance
	}
	if p.Period == "" {
		p.Period = def.Period
	}

	switch p.Model {
	case ModelTransformer, "Transformer", ModelXGBoost:
	default:
		return p, fmt.Errorf("%w: unknown model %q", ErrInvalidBacktest, p.Model)
	}
	if p.TopN < 1 || p.TopN > 10 {
		return p, fmt.Errorf("%w: top_n must be between 1 and 10", ErrInvalidBacktest)
	}
	valid := false
	for _, f := range RebalanceFrequencies {
		if strings.EqualFold(f, p.Rebalance) {
			p.Rebalance = f
			valid = true
		}
	}
	if !valid {
		return p, fmt.Errorf("%w: unknown rebalance frequency %q", ErrInvalidBacktest, p.Rebalance)
	}
	if p.Cost < 0 || math.IsNaN(p.Cost) {
		return p, fmt.Errorf("%w: cost must not be negative", ErrInvalidBacktest)
	}
	return p, nil
}

// computeBacktestMetrics derives return, drawdown and an annualized daily Sharpe ratio.
func computeBacktestMetrics(results []entity.BacktestResult) BacktestMetrics {
	if len(results) == 0 {
		return BacktestMetrics{}
	}
	values := make([]float64, len(results))
	for i, r := range results {
		values[i] = r.PortfolioValue
	}

	first, last := values[0], values[len(values)-1]
	metrics := BacktestMetrics{FinalValue: last}
	if first != 0 {
		metrics.TotalReturn = utils.Round((last-first)/first*100, 2)
	}

	peak := values[0]
	maxDD := 0.0
	for _, v := range values {
		peak = math.Max(peak, v)
		if peak > 0 {
			maxDD = math.Min(maxDD, (v-peak)/peak)
		}
	}
	metrics.MaxDrawdown = utils.Round(maxDD*100, 2)

	if len(values) > 2 {
		returns := make([]float64, len(values)-1)
		floats.SubTo(returns, values[1:], values[:len(values)-1])
		floats.Div(returns, values[:len(values)-1])
		mean, std := stat.MeanStdDev(returns, nil)
		if std > 0 {
			metrics.SharpeRatio = utils.Round(mean/std*math.Sqrt(252), 2)
		}
	}
	return metrics
}
