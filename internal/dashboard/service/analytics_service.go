package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sort"
	"sync"

	"golang-quant-dashboard/internal/dashboard/repository"
	"golang-quant-dashboard/internal/entity"
	"golang-quant-dashboard/pkg/utils"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	ModelTransformer = "Transformer+LSTM"
	ModelXGBoost     = "XGBoost"

	equityCurveWeeks = 20
)

// TransformerPerformance and XGBoostPerformance are the published backtest figures of the two models.
var (
	TransformerPerformance = entity.ModelPerformance{
		Model: ModelTransformer, Accuracy: 0.68, SharpeRatio: 2.1, MaxDrawdown: -12.4, CumulativeReturn: 185.5, WinRate: 0.56,
	}
	XGBoostPerformance = entity.ModelPerformance{
		Model: ModelXGBoost, Accuracy: 0.64, SharpeRatio: 1.8, MaxDrawdown: -15.2, CumulativeReturn: 142.0, WinRate: 0.54,
	}
)

// Slice is a named share of a whole.
type Slice struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Overview feeds the dashboard page.
type Overview struct {
	BestPerformer    entity.StockInfo        `json:"best_performer"`
	AvgConfidence    float64                 `json:"avg_confidence_pct"`
	SharpeRatio      float64                 `json:"sharpe_ratio"`
	MaxDrawdown      float64                 `json:"max_drawdown"`
	Allocation       []Slice                 `json:"allocation"`
	MarketBenchmark  []Slice                 `json:"market_benchmark"`
	Signals          []entity.StockInfo      `json:"signals"`
	ModelPerformance entity.ModelPerformance `json:"model_performance"`
}

// RadarAxis compares both models on one dimension, scaled to [0,100].
type RadarAxis struct {
	Subject     string  `json:"subject"`
	Transformer float64 `json:"transformer"`
	XGBoost     float64 `json:"xgboost"`
}

// EquityPoint is one week of the simulated model equity curves.
type EquityPoint struct {
	Name        string  `json:"name"`
	Transformer float64 `json:"transformer"`
	XGBoost     float64 `json:"xgboost"`
	Benchmark   float64 `json:"benchmark"`
}

// ModelComparison feeds the model benchmarking page.
type ModelComparison struct {
	Models      []entity.ModelPerformance `json:"models"`
	Radar       []RadarAxis               `json:"radar"`
	EquityCurve []EquityPoint             `json:"equity_curve"`
}

// Keyword is a trending discussion term with its mention frequency in thousands.
type Keyword struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// HeatPoint is one weekday of mention volume against net sentiment.
type HeatPoint struct {
	Day       string  `json:"day"`
	Volume    int     `json:"volume"`
	Sentiment float64 `json:"sentiment"`
}

// SentimentOverview feeds the sentiment explorer page.
type SentimentOverview struct {
	Keywords      []Keyword   `json:"keywords"`
	Heat          []HeatPoint `json:"heat"`
	MeanSentiment float64     `json:"mean_sentiment"`
}

// AnalyticsService builds the illustrative figures of the overview, model and sentiment pages.
type AnalyticsService interface {
	Overview(ctx context.Context) (*Overview, error)
	ModelComparison(ctx context.Context) *ModelComparison
	Sentiment(ctx context.Context) *SentimentOverview
}

type analyticsService struct {
	mu         sync.Mutex
	unit       distuv.Uniform
	stocksRepo repository.StocksRepository
}

// NewAnalyticsService creates a new analytics service. A nil src draws from the global source.
func NewAnalyticsService(stocksRepo repository.StocksRepository, src rand.Source) AnalyticsService {
	return &analyticsService{
		unit:       distuv.Uniform{Min: 0, Max: 1, Src: src},
		stocksRepo: stocksRepo,
	}
}

func (s *analyticsService) Overview(ctx context.Context) (*Overview, error) {
	stocks, err := s.stocksRepo.GetStocks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get stocks: %w", err)
	}

	overview := &Overview{
		SharpeRatio: TransformerPerformance.SharpeRatio,
		MaxDrawdown: TransformerPerformance.MaxDrawdown,
		Allocation: []Slice{
			{Name: "NVDA", Value: 30},
			{Name: "TSLA", Value: 25},
			{Name: "MSFT", Value: 20},
			{Name: "AAPL", Value: 15},
			{Name: "Others", Value: 10},
		},
		MarketBenchmark: []Slice{
			{Name: "Mon", Value: 5120},
			{Name: "Tue", Value: 5180},
			{Name: "Wed", Value: 5150},
			{Name: "Thu", Value: 5240},
			{Name: "Fri", Value: 5310},
		},
		ModelPerformance: TransformerPerformance,
	}
	if len(stocks) == 0 {
		overview.Signals = []entity.StockInfo{}
		return overview, nil
	}

	confidences := make([]float64, len(stocks))
	best := stocks[0]
	for i, st := range stocks {
		confidences[i] = st.Confidence
		if st.Change > best.Change {
			best = st
		}
	}
	overview.BestPerformer = best
	overview.AvgConfidence = utils.Round(stat.Mean(confidences, nil)*100, 1)

	signals := append([]entity.StockInfo{}, stocks...)
	sort.SliceStable(signals, func(i, j int) bool { return signals[i].Confidence > signals[j].Confidence })
	overview.Signals = signals
	return overview, nil
}

func (s *analyticsService) ModelComparison(ctx context.Context) *ModelComparison {
	t, x := TransformerPerformance, XGBoostPerformance
	radar := []RadarAxis{
		{Subject: "Accuracy", Transformer: t.Accuracy * 100, XGBoost: x.Accuracy * 100},
		{Subject: "Sharpe", Transformer: t.SharpeRatio * 40, XGBoost: x.SharpeRatio * 40},
		{Subject: "Stability", Transformer: 85, XGBoost: 72},
		{Subject: "Speed", Transformer: 40, XGBoost: 95},
		{Subject: "Win Rate", Transformer: t.WinRate * 100, XGBoost: x.WinRate * 100},
		{Subject: "Complexity", Transformer: 98, XGBoost: 30},
	}
	for i := range radar {
		radar[i].Transformer = utils.Round(radar[i].Transformer, 2)
		radar[i].XGBoost = utils.Round(radar[i].XGBoost, 2)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	curve := make([]EquityPoint, equityCurveWeeks)
	for i := range curve {
		w := float64(i)
		curve[i] = EquityPoint{
			Name:        fmt.Sprintf("Wk %d", i+1),
			Transformer: utils.Round(100+w*(s.unit.Rand()*8+2), 2),
			XGBoost:     utils.Round(100+w*(s.unit.Rand()*6+1), 2),
			Benchmark:   utils.Round(100+w*(s.unit.Rand()*4+0.5), 2),
		}
	}

	return &ModelComparison{
		Models:      []entity.ModelPerformance{t, x},
		Radar:       radar,
		EquityCurve: curve,
	}
}

func (s *analyticsService) Sentiment(ctx context.Context) *SentimentOverview {
	keywords := []Keyword{
		{Name: "Bullish", Value: 85},
		{Name: "Bearish", Value: 45},
		{Name: "Earnings", Value: 70},
		{Name: "Growth", Value: 65},
		{Name: "Inflation", Value: 50},
		{Name: "AI", Value: 95},
		{Name: "Volatile", Value: 30},
	}
	sort.SliceStable(keywords, func(i, j int) bool { return keywords[i].Value > keywords[j].Value })

	s.mu.Lock()
	defer s.mu.Unlock()

	days := []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
	heat := make([]HeatPoint, len(days))
	sentiments := make([]float64, len(days))
	for i, day := range days {
		heat[i] = HeatPoint{
			Day:       day,
			Volume:    int(s.unit.Rand()*500) + 100,
			Sentiment: utils.Round((s.unit.Rand()-0.3)*2, 4),
		}
		sentiments[i] = heat[i].Sentiment
	}

	return &SentimentOverview{
		Keywords:      keywords,
		Heat:          heat,
		MeanSentiment: utils.Round(stat.Mean(sentiments, nil), 4),
	}
}
