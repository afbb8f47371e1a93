package service

import (
	"math/rand/v2"
	"sync"
	"time"

	"golang-quant-dashboard/internal/entity"
	"golang-quant-dashboard/pkg/utils"

	"github.com/markcheno/go-talib"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	// SeriesLength is the number of daily points in a generated series: today and 30 days back.
	SeriesLength = 31

	walkBias       = 0.48
	walkScale      = 0.03
	volumeMin      = 500000
	volumeSpan     = 1000000
	newsScale      = 0.8
	socialScale    = 1.2
	oscillatorMin  = 30
	oscillatorSpan = 40
	summaryRSIDays = 14
)

// SeriesGenerator produces illustrative daily price and sentiment series.
type SeriesGenerator interface {
	Generate(basePrice, sentimentSeed float64) []entity.StockDataPoint
}

// SeriesOption configures a SeriesGenerator.
type SeriesOption func(*seriesGenerator)

// WithRandSource makes the generator draw from src, which makes output reproducible.
func WithRandSource(src rand.Source) SeriesOption {
	return func(g *seriesGenerator) {
		g.unit.Src = src
	}
}

// WithClock sets the clock that decides which day is "today".
func WithClock(now func() time.Time) SeriesOption {
	return func(g *seriesGenerator) {
		g.now = now
	}
}

type seriesGenerator struct {
	mu   sync.Mutex
	unit distuv.Uniform
	now  func() time.Time
}

// NewSeriesGenerator creates a generator. Without options it is unseeded and uses the local clock.
func NewSeriesGenerator(opts ...SeriesOption) SeriesGenerator {
	g := &seriesGenerator{
		unit: distuv.Uniform{Min: 0, Max: 1},
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate walks the price from basePrice over 31 days ending today, oldest first.
// The walk keeps full precision; only the emitted close is rounded.
func (g *seriesGenerator) Generate(basePrice, sentimentSeed float64) []entity.StockDataPoint {
	g.mu.Lock()
	defer g.mu.Unlock()

	today := utils.StartOfDay(g.now())
	points := make([]entity.StockDataPoint, 0, SeriesLength)
	price := basePrice

	for i := SeriesLength - 1; i >= 0; i-- {
		price += (g.unit.Rand() - walkBias) * basePrice * walkScale

		points = append(points, entity.StockDataPoint{
			Date:            today.AddDate(0, 0, -i).Format(utils.DateLayout),
			Close:           utils.Round(price, 2),
			Volume:          int64(g.unit.Rand()*volumeSpan) + volumeMin,
			Sentiment:       utils.Round(g.unit.Rand()*sentimentSeed, 2),
			NewsSentiment:   utils.Round(g.unit.Rand()*sentimentSeed*newsScale, 2),
			SocialSentiment: utils.Round(g.unit.Rand()*sentimentSeed*socialScale, 2),
			RSI:             oscillatorMin + g.unit.Rand()*oscillatorSpan,
			MACD:            (g.unit.Rand() - 0.5) * 2,
		})
	}
	return points
}

// SeriesSummary holds descriptive statistics of a generated series.
type SeriesSummary struct {
	Points        int      `json:"points"`
	From          string   `json:"from,omitempty"`
	To            string   `json:"to,omitempty"`
	MinClose      float64  `json:"min_close"`
	MaxClose      float64  `json:"max_close"`
	MeanClose     float64  `json:"mean_close"`
	StdDevClose   float64  `json:"std_dev_close"`
	PeriodChange  float64  `json:"period_change_pct"`
	MeanSentiment float64  `json:"mean_sentiment"`
	TotalVolume   int64    `json:"total_volume"`
	RSI14         *float64 `json:"rsi_14,omitempty"`
}

// Summarize computes statistics over points. An empty series yields a zero summary.
func Summarize(points []entity.StockDataPoint) SeriesSummary {
	if len(points) == 0 {
		return SeriesSummary{}
	}

	closes := make([]float64, len(points))
	sentiments := make([]float64, len(points))
	var volume int64
	for i, p := range points {
		closes[i] = p.Close
		sentiments[i] = p.Sentiment
		volume += p.Volume
	}

	summary := SeriesSummary{
		Points:        len(points),
		From:          points[0].Date,
		To:            points[len(points)-1].Date,
		MinClose:      floats.Min(closes),
		MaxClose:      floats.Max(closes),
		MeanClose:     utils.Round(stat.Mean(closes, nil), 2),
		MeanSentiment: utils.Round(stat.Mean(sentiments, nil), 4),
		TotalVolume:   volume,
	}
	if len(closes) > 1 {
		summary.StdDevClose = utils.Round(stat.StdDev(closes, nil), 4)
	}
	if first := closes[0]; first != 0 {
		summary.PeriodChange = utils.Round((closes[len(closes)-1]-first)/first*100, 2)
	}
	if len(closes) > summaryRSIDays {
		rsi := talib.Rsi(closes, summaryRSIDays)
		last := rsi[len(rsi)-1]
		if last == last {
			summary.RSI14 = utils.ToPointer(utils.Round(last, 2))
		}
	}
	return summary
}
