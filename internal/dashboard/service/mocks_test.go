package service

import (
	"context"
	"sync"

	"golang-quant-dashboard/internal/dashboard/repository"
	"golang-quant-dashboard/internal/entity"

	"github.com/stretchr/testify/mock"
)

type mockAIRepository struct {
	mock.Mock
}

func (m *mockAIRepository) GenerateText(ctx context.Context, prompt string, opts repository.GenerationOptions) (string, error) {
	args := m.Called(ctx, prompt, opts)
	return args.String(0), args.Error(1)
}

type mockInsightService struct {
	mock.Mock
}

func (m *mockInsightService) FinancialInsight(ctx context.Context, ticker string, sentiment float64, prediction entity.Prediction) string {
	return m.Called(ticker, sentiment, prediction).String(0)
}

func (m *mockInsightService) EducationalContent(ctx context.Context, topic string) string {
	return m.Called(topic).String(0)
}

func (m *mockInsightService) StockAnalysis(ctx context.Context, ticker string) string {
	return m.Called(ticker).String(0)
}

type mockPortfolioRepository struct {
	mock.Mock
}

func (m *mockPortfolioRepository) Load(ctx context.Context) ([]entity.PortfolioItem, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]entity.PortfolioItem)
	return items, args.Error(1)
}

func (m *mockPortfolioRepository) Save(ctx context.Context, items []entity.PortfolioItem) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}

// gatedInsights is an InsightService whose calls block until the test releases them,
// so tests can decide the order in which concurrent requests resolve.
type gatedInsights struct {
	mu      sync.Mutex
	gates   map[string]chan string
	started chan string
}

func newGatedInsights() *gatedInsights {
	return &gatedInsights{gates: map[string]chan string{}, started: make(chan string, 16)}
}

func (g *gatedInsights) gate(key string) chan string {
	g.mu.Lock()
	defer g.mu.Unlock()
	ch, ok := g.gates[key]
	if !ok {
		ch = make(chan string, 1)
		g.gates[key] = ch
	}
	return ch
}

func (g *gatedInsights) wait(key string) string {
	ch := g.gate(key)
	g.started <- key
	return <-ch
}

// release resolves the pending call for key with text.
func (g *gatedInsights) release(key, text string) {
	g.gate(key) <- text
}

func (g *gatedInsights) FinancialInsight(ctx context.Context, ticker string, sentiment float64, prediction entity.Prediction) string {
	return g.wait("insight:" + ticker)
}

func (g *gatedInsights) EducationalContent(ctx context.Context, topic string) string {
	return g.wait("education:" + topic)
}

func (g *gatedInsights) StockAnalysis(ctx context.Context, ticker string) string {
	return g.wait("analysis:" + ticker)
}
