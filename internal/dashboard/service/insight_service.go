package service

import (
	"context"

	"golang-quant-dashboard/internal/dashboard/config"
	"golang-quant-dashboard/internal/dashboard/repository"
	"golang-quant-dashboard/internal/entity"
	"golang-quant-dashboard/pkg/logger"
	"golang-quant-dashboard/pkg/utils"
)

const (
	// InsightPlaceholder is shown while an insight request is in flight.
	InsightPlaceholder = "Loading AI analysis..."

	FallbackFinancialInsight   = "Market insights currently unavailable. Please check back later."
	FallbackEducationalContent = "Content could not be loaded."
	FallbackStockAnalysis      = "Detailed analysis for this stock is currently unavailable."
)

// InsightService turns structured inputs into narrative text. Its methods never fail:
// a provider error is logged and replaced by a fixed fallback text.
type InsightService interface {
	FinancialInsight(ctx context.Context, ticker string, sentiment float64, prediction entity.Prediction) string
	EducationalContent(ctx context.Context, topic string) string
	StockAnalysis(ctx context.Context, ticker string) string
}

type insightService struct {
	aiRepo    repository.AIRepository
	insight   repository.GenerationOptions
	education repository.GenerationOptions
	logger    *logger.Logger
}

// NewInsightService creates a new insight service.
func NewInsightService(aiRepo repository.AIRepository, cfg config.Gemini, logger *logger.Logger) InsightService {
	return &insightService{
		aiRepo: aiRepo,
		insight: repository.GenerationOptions{
			Temperature: utils.ToPointer(cfg.Temperature),
			TopP:        utils.ToPointer(cfg.TopP),
		},
		education: repository.GenerationOptions{
			Temperature: utils.ToPointer(cfg.EducationTemperature),
		},
		logger: logger,
	}
}

func (s *insightService) FinancialInsight(ctx context.Context, ticker string, sentiment float64, prediction entity.Prediction) string {
	prompt := repository.BuildFinancialInsightPrompt(ticker, sentiment, prediction)
	text, err := s.aiRepo.GenerateText(ctx, prompt, s.insight)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to generate financial insight", logger.ErrorField(err), logger.StringField("ticker", ticker))
		return FallbackFinancialInsight
	}
	return text
}

func (s *insightService) EducationalContent(ctx context.Context, topic string) string {
	prompt := repository.BuildEducationalPrompt(topic)
	text, err := s.aiRepo.GenerateText(ctx, prompt, s.education)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to generate educational content", logger.ErrorField(err), logger.StringField("topic", topic))
		return FallbackEducationalContent
	}
	return text
}

func (s *insightService) StockAnalysis(ctx context.Context, ticker string) string {
	prompt := repository.BuildStockAnalysisPrompt(ticker)
	text, err := s.aiRepo.GenerateText(ctx, prompt, s.insight)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to generate stock analysis", logger.ErrorField(err), logger.StringField("ticker", ticker))
		return FallbackStockAnalysis
	}
	return text
}
