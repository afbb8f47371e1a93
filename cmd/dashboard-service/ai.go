package main

import (
	"context"
	"fmt"

	"golang-quant-dashboard/internal/dashboard/config"
	"golang-quant-dashboard/internal/dashboard/repository"
	"golang-quant-dashboard/pkg/common"
	"golang-quant-dashboard/pkg/logger"
)

// newAIRepository builds the provider selected by ai.provider.
func newAIRepository(ctx context.Context, cfg *config.Config, appLogger *logger.Logger) (repository.AIRepository, error) {
	switch cfg.AI.Provider {
	case common.AIProviderGemini:
		genAiClient, err := repository.NewGeminiClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return repository.NewGeminiAIRepository(cfg, appLogger, genAiClient)
	case common.AIProviderOpenAI:
		return repository.NewOpenAIRepository(cfg, appLogger)
	default:
		return nil, fmt.Errorf("unknown ai provider %q", cfg.AI.Provider)
	}
}
