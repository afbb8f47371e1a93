package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang-quant-dashboard/internal/dashboard/config"
	"golang-quant-dashboard/pkg/logger"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// ErrEmptyResponse is returned when the provider answers without any text.
var ErrEmptyResponse = errors.New("empty response from text-generation provider")

// geminiAIRepository is an implementation of AIRepository that uses the Google Gemini API.
type geminiAIRepository struct {
	cfg            *config.Config
	logger         *logger.Logger
	requestLimiter *rate.Limiter
	genAiClient    *genai.Client
}

// NewGeminiAIRepository creates a new instance of geminiAIRepository.
// Requests are only throttled when gemini.max_request_per_minute is positive.
func NewGeminiAIRepository(cfg *config.Config, log *logger.Logger, genAiClient *genai.Client) (AIRepository, error) {
	if genAiClient == nil {
		return nil, fmt.Errorf("gemini client is required")
	}
	if cfg.Gemini.Model == "" {
		return nil, fmt.Errorf("gemini model is required")
	}

	var requestLimiter *rate.Limiter
	if cfg.Gemini.MaxRequestPerMinute > 0 {
		secondsPerRequest := time.Minute / time.Duration(cfg.Gemini.MaxRequestPerMinute)
		requestLimiter = rate.NewLimiter(rate.Every(secondsPerRequest), 1)
	}

	return &geminiAIRepository{
		cfg:            cfg,
		logger:         log,
		requestLimiter: requestLimiter,
		genAiClient:    genAiClient,
	}, nil
}

// NewGeminiClient builds the genai client from configuration.
func NewGeminiClient(ctx context.Context, cfg *config.Config) (*genai.Client, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.Gemini.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.Gemini.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.Gemini.BaseURL}
	}
	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return client, nil
}

// GenerateText sends a single prompt to the configured Gemini model.
func (r *geminiAIRepository) GenerateText(ctx context.Context, prompt string, opts GenerationOptions) (string, error) {
	if r.requestLimiter != nil {
		if err := r.requestLimiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("failed to wait for request limit: %w", err)
		}
	}

	genCfg := &genai.GenerateContentConfig{
		Temperature: opts.Temperature,
		TopP:        opts.TopP,
	}

	r.logger.DebugContext(ctx, "Request Gemini API",
		logger.StringField("model", r.cfg.Gemini.Model),
		logger.IntField("prompt_length", len(prompt)),
	)

	resp, err := r.genAiClient.Models.GenerateContent(ctx, r.cfg.Gemini.Model, genai.Text(prompt), genCfg)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
