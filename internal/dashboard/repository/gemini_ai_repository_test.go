package repository

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"golang-quant-dashboard/internal/dashboard/config"
	"golang-quant-dashboard/pkg/logger"
	"golang-quant-dashboard/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	mu   sync.Mutex
	path string
	body map[string]interface{}
}

func newGeminiServer(t *testing.T, status int, reply string) (*httptest.Server, *capturedRequest) {
	t.Helper()
	captured := &capturedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		captured.mu.Lock()
		captured.path = r.URL.Path
		_ = json.Unmarshal(raw, &captured.body)
		captured.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, reply)
	}))
	t.Cleanup(srv.Close)
	return srv, captured
}

func newTestGeminiRepository(t *testing.T, baseURL string) AIRepository {
	t.Helper()
	cfg := &config.Config{Gemini: config.Gemini{APIKey: "test-key", BaseURL: baseURL + "/", Model: "gemini-test"}}

	client, err := NewGeminiClient(context.Background(), cfg)
	require.NoError(t, err)

	repo, err := NewGeminiAIRepository(cfg, logger.NewNop(), client)
	require.NoError(t, err)
	return repo
}

func TestGeminiAIRepository_GenerateText(t *testing.T) {
	srv, captured := newGeminiServer(t, http.StatusOK,
		`{"candidates":[{"content":{"role":"model","parts":[{"text":"NVDA looks **strong**."}]}}]}`)
	repo := newTestGeminiRepository(t, srv.URL)

	text, err := repo.GenerateText(context.Background(), "outlook for NVDA", GenerationOptions{
		Temperature: utils.ToPointer(float32(0.7)),
		TopP:        utils.ToPointer(float32(0.8)),
	})
	require.NoError(t, err)
	assert.Equal(t, "NVDA looks **strong**.", text)

	captured.mu.Lock()
	defer captured.mu.Unlock()
	assert.True(t, strings.HasSuffix(captured.path, "gemini-test:generateContent"), captured.path)
	genCfg, ok := captured.body["generationConfig"].(map[string]interface{})
	require.True(t, ok, "generationConfig missing from request body")
	assert.InDelta(t, 0.7, genCfg["temperature"], 1e-6)
	assert.InDelta(t, 0.8, genCfg["topP"], 1e-6)
}

func TestGeminiAIRepository_ServerError(t *testing.T) {
	srv, _ := newGeminiServer(t, http.StatusInternalServerError, `{"error":{"code":500,"message":"boom","status":"INTERNAL"}}`)
	repo := newTestGeminiRepository(t, srv.URL)

	_, err := repo.GenerateText(context.Background(), "prompt", GenerationOptions{})
	assert.Error(t, err)
}

func TestGeminiAIRepository_EmptyText(t *testing.T) {
	srv, _ := newGeminiServer(t, http.StatusOK, `{"candidates":[{"content":{"role":"model","parts":[{"text":"  "}]}}]}`)
	repo := newTestGeminiRepository(t, srv.URL)

	_, err := repo.GenerateText(context.Background(), "prompt", GenerationOptions{})
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestNewGeminiAIRepository_Validation(t *testing.T) {
	_, err := NewGeminiAIRepository(&config.Config{}, logger.NewNop(), nil)
	assert.Error(t, err)
}

func TestUnavailableAIRepository(t *testing.T) {
	repo := NewUnavailableAIRepository(assert.AnError)
	_, err := repo.GenerateText(context.Background(), "prompt", GenerationOptions{})
	assert.ErrorIs(t, err, ErrAIUnavailable)
	assert.ErrorContains(t, err, assert.AnError.Error())

	_, err = NewUnavailableAIRepository(nil).GenerateText(context.Background(), "prompt", GenerationOptions{})
	assert.Equal(t, ErrAIUnavailable, err)
}
