package repository

import (
	"context"
	"errors"
	"fmt"
)

// ErrAIUnavailable is returned when no text-generation provider could be set up.
var ErrAIUnavailable = errors.New("ai provider unavailable")

// GenerationOptions carries the sampling parameters of a text-generation request.
// Nil fields leave the provider default in place.
type GenerationOptions struct {
	Temperature *float32
	TopP        *float32
}

// AIRepository sends a prompt to a text-generation provider and returns its text.
type AIRepository interface {
	GenerateText(ctx context.Context, prompt string, opts GenerationOptions) (string, error)
}

type unavailableAIRepository struct {
	reason error
}

// NewUnavailableAIRepository returns a repository that fails every request, so
// callers fall back to their static texts.
func NewUnavailableAIRepository(reason error) AIRepository {
	return &unavailableAIRepository{reason: reason}
}

func (r *unavailableAIRepository) GenerateText(ctx context.Context, prompt string, opts GenerationOptions) (string, error) {
	if r.reason == nil {
		return "", ErrAIUnavailable
	}
	return "", fmt.Errorf("%w: %v", ErrAIUnavailable, r.reason)
}
