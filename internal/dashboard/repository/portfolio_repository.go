package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"golang-quant-dashboard/internal/entity"
)

// ErrCorruptPortfolio is returned when the stored portfolio cannot be decoded.
var ErrCorruptPortfolio = errors.New("stored portfolio is corrupt")

// PortfolioRepository loads and saves the whole holdings collection.
type PortfolioRepository interface {
	Load(ctx context.Context) ([]entity.PortfolioItem, error)
	Save(ctx context.Context, items []entity.PortfolioItem) error
}

type portfolioRepository struct {
	store KeyValueStore
	key   string
}

// NewPortfolioRepository keeps the portfolio as a JSON array under a single key.
func NewPortfolioRepository(store KeyValueStore, key string) PortfolioRepository {
	return &portfolioRepository{store: store, key: key}
}

func (r *portfolioRepository) Load(ctx context.Context) ([]entity.PortfolioItem, error) {
	data, err := r.store.Get(ctx, r.key)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return []entity.PortfolioItem{}, nil
		}
		return nil, fmt.Errorf("failed to load portfolio: %w", err)
	}

	var items []entity.PortfolioItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptPortfolio, err)
	}
	if items == nil {
		items = []entity.PortfolioItem{}
	}
	return items, nil
}

func (r *portfolioRepository) Save(ctx context.Context, items []entity.PortfolioItem) error {
	if items == nil {
		items = []entity.PortfolioItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode portfolio: %w", err)
	}
	if err := r.store.Put(ctx, r.key, data); err != nil {
		return fmt.Errorf("failed to save portfolio: %w", err)
	}
	return nil
}
