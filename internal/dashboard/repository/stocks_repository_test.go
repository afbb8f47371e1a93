package repository

import (
	"context"
	"testing"

	"golang-quant-dashboard/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStocksRepository_Catalog(t *testing.T) {
	repo := NewStocksRepository()
	ctx := context.Background()

	stocks, err := repo.GetStocks(ctx)
	require.NoError(t, err)
	require.Len(t, stocks, 6)
	assert.Equal(t, "NVDA", repo.Default().Ticker)

	nvda, err := repo.FindByTicker(ctx, " nvda ")
	require.NoError(t, err)
	assert.Equal(t, 128.45, nvda.Price)
	assert.Equal(t, entity.PredictionBuy, nvda.Prediction)

	_, err = repo.FindByTicker(ctx, "ZZZZ")
	assert.ErrorIs(t, err, ErrStockNotFound)
}

func TestStocksRepository_ReturnsCopies(t *testing.T) {
	repo := NewStocksRepository()
	ctx := context.Background()

	stocks, _ := repo.GetStocks(ctx)
	stocks[0].Price = 1

	nvda, err := repo.FindByTicker(ctx, "NVDA")
	require.NoError(t, err)
	assert.Equal(t, 128.45, nvda.Price)
}

func TestStaticStocksRepository_EmptyDefault(t *testing.T) {
	repo := NewStaticStocksRepository(nil)
	assert.Equal(t, entity.StockInfo{}, repo.Default())
}
