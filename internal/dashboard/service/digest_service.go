package service

import (
	"context"
	"fmt"
	"time"

	"golang-quant-dashboard/pkg/logger"
	"golang-quant-dashboard/pkg/telegram"
)

// DigestService sends a portfolio summary to the notifier.
type DigestService interface {
	Compose(ctx context.Context) []string
	Send(ctx context.Context) error
}

type digestService struct {
	portfolio PortfolioService
	notifier  telegram.Notifier
	now       func() time.Time
	logger    *logger.Logger
}

// NewDigestService creates a new digest service. A nil clock uses time.Now.
func NewDigestService(portfolio PortfolioService, notifier telegram.Notifier, now func() time.Time, logger *logger.Logger) DigestService {
	if now == nil {
		now = time.Now
	}
	return &digestService{portfolio: portfolio, notifier: notifier, now: now, logger: logger}
}

func (s *digestService) Compose(ctx context.Context) []string {
	stats := s.portfolio.Stats(ctx)
	holdings := s.portfolio.Holdings(ctx)

	rows := make([]telegram.DigestHolding, len(holdings))
	for i, h := range holdings {
		rows[i] = telegram.DigestHolding{
			Ticker:      h.Ticker,
			Name:        h.Name,
			Quantity:    h.Quantity,
			MarketValue: h.MarketValue,
			Gain:        h.Gain,
			GainPercent: h.GainPercent,
			Prediction:  string(h.Prediction),
			Listed:      h.Listed,
		}
	}
	totals := telegram.DigestTotals{
		TotalCost:    stats.TotalCost,
		CurrentValue: stats.CurrentValue,
		Gain:         stats.Gain,
		GainPercent:  stats.GainPercent,
	}
	return telegram.FormatPortfolioDigest(s.now(), totals, rows)
}

// Send delivers every part of the digest, stopping at the first failure.
func (s *digestService) Send(ctx context.Context) error {
	messages := s.Compose(ctx)
	for i, msg := range messages {
		if err := s.notifier.SendMessage(msg); err != nil {
			s.logger.ErrorContext(ctx, "Failed to send portfolio digest", logger.ErrorField(err), logger.IntField("part", i+1))
			return fmt.Errorf("failed to send digest part %d: %w", i+1, err)
		}
	}
	s.logger.InfoContext(ctx, "Portfolio digest sent", logger.IntField("parts", len(messages)))
	return nil
}
