package telegram

import (
	"fmt"
	"strings"
	"time"
)

// MaxMessageLength keeps messages under Telegram's 4096 character limit.
const MaxMessageLength = 4090

// DigestHolding is one portfolio row in a digest message.
type DigestHolding struct {
	Ticker      string
	Name        string
	Quantity    int
	MarketValue float64
	Gain        float64
	GainPercent float64
	Prediction  string
	Listed      bool
}

// DigestTotals are the aggregate figures of a digest message.
type DigestTotals struct {
	TotalCost    float64
	CurrentValue float64
	Gain         float64
	GainPercent  float64
}

// FormatPortfolioDigest formats a portfolio digest into one or more Markdown messages,
// each no longer than MaxMessageLength.
func FormatPortfolioDigest(at time.Time, totals DigestTotals, holdings []DigestHolding) []string {
	var summary strings.Builder
	summary.WriteString(fmt.Sprintf("💼 *Total Cost:* $%.2f\n", totals.TotalCost))
	summary.WriteString(fmt.Sprintf("📊 *Current Value:* $%.2f\n", totals.CurrentValue))
	summary.WriteString(fmt.Sprintf("%s *Gain:* %s\n\n", trendIcon(totals.Gain), signedMoney(totals.Gain, totals.GainPercent)))

	if len(holdings) == 0 {
		return []string{digestHeader(at, 1) + summary.String() + "_No holdings in the portfolio yet._\n"}
	}

	var messages []string
	var current strings.Builder
	part := 1

	startNewPart := func() {
		current.Reset()
		current.WriteString(digestHeader(at, part))
	}

	startNewPart()
	current.WriteString(summary.String())

	for _, h := range holdings {
		entry := formatDigestHolding(h)
		if current.Len()+len(entry) > MaxMessageLength {
			messages = append(messages, current.String())
			part++
			startNewPart()
		}
		current.WriteString(entry)
	}
	messages = append(messages, current.String())
	return messages
}

func digestHeader(at time.Time, part int) string {
	if part == 1 {
		return fmt.Sprintf("📈 *Portfolio Digest* 📈\n_%s_\n\n", at.Format("2006-01-02 15:04 MST"))
	}
	return fmt.Sprintf("---*Portfolio Digest Part %d*---\n\n", part)
}

func formatDigestHolding(h DigestHolding) string {
	var b strings.Builder
	name := h.Name
	if !h.Listed {
		name = "not in catalog"
	}
	b.WriteString(fmt.Sprintf("%s *%s* (%s)\n", predictionIcon(h.Prediction), EscapeMarkdown(h.Ticker), EscapeMarkdown(name)))
	b.WriteString(fmt.Sprintf("  Qty: %d | Value: $%.2f\n", h.Quantity, h.MarketValue))
	b.WriteString(fmt.Sprintf("  %s %s\n\n", trendIcon(h.Gain), signedMoney(h.Gain, h.GainPercent)))
	return b.String()
}

func predictionIcon(prediction string) string {
	switch strings.ToLower(prediction) {
	case "buy":
		return "🟢"
	case "avoid":
		return "🔴"
	case "neutral":
		return "🟡"
	default:
		return "⚪"
	}
}

func trendIcon(v float64) string {
	if v < 0 {
		return "🔻"
	}
	return "🔺"
}

func signedMoney(amount, pct float64) string {
	if amount < 0 {
		return fmt.Sprintf("-$%.2f (%.2f%%)", -amount, pct)
	}
	return fmt.Sprintf("+$%.2f (+%.2f%%)", amount, pct)
}
