package repository

import (
	"fmt"

	"golang-quant-dashboard/internal/entity"
)

// BuildFinancialInsightPrompt asks for a two-sentence outlook on a catalog stock.
func BuildFinancialInsightPrompt(ticker string, sentiment float64, prediction entity.Prediction) string {
	return fmt.Sprintf(`As a senior quantitative financial analyst, provide a short 2-sentence market outlook for %s.
The current sentiment score is %.2f and our model suggests a "%s" action.
Keep it professional, data-driven, and concise.`, ticker, sentiment, prediction)
}

// BuildEducationalPrompt asks for a beginner-friendly explanation of a quant topic.
func BuildEducationalPrompt(topic string) string {
	return fmt.Sprintf(`Explain the concept of "%s" in the context of quantitative trading.
Keep the explanation beginner-friendly but technically accurate.
Use Markdown formatting. Maximum 150 words.`, topic)
}

// BuildStockAnalysisPrompt asks for a detailed markdown report on an arbitrary ticker.
func BuildStockAnalysisPrompt(ticker string) string {
	return fmt.Sprintf(`Provide a detailed quantitative analysis for the stock ticker "%s".
Cover the business overview, recent market sentiment, key technical levels, main risks, and a short outlook.
If the ticker is unknown or not publicly traded, say so briefly.
Use Markdown formatting with short sections. Maximum 300 words.`, ticker)
}
