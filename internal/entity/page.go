package entity

import (
	"errors"
	"strings"
)

// ErrInvalidPage is returned when a page identifier is not one of the known views.
var ErrInvalidPage = errors.New("invalid page")

// Page identifies a dashboard view.
type Page string

const (
	PageDashboard         Page = "dashboard"
	PageStockAnalysis     Page = "stock-analysis"
	PageModelComparison   Page = "model-comparison"
	PageBacktesting       Page = "backtesting"
	PageSentimentExplorer Page = "sentiment-explorer"
	PagePredictionCenter  Page = "prediction-center"
	PageEducation         Page = "education"
	PagePortfolio         Page = "portfolio"
	PagePipeline          Page = "pipeline"
	PageProfile           Page = "profile"
	PageSecurity          Page = "security"
	PageSettings          Page = "settings"
)

// Pages lists every view in navigation order.
var Pages = []Page{
	PageDashboard,
	PagePortfolio,
	PageStockAnalysis,
	PageModelComparison,
	PageBacktesting,
	PageSentimentExplorer,
	PagePredictionCenter,
	PagePipeline,
	PageEducation,
	PageProfile,
	PageSecurity,
	PageSettings,
}

// ParsePage validates a page identifier.
func ParsePage(s string) (Page, error) {
	p := Page(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Pages {
		if p == known {
			return p, nil
		}
	}
	return "", ErrInvalidPage
}
