package analyst

import (
	"math"

	"github.com/finsightapp/finsight/internal/models"
)

// buildShortlist applies the deterministic scoring model: a base of 50
// adjusted for price-data availability, news coverage, the clamped 1-day
// move, and the risk profile. Every adjustment is recorded in the breakdown
// in application order; the final score is rounded and clamped to [0,100].
func buildShortlist(riskLevel string, price models.PriceQuote, evidence []models.Evidence) models.ShortlistItem {
	ticker := price.Ticker
	if ticker == "" {
		ticker = "UNKNOWN"
	}

	score := 50.0
	breakdown := []models.ScoreComponent{{Label: "Base", Value: 50}}

	if price.Error != "" {
		score -= 10
		breakdown = append(breakdown, models.ScoreComponent{Label: "Price data missing", Value: -10})
	} else {
		score += 10
		breakdown = append(breakdown, models.ScoreComponent{Label: "Price data available", Value: 10})
	}

	newsCount := 0
	for _, ev := range evidence {
		if ev.URL != "" || ev.Snippet != "" {
			newsCount++
		}
	}
	newsPoints := math.Min(float64(newsCount*3), 15)
	if newsPoints > 0 {
		score += newsPoints
		breakdown = append(breakdown, models.ScoreComponent{Label: "News coverage", Value: newsPoints})
	}

	if price.Error == "" && price.Change1DPct != nil {
		move := math.Max(math.Min(*price.Change1DPct, 5), -5)
		if move != 0 {
			move = math.Round(move*100) / 100
			score += move
			breakdown = append(breakdown, models.ScoreComponent{Label: "1D price move", Value: move})
		}
	}

	switch riskLevel {
	case models.RiskLow:
		score -= 5
		breakdown = append(breakdown, models.ScoreComponent{Label: "Low risk profile", Value: -5})
	case models.RiskHigh:
		score += 5
		breakdown = append(breakdown, models.ScoreComponent{Label: "High risk profile", Value: 5})
	}

	final := int(math.Round(score))
	if final < 0 {
		final = 0
	}
	if final > 100 {
		final = 100
	}

	return models.ShortlistItem{
		Ticker:         ticker,
		Score:          final,
		ScoreBreakdown: breakdown,
		Pros:           []string{"Recent news reviewed"},
		Cons:           []string{"Heuristic scoring model"},
		Risks:          []string{"Market volatility"},
		EvidenceRefs:   []string{"evidence", "price_data"},
	}
}
