package analyst

import (
	"testing"

	"github.com/finsightapp/finsight/internal/models"
)

func floatPtr(v float64) *float64 { return &v }

func makeEvidence(n int) []models.Evidence {
	items := make([]models.Evidence, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, models.Evidence{
			ID:      i + 1,
			Title:   "Item",
			URL:     "https://example.com/a",
			Snippet: "text",
		})
	}
	return items
}

func TestBuildShortlistFullData(t *testing.T) {
	price := models.PriceQuote{
		Ticker:       "NVDA",
		CurrentPrice: floatPtr(120.5),
		Change1DPct:  floatPtr(2.5),
	}

	item := buildShortlist(models.RiskHigh, price, makeEvidence(5))

	// 50 base + 10 price + 15 news + 2.5 move + 5 high risk
	if item.Score != 83 {
		t.Errorf("expected score 83, got %d", item.Score)
	}
	if item.Ticker != "NVDA" {
		t.Errorf("expected ticker NVDA, got %q", item.Ticker)
	}
}

func TestBuildShortlistBreakdownSumsToScore(t *testing.T) {
	price := models.PriceQuote{
		Ticker:       "AAPL",
		CurrentPrice: floatPtr(200),
		Change1DPct:  floatPtr(-1.2),
	}

	item := buildShortlist(models.RiskLow, price, makeEvidence(2))

	sum := 0.0
	for _, c := range item.ScoreBreakdown {
		sum += c.Value
	}
	if int(sum+0.5) != item.Score && int(sum-0.5) != item.Score {
		// rounded sum must match the final score
		t.Errorf("breakdown sum %.2f inconsistent with score %d", sum, item.Score)
	}
}

func TestBuildShortlistMoveClamped(t *testing.T) {
	price := models.PriceQuote{
		Ticker:       "GME",
		CurrentPrice: floatPtr(30),
		Change1DPct:  floatPtr(42.0),
	}

	item := buildShortlist(models.RiskMedium, price, nil)

	for _, c := range item.ScoreBreakdown {
		if c.Label == "1D price move" && c.Value != 5 {
			t.Errorf("move adjustment should clamp to 5, got %.2f", c.Value)
		}
	}
	// 50 + 10 + 5
	if item.Score != 65 {
		t.Errorf("expected score 65, got %d", item.Score)
	}
}

func TestBuildShortlistPriceErrorSkipsMove(t *testing.T) {
	price := models.PriceQuote{
		Ticker:      "XYZ",
		Change1DPct: floatPtr(3.0),
		Error:       "No price data available for XYZ",
	}

	item := buildShortlist(models.RiskMedium, price, nil)

	for _, c := range item.ScoreBreakdown {
		if c.Label == "1D price move" {
			t.Error("move adjustment must not apply when the quote carries an error")
		}
	}
	// 50 - 10
	if item.Score != 40 {
		t.Errorf("expected score 40, got %d", item.Score)
	}
}

func TestBuildShortlistNewsCap(t *testing.T) {
	price := models.PriceQuote{Ticker: "MSFT", CurrentPrice: floatPtr(400)}

	item := buildShortlist("", price, makeEvidence(20))

	for _, c := range item.ScoreBreakdown {
		if c.Label == "News coverage" && c.Value != 15 {
			t.Errorf("news adjustment should cap at 15, got %.2f", c.Value)
		}
	}
}

func TestBuildShortlistBounds(t *testing.T) {
	worst := buildShortlist(models.RiskLow, models.PriceQuote{Error: "nope"}, nil)
	if worst.Score < 0 || worst.Score > 100 {
		t.Errorf("score out of range: %d", worst.Score)
	}

	best := buildShortlist(models.RiskHigh, models.PriceQuote{
		Ticker:       "AAA",
		CurrentPrice: floatPtr(1),
		Change1DPct:  floatPtr(99),
	}, makeEvidence(10))
	if best.Score < 0 || best.Score > 100 {
		t.Errorf("score out of range: %d", best.Score)
	}
}

func TestBuildShortlistUnknownTicker(t *testing.T) {
	item := buildShortlist(models.RiskMedium, models.PriceQuote{Error: "Ticker not detected"}, nil)
	if item.Ticker != "UNKNOWN" {
		t.Errorf("expected UNKNOWN ticker, got %q", item.Ticker)
	}
}

func TestBuildShortlistDeterministic(t *testing.T) {
	price := models.PriceQuote{Ticker: "AMZN", CurrentPrice: floatPtr(180), Change1DPct: floatPtr(0.7)}
	evidence := makeEvidence(3)

	first := buildShortlist(models.RiskMedium, price, evidence)
	for i := 0; i < 5; i++ {
		again := buildShortlist(models.RiskMedium, price, evidence)
		if again.Score != first.Score || len(again.ScoreBreakdown) != len(first.ScoreBreakdown) {
			t.Fatal("scoring not deterministic for identical input")
		}
	}
}
