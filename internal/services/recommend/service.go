// Package recommend ranks a static instrument catalog against a user profile.
package recommend

import (
	"fmt"
	"sort"

	"github.com/finsightapp/finsight/internal/common"
	"github.com/finsightapp/finsight/internal/interfaces"
	"github.com/finsightapp/finsight/internal/models"
)

const perMarketLimit = 6

// instrument is one catalog entry with its profile affinities.
type instrument struct {
	Ticker   string
	Name     string
	Market   string
	Risk     string
	Horizons []string
}

// catalog is the static instrument universe. US large caps and TSX names,
// tagged with the risk band and horizons they suit.
var catalog = []instrument{
	{Ticker: "AAPL", Name: "Apple Inc.", Market: "US", Risk: models.RiskLow, Horizons: []string{"6m", "1y", "3y"}},
	{Ticker: "MSFT", Name: "Microsoft Corporation", Market: "US", Risk: models.RiskLow, Horizons: []string{"6m", "1y", "3y"}},
	{Ticker: "NVDA", Name: "NVIDIA Corporation", Market: "US", Risk: models.RiskHigh, Horizons: []string{"6m", "1y"}},
	{Ticker: "AMZN", Name: "Amazon.com Inc.", Market: "US", Risk: models.RiskMedium, Horizons: []string{"1y", "3y"}},
	{Ticker: "META", Name: "Meta Platforms Inc.", Market: "US", Risk: models.RiskMedium, Horizons: []string{"6m", "1y"}},
	{Ticker: "GOOGL", Name: "Alphabet Inc.", Market: "US", Risk: models.RiskMedium, Horizons: []string{"1y", "3y"}},
	{Ticker: "AVGO", Name: "Broadcom Inc.", Market: "US", Risk: models.RiskMedium, Horizons: []string{"6m", "1y"}},
	{Ticker: "LLY", Name: "Eli Lilly and Company", Market: "US", Risk: models.RiskMedium, Horizons: []string{"1y", "3y"}},
	{Ticker: "JPM", Name: "JPMorgan Chase & Co.", Market: "US", Risk: models.RiskLow, Horizons: []string{"6m", "1y", "3y"}},
	{Ticker: "COST", Name: "Costco Wholesale Corporation", Market: "US", Risk: models.RiskLow, Horizons: []string{"1y", "3y"}},
	{Ticker: "SHOP.TO", Name: "Shopify Inc.", Market: "CA", Risk: models.RiskHigh, Horizons: []string{"6m", "1y"}},
	{Ticker: "CSU.TO", Name: "Constellation Software Inc.", Market: "CA", Risk: models.RiskMedium, Horizons: []string{"1y", "3y"}},
	{Ticker: "LSPD.TO", Name: "Lightspeed Commerce Inc.", Market: "CA", Risk: models.RiskHigh, Horizons: []string{"6m"}},
	{Ticker: "NTR.TO", Name: "Nutrien Ltd.", Market: "CA", Risk: models.RiskMedium, Horizons: []string{"1y", "3y"}},
	{Ticker: "CP.TO", Name: "Canadian Pacific Kansas City Limited", Market: "CA", Risk: models.RiskLow, Horizons: []string{"1y", "3y"}},
	{Ticker: "BAM", Name: "Brookfield Asset Management Ltd.", Market: "US", Risk: models.RiskMedium, Horizons: []string{"1y", "3y"}},
	{Ticker: "ENB.TO", Name: "Enbridge Inc.", Market: "CA", Risk: models.RiskLow, Horizons: []string{"6m", "1y", "3y"}},
	{Ticker: "SHOP", Name: "Shopify Inc. (US listing)", Market: "US", Risk: models.RiskHigh, Horizons: []string{"6m", "1y"}},
}

// Service scores the catalog deterministically for a profile. Stateless and
// safe for concurrent use.
type Service struct {
	logger *common.Logger
}

var _ interfaces.RecommendService = (*Service)(nil)

// NewService creates the recommendation service.
func NewService(logger *common.Logger) *Service {
	if logger == nil {
		logger = common.NewDefaultLogger()
	}
	return &Service{logger: logger}
}

// scoreInstrument applies the affinity model: +3 for an exact risk-band
// match, +2 when the horizon is one the instrument suits, +1 when a
// high-risk profile meets a medium-risk name.
func scoreInstrument(inst instrument, profile models.UserProfile) int {
	score := 0
	if inst.Risk == profile.RiskLevel {
		score += 3
	}
	for _, h := range inst.Horizons {
		if h == profile.Horizon {
			score += 2
			break
		}
	}
	if profile.RiskLevel == models.RiskHigh && inst.Risk == models.RiskMedium {
		score++
	}
	return score
}

// Recommend returns the top catalog entries per market for a profile, ranked
// by affinity with ties broken by catalog order.
func (s *Service) Recommend(profile models.UserProfile) models.RecommendationsResponse {
	type ranked struct {
		inst  instrument
		score int
		order int
	}

	byMarket := make(map[string][]ranked)
	var markets []string
	for i, inst := range catalog {
		if _, seen := byMarket[inst.Market]; !seen {
			markets = append(markets, inst.Market)
		}
		byMarket[inst.Market] = append(byMarket[inst.Market], ranked{
			inst:  inst,
			score: scoreInstrument(inst, profile),
			order: i,
		})
	}

	var items []models.RecommendationItem
	for _, market := range markets {
		entries := byMarket[market]
		sort.SliceStable(entries, func(a, b int) bool {
			if entries[a].score != entries[b].score {
				return entries[a].score > entries[b].score
			}
			return entries[a].order < entries[b].order
		})
		limit := perMarketLimit
		if len(entries) < limit {
			limit = len(entries)
		}
		for _, entry := range entries[:limit] {
			items = append(items, models.RecommendationItem{
				Ticker: entry.inst.Ticker,
				Name:   entry.inst.Name,
				Market: entry.inst.Market,
				Rationale: fmt.Sprintf("Aligned with %s risk and %s horizon.",
					profile.RiskLevel, profile.Horizon),
			})
		}
	}

	s.logger.Debug().Int("count", len(items)).Str("risk", profile.RiskLevel).Msg("Recommendations built")
	return models.RecommendationsResponse{Items: items}
}
