// Package interfaces defines service contracts for FinSight
package interfaces

import (
	"context"

	"github.com/finsightapp/finsight/internal/models"
)

// CompletionClient provides access to the external completion service.
// Implementations must be safe for concurrent use and carry no per-request
// mutable state.
type CompletionClient interface {
	// Complete generates a completion for a prompt
	Complete(ctx context.Context, prompt string) (string, error)
}

// SearchClient provides access to the external search provider.
type SearchClient interface {
	// Search runs a web search and returns up to maxResults raw results
	Search(ctx context.Context, query string, maxResults int) ([]models.RawSearchResult, error)
}

// MarketDataClient provides access to the primary market-data provider.
// Any method may return partial data; callers fall through the quote chain.
type MarketDataClient interface {
	// FastQuote retrieves the real-time quote fields
	FastQuote(ctx context.Context, ticker string) (*models.FastQuote, error)

	// Info retrieves the general info record for a ticker
	Info(ctx context.Context, ticker string) (*models.TickerInfo, error)

	// History retrieves daily closes for the last n days
	History(ctx context.Context, ticker string, days int) ([]models.HistoryBar, error)

	// QuarterlyEarnings retrieves the quarterly earnings series, oldest first
	QuarterlyEarnings(ctx context.Context, ticker string) ([]models.QuarterlyEarning, error)

	// SearchSymbols resolves a free-text company query to tradable symbols
	SearchSymbols(ctx context.Context, query string) ([]models.SymbolMatch, error)
}

// QuoteFallbackClient is the secondary HTTP quote endpoint used when the
// primary provider yields no usable price.
type QuoteFallbackClient interface {
	// Quote retrieves a single consolidated quote record
	Quote(ctx context.Context, ticker string) (*models.PriceQuote, error)
}
