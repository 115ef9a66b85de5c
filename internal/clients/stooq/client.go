// Package stooq provides a client for the Stooq CSV quote endpoint
package stooq

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/finsightapp/finsight/internal/common"
	"github.com/finsightapp/finsight/internal/interfaces"
	"github.com/finsightapp/finsight/internal/models"
)

const (
	DefaultBaseURL = "https://stooq.com"
	DefaultTimeout = 10 * time.Second
)

// Client implements the QuoteFallbackClient interface
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *common.Logger
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new Stooq quote client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Quote retrieves a single consolidated quote record. Tickers without an
// exchange suffix are assumed to be US listings.
func (c *Client) Quote(ctx context.Context, ticker string) (*models.PriceQuote, error) {
	symbol := strings.ToLower(strings.TrimSpace(ticker))
	if !strings.Contains(symbol, ".") {
		symbol += ".us"
	}

	params := url.Values{}
	params.Set("s", symbol)
	params.Set("f", "snd2t2ohlcv")
	params.Set("e", "csv")
	endpoint := fmt.Sprintf("%s/q/l/?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	c.logger.Debug().Str("ticker", ticker).Str("symbol", symbol).Msg("Fetching Stooq quote")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("quote request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("stooq returned status %d", resp.StatusCode)
	}

	records, err := csv.NewReader(resp.Body).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse quote CSV: %w", err)
	}
	// Header row plus one data row: Symbol,Name,Date,Time,Open,High,Low,Close,Volume
	if len(records) < 2 || len(records[1]) < 9 {
		return nil, fmt.Errorf("unexpected quote CSV shape for %s", ticker)
	}

	row := records[1]
	closePrice, err := parsePrice(row[7])
	if err != nil {
		return nil, fmt.Errorf("no usable close for %s", ticker)
	}

	quote := &models.PriceQuote{
		Ticker:       strings.ToUpper(ticker),
		CompanyName:  row[1],
		CurrentPrice: &closePrice,
		Source:       "stooq",
	}
	if strings.HasSuffix(symbol, ".us") {
		quote.Currency = "USD"
	}

	// Intraday move relative to the open; prior close is not in this feed.
	if openPrice, err := parsePrice(row[4]); err == nil && openPrice != 0 {
		change := (closePrice - openPrice) / openPrice * 100
		quote.Change1DPct = &change
	}

	return quote, nil
}

// parsePrice parses a CSV price cell, rejecting Stooq's "N/D" marker.
func parsePrice(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "N/D" {
		return 0, fmt.Errorf("no value")
	}
	return strconv.ParseFloat(s, 64)
}

// Ensure Client implements QuoteFallbackClient
var _ interfaces.QuoteFallbackClient = (*Client)(nil)
