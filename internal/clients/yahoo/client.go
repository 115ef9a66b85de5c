// Package yahoo provides a client for the Yahoo Finance API
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/finsightapp/finsight/internal/common"
	"github.com/finsightapp/finsight/internal/interfaces"
	"github.com/finsightapp/finsight/internal/models"
)

const (
	DefaultBaseURL   = "https://query1.finance.yahoo.com"
	DefaultTimeout   = 10 * time.Second
	DefaultRateLimit = 5 // requests per second

	userAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:120.0) Gecko/20100101 Firefox/120.0"
)

// flexFloat64 handles JSON values that may be either a number or a string.
type flexFloat64 float64

func (f *flexFloat64) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*f = flexFloat64(num)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "" || s == "N/A" {
			*f = 0
			return nil
		}
		num, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*f = 0
			return nil
		}
		*f = flexFloat64(num)
		return nil
	}
	return fmt.Errorf("cannot unmarshal %s into float64", string(data))
}

// rawValue is Yahoo's {raw, fmt} number wrapper.
type rawValue struct {
	Raw *flexFloat64 `json:"raw"`
}

func (v *rawValue) float() *float64 {
	if v == nil || v.Raw == nil {
		return nil
	}
	f := float64(*v.Raw)
	return &f
}

// Client implements the MarketDataClient interface
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
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

// WithRateLimit sets the rate limit in requests per second
func WithRateLimit(rps int) ClientOption {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), rps)
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new Yahoo Finance client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     common.NewSilentLogger(),
		limiter:    rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// get performs a rate-limited GET and returns the response body.
func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo API returned status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	return body, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

type quoteResponse struct {
	QuoteResponse struct {
		Result []struct {
			Symbol                     string       `json:"symbol"`
			Currency                   string       `json:"currency"`
			RegularMarketPrice         *flexFloat64 `json:"regularMarketPrice"`
			RegularMarketPreviousClose *flexFloat64 `json:"regularMarketPreviousClose"`
			LongName                   string       `json:"longName"`
			ShortName                  string       `json:"shortName"`
		} `json:"result"`
	} `json:"quoteResponse"`
}

// FastQuote retrieves the real-time quote fields via the v7 quote endpoint.
func (c *Client) FastQuote(ctx context.Context, ticker string) (*models.FastQuote, error) {
	params := url.Values{}
	params.Set("symbols", ticker)

	body, err := c.get(ctx, "/v7/finance/quote", params)
	if err != nil {
		return nil, err
	}

	var parsed quoteResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse quote response: %w", err)
	}
	if len(parsed.QuoteResponse.Result) == 0 {
		return nil, fmt.Errorf("no quote results for %s", ticker)
	}

	q := parsed.QuoteResponse.Result[0]
	name := q.LongName
	if name == "" {
		name = q.ShortName
	}

	fq := &models.FastQuote{
		Ticker:      q.Symbol,
		Currency:    q.Currency,
		CompanyName: name,
	}
	if q.RegularMarketPrice != nil {
		p := float64(*q.RegularMarketPrice)
		fq.LastPrice = &p
	}
	if q.RegularMarketPreviousClose != nil {
		p := float64(*q.RegularMarketPreviousClose)
		fq.PreviousClose = &p
	}
	return fq, nil
}

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			Price *struct {
				Symbol                 string    `json:"symbol"`
				Currency               string    `json:"currency"`
				LongName               string    `json:"longName"`
				ShortName              string    `json:"shortName"`
				RegularMarketPrice     *rawValue `json:"regularMarketPrice"`
				RegularMarketChangePct *rawValue `json:"regularMarketChangePercent"`
			} `json:"price"`
			Earnings *struct {
				FinancialsChart struct {
					Quarterly []struct {
						Date     string    `json:"date"`
						Revenue  *rawValue `json:"revenue"`
						Earnings *rawValue `json:"earnings"`
					} `json:"quarterly"`
				} `json:"financialsChart"`
			} `json:"earnings"`
		} `json:"result"`
	} `json:"quoteSummary"`
}

// Info retrieves the general info record via the quoteSummary price module.
func (c *Client) Info(ctx context.Context, ticker string) (*models.TickerInfo, error) {
	params := url.Values{}
	params.Set("modules", "price")

	body, err := c.get(ctx, "/v10/finance/quoteSummary/"+url.PathEscape(ticker), params)
	if err != nil {
		return nil, err
	}

	var parsed quoteSummaryResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse quoteSummary response: %w", err)
	}
	if len(parsed.QuoteSummary.Result) == 0 || parsed.QuoteSummary.Result[0].Price == nil {
		return nil, fmt.Errorf("no info for %s", ticker)
	}

	p := parsed.QuoteSummary.Result[0].Price
	name := p.LongName
	if name == "" {
		name = p.ShortName
	}

	info := &models.TickerInfo{
		Ticker:             p.Symbol,
		Currency:           p.Currency,
		LongName:           name,
		RegularMarketPrice: p.RegularMarketPrice.float(),
		ChangePct:          p.RegularMarketChangePct.float(),
	}
	// Yahoo reports change as a fraction in this module; scale to percent.
	if info.ChangePct != nil {
		pct := *info.ChangePct * 100
		info.ChangePct = &pct
	}
	info.CurrentPrice = info.RegularMarketPrice
	return info, nil
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
	} `json:"chart"`
}

// History retrieves daily closes for the last n days via the v8 chart endpoint.
// Null closes (market holidays, partial bars) are dropped.
func (c *Client) History(ctx context.Context, ticker string, days int) ([]models.HistoryBar, error) {
	params := url.Values{}
	params.Set("range", fmt.Sprintf("%dd", days))
	params.Set("interval", "1d")

	body, err := c.get(ctx, "/v8/finance/chart/"+url.PathEscape(ticker), params)
	if err != nil {
		return nil, err
	}

	var parsed chartResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse chart response: %w", err)
	}
	if len(parsed.Chart.Result) == 0 || len(parsed.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("no history for %s", ticker)
	}

	result := parsed.Chart.Result[0]
	closes := result.Indicators.Quote[0].Close

	var bars []models.HistoryBar
	for i, cl := range closes {
		if cl == nil {
			continue
		}
		date := ""
		if i < len(result.Timestamp) {
			date = time.Unix(result.Timestamp[i], 0).UTC().Format("2006-01-02")
		}
		bars = append(bars, models.HistoryBar{Date: date, Close: *cl})
	}
	return bars, nil
}

// QuarterlyEarnings retrieves the quarterly revenue/earnings series via the
// quoteSummary earnings module, oldest first.
func (c *Client) QuarterlyEarnings(ctx context.Context, ticker string) ([]models.QuarterlyEarning, error) {
	params := url.Values{}
	params.Set("modules", "earnings")

	body, err := c.get(ctx, "/v10/finance/quoteSummary/"+url.PathEscape(ticker), params)
	if err != nil {
		return nil, err
	}

	var parsed quoteSummaryResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse earnings response: %w", err)
	}
	if len(parsed.QuoteSummary.Result) == 0 || parsed.QuoteSummary.Result[0].Earnings == nil {
		return nil, fmt.Errorf("no earnings for %s", ticker)
	}

	quarterly := parsed.QuoteSummary.Result[0].Earnings.FinancialsChart.Quarterly
	series := make([]models.QuarterlyEarning, 0, len(quarterly))
	for _, q := range quarterly {
		series = append(series, models.QuarterlyEarning{
			Period:   q.Date,
			Revenue:  q.Revenue.float(),
			Earnings: q.Earnings.float(),
		})
	}
	return series, nil
}

type searchResponse struct {
	Quotes []struct {
		Symbol    string `json:"symbol"`
		ShortName string `json:"shortname"`
		LongName  string `json:"longname"`
		Exchange  string `json:"exchange"`
		QuoteType string `json:"quoteType"`
	} `json:"quotes"`
}

// SearchSymbols resolves a free-text company query to tradable symbols.
func (c *Client) SearchSymbols(ctx context.Context, query string) ([]models.SymbolMatch, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("quotesCount", "5")
	params.Set("newsCount", "0")

	body, err := c.get(ctx, "/v1/finance/search", params)
	if err != nil {
		return nil, err
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}

	matches := make([]models.SymbolMatch, 0, len(parsed.Quotes))
	for _, q := range parsed.Quotes {
		if q.Symbol == "" {
			continue
		}
		matches = append(matches, models.SymbolMatch{
			Symbol:    q.Symbol,
			ShortName: q.ShortName,
			LongName:  q.LongName,
			Exchange:  q.Exchange,
			QuoteType: q.QuoteType,
		})
	}
	return matches, nil
}

// Ensure Client implements MarketDataClient
var _ interfaces.MarketDataClient = (*Client)(nil)
