// Package ddg provides a client for the DuckDuckGo HTML search endpoint
package ddg

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"github.com/finsightapp/finsight/internal/common"
	"github.com/finsightapp/finsight/internal/interfaces"
	"github.com/finsightapp/finsight/internal/models"
)

const (
	DefaultBaseURL   = "https://html.duckduckgo.com/html"
	DefaultTimeout   = 15 * time.Second
	DefaultRateLimit = 1 // requests per second

	// DuckDuckGo rejects requests without a browser-like user agent.
	userAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:120.0) Gecko/20100101 Firefox/120.0"
)

// Client implements the SearchClient interface
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
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new DuckDuckGo search client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     common.NewSilentLogger(),
		limiter:    rate.NewLimiter(rate.Limit(DefaultRateLimit), 1),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Search runs a web search and returns up to maxResults raw results.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]models.RawSearchResult, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/?q=%s", c.baseURL, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug().Str("query", query).Int("max_results", maxResults).Msg("Searching DuckDuckGo")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse search results: %w", err)
	}

	var results []models.RawSearchResult
	doc.Find("div.result").EachWithBreak(func(i int, sel *goquery.Selection) bool {
		if maxResults > 0 && len(results) >= maxResults {
			return false
		}

		anchor := sel.Find("a.result__a").First()
		title := strings.TrimSpace(anchor.Text())
		href, _ := anchor.Attr("href")
		snippet := strings.TrimSpace(sel.Find(".result__snippet").First().Text())

		if title == "" && snippet == "" {
			return true
		}

		results = append(results, models.RawSearchResult{
			Title: title,
			Href:  resolveRedirect(href),
			Body:  snippet,
		})
		return true
	})

	c.logger.Debug().Str("query", query).Int("results", len(results)).Msg("Search complete")
	return results, nil
}

// resolveRedirect unwraps DuckDuckGo's /l/?uddg=<url> redirect links.
func resolveRedirect(href string) string {
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if !strings.Contains(u.Host, "duckduckgo.com") || !strings.HasPrefix(u.Path, "/l/") {
		return href
	}
	target := u.Query().Get("uddg")
	if target == "" {
		return href
	}
	return target
}

// Ensure Client implements SearchClient
var _ interfaces.SearchClient = (*Client)(nil)
