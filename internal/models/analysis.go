// Package models defines data structures for FinSight
package models

import "strings"

// Route is the workflow branch selected by the supervisor.
type Route string

// Workflow routes. INTAKE is terminal; WEB/LLM/DOC/YFINANCE all proceed
// through the same framing-then-research path in the current design.
const (
	RouteIntake   Route = "INTAKE"
	RouteWeb      Route = "WEB"
	RouteLLM      Route = "LLM"
	RouteDoc      Route = "DOC"
	RouteYFinance Route = "YFINANCE"
)

// Message roles for conversation history.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Message is a single role-tagged conversation entry.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// RiskLevel values accepted in a user profile.
const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// UserProfile carries the investor constraints supplied with a question.
// Budget <= 0 and an empty RiskLevel are treated as missing fields.
type UserProfile struct {
	Budget    float64 `json:"budget"`
	RiskLevel string  `json:"risk_level"`
	Horizon   string  `json:"horizon"`
	Country   string  `json:"country,omitempty"`
}

// HasBudget reports whether a usable budget was supplied.
func (p UserProfile) HasBudget() bool {
	return p.Budget > 0
}

// HasRiskLevel reports whether a risk level was supplied.
func (p UserProfile) HasRiskLevel() bool {
	return strings.TrimSpace(p.RiskLevel) != ""
}

// Evidence is a normalized news/search result record used as synthesis input.
// IDs are 1-based and dense within one collection call. Source is the URL
// host with a leading "www." stripped, empty when no URL is present.
type Evidence struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
	Source  string `json:"source"`
}

// RawSearchResult is the heterogeneous shape returned by search providers.
// Different providers populate different field aliases; the normalizer
// coalesces them (title/heading/text, href/link/url, body/snippet/text).
type RawSearchResult struct {
	Title   string `json:"title,omitempty"`
	Heading string `json:"heading,omitempty"`
	Text    string `json:"text,omitempty"`
	Href    string `json:"href,omitempty"`
	Link    string `json:"link,omitempty"`
	URL     string `json:"url,omitempty"`
	Body    string `json:"body,omitempty"`
	Snippet string `json:"snippet,omitempty"`
}

// PriceQuote holds the resolved market snapshot for a ticker. When
// CurrentPrice is nil the record carries an Error instead and no other
// numeric field is trusted.
type PriceQuote struct {
	Currency     string   `json:"currency,omitempty"`
	CurrentPrice *float64 `json:"current_price,omitempty"`
	Change1DPct  *float64 `json:"change_1d_pct,omitempty"`
	Source       string   `json:"source,omitempty"`
	Ticker       string   `json:"ticker,omitempty"`
	CompanyName  string   `json:"company_name,omitempty"`
	Error        string   `json:"error,omitempty"`
}

// HasPrice reports whether the quote carries a usable current price.
func (q PriceQuote) HasPrice() bool {
	return q.Error == "" && q.CurrentPrice != nil
}

// LastQuarter holds the most recent quarterly revenue/earnings figures.
// Absence of any field is tolerated.
type LastQuarter struct {
	Period   string   `json:"period,omitempty"`
	Revenue  *float64 `json:"revenue,omitempty"`
	Earnings *float64 `json:"earnings,omitempty"`
}

// IsZero reports whether no quarterly data was found.
func (l LastQuarter) IsZero() bool {
	return l.Period == "" && l.Revenue == nil && l.Earnings == nil
}

// ScoreComponent is one labelled adjustment in a score breakdown.
type ScoreComponent struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// ShortlistItem is the single scored candidate for the resolved ticker.
type ShortlistItem struct {
	Ticker         string           `json:"ticker"`
	Score          int              `json:"score"`
	ScoreBreakdown []ScoreComponent `json:"score_breakdown"`
	Pros           []string         `json:"pros"`
	Cons           []string         `json:"cons"`
	Risks          []string         `json:"risks"`
	EvidenceRefs   []string         `json:"evidence_refs"`
}

// Draft is the synthesized narrative brief. Fields the synthesis call omits
// are backfilled deterministically from evidence when any is available.
type Draft struct {
	ExecutiveSummary  string   `json:"executive_summary"`
	ExpectedReturn    string   `json:"expected_return"`
	NewsSummary       []string `json:"news_summary"`
	BullCase          []string `json:"bull_case"`
	BearCase          []string `json:"bear_case"`
	KeyRisks          []string `json:"key_risks"`
	LastQuarterResult string   `json:"last_quarter_result"`
}

// IsZero reports whether the draft carries no content at all.
func (d Draft) IsZero() bool {
	return d.ExecutiveSummary == "" && d.ExpectedReturn == "" &&
		len(d.NewsSummary) == 0 && len(d.BullCase) == 0 &&
		len(d.BearCase) == 0 && len(d.KeyRisks) == 0 &&
		d.LastQuarterResult == ""
}

// Validation statuses.
const (
	ValidationPass = "PASS"
	ValidationFail = "FAIL"
)

// ValidationResult records the completeness check outcome for a draft.
type ValidationResult struct {
	Status         string   `json:"status"`
	Reasons        []string `json:"reasons"`
	SuggestedRoute Route    `json:"suggested_route,omitempty"`
}

// AnalysisState is the single mutable record threaded through every workflow
// node. It is exclusively owned by one in-flight execution and never shared
// across concurrent runs; nodes receive it by value and return an updated
// copy.
type AnalysisState struct {
	Messages      []Message        `json:"messages"`
	Route         Route            `json:"route,omitempty"`
	Plan          string           `json:"plan,omitempty"`
	Frame         string           `json:"frame,omitempty"`
	UserProfile   UserProfile      `json:"user_profile"`
	MissingFields []string         `json:"missing_fields,omitempty"`
	Evidence      []Evidence       `json:"evidence,omitempty"`
	PriceData     PriceQuote       `json:"price_data"`
	LastQuarter   LastQuarter      `json:"last_quarter"`
	Shortlist     []ShortlistItem  `json:"shortlist,omitempty"`
	Draft         Draft            `json:"draft"`
	DraftRaw      string           `json:"draft_raw,omitempty"` // set only when synthesis output failed to parse
	Validation    ValidationResult `json:"validation"`
	RetryCount    int              `json:"retry_count"`
	Reminder      string           `json:"reminder,omitempty"`
}

// LastUserText returns the content of the most recent user message.
func (s AnalysisState) LastUserText() string {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == RoleUser {
			return s.Messages[i].Content
		}
	}
	if len(s.Messages) > 0 {
		return s.Messages[len(s.Messages)-1].Content
	}
	return ""
}
