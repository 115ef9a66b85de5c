package models

// FastQuote is the primary provider's real-time snapshot for a ticker.
// Pointer fields distinguish "absent" from zero.
type FastQuote struct {
	Ticker        string   `json:"ticker"`
	Currency      string   `json:"currency,omitempty"`
	LastPrice     *float64 `json:"last_price,omitempty"`
	PreviousClose *float64 `json:"previous_close,omitempty"`
	CompanyName   string   `json:"company_name,omitempty"`
}

// TickerInfo is the primary provider's general info record for a ticker.
type TickerInfo struct {
	Ticker             string   `json:"ticker"`
	Currency           string   `json:"currency,omitempty"`
	CurrentPrice       *float64 `json:"current_price,omitempty"`
	RegularMarketPrice *float64 `json:"regular_market_price,omitempty"`
	ChangePct          *float64 `json:"change_pct,omitempty"`
	LongName           string   `json:"long_name,omitempty"`
}

// HistoryBar is a single day's close from the historical series.
type HistoryBar struct {
	Date  string  `json:"date"`
	Close float64 `json:"close"`
}

// QuarterlyEarning is one entry of the quarterly earnings series.
type QuarterlyEarning struct {
	Period   string   `json:"period"`
	Revenue  *float64 `json:"revenue,omitempty"`
	Earnings *float64 `json:"earnings,omitempty"`
}

// SymbolMatch is one result of a symbol-search lookup.
type SymbolMatch struct {
	Symbol    string `json:"symbol"`
	ShortName string `json:"shortname,omitempty"`
	LongName  string `json:"longname,omitempty"`
	Exchange  string `json:"exchange,omitempty"`
	QuoteType string `json:"quote_type,omitempty"`
}

// DisplayName returns the best available human-readable name.
func (m SymbolMatch) DisplayName() string {
	if m.ShortName != "" {
		return m.ShortName
	}
	return m.LongName
}
