package yahoo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFastQuote(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v7/finance/quote" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("symbols") != "NVDA" {
			t.Errorf("unexpected symbols param %q", r.URL.Query().Get("symbols"))
		}
		w.Write([]byte(`{"quoteResponse":{"result":[{
			"symbol":"NVDA","currency":"USD","longName":"NVIDIA Corporation",
			"regularMarketPrice":950.02,"regularMarketPreviousClose":900.0}]}}`))
	}))
	defer ts.Close()

	c := NewClient(WithBaseURL(ts.URL))
	fq, err := c.FastQuote(context.Background(), "NVDA")
	if err != nil {
		t.Fatalf("FastQuote failed: %v", err)
	}

	if fq.Ticker != "NVDA" || fq.Currency != "USD" || fq.CompanyName != "NVIDIA Corporation" {
		t.Errorf("unexpected quote: %+v", fq)
	}
	if fq.LastPrice == nil || *fq.LastPrice != 950.02 {
		t.Errorf("unexpected last price: %v", fq.LastPrice)
	}
	if fq.PreviousClose == nil || *fq.PreviousClose != 900.0 {
		t.Errorf("unexpected previous close: %v", fq.PreviousClose)
	}
}

func TestFastQuoteStringPrice(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"quoteResponse":{"result":[{"symbol":"X","regularMarketPrice":"12.5"}]}}`))
	}))
	defer ts.Close()

	c := NewClient(WithBaseURL(ts.URL))
	fq, err := c.FastQuote(context.Background(), "X")
	if err != nil {
		t.Fatalf("FastQuote failed: %v", err)
	}
	if fq.LastPrice == nil || *fq.LastPrice != 12.5 {
		t.Errorf("string-typed price not parsed: %v", fq.LastPrice)
	}
}

func TestFastQuoteNoResults(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"quoteResponse":{"result":[]}}`))
	}))
	defer ts.Close()

	c := NewClient(WithBaseURL(ts.URL))
	if _, err := c.FastQuote(context.Background(), "NOPE"); err == nil {
		t.Error("expected error for empty result set")
	}
}

func TestInfoScalesChangeToPercent(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("modules") != "price" {
			t.Errorf("unexpected modules param %q", r.URL.Query().Get("modules"))
		}
		w.Write([]byte(`{"quoteSummary":{"result":[{"price":{
			"symbol":"AAPL","currency":"USD","longName":"Apple Inc.",
			"regularMarketPrice":{"raw":200.5},
			"regularMarketChangePercent":{"raw":0.0123}}}]}}`))
	}))
	defer ts.Close()

	c := NewClient(WithBaseURL(ts.URL))
	info, err := c.Info(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Info failed: %v", err)
	}

	if info.CurrentPrice == nil || *info.CurrentPrice != 200.5 {
		t.Errorf("unexpected price: %v", info.CurrentPrice)
	}
	if info.ChangePct == nil || *info.ChangePct < 1.22 || *info.ChangePct > 1.24 {
		t.Errorf("fraction should scale to percent: %v", info.ChangePct)
	}
}

func TestHistoryDropsNullCloses(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("range") != "5d" {
			t.Errorf("unexpected range param %q", r.URL.Query().Get("range"))
		}
		w.Write([]byte(`{"chart":{"result":[{
			"timestamp":[1704067200,1704153600,1704240000],
			"indicators":{"quote":[{"close":[101.5,null,103.25]}]}}]}}`))
	}))
	defer ts.Close()

	c := NewClient(WithBaseURL(ts.URL))
	bars, err := c.History(context.Background(), "MSFT", 5)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}

	if len(bars) != 2 {
		t.Fatalf("null closes should be dropped, got %d bars", len(bars))
	}
	if bars[0].Close != 101.5 || bars[1].Close != 103.25 {
		t.Errorf("unexpected closes: %+v", bars)
	}
	if bars[0].Date != "2024-01-01" {
		t.Errorf("unexpected date: %q", bars[0].Date)
	}
}

func TestQuarterlyEarnings(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("modules") != "earnings" {
			t.Errorf("unexpected modules param %q", r.URL.Query().Get("modules"))
		}
		w.Write([]byte(`{"quoteSummary":{"result":[{"earnings":{"financialsChart":{"quarterly":[
			{"date":"2025Q3","revenue":{"raw":1000},"earnings":{"raw":100}},
			{"date":"2025Q4","revenue":{"raw":1200},"earnings":{"raw":150}}]}}}]}}`))
	}))
	defer ts.Close()

	c := NewClient(WithBaseURL(ts.URL))
	series, err := c.QuarterlyEarnings(context.Background(), "NVDA")
	if err != nil {
		t.Fatalf("QuarterlyEarnings failed: %v", err)
	}

	if len(series) != 2 {
		t.Fatalf("expected 2 quarters, got %d", len(series))
	}
	if series[1].Period != "2025Q4" || series[1].Revenue == nil || *series[1].Revenue != 1200 {
		t.Errorf("unexpected latest quarter: %+v", series[1])
	}
}

func TestSearchSymbols(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") != "nvidia" {
			t.Errorf("unexpected query %q", r.URL.Query().Get("q"))
		}
		w.Write([]byte(`{"quotes":[
			{"symbol":"NVDA","shortname":"NVIDIA Corporation","exchange":"NMS","quoteType":"EQUITY"},
			{"symbol":"","shortname":"junk"}]}`))
	}))
	defer ts.Close()

	c := NewClient(WithBaseURL(ts.URL))
	matches, err := c.SearchSymbols(context.Background(), "nvidia")
	if err != nil {
		t.Fatalf("SearchSymbols failed: %v", err)
	}

	if len(matches) != 1 {
		t.Fatalf("empty symbols should be skipped, got %d matches", len(matches))
	}
	if matches[0].Symbol != "NVDA" || matches[0].DisplayName() != "NVIDIA Corporation" {
		t.Errorf("unexpected match: %+v", matches[0])
	}
}

func TestGetNon200(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer ts.Close()

	c := NewClient(WithBaseURL(ts.URL))
	if _, err := c.FastQuote(context.Background(), "NVDA"); err == nil {
		t.Error("expected error for non-200 response")
	}
}
