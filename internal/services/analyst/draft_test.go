package analyst

import (
	"strings"
	"testing"

	"github.com/finsightapp/finsight/internal/models"
)

func TestParseDraftPlainJSON(t *testing.T) {
	draft, raw := parseDraft(`{"executive_summary":"Recommendation: YES","bull_case":["growth"]}`)
	if raw != "" {
		t.Errorf("expected no raw carry-over, got %q", raw)
	}
	if draft.ExecutiveSummary != "Recommendation: YES" || len(draft.BullCase) != 1 {
		t.Errorf("unexpected draft: %+v", draft)
	}
}

func TestParseDraftCodeFenced(t *testing.T) {
	response := "```json\n{\"executive_summary\":\"Recommendation: NO\"}\n```"
	draft, raw := parseDraft(response)
	if raw != "" {
		t.Errorf("fenced JSON should parse cleanly, raw=%q", raw)
	}
	if draft.ExecutiveSummary != "Recommendation: NO" {
		t.Errorf("unexpected summary: %q", draft.ExecutiveSummary)
	}
}

func TestParseDraftFailureCarriesRaw(t *testing.T) {
	response := "The Bull case is strong but the Bear case has merit."
	draft, raw := parseDraft(response)
	if raw != response {
		t.Errorf("expected raw carry-over, got %q", raw)
	}
	if len(draft.NewsSummary) != 1 || draft.NewsSummary[0] != response {
		t.Errorf("raw text should land in news summary: %+v", draft)
	}
}

func TestBackfillDraftZeroEvidence(t *testing.T) {
	draft := backfillDraft(models.Draft{}, nil, models.LastQuarter{})

	if draft.ExecutiveSummary != defaultExecutiveSummary {
		t.Errorf("unexpected summary: %q", draft.ExecutiveSummary)
	}
	if draft.ExpectedReturn != defaultExpectedReturn {
		t.Errorf("unexpected expected return: %q", draft.ExpectedReturn)
	}
	if draft.LastQuarterResult != defaultLastQuarter {
		t.Errorf("unexpected last quarter: %q", draft.LastQuarterResult)
	}
}

func TestBackfillDraftFromEvidence(t *testing.T) {
	evidence := []models.Evidence{
		{ID: 1, Title: "Beat", Snippet: "rev up", URL: "https://x.com/a"},
		{ID: 2, Title: "Miss", Snippet: "eps down", URL: "https://x.com/b"},
	}

	draft := backfillDraft(models.Draft{}, evidence, models.LastQuarter{})

	if len(draft.BullCase) != 2 || !strings.HasPrefix(draft.BullCase[0], "News impact: ") {
		t.Errorf("bull case not backfilled: %+v", draft.BullCase)
	}
	if len(draft.BearCase) != 2 {
		t.Errorf("bear case not backfilled: %+v", draft.BearCase)
	}
	if len(draft.KeyRisks) != 2 || !strings.HasPrefix(draft.KeyRisks[0], "News risk: ") {
		t.Errorf("key risks not backfilled: %+v", draft.KeyRisks)
	}
	if len(draft.NewsSummary) != 2 || !strings.HasPrefix(draft.NewsSummary[0], "Summary: ") {
		t.Errorf("news summary not backfilled: %+v", draft.NewsSummary)
	}
	if draft.ExecutiveSummary == "" || draft.ExpectedReturn == "" || draft.LastQuarterResult == "" {
		t.Errorf("scalar fields must be populated: %+v", draft)
	}
}

func TestBackfillDraftNewsSummaryCap(t *testing.T) {
	evidence := make([]models.Evidence, 8)
	for i := range evidence {
		evidence[i] = models.Evidence{ID: i + 1, Title: "Item", Snippet: "x"}
	}

	draft := backfillDraft(models.Draft{}, evidence, models.LastQuarter{})
	if len(draft.NewsSummary) != newsSummaryCap {
		t.Errorf("news summary should cap at %d, got %d", newsSummaryCap, len(draft.NewsSummary))
	}
	if len(draft.BullCase) != 8 {
		t.Errorf("bull case is uncapped, got %d", len(draft.BullCase))
	}
}

func TestBackfillDraftPreservesSynthesizedContent(t *testing.T) {
	in := models.Draft{
		ExecutiveSummary: "Recommendation: YES; Expected growth strength: High; Risk points: valuation.",
		ExpectedReturn:   "5-10% over 6m",
		BullCase:         []string{"AI demand"},
	}
	evidence := []models.Evidence{{ID: 1, Title: "Beat", Snippet: "rev up"}}

	draft := backfillDraft(in, evidence, models.LastQuarter{})

	if draft.ExecutiveSummary != in.ExecutiveSummary {
		t.Errorf("synthesized summary must survive: %q", draft.ExecutiveSummary)
	}
	if draft.ExpectedReturn != "5-10% over 6m" {
		t.Errorf("synthesized return must survive: %q", draft.ExpectedReturn)
	}
	if draft.BullCase[0] != "AI demand" {
		t.Errorf("synthesized bull point must come first: %+v", draft.BullCase)
	}
	if len(draft.BullCase) != 2 {
		t.Errorf("evidence bullet should still be appended: %+v", draft.BullCase)
	}
}

func TestBackfillDraftLastQuarter(t *testing.T) {
	rev := 96_300_000_000.0
	earn := 26_000_000_000.0
	lq := models.LastQuarter{Period: "2025Q2", Revenue: &rev, Earnings: &earn}

	draft := backfillDraft(models.Draft{}, nil, lq)

	if !strings.Contains(draft.LastQuarterResult, "2025Q2") {
		t.Errorf("period missing from last quarter line: %q", draft.LastQuarterResult)
	}
	if !strings.Contains(draft.LastQuarterResult, "Revenue:") || !strings.Contains(draft.LastQuarterResult, "Earnings:") {
		t.Errorf("figures missing from last quarter line: %q", draft.LastQuarterResult)
	}
}
