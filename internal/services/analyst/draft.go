package analyst

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/finsightapp/finsight/internal/models"
)

const (
	defaultExecutiveSummary = "Recommendation: NO; Expected growth strength: Medium; Risk points: news volatility, data gaps."
	defaultLastQuarter      = "No recent quarterly results data available."
	defaultExpectedReturn   = "Expected return not available."

	newsSummaryCap = 5
)

// buildDraftPrompt creates the synthesis prompt for the narrative brief.
func buildDraftPrompt(state models.AnalysisState, target string) string {
	var sb strings.Builder

	sb.WriteString("You are a financial analyst. Use provided evidence.\n\n")
	fmt.Fprintf(&sb, "Profile: budget %.2f, risk %s, horizon %s\n",
		state.UserProfile.Budget, state.UserProfile.RiskLevel, state.UserProfile.Horizon)
	fmt.Fprintf(&sb, "Question: %s\n", state.LastUserText())
	fmt.Fprintf(&sb, "Target: %s\n", target)

	sb.WriteString("Evidence:\n")
	for _, bullet := range evidenceBullets(state.Evidence) {
		sb.WriteString("- ")
		sb.WriteString(bullet)
		sb.WriteString("\n")
	}

	if price, err := json.Marshal(state.PriceData); err == nil {
		fmt.Fprintf(&sb, "Price: %s\n", price)
	}
	if shortlist, err := json.Marshal(state.Shortlist); err == nil {
		fmt.Fprintf(&sb, "Shortlist: %s\n", shortlist)
	}

	fmt.Fprintf(&sb, `
Write JSON with keys:
- executive_summary: string (no source links)
- expected_return: string (timeframe-specific)
- news_summary: list of descriptive strings
- bull_case: list of descriptive strings
- bear_case: list of descriptive strings
- key_risks: list of descriptive strings
- last_quarter_result: string
Requirements:
- Executive summary must include: Recommendation (YES/NO), Expected growth strength (High/Medium/Low),
  and Risk points (comma-separated). No source links in executive_summary.
- expected_return should be a %% range for the selected horizon (%s).
- Include sources by appending "(source: URL)" when referencing any news outside the executive summary.
- Keep items descriptive (1-2 sentences).
- Do not include markdown or extra keys.`, state.UserProfile.Horizon)

	return sb.String()
}

// parseDraft parses the synthesis output. A parse failure is not fatal: the
// raw text is carried in news_summary and returned for the degraded-draft
// validation path.
func parseDraft(response string) (models.Draft, string) {
	clean := strings.TrimSpace(response)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")
	clean = strings.TrimSpace(clean)

	var draft models.Draft
	if err := json.Unmarshal([]byte(clean), &draft); err != nil {
		if response != "" {
			return models.Draft{NewsSummary: []string{response}}, response
		}
		return models.Draft{}, ""
	}
	return draft, ""
}

// backfillDraft enforces the draft completeness contract. Whenever evidence
// exists, evidence-derived bullets are appended to bull_case, bear_case,
// key_risks and (capped) news_summary, and any still-empty list is
// force-populated from those bullets. Scalar fields get fixed fallbacks and
// the last-quarter sentence is derived from quarterly data when present.
func backfillDraft(draft models.Draft, evidence []models.Evidence, lastQuarter models.LastQuarter) models.Draft {
	bullets := evidenceBullets(evidence)

	if len(bullets) > 0 {
		for _, bullet := range bullets {
			draft.BullCase = append(draft.BullCase, "News impact: "+bullet)
			draft.BearCase = append(draft.BearCase, "News impact: "+bullet)
			draft.KeyRisks = append(draft.KeyRisks, "News risk: "+bullet)
			if len(draft.NewsSummary) < newsSummaryCap {
				draft.NewsSummary = append(draft.NewsSummary, "Summary: "+bullet)
			}
		}
		if len(draft.NewsSummary) == 0 {
			for _, bullet := range bullets {
				draft.NewsSummary = append(draft.NewsSummary, "Summary: "+bullet)
			}
		}
		if draft.ExecutiveSummary == "" {
			draft.ExecutiveSummary = defaultExecutiveSummary
		}
	}

	if !lastQuarter.IsZero() && draft.LastQuarterResult == "" {
		draft.LastQuarterResult = formatLastQuarter(lastQuarter)
	}
	if draft.LastQuarterResult == "" {
		draft.LastQuarterResult = defaultLastQuarter
	}
	if draft.ExpectedReturn == "" {
		draft.ExpectedReturn = defaultExpectedReturn
	}
	if draft.ExecutiveSummary == "" {
		draft.ExecutiveSummary = defaultExecutiveSummary
	}

	return draft
}

// formatLastQuarter renders the quarterly figures as a short sentence.
func formatLastQuarter(lq models.LastQuarter) string {
	period := lq.Period
	if period == "" {
		period = "latest quarter"
	}
	parts := []string{"Period: " + period}
	if lq.Revenue != nil {
		parts = append(parts, fmt.Sprintf("Revenue: %g", *lq.Revenue))
	}
	if lq.Earnings != nil {
		parts = append(parts, fmt.Sprintf("Earnings: %g", *lq.Earnings))
	}
	return strings.Join(parts, "; ")
}
