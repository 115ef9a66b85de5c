// Package analyst implements the research workflow that turns an investment
// question plus a user profile into a validated analysis brief.
package analyst

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/finsightapp/finsight/internal/common"
	"github.com/finsightapp/finsight/internal/interfaces"
	"github.com/finsightapp/finsight/internal/models"
	"github.com/finsightapp/finsight/internal/workflow"
)

const (
	defaultMaxResults = 5
	maxRetries        = 2

	disclaimer = "Not financial advice. Educational demo only."
	scoreNotes = "Score uses price data, news coverage, 1D move, and risk profile"
)

// Service runs the analysis workflow. Safe for concurrent use; each Analyze
// call owns its state exclusively.
type Service struct {
	completion interfaces.CompletionClient
	search     interfaces.SearchClient
	market     interfaces.MarketDataClient
	fallback   interfaces.QuoteFallbackClient
	logger     *common.Logger
	maxResults int
	now        func() time.Time
	runner     *workflow.Runner[models.AnalysisState]
}

// Option configures the analyst service.
type Option func(*Service)

// WithMaxResults overrides the evidence search result cap.
func WithMaxResults(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxResults = n
		}
	}
}

// WithClock overrides the timestamp source. Used in tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates the analyst service and compiles its workflow graph.
func NewService(
	completion interfaces.CompletionClient,
	search interfaces.SearchClient,
	market interfaces.MarketDataClient,
	fallback interfaces.QuoteFallbackClient,
	logger *common.Logger,
	opts ...Option,
) (*Service, error) {
	if logger == nil {
		logger = common.NewDefaultLogger()
	}

	s := &Service{
		completion: completion,
		search:     search,
		market:     market,
		fallback:   fallback,
		logger:     logger,
		maxResults: defaultMaxResults,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	runner, err := s.buildGraph()
	if err != nil {
		return nil, fmt.Errorf("failed to build analysis workflow: %w", err)
	}
	s.runner = runner
	return s, nil
}

// buildGraph wires the workflow. The supervisor branches between intake and
// the research path; validation failures loop back through on_fail until the
// retry budget is spent, at which point the run ends with the FAIL status
// intact.
func (s *Service) buildGraph() (*workflow.Runner[models.AnalysisState], error) {
	g := workflow.New[models.AnalysisState]()

	g.AddNode("supervisor", s.supervisorNode)
	g.AddNode("intake_guard", s.intakeGuardNode)
	g.AddNode("frame", s.frameNode)
	g.AddNode("evidence", s.evidenceNode)
	g.AddNode("market_data", s.marketDataNode)
	g.AddNode("score", s.scoreNode)
	g.AddNode("draft", s.draftNode)
	g.AddNode("validate", s.validateNode)
	g.AddNode("on_fail", s.onFailNode)

	g.SetEntryPoint("supervisor")

	g.AddConditionalEdges("supervisor", func(state models.AnalysisState) string {
		return string(state.Route)
	}, map[string]string{
		string(models.RouteIntake):   "intake_guard",
		string(models.RouteWeb):      "frame",
		string(models.RouteLLM):      "frame",
		string(models.RouteDoc):      "frame",
		string(models.RouteYFinance): "frame",
	})

	g.AddEdge("intake_guard", workflow.End)
	g.AddEdge("frame", "evidence")
	g.AddEdge("evidence", "market_data")
	g.AddEdge("market_data", "score")
	g.AddEdge("score", "draft")
	g.AddEdge("draft", "validate")

	g.AddConditionalEdges("validate", func(state models.AnalysisState) string {
		if state.Validation.Status == models.ValidationPass || state.RetryCount >= maxRetries {
			return models.ValidationPass
		}
		return models.ValidationFail
	}, map[string]string{
		models.ValidationPass: workflow.End,
		models.ValidationFail: "on_fail",
	})

	g.AddEdge("on_fail", "supervisor")

	return g.Compile()
}

var _ interfaces.AnalystService = (*Service)(nil)

// Analyze executes the workflow graph for one question.
func (s *Service) Analyze(ctx context.Context, question string, profile models.UserProfile) (models.AnalysisState, error) {
	start := s.now()

	initial := models.AnalysisState{
		Messages:    []models.Message{{Role: models.RoleUser, Content: question}},
		UserProfile: profile,
	}

	final, err := s.runner.Run(ctx, initial)
	if err != nil {
		return final, err
	}

	s.logger.Info().
		Str("route", string(final.Route)).
		Str("ticker", final.PriceData.Ticker).
		Str("validation", final.Validation.Status).
		Int("retries", final.RetryCount).
		Dur("elapsed", s.now().Sub(start)).
		Msg("Analysis completed")

	return final, nil
}

var (
	urlRe        = regexp.MustCompile(`https?://\S+`)
	emptySrcRe   = regexp.MustCompile(`(?i)\(source:?\s*\)`)
	multiSpaceRe = regexp.MustCompile(`\s{2,}`)
)

// scrubLinks removes URLs and emptied source markers from narrative text.
func scrubLinks(text string) string {
	text = urlRe.ReplaceAllString(text, "")
	text = emptySrcRe.ReplaceAllString(text, "")
	text = multiSpaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

func ensureList(items []string, fallback string) []string {
	if len(items) > 0 {
		return items
	}
	return []string{fallback}
}

// BuildResponse shapes a final workflow state into the public payload.
// The executive summary is scrubbed of links and guaranteed to carry a
// recommendation line; every list section is non-empty.
func (s *Service) BuildResponse(state models.AnalysisState) models.AnalysisResponse {
	ticker := state.PriceData.Ticker
	if ticker == "" {
		ticker = "UNKNOWN"
	}
	company := state.PriceData.CompanyName
	if company == "" {
		company = "Unknown"
	}

	summary := scrubLinks(state.Draft.ExecutiveSummary)
	if summary == "" || !strings.Contains(summary, "Recommendation:") {
		summary = defaultExecutiveSummary
	}

	analysis := models.AnalysisSection{
		ExecutiveSummary:  summary,
		ExpectedReturn:    state.Draft.ExpectedReturn,
		NewsSummary:       ensureList(state.Draft.NewsSummary, "No news summary available."),
		BullCase:          ensureList(state.Draft.BullCase, "No bull case identified."),
		BearCase:          ensureList(state.Draft.BearCase, "No bear case identified."),
		KeyRisks:          ensureList(state.Draft.KeyRisks, "No specific risks identified."),
		LastQuarterResult: state.Draft.LastQuarterResult,
	}
	if analysis.ExpectedReturn == "" {
		analysis.ExpectedReturn = defaultExpectedReturn
	}
	if analysis.LastQuarterResult == "" {
		analysis.LastQuarterResult = defaultLastQuarter
	}

	pack := make([]models.EvidenceRef, 0, len(state.Evidence))
	for _, ev := range state.Evidence {
		source := ev.Source
		if source == "" {
			source = "Web"
		}
		pack = append(pack, models.EvidenceRef{
			Date:   "Recent",
			Source: source,
			Title:  ev.Title,
			Claim:  ev.Snippet,
			URL:    ev.URL,
		})
	}

	score := models.ScoreSection{Notes: scoreNotes}
	if len(state.Shortlist) > 0 {
		item := state.Shortlist[0]
		score.Total = float64(item.Score)
		score.Breakdown = make([]models.ScoreComponent, 0, len(item.ScoreBreakdown))
		for _, c := range item.ScoreBreakdown {
			score.Breakdown = append(score.Breakdown, models.ScoreComponent{
				Label: c.Label,
				Value: math.Round(c.Value*100) / 100,
			})
		}
	}

	return models.AnalysisResponse{
		Ticker:       ticker,
		CompanyName:  company,
		Timestamp:    s.now().UTC().Format(time.RFC3339),
		PriceData:    state.PriceData,
		Analysis:     analysis,
		EvidencePack: pack,
		Score:        score,
		Validation:   state.Validation,
		Disclaimer:   disclaimer,
	}
}
