package analyst

import (
	"context"
	"fmt"
	"strings"

	"github.com/finsightapp/finsight/internal/models"
)

// supervisorNode decides the workflow branch. Missing profile fields win
// outright and route to intake; otherwise the completion service classifies
// the question, with WEB as the fallback for anything unrecognized.
func (s *Service) supervisorNode(ctx context.Context, state models.AnalysisState) (models.AnalysisState, error) {
	var missing []string
	if !state.UserProfile.HasBudget() {
		missing = append(missing, "budget")
	}
	if !state.UserProfile.HasRiskLevel() {
		missing = append(missing, "risk_level")
	}
	state.MissingFields = missing

	if len(missing) > 0 {
		state.Route = models.RouteIntake
		state.Plan = "Collect budget + risk."
		return state, nil
	}

	prompt := buildRoutePrompt(state.LastUserText(), state.Reminder)
	label, err := s.completion.Complete(ctx, prompt)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Route classification failed, defaulting to WEB")
		label = string(models.RouteWeb)
	}

	route := models.Route(strings.ToUpper(strings.TrimSpace(label)))
	switch route {
	case models.RouteWeb, models.RouteLLM, models.RouteDoc:
	default:
		route = models.RouteWeb
	}

	state.Route = route
	state.Plan = fmt.Sprintf("Route to %s", route)
	return state, nil
}

func buildRoutePrompt(question, reminder string) string {
	var sb strings.Builder
	sb.WriteString("Classify the question into one of: WEB, LLM, DOC.\n")
	sb.WriteString("WEB: time-sensitive, needs recent news or market data. LLM: explanation or general reasoning. DOC: provided internal documents.\n")
	if reminder != "" {
		sb.WriteString(reminder)
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "Question: %s\n", question)
	sb.WriteString("Answer with the label only.")
	return sb.String()
}

// intakeGuardNode closes out an intake-routed run with a message listing the
// fields still required. No external calls are made on this path.
func (s *Service) intakeGuardNode(_ context.Context, state models.AnalysisState) (models.AnalysisState, error) {
	if len(state.MissingFields) > 0 {
		state.Messages = append(state.Messages, models.Message{
			Role:    models.RoleSystem,
			Content: "Missing inputs: " + strings.Join(state.MissingFields, ", "),
		})
	}
	state.Route = models.RouteIntake
	return state, nil
}

// frameNode asks the completion service for a research framing: assumptions,
// bull and bear questions, and safety rules. A failed call leaves the frame
// empty; downstream nodes do not depend on it.
func (s *Service) frameNode(ctx context.Context, state models.AnalysisState) (models.AnalysisState, error) {
	prompt := fmt.Sprintf(
		"Frame the investment question below for research.\n"+
			"List assumptions, bull questions, bear questions, and safety rules (max 5 each).\n"+
			"Question: %s", state.LastUserText())

	frame, err := s.completion.Complete(ctx, prompt)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Framing failed")
		state.Frame = ""
		return state, nil
	}
	state.Frame = strings.TrimSpace(frame)
	return state, nil
}

// evidenceNode collects web evidence for the resolved target. Provider
// failures degrade to a single error record so the run continues.
func (s *Service) evidenceNode(ctx context.Context, state models.AnalysisState) (models.AnalysisState, error) {
	question := state.LastUserText()
	target := extractTicker(question)
	if target == "" {
		target = companyQuery(question)
	}
	if target == "" {
		target = question
	}

	query := target + " latest news earnings guidance risks"
	results, err := s.search.Search(ctx, query, s.maxResults)
	if err != nil {
		s.logger.Warn().Str("query", query).Err(err).Msg("Evidence search failed")
		state.Evidence = errorEvidence(err)
		return state, nil
	}

	state.Evidence = normalizeEvidence(results)
	s.logger.Debug().Str("query", query).Int("count", len(state.Evidence)).Msg("Evidence collected")
	return state, nil
}

// marketDataNode resolves the target ticker and walks the quote chain:
// fast quote, then the info record, then a two-bar history diff, then the
// fallback provider. Quarterly earnings are fetched best-effort. A run where
// every source fails still produces a quote record carrying an error.
func (s *Service) marketDataNode(ctx context.Context, state models.AnalysisState) (models.AnalysisState, error) {
	ticker, company := s.resolveTarget(ctx, state.LastUserText())
	if ticker == "" {
		state.PriceData = models.PriceQuote{Error: "Ticker not detected"}
		return state, nil
	}

	quote := s.fetchQuote(ctx, ticker)
	if quote.CompanyName == "" {
		quote.CompanyName = company
	}
	state.PriceData = quote
	state.LastQuarter = s.fetchLastQuarter(ctx, ticker)
	return state, nil
}

// fetchQuote walks the price sources in order and returns the first usable
// quote, or an error-marked record when all of them fail.
func (s *Service) fetchQuote(ctx context.Context, ticker string) models.PriceQuote {
	if fast, err := s.market.FastQuote(ctx, ticker); err == nil && fast != nil && fast.LastPrice != nil {
		quote := models.PriceQuote{
			Ticker:       ticker,
			Currency:     fast.Currency,
			CurrentPrice: fast.LastPrice,
			CompanyName:  fast.CompanyName,
			Source:       "fast_info",
		}
		if fast.PreviousClose != nil && *fast.PreviousClose != 0 {
			pct := (*fast.LastPrice - *fast.PreviousClose) / *fast.PreviousClose * 100
			quote.Change1DPct = &pct
		}
		return quote
	}

	if info, err := s.market.Info(ctx, ticker); err == nil && info != nil {
		price := info.CurrentPrice
		if price == nil {
			price = info.RegularMarketPrice
		}
		if price != nil {
			return models.PriceQuote{
				Ticker:       ticker,
				Currency:     info.Currency,
				CurrentPrice: price,
				Change1DPct:  info.ChangePct,
				CompanyName:  info.LongName,
				Source:       "info",
			}
		}
	}

	if bars, err := s.market.History(ctx, ticker, 5); err == nil && len(bars) >= 2 {
		last := bars[len(bars)-1].Close
		prev := bars[len(bars)-2].Close
		quote := models.PriceQuote{
			Ticker:       ticker,
			CurrentPrice: &last,
			Source:       "history",
		}
		if prev != 0 {
			pct := (last - prev) / prev * 100
			quote.Change1DPct = &pct
		}
		return quote
	}

	if s.fallback != nil {
		if quote, err := s.fallback.Quote(ctx, ticker); err == nil && quote != nil && quote.HasPrice() {
			quote.Ticker = ticker
			return *quote
		}
	}

	return models.PriceQuote{
		Ticker: ticker,
		Error:  fmt.Sprintf("No price data available for %s", ticker),
	}
}

// fetchLastQuarter returns the most recent quarterly figures, tolerating any
// provider failure.
func (s *Service) fetchLastQuarter(ctx context.Context, ticker string) models.LastQuarter {
	earnings, err := s.market.QuarterlyEarnings(ctx, ticker)
	if err != nil || len(earnings) == 0 {
		if err != nil {
			s.logger.Debug().Str("ticker", ticker).Err(err).Msg("Quarterly earnings unavailable")
		}
		return models.LastQuarter{}
	}
	latest := earnings[len(earnings)-1]
	return models.LastQuarter{
		Period:   latest.Period,
		Revenue:  latest.Revenue,
		Earnings: latest.Earnings,
	}
}

// scoreNode computes the deterministic shortlist entry from evidence and
// price data.
func (s *Service) scoreNode(_ context.Context, state models.AnalysisState) (models.AnalysisState, error) {
	item := buildShortlist(state.UserProfile.RiskLevel, state.PriceData, state.Evidence)
	state.Shortlist = []models.ShortlistItem{item}
	return state, nil
}

// draftNode synthesizes the narrative draft and backfills it to the
// completeness contract. A failed completion call produces a draft built
// entirely from evidence and defaults.
func (s *Service) draftNode(ctx context.Context, state models.AnalysisState) (models.AnalysisState, error) {
	target := state.PriceData.Ticker
	if target == "" {
		target = companyQuery(state.LastUserText())
	}

	var draft models.Draft
	state.DraftRaw = ""

	response, err := s.completion.Complete(ctx, buildDraftPrompt(state, target))
	if err != nil {
		s.logger.Warn().Err(err).Msg("Draft synthesis failed")
	} else {
		draft, state.DraftRaw = parseDraft(response)
	}

	state.Draft = backfillDraft(draft, state.Evidence, state.LastQuarter)
	return state, nil
}

// validateNode runs the completeness check over the current draft.
func (s *Service) validateNode(_ context.Context, state models.AnalysisState) (models.AnalysisState, error) {
	state.Validation = validateDraft(state.Draft, state.DraftRaw)
	return state, nil
}

// onFailNode records a failed validation attempt and primes the supervisor
// with a reminder before the retry.
func (s *Service) onFailNode(_ context.Context, state models.AnalysisState) (models.AnalysisState, error) {
	state.RetryCount++
	state.Reminder = fmt.Sprintf("Validation failed: %s. Address the gaps this pass.",
		strings.Join(state.Validation.Reasons, "; "))
	s.logger.Info().Int("retry", state.RetryCount).Strs("reasons", state.Validation.Reasons).
		Msg("Draft validation failed, retrying")
	return state, nil
}
