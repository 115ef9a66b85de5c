package analyst

import (
	"context"
	"regexp"
	"strings"
)

// commonWords are tokens that look like tickers but never are.
var commonWords = map[string]struct{}{
	"I": {}, "A": {}, "AN": {}, "THE": {}, "SHOULD": {}, "INVEST": {}, "IN": {},
	"BUY": {}, "SELL": {}, "FOR": {}, "IS": {}, "IT": {}, "NOW": {}, "STOCK": {},
	"SHARES": {}, "PRICE": {}, "ANALYZE": {},
}

var (
	cashtagRe  = regexp.MustCompile(`\$([A-Z]{1,5})\b`)
	parenRe    = regexp.MustCompile(`\(([A-Z]{1,5})\)`)
	upperRunRe = regexp.MustCompile(`\b[A-Z]{2,6}\b`)
	wordRe     = regexp.MustCompile(`[A-Za-z0-9&.]+`)
)

// extractTicker pulls an explicit ticker symbol out of free text.
// Precedence: $CASHTAG, then (PAREN) form, then a scan of fully-uppercase
// alphabetic tokens of length 2-5 that are not common words. Returns ""
// when nothing qualifies. Deterministic for identical input.
func extractTicker(question string) string {
	if m := cashtagRe.FindStringSubmatch(question); m != nil {
		return m[1]
	}
	if m := parenRe.FindStringSubmatch(question); m != nil {
		return m[1]
	}

	for _, raw := range strings.Fields(question) {
		token := strings.Trim(raw, ".,!?()[]{}")
		if token == "" || !isAlpha(token) {
			continue
		}
		if token != strings.ToUpper(token) {
			continue
		}
		if len(token) < 2 || len(token) > 5 {
			continue
		}
		if _, ok := commonWords[token]; ok {
			continue
		}
		return token
	}
	return ""
}

func isAlpha(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}

// companyQuery derives a company-name search query from a question that has
// no explicit ticker. Prefers the longest run of 2-6 consecutive uppercase
// letters; otherwise the last non-stopword token (longest token when every
// token is a stopword).
func companyQuery(question string) string {
	if runs := upperRunRe.FindAllString(question, -1); len(runs) > 0 {
		longest := runs[0]
		for _, run := range runs[1:] {
			if len(run) > len(longest) {
				longest = run
			}
		}
		return longest
	}

	words := wordRe.FindAllString(question, -1)
	if len(words) == 0 {
		return ""
	}

	var filtered []string
	for _, w := range words {
		if _, ok := commonWords[strings.ToUpper(w)]; !ok {
			filtered = append(filtered, w)
		}
	}
	if len(filtered) > 0 {
		return filtered[len(filtered)-1]
	}

	longest := words[0]
	for _, w := range words[1:] {
		if len(w) > len(longest) {
			longest = w
		}
	}
	return longest
}

// resolveTarget resolves a question to a (ticker, companyName) pair. An
// explicit ticker wins outright; otherwise the derived company query goes
// through the provider's symbol search and the first match is taken. Lookup
// failures yield empty results, never an error.
func (s *Service) resolveTarget(ctx context.Context, question string) (string, string) {
	if ticker := extractTicker(question); ticker != "" {
		return ticker, ""
	}

	query := companyQuery(question)
	if query == "" {
		query = question
	}

	matches, err := s.market.SearchSymbols(ctx, query)
	if err != nil || len(matches) == 0 {
		if err != nil {
			s.logger.Debug().Str("query", query).Err(err).Msg("Symbol search failed")
		}
		return "", ""
	}

	first := matches[0]
	return first.Symbol, first.DisplayName()
}
