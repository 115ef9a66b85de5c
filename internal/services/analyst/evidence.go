package analyst

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/finsightapp/finsight/internal/models"
)

// normalizeEvidence turns heterogeneous search results into canonical
// evidence records. Field aliases are coalesced (title/heading/text,
// href/link/url, body/snippet/text), ids are assigned 1-based, and the
// source is the URL host with a leading "www." stripped. Missing fields
// default to empty strings; already-canonical input passes through
// unchanged apart from id assignment.
func normalizeEvidence(results []models.RawSearchResult) []models.Evidence {
	items := make([]models.Evidence, 0, len(results))
	for i, r := range results {
		title := firstNonEmpty(r.Title, r.Heading, r.Text)
		if title == "" {
			title = "News item"
		}
		link := firstNonEmpty(r.Href, r.Link, r.URL)
		snippet := firstNonEmpty(r.Body, r.Snippet, r.Text)

		items = append(items, models.Evidence{
			ID:      i + 1,
			Title:   title,
			URL:     link,
			Snippet: snippet,
			Source:  sourceFromURL(link),
		})
	}
	return items
}

// errorEvidence synthesizes a single record carrying a provider failure so
// downstream nodes see content rather than a broken state.
func errorEvidence(err error) []models.Evidence {
	return []models.Evidence{{
		ID:      1,
		Title:   "Search error",
		Snippet: err.Error(),
	}}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// sourceFromURL derives the source domain, or "" when the URL is absent or
// unparseable.
func sourceFromURL(link string) string {
	if link == "" {
		return ""
	}
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}

// evidenceBullets renders evidence records as citation bullets for prompts
// and backfill.
func evidenceBullets(evidence []models.Evidence) []string {
	bullets := make([]string, 0, len(evidence))
	for _, ev := range evidence {
		title := ev.Title
		if title == "" {
			title = "News item"
		}
		if ev.URL != "" {
			bullets = append(bullets, fmt.Sprintf("%s: %s (source: %s)", title, ev.Snippet, ev.URL))
		} else {
			bullets = append(bullets, fmt.Sprintf("%s: %s", title, ev.Snippet))
		}
	}
	return bullets
}
