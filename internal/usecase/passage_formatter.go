package usecase

import (
	"fmt"
	"strings"
	"time"

	"news-retriever/internal/domain"
)

const snippetMaxRunes = 400

// SourceRef is one entry in the numbered citation list. Index matches the
// [i] marker of the corresponding line in the formatted context block.
type SourceRef struct {
	Index        int    `json:"index"`
	Title        string `json:"title"`
	URL          string `json:"url"`
	SourceDomain string `json:"source_domain"`
	// PublishedAt is RFC3339, or empty when the article has no timestamp.
	PublishedAt string `json:"published_at,omitempty"`
}

// FormatPassages renders retrieved passages as a numbered context block
// for prompt grounding, plus a parallel source list for citations. The
// [i] markers and the source Index fields stay aligned by construction.
func FormatPassages(passages []domain.Passage) (string, []SourceRef) {
	if len(passages) == 0 {
		return "No relevant passages found.", []SourceRef{}
	}

	lines := make([]string, 0, len(passages))
	sources := make([]SourceRef, 0, len(passages))

	for i, p := range passages {
		title := p.Title
		if title == "" {
			title = "Untitled"
		}
		sourceDomain := p.SourceDomain
		if sourceDomain == "" {
			sourceDomain = "unknown"
		}

		dateStr := "recent"
		publishedAt := ""
		if !p.PublishedAt.IsZero() {
			dateStr = p.PublishedAt.Format("2006-01-02")
			publishedAt = p.PublishedAt.Format(time.RFC3339)
		}

		lines = append(lines, fmt.Sprintf("[%d] %s (%s, %s) — %s",
			i+1, title, sourceDomain, dateStr, snippet(p.Content)))

		sources = append(sources, SourceRef{
			Index:        i + 1,
			Title:        title,
			URL:          p.URL,
			SourceDomain: sourceDomain,
			PublishedAt:  publishedAt,
		})
	}

	return strings.Join(lines, "\n\n"), sources
}

// snippet caps content at snippetMaxRunes runes so one long passage
// cannot dominate the prompt.
func snippet(content string) string {
	runes := []rune(content)
	if len(runes) <= snippetMaxRunes {
		return content
	}
	return string(runes[:snippetMaxRunes]) + "..."
}
