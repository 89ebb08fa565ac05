package usecase

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"news-retriever/internal/domain"
)

func formatterPassage(title string) domain.Passage {
	return domain.Passage{
		ID:           uuid.New(),
		Content:      "Some passage content.",
		Title:        title,
		URL:          "https://news.example.com/x",
		SourceDomain: "news.example.com",
		PublishedAt:  time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC),
	}
}

func TestFormatPassages_Empty(t *testing.T) {
	block, sources := FormatPassages(nil)

	assert.Equal(t, "No relevant passages found.", block)
	assert.Empty(t, sources)
}

func TestFormatPassages_MarkersAlignWithSources(t *testing.T) {
	passages := []domain.Passage{
		formatterPassage("First Story"),
		formatterPassage("Second Story"),
		formatterPassage("Third Story"),
	}

	block, sources := FormatPassages(passages)

	require.Len(t, sources, 3)
	for i, s := range sources {
		assert.Equal(t, i+1, s.Index)
		assert.Contains(t, block, fmt.Sprintf("[%d] %s", i+1, passages[i].Title))
	}

	lines := strings.Split(block, "\n\n")
	assert.Len(t, lines, 3)
}

func TestFormatPassages_Fallbacks(t *testing.T) {
	p := domain.Passage{
		ID:      uuid.New(),
		Content: "Anonymous content.",
	}

	block, sources := FormatPassages([]domain.Passage{p})

	assert.Contains(t, block, "[1] Untitled (unknown, recent)")
	require.Len(t, sources, 1)
	assert.Equal(t, "Untitled", sources[0].Title)
	assert.Equal(t, "unknown", sources[0].SourceDomain)
	assert.Equal(t, "", sources[0].PublishedAt)
}

func TestFormatPassages_PublishedDateFormats(t *testing.T) {
	p := formatterPassage("Dated Story")

	block, sources := FormatPassages([]domain.Passage{p})

	assert.Contains(t, block, "2026-08-15")
	require.Len(t, sources, 1)
	assert.Equal(t, "2026-08-15T12:00:00Z", sources[0].PublishedAt)
}

func TestFormatPassages_LongContentTruncated(t *testing.T) {
	p := formatterPassage("Long Story")
	p.Content = strings.Repeat("x", 1000)

	block, _ := FormatPassages([]domain.Passage{p})

	assert.Contains(t, block, strings.Repeat("x", snippetMaxRunes)+"...")
	assert.NotContains(t, block, strings.Repeat("x", snippetMaxRunes+1))
}

func TestFormatPassages_MultibyteContentTruncatedAtRunes(t *testing.T) {
	p := formatterPassage("Japanese Story")
	p.Content = strings.Repeat("日", 500)

	block, _ := FormatPassages([]domain.Passage{p})

	assert.Contains(t, block, strings.Repeat("日", snippetMaxRunes)+"...")
	assert.NotContains(t, block, strings.Repeat("日", snippetMaxRunes+1))
}
