package provider

import (
	"strings"
	"testing"
	"time"

	"github.com/okravets/newsdesk/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var placeholderClock = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestPlaceholder_CategoryFilter(t *testing.T) {
	result := Placeholder("", "technology", placeholderClock)

	assert.Equal(t, "ok", result.Status)
	require.NotEmpty(t, result.Articles)
	assert.Equal(t, len(result.Articles), result.TotalResults)
	for _, a := range result.Articles {
		assert.Equal(t, "technology", a.Category)
	}
}

func TestPlaceholder_QueryFilter(t *testing.T) {
	result := Placeholder("квант", "all", placeholderClock)

	require.NotEmpty(t, result.Articles)
	for _, a := range result.Articles {
		text := strings.ToLower(a.Title + " " + a.Description)
		assert.Contains(t, text, "квант")
	}
}

func TestPlaceholder_QueryFilterIsCaseInsensitive(t *testing.T) {
	lower := Placeholder("квант", "all", placeholderClock)
	upper := Placeholder("КВАНТ", "all", placeholderClock)
	assert.Equal(t, len(lower.Articles), len(upper.Articles))
}

func TestPlaceholder_AllCategoriesIncludesGeneral(t *testing.T) {
	result := Placeholder("", "all", placeholderClock)

	total := len(model.Categories)*5 + len(generalTitles)
	assert.Len(t, result.Articles, total)
}

func TestPlaceholder_GeneralTitlesCarryQuery(t *testing.T) {
	result := Placeholder("Світові", "all", placeholderClock)

	require.NotEmpty(t, result.Articles)
	found := false
	for _, a := range result.Articles {
		if a.Category == model.CategoryAll && strings.HasPrefix(a.Title, "Світові - ") {
			found = true
		}
	}
	assert.True(t, found, "general entries prefix the query onto their titles")
}

func TestPlaceholder_Deterministic(t *testing.T) {
	a := Placeholder("", "sports", placeholderClock)
	b := Placeholder("", "sports", placeholderClock)
	assert.Equal(t, a, b)
}

func TestPlaceholder_StableURLs(t *testing.T) {
	result := Placeholder("", "all", placeholderClock)

	seen := make(map[string]bool)
	for _, a := range result.Articles {
		require.NotEmpty(t, a.URL)
		assert.False(t, seen[a.URL], "placeholder URLs must be unique: %s", a.URL)
		seen[a.URL] = true
	}
}
