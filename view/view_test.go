package view

import (
	"fmt"
	"testing"
	"time"

	"github.com/okravets/newsdesk/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testClock = func() time.Time {
	return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
}

func stamp(daysAgo int) string {
	return testClock().AddDate(0, 0, -daysAgo).Format(time.RFC3339)
}

func testArticles() []model.Article {
	return []model.Article{
		{Title: "Quantum leap", Description: "physics story", URL: "https://a/1", SourceName: "BBC", PublishedAt: stamp(0), Category: "science"},
		{Title: "Transfer window", Description: "football story", URL: "https://a/2", SourceName: "CNN", PublishedAt: stamp(3), Category: "sports"},
		{Title: "Market rally", Description: "stocks story", URL: "https://a/3", SourceName: "BBC News", PublishedAt: stamp(10), Category: "business"},
		{Title: "Server outage", Description: "cloud story", URL: "https://a/4", SourceName: "Tech Daily", PublishedAt: stamp(40), Category: "technology"},
		{Title: "Mystery item", Description: "undated story", URL: "https://a/5", SourceName: "Wire"},
	}
}

func TestView_FilterCategory(t *testing.T) {
	v := NewWithClock(testArticles(), Query{Category: "sports"}, testClock)
	require.Len(t, v.Filtered(), 1)
	assert.Equal(t, "Transfer window", v.Filtered()[0].Title)

	// Uncategorized articles are excluded for any specific category,
	// but included for "all".
	v = NewWithClock(testArticles(), Query{Category: "all"}, testClock)
	assert.Len(t, v.Filtered(), 5)
}

func TestView_FilterSource(t *testing.T) {
	// Substring match, case-insensitive: "bbc" hits BBC and BBC News.
	v := NewWithClock(testArticles(), Query{Source: "bbc"}, testClock)
	assert.Len(t, v.Filtered(), 2)

	v = NewWithClock(testArticles(), Query{Source: "Tech Daily"}, testClock)
	require.Len(t, v.Filtered(), 1)
	assert.Equal(t, "Server outage", v.Filtered()[0].Title)
}

func TestView_FilterDate(t *testing.T) {
	tests := []struct {
		dateRange string
		want      int
	}{
		{DateAll, 5},
		{DateToday, 1},
		{DateWeek, 2},
		{DateMonth, 3},
	}

	for _, tt := range tests {
		t.Run(tt.dateRange, func(t *testing.T) {
			v := NewWithClock(testArticles(), Query{DateRange: tt.dateRange}, testClock)
			assert.Len(t, v.Filtered(), tt.want, "undated articles drop out whenever a range is active")
		})
	}
}

func TestView_FilterText(t *testing.T) {
	// Matches title, description, or source name.
	v := NewWithClock(testArticles(), Query{Text: "QUANTUM"}, testClock)
	require.Len(t, v.Filtered(), 1)

	v = NewWithClock(testArticles(), Query{Text: "story"}, testClock)
	assert.Len(t, v.Filtered(), 5)

	v = NewWithClock(testArticles(), Query{Text: "wire"}, testClock)
	require.Len(t, v.Filtered(), 1)
	assert.Equal(t, "Mystery item", v.Filtered()[0].Title)
}

func TestView_SortNewestPutsInvalidDatesLast(t *testing.T) {
	articles := []model.Article{
		{Title: "undated", URL: "https://a/1"},
		{Title: "older", URL: "https://a/2", PublishedAt: stamp(5)},
		{Title: "newer", URL: "https://a/3", PublishedAt: stamp(1)},
	}

	v := NewWithClock(articles, Query{Sort: SortNewest}, testClock)
	got := v.Filtered()
	require.Len(t, got, 3)
	assert.Equal(t, "newer", got[0].Title)
	assert.Equal(t, "older", got[1].Title)
	assert.Equal(t, "undated", got[2].Title)
}

func TestView_SortOldest(t *testing.T) {
	articles := []model.Article{
		{Title: "undated-a", URL: "https://a/1"},
		{Title: "newer", URL: "https://a/2", PublishedAt: stamp(1)},
		{Title: "undated-b", URL: "https://a/3", PublishedAt: "garbage"},
		{Title: "older", URL: "https://a/4", PublishedAt: stamp(5)},
	}

	v := NewWithClock(articles, Query{Sort: SortOldest}, testClock)
	got := v.Filtered()
	require.Len(t, got, 4)
	assert.Equal(t, "older", got[0].Title)
	assert.Equal(t, "newer", got[1].Title)
	// Invalid dates stay last and keep their relative input order.
	assert.Equal(t, "undated-a", got[2].Title)
	assert.Equal(t, "undated-b", got[3].Title)
}

func TestView_DoesNotMutateInput(t *testing.T) {
	articles := []model.Article{
		{Title: "older", URL: "https://a/1", PublishedAt: stamp(5)},
		{Title: "newer", URL: "https://a/2", PublishedAt: stamp(1)},
	}

	// All filters pass everything through; sorting would reverse the
	// input order if it happened in place.
	v := NewWithClock(articles, Query{Sort: SortNewest}, testClock)
	require.Len(t, v.Filtered(), 2)
	assert.Equal(t, "newer", v.Filtered()[0].Title)

	assert.Equal(t, "older", articles[0].Title)
	assert.Equal(t, "newer", articles[1].Title)
}

func TestView_Pagination(t *testing.T) {
	var articles []model.Article
	for i := 0; i < 14; i++ {
		articles = append(articles, model.Article{
			Title:       fmt.Sprintf("story %d", i),
			URL:         fmt.Sprintf("https://a/%d", i),
			PublishedAt: stamp(i),
		})
	}

	for page, wantLen := range map[int]int{1: 6, 2: 6, 3: 2} {
		v := NewWithClock(articles, Query{Page: page, PerPage: 6}, testClock)
		assert.Len(t, v.Page(), wantLen, "page %d", page)
		assert.Equal(t, 3, v.TotalPages())
	}

	// Past the end
	v := NewWithClock(articles, Query{Page: 4, PerPage: 6}, testClock)
	assert.Empty(t, v.Page())
}

func TestView_EmptyStates(t *testing.T) {
	v := NewWithClock(nil, Query{}, testClock)
	assert.Equal(t, EmptyNoArticles, v.Empty())
	assert.Equal(t, 0, v.TotalPages())

	v = NewWithClock(testArticles(), Query{Text: "no such thing"}, testClock)
	assert.Equal(t, EmptyNoMatches, v.Empty())

	v = NewWithClock(testArticles(), Query{}, testClock)
	assert.Equal(t, EmptyNone, v.Empty())
}

func TestQuery_ResetsPage(t *testing.T) {
	base := Query{Text: "go", Category: "technology", Sort: SortNewest, PerPage: 6}

	next := base
	next.Category = "science"
	assert.True(t, base.ResetsPage(next))

	next = base
	next.Text = "rust"
	assert.True(t, base.ResetsPage(next))

	next = base
	next.Source = "BBC"
	assert.True(t, base.ResetsPage(next))

	next = base
	next.DateRange = DateWeek
	assert.True(t, base.ResetsPage(next))

	// Sort and page-size changes re-render in place.
	next = base
	next.Sort = SortOldest
	assert.False(t, base.ResetsPage(next))

	next = base
	next.PerPage = 12
	assert.False(t, base.ResetsPage(next))
}

func TestQuery_Normalized(t *testing.T) {
	q := Query{}.Normalized()
	assert.Equal(t, "all", q.Category)
	assert.Equal(t, "all", q.Source)
	assert.Equal(t, DateAll, q.DateRange)
	assert.Equal(t, SortNewest, q.Sort)
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, DefaultPerPage, q.PerPage)

	q = Query{Text: "  padded  "}.Normalized()
	assert.Equal(t, "padded", q.Text)
}
