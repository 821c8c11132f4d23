// Package view derives the visible page of articles from a fetched
// set and the current query state. The derivation is a pure pipeline
// re-run after every state change:
//
//	articles → byCategory → bySource → byDate → byText → sort → paginate
package view

import (
	"sort"
	"strings"
	"time"

	"github.com/okravets/newsdesk/model"
)

// Date range values.
const (
	DateAll   = "all"
	DateToday = "today"
	DateWeek  = "week"
	DateMonth = "month"
)

// Sort order values.
const (
	SortNewest = "newest"
	SortOldest = "oldest"
)

// DefaultPerPage matches the smallest page size the grid offered.
const DefaultPerPage = 6

// Query is the user-controlled filter/sort/pagination state.
type Query struct {
	Text      string
	Category  string
	Source    string
	DateRange string
	Sort      string
	Page      int
	PerPage   int
}

// Normalized fills zero values with their defaults.
func (q Query) Normalized() Query {
	if q.Category == "" {
		q.Category = model.CategoryAll
	}
	if q.Source == "" {
		q.Source = "all"
	}
	if q.DateRange == "" {
		q.DateRange = DateAll
	}
	if q.Sort == "" {
		q.Sort = SortNewest
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 {
		q.PerPage = DefaultPerPage
	}
	q.Text = strings.TrimSpace(q.Text)
	return q
}

// ResetsPage reports whether moving from q to next should return to
// page one. Text, category, source, and date changes reset; sort and
// page-size changes re-render in place.
func (q Query) ResetsPage(next Query) bool {
	q, next = q.Normalized(), next.Normalized()
	return q.Text != next.Text ||
		q.Category != next.Category ||
		q.Source != next.Source ||
		q.DateRange != next.DateRange
}

// EmptyState distinguishes the two ways a page can come up empty.
type EmptyState int

const (
	// EmptyNone means the current page has articles.
	EmptyNone EmptyState = iota
	// EmptyNoArticles means the provider fetch itself returned nothing.
	EmptyNoArticles
	// EmptyNoMatches means articles exist but the current filter
	// combination eliminated all of them.
	EmptyNoMatches
)

// View holds a fetched article set and its filtered derivation.
type View struct {
	all      []model.Article
	filtered []model.Article
	query    Query
	now      func() time.Time
}

// New creates a View over articles with the given query state and
// applies the pipeline.
func New(articles []model.Article, q Query) *View {
	return NewWithClock(articles, q, time.Now)
}

// NewWithClock is New with an injectable clock for the date filter.
func NewWithClock(articles []model.Article, q Query, clock func() time.Time) *View {
	v := &View{all: articles, query: q.Normalized(), now: clock}
	v.apply()
	return v
}

func (v *View) apply() {
	// Work on a copy so sorting never reorders the caller's slice.
	filtered := append([]model.Article(nil), v.all...)
	filtered = filterCategory(filtered, v.query.Category)
	filtered = filterSource(filtered, v.query.Source)
	filtered = filterDate(filtered, v.query.DateRange, v.now())
	filtered = filterText(filtered, v.query.Text)
	sortArticles(filtered, v.query.Sort)
	v.filtered = filtered
}

// Query returns the normalized query state driving the view.
func (v *View) Query() Query { return v.query }

// Filtered returns all articles surviving the filters, sorted.
func (v *View) Filtered() []model.Article { return v.filtered }

// Page returns the slice of filtered articles visible on the current
// page.
func (v *View) Page() []model.Article {
	start := (v.query.Page - 1) * v.query.PerPage
	if start >= len(v.filtered) {
		return nil
	}
	end := start + v.query.PerPage
	if end > len(v.filtered) {
		end = len(v.filtered)
	}
	return v.filtered[start:end]
}

// TotalPages returns the number of pages the filtered set spans.
func (v *View) TotalPages() int {
	if len(v.filtered) == 0 {
		return 0
	}
	return (len(v.filtered) + v.query.PerPage - 1) / v.query.PerPage
}

// Empty classifies an empty result so the caller can show the right
// message: nothing fetched at all versus nothing matching the filters.
func (v *View) Empty() EmptyState {
	switch {
	case len(v.all) == 0:
		return EmptyNoArticles
	case len(v.filtered) == 0:
		return EmptyNoMatches
	default:
		return EmptyNone
	}
}

func filterCategory(articles []model.Article, category string) []model.Article {
	if category == model.CategoryAll {
		return articles
	}
	out := articles[:0:0]
	for _, a := range articles {
		// Articles without a category never match a specific one.
		if a.Category == category {
			out = append(out, a)
		}
	}
	return out
}

func filterSource(articles []model.Article, source string) []model.Article {
	if source == "all" || source == "" {
		return articles
	}
	lowered := strings.ToLower(source)
	out := articles[:0:0]
	for _, a := range articles {
		name := strings.ToLower(a.SourceName)
		if name == lowered || strings.Contains(name, lowered) {
			out = append(out, a)
		}
	}
	return out
}

func filterDate(articles []model.Article, dateRange string, now time.Time) []model.Article {
	cutoff, ok := dateCutoff(dateRange, now)
	if !ok {
		return articles
	}
	out := articles[:0:0]
	for _, a := range articles {
		// An article without a usable date is excluded whenever a
		// date filter is active.
		ts, valid := a.PublishedTime()
		if valid && !ts.Before(cutoff) {
			out = append(out, a)
		}
	}
	return out
}

func dateCutoff(dateRange string, now time.Time) (time.Time, bool) {
	switch dateRange {
	case DateToday:
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location()), true
	case DateWeek:
		return now.AddDate(0, 0, -7), true
	case DateMonth:
		return now.AddDate(0, -1, 0), true
	default:
		return time.Time{}, false
	}
}

func filterText(articles []model.Article, text string) []model.Article {
	text = strings.TrimSpace(strings.ToLower(text))
	if text == "" {
		return articles
	}
	out := articles[:0:0]
	for _, a := range articles {
		if strings.Contains(strings.ToLower(a.Title), text) ||
			strings.Contains(strings.ToLower(a.Description), text) ||
			strings.Contains(strings.ToLower(a.SourceName), text) {
			out = append(out, a)
		}
	}
	return out
}

// sortArticles orders by published date. Articles with a missing or
// unparseable date always sort after dated ones, keeping their
// relative input order.
func sortArticles(articles []model.Article, order string) {
	desc := order != SortOldest
	sort.SliceStable(articles, func(i, j int) bool {
		ti, iOK := articles[i].PublishedTime()
		tj, jOK := articles[j].PublishedTime()
		switch {
		case iOK && jOK:
			if desc {
				return ti.After(tj)
			}
			return ti.Before(tj)
		case iOK:
			return true
		default:
			return false
		}
	})
}
