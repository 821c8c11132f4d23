// Package model defines the core data structures for newsdesk.
package model

import (
	"errors"
	"time"
)

// SourceUnknown is the source name used when a provider omits one.
const SourceUnknown = "Unknown"

// CategoryAll matches every category; it is also the default.
const CategoryAll = "all"

// Categories lists the selectable news categories, CategoryAll excluded.
var Categories = []string{
	"technology",
	"sports",
	"business",
	"entertainment",
	"health",
	"science",
}

// ValidCategory reports whether s is a known category or CategoryAll.
func ValidCategory(s string) bool {
	if s == CategoryAll {
		return true
	}
	for _, c := range Categories {
		if c == s {
			return true
		}
	}
	return false
}

// Article is the canonical, provider-independent article shape.
// URL is the sole identity key: two articles with equal URLs are the
// same article regardless of other field differences.
type Article struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url"`
	ImageURL    string `json:"imageUrl,omitempty"`
	SourceName  string `json:"sourceName"`
	PublishedAt string `json:"publishedAt,omitempty"`
	Category    string `json:"category,omitempty"`
}

// Validate checks if the article has required fields.
func (a *Article) Validate() error {
	if a.URL == "" {
		return errors.New("article URL is required")
	}
	if a.Title == "" {
		return errors.New("article title is required")
	}
	return nil
}

// PublishedTime parses PublishedAt. ok is false when the timestamp is
// missing or malformed; such articles sort after any dated article.
func (a *Article) PublishedTime() (t time.Time, ok bool) {
	if a.PublishedAt == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, a.PublishedAt)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Result is a normalized provider response.
type Result struct {
	Status       string    `json:"status"`
	TotalResults int       `json:"totalResults"`
	Articles     []Article `json:"articles"`
}

// OK reports whether the result carries a usable article set.
func (r *Result) OK() bool {
	return r != nil && r.Status == "ok" && len(r.Articles) > 0
}
