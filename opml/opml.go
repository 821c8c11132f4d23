// Package opml imports and exports the configured RSS feed list as
// OPML, the common subscription exchange format.
package opml

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/okravets/newsdesk/config"
)

// OPML represents the root OPML structure.
type OPML struct {
	XMLName xml.Name `xml:"opml"`
	Version string   `xml:"version,attr"`
	Head    Head     `xml:"head"`
	Body    Body     `xml:"body"`
}

// Head contains metadata about the OPML document.
type Head struct {
	Title       string `xml:"title,omitempty"`
	DateCreated string `xml:"dateCreated,omitempty"`
}

// Body contains the outline elements (feeds).
type Body struct {
	Outlines []Outline `xml:"outline"`
}

// Outline represents a feed or category in OPML.
type Outline struct {
	Text     string    `xml:"text,attr,omitempty"`
	Title    string    `xml:"title,attr,omitempty"`
	Type     string    `xml:"type,attr,omitempty"`
	XMLUrl   string    `xml:"xmlUrl,attr,omitempty"`
	Category string    `xml:"category,attr,omitempty"`
	Outlines []Outline `xml:"outline,omitempty"`
}

// Parse reads an OPML document and extracts feed subscriptions.
// Nested outlines inherit the enclosing outline's text as their
// category when they carry none of their own.
func Parse(r io.Reader) ([]config.Feed, error) {
	var doc OPML
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse OPML: %w", err)
	}
	return extractFeeds(doc.Body.Outlines, ""), nil
}

func extractFeeds(outlines []Outline, parentCategory string) []config.Feed {
	var feeds []config.Feed

	for _, outline := range outlines {
		if outline.XMLUrl != "" {
			category := outline.Category
			if category == "" {
				category = parentCategory
			}
			feeds = append(feeds, config.Feed{
				URL:      outline.XMLUrl,
				Category: strings.ToLower(category),
			})
		}

		if len(outline.Outlines) > 0 {
			categoryForChildren := outline.Text
			if categoryForChildren == "" {
				categoryForChildren = parentCategory
			}
			feeds = append(feeds, extractFeeds(outline.Outlines, categoryForChildren)...)
		}
	}

	return feeds
}

// Generate writes the feed list as an OPML document, grouping feeds
// by category.
func Generate(w io.Writer, feeds []config.Feed) error {
	categories := make(map[string][]config.Feed)
	var order []string
	var uncategorized []config.Feed

	for _, feed := range feeds {
		if feed.Category == "" {
			uncategorized = append(uncategorized, feed)
			continue
		}
		if _, seen := categories[feed.Category]; !seen {
			order = append(order, feed.Category)
		}
		categories[feed.Category] = append(categories[feed.Category], feed)
	}

	doc := OPML{
		Version: "2.0",
		Head: Head{
			Title:       "newsdesk feeds",
			DateCreated: time.Now().Format(time.RFC1123),
		},
	}

	for _, category := range order {
		group := Outline{Text: category, Title: category}
		for _, feed := range categories[category] {
			group.Outlines = append(group.Outlines, Outline{
				Type:     "rss",
				Text:     feed.URL,
				XMLUrl:   feed.URL,
				Category: feed.Category,
			})
		}
		doc.Body.Outlines = append(doc.Body.Outlines, group)
	}

	for _, feed := range uncategorized {
		doc.Body.Outlines = append(doc.Body.Outlines, Outline{
			Type:   "rss",
			Text:   feed.URL,
			XMLUrl: feed.URL,
		})
	}

	if _, err := w.Write([]byte(xml.Header)); err != nil {
		return fmt.Errorf("failed to write XML header: %w", err)
	}

	encoder := xml.NewEncoder(w)
	encoder.Indent("", "  ")
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode OPML: %w", err)
	}

	if _, err := w.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write final newline: %w", err)
	}

	return nil
}
