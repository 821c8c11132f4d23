package provider

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/okravets/newsdesk/model"
)

// Feed is a single configured RSS/Atom source. Category tags the whole
// feed; RSS has no server-side search, so query and category matching
// happen client-side after fetching.
type Feed struct {
	URL      string
	Category string
}

// RSS serves configured feeds as a provider in the fallback chain. It
// is disabled when no feeds are configured.
type RSS struct {
	feeds  []Feed
	parser *gofeed.Parser
}

// NewRSS creates an RSS provider over the given feeds.
func NewRSS(feeds []Feed) *RSS {
	return &RSS{
		feeds:  feeds,
		parser: gofeed.NewParser(),
	}
}

func (p *RSS) Name() string { return "rss" }

func (p *RSS) Enabled() bool { return len(p.feeds) > 0 }

// Fetch pulls every matching feed and filters items by the text query.
// Individual feed failures are tolerated as long as at least one feed
// yields articles; the error is returned only when all of them fail.
func (p *RSS) Fetch(ctx context.Context, query, category string) (*model.Result, error) {
	query = strings.TrimSpace(strings.ToLower(query))
	scoped := category != "" && category != model.CategoryAll

	var (
		articles []model.Article
		lastErr  error
		fetched  int
	)

	for _, f := range p.feeds {
		if scoped && f.Category != category {
			continue
		}

		parsed, err := p.parser.ParseURLWithContext(f.URL, ctx)
		if err != nil {
			lastErr = fmt.Errorf("fetching %s: %w", f.URL, err)
			continue
		}
		fetched++

		for _, item := range parsed.Items {
			a := convertItem(item, parsed.Title, f.Category)
			if query != "" && !matchesQuery(a, query) {
				continue
			}
			articles = append(articles, a)
		}
	}

	if fetched == 0 {
		if lastErr != nil {
			return nil, lastErr
		}
		return nil, fmt.Errorf("no feeds configured for category %q", category)
	}

	return &model.Result{
		Status:       "ok",
		TotalResults: len(articles),
		Articles:     articles,
	}, nil
}

func convertItem(item *gofeed.Item, feedTitle, category string) model.Article {
	source := feedTitle
	if source == "" {
		source = model.SourceUnknown
	}

	var published string
	if item.PublishedParsed != nil {
		published = item.PublishedParsed.Format(time.RFC3339)
	} else if item.UpdatedParsed != nil {
		published = item.UpdatedParsed.Format(time.RFC3339)
	}

	var image string
	if item.Image != nil {
		image = item.Image.URL
	}

	return model.Article{
		Title:       item.Title,
		Description: item.Description,
		URL:         item.Link,
		ImageURL:    image,
		SourceName:  source,
		PublishedAt: published,
		Category:    category,
	}
}

func matchesQuery(a model.Article, lowered string) bool {
	return strings.Contains(strings.ToLower(a.Title), lowered) ||
		strings.Contains(strings.ToLower(a.Description), lowered)
}
