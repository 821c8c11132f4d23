package provider

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/okravets/newsdesk/model"
)

// Aggregator tries providers in priority order and returns the first
// usable normalized result. It never returns an error: when every
// provider is disabled, fails, or comes back empty, it falls back to
// the offline placeholder dataset, so callers always get something
// render-able.
type Aggregator struct {
	providers []Provider

	// Logf receives provider failure notices. Defaults to stderr.
	Logf func(format string, v ...interface{})

	// Clock feeds the placeholder dataset's timestamps; injectable
	// for deterministic tests.
	Clock func() time.Time
}

// New creates an Aggregator over the given providers, in fallback
// order. The order is a policy choice (full-text search first), not
// derived from the input.
func New(providers ...Provider) *Aggregator {
	return &Aggregator{
		providers: providers,
		Logf: func(format string, v ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", v...)
		},
		Clock: time.Now,
	}
}

// Fetch resolves a (query, category) pair to a normalized result.
// Providers are attempted strictly sequentially, each at most once.
// A transport failure, an upstream error, or an empty article set
// moves on to the next candidate. Cancel via ctx to abandon the chain.
func (a *Aggregator) Fetch(ctx context.Context, query, category string) *model.Result {
	query = strings.TrimSpace(query)
	if category == "" {
		category = model.CategoryAll
	}

	for _, p := range a.providers {
		if !p.Enabled() {
			continue
		}
		if ctx.Err() != nil {
			break
		}

		result, err := p.Fetch(ctx, query, category)
		if err != nil {
			a.Logf("%s: %v", p.Name(), err)
			continue
		}
		if result == nil || len(result.Articles) == 0 {
			a.Logf("%s: no articles", p.Name())
			continue
		}

		backfillCategory(result.Articles, category)
		return result
	}

	return Placeholder(query, category, a.Clock())
}

// backfillCategory stamps the requested category onto articles that
// arrived without one. No-op when browsing all categories.
func backfillCategory(articles []model.Article, category string) {
	if category == model.CategoryAll {
		return
	}
	for i := range articles {
		if articles[i].Category == "" {
			articles[i].Category = category
		}
	}
}
