package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/okravets/newsdesk/model"
)

const gnewsBaseURL = "https://gnews.io/api/v4"

// GNews queries a GNews-style topic search provider. GNews rejects
// requests carrying neither a search term nor a topic, so the builder
// always supplies at least one.
type GNews struct {
	apiKey   string
	language string
	max      int
	baseURL  string
	client   *http.Client
}

// NewGNews creates a GNews provider. An empty apiKey disables it.
func NewGNews(apiKey, language string, max int) *GNews {
	return &GNews{
		apiKey:   apiKey,
		language: language,
		max:      max,
		baseURL:  gnewsBaseURL,
		client:   defaultClient(),
	}
}

func (p *GNews) Name() string { return "gnews" }

func (p *GNews) Enabled() bool { return p.apiKey != "" }

// BuildRequest always targets the search endpoint. A selected category
// is passed as a topic tag, with the text query alongside it only when
// present; without a category the text query (or the default term)
// becomes the search string.
func (p *GNews) BuildRequest(ctx context.Context, query, category string) (*http.Request, error) {
	query = strings.TrimSpace(query)

	params := url.Values{}
	params.Set("apikey", p.apiKey)
	params.Set("lang", p.language)
	params.Set("max", strconv.Itoa(p.max))

	if category != "" && category != model.CategoryAll {
		params.Set("topic", category)
		if query != "" {
			params.Set("q", query)
		}
	} else if query != "" {
		params.Set("q", query)
	} else {
		params.Set("q", defaultSearchTerm)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	return req, nil
}

type gnewsResponse struct {
	Errors        []string `json:"errors"`
	TotalArticles int      `json:"totalArticles"`
	Articles      []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		Image       string `json:"image"`
		PublishedAt string `json:"publishedAt"`
		Category    string `json:"category"`
		Source      struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"articles"`
}

// Normalize maps the GNews shape onto the canonical one: image becomes
// imageUrl, totalArticles becomes totalResults, the source name
// defaults to "Unknown" and the category to "all" when absent.
func (p *GNews) Normalize(body []byte) (*model.Result, error) {
	var raw gnewsResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if len(raw.Errors) > 0 {
		return nil, fmt.Errorf("provider error: %s", strings.Join(raw.Errors, "; "))
	}

	result := &model.Result{
		Status:       "ok",
		TotalResults: raw.TotalArticles,
		Articles:     make([]model.Article, 0, len(raw.Articles)),
	}
	for _, a := range raw.Articles {
		source := a.Source.Name
		if source == "" {
			source = model.SourceUnknown
		}
		category := a.Category
		if category == "" {
			category = model.CategoryAll
		}
		result.Articles = append(result.Articles, model.Article{
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			ImageURL:    a.Image,
			SourceName:  source,
			PublishedAt: a.PublishedAt,
			Category:    category,
		})
	}
	return result, nil
}

func (p *GNews) Fetch(ctx context.Context, query, category string) (*model.Result, error) {
	req, err := p.BuildRequest(ctx, query, category)
	if err != nil {
		return nil, err
	}
	body, err := doRequest(p.client, req)
	if err != nil {
		return nil, err
	}
	return p.Normalize(body)
}
