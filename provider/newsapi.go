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

const newsAPIBaseURL = "https://newsapi.org/v2"

// defaultSearchTerm is sent when neither a text query nor a category
// narrows the request. Both upstream APIs reject empty searches.
const defaultSearchTerm = "news"

// NewsAPI queries a NewsAPI.org-style full-text search provider. Its
// native response shape already matches the canonical article model,
// so normalization is a pass-through.
type NewsAPI struct {
	apiKey   string
	language string
	pageSize int
	baseURL  string
	client   *http.Client
}

// NewNewsAPI creates a NewsAPI provider. An empty apiKey disables it.
func NewNewsAPI(apiKey, language string, pageSize int) *NewsAPI {
	return &NewsAPI{
		apiKey:   apiKey,
		language: language,
		pageSize: pageSize,
		baseURL:  newsAPIBaseURL,
		client:   defaultClient(),
	}
}

func (p *NewsAPI) Name() string { return "newsapi" }

func (p *NewsAPI) Enabled() bool { return p.apiKey != "" }

// BuildRequest constructs the upstream request for a (query, category)
// pair. A category with no text query becomes a category-scoped
// headline request; everything else goes through full-text search with
// the effective search string built from whichever inputs are present.
func (p *NewsAPI) BuildRequest(ctx context.Context, query, category string) (*http.Request, error) {
	query = strings.TrimSpace(query)
	scoped := category != "" && category != model.CategoryAll

	var endpoint string
	params := url.Values{}
	params.Set("pageSize", strconv.Itoa(p.pageSize))

	if scoped && query == "" {
		endpoint = p.baseURL + "/top-headlines"
		params.Set("category", category)
	} else {
		endpoint = p.baseURL + "/everything"
		q := defaultSearchTerm
		switch {
		case query != "" && scoped:
			q = query + " " + category
		case query != "":
			q = query
		case scoped:
			q = category
		}
		params.Set("q", q)
		params.Set("language", p.language)
		params.Set("sortBy", "publishedAt")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("X-Api-Key", p.apiKey)
	return req, nil
}

type newsAPIResponse struct {
	Status       string `json:"status"`
	Message      string `json:"message"`
	TotalResults int    `json:"totalResults"`
	Articles     []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		URLToImage  string `json:"urlToImage"`
		PublishedAt string `json:"publishedAt"`
		Source      struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"articles"`
}

// Normalize maps a raw response body into the canonical result. It is
// a pure field mapping: no filtering, no reordering.
func (p *NewsAPI) Normalize(body []byte) (*model.Result, error) {
	var raw newsAPIResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if raw.Status == "error" {
		return nil, fmt.Errorf("provider error: %s", raw.Message)
	}

	result := &model.Result{
		Status:       "ok",
		TotalResults: raw.TotalResults,
		Articles:     make([]model.Article, 0, len(raw.Articles)),
	}
	for _, a := range raw.Articles {
		source := a.Source.Name
		if source == "" {
			source = model.SourceUnknown
		}
		result.Articles = append(result.Articles, model.Article{
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			ImageURL:    a.URLToImage,
			SourceName:  source,
			PublishedAt: a.PublishedAt,
		})
	}
	return result, nil
}

// Fetch issues a single request; no retries.
func (p *NewsAPI) Fetch(ctx context.Context, query, category string) (*model.Result, error) {
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
