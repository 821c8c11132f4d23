package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/okravets/newsdesk/config"
	"github.com/okravets/newsdesk/model"
	"github.com/okravets/newsdesk/opml"
	"github.com/okravets/newsdesk/output"
	"github.com/okravets/newsdesk/provider"
	"github.com/okravets/newsdesk/store"
	"github.com/okravets/newsdesk/view"
	"github.com/urfave/cli/v2"
)

const (
	ExitSuccess      = 0
	ExitGeneralError = 1
	ExitUsageError   = 2
	ExitDataError    = 3
)

func main() {
	app := &cli.App{
		Name:    "newsdesk",
		Usage:   "A multi-provider news aggregator",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "db",
				Value:   config.DefaultDBPath(),
				Usage:   "Database file path",
				EnvVars: []string{"NEWSDESK_DB"},
			},
			&cli.StringFlag{
				Name:    "config",
				Value:   config.DefaultPath(),
				Usage:   "Config file path",
				EnvVars: []string{"NEWSDESK_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "user",
				Aliases: []string{"u"},
				Value:   "default",
				Usage:   "Local user owning favorites",
				EnvVars: []string{"NEWSDESK_USER"},
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Machine-readable JSON output",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable colored output",
			},
		},
		DefaultCommand: "news",
		Commands: []*cli.Command{
			{
				Name:  "news",
				Usage: "Fetch and display news",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "query",
						Aliases: []string{"q"},
						Usage:   "Search text (2-100 characters)",
					},
					&cli.StringFlag{
						Name:    "category",
						Aliases: []string{"c"},
						Usage:   "Category filter (technology, sports, business, entertainment, health, science, all)",
					},
					&cli.StringFlag{
						Name:    "source",
						Aliases: []string{"s"},
						Usage:   "Source name filter (substring match)",
					},
					&cli.StringFlag{
						Name:    "date",
						Aliases: []string{"d"},
						Usage:   "Date range (all, today, week, month)",
					},
					&cli.StringFlag{
						Name:  "sort",
						Usage: "Sort order (newest, oldest)",
					},
					&cli.IntFlag{
						Name:    "page",
						Aliases: []string{"p"},
						Usage:   "Page number",
					},
					&cli.IntFlag{
						Name:  "per-page",
						Usage: "Articles per page",
					},
					&cli.BoolFlag{
						Name:    "refresh",
						Aliases: []string{"r"},
						Usage:   "Fetch from providers even when cached articles exist",
					},
				},
				Action: newsAction,
			},
			{
				Name:  "favorites",
				Usage: "Manage favorited articles",
				Subcommands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "List favorites",
						Action: listFavorites,
					},
					{
						Name:      "add",
						Usage:     "Favorite an article by URL",
						ArgsUsage: "<url>",
						Action:    addFavorite,
					},
					{
						Name:      "remove",
						Usage:     "Remove a favorite by URL",
						ArgsUsage: "<url>",
						Action:    removeFavorite,
					},
				},
			},
			{
				Name:   "sources",
				Usage:  "List source names seen so far",
				Action: listSources,
			},
			{
				Name:   "stats",
				Usage:  "Show per-category article counts",
				Action: showStats,
			},
			{
				Name:   "reset",
				Usage:  "Clear the saved search state",
				Action: resetState,
			},
			{
				Name:  "feeds",
				Usage: "Manage configured RSS feeds",
				Subcommands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "List configured feeds",
						Action: listFeeds,
					},
					{
						Name:      "import",
						Usage:     "Import feeds from an OPML file",
						ArgsUsage: "<opml-file>",
						Action:    importFeeds,
					},
					{
						Name:  "export",
						Usage: "Export feeds to OPML",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:    "output",
								Aliases: []string{"o"},
								Usage:   "Output file (default: stdout)",
							},
						},
						Action: exportFeeds,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitGeneralError)
	}
}

func newPrinter(c *cli.Context) *output.Printer {
	useColors := output.ResolveColors() && !c.Bool("no-color")
	return output.NewPrinter(useColors)
}

func openStore(c *cli.Context) (*store.Store, error) {
	s, err := store.New(c.String("db"))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return s, nil
}

// savedQuery restores the query state persisted by previous runs, with
// per-key defaults for first use.
func savedQuery(s *store.Store) view.Query {
	text, _ := s.Pref(store.PrefLastSearch, "")
	category, _ := s.Pref(store.PrefLastCategory, model.CategoryAll)
	source, _ := s.Pref(store.PrefSource, "all")
	dateRange, _ := s.Pref(store.PrefDateRange, view.DateAll)
	sortOrder, _ := s.Pref(store.PrefSort, view.SortNewest)
	page, _ := s.Pref(store.PrefPage, "1")
	perPage, _ := s.Pref(store.PrefPerPage, "")

	q := view.Query{
		Text:      text,
		Category:  category,
		Source:    source,
		DateRange: dateRange,
		Sort:      sortOrder,
		Page:      atoiOr(page, 1),
		PerPage:   atoiOr(perPage, view.DefaultPerPage),
	}
	return q.Normalized()
}

func saveQuery(s *store.Store, q view.Query) error {
	prefs := []struct {
		key   string
		value string
	}{
		{store.PrefLastSearch, q.Text},
		{store.PrefLastCategory, q.Category},
		{store.PrefSource, q.Source},
		{store.PrefDateRange, q.DateRange},
		{store.PrefSort, q.Sort},
		{store.PrefPage, fmt.Sprintf("%d", q.Page)},
		{store.PrefPerPage, fmt.Sprintf("%d", q.PerPage)},
	}
	for _, p := range prefs {
		if err := s.SetPref(p.key, p.value); err != nil {
			return fmt.Errorf("failed to save preference %s: %w", p.key, err)
		}
	}
	return nil
}

func atoiOr(s string, fallback int) int {
	var n int
	if _, err := fmt.Sscanf(s, "%d", &n); err != nil || n < 1 {
		return fallback
	}
	return n
}

// mergeQueryFlags overlays explicitly set flags onto the saved state
// and decides whether the page resets. Filter changes return to page
// one; sort and page-size changes re-render in place.
func mergeQueryFlags(c *cli.Context, saved view.Query) (view.Query, error) {
	q := saved

	if c.IsSet("query") {
		raw := c.String("query")
		if strings.TrimSpace(raw) == "" {
			q.Text = ""
		} else {
			trimmed, err := config.ValidateSearchQuery(raw)
			if err != nil {
				return q, err
			}
			q.Text = trimmed
		}
	}
	if c.IsSet("category") {
		category := strings.ToLower(c.String("category"))
		if !model.ValidCategory(category) {
			return q, fmt.Errorf("unknown category %q", category)
		}
		q.Category = category
	}
	if c.IsSet("source") {
		q.Source = c.String("source")
	}
	if c.IsSet("date") {
		dateRange := strings.ToLower(c.String("date"))
		switch dateRange {
		case view.DateAll, view.DateToday, view.DateWeek, view.DateMonth:
			q.DateRange = dateRange
		default:
			return q, fmt.Errorf("unknown date range %q", dateRange)
		}
	}
	if c.IsSet("sort") {
		sortOrder := strings.ToLower(c.String("sort"))
		if sortOrder != view.SortNewest && sortOrder != view.SortOldest {
			return q, fmt.Errorf("unknown sort order %q", sortOrder)
		}
		q.Sort = sortOrder
	}
	if c.IsSet("per-page") {
		perPage := c.Int("per-page")
		if perPage < 1 {
			return q, errors.New("per-page must be at least 1")
		}
		q.PerPage = perPage
	}

	if saved.ResetsPage(q) {
		q.Page = 1
	}
	if c.IsSet("page") {
		page := c.Int("page")
		if page < 1 {
			return q, errors.New("page must be at least 1")
		}
		q.Page = page
	}

	return q.Normalized(), nil
}

func buildAggregator(cfg *config.Config, p *output.Printer) *provider.Aggregator {
	feeds := make([]provider.Feed, 0, len(cfg.Feeds))
	for _, f := range cfg.Feeds {
		feeds = append(feeds, provider.Feed{URL: f.URL, Category: f.Category})
	}

	agg := provider.New(
		provider.NewNewsAPI(cfg.NewsAPIKey, cfg.Language, cfg.PageSize),
		provider.NewGNews(cfg.GNewsKey, cfg.Language, cfg.PageSize),
		provider.NewRSS(feeds),
	)
	agg.Logf = p.Warnf
	return agg
}

func newsAction(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}

	s, err := openStore(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer s.Close()

	p := newPrinter(c)

	q, err := mergeQueryFlags(c, savedQuery(s))
	if err != nil {
		return cli.Exit(err.Error(), ExitUsageError)
	}

	// A plain invocation re-filters the cached set; a new search, a new
	// category, or --refresh goes back to the providers.
	var articles []model.Article
	if !c.Bool("refresh") && !c.IsSet("query") && !c.IsSet("category") {
		cached, err := s.Articles()
		if err != nil {
			p.Warnf("failed to read cached articles: %v", err)
		}
		articles = cached
	}

	if len(articles) == 0 {
		result := buildAggregator(cfg, p).Fetch(c.Context, q.Text, q.Category)
		if err := s.CacheArticles(result.Articles); err != nil {
			p.Warnf("failed to cache articles: %v", err)
		}
		articles = result.Articles
	}

	v := view.New(articles, q)
	if err := saveQuery(s, v.Query()); err != nil {
		p.Warnf("%v", err)
	}

	if c.Bool("json") {
		return p.JSON(map[string]interface{}{
			"query":       q.Text,
			"category":    q.Category,
			"page":        q.Page,
			"total_pages": v.TotalPages(),
			"count":       len(v.Page()),
			"total":       len(v.Filtered()),
			"articles":    v.Page(),
		})
	}

	switch v.Empty() {
	case view.EmptyNoArticles:
		p.Printf("No news found. Try a different query or category.")
		return nil
	case view.EmptyNoMatches:
		p.Printf("No news matches the current filters%s. Try relaxing them.", filterSummary(q))
		return nil
	}

	pageArticles := v.Page()
	if len(pageArticles) == 0 {
		p.Printf("Page %d is out of range: only %d page(s) available.", q.Page, v.TotalPages())
		return nil
	}

	favorites, err := favoriteSet(c, s)
	if err != nil {
		p.Warnf("failed to load favorites: %v", err)
	}

	p.ArticleTable(pageArticles, (q.Page-1)*q.PerPage, favorites)
	p.PageFooter(q.Page, v.TotalPages(), len(pageArticles), len(v.Filtered()))
	return nil
}

func filterSummary(q view.Query) string {
	var parts []string
	if q.Text != "" {
		parts = append(parts, fmt.Sprintf("query %q", q.Text))
	}
	if q.Category != model.CategoryAll {
		parts = append(parts, fmt.Sprintf("category %q", q.Category))
	}
	if q.Source != "all" {
		parts = append(parts, fmt.Sprintf("source %q", q.Source))
	}
	if q.DateRange != view.DateAll {
		parts = append(parts, fmt.Sprintf("date %q", q.DateRange))
	}
	if len(parts) == 0 {
		return ""
	}
	return " (" + strings.Join(parts, ", ") + ")"
}

func favoriteSet(c *cli.Context, s *store.Store) (map[string]bool, error) {
	userID, err := s.EnsureUser(c.String("user"))
	if err != nil {
		return nil, err
	}
	favorites, err := s.Favorites(userID)
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(favorites))
	for _, a := range favorites {
		set[a.URL] = true
	}
	return set, nil
}

func listFavorites(c *cli.Context) error {
	s, err := openStore(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer s.Close()

	p := newPrinter(c)

	userID, err := s.EnsureUser(c.String("user"))
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	favorites, err := s.Favorites(userID)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Failed to get favorites: %v", err), ExitDataError)
	}

	if c.Bool("json") {
		return p.JSON(map[string]interface{}{
			"count":    len(favorites),
			"articles": favorites,
		})
	}

	if len(favorites) == 0 {
		p.Printf("No favorites yet. Add one with: newsdesk favorites add <url>")
		return nil
	}

	p.ArticleTable(favorites, 0, nil)
	return nil
}

func addFavorite(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("Usage: newsdesk favorites add <url>", ExitUsageError)
	}
	url := c.Args().Get(0)

	s, err := openStore(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer s.Close()

	p := newPrinter(c)

	article, err := s.CachedArticle(url)
	if errors.Is(err, store.ErrNotFound) {
		return cli.Exit("Article not found in the local cache. Fetch news first with: newsdesk news", ExitDataError)
	}
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}

	userID, err := s.EnsureUser(c.String("user"))
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	if err := s.AddFavorite(userID, *article); err != nil {
		return cli.Exit(fmt.Sprintf("Failed to save favorite: %v", err), ExitDataError)
	}

	p.Successf("Favorited: %s", article.Title)
	return nil
}

func removeFavorite(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("Usage: newsdesk favorites remove <url>", ExitUsageError)
	}
	url := c.Args().Get(0)

	s, err := openStore(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer s.Close()

	userID, err := s.EnsureUser(c.String("user"))
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	if err := s.RemoveFavorite(userID, url); err != nil {
		return cli.Exit(fmt.Sprintf("Failed to remove favorite: %v", err), ExitDataError)
	}

	newPrinter(c).Successf("Removed favorite: %s", url)
	return nil
}

func listSources(c *cli.Context) error {
	s, err := openStore(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer s.Close()

	sources, err := s.Sources()
	if err != nil {
		return cli.Exit(fmt.Sprintf("Failed to get sources: %v", err), ExitDataError)
	}

	p := newPrinter(c)
	if c.Bool("json") {
		return p.JSON(map[string]interface{}{"sources": sources})
	}
	if len(sources) == 0 {
		p.Printf("No sources known yet. Fetch news first with: newsdesk news")
		return nil
	}
	p.SourceTable(sources)
	return nil
}

func showStats(c *cli.Context) error {
	s, err := openStore(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer s.Close()

	counts, err := s.CategoryCounts()
	if err != nil {
		return cli.Exit(fmt.Sprintf("Failed to get stats: %v", err), ExitDataError)
	}

	p := newPrinter(c)
	if c.Bool("json") {
		return p.JSON(map[string]interface{}{"categories": counts})
	}

	order := append([]string{}, model.Categories...)
	order = append(order, model.CategoryAll)
	p.StatsTable(counts, order)
	return nil
}

func resetState(c *cli.Context) error {
	s, err := openStore(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer s.Close()

	err = s.ClearPrefs(
		store.PrefLastSearch,
		store.PrefLastCategory,
		store.PrefSource,
		store.PrefDateRange,
		store.PrefPage,
	)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Failed to reset state: %v", err), ExitDataError)
	}

	newPrinter(c).Successf("Search state cleared.")
	return nil
}

func listFeeds(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}

	p := newPrinter(c)
	if c.Bool("json") {
		return p.JSON(map[string]interface{}{"feeds": cfg.Feeds})
	}
	if len(cfg.Feeds) == 0 {
		p.Printf("No feeds configured. Import some with: newsdesk feeds import <opml-file>")
		return nil
	}

	table := output.NewTable(os.Stdout, []string{"URL", "Category"})
	for _, f := range cfg.Feeds {
		table.AddRow([]string{f.URL, f.Category})
	}
	table.Render()
	return nil
}

func importFeeds(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("Usage: newsdesk feeds import <opml-file>", ExitUsageError)
	}

	file, err := os.Open(c.Args().Get(0))
	if err != nil {
		return cli.Exit(fmt.Sprintf("Failed to open OPML file: %v", err), ExitDataError)
	}
	defer file.Close()

	feeds, err := opml.Parse(file)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Failed to parse OPML: %v", err), ExitDataError)
	}

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}

	known := make(map[string]bool, len(cfg.Feeds))
	for _, f := range cfg.Feeds {
		known[f.URL] = true
	}

	imported := 0
	for _, f := range feeds {
		if known[f.URL] {
			continue
		}
		cfg.Feeds = append(cfg.Feeds, f)
		known[f.URL] = true
		imported++
	}

	if err := cfg.Save(c.String("config")); err != nil {
		return cli.Exit(fmt.Sprintf("Failed to save config: %v", err), ExitDataError)
	}

	newPrinter(c).Successf("Imported %d feed(s), skipped %d duplicate(s).", imported, len(feeds)-imported)
	return nil
}

func exportFeeds(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}

	var writer io.Writer = os.Stdout
	if path := c.String("output"); path != "" {
		file, err := os.Create(path)
		if err != nil {
			return cli.Exit(fmt.Sprintf("Failed to create output file: %v", err), ExitDataError)
		}
		defer file.Close()
		writer = file
	}

	if err := opml.Generate(writer, cfg.Feeds); err != nil {
		return cli.Exit(fmt.Sprintf("Failed to generate OPML: %v", err), ExitDataError)
	}
	return nil
}
