// Package store provides SQLite persistence for newsdesk: per-user
// favorites, saved preferences, and a cache of the last fetched
// articles. Writes are last-write-wins; there is no cross-process
// locking.
package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/okravets/newsdesk/model"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a looked-up row does not exist.
var ErrNotFound = errors.New("not found")

// Preference keys. Each key has independent default-on-missing
// semantics supplied by the caller of Pref.
const (
	PrefLastSearch   = "last_search"
	PrefLastCategory = "last_category"
	PrefSource       = "source"
	PrefDateRange    = "date_range"
	PrefSort         = "sort"
	PrefPage         = "page"
	PrefPerPage      = "per_page"
)

// Store manages the SQLite database.
type Store struct {
	db *sql.DB
}

// New creates a new Store with the given database path.
// Use ":memory:" for an in-memory database (useful for testing).
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		name TEXT UNIQUE NOT NULL
	);

	CREATE TABLE IF NOT EXISTS favorites (
		user_id TEXT NOT NULL,
		url TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		image_url TEXT NOT NULL DEFAULT '',
		source_name TEXT NOT NULL DEFAULT '',
		published_at TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT '',
		added_at INTEGER NOT NULL DEFAULT (unixepoch()),
		PRIMARY KEY (user_id, url),
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS articles (
		url TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		image_url TEXT NOT NULL DEFAULT '',
		source_name TEXT NOT NULL DEFAULT '',
		published_at TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT '',
		fetched_at INTEGER NOT NULL DEFAULT (unixepoch())
	);

	CREATE TABLE IF NOT EXISTS prefs (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_articles_source ON articles(source_name);
	CREATE INDEX IF NOT EXISTS idx_articles_category ON articles(category);
	`

	_, err := s.db.Exec(schema)
	return err
}

// EnsureUser returns the id of the named local user, creating the row
// on first use. Users are a non-secure local namespace for favorites,
// not a credential system.
func (s *Store) EnsureUser(name string) (string, error) {
	if name == "" {
		return "", errors.New("user name is required")
	}

	var id string
	err := s.db.QueryRow("SELECT id FROM users WHERE name = ?", name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("failed to look up user: %w", err)
	}

	id = uuid.NewString()
	if _, err := s.db.Exec("INSERT INTO users (id, name) VALUES (?, ?)", id, name); err != nil {
		return "", fmt.Errorf("failed to create user: %w", err)
	}
	return id, nil
}

// AddFavorite saves an article to the user's favorites. Adding a URL
// that is already favorited is a no-op: the URL is the article's sole
// identity.
func (s *Store) AddFavorite(userID string, a model.Article) error {
	if err := a.Validate(); err != nil {
		return err
	}

	_, err := s.db.Exec(`
		INSERT INTO favorites (user_id, url, title, description, image_url, source_name, published_at, category)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, url) DO NOTHING`,
		userID, a.URL, a.Title, a.Description, a.ImageURL, a.SourceName, a.PublishedAt, a.Category,
	)
	if err != nil {
		return fmt.Errorf("failed to save favorite: %w", err)
	}
	return nil
}

// RemoveFavorite deletes a favorite by URL.
func (s *Store) RemoveFavorite(userID, url string) error {
	_, err := s.db.Exec("DELETE FROM favorites WHERE user_id = ? AND url = ?", userID, url)
	return err
}

// IsFavorite reports whether the URL is in the user's favorites.
func (s *Store) IsFavorite(userID, url string) (bool, error) {
	var n int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM favorites WHERE user_id = ? AND url = ?",
		userID, url,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check favorite: %w", err)
	}
	return n > 0, nil
}

// Favorites returns the user's favorites in the order they were added.
func (s *Store) Favorites(userID string) ([]model.Article, error) {
	rows, err := s.db.Query(`
		SELECT url, title, description, image_url, source_name, published_at, category
		FROM favorites WHERE user_id = ? ORDER BY added_at, url`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query favorites: %w", err)
	}
	defer rows.Close()

	return scanArticles(rows)
}

// CacheArticles upserts fetched articles by URL so later commands
// (favoriting, source listing, stats) can resolve them offline.
func (s *Store) CacheArticles(articles []model.Article) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO articles (url, title, description, image_url, source_name, published_at, category)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			image_url = excluded.image_url,
			source_name = excluded.source_name,
			published_at = excluded.published_at,
			category = excluded.category,
			fetched_at = unixepoch()`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, a := range articles {
		if a.URL == "" {
			continue
		}
		if _, err := stmt.Exec(a.URL, a.Title, a.Description, a.ImageURL, a.SourceName, a.PublishedAt, a.Category); err != nil {
			return fmt.Errorf("failed to cache article %s: %w", a.URL, err)
		}
	}

	return tx.Commit()
}

// Articles returns all cached articles, most recently fetched first.
func (s *Store) Articles() ([]model.Article, error) {
	rows, err := s.db.Query(`
		SELECT url, title, description, image_url, source_name, published_at, category
		FROM articles ORDER BY fetched_at DESC, url`)
	if err != nil {
		return nil, fmt.Errorf("failed to query articles: %w", err)
	}
	defer rows.Close()

	return scanArticles(rows)
}

// CachedArticle retrieves a cached article by its URL.
func (s *Store) CachedArticle(url string) (*model.Article, error) {
	a := &model.Article{}
	err := s.db.QueryRow(`
		SELECT url, title, description, image_url, source_name, published_at, category
		FROM articles WHERE url = ?`, url,
	).Scan(&a.URL, &a.Title, &a.Description, &a.ImageURL, &a.SourceName, &a.PublishedAt, &a.Category)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get article: %w", err)
	}
	return a, nil
}

// Sources returns the distinct source names seen so far, sorted.
func (s *Store) Sources() ([]string, error) {
	rows, err := s.db.Query(
		"SELECT DISTINCT source_name FROM articles WHERE source_name != '' ORDER BY source_name",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query sources: %w", err)
	}
	defer rows.Close()

	var sources []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan source: %w", err)
		}
		sources = append(sources, name)
	}
	return sources, rows.Err()
}

// CategoryCounts returns cached-article counts per category. Articles
// without a category are counted under "all".
func (s *Store) CategoryCounts() (map[string]int, error) {
	rows, err := s.db.Query("SELECT category, COUNT(*) FROM articles GROUP BY category")
	if err != nil {
		return nil, fmt.Errorf("failed to query category counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var category string
		var n int
		if err := rows.Scan(&category, &n); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		if category == "" {
			category = model.CategoryAll
		}
		counts[category] += n
	}
	return counts, rows.Err()
}

// Pref returns a saved preference value, or fallback when the key has
// never been set.
func (s *Store) Pref(key, fallback string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM prefs WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return fallback, nil
	}
	if err != nil {
		return fallback, fmt.Errorf("failed to get preference: %w", err)
	}
	return value, nil
}

// SetPref saves a preference value.
func (s *Store) SetPref(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO prefs (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

// ClearPrefs removes the given preference keys.
func (s *Store) ClearPrefs(keys ...string) error {
	for _, key := range keys {
		if _, err := s.db.Exec("DELETE FROM prefs WHERE key = ?", key); err != nil {
			return fmt.Errorf("failed to clear preference %s: %w", key, err)
		}
	}
	return nil
}

func scanArticles(rows *sql.Rows) ([]model.Article, error) {
	var articles []model.Article
	for rows.Next() {
		var a model.Article
		err := rows.Scan(&a.URL, &a.Title, &a.Description, &a.ImageURL, &a.SourceName, &a.PublishedAt, &a.Category)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}
