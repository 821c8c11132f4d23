// Package config loads newsdesk configuration from a YAML file with
// environment-variable overrides for API credentials, and validates
// user search input before it reaches the network layer.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/go-playground/validator"
	"gopkg.in/yaml.v3"
)

const appDir = "newsdesk"

var validate = validator.New()

// Feed is a configured RSS/Atom source. Category tags every article
// the feed yields.
type Feed struct {
	URL      string `yaml:"url" validate:"required,url"`
	Category string `yaml:"category,omitempty"`
}

// Config holds provider credentials and request defaults. A missing
// API key disables the corresponding provider rather than failing.
type Config struct {
	NewsAPIKey string `yaml:"newsapi_key,omitempty"`
	GNewsKey   string `yaml:"gnews_key,omitempty"`
	Language   string `yaml:"language,omitempty"`
	PageSize   int    `yaml:"page_size,omitempty" validate:"omitempty,min=1,max=100"`
	Feeds      []Feed `yaml:"feeds,omitempty" validate:"dive"`
}

// Default returns a config with defaults applied and no credentials.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.Language == "" {
		c.Language = "en"
	}
	if c.PageSize == 0 {
		c.PageSize = 20
	}
}

// Load reads the config at path, applying defaults, env overrides
// (NEWSAPI_KEY, GNEWS_KEY), and validation. A missing file is not an
// error: it yields the defaults.
func Load(path string) (*Config, error) {
	c := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// First run: defaults only
	case err != nil:
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, c); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	if key := os.Getenv("NEWSAPI_KEY"); key != "" {
		c.NewsAPIKey = key
	}
	if key := os.Getenv("GNEWS_KEY"); key != "" {
		c.GNewsKey = key
	}

	c.applyDefaults()

	if err := validate.Struct(c); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return c, nil
}

// Save writes the config to path, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	return nil
}

// DefaultPath returns the XDG location of the config file.
func DefaultPath() string {
	path, err := xdg.ConfigFile(filepath.Join(appDir, "config.yaml"))
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return path
}

// DefaultDBPath returns the XDG location of the SQLite database.
func DefaultDBPath() string {
	path, err := xdg.DataFile(filepath.Join(appDir, "newsdesk.db"))
	if err != nil {
		return filepath.Join(".", "newsdesk.db")
	}
	return path
}
