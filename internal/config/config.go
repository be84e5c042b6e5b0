package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/dgallion1/vitigest/internal/fetch"
	"github.com/dgallion1/vitigest/internal/scraper"
	"github.com/joho/godotenv"
)

type Config struct {
	Host  string
	Port  string
	Debug bool

	// Auth for /api routes; empty disables it.
	APIKey string

	// Upstream site
	BaseURL string

	// Fetcher
	MaxRetries  int
	Timeout     time.Duration
	BackoffUnit time.Duration
	UserAgent   string

	// Aggregates
	AggregateConcurrency int

	// Snapshot archive
	SnapshotDB string
}

// Load reads configuration from the environment, after merging a .env file
// from the working directory when one exists. Variables already set win.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Host:  envOr("HOST", "127.0.0.1"),
		Port:  envOr("PORT", "5000"),
		Debug: envBool("DEBUG", false),

		APIKey: os.Getenv("VITIGEST_API_KEY"),

		BaseURL: envOr("VITIBRASIL_BASE_URL", scraper.DefaultBaseURL),

		MaxRetries:  envInt("FETCH_MAX_RETRIES", fetch.DefaultMaxRetries),
		Timeout:     envDuration("FETCH_TIMEOUT", fetch.DefaultTimeout),
		BackoffUnit: envDuration("FETCH_BACKOFF_UNIT", fetch.DefaultBackoffUnit),
		UserAgent:   envOr("FETCH_USER_AGENT", "vitigest/0.1"),

		AggregateConcurrency: envInt("AGGREGATE_CONCURRENCY", scraper.DefaultConcurrency),

		SnapshotDB: envOr("SNAPSHOT_DB", "vitigest.db"),
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = fetch.DefaultTimeout
	}
	if cfg.BackoffUnit <= 0 {
		cfg.BackoffUnit = fetch.DefaultBackoffUnit
	}
	if cfg.AggregateConcurrency <= 0 {
		cfg.AggregateConcurrency = scraper.DefaultConcurrency
	}

	return cfg
}

func (c Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("VITIBRASIL_BASE_URL is required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("VITIBRASIL_BASE_URL must be an absolute URL, got %q", c.BaseURL)
	}
	if c.MaxRetries <= 0 {
		return fmt.Errorf("FETCH_MAX_RETRIES must be positive, got %d", c.MaxRetries)
	}
	return nil
}

// Addr is the listen address of the API server.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// FetchOptions returns the Fetcher settings; logging and metrics are left
// to the caller.
func (c Config) FetchOptions() fetch.Options {
	return fetch.Options{
		MaxRetries:  c.MaxRetries,
		Timeout:     c.Timeout,
		BackoffUnit: c.BackoffUnit,
		UserAgent:   c.UserAgent,
	}
}

func (c Config) ScraperOptions() scraper.Options {
	return scraper.Options{
		BaseURL:     c.BaseURL,
		Concurrency: c.AggregateConcurrency,
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
