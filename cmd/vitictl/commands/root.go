package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/dgallion1/vitigest/internal/catalog"
	"github.com/dgallion1/vitigest/internal/config"
	"github.com/dgallion1/vitigest/internal/fetch"
	"github.com/dgallion1/vitigest/internal/scraper"
	"github.com/spf13/cobra"
)

var (
	debug bool
	year  int
)

var rootCmd = &cobra.Command{
	Use:           "vitictl",
	Short:         "vitictl queries and archives VitiBrasil vitivinicultural statistics.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Log every upstream request to stderr.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// addYearFlag registers --year on cmd; 0 means the latest available year.
func addYearFlag(cmd *cobra.Command) {
	cmd.Flags().IntVar(&year, "year", 0, "Year to fetch (default: latest available).")
}

func yearArg() (*int, error) {
	switch {
	case year < 0:
		return nil, fmt.Errorf("invalid year %d: must be a positive integer", year)
	case year == 0:
		return nil, nil
	}
	y := year
	return &y, nil
}

func newLogger(cfg config.Config) *slog.Logger {
	level := slog.LevelWarn
	if debug || cfg.Debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// newService wires a scraper from the environment configuration.
func newService() (*scraper.Service, config.Config, *slog.Logger, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, cfg, nil, err
	}
	log := newLogger(cfg)
	slog.SetDefault(log)

	fetchOpts := cfg.FetchOptions()
	fetchOpts.Logger = log
	scrapeOpts := cfg.ScraperOptions()
	scrapeOpts.Logger = log

	return scraper.New(fetch.New(fetchOpts), scrapeOpts), cfg, log, nil
}

func parseDomainArg(name string) (catalog.Domain, error) {
	d, err := catalog.ParseDomain(name)
	if err != nil {
		return "", fmt.Errorf("%w (expected one of %v)", err, catalog.Domains)
	}
	return d, nil
}
