package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/vitigest/internal/api"
	"github.com/dgallion1/vitigest/internal/config"
	"github.com/dgallion1/vitigest/internal/fetch"
	"github.com/dgallion1/vitigest/internal/scraper"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg := config.Load()

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Upstream client.
	stats := fetch.NewLatencyStats(time.Hour)
	fetchOpts := cfg.FetchOptions()
	fetchOpts.Logger = log
	fetchOpts.Metrics = fetch.NewMetrics(prometheus.DefaultRegisterer)
	fetchOpts.Stats = stats
	client := fetch.New(fetchOpts)

	scrapeOpts := cfg.ScraperOptions()
	scrapeOpts.Logger = log
	scrapeOpts.Metrics = scraper.NewMetrics(prometheus.DefaultRegisterer)
	svc := scraper.New(client, scrapeOpts)

	srv := api.NewServer(svc, stats, prometheus.DefaultGatherer, log, cfg)

	// Aggregates fetch several pages with backoff; allow for that.
	httpServer := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		client.Close()
	}()

	log.Info("starting vitigest", "addr", cfg.Addr(), "upstream", cfg.BaseURL, "debug", cfg.Debug)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
