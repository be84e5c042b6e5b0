package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dgallion1/vitigest/internal/catalog"
	"github.com/dgallion1/vitigest/internal/config"
	"github.com/dgallion1/vitigest/internal/fetch"
	"github.com/dgallion1/vitigest/internal/record"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	serviceName = "vitigest"
	version     = "0.1.0"
)

// Extractor is the scraping surface the routes expose.
type Extractor interface {
	Get(ctx context.Context, d catalog.Domain, category string, year *int) (*record.Result, error)
	All(ctx context.Context, d catalog.Domain, year *int) (*record.Aggregate, error)
}

// Server is the HTTP API server for vitigest.
type Server struct {
	router   chi.Router
	scraper  Extractor
	stats    *fetch.LatencyStats
	gatherer prometheus.Gatherer
	log      *slog.Logger
	cfg      config.Config
}

// NewServer creates and configures the HTTP server. stats may be nil; a nil
// gatherer exposes the default Prometheus registry.
func NewServer(sc Extractor, stats *fetch.LatencyStats, gatherer prometheus.Gatherer, log *slog.Logger, cfg config.Config) *Server {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	if log == nil {
		log = slog.Default()
	}
	s := &Server{
		scraper:  sc,
		stats:    stats,
		gatherer: gatherer,
		log:      log,
		cfg:      cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/", s.handleIndex)
	r.Get("/docs", s.handleDocs)
	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	// Data endpoints; authenticated when an API key is configured.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Get("/api/production", s.handleResult(catalog.Production))
		r.Get("/api/commercialization", s.handleResult(catalog.Commercialization))
		for _, d := range []catalog.Domain{catalog.Processing, catalog.Import, catalog.Export} {
			r.Get("/api/"+string(d), s.handleAggregate(d))
			r.Get("/api/"+string(d)+"/{category}", s.handleResult(d))
		}
		r.Get("/api/stats/fetch", s.handleFetchStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
