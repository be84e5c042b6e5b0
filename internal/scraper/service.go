// Package scraper composes fetching, header reading and table extraction
// into per-domain operations over the upstream statistics site.
package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dgallion1/vitigest/internal/catalog"
	"github.com/dgallion1/vitigest/internal/parser"
	"github.com/dgallion1/vitigest/internal/record"
)

const (
	DefaultBaseURL     = "http://vitibrasil.cnpuv.embrapa.br"
	DefaultConcurrency = 2
)

// Fetcher retrieves and parses one upstream page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*goquery.Document, error)
}

type Options struct {
	BaseURL     string
	Concurrency int // max categories extracted at once by All
	Logger      *slog.Logger
	Metrics     *Metrics // optional
}

// Service exposes the extraction operations of every domain.
type Service struct {
	fetcher     Fetcher
	baseURL     string
	concurrency int
	log         *slog.Logger
	metrics     *Metrics
}

func New(f Fetcher, opts Options) *Service {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Service{
		fetcher:     f,
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		concurrency: opts.Concurrency,
		log:         opts.Logger,
		metrics:     opts.Metrics,
	}
}

// PageURL builds the upstream URL for a domain, an optional category code
// and an optional year.
func (s *Service) PageURL(d catalog.Domain, categoryCode string, year *int) string {
	url := fmt.Sprintf("%s/index.php?opcao=%s", s.baseURL, d.Option())
	if categoryCode != "" {
		url += "&subopcao=" + categoryCode
	}
	if year != nil {
		url += fmt.Sprintf("&ano=%d", *year)
	}
	return url
}

// Get extracts a single page. category must be empty for domains without
// categories and a valid key otherwise; it is checked before any request.
// The returned Year is the year the page was served for, which may differ
// from the requested one.
func (s *Service) Get(ctx context.Context, d catalog.Domain, category string, year *int) (*record.Result, error) {
	var cat catalog.Category
	if d.HasCategories() || category != "" {
		c, err := catalog.Lookup(d, category)
		if err != nil {
			return nil, err
		}
		cat = c
	}

	url := s.PageURL(d, cat.Code, year)
	s.log.Info("extracting page", "domain", d, "category", category, "year", yearAttr(year), "url", url)

	doc, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	header, err := parser.ReadHeader(doc)
	if err != nil {
		return nil, err
	}

	rowsLabel, childLabel := d.Labels()
	result := &record.Result{
		Year:       header.Year,
		Category:   category,
		RowsLabel:  rowsLabel,
		ChildLabel: childLabel,
	}
	if d.Titled() {
		title := header.Title
		result.Title = &title
	}

	if d.Flat() {
		flat, err := parser.ExtractFlat(doc)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", d, category, err)
		}
		result.Shape = record.Flat
		result.DisplayName = cat.DisplayName
		result.Countries = flat.Records
		result.TotalQuantity = flat.TotalQuantity
		result.TotalValue = flat.TotalValue
		result.Footnotes = flat.Footnotes
		return result, nil
	}

	h, err := parser.ExtractHierarchical(doc)
	if err != nil {
		return nil, err
	}
	result.Shape = record.Hierarchical
	result.Entries = h.Entries
	result.Total = h.Total
	result.Footnotes = h.Footnotes
	return result, nil
}

func (s *Service) Production(ctx context.Context, year *int) (*record.Result, error) {
	return s.Get(ctx, catalog.Production, "", year)
}

func (s *Service) Processing(ctx context.Context, category string, year *int) (*record.Result, error) {
	return s.Get(ctx, catalog.Processing, category, year)
}

func (s *Service) Commercialization(ctx context.Context, year *int) (*record.Result, error) {
	return s.Get(ctx, catalog.Commercialization, "", year)
}

func (s *Service) Import(ctx context.Context, category string, year *int) (*record.Result, error) {
	return s.Get(ctx, catalog.Import, category, year)
}

func (s *Service) Export(ctx context.Context, category string, year *int) (*record.Result, error) {
	return s.Get(ctx, catalog.Export, category, year)
}

func yearAttr(year *int) any {
	if year == nil {
		return "latest"
	}
	return *year
}
