package scraper

import (
	"context"
	"fmt"

	"github.com/dgallion1/vitigest/internal/catalog"
	"github.com/dgallion1/vitigest/internal/record"
)

// All extracts every category of d for year. A failing category becomes an
// ErrorRecord under its key; the call itself only fails when d has no
// categories.
func (s *Service) All(ctx context.Context, d catalog.Domain, year *int) (*record.Aggregate, error) {
	if !d.HasCategories() {
		return nil, fmt.Errorf("%s has no categories to aggregate", d)
	}

	cats := catalog.Categories(d)
	log := s.log.With("domain", d, "year", yearAttr(year))
	log.Info("aggregating categories", "categories", len(cats), "concurrency", s.concurrency)

	type categoryResult struct {
		idx     int
		outcome record.Outcome
	}
	results := make(chan categoryResult, len(cats))
	sem := make(chan struct{}, s.concurrency)

	for i, cat := range cats {
		sem <- struct{}{}
		go func(i int, key string) {
			defer func() { <-sem }()
			results <- categoryResult{idx: i, outcome: s.extractOne(ctx, d, key, year)}
		}(i, cat.Key)
	}

	outcomes := make([]record.Outcome, len(cats))
	for range cats {
		r := <-results
		outcomes[r.idx] = r.outcome
	}

	agg := &record.Aggregate{Categories: outcomes}
	for _, o := range outcomes {
		if o.Failed() {
			continue
		}
		if agg.Year == nil {
			served := o.Result.Year
			agg.Year = &served
			continue
		}
		if o.Result.Year != *agg.Year {
			agg.YearDrift = true
			log.Warn("category served a different year",
				"category", o.Category, "served_year", o.Result.Year, "aggregate_year", *agg.Year)
		}
	}

	log.Info("aggregation complete", "succeeded", agg.Succeeded(), "failed", len(outcomes)-agg.Succeeded())
	return agg, nil
}

func (s *Service) extractOne(ctx context.Context, d catalog.Domain, category string, year *int) record.Outcome {
	res, err := s.Get(ctx, d, category, year)
	if err != nil {
		s.log.Error("category extraction failed", "domain", d, "category", category, "error", err)
		s.metrics.category(d, false)
		return record.Outcome{Category: category, Err: &record.ErrorRecord{Error: err.Error()}}
	}
	s.metrics.category(d, true)
	return record.Outcome{Category: category, Result: res}
}

func (s *Service) AllProcessing(ctx context.Context, year *int) (*record.Aggregate, error) {
	return s.All(ctx, catalog.Processing, year)
}

func (s *Service) AllImport(ctx context.Context, year *int) (*record.Aggregate, error) {
	return s.All(ctx, catalog.Import, year)
}

func (s *Service) AllExport(ctx context.Context, year *int) (*record.Aggregate, error) {
	return s.All(ctx, catalog.Export, year)
}
