package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/vitigest/internal/catalog"
	"github.com/dgallion1/vitigest/internal/record"
	"github.com/google/uuid"
)

// Extractor is the scraping surface a collect run drives.
type Extractor interface {
	Get(ctx context.Context, d catalog.Domain, category string, year *int) (*record.Result, error)
	All(ctx context.Context, d catalog.Domain, year *int) (*record.Aggregate, error)
}

// Collect extracts every domain for year and saves one row per category
// outcome under a fresh run id. Extraction failures are archived as rows;
// only a failure to save is returned.
func Collect(ctx context.Context, ex Extractor, store Store, year *int, log *slog.Logger) (string, []Row, error) {
	if log == nil {
		log = slog.Default()
	}
	runID := uuid.NewString()
	now := time.Now().UTC()
	log = log.With("run_id", runID)

	var rows []Row
	add := func(d catalog.Domain, category string, res *record.Result, errMsg string) {
		row := Row{
			RunID:         runID,
			Domain:        string(d),
			Category:      category,
			RequestedYear: year,
			CollectedAt:   now,
		}
		if res == nil {
			row.Error = errMsg
			rows = append(rows, row)
			return
		}
		payload, err := json.Marshal(res)
		if err != nil {
			row.Error = fmt.Sprintf("encode result: %v", err)
			rows = append(rows, row)
			return
		}
		served := res.Year
		row.ServedYear = &served
		row.Payload = payload
		rows = append(rows, row)
	}

	for _, d := range catalog.Domains {
		if !d.HasCategories() {
			res, err := ex.Get(ctx, d, "", year)
			if err != nil {
				log.Error("collect failed", "domain", d, "error", err)
				add(d, "", nil, err.Error())
				continue
			}
			add(d, "", res, "")
			continue
		}

		agg, err := ex.All(ctx, d, year)
		if err != nil {
			log.Error("collect failed", "domain", d, "error", err)
			for _, key := range catalog.Keys(d) {
				add(d, key, nil, err.Error())
			}
			continue
		}
		for _, o := range agg.Categories {
			if o.Failed() {
				add(d, o.Category, nil, o.Err.Error)
				continue
			}
			add(d, o.Category, o.Result, "")
		}
	}

	if err := store.Save(ctx, rows); err != nil {
		return runID, rows, fmt.Errorf("save run %s: %w", runID, err)
	}
	log.Info("collect complete", "rows", len(rows))
	return runID, rows, nil
}
