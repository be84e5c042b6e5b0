package snapshot

import (
	"context"
	"errors"
	"testing"

	"github.com/dgallion1/vitigest/internal/catalog"
	"github.com/dgallion1/vitigest/internal/record"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubExtractor struct{}

func (stubExtractor) Get(_ context.Context, d catalog.Domain, _ string, _ *int) (*record.Result, error) {
	if d == catalog.Commercialization {
		return nil, errors.New("upstream down")
	}
	return &record.Result{Year: 2023}, nil
}

func (stubExtractor) All(_ context.Context, d catalog.Domain, _ *int) (*record.Aggregate, error) {
	agg := &record.Aggregate{}
	for i, key := range catalog.Keys(d) {
		if i == 0 {
			agg.Categories = append(agg.Categories, record.Outcome{Category: key, Err: &record.ErrorRecord{Error: "no table"}})
			continue
		}
		agg.Categories = append(agg.Categories, record.Outcome{Category: key, Result: &record.Result{Shape: record.Flat, Year: 2022}})
	}
	return agg, nil
}

type memStore struct {
	NopStore
	saved []Row
	err   error
}

func (m *memStore) Save(_ context.Context, rows []Row) error {
	m.saved = append(m.saved, rows...)
	return m.err
}

func TestCollect(t *testing.T) {
	store := &memStore{}
	year := 2024

	runID, rows, err := Collect(context.Background(), stubExtractor{}, store, &year, nil)
	require.NoError(t, err)
	_, err = uuid.Parse(runID)
	require.NoError(t, err)

	// production + commercialization + 4 processing + 5 import + 4 export
	require.Len(t, rows, 15)
	assert.Equal(t, rows, store.saved)

	prod := rows[0]
	assert.Equal(t, "production", prod.Domain)
	assert.Equal(t, runID, prod.RunID)
	assert.Equal(t, 2024, *prod.RequestedYear)
	assert.Equal(t, 2023, *prod.ServedYear)
	assert.JSONEq(t, `{"year":2023,"products":[],"total":null}`, string(prod.Payload))

	comm := rows[1]
	assert.Equal(t, "upstream down", comm.Error)
	assert.Nil(t, comm.ServedYear)
	assert.Nil(t, comm.Payload)

	first := rows[2]
	assert.Equal(t, "processing", first.Domain)
	assert.Equal(t, "viniferas", first.Category)
	assert.Equal(t, "no table", first.Error)
	assert.Equal(t, 2022, *rows[3].ServedYear)
}

func TestCollect_SaveError(t *testing.T) {
	store := &memStore{err: errors.New("disk full")}
	_, _, err := Collect(context.Background(), stubExtractor{}, store, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}
