// Package snapshot archives collected results so operators can compare
// what the upstream site served across runs. Request handling never reads it.
package snapshot

import (
	"context"
	"encoding/json"
	"time"
)

// Row is one category outcome of a collect run. Exactly one of Payload and
// Error is set.
type Row struct {
	RunID         string
	Domain        string
	Category      string // empty for domains without categories
	RequestedYear *int
	ServedYear    *int
	Payload       json.RawMessage
	Error         string
	CollectedAt   time.Time
}

// Run summarizes one collect invocation.
type Run struct {
	ID        string
	StartedAt time.Time
	Rows      int
	Failures  int
}

type Store interface {
	Save(ctx context.Context, rows []Row) error
	List(ctx context.Context, runID string) ([]Row, error)
	Runs(ctx context.Context) ([]Run, error)
	Close() error
}

// NopStore discards everything.
type NopStore struct{}

func (NopStore) Save(context.Context, []Row) error { return nil }

func (NopStore) List(context.Context, string) ([]Row, error) { return nil, nil }

func (NopStore) Runs(context.Context) ([]Run, error) { return nil, nil }

func (NopStore) Close() error { return nil }
