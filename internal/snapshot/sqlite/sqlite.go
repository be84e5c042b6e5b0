package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/dgallion1/vitigest/internal/snapshot"
)

const timeLayout = time.RFC3339Nano

type Store struct {
	db *sql.DB
}

func New(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite: path is required")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Save inserts rows in a single transaction. Re-saving a (run, domain,
// category) key replaces the earlier row.
func (s *Store) Save(ctx context.Context, rows []snapshot.Row) (err error) {
	if len(rows) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO snapshots (
			run_id, domain, category, requested_year, served_year,
			payload, error, collected_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, domain, category)
		DO UPDATE SET
			requested_year = excluded.requested_year,
			served_year = excluded.served_year,
			payload = excluded.payload,
			error = excluded.error,
			collected_at = excluded.collected_at
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, row := range rows {
		collectedAt := row.CollectedAt
		if collectedAt.IsZero() {
			collectedAt = time.Now()
		}
		_, err = stmt.ExecContext(ctx,
			row.RunID,
			row.Domain,
			row.Category,
			nullInt(row.RequestedYear),
			nullInt(row.ServedYear),
			nullString(string(row.Payload)),
			nullString(row.Error),
			collectedAt.UTC().Format(timeLayout),
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// List returns the rows of a run in insertion order.
func (s *Store) List(ctx context.Context, runID string) ([]snapshot.Row, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, domain, category, requested_year, served_year,
			payload, error, collected_at
		FROM snapshots
		WHERE run_id = ?
		ORDER BY rowid
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []snapshot.Row
	for rows.Next() {
		var (
			row               snapshot.Row
			requested, served sql.NullInt64
			payload, errMsg   sql.NullString
			collectedAt       string
		)
		if err := rows.Scan(&row.RunID, &row.Domain, &row.Category, &requested, &served,
			&payload, &errMsg, &collectedAt); err != nil {
			return nil, err
		}
		row.RequestedYear = intPtr(requested)
		row.ServedYear = intPtr(served)
		if payload.Valid {
			row.Payload = json.RawMessage(payload.String)
		}
		row.Error = errMsg.String
		if row.CollectedAt, err = time.Parse(timeLayout, collectedAt); err != nil {
			return nil, fmt.Errorf("parse collected_at %q: %w", collectedAt, err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// Runs lists collect runs, newest first.
func (s *Store) Runs(ctx context.Context) ([]snapshot.Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, MIN(collected_at), COUNT(*), COUNT(error)
		FROM snapshots
		GROUP BY run_id
		ORDER BY MIN(rowid) DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []snapshot.Run
	for rows.Next() {
		var (
			run       snapshot.Run
			startedAt string
		)
		if err := rows.Scan(&run.ID, &startedAt, &run.Rows, &run.Failures); err != nil {
			return nil, err
		}
		if run.StartedAt, err = time.Parse(timeLayout, startedAt); err != nil {
			return nil, fmt.Errorf("parse collected_at %q: %w", startedAt, err)
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

func (s *Store) migrate() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS snapshots (
			run_id TEXT NOT NULL,
			domain TEXT NOT NULL,
			category TEXT NOT NULL,
			requested_year INTEGER,
			served_year INTEGER,
			payload TEXT,
			error TEXT,
			collected_at TEXT NOT NULL,
			PRIMARY KEY (run_id, domain, category)
		);`,
		`CREATE INDEX IF NOT EXISTS snapshots_domain_year ON snapshots (domain, served_year);`,
	}

	for _, statement := range statements {
		if _, err := s.db.Exec(statement); err != nil {
			return err
		}
	}
	return nil
}

func nullInt(v *int) any {
	if v == nil {
		return nil
	}
	return int64(*v)
}

func nullString(v string) any {
	if v == "" {
		return nil
	}
	return v
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}
