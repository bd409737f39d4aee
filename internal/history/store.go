package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"peloton/internal/diff"
)

// Run summarizes one completed update cycle.
type Run struct {
	ID           string
	StartedAt    time.Time
	FinishedAt   time.Time
	RacesFetched int
	Riders       int
	Events       int
}

// Event is one recorded change event.
type Event struct {
	RunID     string
	Timestamp time.Time
	RaceID    string
	Kind      diff.Kind
	RiderName string
	RiderKey  string
}

// Query filters RecentEvents. Zero values match everything.
type Query struct {
	RaceID   string
	RiderKey string
	Limit    int
}

// Store manages history persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// RecordRun stores a run summary and its events in one transaction.
func (s *Store) RecordRun(ctx context.Context, run Run, events []diff.ChangeEvent) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin history tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, finished_at, races_fetched, riders, events)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.StartedAt.UTC().Format(time.RFC3339),
		run.FinishedAt.UTC().Format(time.RFC3339),
		run.RacesFetched,
		run.Riders,
		run.Events,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, event := range events {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO events (run_id, ts, race, change_type, rider_name, rider_key)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			run.ID,
			event.Timestamp.UTC().Format(time.RFC3339),
			event.RaceID,
			string(event.Kind),
			event.RiderName,
			event.RiderKey,
		)
		if err != nil {
			return fmt.Errorf("insert event: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit history tx: %w", err)
	}
	return nil
}

// RecentEvents returns the most recent events matching the query, newest
// first.
func (s *Store) RecentEvents(ctx context.Context, q Query) ([]Event, error) {
	var (
		conditions []string
		args       []any
	)
	if strings.TrimSpace(q.RaceID) != "" {
		conditions = append(conditions, "race = ?")
		args = append(args, q.RaceID)
	}
	if strings.TrimSpace(q.RiderKey) != "" {
		conditions = append(conditions, "rider_key = ?")
		args = append(args, q.RiderKey)
	}

	query := "SELECT run_id, ts, race, change_type, rider_name, rider_key FROM events"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY id DESC"

	limit := q.Limit
	if limit <= 0 {
		limit = 50
	}
	query += " LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var (
			event Event
			ts    string
			kind  string
		)
		if err := rows.Scan(&event.RunID, &ts, &event.RaceID, &kind, &event.RiderName, &event.RiderKey); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		parsed, err := time.Parse(time.RFC3339, ts)
		if err != nil {
			return nil, fmt.Errorf("parse event timestamp %q: %w", ts, err)
		}
		event.Timestamp = parsed
		event.Kind = diff.Kind(kind)
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

// RunCount returns the number of recorded runs.
func (s *Store) RunCount(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM runs").Scan(&count); err != nil {
		return 0, fmt.Errorf("count runs: %w", err)
	}
	return count, nil
}
