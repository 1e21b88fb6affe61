package state

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// PostgresStore implements Store against a fleet-central PostgreSQL
// database, so bootstrap history from every node lands in one place.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore connects with the given DSN and applies migrations.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &PostgresStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

func (s *PostgresStore) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS bootstrap_runs (
		id SERIAL PRIMARY KEY,
		hostname TEXT NOT NULL,
		mode TEXT NOT NULL,
		installed BOOLEAN NOT NULL DEFAULT FALSE,
		auth_ready BOOLEAN NOT NULL DEFAULT FALSE,
		probe_attempts INTEGER NOT NULL DEFAULT 0,
		duration_ms BIGINT NOT NULL DEFAULT 0,
		error TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);`
	_, err := s.db.Exec(query)
	return err
}

// Close closes the database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// RecordRun appends one bootstrap run to the history.
func (s *PostgresStore) RecordRun(run Run) error {
	query := `INSERT INTO bootstrap_runs
		(hostname, mode, installed, auth_ready, probe_attempts, duration_ms, error, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	created := run.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := s.db.Exec(query, run.Hostname, run.Mode, run.Installed, run.AuthReady,
		run.ProbeAttempts, run.DurationMS, run.Error, created)
	return err
}

// RecentRuns returns the most recent runs, newest first.
func (s *PostgresStore) RecentRuns(limit int) ([]Run, error) {
	query := `SELECT id, hostname, mode, installed, auth_ready, probe_attempts, duration_ms, error, created_at
		FROM bootstrap_runs ORDER BY id DESC LIMIT $1`
	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Hostname, &r.Mode, &r.Installed, &r.AuthReady,
			&r.ProbeAttempts, &r.DurationMS, &r.Error, &r.CreatedAt); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// LastRun returns the most recent run, or nil when there is none.
func (s *PostgresStore) LastRun() (*Run, error) {
	runs, err := s.RecentRuns(1)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return &runs[0], nil
}
