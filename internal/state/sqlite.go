package state

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLiteStore implements Store using a node-local SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the history database and applies
// migrations.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS bootstrap_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		hostname TEXT NOT NULL,
		mode TEXT NOT NULL,
		installed INTEGER NOT NULL DEFAULT 0,
		auth_ready INTEGER NOT NULL DEFAULT 0,
		probe_attempts INTEGER NOT NULL DEFAULT 0,
		duration_ms INTEGER NOT NULL DEFAULT 0,
		error TEXT NOT NULL DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := s.db.Exec(query)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// RecordRun appends one bootstrap run to the history.
func (s *SQLiteStore) RecordRun(run Run) error {
	query := `INSERT INTO bootstrap_runs
		(hostname, mode, installed, auth_ready, probe_attempts, duration_ms, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	created := run.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := s.db.Exec(query, run.Hostname, run.Mode, run.Installed, run.AuthReady,
		run.ProbeAttempts, run.DurationMS, run.Error, created)
	return err
}

// RecentRuns returns the most recent runs, newest first.
func (s *SQLiteStore) RecentRuns(limit int) ([]Run, error) {
	query := `SELECT id, hostname, mode, installed, auth_ready, probe_attempts, duration_ms, error, created_at
		FROM bootstrap_runs ORDER BY id DESC LIMIT ?`
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

// LastRun returns the most recent run, or nil when the node has never
// been bootstrapped.
func (s *SQLiteStore) LastRun() (*Run, error) {
	runs, err := s.RecentRuns(1)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return &runs[0], nil
}
