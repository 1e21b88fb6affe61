package state

import (
	"fmt"
	"strings"
)

// StoreConfig selects and parameterizes the history backend.
type StoreConfig struct {
	Driver string // "sqlite" or "postgres"
	DSN    string // file path for sqlite, connection string for postgres
}

// DefaultSQLitePath is the node-local history file used when nothing is
// configured.
const DefaultSQLitePath = "/var/lib/nodeboot/history.db"

// NewStore creates a Store for the configured backend. SQLite is the
// default; Postgres needs an explicit DSN.
func NewStore(cfg StoreConfig) (Store, error) {
	switch strings.ToLower(cfg.Driver) {
	case "postgres", "postgresql":
		if cfg.DSN == "" {
			return nil, fmt.Errorf("postgres connection string is required")
		}
		return NewPostgresStore(cfg.DSN)
	case "sqlite", "sqlite3", "":
		if cfg.DSN == "" {
			cfg.DSN = DefaultSQLitePath
		}
		return NewSQLiteStore(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported store driver: %s", cfg.Driver)
	}
}
