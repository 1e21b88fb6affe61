package state

import "time"

// Run is one recorded bootstrap attempt on this node.
type Run struct {
	ID            int64     `json:"id"`
	Hostname      string    `json:"hostname"`
	Mode          string    `json:"mode"`
	Installed     bool      `json:"installed"`
	AuthReady     bool      `json:"auth_ready"`
	ProbeAttempts int       `json:"probe_attempts"`
	DurationMS    int64     `json:"duration_ms"`
	Error         string    `json:"error,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Store persists bootstrap run history.
type Store interface {
	Close() error
	RecordRun(run Run) error
	RecentRuns(limit int) ([]Run, error)
	LastRun() (*Run, error)
}
