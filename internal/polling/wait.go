package polling

import (
	"context"
	"time"
)

// Probe is a single readiness check. A nil error means the target is ready.
type Probe func(ctx context.Context) error

// Config holds the parameters for a bounded wait.
type Config struct {
	// Budget is the starting countdown. One probe is issued per countdown
	// value from Budget down to zero, so at most Budget+1 probes run.
	Budget int
	// Interval is the pause after each failed probe.
	Interval time.Duration
}

// DefaultConfig matches the historical bootstrap behavior: a 60-step
// countdown with a one second pause, i.e. at most 61 probes.
func DefaultConfig() Config {
	return Config{Budget: 60, Interval: time.Second}
}

// Result describes how a wait ended.
type Result struct {
	Ready    bool
	Attempts int
}

// Wait runs the probe until it succeeds or the countdown is exhausted.
//
// This is a best-effort wait: exhaustion is reported through Result.Ready
// but is never an error, and callers are expected to proceed either way.
// The first successful probe ends the wait immediately with no trailing
// pause. A failed probe is followed by one Interval pause before the
// countdown is decremented.
func Wait(ctx context.Context, cfg Config, probe Probe) Result {
	res := Result{}
	for remaining := cfg.Budget; remaining >= 0; remaining-- {
		res.Attempts++
		if err := probe(ctx); err == nil {
			res.Ready = true
			return res
		}
		select {
		case <-ctx.Done():
			return res
		case <-time.After(cfg.Interval):
		}
	}
	return res
}
