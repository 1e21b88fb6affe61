package svcmgr

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Manager controls host services by unit name.
type Manager interface {
	Restart(ctx context.Context, unit string) error
	Start(ctx context.Context, unit string) error
	IsActive(ctx context.Context, unit string) (bool, error)
}

// Systemctl drives the host init system through the systemctl binary.
type Systemctl struct {
	Bin string
}

// New creates a Systemctl manager. An empty bin falls back to "systemctl"
// on PATH.
func New(bin string) *Systemctl {
	if bin == "" {
		bin = "systemctl"
	}
	return &Systemctl{Bin: bin}
}

func (s *Systemctl) run(ctx context.Context, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	var outBuf, errBuf bytes.Buffer
	cmd := exec.CommandContext(ctx, s.Bin, args...)
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	err := cmd.Run()
	if err != nil {
		return outBuf.String(), fmt.Errorf("%s %s failed: %w\nOutput: %s\nStderr: %s",
			s.Bin, strings.Join(args, " "), err, outBuf.String(), errBuf.String())
	}
	return outBuf.String(), nil
}

// Restart restarts a unit, starting it if it was not running.
func (s *Systemctl) Restart(ctx context.Context, unit string) error {
	_, err := s.run(ctx, "restart", unit)
	return err
}

// Start starts a unit.
func (s *Systemctl) Start(ctx context.Context, unit string) error {
	_, err := s.run(ctx, "start", unit)
	return err
}

// IsActive reports whether a unit is currently active. A non-zero exit
// with recognizable state output ("inactive", "failed", etc) is reported
// as not active rather than as an error, matching `systemctl is-active`
// conventions.
func (s *Systemctl) IsActive(ctx context.Context, unit string) (bool, error) {
	out, err := s.run(ctx, "is-active", unit)
	state := strings.TrimSpace(out)
	if state == "active" {
		return true, nil
	}
	if state != "" {
		// is-active exits non-zero for any inactive state while still
		// printing the state name.
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return false, nil
}
