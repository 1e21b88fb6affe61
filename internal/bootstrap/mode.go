package bootstrap

import "fmt"

// Mode is the node role being bootstrapped.
type Mode string

const (
	// ModeLogin provisions a user-facing access node. No worker daemon
	// runs on it.
	ModeLogin Mode = "login"
	// ModeExecute provisions a node that runs scheduled workload and
	// therefore gets the worker daemon started at the end.
	ModeExecute Mode = "execute"
)

// ParseMode validates a mode argument. The match is whole-word: "log",
// "execute-ish" and friends are rejected.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeLogin:
		return ModeLogin, nil
	case ModeExecute:
		return ModeExecute, nil
	}
	return "", fmt.Errorf("invalid mode %q", s)
}
