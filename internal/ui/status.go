package ui

import (
	"fmt"
	"strings"
	"time"

	"nodeboot/internal/state"
)

// ServiceStatus is one row of the status report.
type ServiceStatus struct {
	Unit   string
	Active bool
	Err    error
}

// RenderStatus builds the one-shot status report: managed services plus
// the last recorded bootstrap run.
func RenderStatus(services []ServiceStatus, last *state.Run) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Node Status"))
	b.WriteString("\n\n[Services]\n")
	for _, s := range services {
		b.WriteString("  " + renderServiceLine(s) + "\n")
	}

	b.WriteString("\n[Last Bootstrap]\n")
	if last == nil {
		b.WriteString(dimStyle.Render("  never bootstrapped") + "\n")
		return b.String()
	}

	outcome := okStyle.Render("ok")
	if last.Error != "" {
		outcome = downStyle.Render("failed: " + last.Error)
	}
	b.WriteString(fmt.Sprintf("  %-10s %s\n", "mode:", last.Mode))
	b.WriteString(fmt.Sprintf("  %-10s %s\n", "result:", outcome))
	b.WriteString(fmt.Sprintf("  %-10s %s\n", "when:", last.CreatedAt.Format(time.RFC3339)))
	b.WriteString(fmt.Sprintf("  %-10s %d probes, auth ready: %v\n", "readiness:", last.ProbeAttempts, last.AuthReady))
	return b.String()
}

func renderServiceLine(s ServiceStatus) string {
	switch {
	case s.Err != nil:
		return fmt.Sprintf("%-12s %s", s.Unit, warnStyle.Render("unknown ("+s.Err.Error()+")"))
	case s.Active:
		return fmt.Sprintf("%-12s %s", s.Unit, okStyle.Render("active"))
	default:
		return fmt.Sprintf("%-12s %s", s.Unit, downStyle.Render("inactive"))
	}
}
