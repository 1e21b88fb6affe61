package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded bootstrap runs",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "Maximum number of runs to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	store, err := newRunStore()
	if err != nil {
		return fmt.Errorf("open history store: %w", err)
	}
	defer store.Close()

	runs, err := store.RecentRuns(limit)
	if err != nil {
		return fmt.Errorf("query history: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "No bootstrap runs recorded.")
		return nil
	}

	fmt.Fprintf(out, "%-20s %-8s %-7s %-6s %-7s %-9s %s\n",
		"WHEN", "MODE", "INSTALL", "AUTH", "PROBES", "DURATION", "RESULT")
	fmt.Fprintln(out, strings.Repeat("-", 80))
	for _, r := range runs {
		result := "ok"
		if r.Error != "" {
			result = r.Error
		}
		fmt.Fprintf(out, "%-20s %-8s %-7v %-6v %-7d %-9s %s\n",
			r.CreatedAt.Format("2006-01-02 15:04:05"),
			r.Mode, r.Installed, r.AuthReady, r.ProbeAttempts,
			fmt.Sprintf("%dms", r.DurationMS), result)
	}
	return nil
}
