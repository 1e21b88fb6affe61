package main

import (
	"context"
	"fmt"
	"time"

	"nodeboot/internal/state"
	"nodeboot/internal/svcmgr"
	"nodeboot/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var newServiceManager = func() svcmgr.Manager {
	return svcmgr.New(viper.GetString("systemctl.bin"))
}

// runWatch starts the refreshing dashboard; a variable so tests can
// avoid opening a real terminal.
var runWatch = func(model ui.WatchModel) error {
	_, err := tea.NewProgram(model).Run()
	return err
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the managed daemons and the last bootstrap run",
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().Bool("watch", false, "Keep refreshing the service states")
	statusCmd.Flags().Duration("interval", time.Second, "Refresh interval for --watch")
	rootCmd.AddCommand(statusCmd)
}

func managedUnits() []string {
	return []string{
		viper.GetString("services.auth"),
		viper.GetString("services.worker"),
	}
}

func fetchStatuses(ctx context.Context, m svcmgr.Manager) []ui.ServiceStatus {
	var out []ui.ServiceStatus
	for _, unit := range managedUnits() {
		active, err := m.IsActive(ctx, unit)
		out = append(out, ui.ServiceStatus{Unit: unit, Active: active, Err: err})
	}
	return out
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	mgr := newServiceManager()

	watch, _ := cmd.Flags().GetBool("watch")
	if watch {
		interval, _ := cmd.Flags().GetDuration("interval")
		model := ui.NewWatchModel(func() []ui.ServiceStatus {
			return fetchStatuses(ctx, mgr)
		}, interval)
		return runWatch(model)
	}

	// Last run is best-effort: a missing history store should not hide
	// the service states.
	last, err := lastRecordedRun()
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: history unavailable: %v\n", err)
	}

	fmt.Fprint(cmd.OutOrStdout(), ui.RenderStatus(fetchStatuses(ctx, mgr), last))
	return nil
}

func lastRecordedRun() (*state.Run, error) {
	store, err := newRunStore()
	if err != nil {
		return nil, err
	}
	defer store.Close()
	return store.LastRun()
}
