package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"nodeboot/internal/bootstrap"
	"nodeboot/internal/installer"
	"nodeboot/internal/jetpack"
	"nodeboot/internal/munge"
	"nodeboot/internal/notify"
	"nodeboot/internal/polling"
	"nodeboot/internal/state"
	"nodeboot/internal/svcmgr"
	"nodeboot/internal/telemetry"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const bootstrapUsage = "Usage: nodeboot bootstrap [login|execute]"

// Factories are variables so tests can swap in mocks.
var newSequencer = func() *bootstrap.Sequencer {
	return &bootstrap.Sequencer{
		Jetpack: jetpack.NewCLI(viper.GetString("jetpack.bin")),
		Installer: &installer.Exec{
			TarBin: "tar",
			Python: viper.GetString("installer.python"),
			Script: viper.GetString("installer.script"),
		},
		Services: svcmgr.New(viper.GetString("systemctl.bin")),
		Probe:    munge.NewClient(),
		Settings: bootstrap.Settings{
			Home:          viper.GetString("cyclecloud_home"),
			InstallDir:    viper.GetString("installer.dir"),
			AuthService:   viper.GetString("services.auth"),
			WorkerService: viper.GetString("services.worker"),
			Poll: polling.Config{
				Budget:   viper.GetInt("poll.budget"),
				Interval: viper.GetDuration("poll.interval"),
			},
		},
	}
}

var newRunStore = func() (state.Store, error) {
	return state.NewStore(state.StoreConfig{
		Driver: viper.GetString("state.driver"),
		DSN:    viper.GetString("state.dsn"),
	})
}

var newNotifier = func() notify.Notifier {
	if n := notify.NewSlackNotifier(); n != nil {
		return n
	}
	return nil
}

var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap <login|execute>",
	Short: "Install and start the node's scheduler daemons",
	Long: `Runs the node bootstrap sequence: resolve cluster configuration through
jetpack, install the scheduler package when slurm.do_install is True,
restart munged, wait best-effort for it to answer, and start slurmd on
execute nodes. Login nodes never run the worker daemon.`,
	Args: cobra.ArbitraryArgs,
	Run:  runBootstrap,
}

func init() {
	rootCmd.AddCommand(bootstrapCmd)
}

func runBootstrap(cmd *cobra.Command, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(cmd.OutOrStdout(), bootstrapUsage)
		exit(1)
		return
	}
	mode, err := bootstrap.ParseMode(args[0])
	if err != nil {
		fmt.Fprintln(cmd.OutOrStdout(), bootstrapUsage)
		exit(1)
		return
	}

	if err := executeBootstrap(cmd.Context(), mode); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		exit(1)
	}
}

// executeBootstrap runs the sequence and handles the best-effort
// observability around it: history, metrics, notifications. Only the
// sequence itself can fail the command.
func executeBootstrap(ctx context.Context, mode bootstrap.Mode) error {
	if ctx == nil {
		ctx = context.Background()
	}

	hostname, _ := os.Hostname()
	notifier := newNotifier()
	if notifier != nil {
		msg := fmt.Sprintf("bootstrap started on %s (mode=%s)", hostname, mode)
		if err := notifier.Notify(ctx, notify.EventStart, msg); err != nil {
			slog.Warn("notification failed", "event", notify.EventStart, "error", err)
		}
	}

	metrics := telemetry.NewBootstrapMetrics()
	started := time.Now()
	res, runErr := newSequencer().Run(ctx, mode)
	elapsed := time.Since(started)

	metrics.ProbeAttempts.Add(float64(res.ProbeAttempts))
	metrics.AuthReady.Set(boolGauge(res.AuthReady))
	metrics.RunSuccess.Set(boolGauge(runErr == nil))
	metrics.ObserveStep("run", elapsed)

	recordRun(res, hostname, elapsed, runErr)
	pushMetrics(metrics, hostname)

	if notifier != nil {
		event := notify.EventSuccess
		msg := fmt.Sprintf("bootstrap finished on %s (mode=%s, auth_ready=%v, probes=%d)",
			hostname, mode, res.AuthReady, res.ProbeAttempts)
		if runErr != nil {
			event = notify.EventFailure
			msg = fmt.Sprintf("bootstrap FAILED on %s (mode=%s): %v", hostname, mode, runErr)
		}
		if err := notifier.Notify(ctx, event, msg); err != nil {
			slog.Warn("notification failed", "event", event, "error", err)
		}
	}

	return runErr
}

func recordRun(res *bootstrap.Result, hostname string, elapsed time.Duration, runErr error) {
	store, err := newRunStore()
	if err != nil {
		slog.Warn("history store unavailable", "error", err)
		return
	}
	defer store.Close()

	run := state.Run{
		Hostname:      hostname,
		Mode:          string(res.Mode),
		Installed:     res.Installed,
		AuthReady:     res.AuthReady,
		ProbeAttempts: res.ProbeAttempts,
		DurationMS:    elapsed.Milliseconds(),
	}
	if runErr != nil {
		run.Error = runErr.Error()
	}
	if err := store.RecordRun(run); err != nil {
		slog.Warn("failed to record bootstrap run", "error", err)
	}
}

func pushMetrics(m *telemetry.BootstrapMetrics, hostname string) {
	gateway := viper.GetString("metrics.pushgateway")
	if gateway == "" {
		return
	}
	if err := m.Push(gateway, viper.GetString("metrics.job"), hostname); err != nil {
		slog.Warn("metrics push failed", "gateway", gateway, "error", err)
	}
}

func boolGauge(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
