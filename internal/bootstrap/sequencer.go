package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"nodeboot/internal/installer"
	"nodeboot/internal/jetpack"
	"nodeboot/internal/munge"
	"nodeboot/internal/polling"
	"nodeboot/internal/svcmgr"
)

// Cluster configuration keys and their hard-coded defaults, resolved
// through jetpack at run time.
const (
	KeyDoInstall      = "slurm.do_install"
	KeyInstallPkg     = "slurm.install_pkg"
	KeyProjectName    = "slurm.project_name"
	KeyPlatformFamily = "platform_family"

	DefaultDoInstall      = "True"
	DefaultInstallPkg     = "azure-slurm-install-pkg-1.0.0.tar.gz"
	DefaultProjectName    = "slurm"
	DefaultPlatformFamily = "rhel"
)

// Settings carry the host-level knobs of a bootstrap run. They come from
// the tool configuration, not from the cluster: the cluster side is read
// through jetpack during the run itself.
type Settings struct {
	// Home is the base installation directory (CYCLECLOUD_HOME). The
	// install artifacts are staged under <Home>/system/bootstrap and the
	// installer reads <Home>/config/node.json.
	Home string
	// InstallDir is the top-level directory name inside the install
	// package, entered before invoking the installer.
	InstallDir string
	// AuthService is the authentication daemon unit name.
	AuthService string
	// WorkerService is the worker daemon unit name, started only in
	// execute mode.
	WorkerService string
	// Poll bounds the auth readiness wait.
	Poll polling.Config
}

// Result summarizes a completed run for history and notifications.
type Result struct {
	Mode          Mode
	Installed     bool
	AuthReady     bool
	ProbeAttempts int
	Duration      time.Duration
}

// Sequencer performs the node bootstrap: resolve cluster config, install
// if requested, restart auth, wait for it best-effort, and start the
// worker daemon on execute nodes. Every step that fails aborts the run
// except the readiness wait, which never does.
type Sequencer struct {
	Jetpack   jetpack.Client
	Installer installer.Runner
	Services  svcmgr.Manager
	Probe     munge.Prober
	Settings  Settings
	Logger    *slog.Logger
}

// BootstrapDir is where install artifacts are staged.
func (s *Sequencer) BootstrapDir() string {
	return filepath.Join(s.Settings.Home, "system", "bootstrap")
}

// NodeConfigPath is the fixed bootstrap-config JSON consumed by the
// installer.
func (s *Sequencer) NodeConfigPath() string {
	return filepath.Join(s.Settings.Home, "config", "node.json")
}

func (s *Sequencer) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// Run executes the bootstrap sequence for a validated mode.
func (s *Sequencer) Run(ctx context.Context, mode Mode) (*Result, error) {
	started := time.Now()
	res := &Result{Mode: mode}
	log := s.logger()

	doInstall, err := s.Jetpack.Config(ctx, KeyDoInstall, DefaultDoInstall)
	if err != nil {
		return res, err
	}
	pkg, err := s.Jetpack.Config(ctx, KeyInstallPkg, DefaultInstallPkg)
	if err != nil {
		return res, err
	}
	project, err := s.Jetpack.Config(ctx, KeyProjectName, DefaultProjectName)
	if err != nil {
		return res, err
	}
	platform, err := s.Jetpack.Config(ctx, KeyPlatformFamily, DefaultPlatformFamily)
	if err != nil {
		return res, err
	}

	// The install flag is a literal string match: anything but "True"
	// (including "true") skips the install branch entirely.
	if doInstall == "True" {
		if err := s.install(ctx, mode, project, pkg, platform); err != nil {
			return res, err
		}
		res.Installed = true
	} else {
		log.Info("install disabled, skipping package install", "key", KeyDoInstall, "value", doInstall)
	}

	log.Info("restarting auth daemon", "unit", s.Settings.AuthService)
	if err := s.Services.Restart(ctx, s.Settings.AuthService); err != nil {
		return res, fmt.Errorf("restart %s: %w", s.Settings.AuthService, err)
	}

	wait := polling.Wait(ctx, s.Settings.Poll, s.Probe.Ping)
	res.AuthReady = wait.Ready
	res.ProbeAttempts = wait.Attempts
	if wait.Ready {
		log.Info("auth daemon ready", "attempts", wait.Attempts)
	} else {
		// Best-effort wait: exhaustion was never fatal here and the
		// installer-configured daemons may still come up on their own.
		log.Warn("auth daemon not ready after poll budget, continuing anyway",
			"attempts", wait.Attempts)
	}

	if mode == ModeExecute {
		log.Info("starting worker daemon", "unit", s.Settings.WorkerService)
		if err := s.Services.Start(ctx, s.Settings.WorkerService); err != nil {
			return res, fmt.Errorf("start %s: %w", s.Settings.WorkerService, err)
		}
	}

	res.Duration = time.Since(started)
	return res, nil
}

// install downloads and unpacks the install package, then hands off to
// the packaged installer. Any failure is fatal to the run.
func (s *Sequencer) install(ctx context.Context, mode Mode, project, pkg, platform string) error {
	dir := s.BootstrapDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create bootstrap dir %s: %w", dir, err)
	}

	log := s.logger()
	log.Info("downloading install package", "project", project, "pkg", pkg, "dir", dir)
	if err := s.Jetpack.Download(ctx, project, pkg, dir); err != nil {
		return err
	}

	if err := s.Installer.Unpack(ctx, pkg, dir); err != nil {
		return err
	}

	opts := installer.Options{
		Platform:        platform,
		Mode:            string(mode),
		BootstrapConfig: s.NodeConfigPath(),
	}
	installDir := filepath.Join(dir, s.Settings.InstallDir)
	log.Info("running installer", "dir", installDir, "platform", platform, "mode", mode)
	return s.Installer.Install(ctx, installDir, opts)
}
