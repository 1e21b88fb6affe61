package main

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"nodeboot/internal/bootstrap"
	"nodeboot/internal/installer"
	"nodeboot/internal/state"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// executeCommand executes a cobra command and returns its combined
// output and the exit code captured from the stubbed exit function.
func executeCommand(root *cobra.Command, args ...string) (output string, exitCode int, err error) {
	resetFlags(root)
	b := new(bytes.Buffer)

	oldExit := exit
	exit = func(code int) {
		exitCode = code
		if code != 0 {
			panic(fmt.Sprintf("exit-%d", code))
		}
	}
	defer func() { exit = oldExit }()
	defer func() {
		// The exit stub aborts execution via panic; make sure the
		// captured output survives that path too.
		output = b.String()
		if r := recover(); r != nil {
			if s, ok := r.(string); ok && strings.HasPrefix(s, "exit-") {
				// Expected exit, don't re-panic
				return
			}
			panic(r)
		}
	}()

	root.SetArgs(args)
	root.SetOut(b)
	root.SetErr(b)
	root.SetIn(bytes.NewBufferString(""))
	err = root.Execute()
	return output, exitCode, err
}

// resetFlags resets all flags to their default values.
func resetFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Changed {
			f.Value.Set(f.DefValue)
			f.Changed = false
		}
	})
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// --- shared mocks -----------------------------------------------------

type mockJetpack struct {
	values      map[string]string
	downloadErr error
	downloads   []string
}

func (m *mockJetpack) Config(ctx context.Context, key, fallback string) (string, error) {
	if v, ok := m.values[key]; ok {
		return v, nil
	}
	return fallback, nil
}

func (m *mockJetpack) Download(ctx context.Context, project, pkg, destDir string) error {
	if m.downloadErr != nil {
		return m.downloadErr
	}
	m.downloads = append(m.downloads, project+"/"+pkg)
	return nil
}

type mockInstaller struct {
	installErr error
	unpacks    int
	installs   int
}

func (m *mockInstaller) Unpack(ctx context.Context, archive, destDir string) error {
	m.unpacks++
	return nil
}

func (m *mockInstaller) Install(ctx context.Context, dir string, opts installer.Options) error {
	if m.installErr != nil {
		return m.installErr
	}
	m.installs++
	return nil
}

type mockServices struct {
	restartErr error
	startErr   error
	calls      []string
	active     map[string]bool
	activeErr  error
}

func (m *mockServices) Restart(ctx context.Context, unit string) error {
	m.calls = append(m.calls, "restart "+unit)
	return m.restartErr
}

func (m *mockServices) Start(ctx context.Context, unit string) error {
	m.calls = append(m.calls, "start "+unit)
	return m.startErr
}

func (m *mockServices) IsActive(ctx context.Context, unit string) (bool, error) {
	if m.activeErr != nil {
		return false, m.activeErr
	}
	return m.active[unit], nil
}

type mockProbe struct {
	readyAt int
	calls   int
}

func (m *mockProbe) Ping(ctx context.Context) error {
	m.calls++
	if m.readyAt > 0 && m.calls >= m.readyAt {
		return nil
	}
	return fmt.Errorf("socket not ready")
}

type mockStore struct {
	runs     []state.Run
	recErr   error
	queryErr error
	closed   bool
}

func (m *mockStore) Close() error {
	m.closed = true
	return nil
}

func (m *mockStore) RecordRun(run state.Run) error {
	if m.recErr != nil {
		return m.recErr
	}
	m.runs = append(m.runs, run)
	return nil
}

func (m *mockStore) RecentRuns(limit int) ([]state.Run, error) {
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	if limit > len(m.runs) {
		limit = len(m.runs)
	}
	out := make([]state.Run, 0, limit)
	for i := len(m.runs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.runs[i])
	}
	return out, nil
}

func (m *mockStore) LastRun() (*state.Run, error) {
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	if len(m.runs) == 0 {
		return nil, nil
	}
	return &m.runs[len(m.runs)-1], nil
}

type mockNotifier struct {
	events []string
}

func (m *mockNotifier) Notify(ctx context.Context, event, message string) error {
	m.events = append(m.events, event)
	return nil
}

// testSequencer wires a sequencer entirely out of mocks.
func testSequencer(jp *mockJetpack, inst *mockInstaller, svc *mockServices, probe *mockProbe, home string) *bootstrap.Sequencer {
	return &bootstrap.Sequencer{
		Jetpack:   jp,
		Installer: inst,
		Services:  svc,
		Probe:     probe,
		Settings: bootstrap.Settings{
			Home:          home,
			InstallDir:    "azure-slurm-install",
			AuthService:   "munged",
			WorkerService: "slurmd",
			Poll:          pollConfigForTests(),
		},
	}
}
