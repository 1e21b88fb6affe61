package main

import (
	"testing"
	"time"

	"nodeboot/internal/bootstrap"
	"nodeboot/internal/notify"
	"nodeboot/internal/polling"
	"nodeboot/internal/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pollConfigForTests() polling.Config {
	return polling.Config{Budget: 60, Interval: time.Millisecond}
}

// withBootstrapMocks swaps all command factories for mocks and restores
// them afterwards.
func withBootstrapMocks(t *testing.T, seq *bootstrap.Sequencer, store *mockStore, notifier *mockNotifier) *int {
	t.Helper()

	sequencerCalls := new(int)

	origSeq, origStore, origNotify := newSequencer, newRunStore, newNotifier
	t.Cleanup(func() {
		newSequencer, newRunStore, newNotifier = origSeq, origStore, origNotify
	})

	newSequencer = func() *bootstrap.Sequencer {
		*sequencerCalls++
		return seq
	}
	newRunStore = func() (state.Store, error) {
		return store, nil
	}
	newNotifier = func() notify.Notifier {
		if notifier == nil {
			return nil
		}
		return notifier
	}
	return sequencerCalls
}

func TestBootstrapCmd_UsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"No Args", []string{"bootstrap"}},
		{"Bogus Mode", []string{"bootstrap", "bogus"}},
		{"Substring Login", []string{"bootstrap", "log"}},
		{"Superstring Execute", []string{"bootstrap", "executes"}},
		{"Too Many Args", []string{"bootstrap", "login", "execute"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			seq := testSequencer(&mockJetpack{}, &mockInstaller{}, &mockServices{}, &mockProbe{readyAt: 1}, t.TempDir())
			calls := withBootstrapMocks(t, seq, &mockStore{}, nil)

			out, code, _ := executeCommand(rootCmd, tc.args...)

			assert.Equal(t, 1, code, "invalid mode must exit 1")
			assert.Contains(t, out, "Usage: nodeboot bootstrap [login|execute]")
			assert.Equal(t, 0, *calls, "no side effects for an invalid mode")
		})
	}
}

func TestBootstrapCmd_LoginNeverStartsWorker(t *testing.T) {
	svc := &mockServices{}
	seq := testSequencer(&mockJetpack{values: map[string]string{bootstrap.KeyDoInstall: "False"}},
		&mockInstaller{}, svc, &mockProbe{readyAt: 1}, t.TempDir())
	store := &mockStore{}
	withBootstrapMocks(t, seq, store, nil)

	_, code, err := executeCommand(rootCmd, "bootstrap", "login")
	require.NoError(t, err)

	assert.Equal(t, 0, code)
	assert.Equal(t, []string{"restart munged"}, svc.calls)

	require.Len(t, store.runs, 1)
	assert.Equal(t, "login", store.runs[0].Mode)
	assert.True(t, store.runs[0].AuthReady)
	assert.True(t, store.closed)
}

func TestBootstrapCmd_ExecuteFlow(t *testing.T) {
	jp := &mockJetpack{}
	inst := &mockInstaller{}
	svc := &mockServices{}
	probe := &mockProbe{readyAt: 3}
	seq := testSequencer(jp, inst, svc, probe, t.TempDir())
	store := &mockStore{}
	notifier := &mockNotifier{}
	withBootstrapMocks(t, seq, store, notifier)

	_, code, err := executeCommand(rootCmd, "bootstrap", "execute")
	require.NoError(t, err)
	assert.Equal(t, 0, code)

	// Default install flag is True, so the install branch runs.
	assert.Equal(t, []string{"slurm/azure-slurm-install-pkg-1.0.0.tar.gz"}, jp.downloads)
	assert.Equal(t, 1, inst.installs)

	// Worker start comes after the auth restart, exactly once.
	assert.Equal(t, []string{"restart munged", "start slurmd"}, svc.calls)
	assert.Equal(t, 3, probe.calls)

	require.Len(t, store.runs, 1)
	run := store.runs[0]
	assert.Equal(t, "execute", run.Mode)
	assert.True(t, run.Installed)
	assert.Equal(t, 3, run.ProbeAttempts)
	assert.Empty(t, run.Error)

	assert.Equal(t, []string{notify.EventStart, notify.EventSuccess}, notifier.events)
}

func TestBootstrapCmd_SequencerFailure(t *testing.T) {
	svc := &mockServices{startErr: assert.AnError}
	seq := testSequencer(&mockJetpack{values: map[string]string{bootstrap.KeyDoInstall: "False"}},
		&mockInstaller{}, svc, &mockProbe{readyAt: 1}, t.TempDir())
	store := &mockStore{}
	notifier := &mockNotifier{}
	withBootstrapMocks(t, seq, store, notifier)

	out, code, _ := executeCommand(rootCmd, "bootstrap", "execute")

	assert.Equal(t, 1, code)
	assert.Contains(t, out, "Error: start slurmd")

	// The failed run is still recorded and announced.
	require.Len(t, store.runs, 1)
	assert.Contains(t, store.runs[0].Error, "start slurmd")
	assert.Equal(t, []string{notify.EventStart, notify.EventFailure}, notifier.events)
}

func TestBootstrapCmd_PollExhaustionStillSucceeds(t *testing.T) {
	svc := &mockServices{}
	seq := testSequencer(&mockJetpack{values: map[string]string{bootstrap.KeyDoInstall: "False"}},
		&mockInstaller{}, svc, &mockProbe{}, t.TempDir())
	seq.Settings.Poll = polling.Config{Budget: 2, Interval: 0}
	store := &mockStore{}
	withBootstrapMocks(t, seq, store, nil)

	_, code, err := executeCommand(rootCmd, "bootstrap", "execute")
	require.NoError(t, err)

	assert.Equal(t, 0, code, "poll exhaustion must not fail the command")
	assert.Equal(t, []string{"restart munged", "start slurmd"}, svc.calls)
	require.Len(t, store.runs, 1)
	assert.False(t, store.runs[0].AuthReady)
	assert.Equal(t, 3, store.runs[0].ProbeAttempts)
}

func TestBootstrapCmd_StoreFailureIsNonFatal(t *testing.T) {
	seq := testSequencer(&mockJetpack{values: map[string]string{bootstrap.KeyDoInstall: "False"}},
		&mockInstaller{}, &mockServices{}, &mockProbe{readyAt: 1}, t.TempDir())
	withBootstrapMocks(t, seq, &mockStore{recErr: assert.AnError}, nil)

	_, code, err := executeCommand(rootCmd, "bootstrap", "login")
	require.NoError(t, err)
	assert.Equal(t, 0, code, "history problems must never fail provisioning")
}
