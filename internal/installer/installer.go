package installer

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"
)

// Options describe a single installer invocation.
type Options struct {
	// Platform is the OS family passed through to the installer (rhel,
	// debian, suse).
	Platform string
	// Mode is the node role, login or execute.
	Mode string
	// BootstrapConfig is the path of the node configuration JSON the
	// installer reads.
	BootstrapConfig string
}

// Runner unpacks the install package and drives the external installer.
type Runner interface {
	Unpack(ctx context.Context, archive, destDir string) error
	Install(ctx context.Context, dir string, opts Options) error
}

// Exec implements Runner by shelling out to tar and the packaged
// installer script.
type Exec struct {
	TarBin string
	Python string
	Script string
}

// NewExec creates a Runner with the standard tool names: system tar and
// the python installer shipped inside the package.
func NewExec() *Exec {
	return &Exec{TarBin: "tar", Python: "python3", Script: "install.py"}
}

// Unpack extracts a gzipped tarball in place, with destDir as the
// working directory so the package's top-level directory lands there.
func (e *Exec) Unpack(ctx context.Context, archive, destDir string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	var errBuf bytes.Buffer
	cmd := exec.CommandContext(ctx, e.TarBin, "xzf", archive)
	cmd.Dir = destDir
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("unpack %s failed: %w\nStderr: %s", archive, err, errBuf.String())
	}
	return nil
}

// Install invokes the installer script inside dir. The installer owns the
// actual daemon configuration; stdout and stderr are passed through so
// its progress shows up in the bootstrap log.
func (e *Exec) Install(ctx context.Context, dir string, opts Options) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Minute)
	defer cancel()

	cmd := exec.CommandContext(ctx, e.Python, e.Script,
		"--platform", opts.Platform,
		"--mode", opts.Mode,
		"--bootstrap-config", opts.BootstrapConfig,
	)
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = os.Environ()

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("installer failed in %s: %w", dir, err)
	}
	return nil
}
