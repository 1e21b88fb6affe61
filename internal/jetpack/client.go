package jetpack

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// Client reads cluster configuration and fetches project packages through
// the node-local jetpack installation.
type Client interface {
	// Config resolves a cluster configuration key, returning fallback when
	// the key is not set on the node.
	Config(ctx context.Context, key, fallback string) (string, error)
	// Download fetches a package blob from a project into destDir.
	Download(ctx context.Context, project, pkg, destDir string) error
}

// CLI shells out to the jetpack binary.
type CLI struct {
	Bin string
}

// NewCLI creates a client for the given jetpack binary. An empty bin
// falls back to "jetpack" on PATH.
func NewCLI(bin string) *CLI {
	if bin == "" {
		bin = "jetpack"
	}
	return &CLI{Bin: bin}
}

// Config runs `jetpack config <key> <fallback>` and returns the trimmed
// value. jetpack itself applies the fallback when the key is absent.
func (c *CLI) Config(ctx context.Context, key, fallback string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.Bin, "config", key, fallback)
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("jetpack config %s failed: %w\nStderr: %s", key, err, stderr.String())
	}
	return strings.TrimSpace(string(out)), nil
}

// Download runs `jetpack download --project <project> <pkg>` with destDir
// as the working directory, so the blob lands next to where it will be
// unpacked.
func (c *CLI) Download(ctx context.Context, project, pkg, destDir string) error {
	// Package blobs can be large; give the transfer room.
	ctx, cancel := context.WithTimeout(ctx, 15*time.Minute)
	defer cancel()

	var outBuf, errBuf bytes.Buffer
	cmd := exec.CommandContext(ctx, c.Bin, "download", "--project", project, pkg)
	cmd.Dir = destDir
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf
	cmd.Env = os.Environ()

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("jetpack download %s/%s failed: %w\nOutput: %s\nStderr: %s",
			project, pkg, err, outBuf.String(), errBuf.String())
	}
	return nil
}
