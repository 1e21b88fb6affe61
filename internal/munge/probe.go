package munge

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"
)

// Prober checks whether the local authentication daemon answers requests.
type Prober interface {
	Ping(ctx context.Context) error
}

// Client probes munged by pushing a fixed payload through the munge and
// unmunge command line tools. Both talk to the daemon over its local
// socket, so a clean round trip means the daemon is accepting requests.
type Client struct {
	MungeBin   string
	UnmungeBin string
}

// NewClient creates a probe client using the standard munge tool names.
func NewClient() *Client {
	return &Client{MungeBin: "munge", UnmungeBin: "unmunge"}
}

// Ping encodes a test credential and decodes it again, discarding all
// output. Any failure on either side means the daemon is not ready yet.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	encode := exec.CommandContext(ctx, c.MungeBin)
	encode.Stdin = strings.NewReader("test\n")
	cred, err := encode.Output()
	if err != nil {
		return fmt.Errorf("munge encode failed: %w", err)
	}

	decode := exec.CommandContext(ctx, c.UnmungeBin)
	decode.Stdin = bytes.NewReader(cred)
	decode.Stdout = io.Discard
	decode.Stderr = io.Discard
	if err := decode.Run(); err != nil {
		return fmt.Errorf("unmunge decode failed: %w", err)
	}
	return nil
}
