package ffmpeg

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"stereoset/internal/services"
)

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec services.Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// Client wraps ffmpeg CLI interactions.
type Client struct {
	binary  string
	timeout time.Duration

	exec services.Executor

	probeOnce sync.Once
	probeOK   bool
}

// New constructs an ffmpeg client. mergeTimeoutSeconds bounds each merge
// invocation; zero disables the bound.
func New(binary string, mergeTimeoutSeconds int, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("ffmpeg binary required")
	}
	client := &Client{
		binary:  binary,
		timeout: time.Duration(mergeTimeoutSeconds) * time.Second,
		exec:    services.NewCommandExecutor(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Name identifies the client in logs and results.
func (c *Client) Name() string {
	return "ffmpeg"
}

// Available probes the binary once per process and caches the answer.
func (c *Client) Available(ctx context.Context) bool {
	c.probeOnce.Do(func() {
		c.probeOK = c.exec.Run(ctx, c.binary, []string{"-version"}, nil) == nil
	})
	return c.probeOK
}

// Merge combines two input files into a single two-channel file at output,
// overwriting any existing file. The left input becomes channel one.
func (c *Client) Merge(ctx context.Context, left, right, output string) error {
	mergeCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		mergeCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", left,
		"-i", right,
		"-filter_complex", "[0:a][1:a]amerge=inputs=2[aout]",
		"-map", "[aout]",
		"-ac", "2",
		// Pin the muxer; ffmpeg otherwise infers it from the output
		// extension and rejects unfamiliar staging names.
		"-f", "wav",
		output,
	}
	if err := c.exec.Run(mergeCtx, c.binary, args, nil); err != nil {
		if errors.Is(mergeCtx.Err(), context.DeadlineExceeded) {
			return services.Wrap(services.ErrTimeout, "combine", "ffmpeg merge", "merge timed out", err)
		}
		return services.Wrap(services.ErrExternalTool, "combine", "ffmpeg merge", "amerge invocation failed", err)
	}
	return nil
}
