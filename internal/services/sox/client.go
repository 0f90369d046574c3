package sox

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

// Client wraps SoX CLI interactions.
type Client struct {
	binary  string
	timeout time.Duration

	exec services.Executor

	probeOnce sync.Once
	probeOK   bool
}

// New constructs a SoX client. mergeTimeoutSeconds bounds each merge
// invocation; zero disables the bound.
func New(binary string, mergeTimeoutSeconds int, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("sox binary required")
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
	return "sox"
}

// Available probes the binary once per process and caches the answer.
func (c *Client) Available(ctx context.Context) bool {
	c.probeOnce.Do(func() {
		c.probeOK = c.exec.Run(ctx, c.binary, []string{"--version"}, nil) == nil
	})
	return c.probeOK
}

// Merge combines two input files as the channels of one two-channel output
// file using SoX's merge mode.
func (c *Client) Merge(ctx context.Context, left, right, output string) error {
	mergeCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		mergeCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	// The output type is pinned; sox otherwise derives the handler from
	// the output extension and rejects unfamiliar staging names.
	args := []string{"-M", left, right, "-t", "wav", output, "channels", "2"}
	if err := c.exec.Run(mergeCtx, c.binary, args, nil); err != nil {
		if errors.Is(mergeCtx.Err(), context.DeadlineExceeded) {
			return services.Wrap(services.ErrTimeout, "combine", "sox merge", "merge timed out", err)
		}
		return services.Wrap(services.ErrExternalTool, "combine", "sox merge", "channel merge invocation failed", err)
	}
	return nil
}
