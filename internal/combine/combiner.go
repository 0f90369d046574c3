package combine

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"stereoset/internal/config"
	"stereoset/internal/fileutil"
	"stereoset/internal/logging"
	"stereoset/internal/services"
	"stereoset/internal/services/ffmpeg"
	"stereoset/internal/services/sox"
)

// Strategy is one tier of the merge chain.
type Strategy interface {
	// Name identifies the tier in logs and results.
	Name() string
	// Available reports whether the tier can be attempted at all. The
	// answer is expected to be cheap after the first call.
	Available(ctx context.Context) bool
	// Merge writes a two-channel merge of left and right to output.
	Merge(ctx context.Context, left, right, output string) error
}

// Combiner merges two source tracks into one stereo WAV file, trying each
// strategy in order and stopping at the first success.
type Combiner struct {
	strategies []Strategy
	logger     *slog.Logger
}

// New constructs a combiner with the standard tier order: ffmpeg, SoX,
// in-process fallback.
func New(cfg *config.Config, logger *slog.Logger) (*Combiner, error) {
	ffmpegClient, err := ffmpeg.New(cfg.Tools.FFmpegBinary, cfg.Tools.MergeTimeout)
	if err != nil {
		return nil, fmt.Errorf("ffmpeg client: %w", err)
	}
	soxClient, err := sox.New(cfg.Tools.SoxBinary, cfg.Tools.MergeTimeout)
	if err != nil {
		return nil, fmt.Errorf("sox client: %w", err)
	}
	native := nativeStrategy{logger: logging.NewComponentLogger(logger, "native")}
	return NewWithStrategies(logger, ffmpegClient, soxClient, native), nil
}

// NewWithStrategies constructs a combiner with an explicit tier order
// (used in tests).
func NewWithStrategies(logger *slog.Logger, strategies ...Strategy) *Combiner {
	return &Combiner{
		strategies: strategies,
		logger:     logging.NewComponentLogger(logger, "combiner"),
	}
}

// Combine merges left and right into a two-channel WAV at output and
// returns the name of the tier that produced it. Recoverable tier failures
// fall through to the next tier; anything else is terminal for the sample.
func (c *Combiner) Combine(ctx context.Context, left, right, output string) (string, error) {
	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return "", services.Wrap(services.ErrIO, "combine", "prepare output directory", "", err)
	}
	tmpPath := stagingPath(output)

	var lastErr error
	for _, strategy := range c.strategies {
		if !strategy.Available(ctx) {
			c.logger.Debug("merge tier unavailable", logging.String("tier", strategy.Name()))
			continue
		}
		if err := strategy.Merge(ctx, left, right, tmpPath); err != nil {
			_ = os.Remove(tmpPath)
			if !services.Recoverable(err) {
				return "", err
			}
			c.logger.Warn("merge tier failed, falling through",
				logging.String("tier", strategy.Name()),
				logging.Error(err),
			)
			lastErr = err
			continue
		}
		if err := finalize(tmpPath, output); err != nil {
			return "", err
		}
		return strategy.Name(), nil
	}

	if lastErr == nil {
		lastErr = services.Wrap(services.ErrExternalTool, "combine", "select tier", "no merge tier available", nil)
	}
	return "", fmt.Errorf("all merge tiers exhausted: %w", lastErr)
}

// Copy materializes an already-stereo source at output as a verbatim byte
// copy. The only failure mode is I/O.
func (c *Combiner) Copy(src, output string) error {
	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return services.Wrap(services.ErrIO, "combine", "prepare output directory", "", err)
	}
	if err := fileutil.CopyFileAtomic(src, output); err != nil {
		if os.IsNotExist(err) {
			return services.Wrap(services.ErrMissingInput, "combine", "copy passthrough", src, err)
		}
		return services.Wrap(services.ErrIO, "combine", "copy passthrough", src, err)
	}
	return nil
}

// stagingPath returns the temporary merge target next to the final output.
// External tools need a real path argument, so this is a deterministic
// sibling rather than an anonymous temp file. The original extension stays
// last: ffmpeg and sox both pick the output format from it and reject a
// path ending in anything else.
func stagingPath(output string) string {
	base := filepath.Base(output)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	return filepath.Join(filepath.Dir(output), "."+stem+".partial"+ext)
}

func finalize(tmpPath, output string) error {
	info, err := os.Stat(tmpPath)
	if err != nil {
		return services.Wrap(services.ErrIO, "combine", "finalize output", "merge produced no file", err)
	}
	if info.Size() == 0 {
		_ = os.Remove(tmpPath)
		return services.Wrap(services.ErrIO, "combine", "finalize output", "merge produced an empty file", nil)
	}
	if err := os.Rename(tmpPath, output); err != nil {
		_ = os.Remove(tmpPath)
		return services.Wrap(services.ErrIO, "combine", "finalize output", "", err)
	}
	return nil
}
