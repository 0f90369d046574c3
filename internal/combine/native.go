package combine

import (
	"context"
	"log/slog"

	"stereoset/internal/logging"
	"stereoset/internal/services"
	"stereoset/internal/wavio"
)

// nativeStrategy is the in-process last-resort merge tier. It decodes both
// inputs, reduces them to mono, conforms the right stream to the left
// stream's rate and width, and interleaves the result. The conversions are
// lossy; the goal is a playable file, not fidelity.
type nativeStrategy struct {
	logger *slog.Logger
}

// NativeStrategy returns the in-process merge tier on its own, without the
// external-tool tiers ahead of it.
func NativeStrategy() Strategy {
	return nativeStrategy{logger: logging.NewNop()}
}

func (nativeStrategy) Name() string {
	return "native"
}

func (nativeStrategy) Available(context.Context) bool {
	return true
}

func (s nativeStrategy) Merge(ctx context.Context, left, right, output string) error {
	if err := ctx.Err(); err != nil {
		return services.Wrap(services.ErrTimeout, "combine", "native merge", "", err)
	}

	leftStream, err := wavio.ReadFile(left)
	if err != nil {
		return services.Wrap(services.ErrIO, "combine", "native merge", "read left stream", err)
	}
	rightStream, err := wavio.ReadFile(right)
	if err != nil {
		return services.Wrap(services.ErrIO, "combine", "native merge", "read right stream", err)
	}

	leftStream = wavio.Downmix(leftStream)
	rightStream = wavio.Downmix(rightStream)

	// The left stream defines the output format; only the right stream is
	// ever converted.
	if rightStream.SampleRate != leftStream.SampleRate {
		s.logger.Warn("sample rate mismatch, resampling right stream",
			logging.Int("left_rate", leftStream.SampleRate),
			logging.Int("right_rate", rightStream.SampleRate),
		)
		rightStream = wavio.Resample(rightStream, leftStream.SampleRate)
	}
	if rightStream.SampleWidth != leftStream.SampleWidth {
		s.logger.Warn("sample width mismatch, converting right stream",
			logging.Int("left_width", leftStream.SampleWidth),
			logging.Int("right_width", rightStream.SampleWidth),
		)
		rightStream = wavio.ConvertWidth(rightStream, leftStream.SampleWidth)
	}

	stereo, err := wavio.Interleave(leftStream, rightStream)
	if err != nil {
		return services.Wrap(services.ErrIO, "combine", "native merge", "interleave streams", err)
	}
	if err := wavio.WriteFile(output, stereo); err != nil {
		return services.Wrap(services.ErrIO, "combine", "native merge", "write output", err)
	}
	return nil
}
