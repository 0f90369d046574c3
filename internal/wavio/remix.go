package wavio

import (
	"errors"
	"math"
)

// Downmix reduces a stream to a single channel by averaging the samples of
// each frame. Mono streams are returned unchanged.
func Downmix(s Stream) Stream {
	if s.Channels <= 1 {
		return s
	}
	frames := s.Frames()
	out := make([]byte, frames*s.SampleWidth)
	for f := 0; f < frames; f++ {
		var sum int64
		for c := 0; c < s.Channels; c++ {
			sum += int64(sampleAt(s.Data, f*s.Channels+c, s.SampleWidth))
		}
		putSample(out, f, s.SampleWidth, int(sum/int64(s.Channels)))
	}
	return Stream{SampleRate: s.SampleRate, SampleWidth: s.SampleWidth, Channels: 1, Data: out}
}

// Resample converts a mono stream to the given rate using linear
// interpolation. This is a lossy last-resort conversion; the goal is a
// playable stream, not transparency.
func Resample(s Stream, rate int) Stream {
	if rate <= 0 || s.SampleRate <= 0 || s.SampleRate == rate || s.Channels != 1 {
		return s
	}
	srcFrames := s.Frames()
	dstFrames := int(math.Round(float64(srcFrames) * float64(rate) / float64(s.SampleRate)))
	out := make([]byte, dstFrames*s.SampleWidth)
	step := float64(s.SampleRate) / float64(rate)
	for i := 0; i < dstFrames; i++ {
		pos := float64(i) * step
		j := int(pos)
		if j >= srcFrames-1 {
			putSample(out, i, s.SampleWidth, sampleAt(s.Data, srcFrames-1, s.SampleWidth))
			continue
		}
		frac := pos - float64(j)
		a := float64(sampleAt(s.Data, j, s.SampleWidth))
		b := float64(sampleAt(s.Data, j+1, s.SampleWidth))
		putSample(out, i, s.SampleWidth, int(math.Round(a+(b-a)*frac)))
	}
	return Stream{SampleRate: rate, SampleWidth: s.SampleWidth, Channels: 1, Data: out}
}

// ConvertWidth rescales every sample to the given width by bit shifting.
func ConvertWidth(s Stream, width int) Stream {
	if width == s.SampleWidth || width < 1 || width > 4 {
		return s
	}
	count := len(s.Data) / s.SampleWidth
	out := make([]byte, count*width)
	shift := 8 * (width - s.SampleWidth)
	for i := 0; i < count; i++ {
		v := sampleAt(s.Data, i, s.SampleWidth)
		if shift > 0 {
			v <<= shift
		} else {
			v >>= -shift
		}
		putSample(out, i, width, v)
	}
	return Stream{SampleRate: s.SampleRate, SampleWidth: width, Channels: s.Channels, Data: out}
}

// Interleave combines two mono streams of equal width into one two-channel
// stream (left sample, right sample, ...). The shorter stream is extended
// with zero-valued samples so the result spans max(left, right) frames.
// The output carries the left stream's rate.
func Interleave(left, right Stream) (Stream, error) {
	if left.Channels != 1 || right.Channels != 1 {
		return Stream{}, errors.New("wav: interleave requires mono inputs")
	}
	if left.SampleWidth != right.SampleWidth {
		return Stream{}, errors.New("wav: interleave requires matching sample widths")
	}

	width := left.SampleWidth
	leftFrames := left.Frames()
	rightFrames := right.Frames()
	frames := leftFrames
	if rightFrames > frames {
		frames = rightFrames
	}

	out := make([]byte, frames*2*width)
	for f := 0; f < frames; f++ {
		var l, r int
		if f < leftFrames {
			l = sampleAt(left.Data, f, width)
		}
		if f < rightFrames {
			r = sampleAt(right.Data, f, width)
		}
		putSample(out, 2*f, width, l)
		putSample(out, 2*f+1, width, r)
	}
	return Stream{SampleRate: left.SampleRate, SampleWidth: width, Channels: 2, Data: out}, nil
}
