package wavio_test

import (
	"testing"

	"stereoset/internal/wavio"
)

func monoStream(rate int, samples ...int16) wavio.Stream {
	data := make([]byte, len(samples)*2)
	for i, s := range samples {
		data[2*i] = byte(uint16(s))
		data[2*i+1] = byte(uint16(s) >> 8)
	}
	return wavio.Stream{SampleRate: rate, SampleWidth: 2, Channels: 1, Data: data}
}

func samples16(s wavio.Stream) []int16 {
	out := make([]int16, len(s.Data)/2)
	for i := range out {
		out[i] = int16(uint16(s.Data[2*i]) | uint16(s.Data[2*i+1])<<8)
	}
	return out
}

func TestDownmixAveragesChannels(t *testing.T) {
	stereo := wavio.Stream{
		SampleRate:  16000,
		SampleWidth: 2,
		Channels:    2,
		// Frames: (100, 200), (-300, 100)
		Data: func() []byte {
			s := monoStream(16000, 100, 200, -300, 100)
			return s.Data
		}(),
	}

	mono := wavio.Downmix(stereo)
	if mono.Channels != 1 {
		t.Fatalf("expected mono output, got %d channels", mono.Channels)
	}
	got := samples16(mono)
	want := []int16{150, -100}
	if len(got) != len(want) {
		t.Fatalf("expected %d frames, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("frame %d: got %d want %d", i, got[i], want[i])
		}
	}
}

func TestDownmixLeavesMonoUntouched(t *testing.T) {
	mono := monoStream(8000, 1, 2, 3)
	got := wavio.Downmix(mono)
	if got.Frames() != 3 || got.Channels != 1 {
		t.Fatalf("unexpected stream %+v", got)
	}
}

func TestResampleChangesFrameCountProportionally(t *testing.T) {
	cases := []struct {
		name       string
		srcRate    int
		dstRate    int
		srcFrames  int
		wantFrames int
	}{
		{"downsample by half", 16000, 8000, 100, 50},
		{"upsample by double", 8000, 16000, 100, 200},
		{"same rate", 16000, 16000, 100, 100},
		{"empty stream", 16000, 8000, 0, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			src := wavio.Stream{SampleRate: tc.srcRate, SampleWidth: 2, Channels: 1, Data: make([]byte, tc.srcFrames*2)}
			got := wavio.Resample(src, tc.dstRate)
			if got.SampleRate != tc.dstRate {
				t.Fatalf("expected rate %d, got %d", tc.dstRate, got.SampleRate)
			}
			if got.Frames() != tc.wantFrames {
				t.Fatalf("expected %d frames, got %d", tc.wantFrames, got.Frames())
			}
		})
	}
}

func TestResampleInterpolatesLinearly(t *testing.T) {
	src := monoStream(8000, 0, 100)
	got := wavio.Resample(src, 16000)
	vals := samples16(got)
	if len(vals) != 4 {
		t.Fatalf("expected 4 frames, got %d", len(vals))
	}
	if vals[0] != 0 || vals[1] != 50 {
		t.Fatalf("expected interpolated midpoint 50, got %v", vals)
	}
}

func TestConvertWidthScalesValues(t *testing.T) {
	src := monoStream(8000, 0x0100)
	got := wavio.ConvertWidth(src, 1)
	if got.SampleWidth != 1 {
		t.Fatalf("expected width 1, got %d", got.SampleWidth)
	}
	// 0x0100 >> 8 == 1, stored offset-binary for 8-bit PCM.
	if got.Data[0] != 0x81 {
		t.Fatalf("unexpected byte %#x", got.Data[0])
	}

	back := wavio.ConvertWidth(got, 2)
	if back.SampleWidth != 2 {
		t.Fatalf("expected width 2, got %d", back.SampleWidth)
	}
	if samples16(back)[0] != 0x0100 {
		t.Fatalf("unexpected widened value %d", samples16(back)[0])
	}
}

func TestInterleaveReproducesBothInputs(t *testing.T) {
	left := monoStream(16000, 10, 20, 30)
	right := monoStream(16000, -10, -20, -30)

	got, err := wavio.Interleave(left, right)
	if err != nil {
		t.Fatalf("Interleave returned error: %v", err)
	}
	if got.Channels != 2 || got.SampleRate != 16000 || got.Frames() != 3 {
		t.Fatalf("unexpected stream %+v", got)
	}
	vals := samples16(got)
	want := []int16{10, -10, 20, -20, 30, -30}
	for i := range want {
		if vals[i] != want[i] {
			t.Fatalf("sample %d: got %d want %d", i, vals[i], want[i])
		}
	}
}

func TestInterleavePadsShorterStreamWithSilence(t *testing.T) {
	left := monoStream(16000, 1, 2, 3, 4)
	right := monoStream(16000, 9)

	got, err := wavio.Interleave(left, right)
	if err != nil {
		t.Fatalf("Interleave returned error: %v", err)
	}
	if got.Frames() != 4 {
		t.Fatalf("expected max(4,1)=4 frames, got %d", got.Frames())
	}
	vals := samples16(got)
	// Right channel beyond its own length must be zero-valued samples.
	for f := 1; f < 4; f++ {
		if vals[2*f+1] != 0 {
			t.Fatalf("frame %d right channel: got %d want 0", f, vals[2*f+1])
		}
	}
	if vals[1] != 9 {
		t.Fatalf("frame 0 right channel: got %d want 9", vals[1])
	}
}

func TestInterleaveRejectsMismatchedInputs(t *testing.T) {
	mono := monoStream(16000, 1)
	stereo := wavio.Stream{SampleRate: 16000, SampleWidth: 2, Channels: 2, Data: make([]byte, 4)}
	if _, err := wavio.Interleave(mono, stereo); err == nil {
		t.Fatal("expected error for non-mono input")
	}

	narrow := wavio.Stream{SampleRate: 16000, SampleWidth: 1, Channels: 1, Data: []byte{0x80}}
	if _, err := wavio.Interleave(mono, narrow); err == nil {
		t.Fatal("expected error for mismatched widths")
	}
}
