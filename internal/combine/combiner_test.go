package combine_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"stereoset/internal/combine"
	"stereoset/internal/logging"
	"stereoset/internal/services"
	"stereoset/internal/wavio"
)

type stubStrategy struct {
	name      string
	available bool
	err       error
	payload   []byte
	calls     int
	outputs   []string
}

func (s *stubStrategy) Name() string { return s.name }

func (s *stubStrategy) Available(context.Context) bool { return s.available }

func (s *stubStrategy) Merge(ctx context.Context, left, right, output string) error {
	s.calls++
	s.outputs = append(s.outputs, output)
	if s.err != nil {
		return s.err
	}
	return os.WriteFile(output, s.payload, 0o644)
}

func writeMono(t *testing.T, path string, rate int, samples ...int16) {
	t.Helper()
	data := make([]byte, len(samples)*2)
	for i, v := range samples {
		data[2*i] = byte(uint16(v))
		data[2*i+1] = byte(uint16(v) >> 8)
	}
	if err := wavio.WriteFile(path, wavio.Stream{SampleRate: rate, SampleWidth: 2, Channels: 1, Data: data}); err != nil {
		t.Fatal(err)
	}
}

func TestCombineStopsAtFirstSuccessfulTier(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "out.wav")

	first := &stubStrategy{name: "first", available: true, payload: []byte("merged")}
	second := &stubStrategy{name: "second", available: true, payload: []byte("unused")}
	combiner := combine.NewWithStrategies(logging.NewNop(), first, second)

	tier, err := combiner.Combine(context.Background(), "l.wav", "r.wav", output)
	if err != nil {
		t.Fatalf("Combine returned error: %v", err)
	}
	if tier != "first" {
		t.Fatalf("expected tier first, got %q", tier)
	}
	if second.calls != 0 {
		t.Fatal("second tier should not run after a success")
	}
	got, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "merged" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestCombineStagingPathKeepsWavExtension(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "sample_1.wav")

	tier := &stubStrategy{name: "ffmpeg", available: true, payload: []byte("merged")}
	combiner := combine.NewWithStrategies(logging.NewNop(), tier)

	if _, err := combiner.Combine(context.Background(), "l.wav", "r.wav", output); err != nil {
		t.Fatalf("Combine returned error: %v", err)
	}
	if len(tier.outputs) != 1 {
		t.Fatalf("expected one invocation, got %d", len(tier.outputs))
	}

	// External tools select the output format from the extension, so the
	// staging file must still look like a WAV and must not be the final
	// path.
	staged := tier.outputs[0]
	if staged == output {
		t.Fatal("tier must write to a staging path, not the final output")
	}
	if filepath.Ext(staged) != ".wav" {
		t.Fatalf("staging path %q must keep the .wav extension", staged)
	}
	if filepath.Dir(staged) != dir {
		t.Fatalf("staging path %q must sit next to the output", staged)
	}
	if _, err := os.Stat(staged); !os.IsNotExist(err) {
		t.Fatalf("staging file must be renamed away, stat err=%v", err)
	}
	if _, err := os.Stat(output); err != nil {
		t.Fatalf("expected finalized output: %v", err)
	}
}

func TestCombineFallsThroughRecoverableFailures(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "out.wav")

	failing := &stubStrategy{name: "ffmpeg", available: true, err: services.Wrap(services.ErrExternalTool, "combine", "ffmpeg merge", "", errors.New("exit status 1"))}
	unavailable := &stubStrategy{name: "sox", available: false}
	working := &stubStrategy{name: "native", available: true, payload: []byte("merged")}
	combiner := combine.NewWithStrategies(logging.NewNop(), failing, unavailable, working)

	tier, err := combiner.Combine(context.Background(), "l.wav", "r.wav", output)
	if err != nil {
		t.Fatalf("Combine returned error: %v", err)
	}
	if tier != "native" {
		t.Fatalf("expected native tier, got %q", tier)
	}
	if unavailable.calls != 0 {
		t.Fatal("unavailable tier should be skipped without invocation")
	}
}

func TestCombineTerminalFailureStopsTheChain(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "out.wav")

	terminal := &stubStrategy{name: "native", available: true, err: services.Wrap(services.ErrIO, "combine", "native merge", "", errors.New("short read"))}
	never := &stubStrategy{name: "after", available: true, payload: []byte("x")}
	combiner := combine.NewWithStrategies(logging.NewNop(), terminal, never)

	if _, err := combiner.Combine(context.Background(), "l.wav", "r.wav", output); !errors.Is(err, services.ErrIO) {
		t.Fatalf("expected ErrIO, got %v", err)
	}
	if never.calls != 0 {
		t.Fatal("chain must stop at a terminal failure")
	}
	if _, err := os.Stat(output); !os.IsNotExist(err) {
		t.Fatalf("no output may exist after failure, stat err=%v", err)
	}
}

func TestCombineAllTiersExhaustedLeavesNoArtifact(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "out.wav")

	a := &stubStrategy{name: "a", available: true, err: services.Wrap(services.ErrExternalTool, "combine", "a", "", nil)}
	b := &stubStrategy{name: "b", available: true, err: services.Wrap(services.ErrTimeout, "combine", "b", "", nil)}
	combiner := combine.NewWithStrategies(logging.NewNop(), a, b)

	if _, err := combiner.Combine(context.Background(), "l.wav", "r.wav", output); err == nil {
		t.Fatal("expected error with every tier failing")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty output directory, found %v", entries)
	}
}

func TestNativeTierMergesEqualFormatInputs(t *testing.T) {
	dir := t.TempDir()
	left := filepath.Join(dir, "left.wav")
	right := filepath.Join(dir, "right.wav")
	output := filepath.Join(dir, "out", "sample_1.wav")

	writeMono(t, left, 16000, 100, 200, 300)
	writeMono(t, right, 16000, -100, -200, -300)

	combiner := combine.NewWithStrategies(logging.NewNop(), combine.NativeStrategy())
	tier, err := combiner.Combine(context.Background(), left, right, output)
	if err != nil {
		t.Fatalf("Combine returned error: %v", err)
	}
	if tier != "native" {
		t.Fatalf("unexpected tier %q", tier)
	}

	got, err := wavio.ReadFile(output)
	if err != nil {
		t.Fatalf("ReadFile returned error: %v", err)
	}
	if got.Channels != 2 || got.SampleRate != 16000 || got.SampleWidth != 2 {
		t.Fatalf("unexpected output format %+v", got)
	}
	if got.Frames() != 3 {
		t.Fatalf("expected 3 frames, got %d", got.Frames())
	}
	want := []int16{100, -100, 200, -200, 300, -300}
	for i, w := range want {
		v := int16(uint16(got.Data[2*i]) | uint16(got.Data[2*i+1])<<8)
		if v != w {
			t.Fatalf("sample %d: got %d want %d", i, v, w)
		}
	}
}

func TestNativeTierAdoptsLeftFormat(t *testing.T) {
	dir := t.TempDir()
	left := filepath.Join(dir, "left.wav")
	right := filepath.Join(dir, "right.wav")
	output := filepath.Join(dir, "out.wav")

	// Left: 16 kHz; right: 8 kHz and longer. Output must carry the left
	// rate and max(left, resampled right) frames.
	writeMono(t, left, 16000, 1, 2, 3, 4)
	writeMono(t, right, 8000, 5, 6, 7, 8)

	combiner := combine.NewWithStrategies(logging.NewNop(), combine.NativeStrategy())
	if _, err := combiner.Combine(context.Background(), left, right, output); err != nil {
		t.Fatalf("Combine returned error: %v", err)
	}

	got, err := wavio.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	if got.SampleRate != 16000 {
		t.Fatalf("expected left rate 16000, got %d", got.SampleRate)
	}
	// Right resampled from 4 frames @8k to 8 frames @16k.
	if got.Frames() != 8 {
		t.Fatalf("expected 8 frames, got %d", got.Frames())
	}
}

func TestNativeTierConvertsRightWidthToLeft(t *testing.T) {
	dir := t.TempDir()
	left := filepath.Join(dir, "left.wav")
	right := filepath.Join(dir, "right.wav")
	output := filepath.Join(dir, "out.wav")

	// Left 16-bit, right unsigned 8-bit. The output must adopt the left
	// width; the 8-bit samples scale up by a byte shift.
	writeMono(t, left, 16000, 1000, 2000)
	rightData := []byte{0x90, 0x70} // +0x10 and -0x10 around the u8 midpoint
	if err := wavio.WriteFile(right, wavio.Stream{SampleRate: 16000, SampleWidth: 1, Channels: 1, Data: rightData}); err != nil {
		t.Fatal(err)
	}

	combiner := combine.NewWithStrategies(logging.NewNop(), combine.NativeStrategy())
	if _, err := combiner.Combine(context.Background(), left, right, output); err != nil {
		t.Fatalf("Combine returned error: %v", err)
	}

	got, err := wavio.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	if got.SampleWidth != 2 || got.Channels != 2 || got.Frames() != 2 {
		t.Fatalf("unexpected output format %+v", got)
	}
	sample := func(i int) int16 {
		return int16(uint16(got.Data[2*i]) | uint16(got.Data[2*i+1])<<8)
	}
	// Frames are (left, right) pairs; the left channel is untouched.
	if sample(0) != 1000 || sample(2) != 2000 {
		t.Fatalf("left channel altered: %d, %d", sample(0), sample(2))
	}
	if sample(1) != 0x10<<8 || sample(3) != -(0x10 << 8) {
		t.Fatalf("right channel not width-converted: %d, %d", sample(1), sample(3))
	}
}

func TestNativeTierDownmixesStereoInput(t *testing.T) {
	dir := t.TempDir()
	left := filepath.Join(dir, "left.wav")
	right := filepath.Join(dir, "right.wav")
	output := filepath.Join(dir, "out.wav")

	// Left is already stereo; it must be mixed down before interleaving.
	stereoData := []byte{100, 0, 200, 0, 44, 1, 144, 1} // frames (100,200), (300,400)
	if err := wavio.WriteFile(left, wavio.Stream{SampleRate: 16000, SampleWidth: 2, Channels: 2, Data: stereoData}); err != nil {
		t.Fatal(err)
	}
	writeMono(t, right, 16000, 0, 0)

	combiner := combine.NewWithStrategies(logging.NewNop(), combine.NativeStrategy())
	if _, err := combiner.Combine(context.Background(), left, right, output); err != nil {
		t.Fatalf("Combine returned error: %v", err)
	}

	got, err := wavio.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	if got.Channels != 2 || got.Frames() != 2 {
		t.Fatalf("unexpected output %+v", got)
	}
	leftCh0 := int16(uint16(got.Data[0]) | uint16(got.Data[1])<<8)
	if leftCh0 != 150 {
		t.Fatalf("expected downmixed left sample 150, got %d", leftCh0)
	}
}

func TestNativeTierZeroLengthInputIsDegenerateNotFatal(t *testing.T) {
	dir := t.TempDir()
	left := filepath.Join(dir, "left.wav")
	right := filepath.Join(dir, "right.wav")
	output := filepath.Join(dir, "out.wav")

	writeMono(t, left, 16000, 1, 2)
	writeMono(t, right, 16000) // zero frames

	combiner := combine.NewWithStrategies(logging.NewNop(), combine.NativeStrategy())
	if _, err := combiner.Combine(context.Background(), left, right, output); err != nil {
		t.Fatalf("Combine returned error: %v", err)
	}
	got, err := wavio.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	if got.Frames() != 2 {
		t.Fatalf("expected padding to 2 frames, got %d", got.Frames())
	}
}

func TestNativeTierUnreadableInputIsTerminal(t *testing.T) {
	dir := t.TempDir()
	left := filepath.Join(dir, "left.wav")
	if err := os.WriteFile(left, []byte("not a wav"), 0o644); err != nil {
		t.Fatal(err)
	}

	combiner := combine.NewWithStrategies(logging.NewNop(), combine.NativeStrategy())
	_, err := combiner.Combine(context.Background(), left, filepath.Join(dir, "missing.wav"), filepath.Join(dir, "out.wav"))
	if !errors.Is(err, services.ErrIO) {
		t.Fatalf("expected ErrIO, got %v", err)
	}
}

func TestCopyIsByteIdentical(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "stereo.wav")
	dst := filepath.Join(dir, "out", "sample_1.wav")

	payload := []byte{0x52, 0x49, 0x46, 0x46, 0x01, 0x02, 0x03}
	if err := os.WriteFile(src, payload, 0o644); err != nil {
		t.Fatal(err)
	}

	combiner := combine.NewWithStrategies(logging.NewNop())
	if err := combiner.Copy(src, dst); err != nil {
		t.Fatalf("Copy returned error: %v", err)
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(payload) {
		t.Fatalf("copy not byte-identical: got %x want %x", got, payload)
	}
}

func TestCopyMissingSource(t *testing.T) {
	dir := t.TempDir()
	combiner := combine.NewWithStrategies(logging.NewNop())
	err := combiner.Copy(filepath.Join(dir, "absent.wav"), filepath.Join(dir, "out.wav"))
	if !errors.Is(err, services.ErrMissingInput) {
		t.Fatalf("expected ErrMissingInput, got %v", err)
	}
}
