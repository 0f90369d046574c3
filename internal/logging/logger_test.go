package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestConsoleHandlerFormatsRecord(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "info")

	logger.Info("sample created",
		String("sample", "2f1a9c3b"),
		Int("frames", 48000),
	)

	line := buf.String()
	for _, fragment := range []string{"INFO", "sample created", "sample=2f1a9c3b", "frames=48000"} {
		if !strings.Contains(line, fragment) {
			t.Fatalf("expected %q in %q", fragment, line)
		}
	}
}

func TestConsoleHandlerHoistsComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := NewComponentLogger(NewWithWriter(&buf, "info"), "walker")

	logger.Info("scan complete")

	line := buf.String()
	if !strings.Contains(line, "[walker]") {
		t.Fatalf("expected hoisted component tag, got %q", line)
	}
	if strings.Contains(line, "component=") {
		t.Fatalf("component must not repeat as a kv pair: %q", line)
	}
}

func TestConsoleHandlerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "warn")

	logger.Info("suppressed")
	logger.Warn("visible")

	line := buf.String()
	if strings.Contains(line, "suppressed") {
		t.Fatalf("info should be suppressed at warn level: %q", line)
	}
	if !strings.Contains(line, "visible") {
		t.Fatalf("warn should pass at warn level: %q", line)
	}
}

func TestConsoleHandlerQuotesValuesWithSpaces(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "info")

	logger.Warn("missing files", String("files", "input.wav, output.wav"))

	if !strings.Contains(buf.String(), `files="input.wav, output.wav"`) {
		t.Fatalf("expected quoted value, got %q", buf.String())
	}
}

func TestJSONHandlerUsesCompactKeys(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	logger := slog.New(newJSONHandler(&buf, levelVar))

	logger.Info("merged", String("tier", "ffmpeg"))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}
	if record["msg"] != "merged" {
		t.Fatalf("unexpected msg %v", record["msg"])
	}
	if record["level"] != "info" {
		t.Fatalf("unexpected level %v", record["level"])
	}
	if _, ok := record["ts"]; !ok {
		t.Fatal("expected ts key")
	}
	if record["tier"] != "ffmpeg" {
		t.Fatalf("unexpected tier %v", record["tier"])
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := NewNop()
	logger.Error("nothing happens", Error(nil))
}
