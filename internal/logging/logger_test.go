package logging_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"prism/internal/logging"
)

func TestConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "info", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logging.NewComponentLogger(logger, "ipc").Info("listening",
		logging.String("socket", "/tmp/prism.sock"))

	line := buf.String()
	if !strings.Contains(line, " INFO ipc: listening ") {
		t.Fatalf("unexpected console line: %q", line)
	}
	if !strings.Contains(line, "socket=/tmp/prism.sock") {
		t.Fatalf("missing attr in console line: %q", line)
	}
	if !strings.Contains(line, "run_id=") {
		t.Fatalf("missing run_id in console line: %q", line)
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "debug", Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Debug("queued", logging.Int("count", 3))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if record["msg"] != "queued" {
		t.Fatalf("unexpected msg: %v", record["msg"])
	}
	if record["level"] != "debug" {
		t.Fatalf("unexpected level: %v", record["level"])
	}
	if record["run_id"] == "" || record["run_id"] == nil {
		t.Fatal("missing run_id")
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "warn", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Info("should be dropped")
	logger.Warn("should be kept")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Fatalf("info line not filtered: %q", out)
	}
	if !strings.Contains(out, "kept") {
		t.Fatalf("warn line missing: %q", out)
	}
}

func TestUnsupportedFormatRejected(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}
