package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestLoggerInit(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	if Get() == nil {
		t.Fatal("logger is nil after initialization")
	}
}

func TestLoggerOutput(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(WithOutput(&buf)); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	ctx := context.Background()
	Get().Info(ctx, "report generated", String("snapshot", "snap-1"), Int("alerts", 2))

	out := buf.String()
	if !strings.Contains(out, "report generated") {
		t.Errorf("missing message in output: %s", out)
	}
	if !strings.Contains(out, "snapshot=snap-1") {
		t.Errorf("missing string field in output: %s", out)
	}
	if !strings.Contains(out, "alerts=2") {
		t.Errorf("missing int field in output: %s", out)
	}
	if !strings.Contains(out, "source=") {
		t.Errorf("missing caller source in output: %s", out)
	}
}

func TestLoggerJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(WithOutput(&buf), WithJSON()); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	Get().Warn(context.Background(), "knowledge reload rejected", String("path", "/tmp/x.yaml"))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%s)", err, buf.String())
	}
	if entry["msg"] != "knowledge reload rejected" {
		t.Errorf("unexpected msg: %v", entry["msg"])
	}
	if entry["path"] != "/tmp/x.yaml" {
		t.Errorf("unexpected path field: %v", entry["path"])
	}
}

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(WithOutput(&buf)); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	ctx := context.Background()

	// Info is the default: debug is filtered.
	Get().Debug(ctx, "hidden debug line")
	if strings.Contains(buf.String(), "hidden debug line") {
		t.Error("debug line logged at info level")
	}

	SetLevel(slog.LevelDebug)
	Get().Debug(ctx, "visible debug line")
	if !strings.Contains(buf.String(), "visible debug line") {
		t.Error("debug line missing at debug level")
	}

	SetLevel(slog.LevelError)
	Get().Warn(ctx, "suppressed warn line")
	if strings.Contains(buf.String(), "suppressed warn line") {
		t.Error("warn line logged at error level")
	}
}

func TestSetLevelString(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	for _, level := range []string{"debug", "info", "warn", "warning", "error", "INFO", ""} {
		if err := SetLevelString(level); err != nil {
			t.Errorf("SetLevelString(%q) failed: %v", level, err)
		}
	}
	if err := SetLevelString("verbose"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestLoggerNamed(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(WithOutput(&buf)); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	Named("engine").Info(context.Background(), "started", String("addr", ":9090"))

	out := buf.String()
	if !strings.Contains(out, "started") {
		t.Errorf("missing message in output: %s", out)
	}
	// WithGroup scopes the attributes under the logger name.
	if !strings.Contains(out, "engine.addr=:9090") {
		t.Errorf("missing grouped field in output: %s", out)
	}
}
