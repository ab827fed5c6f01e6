package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

// decode parses a single JSON log line.
func decode(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Expected valid JSON output, got error: %v (%q)", err, buf.String())
	}
	return entry
}

func TestNew_Modes(t *testing.T) {
	for _, env := range []string{"development", "production"} {
		logger := New(env)
		if logger == nil {
			t.Fatalf("Expected logger to be created for %s", env)
		}
		if logger.GetZerolog() == nil {
			t.Errorf("Expected zerolog instance to be available for %s", env)
		}
	}

	if New("development").GetZerolog().GetLevel() != zerolog.DebugLevel {
		t.Error("Expected debug level in development")
	}
	if New("production").GetZerolog().GetLevel() != zerolog.InfoLevel {
		t.Error("Expected info level in production")
	}
}

func TestLevelsCarryFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, zerolog.DebugLevel)

	logger.Debug("restyled plots", map[string]interface{}{"mode": "timeline", "count": 42})
	entry := decode(t, &buf)
	if entry["level"] != "debug" || entry["mode"] != "timeline" || entry["count"] != float64(42) {
		t.Errorf("Unexpected debug entry: %v", entry)
	}

	buf.Reset()
	logger.Info("dataset loaded", map[string]interface{}{"plots": 3})
	entry = decode(t, &buf)
	if entry["level"] != "info" || entry["message"] != "dataset loaded" {
		t.Errorf("Unexpected info entry: %v", entry)
	}

	buf.Reset()
	logger.Warn("ignoring malformed overrides", map[string]interface{}{"key": "plotPilotData"})
	entry = decode(t, &buf)
	if entry["level"] != "warn" || entry["key"] != "plotPilotData" {
		t.Errorf("Unexpected warn entry: %v", entry)
	}

	buf.Reset()
	logger.Error("failed to persist override", errors.New("disk full"), map[string]interface{}{"plot_id": 7})
	entry = decode(t, &buf)
	if entry["level"] != "error" || entry["error"] != "disk full" || entry["plot_id"] != float64(7) {
		t.Errorf("Unexpected error entry: %v", entry)
	}
}

func TestWith(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, zerolog.InfoLevel)

	logger.With(map[string]interface{}{"store": "sqlite"}).Info("store opened", nil)

	if !strings.Contains(buf.String(), `"store":"sqlite"`) {
		t.Errorf("Expected store field from context, got %s", buf.String())
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, zerolog.InfoLevel)

	logger.WithComponent("ledger").Info("request approved", nil)

	entry := decode(t, &buf)
	if entry["component"] != "ledger" {
		t.Errorf("Expected component ledger, got %v", entry["component"])
	}
}

func TestWithRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, zerolog.InfoLevel)

	logger.WithRequestID("req-12345").Info("request received", nil)

	entry := decode(t, &buf)
	if entry["request_id"] != "req-12345" {
		t.Errorf("Expected request_id req-12345, got %v", entry["request_id"])
	}
}

func TestLogLevels_Production(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, zerolog.InfoLevel)

	logger.Debug("debug message", nil)
	if buf.Len() != 0 {
		t.Error("Debug message should not appear in production logging")
	}

	logger.Info("info message", nil)
	if !strings.Contains(buf.String(), "info message") {
		t.Error("Info message should appear in production logging")
	}
}

func TestNop(t *testing.T) {
	// Should not panic and should not write anywhere
	logger := Nop()
	logger.Info("discarded", map[string]interface{}{"k": "v"})
	logger.WithComponent("x").Error("discarded", errors.New("boom"), nil)
}

func TestNilFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, zerolog.InfoLevel)

	// Should not panic with nil fields
	logger.Info("message with nil fields", nil)

	if !strings.Contains(buf.String(), "message with nil fields") {
		t.Error("Expected message to be logged even with nil fields")
	}
}
