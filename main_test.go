package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestSetupLogger(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		setupLogger(&buf, "info", "json").Info("server started", "port", 3318)

		var entry map[string]any
		if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
			t.Fatalf("expected a JSON log line, got %q: %v", buf.String(), err)
		}
		if entry["msg"] != "server started" || entry["port"] != float64(3318) {
			t.Errorf("unexpected entry %v", entry)
		}
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		setupLogger(&buf, "info", "text").Info("server started", "port", 3318)

		if !strings.Contains(buf.String(), "msg=\"server started\" port=3318") {
			t.Errorf("unexpected text line %q", buf.String())
		}
	})

	t.Run("level filters", func(t *testing.T) {
		var buf bytes.Buffer
		logger := setupLogger(&buf, "warn", "text")
		logger.Info("hidden")
		logger.Warn("shown")

		if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
			t.Errorf("unexpected output %q", buf.String())
		}
	})
}
