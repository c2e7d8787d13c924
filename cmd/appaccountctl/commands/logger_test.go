package commands

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	appaccount "github.com/goliatone/go-appaccount"
)

func TestNewLoggerJSONFormatAndLevel(t *testing.T) {
	var out bytes.Buffer
	var logger appaccount.Logger = newLogger(&out, "warn", "json")

	logger.Info("dropped below level")
	logger.Warn("store slow", "owner", "com.example.mail")

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one line at warn level, got %q", out.String())
	}
	var record map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &record); err != nil {
		t.Fatalf("expected json output, got %q: %v", lines[0], err)
	}
	if record["msg"] != "store slow" || record["owner"] != "com.example.mail" {
		t.Fatalf("unexpected record %v", record)
	}
}

func TestNewLoggerTextFormatAndFatalDoesNotExit(t *testing.T) {
	var out bytes.Buffer
	logger := newLogger(&out, "debug", "text")

	logger.Debug("opening runtime")
	logger.Fatal("cannot continue")

	text := out.String()
	if !strings.Contains(text, "opening runtime") || !strings.Contains(text, "cannot continue") {
		t.Fatalf("expected both lines, got %q", text)
	}
	if strings.HasPrefix(strings.TrimSpace(text), "{") {
		t.Fatalf("expected text output, got %q", text)
	}
}
