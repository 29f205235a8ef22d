package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/samvad-hq/conjura/internal/config"
)

func TestZapLoggerWritesStructuredJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(&config.Config{AppName: "conjura", LogLevel: "debug"}, &buf)

	log.DebugObj("response received", "call", map[string]any{"status": 200})

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	if entry["msg"] != "response received" || entry["app"] != "conjura" || entry["level"] != "debug" {
		t.Fatalf("unexpected entry %v", entry)
	}
	if _, ok := entry["ts"]; !ok {
		t.Fatalf("missing ts field: %v", entry)
	}
	call, ok := entry["call"].(map[string]any)
	if !ok || call["status"] != float64(200) {
		t.Fatalf("unexpected call field %v", entry["call"])
	}
}

func TestZapLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&config.Config{LogLevel: "warn"}, &buf)

	log.InfoObj("hidden", "k", 1)
	log.WarnObj("shown", "k", 2)

	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestLoggersSatisfyInterface(t *testing.T) {
	var _ Logger = &ZapLogger{}
	var _ Logger = NopLogger{}
}
