package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestNew_WritesJSONFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs", "quill.log")
	log, closeFn, err := New(Options{File: file, Level: "info"})
	if err != nil {
		t.Fatal(err)
	}
	log.Named("poller").Info("fetched", zap.Int("fetch", 2))
	log.Debug("hidden")
	closeFn()

	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line above debug level, got %d: %s", len(lines), data)
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatal(err)
	}
	if entry["msg"] != "fetched" || entry["logger"] != "poller" || entry["fetch"] != float64(2) {
		t.Fatalf("unexpected entry: %v", entry)
	}
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer
	log, closeFn, err := New(Options{Level: "debug", Console: true, Stderr: &buf})
	if err != nil {
		t.Fatal(err)
	}
	log.Debug("hello console")
	closeFn()
	if !strings.Contains(buf.String(), "hello console") {
		t.Fatalf("console output missing message: %q", buf.String())
	}
}

func TestNew_NoOutputs(t *testing.T) {
	log, closeFn, err := New(Options{Level: "info"})
	if err != nil {
		t.Fatal(err)
	}
	defer closeFn()
	log.Info("dropped")
}

func TestNew_BadLevel(t *testing.T) {
	if _, _, err := New(Options{Level: "loud"}); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
