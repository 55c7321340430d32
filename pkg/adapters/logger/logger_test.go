package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/user/framefx/pkg/ports"
)

func TestConsoleLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	log := NewConsoleWriter(ports.LevelInfo, &buf)

	log.Debug("hidden %d", 1)
	log.Info("shown %d", 2)
	log.WithComponent("decode").Warn("careful")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug message should be filtered: %q", out)
	}
	if !strings.Contains(out, "shown 2") {
		t.Errorf("expected info message, got %q", out)
	}
	if !strings.Contains(out, "[decode] careful") {
		t.Errorf("expected component prefix, got %q", out)
	}
}

func TestConsoleLogger_NestedComponentAndTags(t *testing.T) {
	var buf bytes.Buffer
	log := NewConsoleWriter(ports.LevelDebug, &buf)

	log.WithComponent("run").WithComponent("encode").Error("failed %s", "x")

	if got := strings.TrimSpace(buf.String()); got != "ERROR [run/encode] failed x" {
		t.Errorf("unexpected line %q", got)
	}
}

func TestConsoleLogger_Quiet(t *testing.T) {
	var buf bytes.Buffer
	log := NewConsoleWriter(ports.LevelQuiet, &buf)
	log.Error("nothing")
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestStructuredLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewStructured(ports.LevelDebug, FormatJSON, &buf)
	if err != nil {
		t.Fatalf("NewStructured failed: %v", err)
	}

	log.WithComponent("transform").Debug("frame %d", 3)

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if entry["msg"] != "frame 3" {
		t.Errorf("expected msg 'frame 3', got %v", entry["msg"])
	}
	if entry["component"] != "transform" {
		t.Errorf("expected component field, got %v", entry["component"])
	}
	if entry["level"] != "debug" {
		t.Errorf("expected debug level, got %v", entry["level"])
	}
}

func TestStructuredLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewStructured(ports.LevelWarn, FormatText, &buf)
	if err != nil {
		t.Fatalf("NewStructured failed: %v", err)
	}

	log.Info("skipped")
	log.WithField("run", "abc").Warn("kept")

	out := buf.String()
	if strings.Contains(out, "skipped") {
		t.Errorf("info should be filtered: %q", out)
	}
	if !strings.Contains(out, "kept") || !strings.Contains(out, "run=abc") {
		t.Errorf("expected warn entry with run field, got %q", out)
	}
}

func TestNewStructured_UnknownFormat(t *testing.T) {
	if _, err := NewStructured(ports.LevelInfo, "xml", &bytes.Buffer{}); err == nil {
		t.Error("expected error for unknown format")
	}
}
