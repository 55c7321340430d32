package main

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"
)

func ptr[T any](v T) *T { return &v }

func TestRunCmd_BuildConfig_Overrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "framefx.yaml")
	if err := os.WriteFile(path, []byte("operation: shake\nworkers: 2\nsummary: s.md\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cmd := &RunCmd{
		Config:    path,
		Operation: ptr("flip-vertical"),
		Quality:   ptr(30),
		LogFormat: ptr("json"),
	}
	cfg, err := cmd.buildConfig()
	if err != nil {
		t.Fatalf("buildConfig failed: %v", err)
	}

	if cfg.Operation != "flip-vertical" {
		t.Errorf("expected flag to override operation, got %q", cfg.Operation)
	}
	if cfg.Workers != 2 {
		t.Errorf("expected workers from file, got %d", cfg.Workers)
	}
	if cfg.SummaryPath != "s.md" {
		t.Errorf("expected summary from file, got %q", cfg.SummaryPath)
	}
	if cfg.Quality != 30 {
		t.Errorf("expected quality override, got %d", cfg.Quality)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("expected log format override, got %q", cfg.LogFormat)
	}
}

func TestRunCmd_BuildConfig_Invalid(t *testing.T) {
	cmd := &RunCmd{Operation: ptr("7")}
	if _, err := cmd.buildConfig(); err == nil {
		t.Error("expected invalid operation to be rejected")
	}
}

func TestRunCmd_ReadInput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.bin")
	if err := os.WriteFile(path, []byte{0, 1, 2}, 0644); err != nil {
		t.Fatal(err)
	}

	text, err := (&RunCmd{Input: path}).readInput()
	if err != nil {
		t.Fatalf("readInput failed: %v", err)
	}
	if text != string([]byte{0, 1, 2}) {
		t.Errorf("expected file contents as text, got %q", text)
	}

	encoded, err := (&RunCmd{Input: path, Binary: true}).readInput()
	if err != nil {
		t.Fatalf("readInput failed: %v", err)
	}
	if encoded != base64.StdEncoding.EncodeToString([]byte{0, 1, 2}) {
		t.Errorf("expected base64 of binary input, got %q", encoded)
	}
}
