package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.MaxIterations != 10 {
		t.Fatalf("unexpected max iterations: %d", cfg.MaxIterations)
	}
	if cfg.WorkRoot == "" {
		t.Fatal("work root should not be empty")
	}
	if len(cfg.AllowedCommands) == 0 {
		t.Fatal("default allow-list should not be empty")
	}
	if cfg.CommandTimeout != 60*time.Second {
		t.Fatalf("unexpected command timeout: %v", cfg.CommandTimeout)
	}
}

func TestNormalize(t *testing.T) {
	cfg := Normalize(Config{
		Model:           "  qwen3:32b  ",
		AllowedCommands: []string{" LS ", "", "grep", "grep"},
		MaxIterations:   -1,
	})

	if cfg.Model != "qwen3:32b" {
		t.Fatalf("model not trimmed: %q", cfg.Model)
	}
	if len(cfg.AllowedCommands) != 2 || cfg.AllowedCommands[0] != "ls" || cfg.AllowedCommands[1] != "grep" {
		t.Fatalf("unexpected allow-list: %v", cfg.AllowedCommands)
	}
	if cfg.MaxIterations != 10 {
		t.Fatalf("max iterations not defaulted: %d", cfg.MaxIterations)
	}
}

func TestLoadFileOverlaysValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "model: llama3\nmax_iterations: 5\nallowed_commands: [ls, cat]\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFile(DefaultConfig(), path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Model != "llama3" {
		t.Fatalf("model not overlaid: %q", cfg.Model)
	}
	if cfg.MaxIterations != 5 {
		t.Fatalf("max iterations not overlaid: %d", cfg.MaxIterations)
	}
	if len(cfg.AllowedCommands) != 2 {
		t.Fatalf("allow-list not overlaid: %v", cfg.AllowedCommands)
	}
	// Fields absent from the file keep their previous values.
	if cfg.BaseURL != DefaultConfig().BaseURL {
		t.Fatalf("base url should be untouched: %q", cfg.BaseURL)
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(DefaultConfig(), filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
