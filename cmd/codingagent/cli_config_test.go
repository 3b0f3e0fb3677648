package main

import (
	"os"
	"path/filepath"
	"testing"
)

func clearAgentEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"OPENAI_MODEL", "OPENAI_BASE_URL", "OPENAI_API_KEY", "EXA_API_KEY"} {
		t.Setenv(key, "")
	}
}

func TestParseCLIConfigDefaults(t *testing.T) {
	clearAgentEnv(t)

	cfg, err := parseCLIConfig(nil)
	if err != nil {
		t.Fatalf("parseCLIConfig: %v", err)
	}
	if cfg.Model != "qwen3:32b" {
		t.Fatalf("unexpected default model: %q", cfg.Model)
	}
	if cfg.MaxIterations != 10 {
		t.Fatalf("unexpected default max iterations: %d", cfg.MaxIterations)
	}
}

func TestParseCLIConfigEnvOverridesDefaults(t *testing.T) {
	clearAgentEnv(t)
	t.Setenv("OPENAI_MODEL", "llama3")
	t.Setenv("EXA_API_KEY", "exa-key")

	cfg, err := parseCLIConfig(nil)
	if err != nil {
		t.Fatalf("parseCLIConfig: %v", err)
	}
	if cfg.Model != "llama3" {
		t.Fatalf("env model not applied: %q", cfg.Model)
	}
	if cfg.SearchAPIKey != "exa-key" {
		t.Fatalf("search key not applied: %q", cfg.SearchAPIKey)
	}
}

func TestParseCLIConfigFlagsOverrideEnv(t *testing.T) {
	clearAgentEnv(t)
	t.Setenv("OPENAI_MODEL", "llama3")

	cfg, err := parseCLIConfig([]string{"-model", "qwen2", "-max-iterations", "5", "-debug"})
	if err != nil {
		t.Fatalf("parseCLIConfig: %v", err)
	}
	if cfg.Model != "qwen2" {
		t.Fatalf("flag model should win: %q", cfg.Model)
	}
	if cfg.MaxIterations != 5 {
		t.Fatalf("flag max iterations not applied: %d", cfg.MaxIterations)
	}
	if !cfg.Verbose {
		t.Fatal("debug flag not applied")
	}
}

func TestParseCLIConfigFile(t *testing.T) {
	clearAgentEnv(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("model: from-file\nmax_iterations: 7\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := parseCLIConfig([]string{"-config", path})
	if err != nil {
		t.Fatalf("parseCLIConfig: %v", err)
	}
	if cfg.Model != "from-file" || cfg.MaxIterations != 7 {
		t.Fatalf("config file not applied: model=%q max=%d", cfg.Model, cfg.MaxIterations)
	}

	// An explicit flag still beats the file.
	cfg, err = parseCLIConfig([]string{"-config", path, "-model", "cli-model"})
	if err != nil {
		t.Fatalf("parseCLIConfig: %v", err)
	}
	if cfg.Model != "cli-model" {
		t.Fatalf("flag should beat config file: %q", cfg.Model)
	}
}
