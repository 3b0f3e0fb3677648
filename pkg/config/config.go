// Package config holds runtime configuration for the coding agent.
package config

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultAllowedCommands is the static allow-list for the run_command tool.
// Only the executable name (argv[0]) is checked against this list.
var DefaultAllowedCommands = []string{
	"ls", "dir", "find", "grep", "cat", "head", "tail", "wc", "echo",
}

// Config holds all runtime configuration for the agent.
type Config struct {
	Model           string
	BaseURL         string
	APIKey          string
	SearchAPIKey    string
	MaxIterations   int
	WorkRoot        string
	AllowedCommands []string
	CommandTimeout  time.Duration
	Verbose         bool
}

// DefaultConfig returns a baseline configuration without side effects.
// Defaults target a local Ollama endpoint speaking the OpenAI protocol.
func DefaultConfig() Config {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	return Config{
		Model:           "qwen3:32b",
		BaseURL:         "http://localhost:11434/v1",
		APIKey:          "ollama",
		MaxIterations:   10,
		WorkRoot:        wd,
		AllowedCommands: slices.Clone(DefaultAllowedCommands),
		CommandTimeout:  60 * time.Second,
		Verbose:         false,
	}
}

// Normalize sanitizes configuration values and applies defaults.
func Normalize(cfg Config) Config {
	cfg.Model = strings.TrimSpace(cfg.Model)
	cfg.BaseURL = strings.TrimSpace(cfg.BaseURL)
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.SearchAPIKey = strings.TrimSpace(cfg.SearchAPIKey)
	cfg.WorkRoot = strings.TrimSpace(cfg.WorkRoot)

	normalized := make([]string, 0, len(cfg.AllowedCommands))
	for _, cmd := range cfg.AllowedCommands {
		cmd = strings.ToLower(strings.TrimSpace(cmd))
		if cmd == "" {
			continue
		}
		if !slices.Contains(normalized, cmd) {
			normalized = append(normalized, cmd)
		}
	}
	cfg.AllowedCommands = normalized

	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = 10
	}
	if cfg.CommandTimeout <= 0 {
		cfg.CommandTimeout = 60 * time.Second
	}
	return cfg
}

// fileConfig is the YAML schema for the optional config file. Only fields
// present in the file overlay the existing configuration.
type fileConfig struct {
	Model                 string   `yaml:"model"`
	BaseURL               string   `yaml:"base_url"`
	MaxIterations         int      `yaml:"max_iterations"`
	WorkRoot              string   `yaml:"work_root"`
	AllowedCommands       []string `yaml:"allowed_commands"`
	CommandTimeoutSeconds int      `yaml:"command_timeout_seconds"`
	Verbose               bool     `yaml:"verbose"`
}

// LoadFile overlays values from a YAML config file onto cfg.
// Zero-valued fields in the file leave the existing value untouched.
func LoadFile(cfg Config, path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config file: %w", err)
	}

	var file fileConfig
	if err := yaml.Unmarshal(data, &file); err != nil {
		return cfg, fmt.Errorf("parse config file %s: %w", path, err)
	}

	if file.Model != "" {
		cfg.Model = file.Model
	}
	if file.BaseURL != "" {
		cfg.BaseURL = file.BaseURL
	}
	if file.MaxIterations > 0 {
		cfg.MaxIterations = file.MaxIterations
	}
	if file.WorkRoot != "" {
		cfg.WorkRoot = file.WorkRoot
	}
	if len(file.AllowedCommands) > 0 {
		cfg.AllowedCommands = file.AllowedCommands
	}
	if file.CommandTimeoutSeconds > 0 {
		cfg.CommandTimeout = time.Duration(file.CommandTimeoutSeconds) * time.Second
	}
	if file.Verbose {
		cfg.Verbose = true
	}
	return cfg, nil
}
