package main

import (
	"flag"
	"os"
	"strings"

	configpkg "codingagent/pkg/config"
)

// parseCLIConfig resolves runtime configuration with the precedence
// defaults < config file < environment < explicit flags.
func parseCLIConfig(args []string) (configpkg.Config, error) {
	defaults := configpkg.DefaultConfig()

	fs := flag.NewFlagSet("codingagent", flag.ContinueOnError)
	model := fs.String("model", defaults.Model, "Model to use")
	baseURL := fs.String("base-url", defaults.BaseURL, "OpenAI-compatible backend URL")
	configPath := fs.String("config", "", "Optional YAML config file")
	maxIterations := fs.Int("max-iterations", defaults.MaxIterations, "Maximum tool-call iterations per request")
	workRoot := fs.String("workdir", defaults.WorkRoot, "Working directory root for file tools")
	debug := fs.Bool("debug", defaults.Verbose, "Enable verbose debug logging")
	if err := fs.Parse(args); err != nil {
		return configpkg.Config{}, err
	}

	cfg := defaults
	if *configPath != "" {
		var err error
		cfg, err = configpkg.LoadFile(cfg, *configPath)
		if err != nil {
			return configpkg.Config{}, err
		}
	}

	cfg = applyEnv(cfg)

	// Flags the user actually passed win over file and environment.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "model":
			cfg.Model = *model
		case "base-url":
			cfg.BaseURL = *baseURL
		case "max-iterations":
			cfg.MaxIterations = *maxIterations
		case "workdir":
			cfg.WorkRoot = *workRoot
		case "debug":
			cfg.Verbose = *debug
		}
	})

	return configpkg.Normalize(cfg), nil
}

// applyEnv overlays the environment variables the agent understands.
func applyEnv(cfg configpkg.Config) configpkg.Config {
	if v := strings.TrimSpace(os.Getenv("OPENAI_MODEL")); v != "" {
		cfg.Model = v
	}
	if v := strings.TrimSpace(os.Getenv("OPENAI_BASE_URL")); v != "" {
		cfg.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("OPENAI_API_KEY")); v != "" {
		cfg.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv("EXA_API_KEY")); v != "" {
		cfg.SearchAPIKey = v
	}
	return cfg
}
