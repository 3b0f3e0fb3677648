// Command codingagent is an interactive tool-calling coding agent for
// OpenAI-compatible backends such as a local Ollama instance.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	agentpkg "codingagent/pkg/agent"
	loggerpkg "codingagent/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	cfg, err := parseCLIConfig(os.Args[1:])
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	appLogger := loggerpkg.NewWriterLogger(os.Stderr)
	loop, err := agentpkg.New(context.Background(), cfg, agentpkg.WithLogger(appLogger))
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := runREPL(loop, replOptions{
		Model:   cfg.Model,
		Verbose: cfg.Verbose,
		Logger:  appLogger,
	}, os.Stdin, os.Stdout); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
