package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	agentpkg "codingagent/pkg/agent"
	loggerpkg "codingagent/pkg/logger"
)

var (
	banner     = color.New(color.FgCyan)
	userPrompt = color.New(color.FgGreen)
	agentLabel = color.New(color.FgBlue)
	warnColor  = color.New(color.FgYellow)
	errorColor = color.New(color.FgRed)
)

// replOptions configures REPL behavior.
type replOptions struct {
	Model   string
	Verbose bool
	Logger  loggerpkg.Logger
}

// runREPL starts an interactive session for the given agent loop.
func runREPL(loop *agentpkg.AgentLoop, opts replOptions, in io.Reader, out io.Writer) error {
	if loop == nil {
		return fmt.Errorf("agent loop is required")
	}
	if in == nil {
		return fmt.Errorf("input reader is required")
	}
	if out == nil {
		out = io.Discard
	}

	verbose := opts.Verbose
	_, _ = banner.Fprintf(out, "Agent initialized with model: %s\n", opts.Model)
	_, _ = banner.Fprintln(out, "Type 'exit' or 'quit' to end the conversation.")
	_, _ = banner.Fprintf(out, "Type 'debug' to toggle debug logging (currently %v), 'reset' to clear history.\n", verbose)

	scanner := bufio.NewScanner(in)
	for {
		_, _ = userPrompt.Fprint(out, "\nYou: ")
		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		switch strings.ToLower(input) {
		case "exit", "quit":
			_, _ = banner.Fprintln(out, "Exiting...")
			return scanner.Err()
		case "debug":
			verbose = !verbose
			_, _ = banner.Fprintf(out, "Debug logging: %v\n", verbose)
			continue
		case "reset":
			loop.Reset()
			_, _ = banner.Fprintln(out, "Conversation history cleared.")
			continue
		}

		spinner := newSpinner(out, "Thinking")
		spinner.Start()
		result, err := loop.Run(context.Background(), input)
		spinner.Stop()

		if err != nil {
			if errors.Is(err, agentpkg.ErrMaxIterations) {
				_, _ = warnColor.Fprintf(out, "%s\n", result.Content)
				continue
			}
			_, _ = errorColor.Fprintf(out, "Error: %v\n", err)
			continue
		}

		_, _ = agentLabel.Fprint(out, "Agent: ")
		_, _ = fmt.Fprintf(out, "%s\n", result.Content)
		if verbose {
			loggerpkg.Debugf(true, opts.Logger, "run completed in %d iteration(s)", result.Iterations)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return nil
}
