package tools

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/openai/openai-go"
)

type runCommandTool struct {
	ctx Context
}

func (t *runCommandTool) name() string {
	return "run_command"
}

func (t *runCommandTool) definition() openai.ChatCompletionToolParam {
	return openai.ChatCompletionToolParam{
		Function: openai.FunctionDefinitionParam{
			Name:        "run_command",
			Description: openai.String("Run an allow-listed command without shell expansion"),
			Parameters: openai.FunctionParameters{
				"type": "object",
				"properties": map[string]any{
					"command": map[string]any{
						"type":        "string",
						"description": "Command line to run. The executable must be on the allow-list.",
					},
					"timeout_seconds": map[string]any{
						"type":        "integer",
						"description": "Timeout in seconds before the command is terminated.",
					},
				},
				"required": []string{"command"},
			},
		},
	}
}

func (t *runCommandTool) execute(argText string) (string, error) {
	var args struct {
		Command        string `json:"command"`
		TimeoutSeconds int64  `json:"timeout_seconds"`
	}
	if err := json.Unmarshal([]byte(argText), &args); err != nil {
		return marshalToolResponse("run_command", nil, err)
	}
	t.ctx.debugf("[verbose] run_command: command_bytes=%d, timeout=%ds", len(args.Command), args.TimeoutSeconds)

	if args.Command == "" {
		return marshalToolResponse("run_command", nil, errors.New("command is required"))
	}
	if token, blocked := containsBlockedShellSyntax(args.Command); blocked {
		return marshalToolResponse("run_command", nil,
			fmt.Errorf("%w: shell control syntax %q", ErrCommandNotAllowed, token))
	}

	argv, err := parseCommandLine(args.Command)
	if err != nil {
		return marshalToolResponse("run_command", nil, fmt.Errorf("invalid command: %w", err))
	}
	if len(argv) == 0 {
		return marshalToolResponse("run_command", nil, errors.New("command is required"))
	}

	// Allow-list check happens before anything is spawned.
	if !isAllowedExecutable(argv[0], t.ctx.AllowedCommands) {
		t.ctx.debugf("[verbose] run_command: blocked executable: %s", argv[0])
		return marshalToolResponse("run_command", nil,
			fmt.Errorf("%w: %s (allowed: %v)", ErrCommandNotAllowed, argv[0], t.ctx.AllowedCommands))
	}

	timeout := time.Duration(args.TimeoutSeconds) * time.Second
	result, err := t.ctx.runCommand(argv[0], argv[1:], timeout)
	if err != nil {
		t.ctx.debugf("[verbose] run_command: %v", err)
		return marshalToolResponse("run_command", nil, err)
	}
	t.ctx.debugf("[verbose] run_command: completed, exit_code=%d, duration=%dms", result.ExitCode, result.DurationMs)
	return marshalToolResponse("run_command", result, nil)
}
