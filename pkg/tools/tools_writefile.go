package tools

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/openai/openai-go"
)

type writeFileTool struct {
	ctx Context
}

func (t *writeFileTool) name() string {
	return "write_file"
}

func (t *writeFileTool) definition() openai.ChatCompletionToolParam {
	return openai.ChatCompletionToolParam{
		Function: openai.FunctionDefinitionParam{
			Name:        "write_file",
			Description: openai.String("Write content to a file inside the working directory"),
			Parameters: openai.FunctionParameters{
				"type": "object",
				"properties": map[string]any{
					"path": map[string]any{
						"type":        "string",
						"description": "Path to write the file to, relative to the working directory.",
					},
					"content": map[string]any{
						"type":        "string",
						"description": "Full file contents to write.",
					},
					"overwrite": map[string]any{
						"type":        "boolean",
						"description": "Whether to overwrite if the file already exists.",
					},
				},
				"required": []string{"path", "content"},
			},
		},
	}
}

func (t *writeFileTool) execute(argText string) (string, error) {
	var args struct {
		Path      string `json:"path"`
		Content   string `json:"content"`
		Overwrite bool   `json:"overwrite"`
	}
	if err := json.Unmarshal([]byte(argText), &args); err != nil {
		return marshalToolResponse("write_file", nil, err)
	}
	t.ctx.debugf("[verbose] write_file: path=%s, bytes=%d, overwrite=%v", args.Path, len(args.Content), args.Overwrite)

	validatedPath, err := resolvePath(t.ctx.WorkRoot, args.Path)
	if err != nil {
		t.ctx.debugf("[verbose] write_file: path validation failed: %v", err)
		return marshalToolResponse("write_file", nil, err)
	}

	if _, err := os.Stat(validatedPath); err == nil && !args.Overwrite {
		return marshalToolResponse("write_file", nil, fmt.Errorf("file already exists: %s (set overwrite to replace)", args.Path))
	}

	if err := os.MkdirAll(filepath.Dir(validatedPath), 0o755); err != nil {
		return marshalToolResponse("write_file", nil, err)
	}
	if err := os.WriteFile(validatedPath, []byte(args.Content), 0o644); err != nil {
		return marshalToolResponse("write_file", nil, err)
	}

	result := struct {
		Path  string `json:"path"`
		Bytes int    `json:"bytes"`
	}{
		Path:  args.Path,
		Bytes: len(args.Content),
	}
	t.ctx.debugf("[verbose] write_file: wrote %d bytes", result.Bytes)
	return marshalToolResponse("write_file", result, nil)
}
