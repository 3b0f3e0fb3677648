package tools

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/openai/openai-go"
)

type readFileTool struct {
	ctx Context
}

func (t *readFileTool) name() string {
	return "read_file"
}

func (t *readFileTool) definition() openai.ChatCompletionToolParam {
	return openai.ChatCompletionToolParam{
		Function: openai.FunctionDefinitionParam{
			Name:        "read_file",
			Description: openai.String("Read the contents of a file inside the working directory"),
			Parameters: openai.FunctionParameters{
				"type": "object",
				"properties": map[string]any{
					"path": map[string]any{
						"type":        "string",
						"description": "Path to the file, relative to the working directory.",
					},
					"max_bytes": map[string]any{
						"type":        "integer",
						"description": "Maximum bytes to read (defaults to the tool limit).",
					},
				},
				"required": []string{"path"},
			},
		},
	}
}

func (t *readFileTool) execute(argText string) (string, error) {
	var args struct {
		Path     string `json:"path"`
		MaxBytes int64  `json:"max_bytes"`
	}
	if err := json.Unmarshal([]byte(argText), &args); err != nil {
		return marshalToolResponse("read_file", nil, err)
	}
	t.ctx.debugf("[verbose] read_file: path=%s, max_bytes=%d", args.Path, args.MaxBytes)

	validatedPath, err := resolvePath(t.ctx.WorkRoot, args.Path)
	if err != nil {
		t.ctx.debugf("[verbose] read_file: path validation failed: %v", err)
		return marshalToolResponse("read_file", nil, err)
	}

	info, err := os.Stat(validatedPath)
	if err != nil {
		return marshalToolResponse("read_file", nil, err)
	}
	if info.IsDir() {
		return marshalToolResponse("read_file", nil, fmt.Errorf("path is a directory: %s", args.Path))
	}

	maxBytes := args.MaxBytes
	if maxBytes <= 0 {
		maxBytes = t.ctx.MaxReadBytes
	}

	file, err := os.Open(validatedPath)
	if err != nil {
		return marshalToolResponse("read_file", nil, err)
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		return marshalToolResponse("read_file", nil, err)
	}

	truncated := false
	if int64(len(data)) > maxBytes {
		truncated = true
		data = data[:maxBytes]
	}

	result := struct {
		Path      string `json:"path"`
		Bytes     int    `json:"bytes"`
		Truncated bool   `json:"truncated"`
		Content   string `json:"content"`
	}{
		Path:      args.Path,
		Bytes:     len(data),
		Truncated: truncated,
		Content:   string(data),
	}
	t.ctx.debugf("[verbose] read_file: read %d bytes (truncated=%v)", result.Bytes, truncated)
	return marshalToolResponse("read_file", result, nil)
}
