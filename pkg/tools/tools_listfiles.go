package tools

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/openai/openai-go"
)

type listFilesTool struct {
	ctx Context
}

func (t *listFilesTool) name() string {
	return "list_files"
}

func (t *listFilesTool) definition() openai.ChatCompletionToolParam {
	return openai.ChatCompletionToolParam{
		Function: openai.FunctionDefinitionParam{
			Name:        "list_files",
			Description: openai.String("List files and directories in a directory"),
			Parameters: openai.FunctionParameters{
				"type": "object",
				"properties": map[string]any{
					"path": map[string]any{
						"type":        "string",
						"description": "Path to the directory, relative to the working directory (defaults to the working directory itself).",
					},
				},
				"required": []string{},
			},
		},
	}
}

func (t *listFilesTool) execute(argText string) (string, error) {
	var args struct {
		Path string `json:"path"`
	}
	if err := json.Unmarshal([]byte(argText), &args); err != nil {
		return marshalToolResponse("list_files", nil, err)
	}
	if args.Path == "" {
		args.Path = "."
	}
	t.ctx.debugf("[verbose] list_files: path=%s", args.Path)

	validatedPath, err := resolvePath(t.ctx.WorkRoot, args.Path)
	if err != nil {
		t.ctx.debugf("[verbose] list_files: path validation failed: %v", err)
		return marshalToolResponse("list_files", nil, err)
	}

	info, err := os.Stat(validatedPath)
	if err != nil {
		return marshalToolResponse("list_files", nil, err)
	}
	if !info.IsDir() {
		return marshalToolResponse("list_files", nil, fmt.Errorf("not a directory: %s", args.Path))
	}

	entries, err := os.ReadDir(validatedPath)
	if err != nil {
		return marshalToolResponse("list_files", nil, err)
	}

	// Directories first, then files, each group sorted by name.
	dirs := []string{}
	files := []string{}
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, entry.Name()+"/")
		} else {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(dirs)
	sort.Strings(files)

	result := struct {
		Path        string   `json:"path"`
		Directories []string `json:"directories"`
		Files       []string `json:"files"`
	}{
		Path:        args.Path,
		Directories: dirs,
		Files:       files,
	}
	t.ctx.debugf("[verbose] list_files: %d directories, %d files", len(dirs), len(files))
	return marshalToolResponse("list_files", result, nil)
}
