package tools

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/openai/openai-go"
)

type findFilesTool struct {
	ctx Context
}

func (t *findFilesTool) name() string {
	return "find_files"
}

func (t *findFilesTool) definition() openai.ChatCompletionToolParam {
	return openai.ChatCompletionToolParam{
		Function: openai.FunctionDefinitionParam{
			Name:        "find_files",
			Description: openai.String("Find files under the working directory matching a glob pattern"),
			Parameters: openai.FunctionParameters{
				"type": "object",
				"properties": map[string]any{
					"pattern": map[string]any{
						"type":        "string",
						"description": "Glob pattern relative to the working directory. Supports ** for recursive matching.",
					},
				},
				"required": []string{"pattern"},
			},
		},
	}
}

func (t *findFilesTool) execute(argText string) (string, error) {
	var args struct {
		Pattern string `json:"pattern"`
	}
	if err := json.Unmarshal([]byte(argText), &args); err != nil {
		return marshalToolResponse("find_files", nil, err)
	}
	t.ctx.debugf("[verbose] find_files: pattern=%s", args.Pattern)

	pattern := path.Clean(filepath.ToSlash(strings.TrimSpace(args.Pattern)))
	if pattern == "" || pattern == "." || strings.HasPrefix(pattern, "../") || path.IsAbs(pattern) {
		return marshalToolResponse("find_files", nil, fmt.Errorf("%w: pattern must be relative to the working directory", ErrInvalidArguments))
	}
	// Reject syntactically invalid patterns up front.
	if _, err := path.Match(strings.ReplaceAll(pattern, "**", "*"), ""); err != nil {
		return marshalToolResponse("find_files", nil, fmt.Errorf("%w: bad pattern %q", ErrInvalidArguments, args.Pattern))
	}

	matches, err := globWorkRoot(t.ctx.WorkRoot, pattern)
	if err != nil {
		return marshalToolResponse("find_files", nil, err)
	}
	sort.Strings(matches)

	// Zero matches is a valid outcome, not a failure.
	result := struct {
		Pattern string   `json:"pattern"`
		Count   int      `json:"count"`
		Matches []string `json:"matches"`
	}{
		Pattern: args.Pattern,
		Count:   len(matches),
		Matches: matches,
	}
	t.ctx.debugf("[verbose] find_files: %d match(es)", len(matches))
	return marshalToolResponse("find_files", result, nil)
}

// globWorkRoot walks root and returns relative paths matching pattern.
// Unlike filepath.Glob, the ** segment matches any number of directories.
func globWorkRoot(root, pattern string) ([]string, error) {
	patternSegs := strings.Split(pattern, "/")

	matches := []string{}
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtrees are skipped, not fatal to the search.
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil || rel == "." {
			return nil
		}
		if matchSegments(patternSegs, strings.Split(filepath.ToSlash(rel), "/")) {
			matches = append(matches, filepath.ToSlash(rel))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return matches, nil
}

// matchSegments matches path segments against pattern segments, where a
// literal ** pattern segment spans zero or more path segments.
func matchSegments(pattern, segs []string) bool {
	if len(pattern) == 0 {
		return len(segs) == 0
	}
	if pattern[0] == "**" {
		if matchSegments(pattern[1:], segs) {
			return true
		}
		return len(segs) > 0 && matchSegments(pattern, segs[1:])
	}
	if len(segs) == 0 {
		return false
	}
	ok, err := path.Match(pattern[0], segs[0])
	if err != nil || !ok {
		return false
	}
	return matchSegments(pattern[1:], segs[1:])
}
