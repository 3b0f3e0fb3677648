// Security utilities for path containment and command safety checks.
package tools

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// resolvePath resolves path against the working directory root and verifies
// containment. Relative paths are joined to the root; absolute paths are
// accepted only when they stay inside it. The returned path is absolute and
// cleaned. Nothing touches the file system before this check passes.
func resolvePath(workRoot, path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("%w: path cannot be empty", ErrInvalidArguments)
	}
	root, err := filepath.Abs(filepath.Clean(workRoot))
	if err != nil {
		return "", fmt.Errorf("invalid work root: %w", err)
	}

	abs := filepath.Clean(path)
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(root, abs)
	}

	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrPathEscape, path)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s resolves outside %s", ErrPathEscape, path, root)
	}
	return abs, nil
}

// isAllowedExecutable reports whether an executable's base name is on the
// static allow-list. Comparison is case-insensitive.
func isAllowedExecutable(executable string, allowed []string) bool {
	base := strings.ToLower(filepath.Base(strings.TrimSpace(executable)))
	if base == "" {
		return false
	}
	return slices.Contains(allowed, base)
}

// containsBlockedShellSyntax checks for shell control operators and expansions.
// Commands run without a shell, so these tokens would silently change meaning.
func containsBlockedShellSyntax(command string) (string, bool) {
	blocked := []string{"&&", "||", ";", "|", ">", "<", "`", "$(", "\n", "\r"}
	for _, token := range blocked {
		if strings.Contains(command, token) {
			return token, true
		}
	}
	return "", false
}

// parseCommandLine parses a command string into argv without shell execution.
func parseCommandLine(input string) ([]string, error) {
	var (
		args     []string
		current  strings.Builder
		inSingle bool
		inDouble bool
		escaped  bool
	)

	flush := func() {
		if current.Len() == 0 {
			return
		}
		args = append(args, current.String())
		current.Reset()
	}

	for _, r := range input {
		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case r == '\\' && !inSingle:
			escaped = true
		case r == '\'' && !inDouble:
			inSingle = !inSingle
		case r == '"' && !inSingle:
			inDouble = !inDouble
		case (r == ' ' || r == '\t') && !inSingle && !inDouble:
			flush()
		default:
			current.WriteRune(r)
		}
	}

	if escaped {
		return nil, fmt.Errorf("unterminated escape in command")
	}
	if inSingle || inDouble {
		return nil, fmt.Errorf("unterminated quote in command")
	}
	flush()

	return args, nil
}
