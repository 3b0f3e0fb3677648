// Tests for path containment and command safety checks.
package tools

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestResolvePath(t *testing.T) {
	root := t.TempDir()

	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{
			name: "relative path inside root",
			path: "notes/todo.txt",
		},
		{
			name:    "traversal escaping the root",
			path:    "../../etc/passwd",
			wantErr: ErrPathEscape,
		},
		{
			name: "traversal that stays inside the root",
			path: "a/../b.txt",
		},
		{
			name: "filename containing double dots",
			path: "a..b.txt",
		},
		{
			name: "absolute path inside root",
			path: filepath.Join(root, "file.txt"),
		},
		{
			name:    "absolute path outside root",
			path:    "/etc/passwd",
			wantErr: ErrPathEscape,
		},
		{
			name:    "empty path",
			path:    "",
			wantErr: ErrInvalidArguments,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolved, err := resolvePath(root, tt.path)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("resolvePath(%q) error = %v, want %v", tt.path, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("resolvePath(%q) unexpected error: %v", tt.path, err)
			}
			if !filepath.IsAbs(resolved) {
				t.Fatalf("resolved path is not absolute: %q", resolved)
			}
		})
	}
}

func TestIsAllowedExecutable(t *testing.T) {
	allowed := []string{"ls", "grep", "echo"}

	tests := []struct {
		name       string
		executable string
		want       bool
	}{
		{name: "allowed command", executable: "ls", want: true},
		{name: "allowed with mixed case", executable: "LS", want: true},
		{name: "allowed by base name", executable: "/bin/grep", want: true},
		{name: "disallowed command", executable: "rm", want: false},
		{name: "shell interpreter", executable: "bash", want: false},
		{name: "empty executable", executable: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isAllowedExecutable(tt.executable, allowed); got != tt.want {
				t.Errorf("isAllowedExecutable(%q) = %v, want %v", tt.executable, got, tt.want)
			}
		})
	}
}

func TestContainsBlockedShellSyntax(t *testing.T) {
	tests := []struct {
		name    string
		command string
		blocked bool
	}{
		{name: "plain command", command: "ls -la", blocked: false},
		{name: "command chaining", command: "ls && rm -rf /", blocked: true},
		{name: "pipe", command: "cat file | grep x", blocked: true},
		{name: "redirect", command: "echo hi > out.txt", blocked: true},
		{name: "command substitution", command: "echo $(whoami)", blocked: true},
		{name: "backtick", command: "echo `whoami`", blocked: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, got := containsBlockedShellSyntax(tt.command); got != tt.blocked {
				t.Errorf("containsBlockedShellSyntax(%q) = %v, want %v", tt.command, got, tt.blocked)
			}
		})
	}
}

func TestParseCommandLine(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []string
		wantErr bool
	}{
		{name: "simple", input: "ls -la /tmp", want: []string{"ls", "-la", "/tmp"}},
		{name: "double quotes", input: `grep "hello world" file.txt`, want: []string{"grep", "hello world", "file.txt"}},
		{name: "single quotes", input: "echo 'a b'", want: []string{"echo", "a b"}},
		{name: "escaped space", input: `cat a\ b.txt`, want: []string{"cat", "a b.txt"}},
		{name: "unterminated quote", input: `echo "oops`, wantErr: true},
		{name: "trailing escape", input: `echo oops\`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseCommandLine(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseCommandLine(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("parseCommandLine(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("parseCommandLine(%q) = %v, want %v", tt.input, got, tt.want)
				}
			}
		})
	}
}
