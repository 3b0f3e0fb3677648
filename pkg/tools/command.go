// Command execution helpers for the run_command tool.
package tools

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// commandResult captures command execution metadata and output.
type commandResult struct {
	Command    string   `json:"command"`
	Args       []string `json:"args,omitempty"`
	ExitCode   int      `json:"exit_code"`
	Stdout     string   `json:"stdout,omitempty"`
	Stderr     string   `json:"stderr,omitempty"`
	DurationMs int64    `json:"duration_ms"`
}

// runCommand executes an already-validated command with a bounded timeout and
// captures stdout/stderr. A deadline hit returns ErrCommandTimeout; the
// process is killed by the context, never left detached.
func (c Context) runCommand(command string, args []string, timeout time.Duration) (commandResult, error) {
	if timeout <= 0 {
		timeout = c.CommandTimeout
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	c.debugf("[verbose] runCommand: command=%s, args=%v, timeout=%v", command, args, timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Env = sanitizedEnv()
	cmd.Dir = c.WorkRoot

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	duration := time.Since(start).Milliseconds()

	if ctx.Err() == context.DeadlineExceeded {
		c.debugf("[verbose] runCommand: timeout exceeded after %v", timeout)
		return commandResult{}, fmt.Errorf("%w after %v: %s", ErrCommandTimeout, timeout, command)
	}

	exitCode := 0
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		} else {
			return commandResult{}, fmt.Errorf("run %s: %w", command, err)
		}
		c.debugf("[verbose] runCommand: non-zero exit: %v (exit_code=%d)", err, exitCode)
	}

	c.debugf("[verbose] runCommand: completed, exit_code=%d, duration=%dms, stdout=%d bytes, stderr=%d bytes",
		exitCode, duration, stdout.Len(), stderr.Len())

	return commandResult{
		Command:    command,
		Args:       args,
		ExitCode:   exitCode,
		Stdout:     stdout.String(),
		Stderr:     stderr.String(),
		DurationMs: duration,
	}, nil
}

// sanitizedEnv keeps only low-risk environment variables for subprocesses.
func sanitizedEnv() []string {
	allowedPrefixes := []string{
		"PATH=",
		"HOME=",
		"USER=",
		"LOGNAME=",
		"TMPDIR=",
		"TMP=",
		"TEMP=",
		"LANG=",
		"LC_",
		"TERM=",
		"PWD=",
	}

	env := make([]string, 0, len(allowedPrefixes))
	for _, kv := range os.Environ() {
		for _, prefix := range allowedPrefixes {
			if strings.HasPrefix(kv, prefix) {
				env = append(env, kv)
				break
			}
		}
	}
	return env
}
