package tools

import "errors"

// Typed failures surfaced by the registry and the executors. Dispatch wraps
// every one of these into a failure payload the model can read; none of them
// terminates the agent loop.
var (
	// ErrDuplicateTool is returned when registering a tool name twice.
	ErrDuplicateTool = errors.New("duplicate tool name")

	// ErrUnknownTool is returned when a call names a tool that is not registered.
	ErrUnknownTool = errors.New("unknown tool")

	// ErrInvalidArguments is returned when a call's arguments do not match
	// the tool definition. The executor is never invoked in that case.
	ErrInvalidArguments = errors.New("invalid arguments")

	// ErrPathEscape is returned when a path resolves outside the working
	// directory root. No file system access happens for such paths.
	ErrPathEscape = errors.New("path escapes working directory root")

	// ErrCommandNotAllowed is returned for executables missing from the
	// allow-list. The command is never spawned.
	ErrCommandNotAllowed = errors.New("command not allowed")

	// ErrCommandTimeout is returned when an allowed command exceeds its
	// execution deadline.
	ErrCommandTimeout = errors.New("command timed out")

	// ErrSearchUnavailable is returned when no search API key is configured.
	ErrSearchUnavailable = errors.New("search unavailable: no API key configured")
)
