package agent

import (
	"codingagent/pkg/inference"
	loggerpkg "codingagent/pkg/logger"
	toolspkg "codingagent/pkg/tools"
)

// Option configures optional runtime dependencies for AgentLoop.
type Option func(*loopDeps)

type loopDeps struct {
	logger   loggerpkg.Logger
	client   inference.Client
	registry *toolspkg.Registry
}

// WithLogger injects a logger dependency.
func WithLogger(l loggerpkg.Logger) Option {
	return func(d *loopDeps) {
		d.logger = l
	}
}

// WithInferenceClient injects an inference client, replacing the default
// OpenAI-backed one. Used by tests to script the backend.
func WithInferenceClient(c inference.Client) Option {
	return func(d *loopDeps) {
		d.client = c
	}
}

// WithRegistry injects a pre-built tool registry, allowing one registry to be
// shared read-only across loops.
func WithRegistry(r *toolspkg.Registry) Option {
	return func(d *loopDeps) {
		d.registry = r
	}
}
