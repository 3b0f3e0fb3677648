// Package agent implements the tool-calling loop that drives one
// conversation: model inference, tool dispatch, and termination policy.
package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/openai/openai-go"

	configpkg "codingagent/pkg/config"
	"codingagent/pkg/inference"
	loggerpkg "codingagent/pkg/logger"
	toolspkg "codingagent/pkg/tools"
)

// TerminationReason describes how a run ended.
type TerminationReason string

const (
	ReasonCompleted     TerminationReason = "completed"
	ReasonMaxIterations TerminationReason = "max_iterations_exceeded"
	ReasonFatal         TerminationReason = "fatal_error"
)

// ErrMaxIterations is returned when a run hits the iteration ceiling before
// the model produces a final answer.
var ErrMaxIterations = errors.New("maximum iterations exceeded")

// Result is the outcome of one Run.
type Result struct {
	Content    string
	Reason     TerminationReason
	Iterations int
}

// AgentLoop holds the runtime state for one conversation. The transcript is
// owned exclusively by the loop; the registry is shared read-only. One
// AgentLoop serves one conversation at a time.
type AgentLoop struct {
	config       configpkg.Config
	client       inference.Client
	tools        *toolspkg.Registry
	SystemPrompt string
	history      []openai.ChatCompletionMessageParamUnion

	runID   string
	logger  loggerpkg.Logger
	verbose bool
}

// New initializes an AgentLoop. The inference client and tool registry are
// built from cfg unless injected via options.
func New(ctx context.Context, cfg configpkg.Config, opts ...Option) (*AgentLoop, error) {
	cfg = configpkg.Normalize(cfg)
	deps := loopDeps{logger: loggerpkg.NopLogger{}}
	for _, opt := range opts {
		if opt != nil {
			opt(&deps)
		}
	}

	if cfg.APIKey == "" {
		return nil, errors.New("APIKey is not set")
	}
	if cfg.Model == "" {
		return nil, errors.New("Model is not set")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	registry := deps.registry
	if registry == nil {
		var err error
		registry, err = toolspkg.New(toolspkg.Context{
			WorkRoot:        cfg.WorkRoot,
			AllowedCommands: cfg.AllowedCommands,
			CommandTimeout:  cfg.CommandTimeout,
			SearchAPIKey:    cfg.SearchAPIKey,
			Verbose:         cfg.Verbose,
			Ctx:             ctx,
			Logger:          deps.logger,
		})
		if err != nil {
			return nil, fmt.Errorf("build tool registry: %w", err)
		}
	}

	client := deps.client
	if client == nil {
		client = inference.NewOpenAIClient(cfg.BaseURL, cfg.APIKey, cfg.Model)
	}

	systemPrompt := BuildSystemPrompt(cfg.WorkRoot, registry.Definitions())
	runID := uuid.NewString()

	loggerpkg.Debug(cfg.Verbose, deps.logger, "agent_loop init", map[string]any{
		"run_id":         runID,
		"model":          cfg.Model,
		"base_url":       cfg.BaseURL,
		"max_iterations": cfg.MaxIterations,
		"work_root":      cfg.WorkRoot,
		"tools":          len(registry.Definitions()),
	})

	return &AgentLoop{
		config:       cfg,
		client:       client,
		tools:        registry,
		SystemPrompt: systemPrompt,
		history:      []openai.ChatCompletionMessageParamUnion{openai.SystemMessage(systemPrompt)},

		runID:   runID,
		logger:  deps.logger,
		verbose: cfg.Verbose,
	}, nil
}

// Run processes one user input and loops between inference and tool dispatch
// until the model produces text, the iteration ceiling is reached, or a
// fatal backend error occurs. Cancellation is honored between iterations.
func (a *AgentLoop) Run(ctx context.Context, userInput string) (Result, error) {
	userInput = strings.TrimSpace(userInput)
	if userInput == "" {
		return Result{Reason: ReasonFatal}, errors.New("user input is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	previousLen := len(a.history)
	a.history = append(a.history, openai.UserMessage(userInput))

	for iteration := 1; iteration <= a.config.MaxIterations; iteration++ {
		select {
		case <-ctx.Done():
			a.history = a.history[:previousLen]
			return Result{Reason: ReasonFatal, Iterations: iteration - 1}, ctx.Err()
		default:
		}

		a.debugf("[verbose] iteration %d/%d: sending request", iteration, a.config.MaxIterations)
		message, err := a.client.Infer(ctx, a.history, a.tools.Definitions())
		if err != nil {
			// Backend failures are fatal for the run; the user turn is
			// rolled back so a later Run starts from a clean transcript.
			a.history = a.history[:previousLen]
			loggerpkg.Error(a.logger, "inference failed", map[string]any{
				"run_id":    a.runID,
				"iteration": iteration,
				"error":     err.Error(),
			})
			return Result{Reason: ReasonFatal, Iterations: iteration}, err
		}

		if len(message.ToolCalls) == 0 {
			a.history = append(a.history, message.ToParam())
			return Result{
				Content:    message.Content,
				Reason:     ReasonCompleted,
				Iterations: iteration,
			}, nil
		}

		// Persist the assistant tool-call turn before appending results.
		a.history = append(a.history, message.ToParam())
		a.debugf("[verbose] iteration %d: assistant requested %d tool call(s)", iteration, len(message.ToolCalls))
		a.history = a.appendToolResults(a.history, message.ToolCalls)
	}

	content := fmt.Sprintf("Stopped after %d iterations without a final answer.", a.config.MaxIterations)
	return Result{
		Content:    content,
		Reason:     ReasonMaxIterations,
		Iterations: a.config.MaxIterations,
	}, fmt.Errorf("%w after %d iterations", ErrMaxIterations, a.config.MaxIterations)
}

// appendToolResults dispatches each call in the order the model returned them
// and appends one result message per call with the matching correlation id.
// A failing call never aborts the batch; its error is visible to the model.
func (a *AgentLoop) appendToolResults(
	messages []openai.ChatCompletionMessageParamUnion,
	toolCalls []openai.ChatCompletionMessageToolCall,
) []openai.ChatCompletionMessageParamUnion {
	updated := messages
	for _, call := range toolCalls {
		callID := call.ID
		if callID == "" {
			callID = "call_" + uuid.NewString()
		}

		if err := inference.ValidateToolCall(call); err != nil {
			// A malformed call becomes a synthetic failure result so the
			// model can correct itself on the next iteration.
			a.debugf("[verbose] tool call rejected: %v", err)
			updated = append(updated, openai.ToolMessage(failurePayload(err), callID))
			continue
		}

		a.debugf("[verbose] dispatching tool: %s", call.Function.Name)
		output, err := a.tools.Dispatch(call)
		if err != nil {
			output = failurePayload(err)
		}
		updated = append(updated, openai.ToolMessage(output, callID))
	}
	return updated
}

func failurePayload(err error) string {
	return fmt.Sprintf(`{"ok":false,"error":%q}`, err.Error())
}

// Reset clears conversation history and keeps only the system prompt.
func (a *AgentLoop) Reset() {
	a.history = []openai.ChatCompletionMessageParamUnion{openai.SystemMessage(a.SystemPrompt)}
}

func (a *AgentLoop) debugf(format string, args ...any) {
	loggerpkg.Debugf(a.verbose, a.logger, format, args...)
}
