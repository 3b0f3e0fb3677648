// Package inference adapts the conversation transcript and tool schema into
// requests against an OpenAI-compatible backend (Ollama, vLLM, OpenAI).
package inference

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Typed backend failures. Both terminate the agent loop; they are never
// retried here (retry policy belongs to the transport layer, not the loop).
var (
	ErrBackendUnreachable = errors.New("backend unreachable")
	ErrBackendTimeout     = errors.New("backend timeout")
)

// ErrMalformedToolCall marks a structured call the backend emitted without
// the fields required to dispatch it. The agent loop feeds it back to the
// model as a failure result instead of aborting.
var ErrMalformedToolCall = errors.New("malformed tool call")

// Client issues one blocking model inference per call. The agent loop depends
// on this interface so tests can script the backend.
type Client interface {
	Infer(
		ctx context.Context,
		messages []openai.ChatCompletionMessageParamUnion,
		tools []openai.ChatCompletionToolParam,
	) (openai.ChatCompletionMessage, error)
}

// OpenAIClient is the production Client backed by the openai-go SDK.
type OpenAIClient struct {
	client openai.Client
	model  string
}

// NewOpenAIClient builds a client for the configured backend and model.
func NewOpenAIClient(baseURL, apiKey, model string) *OpenAIClient {
	opts := []option.RequestOption{}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	return &OpenAIClient{
		client: openai.NewClient(opts...),
		model:  model,
	}
}

// Infer performs one chat completion request and returns the assistant turn.
func (c *OpenAIClient) Infer(
	ctx context.Context,
	messages []openai.ChatCompletionMessageParamUnion,
	tools []openai.ChatCompletionToolParam,
) (openai.ChatCompletionMessage, error) {
	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(c.model),
		Messages: messages,
		Tools:    tools,
	})
	if err != nil {
		return openai.ChatCompletionMessage{}, classifyBackendError(err)
	}
	if len(completion.Choices) == 0 {
		return openai.ChatCompletionMessage{}, fmt.Errorf("%w: empty completion choices", ErrBackendUnreachable)
	}
	return completion.Choices[0].Message, nil
}

// classifyBackendError folds transport failures into the two typed outcomes
// the loop distinguishes.
func classifyBackendError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrBackendTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrBackendTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrBackendUnreachable, err)
}

// ValidateToolCall checks that a structured call carries everything dispatch
// needs: a tool name and a JSON object of arguments. Backends occasionally
// emit calls missing either; those surface as ErrMalformedToolCall.
func ValidateToolCall(call openai.ChatCompletionMessageToolCall) error {
	if strings.TrimSpace(call.Function.Name) == "" {
		return fmt.Errorf("%w: missing tool name", ErrMalformedToolCall)
	}
	argText := strings.TrimSpace(call.Function.Arguments)
	if argText == "" {
		return nil
	}
	var args map[string]any
	if err := json.Unmarshal([]byte(argText), &args); err != nil {
		return fmt.Errorf("%w: arguments for %s are not a JSON object", ErrMalformedToolCall, call.Function.Name)
	}
	return nil
}
