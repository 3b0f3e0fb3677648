// Package tools implements the tool registry and the local tool executors
// exposed to the model.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/openai/openai-go"

	loggerpkg "codingagent/pkg/logger"
)

// DefaultMaxReadBytes bounds read_file output when the call does not set a limit.
const DefaultMaxReadBytes int64 = 1024 * 1024

type tool interface {
	definition() openai.ChatCompletionToolParam
	execute(argText string) (string, error)
	name() string
}

// Context carries the shared, read-only execution environment for all tools.
type Context struct {
	WorkRoot        string
	MaxReadBytes    int64
	AllowedCommands []string
	CommandTimeout  time.Duration
	SearchAPIKey    string
	SearchEndpoint  string
	HTTPClient      *http.Client
	Verbose         bool
	Ctx             context.Context
	Logger          loggerpkg.Logger
}

func (c Context) debugf(format string, args ...any) {
	loggerpkg.Debugf(c.Verbose, c.Logger, format, args...)
}

// Registry maps tool names to implementations and exposes their schema in
// registration order. Read-only after construction; safe to share across
// concurrent agent loops.
type Registry struct {
	registry map[string]tool
	ctx      Context
	params   []openai.ChatCompletionToolParam
}

type toolResponse struct {
	OK   bool        `json:"ok"`
	Tool string      `json:"tool,omitempty"`
	Data interface{} `json:"data,omitempty"`
	Err  string      `json:"error,omitempty"`
}

// New builds a registry with the built-in tools. The working directory root
// is required; every file tool is contained to it.
func New(ctx Context) (*Registry, error) {
	if strings.TrimSpace(ctx.WorkRoot) == "" {
		return nil, fmt.Errorf("work root is required")
	}
	if ctx.Logger == nil {
		ctx.Logger = loggerpkg.NopLogger{}
	}
	if ctx.MaxReadBytes <= 0 {
		ctx.MaxReadBytes = DefaultMaxReadBytes
	}

	r := &Registry{
		registry: make(map[string]tool),
		ctx:      ctx,
	}

	builtins := []tool{
		&readFileTool{ctx: ctx},
		&writeFileTool{ctx: ctx},
		&listFilesTool{ctx: ctx},
		&findFilesTool{ctx: ctx},
		&runCommandTool{ctx: ctx},
		&webSearchTool{ctx: ctx},
	}
	for _, impl := range builtins {
		if err := r.register(impl); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) register(impl tool) error {
	if _, exists := r.registry[impl.name()]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateTool, impl.name())
	}
	r.registry[impl.name()] = impl
	r.params = append(r.params, impl.definition())
	r.ctx.debugf("[verbose] registered tool: %s", impl.name())
	return nil
}

// Definitions returns the tool schema in registration order, so prompts built
// from it are reproducible across runs.
func (r *Registry) Definitions() []openai.ChatCompletionToolParam {
	return r.params
}

// Dispatch validates and executes one tool call, wrapping the outcome into a
// JSON payload. Executor failures never propagate as Go errors; they become a
// failure payload the model can see. The returned error is reserved for
// payload marshalling itself.
func (r *Registry) Dispatch(call openai.ChatCompletionMessageToolCall) (string, error) {
	if r.ctx.Ctx != nil {
		select {
		case <-r.ctx.Ctx.Done():
			return marshalToolResponse(call.Function.Name, nil, r.ctx.Ctx.Err())
		default:
		}
	}

	impl, ok := r.registry[call.Function.Name]
	if !ok {
		return marshalToolResponse(call.Function.Name, nil, fmt.Errorf("%w: %s", ErrUnknownTool, call.Function.Name))
	}

	if err := validateArguments(impl.definition(), call.Function.Arguments); err != nil {
		r.ctx.debugf("[verbose] dispatch: argument validation failed for %s: %v", call.Function.Name, err)
		return marshalToolResponse(call.Function.Name, nil, err)
	}

	return impl.execute(call.Function.Arguments)
}

// validateArguments checks a call's argument object against the definition:
// required parameters must be present, unknown parameters are rejected, and
// declared scalar types must match. Runs before the executor is invoked.
func validateArguments(def openai.ChatCompletionToolParam, argText string) error {
	properties, required := schemaFields(def)

	args := map[string]any{}
	if strings.TrimSpace(argText) != "" {
		if err := json.Unmarshal([]byte(argText), &args); err != nil {
			return fmt.Errorf("%w: arguments are not a JSON object: %v", ErrInvalidArguments, err)
		}
	}

	var missing []string
	for _, name := range required {
		if _, ok := args[name]; !ok {
			missing = append(missing, name)
		}
	}

	var extra []string
	for name := range args {
		if _, ok := properties[name]; !ok {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)

	if len(missing) > 0 || len(extra) > 0 {
		return fmt.Errorf("%w: missing=%v extra=%v", ErrInvalidArguments, missing, extra)
	}

	for name, value := range args {
		declared := propertyType(properties[name])
		if declared == "" || value == nil {
			continue
		}
		if !matchesType(declared, value) {
			return fmt.Errorf("%w: parameter %s must be of type %s", ErrInvalidArguments, name, declared)
		}
	}
	return nil
}

// schemaFields extracts the property map and required list from a definition.
func schemaFields(def openai.ChatCompletionToolParam) (map[string]any, []string) {
	properties := map[string]any{}
	if props, ok := def.Function.Parameters["properties"].(map[string]any); ok {
		properties = props
	}

	var required []string
	switch req := def.Function.Parameters["required"].(type) {
	case []string:
		required = req
	case []any:
		for _, v := range req {
			if s, ok := v.(string); ok {
				required = append(required, s)
			}
		}
	}
	return properties, required
}

func propertyType(prop any) string {
	spec, ok := prop.(map[string]any)
	if !ok {
		return ""
	}
	t, _ := spec["type"].(string)
	return t
}

func matchesType(declared string, value any) bool {
	switch declared {
	case "string":
		_, ok := value.(string)
		return ok
	case "integer", "number":
		_, ok := value.(float64)
		return ok
	case "boolean":
		_, ok := value.(bool)
		return ok
	default:
		return true
	}
}

func marshalToolResponse(toolName string, data interface{}, err error) (string, error) {
	resp := toolResponse{
		OK:   err == nil,
		Tool: toolName,
		Data: data,
	}
	if err != nil {
		resp.Err = err.Error()
	}
	payload, marshalErr := json.Marshal(resp)
	if marshalErr != nil {
		return "", marshalErr
	}
	return string(payload), nil
}
