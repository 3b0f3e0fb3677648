package inference

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/openai/openai-go"
)

func TestValidateToolCall(t *testing.T) {
	makeCall := func(name, args string) openai.ChatCompletionMessageToolCall {
		var call openai.ChatCompletionMessageToolCall
		call.ID = "call_1"
		call.Function.Name = name
		call.Function.Arguments = args
		return call
	}

	tests := []struct {
		name    string
		call    openai.ChatCompletionMessageToolCall
		wantErr bool
	}{
		{name: "valid call", call: makeCall("read_file", `{"path":"a.txt"}`)},
		{name: "empty arguments are tolerated", call: makeCall("list_files", "")},
		{name: "missing tool name", call: makeCall("", `{"path":"a.txt"}`), wantErr: true},
		{name: "arguments not JSON", call: makeCall("read_file", `path=a.txt`), wantErr: true},
		{name: "arguments not an object", call: makeCall("read_file", `[1,2]`), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateToolCall(tt.call)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateToolCall() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrMalformedToolCall) {
				t.Fatalf("error should wrap ErrMalformedToolCall: %v", err)
			}
		})
	}
}

func TestClassifyBackendError(t *testing.T) {
	if err := classifyBackendError(context.DeadlineExceeded); !errors.Is(err, ErrBackendTimeout) {
		t.Fatalf("deadline should classify as timeout: %v", err)
	}
	if err := classifyBackendError(fmt.Errorf("connection refused")); !errors.Is(err, ErrBackendUnreachable) {
		t.Fatalf("generic failure should classify as unreachable: %v", err)
	}
}
