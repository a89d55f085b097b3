package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/janhq/jan-agent-gateway/internal/domain/llm"
)

// ExecutionStatus captures the outcome of a single tool call.
type ExecutionStatus string

const (
	ExecutionStatusCompleted ExecutionStatus = "completed"
	ExecutionStatusFailed    ExecutionStatus = "failed"
)

// Descriptor is the model-facing description of one function.
type Descriptor struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// Definition converts the descriptor into the runtime tool format.
func (d Descriptor) Definition() llm.ToolDefinition {
	params := d.Parameters
	if params == nil {
		params = map[string]any{"type": "object", "properties": map[string]any{}}
	}
	return llm.ToolDefinition{
		Type: "function",
		Function: llm.ToolFunctionSchema{
			Name:        d.Name,
			Description: d.Description,
			Parameters:  params,
		},
	}
}

// Executor runs the functions of one external service. Implementations never
// panic or return Go errors for downstream failures; every failure becomes a
// Failed result.
type Executor interface {
	// Service is the name agents use to grant every function of this executor.
	Service() string
	// Descriptors lists the static function catalog.
	Descriptors() []Descriptor
	// Execute performs exactly one outbound call for the named function.
	Execute(ctx context.Context, name string, args map[string]any, credential string) Result
}

// Credentials maps a service name to the secret its executor needs.
type Credentials map[string]string

// Merge returns a copy of c with non-empty values from override applied.
func (c Credentials) Merge(override Credentials) Credentials {
	merged := make(Credentials, len(c)+len(override))
	for k, v := range c {
		merged[k] = v
	}
	for k, v := range override {
		if v != "" {
			merged[k] = v
		}
	}
	return merged
}

// Result is the outcome of executing a function: either a value or an error
// message, never both.
type Result struct {
	value  any
	errMsg string
	failed bool
}

// Succeeded wraps a successful function output.
func Succeeded(value any) Result {
	return Result{value: value}
}

// Failed builds an error result.
func Failed(format string, args ...any) Result {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	return Result{errMsg: msg, failed: true}
}

// IsError reports whether the result is the error variant.
func (r Result) IsError() bool { return r.failed }

// Value returns the success payload, nil for errors.
func (r Result) Value() any { return r.value }

// ErrorMessage returns the failure message, empty for successes.
func (r Result) ErrorMessage() string { return r.errMsg }

// Content serializes the result for a tool-role message. Errors render as
// {"error": "..."}.
func (r Result) Content() string {
	if r.failed {
		return errorContent(r.errMsg)
	}
	switch v := r.value.(type) {
	case nil:
		return "null"
	case string:
		return v
	case json.RawMessage:
		return string(v)
	}
	data, err := json.Marshal(r.value)
	if err != nil {
		return errorContent(fmt.Sprintf("serialize result: %v", err))
	}
	return string(data)
}

// MarshalJSON renders the result the same way it is shown to the model.
func (r Result) MarshalJSON() ([]byte, error) {
	content := r.Content()
	if json.Valid([]byte(content)) {
		return []byte(content), nil
	}
	return json.Marshal(content)
}

func errorContent(msg string) string {
	data, _ := json.Marshal(map[string]string{"error": msg})
	return string(data)
}

// Call is a model-issued tool call after normalization at the dispatch boundary.
type Call struct {
	ID        string
	Name      string
	Arguments map[string]any
	// ArgumentError is set when the raw payload could not be normalized.
	ArgumentError error
}

// Execution records one dispatched call and its result.
type Execution struct {
	Iteration int             `json:"iteration"`
	CallID    string          `json:"call_id"`
	ToolName  string          `json:"tool_name"`
	Arguments map[string]any  `json:"arguments,omitempty"`
	Result    Result          `json:"result"`
	Status    ExecutionStatus `json:"status"`
	Duration  time.Duration   `json:"duration"`
}
