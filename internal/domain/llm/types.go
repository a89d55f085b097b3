package llm

import (
	"context"
	"encoding/json"
	"time"
)

// Message roles exchanged with the model runtime.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Provider defines the contract for a chat-completion capable model runtime.
type Provider interface {
	// Name identifies the runtime in logs and metrics.
	Name() string
	// CreateChatCompletion performs a single-shot completion. The returned
	// message may carry tool calls instead of (or alongside) text.
	CreateChatCompletion(ctx context.Context, req ChatCompletionRequest) (*ChatCompletionResponse, error)
	// CreateChatCompletionStream starts an incremental completion. The stream is
	// finite and cannot be restarted; issue a new call to regenerate.
	CreateChatCompletionStream(ctx context.Context, req ChatCompletionRequest) (Stream, error)
	// Ping checks that the runtime is reachable.
	Ping(ctx context.Context) error
}

// Stream abstracts an incremental response from the model runtime.
// Recv returns io.EOF once the runtime signals the end of the stream.
type Stream interface {
	Recv() (*ChatCompletionDelta, error)
	Close() error
}

// ChatCompletionRequest is the runtime-neutral request shape.
type ChatCompletionRequest struct {
	Model       string           `json:"model"`
	Messages    []ChatMessage    `json:"messages"`
	Tools       []ToolDefinition `json:"tools,omitempty"`
	Temperature *float64         `json:"temperature,omitempty"`
	MaxTokens   *int             `json:"max_tokens,omitempty"`
}

// ChatMessage represents a single message in the conversation history.
type ChatMessage struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	Name       string     `json:"name,omitempty"`
}

// ToolCall mirrors the OpenAI tool call format.
type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function ToolFunction `json:"function"`
}

// ToolFunction contains the function name and its raw argument payload. The
// payload is either a JSON object or a JSON string that itself encodes one.
type ToolFunction struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// ToolDefinition is the model-facing description of a callable function.
type ToolDefinition struct {
	Type     string             `json:"type"`
	Function ToolFunctionSchema `json:"function"`
}

// ToolFunctionSchema declares the function contract passed to the model.
type ToolFunctionSchema struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters"`
}

// ChatCompletionResponse captures the non-streaming completion payload.
type ChatCompletionResponse struct {
	ID      string                 `json:"id"`
	Model   string                 `json:"model"`
	Choices []ChatCompletionChoice `json:"choices"`
	Usage   *Usage                 `json:"usage,omitempty"`
	Metrics *RuntimeMetrics        `json:"metrics,omitempty"`
}

// ChatCompletionChoice represents one completion choice.
type ChatCompletionChoice struct {
	Index        int         `json:"index"`
	Message      ChatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

// Usage contains token accounting metadata.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Add accumulates other into u.
func (u *Usage) Add(other *Usage) {
	if u == nil || other == nil {
		return
	}
	u.PromptTokens += other.PromptTokens
	u.CompletionTokens += other.CompletionTokens
	u.TotalTokens += other.TotalTokens
}

// RuntimeMetrics carries timing reported by local runtimes.
type RuntimeMetrics struct {
	TotalDuration   time.Duration `json:"total_duration"`
	EvalCount       int           `json:"eval_count"`
	PromptEvalCount int           `json:"prompt_eval_count"`
}

// Add accumulates other into m.
func (m *RuntimeMetrics) Add(other *RuntimeMetrics) {
	if m == nil || other == nil {
		return
	}
	m.TotalDuration += other.TotalDuration
	m.EvalCount += other.EvalCount
	m.PromptEvalCount += other.PromptEvalCount
}

// ChatCompletionDelta represents a streaming chunk. Usage and Metrics are only
// populated on the final chunk when the runtime reports them.
type ChatCompletionDelta struct {
	Choices []ChatCompletionDeltaChoice `json:"choices"`
	Usage   *Usage                      `json:"usage,omitempty"`
	Metrics *RuntimeMetrics             `json:"metrics,omitempty"`
}

// ChatCompletionDeltaChoice mirrors OpenAI streaming deltas.
type ChatCompletionDeltaChoice struct {
	Delta        ChatMessage `json:"delta"`
	FinishReason string      `json:"finish_reason"`
	Index        int         `json:"index"`
}

// FirstMessage returns the message of the first choice, if any.
func (r *ChatCompletionResponse) FirstMessage() (ChatMessage, bool) {
	if r == nil || len(r.Choices) == 0 {
		return ChatMessage{}, false
	}
	return r.Choices[0].Message, true
}
