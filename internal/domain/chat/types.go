// Package chat handles inbound chat turns: it resolves the agent and the
// conversation, assembles the prompt and hands it to the model runtime, either
// directly or through the tool orchestration loop.
package chat

import (
	"time"

	"github.com/janhq/jan-agent-gateway/internal/domain/llm"
	"github.com/janhq/jan-agent-gateway/internal/domain/tool"
)

// Params is one inbound chat turn.
type Params struct {
	AgentID        string
	ConversationID string
	Message        string
	Temperature    *float64
	MaxTokens      *int
	// Credentials override the process-wide function credentials for this turn.
	Credentials tool.Credentials
}

// ToolUsage is the auxiliary output of one executed tool call.
type ToolUsage struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// Result is the answer to a chat turn.
type Result struct {
	Response        string
	ConversationID  string
	Agent           string
	Model           string
	ToolsUsed       []ToolUsage
	Iterations      int
	BudgetExhausted bool
	Usage           *llm.Usage
	// TotalDuration and EvalCount are only reported by local runtimes.
	TotalDuration time.Duration
	EvalCount     int
}

// Sink receives a streaming turn as it happens. Tool callbacks fire while the
// orchestration loop runs and may arrive concurrently.
type Sink interface {
	tool.Hook
	// Delta delivers the next fragment of the final answer.
	Delta(fragment string) error
}

// Config carries the turn-level limits.
type Config struct {
	DefaultModel  string
	HistoryLimit  int
	ContextLength int
}

func toolUsages(executions []tool.Execution) []ToolUsage {
	usages := make([]ToolUsage, 0, len(executions))
	for _, execution := range executions {
		usages = append(usages, ToolUsage{
			Name:    execution.ToolName,
			Content: execution.Result.Content(),
		})
	}
	return usages
}
