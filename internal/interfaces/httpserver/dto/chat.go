package dto

import (
	"github.com/janhq/jan-agent-gateway/internal/domain/chat"
	"github.com/janhq/jan-agent-gateway/internal/domain/tool"
)

// ChatOptions are the generation overrides of one turn.
type ChatOptions struct {
	Temperature *float64 `json:"temperature,omitempty" binding:"omitempty,gte=0,lte=2" example:"0.2"`
	MaxTokens   *int     `json:"maxTokens,omitempty" binding:"omitempty,gt=0" example:"1024"`
}

// ChatRequest is the body of the chat endpoints.
type ChatRequest struct {
	Message        string       `json:"message" example:"list my repos"`
	ConversationID string       `json:"conversationId,omitempty" example:"conv_0b9f3c1e-2f7d-4b61-9a55-6c1f0d8e7a21"`
	Options        *ChatOptions `json:"options,omitempty"`
}

// Params converts the request into service parameters.
func (r ChatRequest) Params(agentID string, creds tool.Credentials) chat.Params {
	params := chat.Params{
		AgentID:        agentID,
		ConversationID: r.ConversationID,
		Message:        r.Message,
		Credentials:    creds,
	}
	if r.Options != nil {
		params.Temperature = r.Options.Temperature
		params.MaxTokens = r.Options.MaxTokens
	}
	return params
}

// ToolUsage is one executed tool call of a turn.
type ToolUsage struct {
	Name    string `json:"name" example:"list_repos"`
	Content string `json:"content"`
}

// Usage reports token accounting.
type Usage struct {
	PromptTokens     int `json:"promptTokens"`
	CompletionTokens int `json:"completionTokens"`
	TotalTokens      int `json:"totalTokens"`
}

// ChatResponse is the answer to a chat turn.
type ChatResponse struct {
	Response        string      `json:"response"`
	ConversationID  string      `json:"conversationId"`
	Agent           string      `json:"agent" example:"github-helper"`
	Model           string      `json:"model" example:"llama3.1:latest"`
	ToolsUsed       []ToolUsage `json:"toolsUsed"`
	Iterations      int         `json:"iterations"`
	BudgetExhausted bool        `json:"budgetExhausted"`
	// TotalDuration is in nanoseconds, as reported by the runtime.
	TotalDuration *int64 `json:"totalDuration,omitempty"`
	EvalCount     *int   `json:"evalCount,omitempty"`
	Usage         *Usage `json:"usage,omitempty"`
}

// NewChatResponse maps a chat result.
func NewChatResponse(result *chat.Result) ChatResponse {
	resp := ChatResponse{
		Response:        result.Response,
		ConversationID:  result.ConversationID,
		Agent:           result.Agent,
		Model:           result.Model,
		ToolsUsed:       make([]ToolUsage, 0, len(result.ToolsUsed)),
		Iterations:      result.Iterations,
		BudgetExhausted: result.BudgetExhausted,
	}
	for _, usage := range result.ToolsUsed {
		resp.ToolsUsed = append(resp.ToolsUsed, ToolUsage{Name: usage.Name, Content: usage.Content})
	}
	if result.TotalDuration > 0 {
		ns := result.TotalDuration.Nanoseconds()
		resp.TotalDuration = &ns
	}
	if result.EvalCount > 0 {
		count := result.EvalCount
		resp.EvalCount = &count
	}
	if result.Usage != nil {
		resp.Usage = &Usage{
			PromptTokens:     result.Usage.PromptTokens,
			CompletionTokens: result.Usage.CompletionTokens,
			TotalTokens:      result.Usage.TotalTokens,
		}
	}
	return resp
}

// ToolCallEvent is the payload of a chat.tool_call stream event.
type ToolCallEvent struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
	Iteration int            `json:"iteration"`
}

// ToolResultEvent is the payload of a chat.tool_result stream event.
type ToolResultEvent struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Status     string `json:"status"`
	Content    string `json:"content"`
	DurationMs int64  `json:"durationMs"`
}

// DeltaEvent is the payload of a chat.delta stream event.
type DeltaEvent struct {
	Content string `json:"content"`
}
