package metrics

import (
	"context"

	"github.com/janhq/jan-agent-gateway/internal/domain/llm"
	"github.com/janhq/jan-agent-gateway/internal/domain/tool"
)

// Model call outcomes.
const (
	OutcomeSuccess     = "success"
	OutcomeUnreachable = "unreachable"
	OutcomeFailure     = "failure"
)

// Hook feeds orchestration events into the Prometheus collectors.
type Hook struct {
	tool.NopHook
	provider string
}

// NewHook builds a metrics hook labelled with the model provider name.
func NewHook(provider string) *Hook {
	return &Hook{provider: provider}
}

func (h *Hook) OnModelCallFinish(_ context.Context, event tool.ModelCallEvent) {
	RecordModelCall(h.provider, Outcome(event.Err), event.Duration.Seconds())
	if event.Usage != nil {
		RecordTokens(h.provider, event.Usage.PromptTokens, event.Usage.CompletionTokens)
	}
}

func (h *Hook) OnToolCallFinish(_ context.Context, event tool.ToolCallEvent) {
	status := string(tool.ExecutionStatusCompleted)
	if event.Result.IsError() {
		status = string(tool.ExecutionStatusFailed)
	}
	RecordToolCall(event.Name, status, event.Duration.Seconds())
}

func (h *Hook) OnRunFinish(_ context.Context, event tool.RunEvent) {
	if event.Err != nil {
		return
	}
	RecordRun(event.Iterations, event.BudgetExhausted)
}

// Outcome classifies a model call error for labelling.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case llm.IsUnreachable(err):
		return OutcomeUnreachable
	default:
		return OutcomeFailure
	}
}
