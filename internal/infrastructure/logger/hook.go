package logger

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/janhq/jan-agent-gateway/internal/domain/tool"
	"github.com/janhq/jan-agent-gateway/internal/utils/platformerrors"
)

// ToolHook writes orchestration lifecycle events to the structured log.
type ToolHook struct {
	tool.NopHook
	log zerolog.Logger
}

// NewToolHook builds a logging hook on top of log.
func NewToolHook(log zerolog.Logger) *ToolHook {
	return &ToolHook{log: log.With().Str("component", "orchestrator").Logger()}
}

func (h *ToolHook) with(ctx context.Context) *zerolog.Logger {
	l := h.log
	if requestID := platformerrors.RequestIDFromContext(ctx); requestID != "" {
		l = l.With().Str("request_id", requestID).Logger()
	}
	return &l
}

func (h *ToolHook) OnModelCallFinish(ctx context.Context, event tool.ModelCallEvent) {
	log := h.with(ctx)
	if event.Err != nil {
		log.Error().
			Err(event.Err).
			Int("iteration", event.Iteration).
			Str("model", event.Model).
			Dur("duration", event.Duration).
			Msg("model call failed")
		return
	}
	log.Debug().
		Int("iteration", event.Iteration).
		Str("model", event.Model).
		Int("messages", event.Messages).
		Int("tool_calls", event.ToolCalls).
		Dur("duration", event.Duration).
		Msg("model call completed")
}

func (h *ToolHook) OnToolCallFinish(ctx context.Context, event tool.ToolCallEvent) {
	log := h.with(ctx)
	if event.Result.IsError() {
		log.Warn().
			Int("iteration", event.Iteration).
			Str("tool", event.Name).
			Str("call_id", event.CallID).
			Str("error", event.Result.ErrorMessage()).
			Dur("duration", event.Duration).
			Msg("tool call failed")
		return
	}
	log.Info().
		Int("iteration", event.Iteration).
		Str("tool", event.Name).
		Str("call_id", event.CallID).
		Dur("duration", event.Duration).
		Msg("tool call completed")
}

func (h *ToolHook) OnRunFinish(ctx context.Context, event tool.RunEvent) {
	log := h.with(ctx)
	if event.Err != nil {
		log.Error().Err(event.Err).Int("iterations", event.Iterations).Msg("orchestration aborted")
		return
	}
	entry := log.Info()
	if event.BudgetExhausted {
		entry = log.Warn()
	}
	entry.
		Str("model", event.Model).
		Int("iterations", event.Iterations).
		Int("tool_calls", event.ToolCalls).
		Bool("budget_exhausted", event.BudgetExhausted).
		Dur("duration", event.Duration).
		Msg("orchestration finished")
}
