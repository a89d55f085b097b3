package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/janhq/jan-agent-gateway/internal/domain/tool"
)

const tracerName = "jan-agent-gateway"

// GetTracer returns the tracer for the agent gateway.
func GetTracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

// StartChatSpan starts the span wrapping one chat turn.
func StartChatSpan(ctx context.Context, agentID, conversationID string, stream bool) (context.Context, trace.Span) {
	return GetTracer().Start(ctx, "chat.orchestrate",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("agent.id", agentID),
			attribute.String("conversation.id", conversationID),
			attribute.Bool("chat.stream", stream),
		),
	)
}

// RecordError records an error on a span.
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// TracingHook emits a span per model call and per tool call.
type TracingHook struct {
	tool.NopHook
	tracer trace.Tracer
}

// NewTracingHook builds a hook on tp, or on the global provider when tp is nil.
func NewTracingHook(tp trace.TracerProvider) *TracingHook {
	if tp == nil {
		return &TracingHook{tracer: GetTracer()}
	}
	return &TracingHook{tracer: tp.Tracer(tracerName)}
}

func (h *TracingHook) OnModelCallStart(ctx context.Context, event tool.ModelCallEvent) context.Context {
	ctx, _ = h.tracer.Start(ctx, "model.call",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("model.name", event.Model),
			attribute.Int("orchestration.iteration", event.Iteration),
			attribute.Int("model.messages", event.Messages),
			attribute.Int("model.tools", event.Tools),
		),
	)
	return ctx
}

func (h *TracingHook) OnModelCallFinish(ctx context.Context, event tool.ModelCallEvent) {
	span := trace.SpanFromContext(ctx)
	span.SetAttributes(attribute.Int("model.tool_calls", event.ToolCalls))
	if event.Usage != nil {
		span.SetAttributes(
			attribute.Int("model.prompt_tokens", event.Usage.PromptTokens),
			attribute.Int("model.completion_tokens", event.Usage.CompletionTokens),
		)
	}
	RecordError(span, event.Err)
	span.End()
}

func (h *TracingHook) OnToolCallStart(ctx context.Context, event tool.ToolCallEvent) context.Context {
	ctx, _ = h.tracer.Start(ctx, "tool.call",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("tool.name", event.Name),
			attribute.String("tool.call_id", event.CallID),
			attribute.Int("orchestration.iteration", event.Iteration),
		),
	)
	return ctx
}

func (h *TracingHook) OnToolCallFinish(ctx context.Context, event tool.ToolCallEvent) {
	span := trace.SpanFromContext(ctx)
	if event.Result.IsError() {
		span.SetStatus(codes.Error, event.Result.ErrorMessage())
	}
	span.End()
}

func (h *TracingHook) OnRunFinish(ctx context.Context, event tool.RunEvent) {
	span := trace.SpanFromContext(ctx)
	span.SetAttributes(
		attribute.Int("orchestration.iterations", event.Iterations),
		attribute.Int("orchestration.tool_calls", event.ToolCalls),
		attribute.Bool("orchestration.budget_exhausted", event.BudgetExhausted),
	)
}
