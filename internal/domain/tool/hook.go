package tool

import (
	"context"
	"time"

	"github.com/janhq/jan-agent-gateway/internal/domain/llm"
)

// ModelCallEvent describes one request to the model runtime.
type ModelCallEvent struct {
	Iteration int
	Model     string
	Messages  int
	Tools     int
	// Set on finish.
	ToolCalls int
	Usage     *llm.Usage
	Duration  time.Duration
	Err       error
}

// ToolCallEvent describes one dispatched tool call.
type ToolCallEvent struct {
	Iteration int
	Index     int
	CallID    string
	Name      string
	Arguments map[string]any
	// Set on finish.
	Result   Result
	Duration time.Duration
}

// RunEvent summarizes a finished orchestration run.
type RunEvent struct {
	Model           string
	Iterations      int
	ToolCalls       int
	BudgetExhausted bool
	Duration        time.Duration
	Err             error
}

// Hook observes the orchestration lifecycle. Start callbacks may return a
// derived context, which is handed to the matching finish callback and used
// for the call itself. Tool callbacks run concurrently for sibling calls, so
// implementations must be safe for concurrent use.
type Hook interface {
	OnModelCallStart(ctx context.Context, event ModelCallEvent) context.Context
	OnModelCallFinish(ctx context.Context, event ModelCallEvent)
	OnToolCallStart(ctx context.Context, event ToolCallEvent) context.Context
	OnToolCallFinish(ctx context.Context, event ToolCallEvent)
	OnRunFinish(ctx context.Context, event RunEvent)
}

// NopHook ignores every event. Embed it to implement a subset of Hook.
type NopHook struct{}

func (NopHook) OnModelCallStart(ctx context.Context, _ ModelCallEvent) context.Context { return ctx }
func (NopHook) OnModelCallFinish(context.Context, ModelCallEvent)                      {}
func (NopHook) OnToolCallStart(ctx context.Context, _ ToolCallEvent) context.Context   { return ctx }
func (NopHook) OnToolCallFinish(context.Context, ToolCallEvent)                        {}
func (NopHook) OnRunFinish(context.Context, RunEvent)                                  {}

// Hooks fans events out to several hooks in order.
type Hooks []Hook

func (h Hooks) OnModelCallStart(ctx context.Context, event ModelCallEvent) context.Context {
	for _, hook := range h {
		if hook != nil {
			ctx = hook.OnModelCallStart(ctx, event)
		}
	}
	return ctx
}

func (h Hooks) OnModelCallFinish(ctx context.Context, event ModelCallEvent) {
	for _, hook := range h {
		if hook != nil {
			hook.OnModelCallFinish(ctx, event)
		}
	}
}

func (h Hooks) OnToolCallStart(ctx context.Context, event ToolCallEvent) context.Context {
	for _, hook := range h {
		if hook != nil {
			ctx = hook.OnToolCallStart(ctx, event)
		}
	}
	return ctx
}

func (h Hooks) OnToolCallFinish(ctx context.Context, event ToolCallEvent) {
	for _, hook := range h {
		if hook != nil {
			hook.OnToolCallFinish(ctx, event)
		}
	}
}

func (h Hooks) OnRunFinish(ctx context.Context, event RunEvent) {
	for _, hook := range h {
		if hook != nil {
			hook.OnRunFinish(ctx, event)
		}
	}
}
