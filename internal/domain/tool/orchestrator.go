package tool

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/janhq/jan-agent-gateway/internal/domain/llm"
)

const (
	// DefaultMaxIterations bounds the number of model calls per run.
	DefaultMaxIterations = 10

	// FallbackContent is returned when a run exhausts its budget before the
	// model produced any text.
	FallbackContent = "I could not finish working through the available tools for this request. Please try again or narrow the question."
)

// Orchestrator coordinates model reasoning with function execution until a
// final answer is produced or the iteration budget runs out.
type Orchestrator struct {
	provider       llm.Provider
	dispatcher     *Dispatcher
	maxIterations  int
	maxResultChars int
	hook           Hook
}

// Options configures an Orchestrator.
type Options struct {
	MaxIterations  int
	ToolTimeout    time.Duration
	MaxResultChars int
	Hook           Hook
}

// NewOrchestrator constructs a tool orchestrator instance.
func NewOrchestrator(provider llm.Provider, opts Options) *Orchestrator {
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = DefaultMaxIterations
	}
	if opts.Hook == nil {
		opts.Hook = NopHook{}
	}
	return &Orchestrator{
		provider:       provider,
		dispatcher:     NewDispatcher(opts.ToolTimeout),
		maxIterations:  opts.MaxIterations,
		maxResultChars: opts.MaxResultChars,
		hook:           opts.Hook,
	}
}

// Hook returns the base hook every run reports to.
func (o *Orchestrator) Hook() Hook {
	return o.hook
}

// ExecuteParams contains the data needed to start the orchestration loop.
type ExecuteParams struct {
	Model       string
	Messages    []llm.ChatMessage
	Temperature *float64
	MaxTokens   *int
	Toolbox     *Toolbox
	Credentials Credentials
	// MaxIterations overrides the orchestrator default when positive.
	MaxIterations int
	// Hook receives this run's events in addition to the orchestrator hook.
	Hook Hook
}

// ExecuteResult captures the final answer and the auxiliary tool output.
type ExecuteResult struct {
	Content         string
	Model           string
	Messages        []llm.ChatMessage
	Executions      []Execution
	Iterations      int
	BudgetExhausted bool
	Usage           *llm.Usage
	Metrics         *llm.RuntimeMetrics
}

// Execute drives the request/execute cycle. It only returns an error when the
// model runtime call fails; tool failures are reported to the model instead.
func (o *Orchestrator) Execute(ctx context.Context, params ExecuteParams) (_ *ExecuteResult, err error) {
	hook := Hook(Hooks{o.hook, params.Hook})
	maxIterations := o.maxIterations
	if params.MaxIterations > 0 {
		maxIterations = params.MaxIterations
	}

	messages := append([]llm.ChatMessage(nil), params.Messages...)
	seeded := len(messages)
	definitions := params.Toolbox.Definitions()

	result := &ExecuteResult{
		Model:   params.Model,
		Usage:   &llm.Usage{},
		Metrics: &llm.RuntimeMetrics{},
	}

	start := time.Now()
	defer func() {
		event := RunEvent{
			Model:      params.Model,
			Iterations: result.Iterations,
			ToolCalls:  len(result.Executions),
			Duration:   time.Since(start),
			Err:        err,
		}
		if err == nil {
			event.BudgetExhausted = result.BudgetExhausted
		}
		hook.OnRunFinish(ctx, event)
	}()

	for iteration := 1; iteration <= maxIterations; iteration++ {
		result.Iterations = iteration

		resp, callErr := o.callModel(ctx, hook, iteration, llm.ChatCompletionRequest{
			Model:       params.Model,
			Messages:    messages,
			Tools:       definitions,
			Temperature: params.Temperature,
			MaxTokens:   params.MaxTokens,
		})
		if callErr != nil {
			return nil, callErr
		}
		if resp.Model != "" {
			result.Model = resp.Model
		}
		result.Usage.Add(resp.Usage)
		result.Metrics.Add(resp.Metrics)

		message, _ := resp.FirstMessage()
		message.Role = llm.RoleAssistant
		assignCallIDs(message.ToolCalls, iteration)
		messages = append(messages, message)

		if len(message.ToolCalls) == 0 {
			result.Content = message.Content
			result.Messages = messages
			return result, nil
		}

		calls := make([]Call, len(message.ToolCalls))
		for i, tc := range message.ToolCalls {
			calls[i] = ParseToolCall(tc)
		}

		executions := o.dispatcher.DispatchAll(ctx, hook, iteration, params.Toolbox, params.Credentials, calls)
		for i, execution := range executions {
			messages = append(messages, llm.ChatMessage{
				Role:       llm.RoleTool,
				Content:    llm.TruncateContent(execution.Result.Content(), o.maxResultChars),
				ToolCallID: calls[i].ID,
				Name:       calls[i].Name,
			})
		}
		result.Executions = append(result.Executions, executions...)
	}

	result.BudgetExhausted = true
	result.Content = lastAssistantContent(messages[seeded:])
	result.Messages = messages
	return result, nil
}

func (o *Orchestrator) callModel(ctx context.Context, hook Hook, iteration int, req llm.ChatCompletionRequest) (*llm.ChatCompletionResponse, error) {
	event := ModelCallEvent{
		Iteration: iteration,
		Model:     req.Model,
		Messages:  len(req.Messages),
		Tools:     len(req.Tools),
	}
	callCtx := hook.OnModelCallStart(ctx, event)

	start := time.Now()
	resp, err := o.provider.CreateChatCompletion(callCtx, req)
	if err == nil && len(resp.Choices) == 0 {
		err = fmt.Errorf("%w: %w", llm.ErrRuntimeFailure, llm.ErrNoChoices)
	}

	event.Duration = time.Since(start)
	event.Err = err
	if err == nil {
		event.Usage = resp.Usage
		event.ToolCalls = len(resp.Choices[0].Message.ToolCalls)
	}
	hook.OnModelCallFinish(callCtx, event)

	if err != nil {
		return nil, err
	}
	return resp, nil
}

// assignCallIDs fills identifiers the runtime left empty so every tool result
// can still be correlated with its call.
func assignCallIDs(calls []llm.ToolCall, iteration int) {
	for i := range calls {
		if calls[i].ID == "" {
			calls[i].ID = fmt.Sprintf("call_%d_%d", iteration, i)
		}
		if calls[i].Type == "" {
			calls[i].Type = "function"
		}
	}
}

func lastAssistantContent(messages []llm.ChatMessage) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == llm.RoleAssistant && strings.TrimSpace(messages[i].Content) != "" {
			return messages[i].Content
		}
	}
	return FallbackContent
}
