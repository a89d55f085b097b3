package tool

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/janhq/jan-agent-gateway/internal/domain/llm"
)

// scriptedProvider replays canned responses and records every request.
type scriptedProvider struct {
	mu        sync.Mutex
	responses []*llm.ChatCompletionResponse
	repeat    *llm.ChatCompletionResponse
	err       error
	requests  []llm.ChatCompletionRequest
}

func (p *scriptedProvider) Name() string { return "scripted" }

func (p *scriptedProvider) CreateChatCompletion(_ context.Context, req llm.ChatCompletionRequest) (*llm.ChatCompletionResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	snapshot := req
	snapshot.Messages = append([]llm.ChatMessage(nil), req.Messages...)
	p.requests = append(p.requests, snapshot)

	if p.err != nil {
		return nil, p.err
	}
	if len(p.responses) > 0 {
		next := p.responses[0]
		p.responses = p.responses[1:]
		return cloneResponse(next), nil
	}
	if p.repeat != nil {
		return cloneResponse(p.repeat), nil
	}
	return nil, errors.New("scripted provider ran out of responses")
}

func (p *scriptedProvider) CreateChatCompletionStream(context.Context, llm.ChatCompletionRequest) (llm.Stream, error) {
	return nil, errors.New("not supported")
}

func (p *scriptedProvider) Ping(context.Context) error { return nil }

func (p *scriptedProvider) calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.requests)
}

func cloneResponse(resp *llm.ChatCompletionResponse) *llm.ChatCompletionResponse {
	out := *resp
	out.Choices = append([]llm.ChatCompletionChoice(nil), resp.Choices...)
	for i := range out.Choices {
		out.Choices[i].Message.ToolCalls = append([]llm.ToolCall(nil), resp.Choices[i].Message.ToolCalls...)
	}
	return &out
}

func textResponse(content string) *llm.ChatCompletionResponse {
	return &llm.ChatCompletionResponse{
		Model: "test-model",
		Choices: []llm.ChatCompletionChoice{{
			Message: llm.ChatMessage{Role: llm.RoleAssistant, Content: content},
		}},
	}
}

func toolCallResponse(content string, calls ...llm.ToolCall) *llm.ChatCompletionResponse {
	return &llm.ChatCompletionResponse{
		Model: "test-model",
		Choices: []llm.ChatCompletionChoice{{
			Message: llm.ChatMessage{Role: llm.RoleAssistant, Content: content, ToolCalls: calls},
		}},
	}
}

func callOf(id, name, args string) llm.ToolCall {
	return llm.ToolCall{
		ID:   id,
		Type: "function",
		Function: llm.ToolFunction{
			Name:      name,
			Arguments: json.RawMessage(args),
		},
	}
}

// funcExecutor is a configurable Executor.
type funcExecutor struct {
	service     string
	descriptors []Descriptor
	ExecuteFunc func(ctx context.Context, name string, args map[string]any, credential string) Result
}

func (e *funcExecutor) Service() string           { return e.service }
func (e *funcExecutor) Descriptors() []Descriptor { return e.descriptors }

func (e *funcExecutor) Execute(ctx context.Context, name string, args map[string]any, credential string) Result {
	return e.ExecuteFunc(ctx, name, args, credential)
}

func newFuncExecutor(service string, names ...string) *funcExecutor {
	exec := &funcExecutor{service: service}
	for _, name := range names {
		exec.descriptors = append(exec.descriptors, Descriptor{
			Name:        name,
			Description: "test function " + name,
			Parameters:  map[string]any{"type": "object", "properties": map[string]any{}},
		})
	}
	exec.ExecuteFunc = func(context.Context, string, map[string]any, string) Result {
		return Succeeded(map[string]any{"ok": true})
	}
	return exec
}

// recordingHook counts lifecycle events.
type recordingHook struct {
	NopHook
	mu          sync.Mutex
	modelStarts int
	modelErrors int
	toolStarts  int
	toolErrors  int
	runs        []RunEvent
}

func (h *recordingHook) OnModelCallStart(ctx context.Context, _ ModelCallEvent) context.Context {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.modelStarts++
	return ctx
}

func (h *recordingHook) OnModelCallFinish(_ context.Context, event ModelCallEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if event.Err != nil {
		h.modelErrors++
	}
}

func (h *recordingHook) OnToolCallStart(ctx context.Context, _ ToolCallEvent) context.Context {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.toolStarts++
	return ctx
}

func (h *recordingHook) OnToolCallFinish(_ context.Context, event ToolCallEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if event.Result.IsError() {
		h.toolErrors++
	}
}

func (h *recordingHook) OnRunFinish(_ context.Context, event RunEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.runs = append(h.runs, event)
}
