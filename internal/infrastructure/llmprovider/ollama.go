package llmprovider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"github.com/ollama/ollama/api"

	"github.com/janhq/jan-agent-gateway/internal/domain/llm"
	"github.com/janhq/jan-agent-gateway/internal/domain/tool"
)

const ollamaName = "ollama"

// OllamaProvider talks to a local Ollama runtime through its native chat API.
type OllamaProvider struct {
	client        *api.Client
	contextLength int
}

// NewOllamaProvider builds a provider for the runtime at baseURL.
func NewOllamaProvider(baseURL string, httpClient *http.Client, contextLength int) (*OllamaProvider, error) {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Ollama URL: %w", err)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &OllamaProvider{
		client:        api.NewClient(parsed, httpClient),
		contextLength: contextLength,
	}, nil
}

func (p *OllamaProvider) Name() string {
	return ollamaName
}

// CreateChatCompletion performs a non-streaming chat call.
func (p *OllamaProvider) CreateChatCompletion(ctx context.Context, req llm.ChatCompletionRequest) (*llm.ChatCompletionResponse, error) {
	chatReq, err := p.buildRequest(req, false)
	if err != nil {
		return nil, err
	}

	var final *api.ChatResponse
	err = p.client.Chat(ctx, chatReq, func(resp api.ChatResponse) error {
		final = &resp
		return nil
	})
	if err != nil {
		return nil, classifyOllamaError(err)
	}
	if final == nil {
		return nil, fmt.Errorf("%w: %w", llm.ErrRuntimeFailure, llm.ErrNoChoices)
	}

	message := fromOllamaMessage(final.Message)
	finish := final.DoneReason
	if len(message.ToolCalls) > 0 {
		finish = "tool_calls"
	}

	return &llm.ChatCompletionResponse{
		ID:    "chatcmpl-" + uuid.NewString(),
		Model: final.Model,
		Choices: []llm.ChatCompletionChoice{{
			Index:        0,
			Message:      message,
			FinishReason: finish,
		}},
		Usage:   usageFromMetrics(final.Metrics),
		Metrics: runtimeMetrics(final.Metrics),
	}, nil
}

// CreateChatCompletionStream starts a streaming chat call. The Ollama client
// pushes chunks through a callback, so a goroutine bridges them to Recv.
func (p *OllamaProvider) CreateChatCompletionStream(ctx context.Context, req llm.ChatCompletionRequest) (llm.Stream, error) {
	chatReq, err := p.buildRequest(req, true)
	if err != nil {
		return nil, err
	}

	streamCtx, cancel := context.WithCancel(ctx)
	s := &ollamaStream{
		items:  make(chan streamItem, 16),
		cancel: cancel,
	}

	go func() {
		defer close(s.items)
		err := p.client.Chat(streamCtx, chatReq, func(resp api.ChatResponse) error {
			delta := &llm.ChatCompletionDelta{
				Choices: []llm.ChatCompletionDeltaChoice{{
					Delta: llm.ChatMessage{Role: llm.RoleAssistant, Content: resp.Message.Content},
				}},
			}
			if resp.Done {
				delta.Choices[0].FinishReason = resp.DoneReason
				delta.Usage = usageFromMetrics(resp.Metrics)
				delta.Metrics = runtimeMetrics(resp.Metrics)
			}
			select {
			case s.items <- streamItem{delta: delta}:
				return nil
			case <-streamCtx.Done():
				return streamCtx.Err()
			}
		})
		if err != nil && streamCtx.Err() == nil {
			s.items <- streamItem{err: classifyOllamaError(err)}
		}
	}()

	return s, nil
}

// Ping checks that the runtime answers.
func (p *OllamaProvider) Ping(ctx context.Context) error {
	if err := p.client.Heartbeat(ctx); err != nil {
		return classifyOllamaError(err)
	}
	return nil
}

func (p *OllamaProvider) buildRequest(req llm.ChatCompletionRequest, stream bool) (*api.ChatRequest, error) {
	messages := make([]api.Message, 0, len(req.Messages))
	for _, msg := range req.Messages {
		messages = append(messages, toOllamaMessage(msg))
	}

	tools, err := toOllamaTools(req.Tools)
	if err != nil {
		return nil, err
	}

	options := map[string]any{}
	if req.Temperature != nil {
		options["temperature"] = *req.Temperature
	}
	if req.MaxTokens != nil {
		options["num_predict"] = *req.MaxTokens
	}
	if p.contextLength > 0 {
		options["num_ctx"] = p.contextLength
	}

	return &api.ChatRequest{
		Model:    req.Model,
		Messages: messages,
		Tools:    tools,
		Stream:   &stream,
		Options:  options,
	}, nil
}

func toOllamaMessage(msg llm.ChatMessage) api.Message {
	out := api.Message{
		Role:    msg.Role,
		Content: msg.Content,
	}
	if msg.Role == llm.RoleTool {
		out.ToolName = msg.Name
	}
	for _, call := range msg.ToolCalls {
		args, err := tool.NormalizeArguments(call.Function.Arguments)
		if err != nil {
			// the native API only accepts objects
			args = map[string]any{}
		}
		out.ToolCalls = append(out.ToolCalls, api.ToolCall{
			Function: api.ToolCallFunction{
				Name:      call.Function.Name,
				Arguments: args,
			},
		})
	}
	return out
}

func fromOllamaMessage(msg api.Message) llm.ChatMessage {
	out := llm.ChatMessage{
		Role:    llm.RoleAssistant,
		Content: msg.Content,
	}
	for _, call := range msg.ToolCalls {
		raw, err := json.Marshal(call.Function.Arguments)
		if err != nil {
			raw = nil
		}
		out.ToolCalls = append(out.ToolCalls, llm.ToolCall{
			// The native API does not identify calls.
			ID:   "call_" + uuid.NewString(),
			Type: "function",
			Function: llm.ToolFunction{
				Name:      call.Function.Name,
				Arguments: raw,
			},
		})
	}
	return out
}

func toOllamaTools(defs []llm.ToolDefinition) (api.Tools, error) {
	if len(defs) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(defs)
	if err != nil {
		return nil, fmt.Errorf("encode tool definitions: %w", err)
	}
	var tools api.Tools
	if err := json.Unmarshal(raw, &tools); err != nil {
		return nil, fmt.Errorf("convert tool definitions: %w", err)
	}
	return tools, nil
}

func usageFromMetrics(m api.Metrics) *llm.Usage {
	if m.PromptEvalCount == 0 && m.EvalCount == 0 {
		return nil
	}
	return &llm.Usage{
		PromptTokens:     m.PromptEvalCount,
		CompletionTokens: m.EvalCount,
		TotalTokens:      m.PromptEvalCount + m.EvalCount,
	}
}

func runtimeMetrics(m api.Metrics) *llm.RuntimeMetrics {
	if m.TotalDuration == 0 && m.EvalCount == 0 && m.PromptEvalCount == 0 {
		return nil
	}
	return &llm.RuntimeMetrics{
		TotalDuration:   m.TotalDuration,
		EvalCount:       m.EvalCount,
		PromptEvalCount: m.PromptEvalCount,
	}
}

func classifyOllamaError(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	var statusErr api.StatusError
	if errors.As(err, &statusErr) {
		return llm.NewStatusError(ollamaName, statusErr.StatusCode, err)
	}
	return llm.NewTransportError(ollamaName, err)
}

type streamItem struct {
	delta *llm.ChatCompletionDelta
	err   error
}

type ollamaStream struct {
	items  chan streamItem
	cancel context.CancelFunc
}

func (s *ollamaStream) Recv() (*llm.ChatCompletionDelta, error) {
	item, ok := <-s.items
	if !ok {
		return nil, io.EOF
	}
	if item.err != nil {
		return nil, item.err
	}
	return item.delta, nil
}

func (s *ollamaStream) Close() error {
	s.cancel()
	for range s.items {
	}
	return nil
}
