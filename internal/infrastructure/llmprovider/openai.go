package llmprovider

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/janhq/jan-agent-gateway/internal/domain/llm"
	"github.com/janhq/jan-agent-gateway/internal/domain/tool"
)

const openAIName = "openai"

// OpenAIProvider targets any OpenAI compatible chat completions endpoint,
// including vLLM and Ollama's /v1 surface.
type OpenAIProvider struct {
	client *openai.Client
}

// NewOpenAIProvider builds a client for baseURL authenticated with apiKey.
func NewOpenAIProvider(baseURL, apiKey string, httpClient *http.Client) *OpenAIProvider {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	if httpClient != nil {
		cfg.HTTPClient = httpClient
	}
	return &OpenAIProvider{client: openai.NewClientWithConfig(cfg)}
}

func (p *OpenAIProvider) Name() string {
	return openAIName
}

func (p *OpenAIProvider) CreateChatCompletion(ctx context.Context, req llm.ChatCompletionRequest) (*llm.ChatCompletionResponse, error) {
	resp, err := p.client.CreateChatCompletion(ctx, toOpenAIRequest(req))
	if err != nil {
		return nil, classifyOpenAIError(err)
	}

	out := &llm.ChatCompletionResponse{
		ID:    resp.ID,
		Model: resp.Model,
		Usage: &llm.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}
	for _, choice := range resp.Choices {
		out.Choices = append(out.Choices, llm.ChatCompletionChoice{
			Index:        choice.Index,
			Message:      fromOpenAIMessage(choice.Message),
			FinishReason: string(choice.FinishReason),
		})
	}
	return out, nil
}

func (p *OpenAIProvider) CreateChatCompletionStream(ctx context.Context, req llm.ChatCompletionRequest) (llm.Stream, error) {
	request := toOpenAIRequest(req)
	request.Stream = true
	request.StreamOptions = &openai.StreamOptions{IncludeUsage: true}

	stream, err := p.client.CreateChatCompletionStream(ctx, request)
	if err != nil {
		return nil, classifyOpenAIError(err)
	}
	return &openAIStream{stream: stream}, nil
}

// Ping lists models, the cheapest authenticated call the API offers.
func (p *OpenAIProvider) Ping(ctx context.Context) error {
	if _, err := p.client.ListModels(ctx); err != nil {
		return classifyOpenAIError(err)
	}
	return nil
}

func toOpenAIRequest(req llm.ChatCompletionRequest) openai.ChatCompletionRequest {
	out := openai.ChatCompletionRequest{
		Model:    req.Model,
		Messages: make([]openai.ChatCompletionMessage, 0, len(req.Messages)),
	}
	if req.Temperature != nil {
		out.Temperature = float32(*req.Temperature)
	}
	if req.MaxTokens != nil {
		out.MaxTokens = *req.MaxTokens
	}

	for _, msg := range req.Messages {
		converted := openai.ChatCompletionMessage{
			Role:       msg.Role,
			Content:    msg.Content,
			Name:       msg.Name,
			ToolCallID: msg.ToolCallID,
		}
		for _, call := range msg.ToolCalls {
			converted.ToolCalls = append(converted.ToolCalls, openai.ToolCall{
				ID:   call.ID,
				Type: openai.ToolTypeFunction,
				Function: openai.FunctionCall{
					Name:      call.Function.Name,
					Arguments: encodeArguments(call.Function.Arguments),
				},
			})
		}
		out.Messages = append(out.Messages, converted)
	}

	for _, def := range req.Tools {
		out.Tools = append(out.Tools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        def.Function.Name,
				Description: def.Function.Description,
				Parameters:  def.Function.Parameters,
			},
		})
	}
	return out
}

// encodeArguments renders the payload as the JSON object string the API expects.
func encodeArguments(raw json.RawMessage) string {
	args, err := tool.NormalizeArguments(raw)
	if err != nil {
		return "{}"
	}
	encoded, err := json.Marshal(args)
	if err != nil {
		return "{}"
	}
	return string(encoded)
}

func fromOpenAIMessage(msg openai.ChatCompletionMessage) llm.ChatMessage {
	out := llm.ChatMessage{
		Role:    llm.RoleAssistant,
		Content: msg.Content,
	}
	for _, call := range msg.ToolCalls {
		out.ToolCalls = append(out.ToolCalls, llm.ToolCall{
			ID:   call.ID,
			Type: "function",
			Function: llm.ToolFunction{
				Name:      call.Function.Name,
				Arguments: decodeArguments(call.Function.Arguments),
			},
		})
	}
	return out
}

// decodeArguments keeps valid JSON as is and wraps anything else in a JSON
// string so argument normalization can reject it per call.
func decodeArguments(arguments string) json.RawMessage {
	if strings.TrimSpace(arguments) == "" {
		return nil
	}
	if json.Valid([]byte(arguments)) {
		return json.RawMessage(arguments)
	}
	quoted, _ := json.Marshal(arguments)
	return quoted
}

func classifyOpenAIError(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode > 0 {
		return llm.NewStatusError(openAIName, apiErr.HTTPStatusCode, err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode > 0 {
		return llm.NewStatusError(openAIName, reqErr.HTTPStatusCode, err)
	}
	return llm.NewTransportError(openAIName, err)
}

type openAIStream struct {
	stream *openai.ChatCompletionStream
}

func (s *openAIStream) Recv() (*llm.ChatCompletionDelta, error) {
	chunk, err := s.stream.Recv()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, err
		}
		return nil, classifyOpenAIError(err)
	}

	delta := &llm.ChatCompletionDelta{}
	for _, choice := range chunk.Choices {
		delta.Choices = append(delta.Choices, llm.ChatCompletionDeltaChoice{
			Index:        choice.Index,
			FinishReason: string(choice.FinishReason),
			Delta: llm.ChatMessage{
				Role:    llm.RoleAssistant,
				Content: choice.Delta.Content,
			},
		})
	}
	if chunk.Usage != nil {
		delta.Usage = &llm.Usage{
			PromptTokens:     chunk.Usage.PromptTokens,
			CompletionTokens: chunk.Usage.CompletionTokens,
			TotalTokens:      chunk.Usage.TotalTokens,
		}
	}
	return delta, nil
}

func (s *openAIStream) Close() error {
	return s.stream.Close()
}
