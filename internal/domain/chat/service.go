package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/janhq/jan-agent-gateway/internal/domain/agent"
	"github.com/janhq/jan-agent-gateway/internal/domain/conversation"
	"github.com/janhq/jan-agent-gateway/internal/domain/llm"
	"github.com/janhq/jan-agent-gateway/internal/domain/tool"
	"github.com/janhq/jan-agent-gateway/internal/utils/platformerrors"
	"github.com/janhq/jan-agent-gateway/internal/utils/stringutils"
)

// Dependencies groups the collaborators of a Service.
type Dependencies struct {
	Agents        *agent.Registry
	Conversations conversation.Repository
	Messages      conversation.MessageRepository
	Memory        conversation.MemoryRepository
	// Locker is optional; without it turns on one conversation may interleave.
	Locker       conversation.Locker
	Provider     llm.Provider
	Tools        *tool.Registry
	Orchestrator *tool.Orchestrator
	Credentials  tool.Credentials
}

// Service answers chat turns and manages the state around them.
type Service struct {
	agents        *agent.Registry
	conversations conversation.Repository
	messages      conversation.MessageRepository
	memory        conversation.MemoryRepository
	locker        conversation.Locker
	provider      llm.Provider
	tools         *tool.Registry
	orchestrator  *tool.Orchestrator
	credentials   tool.Credentials
	cfg           Config
	validate      *validator.Validate
	log           zerolog.Logger
}

// NewService wires a chat service.
func NewService(deps Dependencies, cfg Config, log zerolog.Logger) *Service {
	orchestrator := deps.Orchestrator
	if orchestrator == nil {
		orchestrator = tool.NewOrchestrator(deps.Provider, tool.Options{})
	}
	return &Service{
		agents:        deps.Agents,
		conversations: deps.Conversations,
		messages:      deps.Messages,
		memory:        deps.Memory,
		locker:        deps.Locker,
		provider:      deps.Provider,
		tools:         deps.Tools,
		orchestrator:  orchestrator,
		credentials:   deps.Credentials,
		cfg:           cfg,
		validate:      validator.New(),
		log:           log.With().Str("component", "chat").Logger(),
	}
}

// ===============================================
// Chat turns
// ===============================================

// Chat answers one turn and returns the complete result.
func (s *Service) Chat(ctx context.Context, params Params) (*Result, error) {
	return s.run(ctx, params, nil)
}

// ChatStream answers one turn, pushing fragments of the answer and tool
// activity into sink while it runs.
func (s *Service) ChatStream(ctx context.Context, params Params, sink Sink) (*Result, error) {
	if sink == nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal, "stream sink is required", nil)
	}
	return s.run(ctx, params, sink)
}

func (s *Service) run(ctx context.Context, params Params, sink Sink) (*Result, error) {
	message := strings.TrimSpace(params.Message)
	if message == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "message is required", nil)
	}

	def, err := s.Agent(ctx, params.AgentID)
	if err != nil {
		return nil, err
	}

	conv, err := s.resolveConversation(ctx, def.ID, params.ConversationID, message)
	if err != nil {
		return nil, err
	}

	unlock, err := s.lock(ctx, conv.PublicID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if _, err := s.messages.Append(ctx, conv.PublicID, conversation.RoleUser, params.Message, nil); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to store user message")
	}

	prompt, err := s.buildPrompt(ctx, def, conv.PublicID)
	if err != nil {
		return nil, err
	}

	req := llm.ChatCompletionRequest{
		Model:       s.modelFor(def),
		Messages:    prompt,
		Temperature: def.ModelPreferences.Temperature,
		MaxTokens:   def.ModelPreferences.MaxTokens,
	}
	if params.Temperature != nil {
		req.Temperature = params.Temperature
	}
	if params.MaxTokens != nil {
		req.MaxTokens = params.MaxTokens
	}

	var result *Result
	if toolbox := s.toolbox(def); toolbox.Empty() {
		result, err = s.complete(ctx, req, sink)
	} else {
		result, err = s.orchestrate(ctx, req, toolbox, s.credentials.Merge(params.Credentials), sink)
	}
	if err != nil {
		return nil, modelError(ctx, err)
	}

	metadata := map[string]any{
		"model":            result.Model,
		"iterations":       result.Iterations,
		"budget_exhausted": result.BudgetExhausted,
	}
	if len(result.ToolsUsed) > 0 {
		names := make([]string, len(result.ToolsUsed))
		for i, usage := range result.ToolsUsed {
			names[i] = usage.Name
		}
		metadata["tools_used"] = names
	}
	if _, err := s.messages.Append(ctx, conv.PublicID, conversation.RoleAssistant, result.Response, metadata); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to store assistant message")
	}

	result.ConversationID = conv.PublicID
	result.Agent = def.ID
	return result, nil
}

// complete performs the single model call used by agents without tools.
func (s *Service) complete(ctx context.Context, req llm.ChatCompletionRequest, sink Sink) (*Result, error) {
	hook := s.orchestrator.Hook()
	if sink != nil {
		hook = tool.Hooks{hook, sink}
	}

	event := tool.ModelCallEvent{Iteration: 1, Model: req.Model, Messages: len(req.Messages)}
	callCtx := hook.OnModelCallStart(ctx, event)
	start := time.Now()

	result := &Result{Model: req.Model, Iterations: 1, ToolsUsed: []ToolUsage{}}
	var (
		metrics *llm.RuntimeMetrics
		err     error
	)
	if sink == nil {
		var resp *llm.ChatCompletionResponse
		resp, err = s.provider.CreateChatCompletion(callCtx, req)
		if err == nil {
			message, ok := resp.FirstMessage()
			if !ok {
				err = fmt.Errorf("%w: %w", llm.ErrRuntimeFailure, llm.ErrNoChoices)
			} else {
				result.Response = message.Content
				result.Usage = resp.Usage
				metrics = resp.Metrics
				if resp.Model != "" {
					result.Model = resp.Model
				}
			}
		}
	} else {
		var stream llm.Stream
		stream, err = s.provider.CreateChatCompletionStream(callCtx, req)
		if err == nil {
			var collected *llm.StreamResult
			collected, err = llm.CollectStream(stream, sink.Delta)
			if err == nil {
				result.Response = collected.Content
				result.Usage = collected.Usage
				metrics = collected.Metrics
			}
		}
	}

	event.Duration = time.Since(start)
	event.Err = err
	event.Usage = result.Usage
	hook.OnModelCallFinish(callCtx, event)
	hook.OnRunFinish(ctx, tool.RunEvent{
		Model:      result.Model,
		Iterations: 1,
		Duration:   event.Duration,
		Err:        err,
	})
	if err != nil {
		return nil, err
	}

	applyMetrics(result, metrics)
	return result, nil
}

func (s *Service) orchestrate(ctx context.Context, req llm.ChatCompletionRequest, toolbox *tool.Toolbox, creds tool.Credentials, sink Sink) (*Result, error) {
	params := tool.ExecuteParams{
		Model:       req.Model,
		Messages:    req.Messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		Toolbox:     toolbox,
		Credentials: creds,
	}
	if sink != nil {
		params.Hook = sink
	}

	out, err := s.orchestrator.Execute(ctx, params)
	if err != nil {
		return nil, err
	}

	if out.BudgetExhausted {
		s.log.Warn().
			Str("model", out.Model).
			Int("iterations", out.Iterations).
			Msg("tool budget exhausted, answering with fallback content")
	}

	if sink != nil && out.Content != "" {
		if err := sink.Delta(out.Content); err != nil {
			return nil, err
		}
	}

	result := &Result{
		Response:        out.Content,
		Model:           out.Model,
		ToolsUsed:       toolUsages(out.Executions),
		Iterations:      out.Iterations,
		BudgetExhausted: out.BudgetExhausted,
		Usage:           out.Usage,
	}
	applyMetrics(result, out.Metrics)
	return result, nil
}

func applyMetrics(result *Result, metrics *llm.RuntimeMetrics) {
	if metrics == nil {
		return
	}
	result.TotalDuration = metrics.TotalDuration
	result.EvalCount = metrics.EvalCount
}

// ===============================================
// Helpers
// ===============================================

// Agent resolves a loaded agent definition.
func (s *Service) Agent(ctx context.Context, agentID string) (agent.Definition, error) {
	def, ok := s.agents.Get(strings.TrimSpace(agentID))
	if !ok {
		return agent.Definition{}, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound, fmt.Sprintf("agent not found: %s", agentID), nil)
	}
	return def, nil
}

// Agents lists every loaded agent.
func (s *Service) Agents() []agent.Definition {
	return s.agents.List()
}

// AgentTools returns the function catalog the agent may call.
func (s *Service) AgentTools(ctx context.Context, agentID string) ([]tool.Descriptor, error) {
	def, err := s.Agent(ctx, agentID)
	if err != nil {
		return nil, err
	}
	descriptors := s.toolbox(def).Descriptors()
	if descriptors == nil {
		descriptors = []tool.Descriptor{}
	}
	return descriptors, nil
}

func (s *Service) resolveConversation(ctx context.Context, agentID, conversationID, message string) (*conversation.Conversation, error) {
	conversationID = strings.TrimSpace(conversationID)
	if conversationID == "" {
		var title *string
		if generated := stringutils.GenerateTitle(message, stringutils.DefaultTitleLength); generated != "" {
			title = &generated
		}
		conv, err := s.conversations.Create(ctx, agentID, title)
		if err != nil {
			return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to create conversation")
		}
		return conv, nil
	}

	conv, err := s.conversations.FindByPublicID(ctx, conversationID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to load conversation")
	}
	if !conv.BelongsTo(agentID) {
		return nil, platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeConflict,
			fmt.Sprintf("conversation %s belongs to a different agent", conversationID), nil,
			map[string]any{"agent_id": agentID, "owner_agent_id": conv.AgentID})
	}
	return conv, nil
}

func (s *Service) lock(ctx context.Context, conversationID string) (func(), error) {
	if s.locker == nil {
		return func() {}, nil
	}
	unlock, err := s.locker.Lock(ctx, conversationID)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeServiceUnavailable, "conversation is busy", err)
	}
	return unlock, nil
}

func (s *Service) buildPrompt(ctx context.Context, def agent.Definition, conversationID string) ([]llm.ChatMessage, error) {
	blocks, err := s.memory.ListByAgent(ctx, def.ID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to load agent memory")
	}

	history, err := s.messages.ListRecent(ctx, conversationID, s.cfg.HistoryLimit)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to load conversation history")
	}

	messages := make([]llm.ChatMessage, 0, len(history)+1)
	messages = append(messages, llm.ChatMessage{Role: llm.RoleSystem, Content: systemPrompt(def, blocks)})
	for _, msg := range history {
		messages = append(messages, llm.ChatMessage{Role: string(msg.Role), Content: msg.Content})
	}

	trimmed := llm.TrimMessagesToFitContext(messages, s.cfg.ContextLength)
	if trimmed.TrimmedCount > 0 {
		s.log.Debug().
			Str("conversation_id", conversationID).
			Int("trimmed", trimmed.TrimmedCount).
			Int("estimated_tokens", trimmed.EstimatedTokens).
			Msg("history trimmed to fit context")
	}
	return trimmed.Messages, nil
}

func (s *Service) toolbox(def agent.Definition) *tool.Toolbox {
	if s.tools == nil || !def.HasTools() {
		return nil
	}
	box, unresolved := s.tools.Toolbox(def.AllowedTools)
	if len(unresolved) > 0 {
		s.log.Warn().
			Str("agent_id", def.ID).
			Strs("unresolved", unresolved).
			Msg("agent references unknown tools")
	}
	return box
}

func (s *Service) modelFor(def agent.Definition) string {
	if model := strings.TrimSpace(def.ModelPreferences.Model); model != "" {
		return model
	}
	return s.cfg.DefaultModel
}

// modelError classifies a failed model interaction for the caller.
func modelError(ctx context.Context, err error) error {
	switch {
	case llm.IsUnreachable(err):
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeServiceUnavailable, "model runtime is unavailable", err)
	case errors.Is(err, llm.ErrRuntimeFailure):
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeExternal, "model runtime request failed", err)
	}
	return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "chat turn failed")
}
