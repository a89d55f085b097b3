package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/janhq/jan-agent-gateway/internal/domain/conversation"
	"github.com/janhq/jan-agent-gateway/internal/domain/llm"
	"github.com/janhq/jan-agent-gateway/internal/domain/tool"
	"github.com/janhq/jan-agent-gateway/internal/utils/platformerrors"
)

// store is an in-memory backing for the conversation repositories.
type store struct {
	mu            sync.Mutex
	seq           int
	conversations map[string]*conversation.Conversation
	messages      map[string][]*conversation.Message
	blocks        map[string]map[string]*conversation.MemoryBlock
	appendErr     error
}

func newStore() *store {
	return &store{
		conversations: make(map[string]*conversation.Conversation),
		messages:      make(map[string][]*conversation.Message),
		blocks:        make(map[string]map[string]*conversation.MemoryBlock),
	}
}

func (s *store) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s_%d", prefix, s.seq)
}

func notFound(ctx context.Context, what string) error {
	return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound, what+" not found", nil)
}

func (s *store) messagesOf(id string) []*conversation.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*conversation.Message(nil), s.messages[id]...)
}

type conversationRepo struct{ *store }

func (r conversationRepo) Create(_ context.Context, agentID string, title *string) (*conversation.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	conv := &conversation.Conversation{PublicID: r.nextID("conv"), AgentID: agentID, Title: title, CreatedAt: now, UpdatedAt: now}
	r.conversations[conv.PublicID] = conv
	return conv, nil
}

func (r conversationRepo) FindByPublicID(ctx context.Context, publicID string) (*conversation.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	conv, ok := r.conversations[publicID]
	if !ok {
		return nil, notFound(ctx, "conversation")
	}
	copied := *conv
	return &copied, nil
}

func (r conversationRepo) ListByAgent(_ context.Context, agentID string, _ int) ([]*conversation.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*conversation.Conversation
	for _, conv := range r.conversations {
		if conv.AgentID == agentID {
			out = append(out, conv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PublicID < out[j].PublicID })
	return out, nil
}

func (r conversationRepo) Delete(ctx context.Context, publicID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.conversations[publicID]; !ok {
		return notFound(ctx, "conversation")
	}
	delete(r.conversations, publicID)
	delete(r.messages, publicID)
	return nil
}

func (r conversationRepo) Ping(context.Context) error { return nil }

type messageRepo struct{ *store }

func (r messageRepo) Append(ctx context.Context, conversationID string, role conversation.Role, content string, metadata map[string]any) (*conversation.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.appendErr != nil {
		return nil, r.appendErr
	}
	if _, ok := r.conversations[conversationID]; !ok {
		return nil, notFound(ctx, "conversation")
	}
	msg := &conversation.Message{
		PublicID:       r.nextID("msg"),
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
		Metadata:       metadata,
		CreatedAt:      time.Now(),
	}
	r.messages[conversationID] = append(r.messages[conversationID], msg)
	return msg, nil
}

func (r messageRepo) ListRecent(ctx context.Context, conversationID string, limit int) ([]*conversation.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.conversations[conversationID]; !ok {
		return nil, notFound(ctx, "conversation")
	}
	all := r.messages[conversationID]
	if limit > 0 && len(all) > limit {
		all = all[len(all)-limit:]
	}
	return append([]*conversation.Message(nil), all...), nil
}

type memoryRepo struct{ *store }

func (r memoryRepo) Upsert(_ context.Context, agentID, label, value string) (*conversation.MemoryBlock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.blocks[agentID] == nil {
		r.blocks[agentID] = make(map[string]*conversation.MemoryBlock)
	}
	block := &conversation.MemoryBlock{AgentID: agentID, Label: label, Value: value, UpdatedAt: time.Now()}
	r.blocks[agentID][label] = block
	return block, nil
}

func (r memoryRepo) Seed(ctx context.Context, agentID, label, value string) error {
	r.mu.Lock()
	_, exists := r.blocks[agentID][label]
	r.mu.Unlock()
	if exists {
		return nil
	}
	_, err := r.Upsert(ctx, agentID, label, value)
	return err
}

func (r memoryRepo) ListByAgent(_ context.Context, agentID string) ([]*conversation.MemoryBlock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*conversation.MemoryBlock
	for _, block := range r.blocks[agentID] {
		out = append(out, block)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out, nil
}

func (r memoryRepo) Get(ctx context.Context, agentID, label string) (*conversation.MemoryBlock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	block, ok := r.blocks[agentID][label]
	if !ok {
		return nil, notFound(ctx, "memory block")
	}
	return block, nil
}

// recordingLocker records every acquired key.
type recordingLocker struct {
	mu   sync.Mutex
	keys []string
	err  error
}

func (l *recordingLocker) Lock(_ context.Context, key string) (func(), error) {
	if l.err != nil {
		return nil, l.err
	}
	l.mu.Lock()
	l.keys = append(l.keys, key)
	l.mu.Unlock()
	return func() {}, nil
}

// fakeProvider records every request and delegates to its funcs.
type fakeProvider struct {
	mu           sync.Mutex
	requests     []llm.ChatCompletionRequest
	streams      int
	CompleteFunc func(req llm.ChatCompletionRequest) (*llm.ChatCompletionResponse, error)
	StreamFunc   func(req llm.ChatCompletionRequest) (llm.Stream, error)
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) CreateChatCompletion(_ context.Context, req llm.ChatCompletionRequest) (*llm.ChatCompletionResponse, error) {
	p.mu.Lock()
	snapshot := req
	snapshot.Messages = append([]llm.ChatMessage(nil), req.Messages...)
	p.requests = append(p.requests, snapshot)
	p.mu.Unlock()
	if p.CompleteFunc == nil {
		return nil, errors.New("no completion configured")
	}
	return p.CompleteFunc(req)
}

func (p *fakeProvider) CreateChatCompletionStream(_ context.Context, req llm.ChatCompletionRequest) (llm.Stream, error) {
	p.mu.Lock()
	p.streams++
	p.requests = append(p.requests, req)
	p.mu.Unlock()
	if p.StreamFunc == nil {
		return nil, errors.New("no stream configured")
	}
	return p.StreamFunc(req)
}

func (p *fakeProvider) Ping(context.Context) error { return nil }

func (p *fakeProvider) calls() []llm.ChatCompletionRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]llm.ChatCompletionRequest(nil), p.requests...)
}

// scripted returns a CompleteFunc replaying responses in order.
func scripted(responses ...*llm.ChatCompletionResponse) func(llm.ChatCompletionRequest) (*llm.ChatCompletionResponse, error) {
	var mu sync.Mutex
	return func(llm.ChatCompletionRequest) (*llm.ChatCompletionResponse, error) {
		mu.Lock()
		defer mu.Unlock()
		if len(responses) == 0 {
			return nil, errors.New("script exhausted")
		}
		next := responses[0]
		responses = responses[1:]
		return next, nil
	}
}

func text(content string) *llm.ChatCompletionResponse {
	return &llm.ChatCompletionResponse{
		Model:   "llama3.1",
		Choices: []llm.ChatCompletionChoice{{Message: llm.ChatMessage{Role: llm.RoleAssistant, Content: content}}},
		Usage:   &llm.Usage{PromptTokens: 12, CompletionTokens: 4, TotalTokens: 16},
		Metrics: &llm.RuntimeMetrics{TotalDuration: 2 * time.Second, EvalCount: 4},
	}
}

func toolCalls(calls ...llm.ToolCall) *llm.ChatCompletionResponse {
	return &llm.ChatCompletionResponse{
		Model:   "llama3.1",
		Choices: []llm.ChatCompletionChoice{{Message: llm.ChatMessage{Role: llm.RoleAssistant, ToolCalls: calls}}},
	}
}

func call(id, name, args string) llm.ToolCall {
	return llm.ToolCall{ID: id, Type: "function", Function: llm.ToolFunction{Name: name, Arguments: []byte(args)}}
}

// sliceStream replays fixed fragments.
type sliceStream struct {
	fragments []string
	usage     *llm.Usage
	closed    bool
}

func (s *sliceStream) Recv() (*llm.ChatCompletionDelta, error) {
	if len(s.fragments) == 0 {
		if s.usage != nil {
			usage := s.usage
			s.usage = nil
			return &llm.ChatCompletionDelta{Usage: usage}, nil
		}
		return nil, io.EOF
	}
	next := s.fragments[0]
	s.fragments = s.fragments[1:]
	return &llm.ChatCompletionDelta{Choices: []llm.ChatCompletionDeltaChoice{{Delta: llm.ChatMessage{Content: next}}}}, nil
}

func (s *sliceStream) Close() error {
	s.closed = true
	return nil
}

// stubExecutor serves a fixed set of functions.
type stubExecutor struct {
	service     string
	names       []string
	mu          sync.Mutex
	credentials []string
	ExecuteFunc func(name string, args map[string]any) tool.Result
}

func (e *stubExecutor) Service() string { return e.service }

func (e *stubExecutor) Descriptors() []tool.Descriptor {
	out := make([]tool.Descriptor, 0, len(e.names))
	for _, name := range e.names {
		out = append(out, tool.Descriptor{Name: name, Description: "stub " + name})
	}
	return out
}

func (e *stubExecutor) Execute(_ context.Context, name string, args map[string]any, credential string) tool.Result {
	e.mu.Lock()
	e.credentials = append(e.credentials, credential)
	e.mu.Unlock()
	if e.ExecuteFunc != nil {
		return e.ExecuteFunc(name, args)
	}
	return tool.Succeeded(map[string]any{"ok": true})
}

// recordingSink collects streamed fragments and tool events.
type recordingSink struct {
	tool.NopHook
	mu        sync.Mutex
	fragments []string
	started   []string
	finished  []string
}

func (s *recordingSink) Delta(fragment string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fragments = append(s.fragments, fragment)
	return nil
}

func (s *recordingSink) OnToolCallStart(ctx context.Context, event tool.ToolCallEvent) context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started = append(s.started, event.CallID)
	return ctx
}

func (s *recordingSink) OnToolCallFinish(_ context.Context, event tool.ToolCallEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finished = append(s.finished, event.CallID)
}
