package handlers_test

import (
	"context"

	"github.com/janhq/jan-agent-gateway/internal/domain/agent"
	"github.com/janhq/jan-agent-gateway/internal/domain/chat"
	"github.com/janhq/jan-agent-gateway/internal/domain/conversation"
	"github.com/janhq/jan-agent-gateway/internal/domain/health"
	"github.com/janhq/jan-agent-gateway/internal/domain/tool"
	"github.com/janhq/jan-agent-gateway/internal/utils/platformerrors"
)

// MockChatService implements handlers.ChatService with overridable funcs.
type MockChatService struct {
	ChatFunc       func(ctx context.Context, params chat.Params) (*chat.Result, error)
	ChatStreamFunc func(ctx context.Context, params chat.Params, sink chat.Sink) (*chat.Result, error)

	AgentFunc      func(ctx context.Context, agentID string) (agent.Definition, error)
	AgentsFunc     func() []agent.Definition
	AgentToolsFunc func(ctx context.Context, agentID string) ([]tool.Descriptor, error)

	ListConversationsFunc  func(ctx context.Context, agentID string, limit int) ([]*conversation.Conversation, error)
	GetConversationFunc    func(ctx context.Context, conversationID string) (*conversation.Conversation, error)
	ListMessagesFunc       func(ctx context.Context, conversationID string, limit int) ([]*conversation.Message, error)
	DeleteConversationFunc func(ctx context.Context, conversationID string) error

	ListMemoryFunc func(ctx context.Context, agentID string) ([]*conversation.MemoryBlock, error)
	SetMemoryFunc  func(ctx context.Context, agentID, label, value string) (*conversation.MemoryBlock, error)
}

func (m *MockChatService) Chat(ctx context.Context, params chat.Params) (*chat.Result, error) {
	if m.ChatFunc != nil {
		return m.ChatFunc(ctx, params)
	}
	return &chat.Result{}, nil
}

func (m *MockChatService) ChatStream(ctx context.Context, params chat.Params, sink chat.Sink) (*chat.Result, error) {
	if m.ChatStreamFunc != nil {
		return m.ChatStreamFunc(ctx, params, sink)
	}
	return &chat.Result{}, nil
}

func (m *MockChatService) Agent(ctx context.Context, agentID string) (agent.Definition, error) {
	if m.AgentFunc != nil {
		return m.AgentFunc(ctx, agentID)
	}
	return agent.Definition{ID: agentID}, nil
}

func (m *MockChatService) Agents() []agent.Definition {
	if m.AgentsFunc != nil {
		return m.AgentsFunc()
	}
	return nil
}

func (m *MockChatService) AgentTools(ctx context.Context, agentID string) ([]tool.Descriptor, error) {
	if m.AgentToolsFunc != nil {
		return m.AgentToolsFunc(ctx, agentID)
	}
	return nil, nil
}

func (m *MockChatService) ListConversations(ctx context.Context, agentID string, limit int) ([]*conversation.Conversation, error) {
	if m.ListConversationsFunc != nil {
		return m.ListConversationsFunc(ctx, agentID, limit)
	}
	return nil, nil
}

func (m *MockChatService) GetConversation(ctx context.Context, conversationID string) (*conversation.Conversation, error) {
	if m.GetConversationFunc != nil {
		return m.GetConversationFunc(ctx, conversationID)
	}
	return &conversation.Conversation{PublicID: conversationID}, nil
}

func (m *MockChatService) ListMessages(ctx context.Context, conversationID string, limit int) ([]*conversation.Message, error) {
	if m.ListMessagesFunc != nil {
		return m.ListMessagesFunc(ctx, conversationID, limit)
	}
	return nil, nil
}

func (m *MockChatService) DeleteConversation(ctx context.Context, conversationID string) error {
	if m.DeleteConversationFunc != nil {
		return m.DeleteConversationFunc(ctx, conversationID)
	}
	return nil
}

func (m *MockChatService) ListMemory(ctx context.Context, agentID string) ([]*conversation.MemoryBlock, error) {
	if m.ListMemoryFunc != nil {
		return m.ListMemoryFunc(ctx, agentID)
	}
	return nil, nil
}

func (m *MockChatService) SetMemory(ctx context.Context, agentID, label, value string) (*conversation.MemoryBlock, error) {
	if m.SetMemoryFunc != nil {
		return m.SetMemoryFunc(ctx, agentID, label, value)
	}
	return &conversation.MemoryBlock{AgentID: agentID, Label: label, Value: value}, nil
}

type staticChecker health.Report

func (s staticChecker) Check(context.Context) health.Report {
	return health.Report(s)
}

func domainError(errorType platformerrors.ErrorType, message string) error {
	return platformerrors.NewError(context.Background(), platformerrors.LayerDomain, errorType, message, nil)
}
