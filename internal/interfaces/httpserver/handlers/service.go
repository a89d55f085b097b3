package handlers

import (
	"context"

	"github.com/janhq/jan-agent-gateway/internal/domain/agent"
	"github.com/janhq/jan-agent-gateway/internal/domain/chat"
	"github.com/janhq/jan-agent-gateway/internal/domain/conversation"
	"github.com/janhq/jan-agent-gateway/internal/domain/health"
	"github.com/janhq/jan-agent-gateway/internal/domain/tool"
)

// ChatService is the domain surface the HTTP handlers call into.
type ChatService interface {
	Chat(ctx context.Context, params chat.Params) (*chat.Result, error)
	ChatStream(ctx context.Context, params chat.Params, sink chat.Sink) (*chat.Result, error)

	Agent(ctx context.Context, agentID string) (agent.Definition, error)
	Agents() []agent.Definition
	AgentTools(ctx context.Context, agentID string) ([]tool.Descriptor, error)

	ListConversations(ctx context.Context, agentID string, limit int) ([]*conversation.Conversation, error)
	GetConversation(ctx context.Context, conversationID string) (*conversation.Conversation, error)
	ListMessages(ctx context.Context, conversationID string, limit int) ([]*conversation.Message, error)
	DeleteConversation(ctx context.Context, conversationID string) error

	ListMemory(ctx context.Context, agentID string) ([]*conversation.MemoryBlock, error)
	SetMemory(ctx context.Context, agentID, label, value string) (*conversation.MemoryBlock, error)
}

// StatusChecker produces the process-wide status report.
type StatusChecker interface {
	Check(ctx context.Context) health.Report
}

var (
	_ ChatService   = (*chat.Service)(nil)
	_ StatusChecker = (*health.Checker)(nil)
)
