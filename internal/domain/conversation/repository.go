package conversation

import "context"

// Repository exposes CRUD operations for conversation metadata.
type Repository interface {
	Create(ctx context.Context, agentID string, title *string) (*Conversation, error)
	FindByPublicID(ctx context.Context, publicID string) (*Conversation, error)
	ListByAgent(ctx context.Context, agentID string, limit int) ([]*Conversation, error)
	// Delete removes the conversation together with its messages.
	Delete(ctx context.Context, publicID string) error
	Ping(ctx context.Context) error
}

// MessageRepository persists the ordered message log.
type MessageRepository interface {
	// Append stores a message and bumps the conversation's update time.
	Append(ctx context.Context, conversationID string, role Role, content string, metadata map[string]any) (*Message, error)
	// ListRecent returns up to limit of the newest messages, oldest first.
	ListRecent(ctx context.Context, conversationID string, limit int) ([]*Message, error)
}

// MemoryRepository stores per-agent memory blocks.
type MemoryRepository interface {
	// Upsert writes value for (agentID, label), replacing any existing value.
	Upsert(ctx context.Context, agentID, label, value string) (*MemoryBlock, error)
	// Seed writes value only when (agentID, label) does not exist yet.
	Seed(ctx context.Context, agentID, label, value string) error
	ListByAgent(ctx context.Context, agentID string) ([]*MemoryBlock, error)
	Get(ctx context.Context, agentID, label string) (*MemoryBlock, error)
}

// Locker serializes work on a single conversation.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}
