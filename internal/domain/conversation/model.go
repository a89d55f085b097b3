package conversation

import (
	"time"
)

// Role of a persisted message. Tool messages only live inside an
// orchestration run and are never stored.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r may be persisted.
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	}
	return false
}

// Conversation is a chat thread owned by exactly one agent.
type Conversation struct {
	ID        uint      `json:"-"`
	PublicID  string    `json:"id"`
	AgentID   string    `json:"agentId"`
	Title     *string   `json:"title,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BelongsTo reports whether the conversation is owned by agentID.
func (c *Conversation) BelongsTo(agentID string) bool {
	return c != nil && c.AgentID == agentID
}

// Message is one append-only entry of a conversation.
type Message struct {
	ID             uint           `json:"-"`
	PublicID       string         `json:"id"`
	ConversationID string         `json:"conversationId"`
	Role           Role           `json:"role"`
	Content        string         `json:"content"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
}

// MemoryBlock is a labelled value scoped to one agent.
type MemoryBlock struct {
	AgentID   string    `json:"agentId"`
	Label     string    `json:"label"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updatedAt"`
}
