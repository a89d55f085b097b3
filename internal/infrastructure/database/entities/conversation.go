package entities

import (
	"time"

	"gorm.io/datatypes"

	"github.com/janhq/jan-agent-gateway/internal/domain/conversation"
)

// Conversation represents the database schema for conversations.
type Conversation struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	PublicID string  `gorm:"type:varchar(50);uniqueIndex;not null"`
	AgentID  string  `gorm:"type:varchar(64);index:idx_conversation_agent_updated;not null"`
	Title    *string `gorm:"type:varchar(256)"`

	Messages []Message `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for Conversation.
func (Conversation) TableName() string {
	return "conversations"
}

// EtoD converts the row into the domain conversation.
func (c *Conversation) EtoD() *conversation.Conversation {
	return &conversation.Conversation{
		ID:        c.ID,
		PublicID:  c.PublicID,
		AgentID:   c.AgentID,
		Title:     c.Title,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// Message stores each persisted turn of a conversation.
type Message struct {
	ID             uint      `gorm:"primaryKey"`
	PublicID       string    `gorm:"type:varchar(50);uniqueIndex;not null"`
	ConversationID uint      `gorm:"index:idx_message_conversation_created;not null"`
	Role           string    `gorm:"type:varchar(16);not null"`
	Content        string    `gorm:"type:text;not null"`
	CreatedAt      time.Time `gorm:"index:idx_message_conversation_created;autoCreateTime"`
	Metadata       datatypes.JSONMap
}

// TableName specifies the table name for Message.
func (Message) TableName() string {
	return "messages"
}

// EtoD converts the row into the domain message.
func (m *Message) EtoD(conversationPublicID string) *conversation.Message {
	var metadata map[string]any
	if len(m.Metadata) > 0 {
		metadata = map[string]any(m.Metadata)
	}
	return &conversation.Message{
		ID:             m.ID,
		PublicID:       m.PublicID,
		ConversationID: conversationPublicID,
		Role:           conversation.Role(m.Role),
		Content:        m.Content,
		Metadata:       metadata,
		CreatedAt:      m.CreatedAt,
	}
}

// MemoryBlock stores one labelled value per agent.
type MemoryBlock struct {
	ID        uint      `gorm:"primaryKey"`
	AgentID   string    `gorm:"type:varchar(64);uniqueIndex:idx_memory_agent_label;not null"`
	Label     string    `gorm:"type:varchar(128);uniqueIndex:idx_memory_agent_label;not null"`
	Value     string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName specifies the table name for MemoryBlock.
func (MemoryBlock) TableName() string {
	return "memory_blocks"
}

// EtoD converts the row into the domain memory block.
func (b *MemoryBlock) EtoD() *conversation.MemoryBlock {
	return &conversation.MemoryBlock{
		AgentID:   b.AgentID,
		Label:     b.Label,
		Value:     b.Value,
		UpdatedAt: b.UpdatedAt,
	}
}
