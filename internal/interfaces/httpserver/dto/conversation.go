package dto

import (
	"time"

	"github.com/janhq/jan-agent-gateway/internal/domain/conversation"
)

// ConversationResponse is the public conversation shape.
type ConversationResponse struct {
	ID        string    `json:"id" example:"conv_0b9f3c1e-2f7d-4b61-9a55-6c1f0d8e7a21"`
	AgentID   string    `json:"agentId" example:"github-helper"`
	Title     *string   `json:"title,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewConversationResponse maps a conversation.
func NewConversationResponse(conv *conversation.Conversation) ConversationResponse {
	return ConversationResponse{
		ID:        conv.PublicID,
		AgentID:   conv.AgentID,
		Title:     conv.Title,
		CreatedAt: conv.CreatedAt,
		UpdatedAt: conv.UpdatedAt,
	}
}

// NewConversationList maps conversations.
func NewConversationList(conversations []*conversation.Conversation) ListResponse[ConversationResponse] {
	out := make([]ConversationResponse, 0, len(conversations))
	for _, conv := range conversations {
		out = append(out, NewConversationResponse(conv))
	}
	return NewList(out)
}

// MessageResponse is one stored message.
type MessageResponse struct {
	ID             string         `json:"id"`
	ConversationID string         `json:"conversationId"`
	Role           string         `json:"role" example:"assistant"`
	Content        string         `json:"content"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
}

// NewMessageList maps messages, preserving their order.
func NewMessageList(messages []*conversation.Message) ListResponse[MessageResponse] {
	out := make([]MessageResponse, 0, len(messages))
	for _, msg := range messages {
		out = append(out, MessageResponse{
			ID:             msg.PublicID,
			ConversationID: msg.ConversationID,
			Role:           string(msg.Role),
			Content:        msg.Content,
			Metadata:       msg.Metadata,
			CreatedAt:      msg.CreatedAt,
		})
	}
	return NewList(out)
}

// MemoryBlockResponse is one agent memory block.
type MemoryBlockResponse struct {
	AgentID   string    `json:"agentId"`
	Label     string    `json:"label" example:"persona"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewMemoryBlockResponse maps a memory block.
func NewMemoryBlockResponse(block *conversation.MemoryBlock) MemoryBlockResponse {
	return MemoryBlockResponse{
		AgentID:   block.AgentID,
		Label:     block.Label,
		Value:     block.Value,
		UpdatedAt: block.UpdatedAt,
	}
}

// NewMemoryList maps memory blocks.
func NewMemoryList(blocks []*conversation.MemoryBlock) ListResponse[MemoryBlockResponse] {
	out := make([]MemoryBlockResponse, 0, len(blocks))
	for _, block := range blocks {
		out = append(out, NewMemoryBlockResponse(block))
	}
	return NewList(out)
}

// SetMemoryRequest is the body of the memory upsert endpoint.
type SetMemoryRequest struct {
	Value *string `json:"value" binding:"required"`
}
