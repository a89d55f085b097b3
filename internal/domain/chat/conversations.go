package chat

import (
	"context"

	"github.com/janhq/jan-agent-gateway/internal/domain/conversation"
	"github.com/janhq/jan-agent-gateway/internal/utils/platformerrors"
)

// ListConversations returns the agent's conversations, most recent first.
func (s *Service) ListConversations(ctx context.Context, agentID string, limit int) ([]*conversation.Conversation, error) {
	def, err := s.Agent(ctx, agentID)
	if err != nil {
		return nil, err
	}
	conversations, err := s.conversations.ListByAgent(ctx, def.ID, limit)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to list conversations")
	}
	return conversations, nil
}

// GetConversation fetches a conversation by its public id.
func (s *Service) GetConversation(ctx context.Context, conversationID string) (*conversation.Conversation, error) {
	conv, err := s.conversations.FindByPublicID(ctx, conversationID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to load conversation")
	}
	return conv, nil
}

// ListMessages returns up to limit of the newest messages, oldest first.
func (s *Service) ListMessages(ctx context.Context, conversationID string, limit int) ([]*conversation.Message, error) {
	messages, err := s.messages.ListRecent(ctx, conversationID, limit)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to list messages")
	}
	return messages, nil
}

// DeleteConversation removes a conversation and its messages. It waits for
// any turn in flight on the same conversation.
func (s *Service) DeleteConversation(ctx context.Context, conversationID string) error {
	unlock, err := s.lock(ctx, conversationID)
	if err != nil {
		return err
	}
	defer unlock()

	if err := s.conversations.Delete(ctx, conversationID); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to delete conversation")
	}
	return nil
}
