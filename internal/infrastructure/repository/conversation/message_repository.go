package conversation

import (
	"context"
	"fmt"
	"slices"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	domain "github.com/janhq/jan-agent-gateway/internal/domain/conversation"
	"github.com/janhq/jan-agent-gateway/internal/infrastructure/database/entities"
	"github.com/janhq/jan-agent-gateway/internal/utils/platformerrors"
)

// MessageRepository persists conversation messages.
type MessageRepository struct {
	db *gorm.DB
}

// NewMessageRepository constructs the message repository.
func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Append inserts a message and bumps the owning conversation's updated_at in
// the same transaction.
func (r *MessageRepository) Append(ctx context.Context, conversationID string, role domain.Role, content string, metadata map[string]any) (*domain.Message, error) {
	if !role.Valid() {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeValidation,
			fmt.Sprintf("role %q cannot be persisted", role),
			nil,
		)
	}

	var created *entities.Message
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		conv, err := findConversation(ctx, tx, conversationID)
		if err != nil {
			return err
		}

		now := tx.NowFunc()
		row := &entities.Message{
			PublicID:       newPublicID("msg"),
			ConversationID: conv.ID,
			Role:           string(role),
			Content:        content,
			CreatedAt:      now,
		}
		if len(metadata) > 0 {
			row.Metadata = datatypes.JSONMap(metadata)
		}
		if err := tx.Create(row).Error; err != nil {
			return platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeDatabaseError,
				"failed to append message",
				err,
			)
		}

		if err := tx.Model(&entities.Conversation{}).
			Where("id = ?", conv.ID).
			Update("updated_at", now).Error; err != nil {
			return platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeDatabaseError,
				"failed to touch conversation",
				err,
			)
		}

		created = row
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created.EtoD(conversationID), nil
}

// ListRecent returns the newest limit messages ordered oldest first. A
// non-positive limit returns the whole log.
func (r *MessageRepository) ListRecent(ctx context.Context, conversationID string, limit int) ([]*domain.Message, error) {
	conv, err := findConversation(ctx, r.db, conversationID)
	if err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx).
		Where("conversation_id = ?", conv.ID).
		Order("created_at DESC").
		Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []entities.Message
	if err := query.Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list messages",
			err,
		)
	}
	slices.Reverse(rows)

	result := make([]*domain.Message, len(rows))
	for i := range rows {
		result[i] = rows[i].EtoD(conversationID)
	}
	return result, nil
}
