package conversation

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "github.com/janhq/jan-agent-gateway/internal/domain/conversation"
	"github.com/janhq/jan-agent-gateway/internal/infrastructure/database"
	"github.com/janhq/jan-agent-gateway/internal/infrastructure/database/entities"
	"github.com/janhq/jan-agent-gateway/internal/utils/platformerrors"
)

const defaultListLimit = 50

// Repository persists conversation metadata.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a conversation repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func newPublicID(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, uuid.NewString())
}

// Create inserts a new conversation owned by agentID.
func (r *Repository) Create(ctx context.Context, agentID string, title *string) (*domain.Conversation, error) {
	entity := &entities.Conversation{
		PublicID: newPublicID("conv"),
		AgentID:  agentID,
		Title:    title,
	}

	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to create conversation",
			err,
		)
	}

	return entity.EtoD(), nil
}

// FindByPublicID fetches a conversation by its public ID.
func (r *Repository) FindByPublicID(ctx context.Context, publicID string) (*domain.Conversation, error) {
	entity, err := findConversation(ctx, r.db, publicID)
	if err != nil {
		return nil, err
	}
	return entity.EtoD(), nil
}

// ListByAgent returns the agent's conversations, most recently active first.
func (r *Repository) ListByAgent(ctx context.Context, agentID string, limit int) ([]*domain.Conversation, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	var rows []entities.Conversation
	if err := r.db.WithContext(ctx).
		Where("agent_id = ?", agentID).
		Order("updated_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list conversations",
			err,
		)
	}

	result := make([]*domain.Conversation, len(rows))
	for i := range rows {
		result[i] = rows[i].EtoD()
	}
	return result, nil
}

// Delete removes the conversation and, explicitly and through the foreign
// key, every message that belongs to it.
func (r *Repository) Delete(ctx context.Context, publicID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		entity, err := findConversation(ctx, tx, publicID)
		if err != nil {
			return err
		}

		if err := tx.Where("conversation_id = ?", entity.ID).Delete(&entities.Message{}).Error; err != nil {
			return platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeDatabaseError,
				"failed to delete conversation messages",
				err,
			)
		}
		if err := tx.Delete(&entities.Conversation{}, entity.ID).Error; err != nil {
			return platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeDatabaseError,
				"failed to delete conversation",
				err,
			)
		}
		return nil
	})
}

// Ping checks that the store is reachable.
func (r *Repository) Ping(ctx context.Context) error {
	return database.Ping(ctx, r.db)
}

func findConversation(ctx context.Context, db *gorm.DB, publicID string) (*entities.Conversation, error) {
	var entity entities.Conversation
	if err := db.WithContext(ctx).
		Where("public_id = ?", publicID).
		First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound,
				fmt.Sprintf("conversation not found: %s", publicID),
				nil,
			)
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to fetch conversation",
			err,
		)
	}
	return &entity, nil
}
