package memory

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/janhq/jan-agent-gateway/internal/domain/conversation"
	"github.com/janhq/jan-agent-gateway/internal/infrastructure/database/entities"
	"github.com/janhq/jan-agent-gateway/internal/utils/platformerrors"
)

var agentLabelColumns = []clause.Column{{Name: "agent_id"}, {Name: "label"}}

// Repository persists agent memory blocks.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a memory block repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Upsert writes the block, overwriting the value of an existing (agent, label) pair.
func (r *Repository) Upsert(ctx context.Context, agentID, label, value string) (*domain.MemoryBlock, error) {
	now := r.db.NowFunc()
	row := &entities.MemoryBlock{
		AgentID:   agentID,
		Label:     label,
		Value:     value,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   agentLabelColumns,
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(row).Error; err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to upsert memory block",
			err,
		)
	}

	return r.Get(ctx, agentID, label)
}

// Seed inserts the block unless the (agent, label) pair already exists.
func (r *Repository) Seed(ctx context.Context, agentID, label, value string) error {
	row := &entities.MemoryBlock{
		AgentID: agentID,
		Label:   label,
		Value:   value,
	}

	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   agentLabelColumns,
			DoNothing: true,
		}).
		Create(row).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to seed memory block",
			err,
		)
	}
	return nil
}

// ListByAgent returns the agent's blocks ordered by label.
func (r *Repository) ListByAgent(ctx context.Context, agentID string) ([]*domain.MemoryBlock, error) {
	var rows []entities.MemoryBlock
	if err := r.db.WithContext(ctx).
		Where("agent_id = ?", agentID).
		Order("label ASC").
		Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list memory blocks",
			err,
		)
	}

	result := make([]*domain.MemoryBlock, len(rows))
	for i := range rows {
		result[i] = rows[i].EtoD()
	}
	return result, nil
}

// Get fetches a single block.
func (r *Repository) Get(ctx context.Context, agentID, label string) (*domain.MemoryBlock, error) {
	var row entities.MemoryBlock
	if err := r.db.WithContext(ctx).
		Where("agent_id = ? AND label = ?", agentID, label).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound,
				fmt.Sprintf("memory block not found: %s/%s", agentID, label),
				nil,
			)
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to fetch memory block",
			err,
		)
	}
	return row.EtoD(), nil
}
