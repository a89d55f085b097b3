package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/jan-agent-gateway/internal/infrastructure/database/entities"
	"github.com/janhq/jan-agent-gateway/internal/infrastructure/database/sqlitetest"
	"github.com/janhq/jan-agent-gateway/internal/utils/platformerrors"
)

func TestUpsertOverwrites(t *testing.T) {
	ctx := context.Background()
	db := sqlitetest.New(t)
	repo := NewRepository(db)

	block, err := repo.Upsert(ctx, "agent", "persona", "terse")
	require.NoError(t, err)
	assert.Equal(t, "terse", block.Value)

	block, err = repo.Upsert(ctx, "agent", "persona", "verbose")
	require.NoError(t, err)
	assert.Equal(t, "verbose", block.Value)

	var count int64
	require.NoError(t, db.Model(&entities.MemoryBlock{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSeedKeepsExistingValue(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(sqlitetest.New(t))

	require.NoError(t, repo.Seed(ctx, "agent", "goals", "initial"))
	_, err := repo.Upsert(ctx, "agent", "goals", "edited")
	require.NoError(t, err)
	require.NoError(t, repo.Seed(ctx, "agent", "goals", "initial"))

	block, err := repo.Get(ctx, "agent", "goals")
	require.NoError(t, err)
	assert.Equal(t, "edited", block.Value)
}

func TestListByAgentIsScoped(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(sqlitetest.New(t))

	_, err := repo.Upsert(ctx, "a", "zeta", "1")
	require.NoError(t, err)
	_, err = repo.Upsert(ctx, "a", "alpha", "2")
	require.NoError(t, err)
	_, err = repo.Upsert(ctx, "b", "alpha", "3")
	require.NoError(t, err)

	blocks, err := repo.ListByAgent(ctx, "a")
	require.NoError(t, err)
	require.Len(t, blocks, 2)
	assert.Equal(t, "alpha", blocks[0].Label)
	assert.Equal(t, "zeta", blocks[1].Label)

	_, err = repo.Get(ctx, "a", "missing")
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))
}
