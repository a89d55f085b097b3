package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/janhq/jan-agent-gateway/internal/domain/conversation"
	"github.com/janhq/jan-agent-gateway/internal/utils/platformerrors"
)

// SeedMemory writes every agent's initial memory blocks that do not exist yet.
// Values changed at runtime are left untouched.
func (s *Service) SeedMemory(ctx context.Context) error {
	seeded := 0
	for _, def := range s.agents.List() {
		for _, block := range def.MemoryBlocks {
			if err := s.memory.Seed(ctx, def.ID, block.Label, block.Value); err != nil {
				return platformerrors.AsError(ctx, platformerrors.LayerDomain, err,
					fmt.Sprintf("failed to seed memory block %s/%s", def.ID, block.Label))
			}
			seeded++
		}
	}
	s.log.Info().Int("blocks", seeded).Int("agents", s.agents.Len()).Msg("agent memory seeded")
	return nil
}

// ListMemory returns the agent's memory blocks.
func (s *Service) ListMemory(ctx context.Context, agentID string) ([]*conversation.MemoryBlock, error) {
	def, err := s.Agent(ctx, agentID)
	if err != nil {
		return nil, err
	}
	blocks, err := s.memory.ListByAgent(ctx, def.ID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to list memory blocks")
	}
	return blocks, nil
}

// SetMemory creates or overwrites one memory block of the agent.
func (s *Service) SetMemory(ctx context.Context, agentID, label, value string) (*conversation.MemoryBlock, error) {
	def, err := s.Agent(ctx, agentID)
	if err != nil {
		return nil, err
	}

	if label != strings.TrimSpace(label) || s.validate.Var(label, "required,max=128,printascii") != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"label must be 1 to 128 printable ASCII characters without surrounding spaces", nil)
	}

	block, err := s.memory.Upsert(ctx, def.ID, label, value)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to store memory block")
	}
	return block, nil
}
