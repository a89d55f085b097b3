//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"github.com/rs/zerolog"

	"github.com/janhq/jan-agent-gateway/internal/config"
	"github.com/janhq/jan-agent-gateway/internal/domain/chat"
	"github.com/janhq/jan-agent-gateway/internal/domain/health"
	"github.com/janhq/jan-agent-gateway/internal/interfaces/httpserver"
	"github.com/janhq/jan-agent-gateway/internal/interfaces/httpserver/handlers"
)

var chatSet = wire.NewSet(
	newAgentRegistry,
	newModelProvider,
	newToolRegistry,
	newLockBackend,
	newOrchestrator,
	newChatService,
	wire.Bind(new(handlers.ChatService), new(*chat.Service)),
)

var serverSet = wire.NewSet(
	newHealthChecker,
	wire.Bind(new(handlers.StatusChecker), new(*health.Checker)),
	httpserver.New,
	NewApplication,
)

// BuildApplication assembles the gateway with Wire. main builds the same
// graph by hand.
func BuildApplication(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Application, func(), error) {
	wire.Build(
		newDatabaseConfig,
		newGormDB,
		chatSet,
		serverSet,
	)
	return nil, nil, nil
}
