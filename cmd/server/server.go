package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/janhq/jan-agent-gateway/internal/config"
	"github.com/janhq/jan-agent-gateway/internal/infrastructure/logger"
	"github.com/janhq/jan-agent-gateway/internal/infrastructure/observability"
	"github.com/janhq/jan-agent-gateway/internal/interfaces/httpserver"
)

// @title Jan Agent Gateway API
// @version 1.0
// @description Runs tool-calling agents against a local or hosted model runtime.
// @BasePath /
type Application struct {
	httpServer *httpserver.HttpServer
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HttpServer, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		log:        log,
	}
}

func (a *Application) Start(ctx context.Context) error {
	return a.httpServer.Run(ctx)
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	db, err := newGormDB(ctx, newDatabaseConfig(cfg), log)
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}

	agents, err := newAgentRegistry(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("load agents")
	}

	provider, err := newModelProvider(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize model provider")
	}

	tools, err := newToolRegistry(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize function executors")
	}

	locks, closeLocks, err := newLockBackend(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize conversation locks")
	}
	defer closeLocks()

	orchestrator := newOrchestrator(cfg, provider, log)
	chatService, err := newChatService(ctx, cfg, log, db, agents, provider, tools, orchestrator, locks)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize chat service")
	}

	checker := newHealthChecker(db, provider, locks)

	httpServer := httpserver.New(cfg, log, chatService, checker)
	app := NewApplication(httpServer, log)

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
