package main

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/janhq/jan-agent-gateway/internal/config"
	"github.com/janhq/jan-agent-gateway/internal/domain/agent"
	"github.com/janhq/jan-agent-gateway/internal/domain/chat"
	"github.com/janhq/jan-agent-gateway/internal/domain/conversation"
	"github.com/janhq/jan-agent-gateway/internal/domain/health"
	"github.com/janhq/jan-agent-gateway/internal/domain/llm"
	"github.com/janhq/jan-agent-gateway/internal/domain/tool"
	"github.com/janhq/jan-agent-gateway/internal/infrastructure/database"
	"github.com/janhq/jan-agent-gateway/internal/infrastructure/functions/github"
	"github.com/janhq/jan-agent-gateway/internal/infrastructure/functions/linear"
	"github.com/janhq/jan-agent-gateway/internal/infrastructure/llmprovider"
	"github.com/janhq/jan-agent-gateway/internal/infrastructure/lock"
	"github.com/janhq/jan-agent-gateway/internal/infrastructure/logger"
	"github.com/janhq/jan-agent-gateway/internal/infrastructure/metrics"
	"github.com/janhq/jan-agent-gateway/internal/infrastructure/observability"
	convrepo "github.com/janhq/jan-agent-gateway/internal/infrastructure/repository/conversation"
	memoryrepo "github.com/janhq/jan-agent-gateway/internal/infrastructure/repository/memory"
)

func newDatabaseConfig(cfg *config.Config) database.Config {
	return database.Config{
		DSN:             cfg.DatabaseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	}
}

func newGormDB(ctx context.Context, cfg database.Config, log zerolog.Logger) (*gorm.DB, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(ctx, db, log); err != nil {
		return nil, err
	}
	return db, nil
}

func newAgentRegistry(cfg *config.Config, log zerolog.Logger) (*agent.Registry, error) {
	registry, err := agent.LoadDir(cfg.AgentsDir)
	if err != nil {
		return nil, err
	}
	log.Info().Str("dir", cfg.AgentsDir).Int("agents", registry.Len()).Msg("agents loaded")
	return registry, nil
}

func newModelProvider(cfg *config.Config) (llm.Provider, error) {
	return llmprovider.New(cfg, &http.Client{Timeout: cfg.ModelTimeout})
}

func newToolRegistry(cfg *config.Config) (*tool.Registry, error) {
	githubExecutor, err := github.New(cfg.GitHubAPIURL, cfg.FunctionHTTPTimeout)
	if err != nil {
		return nil, err
	}
	linearExecutor, err := linear.New(cfg.LinearAPIURL, cfg.FunctionHTTPTimeout)
	if err != nil {
		return nil, err
	}
	return tool.NewRegistry(githubExecutor, linearExecutor)
}

// lockBackend is the conversation locker plus its reachability probe, which
// is nil for in-process locks.
type lockBackend struct {
	Locker conversation.Locker
	Ping   health.Probe
}

func newLockBackend(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*lockBackend, func(), error) {
	if !cfg.SerializeConversations {
		log.Warn().Msg("conversation serialization disabled")
		return &lockBackend{Locker: lock.NopLocker{}}, func() {}, nil
	}
	if cfg.RedisURL == "" {
		return &lockBackend{Locker: lock.NewLocalLocker()}, func() {}, nil
	}
	redisLocker, err := lock.NewRedisLocker(ctx, cfg.RedisURL, cfg.ConversationLockTTL, log)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := redisLocker.Close(); err != nil {
			log.Error().Err(err).Msg("close redis")
		}
	}
	return &lockBackend{Locker: redisLocker, Ping: redisLocker.Ping}, cleanup, nil
}

func newOrchestrator(cfg *config.Config, provider llm.Provider, log zerolog.Logger) *tool.Orchestrator {
	return tool.NewOrchestrator(provider, tool.Options{
		MaxIterations: cfg.MaxToolIterations,
		ToolTimeout:   cfg.ToolTimeout,
		Hook: tool.Hooks{
			logger.NewToolHook(log),
			metrics.NewHook(provider.Name()),
			observability.NewTracingHook(nil),
		},
	})
}

func newChatService(
	ctx context.Context,
	cfg *config.Config,
	log zerolog.Logger,
	db *gorm.DB,
	agents *agent.Registry,
	provider llm.Provider,
	tools *tool.Registry,
	orchestrator *tool.Orchestrator,
	locks *lockBackend,
) (*chat.Service, error) {
	service := chat.NewService(chat.Dependencies{
		Agents:        agents,
		Conversations: convrepo.NewRepository(db),
		Messages:      convrepo.NewMessageRepository(db),
		Memory:        memoryrepo.NewRepository(db),
		Locker:        locks.Locker,
		Provider:      provider,
		Tools:         tools,
		Orchestrator:  orchestrator,
		Credentials:   tool.Credentials(cfg.Credentials()),
	}, chat.Config{
		DefaultModel:  cfg.DefaultModel,
		HistoryLimit:  cfg.HistoryLimit,
		ContextLength: cfg.ContextLength,
	}, log)

	if err := service.SeedMemory(ctx); err != nil {
		return nil, err
	}
	return service, nil
}

func newHealthChecker(db *gorm.DB, provider llm.Provider, locks *lockBackend) *health.Checker {
	checker := health.NewChecker(0).
		Register("model_runtime", provider.Ping).
		Register("store", func(ctx context.Context) error { return database.Ping(ctx, db) })
	if locks.Ping != nil {
		checker.Register("redis", locks.Ping)
	}
	return checker
}
