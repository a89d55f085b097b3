package handlers

import (
	"github.com/rs/zerolog"
)

// Provider wires all HTTP handlers for dependency injection.
type Provider struct {
	Agent        *AgentHandler
	Chat         *ChatHandler
	Conversation *ConversationHandler
	Memory       *MemoryHandler
	Status       *StatusHandler
}

// NewProvider constructs the handler provider with domain services.
func NewProvider(service ChatService, checker StatusChecker, log zerolog.Logger) *Provider {
	return &Provider{
		Agent:        NewAgentHandler(service, log),
		Chat:         NewChatHandler(service, log),
		Conversation: NewConversationHandler(service, log),
		Memory:       NewMemoryHandler(service, log),
		Status:       NewStatusHandler(checker),
	}
}
