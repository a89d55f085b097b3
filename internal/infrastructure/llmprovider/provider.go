// Package llmprovider adapts concrete model runtimes to llm.Provider.
package llmprovider

import (
	"fmt"
	"net/http"

	"github.com/janhq/jan-agent-gateway/internal/config"
	"github.com/janhq/jan-agent-gateway/internal/domain/llm"
)

// New selects the runtime adapter named by MODEL_PROVIDER.
func New(cfg *config.Config, httpClient *http.Client) (llm.Provider, error) {
	switch cfg.ModelProvider {
	case config.ProviderOllama:
		return NewOllamaProvider(cfg.OllamaURL, httpClient, cfg.ContextLength)
	case config.ProviderOpenAI:
		return NewOpenAIProvider(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, httpClient), nil
	default:
		return nil, fmt.Errorf("unsupported model provider %q", cfg.ModelProvider)
	}
}
