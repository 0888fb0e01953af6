package llm

import (
	"fmt"

	"github.com/healthcase/symptom-checker/internal/config"
)

// New selects the backend from configuration. Callers only ever see the
// Client interface, so swapping providers never touches caller code.
func New(env *config.EnvVars) (Client, error) {
	switch env.LLMProvider {
	case config.ProviderOpenRouter:
		if env.APIKey == "" {
			return nil, config.ErrMissingAPIKey
		}
		return NewOpenRouterClient(env.LLMBaseURL, env.APIKey, env.LLMModel, env.LLMTimeout), nil

	case config.ProviderOpenAI:
		if env.APIKey == "" {
			return nil, config.ErrMissingAPIKey
		}
		return NewOpenAIClient(env.LLMBaseURL, env.APIKey, env.LLMModel, env.LLMTimeout), nil

	case config.ProviderStub:
		return NewStubClient(), nil

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", env.LLMProvider)
	}
}
