package llm

import (
	"fmt"
	"strings"

	"algotix/internal/config"
)

// New selects the text-generation strategy once, from configuration. A
// provider without a credential falls back to the simulated generator;
// remote providers are wrapped with the retry policy.
func New(cfg *config.Config) (Client, error) {
	policy := RetryPolicy{MaxAttempts: cfg.LLMMaxAttempts, InitialDelay: cfg.LLMInitialDelay}

	switch config.LLMProvider(strings.ToLower(string(cfg.LLMProvider))) {
	case config.ProviderGemini, "":
		if cfg.GeminiAPIKey == "" {
			return NewSimulated(cfg.SimulatedDelay), nil
		}
		return WithRetry(NewGemini(cfg.GeminiAPIKey, cfg.GeminiBaseURL, cfg.GeminiModel, cfg.LLMTimeout), policy), nil
	case config.ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return NewSimulated(cfg.SimulatedDelay), nil
		}
		return WithRetry(NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, nil), policy), nil
	case config.ProviderYandex:
		if cfg.YandexOAuthToken == "" || cfg.YandexFolderID == "" {
			return NewSimulated(cfg.SimulatedDelay), nil
		}
		ya, err := NewYandex(cfg.YandexOAuthToken, cfg.YandexFolderID)
		if err != nil {
			return nil, err
		}
		return WithRetry(ya, policy), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.LLMProvider)
	}
}

// IsSimulated reports whether c answers from the canned set.
func IsSimulated(c Client) bool {
	_, ok := c.(*SimulatedGenerator)
	return ok
}
