package factory

import (
	"ai-legalcouncil-be/pkg/llm"
	"ai-legalcouncil-be/pkg/llm/deepseek"
	"ai-legalcouncil-be/pkg/llm/ollama"
	"fmt"
)

// NewLLMProvider selects the chat backend from configuration. baseURL is the
// endpoint of the selected backend; empty picks that backend's default. The
// rest of the system treats both backends as equivalent behind
// llm.LLMProvider. A missing cloud credential is a configuration fault and
// fails construction.
func NewLLMProvider(providerType, modelName, baseURL, apiKey string) (llm.LLMProvider, error) {
	switch providerType {
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	case "deepseek":
		if apiKey == "" {
			return nil, fmt.Errorf("deepseek provider requires an API key")
		}
		return deepseek.NewDeepSeekProvider(baseURL, apiKey, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
