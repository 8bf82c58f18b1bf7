package factory

import (
	"fmt"

	"ai-editor-be/pkg/completion"
	"ai-editor-be/pkg/completion/ollama"
	"ai-editor-be/pkg/completion/openaicompat"
)

func NewProvider(providerType, baseURL, apiKey, modelName string) (completion.Provider, error) {
	switch providerType {
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	case "openai", "openai-compatible", "huggingface":
		return openaicompat.NewProvider(apiKey, baseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported completion provider: %s", providerType)
	}
}
