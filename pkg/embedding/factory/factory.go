package factory

import (
	"fmt"

	"ai-assistant-be/internal/apperror"
	"ai-assistant-be/pkg/embedding"
)

// NewEmbeddingProvider selects an embedding backend by name.
// Supported: "gemini" (default), "ollama".
func NewEmbeddingProvider(providerType string, model string, apiKey string, baseURL string) (embedding.Provider, error) {
	switch providerType {
	case "gemini", "":
		if apiKey == "" {
			return nil, apperror.NewConfiguration("gemini embeddings require GOOGLE_API_KEY", nil)
		}
		return embedding.NewGeminiProvider(apiKey, model), nil
	case "ollama":
		return embedding.NewOllamaProvider(baseURL, model), nil
	default:
		return nil, apperror.NewConfiguration(fmt.Sprintf("unsupported embedding provider: %s", providerType), nil)
	}
}
