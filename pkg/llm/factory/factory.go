package factory

import (
	"ai-assistant-be/internal/apperror"
	"ai-assistant-be/pkg/llm"
	"ai-assistant-be/pkg/llm/gemini"
	"ai-assistant-be/pkg/llm/huggingface"
	"ai-assistant-be/pkg/llm/ollama"
)

// NewLLMProvider selects the generation backend. Gemini needs an API key,
// ollama a reachable base URL, huggingface takes both (key optional for
// self-hosted routers). The apiKey and baseURL arguments belong to whichever
// provider is selected.
func NewLLMProvider(providerType, modelName, apiKey, baseURL string) (llm.LLMProvider, error) {
	switch providerType {
	case "gemini":
		if apiKey == "" {
			return nil, apperror.NewConfiguration("gemini provider requires GOOGLE_API_KEY", nil)
		}
		return gemini.NewGeminiProvider(apiKey, modelName), nil
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	case "huggingface":
		return huggingface.NewHuggingFaceProvider(apiKey, baseURL, modelName), nil
	default:
		return nil, apperror.NewConfiguration("unsupported LLM provider: "+providerType, nil)
	}
}
