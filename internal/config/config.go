package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Memory   MemoryConfig
	Vector   VectorConfig
	User     UserConfig
	Ai       AIConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
}

type DatabaseConfig struct {
	Driver     string // "sqlite" or "postgres"
	Path       string // sqlite file path
	Connection string // postgres DSN, used when Driver is postgres
}

type MemoryConfig struct {
	Backend string // "db" (relational) or "file" (one JSON document per session)
	Path    string // directory for the file backend
}

type VectorConfig struct {
	Backend    string // "embedded" (portable, in-process similarity) or "pgvector"
	Collection string
}

type UserConfig struct {
	Name    string
	Persona string
}

type AIConfig struct {
	GoogleAPIKey       string
	HuggingFaceAPIKey  string
	ChatModel          string
	EmbeddingModel     string
	LLMProvider        string // "gemini", "ollama" or "huggingface"
	EmbeddingProvider  string // "gemini" or "ollama"
	OllamaBaseURL      string
	OllamaChatModel    string
	OllamaEmbedModel   string
	HuggingFaceModel   string
	RateLimitSeconds   int
	HistoryLimit       int
	RetrievalTopK      int
	RetrievalThreshold float64
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		},
		Database: DatabaseConfig{
			Driver:     getEnv("DB_DRIVER", "sqlite"),
			Path:       getEnv("DB_PATH", "./data/assistant.db"),
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Memory: MemoryConfig{
			Backend: getEnv("MEMORY_BACKEND", "db"),
			Path:    getEnv("MEMORY_PATH", "./data/memory"),
		},
		Vector: VectorConfig{
			Backend:    getEnv("VECTOR_BACKEND", "embedded"),
			Collection: getEnv("VECTOR_COLLECTION", "assistant"),
		},
		User: UserConfig{
			Name:    getEnv("USER_NAME", "User"),
			Persona: getEnv("USER_PERSONA", ""),
		},
		Ai: AIConfig{
			GoogleAPIKey:       getEnv("GOOGLE_API_KEY", ""),
			HuggingFaceAPIKey:  getEnv("HUGGINGFACE_API_KEY", ""),
			ChatModel:          getEnv("GOOGLE_AI_MODEL", "gemini-2.5-flash"),
			EmbeddingModel:     getEnv("EMBEDDING_MODEL", "models/embedding-001"),
			LLMProvider:        getEnv("LLM_PROVIDER", "gemini"),
			EmbeddingProvider:  getEnv("EMBEDDING_PROVIDER", "gemini"),
			OllamaBaseURL:      getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaChatModel:    getEnv("OLLAMA_MODEL", "llama3"),
			OllamaEmbedModel:   getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			HuggingFaceModel:   getEnv("HUGGINGFACE_MODEL", "meta-llama/Llama-3.1-8B-Instruct"),
			RateLimitSeconds:   getEnvAsInt("RATE_LIMIT_SECONDS", 60),
			HistoryLimit:       getEnvAsInt("HISTORY_LIMIT", 10),
			RetrievalTopK:      getEnvAsInt("RETRIEVAL_TOP_K", 3),
			RetrievalThreshold: getEnvAsFloat("RETRIEVAL_THRESHOLD", 0.5),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}
